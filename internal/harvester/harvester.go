package harvester

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/crawler"
	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/logger"
	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"
	"github.com/Adda-Baaj/tour-sosik/pkg/providers"
)

const (
	DefaultJitterMin = 100 * time.Millisecond
	DefaultJitterMax = 500 * time.Millisecond
)

// DefaultUserAgents are rotated per request.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SourceResult is the outcome of fetching one provider.
type SourceResult struct {
	Provider providers.Provider
	Items    []domain.NewsItem
	Err      error
}

// Harvester fetches every configured provider one after another, pausing a
// random interval between sites, and never fails as a whole.
type Harvester struct {
	registry   providers.FetcherRegistry
	providers  []providers.Provider
	normalize  NormalizeOptions
	log        logger.Logger
	rng        *rand.Rand
	sleep      SleepFunc
	timeout    time.Duration
	jitterMin  time.Duration
	jitterMax  time.Duration
	userAgents []string
}

// Option customises a Harvester.
type Option func(*Harvester)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(h *Harvester) {
		if log != nil {
			h.log = log
		}
	}
}

// WithRand sets the randomness source for jitter and user agent rotation.
func WithRand(r *rand.Rand) Option {
	return func(h *Harvester) {
		if r != nil {
			h.rng = r
		}
	}
}

// WithSleep replaces the pause between sites.
func WithSleep(fn SleepFunc) Option {
	return func(h *Harvester) {
		if fn != nil {
			h.sleep = fn
		}
	}
}

// WithTimeout bounds each provider fetch.
func WithTimeout(d time.Duration) Option {
	return func(h *Harvester) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithJitter sets the range of the pause between sites.
func WithJitter(minDelay, maxDelay time.Duration) Option {
	return func(h *Harvester) {
		if minDelay < 0 {
			minDelay = 0
		}
		if maxDelay < minDelay {
			maxDelay = minDelay
		}
		h.jitterMin, h.jitterMax = minDelay, maxDelay
	}
}

// WithUserAgents sets the user agents rotated across requests.
func WithUserAgents(agents []string) Option {
	return func(h *Harvester) {
		var clean []string
		for _, ua := range agents {
			if ua = strings.TrimSpace(ua); ua != "" {
				clean = append(clean, ua)
			}
		}
		if len(clean) > 0 {
			h.userAgents = clean
		}
	}
}

// WithNormalize overrides how results are normalized.
func WithNormalize(opts NormalizeOptions) Option {
	return func(h *Harvester) {
		h.normalize = opts
	}
}

// New creates a Harvester over list, resolving fetchers through registry.
// Dated results are required unless WithNormalize says otherwise.
func New(registry providers.FetcherRegistry, list []providers.Provider, opts ...Option) *Harvester {
	h := &Harvester{
		registry:   registry,
		providers:  append([]providers.Provider(nil), list...),
		normalize:  NormalizeOptions{RequireDate: true},
		log:        logger.NopLogger{},
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7f4a7c15)),
		sleep:      sleepContext,
		timeout:    providers.DefaultTimeout,
		jitterMin:  DefaultJitterMin,
		jitterMax:  DefaultJitterMax,
		userAgents: DefaultUserAgents,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewForPipeline wires the default fetchers and the board scanner for p.
func NewForPipeline(p Pipeline, log logger.Logger, opts ...Option) *Harvester {
	if log == nil {
		log = logger.NopLogger{}
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = providers.DefaultTimeout
	}

	siteClient := httpclient.NewRestyClient(timeout, httpclient.WithInsecureTLS())
	scanner := crawler.NewScanner(httpclient.NewRestyClient(timeout), p.Filter(), log)
	registry := providers.DefaultFetcherRegistry(siteClient, scanner)

	base := []Option{
		WithLogger(log),
		WithTimeout(timeout),
		WithNormalize(p.NormalizeOptions()),
	}
	return New(registry, p.Providers, append(base, opts...)...)
}

// Providers returns the configured providers in fetch order.
func (h *Harvester) Providers() []providers.Provider {
	return append([]providers.Provider(nil), h.providers...)
}

// FetchAll fetches every provider and returns the normalized items. Failing
// sources contribute nothing; an empty result is valid.
func (h *Harvester) FetchAll(ctx context.Context) []domain.NewsItem {
	results := h.Collect(ctx)
	batches := make([][]domain.NewsItem, 0, len(results))
	for _, r := range results {
		batches = append(batches, r.Items)
	}
	items := Normalize(batches, h.normalize)

	h.log.InfoObj("fetch run finished", "fetch_all_done", map[string]any{
		"sources": len(results),
		"items":   len(items),
	})
	return items
}

// Collect fetches every provider in order and returns one result per
// provider attempted. Cancelling ctx stops before the next provider.
func (h *Harvester) Collect(ctx context.Context) []SourceResult {
	out := make([]SourceResult, 0, len(h.providers))

	for i, cfg := range h.providers {
		if i > 0 {
			if err := h.sleep(ctx, h.pause(h.providers[i-1])); err != nil {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		items, err := h.SafeFetch(ctx, cfg)
		out = append(out, SourceResult{Provider: cfg, Items: items, Err: err})
	}

	return out
}

// SafeFetch runs the fetcher for one provider. Any failure, including a
// panic, is logged and reported as an error with no items.
func (h *Harvester) SafeFetch(ctx context.Context, cfg providers.Provider) (items []domain.NewsItem, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("%s: fetcher panic: %v", cfg.ID, r)
		}
		if err != nil {
			items = nil
			h.log.WarnObj("source fetch failed", "source_fetch_failed", map[string]any{
				"provider_id":   cfg.ID,
				"provider_name": cfg.DisplayName(),
				"error_kind":    string(providers.KindOf(err)),
				"error":         err.Error(),
				"duration_ms":   time.Since(start).Milliseconds(),
			})
			return
		}
		h.log.InfoObj("source fetched", "source_fetched", map[string]any{
			"provider_id": cfg.ID,
			"items":       len(items),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}()

	if h.registry == nil {
		return nil, fmt.Errorf("no fetcher registry configured")
	}
	fetcher, err := h.registry.FetcherFor(cfg)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = h.userAgent()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	return fetcher.Fetch(fetchCtx, cfg)
}

// pause returns the delay after prev: a random jitter, at least prev's own
// request delay.
func (h *Harvester) pause(prev providers.Provider) time.Duration {
	d := h.jitterMin
	if span := h.jitterMax - h.jitterMin; span > 0 {
		d += time.Duration(h.rng.Int64N(int64(span) + 1))
	}
	return max(d, prev.RequestDelay())
}

func (h *Harvester) userAgent() string {
	if len(h.userAgents) == 0 {
		return ""
	}
	return h.userAgents[h.rng.IntN(len(h.userAgents))]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
