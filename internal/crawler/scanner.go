package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/keywords"
	"github.com/Adda-Baaj/tour-sosik/internal/logger"
	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"
	"github.com/Adda-Baaj/tour-sosik/pkg/providers"

	"github.com/PuerkitoBio/goquery"
)

const (
	// ScannerID is the fetcher id the scanner registers under; board
	// providers resolve to it through their type.
	ScannerID = providers.ProviderTypeBoard

	// MaxPerSite caps the items accepted from one board page.
	MaxPerSite = 5

	// DefaultTimeout bounds one board page request.
	DefaultTimeout = 15 * time.Second

	maxHTMLBodyBytes = 2 << 20 // 2 MiB
	minAnchorRunes   = 5
)

// Scanner extracts news items from board pages it has no dedicated fetcher
// for, using structural heuristics only.
type Scanner struct {
	client     httpclient.Client
	filter     *keywords.Filter
	log        logger.Logger
	strategies []Strategy
	limit      int
	now        func() time.Time
	loc        *time.Location
}

// Option customises a Scanner.
type Option func(*Scanner)

// WithClock sets the clock used for the placeholder date.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStrategies replaces the row-finding cascade.
func WithStrategies(strategies []Strategy) Option {
	return func(s *Scanner) {
		if len(strategies) > 0 {
			s.strategies = strategies
		}
	}
}

// WithLimit overrides the per-site cap.
func WithLimit(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewScanner creates a Scanner. A nil filter accepts every title.
func NewScanner(client httpclient.Client, filter *keywords.Filter, log logger.Logger, opts ...Option) *Scanner {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &Scanner{
		client:     client,
		filter:     filter,
		log:        log,
		strategies: DefaultStrategies(),
		limit:      MaxPerSite,
		now:        time.Now,
		loc:        SeoulLocation(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultHTTPClient returns the client used for board pages. Certificates are verified.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClient(DefaultTimeout)
}

// SeoulLocation returns Asia/Seoul, or a fixed KST zone when tzdata is missing.
func SeoulLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// ID implements providers.Fetcher.
func (s *Scanner) ID() string {
	return ScannerID
}

// Fetch downloads the board page and extracts up to the per-site cap of
// keyword-matching items.
func (s *Scanner) Fetch(ctx context.Context, cfg providers.Provider) ([]domain.NewsItem, error) {
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("%s provider %q source_url is empty", ScannerID, cfg.ID)
	}

	s.log.DebugObj("scanning board page", "scan_start", map[string]any{
		"provider_id": cfg.ID,
		"url":         cfg.SourceURL,
	})

	resp, err := s.client.Get(ctx, cfg.SourceURL, providers.Headers(cfg))
	if err != nil {
		return nil, providers.TransportError(cfg.ID, fmt.Errorf("fetch %s: %w", cfg.SourceURL, err))
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, providers.StatusError(cfg.ID, resp.StatusCode(), resp.Body())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		s.log.InfoObj("html body truncated", "truncation", map[string]any{
			"provider_id": cfg.ID,
			"url":         cfg.SourceURL,
			"original":    len(body),
			"kept":        maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	var contentType string
	if h := resp.Header(); h != nil {
		contentType = h.Get("Content-Type")
	}
	text, encName, err := httpclient.DecodeHTML(body, contentType)
	if err != nil {
		return nil, providers.EncodingError(cfg.ID, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, providers.ParseError(cfg.ID, fmt.Errorf("parse html: %w", err))
	}

	rows, strategy := CandidateRows(doc, s.strategies)
	if rows.Length() == 0 {
		return nil, providers.ParseError(cfg.ID, fmt.Errorf("no candidate rows on %s", cfg.SourceURL))
	}

	items := Extract(rows, ExtractOptions{
		Source:  cfg.DisplayName(),
		PageURL: cfg.SourceURL,
		Date:    s.now().In(s.loc).Format(domain.DateLayout),
		Filter:  s.filter,
		Limit:   s.limit,
	})

	s.log.DebugObj("board page scanned", "scan_done", map[string]any{
		"provider_id": cfg.ID,
		"strategy":    strategy,
		"encoding":    encName,
		"rows":        rows.Length(),
		"items":       len(items),
	})
	return items, nil
}

// ExtractOptions parameterises Extract.
type ExtractOptions struct {
	Source  string
	PageURL string
	Date    string
	Filter  *keywords.Filter
	Limit   int
}

// Extract turns candidate rows into news items: the longest link in a row is
// its title, titles are cleaned and deduplicated, the filter must accept them
// and collection stops at Limit.
func Extract(rows *goquery.Selection, opts ExtractOptions) []domain.NewsItem {
	seen := make(map[string]struct{})
	var out []domain.NewsItem

	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		anchor, text := TitleAnchor(row)
		if anchor == nil {
			return true
		}
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}

		title := domain.CleanTitle(text)
		if !domain.ValidTitle(title) {
			return true
		}
		if _, dup := seen[title]; dup {
			return true
		}
		if opts.Filter != nil && !opts.Filter.IsRelevant(title) {
			return true
		}
		seen[title] = struct{}{}

		out = append(out, domain.NewsItem{
			Source: opts.Source,
			Title:  title,
			Date:   opts.Date,
			Link:   providers.ResolveURL(href, opts.PageURL),
		})
		return opts.Limit <= 0 || len(out) < opts.Limit
	})
	return out
}

// TitleAnchor picks the anchor with the longest visible text in row, ignoring
// anchors of minAnchorRunes or fewer. The first anchor wins ties.
func TitleAnchor(row *goquery.Selection) (*goquery.Selection, string) {
	var (
		best    *goquery.Selection
		bestTxt string
		bestLen int
	)
	row.Find("a").Each(func(_ int, a *goquery.Selection) {
		txt := domain.CollapseSpace(a.Text())
		n := domain.TitleLength(txt)
		if n <= minAnchorRunes || n <= bestLen {
			return
		}
		best, bestTxt, bestLen = a, txt, n
	})
	return best, bestTxt
}
