package publishers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg Config, log Logger) (Publisher, error)

// Registry maps publisher types to builders. It is filled before use and
// read-only afterwards.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry holding builders, keyed by lower-cased type.
func NewRegistry(builders map[string]Builder) *Registry {
	r := &Registry{builders: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		typ = strings.ToLower(strings.TrimSpace(typ))
		if typ != "" && b != nil {
			r.builders[typ] = b
		}
	}
	return r
}

// DefaultRegistry knows the queue, http and s3 publisher types.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Builder{
		TypeQueue: newQueuePublisher,
		TypeHTTP:  newHTTPPublisher,
		TypeS3:    newS3Publisher,
	})
}

// Types lists the registered publisher types in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.builders))
	for typ := range r.builders {
		out = append(out, typ)
	}
	slices.Sort(out)
	return out
}

// PublisherFor builds the publisher described by cfg.
func (r *Registry) PublisherFor(ctx context.Context, cfg Config, log Logger) (Publisher, error) {
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	if typ == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	builder, ok := r.builders[typ]
	if !ok {
		return nil, fmt.Errorf("publisher %q: type %q not registered (known: %s)", cfg.ID, cfg.Type, strings.Join(r.Types(), ", "))
	}
	return builder(ctx, cfg, log)
}

// BuildAll builds every enabled config. A config that fails to build does
// not stop the rest; the failures come back joined next to whatever built.
func BuildAll(ctx context.Context, reg *Registry, cfgs []Config, log Logger) ([]Publisher, error) {
	if reg == nil {
		return nil, errors.New("publisher registry is nil")
	}
	log = ensureLogger(log)

	var (
		pubs []Publisher
		errs []error
	)
	for _, cfg := range cfgs {
		if !cfg.EnabledValue() {
			continue
		}
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			log.ErrorObj("publisher build failed", "publisher_build_failed", map[string]any{
				"publisher_id": cfg.ID,
				"error":        err.Error(),
			})
			errs = append(errs, err)
			continue
		}
		log.DebugObj("publisher ready", "publisher_ready", map[string]any{
			"publisher_id":   pub.ID(),
			"publisher_type": pub.Type(),
		})
		pubs = append(pubs, pub)
	}
	return pubs, errors.Join(errs...)
}
