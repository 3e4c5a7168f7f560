package publishers

import (
	"context"
	"errors"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/logger"
)

// Logger is the structured logger publishers report through.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}

// DigestEvent is one digest run handed to every publisher.
type DigestEvent struct {
	Pipeline    string            `json:"pipeline"`
	GeneratedAt time.Time         `json:"generated_at"`
	Total       int               `json:"total"`
	Items       []domain.NewsItem `json:"items"`
	// HTML is the rendered report; only object-store publishers upload it.
	HTML []byte `json:"-"`
}

// Publisher delivers digests to one destination.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt DigestEvent) error
}

// PublishAll sends evt to every publisher. One failing destination does not
// stop the others; all failures are returned joined.
func PublishAll(ctx context.Context, pubs []Publisher, evt DigestEvent, log Logger) error {
	log = ensureLogger(log)

	var errs []error
	for _, p := range pubs {
		if err := p.Publish(ctx, evt); err != nil {
			log.ErrorObj("digest publish failed", "publish_failed", map[string]any{
				"publisher_id":   p.ID(),
				"publisher_type": p.Type(),
				"error":          err.Error(),
			})
			errs = append(errs, err)
			continue
		}
		log.InfoObj("digest published", "publish_done", map[string]any{
			"publisher_id":   p.ID(),
			"publisher_type": p.Type(),
			"items":          evt.Total,
		})
	}
	return errors.Join(errs...)
}
