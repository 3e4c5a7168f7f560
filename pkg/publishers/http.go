package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"
)

// httpPublisher sends the digest as a JSON body to a webhook.
type httpPublisher struct {
	id      string
	url     string
	method  string
	headers map[string]string
	client  httpclient.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg Config, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return newHTTPPublisherWithClient(cfg, httpclient.NewRestyClient(timeout), log), nil
}

func newHTTPPublisherWithClient(cfg Config, client httpclient.Client, log Logger) *httpPublisher {
	headers := map[string]string{"Content-Type": "application/json; charset=utf-8"}
	for k, v := range cfg.HTTP.Headers {
		headers[k] = v
	}
	return &httpPublisher{
		id:      cfg.ID,
		url:     cfg.HTTP.URL,
		method:  cfg.HTTP.Method,
		headers: headers,
		client:  client,
		log:     ensureLogger(log),
	}
}

func (p *httpPublisher) ID() string   { return p.id }
func (p *httpPublisher) Type() string { return TypeHTTP }

func (p *httpPublisher) Publish(ctx context.Context, evt DigestEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	resp, err := p.client.Do(ctx, p.method, p.url, body, p.headers)
	if err != nil {
		return fmt.Errorf("http publisher %s: %w", p.id, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return fmt.Errorf("http publisher %s: status %d body: %s", p.id, resp.StatusCode(), snippet)
	}

	p.log.DebugObj("webhook accepted digest", "publisher_http_delivery", map[string]any{
		"publisher_id": p.id,
		"status":       resp.StatusCode(),
	})
	return nil
}
