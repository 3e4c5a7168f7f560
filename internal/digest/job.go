package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/internal/keywords"
	"github.com/Adda-Baaj/tour-sosik/internal/logger"
	"github.com/Adda-Baaj/tour-sosik/internal/report"
	"github.com/Adda-Baaj/tour-sosik/pkg/publishers"
)

// FetchFunc returns the normalized items of one harvest.
type FetchFunc func(ctx context.Context) []domain.NewsItem

// Job fetches, writes the report files and hands the digest to publishers.
type Job struct {
	Pipeline   string
	Keywords   []string
	Fetch      FetchFunc
	Dir        string
	PageLimits report.Limits
	TextLimits report.Limits
	Publishers []publishers.Publisher
	Log        logger.Logger
	Location   *time.Location
	Now        func() time.Time
}

// Result summarises one run.
type Result struct {
	Items int
	Files report.Files
	Event publishers.DigestEvent
}

// Run executes the job once. An interrupted harvest or a report write error
// aborts the run; publish errors are returned after every publisher was tried.
func (j *Job) Run(ctx context.Context) (Result, error) {
	log := j.Log
	if log == nil {
		log = logger.NopLogger{}
	}
	if j.Fetch == nil {
		return Result{}, fmt.Errorf("digest job %q has no fetch function", j.Pipeline)
	}
	loc := j.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	started := now()
	items := j.Fetch(ctx)
	generated := now()
	if err := ctx.Err(); err != nil {
		log.WarnObj("harvest interrupted, digest skipped", "digest_interrupted", map[string]any{
			"pipeline": j.Pipeline,
			"items":    len(items),
			"error":    err.Error(),
		})
		return Result{Items: len(items)}, fmt.Errorf("digest %q interrupted: %w", j.Pipeline, err)
	}

	page := report.Build(j.Pipeline, items, j.Keywords, generated, j.PageLimits)
	text := report.Build(j.Pipeline, items, j.Keywords, generated, j.TextLimits)
	renderer := report.NewHTMLRenderer(keywords.New(j.Keywords...), loc)

	files, err := report.WriteFiles(j.Dir, text, page, renderer, loc)
	if err != nil {
		log.ErrorObj("report write failed", "report_failed", map[string]any{
			"pipeline": j.Pipeline,
			"dir":      j.Dir,
			"error":    err.Error(),
		})
		return Result{Items: len(items)}, err
	}
	log.InfoObj("reports written", "report_done", map[string]any{
		"pipeline":    j.Pipeline,
		"items":       len(items),
		"text_file":   files.Text,
		"html_file":   files.HTML,
		"duration_ms": generated.Sub(started).Milliseconds(),
	})

	evt := publishers.DigestEvent{
		Pipeline:    j.Pipeline,
		GeneratedAt: generated,
		Total:       page.Total,
		Items:       flatten(page),
		HTML:        files.Page,
	}
	res := Result{Items: len(items), Files: files, Event: evt}
	if len(j.Publishers) == 0 {
		return res, nil
	}
	if err := publishers.PublishAll(ctx, j.Publishers, evt, log); err != nil {
		return res, fmt.Errorf("publish digest: %w", err)
	}
	return res, nil
}

// flatten returns the digest's items in report order.
func flatten(d report.Digest) []domain.NewsItem {
	out := make([]domain.NewsItem, 0, d.Total)
	for _, g := range d.Groups {
		out = append(out, g.Items...)
	}
	return out
}
