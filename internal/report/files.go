package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	TextFileName = "daily_news_report.txt"
	HTMLFileName = "daily_news_report.html"
)

// Files are the paths WriteFiles produced.
type Files struct {
	Text string
	HTML string
	// Page is the rendered HTML written to HTML.
	Page []byte
}

// WriteFiles writes the text digest and the HTML digest into dir. The two
// digests may carry different limits.
func WriteFiles(dir string, text, page Digest, renderer *HTMLRenderer, loc *time.Location) (Files, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create report dir: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, text, loc); err != nil {
		return Files{}, fmt.Errorf("render text report: %w", err)
	}
	out := Files{
		Text: filepath.Join(dir, TextFileName),
		HTML: filepath.Join(dir, HTMLFileName),
	}
	if err := os.WriteFile(out.Text, buf.Bytes(), 0o644); err != nil {
		return Files{}, fmt.Errorf("write text report: %w", err)
	}

	if renderer == nil {
		renderer = NewHTMLRenderer(nil, loc)
	}
	htmlBytes, err := renderer.Render(page)
	if err != nil {
		return Files{}, err
	}
	if err := os.WriteFile(out.HTML, htmlBytes, 0o644); err != nil {
		return Files{}, fmt.Errorf("write html report: %w", err)
	}
	out.Page = htmlBytes
	return out, nil
}
