package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const maxBodyBytes = 2 << 20 // 2 MiB

var (
	reSeparatedDate = regexp.MustCompile(`(\d{4})\s*[-./]\s*(\d{1,2})\s*[-./]\s*(\d{1,2})`)
	reCompactDate   = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})`)
	reShortYearDate = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2})$`)
	reLeadingDate   = regexp.MustCompile(`^\d{4}\s*[-./]\s*\d{1,2}\s*[-./]\s*\d{1,2}`)
)

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// fetchBody performs a GET and returns the body of a 2xx response.
func fetchBody(ctx context.Context, client HTTPClient, cfg Provider, providerID string) ([]byte, http.Header, error) {
	resp, err := client.Get(ctx, cfg.SourceURL, Headers(cfg))
	if err != nil {
		return nil, nil, TransportError(providerID, fmt.Errorf("fetch %s: %w", cfg.SourceURL, err))
	}
	return checkResponse(resp, providerID)
}

func checkResponse(resp HTTPResponse, providerID string) ([]byte, http.Header, error) {
	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, nil, StatusError(providerID, resp.StatusCode(), body)
	}
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}
	return body, resp.Header(), nil
}

// fetchDocument GETs the provider page, decodes it as UTF-8 and parses it.
func fetchDocument(ctx context.Context, client HTTPClient, cfg Provider, providerID string) (*goquery.Document, error) {
	body, _, err := fetchBody(ctx, client, cfg, providerID)
	if err != nil {
		return nil, err
	}

	text, err := httpclient.DecodeUTF8(body)
	if err != nil {
		return nil, EncodingError(providerID, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, ParseError(providerID, fmt.Errorf("parse html: %w", err))
	}
	return doc, nil
}

// decodeJSON unmarshals a UTF-8 JSON payload.
func decodeJSON(body []byte, providerID string, target any) error {
	text, err := httpclient.DecodeUTF8(body)
	if err != nil {
		return EncodingError(providerID, err)
	}
	if err := json.Unmarshal([]byte(text), target); err != nil {
		return ParseError(providerID, fmt.Errorf("decode json: %w", err))
	}
	return nil
}

// requireRows fails with a parse error when the anchor selector found nothing.
func requireRows(rows *goquery.Selection, providerID, selector string) error {
	if rows.Length() == 0 {
		return ParseError(providerID, fmt.Errorf("selector %q matched no rows", selector))
	}
	return nil
}

// resolveURL resolves a possibly relative URL against a base URL.
func resolveURL(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}

	return baseURL.ResolveReference(parsed).String()
}

// ResolveURL is the exported form used by the generic scanner.
func ResolveURL(raw, base string) string { return resolveURL(raw, base) }

// NormalizeDate turns the date shapes Korean boards print into YYYY-MM-DD.
// Unrecognised or impossible dates yield "".
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var y, m, d string
	switch {
	case reSeparatedDate.MatchString(raw):
		parts := reSeparatedDate.FindStringSubmatch(raw)
		y, m, d = parts[1], parts[2], parts[3]
	case reCompactDate.MatchString(raw):
		parts := reCompactDate.FindStringSubmatch(raw)
		y, m, d = parts[1], parts[2], parts[3]
	case reShortYearDate.MatchString(raw):
		parts := reShortYearDate.FindStringSubmatch(raw)
		y, m, d = "20"+parts[1], parts[2], parts[3]
	default:
		return ""
	}

	t, err := time.Parse("2006-1-2", y+"-"+m+"-"+d)
	if err != nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}

// cellText returns the collapsed text of a selection.
func cellText(sel *goquery.Selection) string {
	return domain.CollapseSpace(sel.Text())
}

// dateAt reads the date from the cell at idx; negative idx counts from the end.
func dateAt(cells *goquery.Selection, idx int) string {
	n := cells.Length()
	if idx < 0 {
		idx = n + idx
	}
	if idx < 0 || idx >= n {
		return ""
	}
	return NormalizeDate(cellText(cells.Eq(idx)))
}

// dateByClass reads the first cell matching selector.
func dateByClass(row *goquery.Selection, selector string) string {
	cell := row.Find(selector).First()
	if cell.Length() == 0 {
		return ""
	}
	return NormalizeDate(cellText(cell))
}

// dateByPattern returns the first cell that holds a date-shaped value.
func dateByPattern(cells *goquery.Selection) string {
	var out string
	cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		txt := cellText(cell)
		if !reLeadingDate.MatchString(txt) {
			return true
		}
		out = NormalizeDate(txt)
		return out == ""
	})
	return out
}

// itemSet collects items for one fetch, cleaning titles and dropping
// duplicates and too-short titles.
type itemSet struct {
	source string
	seen   map[string]struct{}
	items  []domain.NewsItem
}

func newItemSet(source string) *itemSet {
	return &itemSet{source: source, seen: make(map[string]struct{})}
}

// add reports whether the item was kept.
func (s *itemSet) add(rawTitle, date, link string) bool {
	title := domain.CleanTitle(rawTitle)
	if !domain.ValidTitle(title) {
		return false
	}
	if _, dup := s.seen[title]; dup {
		return false
	}
	s.seen[title] = struct{}{}
	s.items = append(s.items, domain.NewsItem{
		Source: s.source,
		Title:  title,
		Date:   date,
		Link:   link,
	})
	return true
}

func (s *itemSet) list() []domain.NewsItem {
	return s.items
}
