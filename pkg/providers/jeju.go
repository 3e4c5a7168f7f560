package providers

import (
	"context"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	jejuProviderID = "jeju"
	jejuRows       = ".Ttable_wrap.notice table tbody tr"
)

// jejuFetcher scrapes the Jeju Tourism Organization notice board.
type jejuFetcher struct {
	client HTTPClient
}

// NewJejuFetcher builds a fetcher for Jeju tourism notices.
func NewJejuFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &jejuFetcher{client: client}
}

func (f *jejuFetcher) ID() string {
	return jejuProviderID
}

func (f *jejuFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, jejuProviderID); err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, cfg, jejuProviderID)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(jejuRows)
	if err := requireRows(rows, jejuProviderID, jejuRows); err != nil {
		return nil, err
	}

	set := newItemSet(cfg.DisplayName())
	rows.Each(func(_ int, row *goquery.Selection) {
		a := row.Find(".board_title.table_a").First()
		if a.Length() == 0 {
			return
		}
		// rows without a link still point somewhere useful: the board itself
		link := cfg.SourceURL
		if href, ok := a.Attr("href"); ok {
			link = resolveURL(href, cfg.Base())
		}
		set.add(cellText(a), dateByPattern(row.Find("td")), link)
	})
	return set.list(), nil
}
