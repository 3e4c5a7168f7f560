package providers

import (
	"context"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	incheonProviderID = "incheon"
	incheonRows       = "table tbody tr"
)

// incheonFetcher scrapes the Incheon Tourism Organization notice board.
type incheonFetcher struct {
	client HTTPClient
}

// NewIncheonFetcher builds a fetcher for Incheon tourism notices.
func NewIncheonFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &incheonFetcher{client: client}
}

func (f *incheonFetcher) ID() string {
	return incheonProviderID
}

func (f *incheonFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, incheonProviderID); err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, cfg, incheonProviderID)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(incheonRows)
	if err := requireRows(rows, incheonProviderID, incheonRows); err != nil {
		return nil, err
	}

	set := newItemSet(cfg.DisplayName())
	rows.Each(func(_ int, row *goquery.Selection) {
		a := row.Find("td.tit a").First()
		href, ok := a.Attr("href")
		if a.Length() == 0 || !ok {
			return
		}
		set.add(cellText(a), dateByClass(row, "td.date"), resolveURL(href, cfg.Base()))
	})
	return set.list(), nil
}
