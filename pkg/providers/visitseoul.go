package providers

import (
	"context"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	visitSeoulProviderID = "visitseoul"
	visitSeoulRows       = ".qna-list-table tbody tr"
)

// visitSeoulFetcher scrapes the VisitSeoul announcement board.
type visitSeoulFetcher struct {
	client HTTPClient
}

// NewVisitSeoulFetcher builds a fetcher for VisitSeoul announcements.
func NewVisitSeoulFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &visitSeoulFetcher{client: client}
}

func (f *visitSeoulFetcher) ID() string {
	return visitSeoulProviderID
}

func (f *visitSeoulFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, visitSeoulProviderID); err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, cfg, visitSeoulProviderID)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(visitSeoulRows)
	if err := requireRows(rows, visitSeoulProviderID, visitSeoulRows); err != nil {
		return nil, err
	}

	set := newItemSet(cfg.DisplayName())
	rows.Each(func(_ int, row *goquery.Selection) {
		a := row.Find("td.text-align-left a").First()
		href, ok := a.Attr("href")
		if a.Length() == 0 || !ok {
			return
		}
		// third cell holds the registration date
		set.add(cellText(a), dateAt(row.Find("td"), 2), resolveURL(href, cfg.Base()))
	})
	return set.list(), nil
}
