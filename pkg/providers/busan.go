package providers

import (
	"context"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	busanProviderID = "busan"
	busanRows       = "table.bbs_default.list tbody tr"
)

// busanFetcher scrapes the VisitBusan notice board.
type busanFetcher struct {
	client HTTPClient
}

// NewBusanFetcher builds a fetcher for VisitBusan notices.
func NewBusanFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &busanFetcher{client: client}
}

func (f *busanFetcher) ID() string {
	return busanProviderID
}

func (f *busanFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, busanProviderID); err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, cfg, busanProviderID)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(busanRows)
	if err := requireRows(rows, busanProviderID, busanRows); err != nil {
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
