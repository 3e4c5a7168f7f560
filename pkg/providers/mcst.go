package providers

import (
	"context"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	mcstProviderID = "mcst"
	mcstRows       = "table.board tbody tr"
)

// mcstFetcher scrapes the Ministry of Culture, Sports and Tourism notice board.
type mcstFetcher struct {
	client HTTPClient
}

// NewMCSTFetcher builds a fetcher for MCST notices.
func NewMCSTFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &mcstFetcher{client: client}
}

func (f *mcstFetcher) ID() string {
	return mcstProviderID
}

func (f *mcstFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, mcstProviderID); err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, cfg, mcstProviderID)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(mcstRows)
	if err := requireRows(rows, mcstProviderID, mcstRows); err != nil {
		return nil, err
	}

	set := newItemSet(cfg.DisplayName())
	rows.Each(func(_ int, row *goquery.Selection) {
		a := row.Find("td.subject a").First()
		href, ok := a.Attr("href")
		if a.Length() == 0 || !ok {
			return
		}

		var date string
		if cells := row.Find("td"); cells.Length() > 2 {
			date = dateAt(cells, -2)
		}
		set.add(cellText(a), date, resolveURL(href, cfg.Base()))
	})
	return set.list(), nil
}
