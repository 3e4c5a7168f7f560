package providers

import (
	"context"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const gangwonProviderID = "gangwon"

// gangwonRows are tried in order; the board markup has shipped in both shapes.
var gangwonRows = []string{"table.bbs_list tbody tr", ".bbs_list table tbody tr"}

// gangwonFetcher scrapes the Gangwon Tourism Foundation notice board.
type gangwonFetcher struct {
	client HTTPClient
}

// NewGangwonFetcher builds a fetcher for Gangwon tourism notices.
func NewGangwonFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &gangwonFetcher{client: client}
}

func (f *gangwonFetcher) ID() string {
	return gangwonProviderID
}

func (f *gangwonFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, gangwonProviderID); err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, cfg, gangwonProviderID)
	if err != nil {
		return nil, err
	}

	var rows *goquery.Selection
	for _, sel := range gangwonRows {
		if rows = doc.Find(sel); rows.Length() > 0 {
			break
		}
	}
	if err := requireRows(rows, gangwonProviderID, gangwonRows[0]); err != nil {
		return nil, err
	}

	set := newItemSet(cfg.DisplayName())
	rows.Each(func(_ int, row *goquery.Selection) {
		a := row.Find("td.subject a").First()
		href, ok := a.Attr("href")
		if a.Length() == 0 || !ok {
			return
		}
		set.add(cellText(a), dateByClass(row, "td.date"), resolveURL(href, cfg.Base()))
	})
	return set.list(), nil
}
