package providers

import (
	"context"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	gyeongbukProviderID = "gyeongbuk"
	gyeongbukRows       = ".Ttable_wrap.notice table tbody tr"
)

// gyeongbukFetcher scrapes the Gyeongbuk Culture and Tourism Organization board.
type gyeongbukFetcher struct {
	client HTTPClient
}

// NewGyeongbukFetcher builds a fetcher for Gyeongbuk tourism notices.
func NewGyeongbukFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &gyeongbukFetcher{client: client}
}

func (f *gyeongbukFetcher) ID() string {
	return gyeongbukProviderID
}

func (f *gyeongbukFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, gyeongbukProviderID); err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, f.client, cfg, gyeongbukProviderID)
	if err != nil {
		return nil, err
	}

	rows := doc.Find(gyeongbukRows)
	if err := requireRows(rows, gyeongbukProviderID, gyeongbukRows); err != nil {
		return nil, err
	}

	set := newItemSet(cfg.DisplayName())
	rows.Each(func(_ int, row *goquery.Selection) {
		a := row.Find(".board_title.table_a").First()
		if a.Length() == 0 {
			return
		}
		link := cfg.SourceURL
		if href, ok := a.Attr("href"); ok {
			link = resolveURL(href, cfg.Base())
		}
		set.add(cellText(a), dateByPattern(row.Find("td")), link)
	})
	return set.list(), nil
}
