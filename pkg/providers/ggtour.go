package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
)

const ggTourProviderID = "ggtour"

type ggTourPayload struct {
	Data *struct {
		Items []ggTourNotice `json:"items"`
	} `json:"data"`
}

type ggTourNotice struct {
	Title       string `json:"title"`
	CreatedAt   string `json:"createdAt"`
	ContentLink string `json:"contentLink"`
}

// ggTourFetcher reads the Gyeonggi Tourism Organization notice API.
type ggTourFetcher struct {
	client HTTPClient
}

// NewGGTourFetcher builds a fetcher for the Gyeonggi tourism notice API.
func NewGGTourFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &ggTourFetcher{client: client}
}

func (f *ggTourFetcher) ID() string {
	return ggTourProviderID
}

func (f *ggTourFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, ggTourProviderID); err != nil {
		return nil, err
	}

	body, _, err := fetchBody(ctx, f.client, cfg, ggTourProviderID)
	if err != nil {
		return nil, err
	}

	var payload ggTourPayload
	if err := decodeJSON(body, ggTourProviderID, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, ParseError(ggTourProviderID, errors.New("payload has no data"))
	}

	set := newItemSet(cfg.DisplayName())
	for _, n := range payload.Data.Items {
		// createdAt is "YYYY-MM-DD hh:mm:ss"; only the date part matters
		date, _, _ := strings.Cut(strings.TrimSpace(n.CreatedAt), " ")
		link := resolveURL(n.ContentLink, cfg.Base())
		if link == "" {
			link = cfg.Base()
		}
		set.add(n.Title, NormalizeDate(date), link)
	}
	return set.list(), nil
}
