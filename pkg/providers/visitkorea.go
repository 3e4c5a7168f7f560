package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
)

const (
	visitKoreaProviderID = "visitkorea"
	visitKoreaDetailURL  = "https://korean.visitkorea.or.kr/notice/news_detail.do?nwsId="
)

// visitKoreaForm is the notice list query the VisitKorea "call" endpoint expects.
var visitKoreaForm = map[string]string{
	"cmd":      "NOTICE_LIST_VIEW",
	"page":     "1",
	"cnt":      "10",
	"sortkind": "1",
}

type visitKoreaPayload struct {
	Body *struct {
		Result []visitKoreaNotice `json:"result"`
	} `json:"body"`
}

type visitKoreaNotice struct {
	Title      string   `json:"title"`
	CreateDate string   `json:"createDate"`
	NewsID     jsonText `json:"nwsId"`
}

// visitKoreaFetcher reads the VisitKorea notice API.
type visitKoreaFetcher struct {
	client HTTPClient
}

// NewVisitKoreaFetcher builds a fetcher for the VisitKorea notice API.
func NewVisitKoreaFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &visitKoreaFetcher{client: client}
}

func (f *visitKoreaFetcher) ID() string {
	return visitKoreaProviderID
}

func (f *visitKoreaFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error) {
	if err := checkProvider(cfg, visitKoreaProviderID); err != nil {
		return nil, err
	}

	headers := Headers(cfg)
	headers["Accept"] = "application/json, text/javascript, */*; q=0.01"

	resp, err := f.client.PostForm(ctx, cfg.SourceURL, visitKoreaForm, headers)
	if err != nil {
		return nil, TransportError(visitKoreaProviderID, fmt.Errorf("post %s: %w", cfg.SourceURL, err))
	}
	body, _, err := checkResponse(resp, visitKoreaProviderID)
	if err != nil {
		return nil, err
	}

	var payload visitKoreaPayload
	if err := decodeJSON(body, visitKoreaProviderID, &payload); err != nil {
		return nil, err
	}
	if payload.Body == nil {
		return nil, ParseError(visitKoreaProviderID, errors.New("payload has no body"))
	}

	set := newItemSet(cfg.DisplayName())
	for _, n := range payload.Body.Result {
		link := visitKoreaDetailURL + url.QueryEscape(n.NewsID.String())
		set.add(n.Title, NormalizeDate(n.CreateDate), link)
	}
	return set.list(), nil
}

// jsonText accepts a JSON string or number and keeps its textual form.
type jsonText string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*t = ""
		return nil
	}
	*t = jsonText(strings.Trim(s, `"`))
	return nil
}

func (t jsonText) String() string { return string(t) }
