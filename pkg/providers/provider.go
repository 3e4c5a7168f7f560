package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"

	"gopkg.in/yaml.v3"
)

const (
	// ProviderTypeSite marks a provider served by its own dedicated fetcher.
	ProviderTypeSite = "site"
	// ProviderTypeBoard marks a provider handled by the generic board scanner.
	ProviderTypeBoard = "board"

	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	defaultAcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
	defaultReferer        = "https://www.google.com/"
)

// HTTPClient is the transport used by fetchers.
type HTTPClient = httpclient.Client

// HTTPResponse is what HTTPClient returns.
type HTTPResponse = httpclient.Response

// Provider describes one source site.
type Provider struct {
	ID                string            `yaml:"id" json:"id"`
	Name              string            `yaml:"name" json:"name"`
	Type              string            `yaml:"type" json:"type"`
	SourceURL         string            `yaml:"source_url" json:"source_url"`
	BaseURL           string            `yaml:"base_url" json:"base_url"`
	UserAgent         string            `yaml:"user_agent" json:"user_agent"`
	Headers           map[string]string `yaml:"headers" json:"headers"`
	RequestDelayMilli int               `yaml:"request_delay_ms" json:"request_delay_ms"`
}

// RequestDelay returns the minimum pause after fetching this provider.
func (p Provider) RequestDelay() time.Duration {
	if p.RequestDelayMilli <= 0 {
		return 0
	}
	return time.Duration(p.RequestDelayMilli) * time.Millisecond
}

// DisplayName is what lands in NewsItem.Source.
func (p Provider) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return p.ID
}

// Base returns the URL relative links are resolved against.
func (p Provider) Base() string {
	if base := strings.TrimSpace(p.BaseURL); base != "" {
		return base
	}
	return p.SourceURL
}

// Fetcher extracts news items for one provider.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Provider) ([]domain.NewsItem, error)
}

// FetcherRegistry resolves the fetcher serving a provider.
type FetcherRegistry interface {
	FetcherFor(cfg Provider) (Fetcher, error)
}

// Headers builds the request header set for a provider. Provider headers
// override the defaults.
func Headers(cfg Provider) map[string]string {
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}

	h := map[string]string{
		"User-Agent":      ua,
		"Accept":          defaultAccept,
		"Accept-Language": defaultAcceptLanguage,
		"Accept-Encoding": "gzip, deflate, br",
		"Referer":         defaultReferer,
	}
	for k, v := range cfg.Headers {
		if k = strings.TrimSpace(k); k != "" {
			h[k] = v
		}
	}
	return h
}

// DefaultProviders lists the tourism sources with dedicated fetchers, in fetch order.
func DefaultProviders() []Provider {
	return []Provider{
		{ID: visitSeoulProviderID, Name: "VisitSeoul", Type: ProviderTypeSite, SourceURL: "https://korean.visitseoul.net/announcements", BaseURL: "https://korean.visitseoul.net"},
		{ID: visitKoreaProviderID, Name: "VisitKorea", Type: ProviderTypeSite, SourceURL: "https://korean.visitkorea.or.kr/call", BaseURL: "https://korean.visitkorea.or.kr"},
		{ID: ggTourProviderID, Name: "GGTour", Type: ProviderTypeSite, SourceURL: "https://ggtour.or.kr/api/v1/service/notice", BaseURL: "https://ggtour.or.kr"},
		{ID: mcstProviderID, Name: "MCST", Type: ProviderTypeSite, SourceURL: "https://www.mcst.go.kr/site/s_notice/notice/noticeList.jsp", BaseURL: "https://www.mcst.go.kr/site/s_notice/notice/"},
		{ID: busanProviderID, Name: "Busan", Type: ProviderTypeSite, SourceURL: "https://www.visitbusan.net/board/list.do?boardId=BBS_0000001&menuCd=DOM_000000204001000000", BaseURL: "https://www.visitbusan.net"},
		{ID: jejuProviderID, Name: "Jeju", Type: ProviderTypeSite, SourceURL: "https://ijto.or.kr/korean/Bd/list.php?btable=notice", BaseURL: "https://ijto.or.kr/korean/Bd/"},
		{ID: incheonProviderID, Name: "Incheon", Type: ProviderTypeSite, SourceURL: "https://www.ito.or.kr/main/board/notice.jsp", BaseURL: "https://www.ito.or.kr"},
		{ID: gangwonProviderID, Name: "Gangwon", Type: ProviderTypeSite, SourceURL: "https://www.gwto.or.kr/www/selectBbsNttList.do?bbsNo=1&key=21", BaseURL: "https://www.gwto.or.kr"},
		{ID: gyeongbukProviderID, Name: "Gyeongbuk", Type: ProviderTypeSite, SourceURL: "https://www.gtc.co.kr/page/10059/10007.tc", BaseURL: "https://www.gtc.co.kr"},
	}
}

type providersFile struct {
	Providers []Provider `yaml:"providers"`
}

// LoadProviders reads a YAML provider list, expanding environment variables.
func LoadProviders(path string) ([]Provider, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("providers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	var file providersFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &file); err != nil {
		return nil, fmt.Errorf("decode providers file: %w", err)
	}
	if len(file.Providers) == 0 {
		return nil, errors.New("providers file contains no providers entries")
	}

	seen := make(map[string]struct{}, len(file.Providers))
	out := make([]Provider, 0, len(file.Providers))
	for i, p := range file.Providers {
		p = sanitizeProvider(p)
		if err := validateProvider(p); err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func sanitizeProvider(p Provider) Provider {
	p.ID = strings.ToLower(strings.TrimSpace(p.ID))
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.SourceURL = strings.TrimSpace(p.SourceURL)
	p.BaseURL = strings.TrimSpace(p.BaseURL)
	if p.Type == "" {
		p.Type = ProviderTypeSite
	}
	return p
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.SourceURL == "" {
		return fmt.Errorf("source_url is required for provider %q", p.ID)
	}
	switch p.Type {
	case ProviderTypeSite, ProviderTypeBoard:
	default:
		return fmt.Errorf("type %q not supported for provider %q", p.Type, p.ID)
	}
	return nil
}
