package providers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/tour-sosik/pkg/httpclient"
)

// DefaultTimeout bounds one request to a dedicated site.
const DefaultTimeout = 10 * time.Second

type fetcherRegistry struct {
	fetchers map[string]Fetcher
	mu       sync.RWMutex
}

// NewFetcherRegistry builds a registry for the provided fetcher implementations.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchers: make(map[string]Fetcher, len(fetchers)),
	}

	for _, f := range fetchers {
		if f == nil {
			continue
		}
		reg.fetchers[strings.ToLower(strings.TrimSpace(f.ID()))] = f
	}

	return reg
}

// FetcherFor selects the fetcher for the given provider: a fetcher registered
// under the provider id wins, otherwise one registered under its type.
func (r *fetcherRegistry) FetcherFor(cfg Provider) (Fetcher, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("provider id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchers[strings.ToLower(cfg.ID)]; ok {
		return f, nil
	}
	if typ := strings.ToLower(strings.TrimSpace(cfg.Type)); typ != "" && typ != ProviderTypeSite {
		if f, ok := r.fetchers[typ]; ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no fetcher registered for provider %q", cfg.ID)
}

// DefaultHTTPClient returns the client used by the dedicated site fetchers.
// Several of the sites serve broken certificate chains, so verification is off.
func DefaultHTTPClient() HTTPClient {
	return httpclient.NewRestyClient(DefaultTimeout, httpclient.WithInsecureTLS())
}

// DefaultFetchers returns one fetcher per dedicated site.
func DefaultFetchers(client HTTPClient) []Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}

	return []Fetcher{
		NewVisitSeoulFetcher(client),
		NewVisitKoreaFetcher(client),
		NewGGTourFetcher(client),
		NewMCSTFetcher(client),
		NewBusanFetcher(client),
		NewJejuFetcher(client),
		NewIncheonFetcher(client),
		NewGangwonFetcher(client),
		NewGyeongbukFetcher(client),
	}
}

// DefaultFetcherRegistry wires up the known site fetchers plus any extras.
func DefaultFetcherRegistry(client HTTPClient, extra ...Fetcher) FetcherRegistry {
	return NewFetcherRegistry(append(DefaultFetchers(client), extra...)...)
}

// checkProvider guards a dedicated fetcher against a mismatched provider.
func checkProvider(cfg Provider, providerID string) error {
	if !strings.EqualFold(cfg.ID, providerID) {
		return fmt.Errorf("%s fetcher received incompatible provider %q", providerID, cfg.ID)
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return fmt.Errorf("%s provider source_url is empty", providerID)
	}
	return nil
}
