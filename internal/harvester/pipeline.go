package harvester

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/crawler"
	"github.com/Adda-Baaj/tour-sosik/internal/keywords"
	"github.com/Adda-Baaj/tour-sosik/pkg/providers"
)

// Mode names a pipeline instance.
type Mode string

const (
	// ModeTourism runs the dedicated tourism site fetchers; keywords only
	// drive display emphasis and undated items are dropped.
	ModeTourism Mode = "tourism"
	// ModeMoney scans municipal boards; keywords decide inclusion and every
	// item carries the run date.
	ModeMoney Mode = "money"
)

// ParseMode accepts a mode name case-insensitively. Empty means tourism.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTourism:
		return ModeTourism, nil
	case ModeMoney:
		return ModeMoney, nil
	default:
		return "", fmt.Errorf("unknown pipeline mode %q", s)
	}
}

// Pipeline bundles what differs between the two pipeline instances.
type Pipeline struct {
	Mode      Mode
	Providers []providers.Provider
	Keywords  []string
	Timeout   time.Duration
}

// DefaultPipeline returns the built-in sources, keywords and timeout for mode.
func DefaultPipeline(mode Mode) Pipeline {
	if mode == ModeMoney {
		return Pipeline{
			Mode:      ModeMoney,
			Providers: crawler.DefaultSites(),
			Keywords:  append([]string(nil), keywords.MoneyKeywords...),
			Timeout:   crawler.DefaultTimeout,
		}
	}
	return Pipeline{
		Mode:      ModeTourism,
		Providers: providers.DefaultProviders(),
		Keywords:  append([]string(nil), keywords.TourismKeywords...),
		Timeout:   providers.DefaultTimeout,
	}
}

// Filter returns the keyword filter active for this pipeline.
func (p Pipeline) Filter() *keywords.Filter {
	return keywords.New(p.Keywords...)
}

// NormalizeOptions returns how this pipeline's results are normalized.
func (p Pipeline) NormalizeOptions() NormalizeOptions {
	return NormalizeOptions{RequireDate: p.Mode != ModeMoney}
}
