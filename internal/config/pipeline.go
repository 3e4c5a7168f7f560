package config

import (
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/cache"
	"github.com/Adda-Baaj/tour-sosik/internal/harvester"
	"github.com/Adda-Baaj/tour-sosik/internal/report"
	"github.com/Adda-Baaj/tour-sosik/pkg/providers"
)

// Report caps applied in tourism mode when the config leaves them at zero.
const (
	TourismHTMLMaxItems = 30
	TourismTextMaxItems = 10
)

// ResolvePipeline resolves the configured pipeline: the built-in defaults for the
// mode, with the sites file and keyword list applied on top.
func (c *Config) ResolvePipeline() (harvester.Pipeline, error) {
	mode, err := harvester.ParseMode(c.Pipeline.Mode)
	if err != nil {
		return harvester.Pipeline{}, err
	}
	p := harvester.DefaultPipeline(mode)

	if path := strings.TrimSpace(c.Pipeline.SitesFile); path != "" {
		list, err := providers.LoadProviders(path)
		if err != nil {
			return harvester.Pipeline{}, err
		}
		p.Providers = list
	}
	if len(c.Pipeline.Keywords) > 0 {
		p.Keywords = append([]string(nil), c.Pipeline.Keywords...)
	}
	if c.Fetch.Timeout > 0 {
		p.Timeout = c.Fetch.Timeout
	}
	return p, nil
}

// HarvesterOptions maps the fetch section onto harvester options.
func (c *Config) HarvesterOptions() []harvester.Option {
	return []harvester.Option{
		harvester.WithJitter(c.Fetch.JitterMin, c.Fetch.JitterMax),
		harvester.WithUserAgents(c.Fetch.UserAgents),
	}
}

// CacheOptions maps the cache section onto cache.Open options.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		Path:      c.Cache.Path,
		RedisAddr: c.Cache.RedisAddr,
	}
}

// CacheTTL returns the snapshot lifetime, falling back to cache.DefaultTTL.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL > 0 {
		return c.Cache.TTL
	}
	return cache.DefaultTTL
}

// ReportLimits returns the caps for the HTML and the text report. Money mode
// is only capped per site by the scanner unless configured otherwise.
func (c *Config) ReportLimits(mode harvester.Mode) (page, text report.Limits) {
	page = report.Limits{PerSource: c.Report.MaxPerSource, MaxItems: c.Report.MaxItems}
	text = report.Limits{PerSource: c.Report.MaxPerSource, MaxItems: c.Report.TextMaxItems}
	if mode == harvester.ModeTourism {
		if page.MaxItems == 0 {
			page.MaxItems = TourismHTMLMaxItems
		}
		if text.MaxItems == 0 {
			text.MaxItems = TourismTextMaxItems
		}
	}
	return page, text
}
