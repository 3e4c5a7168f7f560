package config

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/tour-sosik/internal/cache"
	"github.com/Adda-Baaj/tour-sosik/internal/harvester"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := harvester.ParseMode(c.Pipeline.Mode); err != nil {
		return fmt.Errorf("pipeline.mode: %w", err)
	}

	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must be >= 0, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.JitterMin < 0 || c.Fetch.JitterMax < 0 {
		return fmt.Errorf("fetch.jitter_min and fetch.jitter_max must be >= 0")
	}
	if c.Fetch.JitterMax < c.Fetch.JitterMin {
		return fmt.Errorf("fetch.jitter_max (%s) must be >= fetch.jitter_min (%s)", c.Fetch.JitterMax, c.Fetch.JitterMin)
	}

	switch strings.ToLower(strings.TrimSpace(c.Cache.Backend)) {
	case "", cache.BackendMemory:
	case cache.BackendBolt:
		if strings.TrimSpace(c.Cache.Path) == "" {
			return fmt.Errorf("cache.path is required for the bolt backend")
		}
	case cache.BackendRedis:
		if strings.TrimSpace(c.Cache.RedisAddr) == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend %q is not supported (valid: memory, bolt, redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0, got %s", c.Cache.TTL)
	}

	if c.Report.MaxPerSource < 0 || c.Report.MaxItems < 0 || c.Report.TextMaxItems < 0 {
		return fmt.Errorf("report caps must be >= 0")
	}

	if spec := strings.TrimSpace(c.Schedule.Digest); spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("schedule.digest %q: %w", spec, err)
		}
	}
	return nil
}
