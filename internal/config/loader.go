package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TOURSOSIK_PIPELINE_MODE.
const EnvPrefix = "TOURSOSIK"

// DotEnvFile is loaded into the process environment when present.
const DotEnvFile = ".env"

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tour-sosik")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Pipeline.Keywords = splitList(cfg.Pipeline.Keywords)
	cfg.Fetch.UserAgents = trimList(cfg.Fetch.UserAgents)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv never overrides variables already set in the environment.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)

	v.SetDefault("pipeline.mode", cfg.Pipeline.Mode)
	v.SetDefault("pipeline.keywords", cfg.Pipeline.Keywords)
	v.SetDefault("pipeline.sites_file", cfg.Pipeline.SitesFile)

	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.jitter_min", cfg.Fetch.JitterMin)
	v.SetDefault("fetch.jitter_max", cfg.Fetch.JitterMax)
	v.SetDefault("fetch.user_agents", cfg.Fetch.UserAgents)

	v.SetDefault("cache.backend", cfg.Cache.Backend)
	v.SetDefault("cache.path", cfg.Cache.Path)
	v.SetDefault("cache.redis_addr", cfg.Cache.RedisAddr)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("report.dir", cfg.Report.Dir)
	v.SetDefault("report.max_per_source", cfg.Report.MaxPerSource)
	v.SetDefault("report.max_items", cfg.Report.MaxItems)
	v.SetDefault("report.text_max_items", cfg.Report.TextMaxItems)

	v.SetDefault("publishers.file", cfg.Publishers.File)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("schedule.digest", cfg.Schedule.Digest)
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// trimList drops blank entries. User agents carry commas, so no splitting.
func trimList(in []string) []string {
	var out []string
	for _, raw := range in {
		if raw = strings.TrimSpace(raw); raw != "" {
			out = append(out, raw)
		}
	}
	return out
}
