package config

import (
	"time"
)

// Config is the root configuration for the harvester binaries.
type Config struct {
	Log        LogConfig       `mapstructure:"log"        yaml:"log"`
	Pipeline   PipelineConfig  `mapstructure:"pipeline"   yaml:"pipeline"`
	Fetch      FetchConfig     `mapstructure:"fetch"      yaml:"fetch"`
	Cache      CacheConfig     `mapstructure:"cache"      yaml:"cache"`
	Report     ReportConfig    `mapstructure:"report"     yaml:"report"`
	Publishers PublisherConfig `mapstructure:"publishers" yaml:"publishers"`
	Server     ServerConfig    `mapstructure:"server"     yaml:"server"`
	Schedule   ScheduleConfig  `mapstructure:"schedule"   yaml:"schedule"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// PipelineConfig selects the pipeline instance and overrides its inputs.
type PipelineConfig struct {
	Mode      string   `mapstructure:"mode"       yaml:"mode"`
	Keywords  []string `mapstructure:"keywords"   yaml:"keywords"`
	SitesFile string   `mapstructure:"sites_file" yaml:"sites_file"`
}

// FetchConfig controls per-site fetching. Zero values keep the pipeline defaults.
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"     yaml:"timeout"`
	JitterMin  time.Duration `mapstructure:"jitter_min"  yaml:"jitter_min"`
	JitterMax  time.Duration `mapstructure:"jitter_max"  yaml:"jitter_max"`
	UserAgents []string      `mapstructure:"user_agents" yaml:"user_agents"`
}

// CacheConfig controls the result cache behind the dashboard API.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"    yaml:"backend"`
	Path      string        `mapstructure:"path"       yaml:"path"`
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"        yaml:"ttl"`
}

// ReportConfig controls the text and HTML report files. Zero caps keep the
// pipeline defaults.
type ReportConfig struct {
	Dir          string `mapstructure:"dir"            yaml:"dir"`
	MaxPerSource int    `mapstructure:"max_per_source" yaml:"max_per_source"`
	MaxItems     int    `mapstructure:"max_items"      yaml:"max_items"`
	TextMaxItems int    `mapstructure:"text_max_items" yaml:"text_max_items"`
}

// PublisherConfig points at the publishers catalog. Empty disables delivery.
type PublisherConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ServerConfig controls the dashboard API listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// ScheduleConfig holds cron specs.
type ScheduleConfig struct {
	Digest string `mapstructure:"digest" yaml:"digest"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Pipeline: PipelineConfig{
			Mode: "tourism",
		},
		Fetch: FetchConfig{
			JitterMin: 100 * time.Millisecond,
			JitterMax: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Backend: "memory",
			Path:    "./data/cache.db",
			TTL:     30 * time.Minute,
		},
		Report: ReportConfig{
			Dir: ".",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Schedule: ScheduleConfig{
			Digest: "0 8 * * *",
		},
	}
}
