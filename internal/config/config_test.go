package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/tour-sosik/internal/harvester"
	"github.com/Adda-Baaj/tour-sosik/internal/keywords"
	"github.com/Adda-Baaj/tour-sosik/pkg/providers"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.Mode != "tourism" {
		t.Fatalf("mode = %q", cfg.Pipeline.Mode)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 30*time.Minute {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
	if cfg.Fetch.JitterMin != 100*time.Millisecond || cfg.Fetch.JitterMax != 500*time.Millisecond {
		t.Fatalf("jitter = %s..%s", cfg.Fetch.JitterMin, cfg.Fetch.JitterMax)
	}
	if cfg.Schedule.Digest != "0 8 * * *" {
		t.Fatalf("schedule = %q", cfg.Schedule.Digest)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "custom.yaml", `
log:
  level: debug
pipeline:
  mode: money
  keywords: [지원금, 바우처]
fetch:
  timeout: 7s
  jitter_min: 0s
  jitter_max: 50ms
cache:
  backend: bolt
  path: ./cache.db
  ttl: 10m
report:
  dir: ./out
  max_items: 40
`)
	t.Setenv("TOURSOSIK_SERVER_ADDR", ":9999")
	t.Setenv("TOURSOSIK_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("env should win over file, level = %q", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Pipeline.Mode != "money" {
		t.Fatalf("mode = %q", cfg.Pipeline.Mode)
	}
	if strings.Join(cfg.Pipeline.Keywords, ",") != "지원금,바우처" {
		t.Fatalf("keywords = %v", cfg.Pipeline.Keywords)
	}
	if cfg.Fetch.Timeout != 7*time.Second || cfg.Fetch.JitterMax != 50*time.Millisecond {
		t.Fatalf("fetch = %+v", cfg.Fetch)
	}
	if cfg.Cache.Backend != "bolt" || cfg.Cache.TTL != 10*time.Minute {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
	if cfg.Report.Dir != "./out" || cfg.Report.MaxItems != 40 {
		t.Fatalf("report = %+v", cfg.Report)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, DotEnvFile, "TOURSOSIK_PIPELINE_MODE=money\n")
	t.Setenv("TOURSOSIK_PIPELINE_MODE", "")
	os.Unsetenv("TOURSOSIK_PIPELINE_MODE")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.Mode != "money" {
		t.Fatalf("mode = %q, want money from .env", cfg.Pipeline.Mode)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Pipeline.Mode = "weather" }},
		{"negative timeout", func(c *Config) { c.Fetch.Timeout = -time.Second }},
		{"jitter inverted", func(c *Config) { c.Fetch.JitterMin, c.Fetch.JitterMax = time.Second, time.Millisecond }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"bolt without path", func(c *Config) { c.Cache.Backend, c.Cache.Path = "bolt", "" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }},
		{"negative cap", func(c *Config) { c.Report.MaxItems = -1 }},
		{"bad cron", func(c *Config) { c.Schedule.Digest = "every morning" }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestPipelineDefaults(t *testing.T) {
	cfg := DefaultConfig()
	p, err := cfg.ResolvePipeline()
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if p.Mode != harvester.ModeTourism {
		t.Fatalf("mode = %q", p.Mode)
	}
	if len(p.Providers) != len(providers.DefaultProviders()) {
		t.Fatalf("providers = %d", len(p.Providers))
	}
	if len(p.Keywords) != len(keywords.TourismKeywords) {
		t.Fatalf("keywords = %v", p.Keywords)
	}
	if p.Timeout != providers.DefaultTimeout {
		t.Fatalf("timeout = %s", p.Timeout)
	}
}

func TestPipelineOverrides(t *testing.T) {
	dir := t.TempDir()
	sites := writeFile(t, dir, "sites.yaml", `
providers:
  - id: gov-test
    name: 테스트시
    type: board
    source_url: https://example.go.kr/news
`)
	cfg := DefaultConfig()
	cfg.Pipeline.Mode = "money"
	cfg.Pipeline.SitesFile = sites
	cfg.Pipeline.Keywords = []string{"바우처"}
	cfg.Fetch.Timeout = 3 * time.Second

	p, err := cfg.ResolvePipeline()
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if len(p.Providers) != 1 || p.Providers[0].ID != "gov-test" {
		t.Fatalf("providers = %+v", p.Providers)
	}
	if len(p.Keywords) != 1 || p.Keywords[0] != "바우처" {
		t.Fatalf("keywords = %v", p.Keywords)
	}
	if p.Timeout != 3*time.Second {
		t.Fatalf("timeout = %s", p.Timeout)
	}
	if p.NormalizeOptions().RequireDate {
		t.Fatal("money pipeline must keep undated items")
	}
}

func TestReportLimits(t *testing.T) {
	cfg := DefaultConfig()

	page, text := cfg.ReportLimits(harvester.ModeTourism)
	if page.MaxItems != TourismHTMLMaxItems || text.MaxItems != TourismTextMaxItems {
		t.Fatalf("tourism limits = %+v / %+v", page, text)
	}

	page, text = cfg.ReportLimits(harvester.ModeMoney)
	if page.MaxItems != 0 || text.MaxItems != 0 {
		t.Fatalf("money limits should be uncapped, got %+v / %+v", page, text)
	}

	cfg.Report.MaxItems = 12
	page, _ = cfg.ReportLimits(harvester.ModeTourism)
	if page.MaxItems != 12 {
		t.Fatalf("configured cap ignored: %+v", page)
	}
}
