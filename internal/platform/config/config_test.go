package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"market_history/internal/feature/history/usecase"
	"market_history/internal/platform/cache"
)

func TestApplyDefaults_UsesOwnerDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.Batch.Concurrency != usecase.DefaultConcurrency {
		t.Errorf("Batch.Concurrency = %d, want %d", cfg.Batch.Concurrency, usecase.DefaultConcurrency)
	}
	if cfg.Batch.Budget != usecase.DefaultBudget {
		t.Errorf("Batch.Budget = %v, want %v", cfg.Batch.Budget, usecase.DefaultBudget)
	}
	if cfg.Cache.TTL != cache.DefaultTTL {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, cache.DefaultTTL)
	}
	if cfg.Cache.Namespace != cache.DefaultNamespace {
		t.Errorf("Cache.Namespace = %q, want %q", cfg.Cache.Namespace, cache.DefaultNamespace)
	}
}

func TestLoad(t *testing.T) {
	yaml := `
schedule:
  cron: "30 1 * * *"
  time_zone: UTC
batch:
  concurrency: 5
  budget: 2m
regions:
  - North America East
categories:
  - Trader
  - Pets
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Schedule.Cron != "30 1 * * *" {
		t.Errorf("Schedule.Cron = %q, want %q", cfg.Schedule.Cron, "30 1 * * *")
	}
	if cfg.Batch.Concurrency != 5 {
		t.Errorf("Batch.Concurrency = %d, want 5", cfg.Batch.Concurrency)
	}
	if cfg.Batch.Budget != 2*time.Minute {
		t.Errorf("Batch.Budget = %v, want 2m", cfg.Batch.Budget)
	}
	if len(cfg.Jobs()) != 2 {
		t.Errorf("len(Jobs()) = %d, want 2", len(cfg.Jobs()))
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_HTTP_ADDR", ":9999")

	yaml := `
http:
  addr: ${TEST_HTTP_ADDR}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.HTTP.Addr, ":9999")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "regions:\n  - Europe West\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Schedule.Cron != DefaultCron {
		t.Errorf("Schedule.Cron = %q, want default %q", cfg.Schedule.Cron, DefaultCron)
	}
	if cfg.Schedule.TimeZone != DefaultTimeZone {
		t.Errorf("Schedule.TimeZone = %q, want default %q", cfg.Schedule.TimeZone, DefaultTimeZone)
	}
	if cfg.Batch.Concurrency != DefaultConcurrency {
		t.Errorf("Batch.Concurrency = %d, want default %d", cfg.Batch.Concurrency, DefaultConcurrency)
	}
	if cfg.Batch.Budget != DefaultBudget {
		t.Errorf("Batch.Budget = %v, want default %v", cfg.Batch.Budget, DefaultBudget)
	}
	if cfg.Cache.TTL != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want default %v", cfg.Cache.TTL, DefaultCacheTTL)
	}
	if len(cfg.Regions) != 1 || cfg.Regions[0] != "Europe West" {
		t.Errorf("Regions = %v, want [Europe West]", cfg.Regions)
	}
	if len(cfg.Categories) != len(DefaultCategories) {
		t.Errorf("len(Categories) = %d, want %d", len(cfg.Categories), len(DefaultCategories))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Schedule:   ScheduleConfig{Cron: DefaultCron, TimeZone: "UTC"},
			Batch:      BatchConfig{Concurrency: 20, Budget: time.Minute},
			Cache:      CacheConfig{TTL: time.Hour},
			Regions:    []string{"South America"},
			Categories: []string{"Mount"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Batch.Concurrency = 0 },
			wantErr: "batch.concurrency must be >= 1",
		},
		{
			name:    "zero budget",
			mutate:  func(c *Config) { c.Batch.Budget = 0 },
			wantErr: "batch.budget must be > 0",
		},
		{
			name:    "zero cache ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "cache.ttl must be > 0",
		},
		{
			name:    "no regions",
			mutate:  func(c *Config) { c.Regions = nil },
			wantErr: "regions must not be empty",
		},
		{
			name:    "duplicate category",
			mutate:  func(c *Config) { c.Categories = []string{"Mount", "Mount"} },
			wantErr: `categories contains duplicate "Mount"`,
		},
		{
			name:    "empty region",
			mutate:  func(c *Config) { c.Regions = []string{""} },
			wantErr: "regions must not contain empty values",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestValidate_InvalidSchedule(t *testing.T) {
	cfg := Config{
		Schedule:   ScheduleConfig{Cron: "not a cron", TimeZone: "UTC"},
		Batch:      BatchConfig{Concurrency: 1, Budget: time.Minute},
		Cache:      CacheConfig{TTL: time.Hour},
		Regions:    []string{"a"},
		Categories: []string{"b"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid cron spec, got nil")
	}

	cfg.Schedule = ScheduleConfig{Cron: DefaultCron, TimeZone: "Mars/Olympus"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid time zone, got nil")
	}
}

func TestLookup(t *testing.T) {
	cfg := Config{Regions: []string{"Europe Central"}, Categories: []string{"Cooking", "Sailing"}}

	job, err := cfg.Lookup("Europe Central", "Sailing")
	if err != nil {
		t.Fatalf("Lookup unexpected error: %v", err)
	}
	if job.Category != "Sailing" {
		t.Errorf("job.Category = %q, want %q", job.Category, "Sailing")
	}

	if _, err := cfg.Lookup("Europe Central", "Pets"); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("Lookup error = %v, want ErrUnknownJob", err)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
