package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration of the historical service.
type Config struct {
	Schedule   ScheduleConfig `yaml:"schedule"`
	Batch      BatchConfig    `yaml:"batch"`
	Cache      CacheConfig    `yaml:"cache"`
	HTTP       HTTPConfig     `yaml:"http"`
	Regions    []string       `yaml:"regions"`
	Categories []string       `yaml:"categories"`
}

// ScheduleConfig controls when batches are triggered.
type ScheduleConfig struct {
	Cron     string `yaml:"cron"`      // Standard 5-field cron spec
	TimeZone string `yaml:"time_zone"` // IANA time zone the cron expression is evaluated in
}

// BatchConfig bounds a single batch run.
type BatchConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Budget      time.Duration `yaml:"budget"`
}

// CacheConfig configures the snapshot cache.
type CacheConfig struct {
	TTL       time.Duration `yaml:"ttl"`
	Namespace string        `yaml:"namespace"`
}

// HTTPConfig configures the health and trigger endpoints.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// ErrUnknownJob is returned by Lookup for a pair that is not configured.
var ErrUnknownJob = errors.New("unknown region/category job")

// Job is one region/category pair.
type Job struct {
	Region   string
	Category string
}

// Jobs returns every region/category combination, region-major.
func (c *Config) Jobs() []Job {
	jobs := make([]Job, 0, len(c.Regions)*len(c.Categories))
	for _, r := range c.Regions {
		for _, cat := range c.Categories {
			jobs = append(jobs, Job{Region: r, Category: cat})
		}
	}
	return jobs
}

// Lookup returns the configured job for region and category.
func (c *Config) Lookup(region, category string) (Job, error) {
	for _, j := range c.Jobs() {
		if j.Region == region && j.Category == category {
			return j, nil
		}
	}
	return Job{}, fmt.Errorf("%w: %s - %s", ErrUnknownJob, region, category)
}

// Load reads a YAML file with ${ENV} substitution. Defaults are not applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// LoadWithDefaults reads the file, applies defaults and validates the result.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
