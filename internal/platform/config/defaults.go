package config

import (
	"market_history/internal/feature/history/usecase"
	"market_history/internal/platform/cache"
)

// Default values for optional configuration fields. Batch and cache values
// come from the packages that own them.
const (
	DefaultCron        = "0 0 * * *"
	DefaultTimeZone    = "America/New_York"
	DefaultConcurrency = usecase.DefaultConcurrency
	DefaultBudget      = usecase.DefaultBudget
	DefaultCacheTTL    = cache.DefaultTTL
	DefaultNamespace   = cache.DefaultNamespace
	DefaultHTTPAddr    = ":8080"
)

// DefaultRegions and DefaultCategories are used when the file lists none.
var (
	DefaultRegions = []string{
		"North America East",
		"North America West",
		"Europe Central",
		"Europe West",
		"South America",
	}
	DefaultCategories = []string{
		"Currency Exchange",
		"Engraving Recipe",
		"Enhancement Material",
		"Trader",
		"Combat Supplies",
		"Adventurer's Tome",
		"Cooking",
		"Gem Chest",
		"Mount",
		"Pets",
		"Sailing",
	}
)

func (c *Config) applyDefaults() {
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultCron
	}
	if c.Schedule.TimeZone == "" {
		c.Schedule.TimeZone = DefaultTimeZone
	}

	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = DefaultConcurrency
	}
	if c.Batch.Budget == 0 {
		c.Batch.Budget = DefaultBudget
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = DefaultNamespace
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}

	if len(c.Regions) == 0 {
		c.Regions = append([]string(nil), DefaultRegions...)
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
}
