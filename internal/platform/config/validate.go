package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron %q is invalid: %w", c.Schedule.Cron, err)
	}
	if _, err := time.LoadLocation(c.Schedule.TimeZone); err != nil {
		return fmt.Errorf("schedule.time_zone %q is invalid: %w", c.Schedule.TimeZone, err)
	}

	if c.Batch.Concurrency < 1 {
		return errors.New("batch.concurrency must be >= 1")
	}
	if c.Batch.Budget <= 0 {
		return errors.New("batch.budget must be > 0")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0")
	}

	if len(c.Regions) == 0 {
		return errors.New("regions must not be empty")
	}
	if len(c.Categories) == 0 {
		return errors.New("categories must not be empty")
	}
	if err := unique("regions", c.Regions); err != nil {
		return err
	}
	return unique("categories", c.Categories)
}

func unique(field string, values []string) error {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("%s must not contain empty values", field)
		}
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%s contains duplicate %q", field, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
