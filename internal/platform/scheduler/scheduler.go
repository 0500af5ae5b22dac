// Package scheduler triggers historical batches on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"market_history/internal/feature/history/usecase"
	"market_history/internal/platform/config"
)

// BatchRunner runs one batch for a region/category pair.
type BatchRunner interface {
	Run(ctx context.Context, region, category string) (usecase.BatchReport, error)
}

// Scheduler owns the cron instance and the registered jobs.
type Scheduler struct {
	cron   *cron.Cron
	runner BatchRunner
	ctx    context.Context
}

// New creates a Scheduler evaluating cron specs in the given time zone.
// ctx is passed to every triggered batch.
func New(ctx context.Context, runner BatchRunner, timeZone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", timeZone, err)
	}
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(logger))),
		runner: runner,
		ctx:    ctx,
	}, nil
}

// RegisterAll registers one entry per job, all on the same spec.
func (s *Scheduler) RegisterAll(spec string, jobs []config.Job) error {
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(spec, s.task(j)); err != nil {
			return fmt.Errorf("register %s - %s: %w", j.Region, j.Category, err)
		}
	}
	slog.Info("historical jobs registered", "jobs", len(jobs), "spec", spec)
	return nil
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) task(j config.Job) func() {
	return func() {
		if _, err := s.runner.Run(s.ctx, j.Region, j.Category); err != nil {
			slog.Error("historical batch failed", "region", j.Region, "category", j.Category, "error", err)
		}
	}
}
