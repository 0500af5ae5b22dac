package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"market_history/internal/app/di"
	"market_history/internal/feature/history/adapters"
	"market_history/internal/platform/config"
	infradb "market_history/internal/platform/db"
	"market_history/internal/platform/logging"
	infraredis "market_history/internal/platform/redis"
)

// ingest は設定済みのジョブ (または -region/-category で指定した1件) を一度だけ実行します。
func main() {
	configPath := flag.String("config", "config.yaml", "path to the job configuration")
	region := flag.String("region", "", "run only this region")
	category := flag.String("category", "", "run only this category (requires -region)")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logging.Setup()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	jobs := cfg.Jobs()
	if *region != "" || *category != "" {
		job, err := cfg.Lookup(*region, *category)
		if err != nil {
			slog.Error("invalid job", "error", err)
			os.Exit(2)
		}
		jobs = []config.Job{job}
	}

	ctx := context.Background()

	db, err := infradb.OpenDB(adapters.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() { _ = rdb.Close() }()
	}

	batch := di.NewBatchUsecase(db, rdb, cfg)

	failed := 0
	for _, j := range jobs {
		report, err := batch.Run(ctx, j.Region, j.Category)
		if err != nil {
			// 1つのジョブが失敗しても次のジョブを続ける
			failed++
			continue
		}
		failed += report.Failed
	}
	slog.Info("ingest finished", "jobs", len(jobs), "failed_items", failed)
}
