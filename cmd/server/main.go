package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"market_history/internal/app/di"
	"market_history/internal/app/router"
	"market_history/internal/feature/history/adapters"
	historyhandler "market_history/internal/feature/history/transport/handler"
	"market_history/internal/platform/config"
	infradb "market_history/internal/platform/db"
	platformhandler "market_history/internal/platform/http/handler"
	"market_history/internal/platform/logging"
	infraredis "market_history/internal/platform/redis"
	"market_history/internal/platform/scheduler"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logging.Setup()

	cfg, err := config.LoadWithDefaults(configPath())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(adapters.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	batch := di.NewBatchUsecase(db, rdb, cfg)

	// バッチは停止シグナルでキャンセルしない
	jobCtx := context.WithoutCancel(ctx)
	sched, err := scheduler.New(jobCtx, batch, cfg.Schedule.TimeZone)
	if err != nil {
		slog.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}
	if err := sched.RegisterAll(cfg.Schedule.Cron, cfg.Jobs()); err != nil {
		slog.Error("failed to register jobs", "error", err)
		os.Exit(1)
	}
	sched.Start()

	trigger := historyhandler.NewTriggerHandler(jobCtx, batch, cfg.Lookup)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.NewRouter(platformhandler.Health(sqlDB), trigger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		slog.Warn("scheduler did not stop in time", "error", err)
	}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
