// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"market_history/internal/feature/history/adapters"
	"market_history/internal/feature/history/usecase"
	"market_history/internal/platform/cache"
	"market_history/internal/platform/config"
)

// NewBatchUsecase wires the gorm adapters, the optional Redis snapshot cache and
// the history pipeline into a BatchUsecase. A nil rdb disables caching.
func NewBatchUsecase(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *usecase.BatchUsecase {
	entries := adapters.NewEntrySource(db)
	snapshots := cache.NewCachingSnapshotStore(rdb, cfg.Cache.TTL, adapters.NewSnapshotStore(db), cfg.Cache.Namespace)
	catalog := adapters.NewCatalog(db)

	history := usecase.NewHistoryUsecase(entries, snapshots)
	return usecase.NewBatchUsecase(catalog, history, cfg.Batch.Concurrency, cfg.Batch.Budget)
}
