// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"market_history/internal/feature/history/domain/entity"
	"market_history/internal/feature/history/usecase"
)

const (
	// DefaultTTL keeps a snapshot across one daily run.
	DefaultTTL = 25 * time.Hour
	// DefaultNamespace prefixes every cache key.
	DefaultNamespace = "history"
)

// CachingSnapshotStore decorates a SnapshotStore with a Redis write-through cache.
// Redis failures are logged and never returned to the caller.
type CachingSnapshotStore struct {
	inner     usecase.SnapshotStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SnapshotStore = (*CachingSnapshotStore)(nil)

// NewCachingSnapshotStore decorates a SnapshotStore with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses DefaultNamespace.
// A nil rdb disables caching.
func NewCachingSnapshotStore(rdb *redis.Client, ttl time.Duration, inner usecase.SnapshotStore, namespace string) *CachingSnapshotStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingSnapshotStore{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Get returns the cached snapshot, falling back to the inner store on a miss.
func (c *CachingSnapshotStore) Get(ctx context.Context, item entity.ItemRef) (*entity.HistorySnapshot, error) {
	if c.rdb == nil {
		return c.inner.Get(ctx, item)
	}

	key := c.cacheKey(item)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.HistorySnapshot
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Get(ctx, item)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}

	// 3) Store in cache (best effort)
	c.set(ctx, key, out)
	return out, nil
}

// Put writes through to the inner store and refreshes the cached snapshot.
func (c *CachingSnapshotStore) Put(ctx context.Context, item entity.ItemRef, timeData []entity.Candle, updatedAt time.Time) error {
	if err := c.inner.Put(ctx, item, timeData, updatedAt); err != nil {
		if c.rdb != nil {
			// the stored state is unknown after a failed write
			_ = c.rdb.Del(ctx, c.cacheKey(item)).Err()
		}
		return err
	}
	if c.rdb == nil {
		return nil
	}
	c.set(ctx, c.cacheKey(item), &entity.HistorySnapshot{TimeData: timeData, UpdatedAt: updatedAt})
	return nil
}

// UpdateShortHistoric is not cached.
func (c *CachingSnapshotStore) UpdateShortHistoric(ctx context.Context, item entity.ItemRef, summary entity.ShortHistoric) error {
	return c.inner.UpdateShortHistoric(ctx, item, summary)
}

func (c *CachingSnapshotStore) set(ctx context.Context, key string, s *entity.HistorySnapshot) {
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("failed to cache snapshot", "key", key, "error", err)
	}
}

// cacheKey generates the cache key of one item.
func (c *CachingSnapshotStore) cacheKey(item entity.ItemRef) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, safe(item.Region), safe(item.ID))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
