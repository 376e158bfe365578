// internal/cache/pendingsale_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realty-sales/internal/domain"

	"github.com/go-redis/redis/v8"
)

const pendingSaleCachePrefix = "pending_sale:"

// PendingSaleCache is a read-through cache for pending-sale aggregates. Every
// workflow write invalidates the cached aggregate. A nil cache is a no-op so
// the service works without Redis.
type PendingSaleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPendingSaleCache creates a cache over the given Redis client.
func NewPendingSaleCache(rdb *redis.Client, ttl time.Duration) *PendingSaleCache {
	return &PendingSaleCache{rdb: rdb, ttl: ttl}
}

func pendingSaleKey(id int64) string {
	return fmt.Sprintf("%s%d", pendingSaleCachePrefix, id)
}

// Get returns the cached aggregate for the given pending-sale ID, or false on
// a miss. Cache errors are treated as misses.
func (c *PendingSaleCache) Get(ctx context.Context, id int64) (*domain.PendingSaleWithDetails, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, pendingSaleKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var sale domain.PendingSaleWithDetails
	if err := json.Unmarshal(raw, &sale); err != nil {
		_ = c.rdb.Del(ctx, pendingSaleKey(id))
		return nil, false
	}
	return &sale, true
}

// Set stores the aggregate. Failures are ignored; the store stays the source
// of truth.
func (c *PendingSaleCache) Set(ctx context.Context, sale *domain.PendingSaleWithDetails) {
	if c == nil || c.rdb == nil || sale == nil {
		return
	}
	raw, err := json.Marshal(sale)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, pendingSaleKey(sale.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached aggregates for the given pending-sale IDs.
func (c *PendingSaleCache) Invalidate(ctx context.Context, ids ...int64) {
	if c == nil || c.rdb == nil {
		return
	}
	for _, id := range ids {
		_ = c.rdb.Del(ctx, pendingSaleKey(id)).Err()
	}
}
