// internal/cache/pendingsale_cache_test.go
package cache

import (
	"context"
	"testing"

	"realty-sales/internal/domain"

	"github.com/stretchr/testify/assert"
)

// A nil cache (Redis not configured) must behave as a transparent no-op.
func TestNilCacheIsNoOp(t *testing.T) {
	var c *PendingSaleCache
	ctx := context.Background()

	_, hit := c.Get(ctx, 1)
	assert.False(t, hit)

	c.Set(ctx, &domain.PendingSaleWithDetails{})
	c.Invalidate(ctx, 1, 2, 3)
}

func TestCacheWithoutClientIsNoOp(t *testing.T) {
	c := NewPendingSaleCache(nil, 0)
	ctx := context.Background()

	_, hit := c.Get(ctx, 1)
	assert.False(t, hit)

	c.Set(ctx, &domain.PendingSaleWithDetails{})
	c.Invalidate(ctx, 1)
}
