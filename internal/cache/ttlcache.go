package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// ttlcacheCache reports evictions from callback goroutines.
type ttlcacheCache struct {
	syncStats
	c *ttlcache.Cache[int, string]
}

// NewTTLCache creates a capacity-bounded ttlcache with an hour-long TTL.
func NewTTLCache(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("ttlcache: %w", ErrInvalidCapacity)
	}
	c := ttlcache.New[int, string](
		ttlcache.WithCapacity[int, string](uint64(capacity)),
		ttlcache.WithTTL[int, string](time.Hour), // capacity is under test, not expiration
	)
	tc := &ttlcacheCache{c: c}
	c.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[int, string]) {
		if reason == ttlcache.EvictionReasonCapacityReached {
			tc.evicted.Add(1)
		}
	})
	go c.Start()
	return tc, nil
}

func (c *ttlcacheCache) Load(key int) (string, bool) {
	item := c.c.Get(key)
	if item == nil {
		c.missed.Add(1)
		return "", false
	}
	return item.Value(), true
}

func (c *ttlcacheCache) Store(key int, value string) {
	c.c.Set(key, value, ttlcache.DefaultTTL)
}

func (*ttlcacheCache) Name() string {
	return "ttlcache"
}

func (c *ttlcacheCache) Len() int {
	return c.c.Len()
}

func (c *ttlcacheCache) Close() {
	c.c.Stop()
}
