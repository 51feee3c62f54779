package cache

import (
	"fmt"

	"github.com/Code-Hex/go-generics-cache/policy/fifo"
)

type fifoCache struct {
	stats
	c *fifo.Cache[int, string]
}

// NewFIFO creates a first-in-first-out cache.
func NewFIFO(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("fifo: %w", ErrInvalidCapacity)
	}
	return &fifoCache{c: fifo.NewCache[int, string](fifo.WithCapacity(capacity))}, nil
}

func (c *fifoCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed++
	}
	return v, ok
}

// The library dequeues before checking residency, so an overwrite at
// capacity can also displace the oldest key.
func (c *fifoCache) Store(key int, value string) {
	before := c.c.Len()
	_, resident := c.c.Get(key)
	c.c.Set(key, value)
	c.evicted += displaced(before, resident, c.c.Len())
}

func (*fifoCache) Name() string {
	return "fifo"
}

func (c *fifoCache) Len() int {
	return c.c.Len()
}

func (*fifoCache) Close() {}
