package cache

import (
	"fmt"

	"github.com/scalalang2/golang-fifo/s3fifo"
	"github.com/scalalang2/golang-fifo/sieve"
	"github.com/scalalang2/golang-fifo/types"
)

// fifoQueueCache adapts the golang-fifo caches, which report evictions
// synchronously from inside Set.
type fifoQueueCache struct {
	stats
	c    types.Cache[int, string]
	name string
}

// NewSieve creates a SIEVE cache.
func NewSieve(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("sieve: %w", ErrInvalidCapacity)
	}
	return newFIFOQueue(sieve.New[int, string](capacity, 0), "sieve"), nil
}

// NewS3FIFO creates an S3-FIFO cache.
func NewS3FIFO(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("s3-fifo: %w", ErrInvalidCapacity)
	}
	return newFIFOQueue(s3fifo.New[int, string](capacity, 0), "s3-fifo"), nil
}

func newFIFOQueue(c types.Cache[int, string], name string) *fifoQueueCache {
	fc := &fifoQueueCache{c: c, name: name}
	c.SetOnEvicted(func(_ int, _ string, reason types.EvictReason) {
		if reason == types.EvictReasonEvicted {
			fc.evicted++
		}
	})
	return fc
}

func (c *fifoQueueCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed++
	}
	return v, ok
}

func (c *fifoQueueCache) Store(key int, value string) {
	c.c.Set(key, value)
}

func (c *fifoQueueCache) Name() string {
	return c.name
}

func (c *fifoQueueCache) Len() int {
	return c.c.Len()
}

func (c *fifoQueueCache) Close() {
	c.c.Close()
}
