package cache

import (
	"fmt"

	lru "github.com/elastic/go-freelru"
)

func hashInt(i int) uint32 {
	return uint32(i) //nolint:gosec // truncation is fine for hashing
}

// freeLRU is the subset of the freelru caches used here.
type freeLRU interface {
	Add(key int, value string) bool
	Get(key int) (string, bool)
	Len() int
}

type freeLRUCache struct {
	stats
	c    freeLRU
	name string
}

// NewFreeLRUSynced creates a mutex-guarded freelru cache.
func NewFreeLRUSynced(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("freelru-sync: %w", ErrInvalidCapacity)
	}
	c, err := lru.NewSynced[int, string](uint32(capacity), hashInt) //nolint:gosec // capacity checked above
	if err != nil {
		return nil, fmt.Errorf("freelru-sync: %w", err)
	}
	return &freeLRUCache{c: c, name: "freelru-sync"}, nil
}

// NewFreeLRUSharded creates a sharded freelru cache. Each shard evicts on
// its own, so evictions can begin before the cache is full.
func NewFreeLRUSharded(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("freelru-shard: %w", ErrInvalidCapacity)
	}
	c, err := lru.NewSharded[int, string](uint32(capacity), hashInt) //nolint:gosec // capacity checked above
	if err != nil {
		return nil, fmt.Errorf("freelru-shard: %w", err)
	}
	return &freeLRUCache{c: c, name: "freelru-shard"}, nil
}

func (c *freeLRUCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed++
	}
	return v, ok
}

func (c *freeLRUCache) Store(key int, value string) {
	if c.c.Add(key, value) {
		c.evicted++
	}
}

func (c *freeLRUCache) Name() string {
	return c.name
}

func (c *freeLRUCache) Len() int {
	return c.c.Len()
}

func (*freeLRUCache) Close() {}
