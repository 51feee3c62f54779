package cache

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// LRU evicts the least recently stored or loaded key.
type LRU[K comparable, V any] struct {
	stats
	c *simplelru.LRU[K, V]
}

// NewLRU creates a least-recently-used cache holding at most capacity entries.
func NewLRU[K comparable, V any](capacity int) (*LRU[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("lru: %w", ErrInvalidCapacity)
	}
	c, err := simplelru.NewLRU[K, V](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("lru: %w", err)
	}
	return &LRU[K, V]{c: c}, nil
}

// Store inserts or overwrites key and marks it most recent.
func (c *LRU[K, V]) Store(key K, value V) {
	if c.c.Add(key, value) {
		c.evicted++
	}
}

// Load returns the value for key and marks it most recent.
func (c *LRU[K, V]) Load(key K) (V, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed++
	}
	return v, ok
}

// Keys returns the cached keys from least to most recent.
func (c *LRU[K, V]) Keys() []K {
	return c.c.Keys()
}

func (*LRU[K, V]) Name() string {
	return "lru"
}

func (c *LRU[K, V]) Len() int {
	return c.c.Len()
}

func (*LRU[K, V]) Close() {}
