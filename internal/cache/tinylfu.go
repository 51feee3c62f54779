package cache

import (
	"fmt"
	"strconv"

	"github.com/vmihailenco/go-tinylfu"
)

// tinyLFUCache counts evictions through per-item callbacks. The library does
// not expose its size, so Len is derived from stores and evictions.
type tinyLFUCache struct {
	stats
	c        *tinylfu.T
	capacity int
	stored   int
	removed  int
	onEvict  func()
}

// NewTinyLFU creates a TinyLFU cache.
func NewTinyLFU(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("tinylfu: %w", ErrInvalidCapacity)
	}
	c := &tinyLFUCache{c: tinylfu.New(capacity, capacity*10), capacity: capacity}
	c.onEvict = func() {
		c.evicted++
		c.removed++
	}
	return c, nil
}

func (c *tinyLFUCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(strconv.Itoa(key))
	if !ok {
		c.missed++
		return "", false
	}
	return v.(string), true //nolint:errcheck,revive // type is known from Store
}

func (c *tinyLFUCache) Store(key int, value string) {
	c.c.Set(&tinylfu.Item{Key: strconv.Itoa(key), Value: value, OnEvict: c.onEvict})
	c.stored++
}

func (*tinyLFUCache) Name() string {
	return "tinylfu"
}

func (c *tinyLFUCache) Len() int {
	return min(c.stored-c.removed, c.capacity)
}

func (*tinyLFUCache) Close() {}
