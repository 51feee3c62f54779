package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type twoQueueCache struct {
	stats
	c *lru.TwoQueueCache[int, string]
}

// NewTwoQueue creates a hashicorp 2Q cache.
func NewTwoQueue(capacity int) (Instance, error) {
	c, err := lru.New2Q[int, string](capacity)
	if err != nil {
		return nil, fmt.Errorf("2q: %w", err)
	}
	return &twoQueueCache{c: c}, nil
}

func (c *twoQueueCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed++
	}
	return v, ok
}

func (c *twoQueueCache) Store(key int, value string) {
	before, resident := c.c.Len(), c.c.Contains(key)
	c.c.Add(key, value)
	c.evicted += displaced(before, resident, c.c.Len())
}

func (*twoQueueCache) Name() string {
	return "2q"
}

func (c *twoQueueCache) Len() int {
	return c.c.Len()
}

func (*twoQueueCache) Close() {}
