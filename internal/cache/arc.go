package cache

import (
	"fmt"

	arc "github.com/hashicorp/golang-lru/arc/v2"
)

type arcCache struct {
	stats
	c *arc.ARCCache[int, string]
}

// NewARC creates a hashicorp adaptive replacement cache.
func NewARC(capacity int) (Instance, error) {
	c, err := arc.NewARC[int, string](capacity)
	if err != nil {
		return nil, fmt.Errorf("arc: %w", err)
	}
	return &arcCache{c: c}, nil
}

func (c *arcCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed++
	}
	return v, ok
}

// Ghost entries are not resident, so only live entries count as evicted.
func (c *arcCache) Store(key int, value string) {
	before, resident := c.c.Len(), c.c.Contains(key)
	c.c.Add(key, value)
	c.evicted += displaced(before, resident, c.c.Len())
}

func (*arcCache) Name() string {
	return "arc"
}

func (c *arcCache) Len() int {
	return c.c.Len()
}

func (*arcCache) Close() {}
