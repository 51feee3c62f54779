package cache

import (
	"fmt"

	"github.com/maypok86/otter/v2"
)

// otterCache applies evictions during background maintenance.
type otterCache struct {
	syncStats
	c *otter.Cache[int, string]
}

// NewOtter creates an Otter cache.
func NewOtter(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("otter: %w", ErrInvalidCapacity)
	}
	oc := &otterCache{}
	c, err := otter.New(&otter.Options[int, string]{
		MaximumSize: capacity,
		OnAtomicDeletion: func(e otter.DeletionEvent[int, string]) {
			if e.WasEvicted() {
				oc.evicted.Add(1)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("otter: %w", err)
	}
	oc.c = c
	return oc, nil
}

func (c *otterCache) Load(key int) (string, bool) {
	v, ok := c.c.GetIfPresent(key)
	if !ok {
		c.missed.Add(1)
	}
	return v, ok
}

func (c *otterCache) Store(key int, value string) {
	c.c.Set(key, value)
}

func (*otterCache) Name() string {
	return "otter"
}

func (c *otterCache) Len() int {
	return c.c.EstimatedSize()
}

func (c *otterCache) Close() {
	c.c.CleanUp()
}
