package cache

import (
	"fmt"

	"github.com/Yiling-J/theine-go"
)

type theineCache struct {
	syncStats
	c *theine.Cache[int, string]
}

// NewTheine creates a Theine cache.
func NewTheine(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("theine: %w", ErrInvalidCapacity)
	}
	tc := &theineCache{}
	c, err := theine.NewBuilder[int, string](int64(capacity)).
		RemovalListener(func(_ int, _ string, reason theine.RemoveReason) {
			if reason == theine.EVICTED {
				tc.evicted.Add(1)
			}
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("theine: %w", err)
	}
	tc.c = c
	return tc, nil
}

func (c *theineCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed.Add(1)
	}
	return v, ok
}

func (c *theineCache) Store(key int, value string) {
	c.c.Set(key, value, 1)
}

func (*theineCache) Name() string {
	return "theine"
}

func (c *theineCache) Len() int {
	return c.c.Len()
}

func (c *theineCache) Close() {
	c.c.Close()
}
