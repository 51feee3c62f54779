package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// ristrettoCache applies stores asynchronously, so a load right after a store
// may still miss and counters settle only after Wait.
type ristrettoCache struct {
	syncStats
	c *ristretto.Cache
}

// NewRistretto creates a Ristretto cache.
func NewRistretto(capacity int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("ristretto: %w", ErrInvalidCapacity)
	}
	rc := &ristrettoCache{}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        int64(capacity) * 10,
		MaxCost:            int64(capacity),
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
		OnEvict: func(*ristretto.Item) {
			rc.evicted.Add(1)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ristretto: %w", err)
	}
	rc.c = c
	return rc, nil
}

func (c *ristrettoCache) Load(key int) (string, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		c.missed.Add(1)
		return "", false
	}
	return v.(string), true //nolint:errcheck,revive // type is known from Store
}

func (c *ristrettoCache) Store(key int, value string) {
	c.c.Set(key, value, 1)
}

func (*ristrettoCache) Name() string {
	return "ristretto"
}

func (c *ristrettoCache) Len() int {
	m := c.c.Metrics
	return int(m.KeysAdded() - m.KeysEvicted()) //nolint:gosec // evictions never exceed additions
}

func (c *ristrettoCache) Close() {
	c.c.Wait() // flush pending async writes
	c.c.Close()
}
