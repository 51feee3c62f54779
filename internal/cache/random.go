package cache

import (
	"fmt"
	"math/rand/v2"
	"time"
)

type randomEntry[K comparable, V any] struct {
	key   K
	value V
}

// Random evicts a uniformly chosen key whenever a store pushes it over
// capacity. The key just stored is a candidate too.
type Random[K comparable, V any] struct {
	stats
	capacity int
	index    map[K]int
	entries  []randomEntry[K, V]
	rng      *rand.Rand
}

// NewRandom creates a random-replacement cache. A nil rng is replaced with a
// time-seeded PCG source.
func NewRandom[K comparable, V any](capacity int, rng *rand.Rand) (*Random[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("random: %w", ErrInvalidCapacity)
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano()) //nolint:gosec // nanoseconds are positive
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Random[K, V]{
		capacity: capacity,
		index:    make(map[K]int, capacity+1),
		entries:  make([]randomEntry[K, V], 0, capacity+1),
		rng:      rng,
	}, nil
}

// Store inserts or overwrites key, then evicts one random key if over capacity.
func (c *Random[K, V]) Store(key K, value V) {
	if i, ok := c.index[key]; ok {
		c.entries[i].value = value
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, randomEntry[K, V]{key: key, value: value})
	if len(c.entries) > c.capacity {
		c.removeAt(c.rng.IntN(len(c.entries)))
		c.evicted++
	}
}

// Load returns the value for key.
func (c *Random[K, V]) Load(key K) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		c.missed++
		var zero V
		return zero, false
	}
	return c.entries[i].value, true
}

func (*Random[K, V]) Name() string {
	return "random"
}

func (c *Random[K, V]) Len() int {
	return len(c.entries)
}

func (*Random[K, V]) Close() {}

// removeAt swaps the last entry into slot i and truncates.
func (c *Random[K, V]) removeAt(i int) {
	last := len(c.entries) - 1
	victim := c.entries[i].key
	c.entries[i] = c.entries[last]
	c.index[c.entries[i].key] = i
	c.entries[last] = randomEntry[K, V]{}
	c.entries = c.entries[:last]
	delete(c.index, victim)
}
