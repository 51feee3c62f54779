package cache

import (
	"math/rand/v2"
	"testing"

	"github.com/Code-Hex/go-generics-cache/policy/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Storing after a missed load must leave the ring exactly as the bare policy
// would, so reference counts are not inflated by the residency check.
func TestClockStoreAfterMissMatchesPolicy(t *testing.T) {
	inst, err := NewClock(16)
	require.NoError(t, err)
	c := inst.(*clockCache)
	ref := clock.NewCache[int, string](clock.WithCapacity(16))

	rng := rand.New(rand.NewPCG(8, 9))
	evicted := 0
	for range 5000 {
		k := rng.IntN(64)
		if _, ok := c.Load(k); !ok {
			c.Store(k, "v")
		}
		if _, ok := ref.Get(k); !ok {
			if ref.Len() == 16 {
				evicted++
			}
			ref.Set(k, "v")
		}
	}
	assert.Equal(t, ref.Keys(), c.c.Keys())
	assert.Equal(t, evicted, c.EvictedCount())
}

func TestClockOverwriteAtCapacityDoesNotEvict(t *testing.T) {
	c, err := NewClock(2)
	require.NoError(t, err)

	c.Store(1, "a")
	c.Store(2, "b")
	c.Store(1, "c")
	assert.Equal(t, 0, c.EvictedCount())
	v, ok := c.Load(1)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	c.Store(3, "d")
	assert.Equal(t, 1, c.EvictedCount())
	assert.Equal(t, 2, c.Len())
}
