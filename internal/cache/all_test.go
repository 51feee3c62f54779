package cache

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exactCaches report evictions synchronously and hold exactly capacity entries.
var exactCaches = []string{"lru", "lfu", "random", "2q", "arc", "fifo", "clock", "sieve", "s3-fifo", "freelru-sync"}

func TestSingleEvictionAtCapacity(t *testing.T) {
	const capacity = 4
	for _, name := range exactCaches {
		t.Run(name, func(t *testing.T) {
			c, err := New(name, capacity)
			require.NoError(t, err)
			defer c.Close()

			for i := range capacity {
				c.Store(i, "v")
			}
			assert.Equal(t, 0, c.EvictedCount())
			assert.Equal(t, capacity, c.Len())

			c.Store(capacity, "new")
			assert.Equal(t, 1, c.EvictedCount())
			assert.Equal(t, capacity, c.Len())
			assert.Equal(t, 0, c.MissCount(), "stores never count misses")
			if name != "random" {
				v, ok := c.Load(capacity)
				assert.True(t, ok)
				assert.Equal(t, "new", v)
			}
		})
	}
}

func TestMissCountedOncePerAbsentLoad(t *testing.T) {
	for _, name := range AvailableNames() {
		t.Run(name, func(t *testing.T) {
			c, err := New(name, 64)
			require.NoError(t, err)
			defer c.Close()

			for i := range 32 {
				c.Store(i, "v")
			}
			for i := range 5 {
				_, ok := c.Load(-1 - i)
				assert.False(t, ok)
			}
			assert.Equal(t, 5, c.MissCount())
		})
	}
}

func TestClearStatsKeepsEntries(t *testing.T) {
	for _, name := range exactCaches {
		t.Run(name, func(t *testing.T) {
			c, err := New(name, 2)
			require.NoError(t, err)
			defer c.Close()

			c.Store(1, "a")
			c.Store(2, "b")
			c.Store(3, "c")
			c.Load(99)
			require.Equal(t, 1, c.EvictedCount())
			require.Equal(t, 1, c.MissCount())
			size := c.Len()

			c.ClearStats()

			assert.Equal(t, 0, c.EvictedCount())
			assert.Equal(t, 0, c.MissCount())
			assert.Equal(t, size, c.Len())
		})
	}
}

func TestClearStatsKeepsReplacementState(t *testing.T) {
	lru, err := NewLRU[int, string](2)
	require.NoError(t, err)
	lru.Store(1, "a")
	lru.Store(2, "b")
	lru.Load(1)
	lru.ClearStats()
	lru.Store(3, "c")
	assert.Equal(t, []int{1, 3}, lru.Keys())

	lfu, err := NewLFU[int, string](2)
	require.NoError(t, err)
	lfu.Store(1, "a")
	lfu.Store(2, "b")
	lfu.Load(1)
	lfu.ClearStats()
	assert.Equal(t, 2, lfu.Frequency(1))
	lfu.Store(3, "c")
	assert.Equal(t, 0, lfu.Frequency(2))
	assert.Equal(t, 1, lfu.EvictedCount())
}

func TestFilter(t *testing.T) {
	defer SetFilter(nil)

	SetFilter([]string{"lfu", "otter", "nope"})
	assert.Equal(t, []string{"lfu", "otter"}, AllNames())
	assert.Equal(t, []string{"lfu"}, PolicyNames())
	assert.Len(t, All(), 2)

	SetFilter(nil)
	assert.Equal(t, AvailableNames(), AllNames())
	assert.Equal(t, []string{"lru", "lfu", "random"}, PolicyNames())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("memcached")
	require.ErrorIs(t, err, ErrUnknownCache)
	_, err = New("memcached", 10)
	require.ErrorIs(t, err, ErrUnknownCache)
}

func TestNewSeededRandomIsReproducible(t *testing.T) {
	survivors := func() []int {
		c, err := NewSeeded("random", 10, rand.New(rand.NewPCG(42, 7)))
		require.NoError(t, err)
		defer c.Close()
		for i := range 100 {
			c.Store(i, "v")
		}
		var keys []int
		for i := range 100 {
			if _, ok := c.Load(i); ok {
				keys = append(keys, i)
			}
		}
		return keys
	}
	first := survivors()
	assert.Len(t, first, 10)
	assert.Equal(t, first, survivors())
}

func TestNewSeededOtherCaches(t *testing.T) {
	c, err := NewSeeded("lru", 4, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, "lru", c.Name())

	c, err = NewSeeded("random", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "random", c.Name())

	_, err = NewSeeded("memcached", 4, rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, ErrUnknownCache)
}

func TestDisplaced(t *testing.T) {
	tests := []struct {
		before   int
		resident bool
		after    int
		want     int
	}{
		{before: 0, resident: false, after: 1, want: 0},
		{before: 4, resident: false, after: 4, want: 1},
		{before: 4, resident: true, after: 4, want: 0},
		{before: 4, resident: true, after: 3, want: 1},
		{before: 4, resident: false, after: 5, want: 0},
	}
	for _, tt := range tests {
		if got := displaced(tt.before, tt.resident, tt.after); got != tt.want {
			t.Errorf("displaced(%d, %v, %d) = %d, want %d", tt.before, tt.resident, tt.after, got, tt.want)
		}
	}
}
