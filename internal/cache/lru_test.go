package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEvictsLeastRecentlyTouched(t *testing.T) {
	tests := []struct {
		name    string
		touch   []int
		evicted int
	}{
		{name: "insertion order", touch: nil, evicted: 0},
		{name: "oldest loaded", touch: []int{0}, evicted: 1},
		{name: "all loaded", touch: []int{2, 0, 1, 3}, evicted: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewLRU[int, string](4)
			require.NoError(t, err)
			for i := range 4 {
				c.Store(i, "v")
			}
			for _, k := range tt.touch {
				_, ok := c.Load(k)
				require.True(t, ok)
			}

			c.Store(100, "new")

			assert.Equal(t, 1, c.EvictedCount())
			assert.Equal(t, 4, c.Len())
			_, ok := c.Load(tt.evicted)
			assert.False(t, ok, "key %d should have been evicted", tt.evicted)
		})
	}
}

func TestLRUOverwriteDoesNotEvict(t *testing.T) {
	c, err := NewLRU[int, string](2)
	require.NoError(t, err)
	c.Store(1, "a")
	c.Store(2, "b")
	c.Store(1, "a2")
	c.Store(3, "c")

	assert.Equal(t, 1, c.EvictedCount())
	assert.Equal(t, []int{1, 3}, c.Keys())
	v, ok := c.Load(1)
	assert.True(t, ok)
	assert.Equal(t, "a2", v)
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, name := range AvailableNames() {
		t.Run(name, func(t *testing.T) {
			_, err := New(name, 0)
			require.Error(t, err)
		})
	}
	_, err := NewLRU[string, int](0)
	require.ErrorIs(t, err, ErrInvalidCapacity)
	_, err = NewLFU[string, int](-1)
	require.ErrorIs(t, err, ErrInvalidCapacity)
	_, err = NewRandom[string, int](0, nil)
	require.ErrorIs(t, err, ErrInvalidCapacity)
}
