package cache

import (
	"fmt"
	"strconv"

	"github.com/coocood/freecache"
)

// FreecacheEntrySize is the per-entry byte estimate used to size freecache:
// an int key, a short string value and ~32 bytes of header.
const FreecacheEntrySize = 64

type freecacheCache struct {
	stats
	c   *freecache.Cache
	buf []byte
}

// NewFreecache creates a byte-bounded freecache sized for capacity entries.
// freecache has a 512KB floor, so small capacities hold more than asked for.
func NewFreecache(capacity int) (Instance, error) {
	return NewFreecacheSized(capacity, FreecacheEntrySize)
}

// NewFreecacheSized creates a freecache with a specific entry size.
func NewFreecacheSized(capacity, entrySize int) (Instance, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("freecache: %w", ErrInvalidCapacity)
	}
	cacheBytes := max(capacity*entrySize,
		// minimum 512KB
		512*1024)
	return &freecacheCache{c: freecache.NewCache(cacheBytes)}, nil
}

func (c *freecacheCache) key(k int) []byte {
	c.buf = strconv.AppendInt(c.buf[:0], int64(k), 10)
	return c.buf
}

func (c *freecacheCache) Load(key int) (string, bool) {
	v, err := c.c.Get(c.key(key))
	if err != nil {
		c.missed++
		return "", false
	}
	return string(v), true
}

// Evacuation also counts relocated entries, so evictions are derived from
// the entry count instead.
func (c *freecacheCache) Store(key int, value string) {
	k := c.key(key)
	before := c.c.EntryCount()
	_, err := c.c.Peek(k)
	c.c.Set(k, []byte(value), 0) //nolint:errcheck,gosec // best-effort set
	c.evicted += displaced(int(before), err == nil, int(c.c.EntryCount()))
}

func (*freecacheCache) Name() string {
	return "freecache"
}

func (c *freecacheCache) Len() int {
	return int(c.c.EntryCount())
}

func (*freecacheCache) Close() {}
