package cache

import (
	"container/list"
	"fmt"
)

type lfuEntry[V any] struct {
	value V
	freq  int
	elem  *list.Element
}

// LFU evicts the least frequently accessed key, breaking ties by evicting the
// key that reached that frequency first. Every operation is O(1).
//
// Keys are grouped into per-frequency buckets kept in the order keys entered
// them. minFreq always names the lowest non-empty bucket while the cache is
// non-empty; empty buckets are dropped.
type LFU[K comparable, V any] struct {
	stats
	capacity int
	entries  map[K]*lfuEntry[V]
	buckets  map[int]*list.List
	minFreq  int
}

// NewLFU creates a least-frequently-used cache holding at most capacity entries.
func NewLFU[K comparable, V any](capacity int) (*LFU[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("lfu: %w", ErrInvalidCapacity)
	}
	return &LFU[K, V]{
		capacity: capacity,
		entries:  make(map[K]*lfuEntry[V], capacity),
		buckets:  make(map[int]*list.List),
	}, nil
}

// Store inserts key with frequency 1, or overwrites it and counts an access.
func (c *LFU[K, V]) Store(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.promote(key, e)
		return
	}
	if len(c.entries) >= c.capacity {
		c.evict()
	}
	c.entries[key] = &lfuEntry[V]{
		value: value,
		freq:  1,
		elem:  c.bucket(1).PushBack(key),
	}
	c.minFreq = 1
}

// Load returns the value for key and counts an access.
func (c *LFU[K, V]) Load(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.missed++
		var zero V
		return zero, false
	}
	c.promote(key, e)
	return e.value, true
}

// Frequency returns the access count of key, or 0 if it is not cached.
func (c *LFU[K, V]) Frequency(key K) int {
	if e, ok := c.entries[key]; ok {
		return e.freq
	}
	return 0
}

func (*LFU[K, V]) Name() string {
	return "lfu"
}

func (c *LFU[K, V]) Len() int {
	return len(c.entries)
}

func (*LFU[K, V]) Close() {}

// promote moves key from its bucket to the next frequency.
func (c *LFU[K, V]) promote(key K, e *lfuEntry[V]) {
	b := c.buckets[e.freq]
	b.Remove(e.elem)
	if b.Len() == 0 {
		delete(c.buckets, e.freq)
		if c.minFreq == e.freq {
			c.minFreq++
		}
	}
	e.freq++
	e.elem = c.bucket(e.freq).PushBack(key)
}

// evict drops the oldest key of the lowest-frequency bucket.
func (c *LFU[K, V]) evict() {
	b := c.buckets[c.minFreq]
	if b == nil {
		return
	}
	key := b.Remove(b.Front()).(K) //nolint:errcheck,revive // buckets only hold K
	if b.Len() == 0 {
		delete(c.buckets, c.minFreq)
	}
	delete(c.entries, key)
	c.evicted++
}

func (c *LFU[K, V]) bucket(freq int) *list.List {
	b, ok := c.buckets[freq]
	if !ok {
		b = list.New()
		c.buckets[freq] = b
	}
	return b
}

// verify reports the first broken structural invariant, if any.
func (c *LFU[K, V]) verify() error {
	if len(c.entries) > c.capacity {
		return fmt.Errorf("size %d exceeds capacity %d", len(c.entries), c.capacity)
	}
	n := 0
	lowest := 0
	for freq, b := range c.buckets {
		if b.Len() == 0 {
			return fmt.Errorf("bucket %d is empty", freq)
		}
		if lowest == 0 || freq < lowest {
			lowest = freq
		}
		for el := b.Front(); el != nil; el = el.Next() {
			key := el.Value.(K) //nolint:errcheck,revive // buckets only hold K
			e, ok := c.entries[key]
			if !ok {
				return fmt.Errorf("bucket %d holds unknown key %v", freq, key)
			}
			if e.freq != freq || e.elem != el {
				return fmt.Errorf("key %v has frequency %d but sits in bucket %d", key, e.freq, freq)
			}
			n++
		}
	}
	if n != len(c.entries) {
		return fmt.Errorf("buckets hold %d keys, cache holds %d", n, len(c.entries))
	}
	if n > 0 && c.minFreq != lowest {
		return fmt.Errorf("minFreq is %d, lowest bucket is %d", c.minFreq, lowest)
	}
	return nil
}
