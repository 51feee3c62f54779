// Package cache provides the eviction policies under benchmark and adapters
// that expose reference cache libraries through the same contract.
package cache

import (
	"errors"
	"sync/atomic"
)

// ErrInvalidCapacity is returned when a cache is constructed with capacity < 1.
var ErrInvalidCapacity = errors.New("capacity must be at least 1")

// Cache is a bounded key/value store with eviction and miss statistics.
//
// Store and Load never fail. Load counts exactly one miss per absent key and
// only mutates replacement state on a hit. Counters are cumulative until
// ClearStats, which leaves entries and ordering untouched.
type Cache[K comparable, V any] interface {
	Store(key K, value V)
	Load(key K) (V, bool)
	EvictedCount() int
	MissCount() int
	ClearStats()
}

// Instance is an int-keyed cache as driven by the benchmark suites.
type Instance interface {
	Cache[int, string]
	Name() string
	Len() int
	Close()
}

// Factory creates a new cache instance with the given capacity.
type Factory func(capacity int) (Instance, error)

// stats holds the counters of single-goroutine caches.
type stats struct {
	evicted int
	missed  int
}

// EvictedCount returns the number of evictions since creation or the last ClearStats.
func (s *stats) EvictedCount() int { return s.evicted }

// MissCount returns the number of failed loads since creation or the last ClearStats.
func (s *stats) MissCount() int { return s.missed }

// ClearStats resets both counters.
func (s *stats) ClearStats() {
	s.evicted = 0
	s.missed = 0
}

// syncStats is used by adapters whose libraries report evictions from
// background goroutines.
type syncStats struct {
	evicted atomic.Int64
	missed  atomic.Int64
}

func (s *syncStats) EvictedCount() int { return int(s.evicted.Load()) }

func (s *syncStats) MissCount() int { return int(s.missed.Load()) }

func (s *syncStats) ClearStats() {
	s.evicted.Store(0)
	s.missed.Store(0)
}

// displaced returns how many resident entries a store removed, given the
// entry count before and after and whether the key was already resident.
func displaced(before int, resident bool, after int) int {
	if !resident {
		before++
	}
	return max(before-after, 0)
}
