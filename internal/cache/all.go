package cache

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrUnknownCache is returned by Lookup for unregistered names.
var ErrUnknownCache = errors.New("unknown cache")

// registry maps cache names to their factory functions.
var registry = map[string]Factory{
	"lru":           newLRUInstance,
	"lfu":           newLFUInstance,
	"random":        func(capacity int) (Instance, error) { return newRandomInstance(capacity, nil) },
	"otter":         NewOtter,
	"theine":        NewTheine,
	"ttlcache":      NewTTLCache,
	"ristretto":     NewRistretto,
	"tinylfu":       NewTinyLFU,
	"sieve":         NewSieve,
	"s3-fifo":       NewS3FIFO,
	"freelru-shard": NewFreeLRUSharded,
	"freelru-sync":  NewFreeLRUSynced,
	"freecache":     NewFreecache,
	"2q":            NewTwoQueue,
	"arc":           NewARC,
	"fifo":          NewFIFO,
	"clock":         NewClock,
}

// seededRegistry holds the caches whose eviction choices draw on a random source.
var seededRegistry = map[string]func(capacity int, rng *rand.Rand) (Instance, error){
	"random": newRandomInstance,
}

// policyOrder lists the policies implemented in this package.
var policyOrder = []string{"lru", "lfu", "random"}

// defaultOrder defines the display order for caches.
var defaultOrder = []string{
	"lru", "lfu", "random",
	"otter", "theine", "ttlcache", "ristretto", "tinylfu", "sieve", "s3-fifo",
	"freelru-shard", "freelru-sync", "freecache", "2q", "arc", "fifo", "clock",
}

// Filter holds the current cache filter (nil = all caches).
var Filter map[string]bool

// SetFilter sets which caches to include in benchmarks.
func SetFilter(names []string) {
	if len(names) == 0 {
		Filter = nil
		return
	}
	Filter = make(map[string]bool)
	for _, name := range names {
		Filter[name] = true
	}
}

// All returns factories for all (or filtered) cache implementations.
func All() []Factory {
	var factories []Factory
	for _, name := range AllNames() {
		factories = append(factories, registry[name])
	}
	return factories
}

// AllNames returns the names of all (or filtered) cache implementations.
func AllNames() []string {
	if Filter == nil {
		return defaultOrder
	}
	var names []string
	for _, name := range defaultOrder {
		if Filter[name] {
			names = append(names, name)
		}
	}
	return names
}

// AvailableNames returns all available cache names (ignoring filter).
func AvailableNames() []string {
	return defaultOrder
}

// PolicyNames returns the in-package policies that pass the filter.
func PolicyNames() []string {
	var names []string
	for _, name := range policyOrder {
		if Filter == nil || Filter[name] {
			names = append(names, name)
		}
	}
	return names
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCache, name)
	}
	return f, nil
}

// New creates the cache registered under name.
func New(name string, capacity int) (Instance, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f(capacity)
}

// NewSeeded is New with an explicit random source for caches that evict at
// random. Other caches ignore rng.
func NewSeeded(name string, capacity int, rng *rand.Rand) (Instance, error) {
	if f, ok := seededRegistry[name]; ok && rng != nil {
		return f(capacity, rng)
	}
	return New(name, capacity)
}

func newLRUInstance(capacity int) (Instance, error) {
	c, err := NewLRU[int, string](capacity)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newLFUInstance(capacity int) (Instance, error) {
	c, err := NewLFU[int, string](capacity)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newRandomInstance(capacity int, rng *rand.Rand) (Instance, error) {
	c, err := NewRandom[int, string](capacity, rng)
	if err != nil {
		return nil, err
	}
	return c, nil
}
