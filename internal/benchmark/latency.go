package benchmark

import (
	"fmt"
	"testing"

	"github.com/tstromberg/evictmark/internal/cache"
)

// LatencyResult holds single-threaded testing.Benchmark figures for a cache.
type LatencyResult struct {
	Name             string  `json:"name"`
	LoadNsOp         float64 `json:"loadNsOp"`
	StoreNsOp        float64 `json:"storeNsOp"`
	StoreEvictNsOp   float64 `json:"storeEvictNsOp"` // keyspace 20x capacity
	LoadAllocs       int64   `json:"loadAllocs"`
	StoreAllocs      int64   `json:"storeAllocs"`
	StoreEvictAllocs int64   `json:"storeEvictAllocs"`
}

const latencyCacheSize = 10_000

// RunLatency cross-checks the engine against testing.Benchmark.
func RunLatency(names []string) ([]LatencyResult, error) {
	results := make([]LatencyResult, 0, len(names))

	values := make([]string, latencyCacheSize*20)
	for i := range values {
		values[i] = fmt.Sprintf("value-%d", i)
	}

	for _, name := range names {
		factory, err := cache.Lookup(name)
		if err != nil {
			return results, err
		}
		// Fail fast instead of inside testing.Benchmark.
		c, err := factory(latencyCacheSize)
		if err != nil {
			return results, fmt.Errorf("create %s: %w", name, err)
		}
		c.Close()

		load := testing.Benchmark(func(b *testing.B) { benchLoad(b, factory, values) })
		store := testing.Benchmark(func(b *testing.B) { benchStore(b, factory, values, latencyCacheSize) })
		evict := testing.Benchmark(func(b *testing.B) { benchStore(b, factory, values, len(values)) })

		results = append(results, LatencyResult{
			Name:             name,
			LoadNsOp:         float64(load.NsPerOp()),
			StoreNsOp:        float64(store.NsPerOp()),
			StoreEvictNsOp:   float64(evict.NsPerOp()),
			LoadAllocs:       load.AllocsPerOp(),
			StoreAllocs:      store.AllocsPerOp(),
			StoreEvictAllocs: evict.AllocsPerOp(),
		})
	}
	return results, nil
}

func benchLoad(b *testing.B, factory cache.Factory, values []string) {
	c, err := factory(latencyCacheSize)
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	for k := range latencyCacheSize {
		c.Store(k, values[k])
	}

	b.ResetTimer()
	for i := range b.N {
		c.Load(i % latencyCacheSize)
	}
}

// benchStore stores over keyspace keys; a keyspace above capacity forces evictions.
func benchStore(b *testing.B, factory cache.Factory, values []string, keyspace int) {
	c, err := factory(latencyCacheSize)
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	b.ResetTimer()
	for i := range b.N {
		k := i % keyspace
		c.Store(k, values[k])
	}
}
