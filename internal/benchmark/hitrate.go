package benchmark

import (
	"fmt"
	"log/slog"

	"github.com/tstromberg/evictmark/internal/cache"
	"github.com/tstromberg/evictmark/internal/trace"
	"github.com/tstromberg/evictmark/internal/workload"
)

// HitRateResult holds hit rates keyed by cache size for one cache and workload.
type HitRateResult struct {
	Name     string          `json:"name"`
	Workload string          `json:"workload"`
	Rates    map[int]float64 `json:"rates"`
}

// HitRateConfig configures RunHitRate.
type HitRateConfig struct {
	Caches    []string
	Workloads []string
	Sizes     []int
	// Keyspace is the number of distinct keys; Ops the number of accesses.
	Keyspace int
	Ops      int
	Seed     uint64
	// Traces are replayed after the synthetic workloads, named by file.
	Traces []trace.Trace
	Logger *slog.Logger
}

// DefaultHitRateSizes are the capacities each cache is replayed at.
var DefaultHitRateSizes = []int{1_000, 10_000, 40_000}

// DefaultHitRateConfig returns the configuration the CLI uses.
func DefaultHitRateConfig() HitRateConfig {
	return HitRateConfig{
		Workloads: workload.Names(),
		Sizes:     DefaultHitRateSizes,
		Keyspace:  1_000_000,
		Ops:       1_000_000,
		Seed:      42,
	}
}

// RunHitRate replays each workload against every cache and size. The trace
// is generated once per workload so all caches see identical keys.
func RunHitRate(cfg HitRateConfig) ([]HitRateResult, error) {
	if cfg.Ops < 1 || cfg.Keyspace < 1 {
		return nil, fmt.Errorf("hit rate: ops %d and keyspace %d must be positive", cfg.Ops, cfg.Keyspace)
	}
	log := orDefault(cfg.Logger)

	var results []HitRateResult
	for _, wl := range cfg.Workloads {
		keyFn, err := workload.ByName(wl)
		if err != nil {
			return results, err
		}
		keys := workload.Generate(keyFn, cfg.Ops, cfg.Keyspace, cfg.Seed)
		log.Debug("hit rate trace generated", "workload", wl, "ops", len(keys))

		rs, err := replayAll(cfg.Caches, cfg.Sizes, wl, keys, cfg.Seed)
		results = append(results, rs...)
		if err != nil {
			return results, err
		}
	}

	for _, tr := range cfg.Traces {
		log.Debug("replaying recorded trace", "trace", tr.Name, "ops", len(tr.Keys), "unique", tr.Unique)
		rs, err := replayAll(cfg.Caches, cfg.Sizes, tr.Name, tr.Keys, cfg.Seed)
		results = append(results, rs...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func replayAll(caches []string, sizes []int, workloadName string, keys []int, seed uint64) ([]HitRateResult, error) {
	results := make([]HitRateResult, 0, len(caches))
	for _, name := range caches {
		rates := make(map[int]float64, len(sizes))
		for _, size := range sizes {
			rate, err := replay(name, size, keys, seed)
			if err != nil {
				return results, err
			}
			rates[size] = rate
		}
		results = append(results, HitRateResult{Name: name, Workload: workloadName, Rates: rates})
	}
	return results, nil
}

// replay runs trace through a fresh cache and returns the hit percentage.
func replay(name string, size int, trace []int, seed uint64) (float64, error) {
	c, err := cache.NewSeeded(name, size, seeded(seed))
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}
	defer c.Close()

	value := "v"
	for _, k := range trace {
		if _, ok := c.Load(k); !ok {
			c.Store(k, value)
		}
	}
	if len(trace) == 0 {
		return 0, nil
	}
	hits := len(trace) - c.MissCount()
	return float64(hits) / float64(len(trace)) * 100, nil
}
