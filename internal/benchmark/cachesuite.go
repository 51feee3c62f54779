package benchmark

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/tstromberg/evictmark/internal/cache"
	"github.com/tstromberg/evictmark/internal/workload"
)

// DefaultDBSize is the number of keys in the backing data file.
const DefaultDBSize = 15_000

// Loader is the slow path a cache miss falls back to.
type Loader interface {
	Load(key int) (string, error)
}

type cacheMode int

const (
	// missLoad times misses only: lookup, backing load and store.
	missLoad cacheMode = iota
	// hitLoad times hits only.
	hitLoad
	// missAndHit times every access.
	missAndHit
	// missOverhead times misses with the backing load paused, leaving the
	// cache's own lookup and store.
	missOverhead
)

type cacheScenario struct {
	name string
	keys workload.KeyFunc
	mode cacheMode
}

var cacheScenarios = []cacheScenario{
	{"averageCacheMissLoadTimeLinearRandom", workload.Linear, missLoad},
	{"averageCacheMissLoadTimeGaussianRandom", workload.Gaussian, missLoad},
	{"averageCacheHitLoadTimeLinearRandom", workload.Linear, hitLoad},
	{"averageCacheHitLoadTimeGaussianRandom", workload.Gaussian, hitLoad},
	{"averageCacheMissAndHitLoadTimeLinearRandom", workload.Linear, missAndHit},
	{"averageCacheMissAndHitLoadTimeGaussianRandom", workload.Gaussian, missAndHit},
	{"averageCacheMissOverheadLinearRandom", workload.Linear, missOverhead},
	{"averageCacheMissOverheadGaussianRandom", workload.Gaussian, missOverhead},
}

// CacheScenarioNames returns the cache suite method names in run order.
func CacheScenarioNames() []string {
	names := make([]string, len(cacheScenarios))
	for i, s := range cacheScenarios {
		names[i] = s.name
	}
	return names
}

// CacheSuiteConfig selects what RunCacheSuite measures.
type CacheSuiteConfig struct {
	Repo   Loader
	DBSize int
	// Caches are registry names; each gets a fresh cache of DBSize/4 per run.
	Caches []string
	// Scenarios restricts the methods run; empty means all.
	Scenarios []string
	Runs      []Run
	Seed      uint64
	Logger    *slog.Logger
}

// RunCacheSuite measures every cache × scenario × run combination.
func RunCacheSuite(cfg CacheSuiteConfig) ([]CacheEntry, error) {
	if cfg.Repo == nil {
		return nil, errors.New("cache suite: repo is required")
	}
	if cfg.DBSize < 4 {
		return nil, fmt.Errorf("cache suite: db size %d is below 4", cfg.DBSize)
	}
	log := orDefault(cfg.Logger)

	var entries []CacheEntry
	for _, name := range cfg.Caches {
		for i, sc := range cacheScenarios {
			if len(cfg.Scenarios) > 0 && !slices.Contains(cfg.Scenarios, sc.name) {
				continue
			}
			for j, run := range cfg.Runs {
				seed := cfg.Seed + uint64(i*len(cfg.Runs)+j) //nolint:gosec // indexes are non-negative
				e, err := runCacheScenario(cfg, name, sc, run, seed, log)
				if err != nil {
					return entries, err
				}
				log.Debug("cache scenario done", "cache", name, "method", sc.name,
					"warmup", run.WarmUp, "tests", run.Tests, "avg", e.AvgTime)
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}

func runCacheScenario(cfg CacheSuiteConfig, name string, sc cacheScenario, run Run, seed uint64,
	log *slog.Logger,
) (CacheEntry, error) {
	c, err := cache.NewSeeded(name, cfg.DBSize/4, seeded(^seed))
	if err != nil {
		return CacheEntry{}, fmt.Errorf("create %s: %w", name, err)
	}
	defer c.Close()

	rng := seeded(seed)
	var loadErr error
	load := func(k int) string {
		v, err := cfg.Repo.Load(k)
		if err != nil && loadErr == nil {
			loadErr = fmt.Errorf("%s %s: %w", name, sc.name, err)
		}
		return v
	}

	b, err := New(Config[int, cache.Instance]{
		WarmUpIterations:   run.WarmUp,
		TestCaseIterations: run.Tests,
		DataProvider:       func(int) int { return sc.keys(rng, cfg.DBSize) },
		AfterWarmUp:        c.ClearStats,
		UnitOfWork: func(k int, it *Iteration) cache.Instance {
			v, ok := c.Load(k)
			switch {
			case ok && (sc.mode == missLoad || sc.mode == missOverhead):
				it.ExcludeIteration()
			case ok:
				it.AssertConsumed(v)
			case sc.mode == hitLoad:
				it.ExcludeIteration()
				c.Store(k, load(k))
			case sc.mode == missOverhead:
				it.Pause(func() { v = load(k) })
				c.Store(k, v)
			default:
				c.Store(k, load(k))
			}
			return c
		},
		Rand:   rng,
		Logger: log,
	})
	if err != nil {
		return CacheEntry{}, err
	}

	avg := b.Run()
	if loadErr != nil {
		return CacheEntry{}, loadErr
	}
	return NewCacheEntry(sc.name, name, run, c.MissCount(), c.EvictedCount(), avg), nil
}
