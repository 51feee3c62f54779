package benchmark

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/evictmark/internal/cache"
	"github.com/tstromberg/evictmark/internal/dataset"
)

type mapLoader map[int]string

func (m mapLoader) Load(key int) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", dataset.ErrNotFound
	}
	return v, nil
}

func newMapLoader(n int) mapLoader {
	m := make(mapLoader, n+1)
	for i := range n + 1 {
		m[i] = "value-" + strconv.Itoa(i)
	}
	return m
}

var errBackend = errors.New("backend down")

type failingLoader struct{}

func (failingLoader) Load(int) (string, error) { return "", errBackend }

func TestRunCacheSuite(t *testing.T) {
	runs := []Run{{WarmUp: 0, Tests: 60}, {WarmUp: 40, Tests: 60}}
	entries, err := RunCacheSuite(CacheSuiteConfig{
		Repo:   newMapLoader(40),
		DBSize: 40,
		Caches: cache.PolicyNames(),
		Runs:   runs,
		Seed:   7,
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	require.Len(t, entries, len(cache.PolicyNames())*len(cacheScenarios)*len(runs))

	for _, e := range entries {
		assert.Contains(t, CacheScenarioNames(), e.Method)
		assert.Equal(t, e.Tests, e.Hit+e.Missed, "%s/%s", e.Policy, e.Method)
		assert.LessOrEqual(t, e.Missed, e.Tests)
		assert.GreaterOrEqual(t, e.Evicted, 0)
		assert.InDelta(t, float64(e.Hit)/float64(e.Tests)*100, e.HitPercentage, 1e-9)
		assert.GreaterOrEqual(t, e.AvgTime.Nanoseconds(), int64(0))
		if e.WarmUp == 0 {
			// A cold cache misses on its first access.
			assert.Positive(t, e.Missed, "%s/%s", e.Policy, e.Method)
		}
	}
}

func TestRunCacheSuiteRandomIsSeeded(t *testing.T) {
	run := func() []CacheEntry {
		entries, err := RunCacheSuite(CacheSuiteConfig{
			Repo:   newMapLoader(80),
			DBSize: 80,
			Caches: []string{"random"},
			Runs:   []Run{{WarmUp: 100, Tests: 200}},
			Seed:   3,
			Logger: quietLogger(),
		})
		require.NoError(t, err)
		return entries
	}
	first, second := run(), run()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Missed, second[i].Missed, first[i].Method)
		assert.Equal(t, first[i].Evicted, second[i].Evicted, first[i].Method)
	}
}

func TestRunCacheSuiteWithDataFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dataset.Generate(&buf, 100, rand.New(rand.NewPCG(1, 2))))

	entries, err := RunCacheSuite(CacheSuiteConfig{
		Repo:      dataset.NewMemory(buf.Bytes()),
		DBSize:    100,
		Caches:    []string{"lfu"},
		Scenarios: []string{"averageCacheMissAndHitLoadTimeGaussianRandom"},
		Runs:      []Run{{WarmUp: 50, Tests: 100}},
		Logger:    quietLogger(),
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lfu", entries[0].Policy)
	assert.Equal(t, 100, entries[0].Tests)
	assert.Equal(t, 50, entries[0].WarmUp)
}

func TestRunCacheSuiteScenarioFilter(t *testing.T) {
	entries, err := RunCacheSuite(CacheSuiteConfig{
		Repo:      newMapLoader(20),
		DBSize:    20,
		Caches:    []string{"lru"},
		Scenarios: []string{"averageCacheHitLoadTimeLinearRandom", "averageCacheMissOverheadLinearRandom"},
		Runs:      []Run{{WarmUp: 0, Tests: 10}},
		Logger:    quietLogger(),
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "averageCacheHitLoadTimeLinearRandom", entries[0].Method)
	assert.Equal(t, "averageCacheMissOverheadLinearRandom", entries[1].Method)
}

func TestRunCacheSuiteLoadError(t *testing.T) {
	_, err := RunCacheSuite(CacheSuiteConfig{
		Repo:   failingLoader{},
		DBSize: 20,
		Caches: []string{"lru"},
		Runs:   []Run{{WarmUp: 0, Tests: 5}},
		Logger: quietLogger(),
	})
	require.ErrorIs(t, err, errBackend)
	assert.Contains(t, err.Error(), "lru")
}

func TestRunCacheSuiteRejectsBadConfig(t *testing.T) {
	_, err := RunCacheSuite(CacheSuiteConfig{DBSize: 20})
	require.Error(t, err)

	_, err = RunCacheSuite(CacheSuiteConfig{Repo: newMapLoader(3), DBSize: 3})
	require.Error(t, err)

	_, err = RunCacheSuite(CacheSuiteConfig{
		Repo:   newMapLoader(20),
		DBSize: 20,
		Caches: []string{"nope"},
		Runs:   []Run{{Tests: 1}},
		Logger: quietLogger(),
	})
	require.ErrorIs(t, err, cache.ErrUnknownCache)
}

func TestNewCacheEntry(t *testing.T) {
	e := NewCacheEntry("m", "lru", Run{WarmUp: 5, Tests: 200}, 50, 3, 1500)
	assert.Equal(t, 150, e.Hit)
	assert.InDelta(t, 75.0, e.HitPercentage, 1e-9)
	assert.Equal(t, 3, e.Evicted)

	zero := NewCacheEntry("m", "lru", Run{}, 0, 0, 0)
	assert.Zero(t, zero.HitPercentage)
}
