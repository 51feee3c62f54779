// Package benchmark measures average operation latency with warm-up,
// GC isolation and pause subtraction, and runs the cache and collection
// suites built on it.
package benchmark

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// Run is one (warm-up, measured) iteration pair of a suite.
type Run struct {
	WarmUp int
	Tests  int
}

// DefaultCacheRuns mirror a cold and a warmed measurement.
var DefaultCacheRuns = []Run{{WarmUp: 0, Tests: 1000}, {WarmUp: 10_000, Tests: 1000}}

// DefaultCollectionRuns are used for the collection suite.
var DefaultCollectionRuns = []Run{{WarmUp: 0, Tests: 10}, {WarmUp: 100, Tests: 10}}

// CacheEntry is one cache suite measurement.
type CacheEntry struct {
	Method        string        `json:"method"`
	Policy        string        `json:"policy"`
	WarmUp        int           `json:"warmup"`
	Tests         int           `json:"tests"`
	Missed        int           `json:"missed"`
	Hit           int           `json:"hit"`
	HitPercentage float64       `json:"hitPercentage"`
	Evicted       int           `json:"evicted"`
	AvgTime       time.Duration `json:"avgTimeNs"`
}

// NewCacheEntry derives hit figures from the miss count of a run.
func NewCacheEntry(method, policy string, run Run, missed, evicted int, avg time.Duration) CacheEntry {
	e := CacheEntry{
		Method:  method,
		Policy:  policy,
		WarmUp:  run.WarmUp,
		Tests:   run.Tests,
		Missed:  missed,
		Hit:     run.Tests - missed,
		Evicted: evicted,
		AvgTime: avg,
	}
	if run.Tests > 0 {
		e.HitPercentage = float64(e.Hit) / float64(run.Tests) * 100
	}
	return e
}

// CollectionEntry is one collection suite measurement.
type CollectionEntry struct {
	Method     string        `json:"method"`
	Collection string        `json:"collection"`
	WarmUp     int           `json:"warmup"`
	Tests      int           `json:"tests"`
	Size       int           `json:"size"`
	AvgTime    time.Duration `json:"avgTimeNs"`
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5DEECE66D))
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
