// Package output provides result formatting and export.
package output

import (
	"runtime"

	"github.com/tstromberg/evictmark/internal/benchmark"
)

// Results holds everything a run produced.
type Results struct {
	Timestamp   string
	Cache       []benchmark.CacheEntry
	Collection  []benchmark.CollectionEntry
	HitRate     *HitRateData
	Latency     *LatencyData
	Memory      *MemoryData
	Rankings    []Ranking
	MedalTable  *MedalTable
	MachineInfo MachineInfo
}

// MachineInfo holds information about the benchmark environment.
type MachineInfo struct {
	OS          string
	Arch        string
	NumCPU      int
	GoVersion   string
	CommandLine string
}

// CurrentMachine describes the running process.
func CurrentMachine() MachineInfo {
	return MachineInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}

// Ranking represents an overall ranking entry.
type Ranking struct {
	Rank   int
	Name   string
	Score  float64
	Gold   int
	Silver int
	Bronze int
}

// BenchmarkMedal holds one benchmark's top three placements. Tied caches
// share a placement.
type BenchmarkMedal struct {
	Name   string
	Gold   []string
	Silver []string
	Bronze []string
}

// CategoryMedals holds medals for a benchmark category with its winner.
type CategoryMedals struct {
	Name       string
	Benchmarks []BenchmarkMedal
	Rankings   []Ranking
}

// MedalTable holds all benchmark medals organized by category.
type MedalTable struct {
	Categories []CategoryMedals
}

// HitRateData holds hit rate benchmark data.
type HitRateData struct {
	Results []benchmark.HitRateResult
	Sizes   []int
}

// Workloads returns the workloads present, in first-seen order.
func (d *HitRateData) Workloads() []string {
	var names []string
	seen := map[string]bool{}
	for _, r := range d.Results {
		if !seen[r.Workload] {
			seen[r.Workload] = true
			names = append(names, r.Workload)
		}
	}
	return names
}

// ForWorkload returns the results of one workload.
func (d *HitRateData) ForWorkload(name string) []benchmark.HitRateResult {
	var out []benchmark.HitRateResult
	for _, r := range d.Results {
		if r.Workload == name {
			out = append(out, r)
		}
	}
	return out
}

// LatencyData holds testing.Benchmark latency data.
type LatencyData struct {
	Results []benchmark.LatencyResult
}

// MemoryData holds memory benchmark data.
type MemoryData struct {
	Results  []benchmark.MemoryResult
	Capacity int
	ValSize  int
}
