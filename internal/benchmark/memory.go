package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
)

// MemoryResult holds the heap a filled cache retains.
type MemoryResult struct {
	Name          string `json:"name"`
	Items         int    `json:"items"`
	Bytes         uint64 `json:"bytes"`
	BytesPerItem  int64  `json:"bytesPerItem"`
	BaselineBytes uint64 `json:"baselineBytes"`
}

type memOutput struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	Items int    `json:"items"`
	Bytes uint64 `json:"bytes"`
}

// DefaultMemoryCapacity is the cache size for memory benchmarks.
const DefaultMemoryCapacity = 32768

// DefaultValueSize is the value size in bytes.
const DefaultValueSize = 1024

// RunMemory builds cmd/mem and measures each cache in its own process.
// Caches that fail to run are logged and skipped.
func RunMemory(ctx context.Context, names []string, capacity, valSize int, log *slog.Logger) ([]MemoryResult, error) {
	log = orDefault(log)

	dir, err := os.MkdirTemp("", "evictmark-mem")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck // best-effort cleanup

	binPath := filepath.Join(dir, "mem")
	build := exec.CommandContext(ctx, "go", "build", "-o", binPath, "./cmd/mem")
	if out, err := build.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("build mem benchmark: %w\n%s", err, out)
	}

	baseline, err := runMemBenchmark(ctx, binPath, "baseline", capacity, valSize)
	if err != nil {
		return nil, fmt.Errorf("baseline benchmark: %w", err)
	}

	results := make([]MemoryResult, 0, len(names))
	for _, name := range names {
		res, err := runMemBenchmark(ctx, binPath, name, capacity, valSize)
		if err != nil {
			log.Warn("memory benchmark failed", "cache", name, "error", err)
			continue
		}
		results = append(results, withBaseline(res, baseline.Bytes))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Bytes < results[j].Bytes
	})
	return results, nil
}

// withBaseline fills in the per-item overhead relative to a plain map.
func withBaseline(r MemoryResult, baseline uint64) MemoryResult {
	r.BaselineBytes = baseline
	if r.Items > 0 {
		diff := int64(r.Bytes) - int64(baseline) //nolint:gosec // heap sizes fit in int64
		r.BytesPerItem = diff / int64(r.Items)
	}
	return r
}

func runMemBenchmark(ctx context.Context, binPath, name string, capacity, valSize int) (MemoryResult, error) {
	cmd := exec.CommandContext(ctx, binPath, //nolint:gosec // binary built above
		"-cache", name,
		"-cap", strconv.Itoa(capacity),
		"-valSize", strconv.Itoa(valSize),
	)

	out, err := cmd.Output()
	if err != nil {
		return MemoryResult{}, fmt.Errorf("run %s: %w", name, err)
	}

	var res memOutput
	if err := json.Unmarshal(out, &res); err != nil {
		return MemoryResult{}, fmt.Errorf("parse output for %s: %w\n%s", name, err, out)
	}
	if res.Error != "" {
		return MemoryResult{}, fmt.Errorf("%s: %s", name, res.Error)
	}
	return MemoryResult{Name: res.Name, Items: res.Items, Bytes: res.Bytes}, nil
}
