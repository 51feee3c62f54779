// Package main measures the heap held by a single filled cache.
// Run in an isolated process for accurate measurements.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/tstromberg/evictmark/internal/cache"
)

var keepAlive any

type report struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	Items int    `json:"items"`
	Bytes uint64 `json:"bytes"`
}

func main() {
	name := flag.String("cache", "", "cache implementation to measure, or baseline")
	capacity := flag.Int("cap", 32768, "capacity")
	valSize := flag.Int("valSize", 1024, "value size in bytes")
	flag.Parse()

	enc := json.NewEncoder(os.Stdout)
	if *name == "" {
		enc.Encode(report{Error: "cache name required"}) //nolint:errcheck,gosec // stdout
		return
	}

	runtime.GC()
	debug.FreeOSMemory()

	items, err := fill(*name, *capacity, *valSize)
	if err != nil {
		enc.Encode(report{Name: *name, Error: err.Error()}) //nolint:errcheck,gosec // stdout
		return
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)
	runtime.GC()
	debug.FreeOSMemory()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	runtime.KeepAlive(keepAlive)

	enc.Encode(report{Name: *name, Items: items, Bytes: mem.Alloc}) //nolint:errcheck,gosec // stdout
}

// fill stores twice the capacity so eviction has run, then reports residency.
func fill(name string, capacity, valSize int) (int, error) {
	val := strings.Repeat("x", valSize)

	if name == "baseline" {
		m := make(map[int]string, capacity)
		for i := range capacity {
			m[i] = val
		}
		keepAlive = m
		return len(m), nil
	}

	c, err := cache.New(name, capacity)
	if err != nil {
		return 0, err
	}
	for i := range capacity * 2 {
		c.Store(i, val)
	}
	// Let asynchronous policies drain their buffers.
	time.Sleep(100 * time.Millisecond)
	keepAlive = c
	return c.Len(), nil
}
