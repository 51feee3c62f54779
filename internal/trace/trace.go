// Package trace loads recorded cache access traces for hit-rate replay.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Trace is a recorded key sequence with keys mapped to dense integers in
// order of first appearance.
type Trace struct {
	Name string
	Keys []int
	// Unique is the number of distinct keys.
	Unique int
}

// Options selects which part of each line is the key.
type Options struct {
	// Column is the zero-based comma-separated field holding the key.
	Column int
	// SkipHeader drops the first line.
	SkipHeader bool
	// TrimSuffix cuts the key at its last occurrence, e.g. ":" to reduce
	// "file:offset" block keys to file keys.
	TrimSuffix string
}

// Load reads a trace file. Files ending in ".zst" or ".zstd" are
// decompressed on the fly. Lines without the key column are skipped.
func Load(path string, opts Options) (Trace, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied trace path
	if err != nil {
		return Trace{}, err
	}
	defer f.Close() //nolint:errcheck // read-only

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return Trace{}, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	t, err := Read(r, opts)
	if err != nil {
		return Trace{}, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = traceName(path)
	return t, nil
}

// Read parses a trace from r.
func Read(r io.Reader, opts Options) (Trace, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	ids := map[string]int{}
	var keys []int

	if opts.SkipHeader {
		scanner.Scan()
	}
	for scanner.Scan() {
		key, ok := field(scanner.Text(), opts.Column)
		if !ok {
			continue
		}
		if opts.TrimSuffix != "" {
			if idx := strings.LastIndex(key, opts.TrimSuffix); idx > 0 {
				key = key[:idx]
			}
		}
		id, seen := ids[key]
		if !seen {
			id = len(ids)
			ids[key] = id
		}
		keys = append(keys, id)
	}
	if err := scanner.Err(); err != nil {
		return Trace{}, fmt.Errorf("scan trace: %w", err)
	}
	return Trace{Keys: keys, Unique: len(ids)}, nil
}

// field returns the non-empty column of a comma-separated line.
func field(line string, column int) (string, bool) {
	for range column {
		i := strings.IndexByte(line, ',')
		if i < 0 {
			return "", false
		}
		line = line[i+1:]
	}
	if i := strings.IndexByte(line, ','); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

// traceName strips directories and compression and text extensions.
func traceName(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".zst", ".zstd", ".csv", ".txt"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
