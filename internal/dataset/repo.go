// Package dataset serves the slow key/value lookups that cache misses fall
// back to. Data lives in a ';'-separated "key;value" file that is rescanned
// on every lookup, optionally zstd-compressed.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when a key is absent from the data file.
var ErrNotFound = errors.New("key not found")

const bom = "\uFEFF"

// Repo looks up values by integer key.
type Repo struct {
	name string
	open func() (io.ReadCloser, error)
}

// Open returns a Repo backed by the file at path. Paths ending in ".zst" are
// decompressed on the fly. The file is opened once to check it is readable.
func Open(path string) (*Repo, error) {
	r := &Repo{name: path, open: func() (io.ReadCloser, error) { return openFile(path) }}
	rc, err := r.open()
	if err != nil {
		return nil, err
	}
	if err := rc.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	return r, nil
}

// NewMemory returns a Repo over an in-memory data file.
func NewMemory(data []byte) *Repo {
	return &Repo{
		name: "memory",
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Name identifies the backing file.
func (r *Repo) Name() string {
	return r.name
}

// Load scans the data file for key and returns its value.
func (r *Repo) Load(key int) (string, error) {
	rc, err := r.open()
	if err != nil {
		return "", err
	}
	defer rc.Close() //nolint:errcheck // read-only

	cr := newReader(rc)
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: %d", ErrNotFound, key)
		}
		if err != nil {
			return "", fmt.Errorf("read %s: %w", r.name, err)
		}
		field := rec[0]
		if first {
			field = strings.TrimPrefix(field, bom)
			first = false
		}
		k, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return "", fmt.Errorf("read %s: bad key %q: %w", r.name, field, err)
		}
		if k == key {
			if len(rec) < 2 {
				return "", nil
			}
			return rec[1], nil
		}
	}
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return nil, fmt.Errorf("zstd reader %s: %w", path, err)
	}
	return &zstdFile{Decoder: dec, f: f}, nil
}
