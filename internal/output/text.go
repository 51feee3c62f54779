package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tstromberg/evictmark/internal/benchmark"
)

// WriteText appends one report file per cache under dir/cache and one per
// collection under dir/collection, stamped with the run time.
func WriteText(dir string, results Results, at time.Time) ([]string, error) {
	stamp := at.UTC().Format("20060102T150405Z")
	var written []string

	cacheGroups := map[string][]benchmark.CacheEntry{}
	var cacheOrder []string
	for _, e := range results.Cache {
		if _, ok := cacheGroups[e.Policy]; !ok {
			cacheOrder = append(cacheOrder, e.Policy)
		}
		cacheGroups[e.Policy] = append(cacheGroups[e.Policy], e)
	}
	for _, policy := range cacheOrder {
		path := filepath.Join(dir, "cache", "cache-"+policy+"-"+stamp+".txt")
		err := appendFile(path, func(w io.Writer) error {
			for _, e := range cacheGroups[policy] {
				if err := writeCacheEntry(w, e); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	collGroups := map[string][]benchmark.CollectionEntry{}
	var collOrder []string
	for _, e := range results.Collection {
		if _, ok := collGroups[e.Collection]; !ok {
			collOrder = append(collOrder, e.Collection)
		}
		collGroups[e.Collection] = append(collGroups[e.Collection], e)
	}
	for _, name := range collOrder {
		path := filepath.Join(dir, "collection", "benchmark-"+name+"-"+stamp+".txt")
		err := appendFile(path, func(w io.Writer) error {
			for _, e := range collGroups[name] {
				if err := writeCollectionEntry(w, e); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func appendFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // path built from dir flag
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCacheEntry(w io.Writer, e benchmark.CacheEntry) error {
	_, err := fmt.Fprintf(w,
		"{\nmethod='%s'\nwarmup=%d\ntests=%d\nmissed=%d\nhit=%d\nhitPercentage=%s\nevicted=%d\navgReadTime=%s\n}\n",
		e.Method, e.WarmUp, e.Tests, e.Missed, e.Hit,
		strconv.FormatFloat(e.HitPercentage, 'f', -1, 64), e.Evicted, e.AvgTime)
	return err
}

func writeCollectionEntry(w io.Writer, e benchmark.CollectionEntry) error {
	_, err := fmt.Fprintf(w,
		"{\nwarmupIterations = %d\ntestIterations = %d\ncollectionSize = %d\navgTime = %s\ntestedMethod = '%s'\n}\n",
		e.WarmUp, e.Tests, e.Size, e.AvgTime, e.Method)
	return err
}
