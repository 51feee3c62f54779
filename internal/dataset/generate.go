package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const valueAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate writes rows for keys 0..n inclusive with random 16-character values.
func Generate(w io.Writer, n int, rng *rand.Rand) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	value := make([]byte, 16)
	for k := 0; k <= n; k++ {
		for i := range value {
			value[i] = valueAlphabet[rng.IntN(len(valueAlphabet))]
		}
		if err := cw.Write([]string{strconv.Itoa(k), string(value)}); err != nil {
			return fmt.Errorf("write row %d: %w", k, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// WriteFile generates a data file at path, zstd-compressed if the path ends
// in ".zst".
func WriteFile(path string, n int, rng *rand.Rand) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close data file: %w", cerr)
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		return Generate(f, n, rng)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := Generate(enc, n, rng); err != nil {
		enc.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd close: %w", err)
	}
	return nil
}
