package benchmark

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"reflect"

	"github.com/zeebo/xxh3"
)

// consumeModulus bounds the sentinel draw; a match is logged roughly once
// per 200k consumed values.
const consumeModulus = 200_000

// maxFingerprintDepth stops fingerprinting nested values.
const maxFingerprintDepth = 4

// consumer makes benchmark results observable so the compiler cannot prove
// the work that produced them is dead. It never panics.
type consumer struct {
	rng *rand.Rand
	log *slog.Logger
}

func (c *consumer) consume(v any) {
	if isNil(v) {
		c.log.Debug("consumed nil result")
		return
	}
	fp, size, sized := fingerprint(v)
	h := fp
	if sized {
		h -= uint64(size) //nolint:gosec // lengths are non-negative
	}
	if h%consumeModulus == uint64(c.rng.IntN(consumeModulus)) { //nolint:gosec // IntN is non-negative
		c.log.Info("consumed result matched sentinel", "fingerprint", fp, "type", reflect.TypeOf(v).String())
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // only nillable kinds matter
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// fingerprint hashes v and, for containers, reports its length.
func fingerprint(v any) (hash uint64, size int, sized bool) {
	switch x := v.(type) {
	case string:
		return xxh3.HashString(x), 0, false
	case []byte:
		return xxh3.Hash(x), len(x), true
	case int:
		return uint64(x), 0, false //nolint:gosec // wraparound is fine for hashing
	case bool:
		if x {
			return 1, 0, false
		}
		return 0, 0, false
	case interface{ Len() int }:
		return fingerprintValue(reflect.ValueOf(v), 0), x.Len(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // other kinds have no length
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan, reflect.String:
		return fingerprintValue(rv, 0), rv.Len(), true
	}
	return fingerprintValue(rv, 0), 0, false
}

func fingerprintValue(rv reflect.Value, depth int) uint64 {
	switch rv.Kind() { //nolint:exhaustive // remaining kinds hash to their kind
	case reflect.String:
		return xxh3.HashString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int()) //nolint:gosec // wraparound is fine for hashing
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return math.Float64bits(rv.Float())
	case reflect.Bool:
		if rv.Bool() {
			return 1
		}
		return 0
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return uint64(rv.Pointer())
	case reflect.Interface:
		if rv.IsNil() || depth >= maxFingerprintDepth {
			return 0
		}
		return fingerprintValue(rv.Elem(), depth+1)
	case reflect.Array:
		if depth >= maxFingerprintDepth {
			return uint64(rv.Len()) //nolint:gosec // lengths are non-negative
		}
		var h uint64
		for i := range min(rv.Len(), 8) {
			h = mix(h, fingerprintValue(rv.Index(i), depth+1))
		}
		return h
	case reflect.Struct:
		if depth >= maxFingerprintDepth {
			return uint64(rv.NumField()) //nolint:gosec // field counts are non-negative
		}
		var h uint64
		for i := range rv.NumField() {
			h = mix(h, fingerprintValue(rv.Field(i), depth+1))
		}
		return h
	}
	return uint64(rv.Kind())
}

func mix(h, v uint64) uint64 {
	return (h ^ v) * 0x9E3779B97F4A7C15
}
