package workload

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// KeyFunc draws one key in [0, n] from rng.
// Linear and Zipf keep keys below n; Gaussian can return n itself.
type KeyFunc func(rng *rand.Rand, n int) int

// Linear draws keys uniformly from [0, n).
func Linear(rng *rand.Rand, n int) int {
	return rng.IntN(n)
}

// Gaussian draws keys from a normal distribution centered on n/2 with a
// standard deviation of n/15, clamped into [0, n].
func Gaussian(rng *rand.Rand, n int) int {
	k := int(math.Round(rng.NormFloat64()*float64(n)/15 + float64(n)/2))
	return min(max(k, 0), n)
}

// Zipf returns a KeyFunc drawing keys with skew theta. The sampler for the
// most recent n is kept, so repeated draws over one key space stay O(1).
// The returned func is not safe for concurrent use.
func Zipf(theta float64) KeyFunc {
	var (
		z    *ZipfSampler
		last int
	)
	return func(rng *rand.Rand, n int) int {
		if z == nil || n != last {
			z, last = NewZipfSampler(n, theta), n
		}
		return z.Next(rng)
	}
}

// DefaultTheta is the Zipf skew used when none is given.
const DefaultTheta = 0.99

var distributions = map[string]func() KeyFunc{
	"linear":   func() KeyFunc { return Linear },
	"gaussian": func() KeyFunc { return Gaussian },
	"zipf":     func() KeyFunc { return Zipf(DefaultTheta) },
}

// ByName returns the key distribution registered under name.
func ByName(name string) (KeyFunc, error) {
	f, ok := distributions[name]
	if !ok {
		return nil, fmt.Errorf("unknown distribution %q (valid: %v)", name, Names())
	}
	return f(), nil
}

// Names returns the registered distribution names in sorted order.
func Names() []string {
	names := make([]string, 0, len(distributions))
	for name := range distributions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Generate returns count keys drawn from f over [0, n].
func Generate(f KeyFunc, count, n int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	keys := make([]int, count)
	for i := range keys {
		keys[i] = f(rng, n)
	}
	return keys
}
