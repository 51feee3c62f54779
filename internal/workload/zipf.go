// Package workload generates cache key access patterns.
package workload

import (
	"math"
	"math/rand/v2"
)

// ZipfSampler draws Zipf-distributed keys from [0, keySpace).
// Construction is O(keySpace); each draw is O(1).
type ZipfSampler struct {
	keySpace     int
	spread       int
	zetaN        float64
	alpha        float64
	eta          float64
	halfPowTheta float64
}

// NewZipfSampler precomputes the constants for a keySpace and skew theta
// (higher = more skewed, must not be 1).
func NewZipfSampler(keySpace int, theta float64) *ZipfSampler {
	spread := keySpace + 1
	zeta2 := computeZeta(2, theta)
	zetaN := computeZeta(uint64(spread), theta) //nolint:gosec // keySpace is positive
	return &ZipfSampler{
		keySpace:     keySpace,
		spread:       spread,
		zetaN:        zetaN,
		alpha:        1.0 / (1.0 - theta),
		eta:          (1 - math.Pow(2.0/float64(spread), 1.0-theta)) / (1.0 - zeta2/zetaN),
		halfPowTheta: 1.0 + math.Pow(0.5, theta),
	}
}

// Next draws one key.
func (z *ZipfSampler) Next(rng *rand.Rand) int {
	u := rng.Float64()
	uz := u * z.zetaN
	var result int
	switch {
	case uz < 1.0:
		result = 0
	case uz < z.halfPowTheta:
		result = 1
	default:
		result = int(float64(z.spread) * math.Pow(z.eta*u-z.eta+1.0, z.alpha))
	}
	if result >= z.keySpace {
		result = z.keySpace - 1
	}
	return result
}

// GenerateZipfInt generates a Zipfian distribution of keys as integers.
// n is the number of keys to generate, keySpace is the range of keys,
// theta controls the skew (higher = more skewed), seed is for reproducibility.
func GenerateZipfInt(n, keySpace int, theta float64, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	z := NewZipfSampler(keySpace, theta)
	keys := make([]int, n)
	for i := range n {
		keys[i] = z.Next(rng)
	}
	return keys
}

func computeZeta(n uint64, theta float64) float64 {
	sum := 0.0
	for i := uint64(1); i <= n; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}
