package workload

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionsStayInRange(t *testing.T) {
	const n = 1000
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f, err := ByName(name)
			require.NoError(t, err)
			rng := rand.New(rand.NewPCG(1, 2))
			for range 5000 {
				k := f(rng, n)
				require.GreaterOrEqual(t, k, 0)
				require.LessOrEqual(t, k, n)
			}
		})
	}
}

func TestGaussianCentersOnMiddle(t *testing.T) {
	keys := Generate(Gaussian, 10_000, 1500, 9)
	sum := 0
	for _, k := range keys {
		sum += k
	}
	mean := float64(sum) / float64(len(keys))
	assert.InDelta(t, 750, mean, 10)
}

func TestGaussianClamps(t *testing.T) {
	// outliers beyond the key space are clamped
	rng := rand.New(rand.NewPCG(5, 5))
	for range 100 {
		k := Gaussian(rng, 1)
		assert.Contains(t, []int{0, 1}, k)
	}
}

func TestGenerateIsSeeded(t *testing.T) {
	assert.Equal(t, Generate(Linear, 100, 50, 3), Generate(Linear, 100, 50, 3))
	assert.NotEqual(t, Generate(Linear, 100, 50, 3), Generate(Linear, 100, 50, 4))
}

func TestZipfSkew(t *testing.T) {
	keys := GenerateZipfInt(20_000, 1000, DefaultTheta, 1)
	counts := make(map[int]int)
	for _, k := range keys {
		require.Less(t, k, 1000)
		counts[k]++
	}
	assert.Greater(t, counts[0], counts[500])
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("pareto")
	require.Error(t, err)
}

func TestZipfKeyFuncMatchesSampler(t *testing.T) {
	f := Zipf(DefaultTheta)
	z := NewZipfSampler(300, DefaultTheta)
	a := rand.New(rand.NewPCG(8, 8))
	b := rand.New(rand.NewPCG(8, 8))
	for range 200 {
		require.Equal(t, z.Next(b), f(a, 300))
	}
}
