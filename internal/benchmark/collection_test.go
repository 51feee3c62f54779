package benchmark

import (
	"container/list"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequences() []sequence {
	return []sequence{&sliceSeq{}, &linkedSeq{l: list.New()}, &ringSeq{}}
}

func contents(s sequence) []item {
	out := make([]item, s.Len())
	for i := range out {
		out[i] = s.Get(i)
	}
	return out
}

// TestSequencesMatchSlice drives every sequence with the same random
// operations and compares it with a plain slice.
func TestSequencesMatchSlice(t *testing.T) {
	for _, s := range sequences() {
		t.Run(s.Name(), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(3, 4))
			base := randomItems(rng, 6)
			want := slices.Clone(base)
			s.Reset(base)

			for range 2000 {
				v := randomItem(rng)
				switch op := rng.IntN(7); {
				case op == 0:
					s.Add(v)
					want = append(want, v)
				case op == 1:
					s.AddBegin(v)
					want = slices.Insert(want, 0, v)
				case op == 2:
					i := rng.IntN(len(want) + 1)
					s.Insert(i, v)
					want = slices.Insert(want, i, v)
				case op == 3 && len(want) > 0:
					assert.Equal(t, want[0], s.RemoveBegin())
					want = want[1:]
				case op == 4 && len(want) > 0:
					assert.Equal(t, want[len(want)-1], s.RemoveEnd())
					want = want[:len(want)-1]
				case op == 5 && len(want) > 0:
					target := want[rng.IntN(len(want))]
					assert.True(t, s.Remove(target))
					want = slices.Delete(want, slices.Index(want, target), slices.Index(want, target)+1)
				case op == 6:
					assert.False(t, s.Remove(v))
				}
				require.Equal(t, len(want), s.Len())
			}
			assert.Equal(t, want, contents(s))
			for _, v := range want {
				assert.True(t, s.Contains(v))
			}
		})
	}
}

func TestResetRestoresBaseline(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	base := randomItems(rng, 10)
	for _, s := range sequences() {
		s.Reset(base)
		s.RemoveBegin()
		s.Add(randomItem(rng))
		s.Reset(base)
		assert.Equal(t, base, contents(s), s.Name())
	}

	m := &mapSet{}
	m.Reset(base)
	m.Remove(base[0])
	m.Reset(base)
	assert.Equal(t, len(base), m.Len())
	assert.True(t, m.Contains(base[0]))
}

func TestBrowseCountsOddValues(t *testing.T) {
	base := []item{{n: 1}, {n: 2}, {n: 3}, {n: 5}}
	for _, c := range []collection{&sliceSeq{}, &linkedSeq{l: list.New()}, &ringSeq{}, &mapSet{}} {
		c.Reset(base)
		assert.Equal(t, 3, c.Browse(), c.Name())
	}
}

func TestRunCollectionSuite(t *testing.T) {
	runs := []Run{{WarmUp: 2, Tests: 3}}
	entries, err := RunCollectionSuite(CollectionSuiteConfig{
		Collections: CollectionNames(),
		Sizes:       []int{1, 8},
		Runs:        runs,
		Seed:        1,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)

	// Sequences run every operation; the set skips positional ones.
	perSize := 3*len(collectionOps) + len(collectionOps) - len(sequenceOnly)
	require.Len(t, entries, 2*perSize)

	for _, e := range entries {
		assert.Contains(t, CollectionNames(), e.Collection)
		assert.Equal(t, 3, e.Tests)
		if e.Collection == "mapset" {
			assert.False(t, sequenceOnly[e.Method], e.Method)
		}
	}
}

func TestRunCollectionSuiteErrors(t *testing.T) {
	_, err := RunCollectionSuite(CollectionSuiteConfig{Collections: []string{"tree"}, Sizes: []int{1}})
	require.Error(t, err)

	_, err = RunCollectionSuite(CollectionSuiteConfig{Collections: []string{"slice"}, Sizes: []int{0}})
	require.Error(t, err)
}

func TestRunCollectionSuiteMethodFilter(t *testing.T) {
	entries, err := RunCollectionSuite(CollectionSuiteConfig{
		Collections: []string{"slice", "mapset"},
		Methods:     []string{"contains", "addBegin"},
		Sizes:       []int{4},
		Runs:        []Run{{Tests: 1}},
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	// slice runs both, mapset only contains.
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"addBegin", "contains"}, []string{entries[0].Method, entries[1].Method})
	assert.Equal(t, "mapset", entries[2].Collection)
}
