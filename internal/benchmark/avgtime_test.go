package benchmark

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Benchmark = (*AvgTime[int, int])(nil)

// fakeClock only moves when advanced.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewRequiresUnitOfWork(t *testing.T) {
	_, err := New(Config[int, int]{TestCaseIterations: 1})
	require.ErrorIs(t, err, ErrNoUnitOfWork)
}

func TestNewRejectsNegativeIterations(t *testing.T) {
	work := func(int, *Iteration) int { return 0 }
	_, err := New(Config[int, int]{WarmUpIterations: -1, UnitOfWork: work})
	require.ErrorIs(t, err, ErrNegativeIterations)
	_, err = New(Config[int, int]{TestCaseIterations: -1, UnitOfWork: work})
	require.ErrorIs(t, err, ErrNegativeIterations)
}

func TestRunWithoutTestIterationsIsZero(t *testing.T) {
	for _, warmUps := range []int{0, 1, 50} {
		calls := 0
		b, err := New(Config[int, int]{
			WarmUpIterations: warmUps,
			UnitOfWork: func(int, *Iteration) int {
				calls++
				time.Sleep(time.Microsecond)
				return calls
			},
			Logger: quietLogger(),
		})
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), b.Run())
		assert.Equal(t, warmUps, calls)
	}
}

func TestRunAllExcludedIsZero(t *testing.T) {
	clock := &fakeClock{}
	b, err := New(Config[int, int]{
		WarmUpIterations:   2,
		TestCaseIterations: 10,
		UnitOfWork: func(_ int, it *Iteration) int {
			clock.advance(time.Millisecond)
			it.ExcludeIteration()
			return 1
		},
		Now:            clock.Now,
		CollectGarbage: func() {},
		Logger:         quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), b.Run())
}

func TestRunSubtractsPauses(t *testing.T) {
	run := func(paused time.Duration) time.Duration {
		clock := &fakeClock{}
		b, err := New(Config[int, string]{
			WarmUpIterations:   3,
			TestCaseIterations: 5,
			UnitOfWork: func(_ int, it *Iteration) string {
				clock.advance(100 * time.Nanosecond)
				if paused > 0 {
					it.Pause(func() { clock.advance(paused) })
				}
				return "done"
			},
			Now:            clock.Now,
			CollectGarbage: func() {},
			Logger:         quietLogger(),
		})
		require.NoError(t, err)
		return b.Run()
	}

	assert.Equal(t, 100*time.Nanosecond, run(0))
	assert.Equal(t, 100*time.Nanosecond, run(time.Millisecond))
	assert.Equal(t, run(0), run(3*time.Second))
}

func TestRunMeanRoundsAndSkipsExcluded(t *testing.T) {
	clock := &fakeClock{}
	b, err := New(Config[int, int]{
		TestCaseIterations: 4,
		DataProvider:       func(i int) int { return i },
		UnitOfWork: func(i int, it *Iteration) int {
			clock.advance(time.Duration(i+1) * time.Nanosecond)
			if i == 3 {
				it.ExcludeIteration()
			}
			return i
		},
		Now:            clock.Now,
		CollectGarbage: func() {},
		Logger:         quietLogger(),
	})
	require.NoError(t, err)
	// (1 + 2 + 3) / 3
	assert.Equal(t, 2*time.Nanosecond, b.Run())

	b.cfg.TestCaseIterations = 2
	// (1 + 2) / 2 rounds half up
	assert.Equal(t, 2*time.Nanosecond, b.Run())
}

func TestRunCallbackOrder(t *testing.T) {
	var events []string
	b, err := New(Config[int, int]{
		WarmUpIterations:   2,
		TestCaseIterations: 3,
		DataProvider: func(i int) int {
			events = append(events, "data")
			return i
		},
		UnitOfWork: func(_ int, it *Iteration) int {
			if it.IsWarmUp() {
				events = append(events, "warm")
			} else {
				events = append(events, "work")
			}
			return 0
		},
		BeforeEachIteration: func() { events = append(events, "before") },
		AfterWarmUp:         func() { events = append(events, "after-warm-up") },
		CollectGarbage:      func() { events = append(events, "gc") },
		Logger:              quietLogger(),
	})
	require.NoError(t, err)
	b.Run()

	want := []string{
		"before", "data", "warm",
		"before", "data", "warm",
		"after-warm-up",
		"before", "data", "gc", "work",
		"before", "data", "gc", "work",
		"before", "data", "gc", "work",
	}
	assert.Equal(t, want, events)
}

func TestIterationPausesOnlyOutsideWarmUp(t *testing.T) {
	clock := &fakeClock{}
	var warm, measured time.Duration
	ran := 0
	b, err := New(Config[int, int]{
		WarmUpIterations:   1,
		TestCaseIterations: 1,
		UnitOfWork: func(_ int, it *Iteration) int {
			it.Pause(func() {
				ran++
				clock.advance(time.Second)
			})
			it.AssertConsumed("value")
			it.AssertConsumedNoPause(42)
			if it.IsWarmUp() {
				warm = it.PauseTotal()
				assert.Empty(t, it.pauses)
			} else {
				measured = it.PauseTotal()
				assert.Len(t, it.pauses, 2)
			}
			return 0
		},
		Now:            clock.Now,
		CollectGarbage: func() {},
		Logger:         quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), b.Run())
	assert.Equal(t, 2, ran, "paused work runs during warm-up too")
	assert.Equal(t, time.Duration(0), warm)
	assert.Equal(t, time.Second, measured)
}

func TestRunWithRealClock(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	b, err := New(Config[int, int]{
		TestCaseIterations: 3,
		UnitOfWork: func(_ int, it *Iteration) int {
			it.Pause(func() { time.Sleep(20 * time.Millisecond) })
			return 1
		},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	assert.Less(t, b.Run(), 10*time.Millisecond)
}

func TestDefaultsAreApplied(t *testing.T) {
	b, err := New(Config[string, int]{
		UnitOfWork: func(in string, _ *Iteration) int { return len(in) },
	})
	require.NoError(t, err)
	assert.NotNil(t, b.cfg.DataProvider)
	assert.NotNil(t, b.cfg.BeforeEachIteration)
	assert.NotNil(t, b.cfg.AfterWarmUp)
	assert.NotNil(t, b.cfg.Rand)
	assert.NotNil(t, b.cfg.Logger)
	assert.NotNil(t, b.cfg.CollectGarbage)
	assert.NotNil(t, b.cfg.Now)
	assert.Empty(t, b.cfg.DataProvider(7))
}

func TestMeanOfNothingIsZero(t *testing.T) {
	assert.Equal(t, time.Duration(0), mean(nil))
	assert.Equal(t, 5*time.Nanosecond, mean([]time.Duration{5}))
}

func TestRunUsesSeededRand(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	// the first draw of an identically seeded source is the sentinel
	target := rand.New(rand.NewPCG(1, 1)).IntN(consumeModulus)

	b, err := New(Config[int, int]{
		TestCaseIterations: 1,
		UnitOfWork:         func(int, *Iteration) int { return target },
		Rand:               rand.New(rand.NewPCG(1, 1)),
		Logger:             logger,
		CollectGarbage:     func() {},
	})
	require.NoError(t, err)
	b.Run()
	assert.Contains(t, buf.String(), "matched sentinel")
}
