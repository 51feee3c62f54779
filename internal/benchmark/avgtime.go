package benchmark

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"time"
)

var (
	// ErrNoUnitOfWork is returned by New when Config.UnitOfWork is nil.
	ErrNoUnitOfWork = errors.New("benchmark: unit of work is required")
	// ErrNegativeIterations is returned by New for negative iteration counts.
	ErrNegativeIterations = errors.New("benchmark: iteration counts must not be negative")
)

// Benchmark measures a mean per-iteration duration.
type Benchmark interface {
	Run() time.Duration
}

// Config describes an average-time benchmark. Only UnitOfWork is required;
// New fills every other nil field with its default.
type Config[In, Out any] struct {
	// WarmUpIterations run before measurement and are never timed.
	WarmUpIterations int
	// TestCaseIterations are timed and averaged.
	TestCaseIterations int

	// UnitOfWork is the code under measurement. Its result is consumed
	// outside the timed window so the work cannot be optimized away.
	UnitOfWork func(in In, it *Iteration) Out
	// DataProvider builds the input for iteration i outside the timed
	// window. Defaults to the zero In.
	DataProvider func(i int) In
	// BeforeEachIteration runs before every warm-up and measured iteration.
	BeforeEachIteration func()
	// AfterWarmUp runs once between warm-up and measurement.
	AfterWarmUp func()

	// Rand drives the consumption sentinel. Defaults to a time-seeded PCG.
	Rand *rand.Rand
	// Logger receives consumption diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// CollectGarbage runs right before each measured iteration's timer
	// starts. Defaults to runtime.GC.
	CollectGarbage func()
	// Now is the benchmark clock. Defaults to time.Now.
	Now func() time.Time
}

// AvgTime runs a Config and reports the arithmetic mean of its measured
// iterations.
type AvgTime[In, Out any] struct {
	cfg      Config[In, Out]
	consumer *consumer
}

// New validates cfg and applies defaults.
func New[In, Out any](cfg Config[In, Out]) (*AvgTime[In, Out], error) {
	if cfg.UnitOfWork == nil {
		return nil, ErrNoUnitOfWork
	}
	if cfg.WarmUpIterations < 0 || cfg.TestCaseIterations < 0 {
		return nil, fmt.Errorf("%w: warm-up %d, test %d",
			ErrNegativeIterations, cfg.WarmUpIterations, cfg.TestCaseIterations)
	}
	if cfg.DataProvider == nil {
		cfg.DataProvider = func(int) In {
			var zero In
			return zero
		}
	}
	if cfg.BeforeEachIteration == nil {
		cfg.BeforeEachIteration = func() {}
	}
	if cfg.AfterWarmUp == nil {
		cfg.AfterWarmUp = func() {}
	}
	if cfg.Rand == nil {
		seed := uint64(time.Now().UnixNano()) //nolint:gosec // nanoseconds are positive
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CollectGarbage == nil {
		cfg.CollectGarbage = runtime.GC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AvgTime[In, Out]{
		cfg:      cfg,
		consumer: &consumer{rng: cfg.Rand, log: cfg.Logger},
	}, nil
}

// Run executes the warm-up iterations, then the measured ones, and returns
// the mean duration of the measured iterations that were not excluded.
// Pause time is subtracted from each iteration. Returns 0 when nothing was
// recorded.
func (b *AvgTime[In, Out]) Run() time.Duration {
	for i := range b.cfg.WarmUpIterations {
		b.cfg.BeforeEachIteration()
		it := b.newIteration(true)
		out := b.cfg.UnitOfWork(b.cfg.DataProvider(i), it)
		b.consumer.consume(out)
	}
	b.cfg.AfterWarmUp()

	durations := make([]time.Duration, 0, b.cfg.TestCaseIterations)
	for i := range b.cfg.TestCaseIterations {
		b.cfg.BeforeEachIteration()
		if d, ok := b.measure(i); ok {
			durations = append(durations, d)
		}
	}
	return mean(durations)
}

func (b *AvgTime[In, Out]) newIteration(warmUp bool) *Iteration {
	return &Iteration{
		warmUp:   warmUp,
		now:      b.cfg.Now,
		consumer: b.consumer,
		pauses:   make([]time.Duration, 0, 4),
	}
}

// measure runs iteration i and reports its duration net of pauses, and
// whether it should be recorded.
func (b *AvgTime[In, Out]) measure(i int) (time.Duration, bool) {
	it := b.newIteration(false)
	in := b.cfg.DataProvider(i)
	b.cfg.CollectGarbage()

	start := b.cfg.Now()
	out := b.cfg.UnitOfWork(in, it)
	end := b.cfg.Now()

	b.consumer.consume(out)
	elapsed := max(end.Sub(start)-it.PauseTotal(), 0)
	return elapsed, !it.excluded
}

func mean(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var sum float64
	for _, d := range durations {
		sum += float64(d)
	}
	return time.Duration(math.Round(sum / float64(len(durations))))
}
