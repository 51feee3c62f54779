package benchmark

import "time"

// Iteration is handed to the unit of work for a single run. It lets the
// work exclude sections from timing, consume intermediate results, or drop
// the whole iteration. During warm-up nothing is timed.
type Iteration struct {
	warmUp   bool
	excluded bool
	pauses   []time.Duration
	now      func() time.Time
	consumer *consumer
}

// Pause runs work immediately and subtracts its duration from this
// iteration's measurement.
func (it *Iteration) Pause(work func()) {
	if it.warmUp {
		work()
		return
	}
	start := it.now()
	work()
	it.pauses = append(it.pauses, it.now().Sub(start))
}

// AssertConsumed marks v as used so the computation producing it is kept.
// The cost of consuming is not measured.
func (it *Iteration) AssertConsumed(v any) {
	if it.warmUp {
		it.consumer.consume(v)
		return
	}
	start := it.now()
	it.consumer.consume(v)
	it.pauses = append(it.pauses, it.now().Sub(start))
}

// AssertConsumedNoPause consumes v inside the timed window.
func (it *Iteration) AssertConsumedNoPause(v any) {
	it.consumer.consume(v)
}

// ExcludeIteration drops this iteration from the average.
func (it *Iteration) ExcludeIteration() {
	it.excluded = true
}

// IsWarmUp reports whether this is a warm-up iteration.
func (it *Iteration) IsWarmUp() bool {
	return it.warmUp
}

// PauseTotal returns the time spent paused so far.
func (it *Iteration) PauseTotal() time.Duration {
	var total time.Duration
	for _, p := range it.pauses {
		total += p
	}
	return total
}
