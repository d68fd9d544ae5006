// Package bench times repeated invocations of an operation and folds each
// wall-clock duration, in seconds, into a stats.Tally.
//
// Every iteration runs the same protocol: barrier, read the monotonic clock,
// barrier, call the operation, barrier, read the clock again, barrier. A
// failing operation stops the loop; the harness returns what it gathered from
// the iterations that completed together with the wrapped error.
package bench

import (
	"time"

	"github.com/hyp3rd/ewrap"

	"tallybench/stats"
)

// Results holds the timings of a Collect call and every value returned, in
// invocation order.
type Results[T any] struct {
	Time   stats.Tally
	Values []T
}

// Accumulated holds the timings of an Accumulate call and the folded value.
type Accumulated[A any] struct {
	Time  stats.Tally
	Value A
}

func measure(op func() error) (float64, error) {
	Barrier()
	start := time.Now()
	Barrier()

	err := op()

	Barrier()
	end := time.Now()
	Barrier()

	return end.Sub(start).Seconds(), err
}

func measureValue[T any](op func() (T, error)) (T, float64, error) {
	Barrier()
	start := time.Now()
	Barrier()

	value, err := op()

	Barrier()
	end := time.Now()
	Barrier()

	Sink(value)
	return value, end.Sub(start).Seconds(), err
}

// maxPrealloc caps the up-front capacity of Results.Values; larger n grows
// the slice as values arrive.
const maxPrealloc = 1024

func checkIterations(n int) error {
	if n < 0 {
		return ewrap.Wrapf(ErrNegativeIterations, "%d", n)
	}
	return nil
}

func iterationError(err error, i, n int) error {
	return ewrap.Wrapf(err, "iteration %d of %d", i+1, n)
}

// Run calls op n times and returns the tally of durations.
func Run(n int, op func() error) (stats.Tally, error) {
	tally := stats.NewTally()
	if err := checkIterations(n); err != nil {
		return tally, err
	}

	for i := range n {
		elapsed, err := measure(op)
		if err != nil {
			return tally, iterationError(err, i, n)
		}
		tally.Add(elapsed)
	}
	return tally, nil
}

// Collect calls op n times and returns the tally of durations together with
// every value op returned.
func Collect[T any](n int, op func() (T, error)) (Results[T], error) {
	results := Results[T]{Time: stats.NewTally()}
	if err := checkIterations(n); err != nil {
		return results, err
	}

	results.Values = make([]T, 0, min(n, maxPrealloc))
	for i := range n {
		value, elapsed, err := measureValue(op)
		if err != nil {
			return results, iterationError(err, i, n)
		}
		results.Values = append(results.Values, value)
		results.Time.Add(elapsed)
	}
	return results, nil
}

// Accumulate calls op n times and folds its results, left to right in
// invocation order, starting from init. Only op is inside the timed region.
func Accumulate[T, A any](n int, init A, combine func(A, T) A, op func() (T, error)) (Accumulated[A], error) {
	accumulated := Accumulated[A]{Time: stats.NewTally(), Value: init}
	if err := checkIterations(n); err != nil {
		return accumulated, err
	}

	for i := range n {
		value, elapsed, err := measureValue(op)
		if err != nil {
			return accumulated, iterationError(err, i, n)
		}
		accumulated.Value = combine(accumulated.Value, value)
		accumulated.Time.Add(elapsed)
	}
	return accumulated, nil
}

// AccumulateSum is Accumulate with + as the combiner.
func AccumulateSum[T Addable](n int, init T, op func() (T, error)) (Accumulated[T], error) {
	return Accumulate(n, init, Sum[T], op)
}

// AccumulateAppend is Accumulate with append as the combiner.
func AccumulateAppend[T any](n int, init []T, op func() (T, error)) (Accumulated[[]T], error) {
	return Accumulate(n, init, Append[T], op)
}

// NoError adapts an operation that cannot fail.
func NoError(op func()) func() error {
	return func() error {
		op()
		return nil
	}
}

// NoErrorValue adapts a value-returning operation that cannot fail.
func NoErrorValue[T any](op func() T) func() (T, error) {
	return func() (T, error) {
		return op(), nil
	}
}
