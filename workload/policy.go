package workload

import (
	"context"

	"tallybench/bench"
	"tallybench/stats"
)

type Execution string

const (
	Sequential Execution = "sequential"
	Parallel   Execution = "parallel"
)

func (e Execution) String() string {
	return string(e)
}

// Decide picks Sequential only when its mean plus sdMultiplier standard
// deviations is still below the parallel mean; anything less clear-cut goes
// to Parallel.
func Decide(sequential, parallel stats.Tally, sdMultiplier float64) Execution {
	if stats.SignificantlyFaster(sequential, parallel, sdMultiplier) {
		return Sequential
	}
	return Parallel
}

// Comparison is the outcome of timing both strategies over the same input.
type Comparison struct {
	Sequential bench.Results[int]
	Parallel   bench.Results[int]
}

func (c Comparison) Decide(sdMultiplier float64) Execution {
	return Decide(c.Sequential.Time, c.Parallel.Time, sdMultiplier)
}

// Compare times iterations sequential counts of values, then iterations
// parallel counts over workers goroutines.
func Compare(ctx context.Context, values []uint32, iterations, workers int) (Comparison, error) {
	var comparison Comparison
	var err error

	comparison.Sequential, err = bench.Collect(iterations, func() (int, error) {
		return CountPrimes(values), nil
	})
	if err != nil {
		return comparison, err
	}

	comparison.Parallel, err = bench.Collect(iterations, func() (int, error) {
		return CountPrimesParallel(ctx, values, workers)
	})
	return comparison, err
}
