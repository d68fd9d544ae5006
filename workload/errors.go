package workload

import "github.com/hyp3rd/ewrap"

var (
	// ErrNegativeSqrt is returned by ISqrt for negative input.
	ErrNegativeSqrt = ewrap.New("integer square root of negative value")

	// ErrInvalidWorkers is returned when a parallel count is asked to use fewer than one worker.
	ErrInvalidWorkers = ewrap.New("workers must be positive")
)
