package bench

import "github.com/hyp3rd/ewrap"

var (
	// ErrNegativeIterations is returned when a harness is asked for fewer than zero iterations.
	ErrNegativeIterations = ewrap.New("iteration count cannot be negative")

	// ErrUnknownCombiner is returned by Combiner for a name it does not know.
	ErrUnknownCombiner = ewrap.New("unknown combiner")
)
