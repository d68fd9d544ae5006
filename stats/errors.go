package stats

import "github.com/hyp3rd/ewrap"

var (
	// ErrEmptyTally is returned by the Checked accessors when no sample has been added.
	ErrEmptyTally = ewrap.New("empty tally")

	// ErrMalformedTally is returned when text does not have the (count,min,max,sum,mean,stddev) shape.
	ErrMalformedTally = ewrap.New("malformed tally")
)
