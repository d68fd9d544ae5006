package stats

import (
	"math"

	"github.com/hyp3rd/ewrap"
)

// Tally keeps count, min, max, sum, mean and population standard deviation
// of a stream of samples in O(1) space. The zero value is an empty tally.
//
// Mean and the sum of squared deviations (m2) follow Welford's recurrence,
// see Knuth, TAOCP Vol. 2, 4.2.2, formulas (15) and (16).
type Tally struct {
	count  uint64
	min    float64
	max    float64
	sum    float64
	mean   float64
	m2     float64
	stddev float64
}

// NewTally returns an empty tally, the same as the zero value.
func NewTally() Tally {
	return Tally{}
}

// Add folds value into the tally. NaN or infinite samples propagate through
// sum and mean following IEEE arithmetic.
func (tally *Tally) Add(value float64) {
	tally.count++

	if tally.count == 1 {
		tally.min = value
		tally.max = value
	} else {
		tally.min = math.Min(tally.min, value)
		tally.max = math.Max(tally.max, value)
	}
	tally.sum += value

	delta := value - tally.mean
	tally.mean += delta / float64(tally.count)
	tally.m2 += delta * (value - tally.mean)
	tally.stddev = math.Sqrt(tally.m2 / float64(tally.count))
}

func (tally Tally) Count() uint64 {
	return tally.count
}

func (tally Tally) Sum() float64 {
	return tally.sum
}

func (tally Tally) Empty() bool {
	return tally.count == 0
}

// Min returns the smallest sample, or NaN if the tally is empty.
func (tally Tally) Min() float64 {
	if tally.count == 0 {
		return math.NaN()
	}
	return tally.min
}

// Max returns the largest sample, or NaN if the tally is empty.
func (tally Tally) Max() float64 {
	if tally.count == 0 {
		return math.NaN()
	}
	return tally.max
}

// Mean returns the arithmetic mean, or NaN if the tally is empty.
func (tally Tally) Mean() float64 {
	if tally.count == 0 {
		return math.NaN()
	}
	return tally.mean
}

// StdDev returns the population standard deviation, or NaN if the tally is empty.
func (tally Tally) StdDev() float64 {
	if tally.count == 0 {
		return math.NaN()
	}
	return tally.stddev
}

// Variance returns the population variance, or NaN if the tally is empty.
func (tally Tally) Variance() float64 {
	if tally.count == 0 {
		return math.NaN()
	}
	return tally.m2 / float64(tally.count)
}

// CheckedMin is Min for callers that want ErrEmptyTally instead of NaN.
// CheckedMax, CheckedMean and CheckedStdDev follow the same rule.
func (tally Tally) CheckedMin() (float64, error) {
	if tally.count == 0 {
		return 0, ewrap.Wrap(ErrEmptyTally, "min")
	}
	return tally.min, nil
}

func (tally Tally) CheckedMax() (float64, error) {
	if tally.count == 0 {
		return 0, ewrap.Wrap(ErrEmptyTally, "max")
	}
	return tally.max, nil
}

func (tally Tally) CheckedMean() (float64, error) {
	if tally.count == 0 {
		return 0, ewrap.Wrap(ErrEmptyTally, "mean")
	}
	return tally.mean, nil
}

func (tally Tally) CheckedStdDev() (float64, error) {
	if tally.count == 0 {
		return 0, ewrap.Wrap(ErrEmptyTally, "stddev")
	}
	return tally.stddev, nil
}

// Merge returns the tally of both sample streams combined, as if every sample
// of other had been added to tally. Merge is associative and an empty tally is
// its identity, so per-goroutine tallies can be combined in any grouping.
//
// Uses the pairwise update of Chan, Golub and LeVeque.
func (tally Tally) Merge(other Tally) Tally {
	if other.count == 0 {
		return tally
	}
	if tally.count == 0 {
		return other
	}

	na := float64(tally.count)
	nb := float64(other.count)
	n := na + nb
	delta := other.mean - tally.mean

	merged := Tally{
		count: tally.count + other.count,
		min:   math.Min(tally.min, other.min),
		max:   math.Max(tally.max, other.max),
		sum:   tally.sum + other.sum,
		mean:  tally.mean + delta*nb/n,
		m2:    tally.m2 + other.m2 + delta*delta*na*nb/n,
	}
	merged.stddev = math.Sqrt(merged.m2 / n)
	return merged
}

// Equal reports whether both tallies expose the same count, min, max, sum,
// mean and standard deviation. NaN fields compare equal to NaN.
func (tally Tally) Equal(other Tally) bool {
	return tally.count == other.count &&
		sameFloat(tally.Min(), other.Min()) &&
		sameFloat(tally.Max(), other.Max()) &&
		sameFloat(tally.sum, other.sum) &&
		sameFloat(tally.Mean(), other.Mean()) &&
		sameFloat(tally.StdDev(), other.StdDev())
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
