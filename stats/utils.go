package stats

import "math"

type Bounds struct {
	Lower float64
	Upper float64
}

// Bounds returns [mean - k*stddev, mean + k*stddev]. Both ends are NaN for an
// empty tally.
func (tally Tally) Bounds(sdMultiplier float64) Bounds {
	mean := tally.Mean()
	spread := sdMultiplier * tally.StdDev()
	return Bounds{
		Lower: mean - spread,
		Upper: mean + spread,
	}
}

func (bounds Bounds) Contains(value float64) bool {
	return bounds.Lower <= value && value <= bounds.Upper
}

// SignificantlyFaster reports whether a's upper bound at sdMultiplier standard
// deviations is still below b's mean. Empty tallies are never faster.
func SignificantlyFaster(a, b Tally, sdMultiplier float64) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	upper := a.Bounds(sdMultiplier).Upper
	return !math.IsNaN(upper) && upper < b.Mean()
}
