package workload

import (
	"math/bits"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/exp/constraints"
)

// ISqrt returns floor(sqrt(n)) using Newton's method. The first guess is the
// smallest power of two not below sqrt(n), taken from the bit length of n-1,
// so the iteration decreases monotonically (Hacker's Delight, 2nd ed., 11-1).
func ISqrt[T constraints.Integer](n T) (T, error) {
	if n < 0 {
		return 0, ewrap.Wrapf(ErrNegativeSqrt, "%d", n)
	}
	if n <= 1 {
		return n, nil
	}

	shift := (bits.Len64(uint64(n-1)) + 1) / 2
	guess0 := T(1) << shift
	guess1 := (guess0 + (n >> shift)) >> 1

	for guess1 < guess0 {
		guess0 = guess1
		guess1 = (guess0 + n/guess0) >> 1
	}
	return guess0, nil
}
