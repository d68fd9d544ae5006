package bench

import (
	"cmp"
	"slices"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/exp/constraints"
)

// Addable is every type the + operator is defined on.
type Addable interface {
	constraints.Integer | constraints.Float | constraints.Complex | ~string
}

// Number is every type Combiner accepts.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum adds value to acc. AccumulateSum folds with it.
func Sum[T Addable](acc, value T) T {
	return acc + value
}

// Append adds value to the end of acc.
func Append[T any](acc []T, value T) []T {
	return append(acc, value)
}

func Max[T cmp.Ordered](acc, value T) T {
	return max(acc, value)
}

func Min[T cmp.Ordered](acc, value T) T {
	return min(acc, value)
}

func Last[T any](_, value T) T {
	return value
}

// Count ignores value and counts calls.
func Count[T Number](acc, _ T) T {
	return acc + 1
}

var combinerNames = []string{"count", "last", "max", "min", "sum"}

// CombinerNames lists the names Combiner accepts.
func CombinerNames() []string {
	return slices.Clone(combinerNames)
}

// Combiner returns the combiner registered under name.
func Combiner[T Number](name string) (func(T, T) T, error) {
	switch name {
	case "sum":
		return Sum[T], nil
	case "max":
		return Max[T], nil
	case "min":
		return Min[T], nil
	case "last":
		return Last[T], nil
	case "count":
		return Count[T], nil
	default:
		return nil, ewrap.Wrap(ErrUnknownCombiner, name)
	}
}
