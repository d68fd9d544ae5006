package bench

import (
	"runtime"
	"sync/atomic"
)

var fence atomic.Uint64

// Barrier is a compiler and CPU reordering fence. The locked read-modify-write
// keeps loads, stores and calls on either side of it from being moved across,
// so a clock read stays adjacent to the call it is timing.
//
//go:noinline
func Barrier() {
	fence.Add(0)
}

// Sink keeps value live so that a call whose result is otherwise unused
// cannot be eliminated.
func Sink[T any](value T) {
	runtime.KeepAlive(value)
}
