// Package workload is the prime counting job primebench times: trial-division
// primality over randomly generated integers, counted sequentially or in
// parallel.
package workload

import (
	"context"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/sync/errgroup"
)

// IsPrime tests n by trial division up to floor(sqrt(n)).
func IsPrime(n uint32) bool {
	if n < 2 {
		return false
	}

	// Cannot fail for unsigned input.
	root, _ := ISqrt(n)
	for i := uint32(2); i <= root; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func CountPrimes(values []uint32) int {
	count := 0
	for _, value := range values {
		if IsPrime(value) {
			count++
		}
	}
	return count
}

// CountPrimesParallel splits values into one contiguous chunk per worker.
// Workers stop early once ctx is done.
func CountPrimesParallel(ctx context.Context, values []uint32, workers int) (int, error) {
	if workers < 1 {
		return 0, ewrap.Wrapf(ErrInvalidWorkers, "%d", workers)
	}
	if workers > len(values) {
		workers = max(len(values), 1)
	}

	var count atomic.Int64
	group, ctx := errgroup.WithContext(ctx)
	chunk := (len(values) + workers - 1) / workers

	for start := 0; start < len(values); start += chunk {
		part := values[start:min(start+chunk, len(values))]
		group.Go(func() error {
			local := 0
			for _, value := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				if IsPrime(value) {
					local++
				}
			}
			count.Add(int64(local))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return 0, err
	}
	return int(count.Load()), nil
}

// Generate draws n integers uniformly from [2, math.MaxUint32] using rng.
func Generate(rng *rand.Rand, n int) []uint32 {
	values := make([]uint32, n)
	for i := range values {
		values[i] = 2 + rng.Uint32N(math.MaxUint32-1)
	}
	return values
}

// NewRand returns a generator fully determined by seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
