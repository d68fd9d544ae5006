package workload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tallybench/stats"
)

func tallyOf(samples ...float64) stats.Tally {
	tally := stats.NewTally()
	for _, s := range samples {
		tally.Add(s)
	}
	return tally
}

func TestDecide(t *testing.T) {
	fast := tallyOf(0.010, 0.011, 0.009)
	slow := tallyOf(0.050, 0.052, 0.048)

	assert.Equal(t, Sequential, Decide(fast, slow, 3))
	assert.Equal(t, Parallel, Decide(slow, fast, 3))
	assert.Equal(t, Parallel, Decide(fast, fast, 3))
	assert.Equal(t, Parallel, Decide(stats.NewTally(), slow, 3))
	assert.Equal(t, "sequential", Sequential.String())
}

func TestCompare(t *testing.T) {
	values := Generate(NewRand(3400), 200)
	want := CountPrimes(values)

	comparison, err := Compare(context.Background(), values, 3, 4)
	require.NoError(t, err)

	assert.Equal(t, []int{want, want, want}, comparison.Sequential.Values)
	assert.Equal(t, []int{want, want, want}, comparison.Parallel.Values)
	assert.Equal(t, uint64(3), comparison.Sequential.Time.Count())
	assert.Equal(t, uint64(3), comparison.Parallel.Time.Count())
	assert.Contains(t, []Execution{Sequential, Parallel}, comparison.Decide(3))
}

func TestCompare_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comparison, err := Compare(ctx, []uint32{2, 3, 5, 7}, 3, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, comparison.Sequential.Values, 3)
	assert.Empty(t, comparison.Parallel.Values)
}
