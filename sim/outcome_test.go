package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateHandComputed(t *testing.T) {
	t.Parallel()

	// Two paths, no shocks: hedged = 100/1.0 = 100;
	// losses are 100 - 100/rate.
	rates := []float64{0.8, 1.25}
	shocks := []float64{0, 0}

	out, err := Aggregate(rates, shocks, 100, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, out.HedgedEUR, 1e-9)
	// losses sorted: [-25, 20]
	assert.InDelta(t, -25.0, out.MinLoss, 1e-9)
	assert.InDelta(t, 20.0, out.MaxLoss, 1e-9)
	assert.InDelta(t, -2.5, out.MedianLoss, 1e-9)
	assert.InDelta(t, -2.5, out.ExpectedLoss, 1e-9)
	assert.InDelta(t, 0.5, out.ProbLossPositive, 1e-9)
	assert.InDelta(t, 0.5, out.ProbLossGt10Pct, 1e-9) // only the +20 loss exceeds 10
}

func TestAggregateShockReducesUnhedgedOutcome(t *testing.T) {
	t.Parallel()

	// Rate pinned at the forward so FX contributes nothing; the 25% shock
	// alone produces a loss of 25% of the hedged outcome.
	out, err := Aggregate([]float64{1.0901}, []float64{0.25}, 50000, 1.0901)
	require.NoError(t, err)

	hedged := 50000 / 1.0901
	assert.InDelta(t, hedged*0.25, out.MaxLoss, 1e-6)
	assert.InDelta(t, out.MaxLoss, out.MinLoss, 1e-12)
}

func TestAggregateTailWindow(t *testing.T) {
	t.Parallel()

	// 100 known losses: rates chosen so loss_i is increasing; k = 5, so
	// VaR is the 6th smallest loss and CVaR averages the 5 below it.
	n := 100
	rates := make([]float64, n)
	shocks := make([]float64, n)
	for i := range rates {
		// loss = 100 - 100/rate, increasing in rate
		rates[i] = 0.5 + float64(i)*0.01
	}

	out, err := Aggregate(rates, shocks, 100, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 5, out.TailPaths)

	loss := func(rate float64) float64 { return 100 - 100/rate }
	assert.InDelta(t, loss(rates[5]), out.VaR95, 1e-9)

	want := 0.0
	for i := 0; i < 5; i++ {
		want += loss(rates[i])
	}
	want /= 5
	assert.InDelta(t, want, out.CVaR95, 1e-9)
}

func TestAggregateCVaRNeverExceedsVaR(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(500)
		rates := make([]float64, n)
		shocks := make([]float64, n)
		for i := range rates {
			rates[i] = 0.8 + rng.Float64()*0.6
			if rng.Intn(4) == 0 {
				shocks[i] = 0.05
			}
		}

		out, err := Aggregate(rates, shocks, 10000, 1.09)
		require.NoError(t, err)

		assert.LessOrEqual(t, out.CVaR95, out.VaR95)
		assert.LessOrEqual(t, out.MinLoss, out.MedianLoss)
		assert.LessOrEqual(t, out.MedianLoss, out.MaxLoss)
	}
}

func TestAggregateSinglePath(t *testing.T) {
	t.Parallel()

	// Degenerate tail window: VaR falls back to the single loss and CVaR
	// equals VaR.
	out, err := Aggregate([]float64{1.1}, []float64{0}, 100, 1.0)
	require.NoError(t, err)

	loss := 100 - 100/1.1
	assert.InDelta(t, loss, out.VaR95, 1e-9)
	assert.InDelta(t, loss, out.CVaR95, 1e-9)
	assert.InDelta(t, loss, out.MedianLoss, 1e-9)
	assert.Equal(t, 1, out.TailPaths)
}

func TestAggregateInputErrors(t *testing.T) {
	t.Parallel()

	_, err := Aggregate(nil, nil, 100, 1.0)
	assert.Error(t, err)

	_, err = Aggregate([]float64{1.1, 1.2}, []float64{0}, 100, 1.0)
	assert.Error(t, err)

	_, err = Aggregate([]float64{1.1}, []float64{0}, 0, 1.0)
	assert.Error(t, err)
}
