package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/olivex/fxrisk/config"
)

// probTolerance matches the config validation tolerance for probability sums.
const probTolerance = 1e-6

// ShockTable samples tariff-shock fractions from a discrete distribution.
type ShockTable struct {
	shocks []float64
	cum    []float64 // cumulative probabilities, last entry pinned to 1
}

// NewShockTable builds a sampler from ordered tariff scenarios. The scenario
// probabilities must be non-negative and sum to 1 within tolerance.
func NewShockTable(scenarios []config.Scenario) (*ShockTable, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no tariff scenarios")
	}

	t := &ShockTable{
		shocks: make([]float64, len(scenarios)),
		cum:    make([]float64, len(scenarios)),
	}

	sum := 0.0
	for i, s := range scenarios {
		if s.Probability < 0 {
			return nil, fmt.Errorf("scenario %d: negative probability %g", i, s.Probability)
		}
		sum += s.Probability
		t.shocks[i] = s.Shock
		t.cum[i] = sum
	}
	if math.Abs(sum-1.0) > probTolerance {
		return nil, fmt.Errorf("scenario probabilities must sum to 1.0, got %g", sum)
	}

	// Pin the last bucket so rounding error can never leave a draw unassigned.
	t.cum[len(t.cum)-1] = 1.0
	return t, nil
}

// Sample draws n independent shock fractions by cumulative inversion, one
// uniform variate from rng per draw.
func (t *ShockTable) Sample(n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	for i := range out {
		u := rng.Float64()
		for j, c := range t.cum {
			if u < c {
				out[i] = t.shocks[j]
				break
			}
		}
	}
	return out
}
