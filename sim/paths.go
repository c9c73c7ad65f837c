package sim

import (
	"fmt"
	"math"
	"math/rand"
)

const daysPerYear = 365.0

// SimulatePaths draws numPaths terminal exchange rates for a receivable due in
// horizonDays, using geometric Brownian motion.
//
// The drift is calibrated so the expected terminal rate equals the quoted
// forward rate: drift = ln(forward/spot)/T + vol^2/2. The vol^2/2 added here
// cancels against the -vol^2/2 in the GBM exponent, leaving E[S_T] = forward.
//
// One standard normal is consumed from rng per path, in path order.
func SimulatePaths(spot, forward, vol float64, horizonDays, numPaths int, rng *rand.Rand) ([]float64, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d days", horizonDays)
	}

	T := float64(horizonDays) / daysPerYear
	drift := math.Log(forward/spot)/T + vol*vol/2

	rates := make([]float64, numPaths)
	for i := range rates {
		z := rng.NormFloat64()
		rates[i] = spot * math.Exp((drift-vol*vol/2)*T+vol*math.Sqrt(T)*z)
	}
	return rates, nil
}
