package sim

import (
	"fmt"
	"math"
)

// HedgeRatio maps a VaR percentage to a hedge ratio in [0, 1] along a linear
// ramp: 0 below threshold, 1 at or above maxThreshold, proportional between.
// The ratio is non-decreasing in varPct for fixed thresholds.
func HedgeRatio(varPct, threshold, maxThreshold float64) float64 {
	ratio := (varPct - threshold) / (maxThreshold - threshold)
	return math.Min(1, math.Max(0, ratio))
}

// Recommendation renders the hedge decision. The text is "No hedge
// recommended" exactly when the ratio is 0; otherwise the ratio is expressed
// as a percentage rounded to the nearest integer.
func Recommendation(ratio float64) string {
	if ratio == 0 {
		return "No hedge recommended"
	}
	return fmt.Sprintf("Hedge %d%% of the exposure", int(math.Round(ratio*100)))
}
