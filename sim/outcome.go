package sim

import (
	"fmt"
	"sort"
)

// Outcome holds the per-invoice loss distribution statistics.
//
// Losses are measured in the home currency against the hedged outcome:
// loss = hedged - unhedged, so a positive loss means staying unhedged was
// worse than hedging.
type Outcome struct {
	HedgedEUR        float64
	VaR95            float64
	CVaR95           float64
	VarPercentage    float64
	ProbLossPositive float64
	ExpectedLoss     float64
	ProbLossGt10Pct  float64
	MinLoss          float64
	MedianLoss       float64
	MaxLoss          float64
	TailPaths        int // number of paths in the CVaR window
}

// Aggregate combines index-aligned rate and shock draws into tail-risk
// statistics for one invoice.
//
// VaR-95 is the loss at sorted rank floor(0.05*n); CVaR-95 is the mean of the
// losses below that rank. When n is small enough that the rank is 0 the tail
// window is empty, so VaR falls back to the single worst (smallest) loss and
// CVaR is defined equal to VaR.
func Aggregate(rates, shocks []float64, usdAmount, forward float64) (Outcome, error) {
	n := len(rates)
	if n == 0 {
		return Outcome{}, fmt.Errorf("no simulated paths")
	}
	if len(shocks) != n {
		return Outcome{}, fmt.Errorf("rate/shock length mismatch: %d vs %d", n, len(shocks))
	}

	hedged := usdAmount / forward
	if hedged == 0 {
		return Outcome{}, fmt.Errorf("zero hedged outcome for usd_amount %g", usdAmount)
	}

	losses := make([]float64, n)
	var total float64
	positive := 0
	gt10 := 0
	for i, rate := range rates {
		effective := usdAmount * (1 - shocks[i])
		unhedged := effective / rate
		loss := hedged - unhedged
		losses[i] = loss
		total += loss
		if loss > 0 {
			positive++
		}
		if loss > 0.10*hedged {
			gt10++
		}
	}

	sort.Float64s(losses)

	// 0.05 floats slightly above 1/20, so int(0.05*n) and n/20 agree for all n.
	k := n / 20
	var var95, cvar95 float64
	tail := k
	if k == 0 {
		var95 = losses[0]
		cvar95 = var95
		tail = 1
	} else {
		var95 = losses[k]
		sum := 0.0
		for _, l := range losses[:k] {
			sum += l
		}
		cvar95 = sum / float64(k)
	}

	return Outcome{
		HedgedEUR:        hedged,
		VaR95:            var95,
		CVaR95:           cvar95,
		VarPercentage:    var95 / hedged * 100,
		ProbLossPositive: float64(positive) / float64(n),
		ExpectedLoss:     total / float64(n),
		ProbLossGt10Pct:  float64(gt10) / float64(n),
		MinLoss:          losses[0],
		MedianLoss:       median(losses),
		MaxLoss:          losses[n-1],
		TailPaths:        tail,
	}, nil
}

// median of an already sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
