package sim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is one simulation row for one (invoice, run) pair. Rows are created
// once and never mutated; the historical sink only ever appends them.
//
// Monetary fields are rounded half-even to 2 decimal places, ratios and
// probabilities to 4, so persisted rows are stable across round-trips.
type Result struct {
	InvoiceUUID         string    `json:"invoice_uuid"`
	HedgedEUR           float64   `json:"hedged_eur"`
	VaR95EUR            float64   `json:"var_95_eur"`
	CVaR95EUR           float64   `json:"cvar_95_eur"`
	VarPercentage       float64   `json:"var_percentage"`
	HedgeRatio          float64   `json:"hedge_ratio"`
	Recommendation      string    `json:"recommendation"`
	ProbLossPositive    float64   `json:"prob_loss_positive"`
	ExpectedLossEUR     float64   `json:"expected_loss_eur"`
	ProbLossGt10Pct     float64   `json:"prob_loss_gt_10pct"`
	MinLoss             float64   `json:"min_loss"`
	MedianLoss          float64   `json:"median_loss"`
	MaxLoss             float64   `json:"max_loss"`
	SimulationTimestamp time.Time `json:"simulation_timestamp"`
	RunDate             string    `json:"run_date"` // YYYY-MM-DD
}

// round2 rounds half-even to cents.
func round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).RoundBank(2).Float64()
	return f
}

// round4 rounds half-even to 4 decimal places, used for ratios and probabilities.
func round4(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).RoundBank(4).Float64()
	return f
}
