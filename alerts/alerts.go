package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olivex/fxrisk/invoice"
	"github.com/olivex/fxrisk/sim"
)

// Alert is the full per-invoice risk summary emitted for downstream
// consumption (Slack, email, dashboards).
type Alert struct {
	InvoiceUUID         string  `json:"invoice_uuid"`
	InvoiceID           string  `json:"invoice_id"`
	USDAmount           float64 `json:"usd_amount"`
	InvoiceDate         string  `json:"invoice_date"`
	DueDate             string  `json:"due_date"`
	HorizonDays         int     `json:"horizon_days"`
	HedgedEUR           float64 `json:"hedged_eur"`
	VaR95EUR            float64 `json:"var_95_eur"`
	CVaR95EUR           float64 `json:"cvar_95_eur"`
	VarPercentage       float64 `json:"var_percentage"`
	HedgeRatio          float64 `json:"hedge_ratio"`
	Recommendation      string  `json:"recommendation"`
	ProbLossPositive    float64 `json:"prob_loss_positive"`
	ExpectedLossEUR     float64 `json:"expected_loss_eur"`
	ProbLossGt10Pct     float64 `json:"prob_loss_gt_10pct"`
	MinLoss             float64 `json:"min_loss"`
	MedianLoss          float64 `json:"median_loss"`
	MaxLoss             float64 `json:"max_loss"`
	SimulationTimestamp string  `json:"simulation_timestamp"`
	RunDate             string  `json:"run_date"`
}

// Write emits one JSON alert file per result under dir/<run-date>/, joining
// each result with its invoice. Returns the written paths in result order.
func Write(dir string, runDate time.Time, invoices []invoice.Invoice, results []sim.Result) ([]string, error) {
	byUUID := make(map[string]invoice.Invoice, len(invoices))
	for _, inv := range invoices {
		byUUID[inv.UUID] = inv
	}

	outDir := filepath.Join(dir, runDate.Format("2006-01-02"))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create alerts dir: %w", err)
	}

	paths := make([]string, 0, len(results))
	for _, r := range results {
		inv, ok := byUUID[r.InvoiceUUID]
		if !ok {
			return paths, fmt.Errorf("no invoice for result %s", r.InvoiceUUID)
		}

		a := Alert{
			InvoiceUUID:         inv.UUID,
			InvoiceID:           inv.ID,
			USDAmount:           inv.USDAmount,
			InvoiceDate:         inv.InvoiceDate.Format("2006-01-02"),
			DueDate:             inv.DueDate.Format("2006-01-02"),
			HorizonDays:         inv.HorizonDays,
			HedgedEUR:           r.HedgedEUR,
			VaR95EUR:            r.VaR95EUR,
			CVaR95EUR:           r.CVaR95EUR,
			VarPercentage:       r.VarPercentage,
			HedgeRatio:          r.HedgeRatio,
			Recommendation:      r.Recommendation,
			ProbLossPositive:    r.ProbLossPositive,
			ExpectedLossEUR:     r.ExpectedLossEUR,
			ProbLossGt10Pct:     r.ProbLossGt10Pct,
			MinLoss:             r.MinLoss,
			MedianLoss:          r.MedianLoss,
			MaxLoss:             r.MaxLoss,
			SimulationTimestamp: r.SimulationTimestamp.Format(time.RFC3339),
			RunDate:             r.RunDate,
		}

		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return paths, fmt.Errorf("marshal alert for %s: %w", inv.ID, err)
		}

		path := filepath.Join(outDir, "alert_"+inv.ID+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, fmt.Errorf("write alert for %s: %w", inv.ID, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
