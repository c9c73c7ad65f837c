package journal

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olivex/fxrisk/sim"
)

var csvHeader = []string{
	"invoice_uuid", "hedged_eur", "var_95_eur", "cvar_95_eur", "var_percentage", "hedge_ratio",
	"recommendation", "prob_loss_positive", "expected_loss_eur", "prob_loss_gt_10pct",
	"min_loss", "median_loss", "max_loss", "simulation_timestamp", "run_date",
}

// CSV persists simulation batches to flat files: a single historical file
// that only grows, and one snapshot file per run date under
// run_date=YYYY-MM-DD directories. It implements sim.ResultSink.
type CSV struct {
	HistoricalPath string
	SnapshotDir    string
}

func NewCSV(historicalPath, snapshotDir string) *CSV {
	return &CSV{HistoricalPath: historicalPath, SnapshotDir: snapshotDir}
}

// AppendResults appends the batch to the historical file, writing the header
// only when the file is new.
func (c *CSV) AppendResults(ctx context.Context, results []sim.Result) error {
	f, err := os.OpenFile(c.HistoricalPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open historical csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	if err := writeRows(w, results); err != nil {
		return err
	}
	return f.Close()
}

// WriteSnapshot recreates the run date's snapshot file, so re-running a date
// is idempotent.
func (c *CSV) WriteSnapshot(ctx context.Context, runDate time.Time, results []sim.Result) error {
	dir := filepath.Join(c.SnapshotDir, "run_date="+runDate.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "simulation_results.csv"))
	if err != nil {
		return fmt.Errorf("create snapshot csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	if err := writeRows(w, results); err != nil {
		return err
	}
	return f.Close()
}

func writeRows(w *csv.Writer, results []sim.Result) error {
	for _, r := range results {
		err := w.Write([]string{
			r.InvoiceUUID,
			f2(r.HedgedEUR),
			f2(r.VaR95EUR),
			f2(r.CVaR95EUR),
			f4(r.VarPercentage),
			f4(r.HedgeRatio),
			r.Recommendation,
			f4(r.ProbLossPositive),
			f2(r.ExpectedLossEUR),
			f4(r.ProbLossGt10Pct),
			f2(r.MinLoss),
			f2(r.MedianLoss),
			f2(r.MaxLoss),
			r.SimulationTimestamp.Format(time.RFC3339),
			r.RunDate,
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Result fields are stored pre-rounded, so fixed precisions re-render them
// exactly.
func f2(x float64) string { return strconv.FormatFloat(x, 'f', 2, 64) }
func f4(x float64) string { return strconv.FormatFloat(x, 'f', 4, 64) }
