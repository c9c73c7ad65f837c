package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/olivex/fxrisk/sim"
)

// SQLite persists simulation batches: an append-only historical table plus a
// per-run-date snapshot table. It implements sim.ResultSink.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// AppendResults adds the batch to the historical table in one transaction.
// Existing rows are never touched; a failed append leaves the table as it was.
func (j *SQLite) AppendResults(ctx context.Context, results []sim.Result) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO simulation_results
			(invoice_uuid, hedged_eur, var_95_eur, cvar_95_eur, var_percentage, hedge_ratio,
			 recommendation, prob_loss_positive, expected_loss_eur, prob_loss_gt_10pct,
			 min_loss, median_loss, max_loss, simulation_timestamp, run_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.InvoiceUUID, r.HedgedEUR, r.VaR95EUR, r.CVaR95EUR, r.VarPercentage, r.HedgeRatio,
			r.Recommendation, r.ProbLossPositive, r.ExpectedLossEUR, r.ProbLossGt10Pct,
			r.MinLoss, r.MedianLoss, r.MaxLoss, r.SimulationTimestamp.Format(time.RFC3339), r.RunDate,
		)
		if err != nil {
			return fmt.Errorf("append result for invoice %s: %w", r.InvoiceUUID, err)
		}
	}
	return tx.Commit()
}

// WriteSnapshot upserts the batch keyed by (run_date, invoice_uuid), so
// re-running the same run date rewrites its own snapshot and leaves other
// dates alone.
func (j *SQLite) WriteSnapshot(ctx context.Context, runDate time.Time, results []sim.Result) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	date := runDate.Format("2006-01-02")
	for _, r := range results {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO simulation_snapshots
			(run_date, invoice_uuid, hedged_eur, var_95_eur, cvar_95_eur, var_percentage, hedge_ratio,
			 recommendation, prob_loss_positive, expected_loss_eur, prob_loss_gt_10pct,
			 min_loss, median_loss, max_loss, simulation_timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			date, r.InvoiceUUID, r.HedgedEUR, r.VaR95EUR, r.CVaR95EUR, r.VarPercentage, r.HedgeRatio,
			r.Recommendation, r.ProbLossPositive, r.ExpectedLossEUR, r.ProbLossGt10Pct,
			r.MinLoss, r.MedianLoss, r.MaxLoss, r.SimulationTimestamp.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("snapshot result for invoice %s: %w", r.InvoiceUUID, err)
		}
	}
	return tx.Commit()
}

// ResultsByRunDate reads one run date's snapshot, ordered by invoice uuid.
func (j *SQLite) ResultsByRunDate(ctx context.Context, runDate time.Time) ([]sim.Result, error) {
	date := runDate.Format("2006-01-02")
	rows, err := j.db.QueryContext(ctx, `
		SELECT invoice_uuid, hedged_eur, var_95_eur, cvar_95_eur, var_percentage, hedge_ratio,
		       recommendation, prob_loss_positive, expected_loss_eur, prob_loss_gt_10pct,
		       min_loss, median_loss, max_loss, simulation_timestamp
		FROM simulation_snapshots
		WHERE run_date = ?
		ORDER BY invoice_uuid`, date)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var results []sim.Result
	for rows.Next() {
		var r sim.Result
		var ts string
		err := rows.Scan(
			&r.InvoiceUUID, &r.HedgedEUR, &r.VaR95EUR, &r.CVaR95EUR, &r.VarPercentage, &r.HedgeRatio,
			&r.Recommendation, &r.ProbLossPositive, &r.ExpectedLossEUR, &r.ProbLossGt10Pct,
			&r.MinLoss, &r.MedianLoss, &r.MaxLoss, &ts,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if r.SimulationTimestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, fmt.Errorf("invoice %s: simulation_timestamp: %w", r.InvoiceUUID, err)
		}
		r.RunDate = date
		results = append(results, r)
	}
	return results, rows.Err()
}

// History returns every historical row in insertion order.
func (j *SQLite) History(ctx context.Context) ([]sim.Result, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT invoice_uuid, hedged_eur, var_95_eur, cvar_95_eur, var_percentage, hedge_ratio,
		       recommendation, prob_loss_positive, expected_loss_eur, prob_loss_gt_10pct,
		       min_loss, median_loss, max_loss, simulation_timestamp, run_date
		FROM simulation_results
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var results []sim.Result
	for rows.Next() {
		var r sim.Result
		var ts string
		err := rows.Scan(
			&r.InvoiceUUID, &r.HedgedEUR, &r.VaR95EUR, &r.CVaR95EUR, &r.VarPercentage, &r.HedgeRatio,
			&r.Recommendation, &r.ProbLossPositive, &r.ExpectedLossEUR, &r.ProbLossGt10Pct,
			&r.MinLoss, &r.MedianLoss, &r.MaxLoss, &ts, &r.RunDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if r.SimulationTimestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, fmt.Errorf("invoice %s: simulation_timestamp: %w", r.InvoiceUUID, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// HistoryCount returns the number of rows in the historical table.
func (j *SQLite) HistoryCount(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM simulation_results`).Scan(&n)
	return n, err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
