package invoice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
	invoice_uuid TEXT PRIMARY KEY,
	invoice_id TEXT NOT NULL,
	usd_amount REAL NOT NULL,
	invoice_date TEXT NOT NULL,
	due_date TEXT NOT NULL,
	horizon_days INTEGER NOT NULL,
	is_valid INTEGER NOT NULL DEFAULT 1,
	is_latest INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_invoices_invoice_id ON invoices(invoice_id);
`

// SQLiteSource reads validated, current invoices from the warehouse database.
// The is_valid/is_latest flags are owned by the upstream modeling layer; this
// source only filters on them.
type SQLiteSource struct {
	db *sql.DB
}

func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &SQLiteSource{db: db}, nil
}

// Invoices returns the current invoice set ordered by invoice_id, which keeps
// batch order (and therefore seeded simulation output) stable.
func (s *SQLiteSource) Invoices(ctx context.Context) ([]Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT invoice_uuid, invoice_id, usd_amount, invoice_date, due_date, horizon_days
		FROM invoices
		WHERE is_valid = 1 AND is_latest = 1
		ORDER BY invoice_id`)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		var invDate, dueDate string
		if err := rows.Scan(&inv.UUID, &inv.ID, &inv.USDAmount, &invDate, &dueDate, &inv.HorizonDays); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		if inv.InvoiceDate, err = time.Parse(dateLayout, invDate); err != nil {
			return nil, fmt.Errorf("invoice %s: invoice_date: %w", inv.UUID, err)
		}
		if inv.DueDate, err = time.Parse(dateLayout, dueDate); err != nil {
			return nil, fmt.Errorf("invoice %s: due_date: %w", inv.UUID, err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Insert stages a generated batch. Rows default to valid and latest so a
// freshly staged batch is immediately visible to the simulator.
func (s *SQLiteSource) Insert(ctx context.Context, invoices []Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, inv := range invoices {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (invoice_uuid, invoice_id, usd_amount, invoice_date, due_date, horizon_days)
			VALUES (?, ?, ?, ?, ?, ?)`,
			inv.UUID, inv.ID, inv.USDAmount,
			inv.InvoiceDate.Format(dateLayout), inv.DueDate.Format(dateLayout), inv.HorizonDays,
		)
		if err != nil {
			return fmt.Errorf("insert invoice %s: %w", inv.UUID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
