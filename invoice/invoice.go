package invoice

import (
	"context"
	"time"
)

// Invoice is one cross-currency receivable, immutable once read. The notional
// is in the foreign currency; HorizonDays is due date minus invoice date and
// must be positive for the drift calculation to be defined.
type Invoice struct {
	UUID        string
	ID          string
	USDAmount   float64
	InvoiceDate time.Time
	DueDate     time.Time
	HorizonDays int
}

// Source yields the validated, current invoice set for a run. Implementations
// must return rows in a stable order: simulation results under a fixed seed
// depend on it.
type Source interface {
	Invoices(ctx context.Context) ([]Invoice, error)
}

// Slice adapts an in-memory batch to Source.
type Slice []Invoice

func (s Slice) Invoices(ctx context.Context) ([]Invoice, error) {
	return s, nil
}
