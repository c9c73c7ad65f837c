package sim

import "fmt"

// ComputationError marks a numeric failure attributable to a single invoice,
// such as a non-positive horizon or a degenerate notional. The engine skips
// the invoice and keeps the rest of the batch.
type ComputationError struct {
	InvoiceUUID string
	Err         error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("invoice %s: %v", e.InvoiceUUID, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
