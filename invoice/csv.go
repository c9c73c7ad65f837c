package invoice

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{
	"invoice_uuid", "invoice_id", "usd_amount", "invoice_date", "due_date", "horizon_days",
}

// WriteCSV writes an invoice batch with a header row, the staging format
// consumed by the bronze ingestion step.
func WriteCSV(path string, invoices []Invoice) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create invoice csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, inv := range invoices {
		err := w.Write([]string{
			inv.UUID,
			inv.ID,
			strconv.FormatFloat(inv.USDAmount, 'f', 2, 64),
			inv.InvoiceDate.Format(dateLayout),
			inv.DueDate.Format(dateLayout),
			strconv.Itoa(inv.HorizonDays),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// CSVSource reads invoices from the generator's CSV layout.
type CSVSource struct {
	Path string
}

func (s *CSVSource) Invoices(ctx context.Context) ([]Invoice, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open invoice csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read invoice csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	invoices := make([]Invoice, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("invoice csv row %d: want %d fields, got %d", i+1, len(csvHeader), len(row))
		}
		amount, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invoice csv row %d: usd_amount: %w", i+1, err)
		}
		invDate, err := time.Parse(dateLayout, row[3])
		if err != nil {
			return nil, fmt.Errorf("invoice csv row %d: invoice_date: %w", i+1, err)
		}
		dueDate, err := time.Parse(dateLayout, row[4])
		if err != nil {
			return nil, fmt.Errorf("invoice csv row %d: due_date: %w", i+1, err)
		}
		horizon, err := strconv.Atoi(row[5])
		if err != nil {
			return nil, fmt.Errorf("invoice csv row %d: horizon_days: %w", i+1, err)
		}
		invoices = append(invoices, Invoice{
			UUID:        row[0],
			ID:          row[1],
			USDAmount:   amount,
			InvoiceDate: invDate,
			DueDate:     dueDate,
			HorizonDays: horizon,
		})
	}
	return invoices, nil
}
