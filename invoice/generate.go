package invoice

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olivex/fxrisk/config"
	"github.com/olivex/fxrisk/pkg/id"
)

// Generate produces a synthetic invoice batch for runDate: a uniform count in
// [min_count, max_count], uniform notional and horizon draws per invoice.
// Amounts and horizons are deterministic for a fixed rng; the ULID uuids are
// not, they only need to be unique.
func Generate(cfg config.InvoiceConfig, runDate time.Time, rng *rand.Rand) []Invoice {
	n := cfg.MinCount + rng.Intn(cfg.MaxCount-cfg.MinCount+1)

	invoices := make([]Invoice, 0, n)
	for i := 1; i <= n; i++ {
		amount := cfg.USDAmountMin + rng.Float64()*(cfg.USDAmountMax-cfg.USDAmountMin)
		horizon := cfg.HorizonDaysMin + rng.Intn(cfg.HorizonDaysMax-cfg.HorizonDaysMin+1)

		amountRounded, _ := decimal.NewFromFloat(amount).RoundBank(2).Float64()

		invoices = append(invoices, Invoice{
			UUID:        id.New(),
			ID:          fmt.Sprintf("EXP-%s-%03d", runDate.Format("20060102"), i),
			USDAmount:   amountRounded,
			InvoiceDate: runDate,
			DueDate:     runDate.AddDate(0, 0, horizon),
			HorizonDays: horizon,
		})
	}
	return invoices
}
