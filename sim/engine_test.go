package sim

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivex/fxrisk/config"
	"github.com/olivex/fxrisk/invoice"
)

func testConfig() *config.Config {
	return &config.Config{
		RandomSeed: 42,
		FX: config.FXConfig{
			SpotRate:             1.0852,
			ForwardRate:          1.0901,
			AnnualizedVolatility: 0.085,
		},
		Simulation: config.SimConfig{NumPaths: 10000},
		Tariff:     config.TariffConfig{Scenarios: defaultScenarios()},
		Hedge:      config.HedgeConfig{Threshold: 2, MaxThreshold: 8},
	}
}

func testInvoice(uuid string, amount float64, horizon int) invoice.Invoice {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	return invoice.Invoice{
		UUID:        uuid,
		ID:          "EXP-20260830-" + uuid,
		USDAmount:   amount,
		InvoiceDate: day,
		DueDate:     day.AddDate(0, 0, horizon),
		HorizonDays: horizon,
	}
}

// recordingSink captures what the engine persists.
type recordingSink struct {
	appended  [][]Result
	snapshots map[string][]Result
	appendErr error
}

func newRecordingSink() *recordingSink {
	return &recordingSink{snapshots: map[string][]Result{}}
}

func (s *recordingSink) AppendResults(ctx context.Context, results []Result) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, results)
	return nil
}

func (s *recordingSink) WriteSnapshot(ctx context.Context, runDate time.Time, results []Result) error {
	s.snapshots[runDate.Format("2006-01-02")] = results
	return nil
}

func fixedClock(e *Engine) {
	e.now = func() time.Time {
		return time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	}
}

func runBatch(t *testing.T, cfg *config.Config, invoices []invoice.Invoice) []Result {
	t.Helper()

	e := NewEngine(cfg, invoice.Slice(invoices), nil, nil)
	fixedClock(e)

	results, err := e.Run(context.Background(), time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return results
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	invoices := []invoice.Invoice{
		testInvoice("a", 50000, 45),
		testInvoice("b", 120000, 90),
		testInvoice("c", 8000, 20),
	}

	first := runBatch(t, testConfig(), invoices)
	second := runBatch(t, testConfig(), invoices)

	assert.Equal(t, first, second)
}

func TestRunConcreteScenario(t *testing.T) {
	t.Parallel()

	results := runBatch(t, testConfig(), []invoice.Invoice{testInvoice("inv-1", 50000, 45)})
	require.Len(t, results, 1)
	r := results[0]

	assert.InDelta(t, 50000/1.0901, r.HedgedEUR, 0.01)
	assert.LessOrEqual(t, r.CVaR95EUR, r.VaR95EUR)

	// At this volatility and horizon the 5% tail of the loss distribution
	// sits a few percent below zero.
	assert.Greater(t, r.VarPercentage, -10.0)
	assert.Less(t, r.VarPercentage, 10.0)

	// Published ratio must agree with the ramp applied to the published VaR
	// percentage.
	want := round4(HedgeRatio(r.VarPercentage, 2, 8))
	assert.InDelta(t, want, r.HedgeRatio, 1e-9)
	if r.HedgeRatio == 0 {
		assert.Equal(t, "No hedge recommended", r.Recommendation)
	} else {
		assert.NotEqual(t, "No hedge recommended", r.Recommendation)
	}

	assert.GreaterOrEqual(t, r.ProbLossPositive, 0.0)
	assert.LessOrEqual(t, r.ProbLossPositive, 1.0)
	assert.LessOrEqual(t, r.MinLoss, r.MedianLoss)
	assert.LessOrEqual(t, r.MedianLoss, r.MaxLoss)
	assert.Equal(t, "2026-08-30", r.RunDate)
}

func TestRunEmptySourceIsNoOp(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	e := NewEngine(testConfig(), invoice.Slice(nil), sink, nil)
	fixedClock(e)

	results, err := e.Run(context.Background(), time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, sink.appended)
	assert.Empty(t, sink.snapshots)
}

func TestRunSkipsBadInvoices(t *testing.T) {
	t.Parallel()

	good := []invoice.Invoice{
		testInvoice("a", 50000, 45),
		testInvoice("c", 8000, 20),
	}
	withBad := []invoice.Invoice{
		good[0],
		testInvoice("b", 10000, 0),  // zero horizon
		testInvoice("z", -5000, 30), // negative notional
		good[1],
	}

	results := runBatch(t, testConfig(), withBad)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].InvoiceUUID)
	assert.Equal(t, "c", results[1].InvoiceUUID)

	// A skipped invoice consumes no draws, so the surviving rows match a
	// batch that never contained it.
	assert.Equal(t, runBatch(t, testConfig(), good), results)
}

func TestRunAllShocksZeroMatchesPureFX(t *testing.T) {
	t.Parallel()

	spread := testConfig()
	spread.Tariff.Scenarios = []config.Scenario{
		{Probability: 0.7, Shock: 0},
		{Probability: 0.2, Shock: 0},
		{Probability: 0.1, Shock: 0},
	}
	single := testConfig()
	single.Tariff.Scenarios = []config.Scenario{{Probability: 1, Shock: 0}}

	invoices := []invoice.Invoice{testInvoice("a", 50000, 45)}

	// Both configs consume one uniform per path and assign shock 0, so the
	// loss distribution reduces to pure FX risk either way.
	assert.Equal(t, runBatch(t, spread, invoices), runBatch(t, single, invoices))
}

func TestRunPersistsBatch(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	e := NewEngine(testConfig(), invoice.Slice([]invoice.Invoice{testInvoice("a", 50000, 45)}), sink, nil)
	fixedClock(e)

	runDate := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	results, err := e.Run(context.Background(), runDate)
	require.NoError(t, err)

	require.Len(t, sink.appended, 1)
	assert.Equal(t, results, sink.appended[0])
	assert.Equal(t, results, sink.snapshots["2026-08-30"])
}

func TestRunSinkFailureAborts(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	sink.appendErr = errors.New("disk full")
	e := NewEngine(testConfig(), invoice.Slice([]invoice.Invoice{testInvoice("a", 50000, 45)}), sink, nil)
	fixedClock(e)

	_, err := e.Run(context.Background(), time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunSinglePathDoesNotCrash(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Simulation.NumPaths = 1

	results := runBatch(t, cfg, []invoice.Invoice{testInvoice("a", 50000, 45)})
	require.Len(t, results, 1)
	assert.InDelta(t, results[0].VaR95EUR, results[0].CVaR95EUR, 1e-9)
}

func TestComputationErrorCarriesInvoiceID(t *testing.T) {
	t.Parallel()

	inner := fmt.Errorf("horizon must be positive, got 0 days")
	err := &ComputationError{InvoiceUUID: "abc", Err: inner}

	assert.Contains(t, err.Error(), "abc")
	assert.ErrorIs(t, err, inner)
}
