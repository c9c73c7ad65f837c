package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/olivex/fxrisk/config"
	"github.com/olivex/fxrisk/invoice"
)

// ResultSink persists a completed batch. AppendResults adds rows to the
// growing historical result set; WriteSnapshot writes the same batch keyed by
// run date, idempotently.
type ResultSink interface {
	AppendResults(ctx context.Context, results []Result) error
	WriteSnapshot(ctx context.Context, runDate time.Time, results []Result) error
}

// Engine runs one Monte Carlo batch over an invoice set.
//
// Reproducibility contract: a single generator seeded from the config is
// shared across the whole batch and advanced sequentially, so results depend
// on the invoice order and on the exact number of draws per invoice (all path
// normals first, then all shock uniforms). Simulating invoices concurrently
// would break this contract and is deliberately not done.
type Engine struct {
	cfg    *config.Config
	source invoice.Source
	sink   ResultSink
	log    *slog.Logger
	now    func() time.Time
}

// NewEngine wires an engine. sink may be nil for dry runs; log may be nil.
func NewEngine(cfg *config.Config, source invoice.Source, sink ResultSink, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		cfg:    cfg,
		source: source,
		sink:   sink,
		log:    log,
		now:    time.Now,
	}
}

// Run executes one simulation batch for runDate and persists it.
//
// An empty invoice set is a no-op success: the engine returns an empty slice
// and a nil error without touching the sinks. Invoices that fail computation
// are skipped and logged; configuration or persistence failures abort the run
// with nothing written.
func (e *Engine) Run(ctx context.Context, runDate time.Time) ([]Result, error) {
	shocks, err := NewShockTable(e.cfg.Tariff.Scenarios)
	if err != nil {
		return nil, fmt.Errorf("tariff scenarios: %w", err)
	}

	invoices, err := e.source.Invoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("read invoices: %w", err)
	}
	if len(invoices) == 0 {
		e.log.Warn("no valid invoices to simulate", "run_date", dateOnly(runDate))
		return []Result{}, nil
	}

	e.log.Info("simulating risk",
		"invoices", len(invoices),
		"num_paths", e.cfg.Simulation.NumPaths,
		"seed", e.cfg.RandomSeed,
	)

	rng := rand.New(rand.NewSource(e.cfg.RandomSeed))
	timestamp := e.now().UTC()

	results := make([]Result, 0, len(invoices))
	for _, inv := range invoices {
		res, err := e.simulateInvoice(inv, shocks, rng)
		if err != nil {
			e.log.Error("skipping invoice", "invoice_uuid", inv.UUID, "error", err)
			continue
		}
		res.SimulationTimestamp = timestamp
		res.RunDate = dateOnly(runDate)
		results = append(results, res)
	}

	if e.sink != nil {
		if err := e.sink.AppendResults(ctx, results); err != nil {
			return nil, fmt.Errorf("append results: %w", err)
		}
		if err := e.sink.WriteSnapshot(ctx, runDate, results); err != nil {
			return nil, fmt.Errorf("write snapshot: %w", err)
		}
	}

	return results, nil
}

// simulateInvoice consumes numPaths normals then numPaths uniforms from rng.
func (e *Engine) simulateInvoice(inv invoice.Invoice, shocks *ShockTable, rng *rand.Rand) (Result, error) {
	fx := e.cfg.FX
	n := e.cfg.Simulation.NumPaths

	if inv.USDAmount <= 0 {
		return Result{}, &ComputationError{inv.UUID, fmt.Errorf("non-positive usd_amount %g", inv.USDAmount)}
	}

	rates, err := SimulatePaths(fx.SpotRate, fx.ForwardRate, fx.AnnualizedVolatility, inv.HorizonDays, n, rng)
	if err != nil {
		return Result{}, &ComputationError{inv.UUID, err}
	}
	shockValues := shocks.Sample(n, rng)

	out, err := Aggregate(rates, shockValues, inv.USDAmount, fx.ForwardRate)
	if err != nil {
		return Result{}, &ComputationError{inv.UUID, err}
	}

	ratio := round4(HedgeRatio(out.VarPercentage, e.cfg.Hedge.Threshold, e.cfg.Hedge.MaxThreshold))

	return Result{
		InvoiceUUID:      inv.UUID,
		HedgedEUR:        round2(out.HedgedEUR),
		VaR95EUR:         round2(out.VaR95),
		CVaR95EUR:        round2(out.CVaR95),
		VarPercentage:    round4(out.VarPercentage),
		HedgeRatio:       ratio,
		Recommendation:   Recommendation(ratio),
		ProbLossPositive: round4(out.ProbLossPositive),
		ExpectedLossEUR:  round2(out.ExpectedLoss),
		ProbLossGt10Pct:  round4(out.ProbLossGt10Pct),
		MinLoss:          round2(out.MinLoss),
		MedianLoss:       round2(out.MedianLoss),
		MaxLoss:          round2(out.MaxLoss),
	}, nil
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
