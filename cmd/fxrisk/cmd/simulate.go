package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olivex/fxrisk/config"
	"github.com/olivex/fxrisk/invoice"
	"github.com/olivex/fxrisk/journal"
	"github.com/olivex/fxrisk/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Monte Carlo risk batch for a run date",
	Long: `Simulate reads the current validated invoices, runs the Monte Carlo
FX + tariff simulation for each, and writes per-invoice risk results to the
historical result table and the run-date snapshot.

Example:
  fxrisk simulate -f config.yaml --run-date 2026-08-30`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	date, err := runDate()
	if err != nil {
		return err
	}

	source, err := invoice.NewSQLiteSource(cfg.Paths.Database)
	if err != nil {
		return fmt.Errorf("open invoice source: %w", err)
	}
	defer source.Close()

	j, err := journal.NewSQLite(cfg.Paths.Database)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	engine := sim.NewEngine(cfg, source, j, slog.Default())
	results, err := engine.Run(context.Background(), date)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No valid invoices to simulate; nothing written.")
		return nil
	}

	fmt.Printf("Simulated %d invoices for %s\n", len(results), date.Format("2006-01-02"))
	fmt.Printf("Results written to %s\n", cfg.Paths.Database)
	return nil
}
