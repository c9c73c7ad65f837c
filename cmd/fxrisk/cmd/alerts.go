package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olivex/fxrisk/alerts"
	"github.com/olivex/fxrisk/config"
	"github.com/olivex/fxrisk/invoice"
	"github.com/olivex/fxrisk/journal"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Emit per-invoice JSON alerts from a run's snapshot",
	Long: `Alerts joins a run date's snapshot with its invoices and writes one
JSON alert file per invoice under the configured alerts directory.

Example:
  fxrisk alerts -f config.yaml --run-date 2026-08-30`,
	RunE: runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	date, err := runDate()
	if err != nil {
		return err
	}

	ctx := context.Background()

	j, err := journal.NewSQLite(cfg.Paths.Database)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	results, err := j.ResultsByRunDate(ctx, date)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No results for %s; no alerts written.\n", date.Format("2006-01-02"))
		return nil
	}

	source, err := invoice.NewSQLiteSource(cfg.Paths.Database)
	if err != nil {
		return fmt.Errorf("open invoice source: %w", err)
	}
	defer source.Close()

	invoices, err := source.Invoices(ctx)
	if err != nil {
		return err
	}

	paths, err := alerts.Write(cfg.Paths.AlertsDir, date, invoices, results)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d alerts to %s\n", len(paths), cfg.Paths.AlertsDir)
	return nil
}
