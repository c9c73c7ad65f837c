package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxrisk",
	Short: "Monte Carlo FX and tariff risk engine for cross-currency invoices",
	Long: `fxrisk estimates the FX and tariff risk of unhedged cross-currency
receivables and recommends a hedge ratio per invoice.

It provides tools for:
  - Running the Monte Carlo simulation batch for a run date
  - Generating synthetic invoice batches for staging
  - Emitting per-invoice JSON risk alerts from a run's snapshot`,
}

var (
	configPath string
	runDateArg string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "config.yaml", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&runDateArg, "run-date", "", "run date YYYY-MM-DD (default today)")

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// runDate resolves the --run-date flag, defaulting to today.
func runDate() (time.Time, error) {
	if runDateArg == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", runDateArg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --run-date %q: %w", runDateArg, err)
	}
	return d, nil
}
