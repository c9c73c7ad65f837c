package cmd

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/olivex/fxrisk/config"
	"github.com/olivex/fxrisk/invoice"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic invoice batch",
	Long: `Generate creates a batch of synthetic export invoices for a run date
and stages them in the invoice table, optionally also writing the raw CSV.

Example:
  fxrisk generate -f config.yaml --run-date 2026-08-30 --csv ./invoices.csv`,
	RunE: runGenerate,
}

var generateCSVPath string

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateCSVPath, "csv", "", "also write batch to this CSV file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Invoice.MinCount == 0 && cfg.Invoice.MaxCount == 0 {
		return fmt.Errorf("config has no invoice generator section")
	}

	date, err := runDate()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.RandomSeed))
	batch := invoice.Generate(cfg.Invoice, date, rng)

	source, err := invoice.NewSQLiteSource(cfg.Paths.Database)
	if err != nil {
		return fmt.Errorf("open invoice store: %w", err)
	}
	defer source.Close()

	if err := source.Insert(context.Background(), batch); err != nil {
		return fmt.Errorf("stage invoices: %w", err)
	}

	if generateCSVPath != "" {
		if err := invoice.WriteCSV(generateCSVPath, batch); err != nil {
			return err
		}
	}

	fmt.Printf("Generated %d invoices for %s into %s\n", len(batch), date.Format("2006-01-02"), cfg.Paths.Database)
	return nil
}
