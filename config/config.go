package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// probTolerance is how far the tariff scenario probabilities may drift from 1.0
// before the config is rejected.
const probTolerance = 1e-6

// Config represents the complete risk-run configuration
type Config struct {
	RandomSeed int64         `yaml:"random_seed"`
	FX         FXConfig      `yaml:"fx"`
	Simulation SimConfig     `yaml:"simulation"`
	Tariff     TariffConfig  `yaml:"tariff"`
	Hedge      HedgeConfig   `yaml:"hedge"`
	Invoice    InvoiceConfig `yaml:"invoice"`
	Paths      PathsConfig   `yaml:"paths"`
}

// FXConfig contains the market parameters for the simulated currency pair
type FXConfig struct {
	SpotRate             float64 `yaml:"spot_rate"`
	ForwardRate          float64 `yaml:"forward_rate"`
	AnnualizedVolatility float64 `yaml:"annualized_volatility"`
}

// SimConfig contains Monte Carlo parameters
type SimConfig struct {
	NumPaths int `yaml:"num_paths"`
}

// TariffConfig holds the discrete tariff-shock distribution
type TariffConfig struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one (probability, shock-fraction) pair
type Scenario struct {
	Probability float64 `yaml:"probability"`
	Shock       float64 `yaml:"shock"`
}

// HedgeConfig contains the linear-ramp thresholds, in VaR-percentage points
type HedgeConfig struct {
	Threshold    float64 `yaml:"threshold"`
	MaxThreshold float64 `yaml:"max_threshold"`
}

// InvoiceConfig contains synthetic invoice generator bounds
type InvoiceConfig struct {
	MinCount       int     `yaml:"min_count"`
	MaxCount       int     `yaml:"max_count"`
	USDAmountMin   float64 `yaml:"usd_amount_min"`
	USDAmountMax   float64 `yaml:"usd_amount_max"`
	HorizonDaysMin int     `yaml:"horizon_days_min"`
	HorizonDaysMax int     `yaml:"horizon_days_max"`
}

// PathsConfig contains output locations
type PathsConfig struct {
	Database    string `yaml:"database"`
	SnapshotDir string `yaml:"snapshot_dir"`
	AlertsDir   string `yaml:"alerts_dir"`
}

// LoadFromFile loads and validates configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration invariants. Violations are fatal and are
// reported before any simulation runs.
func (c *Config) Validate() error {
	if c.FX.SpotRate <= 0 {
		return fmt.Errorf("fx.spot_rate must be positive")
	}
	if c.FX.ForwardRate <= 0 {
		return fmt.Errorf("fx.forward_rate must be positive")
	}
	if c.FX.AnnualizedVolatility <= 0 {
		return fmt.Errorf("fx.annualized_volatility must be positive")
	}
	if c.Simulation.NumPaths < 1 {
		return fmt.Errorf("simulation.num_paths must be at least 1")
	}
	if len(c.Tariff.Scenarios) == 0 {
		return fmt.Errorf("tariff.scenarios must not be empty")
	}
	sum := 0.0
	for i, s := range c.Tariff.Scenarios {
		if s.Probability < 0 {
			return fmt.Errorf("tariff.scenarios[%d].probability must not be negative", i)
		}
		sum += s.Probability
	}
	if math.Abs(sum-1.0) > probTolerance {
		return fmt.Errorf("tariff.scenarios probabilities must sum to 1.0, got %g", sum)
	}
	if c.Hedge.Threshold >= c.Hedge.MaxThreshold {
		return fmt.Errorf("hedge.threshold must be less than hedge.max_threshold")
	}
	if c.Invoice.MinCount != 0 || c.Invoice.MaxCount != 0 {
		if c.Invoice.MinCount < 1 || c.Invoice.MaxCount < c.Invoice.MinCount {
			return fmt.Errorf("invoice min_count/max_count must satisfy 1 <= min <= max")
		}
		if c.Invoice.USDAmountMin <= 0 || c.Invoice.USDAmountMax < c.Invoice.USDAmountMin {
			return fmt.Errorf("invoice usd_amount bounds must satisfy 0 < min <= max")
		}
		if c.Invoice.HorizonDaysMin < 1 || c.Invoice.HorizonDaysMax < c.Invoice.HorizonDaysMin {
			return fmt.Errorf("invoice horizon_days bounds must satisfy 1 <= min <= max")
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		RandomSeed: 42,
		FX: FXConfig{
			SpotRate:             1.0852,
			ForwardRate:          1.0901,
			AnnualizedVolatility: 0.085,
		},
		Simulation: SimConfig{
			NumPaths: 10000,
		},
		Tariff: TariffConfig{
			Scenarios: []Scenario{
				{Probability: 0.7, Shock: 0.0},
				{Probability: 0.2, Shock: 0.05},
				{Probability: 0.1, Shock: 0.15},
			},
		},
		Hedge: HedgeConfig{
			Threshold:    2,
			MaxThreshold: 8,
		},
		Invoice: InvoiceConfig{
			MinCount:       3,
			MaxCount:       8,
			USDAmountMin:   10000,
			USDAmountMax:   250000,
			HorizonDaysMin: 15,
			HorizonDaysMax: 120,
		},
		Paths: PathsConfig{
			Database:    "./fxrisk.sqlite",
			SnapshotDir: "./data/snapshots",
			AlertsDir:   "./data/alerts",
		},
	}
}
