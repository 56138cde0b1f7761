// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration. Zero-valued fields in the YAML file
// keep their defaults.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	CPPI      CPPIConfig      `yaml:"cppi"`
	Backtest  BacktestConfig  `yaml:"backtest"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LoggingConfig configures pkg/logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// CPPIConfig holds the insurance parameters.
type CPPIConfig struct {
	Multiplier   float64  `yaml:"multiplier"`
	CushionRatio float64  `yaml:"cushion_ratio"`
	Drawdown     *float64 `yaml:"drawdown"` // nil disables the trailing floor
	RiskFreeRate float64  `yaml:"risk_free_rate"`
	StartValue   float64  `yaml:"start_value"`
}

// BacktestConfig holds the rolling-window parameters.
type BacktestConfig struct {
	EstimationWindow       int     `yaml:"estimation_window"`
	MicrocapThreshold      float64 `yaml:"microcap_threshold"`
	MaxCapWeightMultiplier float64 `yaml:"max_cap_weight_multiplier"`
}

// OptimizerConfig mirrors optimization.Options.
type OptimizerConfig struct {
	Debug               bool    `yaml:"debug"`
	ConstraintTolerance float64 `yaml:"constraint_tolerance"`
	MaxIterations       int     `yaml:"max_iterations"`
}

// MetricsConfig holds the annualisation inputs.
type MetricsConfig struct {
	RiskFreeRate   float64 `yaml:"risk_free_rate"`
	PeriodsPerYear int     `yaml:"periods_per_year"`
}

// Default returns the library defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Pretty: true},
		CPPI: CPPIConfig{
			Multiplier:   3,
			CushionRatio: 0.8,
			RiskFreeRate: 0.03,
			StartValue:   1000,
		},
		Backtest:  BacktestConfig{EstimationWindow: 60},
		Optimizer: OptimizerConfig{ConstraintTolerance: 1e-8, MaxIterations: 1000},
		Metrics:   MetricsConfig{RiskFreeRate: 0.03, PeriodsPerYear: 12},
	}
}

// Load reads configuration from .env, an optional YAML file and the
// environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Logging.Level = getEnv("FINTOOLS_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Pretty = getEnvAsBool("FINTOOLS_LOG_PRETTY", cfg.Logging.Pretty)
	rf := getEnvAsFloat("FINTOOLS_RISK_FREE_RATE", cfg.Metrics.RiskFreeRate)
	if rf != cfg.Metrics.RiskFreeRate {
		cfg.Metrics.RiskFreeRate = rf
		cfg.CPPI.RiskFreeRate = rf
	}
	cfg.Metrics.PeriodsPerYear = getEnvAsInt("FINTOOLS_PERIODS_PER_YEAR", cfg.Metrics.PeriodsPerYear)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric ranges.
func (c *Config) Validate() error {
	if c.CPPI.StartValue <= 0 {
		return fmt.Errorf("cppi.start_value must be positive, got %g", c.CPPI.StartValue)
	}
	if c.CPPI.CushionRatio < 0 || c.CPPI.CushionRatio > 1 {
		return fmt.Errorf("cppi.cushion_ratio must be within [0, 1], got %g", c.CPPI.CushionRatio)
	}
	if d := c.CPPI.Drawdown; d != nil && (*d <= 0 || *d >= 1) {
		return fmt.Errorf("cppi.drawdown must be within (0, 1), got %g", *d)
	}
	if c.Backtest.EstimationWindow < 2 {
		return fmt.Errorf("backtest.estimation_window must be at least 2, got %d", c.Backtest.EstimationWindow)
	}
	if c.Metrics.PeriodsPerYear <= 0 {
		return fmt.Errorf("metrics.periods_per_year must be positive, got %d", c.Metrics.PeriodsPerYear)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
