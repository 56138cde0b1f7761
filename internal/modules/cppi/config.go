package cppi

import (
	"fmt"

	"github.com/aristath/fintools/internal/timeseries"
	"github.com/aristath/fintools/pkg/formulas"
)

// Config holds the CPPI parameters.
type Config struct {
	Multiplier   float64 // risky exposure per unit of cushion
	CushionRatio float64 // initial floor as a fraction of StartValue
	// Drawdown, when set, makes the floor trail the running peak at
	// peak × (1 - Drawdown).
	Drawdown     *float64
	RiskFreeRate float64 // annual; used when SafeReturns is nil
	StartValue   float64

	// SafeReturns are the per-period safe asset returns. One column is
	// applied to every risky column; otherwise the column counts must match.
	SafeReturns *timeseries.Frame

	PeriodsPerYear int // converts RiskFreeRate to a per-period rate
}

// DefaultConfig returns multiplier 3, cushion 0.8, a 3% risk-free rate and
// a start value of 1000, with monthly periods.
func DefaultConfig() Config {
	return Config{
		Multiplier:     3,
		CushionRatio:   0.8,
		RiskFreeRate:   0.03,
		StartValue:     1000,
		PeriodsPerYear: formulas.MonthsPerYear,
	}
}

// Validate checks the parameters.
func (c Config) Validate() error {
	if c.StartValue <= 0 {
		return fmt.Errorf("start value must be positive, got %g", c.StartValue)
	}
	if c.CushionRatio < 0 || c.CushionRatio > 1 {
		return fmt.Errorf("cushion ratio must be within [0,1], got %g", c.CushionRatio)
	}
	if c.Multiplier < 0 {
		return fmt.Errorf("multiplier must not be negative, got %g", c.Multiplier)
	}
	if c.Drawdown != nil && (*c.Drawdown <= 0 || *c.Drawdown >= 1) {
		return fmt.Errorf("drawdown must be within (0,1), got %g", *c.Drawdown)
	}
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("periods per year must be positive, got %d", c.PeriodsPerYear)
	}
	return nil
}
