// Package simulator steps an account through a return history while a
// pluggable strategy decides the weights for each period.
package simulator

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// Simulator runs period-by-period account simulations.
type Simulator struct {
	strategy Strategy
	log      zerolog.Logger
}

// NewSimulator creates a simulator. A nil strategy rebalances to the
// initial weights every period, the same as an explicit FixedWeights.
func NewSimulator(strategy Strategy, log zerolog.Logger) *Simulator {
	return &Simulator{
		strategy: strategy,
		log:      log.With().Str("component", "simulator").Logger(),
	}
}

// NewStrategy selects a strategy by name.
func NewStrategy(name string, initialWeights []float64) (Strategy, error) {
	switch name {
	case StrategyRebalance:
		return FixedWeights{Weights: append([]float64(nil), initialWeights...)}, nil
	case StrategyDrift:
		return Drift{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}

// Simulate holds initialWeights in the first period and lets the strategy
// choose every later period's weights. Each step records the portfolio
// return and the account value after it.
func (s *Simulator) Simulate(returns *timeseries.Frame, initialWeights []float64, startValue float64) (*Trace, error) {
	steps, cols := returns.Dims()
	if len(initialWeights) != cols {
		return nil, fmt.Errorf("simulate: %d weights for %d assets: %w", len(initialWeights), cols, portfolio.ErrDimensionMismatch)
	}

	strategy := s.strategy
	if strategy == nil {
		strategy = FixedWeights{Weights: append([]float64(nil), initialWeights...)}
		s.log.Debug().Msg("No strategy configured, rebalancing to initial weights")
	}

	trace := &Trace{
		index:   returns.Index(),
		returns: make([]float64, steps),
		values:  make([]float64, steps),
		weights: make([][]float64, steps),
	}

	weights := append([]float64(nil), initialWeights...)
	account := startValue
	for step := 0; step < steps; step++ {
		assetReturns := returns.Row(step)
		r := floats.Dot(weights, assetReturns)
		account *= 1 + r

		trace.returns[step] = r
		trace.values[step] = account
		trace.weights[step] = weights

		weights = strategy.Rebalance(weights, account, assetReturns)
		if len(weights) != cols {
			return nil, fmt.Errorf("simulate: strategy returned %d weights for %d assets at step %d: %w", len(weights), cols, step, portfolio.ErrDimensionMismatch)
		}
	}

	s.log.Debug().
		Int("steps", steps).
		Float64("start_value", startValue).
		Float64("final_value", account).
		Msg("Simulation complete")

	return trace, nil
}

// Trace is the record of one simulation.
type Trace struct {
	index   []time.Time
	returns []float64
	values  []float64
	weights [][]float64
}

// Len returns the number of steps.
func (t *Trace) Len() int { return len(t.returns) }

// Step returns the portfolio return and account value of a step.
func (t *Trace) Step(i int) (periodReturn, accountValue float64) {
	return t.returns[i], t.values[i]
}

// Weights returns a copy of the weights held during a step.
func (t *Trace) Weights(i int) []float64 {
	return append([]float64(nil), t.weights[i]...)
}

// Returns returns the portfolio return series.
func (t *Trace) Returns() *timeseries.Series {
	return &timeseries.Series{
		Name:   "return",
		Index:  append([]time.Time(nil), t.index...),
		Values: append([]float64(nil), t.returns...),
	}
}

// AccountValues returns the account value series.
func (t *Trace) AccountValues() *timeseries.Series {
	return &timeseries.Series{
		Name:   "account_value",
		Index:  append([]time.Time(nil), t.index...),
		Values: append([]float64(nil), t.values...),
	}
}

// FinalValue is the account value after the last step, or 0 for an empty trace.
func (t *Trace) FinalValue() float64 {
	if len(t.values) == 0 {
		return 0
	}
	return t.values[len(t.values)-1]
}
