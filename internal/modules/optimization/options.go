package optimization

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"

	"github.com/aristath/fintools/internal/modules/portfolio"
)

// Solver defaults.
const (
	DefaultConstraintTolerance = 1e-8
	DefaultMaxIterations       = 1000
	DefaultOuterIterations     = 30
	DefaultPenalty             = 10.0
	maxPenalty                 = 1e10
)

// Options tunes the constrained solver. The zero value uses the defaults.
type Options struct {
	// Debug logs every solver iteration at debug level. It never changes
	// the returned weights.
	Debug bool

	ConstraintTolerance float64 // max |aᵀw - b| accepted as feasible
	MaxIterations       int     // major iterations per inner solve
	OuterIterations     int     // multiplier updates for equality constraints
	Penalty             float64 // initial augmented Lagrangian penalty
}

func (o Options) withDefaults() Options {
	if o.ConstraintTolerance <= 0 {
		o.ConstraintTolerance = DefaultConstraintTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.OuterIterations <= 0 {
		o.OuterIterations = DefaultOuterIterations
	}
	if o.Penalty <= 0 {
		o.Penalty = DefaultPenalty
	}
	return o
}

// Result is the converged point of an optimization together with the
// solver's own report. Weights are returned even when Success is false;
// callers needing a feasible answer must check Success.
type Result struct {
	Weights []float64
	// Objective is the reported figure at Weights: volatility, Sharpe
	// ratio or tracking error depending on the optimizer.
	Objective float64

	Status          optimize.Status
	Success         bool
	MaxViolation    float64 // largest equality-constraint residual
	Iterations      int
	FuncEvaluations int
}

// Labeled attaches asset symbols to the weights.
func (r *Result) Labeled(symbols []string) (portfolio.Weights, error) {
	if len(symbols) != len(r.Weights) {
		return portfolio.Weights{}, fmt.Errorf("%d symbols for %d weights: %w", len(symbols), len(r.Weights), portfolio.ErrDimensionMismatch)
	}
	return portfolio.NewWeights(symbols, r.Weights)
}
