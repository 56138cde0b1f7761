// Package optimization solves long-only, fully invested portfolio problems:
// minimum volatility at a target return, maximum Sharpe ratio, the global
// minimum-variance portfolio and return-based style analysis.
package optimization

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/fintools/internal/modules/portfolio"
)

// Optimizer runs the constrained optimizations.
type Optimizer struct {
	opts Options
	log  zerolog.Logger
}

// NewOptimizer creates a new optimizer.
func NewOptimizer(opts Options, log zerolog.Logger) *Optimizer {
	return &Optimizer{
		opts: opts,
		log:  log.With().Str("component", "optimizer").Logger(),
	}
}

// MinimizeVolatility finds the weights with the lowest volatility whose
// expected return equals targetReturn.
//
// Mathematical formulation:
//   - minimize w'Σw
//   - μ'w = target_return
//   - Σw = 1, 0 ≤ w_i ≤ 1
//
// A target outside [min μ, max μ] cannot be met; the solver still returns
// its best point with Success false.
func (o *Optimizer) MinimizeVolatility(targetReturn float64, expectedReturns []float64, cov mat.Symmetric) (*Result, error) {
	n, err := checkDims(expectedReturns, cov)
	if err != nil {
		return nil, fmt.Errorf("minimize volatility: %w", err)
	}

	p := problem{
		n:         n,
		objective: varianceObjective(cov),
		gradient:  varianceGradient(cov),
		equalities: []linearEquality{
			{name: "target_return", a: expectedReturns, b: targetReturn},
		},
	}

	res := solve(p, o.opts, o.log.With().Str("method", "min_volatility").Logger())
	res.Objective, _ = portfolio.Volatility(res.Weights, cov)

	o.log.Debug().
		Float64("target_return", targetReturn).
		Float64("volatility", res.Objective).
		Bool("success", res.Success).
		Msg("Minimized volatility")

	return res, nil
}

// MaximizeSharpeRatio finds the tangency portfolio, the weights maximizing
// (μ'w - r_f) / sqrt(w'Σw). When targetReturn is set, μ'w is additionally
// pinned to it. Objective in the result is the Sharpe ratio.
func (o *Optimizer) MaximizeSharpeRatio(riskFreeRate float64, expectedReturns []float64, cov mat.Symmetric, targetReturn *float64) (*Result, error) {
	n, err := checkDims(expectedReturns, cov)
	if err != nil {
		return nil, fmt.Errorf("maximize sharpe ratio: %w", err)
	}

	p := problem{
		n:         n,
		objective: negativeSharpeObjective(riskFreeRate, expectedReturns, cov),
		gradient:  negativeSharpeGradient(riskFreeRate, expectedReturns, cov),
	}
	if targetReturn != nil {
		p.equalities = []linearEquality{
			{name: "target_return", a: expectedReturns, b: *targetReturn},
		}
	}

	res := solve(p, o.opts, o.log.With().Str("method", "max_sharpe").Logger())
	res.Objective = -p.objective(res.Weights)

	o.log.Debug().
		Float64("risk_free_rate", riskFreeRate).
		Float64("sharpe", res.Objective).
		Bool("success", res.Success).
		Msg("Maximized Sharpe ratio")

	return res, nil
}

// GlobalMinimumVariance returns the minimum-variance portfolio. It is the
// maximum Sharpe portfolio when every asset has the same expected return,
// which leaves only the volatility term. Objective is the volatility.
func (o *Optimizer) GlobalMinimumVariance(cov mat.Symmetric) (*Result, error) {
	n := cov.SymmetricDim()
	ones := make([]float64, n)
	floats.AddConst(1, ones)

	res, err := o.MaximizeSharpeRatio(0, ones, cov, nil)
	if err != nil {
		return nil, fmt.Errorf("global minimum variance: %w", err)
	}
	res.Objective, _ = portfolio.Volatility(res.Weights, cov)
	return res, nil
}

func checkDims(expectedReturns []float64, cov mat.Symmetric) (int, error) {
	n := cov.SymmetricDim()
	if len(expectedReturns) != n {
		return 0, fmt.Errorf("%d expected returns for %dx%d covariance: %w", len(expectedReturns), n, n, portfolio.ErrDimensionMismatch)
	}
	if n == 0 {
		return 0, fmt.Errorf("no assets: %w", portfolio.ErrDimensionMismatch)
	}
	return n, nil
}

func varianceObjective(cov mat.Symmetric) func(w []float64) float64 {
	return func(w []float64) float64 {
		v := mat.NewVecDense(len(w), w)
		return mat.Inner(v, cov, v)
	}
}

func varianceGradient(cov mat.Symmetric) func(grad, w []float64) {
	return func(grad, w []float64) {
		g := mat.NewVecDense(len(grad), grad)
		g.MulVec(cov, mat.NewVecDense(len(w), w))
		g.ScaleVec(2, g)
	}
}

// minVariance keeps the Sharpe ratio finite for degenerate weights.
const minVariance = 1e-20

func negativeSharpeObjective(rf float64, mu []float64, cov mat.Symmetric) func(w []float64) float64 {
	variance := varianceObjective(cov)
	return func(w []float64) float64 {
		sigma := math.Sqrt(math.Max(variance(w), minVariance))
		return -(floats.Dot(mu, w) - rf) / sigma
	}
}

// Gradient of -(μ'w - r_f)/σ is -(μ/σ - (μ'w - r_f) Σw / σ³).
func negativeSharpeGradient(rf float64, mu []float64, cov mat.Symmetric) func(grad, w []float64) {
	return func(grad, w []float64) {
		sw := mat.NewVecDense(len(grad), grad)
		sw.MulVec(cov, mat.NewVecDense(len(w), w))
		variance := math.Max(floats.Dot(w, grad), minVariance)
		sigma := math.Sqrt(variance)
		excess := floats.Dot(mu, w) - rf
		for i := range grad {
			grad[i] = -(mu[i]/sigma - excess*grad[i]/(variance*sigma))
		}
	}
}
