package allocation

import (
	"fmt"

	"github.com/aristath/fintools/internal/modules/optimization"
	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// MinimumVariance holds the global minimum-variance portfolio of the
// covariance estimated on the window.
type MinimumVariance struct {
	Estimator optimization.CovarianceEstimator
	Optimizer *optimization.Optimizer
}

// DeriveWeights implements Scheme.
func (s *MinimumVariance) DeriveWeights(window *timeseries.Frame) (portfolio.Weights, error) {
	cov, err := s.Estimator.Estimate(window)
	if err != nil {
		return portfolio.Weights{}, fmt.Errorf("minimum variance: %w", err)
	}
	res, err := s.Optimizer.GlobalMinimumVariance(cov)
	if err != nil {
		return portfolio.Weights{}, fmt.Errorf("minimum variance: %w", err)
	}
	return res.Labeled(window.Columns())
}
