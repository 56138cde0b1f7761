package allocation

import (
	"fmt"

	"github.com/aristath/fintools/internal/modules/optimization"
	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// RiskParity holds the hierarchical risk parity portfolio of the
// covariance estimated on the window.
type RiskParity struct {
	Estimator optimization.CovarianceEstimator
	Linkage   optimization.Linkage
}

// DeriveWeights implements Scheme.
func (s *RiskParity) DeriveWeights(window *timeseries.Frame) (portfolio.Weights, error) {
	cov, err := s.Estimator.Estimate(window)
	if err != nil {
		return portfolio.Weights{}, fmt.Errorf("risk parity: %w", err)
	}
	w, err := optimization.HierarchicalRiskParity(cov, s.Linkage)
	if err != nil {
		return portfolio.Weights{}, fmt.Errorf("risk parity: %w", err)
	}
	return portfolio.NewWeights(window.Columns(), w)
}
