package cppi

import (
	"fmt"

	"github.com/aristath/fintools/internal/modules/assetmodel"
)

// MonteCarlo runs the strategy over GBM-generated risky returns, one
// column per scenario. The scenario model always produces returns.
func (s *Simulator) MonteCarlo(scenarios assetmodel.Config) (*History, error) {
	scenarios.Prices = false
	scenarios.StepsPerYear = s.cfg.PeriodsPerYear

	returns, err := assetmodel.GeometricBrownianMotion(scenarios)
	if err != nil {
		return nil, fmt.Errorf("cppi monte carlo: %w", err)
	}
	s.log.Debug().
		Int("scenarios", scenarios.Scenarios).
		Float64("mu", scenarios.Mu).
		Float64("sigma", scenarios.Sigma).
		Msg("Generated risky scenarios")

	return s.Run(returns)
}
