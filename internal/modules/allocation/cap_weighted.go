package allocation

import (
	"fmt"

	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// CapWeighted weights assets in proportion to their reference cap weights.
//
// The cap weights are read at the second timestamp of the window, not the
// first. Results depend on this offset, so it is kept as is.
type CapWeighted struct {
	CapWeights *timeseries.Frame
}

// DeriveWeights implements Scheme.
func (s *CapWeighted) DeriveWeights(window *timeseries.Frame) (portfolio.Weights, error) {
	if window.Rows() < 2 {
		return portfolio.Weights{}, fmt.Errorf("cap weighted: need 2 rows, got %d: %w", window.Rows(), timeseries.ErrEmptyFrame)
	}
	columns := window.Columns()

	cw, err := capWeightsAt(s.CapWeights, window.Time(1), columns)
	if err != nil {
		return portfolio.Weights{}, fmt.Errorf("cap weighted: %w", err)
	}
	if err := normalize(cw); err != nil {
		return portfolio.Weights{}, fmt.Errorf("cap weighted: %w", err)
	}

	return portfolio.Weights{Symbols: columns, Values: cw}, nil
}
