package allocation

import (
	"fmt"
	"math"

	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// EqualWeighted gives every asset 1/N. With reference cap weights it can
// drop microcaps and cap each weight at a multiple of its cap weight. The
// cap weights are read at the first timestamp of the window.
type EqualWeighted struct {
	CapWeights *timeseries.Frame

	// MicrocapThreshold zeroes assets whose cap weight is below it. 0 disables.
	MicrocapThreshold float64
	// MaxCapWeightMultiplier limits each weight to cap weight × multiplier. 0 disables.
	MaxCapWeightMultiplier float64
}

// DeriveWeights implements Scheme.
func (s *EqualWeighted) DeriveWeights(window *timeseries.Frame) (portfolio.Weights, error) {
	columns := window.Columns()
	if len(columns) == 0 {
		return portfolio.Weights{}, fmt.Errorf("equal weighted: %w", timeseries.ErrEmptyFrame)
	}
	w := portfolio.EqualWeights(columns)

	if s.CapWeights == nil || (s.MicrocapThreshold <= 0 && s.MaxCapWeightMultiplier <= 0) {
		return w, nil
	}
	if window.Rows() == 0 {
		return portfolio.Weights{}, fmt.Errorf("equal weighted: %w", timeseries.ErrEmptyFrame)
	}

	cw, err := capWeightsAt(s.CapWeights, window.Time(0), columns)
	if err != nil {
		return portfolio.Weights{}, fmt.Errorf("equal weighted: %w", err)
	}

	// Microcaps are removed first, then the survivors are capped.
	if s.MicrocapThreshold > 0 {
		for i, c := range cw {
			if c < s.MicrocapThreshold {
				w.Values[i] = 0
			}
		}
		if err := normalize(w.Values); err != nil {
			return portfolio.Weights{}, fmt.Errorf("equal weighted: microcap threshold %g: %w", s.MicrocapThreshold, err)
		}
	}
	if s.MaxCapWeightMultiplier > 0 {
		for i, c := range cw {
			w.Values[i] = math.Min(w.Values[i], c*s.MaxCapWeightMultiplier)
		}
		if err := normalize(w.Values); err != nil {
			return portfolio.Weights{}, fmt.Errorf("equal weighted: cap multiplier %g: %w", s.MaxCapWeightMultiplier, err)
		}
	}

	return w, nil
}
