package optimization

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FrontierPoint is one minimum-volatility portfolio on the efficient frontier.
type FrontierPoint struct {
	Return     float64
	Volatility float64
	Weights    []float64
	Success    bool
}

// EfficientFrontier sweeps points target returns evenly spaced between the
// lowest and highest expected return and minimizes volatility at each.
func (o *Optimizer) EfficientFrontier(points int, expectedReturns []float64, cov mat.Symmetric) ([]FrontierPoint, error) {
	if points < 2 {
		return nil, fmt.Errorf("efficient frontier: need at least 2 points, got %d", points)
	}
	if _, err := checkDims(expectedReturns, cov); err != nil {
		return nil, fmt.Errorf("efficient frontier: %w", err)
	}

	targets := floats.Span(make([]float64, points), floats.Min(expectedReturns), floats.Max(expectedReturns))

	frontier := make([]FrontierPoint, len(targets))
	for i, target := range targets {
		res, err := o.MinimizeVolatility(target, expectedReturns, cov)
		if err != nil {
			return nil, err
		}
		frontier[i] = FrontierPoint{
			Return:     floats.Dot(expectedReturns, res.Weights),
			Volatility: res.Objective,
			Weights:    res.Weights,
			Success:    res.Success,
		}
	}

	o.log.Debug().Int("points", points).Msg("Efficient frontier computed")
	return frontier, nil
}
