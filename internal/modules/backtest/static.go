package backtest

import (
	"fmt"

	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// BuyAndHold invests the weights once and lets each position compound on
// its own. Period 0 returns wᵀr₀; later periods are the percentage change
// of the summed position values.
func BuyAndHold(weights []float64, returns *timeseries.Frame) (*timeseries.Series, error) {
	n, cols := returns.Dims()
	if len(weights) != cols {
		return nil, fmt.Errorf("buy and hold: %d weights for %d columns: %w", len(weights), cols, portfolio.ErrDimensionMismatch)
	}

	positions := append([]float64(nil), weights...)
	values := make([]float64, n)
	prev := 0.0
	for _, w := range weights {
		prev += w
	}
	for i := 0; i < n; i++ {
		var total float64
		for j := range positions {
			positions[j] *= 1 + returns.At(i, j)
			total += positions[j]
		}
		if prev != 0 {
			values[i] = total/prev - 1
		}
		prev = total
	}

	return &timeseries.Series{Name: "buy_and_hold", Index: returns.Index(), Values: values}, nil
}

// Rebalanced resets to the weights every period, so each period returns wᵀr_t.
func Rebalanced(weights []float64, returns *timeseries.Frame) (*timeseries.Series, error) {
	s, err := portfolio.Returns(weights, returns)
	if err != nil {
		return nil, fmt.Errorf("rebalanced: %w", err)
	}
	s.Name = "rebalanced"
	return s, nil
}

// FinalWealth compounds returns onto an initial investment.
func FinalWealth(returns []float64, initial float64) float64 {
	wealth := initial
	for _, r := range returns {
		wealth *= 1 + r
	}
	return wealth
}
