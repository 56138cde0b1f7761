package simulator

import (
	"gonum.org/v1/gonum/floats"
)

// Strategy chooses the weights for the next period from the weights just
// held, the account value after the period and the period's asset returns.
// The returned slice must not alias current.
type Strategy interface {
	Rebalance(current []float64, accountValue float64, assetReturns []float64) []float64
}

// Strategy names accepted by NewStrategy.
const (
	StrategyRebalance = "rebalance"
	StrategyDrift     = "drift"
)

// FixedWeights rebalances back to the same weights every period.
type FixedWeights struct {
	Weights []float64
}

// Rebalance implements Strategy.
func (s FixedWeights) Rebalance(_ []float64, _ float64, _ []float64) []float64 {
	return append([]float64(nil), s.Weights...)
}

// Drift never trades: each weight grows with its asset's return,
//
//	w'_i = w_i (1 + r_i) / Σ_j w_j (1 + r_j)
type Drift struct{}

// Rebalance implements Strategy.
func (Drift) Rebalance(current []float64, _ float64, assetReturns []float64) []float64 {
	next := make([]float64, len(current))
	for i, w := range current {
		next[i] = w * (1 + assetReturns[i])
	}
	if total := floats.Sum(next); total != 0 {
		floats.Scale(1/total, next)
	}
	return next
}
