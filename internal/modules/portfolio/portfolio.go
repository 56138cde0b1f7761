// Package portfolio computes portfolio return and volatility from weight
// vectors, return tables and covariance matrices.
package portfolio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/fintools/internal/timeseries"
)

// ErrDimensionMismatch is returned when weight, return and covariance
// dimensions disagree.
var ErrDimensionMismatch = timeseries.ErrDimensionMismatch

// Return is the dot product of weights and one period of returns.
// Weights are used as given, without normalization.
func Return(weights, returns []float64) (float64, error) {
	if len(weights) != len(returns) {
		return 0, fmt.Errorf("portfolio return: %d weights for %d returns: %w", len(weights), len(returns), ErrDimensionMismatch)
	}
	return floats.Dot(weights, returns), nil
}

// Returns computes one portfolio return per row of a return table.
func Returns(weights []float64, returns *timeseries.Frame) (*timeseries.Series, error) {
	if len(weights) != returns.Cols() {
		return nil, fmt.Errorf("portfolio returns: %d weights for %d columns: %w", len(weights), returns.Cols(), ErrDimensionMismatch)
	}

	values := make([]float64, returns.Rows())
	if m := returns.Matrix(); m != nil {
		out := mat.NewVecDense(len(values), values)
		out.MulVec(m, mat.NewVecDense(len(weights), weights))
	}

	return &timeseries.Series{
		Name:   "portfolio",
		Index:  returns.Index(),
		Values: values,
	}, nil
}

// Variance computes wᵀΣw.
func Variance(weights []float64, cov mat.Symmetric) (float64, error) {
	if n := cov.SymmetricDim(); n != len(weights) {
		return 0, fmt.Errorf("portfolio variance: %d weights for %dx%d covariance: %w", len(weights), n, n, ErrDimensionMismatch)
	}
	w := mat.NewVecDense(len(weights), weights)
	return mat.Inner(w, cov, w), nil
}

// Volatility computes sqrt(wᵀΣw).
func Volatility(weights []float64, cov mat.Symmetric) (float64, error) {
	v, err := Variance(weights, cov)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}
