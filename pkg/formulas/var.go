package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Percentile returns the q-th percentile (0..100) using linear interpolation
// between closest ranks, the numpy default.
func Percentile(data []float64, q float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	pos := q / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower < 0 {
		return sorted[0]
	}
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// HistoricVaR calculates historic Value at Risk at the given percentile
// level (5 = 5%). The loss is reported as a positive number.
func HistoricVaR(returns []float64, level float64) float64 {
	return -Percentile(returns, level)
}

// ParametricVaR calculates Value at Risk assuming normally distributed returns.
// When modified is true the z-score is adjusted with the Cornish-Fisher
// expansion using the observed skewness and excess kurtosis.
//
// Args:
//   - returns: Periodic returns
//   - level: Percentile level (5 = 5%)
//   - modified: Apply the Cornish-Fisher correction
//
// Returns:
//   - VaR as a positive loss
func ParametricVaR(returns []float64, level float64, modified bool) float64 {
	if len(returns) == 0 {
		return 0
	}
	z := distuv.UnitNormal.Quantile(level / 100)
	if modified {
		s, _ := populationMoments(returns)
		k := ExcessKurtosis(returns)
		z += (z*z-1)*s/6 +
			(z*z*z-3*z)*k/24 -
			(2*z*z*z-5*z)*s*s/36
	}
	return -(Mean(returns) + z*PopStdDev(returns))
}

// CornishFisherVaR is ParametricVaR with the Cornish-Fisher correction.
func CornishFisherVaR(returns []float64, level float64) float64 {
	return ParametricVaR(returns, level, true)
}

// GaussianVaR is ParametricVaR without the Cornish-Fisher correction.
func GaussianVaR(returns []float64, level float64) float64 {
	return ParametricVaR(returns, level, false)
}

// ConditionalVaR calculates the expected loss beyond the historic VaR
// (Expected Shortfall), reported as a positive number.
func ConditionalVaR(returns []float64, level float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	threshold := -HistoricVaR(returns, level)
	var sum float64
	count := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return -sum / float64(count)
}
