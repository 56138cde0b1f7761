package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (N-1 denominator)
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// PopStdDev calculates the population standard deviation (N denominator)
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.PopStdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// SemiDeviation is the population standard deviation of the negative returns.
func SemiDeviation(returns []float64) float64 {
	negatives := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	return PopStdDev(negatives)
}

// Skewness is the bias-adjusted sample skewness.
func Skewness(data []float64) float64 {
	if len(data) < 3 {
		return 0
	}
	return stat.Skew(data, nil)
}

// ExcessKurtosis is the bias-adjusted sample excess kurtosis.
func ExcessKurtosis(data []float64) float64 {
	if len(data) < 4 {
		return 0
	}
	return stat.ExKurtosis(data, nil)
}

// populationMoments returns the biased skewness and excess kurtosis
// (central moments divided by N).
func populationMoments(data []float64) (skew, exKurt float64) {
	n := float64(len(data))
	if n == 0 {
		return 0, 0
	}
	mean := stat.Mean(data, nil)
	var m2, m3, m4 float64
	for _, v := range data {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= n
	m3 /= n
	m4 /= n
	if m2 == 0 {
		return 0, 0
	}
	return m3 / math.Pow(m2, 1.5), m4/(m2*m2) - 3
}

// Correlation calculates the Pearson correlation coefficient between two datasets
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// Covariance calculates the covariance between two datasets
func Covariance(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}
