package optimization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/fintools/internal/timeseries"
)

// CovarianceEstimator turns a return table into a covariance matrix
// aligned to the table's columns.
type CovarianceEstimator interface {
	Estimate(returns *timeseries.Frame) (*mat.SymDense, error)
}

// SampleCovariance is the unbiased (N-1) sample covariance.
type SampleCovariance struct{}

// Estimate implements CovarianceEstimator.
func (SampleCovariance) Estimate(returns *timeseries.Frame) (*mat.SymDense, error) {
	if returns.Rows() < 2 {
		return nil, fmt.Errorf("insufficient data: need at least 2 observations, got %d: %w", returns.Rows(), timeseries.ErrEmptyFrame)
	}
	cov := mat.NewSymDense(returns.Cols(), nil)
	stat.CovarianceMatrix(cov, returns.Matrix(), nil)
	return cov, nil
}

// ConstantCorrelation is the Elton/Gruber estimator: every pair shares the
// mean sample correlation, scaled by the sample volatilities.
type ConstantCorrelation struct{}

// Estimate implements CovarianceEstimator.
func (ConstantCorrelation) Estimate(returns *timeseries.Frame) (*mat.SymDense, error) {
	sample, err := SampleCovariance{}.Estimate(returns)
	if err != nil {
		return nil, err
	}
	n := sample.SymmetricDim()

	sd := make([]float64, n)
	for i := range sd {
		sd[i] = math.Sqrt(sample.At(i, i))
	}

	var rhoBar float64
	if n > 1 {
		var sum float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if sd[i] > 0 && sd[j] > 0 {
					sum += sample.At(i, j) / (sd[i] * sd[j])
				}
			}
		}
		rhoBar = sum / float64(n*(n-1)/2)
	}

	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			rho := rhoBar
			if i == j {
				rho = 1
			}
			cov.SetSym(i, j, rho*sd[i]*sd[j])
		}
	}
	return cov, nil
}

// LedoitWolf shrinks the sample covariance towards a constant-covariance
// target (average variance on the diagonal, average covariance off it).
// A nil Shrinkage estimates the intensity from the data.
type LedoitWolf struct {
	Shrinkage *float64
}

// DefaultShrinkage is used when the intensity cannot be estimated.
const DefaultShrinkage = 0.2

// Estimate implements CovarianceEstimator.
func (lw LedoitWolf) Estimate(returns *timeseries.Frame) (*mat.SymDense, error) {
	sample, err := SampleCovariance{}.Estimate(returns)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate sample covariance: %w", err)
	}
	n := sample.SymmetricDim()

	var avgVar, avgCov float64
	for i := 0; i < n; i++ {
		avgVar += sample.At(i, i)
		for j := 0; j < n; j++ {
			if i != j {
				avgCov += sample.At(i, j)
			}
		}
	}
	avgVar /= float64(n)
	if n > 1 {
		avgCov /= float64(n * (n - 1))
	}

	target := func(i, j int) float64 {
		if i == j {
			return avgVar
		}
		return avgCov
	}

	shrinkage := DefaultShrinkage
	if lw.Shrinkage != nil {
		shrinkage = *lw.Shrinkage
	} else if n > 2 && avgVar > 0 {
		// Dispersion of the sample entries against their distance to the target.
		var sumSqDiff, sum, sumSq float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v := sample.At(i, j)
				d := v - target(i, j)
				sumSqDiff += d * d
				sum += v
				sumSq += v * v
			}
		}
		count := float64(n * n)
		meanSqDiff := sumSqDiff / count
		mean := sum / count
		varSample := sumSq/count - mean*mean
		if varSample > 0 && meanSqDiff > 0 {
			shrinkage = math.Min(0.5, math.Max(0, varSample/(varSample+meanSqDiff)))
		}
	}
	if shrinkage < 0 || shrinkage > 1 {
		return nil, fmt.Errorf("shrinkage %.4f outside [0,1]", shrinkage)
	}

	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cov.SetSym(i, j, (1-shrinkage)*sample.At(i, j)+shrinkage*target(i, j))
		}
	}
	return cov, nil
}
