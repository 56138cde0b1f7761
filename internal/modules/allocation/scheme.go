// Package allocation derives portfolio weights from a window of historical
// returns. Each weighting policy is a Scheme.
package allocation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fintools/internal/modules/optimization"
	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// ErrEmptyAllocation is returned when filtering leaves nothing to weight.
var ErrEmptyAllocation = errors.New("allocation has no positive weight")

// Scheme derives one weight vector covering every column of a return
// window. The weights sum to 1. Implementations must not keep state
// between calls.
type Scheme interface {
	DeriveWeights(window *timeseries.Frame) (portfolio.Weights, error)
}

// Scheme names accepted by NewScheme.
const (
	SchemeEqualWeighted   = "ew"
	SchemeCapWeighted     = "cw"
	SchemeMinimumVariance = "gmv"
	SchemeRiskParity      = "hrp"
)

// SchemeConfig carries the parameters of every scheme; each scheme reads
// the fields it needs.
type SchemeConfig struct {
	CapWeights             *timeseries.Frame
	MicrocapThreshold      float64
	MaxCapWeightMultiplier float64
	Estimator              optimization.CovarianceEstimator
	Optimizer              *optimization.Optimizer
	Linkage                optimization.Linkage // hrp only, default single
}

// NewScheme selects a scheme by name.
func NewScheme(name string, cfg SchemeConfig) (Scheme, error) {
	switch name {
	case SchemeEqualWeighted:
		return &EqualWeighted{
			CapWeights:             cfg.CapWeights,
			MicrocapThreshold:      cfg.MicrocapThreshold,
			MaxCapWeightMultiplier: cfg.MaxCapWeightMultiplier,
		}, nil
	case SchemeCapWeighted:
		if cfg.CapWeights == nil {
			return nil, fmt.Errorf("scheme %q requires cap weights", name)
		}
		return &CapWeighted{CapWeights: cfg.CapWeights}, nil
	case SchemeMinimumVariance:
		opt := cfg.Optimizer
		if opt == nil {
			opt = optimization.NewOptimizer(optimization.Options{}, zerolog.Nop())
		}
		est := cfg.Estimator
		if est == nil {
			est = optimization.SampleCovariance{}
		}
		return &MinimumVariance{Estimator: est, Optimizer: opt}, nil
	case SchemeRiskParity:
		est := cfg.Estimator
		if est == nil {
			est = optimization.SampleCovariance{}
		}
		linkage := cfg.Linkage
		if linkage == "" {
			linkage = optimization.SingleLinkage
		}
		return &RiskParity{Estimator: est, Linkage: linkage}, nil
	default:
		return nil, fmt.Errorf("unknown allocation scheme: %s", name)
	}
}

// capWeightsAt returns the reference cap weights at timestamp t for the
// given columns, in column order.
func capWeightsAt(caps *timeseries.Frame, t time.Time, columns []string) ([]float64, error) {
	row, err := caps.RowOf(t)
	if err != nil {
		return nil, fmt.Errorf("cap weights: %w", err)
	}
	cw := make([]float64, len(columns))
	for i, name := range columns {
		j, ok := caps.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("cap weights %q: %w", name, timeseries.ErrUnknownColumn)
		}
		cw[i] = caps.At(row, j)
	}
	return cw, nil
}

// normalize scales values in place to sum to 1.
func normalize(values []float64) error {
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum <= 0 {
		return ErrEmptyAllocation
	}
	for i := range values {
		values[i] /= sum
	}
	return nil
}
