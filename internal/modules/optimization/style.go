package optimization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

// TrackingError is the root of the summed squared differences between two
// return series.
func TrackingError(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("tracking error: %d vs %d observations: %w", len(a), len(b), portfolio.ErrDimensionMismatch)
	}
	return floats.Distance(a, b, 2), nil
}

// PortfolioTrackingError is the tracking error between a reference series
// and the portfolio of building blocks held at the given weights.
func PortfolioTrackingError(weights, reference []float64, blocks *timeseries.Frame) (float64, error) {
	replica, err := portfolio.Returns(weights, blocks)
	if err != nil {
		return 0, fmt.Errorf("portfolio tracking error: %w", err)
	}
	return TrackingError(reference, replica.Values)
}

// StyleAnalysis explains a return series as a long-only, fully invested
// mix of the explanatory columns (Sharpe's return-based style analysis).
// The weights minimize the tracking error between the dependent series and
// the weighted explanatory returns. Objective is that tracking error.
func (o *Optimizer) StyleAnalysis(dependent []float64, explanatory *timeseries.Frame) (*Result, error) {
	rows, k := explanatory.Dims()
	if len(dependent) != rows {
		return nil, fmt.Errorf("style analysis: %d dependent returns for %d explanatory rows: %w", len(dependent), rows, portfolio.ErrDimensionMismatch)
	}
	if rows == 0 {
		return nil, fmt.Errorf("style analysis: %w", timeseries.ErrEmptyFrame)
	}

	x := explanatory.Matrix()
	y := mat.NewVecDense(rows, dependent)
	resid := mat.NewVecDense(rows, nil)

	residual := func(w []float64) *mat.VecDense {
		resid.MulVec(x, mat.NewVecDense(k, w))
		resid.SubVec(y, resid)
		return resid
	}

	p := problem{
		n: k,
		objective: func(w []float64) float64 {
			r := residual(w)
			return mat.Dot(r, r)
		},
		gradient: func(grad, w []float64) {
			r := residual(w)
			g := mat.NewVecDense(k, grad)
			g.MulVec(x.T(), r)
			g.ScaleVec(-2, g)
		},
	}

	res := solve(p, o.opts, o.log.With().Str("method", "style_analysis").Logger())
	res.Objective = math.Sqrt(p.objective(res.Weights))

	o.log.Debug().
		Strs("styles", explanatory.Columns()).
		Float64("tracking_error", res.Objective).
		Bool("success", res.Success).
		Msg("Style analysis complete")

	return res, nil
}
