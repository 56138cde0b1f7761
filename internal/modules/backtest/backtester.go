// Package backtest compounds realized returns of allocation policies over
// historical data.
package backtest

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/fintools/internal/modules/allocation"
	"github.com/aristath/fintools/internal/timeseries"
)

// DefaultEstimationWindow is the number of periods each allocation sees.
const DefaultEstimationWindow = 60

// ErrInsufficientHistory is returned when the history is not longer than
// the estimation window.
var ErrInsufficientHistory = errors.New("insufficient history for estimation window")

// Backtester rolls an estimation window over a return history, derives
// weights from each window and applies them to the following period.
type Backtester struct {
	scheme allocation.Scheme
	window int
	log    zerolog.Logger
}

// NewBacktester creates a rolling-window backtester. A window of 0 uses
// DefaultEstimationWindow.
func NewBacktester(scheme allocation.Scheme, window int, log zerolog.Logger) *Backtester {
	if window <= 0 {
		window = DefaultEstimationWindow
	}
	return &Backtester{
		scheme: scheme,
		window: window,
		log:    log.With().Str("component", "backtester").Logger(),
	}
}

// Result is the out-of-sample outcome of a rolling backtest.
type Result struct {
	// Returns holds one portfolio return per period from the end of the
	// first window to the end of the history.
	Returns *timeseries.Series
	// Weights holds the weights applied in each of those periods.
	Weights *timeseries.Frame
}

// Run derives weights from rows [s, s+W) and realizes them on row s+W for
// every s in [0, n-W). Assets the scheme leaves out contribute zero.
func (b *Backtester) Run(returns *timeseries.Frame) (*Result, error) {
	n, cols := returns.Dims()
	if n <= b.window {
		return nil, fmt.Errorf("backtest: %d periods for window %d: %w", n, b.window, ErrInsufficientHistory)
	}
	columns := returns.Columns()

	periods := n - b.window
	realized := make([]float64, periods)
	applied := make([][]float64, periods)

	for start := 0; start < periods; start++ {
		window, err := returns.Slice(start, start+b.window)
		if err != nil {
			return nil, err
		}
		w, err := b.scheme.DeriveWeights(window)
		if err != nil {
			return nil, fmt.Errorf("backtest: window starting %s: %w", returns.Time(start).Format("2006-01-02"), err)
		}

		aligned := make([]float64, cols)
		for j, name := range columns {
			aligned[j] = w.Weight(name)
		}
		applied[start] = aligned
		realized[start] = floats.Dot(aligned, returns.Row(start+b.window))
	}

	index := returns.Index()[b.window:]
	weights, err := timeseries.NewFrame(index, columns, applied)
	if err != nil {
		return nil, err
	}

	b.log.Debug().
		Int("window", b.window).
		Int("periods", periods).
		Str("first", index[0].Format("2006-01-02")).
		Msg("Rolling backtest complete")

	return &Result{
		Returns: &timeseries.Series{Name: "portfolio", Index: index, Values: realized},
		Weights: weights,
	}, nil
}
