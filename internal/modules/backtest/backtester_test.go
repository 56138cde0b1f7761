package backtest

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fintools/internal/modules/allocation"
	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
)

var start = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

func returnsFrame(t *testing.T, rows [][]float64) *timeseries.Frame {
	t.Helper()
	f, err := timeseries.NewFrame(timeseries.MonthlyIndex(start, len(rows)), []string{"A", "B"}, rows)
	require.NoError(t, err)
	return f
}

// spyScheme puts everything in A and records the windows it sees.
type spyScheme struct {
	firsts []time.Time
	sizes  []int
}

func (s *spyScheme) DeriveWeights(window *timeseries.Frame) (portfolio.Weights, error) {
	s.firsts = append(s.firsts, window.Time(0))
	s.sizes = append(s.sizes, window.Rows())
	return portfolio.NewWeights([]string{"A"}, []float64{1})
}

type failingScheme struct{}

func (failingScheme) DeriveWeights(*timeseries.Frame) (portfolio.Weights, error) {
	return portfolio.Weights{}, allocation.ErrEmptyAllocation
}

func TestBacktester_EqualWeighted(t *testing.T) {
	returns := returnsFrame(t, [][]float64{
		{0.01, 0.02},
		{0.03, -0.01},
		{0.00, 0.00},
		{0.04, 0.02},
		{-0.02, 0.06},
	})

	bt := NewBacktester(&allocation.EqualWeighted{}, 3, zerolog.Nop())
	res, err := bt.Run(returns)
	require.NoError(t, err)

	require.Equal(t, 2, res.Returns.Len())
	assert.InDeltaSlice(t, []float64{0.03, 0.02}, res.Returns.Values, 1e-12)
	assert.Equal(t, returns.Time(3), res.Returns.Index[0])
	assert.Equal(t, returns.Time(4), res.Returns.Index[1])
	assert.Equal(t, []float64{0.5, 0.5}, res.Weights.Row(0))
}

func TestBacktester_OutOfSampleAlignment(t *testing.T) {
	returns := returnsFrame(t, [][]float64{
		{0.01, 0.5},
		{0.02, 0.5},
		{0.03, 0.5},
		{0.04, 0.5},
		{0.05, 0.5},
		{0.06, 0.5},
	})
	spy := &spyScheme{}

	res, err := NewBacktester(spy, 2, zerolog.Nop()).Run(returns)
	require.NoError(t, err)

	// Windows [0,2) [1,3) [2,4) [3,5) feed periods 2..5
	assert.Equal(t, []time.Time{returns.Time(0), returns.Time(1), returns.Time(2), returns.Time(3)}, spy.firsts)
	assert.Equal(t, []int{2, 2, 2, 2}, spy.sizes)

	// B is never weighted, so its 50% returns never show up
	assert.InDeltaSlice(t, []float64{0.03, 0.04, 0.05, 0.06}, res.Returns.Values, 1e-12)
	assert.Equal(t, []float64{1, 0}, res.Weights.Row(3))
}

func TestBacktester_InsufficientHistory(t *testing.T) {
	returns := returnsFrame(t, [][]float64{{0.01, 0.02}, {0.03, 0.04}})

	_, err := NewBacktester(&allocation.EqualWeighted{}, 2, zerolog.Nop()).Run(returns)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))

	// Zero window falls back to the 60-period default
	_, err = NewBacktester(&allocation.EqualWeighted{}, 0, zerolog.Nop()).Run(returns)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestBacktester_SchemeError(t *testing.T) {
	returns := returnsFrame(t, [][]float64{{0.01, 0.02}, {0.03, 0.04}, {0.0, 0.0}})

	_, err := NewBacktester(failingScheme{}, 1, zerolog.Nop()).Run(returns)
	assert.ErrorIs(t, err, allocation.ErrEmptyAllocation)
}
