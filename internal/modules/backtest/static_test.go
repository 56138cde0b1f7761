package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fintools/internal/modules/portfolio"
)

func trendAndFlat(t *testing.T) [][]float64 {
	t.Helper()
	rows := make([][]float64, 12)
	for i := range rows {
		rows[i] = []float64{0.10, 0}
	}
	return rows
}

func TestBuyAndHoldVersusRebalanced(t *testing.T) {
	returns := returnsFrame(t, trendAndFlat(t))
	weights := []float64{0.5, 0.5}

	bh, err := BuyAndHold(weights, returns)
	require.NoError(t, err)
	reb, err := Rebalanced(weights, returns)
	require.NoError(t, err)

	// Held positions compound separately
	assert.InDelta(t, 0.5*math.Pow(1.1, 12)+0.5, FinalWealth(bh.Values, 1), 1e-9)
	// Rebalancing earns the average every period
	assert.InDelta(t, math.Pow(1.05, 12), FinalWealth(reb.Values, 1), 1e-9)

	assert.InDelta(t, 0.05, bh.Values[0], 1e-12)
	assert.Greater(t, bh.Values[11], bh.Values[0])
	assert.Equal(t, returns.Index(), bh.Index)
}

func TestBuyAndHold_DimensionMismatch(t *testing.T) {
	returns := returnsFrame(t, trendAndFlat(t))

	_, err := BuyAndHold([]float64{1}, returns)
	assert.ErrorIs(t, err, portfolio.ErrDimensionMismatch)
	_, err = Rebalanced([]float64{1}, returns)
	assert.ErrorIs(t, err, portfolio.ErrDimensionMismatch)
}

func TestFinalWealth(t *testing.T) {
	assert.InDelta(t, 1000*1.1*0.9, FinalWealth([]float64{0.1, -0.1}, 1000), 1e-9)
	assert.Equal(t, 1000.0, FinalWealth(nil, 1000))
}
