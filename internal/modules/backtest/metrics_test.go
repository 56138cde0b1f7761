package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fintools/pkg/formulas"
)

func TestCollectMetrics(t *testing.T) {
	returns := returnsFrame(t, [][]float64{
		{0.02, 0},
		{-0.01, 0},
		{0.03, 0},
		{0.00, 0},
		{-0.05, 0},
		{0.04, 0},
	})

	metrics := CollectMetrics(returns, 0.03, formulas.MonthsPerYear)
	require.Len(t, metrics, 2)

	a := metrics[0]
	col := returns.Column(0)
	assert.Equal(t, "A", a.Name)
	assert.InDelta(t, formulas.CompoundReturn(col), a.CompoundReturn, 1e-15)
	assert.InDelta(t, formulas.AnnualizeReturns(col, 12), a.AnnualizedReturn, 1e-15)
	assert.InDelta(t, formulas.AnnualizeVolatility(col, 12), a.AnnualizedVol, 1e-15)
	assert.InDelta(t, formulas.HistoricVaR(col, 5), a.HistoricVaR, 1e-15)
	require.NotNil(t, a.SharpeRatio)

	// Peak 1.02*0.99*1.03 = 1.040094, trough after the -5% month
	assert.InDelta(t, -0.05, a.MaxDrawdown, 1e-12)
	assert.Equal(t, returns.Time(4).Format("2006-01-02"), a.MaxDrawdownDate)

	flat := metrics[1]
	assert.Nil(t, flat.SharpeRatio)
	assert.Equal(t, 0.0, flat.MaxDrawdown)
}
