package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateReturns(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		expected []float64
	}{
		{"empty", nil, []float64{}},
		{"single price", []float64{100}, []float64{}},
		{"up and down", []float64{100, 110, 99}, []float64{0.1, -0.1}},
		{"zero price is skipped", []float64{0, 10, 20}, []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateReturns(tt.prices)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.InDelta(t, tt.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestCompoundReturnAndWealthIndex(t *testing.T) {
	returns := []float64{0.1, -0.1}

	assert.InDelta(t, -0.01, CompoundReturn(returns), 1e-12)
	assert.Equal(t, 0.0, CompoundReturn(nil))

	wealth := WealthIndex(returns, 100)
	require.Len(t, wealth, 2)
	assert.InDelta(t, 110.0, wealth[0], 1e-9)
	assert.InDelta(t, 99.0, wealth[1], 1e-9)
}

func TestAnnualizeReturns(t *testing.T) {
	monthly := make([]float64, 12)
	for i := range monthly {
		monthly[i] = 0.01
	}
	assert.InDelta(t, math.Pow(1.01, 12)-1, AnnualizeReturns(monthly, MonthsPerYear), 1e-12)

	// Two years of data annualize to the geometric yearly rate
	twoYears := append(append([]float64{}, monthly...), monthly...)
	assert.InDelta(t, math.Pow(1.01, 12)-1, AnnualizeReturns(twoYears, MonthsPerYear), 1e-12)

	assert.Equal(t, 0.0, AnnualizeReturns(nil, MonthsPerYear))
}

func TestAnnualizedReturnVariants(t *testing.T) {
	assert.InDelta(t, math.Pow(1.01, 12)-1, AnnualizedMonthlyReturn(0.01), 1e-12)
	assert.InDelta(t, math.Pow(1.02, 4)-1, AnnualizedQuarterlyReturn(0.02), 1e-12)
	assert.InDelta(t, math.Pow(1.001, 252)-1, AnnualizedDailyReturn(0.001), 1e-12)
}

func TestAnnualizeVolatility(t *testing.T) {
	returns := []float64{0.01, 0.03}
	// Sample std = sqrt(0.0002) = 0.0141421
	assert.InDelta(t, math.Sqrt(0.0002)*math.Sqrt(12), AnnualizeVolatility(returns, 12), 1e-12)
	assert.Equal(t, 0.0, AnnualizeVolatility([]float64{0.01}, 12))
}
