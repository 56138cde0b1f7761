package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualizedSharpeRatio(t *testing.T) {
	returns := []float64{0.02, -0.01, 0.03, 0.0}

	tests := []struct {
		name     string
		rf       float64
		expected float64
	}{
		{"no risk free rate", 0, 1.9790963},
		{"three percent risk free rate", 0.03, 1.4646156},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sharpe := AnnualizedSharpeRatio(returns, tt.rf, MonthsPerYear)
			require.NotNil(t, sharpe)
			assert.InDelta(t, tt.expected, *sharpe, 1e-6)
		})
	}
}

func TestAnnualizedSharpeRatio_Degenerate(t *testing.T) {
	assert.Nil(t, AnnualizedSharpeRatio([]float64{0.01}, 0.03, 12))
	assert.Nil(t, AnnualizedSharpeRatio([]float64{0, 0, 0}, 0.03, 12))
}
