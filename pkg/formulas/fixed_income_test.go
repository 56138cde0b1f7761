package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountAndPresentValue(t *testing.T) {
	assert.InDelta(t, 0.7440939, Discount(0.03, 10), 1e-6)

	pv, err := PresentValue([]float64{100, 100}, []float64{0, 10}, 0.03)
	require.NoError(t, err)
	assert.InDelta(t, 174.40939, pv, 1e-4)

	_, err = PresentValue([]float64{100}, []float64{1, 2}, 0.03)
	assert.Error(t, err)
}

func TestFundingRatio(t *testing.T) {
	ratio, err := FundingRatio(100, []float64{100}, []float64{10}, 0.03)
	require.NoError(t, err)
	assert.InDelta(t, 1/0.7440939, ratio, 1e-5)

	_, err = FundingRatio(100, nil, nil, 0.03)
	assert.Error(t, err)
}

func TestFutureValue(t *testing.T) {
	assert.InDelta(t, 1628.8946, FutureValue(1000, 0.05, 10, 1, false), 1e-3)
	assert.InDelta(t, 1647.0095, FutureValue(1000, 0.05, 10, 12, false), 1e-3)
	assert.InDelta(t, 1648.7213, FutureValue(1000, 0.05, 10, 0, true), 1e-3)
	// Non-positive compounding falls back to annual
	assert.InDelta(t, 1628.8946, FutureValue(1000, 0.05, 10, 0, false), 1e-3)
}
