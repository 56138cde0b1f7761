package optimization

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fintools/internal/timeseries"
)

func covarianceFixture(t *testing.T) *timeseries.Frame {
	t.Helper()
	rows := [][]float64{
		{0.01, 0.02, -0.01},
		{0.02, 0.01, 0.00},
		{-0.01, 0.00, 0.02},
		{0.03, 0.04, 0.01},
		{0.00, -0.02, 0.01},
	}
	index := timeseries.MonthlyIndex(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), len(rows))
	f, err := timeseries.NewFrame(index, []string{"A", "B", "C"}, rows)
	require.NoError(t, err)
	return f
}

func TestSampleCovariance(t *testing.T) {
	returns := covarianceFixture(t)

	cov, err := SampleCovariance{}.Estimate(returns)
	require.NoError(t, err)
	require.Equal(t, 3, cov.SymmetricDim())

	// Mean 0.01, deviations 0, 0.01, -0.02, 0.02, -0.01 over N-1 = 4
	assert.InDelta(t, 0.001/4, cov.At(0, 0), 1e-15)
	assert.InDelta(t, cov.At(0, 1), cov.At(1, 0), 1e-15)
	// Cross deviations sum to 0.0011
	assert.InDelta(t, 0.0011/4, cov.At(0, 1), 1e-15)

	short, err := returns.Slice(0, 1)
	require.NoError(t, err)
	_, err = SampleCovariance{}.Estimate(short)
	assert.ErrorIs(t, err, timeseries.ErrEmptyFrame)
}

func TestConstantCorrelation(t *testing.T) {
	returns := covarianceFixture(t)

	sample, err := SampleCovariance{}.Estimate(returns)
	require.NoError(t, err)
	cc, err := ConstantCorrelation{}.Estimate(returns)
	require.NoError(t, err)

	corr := func(i, j int) float64 {
		return cc.At(i, j) / math.Sqrt(cc.At(i, i)*cc.At(j, j))
	}
	for i := 0; i < 3; i++ {
		assert.InDelta(t, sample.At(i, i), cc.At(i, i), 1e-15)
	}
	assert.InDelta(t, corr(0, 1), corr(0, 2), 1e-12)
	assert.InDelta(t, corr(0, 1), corr(1, 2), 1e-12)

	var rhoBar float64
	for _, p := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		rhoBar += sample.At(p[0], p[1]) / math.Sqrt(sample.At(p[0], p[0])*sample.At(p[1], p[1]))
	}
	assert.InDelta(t, rhoBar/3, corr(0, 1), 1e-12)
}

func TestLedoitWolf(t *testing.T) {
	returns := covarianceFixture(t)

	sample, err := SampleCovariance{}.Estimate(returns)
	require.NoError(t, err)

	half := 0.5
	shrunk, err := LedoitWolf{Shrinkage: &half}.Estimate(returns)
	require.NoError(t, err)

	avgVar := (sample.At(0, 0) + sample.At(1, 1) + sample.At(2, 2)) / 3
	avgCov := (sample.At(0, 1) + sample.At(0, 2) + sample.At(1, 2)) / 3
	assert.InDelta(t, 0.5*sample.At(0, 0)+0.5*avgVar, shrunk.At(0, 0), 1e-15)
	assert.InDelta(t, 0.5*sample.At(1, 2)+0.5*avgCov, shrunk.At(1, 2), 1e-15)

	estimated, err := LedoitWolf{}.Estimate(returns)
	require.NoError(t, err)
	// Estimated intensity is capped at 0.5, so entries stay between sample and half-way
	for i := 0; i < 3; i++ {
		lo := math.Min(sample.At(i, i), shrunk.At(i, i))
		hi := math.Max(sample.At(i, i), shrunk.At(i, i))
		assert.GreaterOrEqual(t, estimated.At(i, i), lo-1e-15)
		assert.LessOrEqual(t, estimated.At(i, i), hi+1e-15)
	}

	bad := 1.5
	_, err = LedoitWolf{Shrinkage: &bad}.Estimate(returns)
	assert.Error(t, err)
}
