package cppi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fintools/internal/modules/assetmodel"
)

func TestMonteCarlo_Shape(t *testing.T) {
	sim := newSimulator(t, DefaultConfig())

	scenarios := assetmodel.DefaultConfig()
	scenarios.Scenarios = 5
	scenarios.Years = 2
	scenarios.Seed = 11

	h, err := sim.MonteCarlo(scenarios)
	require.NoError(t, err)
	rows, cols := h.Wealth.Dims()
	assert.Equal(t, 24, rows)
	assert.Equal(t, 5, cols)

	again, err := sim.MonteCarlo(scenarios)
	require.NoError(t, err)
	assert.Equal(t, h.Wealth.Row(rows-1), again.Wealth.Row(rows-1))
}

func TestMonteCarlo_FlatRiskyAsset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RiskFreeRate = 0
	sim := newSimulator(t, cfg)

	scenarios := assetmodel.DefaultConfig()
	scenarios.Mu = 0
	scenarios.Sigma = 0
	scenarios.Scenarios = 3
	scenarios.Years = 1

	h, err := sim.MonteCarlo(scenarios)
	require.NoError(t, err)
	for i := 0; i < h.Wealth.Rows(); i++ {
		for j := 0; j < h.Wealth.Cols(); j++ {
			assert.InDelta(t, cfg.StartValue, h.Wealth.At(i, j), 1e-9)
			assert.Equal(t, cfg.StartValue, h.RiskyWealth.At(i, j))
		}
	}
}
