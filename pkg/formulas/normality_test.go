package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJarqueBera(t *testing.T) {
	data := []float64{0.01, -0.03, 0.02, 0.05, -0.06, 0.01, 0.0, 0.04, -0.02, 0.03}

	stat, p := JarqueBera(data)
	assert.InDelta(t, 0.6254893, stat, 1e-6)
	assert.InDelta(t, 0.7314367, p, 1e-6)
	assert.True(t, IsNormal(data, 0.01))
}

func TestJarqueBera_HeavyTail(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = 0.001 * float64(i%3-1)
	}
	data[50] = -0.5

	stat, p := JarqueBera(data)
	assert.Greater(t, stat, 100.0)
	assert.Less(t, p, 0.01)
	assert.False(t, IsNormal(data, 0.01))
}

func TestJarqueBera_Empty(t *testing.T) {
	stat, p := JarqueBera(nil)
	assert.Equal(t, 0.0, stat)
	assert.Equal(t, 1.0, p)
}
