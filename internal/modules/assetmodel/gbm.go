// Package assetmodel generates synthetic price and return scenarios.
package assetmodel

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/fintools/internal/timeseries"
)

// Config describes a geometric Brownian motion ensemble.
type Config struct {
	Mu           float64 // annual drift
	Sigma        float64 // annual volatility
	Years        float64
	Scenarios    int
	StepsPerYear int       // default 12
	InitialPrice float64   // default 1
	Prices       bool      // true for price paths, false for returns
	Seed         uint64
	Start        time.Time // month of the first timestamp, default January 2000
}

// DefaultConfig returns a ten-year monthly model with one scenario.
func DefaultConfig() Config {
	return Config{
		Mu:           0.07,
		Sigma:        0.15,
		Years:        10,
		Scenarios:    1,
		StepsPerYear: 12,
		InitialPrice: 1,
		Prices:       true,
		Seed:         1,
	}
}

// GeometricBrownianMotion simulates the ensemble. Each step's gross return
// is drawn from N(1 + μ·dt, σ·√dt); the first row is fixed at a gross
// return of 1 so every path starts at the initial price. Columns are named
// by scenario number. The same seed always yields the same frame.
func GeometricBrownianMotion(cfg Config) (*timeseries.Frame, error) {
	if cfg.StepsPerYear <= 0 {
		cfg.StepsPerYear = 12
	}
	if cfg.InitialPrice == 0 {
		cfg.InitialPrice = 1
	}
	steps := int(cfg.Years * float64(cfg.StepsPerYear))
	if steps < 1 || cfg.Scenarios < 1 {
		return nil, fmt.Errorf("gbm: %d steps x %d scenarios: %w", steps, cfg.Scenarios, timeseries.ErrEmptyFrame)
	}
	if cfg.Sigma < 0 {
		return nil, fmt.Errorf("gbm: negative volatility %g", cfg.Sigma)
	}

	dt := 1 / float64(cfg.StepsPerYear)
	gross := distuv.Normal{
		Mu:    1 + cfg.Mu*dt,
		Sigma: cfg.Sigma * math.Sqrt(dt),
		Src:   rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15),
	}

	data := mat.NewDense(steps, cfg.Scenarios, nil)
	for j := 0; j < cfg.Scenarios; j++ {
		data.Set(0, j, 1)
	}
	for i := 1; i < steps; i++ {
		for j := 0; j < cfg.Scenarios; j++ {
			data.Set(i, j, gross.Rand())
		}
	}

	if cfg.Prices {
		for j := 0; j < cfg.Scenarios; j++ {
			price := cfg.InitialPrice
			for i := 0; i < steps; i++ {
				price *= data.At(i, j)
				data.Set(i, j, price)
			}
		}
	} else {
		data.Apply(func(_, _ int, v float64) float64 { return v - 1 }, data)
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	columns := make([]string, cfg.Scenarios)
	for j := range columns {
		columns[j] = strconv.Itoa(j)
	}
	return timeseries.FromMatrix(monthlyOrDaily(start, steps, cfg.StepsPerYear), columns, data)
}

// monthlyOrDaily spaces timestamps by month for 12 steps a year and by
// calendar day otherwise.
func monthlyOrDaily(start time.Time, n, stepsPerYear int) []time.Time {
	if stepsPerYear == 12 {
		return timeseries.MonthlyIndex(start, n)
	}
	index := make([]time.Time, n)
	for i := range index {
		index[i] = start.AddDate(0, 0, i)
	}
	return index
}
