// Package cppi simulates Constant Proportion Portfolio Insurance: each
// period the risky exposure is the multiplier times the cushion above a
// protective floor, clamped to [0,1] of the account.
package cppi

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/fintools/internal/timeseries"
)

// Simulator runs CPPI backtests.
type Simulator struct {
	cfg Config
	log zerolog.Logger
}

// NewSimulator creates a CPPI simulator.
func NewSimulator(cfg Config, log zerolog.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cppi config: %w", err)
	}
	return &Simulator{
		cfg: cfg,
		log: log.With().Str("component", "cppi").Logger(),
	}, nil
}

// State is the snapshot of one column at one step.
type State struct {
	AccountValue float64 // after the step's returns
	FloorValue   float64
	PeakValue    float64
	CushionRatio float64 // (account - floor) / account before the returns
	RiskyWeight  float64
}

// History holds one row per step and one column per risky series.
// Every table shares the risky returns' index and columns.
type History struct {
	Wealth          *timeseries.Frame // account value after each step
	RiskyWealth     *timeseries.Frame // unprotected risky-asset wealth
	RiskBudget      *timeseries.Frame // cushion ratio
	RiskyAllocation *timeseries.Frame // risky weight
	Floor           *timeseries.Frame
	Peak            *timeseries.Frame
}

// State returns the snapshot of a column at a step.
func (h *History) State(step, col int) State {
	return State{
		AccountValue: h.Wealth.At(step, col),
		FloorValue:   h.Floor.At(step, col),
		PeakValue:    h.Peak.At(step, col),
		CushionRatio: h.RiskBudget.At(step, col),
		RiskyWeight:  h.RiskyAllocation.At(step, col),
	}
}

// Run steps every column of riskyReturns through the strategy. The
// account keeps running at a 100% safe allocation once the cushion is
// gone, and re-risks only if a later step finds it above the floor again.
// Account values at or below zero are not guarded.
func (s *Simulator) Run(riskyReturns *timeseries.Frame) (*History, error) {
	steps, cols := riskyReturns.Dims()
	if steps == 0 {
		return nil, fmt.Errorf("cppi: %w", timeseries.ErrEmptyFrame)
	}
	safe, err := s.safeReturns(riskyReturns)
	if err != nil {
		return nil, err
	}

	// One arena per quantity, written once per step.
	var (
		wealth      = mat.NewDense(steps, cols, nil)
		riskyWealth = mat.NewDense(steps, cols, nil)
		budget      = mat.NewDense(steps, cols, nil)
		allocation  = mat.NewDense(steps, cols, nil)
		floors      = mat.NewDense(steps, cols, nil)
		peaks       = mat.NewDense(steps, cols, nil)
	)

	cfg := s.cfg
	breaches := 0
	for j := 0; j < cols; j++ {
		account := cfg.StartValue
		floor := cfg.StartValue * cfg.CushionRatio
		peak := cfg.StartValue
		risky := cfg.StartValue

		for step := 0; step < steps; step++ {
			if cfg.Drawdown != nil {
				peak = math.Max(peak, account)
				floor = peak * (1 - *cfg.Drawdown)
			}
			cushion := (account - floor) / account
			w := math.Min(math.Max(cfg.Multiplier*cushion, 0), 1)
			if w == 0 {
				breaches++
			}

			r := riskyReturns.At(step, j)
			account = account*w*(1+r) + account*(1-w)*(1+safe(step, j))
			risky *= 1 + r

			wealth.Set(step, j, account)
			riskyWealth.Set(step, j, risky)
			budget.Set(step, j, cushion)
			allocation.Set(step, j, w)
			floors.Set(step, j, floor)
			peaks.Set(step, j, peak)
		}
	}

	h := &History{}
	index, columns := riskyReturns.Index(), riskyReturns.Columns()
	for _, t := range []struct {
		dst **timeseries.Frame
		src *mat.Dense
	}{
		{&h.Wealth, wealth},
		{&h.RiskyWealth, riskyWealth},
		{&h.RiskBudget, budget},
		{&h.RiskyAllocation, allocation},
		{&h.Floor, floors},
		{&h.Peak, peaks},
	} {
		f, err := timeseries.FromMatrix(index, columns, t.src)
		if err != nil {
			return nil, err
		}
		*t.dst = f
	}

	s.log.Debug().
		Int("steps", steps).
		Int("columns", cols).
		Int("fully_safe_steps", breaches).
		Bool("drawdown", cfg.Drawdown != nil).
		Msg("CPPI backtest complete")

	return h, nil
}

// safeReturns resolves the per-period safe return lookup.
func (s *Simulator) safeReturns(risky *timeseries.Frame) (func(step, col int) float64, error) {
	if s.cfg.SafeReturns == nil {
		rate := s.cfg.RiskFreeRate / float64(s.cfg.PeriodsPerYear)
		return func(int, int) float64 { return rate }, nil
	}

	safe := s.cfg.SafeReturns
	if safe.Rows() != risky.Rows() {
		return nil, fmt.Errorf("cppi: %d safe periods for %d risky periods: %w", safe.Rows(), risky.Rows(), timeseries.ErrDimensionMismatch)
	}
	switch safe.Cols() {
	case 1:
		return func(step, _ int) float64 { return safe.At(step, 0) }, nil
	case risky.Cols():
		return safe.At, nil
	default:
		return nil, fmt.Errorf("cppi: %d safe columns for %d risky columns: %w", safe.Cols(), risky.Cols(), timeseries.ErrDimensionMismatch)
	}
}
