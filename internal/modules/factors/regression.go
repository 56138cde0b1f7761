// Package factors regresses portfolio excess returns on the Fama-French
// research factors.
package factors

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/fintools/internal/timeseries"
)

// Factor column names, as published in the Fama-French data library.
const (
	MarketExcess                = "Mkt-RF"
	SmallMinusBig               = "SMB"
	HighMinusLow                = "HML"
	RobustMinusWeak             = "RMW"
	ConservativeMinusAggressive = "CMA"
	RiskFree                    = "RF"

	// Alpha names the intercept.
	Alpha = "Alpha"
)

// Model selects the explanatory factors.
type Model int

const (
	CAPM Model = iota + 1
	ThreeFactor
	FiveFactor
)

// ParseModel accepts "capm", "ff3" or "ff5".
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(s) {
	case "capm":
		return CAPM, nil
	case "ff3", "three", "3":
		return ThreeFactor, nil
	case "ff5", "five", "5":
		return FiveFactor, nil
	default:
		return 0, fmt.Errorf("unknown factor model: %s", s)
	}
}

func (m Model) String() string {
	switch m {
	case CAPM:
		return "capm"
	case ThreeFactor:
		return "ff3"
	case FiveFactor:
		return "ff5"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// Terms lists the regression terms in coefficient order.
func (m Model) Terms() []string {
	terms := []string{MarketExcess, Alpha}
	if m >= ThreeFactor {
		terms = append(terms, HighMinusLow, SmallMinusBig)
	}
	if m >= FiveFactor {
		terms = append(terms, RobustMinusWeak, ConservativeMinusAggressive)
	}
	return terms
}

// Regression is a fitted factor model.
type Regression struct {
	Model        Model
	Terms        []string
	Coefficients []float64
	RSquared     float64
	Residuals    []float64
}

// Param returns the coefficient of a term, 0 when absent.
func (r *Regression) Param(term string) float64 {
	for i, t := range r.Terms {
		if t == term {
			return r.Coefficients[i]
		}
	}
	return 0
}

// Regress fits r - RF = β·factors + α by ordinary least squares. Every
// timestamp of the portfolio series must be present in the factor table.
func Regress(returns *timeseries.Series, factorTable *timeseries.Frame, model Model) (*Regression, error) {
	terms := model.Terms()
	n := returns.Len()
	if n <= len(terms) {
		return nil, fmt.Errorf("regress %s: %d observations for %d terms: %w", model, n, len(terms), timeseries.ErrEmptyFrame)
	}

	cols := make([]int, len(terms))
	for k, term := range terms {
		if term == Alpha {
			cols[k] = -1
			continue
		}
		j, ok := factorTable.ColumnIndex(term)
		if !ok {
			return nil, fmt.Errorf("regress %s: factor %q: %w", model, term, timeseries.ErrUnknownColumn)
		}
		cols[k] = j
	}
	rf, ok := factorTable.ColumnIndex(RiskFree)
	if !ok {
		return nil, fmt.Errorf("regress %s: factor %q: %w", model, RiskFree, timeseries.ErrUnknownColumn)
	}

	x := mat.NewDense(n, len(terms), nil)
	y := mat.NewVecDense(n, nil)
	for i, t := range returns.Index {
		row, err := factorTable.RowOf(t)
		if err != nil {
			return nil, fmt.Errorf("regress %s: %w", model, err)
		}
		y.SetVec(i, returns.Values[i]-factorTable.At(row, rf))
		for k, j := range cols {
			if j < 0 {
				x.Set(i, k, 1)
			} else {
				x.Set(i, k, factorTable.At(row, j))
			}
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, fmt.Errorf("regress %s: %w", model, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	residuals := make([]float64, n)
	for i := range residuals {
		residuals[i] = y.AtVec(i) - fitted.AtVec(i)
	}

	return &Regression{
		Model:        model,
		Terms:        terms,
		Coefficients: mat.Col(nil, 0, &beta),
		RSquared:     stat.RSquaredFrom(fitted.RawVector().Data, y.RawVector().Data, nil),
		Residuals:    residuals,
	}, nil
}
