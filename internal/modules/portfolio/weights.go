package portfolio

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Weights is a weight vector aligned to an ordered list of asset symbols.
type Weights struct {
	Symbols []string
	Values  []float64
}

// NewWeights pairs symbols with values. Both slices are copied.
func NewWeights(symbols []string, values []float64) (Weights, error) {
	if len(symbols) != len(values) {
		return Weights{}, fmt.Errorf("%d symbols for %d weights: %w", len(symbols), len(values), ErrDimensionMismatch)
	}
	return Weights{
		Symbols: append([]string(nil), symbols...),
		Values:  append([]float64(nil), values...),
	}, nil
}

// EqualWeights assigns 1/N to each symbol.
func EqualWeights(symbols []string) Weights {
	values := make([]float64, len(symbols))
	if len(symbols) > 0 {
		floats.AddConst(1/float64(len(symbols)), values)
	}
	return Weights{Symbols: append([]string(nil), symbols...), Values: values}
}

// Len returns the number of assets.
func (w Weights) Len() int { return len(w.Values) }

// Weight returns the weight of a symbol, zero when absent.
func (w Weights) Weight(symbol string) float64 {
	for i, s := range w.Symbols {
		if s == symbol {
			return w.Values[i]
		}
	}
	return 0
}

// Sum returns the total weight.
func (w Weights) Sum() float64 { return floats.Sum(w.Values) }

// ENC is the effective number of constituents, 1/Σw².
func (w Weights) ENC() float64 {
	sq := floats.Dot(w.Values, w.Values)
	if sq == 0 {
		return 0
	}
	return 1 / sq
}

// AsMap returns the weights keyed by symbol.
func (w Weights) AsMap() map[string]float64 {
	m := make(map[string]float64, len(w.Symbols))
	for i, s := range w.Symbols {
		m[s] = w.Values[i]
	}
	return m
}

// Normalized returns a copy scaled to sum to 1. A zero vector is returned unchanged.
func (w Weights) Normalized() Weights {
	out := Weights{Symbols: append([]string(nil), w.Symbols...), Values: append([]float64(nil), w.Values...)}
	if sum := floats.Sum(out.Values); sum != 0 {
		floats.Scale(1/sum, out.Values)
	}
	return out
}

// Return is the portfolio return for one period of returns.
func (w Weights) Return(returns []float64) (float64, error) {
	return Return(w.Values, returns)
}

// Volatility is the portfolio volatility under a covariance matrix.
func (w Weights) Volatility(cov mat.Symmetric) (float64, error) {
	return Volatility(w.Values, cov)
}

// String formats the weights as "A=0.5000 B=0.5000".
func (w Weights) String() string {
	s := ""
	for i, sym := range w.Symbols {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%.4f", sym, w.Values[i])
	}
	return s
}
