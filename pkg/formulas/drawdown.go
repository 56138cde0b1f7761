package formulas

// Drawdown is the drawdown history of a return sequence.
type Drawdown struct {
	Wealth    []float64 // Wealth index compounded from the initial investment
	Peaks     []float64 // Running maximum of Wealth
	Drawdowns []float64 // (Wealth - Peak) / Peak, always <= 0

	MaxDrawdown      float64 // Most negative drawdown (e.g., -0.25 = 25% below peak)
	MaxDrawdownIndex int     // Period at which MaxDrawdown occurred, -1 if empty
}

// ComputeDrawdown builds the wealth index, previous peaks and drawdowns of
// a return series.
//
// Drawdown Formula:
//
//	Drawdown = (Wealth - Peak) / Peak
//	Max Drawdown = Minimum of all drawdowns
func ComputeDrawdown(returns []float64, initialWealth float64) *Drawdown {
	n := len(returns)
	dd := &Drawdown{
		Wealth:           WealthIndex(returns, initialWealth),
		Peaks:            make([]float64, n),
		Drawdowns:        make([]float64, n),
		MaxDrawdownIndex: -1,
	}

	for i, w := range dd.Wealth {
		peak := w
		if i > 0 && dd.Peaks[i-1] > peak {
			peak = dd.Peaks[i-1]
		}
		dd.Peaks[i] = peak

		if peak != 0 {
			dd.Drawdowns[i] = (w - peak) / peak
		}
		if dd.MaxDrawdownIndex < 0 || dd.Drawdowns[i] < dd.MaxDrawdown {
			dd.MaxDrawdown = dd.Drawdowns[i]
			dd.MaxDrawdownIndex = i
		}
	}

	return dd
}

// CalculateMaxDrawdown calculates the maximum drawdown from a price series
// as a positive fraction (0.25 = 25% loss from peak). Returns nil when
// fewer than two prices are supplied.
func CalculateMaxDrawdown(prices []float64) *float64 {
	if len(prices) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := prices[0]

	for _, price := range prices {
		if price > peak {
			peak = price
		}
		if peak > 0 {
			drawdown := (peak - price) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}
