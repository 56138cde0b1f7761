package formulas

import "math"

// Calendar constants used to annualise periodic figures.
const (
	TradingDaysPerYear = 252
	MonthsPerYear      = 12
	QuartersPerYear    = 4
)

// CalculateReturns converts prices to percentage returns
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// CompoundReturn calculates the total compounded return of a return series.
//
// Formula: (1+r1)*(1+r2)*...*(1+rN) - 1
func CompoundReturn(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	return growth - 1
}

// WealthIndex compounds returns onto an initial investment.
// The i-th element is the account value after period i.
func WealthIndex(returns []float64, initial float64) []float64 {
	wealth := make([]float64, len(returns))
	value := initial
	for i, r := range returns {
		value *= 1 + r
		wealth[i] = value
	}
	return wealth
}

// AnnualizedReturn annualizes a single periodic return.
//
// Formula: (1+r)^periodsInYear - 1
func AnnualizedReturn(r float64, periodsInYear int) float64 {
	return math.Pow(1+r, float64(periodsInYear)) - 1
}

// AnnualizedMonthlyReturn annualizes a monthly return.
func AnnualizedMonthlyReturn(r float64) float64 {
	return AnnualizedReturn(r, MonthsPerYear)
}

// AnnualizedQuarterlyReturn annualizes a quarterly return.
func AnnualizedQuarterlyReturn(r float64) float64 {
	return AnnualizedReturn(r, QuartersPerYear)
}

// AnnualizedDailyReturn annualizes a daily return.
func AnnualizedDailyReturn(r float64) float64 {
	return AnnualizedReturn(r, TradingDaysPerYear)
}

// AnnualizeReturns calculates the annualized growth rate of a return series.
//
// Formula: ((1+r1)*(1+r2)*...*(1+rN))^(periodsInYear/N) - 1
//
// Args:
//
//	returns: Periodic returns as decimals (e.g., 0.01 = 1%)
//	periodsInYear: 12 for monthly data, 252 for daily data
//
// Returns:
//
//	Annualized return as decimal, 0 for an empty series
func AnnualizeReturns(returns []float64, periodsInYear int) float64 {
	if len(returns) == 0 {
		return 0
	}
	growth := CompoundReturn(returns) + 1
	return math.Pow(growth, float64(periodsInYear)/float64(len(returns))) - 1
}

// AnnualizeVolatility scales the sample standard deviation of periodic
// returns by sqrt(periodsInYear).
func AnnualizeVolatility(returns []float64, periodsInYear int) float64 {
	if len(returns) < 2 {
		return 0
	}
	return StdDev(returns) * math.Sqrt(float64(periodsInYear))
}
