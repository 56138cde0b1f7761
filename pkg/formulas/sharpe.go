package formulas

import "math"

// AnnualizedSharpeRatio calculates the annualized Sharpe ratio of a return series.
//
// The annual risk-free rate is converted to a per-period rate with
// (1+rf)^(1/periodsPerYear) - 1, subtracted from every return, and the
// annualized excess return is divided by the annualized volatility.
//
// Args:
//
//	returns: Periodic returns (monthly, daily, ...)
//	riskFreeRate: Annual risk-free rate as decimal (0.03 = 3%)
//	periodsPerYear: 12 for monthly data, 252 for daily data
//
// Returns:
//
//	Sharpe ratio, or nil if the volatility is zero or the series too short
func AnnualizedSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	rfPerPeriod := math.Pow(1+riskFreeRate, 1/float64(periodsPerYear)) - 1
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - rfPerPeriod
	}

	vol := AnnualizeVolatility(returns, periodsPerYear)
	if vol == 0 {
		return nil
	}

	sharpe := AnnualizeReturns(excess, periodsPerYear) / vol
	return &sharpe
}
