package formulas

import (
	"fmt"
	"math"
)

// Discount is the price of a pure discount bond paying 1 after the given
// number of periods.
func Discount(ratePerPeriod, periods float64) float64 {
	return math.Pow(1+ratePerPeriod, -periods)
}

// PresentValue discounts a sequence of liabilities, each due after the
// matching number of periods.
func PresentValue(liabilities, periods []float64, ratePerPeriod float64) (float64, error) {
	if len(liabilities) != len(periods) {
		return 0, fmt.Errorf("liabilities has %d values, periods has %d", len(liabilities), len(periods))
	}
	var pv float64
	for i, l := range liabilities {
		pv += l * Discount(ratePerPeriod, periods[i])
	}
	return pv, nil
}

// FundingRatio is assets divided by the present value of liabilities.
func FundingRatio(assets float64, liabilities, periods []float64, ratePerPeriod float64) (float64, error) {
	pv, err := PresentValue(liabilities, periods, ratePerPeriod)
	if err != nil {
		return 0, err
	}
	if pv == 0 {
		return 0, fmt.Errorf("present value of liabilities is zero")
	}
	return assets / pv, nil
}

// FutureValue calculates the value of a fixed income investment after the
// given number of years.
//
// Formula:
//
//	discrete:   V_n = V_0 * (1 + r/m)^(years*m)
//	continuous: V_n = V_0 * e^(r*years)
func FutureValue(presentValue, annualRate, years float64, compoundingPerYear int, continuous bool) float64 {
	if continuous {
		return presentValue * math.Exp(annualRate*years)
	}
	if compoundingPerYear <= 0 {
		compoundingPerYear = 1
	}
	m := float64(compoundingPerYear)
	return presentValue * math.Pow(1+annualRate/m, years*m)
}
