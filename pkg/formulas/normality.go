package formulas

import "gonum.org/v1/gonum/stat/distuv"

// JarqueBera computes the Jarque-Bera statistic and its p-value under the
// chi-squared distribution with two degrees of freedom.
func JarqueBera(data []float64) (statistic, pValue float64) {
	n := float64(len(data))
	if n == 0 {
		return 0, 1
	}
	s, k := populationMoments(data)
	statistic = n / 6 * (s*s + k*k/4)
	pValue = distuv.ChiSquared{K: 2}.Survival(statistic)
	return statistic, pValue
}

// IsNormal applies the Jarque-Bera test and reports whether the normality
// hypothesis is accepted at the given significance level (0.01 = 1%).
func IsNormal(data []float64, significance float64) bool {
	_, p := JarqueBera(data)
	return p > significance
}
