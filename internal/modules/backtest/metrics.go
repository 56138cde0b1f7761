package backtest

import (
	"time"

	"github.com/aristath/fintools/internal/timeseries"
	"github.com/aristath/fintools/pkg/formulas"
)

// VaRLevel is the percentile used for the VaR figures in Metrics.
const VaRLevel = 5

// Metrics summarizes one return series.
type Metrics struct {
	Name             string
	CompoundReturn   float64
	AnnualizedReturn float64
	AnnualizedVol    float64
	Skewness         float64
	ExcessKurtosis   float64
	CornishFisherVaR float64
	HistoricVaR      float64
	ConditionalVaR   float64
	SharpeRatio      *float64 // nil when volatility is zero
	MaxDrawdown      float64
	MaxDrawdownDate  string
}

// CollectMetrics computes Metrics for every column of a return table.
func CollectMetrics(returns *timeseries.Frame, riskFreeRate float64, periodsPerYear int) []Metrics {
	out := make([]Metrics, returns.Cols())
	for j, name := range returns.Columns() {
		out[j] = SeriesMetrics(name, returns.Column(j), returns.Index(), riskFreeRate, periodsPerYear)
	}
	return out
}

// SeriesMetrics computes Metrics for a single return series. index may be
// nil, in which case MaxDrawdownDate is left empty.
func SeriesMetrics(name string, r []float64, index []time.Time, riskFreeRate float64, periodsPerYear int) Metrics {
	dd := formulas.ComputeDrawdown(r, 1)
	m := Metrics{
		Name:             name,
		CompoundReturn:   formulas.CompoundReturn(r),
		AnnualizedReturn: formulas.AnnualizeReturns(r, periodsPerYear),
		AnnualizedVol:    formulas.AnnualizeVolatility(r, periodsPerYear),
		Skewness:         formulas.Skewness(r),
		ExcessKurtosis:   formulas.ExcessKurtosis(r),
		CornishFisherVaR: formulas.CornishFisherVaR(r, VaRLevel),
		HistoricVaR:      formulas.HistoricVaR(r, VaRLevel),
		ConditionalVaR:   formulas.ConditionalVaR(r, VaRLevel),
		SharpeRatio:      formulas.AnnualizedSharpeRatio(r, riskFreeRate, periodsPerYear),
		MaxDrawdown:      dd.MaxDrawdown,
	}
	if dd.MaxDrawdownIndex >= 0 && dd.MaxDrawdownIndex < len(index) {
		m.MaxDrawdownDate = index[dd.MaxDrawdownIndex].Format("2006-01-02")
	}
	return m
}
