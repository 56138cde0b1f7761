package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aristath/fintools/internal/modules/backtest"
	"github.com/aristath/fintools/internal/modules/portfolio"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
}

func printMetrics(w io.Writer, rows []backtest.Metrics) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "\tAnn. Return\tAnn. Vol\tSkew\tKurtosis\tCF VaR 5%\tHist VaR 5%\tCVaR 5%\tSharpe\tMax DD\tMax DD Date\t")
	for _, m := range rows {
		sharpe := "n/a"
		if m.SharpeRatio != nil {
			sharpe = fmt.Sprintf("%.4f", *m.SharpeRatio)
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%s\t%.4f\t%s\t\n",
			m.Name, m.AnnualizedReturn, m.AnnualizedVol, m.Skewness, m.ExcessKurtosis,
			m.CornishFisherVaR, m.HistoricVaR, m.ConditionalVaR, sharpe, m.MaxDrawdown, m.MaxDrawdownDate)
	}
	return tw.Flush()
}

func printWeights(w io.Writer, weights portfolio.Weights) error {
	tw := newTable(w)
	for i, symbol := range weights.Symbols {
		fmt.Fprintf(tw, "%s\t%.4f\t\n", symbol, weights.Values[i])
	}
	fmt.Fprintf(tw, "ENC\t%.2f\t\n", weights.ENC())
	return tw.Flush()
}

// parseFloats reads a comma-separated list such as "0.6,0.4".
func parseFloats(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
