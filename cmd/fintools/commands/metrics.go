package commands

import (
	"github.com/spf13/cobra"

	"github.com/aristath/fintools/internal/modules/backtest"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Summary risk and return statistics per column",
	Long: `Prints annualized return and volatility, skewness, excess kurtosis,
Cornish-Fisher, historic and conditional VaR at 5%, Sharpe ratio and the
maximum drawdown of every column of a return table.

Example:
  fintools metrics --returns ind30_m_vw_rets.csv --percent --columns Food,Beer`,
	RunE: runMetrics,
}

var (
	metricsReturns string
	metricsColumns string
	metricsPercent bool
)

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringVar(&metricsReturns, "returns", "", "return table (required)")
	metricsCmd.Flags().StringVar(&metricsColumns, "columns", "", "comma-separated columns (default: all)")
	metricsCmd.Flags().BoolVar(&metricsPercent, "percent", false, "values are percentages")
	metricsCmd.MarkFlagRequired("returns")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	returns, err := loadTable(metricsReturns, metricsPercent)
	if err != nil {
		return err
	}
	if returns, err = selectColumns(returns, metricsColumns); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Return metrics")
	return printMetrics(out, backtest.CollectMetrics(returns, cfg.Metrics.RiskFreeRate, cfg.Metrics.PeriodsPerYear))
}
