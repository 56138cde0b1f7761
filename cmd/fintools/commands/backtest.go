package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/fintools/internal/modules/allocation"
	"github.com/aristath/fintools/internal/modules/backtest"
	"github.com/aristath/fintools/internal/modules/optimization"
	"github.com/aristath/fintools/internal/timeseries"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Rolling-window allocation backtest",
	Long: `Re-derives the portfolio weights each period from the trailing
estimation window and applies them to the following period's returns.

Schemes:
  ew   equal weights, optionally filtered and capped against --caps
  cw   capitalization weights from --caps
  gmv  global minimum variance over the window
  hrp  hierarchical risk parity over the window

Example:
  fintools backtest --returns ind49_m_vw_rets.csv --caps ind49_m_cap_weights.csv --percent --scheme ew --microcap 0.01
  fintools backtest --returns ind49_m_vw_rets.csv --percent --scheme gmv --window 36`,
	RunE: runBacktest,
}

var (
	backtestReturns    string
	backtestCaps       string
	backtestPercent    bool
	backtestScheme     string
	backtestWindow     int
	backtestMicrocap   float64
	backtestMultiplier float64
	backtestEstimator  string
	backtestLinkage    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestReturns, "returns", "", "return table (required)")
	backtestCmd.Flags().StringVar(&backtestCaps, "caps", "", "cap weight table with the same columns")
	backtestCmd.Flags().BoolVar(&backtestPercent, "percent", false, "returns are percentages")
	backtestCmd.Flags().StringVar(&backtestScheme, "scheme", allocation.SchemeEqualWeighted, "ew|cw|gmv|hrp")
	backtestCmd.Flags().IntVar(&backtestWindow, "window", 0, "estimation window in periods (default from config)")
	backtestCmd.Flags().Float64Var(&backtestMicrocap, "microcap", 0, "drop constituents below this cap weight")
	backtestCmd.Flags().Float64Var(&backtestMultiplier, "max-cap-multiplier", 0, "cap each weight at this multiple of its cap weight")
	backtestCmd.Flags().StringVar(&backtestEstimator, "estimator", "sample", "covariance estimator for gmv and hrp")
	backtestCmd.Flags().StringVar(&backtestLinkage, "linkage", string(optimization.SingleLinkage), "hrp cluster linkage: single|complete|average")
	backtestCmd.MarkFlagRequired("returns")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	returns, err := loadTable(backtestReturns, backtestPercent)
	if err != nil {
		return err
	}

	var caps *timeseries.Frame
	if backtestCaps != "" {
		if caps, err = loadTable(backtestCaps, false); err != nil {
			return err
		}
	}

	est, err := newEstimator(backtestEstimator)
	if err != nil {
		return err
	}

	schemeCfg := allocation.SchemeConfig{
		CapWeights:             caps,
		MicrocapThreshold:      cfg.Backtest.MicrocapThreshold,
		MaxCapWeightMultiplier: cfg.Backtest.MaxCapWeightMultiplier,
		Estimator:              est,
		Optimizer:              newOptimizer(),
		Linkage:                optimization.Linkage(backtestLinkage),
	}
	if cmd.Flags().Changed("microcap") {
		schemeCfg.MicrocapThreshold = backtestMicrocap
	}
	if cmd.Flags().Changed("max-cap-multiplier") {
		schemeCfg.MaxCapWeightMultiplier = backtestMultiplier
	}
	scheme, err := allocation.NewScheme(backtestScheme, schemeCfg)
	if err != nil {
		return err
	}

	window := cfg.Backtest.EstimationWindow
	if backtestWindow > 0 {
		window = backtestWindow
	}

	res, err := backtest.NewBacktester(scheme, window, log).Run(returns)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("Backtest  scheme=%s  window=%d  %s ~ %s", backtestScheme, window,
		res.Returns.Index[0].Format("2006-01"), res.Returns.Index[res.Returns.Len()-1].Format("2006-01")))
	m := backtest.SeriesMetrics(backtestScheme, res.Returns.Values, res.Returns.Index, cfg.Metrics.RiskFreeRate, cfg.Metrics.PeriodsPerYear)
	if err := printMetrics(out, []backtest.Metrics{m}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Growth of 1: %.4f\n", backtest.FinalWealth(res.Returns.Values, 1))
	return nil
}
