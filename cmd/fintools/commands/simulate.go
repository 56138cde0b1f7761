package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/fintools/internal/modules/backtest"
	"github.com/aristath/fintools/internal/modules/simulator"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a rebalancing strategy over a price table",
	Long: `Converts prices to returns and runs a portfolio from --weights under
the chosen strategy.

Strategies:
  rebalance  restore the initial weights every period
  drift      never trade, let weights follow relative performance

Example:
  fintools simulate --prices prices.csv --weights 0.6,0.4 --strategy drift`,
	RunE: runSimulate,
}

var (
	simulatePrices   string
	simulateWeights  string
	simulateStrategy string
	simulateStart    float64
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simulatePrices, "prices", "", "price table (required)")
	simulateCmd.Flags().StringVar(&simulateWeights, "weights", "", "comma-separated initial weights, one per column (required)")
	simulateCmd.Flags().StringVar(&simulateStrategy, "strategy", simulator.StrategyRebalance, "rebalance|drift")
	simulateCmd.Flags().Float64Var(&simulateStart, "start", 1, "start value")
	simulateCmd.MarkFlagRequired("prices")
	simulateCmd.MarkFlagRequired("weights")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	prices, err := loadTable(simulatePrices, false)
	if err != nil {
		return err
	}
	returns, err := prices.Returns()
	if err != nil {
		return err
	}
	if returns.Rows() == 0 {
		return fmt.Errorf("simulate: need at least two prices")
	}
	weights, err := parseFloats(simulateWeights)
	if err != nil {
		return err
	}

	strategy, err := simulator.NewStrategy(simulateStrategy, weights)
	if err != nil {
		return err
	}
	trace, err := simulator.NewSimulator(strategy, log).Simulate(returns, weights, simulateStart)
	if err != nil {
		return err
	}

	r := trace.Returns()
	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("Simulation  strategy=%s  %d periods", simulateStrategy, trace.Len()))
	m := backtest.SeriesMetrics(simulateStrategy, r.Values, r.Index, cfg.Metrics.RiskFreeRate, cfg.Metrics.PeriodsPerYear)
	if err := printMetrics(out, []backtest.Metrics{m}); err != nil {
		return err
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "\tInitial\tLast Period\t")
	final := trace.Weights(trace.Len() - 1)
	for j, name := range returns.Columns() {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t\n", name, weights[j], final[j])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Final value: %.4f\n", trace.FinalValue())
	return nil
}
