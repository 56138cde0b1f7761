package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/fintools/internal/modules/assetmodel"
	"github.com/aristath/fintools/internal/modules/cppi"
	"github.com/aristath/fintools/internal/timeseries"
	"github.com/aristath/fintools/pkg/formulas"
)

// cppiCmd represents the cppi command
var cppiCmd = &cobra.Command{
	Use:   "cppi",
	Short: "Constant proportion portfolio insurance backtest",
	Long: `Runs CPPI over every selected column of a risky return table, with the
safe asset earning the risk-free rate or the returns of --safe.

Example:
  fintools cppi --returns ind30_m_vw_rets.csv --percent --column Steel
  fintools cppi --returns ind30_m_vw_rets.csv --percent --drawdown 0.25 --multiplier 5`,
	RunE: runCPPI,
}

// cppiMonteCarloCmd represents the cppi montecarlo subcommand
var cppiMonteCarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "CPPI over simulated geometric Brownian motion scenarios",
	Long: `Generates risky returns from a seeded geometric Brownian motion and
reports the distribution of the insured final wealth.

Example:
  fintools cppi montecarlo --scenarios 500 --mu 0.07 --sigma 0.15 --years 10`,
	RunE: runCPPIMonteCarlo,
}

var (
	cppiReturns    string
	cppiSafe       string
	cppiColumns    string
	cppiPercent    bool
	cppiMultiplier float64
	cppiCushion    float64
	cppiDrawdown   float64
	cppiStart      float64
	cppiRiskFree   float64

	mcScenarios int
	mcMu        float64
	mcSigma     float64
	mcYears     float64
	mcSeed      uint64
)

func init() {
	rootCmd.AddCommand(cppiCmd)
	cppiCmd.AddCommand(cppiMonteCarloCmd)

	pf := cppiCmd.PersistentFlags()
	pf.Float64Var(&cppiMultiplier, "multiplier", 3, "risky exposure per unit of cushion")
	pf.Float64Var(&cppiCushion, "cushion", 0.8, "initial floor as a fraction of the start value")
	pf.Float64Var(&cppiDrawdown, "drawdown", 0, "maximum drawdown for a trailing floor (0 disables)")
	pf.Float64Var(&cppiStart, "start", 1000, "start value")
	pf.Float64Var(&cppiRiskFree, "risk-free", 0.03, "annual risk-free rate")

	cppiCmd.Flags().StringVar(&cppiReturns, "returns", "", "risky return table")
	cppiCmd.Flags().StringVar(&cppiSafe, "safe", "", "safe asset return table (one column or one per risky column)")
	cppiCmd.Flags().StringVar(&cppiColumns, "column", "", "comma-separated risky columns (default: all)")
	cppiCmd.Flags().BoolVar(&cppiPercent, "percent", false, "values are percentages")

	defaults := assetmodel.DefaultConfig()
	cppiMonteCarloCmd.Flags().IntVar(&mcScenarios, "scenarios", 100, "number of scenarios")
	cppiMonteCarloCmd.Flags().Float64Var(&mcMu, "mu", defaults.Mu, "annual drift")
	cppiMonteCarloCmd.Flags().Float64Var(&mcSigma, "sigma", defaults.Sigma, "annual volatility")
	cppiMonteCarloCmd.Flags().Float64Var(&mcYears, "years", defaults.Years, "horizon in years")
	cppiMonteCarloCmd.Flags().Uint64Var(&mcSeed, "seed", defaults.Seed, "random seed")
}

// cppiConfig merges the YAML settings with any flag set on the command line.
func cppiConfig(cmd *cobra.Command) cppi.Config {
	c := cppi.Config{
		Multiplier:     cfg.CPPI.Multiplier,
		CushionRatio:   cfg.CPPI.CushionRatio,
		Drawdown:       cfg.CPPI.Drawdown,
		RiskFreeRate:   cfg.CPPI.RiskFreeRate,
		StartValue:     cfg.CPPI.StartValue,
		PeriodsPerYear: cfg.Metrics.PeriodsPerYear,
	}
	flags := cmd.Flags()
	if flags.Changed("multiplier") {
		c.Multiplier = cppiMultiplier
	}
	if flags.Changed("cushion") {
		c.CushionRatio = cppiCushion
	}
	if flags.Changed("drawdown") {
		c.Drawdown = nil
		if cppiDrawdown > 0 {
			d := cppiDrawdown
			c.Drawdown = &d
		}
	}
	if flags.Changed("start") {
		c.StartValue = cppiStart
	}
	if flags.Changed("risk-free") {
		c.RiskFreeRate = cppiRiskFree
	}
	return c
}

func runCPPI(cmd *cobra.Command, args []string) error {
	if cppiReturns == "" {
		return fmt.Errorf("--returns is required")
	}
	risky, err := loadTable(cppiReturns, cppiPercent)
	if err != nil {
		return err
	}
	if risky, err = selectColumns(risky, cppiColumns); err != nil {
		return err
	}

	c := cppiConfig(cmd)
	if cppiSafe != "" {
		if c.SafeReturns, err = loadTable(cppiSafe, cppiPercent); err != nil {
			return err
		}
	}

	sim, err := cppi.NewSimulator(c, log)
	if err != nil {
		return err
	}
	history, err := sim.Run(risky)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("CPPI  m=%.2f  floor=%.2f  start=%.2f", c.Multiplier, c.CushionRatio, c.StartValue))
	return printCPPI(cmd, history, c.StartValue)
}

func printCPPI(cmd *cobra.Command, h *cppi.History, start float64) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "\tFinal Wealth\tRisky Only\tFinal Floor\tMax DD\tRisky Max DD\tFloor Breaches\t")
	last := h.Wealth.Rows() - 1
	for j, name := range h.Wealth.Columns() {
		wealth := prepend(start, h.Wealth.Column(j))
		risky := prepend(start, h.RiskyWealth.Column(j))
		breaches := 0
		for i := 0; i <= last; i++ {
			if h.Wealth.At(i, j) < h.Floor.At(i, j) {
				breaches++
			}
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.4f\t%.4f\t%d\t\n",
			name, h.Wealth.At(last, j), h.RiskyWealth.At(last, j), h.Floor.At(last, j),
			maxDrawdown(wealth), maxDrawdown(risky), breaches)
	}
	return tw.Flush()
}

func runCPPIMonteCarlo(cmd *cobra.Command, args []string) error {
	c := cppiConfig(cmd)
	sim, err := cppi.NewSimulator(c, log)
	if err != nil {
		return err
	}

	scenarios := assetmodel.DefaultConfig()
	scenarios.Mu = mcMu
	scenarios.Sigma = mcSigma
	scenarios.Years = mcYears
	scenarios.Scenarios = mcScenarios
	scenarios.Seed = mcSeed

	history, err := sim.MonteCarlo(scenarios)
	if err != nil {
		return err
	}

	finals := lastRow(history.Wealth)
	risky := lastRow(history.RiskyWealth)
	floor := c.CushionRatio * c.StartValue
	below := 0
	for _, v := range finals {
		if v < floor {
			below++
		}
	}

	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("CPPI Monte Carlo  %d scenarios  μ=%.2f σ=%.2f  %.0fy", mcScenarios, mcMu, mcSigma, mcYears))
	tw := newTable(out)
	fmt.Fprintln(tw, "\tMean\t5th pct\tMedian\t95th pct\t")
	fmt.Fprintf(tw, "CPPI\t%.2f\t%.2f\t%.2f\t%.2f\t\n", formulas.Mean(finals),
		formulas.Percentile(finals, 5), formulas.Percentile(finals, 50), formulas.Percentile(finals, 95))
	fmt.Fprintf(tw, "Risky only\t%.2f\t%.2f\t%.2f\t%.2f\t\n", formulas.Mean(risky),
		formulas.Percentile(risky, 5), formulas.Percentile(risky, 50), formulas.Percentile(risky, 95))
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Scenarios ending below the initial floor: %d/%d\n", below, len(finals))
	return nil
}

func lastRow(f *timeseries.Frame) []float64 {
	return f.Row(f.Rows() - 1)
}

func prepend(v float64, values []float64) []float64 {
	return append([]float64{v}, values...)
}

func maxDrawdown(prices []float64) float64 {
	if dd := formulas.CalculateMaxDrawdown(prices); dd != nil {
		return *dd
	}
	return 0
}
