package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/aristath/fintools/internal/modules/optimization"
	"github.com/aristath/fintools/internal/modules/portfolio"
	"github.com/aristath/fintools/internal/timeseries"
	"github.com/aristath/fintools/pkg/formulas"
)

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Long-only mean-variance portfolio optimization",
	Long: `Estimates annualized expected returns and covariance from a return
table and solves one of the long-only, fully invested problems.

Methods:
  min-vol     minimum volatility at --target annual return
  max-sharpe  maximum Sharpe ratio (tangency portfolio)
  gmv         global minimum variance
  hrp         hierarchical risk parity (no optimizer, always feasible)
  frontier    --points minimum-volatility portfolios across the return range

Example:
  fintools optimize --returns ind30_m_vw_rets.csv --percent --columns Food,Beer,Smoke --method gmv
  fintools optimize --returns ind30_m_vw_rets.csv --percent --method min-vol --target 0.12`,
	RunE: runOptimize,
}

var (
	optimizeReturns   string
	optimizeColumns   string
	optimizePercent   bool
	optimizeMethod    string
	optimizeTarget    float64
	optimizeEstimator string
	optimizePoints    int
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeReturns, "returns", "", "return table (required)")
	optimizeCmd.Flags().StringVar(&optimizeColumns, "columns", "", "comma-separated assets (default: all)")
	optimizeCmd.Flags().BoolVar(&optimizePercent, "percent", false, "values are percentages")
	optimizeCmd.Flags().StringVar(&optimizeMethod, "method", "max-sharpe", "min-vol|max-sharpe|gmv|hrp|frontier")
	optimizeCmd.Flags().Float64Var(&optimizeTarget, "target", 0, "target annual return for min-vol")
	optimizeCmd.Flags().StringVar(&optimizeEstimator, "estimator", "sample", "covariance estimator: sample|constant-correlation|ledoit-wolf")
	optimizeCmd.Flags().IntVar(&optimizePoints, "points", 20, "frontier points")
	optimizeCmd.MarkFlagRequired("returns")
}

func newOptimizer() *optimization.Optimizer {
	return optimization.NewOptimizer(optimization.Options{
		Debug:               cfg.Optimizer.Debug || verbose,
		ConstraintTolerance: cfg.Optimizer.ConstraintTolerance,
		MaxIterations:       cfg.Optimizer.MaxIterations,
	}, log)
}

func newEstimator(name string) (optimization.CovarianceEstimator, error) {
	switch name {
	case "sample", "":
		return optimization.SampleCovariance{}, nil
	case "constant-correlation", "cc":
		return optimization.ConstantCorrelation{}, nil
	case "ledoit-wolf", "lw":
		return optimization.LedoitWolf{}, nil
	default:
		return nil, fmt.Errorf("unknown covariance estimator: %s", name)
	}
}

// annualizedInputs returns annualized expected returns and covariance.
func annualizedInputs(returns *timeseries.Frame, est optimization.CovarianceEstimator, periodsPerYear int) ([]float64, *mat.SymDense, error) {
	mu := make([]float64, returns.Cols())
	for j := range mu {
		mu[j] = formulas.AnnualizeReturns(returns.Column(j), periodsPerYear)
	}
	cov, err := est.Estimate(returns)
	if err != nil {
		return nil, nil, err
	}
	cov.ScaleSym(float64(periodsPerYear), cov)
	return mu, cov, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	returns, err := loadTable(optimizeReturns, optimizePercent)
	if err != nil {
		return err
	}
	if returns, err = selectColumns(returns, optimizeColumns); err != nil {
		return err
	}
	est, err := newEstimator(optimizeEstimator)
	if err != nil {
		return err
	}
	mu, cov, err := annualizedInputs(returns, est, cfg.Metrics.PeriodsPerYear)
	if err != nil {
		return err
	}

	opt := newOptimizer()
	out := cmd.OutOrStdout()

	var res *optimization.Result
	switch optimizeMethod {
	case "min-vol":
		res, err = opt.MinimizeVolatility(optimizeTarget, mu, cov)
	case "max-sharpe":
		res, err = opt.MaximizeSharpeRatio(cfg.Metrics.RiskFreeRate, mu, cov, nil)
	case "gmv":
		res, err = opt.GlobalMinimumVariance(cov)
	case "hrp":
		var w []float64
		if w, err = optimization.HierarchicalRiskParity(cov, optimization.SingleLinkage); err == nil {
			res = &optimization.Result{Weights: w, Status: optimize.Success, Success: true}
			res.Objective, _ = portfolio.Volatility(w, cov)
		}
	case "frontier":
		return printFrontier(cmd, opt, mu, cov)
	default:
		return fmt.Errorf("unknown method: %s", optimizeMethod)
	}
	if err != nil {
		return err
	}
	if !res.Success {
		log.Warn().
			Str("status", res.Status.String()).
			Float64("max_violation", res.MaxViolation).
			Msg("Optimizer did not converge to a feasible point")
	}

	weights, err := res.Labeled(returns.Columns())
	if err != nil {
		return err
	}
	ret, _ := weights.Return(mu)
	vol, _ := weights.Volatility(cov)

	printHeader(out, fmt.Sprintf("%s  (%s covariance)", optimizeMethod, optimizeEstimator))
	if err := printWeights(out, weights); err != nil {
		return err
	}
	fmt.Fprintf(out, "Return %.4f  Volatility %.4f  Objective %.6f  Success %t (%s)\n",
		ret, vol, res.Objective, res.Success, res.Status)
	return nil
}

func printFrontier(cmd *cobra.Command, opt *optimization.Optimizer, mu []float64, cov mat.Symmetric) error {
	points, err := opt.EfficientFrontier(optimizePoints, mu, cov)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("Efficient frontier  (%d points)", len(points)))
	tw := newTable(out)
	fmt.Fprintln(tw, "Return\tVolatility\tSuccess\t")
	for _, p := range points {
		fmt.Fprintf(tw, "%.4f\t%.4f\t%t\t\n", p.Return, p.Volatility, p.Success)
	}
	return tw.Flush()
}
