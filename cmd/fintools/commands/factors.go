package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/fintools/internal/modules/factors"
)

// factorsCmd represents the factors command
var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Fama-French factor regression",
	Long: `Regresses the excess returns of each selected column on the market,
size, value, profitability and investment factors.

The factor table must carry the Mkt-RF, SMB, HML, RF (and RMW, CMA for ff5)
columns of the Fama-French data library, in percent.

Example:
  fintools factors --returns ind30_m_vw_rets.csv --percent --factors F-F_Research_Data_Factors_m.csv --model ff3`,
	RunE: runFactors,
}

var (
	factorsReturns string
	factorsColumns string
	factorsPercent bool
	factorsTable   string
	factorsModel   string
)

func init() {
	rootCmd.AddCommand(factorsCmd)

	factorsCmd.Flags().StringVar(&factorsReturns, "returns", "", "return table (required)")
	factorsCmd.Flags().StringVar(&factorsColumns, "columns", "", "comma-separated columns (default: all)")
	factorsCmd.Flags().BoolVar(&factorsPercent, "percent", false, "returns are percentages")
	factorsCmd.Flags().StringVar(&factorsTable, "factors", "", "Fama-French factor table in percent (required)")
	factorsCmd.Flags().StringVar(&factorsModel, "model", "ff3", "capm|ff3|ff5")
	factorsCmd.MarkFlagRequired("returns")
	factorsCmd.MarkFlagRequired("factors")
}

func runFactors(cmd *cobra.Command, args []string) error {
	model, err := factors.ParseModel(factorsModel)
	if err != nil {
		return err
	}
	returns, err := loadTable(factorsReturns, factorsPercent)
	if err != nil {
		return err
	}
	if returns, err = selectColumns(returns, factorsColumns); err != nil {
		return err
	}
	table, err := loadTable(factorsTable, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("Factor regression  model=%s", model))
	tw := newTable(out)
	terms := model.Terms()
	for _, term := range terms {
		fmt.Fprintf(tw, "\t%s", term)
	}
	fmt.Fprintln(tw, "\tR²\t")
	for _, name := range returns.Columns() {
		series, err := returns.Series(name)
		if err != nil {
			return err
		}
		reg, err := factors.Regress(series, table, model)
		if err != nil {
			return fmt.Errorf("%s: %w", series.Name, err)
		}
		fmt.Fprint(tw, series.Name)
		for _, c := range reg.Coefficients {
			fmt.Fprintf(tw, "\t%.4f", c)
		}
		fmt.Fprintf(tw, "\t%.4f\t\n", reg.RSquared)
	}
	return tw.Flush()
}
