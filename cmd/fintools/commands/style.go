package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// styleCmd represents the style command
var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Return-based style analysis",
	Long: `Explains one column as the long-only, fully invested mix of the other
columns that minimizes tracking error.

Example:
  fintools style --returns ind30_m_vw_rets.csv --percent --dependent Fund --styles Beer,Smoke,Games`,
	RunE: runStyle,
}

var (
	styleReturns   string
	stylePercent   bool
	styleDependent string
	styleColumns   string
)

func init() {
	rootCmd.AddCommand(styleCmd)

	styleCmd.Flags().StringVar(&styleReturns, "returns", "", "return table (required)")
	styleCmd.Flags().BoolVar(&stylePercent, "percent", false, "values are percentages")
	styleCmd.Flags().StringVar(&styleDependent, "dependent", "", "column to explain (required)")
	styleCmd.Flags().StringVar(&styleColumns, "styles", "", "comma-separated explanatory columns (default: every other column)")
	styleCmd.MarkFlagRequired("returns")
	styleCmd.MarkFlagRequired("dependent")
}

func runStyle(cmd *cobra.Command, args []string) error {
	returns, err := loadTable(styleReturns, stylePercent)
	if err != nil {
		return err
	}
	dependent, err := returns.ColumnByName(styleDependent)
	if err != nil {
		return err
	}

	explanatory := returns
	if styleColumns != "" {
		explanatory, err = selectColumns(returns, styleColumns)
	} else {
		var others []string
		for _, name := range returns.Columns() {
			if name != styleDependent {
				others = append(others, name)
			}
		}
		explanatory, err = returns.Select(others...)
	}
	if err != nil {
		return err
	}

	res, err := newOptimizer().StyleAnalysis(dependent, explanatory)
	if err != nil {
		return err
	}
	weights, err := res.Labeled(explanatory.Columns())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("Style analysis of %s", styleDependent))
	if err := printWeights(out, weights); err != nil {
		return err
	}
	fmt.Fprintf(out, "Tracking error %.6f  Success %t (%s)\n", res.Objective, res.Success, res.Status)
	return nil
}
