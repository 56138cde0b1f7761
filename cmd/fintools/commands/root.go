// Package commands implements the fintools subcommands.
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/fintools/internal/config"
	"github.com/aristath/fintools/internal/dataset"
	"github.com/aristath/fintools/internal/timeseries"
	"github.com/aristath/fintools/pkg/logger"
)

var (
	// Global flags
	configFile string
	verbose    bool
	sheet      string

	cfg *config.Config
	log = zerolog.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fintools",
	Short: "Portfolio construction and risk toolbox",
	Long: `fintools runs portfolio optimizers, allocation backtests and
portfolio insurance simulations on return tables stored as CSV or XLSX.

Tables have a header row and dates in the first column
(2006-01-02, 20060102 or 200601).

Examples:
  fintools metrics --returns ind30_m_vw_rets.csv --percent
  fintools cppi --returns ind30_m_vw_rets.csv --percent --column Steel --drawdown 0.25
  fintools optimize --returns ind30_m_vw_rets.csv --percent --method max-sharpe`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&sheet, "sheet", "", "sheet name for XLSX inputs (default: first sheet)")
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log = logger.New(logger.Config{
		Level:  level,
		Pretty: cfg.Logging.Pretty,
		Output: cmd.ErrOrStderr(),
	}).With().
		Str("run_id", uuid.New().String()).
		Str("command", cmd.Name()).
		Logger()
	logger.SetGlobalLogger(log)

	log.Debug().Str("config", configFile).Msg("Configuration loaded")
	return nil
}

// loadTable reads a CSV or XLSX table depending on the file extension.
func loadTable(path string, percent bool) (*timeseries.Frame, error) {
	opts := dataset.Options{Percent: percent}
	var (
		frame *timeseries.Frame
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		frame, err = dataset.ReadXLSX(path, sheet, opts)
	default:
		frame, err = dataset.ReadCSVFile(path, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Info().
		Str("path", path).
		Int("rows", frame.Rows()).
		Int("columns", frame.Cols()).
		Msg("Loaded table")
	return frame, nil
}

// selectColumns narrows a frame to a comma-separated column list; an empty
// list keeps every column.
func selectColumns(frame *timeseries.Frame, list string) (*timeseries.Frame, error) {
	if strings.TrimSpace(list) == "" {
		return frame, nil
	}
	names := strings.Split(list, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return frame.Select(names...)
}
