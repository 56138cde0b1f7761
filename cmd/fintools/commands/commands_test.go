package commands

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTable writes a monthly CSV table starting January 2020.
func writeTable(t *testing.T, columns []string, rows [][]float64) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date," + strings.Join(columns, ",") + "\n")
	month := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, row := range rows {
		b.WriteString(month.AddDate(0, i, 0).Format("200601"))
		for _, v := range row {
			fmt.Fprintf(&b, ",%g", v)
		}
		b.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func waveReturns(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		x := float64(i)
		rows[i] = []float64{0.01 + 0.04*math.Sin(x), 0.008 + 0.03*math.Cos(1.7*x), 0.005 + 0.02*math.Sin(2.3*x+1)}
	}
	return rows
}

func TestMetricsCommand(t *testing.T) {
	path := writeTable(t, []string{"Food", "Beer", "Smoke"}, waveReturns(36))

	out, err := execute(t, "metrics", "--returns", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Return metrics")
	for _, name := range []string{"Food", "Beer", "Smoke"} {
		assert.Contains(t, out, name)
	}
}

func TestBacktestCommand_EqualWeighted(t *testing.T) {
	rows := make([][]float64, 6)
	for i := range rows {
		rows[i] = []float64{0.01, 0.03}
	}
	path := writeTable(t, []string{"A", "B"}, rows)

	out, err := execute(t, "backtest", "--returns", path, "--scheme", "ew", "--window", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "scheme=ew  window=3")
	assert.Contains(t, out, "Growth of 1: 1.0612")
}

func TestSimulateCommand_Drift(t *testing.T) {
	path := writeTable(t, []string{"A", "B"}, [][]float64{{1, 1}, {1.5, 1}, {2, 1}})

	out, err := execute(t, "simulate", "--prices", path, "--weights", "0.5,0.5", "--strategy", "drift")
	require.NoError(t, err)
	assert.Contains(t, out, "Final value: 1.5000")
}

func TestOptimizeCommand(t *testing.T) {
	path := writeTable(t, []string{"Food", "Beer", "Smoke"}, waveReturns(48))

	out, err := execute(t, "optimize", "--returns", path, "--method", "gmv", "--estimator", "sample")
	require.NoError(t, err)
	assert.Contains(t, out, "gmv")
	assert.Contains(t, out, "Success true")

	_, err = execute(t, "optimize", "--returns", path, "--method", "black-litterman")
	assert.ErrorContains(t, err, "unknown method")
}

func TestCPPIMonteCarloCommand(t *testing.T) {
	out, err := execute(t, "cppi", "montecarlo", "--scenarios", "20", "--years", "5", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "CPPI Monte Carlo  20 scenarios")
	assert.Contains(t, out, "Scenarios ending below the initial floor: 0/20")
}

func TestCPPICommand(t *testing.T) {
	rows := waveReturns(24)
	for i := range rows {
		rows[i] = rows[i][:1]
	}
	path := writeTable(t, []string{"Steel"}, rows)

	out, err := execute(t, "cppi", "--returns", path, "--column", "Steel", "--multiplier", "4", "--drawdown", "0.2")
	require.NoError(t, err)
	assert.Contains(t, out, "m=4.00")
	assert.Contains(t, out, "Steel")
}

func TestFactorsCommand(t *testing.T) {
	n := 24
	factorRows := make([][]float64, n)
	fundRows := make([][]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		mkt, smb, hml, rf := 4*math.Sin(x), 2*math.Cos(1.3*x), 1.5*math.Sin(2.1*x), 0.3
		factorRows[i] = []float64{mkt, smb, hml, rf}
		fundRows[i] = []float64{rf + 0.2 + 1.1*mkt - 0.5*smb + 0.2*hml}
	}
	factorsPath := writeTable(t, []string{"Mkt-RF", "SMB", "HML", "RF"}, factorRows)
	fundPath := writeTable(t, []string{"Fund"}, fundRows)

	out, err := execute(t, "factors", "--returns", fundPath, "--percent", "--factors", factorsPath, "--model", "ff3")
	require.NoError(t, err)
	assert.Contains(t, out, "model=ff3")
	assert.Contains(t, out, "1.1000")
	assert.Contains(t, out, "1.0000")
}
