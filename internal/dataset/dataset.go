// Package dataset loads date-indexed tables of prices or returns from CSV
// and spreadsheet files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/fintools/internal/timeseries"
)

// ErrMissingValue is returned for empty or "nan" cells. Callers clean
// their data before loading it.
var ErrMissingValue = errors.New("missing value")

// Options control how cells are interpreted.
type Options struct {
	// Percent divides every value by 100.
	Percent bool
	// Layout forces a date layout instead of guessing it from the cell.
	Layout string
}

// dateLayouts are tried in order when no layout is forced.
var dateLayouts = []string{time.DateOnly, "20060102", "200601", "2006-01", "01/02/2006"}

// ParseDate reads a date cell. Month-only dates (YYYYMM, YYYY-MM) map to
// the last day of the month.
func ParseDate(cell, layout string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	layouts := dateLayouts
	if layout != "" {
		layouts = []string{layout}
	}
	for _, l := range layouts {
		if len(cell) != len(l) {
			continue
		}
		t, err := time.Parse(l, cell)
		if err != nil {
			continue
		}
		if l == "200601" || l == "2006-01" {
			t = timeseries.MonthlyIndex(t, 1)[0]
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", cell)
}

// ReadCSV parses a table whose header row names the columns and whose first
// column holds dates.
func ReadCSV(r io.Reader, opts Options) (*timeseries.Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records, opts)
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string, opts Options) (*timeseries.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	frame, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

func fromRecords(records [][]string, opts Options) (*timeseries.Frame, error) {
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("need a header with a date column and at least one value column: %w", timeseries.ErrEmptyFrame)
	}

	columns := make([]string, len(records[0])-1)
	for j, name := range records[0][1:] {
		columns[j] = strings.TrimSpace(name)
	}

	index := make([]time.Time, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if len(record) != len(columns)+1 {
			return nil, fmt.Errorf("line %d: %d cells, want %d: %w", line, len(record), len(columns)+1, timeseries.ErrDimensionMismatch)
		}
		t, err := ParseDate(record[0], opts.Layout)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := make([]float64, len(columns))
		for j, cell := range record[1:] {
			v, err := parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, columns[j], err)
			}
			if opts.Percent {
				v /= 100
			}
			row[j] = v
		}
		index = append(index, t)
		rows = append(rows, row)
	}
	return timeseries.NewFrame(index, columns, rows)
}

func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return 0, ErrMissingValue
	}
	return strconv.ParseFloat(cell, 64)
}
