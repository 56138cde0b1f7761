package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aristath/fintools/internal/timeseries"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestParseDate(t *testing.T) {
	tests := []struct {
		cell string
		want time.Time
	}{
		{"2020-03-15", date(2020, 3, 15)},
		{"20200315", date(2020, 3, 15)},
		{"202002", date(2020, 2, 29)},
		{"1926-07", date(1926, 7, 31)},
		{" 199912 ", date(1999, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := ParseDate(tt.cell, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDate("yesterday", "")
	assert.Error(t, err)

	got, err := ParseDate("15.03.2020", "02.01.2006")
	require.NoError(t, err)
	assert.Equal(t, date(2020, 3, 15), got)
}

func TestReadCSV(t *testing.T) {
	in := "Date,Food,Beer\n192607,0.56,-5.19\n192608,2.59,27.03\n\n192609,1.16,4.02\n"

	f, err := ReadCSV(strings.NewReader(in), Options{Percent: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Food", "Beer"}, f.Columns())
	require.Equal(t, 3, f.Rows())
	assert.Equal(t, date(1926, 7, 31), f.Time(0))
	assert.Equal(t, date(1926, 9, 30), f.Time(2))
	assert.InDelta(t, 0.0056, f.At(0, 0), 1e-12)
	assert.InDelta(t, 0.2703, f.At(1, 1), 1e-12)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"nan", "Date,A\n2020-01-31,nan\n", ErrMissingValue},
		{"empty cell", "Date,A,B\n2020-01-31,1,\n", ErrMissingValue},
		{"header only date", "Date\n2020-01-31\n", timeseries.ErrEmptyFrame},
		{"unsorted", "Date,A\n2020-02-29,1\n2020-01-31,2\n", timeseries.ErrUnsortedIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ReadCSV(strings.NewReader("Date,A\nnot-a-date,1\n"), Options{})
	assert.ErrorContains(t, err, "line 2")
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,SPY\n2021-01-04,100\n2021-01-05,101\n"), 0o644))

	f, err := ReadCSVFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 101.0, f.At(1, 0))

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "returns.xlsx")

	x := excelize.NewFile()
	defer x.Close()
	_, err := x.NewSheet("Returns")
	require.NoError(t, err)
	require.NoError(t, x.DeleteSheet("Sheet1"))
	require.NoError(t, x.SetSheetRow("Returns", "A1", &[]interface{}{"Date", "Lo 10", "Hi 10"}))
	require.NoError(t, x.SetSheetRow("Returns", "A2", &[]interface{}{"200001", 1.5, -2.0}))
	require.NoError(t, x.SetSheetRow("Returns", "A3", &[]interface{}{"200002", 0.5, 3.0}))
	require.NoError(t, x.SaveAs(path))

	f, err := ReadXLSX(path, "", Options{Percent: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lo 10", "Hi 10"}, f.Columns())
	assert.Equal(t, date(2000, 2, 29), f.Time(1))
	assert.InDelta(t, 0.015, f.At(0, 0), 1e-12)
	assert.InDelta(t, 0.03, f.At(1, 1), 1e-12)

	_, err = ReadXLSX(path, "Nope", Options{})
	assert.Error(t, err)
}
