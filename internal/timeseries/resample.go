package timeseries

import (
	"fmt"
	"time"
)

// ResampleMonthly compounds the returns of each calendar month into one
// row stamped at the month end.
func (f *Frame) ResampleMonthly() (*Frame, error) {
	if f.Rows() == 0 {
		return nil, fmt.Errorf("resample monthly: %w", ErrEmptyFrame)
	}

	var (
		index []time.Time
		rows  [][]float64
	)
	for i, t := range f.index {
		end := MonthlyIndex(t, 1)[0]
		if len(index) == 0 || !index[len(index)-1].Equal(end) {
			index = append(index, end)
			growth := make([]float64, f.Cols())
			for j := range growth {
				growth[j] = 1
			}
			rows = append(rows, growth)
		}
		growth := rows[len(rows)-1]
		for j := range growth {
			growth[j] *= 1 + f.data.At(i, j)
		}
	}
	for _, row := range rows {
		for j := range row {
			row[j]--
		}
	}
	return NewFrame(index, f.columns, rows)
}
