package timeseries

import "time"

// MonthlyIndex returns n month-end timestamps starting at the month of start.
func MonthlyIndex(start time.Time, n int) []time.Time {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	index := make([]time.Time, n)
	for i := range index {
		index[i] = first.AddDate(0, i+1, -1)
	}
	return index
}
