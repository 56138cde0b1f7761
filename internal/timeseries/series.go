package timeseries

import (
	"fmt"
	"time"
)

// Series is a single named column with its timestamps.
type Series struct {
	Name   string
	Index  []time.Time
	Values []float64
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.Values) }

// Frame turns the series into a one-column frame.
func (s *Series) Frame() (*Frame, error) {
	if len(s.Index) != len(s.Values) {
		return nil, fmt.Errorf("series %q: %d timestamps for %d values: %w",
			s.Name, len(s.Index), len(s.Values), ErrDimensionMismatch)
	}
	rows := make([][]float64, len(s.Values))
	for i, v := range s.Values {
		rows[i] = []float64{v}
	}
	return NewFrame(s.Index, []string{s.Name}, rows)
}
