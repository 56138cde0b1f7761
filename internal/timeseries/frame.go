// Package timeseries holds the in-memory tables of returns and prices that
// every engine component consumes. A Frame is a date index times named
// columns backed by a gonum dense matrix.
package timeseries

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Frame is an immutable table of float64 values indexed by timestamp (rows)
// and column name. Slicing returns views sharing the same storage, which is
// safe because no method writes to an existing frame.
type Frame struct {
	index   []time.Time
	columns []string
	lookup  map[string]int
	data    *mat.Dense // nil when the frame has no rows
}

// NewFrame builds a frame from row-major values. The data is copied.
func NewFrame(index []time.Time, columns []string, rows [][]float64) (*Frame, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("new frame: %w", ErrEmptyFrame)
	}
	if len(index) != len(rows) {
		return nil, fmt.Errorf("new frame: %d timestamps for %d rows: %w", len(index), len(rows), ErrDimensionMismatch)
	}

	flat := make([]float64, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("new frame: row %d has %d values, want %d: %w", i, len(row), len(columns), ErrDimensionMismatch)
		}
		flat = append(flat, row...)
	}

	var data *mat.Dense
	if len(rows) > 0 {
		data = mat.NewDense(len(rows), len(columns), flat)
	}
	return newFrame(index, columns, data)
}

// FromMatrix builds a frame from a matrix whose shape must match the index
// and column lengths. The values are copied.
func FromMatrix(index []time.Time, columns []string, m mat.Matrix) (*Frame, error) {
	r, c := m.Dims()
	if r != len(index) || c != len(columns) {
		return nil, fmt.Errorf("from matrix: %dx%d matrix for %d timestamps and %d columns: %w",
			r, c, len(index), len(columns), ErrDimensionMismatch)
	}
	if c == 0 {
		return nil, fmt.Errorf("from matrix: %w", ErrEmptyFrame)
	}
	var data *mat.Dense
	if r > 0 {
		data = mat.DenseCopyOf(m)
	}
	return newFrame(index, columns, data)
}

func newFrame(index []time.Time, columns []string, data *mat.Dense) (*Frame, error) {
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return nil, fmt.Errorf("row %d (%s): %w", i, index[i].Format(time.DateOnly), ErrUnsortedIndex)
		}
	}

	lookup := make(map[string]int, len(columns))
	for j, name := range columns {
		if _, dup := lookup[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		lookup[name] = j
	}

	return &Frame{
		index:   append([]time.Time(nil), index...),
		columns: append([]string(nil), columns...),
		lookup:  lookup,
		data:    data,
	}, nil
}

// Dims returns the number of rows and columns.
func (f *Frame) Dims() (rows, cols int) {
	return len(f.index), len(f.columns)
}

// Rows returns the number of periods.
func (f *Frame) Rows() int { return len(f.index) }

// Cols returns the number of columns.
func (f *Frame) Cols() int { return len(f.columns) }

// Index returns a copy of the timestamps.
func (f *Frame) Index() []time.Time {
	return append([]time.Time(nil), f.index...)
}

// Time returns the timestamp of row i.
func (f *Frame) Time(i int) time.Time { return f.index[i] }

// Columns returns a copy of the column names.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// ColumnIndex returns the position of a named column.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	j, ok := f.lookup[name]
	return j, ok
}

// At returns the value at row i, column j.
func (f *Frame) At(i, j int) float64 {
	return f.data.At(i, j)
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []float64 {
	return mat.Row(nil, i, f.data)
}

// Column returns a copy of column j.
func (f *Frame) Column(j int) []float64 {
	if f.data == nil {
		return []float64{}
	}
	return mat.Col(nil, j, f.data)
}

// ColumnByName returns a copy of the named column.
func (f *Frame) ColumnByName(name string) ([]float64, error) {
	j, ok := f.lookup[name]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", name, ErrUnknownColumn)
	}
	return f.Column(j), nil
}

// Series returns the named column together with the index.
func (f *Frame) Series(name string) (*Series, error) {
	values, err := f.ColumnByName(name)
	if err != nil {
		return nil, err
	}
	return &Series{Name: name, Index: f.Index(), Values: values}, nil
}

// RowOf returns the row position of timestamp t.
func (f *Frame) RowOf(t time.Time) (int, error) {
	for i, ts := range f.index {
		if ts.Equal(t) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s: %w", t.Format(time.DateOnly), ErrUnknownTimestamp)
}

// Matrix returns the underlying values. Callers must not modify it.
// Returns nil for a frame without rows.
func (f *Frame) Matrix() mat.Matrix {
	if f.data == nil {
		return nil
	}
	return f.data
}

// Slice returns the rows [start, end) as a view over the same storage.
func (f *Frame) Slice(start, end int) (*Frame, error) {
	if start < 0 || end > len(f.index) || start > end {
		return nil, fmt.Errorf("slice [%d,%d) of %d rows: %w", start, end, len(f.index), ErrDimensionMismatch)
	}
	view := &Frame{
		index:   f.index[start:end:end],
		columns: f.columns,
		lookup:  f.lookup,
	}
	if start < end {
		view.data = f.data.Slice(start, end, 0, len(f.columns)).(*mat.Dense)
	}
	return view, nil
}

// Select returns a new frame holding only the named columns, in that order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	rows := make([][]float64, f.Rows())
	for i := range rows {
		rows[i] = make([]float64, len(names))
	}
	for k, name := range names {
		j, ok := f.lookup[name]
		if !ok {
			return nil, fmt.Errorf("select %q: %w", name, ErrUnknownColumn)
		}
		for i := range rows {
			rows[i][k] = f.data.At(i, j)
		}
	}
	return NewFrame(f.index, names, rows)
}

// Apply returns a new frame with fn applied to every value.
func (f *Frame) Apply(fn func(v float64) float64) *Frame {
	out := &Frame{index: f.index, columns: f.columns, lookup: f.lookup}
	if f.data != nil {
		var d mat.Dense
		d.Apply(func(_, _ int, v float64) float64 { return fn(v) }, f.data)
		out.data = &d
	}
	return out
}

// Returns converts a price table into simple returns. The first row is
// dropped since it has no previous price.
func (f *Frame) Returns() (*Frame, error) {
	if f.Rows() < 2 {
		return nil, fmt.Errorf("returns from %d prices: %w", f.Rows(), ErrEmptyFrame)
	}
	r, c := f.Dims()
	out := mat.NewDense(r-1, c, nil)
	for i := 1; i < r; i++ {
		for j := 0; j < c; j++ {
			prev := f.data.At(i-1, j)
			if prev != 0 {
				out.Set(i-1, j, f.data.At(i, j)/prev-1)
			}
		}
	}
	return &Frame{index: f.index[1:], columns: f.columns, lookup: f.lookup, data: out}, nil
}
