package timeseries

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) *Frame {
	t.Helper()
	index := MonthlyIndex(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 4)
	f, err := NewFrame(index, []string{"A", "B"}, [][]float64{
		{100, 50},
		{110, 50},
		{99, 55},
		{99, 44},
	})
	require.NoError(t, err)
	return f
}

func TestNewFrame(t *testing.T) {
	f := testFrame(t)

	rows, cols := f.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []string{"A", "B"}, f.Columns())
	assert.Equal(t, time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), f.Time(0))
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), f.Time(1))
	assert.Equal(t, 55.0, f.At(2, 1))
	assert.Equal(t, []float64{110, 50}, f.Row(1))
	assert.Equal(t, []float64{50, 50, 55, 44}, f.Column(1))
}

func TestNewFrame_Errors(t *testing.T) {
	index := MonthlyIndex(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2)

	tests := []struct {
		name    string
		index   []time.Time
		columns []string
		rows    [][]float64
		want    error
	}{
		{"no columns", index, nil, [][]float64{{}, {}}, ErrEmptyFrame},
		{"short row", index, []string{"A", "B"}, [][]float64{{1, 2}, {3}}, ErrDimensionMismatch},
		{"index length", index[:1], []string{"A"}, [][]float64{{1}, {2}}, ErrDimensionMismatch},
		{"unsorted", []time.Time{index[1], index[0]}, []string{"A"}, [][]float64{{1}, {2}}, ErrUnsortedIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrame(tt.index, tt.columns, tt.rows)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := NewFrame(index, []string{"A", "A"}, [][]float64{{1, 2}, {3, 4}})
	assert.Error(t, err)
}

func TestFrame_NoRows(t *testing.T) {
	f, err := NewFrame(nil, []string{"A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Rows())
	assert.Nil(t, f.Matrix())
	assert.Empty(t, f.Column(0))

	_, err = f.Returns()
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestFrame_ColumnByName(t *testing.T) {
	f := testFrame(t)

	col, err := f.ColumnByName("A")
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 110, 99, 99}, col)

	// The copy does not alias frame storage
	col[0] = -1
	assert.Equal(t, 100.0, f.At(0, 0))

	_, err = f.ColumnByName("C")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	s, err := f.Series("B")
	require.NoError(t, err)
	assert.Equal(t, "B", s.Name)
	assert.Equal(t, 4, s.Len())
}

func TestFrame_Slice(t *testing.T) {
	f := testFrame(t)

	view, err := f.Slice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Rows())
	assert.Equal(t, f.Time(1), view.Time(0))
	assert.Equal(t, []float64{99, 55}, view.Row(1))

	empty, err := f.Slice(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Rows())

	_, err = f.Slice(3, 5)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFrame_SelectAndRowOf(t *testing.T) {
	f := testFrame(t)

	sel, err := f.Select("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, sel.Columns())
	assert.Equal(t, []float64{50, 50, 55, 44}, sel.Column(0))

	_, err = f.Select("Z")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	i, err := f.RowOf(f.Time(2))
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = f.RowOf(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrUnknownTimestamp)
}

func TestFrame_Returns(t *testing.T) {
	f := testFrame(t)

	r, err := f.Returns()
	require.NoError(t, err)
	assert.Equal(t, 3, r.Rows())
	assert.Equal(t, f.Time(1), r.Time(0))
	assert.InDeltaSlice(t, []float64{0.1, -0.1, 0}, r.Column(0), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.1, -0.2}, r.Column(1), 1e-12)
}

func TestFrame_Apply(t *testing.T) {
	f := testFrame(t)

	pct := f.Apply(func(v float64) float64 { return v / 100 })
	assert.Equal(t, 1.1, pct.At(1, 0))
	assert.Equal(t, 110.0, f.At(1, 0))
}

func TestSeries_Frame(t *testing.T) {
	s := &Series{
		Name:   "X",
		Index:  MonthlyIndex(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), 2),
		Values: []float64{0.01, 0.02},
	}
	f, err := s.Frame()
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, f.Columns())
	assert.Equal(t, 0.02, f.At(1, 0))

	s.Values = s.Values[:1]
	_, err = s.Frame()
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
