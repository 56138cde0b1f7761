package timeseries

import "errors"

var (
	// ErrDimensionMismatch is returned when vector lengths, column counts or
	// matrix ranks disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrEmptyFrame is returned when an operation needs at least one row or column.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrUnknownColumn is returned when a column name is not in the frame.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnknownTimestamp is returned when a timestamp is not in the index.
	ErrUnknownTimestamp = errors.New("unknown timestamp")
	// ErrUnsortedIndex is returned when timestamps are not strictly increasing.
	ErrUnsortedIndex = errors.New("index not strictly increasing")
)
