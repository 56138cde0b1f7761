package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aristath/fintools/internal/timeseries"
)

// ReadXLSX loads a sheet laid out like the CSV tables: a header row, dates
// in the first column. An empty sheet name selects the first sheet.
func ReadXLSX(path, sheet string, opts Options) (*timeseries.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: no sheets: %w", path, timeseries.ErrEmptyFrame)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}

	frame, err := fromRecords(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	return frame, nil
}
