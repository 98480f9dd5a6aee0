package scaletable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses a scale-factor table from an Excel workbook: the first
// column of the first sheet, with the header label in the first data row.
// Row semantics match ReadText: blank rows are skipped, any other
// malformed row is a hard error with its row number.
func ReadXLSX(path string) ([]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open scale table %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &HeaderError{}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read scale table %q: %w", path, err)
	}

	var (
		factors    []float64
		headerSeen bool
	)

	for i, row := range rows {
		cell := ""
		if len(row) > 0 {
			cell = strings.TrimSpace(row[0])
		}
		if cell == "" {
			continue
		}

		if !headerSeen {
			if !headerMatches(cell) {
				return nil, &HeaderError{Found: cell}
			}
			headerSeen = true
			continue
		}

		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &RowError{Line: i + 1, Content: cell, Err: err}
		}
		factors = append(factors, v)
	}

	if !headerSeen {
		return nil, &HeaderError{}
	}
	return factors, nil
}
