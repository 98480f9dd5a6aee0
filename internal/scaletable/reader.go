package scaletable

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// HeaderLabel is the expected column label of the scale-factor table.
const HeaderLabel = "lK_scale_value"

// HeaderError reports a table whose first non-blank line is not the
// expected column label.
type HeaderError struct {
	// Found is the first non-blank line (or row) encountered, empty when
	// the table has no content at all.
	Found string
}

// Error implements the error interface for HeaderError.
func (e *HeaderError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("scale table: missing header %q", HeaderLabel)
	}
	return fmt.Sprintf("scale table: expected header %q, found %q", HeaderLabel, e.Found)
}

// RowError reports a non-blank row that does not parse as a single number.
type RowError struct {
	// Line is the 1-based line (or row) number within the table.
	Line int

	// Content is the offending row content.
	Content string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface for RowError.
func (e *RowError) Error() string {
	return fmt.Sprintf("scale table: line %d: cannot parse %q as a number", e.Line, e.Content)
}

// Unwrap returns the underlying parse error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Read parses the scale-factor table at the given path, dispatching on
// the file extension: .xlsx selects the workbook reader, anything else
// the plain-text reader. The returned list preserves file order.
func Read(path string) ([]float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	return ReadText(path)
}

// ReadText parses a plain-text scale-factor table: one header line
// followed by one numeric value per non-blank line.
func ReadText(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scale table %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var (
		factors    []float64
		headerSeen bool
		lineNo     int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !headerSeen {
			if !headerMatches(line) {
				return nil, &HeaderError{Found: line}
			}
			headerSeen = true
			continue
		}

		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, &RowError{Line: lineNo, Content: line, Err: err}
		}
		factors = append(factors, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scale table %q: %w", path, err)
	}
	if !headerSeen {
		return nil, &HeaderError{}
	}
	return factors, nil
}

// headerMatches checks the first field of a candidate header line against
// the expected column label, case-insensitively. Extra columns after the
// label are tolerated.
func headerMatches(line string) bool {
	field := line
	if i := strings.IndexAny(line, " \t,;"); i >= 0 {
		field = line[:i]
	}
	return strings.EqualFold(field, HeaderLabel)
}
