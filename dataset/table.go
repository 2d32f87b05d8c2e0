// Package dataset holds the in-memory table that feeds preprocessing: ordered
// headers plus ordered string rows, exactly as read from the source file.
package dataset

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/tabml/pkg/errors"
)

// NumericSampleSize is how many leading values of a column are inspected to
// decide whether the column is numeric.
const NumericSampleSize = 10

// Table is an immutable header + rows view of tabular data. Every row has
// exactly len(Headers()) cells.
type Table struct {
	headers []string
	rows    [][]string
	index   map[string]int
}

// NewTable validates headers and rows and returns a Table. Headers must be
// unique ignoring case; every row must have one cell per header.
func NewTable(headers []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(h)
		if _, dup := index[key]; dup {
			return nil, errors.NewValidationError("headers", "duplicate column name", h)
		}
		index[key] = i
	}
	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, errors.Wrapf(
				errors.NewDimensionError("NewTable", len(headers), len(row), 1),
				"row %d", i)
		}
	}
	return &Table{headers: headers, rows: rows, index: index}, nil
}

// Headers returns the column names in file order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// Rows returns the rows in file order. The slice is shared; callers must not
// modify it.
func (t *Table) Rows() [][]string {
	return t.rows
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.headers)
}

// ColumnIndex finds a column by name, ignoring case.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[strings.ToLower(name)]
	return i, ok
}

// Column returns a copy of column i.
func (t *Table) Column(i int) []string {
	col := make([]string, len(t.rows))
	for r, row := range t.rows {
		col[r] = row[i]
	}
	return col
}

// IsNumericColumn reports whether the first NumericSampleSize values of
// column i all parse as numbers. An empty table has no numeric columns.
func (t *Table) IsNumericColumn(i int) bool {
	return IsNumeric(t.rows, i)
}

// NumericColumns lists the names of the numeric columns.
func (t *Table) NumericColumns() []string {
	var out []string
	for i, h := range t.headers {
		if t.IsNumericColumn(i) {
			out = append(out, h)
		}
	}
	return out
}

// CategoricalColumns lists the names of the non-numeric columns.
func (t *Table) CategoricalColumns() []string {
	var out []string
	for i, h := range t.headers {
		if !t.IsNumericColumn(i) {
			out = append(out, h)
		}
	}
	return out
}

// IsNumeric applies the numeric-column heuristic to column col of rows.
func IsNumeric(rows [][]string, col int) bool {
	n := len(rows)
	if n == 0 {
		return false
	}
	if n > NumericSampleSize {
		n = NumericSampleSize
	}
	for _, row := range rows[:n] {
		if _, err := ParseFloat(row[col]); err != nil {
			return false
		}
	}
	return true
}

// ParseFloat parses a cell as float64 after trimming surrounding spaces.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
