package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColumnType distinguishes numeric columns from free-text ones.
type ColumnType int

const (
	ColumnString ColumnType = iota
	ColumnNumber
)

// Column is a single typed column. For numeric columns empty cells are
// stored as NaN so reducers can skip them; string columns keep the raw cell.
type Column struct {
	Name string
	Type ColumnType

	strs []string
	nums []float64
}

// IsNumeric reports whether every non-empty cell of the column parsed as a number.
func (c *Column) IsNumeric() bool { return c.Type == ColumnNumber }

// Number returns the numeric value at row i. Valid only for numeric columns;
// empty cells come back as NaN.
func (c *Column) Number(i int) float64 { return c.nums[i] }

// String returns the raw cell at row i of a string column.
func (c *Column) String(i int) string { return c.strs[i] }

// Cell renders the value at row i as a string regardless of column type.
// Numeric cells use the shortest representation that round-trips.
func (c *Column) Cell(i int) string {
	if c.Type == ColumnNumber {
		v := c.nums[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return c.strs[i]
}

// Table is one of the two fixed datasets: a named, column-typed set of rows,
// immutable after construction.
type Table struct {
	Name string

	cols  []Column
	index map[string]int
	rows  int
}

// NewTable builds a Table from a CSV header and its data rows.
// Column types are inferred: a column is numeric when it has at least one
// non-empty cell and every non-empty cell parses as a float.
func NewTable(name string, header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("table %s: empty header", name)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("table %s: blank column name at position %d", name, i)
		}
		if _, dup := index[h]; dup {
			return nil, fmt.Errorf("table %s: duplicate column %q", name, h)
		}
		header[i] = h
		index[h] = i
	}

	for r, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("table %s: row %d has %d fields, header has %d", name, r+1, len(row), len(header))
		}
	}

	cols := make([]Column, len(header))
	for i, h := range header {
		cols[i] = buildColumn(h, rows, i)
	}

	return &Table{Name: name, cols: cols, index: index, rows: len(rows)}, nil
}

func buildColumn(name string, rows [][]string, idx int) Column {
	numeric := false
	for _, row := range rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return stringColumn(name, rows, idx)
		}
		numeric = true
	}
	if !numeric {
		return stringColumn(name, rows, idx)
	}

	nums := make([]float64, len(rows))
	for r, row := range rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			nums[r] = math.NaN()
			continue
		}
		v, _ := strconv.ParseFloat(cell, 64)
		nums[r] = v
	}
	return Column{Name: name, Type: ColumnNumber, nums: nums}
}

func stringColumn(name string, rows [][]string, idx int) Column {
	strs := make([]string, len(rows))
	for r, row := range rows {
		strs[r] = strings.TrimSpace(row[idx])
	}
	return Column{Name: name, Type: ColumnString, strs: strs}
}

// Rows returns the number of data rows.
func (t *Table) Rows() int { return t.rows }

// ColumnNames returns the column names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.cols[i], true
}
