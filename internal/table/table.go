// Package table implements the in-memory tabular result returned by the
// loader: ordered, named, typed columns of equal length, with optional
// stable sorting and an identifier index.
//
// Values are stored column-major as []any. nil marks a missing value; regular
// float columns may carry NaN instead. A Table is not safe for concurrent
// mutation; each load returns a table owned exclusively by its caller.
package table

import (
	"errors"
	"fmt"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/pkg/records"
)

var (
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateKey is returned by SetIndex when identifiers repeat.
	ErrDuplicateKey = errors.New("duplicate identifier")
)

// Column is a named, typed vector of values.
type Column struct {
	Name   string
	Kind   dtype.Kind
	Values []any
}

// Len returns the number of values in c.
func (c *Column) Len() int { return len(c.Values) }

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols   []*Column
	byName map[string]int
	rows   int

	indexCol string
	index    map[any]int
}

// New builds a table from cols. Column names must be unique and all columns
// must have the same length.
func New(cols ...*Column) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("table: column %d is nil", i)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("table: column %q has %d values, want %d", c.Name, c.Len(), t.rows)
		}
		t.byName[c.Name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are
// shared with t.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.cols...)
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// SetColumn replaces the column with the same name in place, or appends c when
// no such column exists.
func (t *Table) SetColumn(c *Column) error {
	if c == nil {
		return fmt.Errorf("table: nil column")
	}
	if len(t.cols) > 0 && c.Len() != t.rows {
		return fmt.Errorf("table: column %q has %d values, want %d", c.Name, c.Len(), t.rows)
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	if i, ok := t.byName[c.Name]; ok {
		t.cols[i] = c
		if c.Name == t.indexCol {
			return t.SetIndex(c.Name)
		}
		return nil
	}
	t.byName[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Value returns the value at row in the named column.
func (t *Table) Value(row int, name string) (any, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if row < 0 || row >= t.rows {
		return nil, fmt.Errorf("table: row %d out of range [0,%d)", row, t.rows)
	}
	return c.Values[row], nil
}

// Row returns row i as a record.
func (t *Table) Row(i int) records.Record {
	rec := make(records.Record, len(t.cols))
	for _, c := range t.cols {
		rec[c.Name] = c.Values[i]
	}
	return rec
}

// Rows returns every row as a record, in order.
func (t *Table) Rows() []records.Record {
	out := make([]records.Record, t.rows)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// RowValues returns row i aligned with ColumnNames.
func (t *Table) RowValues(i int) []any {
	vals := make([]any, len(t.cols))
	for j, c := range t.cols {
		vals[j] = c.Values[i]
	}
	return vals
}
