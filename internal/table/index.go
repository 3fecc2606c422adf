package table

import (
	"fmt"
	"time"

	"github.com/aneroid/ergast-f1db-extra/pkg/records"
)

// SetIndex makes rows addressable by the values of the named column. The
// column stays an ordinary column. Missing or repeated identifiers fail.
func (t *Table) SetIndex(name string) error {
	c, ok := t.Column(name)
	if !ok {
		return fmt.Errorf("index: %w: %q", ErrColumnNotFound, name)
	}
	idx := make(map[any]int, len(c.Values))
	for row, v := range c.Values {
		if isMissing(v) {
			return fmt.Errorf("index: column %q row %d: missing identifier", name, row)
		}
		k := indexKey(v)
		if prev, dup := idx[k]; dup {
			return fmt.Errorf("index: %w %v in column %q (rows %d and %d)", ErrDuplicateKey, v, name, prev, row)
		}
		idx[k] = row
	}
	t.indexCol = name
	t.index = idx
	return nil
}

// IndexColumn returns the name of the identifier column, or "" when the table
// is not indexed.
func (t *Table) IndexColumn() string { return t.indexCol }

// Position returns the row position holding id.
func (t *Table) Position(id any) (int, bool) {
	if t.index == nil {
		return 0, false
	}
	row, ok := t.index[indexKey(id)]
	return row, ok
}

// Lookup returns the row identified by id. Integer identifiers match across
// Go integer widths, so Lookup(1) finds an int32 or uint32 identifier of 1.
func (t *Table) Lookup(id any) (records.Record, bool) {
	row, ok := t.Position(id)
	if !ok {
		return nil, false
	}
	return t.Row(row), true
}

func indexKey(v any) any {
	if i, ok := asInt(v); ok {
		return i
	}
	switch x := v.(type) {
	case float32:
		return float64(x)
	case time.Time:
		return x.UTC()
	}
	return v
}
