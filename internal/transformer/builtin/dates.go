// Package builtin holds the standardisation hooks applied to f1db tables.
package builtin

import (
	"fmt"
	"time"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

// DateLayout is the year-first layout of f1db dates.
const DateLayout = "2006-01-02"

// Date converts a YYYY-MM-DD column to time.Time in UTC. Cells already holding
// a time.Time are kept, so the hook works with or without a typed read. Any
// other cell fails the hook.
type Date struct {
	Column string
}

// Apply rewrites the column in place.
func (d Date) Apply(t *table.Table) (*table.Table, error) {
	if err := rewrite(t, d.Column, parseDate); err != nil {
		return nil, err
	}
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	tm, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q as date: %v", dtype.ErrInvalidValue, s, err)
	}
	return tm, nil
}

// TimeOfDay converts an HH:MM:SS column to time.Time on dtype.PlaceholderDate.
// Only the clock part of the result is meaningful.
type TimeOfDay struct {
	Column string
}

// Apply rewrites the column in place.
func (d TimeOfDay) Apply(t *table.Table) (*table.Table, error) {
	if err := rewrite(t, d.Column, dtype.ParseTimeOfDay); err != nil {
		return nil, err
	}
	return t, nil
}

func rewrite(t *table.Table, name string, parse func(string) (time.Time, error)) error {
	c, ok := t.Column(name)
	if !ok {
		return fmt.Errorf("standardize: %w: %q", table.ErrColumnNotFound, name)
	}
	out := make([]any, len(c.Values))
	for row, v := range c.Values {
		switch x := v.(type) {
		case nil:
		case time.Time:
			out[row] = x
		case string:
			tm, err := parse(x)
			if err != nil {
				return fmt.Errorf("standardize: column %q row %d: %w", name, row, err)
			}
			out[row] = tm
		default:
			return fmt.Errorf("standardize: column %q row %d: unexpected %T value", name, row, v)
		}
	}
	return t.SetColumn(&table.Column{Name: name, Kind: dtype.KindDateTime, Values: out})
}
