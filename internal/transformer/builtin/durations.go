package builtin

import (
	"fmt"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/duration"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

// Pair names a duration source column and the millisecond column derived
// from it.
type Pair struct {
	Src string
	Dst string
}

// Durations adds a nullable UInt32 millisecond column for each pair. Source
// columns are kept.
type Durations struct {
	Pairs []Pair
}

// Apply adds the millisecond columns.
func (d Durations) Apply(t *table.Table) (*table.Table, error) {
	for _, p := range d.Pairs {
		src, ok := t.Column(p.Src)
		if !ok {
			return nil, fmt.Errorf("standardize: %w: %q", table.ErrColumnNotFound, p.Src)
		}
		ms, err := duration.ParseColumn(src.Values)
		if err != nil {
			return nil, fmt.Errorf("standardize: column %q: %w", p.Src, err)
		}
		if err := t.SetColumn(&table.Column{Name: p.Dst, Kind: dtype.KindUInt32, Values: ms}); err != nil {
			return nil, err
		}
	}
	return t, nil
}
