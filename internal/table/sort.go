package table

import (
	"cmp"
	"fmt"
	"math"
	"sort"
	"time"
)

// SortBy reorders rows ascending by keys, compared lexicographically in the
// given order. The sort is stable; missing values (nil, NaN) order last. Row
// positions are renumbered 0..n-1 and an existing index is rebuilt.
func (t *Table) SortBy(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	keyCols := make([]*Column, len(keys))
	for i, k := range keys {
		c, ok := t.Column(k)
		if !ok {
			return fmt.Errorf("sort: %w: %q", ErrColumnNotFound, k)
		}
		keyCols[i] = c
	}

	perm := make([]int, t.rows)
	for i := range perm {
		perm[i] = i
	}
	var cmpErr error
	sort.SliceStable(perm, func(a, b int) bool {
		for _, c := range keyCols {
			r, err := compareValues(c.Values[perm[a]], c.Values[perm[b]])
			if err != nil && cmpErr == nil {
				cmpErr = fmt.Errorf("sort: column %q: %w", c.Name, err)
			}
			if r != 0 {
				return r < 0
			}
		}
		return false
	})
	if cmpErr != nil {
		return cmpErr
	}

	for _, c := range t.cols {
		vals := make([]any, len(c.Values))
		for i, p := range perm {
			vals[i] = c.Values[p]
		}
		c.Values = vals
	}
	if t.indexCol != "" {
		return t.SetIndex(t.indexCol)
	}
	return nil
}

func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// compareValues orders two values of the same column. Missing values sort
// after everything else.
func compareValues(a, b any) (int, error) {
	am, bm := isMissing(a), isMissing(b)
	switch {
	case am && bm:
		return 0, nil
	case am:
		return 1, nil
	case bm:
		return -1, nil
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			default:
				return 1, nil
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), nil
		}
	}

	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			return cmp.Compare(ai, bi), nil
		}
	}
	if au, ok := asUint(a); ok {
		if bu, ok := asUint(b); ok {
			return cmp.Compare(au, bu), nil
		}
	}
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return cmp.Compare(af, bf), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}

func asUint(v any) (uint64, bool) {
	if x, ok := v.(uint64); ok {
		return x, true
	}
	if i, ok := asInt(v); ok && i >= 0 {
		return uint64(i), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	if u, ok := asUint(v); ok {
		return float64(u), true
	}
	return 0, false
}
