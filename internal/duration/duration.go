// Package duration converts lap and session time strings of the form
// [[H:]M:]S[.sss] into whole milliseconds.
//
// Components are read right to left: the last component is seconds (with an
// optional fraction), the one before it minutes and the first one hours.
// Missing cells stay missing; a missing duration is never a duration of zero.
package duration

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is returned for cells that are not valid duration strings.
var ErrMalformed = errors.New("malformed duration")

// scales holds seconds per component, seconds first.
var scales = [...]float64{1, 60, 3600}

// MaxParts is the largest number of colon-separated components accepted.
const MaxParts = len(scales)

// ParseMillis converts a single duration string to milliseconds. Whitespace is
// not trimmed: "1:23.456 " is rejected rather than misread.
func ParseMillis(s string) (uint32, error) {
	parts := strings.Split(s, ":")
	if len(parts) > MaxParts {
		return 0, fmt.Errorf("%w: %q has %d components, at most %d allowed", ErrMalformed, s, len(parts), MaxParts)
	}

	var ms float64
	for i := range parts {
		p := parts[len(parts)-1-i]
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: component %q is not a number", ErrMalformed, s, p)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return 0, fmt.Errorf("%w: %q: component %q out of range", ErrMalformed, s, p)
		}
		ms += f * scales[i] * 1000
	}

	ms = math.Round(ms)
	if ms > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %q exceeds %d ms", ErrMalformed, s, uint32(math.MaxUint32))
	}
	return uint32(ms), nil
}

// ParseColumn converts a column of cells. Each output value is a uint32 or nil
// for missing input (nil or ""), aligned with the input rows. The first
// malformed cell aborts the whole column.
func ParseColumn(values []any) ([]any, error) {
	out := make([]any, len(values))
	for row, v := range values {
		var s string
		switch x := v.(type) {
		case nil:
			continue
		case string:
			s = x
		default:
			return nil, fmt.Errorf("%w: row %d: unexpected %T value %v", ErrMalformed, row, v, v)
		}
		if s == "" {
			continue
		}
		ms, err := ParseMillis(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		out[row] = ms
	}
	return out, nil
}
