// Package dtype defines the column type vocabulary used by the metadata
// catalog and maps each declared type name onto a concrete Go value type.
//
// Two spellings exist for most types. Lower-case names ("int64", "float64",
// "bool", "object") form the regular set: integers and booleans cannot hold a
// missing value and floats fall back to NaN. Capitalised names ("Int64",
// "UInt32", "boolean", "string") are nullable-aware and store nil for missing
// cells. "datetime64" is a marker handled by the date-parsing pass rather than
// by direct coercion.
//
// Go representations:
//
//	Signed   8/16/32/64 -> int8/int16/int32/int64
//	Unsigned 8/16/32/64 -> uint8/uint16/uint32/uint64
//	Float    32/64      -> float32/float64
//	Bool                -> bool
//	String              -> string
//	DateTime            -> time.Time
package dtype

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnknownType is returned for type names outside the vocabulary.
	ErrUnknownType = errors.New("unknown type name")
	// ErrMissingValue is returned when a non-nullable kind meets a missing cell.
	ErrMissingValue = errors.New("missing value in non-nullable column")
	// ErrInvalidValue is returned when a cell cannot be converted to its kind.
	ErrInvalidValue = errors.New("invalid value")
)

// Base is the family of a Kind.
type Base int

const (
	String Base = iota
	Signed
	Unsigned
	Float
	Bool
	DateTime
)

func (b Base) String() string {
	switch b {
	case String:
		return "string"
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case DateTime:
		return "datetime"
	default:
		return fmt.Sprintf("base(%d)", int(b))
	}
}

// Kind is a resolved column type.
type Kind struct {
	Base     Base
	Bits     int  // 8, 16, 32 or 64 for numeric bases; 0 otherwise
	Nullable bool // missing values are representable as nil
}

// Common kinds.
var (
	KindString   = Kind{Base: String, Nullable: true}
	KindDateTime = Kind{Base: DateTime, Nullable: true}
	KindUInt32   = Kind{Base: Unsigned, Bits: 32, Nullable: true}
	KindInt64    = Kind{Base: Signed, Bits: 64, Nullable: true}
	KindFloat64  = Kind{Base: Float, Bits: 64}
)

// PlaceholderDate anchors values that only carry a time of day. Consumers must
// ignore the date part of such values.
var PlaceholderDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateTimeLayouts are tried in order when a datetime column is parsed.
var DateTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// TimeOfDayLayout is the layout of time-only cells ("17:28:24").
const TimeOfDayLayout = "15:04:05"

// IsDateTimeMarker reports whether name denotes the datetime marker.
func IsDateTimeMarker(name string) bool {
	n := strings.TrimSpace(name)
	return n == "datetime" || strings.HasPrefix(n, "datetime64")
}

// ParseKind resolves a declared type name.
func ParseKind(name string) (Kind, error) {
	n := strings.TrimSpace(name)
	if IsDateTimeMarker(n) {
		return KindDateTime, nil
	}
	switch n {
	case "object", "str":
		return Kind{Base: String, Nullable: true}, nil
	case "string":
		return KindString, nil
	case "bool":
		return Kind{Base: Bool}, nil
	case "boolean":
		return Kind{Base: Bool, Nullable: true}, nil
	}

	prefixes := []struct {
		prefix   string
		base     Base
		nullable bool
	}{
		{"uint", Unsigned, false},
		{"UInt", Unsigned, true},
		{"int", Signed, false},
		{"Int", Signed, true},
		{"float", Float, false},
		{"Float", Float, true},
	}
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(n, p.prefix)
		if !ok {
			continue
		}
		bits, err := strconv.Atoi(rest)
		if err != nil || !validBits(p.base, bits) {
			break
		}
		return Kind{Base: p.base, Bits: bits, Nullable: p.nullable}, nil
	}
	return Kind{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

func validBits(b Base, bits int) bool {
	switch b {
	case Float:
		return bits == 32 || bits == 64
	default:
		return bits == 8 || bits == 16 || bits == 32 || bits == 64
	}
}

// String returns the canonical type name of k.
func (k Kind) String() string {
	switch k.Base {
	case String:
		if k.Nullable {
			return "string"
		}
		return "object"
	case Bool:
		if k.Nullable {
			return "boolean"
		}
		return "bool"
	case DateTime:
		return "datetime64"
	case Signed:
		if k.Nullable {
			return fmt.Sprintf("Int%d", k.Bits)
		}
		return fmt.Sprintf("int%d", k.Bits)
	case Unsigned:
		if k.Nullable {
			return fmt.Sprintf("UInt%d", k.Bits)
		}
		return fmt.Sprintf("uint%d", k.Bits)
	case Float:
		if k.Nullable {
			return fmt.Sprintf("Float%d", k.Bits)
		}
		return fmt.Sprintf("float%d", k.Bits)
	default:
		return k.Base.String()
	}
}

// Missing returns the value stored for a missing cell.
func (k Kind) Missing() (any, error) {
	if k.Nullable || k.Base == String || k.Base == DateTime {
		return nil, nil
	}
	switch k.Base {
	case Float:
		if k.Bits == 32 {
			return float32(math.NaN()), nil
		}
		return math.NaN(), nil
	default:
		return nil, fmt.Errorf("%w (%s)", ErrMissingValue, k)
	}
}

// Parse converts a non-missing cell to the Go value of k.
func (k Kind) Parse(s string) (any, error) {
	switch k.Base {
	case String:
		return s, nil
	case Signed:
		n, err := strconv.ParseInt(s, 10, k.Bits)
		if err != nil {
			return nil, invalid(k, s, err)
		}
		switch k.Bits {
		case 8:
			return int8(n), nil
		case 16:
			return int16(n), nil
		case 32:
			return int32(n), nil
		default:
			return n, nil
		}
	case Unsigned:
		n, err := strconv.ParseUint(s, 10, k.Bits)
		if err != nil {
			return nil, invalid(k, s, err)
		}
		switch k.Bits {
		case 8:
			return uint8(n), nil
		case 16:
			return uint16(n), nil
		case 32:
			return uint32(n), nil
		default:
			return n, nil
		}
	case Float:
		f, err := strconv.ParseFloat(s, k.Bits)
		if err != nil {
			return nil, invalid(k, s, err)
		}
		if k.Bits == 32 {
			return float32(f), nil
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalid(k, s, err)
		}
		return b, nil
	case DateTime:
		return ParseDateTime(s)
	default:
		return nil, fmt.Errorf("%w: base %s", ErrUnknownType, k.Base)
	}
}

func invalid(k Kind, s string, err error) error {
	return fmt.Errorf("%w: %q as %s: %v", ErrInvalidValue, s, k, err)
}

// ParseDateTime parses s with DateTimeLayouts. A bare time of day is not a
// datetime; use ParseTimeOfDay for clock columns.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range DateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a recognised date/time", ErrInvalidValue, s)
}

// ParseTimeOfDay parses an HH:MM:SS cell onto PlaceholderDate.
func ParseTimeOfDay(s string) (time.Time, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q as time of day: %v", ErrInvalidValue, s, err)
	}
	return PlaceholderDate.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second), nil
}
