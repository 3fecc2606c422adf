// Package typeconf turns the metadata rows of one file into the column→kind
// map and datetime column list used by the typed CSV read.
package typeconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/metadata"
)

// ErrInvalidArgument is returned for unrecognised type sets.
var ErrInvalidArgument = errors.New("invalid argument")

// TypeSet selects which declared type of a metadata row is used.
type TypeSet int

const (
	// Off disables typed reads.
	Off TypeSet = iota
	// Regular uses reg_dtype: plain numeric types, NaN for missing floats.
	Regular
	// Extension uses ext_type: nullable-aware types.
	Extension
)

func (s TypeSet) String() string {
	switch s {
	case Off:
		return "off"
	case Regular:
		return "regular"
	case Extension:
		return "extension"
	default:
		return fmt.Sprintf("TypeSet(%d)", int(s))
	}
}

// Valid reports whether s is one of Off, Regular or Extension.
func (s TypeSet) Valid() bool { return s >= Off && s <= Extension }

// ParseTypeSet resolves a type-set name. "", "off" and "none" select Off.
func ParseTypeSet(name string) (TypeSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "off", "none":
		return Off, nil
	case "regular", "reg":
		return Regular, nil
	case "extension", "ext":
		return Extension, nil
	default:
		return Off, fmt.Errorf("%w: unknown type set %q (want regular, extension or off)", ErrInvalidArgument, name)
	}
}

// Config is the typed-read configuration for one file.
type Config struct {
	// Types maps non-datetime columns to their kind.
	Types map[string]dtype.Kind
	// DateTimes lists datetime columns in declaration order.
	DateTimes []string
}

// ParsesDates reports whether any datetime parsing is requested. An empty
// list and no request are the same thing.
func (c Config) ParsesDates() bool { return len(c.DateTimes) > 0 }

// Build derives the Config for rows under set. Only Regular and Extension are
// accepted.
func Build(set TypeSet, rows []metadata.Row) (Config, error) {
	if set != Regular && set != Extension {
		return Config{}, fmt.Errorf("%w: type set %s cannot build a type config", ErrInvalidArgument, set)
	}

	cfg := Config{Types: make(map[string]dtype.Kind, len(rows))}
	for _, r := range rows {
		name := r.RegDType
		if set == Extension {
			name = r.ExtType
		}
		if dtype.IsDateTimeMarker(name) {
			cfg.DateTimes = append(cfg.DateTimes, r.Field)
			continue
		}
		k, err := dtype.ParseKind(name)
		if err != nil {
			return Config{}, fmt.Errorf("%s field %q: %w", r.File, r.Field, err)
		}
		cfg.Types[r.Field] = k
	}
	return cfg, nil
}
