// Package metadata reads the catalog that describes, per f1db file, each
// field's regular and extension type, its sort rank and whether it is the
// file's identifier column.
//
// The catalog is a CSV with the columns file, field, reg_dtype, ext_type,
// sort_order and idx_col. A catalog for the standard f1db file set is embedded
// and returned by Default.
package metadata

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	pcsv "github.com/aneroid/ergast-f1db-extra/internal/parser/csv"
)

//go:embed f1db_metadata.csv
var defaultCatalog string

// ErrInvalidCatalog is returned when the catalog cannot be interpreted.
var ErrInvalidCatalog = errors.New("invalid metadata catalog")

// RequiredColumns are the catalog columns that must be present.
var RequiredColumns = []string{"file", "field", "reg_dtype", "ext_type", "sort_order", "idx_col"}

// Row describes one field of one file.
type Row struct {
	File      string
	Field     string
	RegDType  string
	ExtType   string
	SortOrder *int // nil when the field is not a sort key
	IDColumn  bool
}

// Catalog is an immutable, file-keyed view of metadata rows. It is safe for
// concurrent use.
type Catalog struct {
	byFile map[string][]Row
	files  []string
}

// Default returns the embedded catalog for the f1db file set.
func Default() (*Catalog, error) {
	return Load(strings.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load reads a catalog from r. Each (file, field) pair must be unique and a
// file may declare at most one identifier column.
func Load(r io.Reader) (*Catalog, error) {
	tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	for _, name := range RequiredColumns {
		if _, ok := tbl.Column(name); !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidCatalog, name)
		}
	}

	c := &Catalog{byFile: make(map[string][]Row)}
	seen := make(map[[2]string]bool)
	for i := 0; i < tbl.NumRows(); i++ {
		rec := tbl.Row(i)
		line := i + 2

		row := Row{
			File:     str(rec["file"]),
			Field:    str(rec["field"]),
			RegDType: str(rec["reg_dtype"]),
			ExtType:  str(rec["ext_type"]),
		}
		if row.File == "" || row.Field == "" {
			return nil, fmt.Errorf("%w: line %d: file and field are required", ErrInvalidCatalog, line)
		}
		key := [2]string{row.File, row.Field}
		if seen[key] {
			return nil, fmt.Errorf("%w: line %d: duplicate field %q for %s", ErrInvalidCatalog, line, row.Field, row.File)
		}
		seen[key] = true

		if row.SortOrder, err = parseSortOrder(rec["sort_order"]); err != nil {
			return nil, fmt.Errorf("%w: line %d: sort_order: %v", ErrInvalidCatalog, line, err)
		}
		if row.IDColumn, err = parseFlag(rec["idx_col"]); err != nil {
			return nil, fmt.Errorf("%w: line %d: idx_col: %v", ErrInvalidCatalog, line, err)
		}
		if row.IDColumn {
			if prev, ok := idColumn(c.byFile[row.File]); ok {
				return nil, fmt.Errorf("%w: line %d: %s declares identifiers %q and %q", ErrInvalidCatalog, line, row.File, prev, row.Field)
			}
		}

		if _, ok := c.byFile[row.File]; !ok {
			c.files = append(c.files, row.File)
		}
		c.byFile[row.File] = append(c.byFile[row.File], row)
	}
	sort.Strings(c.files)
	return c, nil
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// parseSortOrder accepts integers and integral floats ("2.0"), since nullable
// integer columns are often written as floats.
func parseSortOrder(v any) (*int, error) {
	s := str(v)
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%q is not an integer", s)
	}
	n := int(f)
	return &n, nil
}

// parseFlag accepts integers (non-zero is set) and booleans. NaN, as written
// for a missing value in a float column, is unset.
func parseFlag(v any) (bool, error) {
	s := str(v)
	if s == "" {
		return false, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0 && !math.IsNaN(f), nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%q is neither a number nor a boolean", s)
	}
	return b, nil
}

func idColumn(rows []Row) (string, bool) {
	for _, r := range rows {
		if r.IDColumn {
			return r.Field, true
		}
	}
	return "", false
}

// Files returns the described file names, sorted.
func (c *Catalog) Files() []string { return slices.Clone(c.files) }

// Has reports whether file is described by the catalog.
func (c *Catalog) Has(file string) bool {
	_, ok := c.byFile[file]
	return ok
}

// Rows returns the rows for file in declaration order.
func (c *Catalog) Rows(file string) ([]Row, bool) {
	rows, ok := c.byFile[file]
	if !ok {
		return nil, false
	}
	return slices.Clone(rows), true
}

// SortKeys returns the fields of file that carry a sort rank, ascending by
// rank. Equal ranks keep declaration order.
func (c *Catalog) SortKeys(file string) []string {
	var ranked []Row
	for _, r := range c.byFile[file] {
		if r.SortOrder != nil {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return *ranked[i].SortOrder < *ranked[j].SortOrder })

	keys := make([]string, len(ranked))
	for i, r := range ranked {
		keys[i] = r.Field
	}
	return keys
}

// IDColumn returns the identifier column of file, if one is declared.
func (c *Catalog) IDColumn(file string) (string, bool) {
	return idColumn(c.byFile[file])
}
