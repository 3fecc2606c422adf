package ddl

import (
	"fmt"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

// KindMapper maps a column kind to a backend SQL type.
type KindMapper func(dtype.Kind) string

// FromTable derives a TableDef named fqn from tbl. Columns that cannot hold a
// missing value are NOT NULL; the index column, when set, is the primary key.
func FromTable(fqn string, tbl *table.Table, mapKind KindMapper) (TableDef, error) {
	if mapKind == nil {
		return TableDef{}, fmt.Errorf("ddl: nil kind mapper")
	}
	idx := tbl.IndexColumn()
	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, 0, tbl.NumCols())}
	for _, c := range tbl.Columns() {
		_, err := c.Kind.Missing()
		pk := c.Name == idx
		def.Columns = append(def.Columns, ColumnDef{
			Name:       c.Name,
			SQLType:    mapKind(c.Kind),
			Nullable:   err == nil && !pk,
			PrimaryKey: pk,
		})
	}
	return def, nil
}
