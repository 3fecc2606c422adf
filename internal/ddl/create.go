// Package ddl renders CREATE TABLE statements for loaded f1db tables.
//
// Definitions are derived from column kinds through a backend's KindMapper.
// Identifiers are double-quoted, which SQLite and Postgres both accept.
package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" TYPE NOT NULL,
//	  "col2" TYPE,
//	  PRIMARY KEY ("col1")
//	);
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}

		def := QuoteIdent(c.Name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
		if c.PrimaryKey {
			pks = append(pks, QuoteIdent(c.Name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// DropTableSQL renders DROP TABLE IF EXISTS for fqn.
func DropTableSQL(fqn string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", QuoteFQN(fqn))
}

// QuoteIdent double-quotes one identifier segment, doubling embedded quotes.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes each dot-separated segment of name.
func QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}
