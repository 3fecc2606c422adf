package mysql

import (
	"fmt"
	"strings"

	"github.com/aneroid/ergast-f1db-extra/internal/ddl"
)

const (
	stringType = "LONGTEXT"
	// keyStringType fits a utf8mb4 InnoDB index key.
	keyStringType = "VARCHAR(191)"
)

// CreateTableSQL renders t with backtick-quoted identifiers. LONGTEXT key
// columns become VARCHAR(191), since TEXT types cannot be indexed without a
// prefix length.
func CreateTableSQL(t ddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mysql ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mysql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("mysql ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("mysql ddl: column %s missing SQLType", c.Name)
		}
		if c.PrimaryKey && strings.EqualFold(typ, stringType) {
			typ = keyStringType
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

func DropTableSQL(fqn string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", QuoteFQN(fqn))
}

// QuoteIdent backtick-quotes one identifier segment, doubling any backtick.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

func QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}
