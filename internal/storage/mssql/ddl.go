package mssql

import (
	"fmt"
	"strings"

	"github.com/aneroid/ergast-f1db-extra/internal/ddl"
)

const (
	stringType = "NVARCHAR(MAX)"
	// keyStringType is the widest NVARCHAR an index key accepts.
	keyStringType = "NVARCHAR(450)"
)

// CreateTableSQL renders:
//
//	IF OBJECT_ID(N'[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [table] (
//	    [col1] TYPE NOT NULL,
//	    [col2] TYPE,
//	    PRIMARY KEY ([col1])
//	  );
//	END;
func CreateTableSQL(t ddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mssql ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mssql ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("mssql ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("mssql ddl: column %s missing SQLType", c.Name)
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

	q := QuoteFQN(fqn)
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(q, "'", "''"), q, strings.Join(cols, ",\n    ")), nil
}

// DropTableSQL renders a DROP TABLE guarded by OBJECT_ID, which also runs on
// servers older than 2016.
func DropTableSQL(fqn string) string {
	q := QuoteFQN(fqn)
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s;", strings.ReplaceAll(q, "'", "''"), q)
}

// QuoteIdent bracket-quotes one identifier segment, doubling any ']'.
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes each dot-separated segment of name:
//
//	f1.lap_times -> [f1].[lap_times]
func QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}
