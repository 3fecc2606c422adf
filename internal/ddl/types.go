package ddl

// ColumnDef describes one column of a table definition.
//
//   - Name: logical column name, quoted at render time
//   - SQLType: backend SQL type, e.g. INTEGER, TEXT, TIMESTAMP
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds the table name and its ordered columns. FQN may be
// schema-qualified ("f1.drivers"); each segment is quoted separately.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
