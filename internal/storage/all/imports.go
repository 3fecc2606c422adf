// Package all registers every built-in storage backend with the storage
// factory. Import it for side effects:
//
//	import _ "github.com/aneroid/ergast-f1db-extra/internal/storage/all"
//
// after which storage.New accepts the kinds "sqlite", "postgres", "mssql" and "mysql".
// A binary that needs fewer backends can import the backend packages
// directly instead.
package all

import (
	_ "github.com/aneroid/ergast-f1db-extra/internal/storage/mssql"
	_ "github.com/aneroid/ergast-f1db-extra/internal/storage/mysql"
	_ "github.com/aneroid/ergast-f1db-extra/internal/storage/postgres"
	_ "github.com/aneroid/ergast-f1db-extra/internal/storage/sqlite"
)
