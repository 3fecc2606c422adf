// Package mysql implements storage.Repository on MySQL and MariaDB with
// go-sql-driver/mysql.
//
// Batches are written as multi-row INSERT statements inside one transaction
// per batch. A statement carries at most maxPlaceholders bind parameters, the
// protocol limit, so wide batches are split. MySQL quotes identifiers with
// backticks unless ANSI_QUOTES is set, so the repository renders its own DDL.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/aneroid/ergast-f1db-extra/internal/ddl"
	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/storage"
)

const maxPlaceholders = 65535

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db *sql.DB
}

var (
	_ storage.Repository  = (*Repository)(nil)
	_ storage.DDLRenderer = (*Repository)(nil)
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
}

// NewRepository opens dsn, e.g. "f1:secret@tcp(localhost:3306)/f1db", and
// pings the server.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: dsn: %w", err)
	}
	// DATETIME columns scan back as time.Time in cfg.Loc, UTC by default.
	cfg.ParseTime = true
	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql: connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", describe(err))
	}
	return &Repository{db: db}, nil
}

// CopyFrom inserts rows into table in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mysql: CopyFrom: row %d has %d values, want %d", i, len(row), len(columns))
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	var inserted int64
	for _, chunk := range chunkRows(rows, len(columns)) {
		args := make([]any, 0, len(chunk)*len(columns))
		for _, row := range chunk {
			args = append(args, row...)
		}
		res, err := tx.ExecContext(ctx, insertSQL(table, columns, len(chunk)), args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: insert into %s: %w", table, describe(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: rows affected: %w", err)
		}
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return inserted, nil
}

// chunkRows splits rows so no chunk exceeds maxPlaceholders bind parameters.
func chunkRows(rows [][]any, width int) [][][]any {
	per := max(maxPlaceholders/width, 1)
	var out [][][]any
	for len(rows) > per {
		out = append(out, rows[:per])
		rows = rows[per:]
	}
	return append(out, rows)
}

// insertSQL renders INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?) for n rows.
func insertSQL(table string, columns []string, n int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	tuples := make([]string, n)
	for i := range tuples {
		tuples[i] = tuple
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		QuoteFQN(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
}

// Exec runs sql, typically DDL. Blank statements are ignored.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("mysql: exec: %w", describe(err))
	}
	return nil
}

func (r *Repository) MapKind(k dtype.Kind) string { return MapKind(k) }

func (r *Repository) CreateTableSQL(t ddl.TableDef) (string, error) { return CreateTableSQL(t) }

func (r *Repository) DropTableSQL(fqn string) string { return DropTableSQL(fqn) }

func (r *Repository) Close() { _ = r.db.Close() }

func describe(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return fmt.Errorf("%w (error %d, SQLSTATE %s)", err, myErr.Number, string(myErr.SQLState[:]))
	}
	return err
}

// MapKind maps kinds onto MySQL types. Unsigned kinds keep their width with
// the UNSIGNED attribute.
func MapKind(k dtype.Kind) string {
	switch k.Base {
	case dtype.Signed, dtype.Unsigned:
		var typ string
		switch {
		case k.Bits <= 8:
			typ = "TINYINT"
		case k.Bits <= 16:
			typ = "SMALLINT"
		case k.Bits <= 32:
			typ = "INT"
		default:
			typ = "BIGINT"
		}
		if k.Base == dtype.Unsigned {
			typ += " UNSIGNED"
		}
		return typ
	case dtype.Float:
		if k.Bits == 32 {
			return "FLOAT"
		}
		return "DOUBLE"
	case dtype.Bool:
		return "BOOLEAN"
	case dtype.DateTime:
		return "DATETIME(6)"
	default:
		return stringType
	}
}
