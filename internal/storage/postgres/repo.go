// Package postgres implements storage.Repository on Postgres with pgx v5.
// Batches are written with the COPY protocol.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/storage"
)

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
}

// NewRepository creates a connection pool for dsn and pings it.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// CopyFrom streams rows into table with COPY.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, Identifier(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", table, describe(err))
	}
	return n, nil
}

// Exec runs sql, typically DDL. Blank statements are ignored.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("postgres: exec: %w", describe(err))
	}
	return nil
}

func (r *Repository) MapKind(k dtype.Kind) string { return MapKind(k) }

func (r *Repository) Close() { r.pool.Close() }

// Identifier splits a possibly schema-qualified name into a pgx.Identifier.
func Identifier(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

// describe adds the server's detail and SQLSTATE to Postgres errors while
// keeping the original error in the chain.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (%s, SQLSTATE %s)", err, pgErr.Detail, pgErr.SQLState())
	}
	return err
}

// MapKind maps kinds onto Postgres types. Unsigned integers take the next
// wider signed type.
//
//	int8/int16, uint8   -> SMALLINT
//	int32, uint16       -> INTEGER
//	int64, uint32       -> BIGINT
//	uint64              -> NUMERIC(20)
//	float32             -> REAL
//	float64             -> DOUBLE PRECISION
//	bool                -> BOOLEAN
//	datetime            -> TIMESTAMP
//	string              -> TEXT
func MapKind(k dtype.Kind) string {
	switch k.Base {
	case dtype.Signed:
		switch {
		case k.Bits <= 16:
			return "SMALLINT"
		case k.Bits <= 32:
			return "INTEGER"
		default:
			return "BIGINT"
		}
	case dtype.Unsigned:
		switch {
		case k.Bits <= 8:
			return "SMALLINT"
		case k.Bits <= 16:
			return "INTEGER"
		case k.Bits <= 32:
			return "BIGINT"
		default:
			return "NUMERIC(20)"
		}
	case dtype.Float:
		if k.Bits == 32 {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case dtype.Bool:
		return "BOOLEAN"
	case dtype.DateTime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
