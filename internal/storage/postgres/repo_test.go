package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/storage"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

func TestMapKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind dtype.Kind
		want string
	}{
		{dtype.Kind{Base: dtype.Signed, Bits: 16}, "SMALLINT"},
		{dtype.Kind{Base: dtype.Signed, Bits: 32, Nullable: true}, "INTEGER"},
		{dtype.KindInt64, "BIGINT"},
		{dtype.Kind{Base: dtype.Unsigned, Bits: 8}, "SMALLINT"},
		{dtype.Kind{Base: dtype.Unsigned, Bits: 16}, "INTEGER"},
		{dtype.KindUInt32, "BIGINT"},
		{dtype.Kind{Base: dtype.Unsigned, Bits: 64}, "NUMERIC(20)"},
		{dtype.Kind{Base: dtype.Float, Bits: 32}, "REAL"},
		{dtype.KindFloat64, "DOUBLE PRECISION"},
		{dtype.Kind{Base: dtype.Bool, Nullable: true}, "BOOLEAN"},
		{dtype.KindDateTime, "TIMESTAMP"},
		{dtype.KindString, "TEXT"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MapKind(tc.kind), tc.kind.String())
	}
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pgx.Identifier{"lap_times"}, Identifier("lap_times"))
	assert.Equal(t, pgx.Identifier{"f1", "lap_times"}, Identifier("f1.lap_times"))
	assert.Equal(t, `"f1"."lap_times"`, Identifier("f1.lap_times").Sanitize())
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key", Detail: "Key (driverId)=(1) already exists."}
	err := describe(pgErr)
	assert.ErrorContains(t, err, "already exists")
	assert.ErrorContains(t, err, "SQLSTATE 23505")
	assert.True(t, errors.Is(err, pgErr))

	plain := errors.New("conn reset")
	assert.Same(t, plain, describe(plain))
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()
	_, err := NewRepository(context.Background(), "")
	assert.ErrorContains(t, err, "DSN must not be empty")
}

// TestExport_Integration runs against a real server when F1DB_TEST_POSTGRES_DSN
// is set.
func TestExport_Integration(t *testing.T) {
	dsn := os.Getenv("F1DB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("F1DB_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := storage.New(ctx, storage.Config{Kind: "postgres", DSN: dsn})
	require.NoError(t, err)
	defer repo.Close()

	tbl, err := table.New(
		&table.Column{Name: "qualifyId", Kind: dtype.Kind{Base: dtype.Signed, Bits: 32, Nullable: true}, Values: []any{int32(1), int32(2)}},
		&table.Column{Name: "q1", Kind: dtype.KindString, Values: []any{"1:23.456", nil}},
		&table.Column{Name: "q1ms", Kind: dtype.KindUInt32, Values: []any{uint32(83456), nil}},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.SetIndex("qualifyId"))

	n, err := storage.Export(ctx, repo, tbl, storage.ExportOptions{Table: "f1db_test_qualifying", Replace: true, BatchSize: 10, Job: "test"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	pg := repo.(*Repository)
	var ms int64
	require.NoError(t, pg.pool.QueryRow(ctx, `SELECT "q1ms" FROM "f1db_test_qualifying" WHERE "qualifyId" = 1`).Scan(&ms))
	assert.Equal(t, int64(83456), ms)
	require.NoError(t, repo.Exec(ctx, `DROP TABLE "f1db_test_qualifying"`))
}
