package storage

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneroid/ergast-f1db-extra/internal/ddl"
	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

type fakeRepo struct {
	mu      sync.Mutex
	execs   []string
	rows    [][]any
	cols    []string
	table   string
	copyErr error
	closed  bool
}

func (f *fakeRepo) Exec(_ context.Context, sql string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) CopyFrom(_ context.Context, table string, cols []string, rows [][]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.table, f.cols = table, cols
	for _, r := range rows {
		f.rows = append(f.rows, append([]any(nil), r...))
	}
	return int64(len(rows)), nil
}

func (f *fakeRepo) MapKind(k dtype.Kind) string {
	if k.Base == dtype.String {
		return "TEXT"
	}
	return "NUM"
}

func (f *fakeRepo) Close() { f.closed = true }

func pitStops(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		&table.Column{Name: "raceId", Kind: dtype.KindInt64, Values: []any{int64(841), int64(841), int64(842)}},
		&table.Column{Name: "duration", Kind: dtype.KindString, Values: []any{"26.898", nil, "23.227"}},
		&table.Column{Name: "points", Kind: dtype.KindFloat64, Values: []any{1.5, math.NaN(), 0.0}},
	)
	require.NoError(t, err)
	return tbl
}

func TestExport(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	n, err := Export(context.Background(), repo, pitStops(t), ExportOptions{Table: "pit_stops", Replace: true, BatchSize: 2, Job: "test"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.Len(t, repo.execs, 2)
	assert.Equal(t, `DROP TABLE IF EXISTS "pit_stops";`, repo.execs[0])
	assert.True(t, strings.HasPrefix(repo.execs[1], `CREATE TABLE IF NOT EXISTS "pit_stops"`))
	assert.Contains(t, repo.execs[1], `"raceId" NUM NOT NULL`)
	assert.Contains(t, repo.execs[1], `"duration" TEXT,`)

	assert.Equal(t, "pit_stops", repo.table)
	assert.Equal(t, []string{"raceId", "duration", "points"}, repo.cols)
	assert.Equal(t, [][]any{
		{int64(841), "26.898", 1.5},
		{int64(841), nil, nil},
		{int64(842), "23.227", 0.0},
	}, repo.rows)
}

// bracketRepo renders its own DDL.
type bracketRepo struct{ fakeRepo }

func (b *bracketRepo) CreateTableSQL(t ddl.TableDef) (string, error) {
	return "CREATE [" + t.FQN + "]", nil
}

func (b *bracketRepo) DropTableSQL(fqn string) string { return "DROP [" + fqn + "]" }

func TestExport_DDLRenderer(t *testing.T) {
	t.Parallel()

	repo := &bracketRepo{}
	n, err := Export(context.Background(), repo, pitStops(t), ExportOptions{Table: "pit_stops", Replace: true, BatchSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []string{"DROP [pit_stops]", "CREATE [pit_stops]"}, repo.execs)
}

func TestExport_Errors(t *testing.T) {
	t.Parallel()

	_, err := Export(context.Background(), &fakeRepo{}, pitStops(t), ExportOptions{Table: "pit_stops"})
	assert.ErrorContains(t, err, "batch size")

	boom := errors.New("disk full")
	repo := &fakeRepo{copyErr: boom}
	_, err = Export(context.Background(), repo, pitStops(t), ExportOptions{Table: "pit_stops", BatchSize: 1})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, repo.execs, 1, "no drop without Replace")
}

func TestTableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "lap_times", TableName("", "lap_times.csv"))
	assert.Equal(t, "f1_constructor_standings", TableName("f1_", "constructor_standings.csv"))
	assert.Equal(t, "pit_stops", TableName("", "Pit-Stops.csv"))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	Register("fake-test", func(context.Context, Config) (Repository, error) { return &fakeRepo{}, nil })
	assert.Contains(t, Kinds(), "fake-test")

	repo, err := New(context.Background(), Config{Kind: "fake-test"})
	require.NoError(t, err)
	repo.Close()
	assert.True(t, repo.(*fakeRepo).closed)

	_, err = New(context.Background(), Config{Kind: "oracle"})
	assert.ErrorContains(t, err, `unknown kind "oracle"`)
}

func TestDBValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(7), dbValue(int32(7)))
	assert.Equal(t, int64(83456), dbValue(uint32(83456)))
	assert.Equal(t, uint64(math.MaxUint64), dbValue(uint64(math.MaxUint64)))
	assert.Equal(t, float64(float32(1.5)), dbValue(float32(1.5)))
	assert.Nil(t, dbValue(math.NaN()))
	assert.Nil(t, dbValue(float32(math.NaN())))
	assert.Equal(t, "x", dbValue("x"))
	assert.Nil(t, dbValue(nil))
}
