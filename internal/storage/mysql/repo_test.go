package mysql

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneroid/ergast-f1db-extra/internal/ddl"
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
		{dtype.Kind{Base: dtype.Signed, Bits: 8}, "TINYINT"},
		{dtype.Kind{Base: dtype.Signed, Bits: 32, Nullable: true}, "INT"},
		{dtype.KindInt64, "BIGINT"},
		{dtype.Kind{Base: dtype.Unsigned, Bits: 16}, "SMALLINT UNSIGNED"},
		{dtype.KindUInt32, "INT UNSIGNED"},
		{dtype.Kind{Base: dtype.Unsigned, Bits: 64}, "BIGINT UNSIGNED"},
		{dtype.Kind{Base: dtype.Float, Bits: 32}, "FLOAT"},
		{dtype.KindFloat64, "DOUBLE"},
		{dtype.Kind{Base: dtype.Bool}, "BOOLEAN"},
		{dtype.KindDateTime, "DATETIME(6)"},
		{dtype.KindString, "LONGTEXT"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MapKind(tc.kind), tc.kind.String())
	}
}

func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	got, err := CreateTableSQL(ddl.TableDef{
		FQN: "f1.status",
		Columns: []ddl.ColumnDef{
			{Name: "statusId", SQLType: "LONGTEXT", PrimaryKey: true},
			{Name: "status", SQLType: "LONGTEXT", Nullable: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS `f1`.`status` (\n"+
		"  `statusId` VARCHAR(191) NOT NULL,\n"+
		"  `status` LONGTEXT,\n"+
		"  PRIMARY KEY (`statusId`)\n"+
		");", got)

	_, err = CreateTableSQL(ddl.TableDef{FQN: "t"})
	assert.ErrorContains(t, err, "at least one column")
	assert.Equal(t, "DROP TABLE IF EXISTS `odd``name`;", DropTableSQL("odd`name"))
}

func TestInsertSQL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "INSERT INTO `pit_stops` (`raceId`, `stop`) VALUES (?, ?), (?, ?)",
		insertSQL("pit_stops", []string{"raceId", "stop"}, 2))
}

func TestChunkRows(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 5)
	assert.Len(t, chunkRows(rows, 2), 1)

	// 40000 rows of 2 columns need 80000 placeholders: two statements.
	rows = make([][]any, 40000)
	chunks := chunkRows(rows, 2)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], maxPlaceholders/2)
	assert.Len(t, chunks[1], 40000-maxPlaceholders/2)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	myErr := &mysql.MySQLError{Number: 1062, SQLState: [5]byte{'2', '3', '0', '0', '0'}, Message: "Duplicate entry"}
	err := describe(myErr)
	assert.ErrorContains(t, err, "error 1062, SQLSTATE 23000")
	assert.ErrorIs(t, err, myErr)

	plain := errors.New("conn reset")
	assert.Same(t, plain, describe(plain))
}

func TestNewRepository_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := NewRepository(context.Background(), "")
	assert.ErrorContains(t, err, "DSN must not be empty")
	_, err = NewRepository(context.Background(), "no-slash")
	assert.ErrorContains(t, err, "mysql: dsn")
}

// TestExport_Integration runs against a real server when F1DB_TEST_MYSQL_DSN
// is set.
func TestExport_Integration(t *testing.T) {
	dsn := os.Getenv("F1DB_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("F1DB_TEST_MYSQL_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := storage.New(ctx, storage.Config{Kind: "mysql", DSN: dsn})
	require.NoError(t, err)
	defer repo.Close()

	dob := time.Date(1985, 1, 7, 0, 0, 0, 0, time.UTC)
	tbl, err := table.New(
		&table.Column{Name: "driverId", Kind: dtype.Kind{Base: dtype.Signed, Bits: 32, Nullable: true}, Values: []any{int32(1), int32(8)}},
		&table.Column{Name: "dob", Kind: dtype.KindDateTime, Values: []any{dob, nil}},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.SetIndex("driverId"))

	opt := storage.ExportOptions{Table: "f1db_test_drivers", Replace: true, BatchSize: 10, Job: "test"}
	n, err := storage.Export(ctx, repo, tbl, opt)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var got time.Time
	require.NoError(t, repo.(*Repository).db.QueryRowContext(ctx, "SELECT `dob` FROM `f1db_test_drivers` WHERE `driverId` = 1").Scan(&got))
	assert.True(t, dob.Equal(got), "got %v", got)
	require.NoError(t, repo.Exec(ctx, DropTableSQL(opt.Table)))
}
