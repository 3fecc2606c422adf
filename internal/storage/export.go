package storage

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aneroid/ergast-f1db-extra/internal/ddl"
	"github.com/aneroid/ergast-f1db-extra/internal/metrics"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
	"github.com/aneroid/ergast-f1db-extra/internal/transformer"
)

// ExportOptions controls Export.
type ExportOptions struct {
	// Table is the destination table name.
	Table string
	// Replace drops the table before creating it.
	Replace   bool
	BatchSize int
	Job       string
	Logger    *slog.Logger
}

// TableName derives a table name from an f1db file name, e.g. "lap_times.csv"
// with prefix "f1_" becomes "f1_lap_times".
func TableName(prefix, filename string) string {
	return prefix + strings.ToLower(transformer.NormalizeName(filename))
}

// Export creates opt.Table from tbl's kinds and streams tbl's rows into it.
// Missing cells, including NaN floats, are written as NULL.
func Export(ctx context.Context, repo Repository, tbl *table.Table, opt ExportOptions) (_ int64, err error) {
	if opt.BatchSize <= 0 {
		return 0, fmt.Errorf("export %s: batch size must be > 0", opt.Table)
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	start := time.Now()
	defer func() { metrics.RecordStep(opt.Job, "export", err, time.Since(start)) }()

	def, err := ddl.FromTable(opt.Table, tbl, repo.MapKind)
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", opt.Table, err)
	}
	buildCreate, dropSQL := ddl.BuildCreateTableSQL, ddl.DropTableSQL
	if r, ok := repo.(DDLRenderer); ok {
		buildCreate, dropSQL = r.CreateTableSQL, r.DropTableSQL
	}
	create, err := buildCreate(def)
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", opt.Table, err)
	}
	if opt.Replace {
		if err := repo.Exec(ctx, dropSQL(opt.Table)); err != nil {
			return 0, fmt.Errorf("export %s: drop: %w", opt.Table, err)
		}
	}
	if err := repo.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("export %s: create: %w", opt.Table, err)
	}

	rows := make(chan []any, opt.BatchSize)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		for i := 0; i < tbl.NumRows(); i++ {
			vals := tbl.RowValues(i)
			for j, v := range vals {
				vals[j] = dbValue(v)
			}
			select {
			case rows <- vals:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var total int64
	g.Go(func() error {
		copyFn := func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
			return repo.CopyFrom(ctx, opt.Table, cols, batch)
		}
		var err error
		total, err = LoadBatches(gctx, logger, opt.Job, tbl.ColumnNames(), rows, opt.BatchSize, copyFn)
		return err
	})
	if err := g.Wait(); err != nil {
		return total, fmt.Errorf("export %s: %w", opt.Table, err)
	}

	metrics.RecordRows(opt.Job, opt.Table, "exported", total)
	logger.Info("exported table", "table", opt.Table, "rows", total, "elapsed", time.Since(start).Truncate(time.Millisecond))
	return total, nil
}

// dbValue widens integers to int64 and floats to float64, the types every
// driver accepts, and turns NaN into nil.
func dbValue(v any) any {
	switch x := v.(type) {
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
		return float64(x)
	case float64:
		if math.IsNaN(x) {
			return nil
		}
	}
	return v
}
