// This file implements the batching half of an export: rows arrive one at a
// time on a channel and leave in batches through a backend's bulk insert
// (CopyFn). Backends supply their cheapest primitive, for example COPY on
// Postgres, a bulk copy on SQL Server, multi-row INSERTs on MySQL and a
// prepared INSERT per row inside one transaction on SQLite.
//
// On every successful flush a progress record is logged at debug level with
// the running total and the rows per second since the previous flush, and the
// batch counter is incremented.

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aneroid/ergast-f1db-extra/internal/metrics"
)

// CopyFn is a backend's bulk insert. It inserts rows aligned to columns and
// returns the number of rows written.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn for each non-empty batch. It returns the total reported by
// copyFn and the first error. A progress line is logged per flushed batch.
//
// Cancellation returns (total, ctx.Err()).
func LoadBatches(
	ctx context.Context,
	logger *slog.Logger,
	job string,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var (
		total     int64
		batches   int64
		batch     = make([][]any, 0, batchSize)
		start     = time.Now()
		lastFlush = start
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		// copyFn does not retain rows, so the backing array is reused.
		batch = batch[:0]
		if err != nil {
			logger.Error("copy failed", "inserted", n, "total", total, "err", err)
			return err
		}

		batches++
		metrics.RecordBatches(job, 1)
		now := time.Now()
		since := now.Sub(lastFlush)
		rps := 0.0
		if since > 0 {
			rps = float64(n) / since.Seconds()
		}
		logger.Debug("batch flushed",
			"batch", batches,
			"inserted", n,
			"total", total,
			"rps", int64(rps),
			"elapsed", now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlush = now
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
