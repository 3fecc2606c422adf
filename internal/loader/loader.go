// Package loader reads f1db CSV files into tables.
//
// A load runs these steps, each one optional except the first:
//
//  1. Read the file with every column as a string. Only "" and \N are
//     missing values. A file the metadata catalog does not describe is
//     returned at this point, unchanged.
//  2. Read the file again with the types of the requested type set (regular or
//     extension) and parse its datetime columns.
//  3. Apply the file's standardisation hook: date and time-of-day parsing and
//     millisecond columns next to duration strings.
//  4. Sort stably by the catalog's sort keys, missing values last.
//  5. Index the table by the catalog's identifier column, keeping the column.
//
// The catalog and the hook registry are read-only after construction, so one
// Loader serves concurrent loads; LoadAll runs them on a bounded set of
// goroutines.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aneroid/ergast-f1db-extra/internal/datasource"
	"github.com/aneroid/ergast-f1db-extra/internal/datasource/file"
	"github.com/aneroid/ergast-f1db-extra/internal/metadata"
	"github.com/aneroid/ergast-f1db-extra/internal/metrics"
	pcsv "github.com/aneroid/ergast-f1db-extra/internal/parser/csv"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
	"github.com/aneroid/ergast-f1db-extra/internal/transformer"
	"github.com/aneroid/ergast-f1db-extra/internal/typeconf"
)

// Ext is appended to file names that lack it.
const Ext = ".csv"

// Options selects the processing applied by Load.
type Options struct {
	// TypeSet selects the declared types; Off keeps every column a string.
	TypeSet typeconf.TypeSet
	// Standardize applies the file's standardisation hook.
	Standardize bool
	// Sort orders rows by the catalog sort keys.
	Sort bool
	// UseIDIndex indexes the table by the declared identifier column.
	UseIDIndex bool
}

// DefaultOptions types with the extension set, standardises and sorts.
func DefaultOptions() Options {
	return Options{TypeSet: typeconf.Extension, Standardize: true, Sort: true}
}

// Loader loads files from a Source. A Loader is safe for concurrent use; the
// catalog and registry are never mutated by loads.
type Loader struct {
	src      datasource.Source
	catalog  *metadata.Catalog
	registry *transformer.Registry
	logger   *slog.Logger
	job      string
	workers  int
}

// Option configures a Loader.
type Option func(*Loader)

// WithSource reads files from src instead of the directory given to New.
func WithSource(src datasource.Source) Option { return func(l *Loader) { l.src = src } }

// WithRegistry replaces the default hook registry.
func WithRegistry(r *transformer.Registry) Option { return func(l *Loader) { l.registry = r } }

// WithLogger sets the logger. The default discards output.
func WithLogger(lg *slog.Logger) Option { return func(l *Loader) { l.logger = lg } }

// WithJob sets the job label used for metrics.
func WithJob(job string) Option { return func(l *Loader) { l.job = job } }

// WithWorkers bounds the concurrent loads of LoadAll. n <= 0 means one load
// per file.
func WithWorkers(n int) Option { return func(l *Loader) { l.workers = n } }

// New returns a Loader reading from dir and described by catalog.
func New(dir string, catalog *metadata.Catalog, opts ...Option) *Loader {
	l := &Loader{
		src:      file.NewLocal(dir),
		catalog:  catalog,
		registry: transformer.DefaultRegistry(),
		logger:   slog.New(slog.DiscardHandler),
		job:      "f1db",
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Catalog returns the catalog the loader was built with.
func (l *Loader) Catalog() *metadata.Catalog { return l.catalog }

// FileName appends Ext to name unless it already ends with it.
func FileName(name string) string {
	if strings.HasSuffix(name, Ext) {
		return name
	}
	return name + Ext
}

// Load reads filename and processes it according to opt.
//
// Only "" and \N are missing-value tokens. A file absent from the catalog is
// returned exactly as read, all columns strings. Otherwise a second, typed read
// follows when opt.TypeSet is not Off, then the hook, the sort and the index
// are applied in that order.
func (l *Loader) Load(ctx context.Context, filename string, opt Options) (_ *table.Table, err error) {
	if !opt.TypeSet.Valid() {
		return nil, fmt.Errorf("load %s: %w: type set %s", filename, typeconf.ErrInvalidArgument, opt.TypeSet)
	}
	name := FileName(filename)

	start := time.Now()
	defer func() { metrics.RecordStep(l.job, "load", err, time.Since(start)) }()

	tbl, err := l.read(ctx, name, pcsv.Options{})
	if err != nil {
		return nil, err
	}
	if !l.catalog.Has(name) {
		l.logger.Debug("unmanaged file, returning raw read", "file", name)
		l.recordRows(name, tbl)
		return tbl, nil
	}

	if opt.TypeSet != typeconf.Off {
		rows, _ := l.catalog.Rows(name)
		cfg, err := typeconf.Build(opt.TypeSet, rows)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		tbl, err = l.read(ctx, name, pcsv.Options{Types: cfg.Types, ParseDates: cfg.DateTimes})
		if err != nil {
			return nil, err
		}
	}

	if opt.Standardize {
		if tbl, err = l.registry.Lookup(name).Apply(tbl); err != nil {
			return nil, fmt.Errorf("load %s: standardize: %w", name, err)
		}
	}
	if opt.Sort {
		if err := tbl.SortBy(l.catalog.SortKeys(name)...); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}
	if opt.UseIDIndex {
		if id, ok := l.catalog.IDColumn(name); ok {
			if err := tbl.SetIndex(id); err != nil {
				return nil, fmt.Errorf("load %s: %w", name, err)
			}
		}
	}

	l.logger.Debug("loaded file",
		"file", name,
		"rows", tbl.NumRows(),
		"cols", tbl.NumCols(),
		"type_set", opt.TypeSet.String(),
		"elapsed", time.Since(start),
	)
	l.recordRows(name, tbl)
	return tbl, nil
}

func (l *Loader) read(ctx context.Context, name string, o pcsv.Options) (*table.Table, error) {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rc.Close()

	tbl, err := pcsv.NewParser(o).Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return tbl, nil
}

func (l *Loader) recordRows(name string, tbl *table.Table) {
	metrics.RecordRows(l.job, name, "loaded", int64(tbl.NumRows()))
}

// Loaded pairs a file name with its table.
type Loaded struct {
	Name  string
	Table *table.Table
}

// LoadAll loads files concurrently with opt. An empty list loads every
// catalog file. Results keep the order of files; the first error cancels the
// remaining loads.
func (l *Loader) LoadAll(ctx context.Context, files []string, opt Options) ([]Loaded, error) {
	if len(files) == 0 {
		files = l.catalog.Files()
	}
	out := make([]Loaded, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if l.workers > 0 {
		g.SetLimit(l.workers)
	}
	for i, f := range files {
		g.Go(func() error {
			tbl, err := l.Load(gctx, f, opt)
			if err != nil {
				return err
			}
			out[i] = Loaded{Name: FileName(f), Table: tbl}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	l.logger.Info("loaded files", "count", len(out), "type_set", opt.TypeSet.String())
	return out, nil
}
