// Package storage holds the backend-agnostic export contract: a Repository
// interface, a kind-keyed factory that backends register with, and the batched
// export of a loaded table.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aneroid/ergast-f1db-extra/internal/ddl"
	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
)

// Repository is a database that tables can be exported to.
type Repository interface {
	// Exec runs a statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// CopyFrom bulk-inserts rows aligned to columns into table and returns the
	// number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	// MapKind returns the backend SQL type for a column kind.
	MapKind(k dtype.Kind) string
	Close()
}

// DDLRenderer is implemented by repositories whose dialect cannot run the
// default DDL from package ddl (double-quoted identifiers, IF [NOT] EXISTS).
type DDLRenderer interface {
	CreateTableSQL(t ddl.TableDef) (string, error)
	DropTableSQL(fqn string) string
}

// Config selects and configures a backend.
type Config struct {
	Kind string
	DSN  string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it from
// init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}
