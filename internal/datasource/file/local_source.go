// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local opens files from a single directory on local disk. It is safe for
// concurrent use.
type Local struct{ dir string }

// NewLocal returns a data source rooted at dir.
func NewLocal(dir string) *Local { return &Local{dir: dir} }

// Dir returns the root directory.
func (l *Local) Dir() string { return l.dir }

// Path returns the on-disk path of name.
func (l *Local) Path(name string) string { return filepath.Join(l.dir, name) }

// Open opens name inside the root directory.
//
// Behavior:
//   - If ctx is already done, Open returns ctx.Err() without touching the
//     filesystem.
//   - name must be a plain file name; separators and ".." are rejected so a
//     caller cannot read outside the directory.
//   - Filesystem errors are wrapped with the path and still match
//     errors.Is(err, os.ErrNotExist).
func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("open %q: not a plain file name", name)
	}
	path := l.Path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Best effort: every load scans the file front to back, twice when typed.
	_ = adviseSequential(f)
	return f, nil
}
