// Package datasource defines how the loader obtains file contents.
package datasource

import (
	"context"
	"io"
)

// Source opens named files for reading.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
