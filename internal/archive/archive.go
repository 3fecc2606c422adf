// Package archive unpacks the f1db zip into a data directory.
//
// The archive is expected to hold flat CSV files. Each entry is written
// verbatim and replaced atomically, so a concurrent reader sees either the old
// or the new file. Re-extraction overwrites files of the same name.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/natefinch/atomic"
	"github.com/zeebo/xxh3"
)

// ErrNestedEntry is returned for directory entries and entries whose name is
// not a bare file name.
var ErrNestedEntry = errors.New("archive entry is not a flat file")

const filePerms = 0o644

// Entry describes one extracted file.
type Entry struct {
	Name     string // name inside the archive
	Path     string // destination path
	Size     int64
	Checksum uint64 // xxh3 of the content
}

// Extract unpacks zipPath into dir, creating dir if needed. report, when not
// nil, is called after each entry is written. Entries are validated before
// anything is written; a nested or directory entry aborts the extraction.
func Extract(ctx context.Context, zipPath, dir string, report func(Entry)) ([]Entry, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	return extract(ctx, &zr.Reader, dir, report)
}

// ExtractReader is Extract for an archive held in r.
func ExtractReader(ctx context.Context, r io.ReaderAt, size int64, dir string, report func(Entry)) ([]Entry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return extract(ctx, zr, dir, report)
}

func extract(ctx context.Context, zr *zip.Reader, dir string, report func(Entry)) ([]Entry, error) {
	for _, f := range zr.File {
		if err := checkName(f); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		e, err := extractFile(f, dir)
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
		if report != nil {
			report(e)
		}
	}
	return entries, nil
}

func checkName(f *zip.File) error {
	name := f.Name
	if f.FileInfo().IsDir() || name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrNestedEntry, name)
	}
	return nil
}

type countingWriter struct{ n int64 }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

func extractFile(f *zip.File, dir string) (Entry, error) {
	rc, err := f.Open()
	if err != nil {
		return Entry{}, fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	path := filepath.Join(dir, f.Name)
	h := xxh3.New()
	var cw countingWriter
	if err := atomic.WriteFile(path, io.TeeReader(rc, io.MultiWriter(h, &cw))); err != nil {
		return Entry{}, fmt.Errorf("write %s: %w", path, err)
	}
	// atomic.WriteFile creates new files with temp-file permissions.
	if err := os.Chmod(path, filePerms); err != nil {
		return Entry{}, fmt.Errorf("chmod %s: %w", path, err)
	}
	return Entry{Name: f.Name, Path: path, Size: cw.n, Checksum: h.Sum64()}, nil
}
