// Package csv reads f1db CSV files into tables. A read is either raw (every
// column a string) or typed, where a column→kind map and a list of datetime
// columns decide how each cell is converted while it is read.
//
// Only the tokens listed in Options.NAValues mark missing cells. By default
// these are the empty string and the two-character `\N` escape used by the
// f1db dump; "NA", "null" and friends are ordinary data.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/aneroid/ergast-f1db-extra/internal/dtype"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
)

// DefaultNAValues are the missing-value tokens of the f1db dump.
var DefaultNAValues = []string{"", `\N`}

// Options configures the parser. The zero value performs a raw read with the
// default missing-value tokens and ',' as delimiter.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// NAValues lists the exact tokens read as missing. When nil,
	// DefaultNAValues is used; pass an empty non-nil slice to disable.
	NAValues []string

	// Types maps column names to kinds. Columns not listed are read as
	// strings. Entries for columns absent from the file are ignored.
	Types map[string]dtype.Kind

	// ParseDates lists columns parsed as datetimes. Every listed column must
	// be present in the file.
	ParseDates []string
}

// Parser reads CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads a header row followed by data rows from r. Rows whose width
// differs from the header and cells that do not convert to their column kind
// fail the whole read.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(NewBOMReader(r))
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header: empty input")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header = slices.Clone(header)

	na := p.opt.NAValues
	if na == nil {
		na = DefaultNAValues
	}
	isNA := make(map[string]bool, len(na))
	for _, tok := range na {
		isNA[tok] = true
	}

	cols := make([]*table.Column, len(header))
	for i, name := range header {
		kind := dtype.KindString
		if k, ok := p.opt.Types[name]; ok {
			kind = k
		}
		cols[i] = &table.Column{Name: name, Kind: kind}
	}
	for _, name := range p.opt.ParseDates {
		i := slices.Index(header, name)
		if i < 0 {
			return nil, fmt.Errorf("parse dates: %w: %q", table.ErrColumnNotFound, name)
		}
		cols[i].Kind = dtype.KindDateTime
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		for i, cell := range row {
			v, err := convert(cols[i].Kind, cell, isNA[cell])
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("line %d column %q: %w", line, cols[i].Name, err)
			}
			cols[i].Values = append(cols[i].Values, v)
		}
	}

	return table.New(cols...)
}

func convert(k dtype.Kind, cell string, missing bool) (any, error) {
	if missing {
		return k.Missing()
	}
	return k.Parse(cell)
}
