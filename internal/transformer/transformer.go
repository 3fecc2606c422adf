// Package transformer defines table transformations and the registry that
// binds each known f1db file to its standardisation hook.
package transformer

import "github.com/aneroid/ergast-f1db-extra/internal/table"

// Transformer adds or rewrites columns of a table.
type Transformer interface {
	Apply(t *table.Table) (*table.Table, error)
}

// Func adapts a function to Transformer.
type Func func(t *table.Table) (*table.Table, error)

// Apply calls f(t).
func (f Func) Apply(t *table.Table) (*table.Table, error) { return f(t) }

// Identity returns its input unchanged.
var Identity Transformer = Func(func(t *table.Table) (*table.Table, error) { return t, nil })

// Chain is an ordered list of transformers. The first error stops the chain.
type Chain []Transformer

// Apply runs each transformer in order.
func (c Chain) Apply(in *table.Table) (*table.Table, error) {
	out := in
	for _, t := range c {
		var err error
		if out, err = t.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
