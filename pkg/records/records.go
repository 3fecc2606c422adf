// Package records defines the row view shared by loaders, exporters and the
// CLI. A Record maps column names to typed values; nil marks a missing value.
package records

// Record is a single row keyed by column name.
type Record map[string]any
