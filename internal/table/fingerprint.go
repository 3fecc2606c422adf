package table

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes column names, kinds and values in row order. Two tables
// with the same fingerprint hold the same data with overwhelming probability.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	for _, c := range t.cols {
		fmt.Fprintf(h, "%s\x1e%s\x1e", c.Name, c.Kind)
		for _, v := range c.Values {
			fmt.Fprintf(h, "%T:%v\x1f", v, v)
		}
		h.Write([]byte{'\x1d'})
	}
	return h.Sum64()
}
