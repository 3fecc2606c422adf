package csv

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewBOMReader strips a leading byte order mark from r. A UTF-16 BOM switches
// decoding to UTF-16 and yields UTF-8; input without a BOM passes through
// untouched.
func NewBOMReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}
