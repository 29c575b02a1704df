package transform

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// rowKey builds a 64-bit dedup key over every value of a projected row.
// Dedup here is whole-row on purpose: two records sharing a business key but
// differing in any other attribute are distinct rows and both survive
// (upstream relies on this; do not collapse by key).
//
// Values are concatenated with a \x1f separator; nil encodes as \x00 so that
// null and empty string stay distinct. Non-string values go through fmt,
// which is deterministic for the small closed set of row value types.
func rowKey(vals []any) uint64 {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := v.(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(t)
		default:
			fmt.Fprint(&b, t)
		}
	}
	return xxh3.HashString(b.String())
}
