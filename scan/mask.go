package scan

import (
	"fmt"

	"github.com/willf/bitset"
)

// A ProjectionMask records which schema columns a scan must produce.
// The nil mask projects every column. Values of columns outside the
// mask are nil in the rows a Scanner returns, and scanners skip the
// decoding work behind them where they can.
type ProjectionMask struct {
	bits *bitset.BitSet
}

// NewProjectionMask builds a mask for the given column names. A nil
// or empty name list yields the nil mask. Unknown names are an error.
func NewProjectionMask(schema Schema, columns []string) (*ProjectionMask, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	bits := bitset.New(uint(len(schema)))
	for _, name := range columns {
		index := schema.Find(name)
		if index < 0 {
			return nil, fmt.Errorf("unknown column %v", name)
		}
		bits.Set(uint(index))
	}
	return &ProjectionMask{bits: bits}, nil
}

// Has reports whether the column at the given schema index is
// projected.
func (m *ProjectionMask) Has(index int) bool {
	if m == nil {
		return true
	}
	return m.bits.Test(uint(index))
}

// Count returns the number of projected columns out of the given
// schema size.
func (m *ProjectionMask) Count(schemaLen int) int {
	if m == nil {
		return schemaLen
	}
	return int(m.bits.Count())
}
