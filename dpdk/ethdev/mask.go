package ethdev

import (
	"fmt"
	"math/bits"
)

// Mask is a bit-set of port IDs.
// Bit i is set when port i is enabled.
type Mask uint32

// MaskBits is the width of Mask in bits.
const MaskBits = 32

// Mask must have a bit for every port.
var _ [MaskBits - MaxEthPorts]struct{}

// MaskOf constructs Mask from port IDs.
// Out-of-range IDs are ignored.
func MaskOf(ids ...ID) (m Mask) {
	for _, id := range ids {
		m = m.Set(id)
	}
	return m
}

// MaskBelow returns a Mask with bits 0..n-1 set.
func MaskBelow(n int) Mask {
	switch {
	case n <= 0:
		return 0
	case n >= MaxEthPorts:
		return ^Mask(0)
	}
	return Mask(1)<<n - 1
}

// Has determines whether port id is in the mask.
func (m Mask) Has(id ID) bool {
	return id.Valid() && m&(1<<id) != 0
}

// Set returns a copy of the mask with port id added.
func (m Mask) Set(id ID) Mask {
	if !id.Valid() {
		return m
	}
	return m | 1<<id
}

// Count returns the number of ports in the mask.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// IDs returns port IDs in the mask in ascending order.
func (m Mask) IDs() (list []ID) {
	for v := uint32(m); v != 0; v &= v - 1 {
		list = append(list, ID(bits.TrailingZeros32(v)))
	}
	return list
}

func (m Mask) String() string {
	return fmt.Sprintf("0x%x", uint32(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mask) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
