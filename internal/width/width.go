// Package width defines the register storage widths the generator supports.
package width

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Width is the bit width of a register's raw storage.
// Exactly four values are legal; every switch over Width panics on anything else.
type Width uint8

const (
	W8  Width = 8
	W16 Width = 16
	W32 Width = 32
	W64 Width = 64
)

// All lists the supported widths in ascending order.
func All() []Width {
	return []Width{W8, W16, W32, W64}
}

// UnsupportedError reports a declared width outside {8,16,32,64}.
type UnsupportedError struct {
	Bits int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported register width %d (expected 8, 16, 32 or 64)", e.Bits)
}

// Parse converts a declared bit count into a Width.
func Parse(bits int) (Width, error) {
	b, err := safecast.Conv[uint8](bits)
	if err != nil {
		return 0, &UnsupportedError{Bits: bits}
	}
	w := Width(b)
	if !w.Valid() {
		return 0, &UnsupportedError{Bits: bits}
	}
	return w, nil
}

// Valid reports whether w is one of the four supported widths.
func (w Width) Valid() bool {
	switch w {
	case W8, W16, W32, W64:
		return true
	}
	return false
}

// Bits returns the number of bits in the storage.
func (w Width) Bits() uint8 {
	switch w {
	case W8, W16, W32, W64:
		return uint8(w)
	}
	panic(fmt.Sprintf("width: invalid width %d", uint8(w)))
}

// Ones returns the all-ones value of the storage width.
func (w Width) Ones() uint64 {
	switch w {
	case W8:
		return 0xFF
	case W16:
		return 0xFFFF
	case W32:
		return 0xFFFF_FFFF
	case W64:
		return 0xFFFF_FFFF_FFFF_FFFF
	}
	panic(fmt.Sprintf("width: invalid width %d", uint8(w)))
}

// Truncate discards every bit of v above the storage width.
func (w Width) Truncate(v uint64) uint64 {
	return v & w.Ones()
}

// Signed reinterprets the low w bits of v as a two's-complement integer.
func (w Width) Signed(v uint64) int64 {
	switch w {
	case W8:
		return int64(int8(uint8(v)))
	case W16:
		return int64(int16(uint16(v)))
	case W32:
		return int64(int32(uint32(v)))
	case W64:
		return int64(v)
	}
	panic(fmt.Sprintf("width: invalid width %d", uint8(w)))
}

func (w Width) String() string {
	return fmt.Sprintf("%d", uint8(w))
}

// Normalize returns the distinct widths of ws in ascending order.
func Normalize(ws []Width) []Width {
	seen := make(map[Width]bool, len(ws))
	out := make([]Width, 0, len(ws))
	for _, w := range ws {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
