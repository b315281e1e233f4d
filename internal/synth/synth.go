// Package synth translates bitfield descriptions into accessor descriptors.
//
// Every descriptor is derived from (lsb, msb, storage width, signedness) alone.
// The descriptors are what renderers print, and they can also be evaluated
// directly through Get/Set, which compute exactly what the generated code does.
package synth

import (
	"fmt"

	"reggen/internal/width"
)

// Kind distinguishes getters from setters.
type Kind uint8

const (
	KindGetter Kind = iota + 1
	KindSetter
)

func (k Kind) String() string {
	switch k {
	case KindGetter:
		return "get"
	case KindSetter:
		return "set"
	default:
		return "unknown"
	}
}

// Field is the bit range of one register field.
// Callers guarantee 0 <= Lsb <= Msb < storage bits.
type Field struct {
	Name   string
	Doc    string
	Lsb    uint8
	Msb    uint8
	Signed bool
}

// Span is msb - lsb, the index of the field's own top bit.
func (f Field) Span() uint8 {
	return f.Msb - f.Lsb
}

// Accessor describes one generated getter or setter.
type Accessor struct {
	Kind    Kind
	Field   string
	Doc     string
	Storage width.Width
	Shift   uint8
	Span    uint8
	Mask    uint64
	Clear   uint64
	Signed  bool
	SignBit uint64
	Extend  uint64
	Max     uint64
	Min     int64
}

// Mask returns span+1 low bits set, computed as ones(W) >> (W - 1 - span).
// The shift never reaches the full storage width, so a field as wide as its
// register is handled without overflow.
func Mask(span uint8, storage width.Width) uint64 {
	bits := storage.Bits()
	if span >= bits {
		panic(fmt.Sprintf("synth: span %d does not fit %d-bit storage", span, bits))
	}
	return storage.Ones() >> (bits - 1 - span)
}

func base(kind Kind, f Field, w width.Width) Accessor {
	span := f.Span()
	mask := Mask(span, w)
	a := Accessor{
		Kind:    kind,
		Field:   f.Name,
		Doc:     f.Doc,
		Storage: w,
		Shift:   f.Lsb,
		Span:    span,
		Mask:    mask,
		Clear:   w.Truncate(^(mask << f.Lsb)),
		Signed:  f.Signed,
	}
	if f.Signed {
		a.SignBit = uint64(1) << span
		a.Extend = w.Truncate(^mask)
		a.Max = mask >> 1
		a.Min = ^int64(a.Max)
	} else {
		a.Max = mask
	}
	return a
}

// Getter synthesizes the read accessor of f inside w-bit storage.
func Getter(f Field, w width.Width) Accessor {
	return base(KindGetter, f, w)
}

// Setter synthesizes the write accessor of f inside w-bit storage.
func Setter(f Field, w width.Width) Accessor {
	return base(KindSetter, f, w)
}

// Bits is the field width in bits.
func (a Accessor) Bits() uint8 {
	return a.Span + 1
}

// FullWidth reports whether the field spans the whole storage, in which case
// every value of the storage type is in range.
func (a Accessor) FullWidth() bool {
	return a.Bits() == a.Storage.Bits()
}

// Get extracts the field from raw. Signed fields come back sign-extended to
// the storage width.
func (a Accessor) Get(raw uint64) uint64 {
	buffer := a.Storage.Truncate(raw) >> a.Shift
	field := buffer & a.Mask
	if a.Signed && field&a.SignBit != 0 {
		field |= a.Extend
	}
	return field
}

// GetSigned is Get reinterpreted as a two's-complement storage-width integer.
func (a Accessor) GetSigned(raw uint64) int64 {
	return a.Storage.Signed(a.Get(raw))
}

// Set inserts an unsigned value. It reports false and returns raw unchanged
// when value does not fit the field.
func (a Accessor) Set(raw, value uint64) (uint64, bool) {
	if value > a.Max {
		return raw, false
	}
	return a.insert(raw, value), true
}

// SetSigned inserts a signed value. Out-of-range values leave raw unchanged.
func (a Accessor) SetSigned(raw uint64, value int64) (uint64, bool) {
	if value < a.Min || (value >= 0 && uint64(value) > a.Max) {
		return raw, false
	}
	return a.insert(raw, uint64(value)&a.Mask), true
}

func (a Accessor) insert(raw, value uint64) uint64 {
	raw = a.Storage.Truncate(raw) & a.Clear
	return a.Storage.Truncate(raw | value<<a.Shift)
}

// Unit is one register's worth of accessors, ready for rendering.
type Unit struct {
	Name    string
	Family  string
	Doc     string
	Storage width.Width
	Getters []Accessor
	Setters []Accessor
}
