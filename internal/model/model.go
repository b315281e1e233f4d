// Package model holds the in-memory register model and loads it from TOML.
package model

import (
	"fmt"
	"strings"
)

// Access is the read/write permission of a field, as declared in a model file.
type Access struct {
	Read  bool
	Write bool
	isSet bool
}

// ParseAccess accepts "r", "w", "rw" (any case) and "" for undeclared.
func ParseAccess(s string) (Access, error) {
	var a Access
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
	case "r":
		a = Access{Read: true, isSet: true}
	case "w":
		a = Access{Write: true, isSet: true}
	case "rw", "wr":
		a = Access{Read: true, Write: true, isSet: true}
	default:
		return Access{}, fmt.Errorf("unable to understand access value %q (expected r, w or rw)", s)
	}
	return a, nil
}

// IsSet reports whether the access was declared explicitly.
func (a Access) IsSet() bool {
	return a.isSet
}

func (a Access) String() string {
	switch {
	case a.Read && a.Write:
		return "rw"
	case a.Read:
		return "r"
	case a.Write:
		return "w"
	}
	return "-"
}

// Field is a named bit range inside a register.
type Field struct {
	Name        string
	Description string
	Lsb         int
	Msb         int
	Read        bool
	Write       bool
	// Negative is tri-state; nil and false both mean unsigned.
	Negative *bool
}

// Signed reports whether the field is sign-extended.
func (f Field) Signed() bool {
	return f.Negative != nil && *f.Negative
}

// Bits is msb - lsb + 1.
func (f Field) Bits() int {
	return f.Msb - f.Lsb + 1
}

// Range renders the bit range as [msb:lsb].
func (f Field) Range() string {
	return fmt.Sprintf("[%d:%d]", f.Msb, f.Lsb)
}

// Register is a fixed-width storage unit partitioned into fields.
type Register struct {
	Name        string
	Description string
	Size        int
	Fields      []Field
}

// Field returns the field called name.
func (r *Register) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Family is a named group of registers that share one umbrella artifact.
type Family struct {
	Name      string
	Widths    []int
	Registers []Register
	// Source is the path the family was loaded from.
	Source string
	// DeclaredWidths is true when the model file listed widths explicitly.
	DeclaredWidths bool
}

// Register returns the register called name.
func (f *Family) Register(name string) (*Register, bool) {
	for i := range f.Registers {
		if f.Registers[i].Name == name {
			return &f.Registers[i], true
		}
	}
	return nil, false
}
