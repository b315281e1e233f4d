package model

import (
	"slices"

	"reggen/internal/diag"
	"reggen/internal/width"
)

// Validate checks a decoded family. Unsupported register widths are only
// warned about here; the assembler rejects them when the register is appended.
func Validate(fam *Family, r diag.Reporter) {
	famAt := diag.Location{File: fam.Source}
	if fam.Name != "" && !IsIdentifier(fam.Name) {
		diag.Errorf(r, diag.ModelBadName, famAt, "family name %q is not an identifier", fam.Name)
	}
	for _, w := range fam.Widths {
		if _, err := width.Parse(w); err != nil {
			diag.Warnf(r, diag.ModelUnsupportedWidth, famAt, "%v", err)
		}
	}

	seen := make(map[string]bool, len(fam.Registers))
	for i := range fam.Registers {
		reg := &fam.Registers[i]
		at := diag.Location{File: fam.Source, Register: reg.Name}
		if !IsIdentifier(reg.Name) {
			diag.Errorf(r, diag.ModelBadName, at, "register name %q is not an identifier", reg.Name)
		}
		if seen[reg.Name] {
			diag.Errorf(r, diag.ModelDuplicateRegister, at, "register %q declared more than once", reg.Name)
		}
		seen[reg.Name] = true

		if reg.Size != 0 {
			if _, err := width.Parse(reg.Size); err != nil {
				diag.Warnf(r, diag.ModelUnsupportedWidth, at, "%v", err)
			}
			if fam.DeclaredWidths && !slices.Contains(fam.Widths, reg.Size) {
				diag.Errorf(r, diag.ModelWidthNotListed, at,
					"register %q uses width %d which is not in the family widths %v", reg.Name, reg.Size, fam.Widths)
			}
		}
		validateFields(reg, fam.Source, r)
	}
}

func validateFields(reg *Register, source string, r diag.Reporter) {
	seen := make(map[string]bool, len(reg.Fields))
	for i, f := range reg.Fields {
		at := diag.Location{File: source, Register: reg.Name, Field: f.Name}
		if !IsIdentifier(f.Name) {
			diag.Errorf(r, diag.ModelBadName, at, "field name %q is not an identifier", f.Name)
		}
		if seen[f.Name] {
			diag.Errorf(r, diag.ModelDuplicateField, at, "field %q declared more than once in %s", f.Name, reg.Name)
		}
		seen[f.Name] = true

		switch {
		case f.Lsb < 0 || f.Msb < 0:
			diag.Errorf(r, diag.ModelBadBitRange, at, "bit range %s has a negative bound", f.Range())
			continue
		case f.Lsb > f.Msb:
			diag.Errorf(r, diag.ModelBadBitRange, at, "bit range %s has lsb above msb", f.Range())
			continue
		case reg.Size > 0 && f.Msb >= reg.Size:
			diag.Errorf(r, diag.ModelBadBitRange, at, "msb %d exceeds register size %d", f.Msb, reg.Size)
			continue
		}
		if !f.Read && !f.Write {
			diag.Infof(r, diag.ModelNoAccessors, at, "field %q is neither readable nor writable; no accessors will be generated", f.Name)
		}
		for _, prev := range reg.Fields[:i] {
			if prev.Lsb <= f.Msb && f.Lsb <= prev.Msb {
				diag.Warnf(r, diag.ModelOverlappingFields, at,
					"field %s %s overlaps %s %s", f.Name, f.Range(), prev.Name, prev.Range())
				break
			}
		}
	}
}
