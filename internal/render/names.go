package render

import (
	"fmt"

	"reggen/internal/diag"
	"reggen/internal/model"
	"reggen/internal/synth"
	"reggen/internal/width"
)

// NameClashError reports an identifier a dialect cannot declare because
// another declaration already owns it.
type NameClashError struct {
	Dialect  string
	Register string
	Field    string
	Name     string
	With     string
}

func (e *NameClashError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: register %q declares %s, which is already %s", e.Dialect, e.Register, e.Name, e.With)
	}
	return fmt.Sprintf("%s: field %s.%s declares %s, which is already %s", e.Dialect, e.Register, e.Field, e.Name, e.With)
}

type accessorDecl struct {
	kind  synth.Kind
	field string
}

// unitClashes checks the identifiers one register would declare.
func unitClashes(d Dialect, register string, decls []accessorDecl) []*NameClashError {
	var out []*NameClashError
	typeName := d.TypeName(register)
	for _, w := range width.All() {
		if base := d.TypeName(fmt.Sprintf("Register%d", w.Bits())); base == typeName {
			out = append(out, &NameClashError{Dialect: d.Name(), Register: register, Name: typeName, With: "a base storage type"})
		}
	}

	reserved := make(map[string]bool)
	for _, m := range d.BaseMembers() {
		reserved[m] = true
	}
	owners := make(map[string]string, len(decls))
	for _, a := range decls {
		name := d.AccessorName(a.kind, a.field)
		clash := &NameClashError{Dialect: d.Name(), Register: register, Field: a.field, Name: name}
		switch prev, dup := owners[name]; {
		case reserved[name]:
			clash.With = "a member of the base storage type"
		case dup && prev != a.field:
			clash.With = fmt.Sprintf("declared by field %q", prev)
		default:
			owners[name] = a.field
			continue
		}
		out = append(out, clash)
	}
	return out
}

// CheckUnit returns the first identifier in u that d cannot declare.
func CheckUnit(d Dialect, u synth.Unit) error {
	decls := make([]accessorDecl, 0, len(u.Getters)+len(u.Setters))
	for _, a := range u.Getters {
		decls = append(decls, accessorDecl{kind: a.Kind, field: a.Field})
	}
	for _, a := range u.Setters {
		decls = append(decls, accessorDecl{kind: a.Kind, field: a.Field})
	}
	if clashes := unitClashes(d, u.Name, decls); len(clashes) > 0 {
		return clashes[0]
	}
	return nil
}

// Validate reports every identifier in fam that d would declare twice,
// including register types that collide across the family.
func Validate(d Dialect, fam *model.Family, r diag.Reporter) {
	types := make(map[string]string, len(fam.Registers))
	for i := range fam.Registers {
		reg := &fam.Registers[i]
		at := diag.Location{File: fam.Source, Register: reg.Name}

		typeName := d.TypeName(reg.Name)
		if prev, dup := types[typeName]; dup && prev != reg.Name {
			diag.Errorf(r, diag.ModelNameClash, at, "%v", &NameClashError{
				Dialect: d.Name(), Register: reg.Name, Name: typeName,
				With: fmt.Sprintf("declared by register %q", prev),
			})
		} else if !dup {
			types[typeName] = reg.Name
		}

		var decls []accessorDecl
		for _, f := range reg.Fields {
			if f.Read {
				decls = append(decls, accessorDecl{kind: synth.KindGetter, field: f.Name})
			}
		}
		for _, f := range reg.Fields {
			if f.Write {
				decls = append(decls, accessorDecl{kind: synth.KindSetter, field: f.Name})
			}
		}
		for _, c := range unitClashes(d, reg.Name, decls) {
			loc := at
			loc.Field = c.Field
			diag.Errorf(r, diag.ModelNameClash, loc, "%v", c)
		}
	}
}

func cppAccessorName(k synth.Kind, field string) string {
	if k == synth.KindSetter {
		return "set_" + field
	}
	return "get_" + field
}

func goAccessorName(k synth.Kind, field string) string {
	if k == synth.KindSetter {
		return "Set" + GoName(field)
	}
	return "Get" + GoName(field)
}

func goBaseMembers() []string {
	out := []string{"GetValue", "ClearValue", "SetValue", "Not"}
	for _, op := range goOps() {
		out = append(out, op.Name, op.Name+"Reg")
	}
	return out
}
