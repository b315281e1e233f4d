package render

import (
	"fmt"
	"text/template"

	"reggen/internal/synth"
	"reggen/internal/width"
)

const cppBanner = `// This file was automatically generated by reggen.
// Any changes to this file may be overwritten on subsequent generations.
// Dialect: cpp
`

const cppBaseText = `{{banner}}
#pragma once

#include <cstdint>

class Register{{.}} {
public:
	Register{{.}}() = default;
	inline uint{{.}}_t get_value() const { return register_raw; };
	inline void clear_value() { register_raw = 0x0; };
	inline void set_value(uint{{.}}_t value) { register_raw = value; };
{{range ops}}	Register{{$}} operator{{.}}(const uint{{$}}_t param) const { Register{{$}} buff; buff.register_raw = static_cast<uint{{$}}_t>(register_raw {{.}} param); return buff; };
	Register{{$}} operator{{.}}(const Register{{$}} &param) const { Register{{$}} buff; buff.register_raw = static_cast<uint{{$}}_t>(register_raw {{.}} param.register_raw); return buff; };
{{end}}	Register{{.}} operator~() const { Register{{.}} buff; buff.register_raw = static_cast<uint{{.}}_t>(~register_raw); return buff; };
protected:
	uint{{.}}_t register_raw = 0x0;
};
`

const cppFamilyText = `{{banner}}
#pragma once

#include <cstdint>

{{range .Widths}}#include "{{baseName .}}"
{{end}}
`

const cppUnitText = `{{define "getter"}}{{comment "\t" .Doc}}{{if .Signed}}	inline int{{.Storage}}_t get_{{.Field}}() const {
		uint{{.Storage}}_t field_raw = static_cast<uint{{.Storage}}_t>(register_raw >> {{.Shift}}) & {{lit .Storage .Mask}};
{{if .Extend}}		if (field_raw & {{lit .Storage .SignBit}}) {
			field_raw |= {{lit .Storage .Extend}};
		}
{{end}}		return static_cast<int{{.Storage}}_t>(field_raw);
	}
{{else}}	inline uint{{.Storage}}_t get_{{.Field}}() const {
		uint{{.Storage}}_t buffer = register_raw >> {{.Shift}};
		return static_cast<uint{{.Storage}}_t>(buffer & {{lit .Storage .Mask}});
	}
{{end}}{{end}}{{define "setter"}}{{comment "\t" .Doc}}{{if .Signed}}	inline bool set_{{.Field}}(int{{.Storage}}_t value) {
{{if not .FullWidth}}		if (value < {{.Min}} || value > {{.Max}}) {
			return false;
		}
{{end}}		register_raw &= {{lit .Storage .Clear}};
		register_raw |= static_cast<uint{{.Storage}}_t>((static_cast<uint{{.Storage}}_t>(value) & {{lit .Storage .Mask}}) << {{.Shift}});
		return true;
	}
{{else}}	inline bool set_{{.Field}}(uint{{.Storage}}_t value) {
{{if not .FullWidth}}		if (value > {{lit .Storage .Max}}) {
			return false;
		}
{{end}}		register_raw &= {{lit .Storage .Clear}};
		register_raw |= static_cast<uint{{.Storage}}_t>(value << {{.Shift}});
		return true;
	}
{{end}}{{end}}{{comment "" .Doc}}class {{.Name}} : public Register{{.Storage}} {
public:
	{{.Name}}() : Register{{.Storage}}() {};

	// Get methods
{{range .Getters}}{{template "getter" .}}{{end}}
	// Set methods
{{range .Setters}}{{template "setter" .}}{{end}}};

`

type cppDialect struct {
	group *templateGroup
}

func newCPP(Options) (Dialect, error) {
	d := &cppDialect{}
	funcs := template.FuncMap{
		"banner":   func() string { return cppBanner },
		"ops":      bitOps,
		"baseName": d.BaseArtifact,
		"comment":  comment,
		"lit":      cppLiteral,
	}
	d.group = createTemplates(funcs, cppBaseText, cppFamilyText, cppUnitText)
	return d, nil
}

// cppLiteral prints v as an unsigned hex literal sized for w.
func cppLiteral(w width.Width, v uint64) string {
	suffix := "U"
	if w == width.W64 {
		suffix = "ULL"
	}
	return fmt.Sprintf("0x%0*X%s", hexDigits(w), v, suffix)
}

func (d *cppDialect) Name() string { return "cpp" }

func (d *cppDialect) BaseArtifact(w width.Width) string {
	return fmt.Sprintf("Register%d.h", w.Bits())
}

func (d *cppDialect) FamilyArtifact(family string) string {
	return family + "Registers.h"
}

func (d *cppDialect) Base(w width.Width) ([]byte, error) {
	return execute(d.group.base, w)
}

func (d *cppDialect) Family(family string, widths []width.Width) ([]byte, error) {
	return execute(d.group.family, familyData{Family: family, Widths: widths})
}

func (d *cppDialect) TypeName(register string) string { return register }

func (d *cppDialect) AccessorName(k synth.Kind, field string) string {
	return cppAccessorName(k, field)
}

func (d *cppDialect) BaseMembers() []string {
	return []string{"get_value", "clear_value", "set_value"}
}

func (d *cppDialect) Unit(u synth.Unit) ([]byte, error) {
	if err := CheckUnit(d, u); err != nil {
		return nil, err
	}
	return execute(d.group.unit, u)
}
