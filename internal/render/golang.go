package render

import (
	"fmt"
	"go/token"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"reggen/internal/synth"
	"reggen/internal/width"
)

const goBanner = "// Code generated by reggen. DO NOT EDIT.\n"

const goBaseText = `{{banner}}
package {{pkg}}

// Register{{.}} is the raw storage shared by every {{.}}-bit register.
type Register{{.}} struct {
	raw uint{{.}}
}

// GetValue returns the raw register value.
func (r *Register{{.}}) GetValue() uint{{.}} { return r.raw }

// ClearValue zeroes the raw register value.
func (r *Register{{.}}) ClearValue() { r.raw = 0 }

// SetValue replaces the raw register value.
func (r *Register{{.}}) SetValue(value uint{{.}}) { r.raw = value }
{{range ops}}
func (r Register{{$}}) {{.Name}}(param uint{{$}}) Register{{$}} {
	return Register{{$}}{raw: r.raw {{.Op}} param}
}

func (r Register{{$}}) {{.Name}}Reg(param Register{{$}}) Register{{$}} {
	return Register{{$}}{raw: r.raw {{.Op}} param.raw}
}
{{end}}
func (r Register{{.}}) Not() Register{{.}} {
	return Register{{.}}{raw: ^r.raw}
}
`

const goFamilyText = `{{banner}}
package {{pkg}}

// {{.Family}} registers embed the storage types declared in:
{{range .Widths}}//	{{baseName .}}
{{end}}`

const goUnitText = `{{define "getter"}}
{{with .Doc}}{{comment "" .}}{{else}}// Get{{goName .Field}} returns bits {{bitRange .}}.
{{end}}{{if .Signed}}func (r *{{goName .Recv}}) Get{{goName .Field}}() int{{.Storage}} {
	fieldRaw := (r.raw >> {{.Shift}}) & {{lit .Storage .Mask}}
{{if .Extend}}	if fieldRaw&{{lit .Storage .SignBit}} != 0 {
		fieldRaw |= {{lit .Storage .Extend}}
	}
{{end}}	return int{{.Storage}}(fieldRaw)
}
{{else}}func (r *{{goName .Recv}}) Get{{goName .Field}}() uint{{.Storage}} {
	buffer := r.raw >> {{.Shift}}
	return buffer & {{lit .Storage .Mask}}
}
{{end}}{{end}}{{define "setter"}}
{{with .Doc}}{{comment "" .}}{{else}}// Set{{goName .Field}} stores value in bits {{bitRange .}}.
{{end}}// It reports false, leaving the register unchanged, when value does not fit.
{{if .Signed}}func (r *{{goName .Recv}}) Set{{goName .Field}}(value int{{.Storage}}) bool {
{{if not .FullWidth}}	if value < {{.Min}} || value > {{.Max}} {
		return false
	}
{{end}}	r.raw &= {{lit .Storage .Clear}}
	r.raw |= (uint{{.Storage}}(value) & {{lit .Storage .Mask}}) << {{.Shift}}
	return true
}
{{else}}func (r *{{goName .Recv}}) Set{{goName .Field}}(value uint{{.Storage}}) bool {
{{if not .FullWidth}}	if value > {{lit .Storage .Max}} {
		return false
	}
{{end}}	r.raw &= {{lit .Storage .Clear}}
	r.raw |= value << {{.Shift}}
	return true
}
{{end}}{{end}}
{{with .Doc}}{{comment "" .}}{{else}}// {{goName $.Name}} is a {{$.Storage}}-bit register of the {{$.Family}} family.
{{end}}type {{goName .Name}} struct {
	Register{{.Storage}}
}
{{range .Getters}}{{template "getter" .}}{{end}}{{range .Setters}}{{template "setter" .}}{{end}}`

type goDialect struct {
	pkg   string
	group *templateGroup
}

type goOp struct {
	Name string
	Op   string
}

func newGo(opts Options) (Dialect, error) {
	pkg := strings.TrimSpace(opts.Package)
	if pkg == "" {
		pkg = "registers"
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid Go package name %q", pkg)
	}
	d := &goDialect{pkg: pkg}
	funcs := template.FuncMap{
		"banner":   func() string { return goBanner },
		"pkg":      func() string { return d.pkg },
		"ops":      goOps,
		"baseName": d.BaseArtifact,
		"comment":  comment,
		"lit":      goLiteral,
		"goName":   GoName,
		"bitRange": func(a goAccessor) string {
			return fmt.Sprintf("[%d:%d]", a.Shift+a.Span, a.Shift)
		},
	}
	d.group = createTemplates(funcs, goBaseText, goFamilyText, goUnitText)
	return d, nil
}

func goOps() []goOp {
	names := map[string]string{"&": "And", "|": "Or", "<<": "Shl", ">>": "Shr"}
	ops := bitOps()
	out := make([]goOp, 0, len(ops))
	for _, op := range ops {
		out = append(out, goOp{Name: names[op], Op: op})
	}
	return out
}

func goLiteral(w width.Width, v uint64) string {
	return fmt.Sprintf("0x%0*X", hexDigits(w), v)
}

// GoName converts a model identifier to an exported Go name:
// "rx_ready" becomes "RxReady".
func GoName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

func (d *goDialect) Name() string { return "go" }

func (d *goDialect) BaseArtifact(w width.Width) string {
	return fmt.Sprintf("register%d.go", w.Bits())
}

func (d *goDialect) FamilyArtifact(family string) string {
	return strings.ToLower(family) + "_registers.go"
}

func (d *goDialect) Base(w width.Width) ([]byte, error) {
	return execute(d.group.base, w)
}

func (d *goDialect) Family(family string, widths []width.Width) ([]byte, error) {
	return execute(d.group.family, familyData{Family: family, Widths: widths})
}

type goAccessor struct {
	synth.Accessor
	Recv string
}

type goUnit struct {
	synth.Unit
	Getters []goAccessor
	Setters []goAccessor
}

func (d *goDialect) TypeName(register string) string { return GoName(register) }

func (d *goDialect) AccessorName(k synth.Kind, field string) string {
	return goAccessorName(k, field)
}

func (d *goDialect) BaseMembers() []string { return goBaseMembers() }

func (d *goDialect) Unit(u synth.Unit) ([]byte, error) {
	if err := CheckUnit(d, u); err != nil {
		return nil, err
	}
	data := goUnit{Unit: u}
	for _, a := range u.Getters {
		data.Getters = append(data.Getters, goAccessor{Accessor: a, Recv: u.Name})
	}
	for _, a := range u.Setters {
		data.Setters = append(data.Setters, goAccessor{Accessor: a, Recv: u.Name})
	}
	return execute(d.group.unit, data)
}
