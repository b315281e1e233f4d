// Package render turns synthesized units into source text for one output
// dialect. Rendering is a single pass over synth descriptors; no bit
// arithmetic happens here beyond formatting the constants they carry.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"reggen/internal/synth"
	"reggen/internal/width"
)

// Dialect renders the three artifact kinds and names their files.
// TypeName, AccessorName and BaseMembers expose the identifiers a dialect
// declares so clashes can be rejected before anything is written.
type Dialect interface {
	Name() string
	TypeName(register string) string
	AccessorName(k synth.Kind, field string) string
	BaseMembers() []string
	BaseArtifact(w width.Width) string
	FamilyArtifact(family string) string
	Base(w width.Width) ([]byte, error)
	Family(family string, widths []width.Width) ([]byte, error)
	Unit(u synth.Unit) ([]byte, error)
}

// Options are dialect knobs supplied by the caller.
type Options struct {
	// Package is the Go package clause for the go dialect.
	Package string
}

type constructor func(Options) (Dialect, error)

var dialects = map[string]constructor{
	"cpp": newCPP,
	"go":  newGo,
}

// Names lists the known dialects.
func Names() []string {
	out := make([]string, 0, len(dialects))
	for name := range dialects {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the dialect called name.
func Lookup(name string, opts Options) (Dialect, error) {
	ctor, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (expected %s)", name, strings.Join(Names(), "|"))
	}
	return ctor(opts)
}

type templateGroup struct {
	base   *template.Template
	family *template.Template
	unit   *template.Template
}

func createTemplates(funcs template.FuncMap, baseText, familyText, unitText string) *templateGroup {
	base := template.Must(template.New("base").Funcs(funcs).Parse(baseText))
	family := template.Must(template.New("family").Funcs(funcs).Parse(familyText))
	unit := template.Must(template.New("unit").Funcs(funcs).Parse(unitText))
	return &templateGroup{base: base, family: family, unit: unit}
}

func execute(t *template.Template, data any) ([]byte, error) {
	var out bytes.Buffer
	if err := t.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("failed to execute the %s template: %w", t.Name(), err)
	}
	return out.Bytes(), nil
}

type familyData struct {
	Family string
	Widths []width.Width
}

// comment prefixes every line of text with indent and "// ".
func comment(indent, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			b.WriteString(indent + "//\n")
			continue
		}
		b.WriteString(indent + "// " + line + "\n")
	}
	return b.String()
}

// hexDigits is the number of hex digits needed for w bits.
func hexDigits(w width.Width) int {
	return int(w.Bits()) / 4
}

func bitOps() []string {
	return []string{"&", "|", "<<", ">>"}
}
