package model

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"reggen/internal/diag"
)

type fileModel struct {
	Family   string          `toml:"family"`
	Widths   []int           `toml:"widths"`
	Register []registerModel `toml:"register"`
}

type registerModel struct {
	Name        string       `toml:"name"`
	Description string       `toml:"description"`
	Size        *int         `toml:"size"`
	Access      string       `toml:"access"`
	Field       []fieldModel `toml:"field"`
}

type fieldModel struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Lsb         *int   `toml:"lsb"`
	Msb         *int   `toml:"msb"`
	Access      string `toml:"access"`
	Negative    *bool  `toml:"negative"`
}

// LoadFile reads and decodes the model file at path.
func LoadFile(path string, r diag.Reporter) (*Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return Decode(data, path, r)
}

// Decode converts TOML model text into a Family. Problems with individual
// registers or fields are reported to r and the offending item is kept with
// its best-effort values; only undecodable TOML returns an error.
func Decode(data []byte, source string, r diag.Reporter) (*Family, error) {
	var raw fileModel
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", source, err)
	}
	fam := &Family{
		Name:           normalizeName(raw.Family),
		Source:         source,
		DeclaredWidths: meta.IsDefined("widths"),
	}
	if !meta.IsDefined("family") {
		diag.Errorf(r, diag.ModelBadName, diag.Location{File: source}, "missing top-level family name")
	}
	for _, rm := range raw.Register {
		fam.Registers = append(fam.Registers, convertRegister(rm, source, r))
	}
	if fam.DeclaredWidths {
		fam.Widths = append([]int(nil), raw.Widths...)
	} else {
		fam.Widths = registerSizes(fam.Registers)
	}
	return fam, nil
}

func convertRegister(rm registerModel, source string, r diag.Reporter) Register {
	reg := Register{
		Name:        normalizeName(rm.Name),
		Description: strings.TrimSpace(rm.Description),
	}
	at := diag.Location{File: source, Register: reg.Name}
	if rm.Size == nil {
		diag.Errorf(r, diag.ModelUnsupportedWidth, at, "register %q has no size", reg.Name)
	} else {
		reg.Size = *rm.Size
	}
	regAccess, err := ParseAccess(rm.Access)
	if err != nil {
		diag.Errorf(r, diag.ModelBadAccess, at, "%v", err)
	}
	for _, fm := range rm.Field {
		reg.Fields = append(reg.Fields, convertField(fm, regAccess, source, reg.Name, r))
	}
	return reg
}

func convertField(fm fieldModel, regAccess Access, source, regName string, r diag.Reporter) Field {
	f := Field{
		Name:        normalizeName(fm.Name),
		Description: strings.TrimSpace(fm.Description),
		Negative:    fm.Negative,
	}
	at := diag.Location{File: source, Register: regName, Field: f.Name}
	if fm.Lsb == nil || fm.Msb == nil {
		diag.Errorf(r, diag.ModelBadBitRange, at, "field %q needs both lsb and msb", f.Name)
	}
	if fm.Lsb != nil {
		f.Lsb = *fm.Lsb
	}
	if fm.Msb != nil {
		f.Msb = *fm.Msb
	}
	access, err := ParseAccess(fm.Access)
	if err != nil {
		diag.Errorf(r, diag.ModelBadAccess, at, "%v", err)
		return f
	}
	if !access.IsSet() {
		if !regAccess.IsSet() {
			diag.Errorf(r, diag.ModelMissingAccess, at,
				"neither register %s nor field %s declares access (r, w or rw)", regName, f.Name)
			return f
		}
		access = regAccess
	}
	f.Read = access.Read
	f.Write = access.Write
	return f
}

func registerSizes(regs []Register) []int {
	seen := map[int]bool{}
	var out []int
	for _, reg := range regs {
		if reg.Size == 0 || seen[reg.Size] {
			continue
		}
		seen[reg.Size] = true
		out = append(out, reg.Size)
	}
	sort.Ints(out)
	return out
}

func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// IsIdentifier reports whether s is a letter or underscore followed by
// letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
