package model

import (
	"testing"

	"reggen/internal/diag"
)

func boolPtr(b bool) *bool { return &b }

func validate(fam *Family) *diag.Bag {
	bag := diag.NewBag(50)
	Validate(fam, diag.BagReporter{Bag: bag})
	bag.Sort()
	return bag
}

func hasCode(b *diag.Bag, code diag.Code, sev diag.Severity) bool {
	for _, d := range b.Items() {
		if d.Code == code && d.Severity == sev {
			return true
		}
	}
	return false
}

func TestValidateCleanFamily(t *testing.T) {
	fam := &Family{
		Name:   "Timer",
		Widths: []int{16},
		Registers: []Register{{
			Name: "Control",
			Size: 16,
			Fields: []Field{
				{Name: "enable", Lsb: 0, Msb: 0, Read: true, Write: true},
				{Name: "offset", Lsb: 1, Msb: 15, Read: true, Write: true, Negative: boolPtr(true)},
			},
		}},
	}
	if bag := validate(fam); bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShort(bag.Items()))
	}
}

func TestValidateProblems(t *testing.T) {
	fam := &Family{
		Name:           "Timer",
		Widths:         []int{8},
		DeclaredWidths: true,
		Source:         "timer.toml",
		Registers: []Register{
			{
				Name: "Control",
				Size: 8,
				Fields: []Field{
					{Name: "a", Lsb: 0, Msb: 3, Read: true},
					{Name: "a", Lsb: 2, Msb: 5, Read: true},
					{Name: "b", Lsb: 5, Msb: 2, Read: true},
					{Name: "c", Lsb: 6, Msb: 8, Read: true},
					{Name: "d", Lsb: 7, Msb: 7},
					{Name: "9bad", Lsb: 6, Msb: 6, Write: true},
				},
			},
			{Name: "Control", Size: 8},
			{Name: "Wide", Size: 16},
			{Name: "Odd", Size: 12},
		},
	}
	bag := validate(fam)
	checks := []struct {
		code diag.Code
		sev  diag.Severity
	}{
		{diag.ModelDuplicateField, diag.SevError},
		{diag.ModelDuplicateRegister, diag.SevError},
		{diag.ModelBadBitRange, diag.SevError},
		{diag.ModelBadName, diag.SevError},
		{diag.ModelWidthNotListed, diag.SevError},
		{diag.ModelUnsupportedWidth, diag.SevWarning},
		{diag.ModelOverlappingFields, diag.SevWarning},
		{diag.ModelNoAccessors, diag.SevInfo},
	}
	for _, c := range checks {
		if !hasCode(bag, c.code, c.sev) {
			t.Fatalf("missing %s/%s in:\n%s", c.code.ID(), c.sev, diag.FormatShort(bag.Items()))
		}
	}
}

func TestUnsupportedWidthIsOnlyAWarning(t *testing.T) {
	fam := &Family{
		Name:      "Odd",
		Widths:    []int{12},
		Registers: []Register{{Name: "R", Size: 12, Fields: []Field{{Name: "x", Lsb: 0, Msb: 11, Read: true}}}},
	}
	bag := validate(fam)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diag.FormatShort(bag.Items()))
	}
	if !hasCode(bag, diag.ModelUnsupportedWidth, diag.SevWarning) {
		t.Fatal("expected width warning")
	}
}
