package render

import (
	"strings"
	"testing"

	"reggen/internal/synth"
	"reggen/internal/width"
)

func cpp(t *testing.T) Dialect {
	t.Helper()
	d, err := Lookup("cpp", Options{})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	return d
}

func TestCPPNames(t *testing.T) {
	d := cpp(t)
	if got := d.BaseArtifact(width.W16); got != "Register16.h" {
		t.Fatalf("BaseArtifact = %q", got)
	}
	if got := d.FamilyArtifact("Uart"); got != "UartRegisters.h" {
		t.Fatalf("FamilyArtifact = %q", got)
	}
}

func TestCPPBase(t *testing.T) {
	out, err := cpp(t).Base(width.W32)
	if err != nil {
		t.Fatalf("Base: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"#pragma once",
		"class Register32 {",
		"Register32() = default;",
		"inline uint32_t get_value() const { return register_raw; };",
		"inline void clear_value() { register_raw = 0x0; };",
		"inline void set_value(uint32_t value) { register_raw = value; };",
		"Register32 operator&(const uint32_t param) const",
		"Register32 operator&(const Register32 &param) const",
		"Register32 operator|(const uint32_t param) const",
		"Register32 operator<<(const Register32 &param) const",
		"Register32 operator>>(const uint32_t param) const",
		"Register32 operator~() const",
		"uint32_t register_raw = 0x0;",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("base artifact missing %q:\n%s", want, text)
		}
	}
	if n := strings.Count(text, "operator"); n != 9 {
		t.Fatalf("found %d operators, want 9", n)
	}
}

func TestCPPFamily(t *testing.T) {
	out, err := cpp(t).Family("Uart", []width.Width{width.W8, width.W32})
	if err != nil {
		t.Fatalf("Family: %v", err)
	}
	want := cppBanner + "\n#pragma once\n\n#include <cstdint>\n\n" +
		"#include \"Register8.h\"\n#include \"Register32.h\"\n\n"
	if string(out) != want {
		t.Fatalf("Family =\n%q\nwant\n%q", out, want)
	}
}

func TestCPPUnit(t *testing.T) {
	out, err := cpp(t).Unit(sampleUnit())
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	want := `class Status : public Register8 {
public:
	Status() : Register8() {};

	// Get methods
	inline uint8_t get_ready() const {
		uint8_t buffer = register_raw >> 0;
		return static_cast<uint8_t>(buffer & 0x01U);
	}
	// fill level
	inline int8_t get_level() const {
		uint8_t field_raw = static_cast<uint8_t>(register_raw >> 1) & 0x0FU;
		if (field_raw & 0x08U) {
			field_raw |= 0xF0U;
		}
		return static_cast<int8_t>(field_raw);
	}

	// Set methods
	// fill level
	inline bool set_level(int8_t value) {
		if (value < -8 || value > 7) {
			return false;
		}
		register_raw &= 0xE1U;
		register_raw |= static_cast<uint8_t>((static_cast<uint8_t>(value) & 0x0FU) << 1);
		return true;
	}
};

`
	if string(out) != want {
		t.Fatalf("Unit =\n%s\nwant\n%s", out, want)
	}
}

func TestCPPFullWidthOmitsRangeCheck(t *testing.T) {
	w := width.W64
	f := synth.Field{Name: "all", Lsb: 0, Msb: 63}
	u := synth.Unit{Name: "Wide", Storage: w, Setters: []synth.Accessor{synth.Setter(f, w)}}
	out, err := cpp(t).Unit(u)
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	text := string(out)
	if strings.Contains(text, "return false") {
		t.Fatalf("full-width setter has a range check:\n%s", text)
	}
	if !strings.Contains(text, "register_raw &= 0x0000000000000000ULL;") {
		t.Fatalf("missing 64-bit clear literal:\n%s", text)
	}
}

func TestCPPUnitWithoutAccessors(t *testing.T) {
	out, err := cpp(t).Unit(synth.Unit{Name: "Empty", Storage: width.W16})
	if err != nil {
		t.Fatalf("Unit: %v", err)
	}
	if strings.Contains(string(out), "inline") {
		t.Fatalf("unexpected accessor in:\n%s", out)
	}
}

func TestCPPUnitRejectsHiddenBaseMembers(t *testing.T) {
	d := cpp(t)
	for _, tt := range []struct {
		unit synth.Unit
		want string
	}{
		{unitOf("Ctrl", width.W8, synth.Field{Name: "value", Lsb: 0, Msb: 3}), "get_value"},
		{unitOf("Register16", width.W16, synth.Field{Name: "en", Lsb: 0, Msb: 0}), "Register16"},
	} {
		_, err := d.Unit(tt.unit)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("Unit(%s) error = %v, want clash on %s", tt.unit.Name, err, tt.want)
		}
	}
	// C++ is case-sensitive, so these stay distinct
	if _, err := d.Unit(unitOf("Ctrl", width.W8, synth.Field{Name: "rx_ready", Lsb: 0, Msb: 0}, synth.Field{Name: "rxReady", Lsb: 1, Msb: 1})); err != nil {
		t.Fatalf("Unit: %v", err)
	}
}
