package render

import (
	"strings"
	"testing"

	"reggen/internal/synth"
	"reggen/internal/width"
)

func sampleUnit() synth.Unit {
	w := width.W8
	ready := synth.Field{Name: "ready", Lsb: 0, Msb: 0}
	level := synth.Field{Name: "level", Lsb: 1, Msb: 4, Signed: true, Doc: "fill level"}
	return synth.Unit{
		Name:    "Status",
		Family:  "Uart",
		Storage: w,
		Getters: []synth.Accessor{synth.Getter(ready, w), synth.Getter(level, w)},
		Setters: []synth.Accessor{synth.Setter(level, w)},
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"cpp", "go", " CPP "} {
		d, err := Lookup(name, Options{})
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if d.Name() != strings.ToLower(strings.TrimSpace(name)) {
			t.Fatalf("Lookup(%q).Name() = %q", name, d.Name())
		}
	}
	if _, err := Lookup("rust", Options{}); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
	if _, err := Lookup("go", Options{Package: "not a pkg"}); err == nil {
		t.Fatal("expected error for invalid package name")
	}
}

func TestComment(t *testing.T) {
	got := comment("\t", "first\n\nsecond  ")
	want := "\t// first\n\t//\n\t// second\n"
	if got != want {
		t.Fatalf("comment = %q, want %q", got, want)
	}
	if comment("", "   ") != "" {
		t.Fatal("blank doc should render nothing")
	}
}

func TestGoName(t *testing.T) {
	cases := map[string]string{
		"ready":     "Ready",
		"rx_ready":  "RxReady",
		"_private":  "Private",
		"TxFIFO":    "TxFIFO",
		"état_bits": "ÉtatBits",
		"___":       "X",
	}
	for in, want := range cases {
		if got := GoName(in); got != want {
			t.Fatalf("GoName(%q) = %q, want %q", in, got, want)
		}
	}
}
