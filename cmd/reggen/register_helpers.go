package main

import (
	"fmt"
	"io"

	"reggen/internal/assemble"
	"reggen/internal/diag"
	"reggen/internal/model"
	"reggen/internal/synth"
	"reggen/internal/width"
)

// loadUnit loads one model file and synthesizes the accessors of one of its
// registers. Diagnostics are printed to errOut.
func loadUnit(errOut io.Writer, path, register string, maxDiagnostics int) (synth.Unit, error) {
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	fam, err := model.LoadFile(path, reporter)
	if err != nil {
		return synth.Unit{}, err
	}
	model.Validate(fam, reporter)
	bag.Sort()
	if bag.HasErrors() {
		if err := diag.Print(errOut, bag); err != nil {
			return synth.Unit{}, err
		}
		return synth.Unit{}, fmt.Errorf("%s: model has errors", path)
	}
	reg, ok := fam.Register(register)
	if !ok {
		return synth.Unit{}, fmt.Errorf("%s: family %s has no register %q", path, fam.Name, register)
	}
	w, err := width.Parse(reg.Size)
	if err != nil {
		return synth.Unit{}, &assemble.UnsupportedWidthError{Register: reg.Name, Size: reg.Size}
	}
	return assemble.Synthesize(*reg, fam.Name, w)
}

func formatRaw(w width.Width, raw uint64) string {
	return fmt.Sprintf("0x%0*X", int(w.Bits())/4, raw)
}

func formatRange(a synth.Accessor) string {
	if a.Signed {
		return fmt.Sprintf("[%d, %d]", a.Min, int64(a.Max))
	}
	return fmt.Sprintf("[0, %d]", a.Max)
}
