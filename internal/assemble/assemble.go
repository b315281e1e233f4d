// Package assemble drives accessor synthesis over registers and families and
// writes the resulting units through an artifact sink.
//
// InitializeFamily resets a family: one base artifact per storage width plus
// an umbrella artifact that references them. AppendRegister adds one rendered
// unit to that umbrella. The Assembler holds no locks; callers serialize work
// on a given family.
package assemble

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"reggen/internal/artifact"
	"reggen/internal/model"
	"reggen/internal/render"
	"reggen/internal/synth"
	"reggen/internal/trace"
	"reggen/internal/width"
)

// Assembler writes one dialect's artifacts into a sink.
type Assembler struct {
	Dialect render.Dialect
	Sink    artifact.Sink

	ctx    context.Context
	parent uint64
	onFile func(name string)
}

// New returns an Assembler that renders with d into sink.
func New(d render.Dialect, sink artifact.Sink) *Assembler {
	return &Assembler{Dialect: d, Sink: sink, ctx: context.Background()}
}

// WithContext attaches ctx (and its tracer) to the assembler. parent is the
// span that artifact events hang off.
func (a *Assembler) WithContext(ctx context.Context, parent uint64) *Assembler {
	if ctx == nil {
		ctx = context.Background()
	}
	a.ctx = ctx
	a.parent = parent
	return a
}

// OnWrite registers a callback invoked with each artifact name after it was
// created or appended to.
func (a *Assembler) OnWrite(fn func(name string)) *Assembler {
	a.onFile = fn
	return a
}

// InitializeFamily truncates and rewrites the base artifact for every width
// and then the family umbrella. Repeating the call yields identical artifacts.
func (a *Assembler) InitializeFamily(widths []width.Width, family string) error {
	tracer := trace.FromContext(a.ctx)
	ws := width.Normalize(widths)

	for _, w := range ws {
		name := a.Dialect.BaseArtifact(w)
		data, err := a.Dialect.Base(w)
		if err != nil {
			return &ArtifactIOError{Op: OpRender, Artifact: name, Width: w, Err: err}
		}
		if err := a.Sink.Create(name, data); err != nil {
			ioErr := &ArtifactIOError{Op: OpCreate, Artifact: name, Width: w, Err: err}
			trace.Error(tracer, trace.ScopeArtifact, "create:"+name, ioErr, a.parent)
			return ioErr
		}
		a.wrote(tracer, "create:"+name, name)
	}

	name := a.Dialect.FamilyArtifact(family)
	data, err := a.Dialect.Family(family, ws)
	if err != nil {
		return &ArtifactIOError{Op: OpRender, Artifact: name, Err: err}
	}
	if err := a.Sink.Create(name, data); err != nil {
		ioErr := &ArtifactIOError{Op: OpCreate, Artifact: name, Err: err}
		trace.Error(tracer, trace.ScopeArtifact, "create:"+name, ioErr, a.parent)
		return ioErr
	}
	a.wrote(tracer, "create:"+name, name)
	return nil
}

// AppendRegister synthesizes reg's accessors and appends the rendered unit to
// the family artifact. The width is checked before anything is written, and
// the family artifact must already exist.
func (a *Assembler) AppendRegister(reg model.Register, family string) error {
	tracer := trace.FromContext(a.ctx)
	w, err := width.Parse(reg.Size)
	if err != nil {
		werr := &UnsupportedWidthError{Register: reg.Name, Size: reg.Size}
		trace.Error(tracer, trace.ScopeRegister, "register:"+reg.Name, werr, a.parent)
		return werr
	}

	name := a.Dialect.FamilyArtifact(family)
	unit, err := Synthesize(reg, family, w)
	if err != nil {
		return err
	}
	data, err := a.Dialect.Unit(unit)
	if err != nil {
		return &ArtifactIOError{Op: OpRender, Artifact: name, Register: reg.Name, Width: w, Err: err}
	}
	// Append never creates: a family that was not initialized fails here.
	if err := a.Sink.Append(name, data); err != nil {
		op := OpAppend
		if artifact.IsNotExist(err) {
			op = OpOpen
		}
		ioErr := &ArtifactIOError{Op: op, Artifact: name, Register: reg.Name, Width: w, Err: err}
		trace.Error(tracer, trace.ScopeArtifact, "append:"+name, ioErr, a.parent)
		return ioErr
	}
	a.wrote(tracer, "append:"+name, name)
	return nil
}

// Synthesize builds the unit for reg in w-bit storage: getters for readable
// fields then setters for writable fields, each in declaration order.
func Synthesize(reg model.Register, family string, w width.Width) (synth.Unit, error) {
	unit := synth.Unit{
		Name:    reg.Name,
		Family:  family,
		Doc:     reg.Description,
		Storage: w,
	}
	for _, f := range reg.Fields {
		if !f.Read {
			continue
		}
		sf, err := synthField(reg, f, w)
		if err != nil {
			return synth.Unit{}, err
		}
		unit.Getters = append(unit.Getters, synth.Getter(sf, w))
	}
	for _, f := range reg.Fields {
		if !f.Write {
			continue
		}
		sf, err := synthField(reg, f, w)
		if err != nil {
			return synth.Unit{}, err
		}
		unit.Setters = append(unit.Setters, synth.Setter(sf, w))
	}
	return unit, nil
}

// FieldRangeError reports a field whose bit range does not fit its register.
// Validated models never produce it.
type FieldRangeError struct {
	Register string
	Field    string
	Lsb, Msb int
	Width    width.Width
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("register %q field %q: bits [%d:%d] do not fit %s storage", e.Register, e.Field, e.Msb, e.Lsb, e.Width)
}

func synthField(reg model.Register, f model.Field, w width.Width) (synth.Field, error) {
	bad := &FieldRangeError{Register: reg.Name, Field: f.Name, Lsb: f.Lsb, Msb: f.Msb, Width: w}
	lsb, err := safecast.Conv[uint8](f.Lsb)
	if err != nil {
		return synth.Field{}, bad
	}
	msb, err := safecast.Conv[uint8](f.Msb)
	if err != nil {
		return synth.Field{}, bad
	}
	if lsb > msb || msb >= w.Bits() {
		return synth.Field{}, bad
	}
	return synth.Field{
		Name:   f.Name,
		Doc:    f.Description,
		Lsb:    lsb,
		Msb:    msb,
		Signed: f.Signed(),
	}, nil
}

func (a *Assembler) wrote(tracer trace.Tracer, event, name string) {
	trace.Point(tracer, trace.ScopeArtifact, event, "", a.parent)
	if a.onFile != nil {
		a.onFile(name)
	}
}
