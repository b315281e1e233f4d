// Package pipeline runs a generation session: model files are loaded and
// validated in parallel, then families are assembled one after another.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"reggen/internal/artifact"
	"reggen/internal/assemble"
	"reggen/internal/cache"
	"reggen/internal/diag"
	"reggen/internal/model"
	"reggen/internal/observ"
	"reggen/internal/project"
	"reggen/internal/render"
	"reggen/internal/trace"
	"reggen/internal/width"
)

// ErrInvalidModel is returned when validation produced error diagnostics.
var ErrInvalidModel = errors.New("model has errors")

// Request configures one session.
type Request struct {
	Models []string

	// Generate is false for check-only sessions.
	Generate bool
	Dialect  render.Dialect
	// DialectOptions feed the cache fingerprint.
	DialectOptions render.Options
	Sink           artifact.Sink
	// NameRules are dialects whose identifiers every model must be able
	// to declare. Dialect is always checked when set.
	NameRules []render.Dialect

	// Cache may be nil. CacheScope identifies the output location.
	Cache      *cache.DiskCache
	CacheScope string
	Force      bool

	Jobs           int
	MaxDiagnostics int

	Progress ProgressSink
	Timer    *observ.Timer
	// OnWrite is called for every artifact created or appended to.
	OnWrite func(name string)
}

// Result is what a session produced.
type Result struct {
	Families []*model.Family
	Bag      *diag.Bag
	// Written lists artifact names in write order, deduplicated.
	Written []string
	// Cached lists families skipped on a cache hit.
	Cached  []string
	Timings Timings
}

type loaded struct {
	path   string
	family *model.Family
	bag    *diag.Bag
	digest project.Digest
}

// Run executes the session described by req.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if req.Generate && (req.Dialect == nil || req.Sink == nil) {
		return nil, errors.New("generate requires a dialect and a sink")
	}
	tracer := trace.FromContext(ctx)
	name := "check"
	if req.Generate {
		name = "generate"
	}
	session := trace.Begin(tracer, trace.ScopeSession, name, 0)
	defer session.End("")

	res := &Result{Bag: diag.NewBag(req.MaxDiagnostics)}

	for _, path := range req.Models {
		emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	start := time.Now()
	phase := req.Timer.Begin("load")
	files, err := loadAll(ctx, req)
	req.Timer.End(phase, fmt.Sprintf("%d model(s)", len(files)))
	res.Timings.Set(StageLoad, time.Since(start))
	if err != nil {
		return res, err
	}

	start = time.Now()
	phase = req.Timer.Begin("validate")
	validateAll(files, res)
	req.Timer.End(phase, "")
	res.Timings.Set(StageValidate, time.Since(start))
	res.Bag.Sort()

	if res.Bag.HasErrors() {
		trace.Error(tracer, trace.ScopeSession, name, ErrInvalidModel, session.ID())
		for _, f := range files {
			if f.bag.HasErrors() {
				emit(req.Progress, Event{File: f.path, Stage: StageValidate, Status: StatusError, Err: ErrInvalidModel})
			}
		}
		return res, ErrInvalidModel
	}
	if !req.Generate {
		for _, f := range files {
			emit(req.Progress, Event{File: f.path, Family: f.family.Name, Stage: StageValidate, Status: StatusDone})
		}
		return res, nil
	}

	start = time.Now()
	phase = req.Timer.Begin("assemble")
	err = assembleAll(ctx, req, files, res, session.ID())
	req.Timer.End(phase, fmt.Sprintf("%d artifact(s)", len(res.Written)))
	res.Timings.Set(StageAssemble, time.Since(start))
	return res, err
}

func loadAll(ctx context.Context, req *Request) ([]loaded, error) {
	if len(req.Models) == 0 {
		return nil, nil
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	rules := req.NameRules
	if req.Dialect != nil {
		rules = append([]render.Dialect{req.Dialect}, rules...)
	}

	// each goroutine owns its own index
	results := make([]loaded, len(req.Models))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Models)))

	for i, path := range req.Models {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			started := time.Now()
			results[i] = loadOne(path, req.MaxDiagnostics, rules)
			status := StatusDone
			if results[i].bag.HasErrors() {
				status = StatusError
			}
			fam := ""
			if results[i].family != nil {
				fam = results[i].family.Name
			}
			emit(req.Progress, Event{File: path, Family: fam, Stage: StageLoad, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadOne(path string, maxDiagnostics int, rules []render.Dialect) loaded {
	out := loaded{path: path, bag: diag.NewBag(maxDiagnostics)}
	reporter := diag.BagReporter{Bag: out.bag}
	data, err := os.ReadFile(path)
	if err != nil {
		diag.Errorf(reporter, diag.IOLoadFileError, diag.Location{File: path}, "failed to load file: %v", err)
		return out
	}
	out.digest = project.HashBytes(data)
	fam, err := model.Decode(data, path, reporter)
	if err != nil {
		diag.Errorf(reporter, diag.ModelParseError, diag.Location{File: path}, "%v", err)
		return out
	}
	model.Validate(fam, reporter)
	for _, d := range rules {
		render.Validate(d, fam, reporter)
	}
	out.family = fam
	return out
}

func validateAll(files []loaded, res *Result) {
	seen := make(map[string]string, len(files))
	for i := range files {
		f := &files[i]
		if f.family != nil {
			if prev, dup := seen[f.family.Name]; dup && f.family.Name != "" {
				diag.Errorf(diag.BagReporter{Bag: f.bag}, diag.ModelDuplicateFamily, diag.Location{File: f.path},
					"family %q is already declared in %s", f.family.Name, prev)
			} else {
				seen[f.family.Name] = f.path
			}
			res.Families = append(res.Families, f.family)
		}
		res.Bag.Merge(f.bag)
	}
}

func assembleAll(ctx context.Context, req *Request, files []loaded, res *Result, parent uint64) error {
	tracer := trace.FromContext(ctx)
	written := make(map[string]bool)
	asm := assemble.New(req.Dialect, req.Sink).OnWrite(func(name string) {
		if !written[name] {
			written[name] = true
			res.Written = append(res.Written, name)
		}
		if req.OnWrite != nil {
			req.OnWrite(name)
		}
	})

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		fam := f.family
		fingerprint := project.Combine(f.digest,
			project.HashString(req.Dialect.Name()),
			project.HashString(req.DialectOptions.Package),
		)
		key := cache.Key(req.CacheScope, fam.Name, req.Dialect.Name())
		if !req.Force && req.Cache != nil {
			var payload cache.Payload
			if ok, err := req.Cache.Get(key, &payload); err == nil && ok && payload.Matches(fingerprint, req.Sink.Read) {
				res.Cached = append(res.Cached, fam.Name)
				trace.Point(tracer, trace.ScopeFamily, "family:"+fam.Name, "cached", parent)
				emit(req.Progress, Event{File: f.path, Family: fam.Name, Stage: StageAssemble, Status: StatusCached})
				continue
			}
		}

		emit(req.Progress, Event{File: f.path, Family: fam.Name, Stage: StageAssemble, Status: StatusWorking})
		started := time.Now()
		span := trace.Begin(tracer, trace.ScopeFamily, "family:"+fam.Name, parent)
		err := assembleFamily(ctx, asm, fam, span.ID())
		if err != nil {
			span.End("failed")
			emit(req.Progress, Event{File: f.path, Family: fam.Name, Stage: StageAssemble, Status: StatusError, Err: err, Elapsed: time.Since(started)})
			return fmt.Errorf("%s: %w", f.path, err)
		}
		span.WithExtra("registers", fmt.Sprint(len(fam.Registers))).End("")
		emit(req.Progress, Event{File: f.path, Family: fam.Name, Stage: StageAssemble, Status: StatusDone, Elapsed: time.Since(started)})

		if req.Cache != nil {
			// cache write failures only cost a regeneration next time
			_ = req.Cache.Put(key, payloadFor(req, fam, f.path, fingerprint))
		}
	}
	return nil
}

func assembleFamily(ctx context.Context, asm *assemble.Assembler, fam *model.Family, parent uint64) error {
	tracer := trace.FromContext(ctx)
	asm.WithContext(ctx, parent)
	if err := asm.InitializeFamily(familyWidths(fam), fam.Name); err != nil {
		return err
	}
	for _, reg := range fam.Registers {
		if err := ctx.Err(); err != nil {
			return err
		}
		span := trace.Begin(tracer, trace.ScopeRegister, "register:"+reg.Name, parent)
		asm.WithContext(ctx, span.ID())
		err := asm.AppendRegister(reg, fam.Name)
		if err != nil {
			span.End("failed")
			return err
		}
		span.End("")
	}
	return nil
}

// familyWidths keeps the supported widths of fam; registers of any other
// size fail in AppendRegister.
func familyWidths(fam *model.Family) []width.Width {
	out := make([]width.Width, 0, len(fam.Widths))
	for _, bits := range fam.Widths {
		if w, err := width.Parse(bits); err == nil {
			out = append(out, w)
		}
	}
	return out
}

func payloadFor(req *Request, fam *model.Family, path string, fingerprint project.Digest) *cache.Payload {
	p := &cache.Payload{
		Family:      fam.Name,
		Dialect:     req.Dialect.Name(),
		Source:      path,
		ModelHash:   fingerprint,
		Registers:   len(fam.Registers),
		GeneratedAt: time.Now(),
	}
	names := make([]string, 0, len(fam.Widths)+1)
	for _, w := range width.Normalize(familyWidths(fam)) {
		names = append(names, req.Dialect.BaseArtifact(w))
	}
	names = append(names, req.Dialect.FamilyArtifact(fam.Name))
	for _, name := range names {
		data, err := req.Sink.Read(name)
		if err != nil {
			return nil
		}
		p.Artifacts = append(p.Artifacts, name)
		p.ArtifactHashes = append(p.ArtifactHashes, project.HashBytes(data))
	}
	return p
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
