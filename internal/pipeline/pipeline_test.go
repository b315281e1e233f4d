package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"reggen/internal/artifact"
	"reggen/internal/assemble"
	"reggen/internal/cache"
	"reggen/internal/diag"
	"reggen/internal/observ"
	"reggen/internal/render"
)

const uartModel = `
family = "Uart"

[[register]]
name = "Status"
size = 8
access = "r"

  [[register.field]]
  name = "ready"
  lsb = 0
  msb = 0

  [[register.field]]
  name = "level"
  lsb = 1
  msb = 4
  negative = true

[[register]]
name = "Baud"
size = 16
access = "rw"

  [[register.field]]
  name = "divisor"
  lsb = 0
  msb = 15
`

const spiModel = `
family = "Spi"

[[register]]
name = "Ctrl"
size = 32

  [[register.field]]
  name = "enable"
  lsb = 0
  msb = 0
  access = "w"
`

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(stage Stage, status Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Stage == stage && e.Status == status {
			n++
		}
	}
	return n
}

func writeModel(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRequest(t *testing.T, models ...string) (*Request, *artifact.DirSink) {
	t.Helper()
	d, err := render.Lookup("cpp", render.Options{})
	if err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	sink, err := artifact.NewDirSink(out)
	if err != nil {
		t.Fatal(err)
	}
	c, err := cache.OpenAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	return &Request{
		Models:     models,
		Generate:   true,
		Dialect:    d,
		Sink:       sink,
		Cache:      c,
		CacheScope: out,
		Jobs:       2,
		Timer:      observ.NewTimer(),
	}, sink
}

func TestRunGeneratesAndCaches(t *testing.T) {
	dir := t.TempDir()
	uart := writeModel(t, dir, "uart.toml", uartModel)
	spi := writeModel(t, dir, "spi.toml", spiModel)

	req, sink := newRequest(t, uart, spi)
	rec := &recorder{}
	req.Progress = rec

	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "Register8.h,Register16.h,UartRegisters.h,Register32.h,SpiRegisters.h"
	if got := strings.Join(res.Written, ","); got != want {
		t.Fatalf("Written = %s, want %s", got, want)
	}
	data, err := sink.Read("UartRegisters.h")
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, s := range []string{"class Status : public Register8", "class Baud : public Register16", "get_level()", "set_divisor("} {
		if !strings.Contains(text, s) {
			t.Fatalf("UartRegisters.h missing %q", s)
		}
	}
	if strings.Contains(text, "set_ready") {
		t.Fatal("read-only field got a setter")
	}
	if rec.count(StageAssemble, StatusDone) != 2 {
		t.Fatalf("expected 2 assembled families, events %+v", rec.events)
	}
	if len(req.Timer.Report().Phases) != 3 {
		t.Fatalf("timer phases %+v", req.Timer.Report().Phases)
	}

	// unchanged inputs and artifacts: both families come from the cache
	req.Progress = nil
	again, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(again.Cached) != 2 || len(again.Written) != 0 {
		t.Fatalf("cached=%v written=%v", again.Cached, again.Written)
	}

	// editing an artifact invalidates its family only
	if err := sink.Create("SpiRegisters.h", []byte("tampered")); err != nil {
		t.Fatal(err)
	}
	third, err := Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(third.Cached, ",") != "Uart" {
		t.Fatalf("cached = %v", third.Cached)
	}

	req.Force = true
	forced, err := Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(forced.Cached) != 0 {
		t.Fatal("--force must bypass the cache")
	}
}

func TestRunStopsOnInvalidModel(t *testing.T) {
	dir := t.TempDir()
	bad := writeModel(t, dir, "bad.toml", `
family = "Bad"

[[register]]
name = "R"
size = 8
access = "rw"

  [[register.field]]
  name = "x"
  lsb = 4
  msb = 9
`)
	req, sink := newRequest(t, bad)
	res, err := Run(context.Background(), req)
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("err = %v, want ErrInvalidModel", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("bag should carry the error")
	}
	if _, err := sink.Read("BadRegisters.h"); err == nil {
		t.Fatal("nothing may be written for an invalid model")
	}
}

const clashModel = `
family = "Clash"

[[register]]
name = "ctrl"
size = 8
access = "rw"

  [[register.field]]
  name = "rx_ready"
  lsb = 0
  msb = 0

  [[register.field]]
  name = "rxReady"
  lsb = 1
  msb = 1
`

func TestRunRejectsGoNameClashBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "clash.toml", clashModel)
	req, sink := newRequest(t, path)
	d, err := render.Lookup("go", render.Options{Package: "clash"})
	if err != nil {
		t.Fatal(err)
	}
	req.Dialect = d

	res, err := Run(context.Background(), req)
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("err = %v, want ErrInvalidModel", err)
	}
	found := false
	for _, it := range res.Bag.Items() {
		if it.Code == diag.ModelNameClash && strings.Contains(it.Message, "GetRxReady") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing name clash diagnostic: %+v", res.Bag.Items())
	}
	for _, name := range []string{"register8.go", "clash_registers.go"} {
		if _, err := sink.Read(name); err == nil {
			t.Fatalf("%s written for a rejected model", name)
		}
	}
}

func TestRunCheckAppliesNameRules(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "clash.toml", clashModel)
	cppOnly, err := render.Lookup("cpp", render.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), &Request{Models: []string{path}, NameRules: []render.Dialect{cppOnly}}); err != nil {
		t.Fatalf("cpp rules: %v", err)
	}
	goRules, err := render.Lookup("go", render.Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Run(context.Background(), &Request{Models: []string{path}, NameRules: []render.Dialect{cppOnly, goRules}})
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("go rules: err = %v, want ErrInvalidModel", err)
	}
}

func TestRunDuplicateFamily(t *testing.T) {
	dir := t.TempDir()
	a := writeModel(t, dir, "a.toml", spiModel)
	b := writeModel(t, dir, "b.toml", spiModel)
	req, _ := newRequest(t, a, b)
	req.Generate = false
	res, err := Run(context.Background(), req)
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("err = %v", err)
	}
	found := false
	for _, d := range res.Bag.Items() {
		if strings.Contains(d.Message, "already declared") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing duplicate family diagnostic: %+v", res.Bag.Items())
	}
}

func TestRunUnsupportedWidthIsFatal(t *testing.T) {
	dir := t.TempDir()
	odd := writeModel(t, dir, "odd.toml", `
family = "Odd"

[[register]]
name = "Ok"
size = 8
access = "rw"

  [[register.field]]
  name = "a"
  lsb = 0
  msb = 1

[[register]]
name = "Twelve"
size = 12
access = "rw"

  [[register.field]]
  name = "b"
  lsb = 0
  msb = 3
`)
	req, sink := newRequest(t, odd)
	res, err := Run(context.Background(), req)
	var werr *assemble.UnsupportedWidthError
	if !errors.As(err, &werr) {
		t.Fatalf("err = %v, want UnsupportedWidthError", err)
	}
	if !res.Bag.HasWarnings() {
		t.Fatal("validation should have warned about width 12")
	}
	data, _ := sink.Read("OddRegisters.h")
	if !strings.Contains(string(data), "class Ok") || strings.Contains(string(data), "Twelve") {
		t.Fatalf("unexpected family artifact:\n%s", data)
	}
}

func TestRunCheckOnly(t *testing.T) {
	dir := t.TempDir()
	uart := writeModel(t, dir, "uart.toml", uartModel)
	res, err := Run(context.Background(), &Request{Models: []string{uart, filepath.Join(dir, "missing.toml")}})
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Families) != 1 || res.Families[0].Name != "Uart" {
		t.Fatalf("families = %+v", res.Families)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	uart := writeModel(t, dir, "uart.toml", uartModel)
	req, _ := newRequest(t, uart)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, req); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
