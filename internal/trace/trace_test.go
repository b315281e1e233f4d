package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "PHASE", "detail", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelPhase, ScopeFamily, true},
		{LevelPhase, ScopeRegister, false},
		{LevelDetail, ScopeRegister, true},
		{LevelDetail, ScopeArtifact, false},
		{LevelDebug, ScopeArtifact, true},
		{LevelError, ScopeSession, false},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope, KindPoint); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
	if !LevelError.ShouldEmit(ScopeArtifact, KindError) {
		t.Fatal("errors must pass LevelError")
	}
	if LevelOff.ShouldEmit(ScopeSession, KindError) {
		t.Fatal("LevelOff must drop everything")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	got := FromContext(ctx)
	fam := Begin(got, ScopeFamily, "family:Uart", 0)
	reg := Begin(got, ScopeRegister, "register:Status", fam.ID())
	Point(got, ScopeArtifact, "append:UartRegisters.h", "", reg.ID())
	reg.WithExtra("getters", "2").WithExtra("bytes", "120").End("")
	Error(got, ScopeArtifact, "append:UartRegisters.h", errors.New("disk full"), reg.ID())
	fam.End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "family") || !strings.Contains(lines[0], "\u2192 family:Uart") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[2], "{bytes=120, getters=2}") {
		t.Fatalf("extras not sorted/rendered: %q", lines[2])
	}
	if !strings.Contains(lines[3], "! append:UartRegisters.h (disk full)") {
		t.Fatalf("error line = %q", lines[3])
	}
	if !strings.Contains(lines[4], "\u2190 family:Uart (ok)") {
		t.Fatalf("last line = %q", lines[4])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeSession, "generate", 0).End("")
	var ev map[string]any
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if err := json.Unmarshal([]byte(first), &ev); err != nil {
		t.Fatalf("invalid json %q: %v", first, err)
	}
	if ev["kind"] != "begin" || ev["scope"] != "session" || ev["name"] != "generate" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestDisabledSpansKeepParent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	fam := Begin(tr, ScopeFamily, "family:F", 0)
	reg := Begin(tr, ScopeRegister, "register:R", fam.ID())
	if reg.ID() != fam.ID() {
		t.Fatalf("filtered span ID = %d, want parent %d", reg.ID(), fam.ID())
	}
	reg.End("")
	if strings.Contains(buf.String(), "register:R") {
		t.Fatal("register span should be filtered at LevelPhase")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer enabled")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should give Nop")
	}
}
