package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"reggen/internal/pipeline"
)

func TestApplyEventTracksRows(t *testing.T) {
	m := NewProgressModel("generate", []string{"a.toml", "b.toml"}, pipeline.StageAssemble, nil).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.toml", Stage: pipeline.StageLoad, Status: pipeline.StatusDone, Family: "Uart"})
	if m.items[0].finished || m.items[0].status != "loaded" || m.items[0].family != "Uart" {
		t.Fatalf("after load: %+v", m.items[0])
	}
	m.applyEvent(pipeline.Event{File: "a.toml", Stage: pipeline.StageAssemble, Status: pipeline.StatusCached})
	m.applyEvent(pipeline.Event{File: "b.toml", Stage: pipeline.StageValidate, Status: pipeline.StatusError, Err: errors.New("bad")})
	m.applyEvent(pipeline.Event{File: "unknown.toml", Stage: pipeline.StageLoad, Status: pipeline.StatusDone})

	if !m.items[0].finished || m.items[0].status != "cached" {
		t.Fatalf("row a: %+v", m.items[0])
	}
	if !m.items[1].finished || m.items[1].status != "error" {
		t.Fatalf("row b: %+v", m.items[1])
	}
	if m.percent() != 1.0 {
		t.Fatalf("percent = %v", m.percent())
	}
	view := m.View()
	if !strings.Contains(view, "Uart  a.toml") || !strings.Contains(view, "error") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
	long := truncate("models/very/long/path.toml", 10)
	if !strings.HasSuffix(long, "...") || runewidth.StringWidth(long) > 10 {
		t.Fatalf("long path truncated to %q", long)
	}
}
