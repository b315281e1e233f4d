package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func exerciseSink(t *testing.T, s Sink) {
	t.Helper()
	if err := s.Append("Fam.h", []byte("x")); !IsNotExist(err) {
		t.Fatalf("Append to missing artifact: err = %v, want not-exist", err)
	}
	if err := s.Create("Fam.h", []byte("head\n")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Append("Fam.h", []byte("unit\n")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := s.Read("Fam.h")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "head\nunit\n" {
		t.Fatalf("content = %q", got)
	}
	if err := s.Create("Fam.h", []byte("reset\n")); err != nil {
		t.Fatalf("Create again: %v", err)
	}
	got, _ = s.Read("Fam.h")
	if string(got) != "reset\n" {
		t.Fatalf("Create did not truncate: %q", got)
	}
	if _, err := s.Read("other.h"); !IsNotExist(err) {
		t.Fatalf("Read missing: err = %v", err)
	}
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gen")
	s, err := NewDirSink(dir)
	if err != nil {
		t.Fatalf("NewDirSink: %v", err)
	}
	exerciseSink(t, s)
	if _, err := os.Stat(filepath.Join(dir, "Fam.h")); err != nil {
		t.Fatalf("artifact not on disk: %v", err)
	}
}

func TestMemSink(t *testing.T) {
	s := NewMemSink()
	exerciseSink(t, s)
	if names := s.Names(); len(names) != 1 || names[0] != "Fam.h" {
		t.Fatalf("Names = %v", names)
	}
	snap := s.Snapshot()
	snap["Fam.h"][0] = 'X'
	got, _ := s.Read("Fam.h")
	if got[0] != 'r' {
		t.Fatal("Snapshot aliases sink storage")
	}
}
