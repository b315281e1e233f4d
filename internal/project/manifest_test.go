package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[package]
name = "board"

[generate]
dialect = "go"
out = "gen"
models = ["models/uart.toml", "/abs/spi.toml"]
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "board" || m.Config.Generate.Dialect != "go" {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	paths := m.ModelPaths()
	if len(paths) != 2 || paths[0] != filepath.Join(root, "models", "uart.toml") || paths[1] != "/abs/spi.toml" {
		t.Fatalf("ModelPaths = %v", paths)
	}
	if m.OutDir() != filepath.Join(root, "gen") {
		t.Fatalf("OutDir = %q", m.OutDir())
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, ok, err := LoadManifest(t.TempDir())
	if err != nil || ok {
		t.Fatalf("expected no manifest, ok=%v err=%v", ok, err)
	}
}

func TestLoadConfigSentinels(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"no package", "[generate]\n", ErrPackageSectionMissing},
		{"no name", "[package]\n[generate]\n", ErrPackageNameMissing},
		{"blank name", "[package]\nname = \"  \"\n[generate]\n", ErrPackageNameMissing},
		{"no generate", "[package]\nname = \"x\"\n", ErrGenerateSectionMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tc.content)
			_, err := LoadConfig(path)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Config{
		Package:  PackageConfig{Name: "demo"},
		Generate: GenerateConfig{Dialect: "cpp", Out: "include", Models: []string{"models/demo.toml"}},
	}
	data, err := Encode(cfg)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, string(data))
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v\n%s", err, data)
	}
	if got.Package.Name != "demo" || got.Generate.Out != "include" || len(got.Generate.Models) != 1 {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestDigest(t *testing.T) {
	a := HashString("a")
	b := HashString("b")
	if a == b || a.IsZero() {
		t.Fatal("distinct inputs should hash differently")
	}
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("Combine must be order sensitive")
	}
	if len(a.Short()) != 12 || len(a.Hex()) != 64 {
		t.Fatal("unexpected hex lengths")
	}
}
