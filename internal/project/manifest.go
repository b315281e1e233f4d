// Package project locates and loads the reggen.toml manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up from the working directory upward.
const ManifestName = "reggen.toml"

var (
	// ErrPackageSectionMissing indicates that [package] is missing in the manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
	// ErrGenerateSectionMissing indicates that [generate] is missing.
	ErrGenerateSectionMissing = errors.New("missing [generate]")
)

// Manifest is a loaded reggen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest file.
type Config struct {
	Package  PackageConfig  `toml:"package"`
	Generate GenerateConfig `toml:"generate"`
}

// PackageConfig is the [package] table.
type PackageConfig struct {
	Name string `toml:"name"`
}

// GenerateConfig is the [generate] table. Empty values fall back to CLI
// defaults.
type GenerateConfig struct {
	Dialect string   `toml:"dialect"`
	Out     string   `toml:"out"`
	Package string   `toml:"package"`
	Models  []string `toml:"models"`
}

// FindManifest walks up from startDir to locate reggen.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and loads the manifest above startDir. ok is false when
// there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and checks the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !meta.IsDefined("generate") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrGenerateSectionMissing)
	}
	cfg.Package.Name = strings.TrimSpace(cfg.Package.Name)
	return cfg, nil
}

// ModelPaths resolves [generate].models against the manifest directory.
func (m *Manifest) ModelPaths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Config.Generate.Models))
	for _, rel := range m.Config.Generate.Models {
		rel = strings.TrimSpace(rel)
		if rel == "" {
			continue
		}
		if filepath.IsAbs(rel) {
			out = append(out, rel)
			continue
		}
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(rel)))
	}
	return out
}

// OutDir resolves [generate].out against the manifest directory.
func (m *Manifest) OutDir() string {
	if m == nil || strings.TrimSpace(m.Config.Generate.Out) == "" {
		return ""
	}
	out := filepath.FromSlash(strings.TrimSpace(m.Config.Generate.Out))
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Root, out)
}

// Encode renders cfg as TOML, used by `reggen init`.
func Encode(cfg Config) ([]byte, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
