package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reggen/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create reggen.toml and an example model",
	Long: `Initialize a reggen project by writing a manifest (reggen.toml) and an
example register model under models/. If [dir] does not exist it is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const exampleModelPath = "models/example.toml"

const exampleModel = `family = "Example"

[[register]]
name = "Control"
size = 8
access = "rw"
description = "device control"

  [[register.field]]
  name = "enable"
  lsb = 0
  msb = 0

  [[register.field]]
  name = "mode"
  lsb = 1
  msb = 3

  [[register.field]]
  name = "ready"
  lsb = 7
  msb = 7
  access = "r"

[[register]]
name = "Offset"
size = 16
access = "rw"

  [[register.field]]
  name = "trim"
  lsb = 0
  msb = 5
  negative = true
  description = "signed calibration offset"
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "reggen-project"
	}
	manifest, err := project.Encode(project.Config{
		Package: project.PackageConfig{Name: name},
		Generate: project.GenerateConfig{
			Dialect: defaultDialect,
			Out:     defaultOutDir,
			Models:  []string{exampleModelPath},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifestPath, err)
	}

	modelPath := filepath.Join(target, filepath.FromSlash(exampleModelPath))
	created := []string{manifestPath}
	if _, err := os.Stat(modelPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(modelPath, []byte(exampleModel), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", modelPath, err)
		}
		created = append(created, modelPath)
	}

	for _, path := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}
