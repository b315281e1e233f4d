package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reggen/internal/diag"
	"reggen/internal/pipeline"
	"reggen/internal/project"
	"reggen/internal/render"
)

var checkCmd = &cobra.Command{
	Use:   "check [model.toml ...]",
	Short: "Load and validate model files without generating anything",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().IntP("jobs", "j", 0, "max parallel model loaders (0=auto)")
	checkCmd.Flags().StringSlice("dialect", nil, "check generated names against these dialects ("+strings.Join(render.Names(), "|")+"; default all)")
}

// nameRules resolves the dialects whose naming rules a check enforces.
func nameRules(names []string) ([]render.Dialect, error) {
	if len(names) == 0 {
		names = render.Names()
	}
	out := make([]render.Dialect, 0, len(names))
	for _, name := range names {
		d, err := render.Lookup(name, render.Options{})
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	dialects, err := cmd.Flags().GetStringSlice("dialect")
	if err != nil {
		return fmt.Errorf("failed to get dialect flag: %w", err)
	}
	rules, err := nameRules(dialects)
	if err != nil {
		return err
	}

	models := args
	if len(models) == 0 {
		manifest, _, err := project.LoadManifest(".")
		if err != nil {
			return err
		}
		models = manifest.ModelPaths()
	}
	if len(models) == 0 {
		return errors.New("no model files given and no [generate].models in reggen.toml")
	}

	req := &pipeline.Request{
		Models:         models,
		Jobs:           jobs,
		MaxDiagnostics: opts.maxDiagnostics,
		NameRules:      rules,
	}
	res, err := pipeline.Run(cmd.Context(), req)
	if res != nil {
		if printErr := diag.Print(cmd.ErrOrStderr(), res.Bag); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		return err
	}
	if !opts.quiet {
		registers := 0
		for _, fam := range res.Families {
			registers += len(fam.Registers)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d famil%s, %d register(s)\n", len(res.Families), plural(len(res.Families), "y", "ies"), registers)
	}
	if opts.timings {
		printStageTimings(cmd.OutOrStdout(), res.Timings, nil)
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
