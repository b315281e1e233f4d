package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reggen/internal/artifact"
	"reggen/internal/cache"
	"reggen/internal/diag"
	"reggen/internal/observ"
	"reggen/internal/pipeline"
	"reggen/internal/project"
	"reggen/internal/render"
)

const (
	defaultDialect = "cpp"
	defaultOutDir  = "generated"
	cacheAppName   = "reggen"
)

var generateCmd = &cobra.Command{
	Use:   "generate [model.toml ...]",
	Short: "Generate register accessors from model files",
	Long: `Generate base, family and per-register artifacts for every model file.
Without arguments the model list comes from [generate].models in reggen.toml.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("out", "o", "", "output directory (default \"generated\" or [generate].out)")
	generateCmd.Flags().String("dialect", "", "output dialect ("+strings.Join(render.Names(), "|")+")")
	generateCmd.Flags().String("package", "", "package clause for the go dialect")
	generateCmd.Flags().IntP("jobs", "j", 0, "max parallel model loaders (0=auto)")
	generateCmd.Flags().Bool("force", false, "regenerate even when the cache says nothing changed")
	generateCmd.Flags().Bool("no-cache", false, "neither read nor update the generation cache")
	generateCmd.Flags().Bool("dry-run", false, "render into memory and print the artifacts instead of writing them")
	generateCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type generateSettings struct {
	models  []string
	out     string
	dialect string
	pkg     string
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	settings, err := resolveGenerateSettings(cmd, args)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	dialectOpts := render.Options{Package: settings.pkg}
	dialect, err := render.Lookup(settings.dialect, dialectOpts)
	if err != nil {
		return err
	}

	var (
		sink artifact.Sink
		mem  *artifact.MemSink
		dir  *artifact.DirSink
	)
	if dryRun {
		mem = artifact.NewMemSink()
		sink = mem
	} else {
		dir, err = artifact.NewDirSink(settings.out)
		if err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		sink = dir
	}

	var dc *cache.DiskCache
	if !noCache && !dryRun {
		dc, err = cache.Open(cacheAppName)
		if err != nil && !opts.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache disabled: %v\n", err)
		}
	}

	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
	}

	scope, err := filepath.Abs(settings.out)
	if err != nil {
		scope = settings.out
	}
	req := &pipeline.Request{
		Models:         settings.models,
		Generate:       true,
		Dialect:        dialect,
		DialectOptions: dialectOpts,
		Sink:           sink,
		Cache:          dc,
		CacheScope:     scope,
		Force:          force,
		Jobs:           jobs,
		MaxDiagnostics: opts.maxDiagnostics,
		Timer:          timer,
	}

	var res *pipeline.Result
	if !opts.quiet && shouldUseTUI(mode) {
		res, err = runWithUI(cmd.Context(), "generate", req)
	} else {
		res, err = pipeline.Run(cmd.Context(), req)
	}
	if res != nil {
		if printErr := diag.Print(cmd.ErrOrStderr(), res.Bag); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		return fmt.Errorf("generation aborted: %w", err)
	}

	out := cmd.OutOrStdout()
	if dryRun {
		return printArtifacts(out, mem)
	}
	if !opts.quiet {
		for _, name := range res.Written {
			fmt.Fprintf(out, "wrote %s\n", dir.Path(name))
		}
		for _, family := range res.Cached {
			fmt.Fprintf(out, "up to date: %s\n", family)
		}
	}
	if opts.timings {
		printStageTimings(out, res.Timings, timer)
	}
	return nil
}

// resolveGenerateSettings merges flags over reggen.toml over defaults.
func resolveGenerateSettings(cmd *cobra.Command, args []string) (generateSettings, error) {
	manifest, _, err := project.LoadManifest(".")
	if err != nil {
		return generateSettings{}, err
	}
	var cfg project.GenerateConfig
	if manifest != nil {
		cfg = manifest.Config.Generate
	}

	s := generateSettings{
		models:  args,
		out:     defaultOutDir,
		dialect: defaultDialect,
		pkg:     cfg.Package,
	}
	if len(s.models) == 0 {
		s.models = manifest.ModelPaths()
	}
	if len(s.models) == 0 {
		return s, errors.New("no model files given and no [generate].models in reggen.toml")
	}
	if outDir := manifest.OutDir(); outDir != "" {
		s.out = outDir
	}
	if cfg.Dialect != "" {
		s.dialect = cfg.Dialect
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		s.out, _ = flags.GetString("out")
	}
	if flags.Changed("dialect") {
		s.dialect, _ = flags.GetString("dialect")
	}
	if flags.Changed("package") {
		s.pkg, _ = flags.GetString("package")
	}
	return s, nil
}

func printArtifacts(out io.Writer, mem *artifact.MemSink) error {
	for _, name := range mem.Names() {
		data, err := mem.Read(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "==> %s <==\n%s\n", name, data); err != nil {
			return err
		}
	}
	return nil
}

