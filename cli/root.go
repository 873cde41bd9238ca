// Package cli implements the rttigen command.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mlwelles/rttigen/config"
	"github.com/mlwelles/rttigen/generator"
	"github.com/mlwelles/rttigen/logger"
	"github.com/mlwelles/rttigen/parser"
)

// RootCmd returns the rttigen command, writing to the OS filesystem.
func RootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rttigen [flags] [packages]",
		Short: "Generate RTTI methods for types marked //rtti:derive",
		Long: `rttigen loads the given packages (default ".") and, for every type whose
doc comment carries the //rtti:derive directive, writes a file implementing

	func (T) RTTI() rtti.Type

describing the type's fields, their visibility, offsets and hints.

Typical use is a go:generate line in the package:

	//go:generate go run github.com/mlwelles/rttigen`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, fs, args)
		},
	}
	addFlags(cmd.Flags())
	return cmd
}

func addFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "configuration file (default ./"+config.FileName+".yaml if present)")
	flags.StringSlice("type", nil, "derive the named types even without the directive (repeatable)")
	flags.String("namespace", config.DefaultNamespace, "directive prefix and struct tag key")
	flags.String("runtime", config.DefaultRuntime, "import path of the RTTI runtime package")
	flags.String("runtime-name", "", "package name of the runtime package (default: last path element)")
	flags.String("suffix", config.DefaultSuffix, "suffix of generated file names")
	flags.String("ignored", config.DefaultIgnored, "runtime identifier describing ignored fields")
	flags.String("arch", "", "target architecture for field offsets (default: the loaded packages' target)")
	flags.String("compiler", config.DefaultCompiler, "target compiler for field offsets")
	flags.Bool("strict-attributes", false, "fail on malformed rtti attributes instead of dropping them")
	flags.StringSlice("skip", []string{"*" + config.DefaultSuffix}, "globs of generated files whose load errors are ignored, in addition to *<suffix>")
	flags.Bool("verify", false, "check that generated files on disk are current instead of writing them")
	flags.Bool("prune", false, "remove generated files for declarations that no longer derive")
	flags.Bool("dry-run", false, "print generated files instead of writing them")
	flags.String("log-level", "info", "log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "log in JSON")
}

func run(cmd *cobra.Command, fs afero.Fs, patterns []string) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(fs, cmd.Flags(), configFile)
	if err != nil {
		return err
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     cmd.ErrOrStderr(),
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	ctx := logger.ContextWithLogger(cmd.Context(), log)

	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	generated := parser.GlobMatcher(cfg.GeneratedGlobs())
	sources, err := parser.Load(ctx, "", patterns, generated)
	if err != nil {
		return err
	}
	pkgs, err := parser.Parse(ctx, sources, parser.Options{
		Namespace:        cfg.Namespace,
		RuntimePath:      cfg.Runtime,
		Types:            cfg.Types,
		Sizes:            cfg.Sizes(),
		StrictAttributes: cfg.StrictAttributes,
		Generated:        generated,
	})
	if err != nil {
		log.Error("generation failed", "diagnostics", countErrors(err))
		return err
	}

	gen := generator.New(generator.Config{
		RuntimePath: cfg.Runtime,
		RuntimeName: cfg.RuntimeName,
		Suffix:      cfg.Suffix,
		Ignored:     cfg.Ignored,
	})
	result, err := gen.Generate(pkgs)
	if err != nil {
		return err
	}

	var dirs []string
	for _, pkg := range pkgs {
		if pkg.Dir != "" && !slices.Contains(dirs, pkg.Dir) {
			dirs = append(dirs, pkg.Dir)
		}
	}
	stale, err := generator.Stale(fs, dirs, "*"+cfg.Suffix, result)
	if err != nil {
		return err
	}

	switch {
	case cfg.Verify:
		errs := generator.VerifyFilesOnDisk(fs, result)
		for _, path := range stale {
			errs = append(errs, fmt.Errorf("'%s' is stale", path))
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
		log.Info("files OK", "count", len(result))
		return nil
	case cfg.DryRun:
		rendered, err := generator.Render(result)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, path := range sortedKeys(rendered) {
			fmt.Fprintf(out, "// %s\n%s\n", filepath.ToSlash(path), rendered[path])
		}
		for _, path := range stale {
			log.Info("would remove stale file", "file", path)
		}
		return nil
	}

	written, err := generator.Write(fs, result)
	if err != nil {
		return err
	}
	for _, path := range written {
		log.Info("saved", "file", path)
	}
	if cfg.Prune {
		if err := generator.Prune(fs, stale); err != nil {
			return err
		}
		for _, path := range stale {
			log.Info("removed stale file", "file", path)
		}
	} else if len(stale) > 0 {
		log.Warn("stale generated files left in place, rerun with --prune to remove them", "files", stale)
	}
	return nil
}

func countErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
