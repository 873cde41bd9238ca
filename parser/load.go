package parser

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/tools/go/packages"

	"github.com/mlwelles/rttigen/logger"
)

// LoadMode is what the parser needs from go/packages.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesSizes | packages.NeedTypesInfo |
	packages.NeedDeps | packages.NeedImports | packages.NeedModule

// Load type-checks the packages matched by patterns, relative to dir. Errors
// located in files accepted by skip, typically stale generated code, are
// tolerated.
func Load(ctx context.Context, dir string, patterns []string, skip func(fileName string) bool) ([]*Source, error) {
	log := logger.FromContext(ctx)
	loaded, err := packages.Load(&packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    LoadMode,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", strings.Join(patterns, " "), err)
	}
	if err := CheckErrors(loaded, skip); err != nil {
		return nil, err
	}

	var sources []*Source
	for _, pkg := range loaded {
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		sources = append(sources, &Source{
			Path:  pkg.PkgPath,
			Name:  pkg.Name,
			Dir:   packageDir(pkg),
			Fset:  pkg.Fset,
			Files: pkg.Syntax,
			Types: pkg.Types,
			Info:  pkg.TypesInfo,
			Sizes: pkg.TypesSizes,
		})
		log.Debug("loaded package", "package", pkg.PkgPath, "files", len(pkg.Syntax))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no Go packages matched %s", strings.Join(patterns, " "))
	}
	slices.SortFunc(sources, func(a, b *Source) int { return strings.Compare(a.Path, b.Path) })
	return sources, nil
}

// CheckErrors returns the load errors of the given packages, except those
// located in files accepted by skip.
func CheckErrors(loaded []*packages.Package, skip func(fileName string) bool) error {
	var errors []string
	for _, l := range loaded {
		for _, e := range l.Errors {
			if skip != nil && skip(errorFile(e.Pos)) {
				continue
			}
			errors = append(errors, e.Error())
		}
	}
	if len(errors) > 0 {
		return fmt.Errorf("found %d error(s) when loading Go packages:\n\t%s", len(errors), strings.Join(errors, "\n\t"))
	}
	return nil
}

// errorFile returns the base file name of a "file:line:col" error position.
// Positions without a file yield "".
func errorFile(pos string) string {
	if pos == "" || pos == "-" {
		return ""
	}
	for range 2 {
		idx := strings.LastIndex(pos, ":")
		if idx < 0 || !isDigits(pos[idx+1:]) {
			break
		}
		pos = pos[:idx]
	}
	_, fileName := path.Split(filepath.ToSlash(pos))
	return fileName
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GlobMatcher returns a predicate matching base file names against any of
// the given doublestar patterns. Invalid patterns never match.
func GlobMatcher(patterns []string) func(fileName string) bool {
	return func(fileName string) bool {
		if fileName == "" {
			return false
		}
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(pattern, fileName); err == nil && ok {
				return true
			}
		}
		return false
	}
}

func packageDir(pkg *packages.Package) string {
	for _, files := range [][]string{pkg.GoFiles, pkg.CompiledGoFiles, pkg.OtherFiles} {
		if len(files) > 0 {
			return filepath.Dir(files[0])
		}
	}
	return ""
}
