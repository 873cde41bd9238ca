package generator

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	goparser "go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/mlwelles/rttigen/logger"
	"github.com/mlwelles/rttigen/model"
	"github.com/mlwelles/rttigen/parser"
)

const runtimePath = "github.com/mlwelles/rttigen/rtti"

const runtimeSrc = `package rtti

type Type interface {
	TypeName() string
}

type Typed interface {
	RTTI() Type
}
`

type testPackage struct {
	path string
	src  string
	// loadOnly packages are type-checked for their importers but are not
	// part of the run.
	loadOnly bool
}

type memImporter map[string]*types.Package

func (m memImporter) Import(path string) (*types.Package, error) {
	if path == "unsafe" {
		return types.Unsafe, nil
	}
	if pkg, ok := m[path]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("package %s not found", path)
}

// parsePackages type-checks each package from a single source file for
// linux/amd64 and runs the parser over them.
func parsePackages(t *testing.T, pkgs ...testPackage) []*model.Package {
	t.Helper()
	fset := token.NewFileSet()
	imp := memImporter{}
	sizes := types.SizesFor("gc", "amd64")

	var sources []*parser.Source
	all := append([]testPackage{{path: runtimePath, src: runtimeSrc}}, pkgs...)
	for _, tp := range all {
		dir := filepath.Join("/src", filepath.FromSlash(tp.path))
		f, err := goparser.ParseFile(fset, filepath.Join(dir, "src.go"), tp.src, goparser.ParseComments)
		require.NoError(t, err)
		info := &types.Info{
			Types: make(map[ast.Expr]types.TypeAndValue),
			Defs:  make(map[*ast.Ident]types.Object),
			Uses:  make(map[*ast.Ident]types.Object),
		}
		conf := types.Config{Importer: imp, Sizes: sizes}
		pkg, err := conf.Check(tp.path, fset, []*ast.File{f}, info)
		require.NoError(t, err, "type-checking %s", tp.path)
		imp[tp.path] = pkg
		if tp.path == runtimePath || tp.loadOnly {
			continue
		}
		sources = append(sources, &parser.Source{
			Path:  tp.path,
			Name:  pkg.Name(),
			Dir:   dir,
			Fset:  fset,
			Files: []*ast.File{f},
			Types: pkg,
			Info:  info,
			Sizes: sizes,
		})
	}

	ctx := logger.ContextWithLogger(context.Background(), logger.NewLogger(logger.TestConfig()))
	parsed, err := parser.Parse(ctx, sources, parser.Options{
		Namespace:   "rtti",
		RuntimePath: runtimePath,
		Generated:   parser.GlobMatcher([]string{"*_rtti.go"}),
	})
	require.NoError(t, err)
	return parsed
}

func testConfig() Config {
	return Config{
		RuntimePath: runtimePath,
		Suffix:      "_rtti.go",
		Ignored:     "Ignored",
	}
}

// generate renders the files for a single package "example.com/geo".
func generate(t *testing.T, src string) map[string]string {
	t.Helper()
	pkgs := parsePackages(t, testPackage{path: "example.com/geo", src: src})
	result, err := New(testConfig()).Generate(pkgs)
	require.NoError(t, err)
	return renderAll(t, result)
}

// renderAll renders result keyed by base file name, checking that every
// file is valid, gofmt-clean Go.
func renderAll(t *testing.T, result map[string]*jen.File) map[string]string {
	t.Helper()
	rendered, err := Render(result)
	require.NoError(t, err)
	out := make(map[string]string, len(rendered))
	for path, content := range rendered {
		_, err := goparser.ParseFile(token.NewFileSet(), path, content, goparser.ParseComments)
		require.NoError(t, err, "generated %s does not parse:\n%s", path, content)
		formatted, err := format.Source(content)
		require.NoError(t, err)
		require.True(t, bytes.Equal(formatted, content), "generated %s is not gofmt-clean", path)
		out[filepath.Base(path)] = string(content)
	}
	return out
}

// squash collapses runs of white space, so that assertions do not depend
// on line breaks and alignment.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fileNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
