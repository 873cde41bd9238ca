package parser

import (
	"context"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlwelles/rttigen/logger"
	"github.com/mlwelles/rttigen/model"
)

const runtimePath = "github.com/mlwelles/rttigen/rtti"

// runtimeSrc stands in for the runtime package; only the Type interface
// matters to the parser.
const runtimeSrc = `package rtti

type Type interface {
	TypeName() string
}

type Typed interface {
	RTTI() Type
}
`

// testPackage is a package type-checked from memory.
type testPackage struct {
	path  string
	files map[string]string
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

// typeCheck type-checks pkgs in order, after the runtime package, for
// linux/amd64. Later packages may import earlier ones.
func typeCheck(t *testing.T, pkgs ...testPackage) []*Source {
	t.Helper()
	fset := token.NewFileSet()
	imp := memImporter{}
	sizes := types.SizesFor("gc", "amd64")
	all := append([]testPackage{{path: runtimePath, files: map[string]string{"rtti.go": runtimeSrc}}}, pkgs...)

	var sources []*Source
	for _, tp := range all {
		dir := filepath.Join("/src", filepath.FromSlash(tp.path))
		names := make([]string, 0, len(tp.files))
		for name := range tp.files {
			names = append(names, name)
		}
		slices.Sort(names)

		var files []*ast.File
		for _, name := range names {
			f, err := goparser.ParseFile(fset, filepath.Join(dir, name), tp.files[name], goparser.ParseComments)
			require.NoError(t, err)
			files = append(files, f)
		}
		info := &types.Info{
			Types: make(map[ast.Expr]types.TypeAndValue),
			Defs:  make(map[*ast.Ident]types.Object),
			Uses:  make(map[*ast.Ident]types.Object),
		}
		conf := types.Config{Importer: imp, Sizes: sizes}
		pkg, err := conf.Check(tp.path, fset, files, info)
		require.NoError(t, err, "type-checking %s", tp.path)
		imp[tp.path] = pkg

		if tp.path == runtimePath {
			continue
		}
		sources = append(sources, &Source{
			Path:  tp.path,
			Name:  pkg.Name(),
			Dir:   dir,
			Fset:  fset,
			Files: files,
			Types: pkg,
			Info:  info,
			Sizes: sizes,
		})
	}
	return sources
}

func testOptions() Options {
	return Options{
		Namespace:   "rtti",
		RuntimePath: runtimePath,
		Generated:   GlobMatcher([]string{"*_rtti.go"}),
	}
}

func testContext() context.Context {
	return logger.ContextWithLogger(context.Background(), logger.NewLogger(logger.TestConfig()))
}

// parseSource parses a single package "example.com/geo" made of src.
func parseSource(t *testing.T, src string, opts Options) ([]*model.Package, error) {
	t.Helper()
	sources := typeCheck(t, testPackage{path: "example.com/geo", files: map[string]string{"geo.go": src}})
	return Parse(testContext(), sources, opts)
}

// mustParse parses src and returns its single package.
func mustParse(t *testing.T, src string) *model.Package {
	t.Helper()
	pkgs, err := parseSource(t, src, testOptions())
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	return pkgs[0]
}

func findDecl(t *testing.T, pkg *model.Package, name string) *model.Declaration {
	t.Helper()
	for i := range pkg.Declarations {
		if pkg.Declarations[i].Name == name {
			return &pkg.Declarations[i]
		}
	}
	t.Fatalf("declaration %s not found; have %v", name, declNames(pkg))
	return nil
}

func declNames(pkg *model.Package) []string {
	names := make([]string, len(pkg.Declarations))
	for i, d := range pkg.Declarations {
		names[i] = d.Name
	}
	return names
}

// fieldSummary is the comparable part of a model.Field.
type fieldSummary struct {
	Name    string
	Vis     model.Visibility
	Offset  int64
	Type    string
	Hints   []string
	Ignored bool
}

func summarize(fields []model.Field) []fieldSummary {
	out := make([]fieldSummary, len(fields))
	for i, f := range fields {
		out[i] = fieldSummary{
			Name:    f.Name,
			Vis:     f.Visibility,
			Offset:  f.Offset,
			Type:    types.TypeString(f.Type, nil),
			Hints:   f.Hints,
			Ignored: f.Ignored,
		}
	}
	return out
}
