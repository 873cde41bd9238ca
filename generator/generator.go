// Package generator emits Go source implementing the RTTI capability for the
// declarations extracted by the parser. Each declaration gets its own file
// holding a value-receiver RTTI method and an unexported descriptor builder.
package generator

import (
	"fmt"
	"go/types"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/mlwelles/rttigen/model"
)

// Header is the first line of every generated file.
const Header = "Code generated by rttigen. DO NOT EDIT."

// Config controls code emission.
type Config struct {
	RuntimePath string // import path of the runtime package
	RuntimeName string // package name of the runtime package
	Suffix      string // appended to the snake-cased type name, e.g. "_rtti.go"
	Ignored     string // runtime identifier describing ignored fields
}

// Generator renders declarations into jennifer files.
type Generator struct {
	cfg     Config
	ignored jen.Code
	enums   map[*types.TypeName]enumRef
}

// enumRef tells field descriptors how to reach an enum's descriptor.
type enumRef struct {
	pkgPath string
	builder string
	anchor  types.Type
}

// New returns a generator for cfg. The descriptor used for ignored fields is
// built here, once.
func New(cfg Config) *Generator {
	if cfg.RuntimeName == "" {
		cfg.RuntimeName = filepath.Base(cfg.RuntimePath)
	}
	return &Generator{
		cfg:     cfg,
		ignored: jen.Qual(cfg.RuntimePath, cfg.Ignored),
	}
}

// Generate returns the files for every declaration of pkgs, keyed by path.
func (g *Generator) Generate(pkgs []*model.Package) (map[string]*jen.File, error) {
	g.enums = make(map[*types.TypeName]enumRef)
	for _, pkg := range pkgs {
		for _, decl := range pkg.Declarations {
			if decl.Shape != model.ShapeEnum {
				continue
			}
			g.enums[typeName(decl.Type)] = enumRef{pkgPath: pkg.Path, builder: decl.BuilderName, anchor: decl.Anchor}
		}
		for _, ext := range pkg.ExternalEnums {
			obj := typeName(ext.Type)
			g.enums[obj] = enumRef{pkgPath: obj.Pkg().Path(), anchor: ext.Anchor}
		}
	}

	result := make(map[string]*jen.File)
	for _, pkg := range pkgs {
		for i := range pkg.Declarations {
			decl := &pkg.Declarations[i]
			fullPath := filepath.Join(pkg.Dir, g.FileName(decl.Name))
			if _, dup := result[fullPath]; dup {
				return nil, fmt.Errorf("%s: %s: file %s is already generated for another declaration", decl.Pos, decl.Name, fullPath)
			}
			file, err := g.file(pkg, decl)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", decl.Pos, decl.Name, err)
			}
			result[fullPath] = file
		}
	}
	return result, nil
}

// FileName returns the generated file name for a declaration.
func (g *Generator) FileName(declName string) string {
	return toSnakeCase(declName) + g.cfg.Suffix
}

func (g *Generator) file(pkg *model.Package, decl *model.Declaration) (*jen.File, error) {
	f := jen.NewFilePathName(pkg.Path, pkg.Name)
	f.HeaderComment(Header)
	f.ImportName(g.cfg.RuntimePath, g.cfg.RuntimeName)

	e := &emitter{Generator: g, decl: decl, params: typeParamNames(decl.TypeParams)}
	switch decl.Shape {
	case model.ShapeNamedStruct:
		f.Add(e.method())
		f.Line()
		f.Add(e.structBuilder())
	case model.ShapeTuple:
		f.Add(e.method())
		f.Line()
		f.Add(e.tupleBuilder())
	case model.ShapeEnum:
		f.Add(e.enumBuilder())
		for _, v := range decl.Variants {
			f.Line()
			f.Add(e.variantMethod(v))
		}
	default:
		return nil, fmt.Errorf("cannot generate code for shape %s", decl.Shape)
	}
	return f, nil
}

func typeName(t types.Type) *types.TypeName {
	switch t := t.(type) {
	case *types.Named:
		return t.Origin().Obj()
	case *types.Alias:
		return t.Obj()
	default:
		return nil
	}
}

// typeParamNames returns the names used for type parameters in generated
// code. Blank parameters are given a name so they can be passed on.
func typeParamNames(params []model.TypeParam) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		if p.Name == "_" {
			names[i] = fmt.Sprintf("_T%d", i)
		}
	}
	return names
}

// toSnakeCase converts a Go identifier to snake_case. Runs of upper case
// letters are kept together, so HTTPServer becomes http_server.
func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
