// Package parser extracts RTTI metadata from type-checked Go packages. It
// finds type declarations carrying the derive directive, classifies their
// shape, and builds a model.Package per source package for the generator.
package parser

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/mlwelles/rttigen/logger"
	"github.com/mlwelles/rttigen/model"
)

// Options controls which declarations are derived and how.
type Options struct {
	Namespace        string                     // directive prefix and struct tag key, e.g. "rtti"
	RuntimePath      string                     // import path of the runtime package
	Types            []string                   // type names derived without the marker
	Sizes            types.Sizes                // layout target; nil uses each package's own sizes
	StrictAttributes bool                       // malformed attributes fail generation
	Generated        func(fileName string) bool // reports files written by a previous run
}

// Source is one type-checked package.
type Source struct {
	Path  string
	Name  string
	Dir   string
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
	Sizes types.Sizes
}

// typeDecl is a type declaration found in a source file.
type typeDecl struct {
	obj        *types.TypeName
	spec       *ast.TypeSpec
	directives []string
	src        *Source
}

func (d *typeDecl) position() token.Position {
	return d.src.Fset.Position(d.obj.Pos())
}

type parser struct {
	opts     Options
	log      logger.Logger
	caps     *capabilities
	variants map[*types.TypeName][]*typeDecl // enum -> variants in source order
	diags    []error
}

// Parse builds one model.Package per source. Every diagnostic found is
// returned, joined; on error no package is returned.
func Parse(ctx context.Context, sources []*Source, opts Options) ([]*model.Package, error) {
	p := &parser{
		opts: opts,
		log:  logger.FromContext(ctx),
		caps: &capabilities{
			runtimePath: opts.RuntimePath,
			loaded:      make(map[*types.Package]bool, len(sources)),
			derived:     make(map[*types.TypeName]bool),
			enums:       make(map[*types.TypeName]types.Type),
			external:    make(map[*types.TypeName]types.Type),
			uses:        make(map[*types.Package][]*types.TypeName),
		},
		variants: make(map[*types.TypeName][]*typeDecl),
	}

	// First pass: index every type declaration and pick the marked ones.
	index := make(map[*types.TypeName]*typeDecl)
	var marked []*typeDecl
	requested := make(map[string]bool, len(opts.Types))
	for _, name := range opts.Types {
		requested[name] = false
	}
	for _, src := range sources {
		p.caps.loaded[src.Types] = true
		for _, d := range indexDecls(src, opts.Namespace) {
			index[d.obj] = d
			_, byName := requested[d.obj.Name()]
			if byName {
				requested[d.obj.Name()] = true
			}
			if byName || hasMarker(d.directives) {
				marked = append(marked, d)
			}
		}
	}
	for _, name := range opts.Types {
		if !requested[name] {
			p.diags = append(p.diags, fmt.Errorf("no type named %s in the loaded packages", name))
		}
	}

	// Classify, and resolve enum variants so that the capability checker
	// knows every derived type before any field is examined.
	shapes := make(map[*typeDecl]model.Shape, len(marked))
	for _, d := range marked {
		shape, restriction := classify(d.obj, d.spec)
		if shape == model.ShapeUnsupported {
			p.fail(d, ErrUnsupportedShape, "//%s:%s is not defined for %s", opts.Namespace, deriveMarker, restriction)
			continue
		}
		shapes[d] = shape
		p.caps.derived[d.obj] = true
	}
	claimed := make(map[*types.TypeName]*typeDecl)
	for _, d := range marked {
		if shapes[d] != model.ShapeEnum {
			continue
		}
		vs := p.discoverVariants(d, index)
		var anchor types.Type
		for _, v := range vs {
			if prev, ok := claimed[v.obj]; ok {
				p.fail(v, ErrConflict, "variant of both %s and %s", prev.obj.Name(), d.obj.Name())
			}
			claimed[v.obj] = d
			if _, isMarked := shapes[v]; isMarked {
				p.fail(v, ErrConflict, "variant of %s is itself marked for derivation", d.obj.Name())
			}
			p.caps.derived[v.obj] = true
			if anchor == nil && v.obj.Exported() {
				anchor = v.obj.Type()
			}
		}
		p.variants[d.obj] = vs
		p.caps.enums[d.obj] = anchor
	}

	// Second pass: extract each package's declarations.
	var pkgs []*model.Package
	for _, src := range sources {
		pkg := &model.Package{Path: src.Path, Name: src.Name, Dir: src.Dir}
		for _, d := range marked {
			shape, ok := shapes[d]
			if !ok || d.src != src {
				continue
			}
			pkg.Declarations = append(pkg.Declarations, p.declaration(d, shape))
		}
		pkg.ExternalEnums = p.caps.externalEnums(src.Types)
		p.log.Debug("parsed package", "package", src.Path, "declarations", len(pkg.Declarations))
		pkgs = append(pkgs, pkg)
	}

	if len(p.diags) > 0 {
		return nil, errors.Join(p.diags...)
	}
	return pkgs, nil
}

// indexDecls returns every type declaration of src with its directives, in
// source order.
func indexDecls(src *Source, namespace string) []*typeDecl {
	var decls []*typeDecl
	for _, file := range src.Files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				obj, ok := src.Info.Defs[typeSpec.Name].(*types.TypeName)
				if !ok {
					continue
				}
				doc := typeSpec.Doc
				if doc == nil && len(genDecl.Specs) == 1 {
					doc = genDecl.Doc
				}
				decls = append(decls, &typeDecl{
					obj:        obj,
					spec:       typeSpec,
					directives: directives(commentTexts(doc), namespace),
					src:        src,
				})
			}
		}
	}
	slices.SortStableFunc(decls, func(a, b *typeDecl) int {
		return comparePositions(a.position(), b.position())
	})
	return decls
}

func commentTexts(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	texts := make([]string, len(doc.List))
	for i, c := range doc.List {
		texts[i] = c.Text
	}
	return texts
}

func comparePositions(a, b token.Position) int {
	return cmp.Or(cmp.Compare(a.Filename, b.Filename), cmp.Compare(a.Offset, b.Offset))
}

// discoverVariants returns the named, non-interface, non-generic types of
// the enum's package whose value or pointer implements it, in source order.
func (p *parser) discoverVariants(enum *typeDecl, index map[*types.TypeName]*typeDecl) []*typeDecl {
	methods := enumMethods(enum.obj.Type().Underlying().(*types.Interface))
	scope := enum.src.Types.Scope()
	var variants []*typeDecl
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() || obj == enum.obj {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if _, isIface := named.Underlying().(*types.Interface); isIface {
			continue
		}
		if !implementsEnum(named, methods) {
			continue
		}
		d, ok := index[obj]
		if !ok {
			d = &typeDecl{obj: obj, src: enum.src}
		}
		variants = append(variants, d)
	}
	slices.SortStableFunc(variants, func(a, b *typeDecl) int {
		return comparePositions(a.position(), b.position())
	})
	return variants
}

// fail records a diagnostic against d.
func (p *parser) fail(d *typeDecl, sentinel error, format string, args ...any) {
	p.diags = append(p.diags, &Diagnostic{
		Pos:  d.position(),
		Decl: d.obj.Name(),
		Err:  sentinel,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// attributes applies the malformed-attribute policy: dropped with a warning,
// or fatal in strict mode.
func (p *parser) attributes(d *typeDecl, item string, attrs model.Attributes) model.Attributes {
	for _, raw := range attrs.Malformed {
		if p.opts.StrictAttributes {
			p.fail(d, ErrMalformedAttribute, "%s: cannot parse %q", item, raw)
			continue
		}
		p.log.Warn("dropping malformed attribute", "type", d.obj.Name(), "item", item, "value", raw, "pos", d.position().String())
	}
	return attrs
}

// sizesFor returns the layout description used for src.
func (p *parser) sizesFor(src *Source) types.Sizes {
	if p.opts.Sizes != nil {
		return p.opts.Sizes
	}
	if src.Sizes != nil {
		return src.Sizes
	}
	return types.SizesFor("gc", runtime.GOARCH)
}

// generated reports whether pos lies in a file written by a previous run.
func (p *parser) generated(src *Source, pos token.Pos) bool {
	if p.opts.Generated == nil || !pos.IsValid() {
		return false
	}
	return p.opts.Generated(filepath.Base(src.Fset.Position(pos).Filename))
}
