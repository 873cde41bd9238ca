package parser

import (
	"fmt"
	"go/types"

	"github.com/mlwelles/rttigen/model"
)

// builderPrefix prefixes the unexported function that builds a
// declaration's descriptor.
const builderPrefix = "rtti"

// declaration extracts a classified declaration. Problems are recorded as
// diagnostics; the returned value is always usable for further checks.
func (p *parser) declaration(d *typeDecl, shape model.Shape) model.Declaration {
	named := d.obj.Type().(*types.Named)
	pkgPath := d.src.Path
	attrs := p.attributes(d, d.obj.Name(), directiveAttributes(d.directives))
	if attrs.Ignore {
		p.log.Warn("ignore has no effect on a declaration", "type", d.obj.Name(), "pos", d.position().String())
	}

	decl := model.Declaration{
		Name:        d.obj.Name(),
		Visibility:  translateVisibility(declarationForm(d.obj.Name(), pkgPath)),
		Shape:       shape,
		Type:        named,
		Size:        -1,
		Align:       -1,
		Hints:       attrs.Hints,
		Pos:         d.position(),
		BuilderName: builderPrefix + d.obj.Name(),
	}
	for i := 0; i < named.TypeParams().Len(); i++ {
		tp := named.TypeParams().At(i)
		decl.TypeParams = append(decl.TypeParams, model.TypeParam{Name: tp.Obj().Name(), Constraint: tp.Constraint()})
	}

	var sizes types.Sizes
	if !decl.Generic() {
		sizes = p.sizesFor(d.src)
		decl.Size = sizes.Sizeof(named)
		decl.Align = sizes.Alignof(named)
	}

	p.checkBuilder(d, decl.BuilderName)
	switch shape {
	case model.ShapeNamedStruct:
		p.checkMethod(d)
		decl.Fields = p.structFields(d, named.Underlying().(*types.Struct), sizes)
	case model.ShapeTuple:
		p.checkMethod(d)
		decl.Fields = p.positionalFields(named.Underlying(), decl.Visibility, sizes)
	case model.ShapeEnum:
		decl.Anchor = p.caps.enums[d.obj]
		for _, v := range p.variants[d.obj] {
			if variant, ok := p.variant(v); ok {
				decl.Variants = append(decl.Variants, variant)
			}
		}
	}
	p.checkFields(d, "", decl.Fields)
	return decl
}

// structFields extracts the fields of st, declared by d. Offsets are computed
// from sizes; a nil sizes leaves them unknown.
func (p *parser) structFields(d *typeDecl, st *types.Struct, sizes types.Sizes) []model.Field {
	offsets := structOffsets(sizes, st)

	fields := make([]model.Field, 0, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		field := model.Field{
			Name:       v.Name(),
			Index:      i,
			Visibility: translateVisibility(memberForm(v.Name(), d.obj.Name(), d.src.Path)),
			Type:       v.Type(),
			Embedded:   v.Embedded(),
			Offset:     model.OffsetUnknown,
		}
		if offsets != nil {
			field.Offset = offsets[i]
		}
		if attrs, ok := fieldAttributes(st.Tag(i), p.opts.Namespace); ok {
			attrs = p.attributes(d, v.Name(), attrs)
			field.Hints = attrs.Hints
			field.Ignored = attrs.Ignore
		}
		fields = append(fields, field)
	}
	return fields
}

// positionalFields describes a tuple's elements: one per array element, or
// the underlying type itself as the single element. Elements carry the
// enclosing declaration's visibility and no attributes.
func (p *parser) positionalFields(u types.Type, vis model.Visibility, sizes types.Sizes) []model.Field {
	if arr, ok := u.(*types.Array); ok {
		offsets := elementOffsets(sizes, arr)
		fields := make([]model.Field, arr.Len())
		for i := range fields {
			fields[i] = model.Field{Index: i, Visibility: vis, Type: arr.Elem(), Offset: model.OffsetUnknown}
			if offsets != nil {
				fields[i].Offset = offsets[i]
			}
		}
		return fields
	}
	field := model.Field{Visibility: vis, Type: u, Offset: model.OffsetUnknown}
	if sizes != nil {
		field.Offset = 0
	}
	return []model.Field{field}
}

// variant extracts one enum variant. Variant fields never carry offsets.
func (p *parser) variant(v *typeDecl) (model.Variant, bool) {
	named := v.obj.Type().(*types.Named)
	shape, ok := variantShape(named)
	if !ok {
		p.fail(v, ErrUnsupportedShape, "variant has underlying type %s", named.Underlying())
		return model.Variant{}, false
	}
	p.checkMethod(v)
	attrs := p.attributes(v, v.obj.Name(), directiveAttributes(v.directives))
	variant := model.Variant{
		Name:  v.obj.Name(),
		Type:  named,
		Shape: shape,
		Hints: attrs.Hints,
	}
	switch shape {
	case model.ShapeNamedStruct:
		variant.Fields = p.structFields(v, named.Underlying().(*types.Struct), nil)
	case model.ShapeTuple:
		vis := translateVisibility(declarationForm(v.obj.Name(), v.src.Path))
		variant.Fields = p.positionalFields(named.Underlying(), vis, nil)
	}
	p.checkFields(v, v.obj.Name()+".", variant.Fields)
	return variant, true
}

// checkFields requires every non-ignored field type to provide RTTI.
func (p *parser) checkFields(d *typeDecl, prefix string, fields []model.Field) {
	for _, f := range fields {
		if f.Ignored {
			continue
		}
		if err := p.caps.check(f.Type, d.src.Types); err != nil {
			p.fail(d, ErrMissingCapability, "field %s%s: %v", prefix, fieldLabel(f), err)
		}
	}
}

// checkMethod rejects types that already declare the capability method
// outside generated files.
func (p *parser) checkMethod(d *typeDecl) {
	obj, index, _ := types.LookupFieldOrMethod(d.obj.Type(), true, d.src.Types, methodName)
	if obj == nil || len(index) != 1 || p.generated(d.src, obj.Pos()) {
		return
	}
	if _, isFunc := obj.(*types.Func); isFunc {
		p.fail(d, ErrConflict, "%s already declares method %s", d.obj.Name(), methodName)
		return
	}
	p.fail(d, ErrConflict, "%s has a field named %s", d.obj.Name(), methodName)
}

// checkBuilder rejects a package-level identifier that would collide with
// the generated builder.
func (p *parser) checkBuilder(d *typeDecl, builder string) {
	obj := d.src.Types.Scope().Lookup(builder)
	if obj == nil || p.generated(d.src, obj.Pos()) {
		return
	}
	p.fail(d, ErrConflict, "identifier %s is reserved for the generated builder but is declared at %s",
		builder, d.src.Fset.Position(obj.Pos()))
}

func fieldLabel(f model.Field) string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("#%d", f.Index)
}
