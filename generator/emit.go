package generator

import (
	"go/types"
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/mlwelles/rttigen/model"
)

// emitter builds the code for one declaration.
type emitter struct {
	*Generator
	decl   *model.Declaration
	params []string
}

func (e *emitter) rt(name string) *jen.Statement {
	return jen.Qual(e.cfg.RuntimePath, name)
}

// block renders composite literal elements one per line.
func block(items ...jen.Code) *jen.Statement {
	return jen.Custom(jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}, items...)
}

func key(name string, value jen.Code) jen.Code {
	return jen.Id(name).Op(":").Add(value)
}

// typeArgs returns the declaration's type parameters as arguments.
func (e *emitter) typeArgs() []jen.Code {
	args := make([]jen.Code, len(e.params))
	for i, name := range e.params {
		args[i] = jen.Id(name)
	}
	return args
}

// self is the declared type as written inside its own package.
func (e *emitter) self() *jen.Statement {
	s := jen.Id(e.decl.Name)
	if e.decl.Generic() {
		s.Types(e.typeArgs()...)
	}
	return s
}

// callBuilder calls the declaration's builder, passing type parameters on.
func (e *emitter) callBuilder() *jen.Statement {
	s := jen.Id(e.decl.BuilderName)
	if e.decl.Generic() {
		s.Types(e.typeArgs()...)
	}
	return s.Call()
}

// method emits the capability method:
//
//	func (T[K, V]) RTTI() rtti.Type { return rttiT[K, V]() }
func (e *emitter) method() jen.Code {
	return jen.Commentf("RTTI returns the runtime type information of %s.", e.decl.Name).Line().
		Func().Params(e.self()).Id("RTTI").Params().Add(e.rt("Type")).Block(
		jen.Return(e.callBuilder()),
	)
}

// variantMethod gives an enum variant the capability, returning the enum's
// descriptor.
func (e *emitter) variantMethod(v model.Variant) jen.Code {
	return jen.Commentf("RTTI returns the runtime type information of %s, of which %s is a variant.", e.decl.Name, v.Name).Line().
		Func().Params(jen.Id(v.Name)).Id("RTTI").Params().Add(e.rt("Type")).Block(
		jen.Return(jen.Id(e.decl.BuilderName).Call()),
	)
}

// builder emits the unexported descriptor builder, carrying the type
// parameters and their constraints.
func (e *emitter) builder(body ...jen.Code) jen.Code {
	f := jen.Func().Id(e.decl.BuilderName)
	if e.decl.Generic() {
		params := make([]jen.Code, len(e.decl.TypeParams))
		for i, p := range e.decl.TypeParams {
			params[i] = jen.Id(e.params[i]).Add(typeExpr(p.Constraint))
		}
		f.Types(params...)
	}
	return f.Params().Add(e.rt("Type")).Block(body...)
}

func (e *emitter) structBuilder() jen.Code {
	return e.composite("Struct", func(i int, f model.Field) jen.Code {
		return jen.Lit(f.Name)
	})
}

func (e *emitter) tupleBuilder() jen.Code {
	return e.composite("Tuple", nil)
}

// composite emits the builder of a struct or tuple descriptor. Generic
// declarations measure themselves at run time: the size and alignment of
// the instantiated type, and field offsets from rtti.Layout.
func (e *emitter) composite(kind string, name func(int, model.Field) jen.Code) jen.Code {
	var (
		body    []jen.Code
		size    jen.Code = jen.Lit(int(e.decl.Size))
		align   jen.Code = jen.Lit(int(e.decl.Align))
		offsetf          = func(i int, f model.Field) jen.Code { return jen.Lit(int(f.Offset)) }
	)
	if e.decl.Generic() {
		slot := e.local("slot")
		size = jen.Id(slot).Dot("Size")
		align = jen.Id(slot).Dot("Align")
		body = append(body, jen.Id(slot).Op(":=").Add(e.rt("SlotOf")).Types(e.self()).Call())
		if len(e.decl.Fields) == 0 || (len(e.decl.Fields) == 1 && e.decl.Fields[0].Name == "") {
			offsetf = func(int, model.Field) jen.Code { return jen.Lit(0) }
		} else {
			layout := e.local("layout")
			slots := make([]jen.Code, len(e.decl.Fields))
			for i, f := range e.decl.Fields {
				slots[i] = e.rt("SlotOf").Types(typeExpr(f.Type)).Call()
			}
			body = append(body, jen.Id(layout).Op(":=").Add(e.rt("Layout")).Call(slots...))
			offsetf = func(i int, _ model.Field) jen.Code {
				return jen.Id(layout).Dot("Offsets").Index(jen.Lit(i))
			}
		}
	}

	fields := make([]jen.Code, len(e.decl.Fields))
	for i, f := range e.decl.Fields {
		fields[i] = e.field(f, name, offsetf(i, f))
	}
	body = append(body, jen.Return(jen.Op("&").Add(e.rt(kind)).Add(block(
		key("Name", jen.Lit(e.decl.Name)),
		key("Vis", e.rt(e.decl.Visibility.Token())),
		key("Size", size),
		key("Align", align),
		key("Fields", jen.Index().Add(e.rt("Field")).Add(block(fields...))),
	))))
	return e.builder(body...)
}

func (e *emitter) enumBuilder() jen.Code {
	variants := make([]jen.Code, len(e.decl.Variants))
	for i, v := range e.decl.Variants {
		items := []jen.Code{key("Name", jen.Lit(v.Name))}
		if len(v.Hints) > 0 {
			items = append(items, key("Hints", hints(v.Hints)))
		}
		if len(v.Fields) > 0 {
			var name func(int, model.Field) jen.Code
			if v.Shape == model.ShapeNamedStruct {
				name = func(_ int, f model.Field) jen.Code { return jen.Lit(f.Name) }
			}
			fields := make([]jen.Code, len(v.Fields))
			for j, f := range v.Fields {
				fields[j] = e.field(f, name, e.rt("NoOffset"))
			}
			items = append(items, key("Fields", jen.Index().Add(e.rt("Field")).Add(block(fields...))))
		}
		variants[i] = block(items...)
	}
	return e.builder(jen.Return(jen.Op("&").Add(e.rt("Enum")).Add(block(
		key("Name", jen.Lit(e.decl.Name)),
		key("Vis", e.rt(e.decl.Visibility.Token())),
		key("Size", jen.Lit(int(e.decl.Size))),
		key("Align", jen.Lit(int(e.decl.Align))),
		key("Variants", jen.Index().Add(e.rt("Variant")).Add(block(variants...))),
	))))
}

// field emits one rtti.Field literal. Positional fields have no name.
func (e *emitter) field(f model.Field, name func(int, model.Field) jen.Code, offset jen.Code) jen.Code {
	var items []jen.Code
	if name != nil {
		items = append(items, key("Name", name(f.Index, f)))
	}
	items = append(items,
		key("Vis", e.rt(f.Visibility.Token())),
		key("Offset", offset),
	)
	if f.Ignored {
		items = append(items, key("Type", e.ignored))
	} else {
		items = append(items, key("Type", e.descriptor(f.Type)))
	}
	if len(f.Hints) > 0 {
		items = append(items, key("Hints", hints(f.Hints)))
	}
	return jen.Values(items...)
}

func hints(hs []string) jen.Code {
	lits := make([]jen.Code, len(hs))
	for i, h := range hs {
		lits[i] = jen.Lit(h)
	}
	return jen.Index().String().Values(lits...)
}

// descriptor returns an expression of type rtti.Type describing t.
// Composite element types are wrapped in thunks and enums in rtti.Lazy, so
// recursive types do not recurse while their descriptor is built.
func (e *emitter) descriptor(t types.Type) jen.Code {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		if name, ok := basicDescriptors[t.Kind()]; ok {
			return e.rt(name)
		}
	case *types.Pointer:
		return e.rt("PointerTo").Call(e.thunk(t.Elem()))
	case *types.Slice:
		return e.rt("SliceOf").Call(e.thunk(t.Elem()))
	case *types.Array:
		return e.rt("ArrayOf").Call(jen.Lit(int(t.Len())), e.descriptor(t.Elem()))
	case *types.Map:
		return e.rt("MapOf").Call(e.thunk(t.Key()), e.thunk(t.Elem()))
	case *types.Named:
		if ref, ok := e.enums[t.Origin().Obj()]; ok {
			return e.enumDescriptor(ref)
		}
	}
	return e.rt("Of").Types(typeExpr(t)).Call()
}

func (e *emitter) enumDescriptor(ref enumRef) jen.Code {
	if ref.pkgPath == e.decl.Type.(*types.Named).Obj().Pkg().Path() {
		return e.rt("Lazy").Call(jen.Id(ref.builder))
	}
	return e.rt("Lazy").Call(jen.Func().Params().Add(e.rt("Type")).Block(
		jen.Return(e.rt("Of").Types(typeExpr(ref.anchor)).Call()),
	))
}

func (e *emitter) thunk(t types.Type) jen.Code {
	return jen.Func().Params().Add(e.rt("Type")).Block(jen.Return(e.descriptor(t)))
}

// local returns a variable name for the builder body that no type
// parameter shadows.
func (e *emitter) local(base string) string {
	name := base
	for slices.Contains(e.params, name) {
		name += "_"
	}
	return name
}

var basicDescriptors = map[types.BasicKind]string{
	types.Bool:          "Bool",
	types.Int:           "Int",
	types.Int8:          "Int8",
	types.Int16:         "Int16",
	types.Int32:         "Int32",
	types.Int64:         "Int64",
	types.Uint:          "Uint",
	types.Uint8:         "Uint8",
	types.Uint16:        "Uint16",
	types.Uint32:        "Uint32",
	types.Uint64:        "Uint64",
	types.Uintptr:       "Uintptr",
	types.Float32:       "Float32",
	types.Float64:       "Float64",
	types.Complex64:     "Complex64",
	types.Complex128:    "Complex128",
	types.String:        "String",
	types.UnsafePointer: "UnsafePointer",
}
