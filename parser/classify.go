package parser

import (
	"go/ast"
	"go/types"

	"github.com/mlwelles/rttigen/model"
)

// classify determines the shape of a type declaration. For unsupported
// shapes the second result names the restriction.
func classify(obj *types.TypeName, spec *ast.TypeSpec) (model.Shape, string) {
	if obj.IsAlias() || (spec != nil && spec.Assign.IsValid()) {
		return model.ShapeUnsupported, "alias declarations"
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return model.ShapeUnsupported, "non-defined types"
	}
	switch u := named.Underlying().(type) {
	case *types.Struct:
		if u.NumFields() == 0 {
			return model.ShapeUnsupported, "unit structs (no fields)"
		}
		return model.ShapeNamedStruct, ""
	case *types.Interface:
		switch {
		case named.TypeParams().Len() > 0:
			return model.ShapeUnsupported, "generic interfaces"
		case !u.IsMethodSet():
			return model.ShapeUnsupported, "unions and type-set interfaces"
		case enumMethods(u).NumMethods() == 0:
			return model.ShapeUnsupported, "interfaces without methods"
		}
		return model.ShapeEnum, ""
	default:
		n, ok := positionalShape(u)
		if !ok {
			return model.ShapeUnsupported, "function, channel and interface-typed definitions"
		}
		if n == 0 {
			return model.ShapeUnsupported, "zero-length arrays (no elements)"
		}
		return model.ShapeTuple, ""
	}
}

// positionalShape reports whether a non-struct underlying type can be
// described as a tuple: arrays by element, basics, pointers, slices and
// maps as a single element.
func positionalShape(u types.Type) (n int64, ok bool) {
	switch u := u.(type) {
	case *types.Array:
		return u.Len(), true
	case *types.Basic:
		return 1, u.Kind() != types.Invalid && u.Info()&types.IsUntyped == 0
	case *types.Pointer, *types.Slice, *types.Map:
		return 1, true
	default:
		return 0, false
	}
}

// variantShape classifies an enum variant's own fields. Empty structs are
// unit variants.
func variantShape(named *types.Named) (model.Shape, bool) {
	switch u := named.Underlying().(type) {
	case *types.Struct:
		return model.ShapeNamedStruct, true
	default:
		if _, ok := positionalShape(u); ok {
			return model.ShapeTuple, true
		}
		return model.ShapeUnsupported, false
	}
}

// enumMethods returns the interface's methods other than RTTI, which
// variants only gain once their generated code exists.
func enumMethods(iface *types.Interface) *types.Interface {
	var methods []*types.Func
	for i := 0; i < iface.NumMethods(); i++ {
		if m := iface.Method(i); m.Name() != methodName {
			methods = append(methods, m)
		}
	}
	return types.NewInterfaceType(methods, nil).Complete()
}

// implementsEnum reports whether a value or pointer of t satisfies the
// enum's methods.
func implementsEnum(t types.Type, methods *types.Interface) bool {
	return types.Implements(t, methods) || types.Implements(types.NewPointer(t), methods)
}
