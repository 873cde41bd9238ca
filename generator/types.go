package generator

import (
	"go/types"

	"github.com/dave/jennifer/jen"
)

// typeExpr renders t as Go source. Types from other packages are qualified
// through jennifer so their imports are added to the file.
func typeExpr(t types.Type) jen.Code {
	switch t := t.(type) {
	case *types.Alias:
		return qualified(t.Obj(), t.TypeArgs())
	case *types.Named:
		return qualified(t.Obj(), t.TypeArgs())
	case *types.TypeParam:
		return jen.Id(t.Obj().Name())
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return jen.Qual("unsafe", "Pointer")
		}
		return jen.Id(t.Name())
	case *types.Pointer:
		return jen.Op("*").Add(typeExpr(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(typeExpr(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(typeExpr(t.Elem()))
	case *types.Map:
		return jen.Map(typeExpr(t.Key())).Add(typeExpr(t.Elem()))
	case *types.Chan:
		switch t.Dir() {
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(typeExpr(t.Elem()))
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(typeExpr(t.Elem()))
		default:
			return jen.Chan().Add(typeExpr(t.Elem()))
		}
	case *types.Signature:
		return jen.Func().Add(signature(t))
	case *types.Struct:
		fields := make([]jen.Code, t.NumFields())
		for i := range fields {
			v := t.Field(i)
			field := jen.Add(typeExpr(v.Type()))
			if !v.Embedded() {
				field = jen.Id(v.Name()).Add(typeExpr(v.Type()))
			}
			if tag := t.Tag(i); tag != "" {
				field.Lit(tag)
			}
			fields[i] = field
		}
		return jen.Struct(fields...)
	case *types.Interface:
		if t.IsImplicit() && t.NumEmbeddeds() == 1 {
			return typeExpr(t.EmbeddedType(0))
		}
		var elems []jen.Code
		for i := 0; i < t.NumEmbeddeds(); i++ {
			elems = append(elems, typeExpr(t.EmbeddedType(i)))
		}
		for i := 0; i < t.NumExplicitMethods(); i++ {
			m := t.ExplicitMethod(i)
			elems = append(elems, jen.Id(m.Name()).Add(signature(m.Type().(*types.Signature))))
		}
		return jen.Interface(elems...)
	case *types.Union:
		union := &jen.Statement{}
		for i := 0; i < t.Len(); i++ {
			term := t.Term(i)
			if i > 0 {
				union.Op("|")
			}
			if term.Tilde() {
				union.Op("~")
			}
			union.Add(typeExpr(term.Type()))
		}
		return union
	default:
		return jen.Id(types.TypeString(t, nil))
	}
}

func qualified(obj *types.TypeName, args *types.TypeList) *jen.Statement {
	var id *jen.Statement
	if obj.Pkg() == nil {
		id = jen.Id(obj.Name())
	} else {
		id = jen.Qual(obj.Pkg().Path(), obj.Name())
	}
	if args.Len() > 0 {
		codes := make([]jen.Code, args.Len())
		for i := range codes {
			codes[i] = typeExpr(args.At(i))
		}
		id.Types(codes...)
	}
	return id
}

// signature renders parameters and results, without the func keyword.
func signature(sig *types.Signature) *jen.Statement {
	params := tuple(sig.Params(), sig.Variadic())
	results := tuple(sig.Results(), false)
	s := jen.Params(params...)
	switch {
	case len(results) == 0:
	case len(results) == 1 && sig.Results().At(0).Name() == "":
		s.Add(results[0])
	default:
		s.Params(results...)
	}
	return s
}

func tuple(t *types.Tuple, variadic bool) []jen.Code {
	codes := make([]jen.Code, t.Len())
	for i := range codes {
		v := t.At(i)
		var typ jen.Code
		if variadic && i == t.Len()-1 {
			typ = jen.Op("...").Add(typeExpr(v.Type().(*types.Slice).Elem()))
		} else {
			typ = typeExpr(v.Type())
		}
		if v.Name() != "" {
			codes[i] = jen.Id(v.Name()).Add(typ)
		} else {
			codes[i] = typ
		}
	}
	return codes
}
