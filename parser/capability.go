package parser

import (
	"fmt"
	"go/token"
	"go/types"
	"slices"

	"github.com/mlwelles/rttigen/model"
)

// methodName is the capability method generated for each declaration.
const methodName = "RTTI"

// capabilities decides whether a field type can provide its own RTTI.
type capabilities struct {
	runtimePath string
	loaded      map[*types.Package]bool        // packages of this run
	derived     map[*types.TypeName]bool       // types marked in this run, and enum variants
	enums       map[*types.TypeName]types.Type // derived enum interfaces and their anchor variant
	external    map[*types.TypeName]types.Type // enums of packages outside the run, nil anchor if none
	uses        map[*types.Package][]*types.TypeName
}

// check returns nil if t, used as a field type in pkg, supports the
// capability, or an explanation naming the type that does not.
func (c *capabilities) check(t types.Type, pkg *types.Package) error {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		if t.Kind() == types.Invalid || t.Info()&types.IsUntyped != 0 {
			return fmt.Errorf("type %s is not a valid field type", t)
		}
		return nil
	case *types.Pointer:
		return c.check(t.Elem(), pkg)
	case *types.Slice:
		return c.check(t.Elem(), pkg)
	case *types.Array:
		return c.check(t.Elem(), pkg)
	case *types.Map:
		if err := c.check(t.Key(), pkg); err != nil {
			return err
		}
		return c.check(t.Elem(), pkg)
	case *types.TypeParam:
		if c.hasMethod(t) {
			return nil
		}
		return fmt.Errorf("type parameter %s is not constrained to implement %s() %s.Type", t, methodName, c.runtimePath)
	case *types.Named:
		obj := t.Origin().Obj()
		if anchor, ok := c.enums[obj]; ok {
			if obj.Pkg() == pkg || anchor != nil {
				return nil
			}
			return fmt.Errorf("enum %s has no exported variant through which package %s can reach its RTTI", t, pkg.Path())
		}
		if iface, isIface := t.Underlying().(*types.Interface); isIface {
			if obj.Pkg() != nil && !c.loaded[obj.Pkg()] && t.TypeArgs().Len() == 0 {
				if c.externalAnchor(obj, iface) != nil {
					c.use(pkg, obj)
					return nil
				}
				return fmt.Errorf("interface type %s has no exported implementation with method %s() %s.Type", t, methodName, c.runtimePath)
			}
			return fmt.Errorf("interface type %s is not a derived enum", t)
		}
		if c.derived[obj] || c.hasMethod(t) {
			return nil
		}
		return fmt.Errorf("type %s does not implement %s() %s.Type", t, methodName, c.runtimePath)
	default:
		return fmt.Errorf("type %s has no RTTI representation", t)
	}
}

// hasMethod reports whether the value method set of t has the capability
// method with the runtime's signature.
func (c *capabilities) hasMethod(t types.Type) bool {
	obj, _, _ := types.LookupFieldOrMethod(t, false, nil, methodName)
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return false
	}
	return isRuntimeType(sig.Results().At(0).Type(), c.runtimePath)
}

func isRuntimeType(t types.Type, runtimePath string) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == runtimePath && obj.Name() == "Type"
}

// externalAnchor returns the exported type through which an enum declared in
// a package outside the run is reached: the first type of that package, in
// declaration order, that implements the interface and already has the
// capability method. Results are cached, including misses.
func (c *capabilities) externalAnchor(obj *types.TypeName, iface *types.Interface) types.Type {
	if anchor, ok := c.external[obj]; ok {
		return anchor
	}
	var anchor types.Type
	methods := enumMethods(iface)
	if methods.NumMethods() > 0 {
		var anchorPos token.Pos
		scope := obj.Pkg().Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn == obj || !tn.Exported() || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			if _, isIface := named.Underlying().(*types.Interface); isIface {
				continue
			}
			if !implementsEnum(named, methods) || !c.hasMethod(named) {
				continue
			}
			if anchor == nil || tn.Pos() < anchorPos {
				anchor, anchorPos = named, tn.Pos()
			}
		}
	}
	c.external[obj] = anchor
	return anchor
}

// use records that pkg refers to the external enum obj.
func (c *capabilities) use(pkg *types.Package, obj *types.TypeName) {
	if !slices.Contains(c.uses[pkg], obj) {
		c.uses[pkg] = append(c.uses[pkg], obj)
	}
}

// externalEnums returns the external enums referred to by pkg, in the order
// they were first met.
func (c *capabilities) externalEnums(pkg *types.Package) []model.ExternalEnum {
	var enums []model.ExternalEnum
	for _, obj := range c.uses[pkg] {
		enums = append(enums, model.ExternalEnum{Type: obj.Type(), Anchor: c.external[obj]})
	}
	return enums
}
