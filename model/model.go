// Package model defines the intermediate representation used between the parser
// and the code generator. The parser populates these types from type-checked
// declarations; the generator reads them to emit RTTI methods.
package model

import (
	"go/token"
	"go/types"
)

// OffsetUnknown marks a field whose offset is not known at generation time:
// enum variant fields, and fields of generic declarations whose layout
// depends on the instantiation.
const OffsetUnknown int64 = -1

// Package represents one target package and its derived declarations.
type Package struct {
	Path         string        // import path, e.g. "example.com/geo"
	Name         string        // Go package name, e.g. "geo"
	Dir          string        // directory holding the package sources
	Declarations []Declaration // in source order

	// ExternalEnums are enums declared in packages outside the run that
	// fields of Declarations refer to.
	ExternalEnums []ExternalEnum
}

// ExternalEnum locates the descriptor of an enum whose package was not
// loaded for generation.
type ExternalEnum struct {
	Type   types.Type // the enum interface
	Anchor types.Type // exported implementation whose RTTI method returns the enum's descriptor
}

// Shape is the structural classification of a declaration.
type Shape int

const (
	ShapeUnsupported Shape = iota
	ShapeNamedStruct
	ShapeTuple
	ShapeEnum
)

func (s Shape) String() string {
	switch s {
	case ShapeNamedStruct:
		return "struct"
	case ShapeTuple:
		return "tuple"
	case ShapeEnum:
		return "enum"
	default:
		return "unsupported"
	}
}

// Visibility is the translated visibility token emitted into generated code.
type Visibility int

const (
	VisibilityUnknown Visibility = iota
	VisibilityPublic
	VisibilityCrate
	VisibilityRestricted
	VisibilityInherited
)

// Token returns the name of the matching constant in the runtime package.
func (v Visibility) Token() string {
	switch v {
	case VisibilityPublic:
		return "Public"
	case VisibilityCrate:
		return "Crate"
	case VisibilityRestricted:
		return "Restricted"
	case VisibilityInherited:
		return "Inherited"
	default:
		return "Unknown"
	}
}

func (v Visibility) String() string {
	return v.Token()
}

// TypeParam is one type parameter of a generic declaration.
type TypeParam struct {
	Name       string
	Constraint types.Type
}

// Declaration is a single type marked for derivation.
type Declaration struct {
	Name        string // Go type name, e.g. "Point"
	Visibility  Visibility
	Shape       Shape
	TypeParams  []TypeParam
	Type        types.Type // the declared (uninstantiated) named type
	Size        int64      // -1 for generic declarations
	Align       int64      // -1 for generic declarations
	Fields      []Field    // ShapeNamedStruct and ShapeTuple
	Variants    []Variant  // ShapeEnum
	Hints       []string   // declaration-level hints from directives
	Pos         token.Position
	BuilderName string     // unexported descriptor builder, e.g. "rttiPoint"
	Anchor      types.Type // enums only: first exported variant, nil if none
}

// Generic reports whether the declaration has type parameters.
func (d *Declaration) Generic() bool {
	return len(d.TypeParams) > 0
}

// Field is the extracted metadata of one struct field or positional element.
type Field struct {
	Name       string     // empty for positional elements
	Index      int        // zero-based position within the enclosing type
	Visibility Visibility // translated
	Type       types.Type // declared type
	Hints      []string   // in encounter order, duplicates kept
	Ignored    bool       // true if the ignore directive was present
	Embedded   bool       // true for embedded struct fields
	Offset     int64      // byte offset, or OffsetUnknown
}

// HasOffset reports whether Offset was computed at generation time.
func (f *Field) HasOffset() bool {
	return f.Offset != OffsetUnknown
}

// Variant is one alternative of an enum declaration.
type Variant struct {
	Name   string
	Type   types.Type // the variant's named type
	Shape  Shape      // ShapeNamedStruct or ShapeTuple; unit variants are ShapeNamedStruct with no fields
	Hints  []string
	Fields []Field
}

// Attributes is the result of parsing one item's attributes within the
// recognized namespace.
type Attributes struct {
	Hints     []string
	Ignore    bool
	Malformed []string // raw items or values that could not be parsed
}
