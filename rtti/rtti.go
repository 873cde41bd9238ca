// Package rtti holds the descriptor types returned by RTTI methods that
// rttigen generates. A descriptor is built once per call from constants
// embedded at generation time; nothing here inspects values at run time.
package rtti

// Typed is implemented by every type that carries runtime type information.
type Typed interface {
	RTTI() Type
}

// Of returns the descriptor of T through its zero value. T must not be an
// interface type, since the zero value of an interface has no method to call.
func Of[T Typed]() Type {
	var zero T
	return zero.RTTI()
}

// Kind identifies the concrete descriptor behind a Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBasic
	KindPointer
	KindSlice
	KindArray
	KindMap
	KindStruct
	KindTuple
	KindEnum
	KindIgnored
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBasic:   "basic",
	KindPointer: "pointer",
	KindSlice:   "slice",
	KindArray:   "array",
	KindMap:     "map",
	KindStruct:  "struct",
	KindTuple:   "tuple",
	KindEnum:    "enum",
	KindIgnored: "ignored",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Type is a runtime type descriptor.
type Type interface {
	Kind() Kind
	TypeName() string
	Sizeof() uintptr
	Alignof() uintptr
}

// Visibility is the translated visibility of a declaration or field.
type Visibility uint8

const (
	Unknown Visibility = iota
	Public
	Crate
	Restricted
	Inherited
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Crate:
		return "crate"
	case Restricted:
		return "restricted"
	case Inherited:
		return "inherited"
	default:
		return "unknown"
	}
}

// NoOffset marks a field whose position is not fixed within a single
// memory layout, such as the fields of an enum variant.
const NoOffset = ^uintptr(0)

// Field describes one field of a struct, tuple or enum variant.
type Field struct {
	Name   string // empty for positional fields
	Vis    Visibility
	Offset uintptr
	Type   Type
	Hints  []string
}

// HasOffset reports whether Offset is meaningful.
func (f Field) HasOffset() bool {
	return f.Offset != NoOffset
}

// Struct describes a type with named fields.
type Struct struct {
	Name   string
	Vis    Visibility
	Size   uintptr
	Align  uintptr
	Fields []Field
}

func (s *Struct) Kind() Kind { return KindStruct }
func (s *Struct) TypeName() string { return s.Name }
func (s *Struct) Sizeof() uintptr { return s.Size }
func (s *Struct) Alignof() uintptr { return s.Align }

// Field returns the field with the given name.
func (s *Struct) Field(name string) (Field, bool) {
	return fieldByName(s.Fields, name)
}

// Tuple describes a type whose elements are addressed by position.
type Tuple struct {
	Name   string
	Vis    Visibility
	Size   uintptr
	Align  uintptr
	Fields []Field
}

func (t *Tuple) Kind() Kind { return KindTuple }
func (t *Tuple) TypeName() string { return t.Name }
func (t *Tuple) Sizeof() uintptr { return t.Size }
func (t *Tuple) Alignof() uintptr { return t.Align }

// Variant is one alternative of an Enum.
type Variant struct {
	Name   string
	Hints  []string
	Fields []Field
}

// Field returns the variant field with the given name.
func (v Variant) Field(name string) (Field, bool) {
	return fieldByName(v.Fields, name)
}

// Enum describes a closed set of variants.
type Enum struct {
	Name     string
	Vis      Visibility
	Size     uintptr
	Align    uintptr
	Variants []Variant
}

func (e *Enum) Kind() Kind { return KindEnum }
func (e *Enum) TypeName() string { return e.Name }
func (e *Enum) Sizeof() uintptr { return e.Size }
func (e *Enum) Alignof() uintptr { return e.Align }

// Variant returns the variant with the given name.
func (e *Enum) Variant(name string) (Variant, bool) {
	for _, v := range e.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

func fieldByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

type ignored struct{}

func (ignored) Kind() Kind { return KindIgnored }
func (ignored) TypeName() string { return "ignored" }
func (ignored) Sizeof() uintptr { return 0 }
func (ignored) Alignof() uintptr { return 1 }

// Ignored stands in for the type of a field marked with the ignore
// directive.
var Ignored Type = ignored{}

// IgnoredType lets the placeholder be used as a type argument, e.g.
// Of[IgnoredType]().
type IgnoredType struct{}

func (IgnoredType) RTTI() Type { return Ignored }
