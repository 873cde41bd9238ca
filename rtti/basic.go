package rtti

import (
	"strconv"
	"unsafe"
)

// Basic describes a predeclared type.
type Basic struct {
	Name  string
	Size  uintptr
	Align uintptr
}

func (b *Basic) Kind() Kind { return KindBasic }
func (b *Basic) TypeName() string { return b.Name }
func (b *Basic) Sizeof() uintptr { return b.Size }
func (b *Basic) Alignof() uintptr { return b.Align }

func basicOf[T any](name string) *Basic {
	s := SlotOf[T]()
	return &Basic{Name: name, Size: s.Size, Align: s.Align}
}

var (
	Bool          = basicOf[bool]("bool")
	Int           = basicOf[int]("int")
	Int8          = basicOf[int8]("int8")
	Int16         = basicOf[int16]("int16")
	Int32         = basicOf[int32]("int32")
	Int64         = basicOf[int64]("int64")
	Uint          = basicOf[uint]("uint")
	Uint8         = basicOf[uint8]("uint8")
	Uint16        = basicOf[uint16]("uint16")
	Uint32        = basicOf[uint32]("uint32")
	Uint64        = basicOf[uint64]("uint64")
	Uintptr       = basicOf[uintptr]("uintptr")
	Float32       = basicOf[float32]("float32")
	Float64       = basicOf[float64]("float64")
	Complex64     = basicOf[complex64]("complex64")
	Complex128    = basicOf[complex128]("complex128")
	String        = basicOf[string]("string")
	UnsafePointer = basicOf[unsafe.Pointer]("unsafe.Pointer")
)

var (
	wordSize   = unsafe.Sizeof(uintptr(0))
	wordAlign  = unsafe.Alignof(uintptr(0))
	sliceSize  = unsafe.Sizeof([]byte(nil))
	sliceAlign = unsafe.Alignof([]byte(nil))
)

// Pointer describes *Elem. The element is resolved lazily so that
// self-referential types terminate.
type Pointer struct {
	elem func() Type
}

// PointerTo returns a pointer descriptor.
func PointerTo(elem func() Type) *Pointer {
	return &Pointer{elem: elem}
}

func (p *Pointer) Kind() Kind { return KindPointer }
func (p *Pointer) TypeName() string { return "*" + p.Elem().TypeName() }
func (p *Pointer) Sizeof() uintptr { return wordSize }
func (p *Pointer) Alignof() uintptr { return wordAlign }
func (p *Pointer) Elem() Type { return p.elem() }

// Slice describes []Elem.
type Slice struct {
	elem func() Type
}

// SliceOf returns a slice descriptor.
func SliceOf(elem func() Type) *Slice {
	return &Slice{elem: elem}
}

func (s *Slice) Kind() Kind { return KindSlice }
func (s *Slice) TypeName() string { return "[]" + s.Elem().TypeName() }
func (s *Slice) Sizeof() uintptr { return sliceSize }
func (s *Slice) Alignof() uintptr { return sliceAlign }
func (s *Slice) Elem() Type { return s.elem() }

// Array describes [Len]Elem. Arrays cannot contain themselves, so the
// element is held directly.
type Array struct {
	Len  int
	Elem Type
}

// ArrayOf returns an array descriptor.
func ArrayOf(n int, elem Type) *Array {
	return &Array{Len: n, Elem: elem}
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) TypeName() string {
	return "[" + strconv.Itoa(a.Len) + "]" + a.Elem.TypeName()
}

func (a *Array) Sizeof() uintptr { return uintptr(a.Len) * a.Elem.Sizeof() }
func (a *Array) Alignof() uintptr { return a.Elem.Alignof() }

// Map describes map[Key]Elem.
type Map struct {
	key  func() Type
	elem func() Type
}

// MapOf returns a map descriptor.
func MapOf(key, elem func() Type) *Map {
	return &Map{key: key, elem: elem}
}

func (m *Map) Kind() Kind { return KindMap }

func (m *Map) TypeName() string {
	return "map[" + m.Key().TypeName() + "]" + m.Elem().TypeName()
}

func (m *Map) Sizeof() uintptr { return wordSize }
func (m *Map) Alignof() uintptr { return wordAlign }
func (m *Map) Key() Type { return m.key() }
func (m *Map) Elem() Type { return m.elem() }

// Ref is a Type resolved on every use. Generated code refers to enum-typed
// fields through a Ref, since an enum may contain itself through a variant.
type Ref struct {
	resolve func() Type
}

// Lazy returns a reference to the type produced by resolve.
func Lazy(resolve func() Type) *Ref {
	return &Ref{resolve: resolve}
}

func (r *Ref) Kind() Kind { return r.resolve().Kind() }
func (r *Ref) TypeName() string { return r.resolve().TypeName() }
func (r *Ref) Sizeof() uintptr { return r.resolve().Sizeof() }
func (r *Ref) Alignof() uintptr { return r.resolve().Alignof() }

// Resolve returns the referenced type.
func (r *Ref) Resolve() Type { return r.resolve() }
