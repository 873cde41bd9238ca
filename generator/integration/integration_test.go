package integration

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlwelles/rttigen/rtti"
)

// The committed files are generated for a 64-bit target.
func skipUnless64Bit(t *testing.T) {
	t.Helper()
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("descriptors are generated for 64-bit targets")
	}
}

func structOf[T rtti.Typed](t *testing.T) *rtti.Struct {
	t.Helper()
	s, ok := rtti.Of[T]().(*rtti.Struct)
	require.True(t, ok, "%T is not described as a struct", *new(T))
	return s
}

func offsetOf(t *testing.T, s *rtti.Struct, name string) uintptr {
	t.Helper()
	f, ok := s.Field(name)
	require.True(t, ok, "%s has no field %s", s.Name, name)
	require.True(t, f.HasOffset())
	return f.Offset
}

func TestLayoutMatchesCompiler(t *testing.T) {
	skipUnless64Bit(t)

	t.Run("Point", func(t *testing.T) {
		var v Point
		s := structOf[Point](t)
		assert.Equal(t, unsafe.Sizeof(v), s.Size)
		assert.Equal(t, unsafe.Alignof(v), s.Align)
		assert.Equal(t, unsafe.Offsetof(v.X), offsetOf(t, s, "X"))
		assert.Equal(t, unsafe.Offsetof(v.Y), offsetOf(t, s, "Y"))
		assert.Equal(t, unsafe.Offsetof(v.label), offsetOf(t, s, "label"))
	})

	t.Run("Tree", func(t *testing.T) {
		var v Tree
		s := structOf[Tree](t)
		assert.Equal(t, unsafe.Sizeof(v), s.Size)
		assert.Equal(t, unsafe.Alignof(v), s.Align)
		assert.Equal(t, unsafe.Offsetof(v.Children), offsetOf(t, s, "Children"))
		assert.Equal(t, unsafe.Offsetof(v.Shape), offsetOf(t, s, "Shape"))
		assert.Equal(t, unsafe.Offsetof(v.Weights), offsetOf(t, s, "Weights"))
		assert.Equal(t, unsafe.Offsetof(v.Cache), offsetOf(t, s, "Cache"))
	})

	t.Run("Frame", func(t *testing.T) {
		var v Frame
		s := structOf[Frame](t)
		assert.Equal(t, unsafe.Sizeof(v), s.Size)
		assert.Equal(t, unsafe.Alignof(v), s.Align)
		assert.Equal(t, unsafe.Offsetof(v.Bounds), offsetOf(t, s, "Bounds"))
		assert.Equal(t, unsafe.Offsetof(v.Scale), offsetOf(t, s, "Scale"))
	})

	t.Run("Celsius", func(t *testing.T) {
		tup, ok := rtti.Of[Celsius]().(*rtti.Tuple)
		require.True(t, ok)
		assert.Equal(t, unsafe.Sizeof(Celsius(0)), tup.Size)
		require.Len(t, tup.Fields, 1)
		assert.Equal(t, rtti.Float64, tup.Fields[0].Type)
	})

	t.Run("Shape", func(t *testing.T) {
		var v Shape
		e, ok := Circle{}.RTTI().(*rtti.Enum)
		require.True(t, ok)
		assert.Equal(t, unsafe.Sizeof(v), e.Size)
		assert.Equal(t, unsafe.Alignof(v), e.Align)
	})
}

func TestGenericLayout(t *testing.T) {
	var v Pair[Celsius, Point]
	s := structOf[Pair[Celsius, Point]](t)
	assert.Equal(t, unsafe.Sizeof(v), s.Size)
	assert.Equal(t, unsafe.Alignof(v), s.Align)
	assert.Equal(t, unsafe.Offsetof(v.Key), offsetOf(t, s, "Key"))
	assert.Equal(t, unsafe.Offsetof(v.Value), offsetOf(t, s, "Value"))

	key, _ := s.Field("Key")
	assert.Equal(t, "Celsius", key.Type.TypeName())
	value, _ := s.Field("Value")
	assert.Equal(t, "Point", value.Type.TypeName())
}

func TestEnumVariants(t *testing.T) {
	e, ok := Rect{}.RTTI().(*rtti.Enum)
	require.True(t, ok)
	assert.Equal(t, "Shape", e.Name)

	names := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"Circle", "Rect", "Empty"}, names)

	rect, ok := e.Variant("Rect")
	require.True(t, ok)
	assert.Equal(t, []string{"axis-aligned"}, rect.Hints)
	require.Len(t, rect.Fields, 2)
	for _, f := range rect.Fields {
		assert.False(t, f.HasOffset())
		assert.Equal(t, "Point", f.Type.TypeName())
	}

	circle, ok := e.Variant("Circle")
	require.True(t, ok)
	center, ok := circle.Field("Center")
	require.True(t, ok)
	assert.Equal(t, rtti.KindStruct, center.Type.Kind())

	empty, ok := e.Variant("Empty")
	require.True(t, ok)
	assert.Empty(t, empty.Fields)
}

func TestFieldDescriptors(t *testing.T) {
	s := structOf[Tree](t)

	shape, ok := s.Field("Shape")
	require.True(t, ok)
	assert.Equal(t, rtti.KindEnum, shape.Type.Kind())
	assert.Equal(t, "Shape", shape.Type.TypeName())

	children, ok := s.Field("Children")
	require.True(t, ok)
	slice, ok := children.Type.(*rtti.Slice)
	require.True(t, ok)
	ptr, ok := slice.Elem().(*rtti.Pointer)
	require.True(t, ok)
	assert.Equal(t, "Tree", ptr.Elem().TypeName())
	assert.Equal(t, "[]*Tree", children.Type.TypeName())

	weights, ok := s.Field("Weights")
	require.True(t, ok)
	m, ok := weights.Type.(*rtti.Map)
	require.True(t, ok)
	assert.Equal(t, rtti.String, m.Key())
	assert.Equal(t, "Celsius", m.Elem().TypeName())

	cache, ok := s.Field("Cache")
	require.True(t, ok)
	assert.Equal(t, rtti.Ignored, cache.Type)

	frame := structOf[Frame](t)
	bounds, ok := frame.Field("Bounds")
	require.True(t, ok)
	assert.Equal(t, rtti.KindEnum, bounds.Type.Kind(), "a variant used as a field is described by its enum")
}
