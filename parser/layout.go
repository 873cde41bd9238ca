package parser

import "go/types"

// structOffsets returns the byte offset of every field of st under sizes,
// or nil when sizes is nil.
func structOffsets(sizes types.Sizes, st *types.Struct) []int64 {
	if sizes == nil {
		return nil
	}
	vars := make([]*types.Var, st.NumFields())
	for i := range vars {
		vars[i] = st.Field(i)
	}
	return sizes.Offsetsof(vars)
}

// elementOffsets returns the byte offset of every element of arr under
// sizes, or nil when sizes is nil. Elements are laid out at a stride of the
// element size rounded up to its alignment.
func elementOffsets(sizes types.Sizes, arr *types.Array) []int64 {
	if sizes == nil {
		return nil
	}
	stride := alignUp(sizes.Sizeof(arr.Elem()), sizes.Alignof(arr.Elem()))
	offsets := make([]int64, arr.Len())
	for i := range offsets {
		offsets[i] = int64(i) * stride
	}
	return offsets
}

func alignUp(x, a int64) int64 {
	if a <= 1 {
		return x
	}
	return (x + a - 1) / a * a
}
