package rtti

import "unsafe"

// Slot is the size and alignment of one field.
type Slot struct {
	Size  uintptr
	Align uintptr
}

// SlotOf returns the size and alignment of T, measured on its zero value.
func SlotOf[T any]() Slot {
	var zero T
	return Slot{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// StructLayout is the result of laying out a sequence of slots.
type StructLayout struct {
	Offsets []uintptr
	Size    uintptr
	Align   uintptr
}

// Layout places slots the way the gc compiler lays out struct fields:
// each field starts at the next multiple of its alignment, a trailing
// zero-size field after a non-empty prefix takes one byte, and the total
// is rounded up to the largest alignment.
func Layout(slots ...Slot) StructLayout {
	l := StructLayout{Offsets: make([]uintptr, len(slots)), Align: 1}
	if len(slots) == 0 {
		return l
	}
	var offset uintptr
	for i, s := range slots {
		a := s.Align
		if a == 0 {
			a = 1
		}
		if a > l.Align {
			l.Align = a
		}
		offset = alignUp(offset, a)
		l.Offsets[i] = offset
		offset += s.Size
	}
	last := slots[len(slots)-1]
	if l.Offsets[len(slots)-1] > 0 && last.Size == 0 {
		offset++
	}
	l.Size = alignUp(offset, l.Align)
	return l
}

func alignUp(x, a uintptr) uintptr {
	return (x + a - 1) / a * a
}
