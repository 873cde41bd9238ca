// Package shapes declares one type of every shape rttigen derives.
package shapes

import (
	"math"

	"github.com/mlwelles/rttigen/rtti"
)

//go:generate go run github.com/mlwelles/rttigen

// Point is a position on the plane.
//
//rtti:derive
type Point struct {
	X, Y  int32
	label string `rtti:"hint=display name,hint=\"x, y\""`
}

// Pair holds two described values.
//
//rtti:derive
type Pair[K rtti.Typed, V rtti.Typed] struct {
	Key   K
	Value V
}

//rtti:derive
type Celsius float64

// Shape is a closed set of figures.
//
//rtti:derive
type Shape interface {
	Area() float64
}

type Circle struct {
	Center Point
	R      float64
}

//rtti:hint=axis-aligned
type Rect [2]Point

type Empty struct{}

func (c Circle) Area() float64 { return math.Pi * c.R * c.R }

func (r Rect) Area() float64 {
	return math.Abs(float64(r[1].X-r[0].X) * float64(r[1].Y-r[0].Y))
}

func (Empty) Area() float64 { return 0 }

//rtti:derive
type Tree struct {
	Children []*Tree
	Shape    Shape
	Weights  map[string]Celsius
	Cache    func() float64 `rtti:"ignore"`
}
