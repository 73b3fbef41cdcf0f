// Package testtypes holds value types and their generated mirrors. It is the
// fixture shared by the archive, mirror and container tests.
package testtypes

import "github.com/arloliu/archive"

//go:generate go run github.com/arloliu/archive/cmd/archivegen

// Point is a plain pair of coordinates whose bytes are their own archived form.
//
//archive:copy
type Point struct {
	X float32
	Y float32
}

// Color is a C-like enumeration with a fixed one-byte representation.
//
//archive:copy repr=uint8
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

// Sample is a generic copy type.
//
//archive:copy
type Sample[T archive.Number] struct {
	Value  T
	Weight uint16
}

// Marker has no fields.
//
//archive:generate
type Marker struct{}

// Inner mixes copy fields with an owned string.
//
//archive:generate
type Inner struct {
	ID    uint32
	Label string
	Pos   Point
}

// Outer nests every supported field kind.
//
//archive:generate
type Outer struct {
	Name   string
	Inner  Inner
	Items  []Inner
	Scores []float64
	Points []Point
	Color  Color
	Box    [4]int16
	Shape  Shape
	Span   archive.ScalarRange[uint32]
	Pair   Pair[archive.String, archive.StringResolver, archive.ArchivedString]
	Flag   bool
}

// Pair holds two values of any archivable type.
//
//archive:generate
type Pair[T archive.Archive[R, A], R, A any] struct {
	First  T
	Second T
	Weight uint16
}

// Shape is a tagged variant over Circle, Rect and Empty.
//
//archive:variants Circle Rect Empty
type Shape interface {
	archive.Archive[ShapeResolver, ArchivedShape]
}

type Circle struct {
	Radius float32
}

type Rect struct {
	Min   Point
	Max   Point
	Label string
}

type Empty struct{}
