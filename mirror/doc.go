// Package mirror generates the resolver type, the archived type and the
// Archive implementation for Go value types, by mirroring their declared
// shape.
//
// Types opt in with a directive in their doc comment:
//
//	//archive:generate
//	type Player struct {
//	    Name  string
//	    Score uint32
//	    Pos   Point
//	}
//
// produces PlayerResolver and ArchivedPlayer with one field per Player field
// in declaration order, plus Player.Serialize and Player.Resolve.
//
// # Tagged variants
//
// A tagged variant is an interface embedding its own Archive capability and
// listing its variant structs in order:
//
//	//archive:variants Circle Rect Empty
//	type Shape interface {
//	    archive.Archive[ShapeResolver, ArchivedShape]
//	}
//
// The generator emits the ShapeTag discriminant (the smallest unsigned width
// that enumerates the variants), one ArchivedShape<V> layout per variant
// beginning with the tag, the ArchivedShape union, the ShapeResolver variant
// family, and Serialize/Resolve on every variant struct. Resolving a variant
// with a resolver produced by another variant panics.
//
// # Copy-safe types
//
//	//archive:copy
//	type Point struct{ X, Y float32 }
//
//	//archive:copy repr=uint8
//	type Color uint8
//
// Copy-safe types archive as themselves: the archived type is an alias of
// the value type and the resolver is archive.CopyResolver. Enumerations
// must state their representation with repr=, which has to match a
// fixed-width underlying type.
//
// # Field types
//
// Fixed-width scalars and arrays of them are stored inline. string,
// slices of scalars and slices of archivable types are wrapped with
// archive.String, archive.Scalars and archive.Vec. Any other named type N is
// expected to provide NResolver and ArchivedN next to it, which is what this
// generator emits. Type parameters must be constrained by
// archive.Archive[R, A] or archive.Scalar.
//
// Untyped memory (unsafe.Pointer, uintptr, any), platform-width integers,
// pointers, maps, channels and functions are rejected with a
// *DefinitionError.
package mirror
