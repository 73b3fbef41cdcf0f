package mirror

import "go/token"

// Kind is the generation strategy selected for a value type.
type Kind uint8

const (
	// KindRecord mirrors a struct field by field.
	KindRecord Kind = iota + 1
	// KindVariant mirrors a tagged variant interface and its variant structs.
	KindVariant
	// KindCopy archives the type verbatim.
	KindCopy
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindVariant:
		return "variant"
	case KindCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Package is a parsed package whose marked types are ready to be generated.
type Package struct {
	Name  string
	Dir   string
	Types []*TypeDecl

	imports []importSpec
}

// TypeDecl is the mirrored shape of one value type.
type TypeDecl struct {
	Name       string
	Kind       Kind
	Pos        token.Position
	TypeParams []TypeParam
	// Fields of a record or copy struct, in declaration order.
	Fields []Field
	// Variants of a variant type, in tag order.
	Variants []Variant
	// TagType is the discriminant's unsigned integer type (variant types).
	TagType string
	// Repr is the asserted representation of a copy enumeration.
	Repr string
}

// TypeParam is one group of type parameters sharing a constraint.
type TypeParam struct {
	Names      []string
	Constraint string
}

// Field is one mirrored field.
type Field struct {
	Name string
	// Type is the field type as written in the source.
	Type string
	// Resolver and Archived are the mirrored field types.
	Resolver string
	Archived string

	glue glueKind
	wrap string
}

// Variant is one variant of a tagged variant type.
type Variant struct {
	Name   string
	Fields []Field
}

type importSpec struct {
	name string
	path string
}

func (d *TypeDecl) generic() bool {
	return len(d.TypeParams) > 0
}
