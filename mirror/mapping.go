package mirror

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"github.com/arloliu/archive/errs"
)

type glueKind uint8

const (
	// glueCopy fields are copied into the archived value and have no resolver.
	glueCopy glueKind = iota
	// glueMethod fields call their own Serialize and Resolve.
	glueMethod
	// glueWrap fields are converted to an archive wrapper type first.
	glueWrap
)

// issue is a field-level problem, turned into a DefinitionError by the caller.
type issue struct {
	reason string
	err    error
}

func unsupported(format string, args ...any) *issue {
	return &issue{reason: fmt.Sprintf(format, args...), err: errs.ErrUnsupportedType}
}

func rawMemory(what string) *issue {
	return &issue{reason: what + " is raw untyped memory", err: errs.ErrRawUnion}
}

var scalarTypes = map[string]bool{
	"bool":       true,
	"byte":       true,
	"rune":       true,
	"int8":       true,
	"int16":      true,
	"int32":      true,
	"int64":      true,
	"uint8":      true,
	"uint16":     true,
	"uint32":     true,
	"uint64":     true,
	"float32":    true,
	"float64":    true,
	"complex64":  true,
	"complex128": true,
}

// fixedIntegers are the underlying types a copy enumeration may declare.
var fixedIntegers = map[string]bool{
	"int8":   true,
	"int16":  true,
	"int32":  true,
	"int64":  true,
	"uint8":  true,
	"uint16": true,
	"uint32": true,
	"uint64": true,
	"byte":   true,
}

// reservedIdents are the identifiers used by generated method bodies.
var reservedIdents = map[string]bool{
	"v": true, "w": true, "r": true, "a": true, "vr": true,
	"ok": true, "err": true, "pos": true, "out": true,
}

type paramInfo struct {
	scalar   bool
	archive  bool
	resolver string
	archived string
}

// scope resolves field types of one value type.
type scope struct {
	file       *sourceFile
	params     map[string]paramInfo
	copyTypes  map[string]bool
	local      map[string]*typeEntry // every type declared in the package
	archivePkg string                // name the generated file uses for the archive package
}

func exprString(e ast.Expr) string {
	return types.ExprString(e)
}

func (s *scope) isArchiveSelector(e ast.Expr, name string) bool {
	sel, ok := e.(*ast.SelectorExpr)
	if !ok || s.file.archiveName == "" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)

	return ok && pkg.Name == s.file.archiveName && sel.Sel.Name == name
}

func (s *scope) qualify(name string) string {
	return s.archivePkg + "." + name
}

// mapType derives the resolver and archived types of a field type.
func (s *scope) mapType(expr ast.Expr) (Field, *issue) {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return s.mapType(t.X)

	case *ast.Ident:
		return s.mapIdent(t)

	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return Field{}, unsupported("unexpected type expression %s", exprString(t))
		}
		if pkg.Name == "unsafe" && t.Sel.Name == "Pointer" {
			return Field{}, rawMemory("unsafe.Pointer")
		}
		if pkg.Name == s.file.archiveName && (t.Sel.Name == "Vec" || t.Sel.Name == "Scalars") {
			return Field{}, unsupported("%s requires type arguments", exprString(t))
		}

		return named(pkg.Name+".", t.Sel.Name, ""), nil

	case *ast.IndexExpr:
		return s.mapInstance(t.X, []ast.Expr{t.Index})

	case *ast.IndexListExpr:
		return s.mapInstance(t.X, t.Indices)

	case *ast.ArrayType:
		if t.Len == nil {
			return s.mapSlice(t)
		}

		elem, iss := s.mapType(t.Elt)
		if iss != nil {
			return Field{}, iss
		}
		if elem.glue != glueCopy {
			return Field{}, unsupported("array elements must be copy-safe scalars, got %s", exprString(t.Elt))
		}

		return copyField(exprString(t), s.qualify("CopyResolver")), nil

	case *ast.StarExpr:
		return Field{}, unsupported("pointers cannot be archived; store the value inline")

	case *ast.MapType:
		return Field{}, unsupported("maps cannot be archived")

	case *ast.ChanType:
		return Field{}, unsupported("channels cannot be archived")

	case *ast.FuncType:
		return Field{}, unsupported("functions cannot be archived")

	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return Field{}, rawMemory("interface{}")
		}

		return Field{}, unsupported("anonymous interfaces cannot be archived; declare a variant type")

	case *ast.StructType:
		return Field{}, unsupported("anonymous structs cannot be archived; declare a named type")

	default:
		return Field{}, unsupported("unexpected type expression %s", exprString(expr))
	}
}

func (s *scope) mapIdent(t *ast.Ident) (Field, *issue) {
	if p, ok := s.params[t.Name]; ok {
		switch {
		case p.scalar:
			return copyField(t.Name, s.qualify("CopyResolver")), nil
		case p.archive:
			return Field{Resolver: p.resolver, Archived: p.archived, glue: glueMethod}, nil
		default:
			return Field{}, unsupported("type parameter %s must be constrained by %s or %s",
				t.Name, s.qualify("Archive[R, A]"), s.qualify("Scalar"))
		}
	}

	switch t.Name {
	case "string":
		return Field{
			Resolver: s.qualify("StringResolver"),
			Archived: s.qualify("ArchivedString"),
			glue:     glueWrap,
			wrap:     s.qualify("String"),
		}, nil
	case "int", "uint":
		return Field{}, unsupported("%s has a platform-dependent width; use %s64", t.Name, t.Name)
	case "uintptr":
		return Field{}, rawMemory("uintptr")
	case "any":
		return Field{}, rawMemory("any")
	case "error":
		return Field{}, unsupported("error values cannot be archived")
	}

	if scalarTypes[t.Name] || s.copyTypes[t.Name] {
		return copyField(t.Name, s.qualify("CopyResolver")), nil
	}
	if iss := s.checkLocal(t.Name); iss != nil {
		return Field{}, iss
	}

	return named("", t.Name, ""), nil
}

// checkLocal rejects a same-package type that has neither a directive nor
// hand-written NResolver and ArchivedN declarations.
func (s *scope) checkLocal(name string) *issue {
	e, ok := s.local[name]
	if !ok || e.dir != nil {
		return nil
	}
	if e.variantOf != "" {
		return unsupported("%s is a variant of %s; declare the field as %s", name, e.variantOf, e.variantOf)
	}

	_, hasResolver := s.local[name+"Resolver"]
	_, hasArchived := s.local["Archived"+name]
	if hasResolver && hasArchived {
		return nil
	}

	return unsupported("%s has no archive directive (add //archive:copy or //archive:generate)", name)
}

func (s *scope) mapInstance(base ast.Expr, indices []ast.Expr) (Field, *issue) {
	args := make([]string, len(indices))
	for i, idx := range indices {
		args[i] = exprString(idx)
	}

	switch {
	case s.isArchiveSelector(base, "Vec"):
		if len(args) != 3 {
			return Field{}, unsupported("%s.Vec takes three type arguments", s.file.archiveName)
		}

		return Field{
			Resolver: s.qualify("VecResolver"),
			Archived: s.qualify("ArchivedVec[" + args[2] + "]"),
			glue:     glueMethod,
		}, nil

	case s.isArchiveSelector(base, "Scalars"):
		return Field{
			Resolver: s.qualify("VecResolver"),
			Archived: s.qualify("ArchivedVec[" + args[0] + "]"),
			glue:     glueMethod,
		}, nil
	}

	suffix := "[" + strings.Join(args, ", ") + "]"
	switch b := base.(type) {
	case *ast.Ident:
		if _, ok := s.params[b.Name]; ok {
			return Field{}, unsupported("type parameter %s cannot be instantiated", b.Name)
		}
		if s.copyTypes[b.Name] {
			return copyField(b.Name+suffix, s.qualify("CopyResolver")), nil
		}
		if iss := s.checkLocal(b.Name); iss != nil {
			return Field{}, iss
		}

		return named("", b.Name, suffix), nil
	case *ast.SelectorExpr:
		pkg, ok := b.X.(*ast.Ident)
		if !ok {
			return Field{}, unsupported("unexpected type expression %s", exprString(b))
		}

		return named(pkg.Name+".", b.Sel.Name, suffix), nil
	default:
		return Field{}, unsupported("unexpected generic type %s", exprString(base))
	}
}

func (s *scope) mapSlice(t *ast.ArrayType) (Field, *issue) {
	elem, iss := s.mapType(t.Elt)
	if iss != nil {
		return Field{}, iss
	}

	elemType := exprString(t.Elt)
	switch elem.glue {
	case glueCopy:
		if _, ok := t.Elt.(*ast.ArrayType); ok {
			return Field{}, unsupported("slices of arrays are not supported")
		}
		if id, ok := t.Elt.(*ast.Ident); ok && (id.Name == "complex64" || id.Name == "complex128") {
			return Field{}, unsupported("slices of %s are not supported", id.Name)
		}
		if !s.isScalar(t.Elt) {
			// Local copy types archive as themselves through their own methods.
			return Field{
				Resolver: s.qualify("VecResolver"),
				Archived: s.qualify("ArchivedVec[" + elemType + "]"),
				glue:     glueWrap,
				wrap:     s.qualify("Vec[" + elemType + ", " + s.qualify("CopyResolver") + ", " + elemType + "]"),
			}, nil
		}

		return Field{
			Resolver: s.qualify("VecResolver"),
			Archived: s.qualify("ArchivedVec[" + elemType + "]"),
			glue:     glueWrap,
			wrap:     s.qualify("Scalars[" + elemType + "]"),
		}, nil

	case glueMethod:
		return Field{
			Resolver: s.qualify("VecResolver"),
			Archived: s.qualify("ArchivedVec[" + elem.Archived + "]"),
			glue:     glueWrap,
			wrap:     s.qualify("Vec[" + elemType + ", " + elem.Resolver + ", " + elem.Archived + "]"),
		}, nil

	default:
		return Field{}, unsupported("slices of %s are not supported; use a slice of an archivable named type (e.g. []%s)",
			elemType, s.qualify("String"))
	}
}

func (s *scope) isScalar(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	if !ok {
		return false
	}
	if p, ok := s.params[id.Name]; ok {
		return p.scalar
	}

	return scalarTypes[id.Name]
}

// isCopySafe reports whether values of expr are valid archived bytes as is.
func (s *scope) isCopySafe(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return s.isCopySafe(t.X)
	case *ast.Ident:
		if p, ok := s.params[t.Name]; ok {
			return p.scalar
		}

		return scalarTypes[t.Name] || s.copyTypes[t.Name]
	case *ast.ArrayType:
		return t.Len != nil && s.isCopySafe(t.Elt)
	case *ast.IndexExpr:
		return s.isLocalCopyInstance(t.X)
	case *ast.IndexListExpr:
		return s.isLocalCopyInstance(t.X)
	default:
		return false
	}
}

func (s *scope) isLocalCopyInstance(base ast.Expr) bool {
	id, ok := base.(*ast.Ident)
	return ok && s.copyTypes[id.Name]
}

func copyField(archived, resolver string) Field {
	return Field{Resolver: resolver, Archived: archived, glue: glueCopy}
}

// named maps pkg.N[args] to pkg.NResolver[args] and pkg.ArchivedN[args].
func named(qualifier, name, suffix string) Field {
	return Field{
		Resolver: qualifier + name + "Resolver" + suffix,
		Archived: qualifier + "Archived" + name + suffix,
		glue:     glueMethod,
	}
}
