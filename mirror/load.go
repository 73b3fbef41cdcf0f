package mirror

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/archive/errs"
)

type sourceFile struct {
	name        string
	file        *ast.File
	archiveName string // local name of the archive import, "" if not imported
}

// typeEntry is a type declaration seen while loading, marked or not.
type typeEntry struct {
	spec *ast.TypeSpec
	file *sourceFile
	dir  *directive
	// variantOf is set when another type lists this struct as a variant.
	variantOf string
}

type loader struct {
	cfg     *config
	fset    *token.FileSet
	files   []*sourceFile
	types   map[string]*typeEntry
	order   []string
	copies  map[string]bool
	errs    []error
	pkgName string
}

// Load parses the Go files of the package in dir and returns the mirrored
// model of every type carrying an archive directive.
//
// Test files, files excluded by build constraints and the generator's own
// output file are skipped.
func Load(dir string, opts ...Option) (*Package, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package dir: %w", err)
	}

	files := make(map[string][]byte)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == cfg.outputFile {
			continue
		}
		if ok, err := build.Default.MatchFile(dir, name); err != nil || !ok {
			continue
		}

		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read source file: %w", err)
		}
		files[filepath.Join(dir, name)] = src
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no Go source files in %s", dir)
	}

	pkg, err := parseFiles(cfg, files)
	if err != nil {
		return nil, err
	}
	pkg.Dir = dir

	return pkg, nil
}

// Parse builds the mirrored model from in-memory sources keyed by file name.
// All files must belong to the same package.
func Parse(files map[string][]byte, opts ...Option) (*Package, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return parseFiles(cfg, files)
}

func parseFiles(cfg *config, files map[string][]byte) (*Package, error) {
	l := &loader{
		cfg:    cfg,
		fset:   token.NewFileSet(),
		types:  make(map[string]*typeEntry),
		copies: make(map[string]bool),
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		f, err := parser.ParseFile(l.fset, name, files[name], parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if l.pkgName == "" {
			l.pkgName = f.Name.Name
		} else if f.Name.Name != l.pkgName {
			return nil, fmt.Errorf("found packages %s and %s in the same directory", l.pkgName, f.Name.Name)
		}

		l.files = append(l.files, &sourceFile{
			name:        name,
			file:        f,
			archiveName: archiveImportName(f, cfg.archivePath),
		})
	}

	l.collect()
	pkg := &Package{Name: l.pkgName}
	for _, name := range l.order {
		e := l.types[name]
		if e.dir == nil {
			continue
		}

		decl := l.build(e)
		if decl == nil {
			continue
		}

		pkg.Types = append(pkg.Types, decl)
		cfg.logger.Debug("mirrored type",
			zap.String("package", l.pkgName),
			zap.String("type", decl.Name),
			zap.Stringer("kind", decl.Kind),
			zap.Int("fields", len(decl.Fields)),
			zap.Int("variants", len(decl.Variants)),
		)
	}

	imports, err := l.imports(pkg.Types)
	if err != nil {
		l.errs = append(l.errs, err)
	}
	pkg.imports = imports

	if len(l.errs) > 0 {
		return nil, errors.Join(l.errs...)
	}

	return pkg, nil
}

func archiveImportName(f *ast.File, archivePath string) string {
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != archivePath {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name
		}

		return "archive"
	}

	return ""
}

// collect indexes every type declaration and its directive, in source order.
func (l *loader) collect() {
	for _, sf := range l.files {
		for _, decl := range sf.file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && !gd.Lparen.IsValid() {
					doc = gd.Doc
				}

				e := &typeEntry{spec: ts, file: sf}
				d, err := parseDirective(doc)
				if err != nil {
					l.fail(ts.Pos(), ts.Name.Name, "", err.Error(), err)
				}
				e.dir = d

				l.types[ts.Name.Name] = e
				l.order = append(l.order, ts.Name.Name)

				if d != nil && isCopyCandidate(d, ts) {
					l.copies[ts.Name.Name] = true
				}
			}
		}
	}

	for _, name := range l.order {
		e := l.types[name]
		if e.dir == nil || e.dir.kind != KindVariant {
			continue
		}
		for _, v := range e.dir.variants {
			ve, ok := l.types[v]
			if !ok {
				continue
			}
			if ve.variantOf != "" {
				l.fail(ve.spec.Pos(), v, "", fmt.Sprintf("struct is listed as a variant of both %s and %s", ve.variantOf, name), errs.ErrInvalidDirective)
				continue
			}
			ve.variantOf = name
		}
	}
}

// isCopyCandidate reports whether the type archives as itself: an explicit
// copy directive or a record without fields.
func isCopyCandidate(d *directive, ts *ast.TypeSpec) bool {
	switch d.kind {
	case KindCopy:
		return true
	case KindRecord:
		st, ok := ts.Type.(*ast.StructType)
		return ok && (st.Fields == nil || len(st.Fields.List) == 0)
	default:
		return false
	}
}

func (l *loader) fail(pos token.Pos, typeName, field, reason string, err error) {
	var sentinel error = err
	var de *DefinitionError
	if errors.As(err, &de) {
		l.errs = append(l.errs, err)
		return
	}
	for _, s := range []error{
		errs.ErrRawUnion, errs.ErrImplicitDiscriminant, errs.ErrUnsupportedType,
		errs.ErrNotCopySafe, errs.ErrInvalidDirective, errs.ErrUnknownVariant,
	} {
		if errors.Is(err, s) {
			sentinel = s
			break
		}
	}

	l.errs = append(l.errs, &DefinitionError{
		Pos:    l.fset.Position(pos),
		Type:   typeName,
		Field:  field,
		Reason: strings.TrimPrefix(reason, sentinel.Error()+": "),
		Err:    sentinel,
	})
}

func (l *loader) failIssue(pos token.Pos, typeName, field string, iss *issue) {
	l.fail(pos, typeName, field, iss.reason, iss.err)
}

func (l *loader) build(e *typeEntry) *TypeDecl {
	ts := e.spec
	decl := &TypeDecl{
		Name: ts.Name.Name,
		Kind: e.dir.kind,
		Pos:  l.fset.Position(ts.Pos()),
	}

	if e.variantOf != "" {
		l.fail(ts.Pos(), decl.Name, "", "variant structs of "+e.variantOf+" must not carry their own directive", errs.ErrInvalidDirective)
		return nil
	}

	if raw := rawMemoryType(ts.Type); raw != "" {
		l.fail(ts.Pos(), decl.Name, "", raw+" is raw untyped memory", errs.ErrRawUnion)
		return nil
	}

	sc, ok := l.scope(e, decl)
	if !ok {
		return nil
	}

	switch e.dir.kind {
	case KindRecord:
		ok = l.buildRecord(e, decl, sc)
	case KindVariant:
		ok = l.buildVariant(e, decl, sc)
	case KindCopy:
		ok = l.buildCopy(e, decl, sc)
	}
	if !ok {
		return nil
	}

	for _, name := range generatedNames(decl) {
		if _, clash := l.types[name]; clash {
			l.fail(ts.Pos(), decl.Name, "", fmt.Sprintf("generated type %s is already declared", name), errs.ErrInvalidDirective)
			return nil
		}
	}

	return decl
}

// generatedNames lists the type names the generator declares for decl.
func generatedNames(decl *TypeDecl) []string {
	names := []string{decl.Name + "Resolver", "Archived" + decl.Name}
	if decl.Kind == KindVariant {
		names = append(names, decl.TagType)
		for _, v := range decl.Variants {
			names = append(names, decl.Name+v.Name+"Resolver", "Archived"+decl.Name+v.Name)
		}
	}

	return names
}

func rawMemoryType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		if t.Name == "uintptr" || t.Name == "any" {
			return t.Name
		}
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok && pkg.Name == "unsafe" && t.Sel.Name == "Pointer" {
			return "unsafe.Pointer"
		}
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
	}

	return ""
}

// scope records the type parameters of e and returns the field mapping scope.
func (l *loader) scope(e *typeEntry, decl *TypeDecl) (*scope, bool) {
	sc := &scope{
		file:       e.file,
		params:     make(map[string]paramInfo),
		copyTypes:  l.copies,
		local:      l.types,
		archivePkg: "archive",
	}
	if e.file.archiveName != "archive" && importsName(e.file.file, "archive") {
		l.fail(e.spec.Pos(), decl.Name, "", "another package is imported as archive; import it under a different name", errs.ErrInvalidDirective)
		return nil, false
	}

	if e.spec.TypeParams == nil {
		return sc, true
	}

	ok := true
	for _, field := range e.spec.TypeParams.List {
		tp := TypeParam{Constraint: exprString(field.Type)}
		info := l.paramInfo(sc, field.Type)
		for _, n := range field.Names {
			if reservedIdents[n.Name] {
				l.fail(n.Pos(), decl.Name, "", fmt.Sprintf("type parameter name %s is reserved by generated code", n.Name), errs.ErrInvalidDirective)
				ok = false
			}
			tp.Names = append(tp.Names, n.Name)
			sc.params[n.Name] = info
		}
		decl.TypeParams = append(decl.TypeParams, tp)
	}

	return sc, ok
}

func importsName(f *ast.File, name string) bool {
	for _, imp := range f.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if (imp.Name != nil && imp.Name.Name == name) || (imp.Name == nil && importBase(path) == name) {
			return true
		}
	}

	return false
}

func (l *loader) paramInfo(sc *scope, constraint ast.Expr) paramInfo {
	if sc.isArchiveSelector(constraint, "Scalar") || sc.isArchiveSelector(constraint, "Number") {
		return paramInfo{scalar: true}
	}

	idx, ok := constraint.(*ast.IndexListExpr)
	if !ok || !sc.isArchiveSelector(idx.X, "Archive") || len(idx.Indices) != 2 {
		return paramInfo{}
	}

	return paramInfo{
		archive:  true,
		resolver: exprString(idx.Indices[0]),
		archived: exprString(idx.Indices[1]),
	}
}

// fields maps a struct field list. Variant payloads additionally reserve
// the name Tag.
func (l *loader) fields(typeName string, st *ast.StructType, sc *scope, variant bool) ([]Field, bool) {
	if st.Fields == nil {
		return nil, true
	}

	var out []Field
	ok := true
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			l.fail(f.Pos(), typeName, exprString(f.Type), "embedded fields are not supported; name the field", errs.ErrUnsupportedType)
			ok = false
			continue
		}

		mapped, iss := sc.mapType(f.Type)
		for _, n := range f.Names {
			switch {
			case n.Name == "_":
				l.fail(n.Pos(), typeName, n.Name, "blank fields are not supported", errs.ErrUnsupportedType)
				ok = false
				continue
			case n.Name == "Serialize" || n.Name == "Resolve":
				l.fail(n.Pos(), typeName, n.Name, "field name collides with a generated method", errs.ErrInvalidDirective)
				ok = false
				continue
			case variant && n.Name == "Tag":
				l.fail(n.Pos(), typeName, n.Name, "field name Tag is reserved for the discriminant", errs.ErrInvalidDirective)
				ok = false
				continue
			case iss != nil:
				l.failIssue(n.Pos(), typeName, n.Name, iss)
				ok = false
				continue
			}

			field := mapped
			field.Name = n.Name
			field.Type = exprString(f.Type)
			out = append(out, field)
		}
	}

	return out, ok
}

func (l *loader) buildRecord(e *typeEntry, decl *TypeDecl, sc *scope) bool {
	st, ok := e.spec.Type.(*ast.StructType)
	if !ok {
		l.fail(e.spec.Pos(), decl.Name, "", "archive:generate applies to struct types; use archive:variants for variant interfaces", errs.ErrInvalidDirective)
		return false
	}

	fields, ok := l.fields(decl.Name, st, sc, false)
	if !ok {
		return false
	}
	if len(fields) == 0 {
		decl.Kind = KindCopy
		return true
	}
	decl.Fields = fields

	return true
}

func (l *loader) buildCopy(e *typeEntry, decl *TypeDecl, sc *scope) bool {
	switch t := e.spec.Type.(type) {
	case *ast.StructType:
		if e.dir.repr != "" {
			l.fail(e.spec.Pos(), decl.Name, "", "repr= applies to integer enumerations only", errs.ErrInvalidDirective)
			return false
		}

		ok := true
		for _, f := range t.Fields.List {
			name := exprString(f.Type)
			if len(f.Names) > 0 {
				name = f.Names[0].Name
			}
			if !sc.isCopySafe(f.Type) {
				l.fail(f.Pos(), decl.Name, name, fmt.Sprintf("%s is not copy-safe; use archive:generate", exprString(f.Type)), errs.ErrNotCopySafe)
				ok = false
			}
		}
		for _, tp := range decl.TypeParams {
			for _, n := range tp.Names {
				if !sc.params[n].scalar {
					l.fail(e.spec.Pos(), decl.Name, "", fmt.Sprintf("type parameter %s of a copy type must be constrained by archive.Scalar or archive.Number", n), errs.ErrNotCopySafe)
					ok = false
				}
			}
		}

		return ok

	case *ast.Ident:
		return l.buildEnum(e, decl, t)

	case *ast.InterfaceType:
		l.fail(e.spec.Pos(), decl.Name, "", "variant interfaces have no fixed representation; use archive:variants, or a named integer with archive:copy repr=", errs.ErrImplicitDiscriminant)
		return false

	default:
		l.fail(e.spec.Pos(), decl.Name, "", fmt.Sprintf("archive:copy does not apply to %s", exprString(t)), errs.ErrNotCopySafe)
		return false
	}
}

// buildEnum checks a C-like enumeration on the copy path: its underlying
// integer must be fixed-width and asserted with repr=.
func (l *loader) buildEnum(e *typeEntry, decl *TypeDecl, underlying *ast.Ident) bool {
	name := normalizeInt(underlying.Name)
	if !fixedIntegers[name] {
		reason := fmt.Sprintf("underlying type %s is not a fixed-width integer", underlying.Name)
		if name == "int" || name == "uint" {
			reason = fmt.Sprintf("underlying type %s has a platform-dependent width", underlying.Name)
		}
		l.fail(e.spec.Pos(), decl.Name, "", reason, errs.ErrImplicitDiscriminant)

		return false
	}

	if e.dir.repr == "" {
		l.fail(e.spec.Pos(), decl.Name, "", fmt.Sprintf("enumeration needs an explicit representation, e.g. archive:copy repr=%s", name), errs.ErrImplicitDiscriminant)
		return false
	}
	if normalizeInt(e.dir.repr) != name {
		l.fail(e.spec.Pos(), decl.Name, "", fmt.Sprintf("repr=%s does not match underlying type %s", e.dir.repr, underlying.Name), errs.ErrImplicitDiscriminant)
		return false
	}

	decl.Repr = name

	return true
}

func normalizeInt(name string) string {
	if name == "byte" {
		return "uint8"
	}

	return name
}

func (l *loader) buildVariant(e *typeEntry, decl *TypeDecl, sc *scope) bool {
	it, ok := e.spec.Type.(*ast.InterfaceType)
	if !ok {
		l.fail(e.spec.Pos(), decl.Name, "", "archive:variants applies to interface types", errs.ErrInvalidDirective)
		return false
	}
	if decl.generic() {
		l.fail(e.spec.Pos(), decl.Name, "", "generic variant types are not supported; the archived union size must be constant", errs.ErrUnsupportedType)
		return false
	}
	if !l.embedsOwnArchive(it, decl.Name, sc) {
		l.fail(e.spec.Pos(), decl.Name, "",
			fmt.Sprintf("variant interface must embed %s.Archive[%sResolver, Archived%s]", sc.file.archiveNameOr("archive"), decl.Name, decl.Name),
			errs.ErrInvalidDirective)
		return false
	}

	ok = true
	for _, name := range e.dir.variants {
		if name == "Tag" || name == "raw" {
			l.fail(e.spec.Pos(), decl.Name, "", fmt.Sprintf("variant name %s collides with a generated member", name), errs.ErrInvalidDirective)
			ok = false
			continue
		}

		ve, found := l.types[name]
		if !found {
			l.fail(e.spec.Pos(), decl.Name, "", fmt.Sprintf("variant %s is not declared in package %s", name, l.pkgName), errs.ErrUnknownVariant)
			ok = false
			continue
		}
		st, isStruct := ve.spec.Type.(*ast.StructType)
		if !isStruct || ve.spec.TypeParams != nil {
			l.fail(ve.spec.Pos(), decl.Name, "", fmt.Sprintf("variant %s must be a non-generic struct", name), errs.ErrUnknownVariant)
			ok = false
			continue
		}

		vsc := *sc
		vsc.file = ve.file
		fields, fieldsOK := l.fields(decl.Name+"."+name, st, &vsc, true)
		if !fieldsOK {
			ok = false
			continue
		}
		decl.Variants = append(decl.Variants, Variant{Name: name, Fields: fields})
	}
	if !ok {
		return false
	}

	decl.TagType = decl.Name + "Tag"

	return true
}

func (sf *sourceFile) archiveNameOr(def string) string {
	if sf.archiveName != "" {
		return sf.archiveName
	}

	return def
}

func (l *loader) embedsOwnArchive(it *ast.InterfaceType, name string, sc *scope) bool {
	if it.Methods == nil {
		return false
	}
	for _, m := range it.Methods.List {
		if len(m.Names) > 0 {
			continue
		}
		idx, ok := m.Type.(*ast.IndexListExpr)
		if !ok || !sc.isArchiveSelector(idx.X, "Archive") || len(idx.Indices) != 2 {
			continue
		}
		if exprString(idx.Indices[0]) == name+"Resolver" && exprString(idx.Indices[1]) == "Archived"+name {
			return true
		}
	}

	return false
}

// imports collects the imports of every file declaring a mirrored type or
// variant. Generated code copies field types and constraints verbatim, so
// it may need any of them.
func (l *loader) imports(decls []*TypeDecl) ([]importSpec, error) {
	used := make(map[*sourceFile]bool)
	for _, d := range decls {
		used[l.types[d.Name].file] = true
		for _, v := range d.Variants {
			used[l.types[v.Name].file] = true
		}
	}

	byName := make(map[string]string)
	var out []importSpec
	for _, sf := range l.files {
		if !used[sf] {
			continue
		}
		for _, imp := range sf.file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				continue
			}

			spec := importSpec{path: path}
			name := importBase(path)
			if imp.Name != nil {
				spec.name = imp.Name.Name
				name = spec.name
			}
			if name == "_" || name == "." {
				continue
			}
			if name == "archive" && path != l.cfg.archivePath {
				return nil, &DefinitionError{
					Pos:    l.fset.Position(imp.Pos()),
					Type:   l.pkgName,
					Reason: fmt.Sprintf("import %s uses the name archive reserved for %s", path, l.cfg.archivePath),
					Err:    errs.ErrInvalidDirective,
				}
			}

			if prev, ok := byName[name]; ok {
				if prev != path {
					return nil, &DefinitionError{
						Pos:    l.fset.Position(imp.Pos()),
						Type:   l.pkgName,
						Reason: fmt.Sprintf("import name %s refers to both %s and %s", name, prev, path),
						Err:    errs.ErrInvalidDirective,
					}
				}
				if !slices.Contains(out, spec) {
					out = append(out, spec)
				}

				continue
			}
			byName[name] = path
			out = append(out, spec)
		}
	}

	return out, nil
}

// importBase guesses the package name of an unnamed import from its path.
func importBase(path string) string {
	base := path[strings.LastIndex(path, "/")+1:]
	if strings.HasPrefix(base, "v") && len(base) > 1 && strings.Trim(base[1:], "0123456789") == "" {
		if i := strings.LastIndex(path, "/"); i > 0 {
			return importBase(path[:i])
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}

	return strings.ReplaceAll(base, "-", "_")
}
