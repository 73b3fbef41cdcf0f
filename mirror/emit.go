package mirror

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"
)

// printer accumulates generated source.
type printer struct {
	buf bytes.Buffer
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) blank() {
	p.buf.WriteByte('\n')
}

// Generate renders the generated file for pkg. The output is gofmt-ed and
// carries only the imports it uses.
func Generate(pkg *Package, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return generate(cfg, pkg)
}

func generate(cfg *config, pkg *Package) ([]byte, error) {
	p := &printer{}
	p.line("%s", GeneratedHeader)
	p.blank()
	p.line("package %s", pkg.Name)
	p.blank()
	p.line("import (")
	p.line("\t%q", "strconv")
	p.line("\t%q", "unsafe")
	p.blank()
	if importBase(cfg.archivePath) == "archive" {
		p.line("\t%q", cfg.archivePath)
	} else {
		p.line("\tarchive %q", cfg.archivePath)
	}
	for _, imp := range pkg.imports {
		if imp.path == cfg.archivePath && (imp.name == "" || imp.name == "archive") {
			continue
		}
		if imp.name != "" {
			p.line("\t%s %q", imp.name, imp.path)
		} else {
			p.line("\t%q", imp.path)
		}
	}
	p.line(")")

	for _, decl := range pkg.Types {
		p.blank()
		switch decl.Kind {
		case KindRecord:
			emitRecord(p, decl)
		case KindVariant:
			emitVariant(p, decl)
		case KindCopy:
			emitCopy(p, decl)
		}
	}

	filename := cfg.outputFile
	if pkg.Dir != "" {
		filename = filepath.Join(pkg.Dir, filename)
	}

	out, err := imports.Process(filename, p.buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return nil, fmt.Errorf("format generated code for package %s: %w", pkg.Name, err)
	}

	cfg.logger.Debug("generated package",
		zap.String("package", pkg.Name),
		zap.Int("types", len(pkg.Types)),
		zap.Int("bytes", len(out)),
	)

	return out, nil
}

// GenerateDir loads the package in dir, renders its generated file and
// writes it next to the sources. It returns the path written, or "" when
// the package has no archive directives.
func GenerateDir(dir string, opts ...Option) (string, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return "", err
	}

	pkg, err := Load(dir, opts...)
	if err != nil {
		return "", err
	}
	if len(pkg.Types) == 0 {
		cfg.logger.Info("no archive directives found", zap.String("dir", dir))
		return "", nil
	}

	src, err := generate(cfg, pkg)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, cfg.outputFile)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", fmt.Errorf("write generated file: %w", err)
	}
	cfg.logger.Info("wrote generated file", zap.String("path", path), zap.Int("types", len(pkg.Types)))

	return path, nil
}

// typeParamDecl renders a type parameter list with constraints, e.g.
// "[T archive.Archive[R, A], R, A any]".
func typeParamDecl(d *TypeDecl) string {
	if !d.generic() {
		return ""
	}

	groups := make([]string, len(d.TypeParams))
	for i, tp := range d.TypeParams {
		groups[i] = strings.Join(tp.Names, ", ") + " " + tp.Constraint
	}

	return "[" + strings.Join(groups, ", ") + "]"
}

// typeArgs renders the type parameters as arguments, e.g. "[T, R, A]".
func typeArgs(d *TypeDecl) string {
	if !d.generic() {
		return ""
	}

	var names []string
	for _, tp := range d.TypeParams {
		names = append(names, tp.Names...)
	}

	return "[" + strings.Join(names, ", ") + "]"
}

// fieldExpr is the expression the generated code calls methods on for f.
func fieldExpr(f Field, value string) string {
	if f.glue == glueWrap {
		return f.wrap + "(" + value + "." + f.Name + ")"
	}

	return value + "." + f.Name
}

func needsErr(fields []Field) bool {
	for _, f := range fields {
		if f.glue != glueCopy {
			return true
		}
	}

	return false
}

// emitStruct writes a struct type whose field types are picked by typeOf.
// lead fields are written first, verbatim.
func emitStruct(p *printer, name string, fields []Field, typeOf func(Field) string, lead ...string) {
	if len(fields) == 0 && len(lead) == 0 {
		p.line("type %s struct{}", name)
		return
	}

	p.line("type %s struct {", name)
	for _, l := range lead {
		p.line("\t%s", l)
	}
	for _, f := range fields {
		p.line("\t%s %s", f.Name, typeOf(f))
	}
	p.line("}")
}

func resolverType(f Field) string { return f.Resolver }

func archivedType(f Field) string { return f.Archived }

// emitSerializeFields writes the phase one calls for fields into resolver r.
func emitSerializeFields(p *printer, fields []Field, r string) {
	for _, f := range fields {
		if f.glue == glueCopy {
			continue
		}
		p.line("\tif %s.%s, err = %s.Serialize(w); err != nil {", r, f.Name, fieldExpr(f, "v"))
		p.line("\t\treturn %s, err", r)
		p.line("\t}")
	}
}

// emitResolveFields writes the phase two assignments into archived value a,
// taking resolvers from r.
func emitResolveFields(p *printer, fields []Field, r string) {
	for _, f := range fields {
		if f.glue == glueCopy {
			p.line("\ta.%s = v.%s", f.Name, f.Name)
			continue
		}
		p.line("\ta.%[1]s = %[2]s.Resolve(pos+int(unsafe.Offsetof(a.%[1]s)), %[3]s.%[1]s)", f.Name, fieldExpr(f, "v"), r)
	}
}
