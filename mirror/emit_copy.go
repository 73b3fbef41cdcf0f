package mirror

// emitCopy writes the copy path: the archived form is the value type itself
// and serialization writes nothing.
func emitCopy(p *printer, d *TypeDecl) {
	params, args := typeParamDecl(d), typeArgs(d)
	resolver := d.Name + "Resolver" + args
	archived := "Archived" + d.Name + args

	p.line("// %sResolver is the resolver of %s, which archives as itself.", d.Name, d.Name)
	p.line("type %sResolver%s = archive.CopyResolver", d.Name, params)
	p.blank()
	p.line("// Archived%s is the archived form of %s.", d.Name, d.Name)
	p.line("type Archived%s%s = %s%s", d.Name, params, d.Name, args)
	p.blank()

	if !d.generic() {
		zero := d.Name + "{}"
		if d.Repr != "" {
			zero = d.Name + "(0)"
		}
		p.line("var _ archive.Archive[%s, %s] = %s", resolver, archived, zero)
		p.blank()
	}

	p.line("// Serialize is a no-op: %s has no out-of-line data.", d.Name)
	p.line("func (v %s%s) Serialize(w archive.Writer) (%s, error) {", d.Name, args, resolver)
	p.line("\treturn %s{}, nil", resolver)
	p.line("}")
	p.blank()
	p.line("// Resolve returns v unchanged.")
	p.line("func (v %s%s) Resolve(pos int, r %s) %s {", d.Name, args, resolver, archived)
	p.line("\treturn v")
	p.line("}")
}
