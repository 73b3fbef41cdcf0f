package mirror

func emitRecord(p *printer, d *TypeDecl) {
	params, args := typeParamDecl(d), typeArgs(d)
	resolver := d.Name + "Resolver" + args
	archived := "Archived" + d.Name + args

	p.line("// %sResolver is the resolver of %s.", d.Name, d.Name)
	emitStruct(p, d.Name+"Resolver"+params, d.Fields, resolverType)
	p.blank()
	p.line("// Archived%s is the archived form of %s.", d.Name, d.Name)
	emitStruct(p, "Archived"+d.Name+params, d.Fields, archivedType)
	p.blank()

	if !d.generic() {
		p.line("var _ archive.Archive[%s, %s] = %s{}", resolver, archived, d.Name)
		p.blank()
	}

	p.line("// Serialize writes the out-of-line data of v's fields to w.")
	p.line("func (v %s%s) Serialize(w archive.Writer) (%s, error) {", d.Name, args, resolver)
	p.line("\tvar r %s", resolver)
	if needsErr(d.Fields) {
		p.line("\tvar err error")
		emitSerializeFields(p, d.Fields, "r")
	}
	p.blank()
	p.line("\treturn r, nil")
	p.line("}")
	p.blank()

	p.line("// Resolve returns the archived form of v placed at pos.")
	p.line("func (v %s%s) Resolve(pos int, r %s) %s {", d.Name, args, resolver, archived)
	p.line("\tvar a %s", archived)
	emitResolveFields(p, d.Fields, "r")
	p.blank()
	p.line("\treturn a")
	p.line("}")
}
