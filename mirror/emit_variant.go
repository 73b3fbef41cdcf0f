package mirror

import "strings"

func emitVariant(p *printer, d *TypeDecl) {
	tag := d.TagType
	union := "Archived" + d.Name
	iface := d.Name + "Resolver"

	width := DiscriminantWidth(uint64(len(d.Variants)))
	p.line("// %s is the discriminant of %s, in variant declaration order.", tag, d.Name)
	p.line("type %s %s", tag, tagUnderlying(width))
	p.blank()
	p.line("const (")
	for i, v := range d.Variants {
		if i == 0 {
			p.line("\t%s%s %s = iota", tag, v.Name, tag)
		} else {
			p.line("\t%s%s", tag, v.Name)
		}
	}
	p.line(")")
	p.blank()
	p.line("func (t %s) String() string {", tag)
	p.line("\tswitch t {")
	for _, v := range d.Variants {
		p.line("\tcase %s%s:", tag, v.Name)
		p.line("\t\treturn %q", v.Name)
	}
	p.line("\tdefault:")
	p.line("\t\treturn %q + strconv.FormatUint(uint64(t), 10) + \")\"", tag+"(")
	p.line("\t}")
	p.line("}")
	p.blank()

	p.line("// %s is the resolver of %s. Its dynamic type records the variant", iface, d.Name)
	p.line("// it was serialized from.")
	p.line("type %s interface {", iface)
	p.line("\tTag() %s", tag)
	p.line("}")

	for _, v := range d.Variants {
		name := d.Name + v.Name + "Resolver"
		p.blank()
		emitStruct(p, name, v.Fields, resolverType)
		p.blank()
		p.line("func (%s) Tag() %s { return %s%s }", name, tag, tag, v.Name)
	}

	for _, v := range d.Variants {
		p.blank()
		p.line("// %s%s is the archived layout of %s. It starts with the shared tag.", union, v.Name, v.Name)
		emitStruct(p, union+v.Name, v.Fields, archivedType, "Tag "+tag)
	}

	sizes := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		sizes[i] = "unsafe.Sizeof(" + union + v.Name + "{})"
	}
	p.blank()
	p.line("// %s is the archived form of %s: a union of the variant layouts", union, d.Name)
	p.line("// with the size and alignment of the largest.")
	p.line("type %s struct {", union)
	for _, v := range d.Variants {
		p.line("\t_ [0]%s%s", union, v.Name)
	}
	p.line("\traw [max(%s)]byte", strings.Join(sizes, ", "))
	p.line("}")
	p.blank()

	p.line("var (")
	for _, v := range d.Variants {
		p.line("\t_ = [1]struct{}{}[unsafe.Offsetof(%s%s{}.Tag)]", union, v.Name)
	}
	p.line(")")
	p.blank()

	p.line("// Tag returns the active variant.")
	p.line("func (a *%s) Tag() %s {", union, tag)
	p.line("\treturn *(*%s)(unsafe.Pointer(a))", tag)
	p.line("}")

	for _, v := range d.Variants {
		p.blank()
		p.line("// %s returns the %s layout, or false if a holds another variant.", v.Name, v.Name)
		p.line("func (a *%s) %s() (*%s%s, bool) {", union, v.Name, union, v.Name)
		p.line("\tif a.Tag() != %s%s {", tag, v.Name)
		p.line("\t\treturn nil, false")
		p.line("\t}")
		p.blank()
		p.line("\treturn (*%s%s)(unsafe.Pointer(a)), true", union, v.Name)
		p.line("}")
	}

	for _, v := range d.Variants {
		p.blank()
		emitVariantMethods(p, d, v)
	}
}

func emitVariantMethods(p *printer, d *TypeDecl, v Variant) {
	tag := d.TagType
	union := "Archived" + d.Name
	layout := union + v.Name
	resolver := d.Name + v.Name + "Resolver"

	p.line("var _ %s = %s{}", d.Name, v.Name)
	p.blank()
	p.line("// Serialize writes the out-of-line data of v's fields to w.")
	p.line("func (v %s) Serialize(w archive.Writer) (%sResolver, error) {", v.Name, d.Name)
	p.line("\tvar r %s", resolver)
	if needsErr(v.Fields) {
		p.line("\tvar err error")
		emitSerializeFields(p, v.Fields, "r")
	}
	p.blank()
	p.line("\treturn r, nil")
	p.line("}")
	p.blank()

	p.line("// Resolve returns the %s union holding v placed at pos. It panics if r", union)
	p.line("// was not serialized from the %s variant.", v.Name)
	p.line("func (v %s) Resolve(pos int, r %sResolver) %s {", v.Name, d.Name, union)
	if needsErr(v.Fields) {
		p.line("\tvr, ok := r.(%s)", resolver)
		p.line("\tif !ok {")
	} else {
		p.line("\tif _, ok := r.(%s); !ok {", resolver)
	}
	p.line("\t\tarchive.VariantMismatch(%q, %q, r)", d.Name, v.Name)
	p.line("\t}")
	p.blank()
	p.line("\tvar a %s", layout)
	p.line("\ta.Tag = %s%s", tag, v.Name)
	emitResolveFields(p, v.Fields, "vr")
	p.blank()
	p.line("\tvar out %s", union)
	p.line("\t*(*%s)(unsafe.Pointer(&out)) = a", layout)
	p.blank()
	p.line("\treturn out")
	p.line("}")
}
