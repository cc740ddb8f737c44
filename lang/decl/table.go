package decl

import (
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/token"
)

// Kind classifies a top-level declaration.
type Kind int

const (
	None Kind = iota
	Func
	Struct
	Enum
	Interface
	Alias
)

func (k Kind) String() string {
	switch k {
	case Func:
		return "function"
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	case Interface:
		return "interface"
	case Alias:
		return "type alias"
	}

	return "none"
}

// namespace groups kinds whose names must be distinct from each other.
func (k Kind) namespace() string {
	switch k {
	case Func:
		return "func"
	case Interface:
		return "interface"
	}

	return "type"
}

// Built-in generic types that need no declaration.
const (
	ResultType = "Result"
	OptionType = "Option"
)

// Impl is one registered impl block.
type Impl struct {
	Type      string
	Interface string
	Decl      *ast.ImplDecl
}

// VariantRef locates an enum variant.
type VariantRef struct {
	Enum    *ast.EnumDecl
	Index   int
	Variant *ast.Variant
}

// Table is the program-wide registry of top-level declarations. It is built
// once per program and read-only afterward. An interactive session extends
// a [Table.Clone] and swaps it in, so running code never sees a table
// being written.
type Table struct {
	Module string

	Funcs      map[string]*ast.FuncDecl
	Structs    map[string]*ast.StructDecl
	Enums      map[string]*ast.EnumDecl
	Interfaces map[string]*ast.InterfaceDecl
	Aliases    map[string]*ast.AliasDecl
	Impls      []*Impl
	Imports    []*ast.ImportDecl
	Exported   map[string]bool

	// Redefine permits a later declaration to replace an earlier one of the
	// same name instead of reporting a duplicate. Interactive sessions set
	// it.
	Redefine bool

	methods  map[string]map[string]*ast.FuncDecl
	variants map[string][]VariantRef
	spans    map[string]token.Span
}

// New returns an empty table.
func New() *Table {
	return &Table{
		Funcs:      make(map[string]*ast.FuncDecl),
		Structs:    make(map[string]*ast.StructDecl),
		Enums:      make(map[string]*ast.EnumDecl),
		Interfaces: make(map[string]*ast.InterfaceDecl),
		Aliases:    make(map[string]*ast.AliasDecl),
		Exported:   make(map[string]bool),
		methods:    make(map[string]map[string]*ast.FuncDecl),
		variants:   make(map[string][]VariantRef),
		spans:      make(map[string]token.Span),
	}
}

// Clone returns a copy of t that can be extended with [Table.Add] without
// affecting t. Declarations themselves are shared.
func (t *Table) Clone() *Table {
	c := &Table{
		Module:     t.Module,
		Funcs:      maps.Clone(t.Funcs),
		Structs:    maps.Clone(t.Structs),
		Enums:      maps.Clone(t.Enums),
		Interfaces: maps.Clone(t.Interfaces),
		Aliases:    maps.Clone(t.Aliases),
		Impls:      slices.Clone(t.Impls),
		Imports:    slices.Clone(t.Imports),
		Exported:   maps.Clone(t.Exported),
		Redefine:   t.Redefine,
		methods:    make(map[string]map[string]*ast.FuncDecl, len(t.methods)),
		variants:   make(map[string][]VariantRef, len(t.variants)),
		spans:      maps.Clone(t.spans),
	}

	for typ, set := range t.methods {
		c.methods[typ] = maps.Clone(set)
	}

	for name, refs := range t.variants {
		c.variants[name] = slices.Clone(refs)
	}

	return c
}

// Build registers every declaration of f in a new table. All duplicate and
// conflicting declarations are reported; construction continues past each.
func Build(f *ast.File) (*Table, diag.List) {
	t := New()

	return t, t.Add(f)
}

// Add registers the declarations of f in t.
func (t *Table) Add(f *ast.File) diag.List {
	var diags diag.List

	if m := f.Module(); m != "" {
		t.Module = m
	}

	var impls []*ast.ImplDecl

	for _, u := range f.Units {
		exported := false

		if e, ok := u.(*ast.ExportDecl); ok {
			u, exported = e.Decl, true
		}

		var name string

		switch d := u.(type) {
		case *ast.ImportDecl:
			t.Imports = append(t.Imports, d)
		case *ast.FuncDecl:
			name = d.Name
			if t.declare(&diags, Func, name, d.Span()) {
				t.Funcs[name] = d
			}
		case *ast.StructDecl:
			name = d.Name
			if t.declare(&diags, Struct, name, d.Span()) {
				t.Structs[name] = d
			}
		case *ast.EnumDecl:
			name = d.Name
			if t.declare(&diags, Enum, name, d.Span()) {
				t.Enums[name] = d
				t.indexVariants(d)
			}
		case *ast.InterfaceDecl:
			name = d.Name
			if t.declare(&diags, Interface, name, d.Span()) {
				t.Interfaces[name] = d
			}
		case *ast.AliasDecl:
			name = d.Name
			if t.declare(&diags, Alias, name, d.Span()) {
				t.Aliases[name] = d
			}
		case *ast.ImplDecl:
			impls = append(impls, d)
		case *ast.VarDecl:
			name = d.Name
		}

		if exported && name != "" {
			t.Exported[name] = true
		}
	}

	// Impl blocks are registered after every interface is known so an impl
	// may precede the interface it satisfies.
	for _, d := range impls {
		t.addImpl(&diags, d)
	}

	for _, name := range slices.Sorted(maps.Keys(t.Interfaces)) {
		for _, ext := range t.Interfaces[name].Extends {
			if n := TypeTag(ext); t.Interfaces[n] == nil {
				diags.Errorf(diag.UnknownInterface, ext.Span(), "Unknown interface `%s`", n)
			}
		}
	}

	return diags
}

// declare records name in the namespace of k and reports whether the
// declaration should be stored.
func (t *Table) declare(diags *diag.List, k Kind, name string, span token.Span) bool {
	key := k.namespace() + ":" + name

	if prev, ok := t.spans[key]; ok && !t.Redefine {
		diags.Errorf(diag.DuplicateDefinition, span,
			"Duplicate definition of %s `%s`", k, name).
			Note = "previous definition at " + prev.Start.String()

		return false
	}

	if t.Redefine && k.namespace() == "type" {
		delete(t.Structs, name)
		t.dropEnum(name)
		delete(t.Aliases, name)
	}

	t.spans[key] = span

	return true
}

func (t *Table) dropEnum(name string) {
	e, ok := t.Enums[name]
	if !ok {
		return
	}

	delete(t.Enums, name)

	for _, v := range e.Variants {
		t.variants[v.Name] = slices.DeleteFunc(t.variants[v.Name],
			func(r VariantRef) bool { return r.Enum == e })
	}
}

func (t *Table) indexVariants(d *ast.EnumDecl) {
	for i, v := range d.Variants {
		t.variants[v.Name] = append(t.variants[v.Name],
			VariantRef{Enum: d, Index: i, Variant: v})
	}
}

func (t *Table) addImpl(diags *diag.List, d *ast.ImplDecl) {
	impl := &Impl{Type: TypeTag(d.Target), Decl: d}

	if d.Interface != nil {
		impl.Interface = TypeTag(d.Interface)

		if t.Interfaces[impl.Interface] == nil {
			diags.Errorf(diag.UnknownInterface, d.Interface.Span(),
				"Unknown interface `%s`", impl.Interface)
		}
	}

	set := t.methods[impl.Type]
	if set == nil {
		set = make(map[string]*ast.FuncDecl)
		t.methods[impl.Type] = set
	}

	for _, m := range d.Methods {
		if prev, ok := set[m.Name]; ok && !t.Redefine {
			diags.Errorf(diag.MethodConflict, m.Span(),
				"Method `%s` is already defined for type `%s`", m.Name, impl.Type).
				Note = "previous definition at " + prev.Span().Start.String()

			continue
		}

		set[m.Name] = m
	}

	t.Impls = append(t.Impls, impl)

	if impl.Interface == "" || t.Interfaces[impl.Interface] == nil {
		return
	}

	for _, sig := range t.Required(impl.Interface) {
		if !slices.ContainsFunc(d.Methods, func(m *ast.FuncDecl) bool { return m.Name == sig.Name }) {
			diags.Errorf(diag.MissingInterfaceMethod, d.Span(),
				"Type `%s` does not implement method `%s` of interface `%s`",
				impl.Type, sig.Name, impl.Interface).
				Note = "required by " + ast.Source(sig, ast.DefaultIndent)
		}
	}
}

// Required returns the method signatures an implementation of iface must
// provide, including those of every interface it extends.
func (t *Table) Required(iface string) []*ast.MethodSig {
	var (
		out  []*ast.MethodSig
		seen = make(map[string]bool)
	)

	var walk func(name string)
	walk = func(name string) {
		d := t.Interfaces[name]
		if d == nil || seen[name] {
			return
		}

		seen[name] = true

		out = append(out, d.Methods...)

		for _, ext := range d.Extends {
			walk(TypeTag(ext))
		}
	}
	walk(iface)

	return out
}

// Kind reports what kind of declaration name refers to. A name qualified
// by the table's module path is accepted.
func (t *Table) Kind(name string) Kind {
	name = t.unqualify(name)

	switch {
	case t.Funcs[name] != nil:
		return Func
	case t.Structs[name] != nil:
		return Struct
	case t.Enums[name] != nil:
		return Enum
	case t.Interfaces[name] != nil:
		return Interface
	case t.Aliases[name] != nil:
		return Alias
	}

	return None
}

// Func returns the function declared as name.
func (t *Table) Func(name string) (*ast.FuncDecl, bool) {
	d, ok := t.Funcs[t.unqualify(name)]

	return d, ok
}

// Qualify prefixes name with the module path.
func (t *Table) Qualify(name string) string {
	if t.Module == "" {
		return name
	}

	return t.Module + "." + name
}

func (t *Table) unqualify(name string) string {
	if t.Module != "" {
		if rest, ok := strings.CutPrefix(name, t.Module+"."); ok {
			return rest
		}
	}

	return name
}

// Method returns the impl method name registered for type tag typ.
func (t *Table) Method(typ, name string) (*ast.FuncDecl, bool) {
	d, ok := t.methods[typ][name]

	return d, ok
}

// Methods returns the sorted method names registered for type tag typ.
func (t *Table) Methods(typ string) []string {
	return slices.Sorted(maps.Keys(t.methods[typ]))
}

// Implements reports whether type tag typ has an impl of iface or of an
// interface that extends it.
func (t *Table) Implements(typ, iface string) bool {
	for _, impl := range t.Impls {
		if impl.Type != typ || impl.Interface == "" {
			continue
		}

		if impl.Interface == iface || t.extends(impl.Interface, iface, nil) {
			return true
		}
	}

	return false
}

func (t *Table) extends(name, target string, seen map[string]bool) bool {
	d := t.Interfaces[name]
	if d == nil || seen[name] {
		return false
	}

	if seen == nil {
		seen = make(map[string]bool)
	}

	seen[name] = true

	for _, ext := range d.Extends {
		n := TypeTag(ext)
		if n == target || t.extends(n, target, seen) {
			return true
		}
	}

	return false
}

// Variant returns the unique enum variant with the given name. It fails
// when no enum or more than one enum declares it.
func (t *Table) Variant(name string) (VariantRef, bool) {
	refs := t.variants[name]
	if len(refs) != 1 {
		return VariantRef{}, false
	}

	return refs[0], true
}

// EnumVariant returns variant name of enum.
func (t *Table) EnumVariant(enum, name string) (VariantRef, bool) {
	e := t.Enums[t.unqualify(enum)]
	if e == nil {
		return VariantRef{}, false
	}

	for i, v := range e.Variants {
		if v.Name == name {
			return VariantRef{Enum: e, Index: i, Variant: v}, true
		}
	}

	return VariantRef{}, false
}

// Names returns every declared function and type name, sorted.
func (t *Table) Names() []string {
	var out []string

	out = slices.AppendSeq(out, maps.Keys(t.Funcs))
	out = slices.AppendSeq(out, maps.Keys(t.Structs))
	out = slices.AppendSeq(out, maps.Keys(t.Enums))
	out = slices.AppendSeq(out, maps.Keys(t.Interfaces))
	out = slices.AppendSeq(out, maps.Keys(t.Aliases))

	slices.Sort(out)

	return slices.Compact(out)
}

// Resolve follows type aliases until it reaches a non-alias type.
func (t *Table) Resolve(typ ast.Type) ast.Type {
	for range len(t.Aliases) + 1 {
		n, ok := typ.(*ast.NamedType)
		if !ok {
			return typ
		}

		a := t.Aliases[n.Name]
		if a == nil {
			return typ
		}

		typ = a.Type
	}

	return typ
}

// ReturnsResult reports whether d declares a Result return type, directly
// or through an alias.
func (t *Table) ReturnsResult(d *ast.FuncDecl) bool {
	if d.Result == nil {
		return false
	}

	_, ok := t.Resolve(d.Result).(*ast.ResultType)

	return ok
}

// TypeTag returns the runtime type tag values of type typ carry. Impl
// blocks are keyed by it.
func TypeTag(typ ast.Type) string {
	switch typ := typ.(type) {
	case *ast.PrimitiveType:
		return typ.Name
	case *ast.NamedType:
		return typ.Name
	case *ast.VecType:
		return "array"
	case *ast.MapType:
		return "map"
	case *ast.SetType:
		return "set"
	case *ast.TupleType:
		return "tuple"
	case *ast.FunctionType:
		return "function"
	case *ast.OptionType:
		return OptionType
	case *ast.ResultType:
		return ResultType
	}

	return ""
}

// Signature formats the name, parameters, and result type of d, as in
// `add(a: int, b: int) -> int`.
func Signature(d *ast.FuncDecl) string {
	var b strings.Builder

	b.WriteString(d.Name + "(")

	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(p.Name)

		if p.Type != nil {
			b.WriteString(": " + ast.Source(p.Type, 0))
		}
	}

	b.WriteString(")")

	if d.Result != nil {
		b.WriteString(" -> " + ast.Source(d.Result, 0))
	}

	return b.String()
}
