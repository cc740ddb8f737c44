package ast

// ModDecl names the module a file belongs to: mod a.b
type ModDecl struct {
	Loc
	Path []string
}

// ImportDecl imports a module, optionally aliased or restricted to items:
//
//	import a.b
//	import a.b as c
//	import a.b.{x, y}
type ImportDecl struct {
	Loc
	Path  []string
	Alias string
	Items []string
}

// Names returns the identifiers the import binds in the importing scope.
func (d *ImportDecl) Names() []string {
	switch {
	case len(d.Items) > 0:
		return d.Items
	case d.Alias != "":
		return []string{d.Alias}
	case len(d.Path) > 0:
		return []string{d.Path[len(d.Path)-1]}
	}

	return nil
}

// ExportDecl marks a declaration as exported.
type ExportDecl struct {
	Loc
	Decl Unit
}

// GenericParam is a type parameter with optional capability bounds:
// T: Implements [Show, Eq]
type GenericParam struct {
	Loc
	Name   string
	Bounds []Type
}

// Param is a function or lambda parameter. Type is nil for untyped lambda
// parameters and for the self receiver.
type Param struct {
	Loc
	Name string
	Type Type
}

// FuncDecl declares a function or, inside an impl block, a method.
type FuncDecl struct {
	Loc
	Name     string
	Generics []*GenericParam
	Params   []*Param
	Result   Type
	Body     *Block
}

// IsMethod reports whether the first parameter is an untyped self receiver.
func (d *FuncDecl) IsMethod() bool {
	return len(d.Params) > 0 && d.Params[0].Name == "self" && d.Params[0].Type == nil
}

// Arity returns the number of arguments a call must supply.
func (d *FuncDecl) Arity() int {
	if d.IsMethod() {
		return len(d.Params) - 1
	}

	return len(d.Params)
}

// Field is a struct field declaration.
type Field struct {
	Loc
	Name string
	Type Type
}

// StructDecl declares a record type: type Name { f: T, ... }
type StructDecl struct {
	Loc
	Name     string
	Generics []*GenericParam
	Fields   []*Field
}

// AliasDecl declares a type alias: type Name = T
type AliasDecl struct {
	Loc
	Name     string
	Generics []*GenericParam
	Type     Type
}

// Variant is one enum case with positional payload types.
type Variant struct {
	Loc
	Name   string
	Fields []Type
}

// EnumDecl declares a tagged union.
type EnumDecl struct {
	Loc
	Name     string
	Generics []*GenericParam
	Variants []*Variant
}

// MethodSig is an interface method signature.
type MethodSig struct {
	Loc
	Name   string
	Params []*Param
	Result Type
}

// InterfaceDecl declares a named set of method signatures.
type InterfaceDecl struct {
	Loc
	Name     string
	Generics []*GenericParam
	Extends  []Type
	Methods  []*MethodSig
}

// ImplDecl attaches methods to a type, optionally satisfying an interface.
type ImplDecl struct {
	Loc
	Interface Type
	Target    Type
	Methods   []*FuncDecl
}

func (*ModDecl) unitNode()       {}
func (*ImportDecl) unitNode()    {}
func (*ExportDecl) unitNode()    {}
func (*FuncDecl) unitNode()      {}
func (*StructDecl) unitNode()    {}
func (*AliasDecl) unitNode()     {}
func (*EnumDecl) unitNode()      {}
func (*InterfaceDecl) unitNode() {}
func (*ImplDecl) unitNode()      {}
