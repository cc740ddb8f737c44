package ast

import (
	"io"
	"strings"

	"github.com/ardnew/tjlang/lang/token"
)

// DefaultIndent is the indentation width used by Format when indent <= 0.
const DefaultIndent = 4

// Format writes n as canonical TJLang source. Parsing the output yields a
// tree structurally identical to n.
func Format(w io.Writer, n Node, indent int) error {
	_, err := io.WriteString(w, Source(n, indent))

	return err
}

// Source returns n as canonical TJLang source.
func Source(n Node, indent int) string {
	if indent <= 0 {
		indent = DefaultIndent
	}

	p := &printer{indent: indent}
	p.node(n)

	return p.String()
}

type printer struct {
	strings.Builder

	indent int
	depth  int
}

func (p *printer) newline() {
	p.WriteByte('\n')
	p.WriteString(strings.Repeat(" ", p.depth*p.indent))
}

func (p *printer) list(n int, sep string, f func(int)) {
	for i := range n {
		if i > 0 {
			p.WriteString(sep)
		}

		f(i)
	}
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *File:
		p.file(n)
	case Unit:
		p.unit(n)
	case Expr:
		p.expr(n)
	case Type:
		p.typ(n)
	case Pattern:
		p.pattern(n)
	case *MethodSig:
		p.methodSig(n)
	}
}

func (p *printer) methodSig(m *MethodSig) {
	p.WriteString(m.Name)
	p.params(m.Params)

	if m.Result != nil {
		p.WriteString(" -> ")
		p.typ(m.Result)
	}
}

func (p *printer) file(f *File) {
	for i, u := range f.Units {
		if i > 0 {
			p.WriteByte('\n')

			if _, ok := u.(Stmt); !ok {
				p.WriteByte('\n')
			} else if _, ok := f.Units[i-1].(Stmt); !ok {
				p.WriteByte('\n')
			}
		}

		p.unit(u)
	}

	if len(f.Units) > 0 {
		p.WriteByte('\n')
	}
}

func (p *printer) unit(u Unit) {
	switch u := u.(type) {
	case *ModDecl:
		p.WriteString("mod " + strings.Join(u.Path, "."))
	case *ImportDecl:
		p.WriteString("import " + strings.Join(u.Path, "."))

		switch {
		case len(u.Items) > 0:
			p.WriteString(".{" + strings.Join(u.Items, ", ") + "}")
		case u.Alias != "":
			p.WriteString(" as " + u.Alias)
		}
	case *ExportDecl:
		p.WriteString("export ")
		p.unit(u.Decl)
	case *FuncDecl:
		p.funcDecl(u)
	case *StructDecl:
		p.WriteString("type " + u.Name)
		p.generics(u.Generics)
		p.WriteString(" {")
		p.depth++

		for _, f := range u.Fields {
			p.newline()
			p.WriteString(f.Name + ": ")
			p.typ(f.Type)
			p.WriteByte(',')
		}

		p.depth--
		p.newline()
		p.WriteByte('}')
	case *AliasDecl:
		p.WriteString("type " + u.Name)
		p.generics(u.Generics)
		p.WriteString(" = ")
		p.typ(u.Type)
	case *EnumDecl:
		p.WriteString("enum " + u.Name)
		p.generics(u.Generics)
		p.WriteString(" {")
		p.depth++

		for _, v := range u.Variants {
			p.newline()
			p.WriteString(v.Name)

			if len(v.Fields) > 0 {
				p.WriteByte('(')
				p.list(len(v.Fields), ", ", func(i int) { p.typ(v.Fields[i]) })
				p.WriteByte(')')
			}

			p.WriteByte(',')
		}

		p.depth--
		p.newline()
		p.WriteByte('}')
	case *InterfaceDecl:
		p.WriteString("interface " + u.Name)
		p.generics(u.Generics)

		if len(u.Extends) > 0 {
			p.WriteString(" extends ")
			p.list(len(u.Extends), ", ", func(i int) { p.typ(u.Extends[i]) })
		}

		p.WriteString(" {")
		p.depth++

		for _, m := range u.Methods {
			p.newline()
			p.methodSig(m)
		}

		p.depth--
		p.newline()
		p.WriteByte('}')
	case *ImplDecl:
		p.WriteString("impl ")

		if u.Interface != nil {
			p.typ(u.Interface)
			p.WriteString(" for ")
		}

		p.typ(u.Target)
		p.WriteString(" {")
		p.depth++

		for i, m := range u.Methods {
			if i > 0 {
				p.WriteByte('\n')
			}

			p.newline()
			p.funcDecl(m)
		}

		p.depth--
		p.newline()
		p.WriteByte('}')
	case Stmt:
		p.stmt(u)
	}
}

func (p *printer) generics(gs []*GenericParam) {
	if len(gs) == 0 {
		return
	}

	p.WriteByte('<')
	p.list(len(gs), ", ", func(i int) {
		p.WriteString(gs[i].Name)

		if len(gs[i].Bounds) > 0 {
			p.WriteString(": Implements [")
			p.list(len(gs[i].Bounds), ", ", func(j int) { p.typ(gs[i].Bounds[j]) })
			p.WriteByte(']')
		}
	})
	p.WriteByte('>')
}

func (p *printer) params(ps []*Param) {
	p.WriteByte('(')
	p.list(len(ps), ", ", func(i int) {
		p.WriteString(ps[i].Name)

		if ps[i].Type != nil {
			p.WriteString(": ")
			p.typ(ps[i].Type)
		}
	})
	p.WriteByte(')')
}

func (p *printer) funcDecl(d *FuncDecl) {
	p.WriteString("def " + d.Name)
	p.generics(d.Generics)
	p.params(d.Params)

	if d.Result != nil {
		p.WriteString(" -> ")
		p.typ(d.Result)
	}

	p.WriteByte(' ')
	p.block(d.Body)
}

func (p *printer) block(b *Block) {
	if b == nil || len(b.Stmts) == 0 {
		p.WriteString("{}")

		return
	}

	p.WriteByte('{')
	p.depth++

	for _, s := range b.Stmts {
		p.newline()
		p.stmt(s)
	}

	p.depth--
	p.newline()
	p.WriteByte('}')
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *VarDecl:
		p.WriteString(s.Name + ": ")
		p.typ(s.Type)
		p.WriteString(" = ")
		p.expr(s.Value)
	case *ExprStmt:
		p.expr(s.X)
	case *Block:
		p.block(s)
	case *IfStmt:
		p.ifStmt(s)
	case *WhileStmt:
		p.WriteString("while ")
		p.expr(s.Cond)
		p.WriteByte(' ')
		p.block(s.Body)
	case *DoWhileStmt:
		p.WriteString("do ")
		p.block(s.Body)
		p.WriteString(" while ")
		p.expr(s.Cond)
	case *ForInStmt:
		p.WriteString("for (" + s.Var)

		if s.VarType != nil {
			p.WriteString(": ")
			p.typ(s.VarType)
		}

		p.WriteString(" | ")
		p.expr(s.Iter)
		p.WriteString(") ")
		p.block(s.Body)
	case *ForStmt:
		p.WriteString("for (")

		if s.Init != nil {
			p.stmt(s.Init)
		}

		p.WriteString("; ")

		if s.Cond != nil {
			p.expr(s.Cond)
		}

		p.WriteString("; ")

		if s.Post != nil {
			p.expr(s.Post)
		}

		p.WriteString(") ")
		p.block(s.Body)
	case *MatchStmt:
		p.matchStmt(s)
	case *ReturnStmt:
		p.WriteString("return")

		if s.Value != nil {
			p.WriteByte(' ')
			p.expr(s.Value)
		}
	case *BreakStmt:
		p.WriteString("break")
	case *ContinueStmt:
		p.WriteString("continue")
	case *PassStmt:
		p.WriteString("pass")
	case *RaiseStmt:
		p.WriteString("raise ")
		p.expr(s.Value)
	}
}

func (p *printer) ifStmt(s *IfStmt) {
	p.WriteString("if ")
	p.expr(s.Cond)
	p.WriteByte(' ')
	p.block(s.Then)

	for s.Else != nil {
		switch e := s.Else.(type) {
		case *IfStmt:
			p.WriteString(" elif ")
			p.expr(e.Cond)
			p.WriteByte(' ')
			p.block(e.Then)
			s = e

			continue
		case *Block:
			p.WriteString(" else ")
			p.block(e)
		}

		break
	}
}

func (p *printer) matchStmt(s *MatchStmt) {
	p.WriteString("match ")
	p.expr(s.Subject)
	p.WriteString(" {")
	p.depth++

	for _, a := range s.Arms {
		p.newline()
		p.pattern(a.Pattern)

		if a.Guard != nil {
			p.WriteString(" if ")
			p.expr(a.Guard)
		}

		p.WriteString(": ")
		p.block(a.Body)
	}

	p.depth--
	p.newline()
	p.WriteByte('}')
}

// OpString returns the source spelling of an operator kind.
func OpString(k token.Kind) string { return k.String() }

func (p *printer) expr(x Expr) {
	switch x := x.(type) {
	case *IntLit:
		p.WriteString(x.Raw)
	case *FloatLit:
		p.WriteString(x.Raw)
	case *StringLit:
		p.WriteString(`"` + x.Value + `"`)
	case *BoolLit:
		if x.Value {
			p.WriteString("true")
		} else {
			p.WriteString("false")
		}
	case *NoneLit:
		p.WriteString("None")
	case *FStringLit:
		p.WriteString(`f"`)

		for _, part := range x.Parts {
			if part.X == nil {
				p.WriteString(part.Text)

				continue
			}

			p.WriteByte('{')
			p.expr(part.X)
			p.WriteByte('}')
		}

		p.WriteByte('"')
	case *Ident:
		p.WriteString(x.Name)
	case *ParenExpr:
		p.WriteByte('(')
		p.expr(x.X)
		p.WriteByte(')')
	case *UnaryExpr:
		p.WriteString(OpString(x.Op))

		if x.Op == token.Not {
			p.WriteByte(' ')
		}

		p.expr(x.X)
	case *BinaryExpr:
		p.expr(x.X)
		p.WriteString(" " + OpString(x.Op) + " ")
		p.expr(x.Y)
	case *AssignExpr:
		p.expr(x.Target)
		p.WriteString(" = ")
		p.expr(x.Value)
	case *CallExpr:
		p.expr(x.Fn)
		p.WriteByte('(')
		p.list(len(x.Args), ", ", func(i int) { p.expr(x.Args[i]) })
		p.WriteByte(')')
	case *IndexExpr:
		p.expr(x.X)
		p.WriteByte('[')
		p.expr(x.Index)
		p.WriteByte(']')
	case *MemberExpr:
		p.expr(x.X)
		p.WriteString("." + x.Name)
	case *VecLit:
		p.WriteByte('[')
		p.list(len(x.Elems), ", ", func(i int) { p.expr(x.Elems[i]) })
		p.WriteByte(']')
	case *SetLit:
		p.WriteByte('{')
		p.list(len(x.Elems), ", ", func(i int) { p.expr(x.Elems[i]) })
		p.WriteByte('}')
	case *MapLit:
		p.WriteByte('{')
		p.list(len(x.Entries), ", ", func(i int) {
			p.expr(x.Entries[i].Key)
			p.WriteString(": ")
			p.expr(x.Entries[i].Value)
		})
		p.WriteByte('}')
	case *TupleLit:
		p.WriteByte('(')
		p.list(len(x.Elems), ", ", func(i int) { p.expr(x.Elems[i]) })
		p.WriteByte(')')
	case *StructLit:
		if len(x.Fields) == 0 {
			p.WriteString(x.Name + " {}")

			return
		}

		p.WriteString(x.Name + "(")
		p.list(len(x.Fields), ", ", func(i int) {
			p.WriteString(x.Fields[i].Name + ": ")
			p.expr(x.Fields[i].Value)
		})
		p.WriteByte(')')
	case *LambdaExpr:
		p.WriteByte('|')
		p.list(len(x.Params), ", ", func(i int) {
			p.WriteString(x.Params[i].Name)

			if x.Params[i].Type != nil {
				p.WriteString(": ")
				p.typ(x.Params[i].Type)
			}
		})
		p.WriteString("| ")
		p.expr(x.Body)
	case *RangeExpr:
		p.expr(x.Start)

		switch {
		case x.Loop && x.Inclusive:
			p.WriteString(" $= ")
		case x.Loop:
			p.WriteString(" $ ")
		case x.Inclusive:
			p.WriteString("..=")
		default:
			p.WriteString("..")
		}

		p.expr(x.End)
	case *SpawnExpr:
		p.WriteString("spawn ")
		p.expr(x.X)
	case *IfExpr:
		p.ifStmt(x.Stmt)
	case *MatchExpr:
		p.matchStmt(x.Stmt)
	}
}

func (p *printer) typ(t Type) {
	switch t := t.(type) {
	case *PrimitiveType:
		p.WriteString(t.Name)
	case *NamedType:
		p.WriteString(t.Name)
		p.typeArgs(t.Args...)
	case *UnionType:
		p.list(len(t.Types), " | ", func(i int) {
			if endsInFunction(t.Types[i]) {
				p.WriteByte('(')
				p.typ(t.Types[i])
				p.WriteByte(')')
			} else {
				p.typ(t.Types[i])
			}
		})
	case *OptionType:
		p.WriteByte('?')

		if _, ok := t.Elem.(*UnionType); ok {
			p.WriteByte('(')
			p.typ(t.Elem)
			p.WriteByte(')')
		} else {
			p.typ(t.Elem)
		}
	case *FunctionType:
		p.WriteByte('(')
		p.list(len(t.Params), ", ", func(i int) { p.typ(t.Params[i]) })
		p.WriteString(") -> ")
		p.typ(t.Result)
	case *VecType:
		p.WriteByte('[')
		p.typ(t.Elem)
		p.WriteByte(']')
	case *SetType:
		p.WriteString("Set")
		p.typeArgs(t.Elem)
	case *MapType:
		p.WriteString("Map")
		p.typeArgs(t.Key, t.Value)
	case *TupleType:
		p.WriteByte('(')
		p.list(len(t.Elems), ", ", func(i int) { p.typ(t.Elems[i]) })
		p.WriteByte(')')
	case *ResultType:
		p.WriteString("Result")
		p.typeArgs(t.Ok, t.Err)
	}
}

func (p *printer) typeArgs(ts ...Type) {
	if len(ts) == 0 {
		return
	}

	p.WriteByte('<')
	p.list(len(ts), ", ", func(i int) { p.typ(ts[i]) })
	p.WriteByte('>')
}

// endsInFunction reports whether printing t ends with a function result,
// which would otherwise absorb a following union member.
func endsInFunction(t Type) bool {
	switch t := t.(type) {
	case *FunctionType:
		return true
	case *OptionType:
		return endsInFunction(t.Elem)
	}

	return false
}

func (p *printer) pattern(pat Pattern) {
	switch pat := pat.(type) {
	case *LiteralPattern:
		p.expr(pat.Value)
	case *WildcardPattern:
		p.WriteByte('_')
	case *BindingPattern:
		p.WriteString(pat.Name)

		if pat.Type != nil {
			p.WriteString(": ")
			p.typ(pat.Type)
		}
	case *CapabilityPattern:
		p.WriteString(pat.Name + ": Implements [")
		p.list(len(pat.Interfaces), ", ", func(i int) { p.typ(pat.Interfaces[i]) })
		p.WriteByte(']')
	case *ConstructorPattern:
		p.WriteString(strings.Join(pat.Path, "."))

		if len(pat.Args) > 0 || len(pat.Path) == 1 {
			p.WriteByte('(')
			p.list(len(pat.Args), ", ", func(i int) { p.pattern(pat.Args[i]) })
			p.WriteByte(')')
		}
	case *TuplePattern:
		p.WriteByte('(')
		p.list(len(pat.Elems), ", ", func(i int) { p.pattern(pat.Elems[i]) })
		p.WriteByte(')')
	}
}
