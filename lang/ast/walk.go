package ast

import "reflect"

// Inspect traverses the tree rooted at n in depth-first order. It calls
// f(n); if f returns true, Inspect visits each child of n, followed by a
// call of f(nil).
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}

	for _, c := range Children(n) {
		Inspect(c, f)
	}

	f(nil)
}

// Children returns the direct, non-nil child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node

	add := func(cs ...Node) {
		for _, c := range cs {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *File:
		for _, u := range n.Units {
			add(u)
		}

	// declarations
	case *ExportDecl:
		add(n.Decl)
	case *GenericParam:
		for _, b := range n.Bounds {
			add(b)
		}
	case *Param:
		add(n.Type)
	case *FuncDecl:
		for _, g := range n.Generics {
			add(g)
		}

		for _, p := range n.Params {
			add(p)
		}

		add(n.Result, n.Body)
	case *Field:
		add(n.Type)
	case *StructDecl:
		for _, g := range n.Generics {
			add(g)
		}

		for _, f := range n.Fields {
			add(f)
		}
	case *AliasDecl:
		for _, g := range n.Generics {
			add(g)
		}

		add(n.Type)
	case *Variant:
		for _, t := range n.Fields {
			add(t)
		}
	case *EnumDecl:
		for _, g := range n.Generics {
			add(g)
		}

		for _, v := range n.Variants {
			add(v)
		}
	case *MethodSig:
		for _, p := range n.Params {
			add(p)
		}

		add(n.Result)
	case *InterfaceDecl:
		for _, g := range n.Generics {
			add(g)
		}

		for _, t := range n.Extends {
			add(t)
		}

		for _, m := range n.Methods {
			add(m)
		}
	case *ImplDecl:
		add(n.Interface, n.Target)

		for _, m := range n.Methods {
			add(m)
		}

	// statements
	case *VarDecl:
		add(n.Type, n.Value)
	case *ExprStmt:
		add(n.X)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *WhileStmt:
		add(n.Cond, n.Body)
	case *DoWhileStmt:
		add(n.Body, n.Cond)
	case *ForInStmt:
		add(n.VarType, n.Iter, n.Body)
	case *ForStmt:
		add(n.Init, n.Cond, n.Post, n.Body)
	case *MatchArm:
		add(n.Pattern, n.Guard, n.Body)
	case *MatchStmt:
		add(n.Subject)

		for _, a := range n.Arms {
			add(a)
		}
	case *ReturnStmt:
		add(n.Value)
	case *RaiseStmt:
		add(n.Value)

	// expressions
	case *FStringLit:
		for _, p := range n.Parts {
			add(p.X)
		}
	case *ParenExpr:
		add(n.X)
	case *UnaryExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.X, n.Y)
	case *AssignExpr:
		add(n.Target, n.Value)
	case *CallExpr:
		add(n.Fn)

		for _, a := range n.Args {
			add(a)
		}
	case *IndexExpr:
		add(n.X, n.Index)
	case *MemberExpr:
		add(n.X)
	case *VecLit:
		for _, e := range n.Elems {
			add(e)
		}
	case *SetLit:
		for _, e := range n.Elems {
			add(e)
		}
	case *MapLit:
		for _, e := range n.Entries {
			add(e.Key, e.Value)
		}
	case *TupleLit:
		for _, e := range n.Elems {
			add(e)
		}
	case *FieldInit:
		add(n.Value)
	case *StructLit:
		for _, f := range n.Fields {
			add(f)
		}
	case *LambdaExpr:
		for _, p := range n.Params {
			add(p)
		}

		add(n.Body)
	case *RangeExpr:
		add(n.Start, n.End)
	case *SpawnExpr:
		add(n.X)
	case *IfExpr:
		add(n.Stmt)
	case *MatchExpr:
		add(n.Stmt)

	// types
	case *NamedType:
		for _, t := range n.Args {
			add(t)
		}
	case *UnionType:
		for _, t := range n.Types {
			add(t)
		}
	case *OptionType:
		add(n.Elem)
	case *FunctionType:
		for _, t := range n.Params {
			add(t)
		}

		add(n.Result)
	case *VecType:
		add(n.Elem)
	case *SetType:
		add(n.Elem)
	case *MapType:
		add(n.Key, n.Value)
	case *TupleType:
		for _, t := range n.Elems {
			add(t)
		}
	case *ResultType:
		add(n.Ok, n.Err)

	// patterns
	case *LiteralPattern:
		add(n.Value)
	case *BindingPattern:
		add(n.Type)
	case *CapabilityPattern:
		for _, t := range n.Interfaces {
			add(t)
		}
	case *ConstructorPattern:
		for _, p := range n.Args {
			add(p)
		}
	case *TuplePattern:
		for _, p := range n.Elems {
			add(p)
		}
	}

	return out
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}

	v := reflect.ValueOf(n)

	return v.Kind() == reflect.Pointer && v.IsNil()
}
