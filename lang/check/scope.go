package check

import (
	"maps"
	"slices"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/stdlib"
)

// Undefined reports references to names that no enclosing scope declares
// before the reference, calls to unknown functions, and calls to declared
// functions with the wrong number of arguments.
//
// Top-level statements see top-level variables declared above them.
// Function bodies run later, so they see every top-level variable.
type Undefined struct{}

func (Undefined) Name() string { return "undefined" }

func (Undefined) Run(p *Pass) {
	r := &resolver{
		pass:    p,
		globals: globalNames(p),
		topVars: topLevelVars(p.File),
	}

	r.push()

	for _, u := range p.File.Units {
		r.unit(u)
	}
}

type scope struct {
	parent *scope
	names  map[string]bool
}

type resolver struct {
	pass    *Pass
	globals map[string]bool
	topVars map[string]bool
	scope   *scope
	inFunc  int
}

func globalNames(p *Pass) map[string]bool {
	g := maps.Clone(p.Globals)
	if g == nil {
		g = make(map[string]bool)
	}

	for _, n := range Builtins {
		g[n] = true
	}

	for _, m := range stdlib.Modules() {
		g[m] = true
	}

	for _, n := range p.Table.Names() {
		g[n] = true
	}

	for _, e := range p.Table.Enums {
		for _, v := range e.Variants {
			g[v.Name] = true
		}
	}

	for _, imp := range p.Table.Imports {
		for _, n := range imp.Names() {
			g[n] = true
		}
	}

	return g
}

func topLevelVars(f *ast.File) map[string]bool {
	vars := make(map[string]bool)

	for _, u := range f.Units {
		if e, ok := u.(*ast.ExportDecl); ok {
			u = e.Decl
		}

		switch u := u.(type) {
		case *ast.VarDecl:
			vars[u.Name] = true
		case *ast.ExprStmt:
			if a, ok := u.X.(*ast.AssignExpr); ok {
				if id, ok := a.Target.(*ast.Ident); ok {
					vars[id.Name] = true
				}
			}
		}
	}

	return vars
}

func (r *resolver) push() { r.scope = &scope{parent: r.scope, names: make(map[string]bool)} }

func (r *resolver) pop() { r.scope = r.scope.parent }

func (r *resolver) declare(name string) {
	if name != "" && name != "_" {
		r.scope.names[name] = true
	}
}

// local reports whether name is bound by a scope rather than by a
// declaration or built-in.
func (r *resolver) local(name string) bool {
	for s := r.scope; s != nil; s = s.parent {
		if s.names[name] {
			return true
		}
	}

	return r.inFunc > 0 && r.topVars[name]
}

func (r *resolver) defined(name string) bool { return r.local(name) || r.globals[name] }

func (r *resolver) visible() []string {
	seen := maps.Clone(r.globals)

	for s := r.scope; s != nil; s = s.parent {
		maps.Copy(seen, s.names)
	}

	if r.inFunc > 0 {
		maps.Copy(seen, r.topVars)
	}

	return slices.Sorted(maps.Keys(seen))
}

func (r *resolver) undefined(what, name string, n ast.Node) {
	d := diag.New(diag.UndefinedReference, n.Span(), "Undefined %s `%s`", what, name)

	if s, ok := stdlib.Closest(name, r.visible()); ok {
		d = d.WithNote("did you mean `%s`?", s)
	}

	r.pass.Report(d)
}

func (r *resolver) unit(u ast.Unit) {
	switch u := u.(type) {
	case *ast.ExportDecl:
		r.unit(u.Decl)
	case *ast.FuncDecl:
		r.funcDecl(u)
	case *ast.ImplDecl:
		for _, m := range u.Methods {
			r.funcDecl(m)
		}
	case ast.Stmt:
		r.stmt(u)
	}
}

func (r *resolver) funcDecl(d *ast.FuncDecl) {
	r.inFunc++
	r.push()

	for _, p := range d.Params {
		r.declare(p.Name)
	}

	if d.Body != nil {
		r.stmts(d.Body.Stmts)
	}

	r.pop()
	r.inFunc--
}

func (r *resolver) block(b *ast.Block) {
	if b == nil {
		return
	}

	r.push()
	r.stmts(b.Stmts)
	r.pop()
}

func (r *resolver) stmts(ss []ast.Stmt) {
	for _, s := range ss {
		r.stmt(s)
	}
}

func (r *resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		r.expr(s.Value)
		r.declare(s.Name)
	case *ast.ExprStmt:
		r.expr(s.X)
	case *ast.Block:
		r.block(s)
	case *ast.IfStmt:
		r.expr(s.Cond)
		r.block(s.Then)

		if s.Else != nil {
			r.stmt(s.Else)
		}
	case *ast.WhileStmt:
		r.expr(s.Cond)
		r.block(s.Body)
	case *ast.DoWhileStmt:
		r.block(s.Body)
		r.expr(s.Cond)
	case *ast.ForInStmt:
		r.expr(s.Iter)
		r.push()
		r.declare(s.Var)
		r.block(s.Body)
		r.pop()
	case *ast.ForStmt:
		r.push()

		if s.Init != nil {
			r.stmt(s.Init)
		}

		r.expr(s.Cond)
		r.expr(s.Post)
		r.block(s.Body)
		r.pop()
	case *ast.MatchStmt:
		r.expr(s.Subject)

		for _, arm := range s.Arms {
			r.push()
			r.pattern(arm.Pattern)
			r.expr(arm.Guard)
			r.block(arm.Body)
			r.pop()
		}
	case *ast.ReturnStmt:
		r.expr(s.Value)
	case *ast.RaiseStmt:
		r.expr(s.Value)
	}
}

func (r *resolver) pattern(p ast.Pattern) {
	switch p := p.(type) {
	case *ast.BindingPattern:
		if p.Type == nil && !r.local(p.Name) {
			if _, ok := r.pass.Table.Variant(p.Name); ok {
				return
			}
		}

		r.declare(p.Name)
	case *ast.CapabilityPattern:
		r.declare(p.Name)
	case *ast.ConstructorPattern:
		for _, a := range p.Args {
			r.pattern(a)
		}
	case *ast.TuplePattern:
		for _, e := range p.Elems {
			r.pattern(e)
		}
	}
}

func (r *resolver) exprs(xs []ast.Expr) {
	for _, x := range xs {
		r.expr(x)
	}
}

func (r *resolver) expr(x ast.Expr) {
	switch x := x.(type) {
	case nil:
	case *ast.Ident:
		if x.Name != "_" && !r.defined(x.Name) {
			r.undefined("variable", x.Name, x)
		}
	case *ast.CallExpr:
		r.call(x)
	case *ast.AssignExpr:
		r.expr(x.Value)

		if id, ok := x.Target.(*ast.Ident); ok {
			if !r.local(id.Name) {
				r.declare(id.Name)
			}
		} else {
			r.expr(x.Target)
		}
	case *ast.ParenExpr:
		r.expr(x.X)
	case *ast.UnaryExpr:
		r.expr(x.X)
	case *ast.BinaryExpr:
		r.expr(x.X)
		r.expr(x.Y)
	case *ast.IndexExpr:
		r.expr(x.X)
		r.expr(x.Index)
	case *ast.MemberExpr:
		r.expr(x.X)
	case *ast.VecLit:
		r.exprs(x.Elems)
	case *ast.SetLit:
		r.exprs(x.Elems)
	case *ast.TupleLit:
		r.exprs(x.Elems)
	case *ast.MapLit:
		for _, e := range x.Entries {
			r.expr(e.Key)
			r.expr(e.Value)
		}
	case *ast.StructLit:
		if _, ok := r.pass.Table.Structs[x.Name]; !ok && !r.defined(x.Name) {
			r.undefined("struct", x.Name, x)
		}

		for _, f := range x.Fields {
			r.expr(f.Value)
		}
	case *ast.FStringLit:
		for _, part := range x.Parts {
			r.expr(part.X)
		}
	case *ast.LambdaExpr:
		r.push()

		for _, p := range x.Params {
			r.declare(p.Name)
		}

		r.expr(x.Body)
		r.pop()
	case *ast.RangeExpr:
		r.expr(x.Start)
		r.expr(x.End)
	case *ast.SpawnExpr:
		r.expr(x.X)
	case *ast.IfExpr:
		r.stmt(x.Stmt)
	case *ast.MatchExpr:
		r.stmt(x.Stmt)
	}
}

func (r *resolver) call(c *ast.CallExpr) {
	defer r.exprs(c.Args)

	id, ok := c.Fn.(*ast.Ident)
	if !ok {
		r.expr(c.Fn)

		return
	}

	if r.local(id.Name) {
		return
	}

	if d, ok := r.pass.Table.Func(id.Name); ok {
		if n := len(c.Args); n != d.Arity() {
			r.pass.Report(diag.New(diag.UndefinedReference, c.Span(),
				"Function `%s` expects %d argument(s), but %d were provided",
				id.Name, d.Arity(), n).
				WithNote("declared as `%s`", decl.Signature(d)))
		}

		return
	}

	if !r.globals[id.Name] {
		r.undefined("function", id.Name, id)
	}
}
