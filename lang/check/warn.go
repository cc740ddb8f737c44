package check

import (
	"strings"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/token"
)

// Unused reports local variables of a function body that are assigned but
// never read. Parameters, names with a leading underscore, and names bound
// at top level are exempt.
type Unused struct{}

func (Unused) Name() string { return "unused-variable" }

func (Unused) Run(p *Pass) {
	globals := topLevelNames(p.File)
	for n := range p.Globals {
		globals[n] = true
	}

	ast.Inspect(p.File, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FuncDecl); ok && fn.Body != nil {
			unusedLocals(p, fn, globals)
		}

		return true
	})
}

type local struct {
	name string
	span token.Span
}

func unusedLocals(p *Pass, fn *ast.FuncDecl, globals map[string]bool) {
	known := make(map[string]bool, len(fn.Params))
	for _, prm := range fn.Params {
		known[prm.Name] = true
	}

	var (
		locals []local
		read   = make(map[string]bool)
	)

	declare := func(name string, span token.Span) {
		if known[name] || globals[name] || strings.HasPrefix(name, "_") {
			return
		}

		known[name] = true
		locals = append(locals, local{name, span})
	}

	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.VarDecl:
			if n.Value != nil {
				ast.Inspect(n.Value, visit)
			}

			declare(n.Name, n.Span())

			return false
		case *ast.AssignExpr:
			id, ok := n.Target.(*ast.Ident)
			if !ok {
				return true
			}

			ast.Inspect(n.Value, visit)
			declare(id.Name, id.Span())

			return false
		case *ast.Ident:
			read[n.Name] = true
		}

		return true
	}
	ast.Inspect(fn.Body, visit)

	for _, l := range locals {
		if read[l.name] {
			continue
		}

		d := diag.New(diag.UnusedVariable, l.span,
			"Variable `%s` is declared but never used", l.name).
			WithNote("remove it, or prefix its name with `_`")
		d.Severity = diag.Warning
		p.Report(d)
	}
}

// topLevelNames returns the variables bound by top-level statements.
func topLevelNames(f *ast.File) map[string]bool {
	names := make(map[string]bool)

	for _, u := range f.Units {
		switch u := u.(type) {
		case *ast.VarDecl:
			names[u.Name] = true
		case *ast.ExprStmt:
			for a, ok := u.X.(*ast.AssignExpr); ok; a, ok = a.Value.(*ast.AssignExpr) {
				if id, isIdent := a.Target.(*ast.Ident); isIdent {
					names[id.Name] = true
				}
			}
		}
	}

	return names
}

// Unreachable reports statements that follow a return, break, continue,
// or raise in the same block.
type Unreachable struct{}

func (Unreachable) Name() string { return "unreachable" }

func (Unreachable) Run(p *Pass) {
	ast.Inspect(p.File, func(n ast.Node) bool {
		b, ok := n.(*ast.Block)
		if !ok {
			return true
		}

		for i, s := range b.Stmts[:max(len(b.Stmts)-1, 0)] {
			if terminator(s) == "" {
				continue
			}

			rest := b.Stmts[i+1:]
			span := rest[0].Span().To(rest[len(rest)-1].Span())

			d := diag.New(diag.UnreachableCode, span, "Unreachable code detected").
				WithNote("this code follows a %s", terminator(s))
			d.Severity = diag.Warning
			p.Report(d)

			break
		}

		return true
	})
}

func terminator(s ast.Stmt) string {
	switch s.(type) {
	case *ast.ReturnStmt:
		return "return statement"
	case *ast.BreakStmt:
		return "break statement"
	case *ast.ContinueStmt:
		return "continue statement"
	case *ast.RaiseStmt:
		return "raise statement"
	}

	return ""
}
