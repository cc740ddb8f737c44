package check

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/stdlib"
)

// ModuleMethods reports members of a host module that the module does not
// define. A local variable shadowing the module name is not a module.
type ModuleMethods struct{}

func (ModuleMethods) Name() string { return "module-methods" }

func (ModuleMethods) Run(p *Pass) {
	shadowed := topLevelVars(p.File)
	for n := range p.Globals {
		shadowed[n] = true
	}

	ast.Inspect(p.File, func(n ast.Node) bool {
		m, ok := n.(*ast.MemberExpr)
		if !ok {
			return true
		}

		id, ok := m.X.(*ast.Ident)
		if !ok || shadowed[id.Name] || !stdlib.IsModule(id.Name) || stdlib.Has(id.Name, m.Name) {
			return true
		}

		d := diag.New(diag.UndefinedMethod, m.NameLoc,
			"Module `%s` has no method `%s`", id.Name, m.Name)

		if s, ok := stdlib.Suggest(id.Name, m.Name); ok {
			d = d.WithNote("did you mean `%s`?", s)
		}

		p.Report(d)

		return true
	})
}
