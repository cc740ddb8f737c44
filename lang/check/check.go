package check

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
)

// Check is one independent static analysis.
type Check interface {
	// Name identifies the check in logs.
	Name() string
	Run(p *Pass)
}

// Pass is the input and output of one check over one file.
type Pass struct {
	File    *ast.File
	Table   *decl.Table
	Globals map[string]bool

	diags diag.List
}

// Report records a diagnostic.
func (p *Pass) Report(d diag.Diagnostic) { p.diags.Add(d) }

// Diagnostics returns what the check reported.
func (p *Pass) Diagnostics() diag.List { return p.diags }

// Builtins are the names callable without a declaration.
var Builtins = []string{
	"print", "println", "len", "str", "int", "float", "bool",
	"type_of", "Ok", "Err", "Some", "range",
}

// Default returns the analyzer's checks in reporting order.
func Default() []Check {
	return []Check{
		Bounds{}, DivideByZero{}, Undefined{}, ModuleMethods{},
		Unused{}, Unreachable{},
	}
}

type config struct {
	checks  []Check
	globals map[string]bool
}

// Option configures [Run].
type Option func(config) config

// WithChecks replaces the default set of checks.
func WithChecks(cs ...Check) Option {
	return func(c config) config {
		c.checks = cs

		return c
	}
}

// WithGlobals declares names bound before the file runs, such as the
// variables of an interactive session.
func WithGlobals(names ...string) Option {
	return func(c config) config {
		for _, n := range names {
			c.globals[n] = true
		}

		return c
	}
}

// Run applies every check to f and returns all diagnostics sorted by
// position. Checks do not observe each other's results.
func Run(f *ast.File, t *decl.Table, opts ...Option) diag.List {
	c := config{checks: Default(), globals: make(map[string]bool)}
	for _, opt := range opts {
		c = opt(c)
	}

	if t == nil {
		t, _ = decl.Build(f)
	}

	var out diag.List

	for _, chk := range c.checks {
		p := &Pass{File: f, Table: t, Globals: c.globals}
		chk.Run(p)
		out.Add(p.Diagnostics()...)
	}

	return out.Sorted()
}

func unparen(x ast.Expr) ast.Expr {
	for {
		p, ok := x.(*ast.ParenExpr)
		if !ok {
			return x
		}

		x = p.X
	}
}
