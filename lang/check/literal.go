package check

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/token"
)

// Bounds reports literal indices outside a literal vector or tuple, for
// both index expressions and the at and get methods.
type Bounds struct{}

func (Bounds) Name() string { return "bounds" }

func (Bounds) Run(p *Pass) {
	ast.Inspect(p.File, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.IndexExpr:
			boundsCheck(p, n.X, n.Index)
		case *ast.CallExpr:
			m, ok := n.Fn.(*ast.MemberExpr)
			if ok && len(n.Args) == 1 && (m.Name == "at" || m.Name == "get") {
				boundsCheck(p, m.X, n.Args[0])
			}
		}

		return true
	})
}

func boundsCheck(p *Pass, x, index ast.Expr) {
	label, kind, size := "", "", 0

	switch x := unparen(x).(type) {
	case *ast.VecLit:
		label, kind, size = "Array", "array", len(x.Elems)
	case *ast.TupleLit:
		label, kind, size = "Tuple", "tuple", len(x.Elems)
	default:
		return
	}

	i, ok := ast.IntValue(index)
	if !ok || (i >= 0 && i < int64(size)) {
		return
	}

	p.Report(diag.New(diag.IndexOutOfBounds, index.Span(),
		"%s index %d is out of bounds for %s of length %d", label, i, kind, size).
		WithNote("Valid indices are 0..%d", size))
}

// DivideByZero reports division and modulo by a literal zero. Only the
// divisor's syntax is examined; computed zeros are left to the runtime.
type DivideByZero struct{}

func (DivideByZero) Name() string { return "divide-by-zero" }

func (DivideByZero) Run(p *Pass) {
	ast.Inspect(p.File, func(n ast.Node) bool {
		b, ok := n.(*ast.BinaryExpr)
		if !ok || !isZero(b.Y) {
			return true
		}

		switch b.Op {
		case token.Slash:
			p.Report(diag.New(diag.LiteralDivideByZero, b.Span(),
				"Literal division by zero detected").
				WithNote("Division by zero will cause a runtime panic"))
		case token.Percent:
			p.Report(diag.New(diag.LiteralDivideByZero, b.Span(),
				"Literal modulo by zero detected").
				WithNote("Modulo by zero will cause a runtime panic"))
		}

		return true
	})
}

func isZero(x ast.Expr) bool {
	switch x := unparen(x).(type) {
	case *ast.IntLit:
		return x.Value == 0
	case *ast.FloatLit:
		return x.Value == 0
	case *ast.UnaryExpr:
		return x.Op == token.Minus && isZero(x.X)
	}

	return false
}
