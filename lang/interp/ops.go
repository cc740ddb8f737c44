package interp

import (
	"errors"
	"math"
	"strings"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/token"
	"github.com/ardnew/tjlang/lang/value"
)

// Impl methods that overload operators, by operator.
var (
	binaryMethods = map[token.Kind]string{
		token.Plus:      "add",
		token.Minus:     "sub",
		token.Star:      "mul",
		token.Slash:     "div",
		token.Percent:   "mod",
		token.Power:     "pow",
		token.Eq:        "eq",
		token.NotEq:     "ne",
		token.Less:      "lt",
		token.Greater:   "gt",
		token.LessEq:    "le",
		token.GreaterEq: "ge",
		token.Amp:       "bitand",
		token.Pipe:      "bitor",
		token.Caret:     "bitxor",
		token.Shl:       "shl",
		token.Shr:       "shr",
	}

	unaryMethods = map[token.Kind]string{
		token.Minus: "neg",
		token.Not:   "not",
		token.Bang:  "not",
		token.Tilde: "bitnot",
	}
)

func (e *evaluator) binary(x *ast.BinaryExpr) (value.Value, error) {
	l, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case token.And:
		if !value.Truthy(l) {
			return value.Bool(false), nil
		}

		r, err := e.eval(x.Y)
		if err != nil {
			return nil, err
		}

		return value.Bool(value.Truthy(r)), nil
	case token.Or:
		if value.Truthy(l) {
			return value.Bool(true), nil
		}

		r, err := e.eval(x.Y)
		if err != nil {
			return nil, err
		}

		return value.Bool(value.Truthy(r)), nil
	}

	r, err := e.eval(x.Y)
	if err != nil {
		return nil, err
	}

	if v, ok, err := e.overload(x, l, r); ok || err != nil {
		return v, err
	}

	return operate(x, x.Op, l, r)
}

// overload calls the impl method for op on the left operand's type. A
// missing ne falls back to the negation of eq.
func (e *evaluator) overload(x *ast.BinaryExpr, l, r value.Value) (value.Value, bool, error) {
	name, ok := binaryMethods[x.Op]
	if !ok {
		return nil, false, nil
	}

	t := e.table

	if d, ok := t.Method(l.Type(), name); ok {
		v, err := e.callFunc(x, d, l, []value.Value{r})

		return v, true, err
	}

	if x.Op == token.NotEq {
		if d, ok := t.Method(l.Type(), "eq"); ok {
			v, err := e.callFunc(x, d, l, []value.Value{r})
			if err != nil {
				return nil, true, err
			}

			return value.Bool(!value.Truthy(v)), true, nil
		}
	}

	return nil, false, nil
}

// operate applies the built-in semantics of a binary operator.
func operate(at ast.Node, op token.Kind, l, r value.Value) (value.Value, error) {
	switch op {
	case token.Eq:
		return value.Bool(value.Equal(l, r)), nil
	case token.NotEq:
		return value.Bool(!value.Equal(l, r)), nil
	case token.Less, token.Greater, token.LessEq, token.GreaterEq:
		return compare(at, op, l, r)
	}

	switch l := l.(type) {
	case value.Int:
		if r, ok := r.(value.Int); ok {
			return intOp(at, op, l, r)
		}

		if r, ok := r.(value.Float); ok {
			return floatOp(at, op, value.Float(l), r)
		}
	case value.Float:
		if r, ok := value.ToFloat(r); ok {
			return floatOp(at, op, l, value.Float(r))
		}
	case value.Str:
		switch r := r.(type) {
		case value.Str:
			if op == token.Plus {
				return l + r, nil
			}
		case value.Int:
			if op == token.Star {
				if r < 0 {
					return nil, valueError(at, "Negative repeat count %d", r)
				}

				return value.Str(strings.Repeat(string(l), int(r))), nil
			}
		}
	case *value.Array:
		if r, ok := r.(*value.Array); ok && op == token.Plus {
			elems := append(append([]value.Value(nil), l.Elems...), r.Elems...)

			return value.NewArray(elems...), nil
		}
	case *value.Set:
		if r, ok := r.(*value.Set); ok {
			switch op {
			case token.Pipe:
				return l.Union(r), nil
			case token.Amp:
				return l.Intersect(r), nil
			case token.Minus:
				return l.Difference(r), nil
			}
		}
	}

	return nil, typeError(at, "Unsupported operand types for %s: `%s` and `%s`", op, l.Type(), r.Type())
}

func compare(at ast.Node, op token.Kind, l, r value.Value) (value.Value, error) {
	c, err := value.Compare(l, r)
	if errors.Is(err, value.ErrUnordered) {
		return nil, typeError(at, "Cannot compare `%s` and `%s`", l.Type(), r.Type())
	}

	switch op {
	case token.Less:
		return value.Bool(c < 0), nil
	case token.Greater:
		return value.Bool(c > 0), nil
	case token.LessEq:
		return value.Bool(c <= 0), nil
	}

	return value.Bool(c >= 0), nil
}

func intOp(at ast.Node, op token.Kind, l, r value.Int) (value.Value, error) {
	switch op {
	case token.Plus:
		return l + r, nil
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash:
		if r == 0 {
			return nil, failf(diag.RuntimeDivideByZero, at, "Division by zero")
		}

		return l / r, nil
	case token.Percent:
		if r == 0 {
			return nil, failf(diag.RuntimeDivideByZero, at, "Modulo by zero")
		}

		return l % r, nil
	case token.Power:
		if r < 0 {
			return value.Float(math.Pow(float64(l), float64(r))), nil
		}

		return ipow(l, r), nil
	case token.Amp:
		return l & r, nil
	case token.Pipe:
		return l | r, nil
	case token.Caret:
		return l ^ r, nil
	case token.Shl, token.Shr:
		if r < 0 {
			return nil, valueError(at, "Negative shift count %d", r)
		}

		if op == token.Shl {
			return l << r, nil
		}

		return l >> r, nil
	}

	return nil, typeError(at, "Unsupported operand types for %s: `int` and `int`", op)
}

func floatOp(at ast.Node, op token.Kind, l, r value.Float) (value.Value, error) {
	switch op {
	case token.Plus:
		return l + r, nil
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash:
		if r == 0 {
			return nil, failf(diag.RuntimeDivideByZero, at, "Division by zero")
		}

		return l / r, nil
	case token.Percent:
		if r == 0 {
			return nil, failf(diag.RuntimeDivideByZero, at, "Modulo by zero")
		}

		return value.Float(math.Mod(float64(l), float64(r))), nil
	case token.Power:
		return value.Float(math.Pow(float64(l), float64(r))), nil
	}

	return nil, typeError(at, "Unsupported operand types for %s: `float` and `float`", op)
}

// ipow raises b to a non-negative power by squaring.
func ipow(b, n value.Int) value.Int {
	out := value.Int(1)

	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out *= b
		}

		b *= b
	}

	return out
}
