package interp

import (
	"strconv"
	"strings"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/value"
)

type builtin func(e *evaluator, c *ast.CallExpr, args []value.Value) (value.Value, error)

// builtins are the global functions available without a module prefix.
var builtins map[string]builtin

// The table is filled in init because its entries call back into the
// evaluator, which consults the table.
func init() {
	builtins = map[string]builtin{
		"print":   hostAlias("IO", "print"),
		"println": hostAlias("IO", "println"),
		"len":     unaryBuiltin(builtinLen),
		"str":     unaryBuiltin(func(_ ast.Node, v value.Value) (value.Value, error) { return value.Str(v.String()), nil }),
		"int":     unaryBuiltin(toInt),
		"float":   unaryBuiltin(toFloat),
		"bool":    unaryBuiltin(func(_ ast.Node, v value.Value) (value.Value, error) { return value.Bool(value.Truthy(v)), nil }),
		"type_of": unaryBuiltin(func(_ ast.Node, v value.Value) (value.Value, error) { return value.Str(v.Type()), nil }),
		"Ok":      wrapBuiltin("Ok", value.Ok),
		"Err":     wrapBuiltin("Err", value.Err),
		"Some":    wrapBuiltin("Some", value.Some),
		"range":   builtinRange,
	}
}

// hostAlias forwards a global call to a host module function.
func hostAlias(mod, name string) builtin {
	return func(e *evaluator, c *ast.CallExpr, args []value.Value) (value.Value, error) {
		return e.host(c, mod, name, args)
	}
}

func unaryBuiltin(fn func(ast.Node, value.Value) (value.Value, error)) builtin {
	return func(_ *evaluator, c *ast.CallExpr, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, typeError(c, "Function `%s` expects 1 argument(s), but %d were provided",
				callee(c), len(args))
		}

		return fn(c, args[0])
	}
}

// wrapBuiltin builds a Result or Option constructor. The payload defaults
// to None.
func wrapBuiltin[T value.Value](name string, wrap func(value.Value) T) builtin {
	return func(_ *evaluator, c *ast.CallExpr, args []value.Value) (value.Value, error) {
		switch len(args) {
		case 0:
			return wrap(value.None), nil
		case 1:
			return wrap(args[0]), nil
		}

		return nil, typeError(c, "`%s` expects at most 1 argument, but %d were provided", name, len(args))
	}
}

func builtinLen(at ast.Node, v value.Value) (value.Value, error) {
	n, ok := value.Len(v)
	if !ok {
		return nil, typeError(at, "Value of type `%s` has no length", v.Type())
	}

	return value.Int(n), nil
}

// builtinRange returns range(end) or range(start, end), both exclusive.
func builtinRange(_ *evaluator, c *ast.CallExpr, args []value.Value) (value.Value, error) {
	ints := make([]int64, len(args))

	for i, a := range args {
		n, ok := a.(value.Int)
		if !ok {
			return nil, typeError(c, "Range bounds must be int, got %s", a.Type())
		}

		ints[i] = int64(n)
	}

	switch len(ints) {
	case 1:
		return &value.Range{End: ints[0]}, nil
	case 2:
		return &value.Range{Start: ints[0], End: ints[1]}, nil
	}

	return nil, typeError(c, "Function `range` expects 1 or 2 argument(s), but %d were provided", len(args))
}

func toInt(at ast.Node, v value.Value) (value.Value, error) {
	switch v := v.(type) {
	case value.Int:
		return v, nil
	case value.Float:
		return value.Int(v), nil
	case value.Bool:
		if v {
			return value.Int(1), nil
		}

		return value.Int(0), nil
	case value.Str:
		n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		if err != nil {
			return nil, valueError(at, "Cannot convert string '%s' to integer", v)
		}

		return value.Int(n), nil
	case value.NoneType:
		return value.Int(0), nil
	}

	return nil, typeError(at, "Cannot convert %s to integer", v.Type())
}

func toFloat(at ast.Node, v value.Value) (value.Value, error) {
	switch v := v.(type) {
	case value.Int:
		return value.Float(v), nil
	case value.Float:
		return v, nil
	case value.Bool:
		if v {
			return value.Float(1), nil
		}

		return value.Float(0), nil
	case value.Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, valueError(at, "Cannot convert string '%s' to float", v)
		}

		return value.Float(f), nil
	case value.NoneType:
		return value.Float(0), nil
	}

	return nil, typeError(at, "Cannot convert %s to float", v.Type())
}

// callee names the function of a call for messages.
func callee(c *ast.CallExpr) string {
	switch fn := c.Fn.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.MemberExpr:
		return fn.Name
	}

	return "function"
}
