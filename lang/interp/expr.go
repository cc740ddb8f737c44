package interp

import (
	"iter"
	"slices"
	"strings"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/stdlib"
	"github.com/ardnew/tjlang/lang/token"
	"github.com/ardnew/tjlang/lang/value"
)

func (e *evaluator) eval(x ast.Expr) (value.Value, error) {
	switch x := x.(type) {
	case *ast.IntLit:
		return value.Int(x.Value), nil
	case *ast.FloatLit:
		return value.Float(x.Value), nil
	case *ast.StringLit:
		return value.Str(x.Value), nil
	case *ast.BoolLit:
		return value.Bool(x.Value), nil
	case *ast.NoneLit:
		return value.None, nil
	case *ast.FStringLit:
		return e.fstring(x)
	case *ast.Ident:
		return e.ident(x)
	case *ast.ParenExpr:
		return e.eval(x.X)
	case *ast.UnaryExpr:
		return e.unary(x)
	case *ast.BinaryExpr:
		return e.binary(x)
	case *ast.AssignExpr:
		return e.assign(x)
	case *ast.CallExpr:
		return e.call(x)
	case *ast.IndexExpr:
		return e.index(x)
	case *ast.MemberExpr:
		return e.member(x)
	case *ast.VecLit:
		elems, err := e.evalAll(x.Elems)
		if err != nil {
			return nil, err
		}

		return value.NewArray(elems...), nil
	case *ast.TupleLit:
		elems, err := e.evalAll(x.Elems)
		if err != nil {
			return nil, err
		}

		return &value.Tuple{Elems: elems}, nil
	case *ast.SetLit:
		elems, err := e.evalAll(x.Elems)
		if err != nil {
			return nil, err
		}

		s, err := value.NewSet(elems...)
		if err != nil {
			return nil, typeError(x, "%v", err)
		}

		return s, nil
	case *ast.MapLit:
		return e.mapLit(x)
	case *ast.StructLit:
		return e.structLit(x)
	case *ast.LambdaExpr:
		return &value.Closure{Lambda: x, Env: e.env}, nil
	case *ast.RangeExpr:
		start, end, err := e.bounds(x)
		if err != nil {
			return nil, err
		}

		return &value.Range{Start: start, End: end, Inclusive: x.Inclusive}, nil
	case *ast.SpawnExpr:
		return e.spawn(x)
	case *ast.IfExpr:
		return e.valueOf(x.Stmt)
	case *ast.MatchExpr:
		return e.valueOf(x.Stmt)
	case nil:
		return value.None, nil
	}

	return nil, typeError(x, "Cannot evaluate %s", ast.Source(x, 0))
}

// evalAll evaluates xs in order, copying each result.
func (e *evaluator) evalAll(xs []ast.Expr) ([]value.Value, error) {
	out := make([]value.Value, len(xs))

	for i, x := range xs {
		v, err := e.eval(x)
		if err != nil {
			return nil, err
		}

		out[i] = value.Copy(v)
	}

	return out, nil
}

// valueOf runs an if or match statement in expression position.
func (e *evaluator) valueOf(s ast.Stmt) (value.Value, error) {
	f, err := e.exec(s)
	if err != nil {
		return nil, err
	}

	if f != flowNext {
		return nil, failf(diag.RuntimeValueError, s,
			"break, continue, and return are not allowed in an expression")
	}

	return e.last, nil
}

func (e *evaluator) fstring(x *ast.FStringLit) (value.Value, error) {
	var b strings.Builder

	for _, p := range x.Parts {
		if p.X == nil {
			b.WriteString(p.Text)

			continue
		}

		v, err := e.eval(p.X)
		if err != nil {
			return nil, err
		}

		b.WriteString(v.String())
	}

	return value.Str(b.String()), nil
}

// ident resolves a name: a binding, then a declared function, a unit enum
// variant, a host module, or a built-in function.
func (e *evaluator) ident(x *ast.Ident) (value.Value, error) {
	if v, ok := e.env.Lookup(x.Name); ok {
		return v, nil
	}

	t := e.table

	if d, ok := t.Func(x.Name); ok {
		return &value.Func{Decl: d}, nil
	}

	if ref, ok := t.Variant(x.Name); ok {
		if len(ref.Variant.Fields) == 0 {
			return &value.Enum{Name: ref.Enum.Name, Variant: ref.Variant.Name, Index: ref.Index}, nil
		}

		return &value.Builtin{Name: ref.Enum.Name + "." + ref.Variant.Name}, nil
	}

	if stdlib.IsModule(x.Name) {
		return &value.Module{Name: x.Name}, nil
	}

	if _, ok := builtins[x.Name]; ok {
		return &value.Builtin{Name: x.Name}, nil
	}

	return nil, failf(diag.RuntimeUndefined, x, "Undefined variable `%s`", x.Name)
}

func (e *evaluator) assign(x *ast.AssignExpr) (value.Value, error) {
	v, err := e.eval(x.Value)
	if err != nil {
		return nil, err
	}

	v = value.Copy(v)

	switch t := x.Target.(type) {
	case *ast.Ident:
		if !e.env.Assign(t.Name, v) {
			e.env.Define(t.Name, v)
		}
	case *ast.IndexExpr:
		c, err := e.eval(t.X)
		if err != nil {
			return nil, err
		}

		k, err := e.eval(t.Index)
		if err != nil {
			return nil, err
		}

		if err := e.store(t, c, k, v); err != nil {
			return nil, err
		}
	case *ast.MemberExpr:
		c, err := e.eval(t.X)
		if err != nil {
			return nil, err
		}

		s, ok := c.(*value.Struct)
		if !ok {
			return nil, typeError(t, "Cannot assign field `%s` of %s", t.Name, c.Type())
		}

		if _, ok := s.Fields[t.Name]; !ok {
			return nil, typeError(t, "Struct `%s` has no field `%s`", s.Name, t.Name)
		}

		s.Set(t.Name, v)
	default:
		return nil, typeError(x, "Invalid assignment target")
	}

	return v, nil
}

// store implements c[k] = v.
func (e *evaluator) store(n ast.Node, c, k, v value.Value) error {
	switch c := c.(type) {
	case *value.Array:
		i, err := e.offset(n, k, len(c.Elems), "array")
		if err != nil {
			return err
		}

		c.Elems[i] = v
	case *value.Map:
		if err := c.Set(k, v); err != nil {
			return typeError(n, "%v", err)
		}
	default:
		return typeError(n, "Cannot assign to an index of %s", c.Type())
	}

	return nil
}

// offset validates an index into a sequence of length n.
func (e *evaluator) offset(at ast.Node, k value.Value, n int, kind string) (int, error) {
	i, ok := k.(value.Int)
	if !ok {
		return 0, typeError(at, "%s index must be int, got %s", kind, k.Type())
	}

	if i < 0 || int(i) >= n {
		return 0, failf(diag.RuntimeIndexError, at,
			"Index %d is out of bounds for %s of length %d", i, kind, n)
	}

	return int(i), nil
}

func (e *evaluator) index(x *ast.IndexExpr) (value.Value, error) {
	c, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}

	k, err := e.eval(x.Index)
	if err != nil {
		return nil, err
	}

	return e.at(x, c, k)
}

// at implements c[k].
func (e *evaluator) at(n ast.Node, c, k value.Value) (value.Value, error) {
	switch c := c.(type) {
	case *value.Array:
		i, err := e.offset(n, k, len(c.Elems), "array")
		if err != nil {
			return nil, err
		}

		return c.Elems[i], nil
	case *value.Tuple:
		i, err := e.offset(n, k, len(c.Elems), "tuple")
		if err != nil {
			return nil, err
		}

		return c.Elems[i], nil
	case value.Str:
		rs := []rune(string(c))

		i, err := e.offset(n, k, len(rs), "string")
		if err != nil {
			return nil, err
		}

		return value.Str(rs[i]), nil
	case *value.Range:
		i, err := e.offset(n, k, int(c.Len()), "range")
		if err != nil {
			return nil, err
		}

		return value.Int(c.Start + int64(i)), nil
	case *value.Map:
		v, ok, err := c.Get(k)
		if err != nil {
			return nil, typeError(n, "%v", err)
		}

		if !ok {
			return nil, failf(diag.RuntimeIndexError, n, "Key %s not found", value.Repr(k))
		}

		return v, nil
	}

	return nil, typeError(n, "Cannot index %s", c.Type())
}

// member evaluates X.Name outside of a call: an enum variant, a host
// function, a struct field, or a bound method.
func (e *evaluator) member(x *ast.MemberExpr) (value.Value, error) {
	if v, ok, err := e.qualified(x); ok || err != nil {
		return v, err
	}

	recv, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}

	switch r := recv.(type) {
	case *value.Struct:
		if f, ok := r.Fields[x.Name]; ok {
			return f, nil
		}
	case *value.Module:
		if stdlib.Has(r.Name, x.Name) {
			return &value.Builtin{Name: r.Name + "." + x.Name}, nil
		}

		return nil, failf(diag.RuntimeUndefined, x, "Module `%s` has no method `%s`", r.Name, x.Name)
	}

	if d, ok := e.table.Method(recv.Type(), x.Name); ok {
		return &value.Func{Decl: d, Recv: recv}, nil
	}

	if _, ok := lookupMethod(recv, x.Name); ok {
		return &value.Builtin{Name: x.Name, Recv: recv}, nil
	}

	return nil, failf(diag.RuntimeUndefined, x, "Type `%s` has no member `%s`", recv.Type(), x.Name)
}

// qualified resolves Enum.Variant and MODULE.function when the left side
// names an enum or host module that no binding shadows.
func (e *evaluator) qualified(x *ast.MemberExpr) (value.Value, bool, error) {
	id, ok := x.X.(*ast.Ident)
	if !ok {
		return nil, false, nil
	}

	if _, bound := e.env.Lookup(id.Name); bound {
		return nil, false, nil
	}

	if _, ok := e.table.Enums[id.Name]; ok {
		ref, ok := e.table.EnumVariant(id.Name, x.Name)
		if !ok {
			return nil, true, failf(diag.RuntimeUndefined, x,
				"Enum `%s` has no variant `%s`", id.Name, x.Name)
		}

		if len(ref.Variant.Fields) == 0 {
			return &value.Enum{Name: ref.Enum.Name, Variant: ref.Variant.Name, Index: ref.Index}, true, nil
		}

		return &value.Builtin{Name: ref.Enum.Name + "." + ref.Variant.Name}, true, nil
	}

	return nil, false, nil
}

func (e *evaluator) mapLit(x *ast.MapLit) (value.Value, error) {
	m := value.NewMap()

	for _, entry := range x.Entries {
		k, err := e.eval(entry.Key)
		if err != nil {
			return nil, err
		}

		v, err := e.eval(entry.Value)
		if err != nil {
			return nil, err
		}

		if err := m.Set(value.Copy(k), value.Copy(v)); err != nil {
			return nil, typeError(entry.Key, "%v", err)
		}
	}

	return m, nil
}

// structLit builds a struct by field name. Fields left out are None.
func (e *evaluator) structLit(x *ast.StructLit) (value.Value, error) {
	d, ok := e.table.Structs[x.Name]
	if !ok {
		return nil, failf(diag.RuntimeUndefined, x, "Undefined struct `%s`", x.Name)
	}

	s := value.NewStruct(d.Name)
	for _, f := range d.Fields {
		s.Set(f.Name, value.None)
	}

	for _, f := range x.Fields {
		field := slices.IndexFunc(d.Fields, func(df *ast.Field) bool { return df.Name == f.Name })
		if field < 0 {
			return nil, typeError(f, "Struct `%s` has no field `%s`", d.Name, f.Name)
		}

		v, err := e.eval(f.Value)
		if err != nil {
			return nil, err
		}

		s.Set(f.Name, conform(d.Fields[field].Type, value.Copy(v)))
	}

	return s, nil
}

// bounds evaluates the integer bounds of a range.
func (e *evaluator) bounds(x *ast.RangeExpr) (start, end int64, err error) {
	var vs [2]value.Value

	for i, b := range []ast.Expr{x.Start, x.End} {
		if vs[i], err = e.eval(b); err != nil {
			return 0, 0, err
		}

		if _, ok := vs[i].(value.Int); !ok {
			return 0, 0, typeError(b, "Range bound must be int, got %s", vs[i].Type())
		}
	}

	return int64(vs[0].(value.Int)), int64(vs[1].(value.Int)), nil
}

// iterate evaluates the iterable of a for loop once. Ranges stay lazy;
// containers are iterated over a snapshot of their elements.
func (e *evaluator) iterate(x ast.Expr) (iter.Seq[value.Value], error) {
	v, err := e.eval(x)
	if err != nil {
		return nil, err
	}

	if r, ok := v.(*value.Range); ok {
		return func(yield func(value.Value) bool) {
			for i := range r.All() {
				if !yield(value.Int(i)) {
					return
				}
			}
		}, nil
	}

	elems, ok := value.Elements(v)
	if !ok {
		return nil, typeError(x, "Cannot iterate over %s", v.Type())
	}

	return slices.Values(slices.Clone(elems)), nil
}

func (e *evaluator) unary(x *ast.UnaryExpr) (value.Value, error) {
	v, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}

	if name, ok := unaryMethods[x.Op]; ok {
		if d, ok := e.table.Method(v.Type(), name); ok {
			return e.callFunc(x, d, v, nil)
		}
	}

	switch x.Op {
	case token.Minus:
		switch v := v.(type) {
		case value.Int:
			return -v, nil
		case value.Float:
			return -v, nil
		}
	case token.Not, token.Bang:
		return value.Bool(!value.Truthy(v)), nil
	case token.Tilde:
		if i, ok := v.(value.Int); ok {
			return ^i, nil
		}
	}

	return nil, typeError(x, "Unsupported operand type for %s: `%s`", x.Op, v.Type())
}
