package interp

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/stdlib"
	"github.com/ardnew/tjlang/lang/value"
)

func (e *evaluator) call(c *ast.CallExpr) (value.Value, error) {
	if m, ok := c.Fn.(*ast.MemberExpr); ok {
		return e.methodCall(c, m)
	}

	if id, ok := c.Fn.(*ast.Ident); ok {
		if _, bound := e.env.Lookup(id.Name); !bound {
			return e.namedCall(c, id.Name)
		}
	}

	fn, err := e.eval(c.Fn)
	if err != nil {
		return nil, err
	}

	args, err := e.evalAll(c.Args)
	if err != nil {
		return nil, err
	}

	return e.callValue(c, fn, args)
}

// namedCall resolves f(args) for a name with no binding: a declared
// function, a struct constructor, an enum variant, then a built-in.
func (e *evaluator) namedCall(c *ast.CallExpr, name string) (value.Value, error) {
	args, err := e.evalAll(c.Args)
	if err != nil {
		return nil, err
	}

	t := e.table

	if d, ok := t.Func(name); ok {
		return e.callFunc(c, d, nil, args)
	}

	if d, ok := t.Structs[name]; ok {
		if len(args) != len(d.Fields) {
			return nil, typeError(c, "Struct `%s` expects %d field(s), but %d were provided",
				name, len(d.Fields), len(args))
		}

		s := value.NewStruct(d.Name)
		for i, f := range d.Fields {
			s.Set(f.Name, conform(f.Type, args[i]))
		}

		return s, nil
	}

	if ref, ok := t.Variant(name); ok {
		return construct(c, ref.Enum.Name, ref, args)
	}

	if fn, ok := builtins[name]; ok {
		return fn(e, c, args)
	}

	return nil, failf(diag.RuntimeUndefined, c.Fn, "Undefined function `%s`", name)
}

// methodCall evaluates x.m(args): a host function, an enum constructor,
// or a method dispatched on the receiver.
func (e *evaluator) methodCall(c *ast.CallExpr, m *ast.MemberExpr) (value.Value, error) {
	fn, ok, err := e.qualified(m)
	if err != nil {
		return nil, err
	}

	if ok {
		args, err := e.evalAll(c.Args)
		if err != nil {
			return nil, err
		}

		return e.callValue(c, fn, args)
	}

	recv, err := e.eval(m.X)
	if err != nil {
		return nil, err
	}

	args, err := e.evalAll(c.Args)
	if err != nil {
		return nil, err
	}

	return e.invoke(c, m, recv, args)
}

// invoke dispatches a method call on recv: a user impl method for its type,
// then the built-in method table, then a callable struct field.
func (e *evaluator) invoke(c *ast.CallExpr, m *ast.MemberExpr, recv value.Value, args []value.Value) (value.Value, error) {
	if mod, ok := recv.(*value.Module); ok {
		return e.host(c, mod.Name, m.Name, args)
	}

	if d, ok := e.table.Method(recv.Type(), m.Name); ok {
		return e.callFunc(c, d, recv, args)
	}

	if fn, ok := lookupMethod(recv, m.Name); ok {
		return fn(e, c, recv, args)
	}

	if s, ok := recv.(*value.Struct); ok {
		if f, ok := s.Fields[m.Name]; ok {
			return e.callValue(c, f, args)
		}
	}

	return nil, failf(diag.RuntimeUndefined, m, "Type `%s` has no method `%s`", recv.Type(), m.Name)
}

func (e *evaluator) callValue(c *ast.CallExpr, fn value.Value, args []value.Value) (value.Value, error) {
	switch fn := fn.(type) {
	case *value.Func:
		return e.callFunc(c, fn.Decl, fn.Recv, args)
	case *value.Closure:
		return e.callClosure(c, fn, args)
	case *value.Builtin:
		return e.callBuiltin(c, fn, args)
	}

	return nil, typeError(c, "Value of type `%s` is not callable", fn.Type())
}

func (e *evaluator) callBuiltin(c *ast.CallExpr, b *value.Builtin, args []value.Value) (value.Value, error) {
	if b.Recv != nil {
		fn, ok := lookupMethod(b.Recv, b.Name)
		if !ok {
			return nil, failf(diag.RuntimeUndefined, c, "Type `%s` has no method `%s`", b.Recv.Type(), b.Name)
		}

		return fn(e, c, b.Recv, args)
	}

	if owner, name, ok := strings.Cut(b.Name, "."); ok {
		if stdlib.IsModule(owner) {
			return e.host(c, owner, name, args)
		}

		if ref, ok := e.table.EnumVariant(owner, name); ok {
			return construct(c, owner, ref, args)
		}
	}

	if fn, ok := builtins[b.Name]; ok {
		return fn(e, c, args)
	}

	return nil, failf(diag.RuntimeUndefined, c, "Undefined function `%s`", b.Name)
}

// enter increments the call depth, failing past the limit.
func (e *evaluator) enter(at ast.Node) error {
	if e.depth >= e.in.maxDepth {
		err := failf(diag.RuntimeDepthExceeded, at, "Maximum call depth of %d exceeded", e.in.maxDepth)
		err.fatal = true

		return err
	}

	e.depth++

	return nil
}

// callFunc calls a declared function or method. The body runs in a scope
// nested in the globals, with self bound to recv by reference and every
// other parameter bound to a copy of its argument.
func (e *evaluator) callFunc(at ast.Node, d *ast.FuncDecl, recv value.Value, args []value.Value) (value.Value, error) {
	if len(args) != d.Arity() {
		return nil, typeError(at, "Function `%s` expects %d argument(s), but %d were provided",
			d.Name, d.Arity(), len(args))
	}

	if err := e.enter(at); err != nil {
		return nil, err
	}

	savedEnv, savedRet, savedLast := e.env, e.ret, e.last

	defer func() {
		e.env, e.ret, e.last = savedEnv, savedRet, savedLast
		e.depth--
	}()

	e.env = NewEnv(e.globals)
	params := d.Params

	if d.IsMethod() {
		if recv == nil {
			return nil, typeError(at, "Method `%s` requires a receiver", d.Name)
		}

		e.env.Define("self", recv)
		params = params[1:]
	}

	for i, p := range params {
		e.env.Define(p.Name, conform(p.Type, value.Copy(args[i])))
	}

	e.in.logger.TraceContext(e.ctx, "call",
		slog.String("func", d.Name),
		slog.Int("depth", e.depth))

	v, err := e.body(d.Body)

	var raised *Error
	if errors.As(err, &raised) && !raised.fatal && e.table.ReturnsResult(d) {
		return value.Err(raised.Payload), nil
	}

	return v, err
}

// body runs a function body. Its value is the returned value, or the value
// of the last expression statement when the body ends without return.
func (e *evaluator) body(b *ast.Block) (value.Value, error) {
	if b == nil {
		return value.None, nil
	}

	e.ret = value.None

	f, err := e.stmts(b.Stmts)
	if err != nil {
		return nil, err
	}

	switch f {
	case flowReturn:
		return e.ret, nil
	case flowBreak, flowContinue:
		return nil, failf(diag.RuntimeValueError, b, "break or continue outside of a loop")
	}

	return e.last, nil
}

func (e *evaluator) callClosure(at ast.Node, fn *value.Closure, args []value.Value) (value.Value, error) {
	l := fn.Lambda
	if len(args) != len(l.Params) {
		return nil, typeError(at, "Lambda expects %d argument(s), but %d were provided",
			len(l.Params), len(args))
	}

	if err := e.enter(at); err != nil {
		return nil, err
	}

	saved := e.env

	defer func() {
		e.env = saved
		e.depth--
	}()

	parent, _ := fn.Env.(*Env)
	if parent == nil {
		parent = e.globals
	}

	e.env = NewEnv(parent)
	for i, p := range l.Params {
		e.env.Define(p.Name, conform(p.Type, value.Copy(args[i])))
	}

	return e.eval(l.Body)
}

// host calls a host module function.
func (e *evaluator) host(c *ast.CallExpr, mod, name string, args []value.Value) (value.Value, error) {
	v, err := stdlib.Invoke(&stdlib.Call{
		Context: e.ctx,
		Module:  mod,
		Name:    name,
		Args:    args,
		Stdout:  e.in.stdout,
		Stderr:  e.in.stderr,
		Stdin:   e.in.stdin,
		Logger:  e.in.logger,
	})
	if err != nil {
		return nil, hostError(c, err)
	}

	return v, nil
}

// construct builds an enum variant from positional payload values.
func construct(at ast.Node, enum string, ref decl.VariantRef, args []value.Value) (value.Value, error) {
	if len(args) != len(ref.Variant.Fields) {
		return nil, typeError(at, "Variant `%s.%s` expects %d value(s), but %d were provided",
			enum, ref.Variant.Name, len(ref.Variant.Fields), len(args))
	}

	payload := make([]value.Value, len(args))
	for i, a := range args {
		payload[i] = conform(ref.Variant.Fields[i], a)
	}

	return &value.Enum{
		Name:    ref.Enum.Name,
		Variant: ref.Variant.Name,
		Index:   ref.Index,
		Payload: payload,
	}, nil
}
