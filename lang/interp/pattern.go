package interp

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/value"
)

// bind matches v against p, defining the pattern's bindings in the current
// scope. Bindings made by a failed match are left for the caller to
// discard with the scope.
func (e *evaluator) bind(p ast.Pattern, v value.Value) bool {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.LiteralPattern:
		lit, err := e.eval(p.Value)

		return err == nil && value.Equal(lit, v)
	case *ast.BindingPattern:
		if p.Type == nil {
			if ref, ok := e.unitVariant(p.Name); ok {
				en, ok := v.(*value.Enum)

				return ok && en.Name == ref.Enum.Name && en.Variant == ref.Variant.Name
			}
		} else if !e.is(v, p.Type) {
			return false
		}

		e.define(p.Name, v)

		return true
	case *ast.CapabilityPattern:
		for _, iface := range p.Interfaces {
			if !e.table.Implements(v.Type(), decl.TypeTag(iface)) {
				return false
			}
		}

		e.define(p.Name, v)

		return true
	case *ast.ConstructorPattern:
		return e.bindConstructor(p, v)
	case *ast.TuplePattern:
		t, ok := v.(*value.Tuple)
		if !ok || len(t.Elems) != len(p.Elems) {
			return false
		}

		return e.bindAll(p.Elems, t.Elems)
	}

	return false
}

func (e *evaluator) define(name string, v value.Value) {
	if name != "_" {
		e.env.Define(name, v)
	}
}

func (e *evaluator) bindAll(ps []ast.Pattern, vs []value.Value) bool {
	for i, p := range ps {
		if !e.bind(p, vs[i]) {
			return false
		}
	}

	return true
}

// unitVariant resolves a bare pattern name to a payload-free enum variant,
// unless a binding of the same name shadows it.
func (e *evaluator) unitVariant(name string) (decl.VariantRef, bool) {
	if _, bound := e.env.Lookup(name); bound {
		return decl.VariantRef{}, false
	}

	ref, ok := e.table.Variant(name)
	if !ok || len(ref.Variant.Fields) > 0 {
		return decl.VariantRef{}, false
	}

	return ref, true
}

func (e *evaluator) bindConstructor(p *ast.ConstructorPattern, v value.Value) bool {
	name := p.Name()

	if len(p.Path) == 1 {
		switch name {
		case "Ok", "Err":
			r, ok := v.(value.Result)
			if !ok || r.Ok != (name == "Ok") {
				return false
			}

			return e.bindPayload(p.Args, r.Val)
		case "Some":
			o, ok := v.(value.Option)
			if !ok || !o.Some {
				return false
			}

			return e.bindPayload(p.Args, o.Val)
		}
	}

	switch v := v.(type) {
	case *value.Enum:
		if v.Variant != name {
			return false
		}

		if len(p.Path) > 1 && p.Path[len(p.Path)-2] != v.Name {
			return false
		}

		return len(p.Args) == len(v.Payload) && e.bindAll(p.Args, v.Payload)
	case *value.Struct:
		if v.Name != name || len(p.Args) > len(v.Names) {
			return false
		}

		fields := make([]value.Value, len(p.Args))
		for i := range p.Args {
			fields[i] = v.Fields[v.Names[i]]
		}

		return e.bindAll(p.Args, fields)
	}

	return false
}

// bindPayload matches the single payload of Ok, Err, or Some.
func (e *evaluator) bindPayload(args []ast.Pattern, v value.Value) bool {
	switch len(args) {
	case 0:
		return true
	case 1:
		return e.bind(args[0], v)
	}

	return false
}
