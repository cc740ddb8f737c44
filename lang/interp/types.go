package interp

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/value"
)

// conform adapts v to a declared type where the language converts
// implicitly: an int stored in a float slot becomes a float.
func conform(typ ast.Type, v value.Value) value.Value {
	p, ok := typ.(*ast.PrimitiveType)
	if !ok || p.Name != ast.TypeFloat {
		return v
	}

	if i, ok := v.(value.Int); ok {
		return value.Float(i)
	}

	return v
}

// is reports whether v belongs to typ. Type parameters and any accept
// every value; container element types are not inspected.
func (e *evaluator) is(v value.Value, typ ast.Type) bool {
	t := e.table

	switch typ := t.Resolve(typ).(type) {
	case nil:
		return true
	case *ast.PrimitiveType:
		return typ.Name == ast.TypeAny || typ.Name == v.Type()
	case *ast.NamedType:
		switch {
		case typ.Name == v.Type():
			return true
		case t.Kind(typ.Name) == decl.Interface:
			return t.Implements(v.Type(), typ.Name)
		case t.Kind(typ.Name) != decl.None:
			return false
		case typ.Name == decl.ResultType || typ.Name == decl.OptionType:
			return false
		}

		// An undeclared name is a type parameter.
		return true
	case *ast.UnionType:
		for _, u := range typ.Types {
			if e.is(v, u) {
				return true
			}
		}

		return false
	case *ast.OptionType:
		switch v.(type) {
		case value.NoneType, value.Option:
			return true
		}

		return e.is(v, typ.Elem)
	case *ast.TupleType:
		tup, ok := v.(*value.Tuple)
		if !ok || len(tup.Elems) != len(typ.Elems) {
			return false
		}

		for i, el := range tup.Elems {
			if !e.is(el, typ.Elems[i]) {
				return false
			}
		}

		return true
	}

	return decl.TypeTag(typ) == v.Type()
}
