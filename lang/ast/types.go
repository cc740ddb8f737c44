package ast

// Primitive type names.
const (
	TypeInt   = "int"
	TypeFloat = "float"
	TypeBool  = "bool"
	TypeStr   = "str"
	TypeAny   = "any"
)

// IsPrimitive reports whether name is a primitive type name.
func IsPrimitive(name string) bool {
	switch name {
	case TypeInt, TypeFloat, TypeBool, TypeStr, TypeAny:
		return true
	}

	return false
}

type (
	// PrimitiveType is int, float, bool, str, or any.
	PrimitiveType struct {
		Loc
		Name string
	}

	// NamedType refers to a declared type, with optional generic arguments.
	NamedType struct {
		Loc
		Name string
		Args []Type
	}

	// UnionType is A | B | ...
	UnionType struct {
		Loc
		Types []Type
	}

	// OptionType is ?T or Option<T>.
	OptionType struct {
		Loc
		Elem Type
	}

	// FunctionType is (A, B) -> R.
	FunctionType struct {
		Loc
		Params []Type
		Result Type
	}

	// VecType is [T].
	VecType struct {
		Loc
		Elem Type
	}

	// SetType is {T} or Set<T>.
	SetType struct {
		Loc
		Elem Type
	}

	// MapType is {K: V} or Map<K, V>.
	MapType struct {
		Loc
		Key   Type
		Value Type
	}

	// TupleType is (A, B, ...).
	TupleType struct {
		Loc
		Elems []Type
	}

	// ResultType is Result<T, E>.
	ResultType struct {
		Loc
		Ok  Type
		Err Type
	}
)

func (*PrimitiveType) typeNode() {}
func (*NamedType) typeNode()     {}
func (*UnionType) typeNode()     {}
func (*OptionType) typeNode()    {}
func (*FunctionType) typeNode()  {}
func (*VecType) typeNode()       {}
func (*SetType) typeNode()       {}
func (*MapType) typeNode()       {}
func (*TupleType) typeNode()     {}
func (*ResultType) typeNode()    {}
