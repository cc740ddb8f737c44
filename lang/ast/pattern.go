package ast

type (
	// LiteralPattern matches by value equality.
	LiteralPattern struct {
		Loc
		Value Expr
	}

	// WildcardPattern (_) matches anything and binds nothing.
	WildcardPattern struct{ Loc }

	// BindingPattern binds the scrutinee to Name. A non-nil Type restricts
	// the match to values of that dynamic type.
	BindingPattern struct {
		Loc
		Name string
		Type Type
	}

	// CapabilityPattern binds values whose type implements every listed
	// interface: name: Implements [I, J]
	CapabilityPattern struct {
		Loc
		Name       string
		Interfaces []Type
	}

	// ConstructorPattern matches an enum variant or struct by name and
	// destructures its payload positionally. Path has one element (Ok,
	// Circle) or two (Shape.Circle).
	ConstructorPattern struct {
		Loc
		Path []string
		Args []Pattern
	}

	// TuplePattern destructures a tuple.
	TuplePattern struct {
		Loc
		Elems []Pattern
	}
)

// Name returns the last path element.
func (p *ConstructorPattern) Name() string {
	if len(p.Path) == 0 {
		return ""
	}

	return p.Path[len(p.Path)-1]
}

func (*LiteralPattern) patternNode()     {}
func (*WildcardPattern) patternNode()    {}
func (*BindingPattern) patternNode()     {}
func (*CapabilityPattern) patternNode()  {}
func (*ConstructorPattern) patternNode() {}
func (*TuplePattern) patternNode()       {}
