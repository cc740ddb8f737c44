package ast

import "github.com/ardnew/tjlang/lang/token"

type (
	// IntLit is an integer literal.
	IntLit struct {
		Loc
		Value int64
		Raw   string
	}

	// FloatLit is a float literal.
	FloatLit struct {
		Loc
		Value float64
		Raw   string
	}

	// StringLit is a string literal.
	StringLit struct {
		Loc
		Value string
	}

	// BoolLit is true or false.
	BoolLit struct {
		Loc
		Value bool
	}

	// NoneLit is the None literal.
	NoneLit struct{ Loc }

	// BadExpr stands in for an expression that failed to parse.
	BadExpr struct{ Loc }

	// FStringPart is either literal text or an interpolated expression.
	FStringPart struct {
		Text string
		X    Expr
	}

	// FStringLit is an interpolated string: f"a{b}c".
	FStringLit struct {
		Loc
		Parts []FStringPart
	}

	// Ident is a name reference.
	Ident struct {
		Loc
		Name string
	}

	// ParenExpr is a parenthesized expression.
	ParenExpr struct {
		Loc
		X Expr
	}

	// UnaryExpr applies a prefix operator.
	UnaryExpr struct {
		Loc
		Op token.Kind
		X  Expr
	}

	// BinaryExpr applies an infix operator. Its span covers both operands.
	BinaryExpr struct {
		Loc
		Op token.Kind
		X  Expr
		Y  Expr
	}

	// AssignExpr stores Value into Target (an Ident, IndexExpr, or
	// MemberExpr).
	AssignExpr struct {
		Loc
		Target Expr
		Value  Expr
	}

	// CallExpr calls Fn with positional arguments.
	CallExpr struct {
		Loc
		Fn   Expr
		Args []Expr
	}

	// IndexExpr is X[Index].
	IndexExpr struct {
		Loc
		X     Expr
		Index Expr
	}

	// MemberExpr is X.Name.
	MemberExpr struct {
		Loc
		X       Expr
		Name    string
		NameLoc token.Span
	}

	// VecLit is [a, b, ...].
	VecLit struct {
		Loc
		Elems []Expr
	}

	// SetLit is {a, b, ...}; {} is the empty set.
	SetLit struct {
		Loc
		Elems []Expr
	}

	// MapEntry is one key: value pair of a MapLit.
	MapEntry struct {
		Key   Expr
		Value Expr
	}

	// MapLit is {k: v, ...}.
	MapLit struct {
		Loc
		Entries []MapEntry
	}

	// TupleLit is (a, b, ...) with at least two elements.
	TupleLit struct {
		Loc
		Elems []Expr
	}

	// FieldInit is one name: value pair of a StructLit.
	FieldInit struct {
		Loc
		Name  string
		Value Expr
	}

	// StructLit constructs a struct by field name. Both Name { f: v } and
	// Name(f: v) produce a StructLit.
	StructLit struct {
		Loc
		Name   string
		Fields []*FieldInit
	}

	// LambdaExpr is an anonymous function: |a: int, b| expr.
	LambdaExpr struct {
		Loc
		Params []*Param
		Body   Expr
	}

	// RangeExpr is a lazy integer range. Loop ranges come from the for-loop
	// operators $ and $=; the others from the literal forms .. and ..=.
	RangeExpr struct {
		Loc
		Start     Expr
		End       Expr
		Inclusive bool
		Loop      bool
	}

	// SpawnExpr evaluates X concurrently and yields a task handle.
	SpawnExpr struct {
		Loc
		X Expr
	}

	// IfExpr is an if statement in expression position. Its value is the
	// value of the last expression statement of the chosen branch.
	IfExpr struct {
		Loc
		Stmt *IfStmt
	}

	// MatchExpr is a match statement in expression position.
	MatchExpr struct {
		Loc
		Stmt *MatchStmt
	}
)

func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NoneLit) exprNode()    {}
func (*BadExpr) exprNode()    {}
func (*FStringLit) exprNode() {}
func (*Ident) exprNode()      {}
func (*ParenExpr) exprNode()  {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*AssignExpr) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*IndexExpr) exprNode()  {}
func (*MemberExpr) exprNode() {}
func (*VecLit) exprNode()     {}
func (*SetLit) exprNode()     {}
func (*MapLit) exprNode()     {}
func (*TupleLit) exprNode()   {}
func (*StructLit) exprNode()  {}
func (*LambdaExpr) exprNode() {}
func (*RangeExpr) exprNode()  {}
func (*SpawnExpr) exprNode()  {}
func (*IfExpr) exprNode()     {}
func (*MatchExpr) exprNode()  {}

// IsLiteral reports whether x is a scalar literal, optionally negated.
func IsLiteral(x Expr) bool {
	switch x := x.(type) {
	case *IntLit, *FloatLit, *StringLit, *BoolLit, *NoneLit:
		return true
	case *UnaryExpr:
		if x.Op == token.Minus {
			switch x.X.(type) {
			case *IntLit, *FloatLit:
				return true
			}
		}
	}

	return false
}

// IntValue returns the value of an integer literal, optionally negated or
// parenthesized.
func IntValue(x Expr) (int64, bool) {
	switch x := x.(type) {
	case *IntLit:
		return x.Value, true
	case *ParenExpr:
		return IntValue(x.X)
	case *UnaryExpr:
		if x.Op == token.Minus {
			if v, ok := IntValue(x.X); ok {
				return -v, true
			}
		}
	}

	return 0, false
}
