package ast

import (
	"strings"

	"github.com/ardnew/tjlang/lang/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Span() token.Span
}

// Unit is a top-level program unit: a declaration or a statement.
type Unit interface {
	Node
	unitNode()
}

// Stmt is a statement. Every statement may also appear at top level.
type Stmt interface {
	Unit
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Type is a type expression.
type Type interface {
	Node
	typeNode()
}

// Pattern is a match arm pattern.
type Pattern interface {
	Node
	patternNode()
}

// Loc records the source span of a node.
type Loc struct {
	Range token.Span `json:"span" yaml:"span"`
}

// Span returns the recorded span.
func (l Loc) Span() token.Span { return l.Range }

// At returns a Loc for the given span.
func At(s token.Span) Loc { return Loc{Range: s} }

// File is a parsed compilation unit.
type File struct {
	Name  string
	Units []Unit
}

// Span returns the span from the first to the last unit.
func (f *File) Span() token.Span {
	if len(f.Units) == 0 {
		return token.Span{}
	}

	return f.Units[0].Span().To(f.Units[len(f.Units)-1].Span())
}

// Module returns the dotted path of the file's mod declaration, if any.
func (f *File) Module() string {
	for _, u := range f.Units {
		if m, ok := u.(*ModDecl); ok {
			return strings.Join(m.Path, ".")
		}
	}

	return ""
}
