package ast

// VarDecl declares and initializes a variable: name: T = value
type VarDecl struct {
	Loc
	Name  string
	Type  Type
	Value Expr
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Loc
	X Expr
}

// Block is a braced statement list with its own scope.
type Block struct {
	Loc
	Stmts []Stmt
}

// IfStmt is a conditional. Else is nil, a *Block, or an *IfStmt for elif.
type IfStmt struct {
	Loc
	Cond Expr
	Then *Block
	Else Stmt
}

// WhileStmt tests Cond before each iteration.
type WhileStmt struct {
	Loc
	Cond Expr
	Body *Block
}

// DoWhileStmt runs Body once before testing Cond.
type DoWhileStmt struct {
	Loc
	Body *Block
	Cond Expr
}

// ForInStmt is the iterator-style loop: for (x: T | iterable) { ... }
type ForInStmt struct {
	Loc
	Var     string
	VarType Type
	Iter    Expr
	Body    *Block
}

// ForStmt is the C-style loop: for (init; cond; post) { ... }
// Any clause may be nil.
type ForStmt struct {
	Loc
	Init Stmt
	Cond Expr
	Post Expr
	Body *Block
}

// MatchArm is one case of a match: pattern [if guard]: { body }
type MatchArm struct {
	Loc
	Pattern Pattern
	Guard   Expr
	Body    *Block
}

// MatchStmt selects the first arm whose pattern and guard accept Subject.
type MatchStmt struct {
	Loc
	Subject Expr
	Arms    []*MatchArm
}

// ReturnStmt leaves the enclosing function. Value may be nil.
type ReturnStmt struct {
	Loc
	Value Expr
}

// BreakStmt exits the innermost loop.
type BreakStmt struct{ Loc }

// ContinueStmt starts the next iteration of the innermost loop.
type ContinueStmt struct{ Loc }

// PassStmt does nothing.
type PassStmt struct{ Loc }

// RaiseStmt raises Value as an error payload.
type RaiseStmt struct {
	Loc
	Value Expr
}

func (*VarDecl) unitNode()      {}
func (*ExprStmt) unitNode()     {}
func (*Block) unitNode()        {}
func (*IfStmt) unitNode()       {}
func (*WhileStmt) unitNode()    {}
func (*DoWhileStmt) unitNode()  {}
func (*ForInStmt) unitNode()    {}
func (*ForStmt) unitNode()      {}
func (*MatchStmt) unitNode()    {}
func (*ReturnStmt) unitNode()   {}
func (*BreakStmt) unitNode()    {}
func (*ContinueStmt) unitNode() {}
func (*PassStmt) unitNode()     {}
func (*RaiseStmt) unitNode()    {}

func (*VarDecl) stmtNode()      {}
func (*ExprStmt) stmtNode()     {}
func (*Block) stmtNode()        {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*ForInStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*MatchStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*PassStmt) stmtNode()     {}
func (*RaiseStmt) stmtNode()    {}
