package interp

import (
	"context"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/value"
)

// flow is the control signal a statement leaves behind. Raised signals
// travel as errors.
type flow int

const (
	flowNext flow = iota
	flowBreak
	flowContinue
	flowReturn
)

// evaluator is the state of one thread of evaluation. The interpreter and
// every spawned task each own one.
type evaluator struct {
	in      *Interpreter
	ctx     context.Context
	table   *decl.Table
	globals *Env
	env     *Env
	depth   int

	// ret is the value of the last return statement.
	ret value.Value
	// last is the value of the last expression statement, the value of a
	// block in expression position.
	last value.Value
}

// scoped runs fn in a new scope nested in the current one.
func (e *evaluator) scoped(fn func() (flow, error)) (flow, error) {
	saved := e.env
	e.env = NewEnv(saved)

	defer func() { e.env = saved }()

	return fn()
}

func (e *evaluator) block(b *ast.Block) (flow, error) {
	return e.scoped(func() (flow, error) { return e.stmts(b.Stmts) })
}

func (e *evaluator) stmts(ss []ast.Stmt) (flow, error) {
	e.last = value.None

	for _, s := range ss {
		f, err := e.exec(s)
		if err != nil || f != flowNext {
			return f, err
		}
	}

	return flowNext, nil
}

func (e *evaluator) exec(s ast.Stmt) (flow, error) {
	if err := e.ctx.Err(); err != nil {
		return flowNext, err
	}

	switch s := s.(type) {
	case *ast.ExprStmt:
		v, err := e.eval(s.X)
		if err != nil {
			return flowNext, err
		}

		e.last = v

		return flowNext, nil
	case *ast.Block:
		return e.block(s)
	case *ast.IfStmt:
		return e.ifStmt(s)
	case *ast.MatchStmt:
		return e.match(s)
	}

	f, err := e.control(s)
	e.last = value.None

	return f, err
}

// control executes the statements that have no value.
func (e *evaluator) control(s ast.Stmt) (flow, error) {
	switch s := s.(type) {
	case *ast.VarDecl:
		v, err := e.eval(s.Value)
		if err != nil {
			return flowNext, err
		}

		e.env.Define(s.Name, conform(s.Type, value.Copy(v)))
	case *ast.WhileStmt:
		return e.while(s.Cond, s.Body, false)
	case *ast.DoWhileStmt:
		return e.while(s.Cond, s.Body, true)
	case *ast.ForInStmt:
		return e.forIn(s)
	case *ast.ForStmt:
		return e.scoped(func() (flow, error) { return e.forStmt(s) })
	case *ast.ReturnStmt:
		e.ret = value.None

		if s.Value != nil {
			v, err := e.eval(s.Value)
			if err != nil {
				return flowNext, err
			}

			e.ret = v
		}

		return flowReturn, nil
	case *ast.BreakStmt:
		return flowBreak, nil
	case *ast.ContinueStmt:
		return flowContinue, nil
	case *ast.PassStmt:
	case *ast.RaiseStmt:
		v, err := e.eval(s.Value)
		if err != nil {
			return flowNext, err
		}

		return flowNext, raise(s, v)
	}

	return flowNext, nil
}

func (e *evaluator) ifStmt(s *ast.IfStmt) (flow, error) {
	c, err := e.eval(s.Cond)
	if err != nil {
		return flowNext, err
	}

	switch {
	case value.Truthy(c):
		return e.block(s.Then)
	case s.Else != nil:
		return e.exec(s.Else)
	}

	e.last = value.None

	return flowNext, nil
}

// loop interprets the flow left by one iteration of a loop body. done
// reports whether the loop ends.
func loop(f flow) (out flow, done bool) {
	switch f {
	case flowBreak:
		return flowNext, true
	case flowReturn:
		return flowReturn, true
	}

	return flowNext, false
}

func (e *evaluator) while(cond ast.Expr, body *ast.Block, atLeastOnce bool) (flow, error) {
	for first := true; ; first = false {
		if !first || !atLeastOnce {
			c, err := e.eval(cond)
			if err != nil {
				return flowNext, err
			}

			if !value.Truthy(c) {
				return flowNext, nil
			}
		}

		f, err := e.block(body)
		if err != nil {
			return flowNext, err
		}

		if out, done := loop(f); done {
			return out, nil
		}
	}
}

func (e *evaluator) forStmt(s *ast.ForStmt) (flow, error) {
	if s.Init != nil {
		if _, err := e.exec(s.Init); err != nil {
			return flowNext, err
		}
	}

	for {
		if s.Cond != nil {
			c, err := e.eval(s.Cond)
			if err != nil {
				return flowNext, err
			}

			if !value.Truthy(c) {
				return flowNext, nil
			}
		}

		f, err := e.block(s.Body)
		if err != nil {
			return flowNext, err
		}

		if out, done := loop(f); done {
			return out, nil
		}

		if s.Post != nil {
			if _, err := e.eval(s.Post); err != nil {
				return flowNext, err
			}
		}
	}
}

// forIn evaluates the iterable once, then runs the body in a fresh scope
// per element.
func (e *evaluator) forIn(s *ast.ForInStmt) (flow, error) {
	seq, err := e.iterate(s.Iter)
	if err != nil {
		return flowNext, err
	}

	for elem := range seq {
		f, err := e.scoped(func() (flow, error) {
			e.env.Define(s.Var, conform(s.VarType, value.Copy(elem)))

			return e.block(s.Body)
		})
		if err != nil {
			return flowNext, err
		}

		if out, done := loop(f); done {
			return out, nil
		}
	}

	return flowNext, nil
}

func (e *evaluator) match(s *ast.MatchStmt) (flow, error) {
	subject, err := e.eval(s.Subject)
	if err != nil {
		return flowNext, err
	}

	for _, arm := range s.Arms {
		var chosen bool

		f, err := e.scoped(func() (flow, error) {
			if !e.bind(arm.Pattern, subject) {
				return flowNext, nil
			}

			if arm.Guard != nil {
				g, err := e.eval(arm.Guard)
				if err != nil || !value.Truthy(g) {
					return flowNext, err
				}
			}

			chosen = true

			return e.block(arm.Body)
		})
		if err != nil || chosen {
			return f, err
		}
	}

	return flowNext, failf(diag.RuntimeNonExhaustive, s,
		"No match arm matches %s", value.Repr(subject))
}
