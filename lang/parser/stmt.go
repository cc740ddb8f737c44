package parser

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/token"
)

func (p *parser) stmt() ast.Stmt {
	start := p.start()

	switch p.tok().Kind {
	case token.LBrace:
		return p.block()

	case token.If:
		return p.ifStmt()

	case token.While:
		p.next()
		s := &ast.WhileStmt{Cond: p.cond()}
		s.Body = p.block()
		s.Loc = ast.At(p.span(start))

		return s

	case token.Do:
		p.next()
		s := &ast.DoWhileStmt{Body: p.block()}
		p.want(token.While)
		s.Cond = p.expr()
		s.Loc = ast.At(p.span(start))
		p.endStmt()

		return s

	case token.For:
		return p.forStmt()

	case token.Match:
		return p.matchStmt()

	case token.Return:
		p.next()
		s := new(ast.ReturnStmt)

		if !p.atStmtEnd() {
			s.Value = p.expr()
		}

		s.Loc = ast.At(p.span(start))
		p.endStmt()

		return s

	case token.Raise:
		p.next()
		s := &ast.RaiseStmt{Value: p.expr()}
		s.Loc = ast.At(p.span(start))
		p.endStmt()

		return s

	case token.Break:
		p.next()
		s := &ast.BreakStmt{Loc: ast.At(p.span(start))}
		p.endStmt()

		return s

	case token.Continue:
		p.next()
		s := &ast.ContinueStmt{Loc: ast.At(p.span(start))}
		p.endStmt()

		return s

	case token.Pass:
		p.next()
		s := &ast.PassStmt{Loc: ast.At(p.span(start))}
		p.endStmt()

		return s

	case token.Ident:
		if p.peek(1).Kind == token.Colon {
			s := p.varDecl()
			p.endStmt()

			return s
		}
	}

	s := &ast.ExprStmt{X: p.exprOrAssign()}
	s.Loc = ast.At(p.span(start))
	p.endStmt()

	return s
}

// atStmtEnd reports whether the current token cannot continue a statement.
func (p *parser) atStmtEnd() bool {
	switch p.tok().Kind {
	case token.EOF, token.Semicolon, token.RBrace:
		return true
	}

	return p.tok().Newline
}

// block parses a braced statement list.
func (p *parser) block() *ast.Block {
	start := p.start()
	b := new(ast.Block)

	p.want(token.LBrace)

	// Statements inside a block are delimited by line breaks even when the
	// block itself sits inside brackets, as in a lambda argument.
	nest, noStruct := p.nest, p.noStruct
	p.nest, p.noStruct = 0, false

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.got(token.Semicolon) {
			continue
		}

		before := p.pos

		switch p.tok().Kind {
		case token.Def, token.Type, token.Enum, token.Interface, token.Impl,
			token.Mod, token.Import, token.Export:
			p.errorf(diag.UnexpectedToken, p.tok().Span,
				"Unexpected %s, declarations are only allowed at top level", p.tok())
		default:
			b.Stmts = append(b.Stmts, p.stmt())
		}

		p.sync()

		if p.pos == before {
			p.next()
		}
	}

	p.nest, p.noStruct = nest, noStruct

	p.want(token.RBrace)
	b.Loc = ast.At(p.span(start))

	return b
}

// cond parses a condition that is immediately followed by a block.
func (p *parser) cond() ast.Expr {
	saved := p.noStruct
	p.noStruct = true
	x := p.expr()
	p.noStruct = saved

	return x
}

func (p *parser) ifStmt() *ast.IfStmt {
	start := p.start()
	p.next()

	s := &ast.IfStmt{Cond: p.cond()}
	s.Then = p.block()

	switch {
	case p.at(token.Elif):
		s.Else = p.ifStmt()
	case p.at(token.Else) && p.peek(1).Kind == token.If:
		p.next()
		s.Else = p.ifStmt()
	case p.got(token.Else):
		s.Else = p.block()
	}

	s.Loc = ast.At(p.span(start))

	return s
}

// forStmt parses both loop forms. A semicolon at the top level of the
// parenthesized header selects the C style.
func (p *parser) forStmt() ast.Stmt {
	start := p.start()
	p.next()
	p.want(token.LParen)

	if p.cStyleHeader() {
		s := new(ast.ForStmt)

		if !p.at(token.Semicolon) {
			if p.at(token.Ident) && p.peek(1).Kind == token.Colon {
				s.Init = p.varDecl()
			} else {
				x := p.exprOrAssign()
				es := &ast.ExprStmt{X: x}
				es.Loc = ast.At(x.Span())
				s.Init = es
			}
		}

		p.want(token.Semicolon)

		if !p.at(token.Semicolon) {
			s.Cond = p.expr()
		}

		p.want(token.Semicolon)

		if !p.at(token.RParen) {
			s.Post = p.exprOrAssign()
		}

		p.want(token.RParen)
		s.Body = p.block()
		s.Loc = ast.At(p.span(start))

		return s
	}

	s := &ast.ForInStmt{Var: p.want(token.Ident).Lit}
	if p.got(token.Colon) {
		s.VarType = p.optType()
	}

	p.want(token.Pipe)
	p.nest++

	iter := p.expr()

	if p.at(token.Dollar) || p.at(token.DollarEq) {
		inclusive := p.next().Kind == token.DollarEq
		end := p.expr()
		r := &ast.RangeExpr{Start: iter, End: end, Inclusive: inclusive, Loop: true}
		r.Loc = ast.At(iter.Span().To(end.Span()))
		iter = r
	}

	p.nest--

	s.Iter = iter

	p.want(token.RParen)
	s.Body = p.block()
	s.Loc = ast.At(p.span(start))

	return s
}

// cStyleHeader scans ahead to the parenthesis closing the loop header.
func (p *parser) cStyleHeader() bool {
	depth := 0

	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RBracket, token.RBrace:
			depth--
		case token.RParen:
			if depth == 0 {
				return false
			}

			depth--
		case token.Semicolon:
			if depth == 0 {
				return true
			}
		case token.EOF:
			return false
		}
	}

	return false
}

func (p *parser) matchStmt() *ast.MatchStmt {
	start := p.start()
	p.next()

	s := &ast.MatchStmt{Subject: p.cond()}

	p.want(token.LBrace)

	nest := p.nest
	p.nest = 0

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.got(token.Comma) || p.got(token.Semicolon) {
			continue
		}

		before := p.pos
		as := p.start()

		arm := &ast.MatchArm{Pattern: p.pattern()}
		if p.got(token.If) {
			arm.Guard = p.expr()
		}

		p.want(token.Colon)
		arm.Body = p.block()
		arm.Loc = ast.At(p.span(as))
		s.Arms = append(s.Arms, arm)

		p.sync()

		if p.pos == before {
			p.next()
		}
	}

	p.nest = nest

	p.want(token.RBrace)
	s.Loc = ast.At(p.span(start))

	return s
}
