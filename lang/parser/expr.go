package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/lexer"
	"github.com/ardnew/tjlang/lang/token"
)

// Binary operator precedence, lowest first. Assignment, unary, power, and
// postfix operators are handled by their own productions.
const (
	precLowest = iota
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var binaryPrec = map[token.Kind]int{
	token.Or:        precOr,
	token.And:       precAnd,
	token.Pipe:      precBitOr,
	token.Caret:     precBitXor,
	token.Amp:       precBitAnd,
	token.Eq:        precEquality,
	token.NotEq:     precEquality,
	token.Less:      precRelational,
	token.Greater:   precRelational,
	token.LessEq:    precRelational,
	token.GreaterEq: precRelational,
	token.Shl:       precShift,
	token.Shr:       precShift,
	token.Plus:      precAdditive,
	token.Minus:     precAdditive,
	token.Star:      precMultiplicative,
	token.Slash:     precMultiplicative,
	token.Percent:   precMultiplicative,
}

// exprOrAssign parses an expression that may be an assignment. Assignment
// is right-associative and only valid in statement position.
func (p *parser) exprOrAssign() ast.Expr {
	x := p.binary(precLowest)

	if !p.at(token.Assign) {
		return x
	}

	switch x.(type) {
	case *ast.Ident, *ast.IndexExpr, *ast.MemberExpr:
	default:
		p.errorf(diag.InvalidAssignmentTarget, x.Span(), "Invalid assignment target")
	}

	p.next()

	a := &ast.AssignExpr{Target: x, Value: p.exprOrAssign()}
	a.Loc = ast.At(x.Span().To(a.Value.Span()))

	return a
}

// expr parses an expression without assignment.
func (p *parser) expr() ast.Expr { return p.binary(precLowest) }

// binary parses a left-associative chain of operators binding tighter than
// prec.
func (p *parser) binary(prec int) ast.Expr {
	x := p.unary()

	for {
		oprec, ok := binaryPrec[p.tok().Kind]
		if !ok || oprec <= prec || p.lineBreak() {
			return x
		}

		op := p.next().Kind
		y := p.binary(oprec)

		b := &ast.BinaryExpr{Op: op, X: x, Y: y}
		b.Loc = ast.At(x.Span().To(y.Span()))
		x = b
	}
}

func (p *parser) unary() ast.Expr {
	// A negated integer literal may start a literal range: -3..0
	if p.at(token.Minus) && p.peek(1).Kind == token.Int && isRangeOp(p.peek(2)) {
		start := p.start()
		p.next()

		u := &ast.UnaryExpr{Op: token.Minus, X: p.intLit(p.next())}
		u.Loc = ast.At(p.span(start))

		return p.literalRange(u)
	}

	switch p.tok().Kind {
	case token.Minus, token.Not, token.Bang, token.Tilde:
		start := p.start()
		op := p.next().Kind
		u := &ast.UnaryExpr{Op: op, X: p.unary()}
		u.Loc = ast.At(p.span(start))

		return u
	}

	return p.power()
}

// power parses the right-associative ** operator, which binds tighter than
// a unary prefix on its left: -2 ** 2 is -(2 ** 2).
func (p *parser) power() ast.Expr {
	x := p.postfix(p.primary())

	if p.at(token.Power) && !p.lineBreak() {
		p.next()

		y := p.unary()
		b := &ast.BinaryExpr{Op: token.Power, X: x, Y: y}
		b.Loc = ast.At(x.Span().To(y.Span()))

		return b
	}

	return x
}

func (p *parser) postfix(x ast.Expr) ast.Expr {
	for {
		switch {
		case p.at(token.LParen) && !p.tok().Newline:
			x = p.call(x)

		case p.at(token.LBracket) && !p.tok().Newline:
			p.next()
			leave := p.open()
			idx := p.expr()
			leave()
			p.want(token.RBracket)

			ix := &ast.IndexExpr{X: x, Index: idx}
			ix.Loc = ast.At(p.span(x.Span().Start))
			x = ix

		case p.at(token.Dot) && !p.lineBreak():
			dot := p.next()

			if p.lineBreak() {
				if !p.quiet {
					p.errorf(diag.UnexpectedToken, dot.Span, "Expected member name after `.`")
					p.errAt = p.pos - 1
				}

				return x
			}

			name := p.want(token.Ident)

			m := &ast.MemberExpr{X: x, Name: name.Lit, NameLoc: name.Span}
			m.Loc = ast.At(p.span(x.Span().Start))
			x = m

		case p.at(token.LBrace) && p.structLitAhead(x):
			x = p.structBody(x.(*ast.Ident))

		default:
			return x
		}
	}
}

// structLitAhead reports whether x { begins a struct literal: x is a
// capitalized name on the same line and the brace is followed by } or by
// a field name and a colon.
func (p *parser) structLitAhead(x ast.Expr) bool {
	id, ok := x.(*ast.Ident)
	if !ok || p.noStruct || p.tok().Newline || !isTypeName(id.Name) {
		return false
	}

	switch p.peek(1).Kind {
	case token.RBrace:
		return true
	case token.Ident:
		return p.peek(2).Kind == token.Colon
	}

	return false
}

// open enters a bracketed subexpression, where line breaks do not end the
// expression and struct literals are allowed again. The returned function
// restores the previous state.
func (p *parser) open() func() {
	noStruct := p.noStruct
	p.noStruct = false
	p.nest++

	return func() {
		p.nest--
		p.noStruct = noStruct
	}
}

func isTypeName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}

	return false
}

func (p *parser) structBody(name *ast.Ident) ast.Expr {
	p.want(token.LBrace)
	leave := p.open()

	s := &ast.StructLit{Name: name.Name}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		s.Fields = append(s.Fields, p.fieldInit())

		if !p.got(token.Comma) {
			break
		}
	}

	leave()
	p.want(token.RBrace)
	s.Loc = ast.At(p.span(name.Span().Start))

	return s
}

func (p *parser) fieldInit() *ast.FieldInit {
	start := p.start()
	f := &ast.FieldInit{Name: p.want(token.Ident).Lit}
	p.want(token.Colon)
	f.Value = p.expr()
	f.Loc = ast.At(p.span(start))

	return f
}

// call parses an argument list. A list of name: value pairs after a plain
// name is a struct literal.
func (p *parser) call(fn ast.Expr) ast.Expr {
	p.want(token.LParen)
	defer p.open()()

	if id, ok := fn.(*ast.Ident); ok && p.at(token.Ident) && p.peek(1).Kind == token.Colon {
		s := &ast.StructLit{Name: id.Name}

		for !p.at(token.RParen) && !p.at(token.EOF) {
			s.Fields = append(s.Fields, p.fieldInit())

			if !p.got(token.Comma) {
				break
			}
		}

		p.want(token.RParen)
		s.Loc = ast.At(p.span(fn.Span().Start))

		return s
	}

	c := &ast.CallExpr{Fn: fn}

	for !p.at(token.RParen) && !p.at(token.EOF) {
		c.Args = append(c.Args, p.expr())

		if !p.got(token.Comma) {
			break
		}
	}

	p.want(token.RParen)
	c.Loc = ast.At(p.span(fn.Span().Start))

	return c
}

func (p *parser) primary() ast.Expr {
	start := p.start()
	t := p.tok()

	switch t.Kind {
	case token.Int:
		lit := p.intLit(p.next())

		if isRangeOp(p.tok()) {
			return p.literalRange(lit)
		}

		return lit

	case token.Float:
		p.next()

		v, _ := strconv.ParseFloat(t.Lit, 64)
		lit := &ast.FloatLit{Value: v, Raw: t.Lit}
		lit.Loc = ast.At(t.Span)

		return lit

	case token.String:
		p.next()

		lit := &ast.StringLit{Value: t.Lit}
		lit.Loc = ast.At(t.Span)

		return lit

	case token.FString:
		p.next()

		return p.fstring(t)

	case token.True, token.False:
		p.next()

		lit := &ast.BoolLit{Value: t.Kind == token.True}
		lit.Loc = ast.At(t.Span)

		return lit

	case token.None:
		p.next()

		return &ast.NoneLit{Loc: ast.At(t.Span)}

	case token.Ident:
		p.next()

		id := &ast.Ident{Name: t.Lit}
		id.Loc = ast.At(t.Span)

		return id

	case token.LParen:
		p.next()
		leave := p.open()

		x := p.expr()

		if p.at(token.Comma) {
			tup := &ast.TupleLit{Elems: []ast.Expr{x}}

			for p.got(token.Comma) && !p.at(token.RParen) {
				tup.Elems = append(tup.Elems, p.expr())
			}

			leave()
			p.want(token.RParen)
			tup.Loc = ast.At(p.span(start))

			return tup
		}

		leave()
		p.want(token.RParen)

		paren := &ast.ParenExpr{X: x}
		paren.Loc = ast.At(p.span(start))

		return paren

	case token.LBracket:
		p.next()
		leave := p.open()

		v := new(ast.VecLit)

		for !p.at(token.RBracket) && !p.at(token.EOF) {
			v.Elems = append(v.Elems, p.expr())

			if !p.got(token.Comma) {
				break
			}
		}

		leave()
		p.want(token.RBracket)
		v.Loc = ast.At(p.span(start))

		return v

	case token.LBrace:
		return p.collection()

	case token.Pipe:
		return p.lambda()

	case token.Spawn:
		p.next()

		s := &ast.SpawnExpr{X: p.expr()}
		s.Loc = ast.At(p.span(start))

		return s

	case token.If:
		s := p.ifStmt()

		return &ast.IfExpr{Loc: s.Loc, Stmt: s}

	case token.Match:
		s := p.matchStmt()

		return &ast.MatchExpr{Loc: s.Loc, Stmt: s}

	case token.Illegal:
		p.illegal()
		p.next()

		return &ast.BadExpr{Loc: ast.At(t.Span)}
	}

	p.errorf(diag.ExpectedExpression, t.Span, "Expected expression, found %s", t)

	return &ast.BadExpr{Loc: ast.At(token.Span{Start: t.Span.Start, End: t.Span.Start})}
}

func (p *parser) intLit(t token.Token) *ast.IntLit {
	v, err := strconv.ParseInt(t.Lit, 10, 64)
	if err != nil {
		p.errorf(diag.UnexpectedToken, t.Span, "Integer literal %s is out of range", t.Lit)
	}

	lit := &ast.IntLit{Value: v, Raw: t.Lit}
	lit.Loc = ast.At(t.Span)

	return lit
}

func isRangeOp(t token.Token) bool {
	return (t.Kind == token.DotDot || t.Kind == token.DotDotEq) && !t.Newline
}

// literalRange parses the .. or ..= suffix of an integer literal. The end
// bound must also be an integer literal, optionally negated.
func (p *parser) literalRange(start ast.Expr) ast.Expr {
	inclusive := p.next().Kind == token.DotDotEq

	var end ast.Expr

	es := p.start()
	neg := p.got(token.Minus)

	if t := p.tok(); t.Kind == token.Int {
		lit := p.intLit(p.next())
		end = lit

		if neg {
			u := &ast.UnaryExpr{Op: token.Minus, X: lit}
			u.Loc = ast.At(p.span(es))
			end = u
		}
	} else {
		p.errorf(diag.InvalidRangeBound, t.Span, "Range bounds must be integer literals").
			Note = "Use `$` or `$=` in a for loop header for computed bounds"
		end = &ast.BadExpr{Loc: ast.At(t.Span)}
	}

	r := &ast.RangeExpr{Start: start, End: end, Inclusive: inclusive}
	r.Loc = ast.At(p.span(start.Span().Start))

	return r
}

// collection parses {} (empty set), {a, b} (set), or {k: v} (map).
func (p *parser) collection() ast.Expr {
	start := p.start()
	p.want(token.LBrace)
	defer p.open()()

	if p.got(token.RBrace) {
		return &ast.SetLit{Loc: ast.At(p.span(start))}
	}

	first := p.expr()

	if p.got(token.Colon) {
		m := &ast.MapLit{Entries: []ast.MapEntry{{Key: first, Value: p.expr()}}}

		for p.got(token.Comma) && !p.at(token.RBrace) {
			k := p.expr()
			p.want(token.Colon)
			m.Entries = append(m.Entries, ast.MapEntry{Key: k, Value: p.expr()})
		}

		p.want(token.RBrace)
		m.Loc = ast.At(p.span(start))

		return m
	}

	s := &ast.SetLit{Elems: []ast.Expr{first}}

	for p.got(token.Comma) && !p.at(token.RBrace) {
		s.Elems = append(s.Elems, p.expr())
	}

	p.want(token.RBrace)
	s.Loc = ast.At(p.span(start))

	return s
}

// lambda parses |a: int, b| body.
func (p *parser) lambda() ast.Expr {
	start := p.start()
	p.want(token.Pipe)

	l := new(ast.LambdaExpr)

	for !p.at(token.Pipe) && !p.at(token.EOF) {
		ps := p.start()
		param := &ast.Param{Name: p.want(token.Ident).Lit}

		if p.got(token.Colon) {
			param.Type = p.optType()
		}

		param.Loc = ast.At(p.span(ps))
		l.Params = append(l.Params, param)

		if !p.got(token.Comma) {
			break
		}
	}

	p.want(token.Pipe)
	l.Body = p.expr()
	l.Loc = ast.At(p.span(start))

	return l
}

// fstring splits an interpolated string into text and expression parts,
// re-lexing each {...} segment at its original source position.
func (p *parser) fstring(t token.Token) ast.Expr {
	lit := &ast.FStringLit{Loc: ast.At(t.Span)}

	// The body starts after the f" prefix.
	pos := token.Pos{
		Offset: t.Span.Start.Offset + 2,
		Line:   t.Span.Start.Line,
		Col:    t.Span.Start.Col + 2,
	}

	body := t.Lit

	var text strings.Builder

	for i := 0; i < len(body); {
		if body[i] != '{' {
			r, w := utf8.DecodeRuneInString(body[i:])

			text.WriteRune(r)
			i += w
			pos.Offset += w
			pos.Col++

			continue
		}

		end := matchBrace(body, i)
		if end < 0 {
			p.errorf(diag.UnterminatedInterp, t.Span, "Unterminated interpolation in string literal")

			return lit
		}

		if text.Len() > 0 {
			lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
			text.Reset()
		}

		inner := body[i+1 : end]
		innerPos := token.Pos{Offset: pos.Offset + 1, Line: pos.Line, Col: pos.Col + 1}

		sub := newParser(lexer.TokenizeFrom(inner, innerPos))
		sub.nest = 1

		x := sub.expr()
		if !sub.at(token.EOF) {
			sub.unexpected("`}`")
		}

		p.diags.Add(sub.diags...)

		if len(sub.diags) > 0 {
			p.quiet = true
			p.errAt = p.pos - 1
		}

		lit.Parts = append(lit.Parts, ast.FStringPart{X: x})

		consumed := body[i : end+1]
		pos.Offset += len(consumed)
		pos.Col += utf8.RuneCountInString(consumed)
		i = end + 1
	}

	if text.Len() > 0 {
		lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
	}

	return lit
}

// matchBrace returns the index of the brace closing the one at open,
// skipping nested quoted strings, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	quoted := false

	for i := open; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
