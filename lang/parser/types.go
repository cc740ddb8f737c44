package parser

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/token"
)

// typ parses a union of option types: A | ?B | C
func (p *parser) typ() ast.Type {
	start := p.start()
	first := p.optType()

	if !p.at(token.Pipe) {
		return first
	}

	u := &ast.UnionType{Types: []ast.Type{first}}
	for p.got(token.Pipe) {
		u.Types = append(u.Types, p.optType())
	}

	u.Loc = ast.At(p.span(start))

	return u
}

// optType parses a type with an optional ? prefix. The prefix applies to
// the whole following type, including a function type: ?(int) -> str.
func (p *parser) optType() ast.Type {
	start := p.start()

	if p.got(token.Question) {
		o := &ast.OptionType{Elem: p.optType()}
		o.Loc = ast.At(p.span(start))

		return o
	}

	return p.primaryType()
}

func (p *parser) primaryType() ast.Type {
	start := p.start()
	t := p.tok()

	switch t.Kind {
	case token.Ident:
		p.next()

		if ast.IsPrimitive(t.Lit) {
			return &ast.PrimitiveType{Loc: ast.At(t.Span), Name: t.Lit}
		}

		args := p.typeArgs()

		var out ast.Type

		switch {
		case t.Lit == "Result" && len(args) == 2:
			out = &ast.ResultType{Ok: args[0], Err: args[1]}
		case t.Lit == "Option" && len(args) == 1:
			out = &ast.OptionType{Elem: args[0]}
		case t.Lit == "Map" && len(args) == 2:
			out = &ast.MapType{Key: args[0], Value: args[1]}
		case t.Lit == "Set" && len(args) == 1:
			out = &ast.SetType{Elem: args[0]}
		default:
			out = &ast.NamedType{Name: t.Lit, Args: args}
		}

		setLoc(out, p.span(start))

		return out

	case token.LBracket:
		p.next()

		v := &ast.VecType{Elem: p.typ()}
		p.want(token.RBracket)
		v.Loc = ast.At(p.span(start))

		return v

	case token.LBrace:
		p.next()

		elem := p.typ()

		if p.got(token.Colon) {
			m := &ast.MapType{Key: elem, Value: p.typ()}
			p.want(token.RBrace)
			m.Loc = ast.At(p.span(start))

			return m
		}

		s := &ast.SetType{Elem: elem}
		p.want(token.RBrace)
		s.Loc = ast.At(p.span(start))

		return s

	case token.LParen:
		p.next()

		var elems []ast.Type

		trailing := false

		for !p.at(token.RParen) && !p.at(token.EOF) {
			elems = append(elems, p.typ())
			trailing = false

			if !p.got(token.Comma) {
				break
			}

			trailing = true
		}

		p.want(token.RParen)

		if p.got(token.Arrow) {
			f := &ast.FunctionType{Params: elems, Result: p.typ()}
			f.Loc = ast.At(p.span(start))

			return f
		}

		switch {
		case len(elems) == 1 && !trailing:
			return elems[0]
		case len(elems) == 0:
			p.errorf(diag.ExpectedType, p.span(start), "Empty tuple type")
		}

		tt := &ast.TupleType{Elems: elems}
		tt.Loc = ast.At(p.span(start))

		return tt

	case token.None:
		p.next()

		return &ast.OptionType{Loc: ast.At(t.Span), Elem: &ast.PrimitiveType{Loc: ast.At(t.Span), Name: ast.TypeAny}}
	}

	if t.Kind == token.Illegal {
		p.illegal()
	} else {
		p.errorf(diag.ExpectedType, t.Span, "Expected type, found %s", t)
	}

	return &ast.PrimitiveType{Loc: ast.At(token.Span{Start: t.Span.Start, End: t.Span.Start}), Name: ast.TypeAny}
}

func setLoc(t ast.Type, span token.Span) {
	switch t := t.(type) {
	case *ast.ResultType:
		t.Loc = ast.At(span)
	case *ast.OptionType:
		t.Loc = ast.At(span)
	case *ast.MapType:
		t.Loc = ast.At(span)
	case *ast.SetType:
		t.Loc = ast.At(span)
	case *ast.NamedType:
		t.Loc = ast.At(span)
	}
}

// typeArgs parses an optional generic argument list: <A, B>
func (p *parser) typeArgs() []ast.Type {
	if !p.at(token.Less) || p.tok().Newline {
		return nil
	}

	p.next()

	var args []ast.Type

	for !p.at(token.Greater) && !p.at(token.Shr) && !p.at(token.EOF) {
		args = append(args, p.typ())

		if !p.got(token.Comma) {
			break
		}
	}

	p.closeAngle()

	return args
}

// closeAngle consumes a closing >. A >> token closing two nested argument
// lists is split in place.
func (p *parser) closeAngle() {
	switch p.tok().Kind {
	case token.Greater:
		p.next()
	case token.Shr:
		t := &p.toks[p.pos]
		t.Kind = token.Greater
		t.Lit = ">"
		t.Span.Start.Col++
		t.Span.Start.Offset++
	default:
		p.unexpected("`>`")
	}
}

// pattern parses a match arm pattern.
func (p *parser) pattern() ast.Pattern {
	start := p.start()
	t := p.tok()

	switch t.Kind {
	case token.Int, token.Float, token.String, token.True, token.False, token.None:
		x := p.primary()

		return &ast.LiteralPattern{Value: x, Loc: ast.At(x.Span())}

	case token.Minus:
		if k := p.peek(1).Kind; k == token.Int || k == token.Float {
			x := p.unary()

			return &ast.LiteralPattern{Value: x, Loc: ast.At(x.Span())}
		}

	case token.LParen:
		p.next()

		var elems []ast.Pattern

		for !p.at(token.RParen) && !p.at(token.EOF) {
			elems = append(elems, p.pattern())

			if !p.got(token.Comma) {
				break
			}
		}

		p.want(token.RParen)

		if len(elems) == 1 {
			return elems[0]
		}

		tp := &ast.TuplePattern{Elems: elems}
		tp.Loc = ast.At(p.span(start))

		return tp

	case token.Ident:
		if t.Lit == "_" {
			p.next()

			return &ast.WildcardPattern{Loc: ast.At(t.Span)}
		}

		path := p.path()

		if p.at(token.LParen) {
			p.next()

			c := &ast.ConstructorPattern{Path: path}

			for !p.at(token.RParen) && !p.at(token.EOF) {
				c.Args = append(c.Args, p.pattern())

				if !p.got(token.Comma) {
					break
				}
			}

			p.want(token.RParen)
			c.Loc = ast.At(p.span(start))

			return c
		}

		if len(path) > 1 {
			return &ast.ConstructorPattern{Path: path, Loc: ast.At(p.span(start))}
		}

		// name: { ... } is a bare binding followed by the arm body.
		if p.at(token.Colon) && p.peek(1).Kind != token.LBrace {
			p.next()

			if p.at(token.Implements) {
				c := &ast.CapabilityPattern{Name: t.Lit, Interfaces: p.implementsList()}
				c.Loc = ast.At(p.span(start))

				return c
			}

			b := &ast.BindingPattern{Name: t.Lit, Type: p.typ()}
			b.Loc = ast.At(p.span(start))

			return b
		}

		return &ast.BindingPattern{Name: t.Lit, Loc: ast.At(t.Span)}
	}

	if t.Kind == token.Illegal {
		p.illegal()
	} else {
		p.errorf(diag.ExpectedPattern, t.Span, "Expected pattern, found %s", t)
	}

	return &ast.WildcardPattern{Loc: ast.At(t.Span)}
}
