package parser

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/token"
)

// unit parses one top-level program unit.
func (p *parser) unit() ast.Unit {
	switch p.tok().Kind {
	case token.Mod:
		start := p.start()
		p.next()
		path := p.path()
		d := &ast.ModDecl{Path: path}
		d.Loc = ast.At(p.span(start))
		p.endStmt()

		return d

	case token.Import:
		return p.importDecl()

	case token.Export:
		start := p.start()
		p.next()

		var inner ast.Unit

		switch p.tok().Kind {
		case token.Def, token.Type, token.Enum, token.Interface, token.Impl:
			inner = p.decl()
		case token.Ident:
			if p.peek(1).Kind == token.Colon {
				inner = p.varDecl()

				break
			}

			fallthrough
		default:
			p.unexpected("declaration after `export`")

			return nil
		}

		d := &ast.ExportDecl{Decl: inner}
		d.Loc = ast.At(p.span(start))

		return d

	case token.Def, token.Type, token.Enum, token.Interface, token.Impl:
		return p.decl()
	}

	return p.stmt()
}

func (p *parser) decl() ast.Unit {
	switch p.tok().Kind {
	case token.Def:
		return p.funcDecl()
	case token.Type:
		return p.typeDecl()
	case token.Enum:
		return p.enumDecl()
	case token.Interface:
		return p.interfaceDecl()
	case token.Impl:
		return p.implDecl()
	}

	p.unexpected("declaration")

	return nil
}

// path parses a dotted identifier path: a.b.c
func (p *parser) path() []string {
	path := []string{p.want(token.Ident).Lit}

	for p.at(token.Dot) && p.peek(1).Kind == token.Ident {
		p.next()
		path = append(path, p.next().Lit)
	}

	return path
}

func (p *parser) importDecl() *ast.ImportDecl {
	start := p.start()
	p.next()

	d := &ast.ImportDecl{Path: p.path()}

	switch {
	case p.at(token.Dot) && p.peek(1).Kind == token.LBrace:
		p.next()
		p.next()

		for !p.at(token.RBrace) && !p.at(token.EOF) {
			d.Items = append(d.Items, p.want(token.Ident).Lit)

			if !p.got(token.Comma) {
				break
			}
		}

		p.want(token.RBrace)
	case p.got(token.As):
		d.Alias = p.want(token.Ident).Lit
	}

	d.Loc = ast.At(p.span(start))
	p.endStmt()

	return d
}

// generics parses an optional type parameter list: <T, U: Implements [I]>
func (p *parser) generics() []*ast.GenericParam {
	if !p.got(token.Less) {
		return nil
	}

	var out []*ast.GenericParam

	for !p.at(token.Greater) && !p.at(token.EOF) {
		start := p.start()
		g := &ast.GenericParam{Name: p.want(token.Ident).Lit}

		if p.got(token.Colon) {
			g.Bounds = p.implementsList()
		}

		g.Loc = ast.At(p.span(start))
		out = append(out, g)

		if !p.got(token.Comma) {
			break
		}
	}

	p.closeAngle()

	return out
}

// implementsList parses: Implements [I, J]
func (p *parser) implementsList() []ast.Type {
	p.want(token.Implements)
	p.want(token.LBracket)

	var out []ast.Type

	for !p.at(token.RBracket) && !p.at(token.EOF) {
		out = append(out, p.typ())

		if !p.got(token.Comma) {
			break
		}
	}

	p.want(token.RBracket)

	return out
}

// params parses a parenthesized parameter list. When allowSelf is set a
// bare self parameter is accepted.
func (p *parser) params(allowSelf bool) []*ast.Param {
	p.want(token.LParen)
	p.nest++

	var out []*ast.Param

	for !p.at(token.RParen) && !p.at(token.EOF) {
		start := p.start()
		name := p.want(token.Ident)
		param := &ast.Param{Name: name.Lit}

		switch {
		case p.got(token.Colon):
			param.Type = p.typ()
		case name.Lit == "self" && allowSelf && len(out) == 0:
		default:
			p.unexpected("`:` and parameter type")
		}

		param.Loc = ast.At(p.span(start))
		out = append(out, param)

		if !p.got(token.Comma) {
			break
		}
	}

	p.nest--
	p.want(token.RParen)

	return out
}

func (p *parser) funcDecl() *ast.FuncDecl {
	start := p.start()
	p.want(token.Def)

	d := &ast.FuncDecl{Name: p.want(token.Ident).Lit}
	d.Generics = p.generics()
	d.Params = p.params(true)

	if p.got(token.Arrow) {
		d.Result = p.typ()
	}

	d.Body = p.block()
	d.Loc = ast.At(p.span(start))

	return d
}

// typeDecl parses a struct declaration or a type alias.
func (p *parser) typeDecl() ast.Unit {
	start := p.start()
	p.next()

	name := p.want(token.Ident).Lit
	generics := p.generics()

	if p.got(token.Assign) {
		d := &ast.AliasDecl{Name: name, Generics: generics, Type: p.typ()}
		d.Loc = ast.At(p.span(start))
		p.endStmt()

		return d
	}

	d := &ast.StructDecl{Name: name, Generics: generics}

	p.want(token.LBrace)
	p.members(func() {
		fs := p.start()
		f := &ast.Field{Name: p.want(token.Ident).Lit}
		p.want(token.Colon)
		f.Type = p.typ()
		f.Loc = ast.At(p.span(fs))
		d.Fields = append(d.Fields, f)
	})
	p.want(token.RBrace)

	d.Loc = ast.At(p.span(start))

	return d
}

// members parses brace-enclosed members separated by commas, semicolons,
// or line breaks, up to but not including the closing brace.
func (p *parser) members(member func()) {
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos

		member()

		if !p.got(token.Comma) && !p.got(token.Semicolon) &&
			!p.at(token.RBrace) && !p.tok().Newline {
			p.unexpected("`,` or `}`")
		}

		p.sync()

		if p.pos == before {
			p.next()
		}
	}
}

func (p *parser) enumDecl() *ast.EnumDecl {
	start := p.start()
	p.next()

	d := &ast.EnumDecl{Name: p.want(token.Ident).Lit}
	d.Generics = p.generics()

	p.want(token.LBrace)
	p.members(func() {
		vs := p.start()
		v := &ast.Variant{Name: p.want(token.Ident).Lit}

		if p.got(token.LParen) {
			for !p.at(token.RParen) && !p.at(token.EOF) {
				v.Fields = append(v.Fields, p.typ())

				if !p.got(token.Comma) {
					break
				}
			}

			p.want(token.RParen)
		}

		v.Loc = ast.At(p.span(vs))
		d.Variants = append(d.Variants, v)
	})
	p.want(token.RBrace)

	d.Loc = ast.At(p.span(start))

	return d
}

func (p *parser) interfaceDecl() *ast.InterfaceDecl {
	start := p.start()
	p.next()

	d := &ast.InterfaceDecl{Name: p.want(token.Ident).Lit}
	d.Generics = p.generics()

	if p.got(token.Extends) {
		for {
			d.Extends = append(d.Extends, p.typ())

			if !p.got(token.Comma) {
				break
			}
		}
	}

	p.want(token.LBrace)
	p.members(func() {
		ms := p.start()
		p.got(token.Def)

		m := &ast.MethodSig{Name: p.want(token.Ident).Lit}
		m.Params = p.params(true)

		if p.got(token.Arrow) {
			m.Result = p.typ()
		}

		m.Loc = ast.At(p.span(ms))
		d.Methods = append(d.Methods, m)
	})
	p.want(token.RBrace)

	d.Loc = ast.At(p.span(start))

	return d
}

func (p *parser) implDecl() *ast.ImplDecl {
	start := p.start()
	p.next()

	d := &ast.ImplDecl{Target: p.typ()}
	if p.got(token.For) {
		d.Interface = d.Target
		d.Target = p.typ()
	}

	p.want(token.LBrace)

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos

		if p.at(token.Def) {
			d.Methods = append(d.Methods, p.funcDecl())
		} else {
			p.errorf(diag.UnexpectedToken, p.tok().Span,
				"Unexpected %s in impl block, expected `def`", p.tok())
		}

		p.got(token.Semicolon)
		p.sync()

		if p.pos == before {
			p.next()
		}
	}

	p.want(token.RBrace)
	d.Loc = ast.At(p.span(start))

	return d
}

func (p *parser) varDecl() *ast.VarDecl {
	start := p.start()

	d := &ast.VarDecl{Name: p.want(token.Ident).Lit}
	p.want(token.Colon)
	d.Type = p.typ()
	p.want(token.Assign)
	d.Value = p.expr()
	d.Loc = ast.At(p.span(start))

	return d
}
