package parser

import (
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/lexer"
	"github.com/ardnew/tjlang/lang/token"
)

// Parse parses a complete source file. It always returns a tree; syntax
// errors are reported in the diagnostic list and the affected statements
// are skipped up to the next statement or declaration boundary.
func Parse(name, src string) (*ast.File, diag.List) {
	p := newParser(lexer.Tokenize(src))
	f := p.file()
	f.Name = name

	return f, p.diags
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (ast.Expr, diag.List) {
	p := newParser(lexer.Tokenize(src))
	x := p.exprOrAssign()

	if !p.at(token.EOF) {
		p.errorf(diag.UnexpectedToken, p.tok().Span, "Unexpected %s after expression", p.tok())
	}

	return x, p.diags
}

// parser holds the parser state.
type parser struct {
	toks  []token.Token
	pos   int
	diags diag.List

	// quiet suppresses cascading errors until the next resynchronization;
	// errAt is the token index of the error that set it.
	quiet bool
	errAt int

	// nest counts open brackets in the current expression. Inside brackets
	// a line break does not end the expression.
	nest int

	// noStruct disables Name { ... } struct literals while parsing
	// conditions that are followed by a block.
	noStruct bool
}

func newParser(toks []token.Token) *parser {
	return &parser{toks: toks}
}

func (p *parser) tok() token.Token { return p.toks[p.pos] }

func (p *parser) peek(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) at(k token.Kind) bool { return p.toks[p.pos].Kind == k }

// next consumes the current token and returns it. EOF is never consumed.
func (p *parser) next() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}

	return t
}

// got consumes the current token if it has kind k.
func (p *parser) got(k token.Kind) bool {
	if p.at(k) {
		p.next()

		return true
	}

	return false
}

// want consumes a token of kind k or reports an error without consuming.
func (p *parser) want(k token.Kind) token.Token {
	if p.at(k) {
		return p.next()
	}

	p.unexpected("`" + k.String() + "`")

	return token.Token{Kind: k, Span: token.Span{Start: p.tok().Span.Start, End: p.tok().Span.Start}}
}

// start returns the position of the current token.
func (p *parser) start() token.Pos { return p.tok().Span.Start }

// span returns the span from start to the end of the last consumed token.
func (p *parser) span(start token.Pos) token.Span {
	end := start
	if p.pos > 0 {
		end = p.toks[p.pos-1].Span.End
	}

	if end.Before(start) {
		end = start
	}

	return token.Span{Start: start, End: end}
}

// lineBreak reports whether the current token starts a new line outside of
// any bracket, which ends the expression being parsed.
func (p *parser) lineBreak() bool { return p.nest == 0 && p.tok().Newline }

func (p *parser) errorf(code diag.Code, span token.Span, format string, args ...any) *diag.Diagnostic {
	if p.quiet {
		return &diag.Diagnostic{}
	}

	p.quiet = true
	p.errAt = p.pos

	return p.diags.Errorf(code, span, format, args...)
}

// unexpected reports the current token where want was expected. Illegal
// tokens are reported with their lexical code instead.
func (p *parser) unexpected(want string) {
	t := p.tok()
	if t.Kind == token.Illegal {
		p.illegal()

		return
	}

	p.errorf(diag.UnexpectedToken, t.Span, "Unexpected %s, expected %s", t, want)
}

func (p *parser) illegal() {
	t := p.tok()

	if len(t.Lit) > 0 && (t.Lit[0] == '"' || (len(t.Lit) > 1 && t.Lit[:2] == `f"`)) {
		d := p.errorf(diag.UnterminatedString, t.Span, "Unterminated string literal")
		d.Note = "Strings must close on the line where they begin"

		return
	}

	p.errorf(diag.InvalidCharacter, t.Span, "Invalid character `%s`", t.Lit)
}

// sync skips tokens to the next statement boundary after an error: a
// semicolon, a closing brace, the end of input, or a token that begins a
// new line.
func (p *parser) sync() {
	if !p.quiet {
		return
	}

	for {
		switch t := p.tok(); {
		case t.Kind == token.EOF, t.Kind == token.RBrace:
			p.quiet = false

			return
		case t.Kind == token.Semicolon:
			p.next()
			p.quiet = false

			return
		case t.Newline && p.pos > p.errAt:
			p.quiet = false

			return
		}

		p.next()
	}
}

// endStmt checks that a statement is properly terminated.
func (p *parser) endStmt() {
	switch t := p.tok(); {
	case p.got(token.Semicolon):
	case t.Kind == token.EOF, t.Kind == token.RBrace, t.Newline:
	default:
		p.unexpected("end of statement")
	}
}

func (p *parser) file() *ast.File {
	f := new(ast.File)

	for !p.at(token.EOF) {
		if p.got(token.Semicolon) {
			continue
		}

		if p.at(token.RBrace) {
			p.errorf(diag.UnexpectedToken, p.tok().Span, "Unexpected `}` at top level")
			p.quiet = false
			p.next()

			continue
		}

		before := p.pos

		if u := p.unit(); u != nil {
			f.Units = append(f.Units, u)
		}

		p.sync()

		if p.pos == before {
			p.next()
		}
	}

	return f
}
