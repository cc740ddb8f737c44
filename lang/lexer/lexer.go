package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/tjlang/lang/token"
)

// Tokenize converts source text into a token stream terminated by a single
// EOF token. It never fails: characters that cannot start a token and
// unterminated strings are returned as Illegal tokens for the parser to
// report.
func Tokenize(src string) []token.Token {
	return TokenizeFrom(src, token.Pos{Line: 1, Col: 1})
}

// TokenizeFrom is like Tokenize but attributes spans as if src began at
// start. The parser uses it to re-lex interpolated string segments.
func TokenizeFrom(src string, start token.Pos) []token.Token {
	s := &scanner{
		src:  src,
		base: start.Offset,
		line: start.Line,
		col:  start.Col,
	}

	toks := make([]token.Token, 0, len(src)/4+1)

	for {
		tok := s.next()
		toks = append(toks, tok)

		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// scanner holds the lexer state.
type scanner struct {
	src  string
	base int
	pos  int
	line int
	col  int
	nl   bool
}

func (s *scanner) position() token.Pos {
	return token.Pos{Offset: s.base + s.pos, Line: s.line, Col: s.col}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() rune {
	if s.eof() {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])

	return r
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}

	return s.src[s.pos+n]
}

func (s *scanner) advance() rune {
	r, w := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += w

	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	return r
}

// skipWhitespaceAndComments consumes blanks and #-comments, recording
// whether a line break was crossed.
func (s *scanner) skipWhitespaceAndComments() {
	for !s.eof() {
		switch r := s.peek(); {
		case r == '\n':
			s.nl = true
			s.advance()
		case unicode.IsSpace(r):
			s.advance()
		case r == '#':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *scanner) next() token.Token {
	s.nl = false
	s.skipWhitespaceAndComments()

	start := s.position()
	startOff := s.pos

	emit := func(k token.Kind, lit string) token.Token {
		return token.Token{
			Kind:    k,
			Lit:     lit,
			Span:    token.Span{Start: start, End: s.position()},
			Newline: s.nl,
		}
	}

	if s.eof() {
		return emit(token.EOF, "")
	}

	r := s.peek()

	switch {
	case r == 'f' && s.peekAt(1) == '"':
		s.advance()
		s.advance()

		body, ok := s.scanString(true)
		if !ok {
			return emit(token.Illegal, s.src[startOff:s.pos])
		}

		return emit(token.FString, body)

	case isIdentStart(r):
		for !s.eof() && isIdentPart(s.peek()) {
			s.advance()
		}

		lit := s.src[startOff:s.pos]

		return emit(token.Lookup(lit), lit)

	case isDigit(r):
		kind := token.Int
		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}
		// A fractional part is mandatory for floats; "1." and "1..2" are ints.
		if s.peek() == '.' && isDigit(rune(s.peekAt(1))) {
			kind = token.Float
			s.advance()

			for !s.eof() && isDigit(s.peek()) {
				s.advance()
			}
		}

		return emit(kind, s.src[startOff:s.pos])

	case r == '"':
		s.advance()

		body, ok := s.scanString(false)
		if !ok {
			return emit(token.Illegal, s.src[startOff:s.pos])
		}

		return emit(token.String, body)
	}

	if k, n := s.operator(); k != token.Illegal {
		for range n {
			s.advance()
		}

		return emit(k, s.src[startOff:s.pos])
	}

	s.advance()

	return emit(token.Illegal, s.src[startOff:s.pos])
}

// scanString consumes the body of a string literal after its opening quote
// and returns the text between the quotes. Interpolated strings allow
// nested quotes inside {...} segments.
func (s *scanner) scanString(interp bool) (string, bool) {
	begin := s.pos
	depth := 0
	inner := false

	for !s.eof() {
		switch r := s.peek(); {
		case r == '\n':
			return "", false
		case r == '"' && inner:
			inner = false
		case r == '"' && depth == 0:
			body := s.src[begin:s.pos]
			s.advance()

			return body, true
		case r == '"':
			inner = true
		case interp && r == '{' && !inner:
			depth++
		case interp && r == '}' && !inner && depth > 0:
			depth--
		}

		s.advance()
	}

	return "", false
}

// operator matches the longest operator at the current position.
func (s *scanner) operator() (token.Kind, int) {
	c0, c1, c2 := s.peekAt(0), s.peekAt(1), s.peekAt(2)

	switch c0 {
	case '*':
		if c1 == '*' {
			return token.Power, 2
		}

		return token.Star, 1
	case '=':
		if c1 == '=' {
			return token.Eq, 2
		}

		return token.Assign, 1
	case '!':
		if c1 == '=' {
			return token.NotEq, 2
		}

		return token.Bang, 1
	case '<':
		switch c1 {
		case '=':
			return token.LessEq, 2
		case '<':
			return token.Shl, 2
		}

		return token.Less, 1
	case '>':
		switch c1 {
		case '=':
			return token.GreaterEq, 2
		case '>':
			return token.Shr, 2
		}

		return token.Greater, 1
	case '-':
		if c1 == '>' {
			return token.Arrow, 2
		}

		return token.Minus, 1
	case '.':
		if c1 == '.' {
			if c2 == '=' {
				return token.DotDotEq, 3
			}

			return token.DotDot, 2
		}

		return token.Dot, 1
	case '$':
		if c1 == '=' {
			return token.DollarEq, 2
		}

		return token.Dollar, 1
	}

	if k, ok := single[c0]; ok {
		return k, 1
	}

	return token.Illegal, 0
}

var single = map[byte]token.Kind{
	'+': token.Plus,
	'/': token.Slash,
	'%': token.Percent,
	'~': token.Tilde,
	'&': token.Amp,
	'|': token.Pipe,
	'^': token.Caret,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'?': token.Question,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'{': token.LBrace,
	'}': token.RBrace,
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }
