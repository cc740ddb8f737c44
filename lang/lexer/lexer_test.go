package lexer

import (
	"testing"

	"github.com/ardnew/tjlang/lang/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "empty",
			input: "",
			want:  []token.Kind{token.EOF},
		},
		{
			name:  "var decl",
			input: "x: int = 10 / 0",
			want: []token.Kind{
				token.Ident, token.Colon, token.Ident, token.Assign,
				token.Int, token.Slash, token.Int, token.EOF,
			},
		},
		{
			name:  "float requires fraction",
			input: "1.5 1.x",
			want: []token.Kind{
				token.Float, token.Int, token.Dot, token.Ident, token.EOF,
			},
		},
		{
			name:  "literal range",
			input: "0..5 0..=5",
			want: []token.Kind{
				token.Int, token.DotDot, token.Int,
				token.Int, token.DotDotEq, token.Int, token.EOF,
			},
		},
		{
			name:  "loop ranges",
			input: "a $ b $= c",
			want: []token.Kind{
				token.Ident, token.Dollar, token.Ident, token.DollarEq,
				token.Ident, token.EOF,
			},
		},
		{
			name:  "keywords",
			input: "def match None Implements self",
			want: []token.Kind{
				token.Def, token.Match, token.None, token.Implements,
				token.Ident, token.EOF,
			},
		},
		{
			name:  "longest operator",
			input: "** -> <= >> != ==",
			want: []token.Kind{
				token.Power, token.Arrow, token.LessEq, token.Shr,
				token.NotEq, token.Eq, token.EOF,
			},
		},
		{
			name:  "comments skipped",
			input: "a # trailing comment\n# whole line\nb",
			want:  []token.Kind{token.Ident, token.Ident, token.EOF},
		},
		{
			name:  "invalid character",
			input: "a @ b",
			want:  []token.Kind{token.Ident, token.Illegal, token.Ident, token.EOF},
		},
		{
			name:  "unterminated string",
			input: "\"abc\nx",
			want:  []token.Kind{token.Illegal, token.Ident, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Tokenize(tt.input))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenize_Spans(t *testing.T) {
	toks := Tokenize("x: int = 10 / 0\n  héllo")

	tests := []struct {
		index     int
		lit       string
		startLine int
		startCol  int
		endCol    int
		newline   bool
	}{
		{index: 0, lit: "x", startLine: 1, startCol: 1, endCol: 2},
		{index: 4, lit: "10", startLine: 1, startCol: 10, endCol: 12},
		{index: 6, lit: "0", startLine: 1, startCol: 15, endCol: 16},
		{index: 7, lit: "h", startLine: 2, startCol: 3, endCol: 4, newline: true},
		{index: 8, lit: "é", startLine: 2, startCol: 4, endCol: 5},
	}

	for _, tt := range tests {
		tok := toks[tt.index]
		if tok.Lit != tt.lit {
			t.Errorf("token %d: lit %q, want %q", tt.index, tok.Lit, tt.lit)
		}

		if tok.Span.Start.Line != tt.startLine || tok.Span.Start.Col != tt.startCol {
			t.Errorf("token %d: start %v, want %d:%d",
				tt.index, tok.Span.Start, tt.startLine, tt.startCol)
		}

		if tok.Span.End.Col != tt.endCol {
			t.Errorf("token %d: end col %d, want %d", tt.index, tok.Span.End.Col, tt.endCol)
		}

		if tok.Newline != tt.newline {
			t.Errorf("token %d: newline %v, want %v", tt.index, tok.Newline, tt.newline)
		}
	}
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  token.Kind
		lit   string
	}{
		{name: "plain", input: `"hello"`, kind: token.String, lit: "hello"},
		{name: "no escapes", input: `"a\n"`, kind: token.String, lit: `a\n`},
		{name: "interpolated", input: `f"x={x + 1}!"`, kind: token.FString, lit: "x={x + 1}!"},
		{
			name:  "nested quotes in interpolation",
			input: `f"{name + "!"}"`,
			kind:  token.FString,
			lit:   `{name + "!"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Tokenize(tt.input)
			if toks[0].Kind != tt.kind || toks[0].Lit != tt.lit {
				t.Errorf("got %v %q, want %v %q", toks[0].Kind, toks[0].Lit, tt.kind, tt.lit)
			}

			if toks[1].Kind != token.EOF {
				t.Errorf("expected EOF after literal, got %v", toks[1].Kind)
			}
		})
	}
}

func TestTokenizeFrom_Offsets(t *testing.T) {
	toks := TokenizeFrom("a+b", token.Pos{Offset: 10, Line: 3, Col: 7})

	if got := toks[2].Span.Start; got.Line != 3 || got.Col != 9 || got.Offset != 12 {
		t.Errorf("unexpected position %+v", got)
	}
}

func FuzzTokenize(f *testing.F) {
	for _, seed := range []string{"", "x: int = 1", `f"{a}"`, "\"open", "@@", "0..=9"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		toks := Tokenize(src)
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream must end in EOF")
		}
	})
}
