package token

import "strconv"

// Kind identifies the lexical class of a token.
type Kind int

// Token kinds.
const (
	Illegal Kind = iota
	EOF

	literalBegin
	Ident
	Int
	Float
	String
	FString
	literalEnd

	operatorBegin
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Power      // **
	Eq         // ==
	NotEq      // !=
	Less       // <
	Greater    // >
	LessEq     // <=
	GreaterEq  // >=
	Assign     // =
	Bang       // !
	Tilde      // ~
	Amp        // &
	Pipe       // |
	Caret      // ^
	Shl        // <<
	Shr        // >>
	Arrow      // ->
	Colon      // :
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	DotDot     // ..
	DotDotEq   // ..=
	Dollar     // $
	DollarEq   // $=
	Question   // ?
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	LBrace     // {
	RBrace     // }
	operatorEnd

	keywordBegin
	Def
	Type
	Enum
	Interface
	Impl
	For
	Mod
	Import
	Export
	As
	Extends
	Implements
	If
	Elif
	Else
	While
	Do
	Match
	Return
	Break
	Continue
	Pass
	Raise
	Spawn
	And
	Or
	Not
	True
	False
	None
	keywordEnd
)

var kindNames = [...]string{
	Illegal: "ILLEGAL",
	EOF:     "EOF",

	Ident:   "IDENT",
	Int:     "INT",
	Float:   "FLOAT",
	String:  "STRING",
	FString: "FSTRING",

	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Power:     "**",
	Eq:        "==",
	NotEq:     "!=",
	Less:      "<",
	Greater:   ">",
	LessEq:    "<=",
	GreaterEq: ">=",
	Assign:    "=",
	Bang:      "!",
	Tilde:     "~",
	Amp:       "&",
	Pipe:      "|",
	Caret:     "^",
	Shl:       "<<",
	Shr:       ">>",
	Arrow:     "->",
	Colon:     ":",
	Semicolon: ";",
	Comma:     ",",
	Dot:       ".",
	DotDot:    "..",
	DotDotEq:  "..=",
	Dollar:    "$",
	DollarEq:  "$=",
	Question:  "?",
	LParen:    "(",
	RParen:    ")",
	LBracket:  "[",
	RBracket:  "]",
	LBrace:    "{",
	RBrace:    "}",

	Def:        "def",
	Type:       "type",
	Enum:       "enum",
	Interface:  "interface",
	Impl:       "impl",
	For:        "for",
	Mod:        "mod",
	Import:     "import",
	Export:     "export",
	As:         "as",
	Extends:    "extends",
	Implements: "Implements",
	If:         "if",
	Elif:       "elif",
	Else:       "else",
	While:      "while",
	Do:         "do",
	Match:      "match",
	Return:     "return",
	Break:      "break",
	Continue:   "continue",
	Pass:       "pass",
	Raise:      "raise",
	Spawn:      "spawn",
	And:        "and",
	Or:         "or",
	Not:        "not",
	True:       "true",
	False:      "false",
	None:       "None",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsLiteral reports whether k is an identifier or literal kind.
func (k Kind) IsLiteral() bool { return literalBegin < k && k < literalEnd }

// IsOperator reports whether k is an operator or delimiter.
func (k Kind) IsOperator() bool { return operatorBegin < k && k < operatorEnd }

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return keywordBegin < k && k < keywordEnd }

var keywords = func() map[string]Kind {
	m := make(map[string]Kind, keywordEnd-keywordBegin)
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		m[kindNames[k]] = k
	}

	return m
}()

// Lookup maps an identifier to its keyword kind, or Ident if it is not
// reserved.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return Ident
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	out := make([]string, 0, keywordEnd-keywordBegin-1)
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		out = append(out, kindNames[k])
	}

	return out
}

// Token is a single lexical unit.
type Token struct {
	Kind Kind
	Lit  string
	Span Span

	// Newline is set when a line break separates this token from the
	// previous one.
	Newline bool
}

func (t Token) String() string {
	switch {
	case t.Kind == EOF:
		return "end of input"
	case t.Kind.IsLiteral(), t.Kind == Illegal:
		return strconv.Quote(t.Lit)
	default:
		return "`" + t.Kind.String() + "`"
	}
}
