// Package lexer converts TJLang source text into tokens.
//
// The lexer is total over its input. Whitespace and #-comments are skipped,
// integers are [0-9]+, floats require a fractional part, and strings end at
// the next double quote on the same line with no escape processing. The
// interpolated form f"...{expr}..." is returned verbatim so the parser can
// re-lex each {...} segment with correct source positions.
package lexer
