// Package parser builds TJLang syntax trees from source text.
//
// The parser is hand-written recursive descent with precedence climbing for
// binary operators. From lowest to highest binding power:
//
//	assignment (right-assoc, statement position only)
//	or
//	and
//	|  ^  &
//	==  !=
//	<  >  <=  >=
//	<<  >>
//	+  -
//	*  /  %
//	unary - not ! ~
//	** (right-assoc)
//	postfix call, index, member
//	primary
//
// Statements end at a line break or semicolon. Inside parentheses,
// brackets, and braces of an expression a line break does not end it.
//
// Parsing is resilient: each syntax error is reported once, then the
// parser skips to the next statement boundary and continues, so a single
// run reports every independent error in the file.
package parser
