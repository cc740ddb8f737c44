package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/stdlib"
)

// signature is the callable shape shown while typing arguments.
type signature struct {
	name   string
	params []string
	result string
}

// builtinSignatures describe the functions callable without a declaration.
var builtinSignatures = map[string]signature{
	"print":   {"print", []string{"...values"}, ""},
	"println": {"println", []string{"...values"}, ""},
	"len":     {"len", []string{"v"}, "int"},
	"str":     {"str", []string{"v"}, "str"},
	"int":     {"int", []string{"v"}, "int"},
	"float":   {"float", []string{"v"}, "float"},
	"bool":    {"bool", []string{"v"}, "bool"},
	"type_of": {"type_of", []string{"v"}, "str"},
	"Ok":      {"Ok", []string{"v"}, "Result"},
	"Err":     {"Err", []string{"e"}, "Result"},
	"Some":    {"Some", []string{"v"}, "Option"},
	"range":   {"range", []string{"start", "end"}, "range"},
}

// call is an open call at the cursor.
type call struct {
	callee string // "f", "IO.println", or "p.scale"
	arg    int    // 0-based index of the argument being typed
}

// openCall reports the call whose argument list holds the cursor: the
// innermost unclosed bracket before cursor must be a parenthesis that
// follows a callee. The argument index counts the commas directly inside
// it; commas in string literals and nested brackets do not count.
func openCall(input string, cursor int) (call, bool) {
	cursor = min(max(cursor, 0), len(input))

	var (
		stack []int // offsets of open '(' '[' '{'
		args  []int // comma count per open bracket
		quote rune
		esc   bool
	)

	for i, r := range input[:cursor] {
		switch {
		case esc:
			esc = false
		case quote != 0 && r == '\\':
			esc = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[' || r == '{':
			stack = append(stack, i)
			args = append(args, 0)
		case r == ')' || r == ']' || r == '}':
			if n := len(stack); n > 0 {
				stack, args = stack[:n-1], args[:n-1]
			}
		case r == ',':
			if n := len(args); n > 0 {
				args[n-1]++
			}
		}
	}

	n := len(stack)
	if n == 0 || input[stack[n-1]] != '(' {
		return call{}, false
	}

	name := calleeBefore(input, stack[n-1])
	if name == "" {
		return call{}, false
	}

	return call{callee: name, arg: args[n-1]}, true
}

// calleeBefore returns the dotted name ending at offset end.
func calleeBefore(input string, end int) string {
	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '.' && !isIdentRune(r) {
			break
		}

		start -= size
	}

	return strings.Trim(input[start:end], ".")
}

// lookup returns the signature of callee in the session.
func (s *Session) lookup(callee string) (signature, bool) {
	recv, name, dotted := strings.Cut(callee, ".")
	if !dotted {
		if d, ok := s.table.Func(callee); ok {
			return declSignature(callee, d), true
		}

		sig, ok := builtinSignatures[callee]

		return sig, ok
	}

	if stdlib.Has(recv, name) {
		return signature{name: callee, params: []string{"..."}}, true
	}

	v, ok := s.Lookup(recv)
	if !ok {
		return signature{}, false
	}

	if d, ok := s.table.Method(v.Type(), name); ok {
		return declSignature(callee, d), true
	}

	return signature{}, false
}

func declSignature(name string, d *ast.FuncDecl) signature {
	sig := signature{name: name}

	params := d.Params
	if d.IsMethod() {
		params = params[1:]
	}

	for _, p := range params {
		text := p.Name
		if p.Type != nil {
			text += ": " + ast.Source(p.Type, 0)
		}

		sig.params = append(sig.params, text)
	}

	if d.Result != nil {
		sig.result = ast.Source(d.Result, 0)
	}

	return sig
}

// render draws sig with the parameter at arg emphasized. A variadic last
// parameter stays emphasized for every later argument.
func (sig signature) render(arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.name))
	b.WriteString(hintStyle.Render("("))

	for i, p := range sig.params {
		if i > 0 {
			b.WriteString(hintStyle.Render(", "))
		}

		variadic := strings.HasPrefix(p, "...") && i == len(sig.params)-1
		if i == arg || (variadic && arg >= i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(hintStyle.Render(p))
		}
	}

	b.WriteString(hintStyle.Render(")"))

	if sig.result != "" {
		b.WriteString(hintStyle.Render(" -> " + sig.result))
	}

	return b.String()
}
