package stdlib

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/tjlang/lang/value"
)

func ioModule() module {
	return module{
		"print":         printer(false, false),
		"println":       printer(true, false),
		"eprint":        printer(false, true),
		"eprintln":      printer(true, true),
		"printf":        printf,
		"read_line":     readLine,
		"read_int":      readNumber(value.TypeInt),
		"read_float":    readNumber(value.TypeFloat),
		"print_error":   status("Error", "9"),
		"print_warning": status("Warning", "11"),
		"print_info":    status("Info", "12"),
		"print_success": status("Success", "10"),
		"print_debug":   status("Debug", "14"),
	}
}

func printer(newline, stderr bool) Func {
	return func(c *Call) (value.Value, error) {
		w := c.Stdout
		if stderr {
			w = c.Stderr
		}

		s := joinArgs(c.Args)
		if newline {
			s += "\n"
		}

		if _, err := io.WriteString(w, s); err != nil {
			return nil, failf(ErrIO, "%s: %v", c.qualified(), err)
		}

		return unit()
	}
}

func joinArgs(vs []value.Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}

	return strings.Join(parts, " ")
}

func printf(c *Call) (value.Value, error) {
	a := c.expect(1, -1)
	format := a.str()
	rest := a.rest()

	if err := a.done(); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(c.Stdout, Format(format, rest)); err != nil {
		return nil, failf(ErrIO, "%s: %v", c.qualified(), err)
	}

	return unit()
}

// Format substitutes args into format. Array arguments are flattened.
// Indexed placeholders {0}, {1}, ... are replaced first; when the format
// has none, each {} takes the next argument in order.
func Format(format string, args []value.Value) string {
	var flat []value.Value

	for _, v := range args {
		if arr, ok := v.(*value.Array); ok {
			flat = append(flat, arr.Elems...)
		} else {
			flat = append(flat, v)
		}
	}

	indexed := false
	for i, v := range flat {
		p := "{" + strconv.Itoa(i) + "}"
		if strings.Contains(format, p) {
			indexed = true
			format = strings.ReplaceAll(format, p, v.String())
		}
	}

	if indexed {
		return format
	}

	for _, v := range flat {
		if !strings.Contains(format, "{}") {
			break
		}

		format = strings.Replace(format, "{}", v.String(), 1)
	}

	return format
}

func readLine(c *Call) (value.Value, error) {
	if err := c.expect(0, 0).done(); err != nil {
		return nil, err
	}

	line, err := c.Stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return nil, failf(ErrIO, "%s: %v", c.qualified(), err)
	}

	return value.Str(strings.TrimRight(line, "\r\n")), nil
}

func readNumber(kind string) Func {
	return func(c *Call) (value.Value, error) {
		s, err := readLine(c)
		if err != nil {
			return nil, err
		}

		text := strings.TrimSpace(string(s.(value.Str)))

		if kind == value.TypeInt {
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return nil, failf(ErrValue, "%s: invalid integer %q", c.qualified(), text)
			}

			return value.Int(n), nil
		}

		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, failf(ErrValue, "%s: invalid float %q", c.qualified(), text)
		}

		return value.Float(f), nil
	}
}

func status(label, color string) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		msg := a.any()

		if err := a.done(); err != nil {
			return nil, err
		}

		style := lipgloss.NewRenderer(c.Stdout).NewStyle().Foreground(lipgloss.Color(color))

		_, err := fmt.Fprintln(c.Stdout, style.Render(label+": "+msg.String()))
		if err != nil {
			return nil, failf(ErrIO, "%s: %v", c.qualified(), err)
		}

		return unit()
	}
}
