package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
)

// Renderer formats diagnostics for a single source file.
type Renderer struct {
	name  string
	lines []string
	color bool
}

// RenderOption configures a Renderer.
type RenderOption func(Renderer) Renderer

// WithColor enables ANSI styling of severity labels, gutters, and carets.
func WithColor(enable bool) RenderOption {
	return func(r Renderer) Renderer {
		r.color = enable

		return r
	}
}

// NewRenderer returns a renderer for diagnostics reported against src.
func NewRenderer(name, src string, opts ...RenderOption) *Renderer {
	r := Renderer{
		name:  name,
		lines: strings.Split(src, "\n"),
	}

	for _, opt := range opts {
		r = opt(r)
	}

	return &r
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	messageStyle = lipgloss.NewStyle().Bold(true)
)

// Name returns the source name shown in locations.
func (r *Renderer) Name() string { return r.name }

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}

	return s.Render(text)
}

// Render writes every diagnostic in l, sorted by source position, each
// followed by a blank line.
func (r *Renderer) Render(w io.Writer, l List) error {
	var b strings.Builder

	for _, d := range l.Sorted() {
		r.render(&b, d)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// String renders a single diagnostic without trailing newlines.
func (r *Renderer) String(d Diagnostic) string {
	var b strings.Builder

	r.render(&b, d)

	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) render(b *strings.Builder, d Diagnostic) {
	label := errorStyle
	if d.Severity == Warning {
		label = warningStyle
	}

	fmt.Fprintf(b, "%s%s\n",
		r.style(label, d.Severity.String()+"["+string(d.Code)+"]"),
		r.style(messageStyle, ": "+d.Message))

	line := d.Span.Start.Line
	if line < 1 || line > len(r.lines) {
		if d.Note != "" {
			fmt.Fprintf(b, "  = %s\n", d.Note)
		}

		b.WriteByte('\n')

		return
	}

	num := strconv.Itoa(line)
	pad := strings.Repeat(" ", len(num))
	bar := r.style(gutterStyle, "│")
	text := strings.TrimRight(r.lines[line-1], "\r")

	fmt.Fprintf(b, "%s %s %s:%d:%d\n", pad, r.style(gutterStyle, "┌─"), r.name, line, d.Span.Start.Col)
	fmt.Fprintf(b, "%s %s\n", pad, bar)
	fmt.Fprintf(b, "%s %s %s\n", r.style(gutterStyle, num), bar, text)
	fmt.Fprintf(b, "%s %s %s%s\n", pad, bar,
		strings.Repeat(" ", max(d.Span.Start.Col-1, 0)),
		r.style(label, strings.Repeat("^", caretWidth(d, text))))

	if d.Note != "" {
		fmt.Fprintf(b, "%s %s\n", pad, bar)
		fmt.Fprintf(b, "%s = %s\n", pad, d.Note)
	}

	b.WriteByte('\n')
}

// caretWidth returns the number of runes the span covers on its first line.
func caretWidth(d Diagnostic, text string) int {
	start, end := d.Span.Start, d.Span.End

	width := end.Col - start.Col
	if end.Line != start.Line {
		width = utf8.RuneCountInString(text) - (start.Col - 1)
	}

	return max(width, 1)
}

// report is the structured form of a diagnostic list.
type report struct {
	File        string       `json:"file"        yaml:"file"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// FormatJSON writes l as a JSON document.
func (r *Renderer) FormatJSON(w io.Writer, l List, indent int) error {
	rep := report{File: r.name, Diagnostics: l.Sorted()}

	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(rep, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(rep)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes l as a YAML document.
func (r *Renderer) FormatYAML(ctx context.Context, w io.Writer, l List, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	}

	data, err := yaml.MarshalContext(ctx, report{File: r.name, Diagnostics: l.Sorted()}, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
