package diag

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/tjlang/lang/token"
)

// Severity ranks a diagnostic.
type Severity int

// Severity levels.
const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic is a single reported defect anchored to a source span.
type Diagnostic struct {
	Severity Severity   `json:"severity"       yaml:"severity"`
	Code     Code       `json:"code"           yaml:"code"`
	Message  string     `json:"message"        yaml:"message"`
	Span     token.Span `json:"span"           yaml:"span"`
	Note     string     `json:"note,omitempty" yaml:"note,omitempty"`
}

// New returns an error diagnostic.
func New(code Code, span token.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// WithNote returns a copy of d with the given note line.
func (d Diagnostic) WithNote(format string, args ...any) Diagnostic {
	d.Note = fmt.Sprintf(format, args...)

	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s]: %s at %s", d.Severity, d.Code, d.Message, d.Span.Start)
}

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(d.Code)),
		slog.String("message", d.Message),
		slog.String("pos", d.Span.Start.String()),
	}

	if d.Note != "" {
		attrs = append(attrs, slog.String("note", d.Note))
	}

	return slog.GroupValue(attrs...)
}

// Compare orders diagnostics by the start of their span, then by code.
func Compare(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.Span.Start.Line, b.Span.Start.Line),
		cmp.Compare(a.Span.Start.Col, b.Span.Start.Col),
		cmp.Compare(a.Code, b.Code),
	)
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends diagnostics to l.
func (l *List) Add(d ...Diagnostic) { *l = append(*l, d...) }

// Errorf appends a new error diagnostic and returns a pointer to it so a
// note can be attached.
func (l *List) Errorf(code Code, span token.Span, format string, args ...any) *Diagnostic {
	*l = append(*l, New(code, span, format, args...))

	return &(*l)[len(*l)-1]
}

// Sort orders l by source position.
func (l List) Sort() { slices.SortStableFunc(l, Compare) }

// Sorted returns a sorted copy of l.
func (l List) Sorted() List {
	out := slices.Clone(l)
	out.Sort()

	return out
}

// HasErrors reports whether any diagnostic has Error severity.
func (l List) HasErrors() bool {
	return slices.ContainsFunc(l, func(d Diagnostic) bool { return d.Severity == Error })
}

// Codes returns the codes of l in order.
func (l List) Codes() []Code {
	out := make([]Code, len(l))
	for i, d := range l {
		out[i] = d.Code
	}

	return out
}

// Filter returns the diagnostics for which keep returns true.
func (l List) Filter(keep func(Diagnostic) bool) List {
	var out List

	for _, d := range l {
		if keep(d) {
			out = append(out, d)
		}
	}

	return out
}
