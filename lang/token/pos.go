package token

import "fmt"

// Pos is a location in a source file.
//
// Line and Col are 1-based; Col counts runes, not bytes. Offset is the
// 0-based byte offset into the source.
type Pos struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Col    int `json:"col"    yaml:"col"`
}

// IsValid reports whether p refers to a real source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

// Before reports whether p occurs strictly before q.
func (p Pos) Before(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}

	return p.Col < q.Col
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is a half-open range of source text [Start, End).
type Span struct {
	Start Pos `json:"start" yaml:"start"`
	End   Pos `json:"end"   yaml:"end"`
}

// To returns the span covering s through t.
func (s Span) To(t Span) Span { return Span{Start: s.Start, End: t.End} }

// IsValid reports whether s has a valid start position.
func (s Span) IsValid() bool { return s.Start.IsValid() }

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
