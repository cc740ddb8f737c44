package diag

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/ardnew/tjlang/lang/token"
)

func span(line, col, endCol int) token.Span {
	return token.Span{
		Start: token.Pos{Line: line, Col: col},
		End:   token.Pos{Line: line, Col: endCol},
	}
}

func TestRender_Golden(t *testing.T) {
	src := "x: int = 10 / 0\nprint(y)"

	tests := []struct {
		name string
		list List
		want string
	}{
		{
			name: "with note",
			list: List{
				New(LiteralDivideByZero, span(1, 10, 16), "Literal division by zero detected").
					WithNote("Division by zero will cause a runtime panic"),
			},
			want: "error[A2801]: Literal division by zero detected\n" +
				"  ┌─ main.tj:1:10\n" +
				"  │\n" +
				"1 │ x: int = 10 / 0\n" +
				"  │          ^^^^^^\n" +
				"  │\n" +
				"  = Division by zero will cause a runtime panic\n" +
				"\n",
		},
		{
			name: "without note",
			list: List{New(UndefinedReference, span(2, 7, 8), "Undefined variable `y`")},
			want: "error[A2803]: Undefined variable `y`\n" +
				"  ┌─ main.tj:2:7\n" +
				"  │\n" +
				"2 │ print(y)\n" +
				"  │       ^\n" +
				"\n",
		},
		{
			name: "source order",
			list: List{
				New(UndefinedReference, span(2, 7, 8), "second"),
				New(LiteralDivideByZero, span(1, 10, 16), "first"),
			},
			want: "error[A2801]: first\n" +
				"  ┌─ main.tj:1:10\n" +
				"  │\n" +
				"1 │ x: int = 10 / 0\n" +
				"  │          ^^^^^^\n" +
				"\n" +
				"error[A2803]: second\n" +
				"  ┌─ main.tj:2:7\n" +
				"  │\n" +
				"2 │ print(y)\n" +
				"  │       ^\n" +
				"\n",
		},
		{
			name: "no span",
			list: List{New(RuntimePanic, token.Span{}, "uncaught raise: boom").WithNote("raised at top level")},
			want: "error[R4000]: uncaught raise: boom\n" +
				"  = raised at top level\n" +
				"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := NewRenderer("main.tj", src).Render(&buf, tt.list); err != nil {
				t.Fatalf("render: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRender_WideGutter(t *testing.T) {
	src := strings.Repeat("\n", 11) + "bad @"
	d := New(InvalidCharacter, span(12, 5, 6), "Invalid character `@`")

	got := NewRenderer("f.tj", src).String(d)
	want := "error[L0001]: Invalid character `@`\n" +
		"   ┌─ f.tj:12:5\n" +
		"   │\n" +
		"12 │ bad @\n" +
		"   │     ^"

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestList_Filter(t *testing.T) {
	l := List{
		New(UndefinedReference, span(1, 1, 2), "a"),
		New(LiteralDivideByZero, span(1, 1, 2), "b"),
	}

	got := l.Filter(func(d Diagnostic) bool { return d.Code == LiteralDivideByZero })
	if len(got) != 1 || got[0].Message != "b" {
		t.Errorf("unexpected filter result %v", got)
	}

	if !l.HasErrors() {
		t.Error("expected HasErrors")
	}
}

func TestRenderer_FormatYAML(t *testing.T) {
	var buf bytes.Buffer

	l := List{New(UndefinedMethod, span(1, 1, 9), "Module `IO` has no method `prnt`")}
	if err := NewRenderer("m.tj", "IO.prnt()").FormatYAML(context.Background(), &buf, l, 2); err != nil {
		t.Fatalf("yaml: %v", err)
	}

	if !strings.Contains(buf.String(), "code: A2804") {
		t.Errorf("missing code in:\n%s", buf.String())
	}
}

func ExampleRenderer_Render() {
	l := List{
		New(LiteralDivideByZero, span(1, 10, 16), "Literal division by zero detected").
			WithNote("Division by zero will cause a runtime panic"),
	}

	_ = NewRenderer("main.tj", "x: int = 10 / 0").Render(os.Stdout, l)
	// Output:
	// error[A2801]: Literal division by zero detected
	//   ┌─ main.tj:1:10
	//   │
	// 1 │ x: int = 10 / 0
	//   │          ^^^^^^
	//   │
	//   = Division by zero will cause a runtime panic
}
