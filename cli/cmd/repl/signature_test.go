package repl

import (
	"context"
	"slices"
	"testing"
)

func TestOpenCall(t *testing.T) {
	tests := []struct {
		input  string
		ok     bool
		callee string
		arg    int
	}{
		{input: "f(", ok: true, callee: "f"},
		{input: "f(1, ", ok: true, callee: "f", arg: 1},
		{input: "IO.println(a, b, ", ok: true, callee: "IO.println", arg: 2},
		{input: `f("a, b", `, ok: true, callee: "f", arg: 1},
		{input: `f("say \"hi\", ok", `, ok: true, callee: "f", arg: 1},
		{input: "f(g(1, 2), ", ok: true, callee: "f", arg: 1},
		{input: "f(g(1, ", ok: true, callee: "g", arg: 1},
		{input: "f([1, 2", ok: false},
		{input: "f(1)", ok: false},
		{input: "(1 + ", ok: false},
		{input: "x = 1", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := openCall(tt.input, len(tt.input))
			if ok != tt.ok {
				t.Fatalf("openCall(%q) ok = %t, want %t", tt.input, ok, tt.ok)
			}

			if ok && (c.callee != tt.callee || c.arg != tt.arg) {
				t.Errorf("openCall(%q) = %+v, want %s arg %d", tt.input, c, tt.callee, tt.arg)
			}
		})
	}
}

func TestSession_Lookup(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	for _, entry := range []string{
		"def add(a: int, b: int) -> int { a + b }",
		"type Vec { x: int }",
		"impl Vec { def scale(self, k: int) -> Vec { Vec { x: self.x * k } } }",
		"v = Vec { x: 1 }",
	} {
		if r := s.Eval(ctx, entry); r.Failed() {
			t.Fatalf("%q: %s", entry, r.Problem)
		}
	}

	tests := []struct {
		callee string
		ok     bool
		params []string
		result string
	}{
		{"add", true, []string{"a: int", "b: int"}, "int"},
		{"v.scale", true, []string{"k: int"}, "Vec"},
		{"println", true, []string{"...values"}, ""},
		{"IO.println", true, []string{"..."}, ""},
		{"nope", false, nil, ""},
		{"v.nope", false, nil, ""},
		{"w.scale", false, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.callee, func(t *testing.T) {
			sig, ok := s.lookup(tt.callee)
			if ok != tt.ok {
				t.Fatalf("lookup(%q) ok = %t, want %t", tt.callee, ok, tt.ok)
			}

			if !ok {
				return
			}

			if !slices.Equal(sig.params, tt.params) || sig.result != tt.result {
				t.Errorf("lookup(%q) = %v -> %q, want %v -> %q", tt.callee, sig.params, sig.result, tt.params, tt.result)
			}

			if sig.render(0) == "" {
				t.Errorf("render() of %q is empty", tt.callee)
			}
		})
	}
}
