package repl

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestSession_Eval(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	steps := []struct {
		entry   string
		output  string
		value   string
		problem string // substring of the rendered problem
	}{
		{entry: "x = 1 + 2"},
		{entry: "x = x"},
		{entry: "x", value: "3"},
		{entry: `println("hi")`, output: "hi\n"},
		{entry: `s = "a"`},
		{entry: "s", value: `"a"`},
		{entry: "y", problem: "A2803"},
		{entry: "def sq(n: int) -> int { n * n }"},
		{entry: "sq(4)", value: "16"},
		{entry: "d = 0"},
		{entry: "10 / d", problem: "<repl>:11:"},
		{entry: "def sq(n: int) -> int { n + n }"},
		{entry: "sq(4)", value: "8"},
	}

	for _, st := range steps {
		r := s.Eval(ctx, st.entry)

		if r.Output != st.output {
			t.Errorf("%q: output = %q, want %q", st.entry, r.Output, st.output)
		}

		if r.Value != st.value {
			t.Errorf("%q: value = %q, want %q", st.entry, r.Value, st.value)
		}

		switch {
		case st.problem == "" && r.Failed():
			t.Errorf("%q: unexpected problem:\n%s", st.entry, r.Problem)
		case st.problem != "" && !strings.Contains(r.Problem, st.problem):
			t.Errorf("%q: problem = %q, want it to contain %q", st.entry, r.Problem, st.problem)
		}
	}
}

func TestSession_RejectedEntryDeclaresNothing(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	if r := s.Eval(ctx, "def bad() -> int { nowhere }"); !strings.Contains(r.Problem, "A2803") {
		t.Fatalf("problem = %q, want A2803", r.Problem)
	}

	if _, ok := s.Table().Func("bad"); ok {
		t.Error("rejected declaration was added to the table")
	}

	if r := s.Eval(ctx, "bad()"); !strings.Contains(r.Problem, "A2803") {
		t.Errorf("call of rejected function: problem = %q, want A2803", r.Problem)
	}

	if r := s.Eval(ctx, "def bad() -> int { 1 }"); r.Failed() {
		t.Fatalf("redeclaring: %s", r.Problem)
	}

	if r := s.Eval(ctx, "bad()"); r.Value != "1" {
		t.Errorf("bad() = %q, want %q", r.Value, "1")
	}
}

func TestSession_DeclareWhileTasksRun(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	for _, entry := range []string{
		"def helper() { pass }",
		"def spin() { for (i | 0 $ 20000) { helper() } }",
		"t = spawn spin()",
	} {
		if r := s.Eval(ctx, entry); r.Failed() {
			t.Fatalf("%q: %s", entry, r.Problem)
		}
	}

	for i := range 50 {
		entry := fmt.Sprintf("def g%d() { helper() }", i)
		if r := s.Eval(ctx, entry); r.Failed() {
			t.Fatalf("%q: %s", entry, r.Problem)
		}
	}

	if out := s.Wait(); out != "" {
		t.Errorf("task output = %q, want none", out)
	}

	if _, ok := s.Table().Func("g49"); !ok {
		t.Error("g49 was not declared")
	}
}

func TestSession_Blank(t *testing.T) {
	s := NewSession()

	if r := s.Eval(context.Background(), "  \n"); r != (Reply{}) {
		t.Errorf("Eval(blank) = %+v, want zero reply", r)
	}

	if src := s.Source(); src != "" {
		t.Errorf("Source() = %q, want empty", src)
	}
}

func TestSession_SourceAndReset(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	for _, entry := range []string{"x = 1", "x = (", "println(x)", "missing()"} {
		s.Eval(ctx, entry)
	}

	if got, want := s.Source(), "x = 1\nprintln(x)\n"; got != want {
		t.Errorf("Source() = %q, want %q", got, want)
	}

	s.Reset()

	if g := s.Globals(); len(g) != 0 {
		t.Errorf("Globals() after Reset = %v, want none", g)
	}

	if _, ok := s.Lookup("x"); ok {
		t.Error("x is still bound after Reset")
	}

	if src := s.Source(); src != "" {
		t.Errorf("Source() after Reset = %q, want empty", src)
	}
}

func TestSession_Load(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	s.Eval(ctx, "old = 1")

	n, r := s.Load(ctx, "a = 5\nprintln(a)\n")
	if r.Failed() {
		t.Fatalf("Load() problem:\n%s", r.Problem)
	}

	if r.Output != "5\n" {
		t.Errorf("Load() output = %q, want %q", r.Output, "5\n")
	}

	if _, ok := n.Lookup("a"); !ok {
		t.Error("loaded session lacks a")
	}

	if _, ok := n.Lookup("old"); ok {
		t.Error("loaded session kept a binding of the original")
	}

	if _, ok := s.Lookup("a"); ok {
		t.Error("original session changed by Load")
	}

	_, r = s.Load(ctx, "b = (")
	if !r.Failed() {
		t.Error("Load() of invalid source did not fail")
	}
}

func TestSession_MethodNames(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	for _, entry := range []string{
		"type Counter { n: int }",
		"impl Counter { def inc(self) { self.n = self.n + 1 } }",
		"c = Counter { n: 0 }",
	} {
		if r := s.Eval(ctx, entry); r.Failed() {
			t.Fatalf("%q: %s", entry, r.Problem)
		}
	}

	names := s.MethodNames("c")
	if !containsAll(names, "inc", "to_string") {
		t.Errorf("MethodNames(c) = %v, want inc and to_string", names)
	}

	if names := s.MethodNames("nothing"); names != nil {
		t.Errorf("MethodNames(nothing) = %v, want nil", names)
	}
}

func containsAll(have []string, want ...string) bool {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}

	for _, w := range want {
		if !set[w] {
			return false
		}
	}

	return true
}
