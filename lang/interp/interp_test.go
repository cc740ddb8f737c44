package interp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/parser"
	"github.com/ardnew/tjlang/lang/value"
)

func load(t *testing.T, src string, opts ...Option) (*Interpreter, *strings.Builder, func(context.Context) error) {
	t.Helper()

	f, diags := parser.Parse("test.tj", src)
	if len(diags) > 0 {
		t.Fatalf("parse diagnostics: %v", diags)
	}

	table, diags := decl.Build(f)
	if len(diags) > 0 {
		t.Fatalf("declaration diagnostics: %v", diags)
	}

	var out strings.Builder

	in := New(table, append([]Option{WithStdout(&out)}, opts...)...)

	return in, &out, func(ctx context.Context) error { return in.Run(ctx, f) }
}

func run(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()

	in, out, exec := load(t, src, opts...)

	err := exec(context.Background())
	if werr := in.Wait(); werr != nil {
		t.Fatalf("Wait() error = %v", werr)
	}

	return out.String(), err
}

func TestRun_Output(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "arithmetic",
			input: "println(1 + 2 * 3, 7 / 2, 7 % 3, 2 ** 10, 2 ** 3 ** 2)",
			want:  "7 3 1 1024 512\n",
		},
		{
			name:  "mixed numbers",
			input: "println(1 + 1.5, 5 / 2.0)",
			want:  "2.5 2.5\n",
		},
		{
			name:  "string operators",
			input: `println("ab" + "cd", "x" * 3)`,
			want:  "abcd xxx\n",
		},
		{
			name:  "short circuit",
			input: "def boom() -> bool { raise \"evaluated\" }\nprintln(false and boom(), true or boom())",
			want:  "false true\n",
		},
		{
			name:  "while",
			input: "i = 0\nwhile i < 3 {\n    print(i)\n    i = i + 1\n}\nprintln()",
			want:  "012\n",
		},
		{
			name:  "do while runs once",
			input: "i = 5\ndo {\n    print(i)\n    i = i + 1\n} while i < 3\nprintln()",
			want:  "5\n",
		},
		{
			name:  "loop ranges",
			input: "for (i | 0 $ 3) { print(i) }\nfor (i: int | 0 $= 3) { print(i) }\nprintln()",
			want:  "0120123\n",
		},
		{
			name:  "range bounds are evaluated once",
			input: "n = 3\nfor (i | 0 $ n) {\n    n = 10\n    print(i)\n}\nprintln()",
			want:  "012\n",
		},
		{
			name:  "c style for",
			input: "for (i: int = 0; i < 3; i = i + 1) { print(i) }\nprintln()",
			want:  "012\n",
		},
		{
			name:  "break and continue",
			input: "for (i | 0 $ 10) {\n    if i == 2 { continue }\n    if i == 4 { break }\n    print(i)\n}\nprintln()",
			want:  "013\n",
		},
		{
			name:  "recursion",
			input: "def fact(n: int) -> int {\n    if n <= 1 { return 1 }\n    return n * fact(n - 1)\n}\nprintln(fact(10))",
			want:  "3628800\n",
		},
		{
			name:  "last expression is the result",
			input: "def sq(n: int) -> int { n * n }\nprintln(sq(4))",
			want:  "16\n",
		},
		{
			name:  "float parameter converts int",
			input: "def half(x: float) -> float { return x / 2 }\nprintln(half(5))",
			want:  "2.5\n",
		},
		{
			name:  "declared types only convert int to float",
			input: "x: int = 1.5\ndef id(v: int) -> int { v }\nprintln(x, id(\"s\"))",
			want:  "1.5 s\n",
		},
		{
			name:  "assignment copies",
			input: "a = [1, 2]\nb = a\nb.push(3)\nprintln(len(a), len(b))",
			want:  "2 3\n",
		},
		{
			name:  "arguments are copied",
			input: "def grow(xs: [int]) { xs.push(9) }\na = [1]\ngrow(a)\nprintln(a)",
			want:  "[1]\n",
		},
		{
			name: "self is a reference",
			input: `type Counter { n: int }
impl Counter {
    def inc(self) { self.n = self.n + 1 }
}
c = Counter { n: 0 }
c.inc()
c.inc()
println(c.n)`,
			want: "2\n",
		},
		{
			name: "enum match",
			input: `enum Shape { Circle(int), Square(int), Empty }
def area(s: Shape) -> int {
    return match s {
        Shape.Circle(r): { 3 * r * r }
        Square(w): { w * w }
        Empty: { 0 }
    }
}
println(area(Shape.Circle(2)), area(Shape.Square(3)), area(Shape.Empty))`,
			want: "12 9 0\n",
		},
		{
			name: "match guards",
			input: `def classify(n: int) -> str {
    return match n {
        0: { "zero" }
        x if x < 0: { "negative" }
        _: { "positive" }
    }
}
println(classify(0), classify(-5), classify(3))`,
			want: "zero negative positive\n",
		},
		{
			name: "typed binding falls through",
			input: `def kind(v: any) -> str {
    return match v {
        s: str: { "str" }
        n: int: { "int" }
        _: { "other" }
    }
}
println(kind(1), kind("a"), kind(true))`,
			want: "int str other\n",
		},
		{
			name:  "tuple pattern",
			input: "match (1, \"two\") {\n    (1, s: str): { println(s) }\n    _: { println(\"no\") }\n}",
			want:  "two\n",
		},
		{
			name: "raise becomes Err",
			input: `def safe_div(a: int, b: int) -> Result<int, str> {
    if b == 0 { raise "division by zero" }
    return Ok(a / b)
}
match safe_div(6, 0) {
    Ok(v): { println(v) }
    Err(e): { println("error:", e) }
}
println(safe_div(6, 3))`,
			want: "error: division by zero\nOk(2)\n",
		},
		{
			name:  "runtime error becomes Err",
			input: "def f(d: int) -> Result<int, str> { return Ok(1 / d) }\nprintln(f(0))",
			want:  "Err(Division by zero)\n",
		},
		{
			name: "operator overloading",
			input: `type Vec { x: int, y: int }
impl Vec {
    def add(self, o: Vec) -> Vec { return Vec { x: self.x + o.x, y: self.y + o.y } }
    def eq(self, o: Vec) -> bool { return self.x == o.x and self.y == o.y }
}
v = Vec { x: 1, y: 2 } + Vec { x: 3, y: 4 }
println(v.x, v.y, v == Vec { x: 4, y: 6 }, v != Vec { x: 0, y: 0 })`,
			want: "4 6 true true\n",
		},
		{
			name: "interface method dispatch",
			input: `interface Named { name(self) -> str }
type Dog { n: str }
impl Named for Dog {
    def name(self) -> str { return "dog " + self.n }
}
d = Dog("rex")
match d {
    x: Implements [Named]: { println(x.name()) }
    _: { println("anonymous") }
}`,
			want: "dog rex\n",
		},
		{
			name:  "closures capture",
			input: "k = 10\nadd = |n| n + k\nprintln(add(5))",
			want:  "15\n",
		},
		{
			name:  "array methods",
			input: "nums = [1, 2, 3, 4]\nprintln(nums.map(|n| n * n), nums.filter(|n| n % 2 == 0), nums.reduce(0, |a, b| a + b))",
			want:  "[1, 4, 9, 16] [2, 4] 10\n",
		},
		{
			name:  "primitive methods",
			input: `println(" go ".trim().upper(), (7).is_odd(), "a,b".split(","), (3).to_string().len())`,
			want:  "GO true [a, b] 1\n",
		},
		{
			name:  "interpolation",
			input: "name = \"tj\"\nprintln(f\"hi {name}, {1 + 2}\")",
			want:  "hi tj, 3\n",
		},
		{
			name:  "maps",
			input: "m = {\"a\": 1}\nm[\"b\"] = 2\nprintln(m.len(), m[\"b\"], m.get(\"z\"))",
			want:  "2 2 None\n",
		},
		{
			name:  "sets",
			input: "s = {1, 2} | {2, 3}\nprintln(s.len(), s.contains(3))",
			want:  "3 true\n",
		},
		{
			name:  "host modules",
			input: `println(MATH.abs(-3), STRING.to_uppercase("go"))`,
			want:  "3 GO\n",
		},
		{
			name:  "conversions",
			input: `println(int("42") + 1, float(1), str(12) + "!", bool(0), type_of([]))`,
			want:  "43 1 12! false array\n",
		},
		{
			name:  "if expression",
			input: "x = 3\nv = if x > 2 { \"big\" } else { \"small\" }\nprintln(v)",
			want:  "big\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		msg   string
	}{
		{
			name:  "uncaught raise",
			input: `raise "boom"`,
			code:  diag.RuntimePanic,
			msg:   "uncaught raise: boom",
		},
		{
			name:  "raise outside Result function",
			input: "def f() -> int { raise \"no\" }\nf()",
			code:  diag.RuntimePanic,
		},
		{
			name:  "division by zero",
			input: "x = 0\nprintln(10 / x)",
			code:  diag.RuntimeDivideByZero,
			msg:   "Division by zero",
		},
		{
			name:  "modulo by zero",
			input: "x = 0\nprintln(10 % x)",
			code:  diag.RuntimeDivideByZero,
			msg:   "Modulo by zero",
		},
		{
			name:  "index out of bounds",
			input: "a = [1]\nprintln(a[3])",
			code:  diag.RuntimeIndexError,
			msg:   "Index 3 is out of bounds for array of length 1",
		},
		{
			name:  "non-exhaustive match",
			input: "match 5 {\n    1: { pass }\n}",
			code:  diag.RuntimeNonExhaustive,
		},
		{
			name:  "undefined variable",
			input: "println(nope)",
			code:  diag.RuntimeUndefined,
			msg:   "Undefined variable `nope`",
		},
		{
			name:  "unknown method",
			input: "x = 1\nx.fly()",
			code:  diag.RuntimeUndefined,
			msg:   "Type `int` has no method `fly`",
		},
		{
			name:  "operand types",
			input: "println(1 + \"a\")",
			code:  diag.RuntimeTypeError,
			msg:   "Unsupported operand types for +: `int` and `str`",
		},
		{
			name:  "host argument",
			input: `MATH.sqrt("x")`,
			code:  diag.RuntimeTypeError,
		},
		{
			name:  "break at top level",
			input: "break\nprintln(\"after\")",
			code:  diag.RuntimeValueError,
			msg:   "break or continue outside of a loop",
		},
		{
			name:  "continue inside top-level if",
			input: "if true { continue }",
			code:  diag.RuntimeValueError,
			msg:   "break or continue outside of a loop",
		},
		{
			name:  "return at top level",
			input: "return 1",
			code:  diag.RuntimeValueError,
			msg:   "return outside of a function",
		},
		{
			name:  "depth is not absorbed",
			input: "def f(n: int) -> Result<int, str> { return f(n + 1) }\nf(0)",
			code:  diag.RuntimeDepthExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input, WithMaxDepth(64))

			var re *Error
			if !errors.As(err, &re) {
				t.Fatalf("Run() error = %v, want *Error", err)
			}

			if re.Diagnostic.Code != tt.code {
				t.Errorf("code = %s, want %s", re.Diagnostic.Code, tt.code)
			}

			if tt.msg != "" && re.Diagnostic.Message != tt.msg {
				t.Errorf("message = %q, want %q", re.Diagnostic.Message, tt.msg)
			}
		})
	}
}

func TestRun_Spawn(t *testing.T) {
	in, out, exec := load(t, "t = spawn println(\"in task\")\nu = spawn 1 / 0\nprintln(\"spawner\")")

	if err := exec(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := in.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "in task\n") || !strings.Contains(got, "spawner\n") {
		t.Errorf("output = %q", got)
	}

	for i, name := range []string{"t", "u"} {
		v, ok := in.Lookup(name)
		if !ok {
			t.Fatalf("%s is not bound", name)
		}

		task, ok := v.(*value.Task)
		if !ok {
			t.Fatalf("%s = %T, want *value.Task", name, v)
		}

		if task.ID != int64(i+1) || !task.Done() {
			t.Errorf("%s = task %d (done %t), want task %d done", name, task.ID, task.Done(), i+1)
		}
	}
}

func TestRun_SpawnCopiesBindings(t *testing.T) {
	got, err := run(t, "a = [1]\nt = spawn a.push(2)\nprintln(len(a))")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got != "1\n" {
		t.Errorf("output = %q, want %q", got, "1\n")
	}
}

func TestRun_SpawnIsolatesClosures(t *testing.T) {
	in, out, exec := load(t, `a = [1]
f = || a.push(2)
fs = [f]
t = spawn f()
u = spawn fs[0]()
v = spawn println(len(a))`)

	if err := exec(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := in.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	a, ok := in.Lookup("a")
	if !ok {
		t.Fatal("a is not bound")
	}

	if got := len(a.(*value.Array).Elems); got != 1 {
		t.Errorf("spawner sees len(a) = %d, want 1", got)
	}

	if got := out.String(); got != "1\n" {
		t.Errorf("output = %q, want %q", got, "1\n")
	}
}

func TestRun_SpawnWholeExpression(t *testing.T) {
	in, out, exec := load(t, "t = spawn 1 / 0\nprintln(\"spawner\")")

	if err := exec(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := in.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if got := out.String(); got != "spawner\n" {
		t.Errorf("output = %q, want %q", got, "spawner\n")
	}

	if v, ok := in.Lookup("t"); !ok {
		t.Error("t is not bound")
	} else if _, ok := v.(*value.Task); !ok {
		t.Errorf("t = %T, want *value.Task", v)
	}
}

func TestRun_Canceled(t *testing.T) {
	_, _, exec := load(t, "while true { pass }")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := exec(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestEval_Persistent(t *testing.T) {
	in := New(decl.New())

	for i, src := range []string{"x = 40", "x = x + 2", "x"} {
		f, diags := parser.Parse("repl", src)
		if len(diags) > 0 {
			t.Fatalf("parse %d: %v", i, diags)
		}

		v, err := in.Eval(context.Background(), f)
		if err != nil {
			t.Fatalf("Eval(%q) error = %v", src, err)
		}

		if i == 2 && !value.Equal(v, value.Int(42)) {
			t.Errorf("Eval(%q) = %v, want 42", src, v)
		}
	}

	if got := in.Globals(); len(got) != 1 || got[0] != "x" {
		t.Errorf("Globals() = %v, want [x]", got)
	}
}

func TestEnv_Snapshot(t *testing.T) {
	root := NewEnv(nil)
	root.Define("a", value.NewArray(value.Int(1)))
	root.Define("b", value.Int(1))

	inner := NewEnv(root)
	inner.Define("b", value.Int(2))

	snap := inner.Snapshot()

	b, _ := snap.Lookup("b")
	if !value.Equal(b, value.Int(2)) {
		t.Errorf("b = %v, want 2", b)
	}

	a, _ := snap.Lookup("a")
	a.(*value.Array).Elems[0] = value.Int(9)

	orig, _ := root.Lookup("a")
	if got := orig.(*value.Array).Elems[0]; !value.Equal(got, value.Int(1)) {
		t.Errorf("snapshot shares storage: a[0] = %v", got)
	}

	fn := &value.Closure{Env: inner}
	inner.Define("f", fn)
	inner.Define("fs", value.NewArray(fn))

	snap = inner.Snapshot()

	f, _ := snap.Lookup("f")
	c, ok := f.(*value.Closure)
	if !ok || c == fn {
		t.Fatalf("closure was not copied: %v", f)
	}

	if c.Env != snap {
		t.Error("copied closure is not bound to the copied scope")
	}

	fs, _ := snap.Lookup("fs")
	if nested := fs.(*value.Array).Elems[0]; nested != c {
		t.Error("closure nested in a container was not rebound to the same copy")
	}

	if snap.parent == nil || snap.parent == root {
		t.Error("outer scope was not copied")
	}
}

func TestInterpreter_MethodNames(t *testing.T) {
	in, _, exec := load(t, `type Point { x: int }
impl Point {
    def norm(self) -> int { self.x }
}
p = Point { x: 3 }
s = "text"`)

	if err := exec(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tests := []struct {
		name string
		want []string
	}{
		{"p", []string{"norm", "to_string"}},
		{"s", []string{"upper", "trim", "to_string"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := in.Lookup(tt.name)
			if !ok {
				t.Fatalf("%s is unbound", tt.name)
			}

			names := in.MethodNames(v)
			if !slices.IsSorted(names) {
				t.Errorf("MethodNames() = %v, not sorted", names)
			}

			for _, w := range tt.want {
				if !slices.Contains(names, w) {
					t.Errorf("MethodNames() = %v, missing %q", names, w)
				}
			}
		})
	}
}
