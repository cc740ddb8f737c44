package stdlib

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ardnew/tjlang/lang/value"
	"github.com/ardnew/tjlang/log"
)

func call(t *testing.T, mod, name string, args ...value.Value) (value.Value, error) {
	t.Helper()

	return Invoke(&Call{Module: mod, Name: name, Args: args})
}

func mustCall(t *testing.T, mod, name string, args ...value.Value) value.Value {
	t.Helper()

	v, err := call(t, mod, name, args...)
	if err != nil {
		t.Fatalf("%s.%s: %v", mod, name, err)
	}

	return v
}

func TestRegistry(t *testing.T) {
	want := []string{"COLLECTIONS", "ERROR", "FILE", "IO", "MATH", "STRING", "TESTING", "TIME"}
	if got := Modules(); !slices.Equal(got, want) {
		t.Errorf("Modules() = %v, want %v", got, want)
	}

	for _, fn := range []struct{ mod, name string }{
		{"IO", "println"},
		{"FILE", "path_list"},
		{"MATH", "sqrt"},
		{"STRING", "fuzzy_match"},
		{"COLLECTIONS", "filter_expr"},
		{"TIME", "now_string"},
		{"ERROR", "warn"},
		{"TESTING", "assert_in_range"},
	} {
		if !Has(fn.mod, fn.name) {
			t.Errorf("%s.%s is not registered", fn.mod, fn.name)
		}
	}

	if IsModule("Io") {
		t.Error("module names are case sensitive")
	}

	if _, err := call(t, "IO", "prnt"); !errors.Is(err, ErrUndefined) {
		t.Errorf("IO.prnt error = %v, want ErrUndefined", err)
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		mod, name string
		want      string
		ok        bool
	}{
		{"IO", "prnt", "print", true},
		{"IO", "pritnln", "println", true},
		{"MATH", "sqr", "sqrt", true},
		{"STRING", "zzzzzz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.mod, tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Suggest(%s, %s) = %q, %t, want %q, %t",
					tt.mod, tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestArguments(t *testing.T) {
	tests := []struct {
		name string
		mod  string
		fn   string
		args []value.Value
		kind error
		msg  string
	}{
		{
			"arity", "MATH", "sqrt", nil, ErrArgument,
			"MATH.sqrt expects 1 argument(s), but 0 were provided",
		},
		{
			"range arity", "STRING", "pad_left", []value.Value{value.Str("a")}, ErrArgument,
			"STRING.pad_left expects 2 to 3 argument(s), but 1 were provided",
		},
		{
			"type", "STRING", "repeat", []value.Value{value.Str("a"), value.Str("b")}, ErrArgument,
			"STRING.repeat: argument 2 must be int, got str",
		},
		{
			"domain", "MATH", "sqrt", []value.Value{value.Int(-1)}, ErrValue,
			"MATH.sqrt: argument -1 is out of domain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, tt.mod, tt.fn, tt.args...)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("error = %v, want %v", err, tt.kind)
			}

			if err.Error() != tt.msg {
				t.Errorf("message = %q, want %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestIO(t *testing.T) {
	var out, errOut bytes.Buffer

	run := func(name string, args ...value.Value) {
		t.Helper()

		_, err := Invoke(&Call{Module: "IO", Name: name, Args: args, Stdout: &out, Stderr: &errOut})
		if err != nil {
			t.Fatalf("IO.%s: %v", name, err)
		}
	}

	run("print", value.Str("a"), value.Int(1))
	run("println", value.NewArray(value.Float(1.5), value.Str("b")))
	run("printf", value.Str("{} + {} = {}\n"), value.Int(1), value.Int(2), value.Int(3))
	run("eprintln", value.Str("oops"))
	run("print_info", value.Str("ready"))

	want := "a 1[1.5, b]\n1 + 2 = 3\nInfo: ready\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}

	if errOut.String() != "oops\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format string
		args   []value.Value
		want   string
	}{
		{"{} and {}", []value.Value{value.Int(1), value.Str("x")}, "1 and x"},
		{"{1} {0} {1}", []value.Value{value.Str("a"), value.Str("b")}, "b a b"},
		{"{} {} {}", []value.Value{value.NewArray(value.Int(1), value.Int(2)), value.Int(3)}, "1 2 3"},
		{"{} {}", []value.Value{value.Int(1)}, "1 {}"},
		{"none", []value.Value{value.Int(1)}, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := Format(tt.format, tt.args); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello\n42\nx\n"))

	read := func(name string) (value.Value, error) {
		return Invoke(&Call{Module: "IO", Name: name, Stdin: in})
	}

	if v, err := read("read_line"); err != nil || v != value.Str("hello") {
		t.Errorf("read_line = %v, %v", v, err)
	}

	if v, err := read("read_int"); err != nil || v != value.Int(42) {
		t.Errorf("read_int = %v, %v", v, err)
	}

	if _, err := read("read_float"); !errors.Is(err, ErrValue) {
		t.Errorf("read_float error = %v, want ErrValue", err)
	}

	if _, err := read("read_line"); !errors.Is(err, ErrIO) {
		t.Errorf("read_line at EOF error = %v, want ErrIO", err)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := value.Str(filepath.Join(dir, "notes.txt"))

	mustCall(t, "FILE", "write_string", path, value.Str("one\n"))
	mustCall(t, "FILE", "append_string", path, value.Str("two\n"))

	if got := mustCall(t, "FILE", "read_to_string", path); got != value.Str("one\ntwo\n") {
		t.Errorf("read_to_string = %q", got)
	}

	tests := []struct {
		fn   string
		arg  value.Value
		want value.Value
	}{
		{"exists", path, value.Bool(true)},
		{"is_file", path, value.Bool(true)},
		{"is_dir", path, value.Bool(false)},
		{"size", path, value.Int(8)},
		{"extension", path, value.Str("txt")},
		{"stem", path, value.Str("notes")},
		{"filename", path, value.Str("notes.txt")},
		{"parent", path, value.Str(dir)},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			if got := mustCall(t, "FILE", tt.fn, tt.arg); !value.Equal(got, tt.want) {
				t.Errorf("%s = %v, want %v", tt.fn, got, tt.want)
			}
		})
	}

	mustCall(t, "FILE", "delete", path)

	if _, err := call(t, "FILE", "read_to_string", path); !errors.Is(err, ErrIO) {
		t.Errorf("read after delete error = %v, want ErrIO", err)
	}
}

func TestPathList(t *testing.T) {
	dir := t.TempDir()

	got := mustCall(t, "FILE", "path_list", value.Str("/usr/bin"), value.Str(dir))
	if s := string(got.(value.Str)); !strings.Contains(s, dir) {
		t.Errorf("path_list = %q, want it to include %q", s, dir)
	}

	missing := filepath.Join(dir, "missing")

	got = mustCall(t, "FILE", "path_list_existing", value.Str("/usr/bin"), value.Str(missing))
	if strings.Contains(string(got.(value.Str)), missing) {
		t.Errorf("path_list_existing kept %q: %v", missing, got)
	}
}

func TestMath(t *testing.T) {
	arr := value.NewArray(value.Int(3), value.Int(1), value.Int(2))

	tests := []struct {
		fn   string
		args []value.Value
		want value.Value
	}{
		{"abs", []value.Value{value.Int(-4)}, value.Int(4)},
		{"sqrt", []value.Value{value.Int(16)}, value.Float(4)},
		{"power", []value.Value{value.Int(2), value.Int(10)}, value.Float(1024)},
		{"max", []value.Value{value.Int(1), value.Int(7), value.Int(3)}, value.Int(7)},
		{"min", []value.Value{value.Float(1.5), value.Int(1)}, value.Float(1)},
		{"sum", []value.Value{arr}, value.Int(6)},
		{"product", []value.Value{arr}, value.Int(6)},
		{"mean", []value.Value{arr}, value.Float(2)},
		{"median", []value.Value{value.NewArray(value.Int(4), value.Int(1), value.Int(3), value.Int(2))}, value.Float(2.5)},
		{"clamp", []value.Value{value.Int(12), value.Int(0), value.Int(10)}, value.Int(10)},
		{"gcd", []value.Value{value.Int(12), value.Int(18)}, value.Int(6)},
		{"lcm", []value.Value{value.Int(4), value.Int(6)}, value.Int(12)},
		{"is_prime", []value.Value{value.Int(97)}, value.Bool(true)},
		{"factorial", []value.Value{value.Int(5)}, value.Int(120)},
		{"fibonacci", []value.Value{value.Int(10)}, value.Int(55)},
		{"sign", []value.Value{value.Float(-0.5)}, value.Float(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			got := mustCall(t, "MATH", tt.fn, tt.args...)
			if got != tt.want {
				t.Errorf("MATH.%s = %v (%s), want %v (%s)", tt.fn, got, got.Type(), tt.want, tt.want.Type())
			}
		})
	}
}

func TestString(t *testing.T) {
	s := func(v string) value.Value { return value.Str(v) }

	tests := []struct {
		fn   string
		args []value.Value
		want string
	}{
		{"to_uppercase", []value.Value{s("abc")}, "ABC"},
		{"capitalize", []value.Value{s("hELLO")}, "Hello"},
		{"reverse", []value.Value{s("héllo")}, "olléh"},
		{"trim_start", []value.Value{s("  x ")}, "x "},
		{"replace", []value.Value{s("a-b-c"), s("-"), s("+")}, "a+b+c"},
		{"substring", []value.Value{s("héllo"), value.Int(1), value.Int(3)}, "él"},
		{"pad_left", []value.Value{s("7"), value.Int(3), s("0")}, "007"},
		{"pad_right", []value.Value{s("ab"), value.Int(4)}, "ab  "},
		{"join", []value.Value{value.NewArray(s("a"), value.Int(1)), s(", ")}, "a, 1"},
		{"split", []value.Value{s("a,b"), s(",")}, "[a, b]"},
		{"find", []value.Value{s("héllo"), s("l")}, "Some(2)"},
		{"find", []value.Value{s("abc"), s("z")}, "None"},
		{"is_numeric", []value.Value{s("-1.5e3")}, "true"},
		{"format", []value.Value{s("{0}-{0}"), s("x")}, "x-x"},
		{"fuzzy_match", []value.Value{s("prn"), value.NewArray(s("println"), s("exit"), s("print"))}, "[print, println]"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			if got := mustCall(t, "STRING", tt.fn, tt.args...).String(); got != tt.want {
				t.Errorf("STRING.%s = %q, want %q", tt.fn, got, tt.want)
			}
		})
	}
}

func TestCollections(t *testing.T) {
	arr := value.NewArray(value.Int(3), value.Int(1), value.Int(3), value.Int(2))

	sorted := mustCall(t, "COLLECTIONS", "array_sort", arr)
	if sorted.String() != "[1, 2, 3, 3]" {
		t.Errorf("array_sort = %v", sorted)
	}

	if arr.String() != "[3, 1, 3, 2]" {
		t.Errorf("array_sort modified its argument: %v", arr)
	}

	tests := []struct {
		fn   string
		args []value.Value
		want string
	}{
		{"array_unique", []value.Value{arr}, "[3, 1, 2]"},
		{"array_push", []value.Value{arr, value.Int(9)}, "[3, 1, 3, 2, 9]"},
		{"array_pop", []value.Value{arr}, "[3, 1, 3]"},
		{"array_slice", []value.Value{arr, value.Int(1), value.Int(10)}, "[1, 3, 2]"},
		{"array_set", []value.Value{arr, value.Int(0), value.Int(0)}, "[0, 1, 3, 2]"},
		{"array_contains", []value.Value{arr, value.Float(2)}, "true"},
		{"array_len", []value.Value{arr}, "4"},
		{"filter_expr", []value.Value{arr, value.Str("it > 1 && index < 3")}, "[3, 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			if got := mustCall(t, "COLLECTIONS", tt.fn, tt.args...).String(); got != tt.want {
				t.Errorf("COLLECTIONS.%s = %s, want %s", tt.fn, got, tt.want)
			}
		})
	}

	if _, err := call(t, "COLLECTIONS", "array_get", arr, value.Int(4)); !errors.Is(err, ErrValue) {
		t.Errorf("array_get out of bounds error = %v", err)
	}

	m := mustCall(t, "COLLECTIONS", "map_new")
	m = mustCall(t, "COLLECTIONS", "map_insert", m, value.Str("k"), value.Int(1))

	if got := mustCall(t, "COLLECTIONS", "map_get", m, value.Str("k")); got.String() != "Some(1)" {
		t.Errorf("map_get = %v", got)
	}

	if _, err := call(t, "COLLECTIONS", "map_insert", m, value.NewArray(), value.Int(1)); !errors.Is(err, ErrArgument) {
		t.Errorf("map_insert with array key error = %v", err)
	}

	s1 := mustCall(t, "COLLECTIONS", "set_new", value.Int(1), value.Int(2))
	s2 := mustCall(t, "COLLECTIONS", "set_new", value.Int(2), value.Int(3))

	if got := mustCall(t, "COLLECTIONS", "set_union", s1, s2); got.String() != "{1, 2, 3}" {
		t.Errorf("set_union = %v", got)
	}
}

func TestTime(t *testing.T) {
	fixed := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)
	now = func() time.Time { return fixed }

	t.Cleanup(func() { now = time.Now })

	if got := mustCall(t, "TIME", "now_string"); got != value.Str("2024-03-05 07:08:09 UTC") {
		t.Errorf("now_string = %q", got)
	}

	if got := mustCall(t, "TIME", "now"); got != value.Float(fixed.Unix()) {
		t.Errorf("now = %v", got)
	}

	got := mustCall(t, "TIME", "format_timestamp", value.Int(fixed.Unix()), value.Str("%A %d %B %Y, %H:%M %%"))
	if got != value.Str("Tuesday 05 March 2024, 07:08 %") {
		t.Errorf("format_timestamp = %q", got)
	}

	got = mustCall(t, "TIME", "parse_date", value.Str("2024-03-05"), value.Str("%Y-%m-%d"))
	if got != value.Int(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC).Unix()) {
		t.Errorf("parse_date = %v", got)
	}
}

func TestSleep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Invoke(&Call{Context: ctx, Module: "TIME", Name: "sleep", Args: []value.Value{value.Int(60)}})
	if !errors.Is(err, ErrIO) {
		t.Errorf("sleep error = %v, want ErrIO", err)
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelDebug), log.WithFormat(log.FormatJSON), log.WithPretty(false))

	_, err := Invoke(&Call{
		Module: "ERROR",
		Name:   "warn",
		Args:   []value.Value{value.Str("disk low"), value.Int(3)},
		Logger: logger,
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"disk low"`, `"level":"WARN"`, `"arg1":3`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %s does not contain %s", out, want)
		}
	}

	if got := mustCall(t, "ERROR", "new", value.Str("bad")); got != value.Str("bad") {
		t.Errorf("ERROR.new = %v", got)
	}
}

func TestAssertions(t *testing.T) {
	s := func(v string) value.Value { return value.Str(v) }

	tests := []struct {
		fn   string
		args []value.Value
		want string
	}{
		{"assert_true", []value.Value{value.Bool(false), s("flag")}, "Assertion failed: flag"},
		{"assert_false", []value.Value{value.Bool(true), s("flag")}, "Assertion failed: flag"},
		{"assert_equal", []value.Value{value.Int(1), value.Int(2), s("sum")}, "Assertion failed: sum - Expected 2, got 1"},
		{"assert_equal", []value.Value{s("a"), s("b"), s("str")}, `Assertion failed: str - Expected "b", got "a"`},
		{"assert_not_equal", []value.Value{value.Int(1), value.Int(1), s("ne")}, "Assertion failed: ne - Values should not be equal: 1"},
		{"assert_contains", []value.Value{s("hello"), s("z"), s("c")}, "Assertion failed: c - String 'hello' does not contain 'z'"},
		{"assert_in_range", []value.Value{value.Int(11), value.Int(0), value.Int(10), s("r")}, "Assertion failed: r - Value 11 not in range [0, 10]"},
		{"fail", []value.Value{s("stop")}, "Assertion failed: stop"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			_, err := call(t, "TESTING", tt.fn, tt.args...)
			if !errors.Is(err, ErrAssertion) {
				t.Fatalf("error = %v, want ErrAssertion", err)
			}

			if err.Error() != tt.want {
				t.Errorf("message = %q, want %q", err.Error(), tt.want)
			}
		})
	}

	if _, err := call(t, "TESTING", "assert_equal", value.Int(1), value.Float(1), s("num")); err != nil {
		t.Errorf("assert_equal(1, 1.0) = %v", err)
	}
}
