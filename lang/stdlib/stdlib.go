package stdlib

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tjlang/lang/value"
	"github.com/ardnew/tjlang/log"
)

// Error kinds reported by host functions. The evaluator maps ErrArgument to
// a type error and the others to a value error.
var (
	ErrUndefined = errors.New("undefined host function")
	ErrArgument  = errors.New("invalid argument")
	ErrValue     = errors.New("invalid value")
	ErrIO        = errors.New("i/o failure")
	ErrAssertion = errors.New("assertion failed")
)

// Error is a host function failure. Its message is shown to the user
// unchanged.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func failf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Call carries the arguments and the process surface of one host function
// invocation.
type Call struct {
	Context context.Context
	Module  string
	Name    string
	Args    []value.Value

	Stdout io.Writer
	Stderr io.Writer
	Stdin  *bufio.Reader
	Logger log.Logger
}

// Func is the entry point of a host function.
type Func func(*Call) (value.Value, error)

type module map[string]Func

var registry = sync.OnceValue(func() map[string]module {
	return map[string]module{
		"IO":          ioModule(),
		"FILE":        fileModule(),
		"MATH":        mathModule(),
		"STRING":      stringModule(),
		"COLLECTIONS": collectionsModule(),
		"TIME":        timeModule(),
		"ERROR":       errorModule(),
		"TESTING":     testingModule(),
	}
})

// IsModule reports whether name is a host module.
func IsModule(name string) bool {
	_, ok := registry()[name]

	return ok
}

// Modules returns the host module names in sorted order.
func Modules() []string { return slices.Sorted(maps.Keys(registry())) }

// Functions returns the function names of a module in sorted order.
func Functions(mod string) []string { return slices.Sorted(maps.Keys(registry()[mod])) }

// Has reports whether mod defines name.
func Has(mod, name string) bool {
	_, ok := Lookup(mod, name)

	return ok
}

// Lookup returns the entry point of mod.name.
func Lookup(mod, name string) (Func, bool) {
	fn, ok := registry()[mod][name]

	return fn, ok
}

// Suggest returns the function of mod that best matches a misspelled name.
func Suggest(mod, name string) (string, bool) {
	return Closest(name, Functions(mod))
}

// Closest returns the candidate that best fuzzy-matches name.
func Closest(name string, candidates []string) (string, bool) {
	if name == "" || len(candidates) == 0 {
		return "", false
	}

	for _, m := range fuzzy.Find(name, candidates) {
		if n := len(m.Str) - len(name); n <= 2 {
			return m.Str, true
		}
	}

	// Transposed characters defeat subsequence matching; fall back to the
	// nearest candidate by edit distance.
	best, dist := "", len(name)/3+1
	for _, c := range candidates {
		if d := distance(name, c); d <= dist && (best == "" || d < dist) {
			best, dist = c, d
		}
	}

	return best, best != ""
}

func distance(a, b string) int {
	s, t := []rune(a), []rune(b)
	prev := make([]int, len(t)+1)
	curr := make([]int, len(t)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s); i++ {
		curr[0] = i

		for j := 1; j <= len(t); j++ {
			cost := 1
			if s[i-1] == t[j-1] {
				cost = 0
			}

			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(t)]
}

// Invoke runs the host function named by c.Module and c.Name.
func Invoke(c *Call) (value.Value, error) {
	fn, ok := Lookup(c.Module, c.Name)
	if !ok {
		return nil, failf(ErrUndefined, "Module `%s` has no method `%s`", c.Module, c.Name)
	}

	if c.Context == nil {
		c.Context = context.Background()
	}

	if c.Stdout == nil {
		c.Stdout = io.Discard
	}

	if c.Stderr == nil {
		c.Stderr = io.Discard
	}

	if c.Stdin == nil {
		c.Stdin = bufio.NewReader(eofReader{})
	}

	return fn(c)
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

func (c *Call) qualified() string { return c.Module + "." + c.Name }

// args reads the arguments of a call in order. The first failure sticks;
// later reads return zero values.
type args struct {
	c   *Call
	i   int
	err error
}

// expect checks the argument count against [lo, hi]; hi < 0 means no upper
// bound.
func (c *Call) expect(lo, hi int) *args {
	a := &args{c: c}

	n := len(c.Args)
	switch {
	case n < lo || (hi >= 0 && n > hi):
		want := fmt.Sprint(lo)
		switch {
		case hi < 0:
			want = fmt.Sprintf("at least %d", lo)
		case hi != lo:
			want = fmt.Sprintf("%d to %d", lo, hi)
		}

		a.err = failf(ErrArgument, "%s expects %s argument(s), but %d were provided",
			c.qualified(), want, n)
	}

	return a
}

func (a *args) more() bool { return a.err == nil && a.i < len(a.c.Args) }

func (a *args) next() value.Value {
	if a.err != nil || a.i >= len(a.c.Args) {
		return value.None
	}

	v := a.c.Args[a.i]
	a.i++

	return v
}

func (a *args) mismatch(want string, got value.Value) {
	if a.err == nil {
		a.err = failf(ErrArgument, "%s: argument %d must be %s, got %s",
			a.c.qualified(), a.i, want, got.Type())
	}
}

func (a *args) any() value.Value { return a.next() }

func (a *args) rest() []value.Value {
	if a.err != nil {
		return nil
	}

	out := a.c.Args[a.i:]
	a.i = len(a.c.Args)

	return out
}

func (a *args) int() int64 {
	v := a.next()
	if n, ok := v.(value.Int); ok {
		return int64(n)
	}

	a.mismatch(value.TypeInt, v)

	return 0
}

func (a *args) float() float64 {
	v := a.next()
	if f, ok := value.ToFloat(v); ok {
		return f
	}

	a.mismatch(value.TypeFloat, v)

	return 0
}

func (a *args) bool() bool {
	v := a.next()
	if b, ok := v.(value.Bool); ok {
		return bool(b)
	}

	a.mismatch(value.TypeBool, v)

	return false
}

func (a *args) str() string {
	v := a.next()
	if s, ok := v.(value.Str); ok {
		return string(s)
	}

	a.mismatch(value.TypeStr, v)

	return ""
}

func (a *args) array() *value.Array {
	v := a.next()
	if arr, ok := v.(*value.Array); ok {
		return arr
	}

	a.mismatch(value.TypeArray, v)

	return value.NewArray()
}

func (a *args) dict() *value.Map {
	v := a.next()
	if m, ok := v.(*value.Map); ok {
		return m
	}

	a.mismatch(value.TypeMap, v)

	return value.NewMap()
}

func (a *args) set() *value.Set {
	v := a.next()
	if s, ok := v.(*value.Set); ok {
		return s
	}

	a.mismatch(value.TypeSet, v)

	s, _ := value.NewSet()

	return s
}

// numbers reads the remaining arguments, or the elements of a single array
// argument, as floats. allInt reports whether every element was an int.
func (a *args) numbers() (out []float64, allInt bool) {
	vs := a.rest()
	if len(vs) == 1 {
		if arr, ok := vs[0].(*value.Array); ok {
			vs = arr.Elems
		}
	}

	allInt = true

	for _, v := range vs {
		f, ok := value.ToFloat(v)
		if !ok {
			a.mismatch("a number", v)

			return nil, false
		}

		if _, ok := v.(value.Int); !ok {
			allInt = false
		}

		out = append(out, f)
	}

	return out, allInt
}

// done returns the sticky error, if any.
func (a *args) done() error { return a.err }

func unit() (value.Value, error) { return value.None, nil }
