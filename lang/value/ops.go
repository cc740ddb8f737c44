package value

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// ErrUnhashable is returned when a value cannot be used as a map key or set
// element.
var ErrUnhashable = errors.New("value is not hashable")

// ErrUnordered is returned when two values have no defined ordering.
var ErrUnordered = errors.New("values cannot be ordered")

// Key returns the canonical key of a hashable value. Only scalars, tuples,
// enums, Result, and Option values whose parts are hashable have a key.
// Equal values have equal keys; an integral float and the equal int do not
// share a key.
func Key(v Value) (string, error) {
	var b strings.Builder
	if err := writeKey(&b, v); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeKey(b *strings.Builder, v Value) error {
	switch v := v.(type) {
	case Int:
		b.WriteString("i" + v.String())
	case Float:
		b.WriteString("f" + strconv.FormatFloat(float64(v), 'g', -1, 64))
	case Bool:
		b.WriteString("b" + v.String())
	case Str:
		b.WriteString("s" + strconv.Quote(string(v)))
	case NoneType:
		b.WriteString("n")
	case *Tuple:
		return writeKeys(b, "t", v.Elems)
	case *Enum:
		return writeKeys(b, "e"+v.Name+"."+v.Variant, v.Payload)
	case Result:
		tag := "Err"
		if v.Ok {
			tag = "Ok"
		}

		return writeKeys(b, tag, []Value{v.Val})
	case Option:
		if !v.Some {
			b.WriteString("n")

			return nil
		}

		return writeKeys(b, "Some", []Value{v.Val})
	default:
		return fmt.Errorf("%w: %s", ErrUnhashable, v.Type())
	}

	return nil
}

func writeKeys(b *strings.Builder, tag string, vs []Value) error {
	b.WriteString(tag + "(")

	for i, e := range vs {
		if i > 0 {
			b.WriteByte(',')
		}

		if err := writeKey(b, e); err != nil {
			return err
		}
	}

	b.WriteByte(')')

	return nil
}

// Hash returns a 64-bit hash of a hashable value.
func Hash(v Value) (int64, error) {
	key, err := Key(v)
	if err != nil {
		return 0, err
	}

	return int64(xxh3.HashString(key)), nil
}

// Equal reports whether a and b are structurally equal. Ints and floats
// compare by numeric value. Functions and tasks compare by identity.
func Equal(a, b Value) bool {
	if x, ok := ToFloat(a); ok {
		if y, ok := ToFloat(b); ok {
			return x == y
		}

		return false
	}

	switch a := a.(type) {
	case NoneType:
		if o, ok := b.(Option); ok {
			return !o.Some
		}

		return a == b
	case Bool, Str:
		return a == b
	case *Array:
		o, ok := b.(*Array)

		return ok && equalAll(a.Elems, o.Elems)
	case *Tuple:
		o, ok := b.(*Tuple)

		return ok && equalAll(a.Elems, o.Elems)
	case *Struct:
		o, ok := b.(*Struct)
		if !ok || a.Name != o.Name || len(a.Fields) != len(o.Fields) {
			return false
		}

		for n, v := range a.Fields {
			if w, ok := o.Fields[n]; !ok || !Equal(v, w) {
				return false
			}
		}

		return true
	case *Enum:
		o, ok := b.(*Enum)

		return ok && a.Name == o.Name && a.Variant == o.Variant && equalAll(a.Payload, o.Payload)
	case Result:
		o, ok := b.(Result)

		return ok && a.Ok == o.Ok && Equal(a.Val, o.Val)
	case Option:
		if _, ok := b.(NoneType); ok {
			return !a.Some
		}

		o, ok := b.(Option)

		return ok && a.Some == o.Some && (!a.Some || Equal(a.Val, o.Val))
	case *Map:
		o, ok := b.(*Map)
		if !ok || a.Len() != o.Len() {
			return false
		}

		for k, v := range a.All() {
			w, found, err := o.Get(k)
			if err != nil || !found || !Equal(v, w) {
				return false
			}
		}

		return true
	case *Set:
		o, ok := b.(*Set)
		if !ok || a.Len() != o.Len() {
			return false
		}

		for _, e := range a.Elems() {
			if has, err := o.Has(e); err != nil || !has {
				return false
			}
		}

		return true
	case *Range:
		o, ok := b.(*Range)

		return ok && *a == *o
	}

	return a == b
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// Compare orders numbers, strings, bools, and sequences of comparable
// values lexicographically.
func Compare(a, b Value) (int, error) {
	if x, ok := ToFloat(a); ok {
		if y, ok := ToFloat(b); ok {
			if ai, ok := a.(Int); ok {
				if bi, ok := b.(Int); ok {
					return cmp.Compare(ai, bi), nil
				}
			}

			return cmp.Compare(x, y), nil
		}
	}

	switch a := a.(type) {
	case Str:
		if o, ok := b.(Str); ok {
			return strings.Compare(string(a), string(o)), nil
		}
	case Bool:
		if o, ok := b.(Bool); ok {
			return cmp.Compare(boolInt(bool(a)), boolInt(bool(o))), nil
		}
	case *Array:
		if o, ok := b.(*Array); ok {
			return compareAll(a.Elems, o.Elems)
		}
	case *Tuple:
		if o, ok := b.(*Tuple); ok {
			return compareAll(a.Elems, o.Elems)
		}
	}

	return 0, fmt.Errorf("%w: %s and %s", ErrUnordered, a.Type(), b.Type())
}

func compareAll(a, b []Value) (int, error) {
	for i := range min(len(a), len(b)) {
		c, err := Compare(a[i], b[i])
		if err != nil || c != 0 {
			return c, err
		}
	}

	return cmp.Compare(len(a), len(b)), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

// ToFloat returns the numeric value of an int or float.
func ToFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}

	return 0, false
}

// Truthy reports whether v counts as true in a condition: false, None,
// zero, and empty strings and containers are false.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case NoneType:
		return false
	case Int:
		return v != 0
	case Float:
		return v != 0 && !math.IsNaN(float64(v))
	case Str:
		return v != ""
	case *Array:
		return len(v.Elems) > 0
	case *Map:
		return v.Len() > 0
	case *Set:
		return v.Len() > 0
	case Option:
		return v.Some
	case Result:
		return v.Ok
	}

	return true
}

// Copy returns a deep copy of v. Functions, closures, modules, and tasks
// are shared.
func Copy(v Value) Value { return CopyWith(v, nil) }

// CopyWith returns a deep copy of v in which every closure, including those
// nested in containers and bound method receivers, is replaced by
// closure(c). A nil closure shares closures and receivers as [Copy] does.
func CopyWith(v Value, closure func(*Closure) Value) Value {
	c := copier(closure)

	return c.copy(v)
}

type copier func(*Closure) Value

func (c copier) copy(v Value) Value {
	switch v := v.(type) {
	case *Array:
		return &Array{Elems: c.all(v.Elems)}
	case *Tuple:
		return &Tuple{Elems: c.all(v.Elems)}
	case *Struct:
		s := &Struct{
			Name:   v.Name,
			Names:  append([]string(nil), v.Names...),
			Fields: make(map[string]Value, len(v.Fields)),
		}

		for n, f := range v.Fields {
			s.Fields[n] = c.copy(f)
		}

		return s
	case *Enum:
		return &Enum{Name: v.Name, Variant: v.Variant, Index: v.Index, Payload: c.all(v.Payload)}
	case Result:
		return Result{Ok: v.Ok, Val: c.copy(v.Val)}
	case Option:
		if !v.Some {
			return v
		}

		return Some(c.copy(v.Val))
	case *Map:
		m := NewMap()

		for k, e := range v.All() {
			// Keys are hashable, so Set cannot fail.
			_ = m.Set(c.copy(k), c.copy(e))
		}

		return m
	case *Set:
		s := &Set{items: make(map[string]Value, len(v.items))}

		for _, k := range v.order {
			s.order = append(s.order, k)
			s.items[k] = c.copy(v.items[k])
		}

		return s
	case *Range:
		r := *v

		return &r
	case *Closure:
		if c != nil {
			return c(v)
		}
	case *Func:
		if c != nil && v.Recv != nil {
			return &Func{Decl: v.Decl, Recv: c.copy(v.Recv)}
		}
	case *Builtin:
		if c != nil && v.Recv != nil {
			b := *v
			b.Recv = c.copy(v.Recv)

			return &b
		}
	}

	return v
}

func (c copier) all(vs []Value) []Value {
	if vs == nil {
		return nil
	}

	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = c.copy(v)
	}

	return out
}

// Len returns the length of strings and containers.
func Len(v Value) (int, bool) {
	switch v := v.(type) {
	case Str:
		return len([]rune(string(v))), true
	case *Array:
		return len(v.Elems), true
	case *Tuple:
		return len(v.Elems), true
	case *Map:
		return v.Len(), true
	case *Set:
		return v.Len(), true
	case *Range:
		return int(v.Len()), true
	}

	return 0, false
}

// Elements returns the elements produced by iterating over v: sequence and
// set elements, map keys, range values, or the characters of a string.
func Elements(v Value) ([]Value, bool) {
	switch v := v.(type) {
	case *Array:
		return v.Elems, true
	case *Tuple:
		return v.Elems, true
	case *Set:
		return v.Elems(), true
	case *Map:
		return v.Keys(), true
	case Str:
		out := make([]Value, 0, len(v))
		for _, r := range string(v) {
			out = append(out, Str(string(r)))
		}

		return out, true
	case *Range:
		out := make([]Value, 0, v.Len())
		for i := range v.All() {
			out = append(out, Int(i))
		}

		return out, true
	}

	return nil, false
}

// Repr formats v for echoing in the REPL: strings are quoted, everything
// else uses String.
func Repr(v Value) string {
	if s, ok := v.(Str); ok {
		return strconv.Quote(string(s))
	}

	return v.String()
}
