package value

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/ardnew/tjlang/lang/ast"
)

// Value is a runtime value.
type Value interface {
	// Type returns the runtime type tag. Impl blocks and built-in methods
	// are keyed by it.
	Type() string
	String() string
}

// Type tags of the built-in kinds. Structs and enums use their declared
// name.
const (
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeBool     = "bool"
	TypeStr      = "str"
	TypeNone     = "None"
	TypeArray    = "array"
	TypeMap      = "map"
	TypeSet      = "set"
	TypeTuple    = "tuple"
	TypeFunction = "function"
	TypeResult   = "Result"
	TypeOption   = "Option"
	TypeRange    = "range"
	TypeTask     = "task"
	TypeModule   = "module"
)

type (
	Int   int64
	Float float64
	Bool  bool
	Str   string

	// NoneType is the type of None.
	NoneType struct{}
)

// None is the None value.
var None Value = NoneType{}

func (Int) Type() string      { return TypeInt }
func (Float) Type() string    { return TypeFloat }
func (Bool) Type() string     { return TypeBool }
func (Str) Type() string      { return TypeStr }
func (NoneType) Type() string { return TypeNone }

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Float) String() string { return strconv.FormatFloat(float64(v), 'f', -1, 64) }

func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

func (v Str) String() string { return string(v) }

func (NoneType) String() string { return "None" }

// Array is a growable vector.
type Array struct {
	Elems []Value
}

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array { return &Array{Elems: elems} }

func (*Array) Type() string { return TypeArray }

func (a *Array) String() string { return "[" + join(a.Elems) + "]" }

// Tuple is a fixed-length heterogeneous sequence.
type Tuple struct {
	Elems []Value
}

func (*Tuple) Type() string { return TypeTuple }

func (t *Tuple) String() string { return "(" + join(t.Elems) + ")" }

// Struct is an instance of a declared struct type. Names preserves the
// declaration order of the fields.
type Struct struct {
	Name   string
	Names  []string
	Fields map[string]Value
}

// NewStruct returns an empty instance of the named struct.
func NewStruct(name string) *Struct {
	return &Struct{Name: name, Fields: make(map[string]Value)}
}

// Set assigns a field, appending it to the field order when new.
func (s *Struct) Set(name string, v Value) {
	if _, ok := s.Fields[name]; !ok {
		s.Names = append(s.Names, name)
	}

	s.Fields[name] = v
}

func (s *Struct) Type() string { return s.Name }

func (s *Struct) String() string {
	parts := make([]string, len(s.Names))
	for i, n := range s.Names {
		parts[i] = n + ": " + s.Fields[n].String()
	}

	if len(parts) == 0 {
		return s.Name + " {}"
	}

	return s.Name + " { " + strings.Join(parts, ", ") + " }"
}

// Enum is an enum variant with its positional payload.
type Enum struct {
	Name    string
	Variant string
	Index   int
	Payload []Value
}

func (e *Enum) Type() string { return e.Name }

func (e *Enum) String() string {
	if len(e.Payload) == 0 {
		return e.Name + "." + e.Variant
	}

	return e.Name + "." + e.Variant + "(" + join(e.Payload) + ")"
}

// Result is Ok(Val) or Err(Val).
type Result struct {
	Ok  bool
	Val Value
}

// Ok wraps v in a successful Result.
func Ok(v Value) Result { return Result{Ok: true, Val: v} }

// Err wraps v in a failed Result.
func Err(v Value) Result { return Result{Val: v} }

func (Result) Type() string { return TypeResult }

func (r Result) String() string {
	if r.Ok {
		return "Ok(" + r.Val.String() + ")"
	}

	return "Err(" + r.Val.String() + ")"
}

// Option is Some(Val) or an absent value.
type Option struct {
	Some bool
	Val  Value
}

// Some wraps v in a present Option.
func Some(v Value) Option { return Option{Some: true, Val: v} }

func (Option) Type() string { return TypeOption }

func (o Option) String() string {
	if o.Some {
		return "Some(" + o.Val.String() + ")"
	}

	return "None"
}

// Range is a lazy integer sequence.
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
}

func (*Range) Type() string { return TypeRange }

func (r *Range) String() string {
	if r.Inclusive {
		return fmt.Sprintf("%d..=%d", r.Start, r.End)
	}

	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Len returns the number of elements r produces.
func (r *Range) Len() int64 {
	end := r.End
	if r.Inclusive {
		end++
	}

	if end <= r.Start {
		return 0
	}

	return end - r.Start
}

// All yields the elements of r in ascending order.
func (r *Range) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for i := range r.Len() {
			if !yield(r.Start + i) {
				return
			}
		}
	}
}

// Func is a declared function or method. Recv is the bound receiver of a
// method value and nil otherwise.
type Func struct {
	Decl *ast.FuncDecl
	Recv Value
}

func (*Func) Type() string { return TypeFunction }

func (f *Func) String() string { return "<function " + f.Decl.Name + ">" }

// Closure is a lambda with its captured environment. The environment is
// owned by the interpreter.
type Closure struct {
	Lambda *ast.LambdaExpr
	Env    any
}

func (*Closure) Type() string { return TypeFunction }

func (*Closure) String() string { return "<closure>" }

// Builtin is a host function or a built-in method bound to Recv.
type Builtin struct {
	Name string
	Recv Value
}

func (*Builtin) Type() string { return TypeFunction }

func (b *Builtin) String() string { return "<builtin " + b.Name + ">" }

// Module is a host module referenced by name, such as IO.
type Module struct {
	Name string
}

func (*Module) Type() string { return TypeModule }

func (m *Module) String() string { return "<module " + m.Name + ">" }

// Task is the handle of a spawned unit of work.
type Task struct {
	ID   int64
	done atomic.Bool
}

func (*Task) Type() string { return TypeTask }

func (t *Task) String() string { return fmt.Sprintf("<task %d>", t.ID) }

// Done reports whether the task has finished.
func (t *Task) Done() bool { return t.done.Load() }

// Finish marks the task finished.
func (t *Task) Finish() { t.done.Store(true) }

func join(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}

	return strings.Join(parts, ", ")
}
