package value

import (
	"errors"
	"slices"
	"testing"
)

func TestString(t *testing.T) {
	s := NewStruct("Point")
	s.Set("x", Int(1))
	s.Set("y", Float(2.5))

	m := NewMap()
	_ = m.Set(Str("a"), Int(1))
	_ = m.Set(Str("b"), NewArray(Int(2), Int(3)))

	set, _ := NewSet(Int(3), Int(1), Int(3))

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", Int(-7), "-7"},
		{"whole float", Float(2), "2"},
		{"float", Float(0.25), "0.25"},
		{"bool", Bool(true), "true"},
		{"str", Str("hi"), "hi"},
		{"none", None, "None"},
		{"array", NewArray(Int(1), Str("x")), "[1, x]"},
		{"tuple", &Tuple{Elems: []Value{Int(1), Bool(false)}}, "(1, false)"},
		{"struct", s, "Point { x: 1, y: 2.5 }"},
		{"empty struct", NewStruct("Unit"), "Unit {}"},
		{"enum", &Enum{Name: "Shape", Variant: "Circle", Payload: []Value{Float(1.5)}}, "Shape.Circle(1.5)"},
		{"unit variant", &Enum{Name: "Shape", Variant: "Empty"}, "Shape.Empty"},
		{"map", m, "{a: 1, b: [2, 3]}"},
		{"set dedups in order", set, "{3, 1}"},
		{"ok", Ok(Int(1)), "Ok(1)"},
		{"err", Err(Str("bad")), "Err(bad)"},
		{"some", Some(Int(2)), "Some(2)"},
		{"absent", Option{}, "None"},
		{"range", &Range{Start: 0, End: 5, Inclusive: true}, "0..=5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		r    Range
		want []int64
	}{
		{Range{Start: 0, End: 5}, []int64{0, 1, 2, 3, 4}},
		{Range{Start: 0, End: 5, Inclusive: true}, []int64{0, 1, 2, 3, 4, 5}},
		{Range{Start: 3, End: 3}, nil},
		{Range{Start: 3, End: 3, Inclusive: true}, []int64{3}},
		{Range{Start: 5, End: 0}, nil},
		{Range{Start: -2, End: 1}, []int64{-2, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			got := slices.Collect(tt.r.All())
			if !slices.Equal(got, tt.want) {
				t.Errorf("All() = %v, want %v", got, tt.want)
			}

			if n := tt.r.Len(); n != int64(len(tt.want)) {
				t.Errorf("Len() = %d, want %d", n, len(tt.want))
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int float", Int(1), Float(1), true},
		{"int str", Int(1), Str("1"), false},
		{"arrays", NewArray(Int(1), Int(2)), NewArray(Int(1), Int(2)), true},
		{"array length", NewArray(Int(1)), NewArray(Int(1), Int(2)), false},
		{"none and absent option", None, Option{}, true},
		{"absent option and none", Option{}, None, true},
		{"some", Some(Int(1)), Some(Int(1)), true},
		{"ok err", Ok(Int(1)), Err(Int(1)), false},
		{"enum payload", &Enum{Name: "E", Variant: "A", Payload: []Value{Int(1)}}, &Enum{Name: "E", Variant: "A", Payload: []Value{Int(2)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %t, want %t", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCopy_Independent(t *testing.T) {
	inner := NewArray(Int(1))
	s := NewStruct("Box")
	s.Set("items", inner)

	c := Copy(s).(*Struct)
	c.Fields["items"].(*Array).Elems[0] = Int(9)

	if got := inner.Elems[0]; got != Int(1) {
		t.Errorf("original changed to %v", got)
	}

	if !Equal(Copy(s), s) {
		t.Error("copy is not equal to the original")
	}
}

func TestCopyWith_Closures(t *testing.T) {
	fn := &Closure{Env: "outer"}
	recv := NewArray(Int(1))
	bound := &Builtin{Name: "push", Recv: recv}

	v := NewArray(fn, &Tuple{Elems: []Value{fn}}, bound)

	if c := Copy(v).(*Array); c.Elems[0] != fn || c.Elems[2].(*Builtin).Recv != recv {
		t.Error("Copy did not share closures and receivers")
	}

	swapped := &Closure{Env: "inner"}

	c := CopyWith(v, func(*Closure) Value { return swapped }).(*Array)

	if c.Elems[0] != swapped || c.Elems[1].(*Tuple).Elems[0] != swapped {
		t.Errorf("closures were not replaced: %v", c.Elems)
	}

	b := c.Elems[2].(*Builtin)
	b.Recv.(*Array).Elems[0] = Int(9)

	if got := recv.Elems[0]; got != Int(1) {
		t.Errorf("bound receiver is shared: original changed to %v", got)
	}
}

func TestKey(t *testing.T) {
	k1, err := Key(&Tuple{Elems: []Value{Int(1), Str("a")}})
	if err != nil {
		t.Fatal(err)
	}

	k2, _ := Key(&Tuple{Elems: []Value{Int(1), Str("a")}})
	if k1 != k2 {
		t.Errorf("equal tuples have keys %q and %q", k1, k2)
	}

	if ki, _ := Key(Int(1)); ki == k1 {
		t.Error("int and tuple share a key")
	}

	if _, err := Key(NewArray()); !errors.Is(err, ErrUnhashable) {
		t.Errorf("Key(array) error = %v, want ErrUnhashable", err)
	}

	if _, err := Key(&Tuple{Elems: []Value{NewArray()}}); !errors.Is(err, ErrUnhashable) {
		t.Errorf("Key(tuple with array) error = %v, want ErrUnhashable", err)
	}
}

func TestMap(t *testing.T) {
	m := NewMap()

	for i, k := range []string{"z", "a", "m"} {
		if err := m.Set(Str(k), Int(i)); err != nil {
			t.Fatal(err)
		}
	}

	_ = m.Set(Str("a"), Int(10))

	if ok, _ := m.Delete(Str("z")); !ok {
		t.Error("Delete(z) = false")
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != Str("a") || keys[1] != Str("m") {
		t.Errorf("Keys() = %v", keys)
	}

	if v, ok, _ := m.Get(Str("a")); !ok || v != Int(10) {
		t.Errorf("Get(a) = %v, %t", v, ok)
	}

	if err := m.Set(NewArray(), Int(1)); !errors.Is(err, ErrUnhashable) {
		t.Errorf("Set(array) error = %v", err)
	}
}

func TestSetOperations(t *testing.T) {
	a, _ := NewSet(Int(1), Int(2), Int(3))
	b, _ := NewSet(Int(2), Int(3), Int(4))

	tests := []struct {
		name string
		got  *Set
		want string
	}{
		{"union", a.Union(b), "{1, 2, 3, 4}"},
		{"intersection", a.Intersect(b), "{2, 3}"},
		{"difference", a.Difference(b), "{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := tt.got.String(); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	if c, err := Compare(Int(1), Float(1.5)); err != nil || c != -1 {
		t.Errorf("Compare(1, 1.5) = %d, %v", c, err)
	}

	if c, _ := Compare(Str("b"), Str("a")); c != 1 {
		t.Errorf("Compare(b, a) = %d", c)
	}

	if c, _ := Compare(NewArray(Int(1), Int(2)), NewArray(Int(1))); c != 1 {
		t.Errorf("Compare([1, 2], [1]) = %d", c)
	}

	if _, err := Compare(Int(1), Str("a")); !errors.Is(err, ErrUnordered) {
		t.Errorf("Compare(int, str) error = %v", err)
	}
}

func TestTask(t *testing.T) {
	task := &Task{ID: 3}
	if task.Done() {
		t.Fatal("new task is done")
	}

	task.Finish()

	if !task.Done() {
		t.Error("finished task is not done")
	}

	if task.String() != "<task 3>" {
		t.Errorf("String() = %q", task.String())
	}
}
