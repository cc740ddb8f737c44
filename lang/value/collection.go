package value

import (
	"iter"
	"slices"
	"strings"
)

type entry struct {
	key Value
	val Value
}

// Map is an insertion-ordered hash map keyed by canonical value keys.
type Map struct {
	order   []string
	entries map[string]entry
}

// NewMap returns an empty map.
func NewMap() *Map { return &Map{entries: make(map[string]entry)} }

func (*Map) Type() string { return TypeMap }

func (m *Map) String() string {
	parts := make([]string, 0, len(m.order))
	for k, v := range m.All() {
		parts = append(parts, k.String()+": "+v.String())
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.order) }

// Get returns the value stored under k.
func (m *Map) Get(k Value) (Value, bool, error) {
	key, err := Key(k)
	if err != nil {
		return nil, false, err
	}

	e, ok := m.entries[key]

	return e.val, ok, nil
}

// Set stores v under k.
func (m *Map) Set(k, v Value) error {
	key, err := Key(k)
	if err != nil {
		return err
	}

	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}

	m.entries[key] = entry{key: k, val: v}

	return nil
}

// Delete removes k and reports whether it was present.
func (m *Map) Delete(k Value) (bool, error) {
	key, err := Key(k)
	if err != nil {
		return false, err
	}

	if _, ok := m.entries[key]; !ok {
		return false, nil
	}

	delete(m.entries, key)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == key })

	return true, nil
}

// Clear removes every entry.
func (m *Map) Clear() {
	m.order = nil
	m.entries = make(map[string]entry)
}

// All yields the entries in insertion order.
func (m *Map) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for _, key := range m.order {
			e := m.entries[key]
			if !yield(e.key, e.val) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, 0, len(m.order))
	for k := range m.All() {
		out = append(out, k)
	}

	return out
}

// Values returns the values in insertion order.
func (m *Map) Values() []Value {
	out := make([]Value, 0, len(m.order))
	for _, v := range m.All() {
		out = append(out, v)
	}

	return out
}

// Set is an insertion-ordered set of hashable values.
type Set struct {
	order []string
	items map[string]Value
}

// NewSet returns a set holding elems.
func NewSet(elems ...Value) (*Set, error) {
	s := &Set{items: make(map[string]Value)}

	for _, e := range elems {
		if err := s.Add(e); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (*Set) Type() string { return TypeSet }

func (s *Set) String() string { return "{" + join(s.Elems()) + "}" }

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.order) }

// Add inserts v and reports an error when v is not hashable.
func (s *Set) Add(v Value) error {
	key, err := Key(v)
	if err != nil {
		return err
	}

	if _, ok := s.items[key]; !ok {
		s.order = append(s.order, key)
		s.items[key] = v
	}

	return nil
}

// Has reports whether v is an element of s.
func (s *Set) Has(v Value) (bool, error) {
	key, err := Key(v)
	if err != nil {
		return false, err
	}

	_, ok := s.items[key]

	return ok, nil
}

// Remove deletes v and reports whether it was present.
func (s *Set) Remove(v Value) (bool, error) {
	key, err := Key(v)
	if err != nil {
		return false, err
	}

	if _, ok := s.items[key]; !ok {
		return false, nil
	}

	delete(s.items, key)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == key })

	return true, nil
}

// Elems returns the elements in insertion order.
func (s *Set) Elems() []Value {
	out := make([]Value, len(s.order))
	for i, k := range s.order {
		out[i] = s.items[k]
	}

	return out
}

// Union returns the elements of s followed by those of o not in s.
func (s *Set) Union(o *Set) *Set {
	out := s.clone()

	for _, k := range o.order {
		if _, ok := out.items[k]; !ok {
			out.order = append(out.order, k)
			out.items[k] = o.items[k]
		}
	}

	return out
}

// Intersect returns the elements of s that are also in o.
func (s *Set) Intersect(o *Set) *Set {
	return s.filter(func(k string) bool {
		_, ok := o.items[k]

		return ok
	})
}

// Difference returns the elements of s that are not in o.
func (s *Set) Difference(o *Set) *Set {
	return s.filter(func(k string) bool {
		_, ok := o.items[k]

		return !ok
	})
}

func (s *Set) filter(keep func(string) bool) *Set {
	out := &Set{items: make(map[string]Value)}

	for _, k := range s.order {
		if keep(k) {
			out.order = append(out.order, k)
			out.items[k] = s.items[k]
		}
	}

	return out
}

func (s *Set) clone() *Set {
	return s.filter(func(string) bool { return true })
}
