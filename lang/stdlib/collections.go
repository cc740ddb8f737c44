package stdlib

import (
	"slices"

	"github.com/expr-lang/expr"

	"github.com/ardnew/tjlang/lang/value"
)

// The collection functions never modify their arguments; updates return a
// new collection.
func collectionsModule() module {
	return module{
		"array_new":        arrayNew,
		"array_push":       arrayPush,
		"array_pop":        arrayPop,
		"array_get":        arrayGet,
		"array_set":        arraySet,
		"array_len":        length,
		"array_contains":   arrayContains,
		"array_sort":       arraySort,
		"array_reverse":    arrayReverse,
		"array_slice":      arraySlice,
		"array_unique":     arrayUnique,
		"map_new":          mapNew,
		"map_insert":       mapInsert,
		"map_get":          mapGet,
		"map_remove":       mapRemove,
		"map_keys":         mapView((*value.Map).Keys),
		"map_values":       mapView((*value.Map).Values),
		"map_len":          length,
		"map_contains_key": mapContainsKey,
		"set_new":          setNew,
		"set_insert":       setInsert,
		"set_contains":     setContains,
		"set_union":        setOp((*value.Set).Union),
		"set_intersection": setOp((*value.Set).Intersect),
		"set_difference":   setOp((*value.Set).Difference),
		"set_len":          length,
		"filter_expr":      filterExpr,
	}
}

func hashError(c *Call, err error) error {
	return failf(ErrArgument, "%s: %v", c.qualified(), err)
}

func arrayNew(c *Call) (value.Value, error) {
	return value.NewArray(copyValues(c.Args)...), nil
}

func copyValues(vs []value.Value) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = value.Copy(v)
	}

	return out
}

func arrayPush(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	arr, v := a.array(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.NewArray(append(copyValues(arr.Elems), value.Copy(v))...), nil
}

func arrayPop(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	arr := a.array()

	if err := a.done(); err != nil {
		return nil, err
	}

	if len(arr.Elems) == 0 {
		return nil, failf(ErrValue, "%s: array is empty", c.qualified())
	}

	return value.NewArray(copyValues(arr.Elems[:len(arr.Elems)-1])...), nil
}

func index(c *Call, i int64, n int) error {
	if i < 0 || i >= int64(n) {
		return failf(ErrValue, "%s: index %d is out of bounds for array of length %d",
			c.qualified(), i, n)
	}

	return nil
}

func arrayGet(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	arr, i := a.array(), a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	if err := index(c, i, len(arr.Elems)); err != nil {
		return nil, err
	}

	return value.Copy(arr.Elems[i]), nil
}

func arraySet(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	arr, i, v := a.array(), a.int(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	if err := index(c, i, len(arr.Elems)); err != nil {
		return nil, err
	}

	out := copyValues(arr.Elems)
	out[i] = value.Copy(v)

	return value.NewArray(out...), nil
}

func length(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	v := a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	n, ok := value.Len(v)
	if !ok {
		a.mismatch("a collection", v)

		return nil, a.done()
	}

	return value.Int(n), nil
}

func arrayContains(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	arr, v := a.array(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Bool(slices.ContainsFunc(arr.Elems, func(e value.Value) bool {
		return value.Equal(e, v)
	})), nil
}

// SortValues sorts vs in ascending order and fails when two elements have
// no defined ordering.
func SortValues(vs []value.Value) error {
	var err error

	slices.SortStableFunc(vs, func(x, y value.Value) int {
		n, cerr := value.Compare(x, y)
		if cerr != nil && err == nil {
			err = cerr
		}

		return n
	})

	return err
}

func arraySort(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	arr := a.array()

	if err := a.done(); err != nil {
		return nil, err
	}

	out := copyValues(arr.Elems)
	if err := SortValues(out); err != nil {
		return nil, failf(ErrArgument, "%s: %v", c.qualified(), err)
	}

	return value.NewArray(out...), nil
}

func arrayReverse(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	arr := a.array()

	if err := a.done(); err != nil {
		return nil, err
	}

	out := copyValues(arr.Elems)
	slices.Reverse(out)

	return value.NewArray(out...), nil
}

// arraySlice returns the elements in [start, end), clamped to the array.
func arraySlice(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	arr, start, end := a.array(), a.int(), a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	n := int64(len(arr.Elems))
	start = min(max(start, 0), n)
	end = min(max(end, start), n)

	return value.NewArray(copyValues(arr.Elems[start:end])...), nil
}

func arrayUnique(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	arr := a.array()

	if err := a.done(); err != nil {
		return nil, err
	}

	out := value.NewArray()
	for _, e := range arr.Elems {
		if !slices.ContainsFunc(out.Elems, func(x value.Value) bool { return value.Equal(x, e) }) {
			out.Elems = append(out.Elems, value.Copy(e))
		}
	}

	return out, nil
}

func mapNew(c *Call) (value.Value, error) {
	if err := c.expect(0, 0).done(); err != nil {
		return nil, err
	}

	return value.NewMap(), nil
}

func mapInsert(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	m, k, v := a.dict(), a.any(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	out := value.Copy(m).(*value.Map)
	if err := out.Set(value.Copy(k), value.Copy(v)); err != nil {
		return nil, hashError(c, err)
	}

	return out, nil
}

// mapGet returns Some(value) for a present key and None otherwise.
func mapGet(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	m, k := a.dict(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	v, ok, err := m.Get(k)
	if err != nil {
		return nil, hashError(c, err)
	}

	if !ok {
		return value.Option{}, nil
	}

	return value.Some(value.Copy(v)), nil
}

func mapRemove(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	m, k := a.dict(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	out := value.Copy(m).(*value.Map)
	if _, err := out.Delete(k); err != nil {
		return nil, hashError(c, err)
	}

	return out, nil
}

func mapView(view func(*value.Map) []value.Value) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		m := a.dict()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.NewArray(copyValues(view(m))...), nil
	}
}

func mapContainsKey(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	m, k := a.dict(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	_, ok, err := m.Get(k)
	if err != nil {
		return nil, hashError(c, err)
	}

	return value.Bool(ok), nil
}

func setNew(c *Call) (value.Value, error) {
	s, err := value.NewSet(copyValues(c.Args)...)
	if err != nil {
		return nil, hashError(c, err)
	}

	return s, nil
}

func setInsert(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	s, v := a.set(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	out := value.Copy(s).(*value.Set)
	if err := out.Add(value.Copy(v)); err != nil {
		return nil, hashError(c, err)
	}

	return out, nil
}

func setContains(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	s, v := a.set(), a.any()

	if err := a.done(); err != nil {
		return nil, err
	}

	ok, err := s.Has(v)
	if err != nil {
		return nil, hashError(c, err)
	}

	return value.Bool(ok), nil
}

func setOp(op func(s, o *value.Set) *value.Set) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(2, 2)
		s, o := a.set(), a.set()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Copy(op(s, o)), nil
	}
}

// filterExpr keeps the array elements for which an expression is true.
// The expression sees the element as `it` and its position as `index`.
func filterExpr(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	arr, source := a.array(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	program, err := expr.Compile(source, expr.AsBool())
	if err != nil {
		return nil, failf(ErrValue, "%s: %v", c.qualified(), err)
	}

	out := value.NewArray()

	for i, e := range arr.Elems {
		keep, err := expr.Run(program, map[string]any{"it": Native(e), "index": i})
		if err != nil {
			return nil, failf(ErrValue, "%s: element %d: %v", c.qualified(), i, err)
		}

		if b, _ := keep.(bool); b {
			out.Elems = append(out.Elems, value.Copy(e))
		}
	}

	return out, nil
}

// Native converts v to plain Go data: scalars to their Go kinds, sequences
// to []any, maps to map[string]any keyed by the key's display form, and
// structs to map[string]any of their fields.
func Native(v value.Value) any {
	switch v := v.(type) {
	case value.Int:
		return int(v)
	case value.Float:
		return float64(v)
	case value.Bool:
		return bool(v)
	case value.Str:
		return string(v)
	case value.NoneType:
		return nil
	case *value.Array:
		return natives(v.Elems)
	case *value.Tuple:
		return natives(v.Elems)
	case *value.Set:
		return natives(v.Elems())
	case *value.Map:
		m := make(map[string]any, v.Len())
		for k, e := range v.All() {
			m[k.String()] = Native(e)
		}

		return m
	case *value.Struct:
		m := make(map[string]any, len(v.Fields))
		for n, f := range v.Fields {
			m[n] = Native(f)
		}

		return m
	case value.Option:
		if !v.Some {
			return nil
		}

		return Native(v.Val)
	}

	return v.String()
}

func natives(vs []value.Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = Native(v)
	}

	return out
}
