package interp

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/stdlib"
	"github.com/ardnew/tjlang/lang/value"
)

type method func(e *evaluator, c *ast.CallExpr, recv value.Value, args []value.Value) (value.Value, error)

// Built-in methods keyed by receiver type tag, and the methods every value
// has.
var (
	methods   map[string]map[string]method
	universal map[string]method
)

func init() {
	methods = map[string]map[string]method{
		value.TypeInt:    intMethods(),
		value.TypeFloat:  floatMethods(),
		value.TypeBool:   {"not": pure(func(b value.Bool) value.Value { return !b })},
		value.TypeStr:    strMethods(),
		value.TypeArray:  arrayMethods(),
		value.TypeTuple:  tupleMethods(),
		value.TypeSet:    setMethods(),
		value.TypeMap:    mapMethods(),
		value.TypeOption: optionMethods(),
		value.TypeResult: resultMethods(),
		value.TypeRange:  rangeMethods(),
		value.TypeTask:   taskMethods(),
		value.TypeNone: {
			"is_not_none": pure(func(value.NoneType) value.Value { return value.Bool(false) }),
		},
	}
	universal = universalMethods()
}

// lookupMethod returns the built-in method name of recv.
func lookupMethod(recv value.Value, name string) (method, bool) {
	if m, ok := methods[recv.Type()][name]; ok {
		return m, true
	}

	m, ok := universal[name]

	return m, ok
}

// MethodNames returns the methods callable on v: its built-in methods and
// those declared for its type in t, sorted and without duplicates.
func (in *Interpreter) MethodNames(v value.Value) []string {
	names := slices.Collect(maps.Keys(methods[v.Type()]))
	names = slices.AppendSeq(names, maps.Keys(universal))

	if in.table != nil {
		names = append(names, in.table.Methods(v.Type())...)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// arity wraps f with an argument count check; n < 0 accepts any count.
func arity[T value.Value](n int, f func(*evaluator, *ast.CallExpr, T, []value.Value) (value.Value, error)) method {
	return func(e *evaluator, c *ast.CallExpr, recv value.Value, args []value.Value) (value.Value, error) {
		if n >= 0 && len(args) != n {
			return nil, typeError(c, "Method `%s` expects %d argument(s), but %d were provided",
				callee(c), n, len(args))
		}

		return f(e, c, recv.(T), args)
	}
}

// pure wraps a method with no arguments that cannot fail.
func pure[T value.Value](f func(T) value.Value) method {
	return arity(0, func(_ *evaluator, _ *ast.CallExpr, v T, _ []value.Value) (value.Value, error) {
		return f(v), nil
	})
}

func argInt(c *ast.CallExpr, args []value.Value, i int) (int64, error) {
	n, ok := args[i].(value.Int)
	if !ok {
		return 0, typeError(c, "Argument %d of `%s` must be int, got %s", i+1, callee(c), args[i].Type())
	}

	return int64(n), nil
}

func argStr(c *ast.CallExpr, args []value.Value, i int) (string, error) {
	s, ok := args[i].(value.Str)
	if !ok {
		return "", typeError(c, "Argument %d of `%s` must be str, got %s", i+1, callee(c), args[i].Type())
	}

	return string(s), nil
}

func universalMethods() map[string]method {
	str := pure(func(v value.Value) value.Value { return value.Str(v.String()) })
	is := func(tag string) method {
		return pure(func(v value.Value) value.Value { return value.Bool(v.Type() == tag) })
	}

	return map[string]method{
		"to_string":   str,
		"to_str":      str,
		"clone":       pure(value.Copy),
		"type_name":   pure(func(v value.Value) value.Value { return value.Str(v.Type()) }),
		"is_null":     is(value.TypeNone),
		"is_not_null": pure(func(v value.Value) value.Value { return value.Bool(v.Type() != value.TypeNone) }),
		"is_int":      is(value.TypeInt),
		"is_float":    is(value.TypeFloat),
		"is_bool":     is(value.TypeBool),
		"is_str":      is(value.TypeStr),
		"is_none":     is(value.TypeNone),
		"is_tuple":    is(value.TypeTuple),
		"debug_string": pure(func(v value.Value) value.Value {
			return value.Str(fmt.Sprintf("%s(%s)", v.Type(), value.Repr(v)))
		}),
		"pretty_string": pure(func(v value.Value) value.Value { return value.Str(value.Repr(v)) }),
		"equals": arity(1, func(_ *evaluator, _ *ast.CallExpr, v value.Value, args []value.Value) (value.Value, error) {
			return value.Bool(value.Equal(v, args[0])), nil
		}),
		"hash": arity(0, func(_ *evaluator, c *ast.CallExpr, v value.Value, _ []value.Value) (value.Value, error) {
			h, err := value.Hash(v)
			if err != nil {
				return nil, typeError(c, "Value of type `%s` is not hashable", v.Type())
			}

			return value.Int(h), nil
		}),
		"to_int": arity(0, func(_ *evaluator, c *ast.CallExpr, v value.Value, _ []value.Value) (value.Value, error) {
			return toInt(c, v)
		}),
		"to_float": arity(0, func(_ *evaluator, c *ast.CallExpr, v value.Value, _ []value.Value) (value.Value, error) {
			return toFloat(c, v)
		}),
		"to_bool": pure(func(v value.Value) value.Value { return value.Bool(value.Truthy(v)) }),
	}
}

func intMethods() map[string]method {
	return map[string]method{
		"abs": pure(func(i value.Int) value.Value {
			if i < 0 {
				return -i
			}

			return i
		}),
		"neg":         pure(func(i value.Int) value.Value { return -i }),
		"inc":         pure(func(i value.Int) value.Value { return i + 1 }),
		"dec":         pure(func(i value.Int) value.Value { return i - 1 }),
		"is_even":     pure(func(i value.Int) value.Value { return value.Bool(i%2 == 0) }),
		"is_odd":      pure(func(i value.Int) value.Value { return value.Bool(i%2 != 0) }),
		"is_positive": pure(func(i value.Int) value.Value { return value.Bool(i > 0) }),
		"is_negative": pure(func(i value.Int) value.Value { return value.Bool(i < 0) }),
		"is_zero":     pure(func(i value.Int) value.Value { return value.Bool(i == 0) }),
	}
}

func floatMethods() map[string]method {
	apply := func(fn func(float64) float64) method {
		return pure(func(f value.Float) value.Value { return value.Float(fn(float64(f))) })
	}
	test := func(fn func(float64) bool) method {
		return pure(func(f value.Float) value.Value { return value.Bool(fn(float64(f))) })
	}

	return map[string]method{
		"abs":         apply(math.Abs),
		"neg":         apply(func(f float64) float64 { return -f }),
		"ceil":        apply(math.Ceil),
		"floor":       apply(math.Floor),
		"round":       apply(math.Round),
		"trunc":       apply(math.Trunc),
		"is_finite":   test(func(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }),
		"is_infinite": test(func(f float64) bool { return math.IsInf(f, 0) }),
		"is_nan":      test(math.IsNaN),
		"is_positive": test(func(f float64) bool { return f > 0 }),
		"is_negative": test(func(f float64) bool { return f < 0 }),
		"is_zero":     test(func(f float64) bool { return f == 0 }),
	}
}

func strMethods() map[string]method {
	apply := func(fn func(string) string) method {
		return pure(func(s value.Str) value.Value { return value.Str(fn(string(s))) })
	}
	test := func(fn func(s, arg string) bool) method {
		return arity(1, func(_ *evaluator, c *ast.CallExpr, s value.Str, args []value.Value) (value.Value, error) {
			arg, err := argStr(c, args, 0)
			if err != nil {
				return nil, err
			}

			return value.Bool(fn(string(s), arg)), nil
		})
	}
	length := pure(func(s value.Str) value.Value { return value.Int(utf8.RuneCountInString(string(s))) })

	return map[string]method{
		"length":       length,
		"len":          length,
		"is_empty":     pure(func(s value.Str) value.Value { return value.Bool(s == "") }),
		"is_not_empty": pure(func(s value.Str) value.Value { return value.Bool(s != "") }),
		"trim":         apply(strings.TrimSpace),
		"upper":        apply(strings.ToUpper),
		"lower":        apply(strings.ToLower),
		"capitalize":   apply(capitalize),
		"reverse": apply(func(s string) string {
			rs := []rune(s)
			slices.Reverse(rs)

			return string(rs)
		}),
		"contains":    test(strings.Contains),
		"starts_with": test(strings.HasPrefix),
		"ends_with":   test(strings.HasSuffix),
		"split": arity(1, func(_ *evaluator, c *ast.CallExpr, s value.Str, args []value.Value) (value.Value, error) {
			sep, err := argStr(c, args, 0)
			if err != nil {
				return nil, err
			}

			parts := strings.Split(string(s), sep)
			out := make([]value.Value, len(parts))

			for i, p := range parts {
				out[i] = value.Str(p)
			}

			return value.NewArray(out...), nil
		}),
		"replace": arity(2, func(_ *evaluator, c *ast.CallExpr, s value.Str, args []value.Value) (value.Value, error) {
			from, err := argStr(c, args, 0)
			if err != nil {
				return nil, err
			}

			to, err := argStr(c, args, 1)
			if err != nil {
				return nil, err
			}

			return value.Str(strings.ReplaceAll(string(s), from, to)), nil
		}),
	}
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}

	return string(unicode.ToUpper(r)) + s[n:]
}

// Array methods that change the array do so in place, so the change is
// visible through every name that refers to it.
func arrayMethods() map[string]method {
	length := pure(func(a *value.Array) value.Value { return value.Int(len(a.Elems)) })
	get := arity(1, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
		i, err := e.offset(c, args[0], len(a.Elems), "array")
		if err != nil {
			return nil, err
		}

		return a.Elems[i], nil
	})

	return map[string]method{
		"length":       length,
		"len":          length,
		"is_empty":     pure(func(a *value.Array) value.Value { return value.Bool(len(a.Elems) == 0) }),
		"is_not_empty": pure(func(a *value.Array) value.Value { return value.Bool(len(a.Elems) > 0) }),
		"get":          get,
		"at":           get,
		"push": arity(1, func(_ *evaluator, _ *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			a.Elems = append(a.Elems, value.Copy(args[0]))

			return value.None, nil
		}),
		"pop": arity(0, func(_ *evaluator, c *ast.CallExpr, a *value.Array, _ []value.Value) (value.Value, error) {
			if len(a.Elems) == 0 {
				return nil, valueError(c, "Cannot pop from an empty array")
			}

			last := a.Elems[len(a.Elems)-1]
			a.Elems = a.Elems[:len(a.Elems)-1]

			return last, nil
		}),
		"set": arity(2, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			i, err := e.offset(c, args[0], len(a.Elems), "array")
			if err != nil {
				return nil, err
			}

			a.Elems[i] = value.Copy(args[1])

			return value.None, nil
		}),
		"insert": arity(2, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			i, err := e.offset(c, args[0], len(a.Elems)+1, "array")
			if err != nil {
				return nil, err
			}

			a.Elems = slices.Insert(a.Elems, i, value.Copy(args[1]))

			return value.None, nil
		}),
		"remove": arity(1, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			i, err := e.offset(c, args[0], len(a.Elems), "array")
			if err != nil {
				return nil, err
			}

			v := a.Elems[i]
			a.Elems = slices.Delete(a.Elems, i, i+1)

			return v, nil
		}),
		"slice": arity(2, func(_ *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			lo, err := argInt(c, args, 0)
			if err != nil {
				return nil, err
			}

			hi, err := argInt(c, args, 1)
			if err != nil {
				return nil, err
			}

			if lo < 0 || hi < lo || hi > int64(len(a.Elems)) {
				return nil, valueError(c, "Invalid slice %d..%d of array of length %d", lo, hi, len(a.Elems))
			}

			return value.NewArray(slices.Clone(a.Elems[lo:hi])...), nil
		}),
		"reverse": arity(0, func(_ *evaluator, _ *ast.CallExpr, a *value.Array, _ []value.Value) (value.Value, error) {
			slices.Reverse(a.Elems)

			return a, nil
		}),
		"sort": arity(0, func(_ *evaluator, c *ast.CallExpr, a *value.Array, _ []value.Value) (value.Value, error) {
			if err := stdlib.SortValues(a.Elems); err != nil {
				return nil, typeError(c, "Cannot sort array: %v", err)
			}

			return a, nil
		}),
		"contains": arity(1, func(_ *evaluator, _ *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			return value.Bool(slices.ContainsFunc(a.Elems, func(v value.Value) bool { return value.Equal(v, args[0]) })), nil
		}),
		"index_of": arity(1, func(_ *evaluator, _ *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			return value.Int(slices.IndexFunc(a.Elems, func(v value.Value) bool { return value.Equal(v, args[0]) })), nil
		}),
		"join": arity(1, func(_ *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			sep, err := argStr(c, args, 0)
			if err != nil {
				return nil, err
			}

			parts := make([]string, len(a.Elems))
			for i, v := range a.Elems {
				parts[i] = v.String()
			}

			return value.Str(strings.Join(parts, sep)), nil
		}),
		"map": arity(1, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			out := make([]value.Value, 0, len(a.Elems))

			for _, v := range slices.Clone(a.Elems) {
				r, err := e.callValue(c, args[0], []value.Value{v})
				if err != nil {
					return nil, err
				}

				out = append(out, r)
			}

			return value.NewArray(out...), nil
		}),
		"filter": arity(1, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			var out []value.Value

			err := e.each(c, a, args[0], func(v, r value.Value) bool {
				if value.Truthy(r) {
					out = append(out, v)
				}

				return true
			})
			if err != nil {
				return nil, err
			}

			return value.NewArray(out...), nil
		}),
		"reduce": arity(2, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			acc := args[0]

			for _, v := range slices.Clone(a.Elems) {
				r, err := e.callValue(c, args[1], []value.Value{acc, v})
				if err != nil {
					return nil, err
				}

				acc = r
			}

			return acc, nil
		}),
		"any": arity(1, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			found := false

			err := e.each(c, a, args[0], func(_, r value.Value) bool {
				found = value.Truthy(r)

				return !found
			})

			return value.Bool(found), err
		}),
		"all": arity(1, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			ok := true

			err := e.each(c, a, args[0], func(_, r value.Value) bool {
				ok = value.Truthy(r)

				return ok
			})

			return value.Bool(ok), err
		}),
		"find": arity(1, func(e *evaluator, c *ast.CallExpr, a *value.Array, args []value.Value) (value.Value, error) {
			var found value.Value = value.None

			err := e.each(c, a, args[0], func(v, r value.Value) bool {
				if value.Truthy(r) {
					found = value.Some(v)

					return false
				}

				return true
			})

			return found, err
		}),
	}
}

// each calls fn with every element of a and the result of applying f to
// it, until yield returns false.
func (e *evaluator) each(c *ast.CallExpr, a *value.Array, f value.Value, yield func(v, r value.Value) bool) error {
	for _, v := range slices.Clone(a.Elems) {
		r, err := e.callValue(c, f, []value.Value{v})
		if err != nil {
			return err
		}

		if !yield(v, r) {
			break
		}
	}

	return nil
}

func tupleMethods() map[string]method {
	length := pure(func(t *value.Tuple) value.Value { return value.Int(len(t.Elems)) })

	return map[string]method{
		"length":       length,
		"len":          length,
		"is_empty":     pure(func(t *value.Tuple) value.Value { return value.Bool(len(t.Elems) == 0) }),
		"is_not_empty": pure(func(t *value.Tuple) value.Value { return value.Bool(len(t.Elems) > 0) }),
	}
}

func setMethods() map[string]method {
	length := pure(func(s *value.Set) value.Value { return value.Int(s.Len()) })
	op := func(fn func(s, o *value.Set) *value.Set) method {
		return arity(1, func(_ *evaluator, c *ast.CallExpr, s *value.Set, args []value.Value) (value.Value, error) {
			o, ok := args[0].(*value.Set)
			if !ok {
				return nil, typeError(c, "Argument 1 of `%s` must be set, got %s", callee(c), args[0].Type())
			}

			return fn(s, o), nil
		})
	}

	return map[string]method{
		"length":   length,
		"len":      length,
		"is_empty": pure(func(s *value.Set) value.Value { return value.Bool(s.Len() == 0) }),
		"insert": arity(1, func(_ *evaluator, c *ast.CallExpr, s *value.Set, args []value.Value) (value.Value, error) {
			if err := s.Add(value.Copy(args[0])); err != nil {
				return nil, typeError(c, "Value of type `%s` is not hashable", args[0].Type())
			}

			return value.None, nil
		}),
		"remove": arity(1, func(_ *evaluator, c *ast.CallExpr, s *value.Set, args []value.Value) (value.Value, error) {
			ok, err := s.Remove(args[0])
			if err != nil {
				return nil, typeError(c, "Value of type `%s` is not hashable", args[0].Type())
			}

			return value.Bool(ok), nil
		}),
		"contains": arity(1, func(_ *evaluator, c *ast.CallExpr, s *value.Set, args []value.Value) (value.Value, error) {
			ok, err := s.Has(args[0])
			if err != nil {
				return nil, typeError(c, "Value of type `%s` is not hashable", args[0].Type())
			}

			return value.Bool(ok), nil
		}),
		"union":        op((*value.Set).Union),
		"intersection": op((*value.Set).Intersect),
		"difference":   op((*value.Set).Difference),
	}
}

func mapMethods() map[string]method {
	length := pure(func(m *value.Map) value.Value { return value.Int(m.Len()) })
	set := arity(2, func(_ *evaluator, c *ast.CallExpr, m *value.Map, args []value.Value) (value.Value, error) {
		if err := m.Set(value.Copy(args[0]), value.Copy(args[1])); err != nil {
			return nil, typeError(c, "Value of type `%s` is not hashable", args[0].Type())
		}

		return value.None, nil
	})

	return map[string]method{
		"length":   length,
		"len":      length,
		"is_empty": pure(func(m *value.Map) value.Value { return value.Bool(m.Len() == 0) }),
		"insert":   set,
		"set":      set,
		"get": arity(1, func(_ *evaluator, c *ast.CallExpr, m *value.Map, args []value.Value) (value.Value, error) {
			v, ok, err := m.Get(args[0])
			if err != nil {
				return nil, typeError(c, "Value of type `%s` is not hashable", args[0].Type())
			}

			if !ok {
				return value.None, nil
			}

			return v, nil
		}),
		"remove": arity(1, func(_ *evaluator, c *ast.CallExpr, m *value.Map, args []value.Value) (value.Value, error) {
			ok, err := m.Delete(args[0])
			if err != nil {
				return nil, typeError(c, "Value of type `%s` is not hashable", args[0].Type())
			}

			return value.Bool(ok), nil
		}),
		"contains_key": arity(1, func(_ *evaluator, c *ast.CallExpr, m *value.Map, args []value.Value) (value.Value, error) {
			_, ok, err := m.Get(args[0])
			if err != nil {
				return nil, typeError(c, "Value of type `%s` is not hashable", args[0].Type())
			}

			return value.Bool(ok), nil
		}),
		"keys":   pure(func(m *value.Map) value.Value { return value.NewArray(m.Keys()...) }),
		"values": pure(func(m *value.Map) value.Value { return value.NewArray(m.Values()...) }),
		"clear": arity(0, func(_ *evaluator, _ *ast.CallExpr, m *value.Map, _ []value.Value) (value.Value, error) {
			m.Clear()

			return value.None, nil
		}),
	}
}

func optionMethods() map[string]method {
	return map[string]method{
		"is_some": pure(func(o value.Option) value.Value { return value.Bool(o.Some) }),
		"is_none": pure(func(o value.Option) value.Value { return value.Bool(!o.Some) }),
		"unwrap": arity(0, func(_ *evaluator, c *ast.CallExpr, o value.Option, _ []value.Value) (value.Value, error) {
			if !o.Some {
				return nil, valueError(c, "Called unwrap on a None value")
			}

			return o.Val, nil
		}),
		"unwrap_or": arity(1, func(_ *evaluator, _ *ast.CallExpr, o value.Option, args []value.Value) (value.Value, error) {
			if !o.Some {
				return args[0], nil
			}

			return o.Val, nil
		}),
	}
}

func resultMethods() map[string]method {
	return map[string]method{
		"is_ok":  pure(func(r value.Result) value.Value { return value.Bool(r.Ok) }),
		"is_err": pure(func(r value.Result) value.Value { return value.Bool(!r.Ok) }),
		"unwrap": arity(0, func(_ *evaluator, c *ast.CallExpr, r value.Result, _ []value.Value) (value.Value, error) {
			if !r.Ok {
				return nil, valueError(c, "Called unwrap on an Err value: %s", r.Val)
			}

			return r.Val, nil
		}),
		"unwrap_err": arity(0, func(_ *evaluator, c *ast.CallExpr, r value.Result, _ []value.Value) (value.Value, error) {
			if r.Ok {
				return nil, valueError(c, "Called unwrap_err on an Ok value: %s", r.Val)
			}

			return r.Val, nil
		}),
		"unwrap_or": arity(1, func(_ *evaluator, _ *ast.CallExpr, r value.Result, args []value.Value) (value.Value, error) {
			if !r.Ok {
				return args[0], nil
			}

			return r.Val, nil
		}),
	}
}

func rangeMethods() map[string]method {
	length := pure(func(r *value.Range) value.Value { return value.Int(r.Len()) })

	return map[string]method{
		"length": length,
		"len":    length,
		"contains": arity(1, func(_ *evaluator, c *ast.CallExpr, r *value.Range, args []value.Value) (value.Value, error) {
			n, err := argInt(c, args, 0)
			if err != nil {
				return nil, err
			}

			return value.Bool(n >= r.Start && n-r.Start < r.Len()), nil
		}),
		"to_array": pure(func(r *value.Range) value.Value {
			elems, _ := value.Elements(r)

			return value.NewArray(elems...)
		}),
	}
}

func taskMethods() map[string]method {
	return map[string]method{
		"id":      pure(func(t *value.Task) value.Value { return value.Int(t.ID) }),
		"is_done": pure(func(t *value.Task) value.Value { return value.Bool(t.Done()) }),
	}
}
