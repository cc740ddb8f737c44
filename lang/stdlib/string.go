package stdlib

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tjlang/lang/value"
)

func stringModule() module {
	return module{
		"length":       strInt(func(s string) int { return utf8.RuneCountInString(s) }),
		"char_count":   strInt(func(s string) int { return utf8.RuneCountInString(s) }),
		"to_uppercase": strMap(strings.ToUpper),
		"to_lowercase": strMap(strings.ToLower),
		"trim":         strMap(strings.TrimSpace),
		"trim_start":   strMap(func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) }),
		"trim_end":     strMap(func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }),
		"reverse":      strMap(Reverse),
		"capitalize":   strMap(Capitalize),
		"is_empty":     strPred(func(s string) bool { return s == "" }),
		"is_numeric":   strPred(isNumeric),
		"contains":     strPair(strings.Contains),
		"starts_with":  strPair(strings.HasPrefix),
		"ends_with":    strPair(strings.HasSuffix),
		"find":         find,
		"replace":      replace,
		"split":        split,
		"join":         joinStrings,
		"substring":    substring,
		"repeat":       repeat,
		"pad_left":     pad(true),
		"pad_right":    pad(false),
		"fuzzy_match":  fuzzyMatch,
		"format":       format,
	}
}

// Reverse reverses s by runes.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}

	return string(r)
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}

	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}

	_, err := strconv.ParseFloat(s, 64)

	return err == nil
}

func strInt(fn func(string) int) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		s := a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Int(fn(s)), nil
	}
}

func strMap(fn func(string) string) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		s := a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Str(fn(s)), nil
	}
}

func strPred(fn func(string) bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		s := a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Bool(fn(s)), nil
	}
}

func strPair(fn func(s, t string) bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(2, 2)
		s, t := a.str(), a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Bool(fn(s, t)), nil
	}
}

// find returns Some(rune index) of the first occurrence of a substring.
func find(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	s, sub := a.str(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	i := strings.Index(s, sub)
	if i < 0 {
		return value.Option{}, nil
	}

	return value.Some(value.Int(utf8.RuneCountInString(s[:i]))), nil
}

func replace(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	s, old, repl := a.str(), a.str(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Str(strings.ReplaceAll(s, old, repl)), nil
}

func split(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	s, sep := a.str(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	out := value.NewArray()
	for _, p := range strings.Split(s, sep) {
		out.Elems = append(out.Elems, value.Str(p))
	}

	return out, nil
}

func joinStrings(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	arr, sep := a.array(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	parts := make([]string, len(arr.Elems))
	for i, v := range arr.Elems {
		parts[i] = v.String()
	}

	return value.Str(strings.Join(parts, sep)), nil
}

// substring returns the runes in [start, end).
func substring(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	s, start, end := a.str(), a.int(), a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	r := []rune(s)
	if start < 0 || end < start || end > int64(len(r)) {
		return nil, failf(ErrValue, "%s: range [%d, %d) is out of bounds for length %d",
			c.qualified(), start, end, len(r))
	}

	return value.Str(r[start:end]), nil
}

func repeat(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	s, n := a.str(), a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, failf(ErrValue, "%s: negative count %d", c.qualified(), n)
	}

	return value.Str(strings.Repeat(s, int(n))), nil
}

func pad(left bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(2, 3)
		s, width := a.str(), a.int()

		fill := " "
		if a.more() {
			fill = a.str()
		}

		if err := a.done(); err != nil {
			return nil, err
		}

		if utf8.RuneCountInString(fill) != 1 {
			return nil, failf(ErrValue, "%s: fill %q must be a single character", c.qualified(), fill)
		}

		n := int(width) - utf8.RuneCountInString(s)
		if n <= 0 {
			return value.Str(s), nil
		}

		if left {
			return value.Str(strings.Repeat(fill, n) + s), nil
		}

		return value.Str(s + strings.Repeat(fill, n)), nil
	}
}

// fuzzyMatch returns the candidates matching a pattern, best match first.
func fuzzyMatch(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	pattern, arr := a.str(), a.array()

	if err := a.done(); err != nil {
		return nil, err
	}

	data := make([]string, len(arr.Elems))
	for i, v := range arr.Elems {
		data[i] = v.String()
	}

	out := value.NewArray()
	for _, m := range fuzzy.Find(pattern, data) {
		out.Elems = append(out.Elems, value.Str(m.Str))
	}

	return out, nil
}

func format(c *Call) (value.Value, error) {
	a := c.expect(1, -1)
	f := a.str()
	rest := a.rest()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Str(Format(f, rest)), nil
}
