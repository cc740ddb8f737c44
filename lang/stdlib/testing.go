package stdlib

import (
	"strings"

	"github.com/ardnew/tjlang/lang/value"
)

func testingModule() module {
	return module{
		"assert_true":      assertBool(true),
		"assert_false":     assertBool(false),
		"assert_equal":     assertEqual(true),
		"assert_not_equal": assertEqual(false),
		"assert_contains":  assertContains,
		"assert_in_range":  assertInRange,
		"fail":             fail,
	}
}

func assertion(format string, args ...any) error {
	return failf(ErrAssertion, "Assertion failed: "+format, args...)
}

func assertBool(want bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(2, 2)
		cond, msg := a.bool(), a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		if cond != want {
			return nil, assertion("%s", msg)
		}

		return unit()
	}
}

func assertEqual(want bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(3, 3)
		actual, expected, msg := a.any(), a.any(), a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		switch eq := value.Equal(actual, expected); {
		case want && !eq:
			return nil, assertion("%s - Expected %s, got %s",
				msg, value.Repr(expected), value.Repr(actual))
		case !want && eq:
			return nil, assertion("%s - Values should not be equal: %s", msg, value.Repr(actual))
		}

		return unit()
	}
}

func assertContains(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	s, sub, msg := a.str(), a.str(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	if !strings.Contains(s, sub) {
		return nil, assertion("%s - String '%s' does not contain '%s'", msg, s, sub)
	}

	return unit()
}

func assertInRange(c *Call) (value.Value, error) {
	a := c.expect(4, 4)
	v, lo, hi, msg := a.any(), a.any(), a.any(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	above, err := value.Compare(v, lo)
	if err != nil {
		return nil, failf(ErrArgument, "%s: %v", c.qualified(), err)
	}

	below, err := value.Compare(v, hi)
	if err != nil {
		return nil, failf(ErrArgument, "%s: %v", c.qualified(), err)
	}

	if above < 0 || below > 0 {
		return nil, assertion("%s - Value %s not in range [%s, %s]", msg, v, lo, hi)
	}

	return unit()
}

func fail(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	msg := a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	return nil, assertion("%s", msg)
}
