package stdlib

import (
	"math"
	"slices"

	"github.com/ardnew/tjlang/lang/value"
)

func mathModule() module {
	return module{
		"pi":        constant(math.Pi),
		"e":         constant(math.E),
		"abs":       abs,
		"sign":      sign,
		"sqrt":      unary(math.Sqrt, nonNegative),
		"cbrt":      unary(math.Cbrt, nil),
		"power":     binary(math.Pow),
		"exp":       unary(math.Exp, nil),
		"ln":        unary(math.Log, positive),
		"log":       logBase,
		"log10":     unary(math.Log10, positive),
		"sin":       unary(math.Sin, nil),
		"cos":       unary(math.Cos, nil),
		"tan":       unary(math.Tan, nil),
		"floor":     unary(math.Floor, nil),
		"ceil":      unary(math.Ceil, nil),
		"round":     unary(math.Round, nil),
		"trunc":     unary(math.Trunc, nil),
		"min":       extreme(-1),
		"max":       extreme(1),
		"clamp":     clamp,
		"lerp":      lerp,
		"sum":       sum,
		"product":   product,
		"mean":      mean,
		"median":    median,
		"gcd":       integers(gcd),
		"lcm":       integers(lcm),
		"is_prime":  isPrime,
		"factorial": factorial,
		"fibonacci": fibonacci,
	}
}

func constant(f float64) Func {
	return func(c *Call) (value.Value, error) {
		if err := c.expect(0, 0).done(); err != nil {
			return nil, err
		}

		return value.Float(f), nil
	}
}

func nonNegative(x float64) bool { return x >= 0 }

func positive(x float64) bool { return x > 0 }

func unary(fn func(float64) float64, domain func(float64) bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		x := a.float()

		if err := a.done(); err != nil {
			return nil, err
		}

		if domain != nil && !domain(x) {
			return nil, failf(ErrValue, "%s: argument %v is out of domain", c.qualified(), x)
		}

		return value.Float(fn(x)), nil
	}
}

func binary(fn func(x, y float64) float64) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(2, 2)
		x, y := a.float(), a.float()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Float(fn(x, y)), nil
	}
}

func abs(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	v := a.any()

	switch v := v.(type) {
	case value.Int:
		if v < 0 {
			return -v, nil
		}

		return v, nil
	case value.Float:
		return value.Float(math.Abs(float64(v))), nil
	}

	a.mismatch("a number", v)

	return nil, a.done()
}

func sign(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	v := a.any()

	switch v := v.(type) {
	case value.Int:
		switch {
		case v > 0:
			return value.Int(1), nil
		case v < 0:
			return value.Int(-1), nil
		}

		return value.Int(0), nil
	case value.Float:
		switch {
		case v > 0:
			return value.Float(1), nil
		case v < 0:
			return value.Float(-1), nil
		}

		return v, nil
	}

	a.mismatch("a number", v)

	return nil, a.done()
}

func logBase(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	x, base := a.float(), a.float()

	if err := a.done(); err != nil {
		return nil, err
	}

	if x <= 0 || base <= 0 || base == 1 {
		return nil, failf(ErrValue, "%s: invalid arguments %v and %v", c.qualified(), x, base)
	}

	return value.Float(math.Log(x) / math.Log(base)), nil
}

// extreme returns min (dir < 0) or max (dir > 0) of its numeric arguments.
// The result is an int when every argument is.
func extreme(dir int) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, -1)
		xs, allInt := a.numbers()

		if err := a.done(); err != nil {
			return nil, err
		}

		if len(xs) == 0 {
			return nil, failf(ErrValue, "%s: no values", c.qualified())
		}

		best := xs[0]
		for _, x := range xs[1:] {
			if (dir < 0 && x < best) || (dir > 0 && x > best) {
				best = x
			}
		}

		return number(best, allInt), nil
	}
}

func number(f float64, integral bool) value.Value {
	if integral {
		return value.Int(int64(f))
	}

	return value.Float(f)
}

func clamp(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	xs, allInt := a.numbers()

	if err := a.done(); err != nil {
		return nil, err
	}

	x, lo, hi := xs[0], xs[1], xs[2]
	if lo > hi {
		return nil, failf(ErrValue, "%s: minimum %v exceeds maximum %v", c.qualified(), lo, hi)
	}

	return number(min(max(x, lo), hi), allInt), nil
}

func lerp(c *Call) (value.Value, error) {
	a := c.expect(3, 3)
	x, y, t := a.float(), a.float(), a.float()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Float(x + (y-x)*t), nil
}

func sum(c *Call) (value.Value, error) {
	a := c.expect(1, -1)
	xs, allInt := a.numbers()

	if err := a.done(); err != nil {
		return nil, err
	}

	if allInt {
		var n int64
		for _, v := range intArgs(c.Args) {
			n += v
		}

		return value.Int(n), nil
	}

	var s float64
	for _, x := range xs {
		s += x
	}

	return value.Float(s), nil
}

func product(c *Call) (value.Value, error) {
	a := c.expect(1, -1)
	xs, allInt := a.numbers()

	if err := a.done(); err != nil {
		return nil, err
	}

	if allInt {
		n := int64(1)
		for _, v := range intArgs(c.Args) {
			n *= v
		}

		return value.Int(n), nil
	}

	p := 1.0
	for _, x := range xs {
		p *= x
	}

	return value.Float(p), nil
}

// intArgs returns the int arguments, or the elements of a single array
// argument, without a float round trip.
func intArgs(vs []value.Value) []int64 {
	if len(vs) == 1 {
		if arr, ok := vs[0].(*value.Array); ok {
			vs = arr.Elems
		}
	}

	out := make([]int64, 0, len(vs))
	for _, v := range vs {
		if n, ok := v.(value.Int); ok {
			out = append(out, int64(n))
		}
	}

	return out
}

func mean(c *Call) (value.Value, error) {
	a := c.expect(1, -1)
	xs, _ := a.numbers()

	if err := a.done(); err != nil {
		return nil, err
	}

	if len(xs) == 0 {
		return nil, failf(ErrValue, "%s: no values", c.qualified())
	}

	var s float64
	for _, x := range xs {
		s += x
	}

	return value.Float(s / float64(len(xs))), nil
}

func median(c *Call) (value.Value, error) {
	a := c.expect(1, -1)
	xs, _ := a.numbers()

	if err := a.done(); err != nil {
		return nil, err
	}

	if len(xs) == 0 {
		return nil, failf(ErrValue, "%s: no values", c.qualified())
	}

	slices.Sort(xs)

	mid := len(xs) / 2
	if len(xs)%2 == 0 {
		return value.Float((xs[mid-1] + xs[mid]) / 2), nil
	}

	return value.Float(xs[mid]), nil
}

func integers(fn func(x, y int64) int64) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(2, 2)
		x, y := a.int(), a.int()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Int(fn(x, y)), nil
	}
}

func gcd(x, y int64) int64 {
	if x < 0 {
		x = -x
	}

	if y < 0 {
		y = -y
	}

	for y != 0 {
		x, y = y, x%y
	}

	return x
}

func lcm(x, y int64) int64 {
	if x == 0 || y == 0 {
		return 0
	}

	l := x / gcd(x, y) * y
	if l < 0 {
		return -l
	}

	return l
}

func isPrime(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	n := a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	if n < 2 {
		return value.Bool(false), nil
	}

	for d := int64(2); d*d <= n; d++ {
		if n%d == 0 {
			return value.Bool(false), nil
		}
	}

	return value.Bool(true), nil
}

func factorial(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	n := a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	if n < 0 || n > 20 {
		return nil, failf(ErrValue, "%s: argument %d is out of range [0, 20]", c.qualified(), n)
	}

	f := int64(1)
	for i := int64(2); i <= n; i++ {
		f *= i
	}

	return value.Int(f), nil
}

func fibonacci(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	n := a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	if n < 0 || n > 92 {
		return nil, failf(ErrValue, "%s: argument %d is out of range [0, 92]", c.qualified(), n)
	}

	x, y := int64(0), int64(1)
	for range n {
		x, y = y, x+y
	}

	return value.Int(x), nil
}
