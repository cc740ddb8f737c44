package stdlib

import (
	"fmt"
	"strings"
	"time"

	"github.com/ardnew/tjlang/lang/value"
)

var now = time.Now

func timeModule() module {
	return module{
		"now":              clock(func(t time.Time) value.Value { return value.Float(t.Unix()) }),
		"now_millis":       clock(func(t time.Time) value.Value { return value.Int(t.UnixMilli()) }),
		"now_nanos":        clock(func(t time.Time) value.Value { return value.Int(t.UnixNano()) }),
		"now_string":       clock(layout("%Y-%m-%d %H:%M:%S UTC")),
		"today_string":     clock(layout("%Y-%m-%d")),
		"time_string":      clock(layout("%H:%M:%S")),
		"sleep":            sleep(time.Second),
		"sleep_millis":     sleep(time.Millisecond),
		"format_timestamp": formatTimestamp,
		"parse_date":       parseDate,
		"elapsed_millis":   elapsedMillis,
	}
}

func clock(fn func(time.Time) value.Value) Func {
	return func(c *Call) (value.Value, error) {
		if err := c.expect(0, 0).done(); err != nil {
			return nil, err
		}

		return fn(now().UTC()), nil
	}
}

func layout(f string) func(time.Time) value.Value {
	return func(t time.Time) value.Value { return value.Str(Strftime(t, f)) }
}

// sleep pauses for a number of units, returning early with an error when the
// call's context is canceled.
func sleep(per time.Duration) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		n := a.float()

		if err := a.done(); err != nil {
			return nil, err
		}

		if n < 0 {
			return nil, failf(ErrValue, "%s: negative duration %v", c.qualified(), n)
		}

		timer := time.NewTimer(time.Duration(n * float64(per)))
		defer timer.Stop()

		select {
		case <-timer.C:
			return unit()
		case <-c.Context.Done():
			return nil, failf(ErrIO, "%s: %v", c.qualified(), c.Context.Err())
		}
	}
}

func formatTimestamp(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	ts, f := a.int(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Str(Strftime(time.Unix(ts, 0).UTC(), f)), nil
}

// parseDate parses a date in a strftime format and returns its Unix time at
// midnight UTC.
func parseDate(c *Call) (value.Value, error) {
	a := c.expect(2, 2)
	s, f := a.str(), a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	t, err := time.Parse(GoLayout(f), s)
	if err != nil {
		return nil, failf(ErrValue, "%s: %v", c.qualified(), err)
	}

	y, m, d := t.Date()

	return value.Int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()), nil
}

func elapsedMillis(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	start := a.int()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Int(now().UnixMilli() - start), nil
}

var strftime = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'Z': "MST",
	'z': "-0700",
	'F': "2006-01-02",
	'T': "15:04:05",
	'D': "01/02/06",
	'R': "15:04",
}

// Strftime formats t with the strftime directives in f. Unknown directives
// are written verbatim.
func Strftime(t time.Time, f string) string {
	var b strings.Builder

	for i := 0; i < len(f); i++ {
		if f[i] != '%' || i+1 == len(f) {
			b.WriteByte(f[i])

			continue
		}

		i++

		switch d := f[i]; d {
		case '%':
			b.WriteByte('%')
		case 's':
			fmt.Fprint(&b, t.Unix())
		case 'f':
			fmt.Fprintf(&b, "%09d", t.Nanosecond())
		default:
			if l, ok := strftime[d]; ok {
				b.WriteString(t.Format(l))
			} else {
				b.WriteByte('%')
				b.WriteByte(d)
			}
		}
	}

	return b.String()
}

// GoLayout translates strftime directives in f to a time layout for
// parsing.
func GoLayout(f string) string {
	var b strings.Builder

	for i := 0; i < len(f); i++ {
		if f[i] == '%' && i+1 < len(f) {
			if l, ok := strftime[f[i+1]]; ok {
				b.WriteString(l)
				i++

				continue
			}
		}

		b.WriteByte(f[i])
	}

	return b.String()
}
