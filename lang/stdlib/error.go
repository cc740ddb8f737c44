package stdlib

import (
	"log/slog"

	"github.com/ardnew/tjlang/lang/value"
	"github.com/ardnew/tjlang/log"
)

func errorModule() module {
	return module{
		"new":    errorNew,
		"format": format,
		"log":    logAt(log.LevelError),
		"warn":   logAt(log.LevelWarn),
		"info":   logAt(log.LevelInfo),
		"debug":  logAt(log.LevelDebug),
	}
}

// errorNew returns the message itself; errors are plain strings.
func errorNew(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	msg := a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Str(msg), nil
}

// logAt writes a message through the call's logger. Arguments after the
// message are attached as attributes arg1, arg2, and so on.
func logAt(level log.Level) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, -1)
		msg := a.any().String()
		rest := a.rest()

		if err := a.done(); err != nil {
			return nil, err
		}

		attrs := make([]slog.Attr, 0, len(rest)+1)
		attrs = append(attrs, slog.String("source", "script"))

		for i, v := range rest {
			attrs = append(attrs, slog.Any("arg"+value.Int(i+1).String(), Native(v)))
		}

		switch level {
		case log.LevelError:
			c.Logger.ErrorContext(c.Context, msg, attrs...)
		case log.LevelWarn:
			c.Logger.WarnContext(c.Context, msg, attrs...)
		case log.LevelInfo:
			c.Logger.InfoContext(c.Context, msg, attrs...)
		default:
			c.Logger.DebugContext(c.Context, msg, attrs...)
		}

		return unit()
	}
}
