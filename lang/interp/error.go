package interp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/stdlib"
	"github.com/ardnew/tjlang/lang/value"
)

// Error is a raised signal: either an explicit raise or a runtime failure.
// A function whose declared result is a Result absorbs it as Err(Payload);
// otherwise it reaches the top level and ends the run.
type Error struct {
	Diagnostic diag.Diagnostic
	Payload    value.Value

	// fatal errors cross Result boundaries unabsorbed.
	fatal bool
}

func (e *Error) Error() string { return e.Diagnostic.Message }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("code", string(e.Diagnostic.Code)),
		slog.String("msg", e.Diagnostic.Message),
		slog.String("at", e.Diagnostic.Span.Start.String()),
	)
}

// failf returns a runtime error anchored at n. Its payload is the message.
func failf(code diag.Code, n ast.Node, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)

	return &Error{
		Diagnostic: diag.New(code, n.Span(), "%s", msg),
		Payload:    value.Str(msg),
	}
}

// raise returns the signal of a raise statement carrying v.
func raise(n ast.Node, v value.Value) *Error {
	return &Error{
		Diagnostic: diag.New(diag.RuntimePanic, n.Span(), "uncaught raise: %s", v).
			WithNote("raised values are caught only by functions returning Result"),
		Payload: v,
	}
}

// hostError converts a host function failure to a runtime error.
func hostError(n ast.Node, err error) error {
	var se *stdlib.Error
	if !errors.As(err, &se) {
		return err
	}

	code := diag.RuntimeValueError
	if errors.Is(se, stdlib.ErrArgument) || errors.Is(se, stdlib.ErrUndefined) {
		code = diag.RuntimeTypeError
	}

	return failf(code, n, "%s", se.Msg)
}

func typeError(n ast.Node, format string, args ...any) *Error {
	return failf(diag.RuntimeTypeError, n, format, args...)
}

func valueError(n ast.Node, format string, args ...any) *Error {
	return failf(diag.RuntimeValueError, n, format, args...)
}
