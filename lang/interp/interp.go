package interp

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/value"
	"github.com/ardnew/tjlang/log"
)

// DefaultMaxDepth is the default limit on nested calls.
const DefaultMaxDepth = 1024

// Interpreter executes programs against a declaration table. Top-level
// bindings persist across calls to [Interpreter.Run] and [Interpreter.Eval],
// so one Interpreter can serve an interactive session.
//
// An Interpreter is not safe for concurrent use, except that tasks it
// spawns run concurrently with it and with each other.
type Interpreter struct {
	table   *decl.Table
	globals *Env

	stdout   io.Writer
	stderr   io.Writer
	stdin    *bufio.Reader
	logger   log.Logger
	maxDepth int

	tasks  errgroup.Group
	taskID atomic.Int64
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithStdout sets the destination of program output.
func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) { in.stdout = w }
}

// WithStderr sets the destination of program error output.
func WithStderr(w io.Writer) Option {
	return func(in *Interpreter) { in.stderr = w }
}

// WithStdin sets the source of program input.
func WithStdin(r io.Reader) Option {
	return func(in *Interpreter) { in.stdin = bufio.NewReader(r) }
}

// WithLogger sets the logger used for tracing and for ERROR module calls.
func WithLogger(l log.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithMaxDepth sets the limit on nested calls.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// New returns an interpreter over t.
func New(t *decl.Table, opts ...Option) *Interpreter {
	in := &Interpreter{
		table:    t,
		globals:  NewEnv(nil),
		stdout:   io.Discard,
		stderr:   io.Discard,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(in)
	}

	// Spawned tasks share the output streams.
	in.stdout = &syncWriter{w: in.stdout}
	in.stderr = &syncWriter{w: in.stderr}

	if in.stdin == nil {
		in.stdin = bufio.NewReader(eof{})
	}

	return in
}

// Table returns the declaration table.
func (in *Interpreter) Table() *decl.Table { return in.table }

// SetTable replaces the declaration table read by later calls to
// [Interpreter.Run] and [Interpreter.Eval]. Tasks already spawned keep the
// table they started with, so t must not be modified afterward.
func (in *Interpreter) SetTable(t *decl.Table) { in.table = t }

// Globals returns the names bound at top level.
func (in *Interpreter) Globals() []string { return in.globals.Names() }

// Lookup returns the top-level binding of name.
func (in *Interpreter) Lookup(name string) (value.Value, bool) { return in.globals.Lookup(name) }

// Run executes the top-level statements of f in order.
func (in *Interpreter) Run(ctx context.Context, f *ast.File) error {
	_, err := in.Eval(ctx, f)

	return err
}

// Eval executes the top-level statements of f and returns the value of the
// last expression statement, or None.
//
// A runtime error that reaches the top level is returned as an [*Error].
func (in *Interpreter) Eval(ctx context.Context, f *ast.File) (value.Value, error) {
	in.logger.TraceContext(ctx, "eval",
		slog.String("file", f.Name),
		slog.Int("units", len(f.Units)))

	e := in.evaluator(ctx, in.globals)

	for _, u := range f.Units {
		if x, ok := u.(*ast.ExportDecl); ok {
			u = x.Decl
		}

		s, ok := u.(ast.Stmt)
		if !ok {
			continue
		}

		f, err := e.exec(s)
		if err != nil {
			return nil, err
		}

		switch f {
		case flowBreak, flowContinue:
			return nil, failf(diag.RuntimeValueError, s, "break or continue outside of a loop")
		case flowReturn:
			return nil, failf(diag.RuntimeValueError, s, "return outside of a function")
		}
	}

	return e.last, nil
}

// Wait blocks until every spawned task has finished.
func (in *Interpreter) Wait() error { return in.tasks.Wait() }

func (in *Interpreter) evaluator(ctx context.Context, globals *Env) *evaluator {
	if ctx == nil {
		ctx = context.Background()
	}

	return &evaluator{
		in:      in,
		ctx:     ctx,
		table:   in.table,
		globals: globals,
		env:     globals,
		last:    value.None,
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p)
}

type eof struct{}

func (eof) Read([]byte) (int, error) { return 0, io.EOF }
