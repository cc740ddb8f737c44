package repl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/check"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/interp"
	"github.com/ardnew/tjlang/lang/parser"
	"github.com/ardnew/tjlang/lang/value"
	"github.com/ardnew/tjlang/log"
)

// sessionName labels diagnostics reported against REPL input.
const sessionName = "<repl>"

// Reply is the outcome of one evaluated entry.
type Reply struct {
	// Output is the text the entry printed.
	Output string
	// Value is the representation of the entry's value, empty for None.
	Value string
	// Problem is the rendered diagnostics of a rejected or failed entry.
	Problem string
}

// Failed reports whether the entry was rejected or stopped with an error.
func (r Reply) Failed() bool { return r.Problem != "" }

// Session evaluates entries one at a time against persistent state.
// Declarations accumulate in one table that permits redefinition, and
// top-level bindings persist in one interpreter.
//
// Every entry is parsed at the line where it appears in the session
// transcript, so a diagnostic from any earlier entry, such as a failure
// inside a function declared several entries ago, renders against the
// right text.
type Session struct {
	opts   []SessionOption
	logger log.Logger
	color  bool

	out   buffer
	table *decl.Table
	in    *interp.Interpreter

	transcript []string
	accepted   []string
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithSessionLogger sets the logger of the session and its interpreter.
func WithSessionLogger(l log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithSessionColor enables styled diagnostics.
func WithSessionColor(enable bool) SessionOption {
	return func(s *Session) { s.color = enable }
}

// NewSession returns an empty session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{opts: opts}
	for _, opt := range opts {
		opt(s)
	}

	s.Reset()

	return s
}

// Reset discards every declaration and binding.
func (s *Session) Reset() {
	s.table = decl.New()
	s.table.Module = "repl"
	s.table.Redefine = true
	s.in = interp.New(s.table,
		interp.WithStdout(&s.out),
		interp.WithStderr(&s.out),
		interp.WithLogger(s.logger))
	s.transcript = nil
	s.accepted = nil
	s.out.take()
}

// Load evaluates src in a new session configured like s. The new session
// is returned even when src fails, so its reply can be shown.
func (s *Session) Load(ctx context.Context, src string) (*Session, Reply) {
	n := NewSession(s.opts...)

	return n, n.Eval(ctx, src)
}

// Source returns the accepted entries, one per line.
func (s *Session) Source() string {
	if len(s.accepted) == 0 {
		return ""
	}

	return strings.Join(s.accepted, "\n") + "\n"
}

// Eval parses, checks, and runs one entry.
func (s *Session) Eval(ctx context.Context, entry string) Reply {
	entry = strings.TrimRight(entry, "\n")
	if strings.TrimSpace(entry) == "" {
		return Reply{}
	}

	base := len(s.transcript)
	s.transcript = append(s.transcript, strings.Split(entry, "\n")...)

	f, diags := parser.Parse(sessionName, strings.Repeat("\n", base)+entry)
	if diags.HasErrors() {
		return s.reject(diags)
	}

	// Tasks from earlier entries may still read the current table, and a
	// rejected entry must leave no declarations behind.
	next := s.table.Clone()

	if diags := next.Add(f); diags.HasErrors() {
		return s.reject(diags)
	}

	if diags := check.Run(f, next, check.WithGlobals(s.in.Globals()...)); diags.HasErrors() {
		return s.reject(diags)
	}

	s.table = next
	s.in.SetTable(next)

	v, err := s.in.Eval(ctx, f)

	reply := Reply{Output: s.out.take()}

	s.logger.TraceContext(ctx, "repl entry",
		slog.Int("line", base+1),
		slog.Bool("failed", err != nil))

	var re *interp.Error

	switch {
	case errors.As(err, &re):
		reply.Problem = s.renderer().String(re.Diagnostic)
	case err != nil:
		reply.Problem = err.Error()
	default:
		s.accepted = append(s.accepted, entry)

		if v != nil && v != value.None && endsInExpr(f) {
			reply.Value = value.Repr(v)
		}
	}

	return reply
}

// Wait blocks until the tasks spawned by earlier entries finish and
// returns what they printed.
func (s *Session) Wait() string {
	_ = s.in.Wait()

	return s.out.take()
}

// Globals returns the names bound at top level.
func (s *Session) Globals() []string { return s.in.Globals() }

// Lookup returns the top-level binding of name.
func (s *Session) Lookup(name string) (value.Value, bool) { return s.in.Lookup(name) }

// Table returns the session's declarations.
func (s *Session) Table() *decl.Table { return s.table }

// MethodNames returns the methods callable on the binding name.
func (s *Session) MethodNames(name string) []string {
	v, ok := s.in.Lookup(name)
	if !ok {
		return nil
	}

	return s.in.MethodNames(v)
}

func (s *Session) reject(diags diag.List) Reply {
	return Reply{Problem: s.render(diags.Filter(func(d diag.Diagnostic) bool {
		return d.Severity == diag.Error
	}))}
}

func (s *Session) render(diags diag.List) string {
	var b strings.Builder

	_ = s.renderer().Render(&b, diags)

	return strings.TrimRight(b.String(), "\n")
}

func (s *Session) renderer() *diag.Renderer {
	return diag.NewRenderer(sessionName, strings.Join(s.transcript, "\n"), diag.WithColor(s.color))
}

// endsInExpr reports whether the last unit of f is an expression whose
// value should be echoed.
func endsInExpr(f *ast.File) bool {
	if len(f.Units) == 0 {
		return false
	}

	x, ok := f.Units[len(f.Units)-1].(*ast.ExprStmt)
	if !ok {
		return false
	}

	_, assign := x.X.(*ast.AssignExpr)

	return !assign
}

// buffer collects interpreter output, which spawned tasks may write
// concurrently with the session reading it.
type buffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (b *buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.b.Write(p)
}

func (b *buffer) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.b.String()
	b.b.Reset()

	return s
}
