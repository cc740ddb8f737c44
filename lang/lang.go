package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/readahead"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/check"
	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/interp"
	"github.com/ardnew/tjlang/log"
)

type config struct {
	logger log.Logger
	cache  bool
	checks []check.Option
}

// Option configures [Compile].
type Option func(config) config

// WithLogger sets the logger for pipeline tracing.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithCache enables or disables the shared parse cache. It is enabled by
// default.
func WithCache(enable bool) Option {
	return func(c config) config {
		c.cache = enable

		return c
	}
}

// WithCheckOptions passes options through to the static analyzer.
func WithCheckOptions(opts ...check.Option) Option {
	return func(c config) config {
		c.checks = append(c.checks, opts...)

		return c
	}
}

// Program is a parsed source file with its declaration table.
type Program struct {
	Name   string
	Source string
	File   *ast.File
	Table  *decl.Table

	cfg   config
	diags diag.List

	checked sync.Once
	static  diag.List
}

// Compile parses src and builds its declaration table. Syntax diagnostics
// are returned with [ErrSyntax]; the partial program is still returned so
// they can be rendered against its source.
func Compile(ctx context.Context, name, src string, opts ...Option) (*Program, error) {
	cfg := config{cache: true}
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	f, diags, err := parseCached(ctx, cfg, name, src)
	if err != nil {
		return nil, err
	}

	p := &Program{Name: name, Source: src, File: f, cfg: cfg, diags: diags.Sorted()}

	cfg.logger.DebugContext(ctx, "parsed",
		slog.String("source", name),
		slog.Int("units", len(f.Units)),
		slog.Int("diagnostics", len(diags)))

	if err := summarize(ErrSyntax, p.diags); err != nil {
		return p, err
	}

	p.Table, diags = decl.Build(f)
	p.diags = append(p.diags, diags...).Sorted()

	return p, nil
}

// CompileReader reads all of r and compiles it.
func CompileReader(ctx context.Context, name string, r io.Reader, opts ...Option) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("source", name))
	}

	return Compile(ctx, name, string(data), opts...)
}

// Diagnostics returns the syntax and declaration diagnostics found while
// compiling.
func (p *Program) Diagnostics() diag.List { return p.diags }

// Check returns every diagnostic that stops the program from running: the
// compile diagnostics followed by the static analysis, sorted by position.
// The analysis runs once.
func (p *Program) Check() diag.List {
	p.checked.Do(func() {
		out := append(diag.List(nil), p.diags...)

		if p.Table != nil {
			out = append(out, check.Run(p.File, p.Table, p.cfg.checks...)...)
		}

		p.static = out.Sorted()

		p.cfg.logger.DebugContext(context.Background(), "checked",
			slog.String("source", p.Name),
			slog.Int("diagnostics", len(p.static)))
	})

	return p.static
}

// Run checks the program and, if it is free of errors, executes it and
// waits for every task it spawned. Static errors are returned as
// [ErrStatic] without running anything; a runtime failure is returned as
// [ErrRuntime] wrapping the [*interp.Error].
func (p *Program) Run(ctx context.Context, opts ...interp.Option) error {
	if err := summarize(ErrStatic, p.Check()); err != nil {
		return err
	}

	in := interp.New(p.Table, append([]interp.Option{interp.WithLogger(p.cfg.logger)}, opts...)...)

	return p.Exec(ctx, in)
}

// Exec runs the program on an existing interpreter without checking it.
func (p *Program) Exec(ctx context.Context, in *interp.Interpreter) error {
	p.cfg.logger.TraceContext(ctx, "run", slog.String("source", p.Name))

	err := in.Run(ctx, p.File)
	if werr := in.Wait(); err == nil {
		err = werr
	}

	if err == nil {
		return nil
	}

	var re *interp.Error
	if errors.As(err, &re) {
		return ErrRuntime.Wrap(re).With(slog.String("code", string(re.Diagnostic.Code)))
	}

	return ErrRuntime.Wrap(err)
}

// RuntimeDiagnostic extracts the diagnostic of a runtime failure.
func RuntimeDiagnostic(err error) (diag.Diagnostic, bool) {
	var re *interp.Error
	if errors.As(err, &re) {
		return re.Diagnostic, true
	}

	return diag.Diagnostic{}, false
}
