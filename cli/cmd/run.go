package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tjlang/lang"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/interp"
	"github.com/ardnew/tjlang/log"
)

// Run compiles, checks, and executes a program.
type Run struct {
	MaxDepth int    `default:"0" help:"Limit call depth (0 uses the interpreter default)." name:"max-depth"`
	Source   string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the run command. Diagnostics are written to the error
// stream; the program is not executed if any of them is an error.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	s := streamsFrom(ctx)

	prog, err := compile(ctx, s, r.Source)
	if prog == nil || err != nil {
		return err
	}

	opts := []interp.Option{
		interp.WithStdin(s.In),
		interp.WithStdout(s.Out),
		interp.WithStderr(s.Err),
	}

	if r.MaxDepth > 0 {
		opts = append(opts, interp.WithMaxDepth(r.MaxDepth))
	}

	err = prog.Run(ctx, opts...)
	if d, ok := lang.RuntimeDiagnostic(err); ok {
		_ = renderer(s, prog).Render(s.Err, diag.List{d})
	}

	return err
}

// compile reads and checks the source at path, rendering every diagnostic
// to the error stream. The program is nil if it could not be read, and the
// error is non-nil if any diagnostic is an error.
func compile(ctx context.Context, s Streams, path string) (*lang.Program, error) {
	src, err := openSource(s.In, path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	prog, err := lang.CompileReader(ctx, src.name, src, lang.WithLogger(log.Default()))
	if prog == nil {
		return nil, err
	}

	diags := prog.Check()
	if len(diags) > 0 {
		if rerr := renderer(s, prog).Render(s.Err, diags); rerr != nil {
			return prog, ErrFormat.Wrap(rerr)
		}
	}

	if err == nil && diags.HasErrors() {
		err = lang.ErrStatic.With(slog.Int("count", len(diags.Filter(isError))))
	}

	return prog, err
}

func renderer(s Streams, prog *lang.Program) *diag.Renderer {
	return diag.NewRenderer(prog.Name, prog.Source, diag.WithColor(s.Color))
}

func isError(d diag.Diagnostic) bool { return d.Severity == diag.Error }
