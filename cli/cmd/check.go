package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/tjlang/lang"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/log"
)

// Check reports the diagnostics of source files without running them.
type Check struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})."                      short:"F"`
	Filter string `                                     help:"Report only diagnostics matching EXPR."        placeholder:"EXPR"`
	Indent int    `default:"2"                          help:"Indent width for json and yaml output."        short:"i"`

	Sources []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source"`
}

// filterEnv is the environment of a --filter expression, one per
// diagnostic, as in:
//
//	severity == "error" && code startsWith "A28"
//	line > 10 && message contains "index"
type filterEnv struct {
	File     string `expr:"file"`
	Code     string `expr:"code"`
	Title    string `expr:"title"`
	Stage    string `expr:"stage"`
	Severity string `expr:"severity"`
	Message  string `expr:"message"`
	Note     string `expr:"note"`
	Line     int    `expr:"line"`
	Col      int    `expr:"col"`
	EndLine  int    `expr:"end_line"`
	EndCol   int    `expr:"end_col"`
}

func makeFilterEnv(file string, d diag.Diagnostic) filterEnv {
	return filterEnv{
		File:     file,
		Code:     string(d.Code),
		Title:    d.Code.Title(),
		Stage:    string(d.Code.Stage()),
		Severity: d.Severity.String(),
		Message:  d.Message,
		Note:     d.Note,
		Line:     d.Span.Start.Line,
		Col:      d.Span.Start.Col,
		EndLine:  d.Span.End.Line,
		EndCol:   d.Span.End.Col,
	}
}

// diagFilter selects diagnostics with a compiled expression. The zero
// diagFilter keeps everything.
type diagFilter struct {
	prog *vm.Program
}

func compileFilter(src string) (diagFilter, error) {
	if src == "" {
		return diagFilter{}, nil
	}

	prog, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return diagFilter{}, ErrFilter.Wrap(err).With(slog.String("filter", src))
	}

	return diagFilter{prog: prog}, nil
}

func (f diagFilter) apply(file string, l diag.List) (diag.List, error) {
	if f.prog == nil {
		return l, nil
	}

	var out diag.List

	for _, d := range l {
		keep, err := expr.Run(f.prog, makeFilterEnv(file, d))
		if err != nil {
			return nil, ErrFilter.Wrap(err).With(slog.String("code", string(d.Code)))
		}

		if keep, _ := keep.(bool); keep {
			out = append(out, d)
		}
	}

	return out, nil
}

// Run executes the check command. It fails with [ErrDiagnostics] when any
// reported diagnostic is an error.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	filter, err := compileFilter(c.Filter)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)

	srcs, err := openSources(s.In, c.Sources)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	var errs, total int

	for i, src := range srcs {
		text, diags, err := check(ctx, src)
		if err != nil {
			return err
		}

		if diags, err = filter.apply(src.name, diags); err != nil {
			return err
		}

		if err := c.write(ctx, s, i, diag.NewRenderer(src.name, text, diag.WithColor(s.Color)), diags); err != nil {
			return ErrFormat.Wrap(err).With(slog.String("format", c.Format))
		}

		total += len(diags)
		errs += len(diags.Filter(isError))
	}

	log.DebugContext(ctx, "checked",
		slog.Int("sources", len(srcs)),
		slog.Int("diagnostics", total),
		slog.Int("errors", errs))

	if errs > 0 {
		return ErrDiagnostics.With(slog.Int("count", errs))
	}

	return nil
}

// check returns the text of one source and its diagnostics.
func check(ctx context.Context, src source) (string, diag.List, error) {
	prog, err := lang.CompileReader(ctx, src.name, src, lang.WithLogger(log.Default()))
	if prog == nil {
		return "", nil, err
	}

	return prog.Source, prog.Check(), nil
}

// write reports the diagnostics of the i'th source.
func (c *Check) write(ctx context.Context, s Streams, i int, r *diag.Renderer, diags diag.List) error {
	switch c.Format {
	case "json":
		return r.FormatJSON(s.Out, diags, c.Indent)

	case "yaml":
		if i > 0 {
			if _, err := io.WriteString(s.Out, "---\n"); err != nil {
				return err
			}
		}

		return r.FormatYAML(ctx, s.Out, diags, c.Indent)
	}

	if err := r.Render(s.Out, diags); err != nil {
		return err
	}

	if len(diags) == 0 {
		return nil
	}

	_, err := fmt.Fprintf(s.Out, "%s: %d diagnostic(s), %d error(s)\n",
		r.Name(), len(diags), len(diags.Filter(isError)))

	return err
}
