package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tjlang/lang"
	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/log"
)

// Fmt prints a program in canonical form or as a syntax tree.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Print canonical TJLang source (default)."`
	AST    AST    `cmd:""                    help:"Print an outline of the syntax tree."`
	JSON   JSON   `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Print the syntax tree as YAML."`
}

// Native prints canonical source.
type Native struct {
	Indent int    `default:"4" help:"Indent width." short:"i"`
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

func (f *Native) Run(ctx context.Context) error {
	return format(ctx, "native", f.Source, func(s Streams, file *ast.File) error {
		return ast.Format(s.Out, file, f.Indent)
	})
}

// AST prints an indented outline with one node per line.
type AST struct {
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

func (f *AST) Run(ctx context.Context) error {
	return format(ctx, "ast", f.Source, func(s Streams, file *ast.File) error {
		return ast.Dump(s.Out, file)
	})
}

// JSON prints the syntax tree as JSON.
type JSON struct {
	Indent int    `default:"2" help:"Indent width (0 for compact output)." short:"i"`
	Spans  bool   `help:"Include source spans."`
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

func (f *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", f.Source, func(s Streams, file *ast.File) error {
		return ast.FormatJSON(s.Out, file, f.Indent, f.Spans)
	})
}

// YAML prints the syntax tree as YAML.
type YAML struct {
	Indent int    `default:"2" help:"Indent width." short:"i"`
	Spans  bool   `help:"Include source spans."`
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

func (f *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", f.Source, func(s Streams, file *ast.File) error {
		return ast.FormatYAML(ctx, s.Out, file, f.Indent, f.Spans)
	})
}

// format parses path and hands its tree to write. Syntax errors are
// rendered to the error stream instead.
func format(ctx context.Context, name, path string, write func(Streams, *ast.File) error) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	s := streamsFrom(ctx)

	src, err := openSource(s.In, path)
	if err != nil {
		return err
	}
	defer src.Close()

	prog, err := lang.CompileReader(ctx, src.name, src, lang.WithLogger(log.Default()))
	if prog == nil {
		return err
	}

	if err != nil {
		_ = renderer(s, prog).Render(s.Err, prog.Diagnostics())

		return err
	}

	if err := write(s, prog.File); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", name))
	}

	return nil
}
