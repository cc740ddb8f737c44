package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/tjlang/cli/cmd/repl"
	"github.com/ardnew/tjlang/log"
)

// Repl starts an interactive session.
type Repl struct {
	NoHistory bool   `help:"Do not read or write the history file."`
	Source    string `arg:"" help:"Source file evaluated before the first prompt." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	s := streamsFrom(ctx)

	if f, ok := s.In.(*os.File); !ok || !isTerminal(f) {
		return ErrNotTerminal
	}

	cfg := repl.Config{
		Logger: log.Default(),
		Color:  s.Color,
		Input:  s.In,
		Output: s.Out,
	}

	if !r.NoHistory {
		if cfg.CacheDir, err = kongVar(ctx, CacheIdentifier); err != nil {
			return err
		}
	}

	if r.Source != "" {
		src, err := openSource(s.In, r.Source)
		if err != nil {
			return err
		}
		defer src.Close()

		cfg.Preload = src
	}

	log.DebugContext(ctx, "starting session",
		slog.String("history", cfg.CacheDir),
		slog.String("preload", r.Source))

	return repl.Run(ctx, cfg)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
