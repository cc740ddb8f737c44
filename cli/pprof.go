//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tjlang/log"
	"github.com/ardnew/tjlang/pkg"
	"github.com/ardnew/tjlang/profile"
)

type pprofConfig struct {
	Mode  string `default:""             enum:",${pprofModeEnum}" help:"Profile the command (${enum})." placeholder:"MODE" short:"p"`
	Path  string `default:"${pprofPath}"                          help:"Profile output directory."                            type:"path"`
	Quiet bool   `default:"true"                                  help:"Suppress profiler messages."                          negatable:""`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofPath":     filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: profile.Tag, Title: "Profiling options"}
}

// start begins profiling when a mode is selected.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("path", f.Path)}

	log.DebugContext(ctx, "pprof start", attrs...)

	p := profile.New(
		profile.WithMode(f.Mode),
		profile.WithPath(f.Path),
		profile.WithQuiet(f.Quiet),
	).Start()

	return func() {
		p.Stop()
		log.DebugContext(ctx, "pprof stop", attrs...)
	}
}
