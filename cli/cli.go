package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tjlang/cli/cmd"
	"github.com/ardnew/tjlang/pkg"
)

// CLI is the tjlang command line.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Color   colorMode        `default:"auto" enum:"auto,always,never" help:"Style diagnostics (${enum})."`
	Version kong.VersionFlag `                                        help:"Print the version and exit." short:"V"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Compile, check, and run a program (default)."`
	Check cmd.Check `cmd:""                    help:"Report diagnostics without running."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Print a program in canonical form or as a syntax tree."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
	Init  cmd.Init  `cmd:""                    help:"Write the configuration file from the current flags."`
}

// Run parses args and executes the selected command. exit is called by
// kong for --help, --version, and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	path := configPath()

	vars := kong.Vars{
		cmd.ConfigIdentifier: path,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	groups := []kong.Group{cli.Log.group()}
	if g := cli.Pprof.group(); g.Key != "" {
		groups = append(groups, g)
	}

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(resolve(cmd.ConfigIdentifier), path),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithStreams(ctx, cmd.Streams{
		In:    os.Stdin,
		Out:   os.Stdout,
		Err:   os.Stderr,
		Color: cli.Color.enabled(os.Stderr),
	})

	defer cli.Log.start(ctx)()

	// no-op unless built with the pprof tag and a mode is selected
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}
