// Package cli is the tjlang command line.
//
// # Usage
//
//	tjlang [flags] [run] FILE|-
//	tjlang check [--format text|json|yaml] [--filter EXPR] FILE...
//	tjlang fmt [native|ast|json|yaml] FILE
//	tjlang repl [FILE]
//	tjlang init [--force]
//
// run is the default command, so "tjlang main.tj" runs main.tj.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory ($XDG_CONFIG_HOME/tjlang on Linux), under a top-level "config"
// key. "tjlang init" writes that file from the flags given with it:
//
//	tjlang --log-level=debug --color=always init
//
// # Logging
//
//   - --log-level: trace, debug, info, warn, or error
//   - --log-format: text or json
//   - --log-time-layout: a layout name such as RFC3339 or Kitchen, or a Go
//     reference time; empty omits timestamps
//   - --log-caller: include the source location of each record
//   - --log-pretty: colorize records
//
// Logging flags are applied before the rest of the command line is parsed,
// so they take effect wherever they appear.
//
// # Profiling
//
// Built with the pprof tag, the command accepts --pprof-mode (allocs,
// block, clock, cpu, goroutine, heap, mem, mutex, thread, trace),
// --pprof-path (default: the pprof directory in the cache directory), and
// --[no-]pprof-quiet:
//
//	go build -tags pprof -o tjlang .
//	tjlang --pprof-mode=cpu main.tj
package cli
