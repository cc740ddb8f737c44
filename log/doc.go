// Package log is the structured logger of tjlang, a thin layer over
// [log/slog].
//
// A [Logger] is a value. Its configuration is fixed when it is made and
// changed only by deriving a new Logger with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithPretty(false))
//
//	logger.DebugContext(ctx, "parsed", slog.Int("units", 12))
//
// Attributes are always [slog.Attr] values, never alternating key/value
// arguments. [LevelTrace] sits below debug and is used for the
// interpreter's per-statement tracing.
//
// The package-level functions log through a shared default Logger that
// [Config] reconfigures. The command line calls Config while it parses
// flags so errors reported during parsing already honor them.
//
// With [WithPretty], records are colorized for a terminal using lipgloss;
// colors are dropped automatically when the output is not one.
package log
