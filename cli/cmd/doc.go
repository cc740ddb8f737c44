// Package cmd implements the tjlang subcommands: run, check, fmt, repl,
// and init.
//
// Commands read their streams and color preference from the context
// prepared by the cli package, so tests can drive them with in-memory
// readers and writers. See [WithStreams].
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path. It also names the top-level section of that file.
	ConfigIdentifier = "config"
)
