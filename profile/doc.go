// Package profile wraps [github.com/pkg/profile] for optional runtime
// profiling of the interpreter.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	tjlang --pprof-mode cpu run script.tj
//	go tool pprof -http=: ~/.cache/tjlang/pprof/cpu.pprof
//
// Without the tag, [Config.Start] returns a no-op [Stopper] and [Modes]
// is empty, so callers never need to guard on the build configuration.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. The tagged build also registers the
// [net/http/pprof] handlers for programs that serve HTTP.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
