package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying the parsed command line.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or an error if the command line
// did not define it.
func kongVar(ctx context.Context, name string) (string, error) {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if v, ok := ktx.Model.Vars()[name]; ok {
			return v, nil
		}
	}

	return "", ErrMissingValue.With(slog.String("name", name))
}

// Streams are the standard streams of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Color enables styled diagnostics on Err.
	Color bool
}

type streamsKey struct{}

// WithStreams returns a copy of ctx carrying s.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

// streamsFrom returns the streams stored in ctx. Unset streams default to
// the process's standard streams.
func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// stdinName labels diagnostics reported against standard input.
const stdinName = "<stdin>"

// source is one opened input file.
type source struct {
	name string
	io.ReadCloser
}

// fileKey identifies a file by device and inode, so one file reached
// through different paths or symlinks is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	if info == nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}

// openSources opens every path in order, skipping repeats. Every
// occurrence of "-" refers to one read of in, placed last so that regular
// files are read first. The caller closes the returned sources, which are
// also closed here on error.
func openSources(in io.Reader, paths []string) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	seen := make(map[fileKey]bool)

	var stdinKey fileKey

	stdinOK := false

	if f, ok := in.(*os.File); ok {
		info, _ := f.Stat()
		stdinKey, stdinOK = makeFileKey(info)
	}

	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return srcs, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		info, err := os.Stat(resolved)
		if err != nil {
			return srcs, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		if key, ok := makeFileKey(info); ok {
			if stdinOK && key == stdinKey {
				hasStdin = true

				continue
			}

			if seen[key] {
				continue
			}

			seen[key] = true
		}

		f, err := os.Open(resolved)
		if err != nil {
			return srcs, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		srcs = append(srcs, source{name: path, ReadCloser: f})
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinName, ReadCloser: io.NopCloser(in)})
	}

	return srcs, nil
}

// openSource opens a single path, or in for "-".
func openSource(in io.Reader, path string) (source, error) {
	srcs, err := openSources(in, []string{path})
	if err != nil {
		return source{}, err
	}

	return srcs[0], nil
}

func closeSources(srcs []source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}
