package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tjlang/log"
	"github.com/ardnew/tjlang/profile"
)

const defaultConfigIndent = 2

// skipFlags are flag name prefixes left out of the configuration file.
var skipFlags = []string{"help", "version", profile.Tag}

// Init writes the configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	path, err := kongVar(ctx, ConfigIdentifier)
	if err != nil {
		return err
	}

	_, err = os.Stat(path)

	switch {
	case err == nil && !i.Force:
		return ErrWriteConfig.Wrap(ErrFileExists).With(slog.String("file", path))
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return ErrWriteConfig.Wrap(err).With(slog.String("file", path))
	}

	data, err := yaml.MarshalContext(ctx,
		map[string]any{ConfigIdentifier: configValues(kongContextFrom(ctx))},
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return ErrWriteConfig.Wrap(err).With(slog.String("file", path))
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ErrWriteConfig.Wrap(err).With(slog.String("file", path))
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", path))

	return nil
}

// configValues maps each configurable flag to its current value. Empty
// strings and slices are left out so their defaults keep applying.
func configValues(ktx *kong.Context) map[string]any {
	values := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skipFlags, func(p string) bool {
			return strings.HasPrefix(flag.Name, p)
		}) {
			continue
		}

		if v, ok := yamlValue(ktx.FlagValue(flag)); ok {
			values[flag.Name] = v
		}
	}

	return values
}

func yamlValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false

	case string:
		return v, v != ""

	case []string:
		return v, len(v) > 0

	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, true

	case interface{ String() string }:
		s := v.String()

		return s, s != ""
	}

	return v, true
}
