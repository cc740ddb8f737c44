package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tjlang/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML files whose section
// name holds flag defaults:
//
//	config:
//	  log-level: debug
//	  log_format: json
//	  log:
//	    pretty: false
//	  check:
//	    format: yaml
//
// A flag is looked up by its name, then with underscores for hyphens, then
// nested under its first hyphenated word. A map named after a command
// holds values that apply only while that command runs, ahead of the
// top-level ones. Command-line flags override every value in the file.
//
// A file that does not parse is ignored with a warning.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("ignoring configuration file", slog.String("error", err.Error()))
			}

			return config{}, nil
		}

		section, _ := doc[name].(map[string]any)

		return config(section), nil
	}
}

// config implements [kong.Resolver] over one decoded YAML section.
type config map[string]any

func (config) Validate(*kong.Application) error { return nil }

func (c config) Resolve(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	if parent != nil && parent.Command != nil {
		if sub, ok := c[parent.Command.Name].(map[string]any); ok {
			if v, ok := config(sub).lookup(flag.Name); ok {
				return flagValue(flag, v), nil
			}
		}
	}

	if v, ok := c.lookup(flag.Name); ok {
		return flagValue(flag, v), nil
	}

	return nil, nil
}

func (c config) lookup(name string) (any, bool) {
	if v, ok := c[name]; ok {
		return v, true
	}

	if v, ok := c[strings.ReplaceAll(name, "-", "_")]; ok {
		return v, true
	}

	if head, rest, ok := strings.Cut(name, "-"); ok {
		if sub, ok := c[head].(map[string]any); ok {
			return config(sub).lookup(rest)
		}
	}

	return nil, false
}

// flagValue converts a decoded YAML value to a form kong can map. Numbers
// become strings and sequences are joined with the flag's separator.
func flagValue(flag *kong.Flag, v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		sep := ","
		if flag.Tag != nil && flag.Tag.Sep != 0 && flag.Tag.Sep != -1 {
			sep = string(flag.Tag.Sep)
		}

		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(flagValue(flag, e))
		}

		return strings.Join(parts, sep)
	}

	return v
}
