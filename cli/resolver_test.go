package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	LogLevel  string   `default:"info" name:"log-level"`
	LogFormat string   `default:"text" name:"log-format"`
	LogPretty bool     `default:"true" name:"log-pretty" negatable:""`
	Depth     int      `default:"1"`
	Tags      []string `name:"tags"`

	Check struct {
		Format string `default:"text"`
	} `cmd:""`
	Other struct{} `cmd:"" default:"1"`
}

func parseWithConfig(t *testing.T, content string, args ...string) resolverCLI {
	t.Helper()

	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve("config"), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}

	return cli
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		check   func(t *testing.T, c resolverCLI)
	}{
		{
			name:    "hyphenated key",
			content: "config:\n  log-level: debug\n",
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "debug" {
					t.Errorf("log-level = %q, want debug", c.LogLevel)
				}
			},
		},
		{
			name:    "underscored key",
			content: "config:\n  log_format: json\n",
			check: func(t *testing.T, c resolverCLI) {
				if c.LogFormat != "json" {
					t.Errorf("log-format = %q, want json", c.LogFormat)
				}
			},
		},
		{
			name:    "nested key",
			content: "config:\n  log:\n    pretty: false\n    level: warn\n",
			check: func(t *testing.T, c resolverCLI) {
				if c.LogPretty || c.LogLevel != "warn" {
					t.Errorf("pretty = %t, level = %q", c.LogPretty, c.LogLevel)
				}
			},
		},
		{
			name:    "number and sequence",
			content: "config:\n  depth: 5\n  tags: [a, b]\n",
			check: func(t *testing.T, c resolverCLI) {
				if c.Depth != 5 || !slices.Equal(c.Tags, []string{"a", "b"}) {
					t.Errorf("depth = %d, tags = %v", c.Depth, c.Tags)
				}
			},
		},
		{
			name:    "command section",
			content: "config:\n  format: json\n  check:\n    format: yaml\n",
			args:    []string{"check"},
			check: func(t *testing.T, c resolverCLI) {
				if c.Check.Format != "yaml" {
					t.Errorf("check format = %q, want yaml", c.Check.Format)
				}
			},
		},
		{
			name:    "command line wins",
			content: "config:\n  log-level: debug\n",
			args:    []string{"--log-level=error"},
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "error" {
					t.Errorf("log-level = %q, want error", c.LogLevel)
				}
			},
		},
		{
			name:    "other section",
			content: "other:\n  log-level: debug\n",
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "info" {
					t.Errorf("log-level = %q, want default", c.LogLevel)
				}
			},
		},
		{
			name:    "invalid file",
			content: "config: [unterminated\n",
			check: func(t *testing.T, c resolverCLI) {
				if c.LogLevel != "info" || c.Depth != 1 {
					t.Errorf("defaults not kept: %+v", c)
				}
			},
		},
		{
			name:    "empty file",
			content: "",
			check: func(t *testing.T, c resolverCLI) {
				if c.LogFormat != "text" {
					t.Errorf("log-format = %q, want default", c.LogFormat)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, parseWithConfig(t, tt.content, tt.args...))
		})
	}
}
