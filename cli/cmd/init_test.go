package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Level  string   `default:"info" name:"log-level"`
	Pretty bool     `default:"true" name:"log-pretty" negatable:""`
	Depth  int      `default:"8"    name:"depth"`
	Mode   string   `               name:"pprof-mode"`
	Tags   []string `               name:"tags"`

	Init Init `cmd:""`
}

// parseInit parses args after "init" with the config file at path and
// returns the command and its context.
func parseInit(t *testing.T, path string, args ...string) (*Init, context.Context) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path}, kong.Exit(func(int) {}))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return &cli.Init, WithContext(context.Background(), ktx)
}

func readConfig(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("config is not YAML: %v\n%s", err, data)
	}

	return doc[ConfigIdentifier]
}

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		exists  bool
		wantErr error
	}{
		{name: "new file"},
		{name: "exists", exists: true, wantErr: ErrFileExists},
		{name: "force", args: []string{"--force"}, exists: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sub", "config.yaml")

			if tt.exists {
				if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
					t.Fatal(err)
				}

				if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			cmd, ctx := parseInit(t, path, tt.args...)

			err := cmd.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if cfg := readConfig(t, path); cfg["log-level"] != "info" {
				t.Errorf("config = %v", cfg)
			}
		})
	}
}

func TestInit_Values(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cmd, ctx := parseInit(t, path, "--log-level=debug", "--no-log-pretty", "--pprof-mode=cpu", "--depth=3")
	if err := cmd.Run(ctx); err != nil {
		t.Fatal(err)
	}

	cfg := readConfig(t, path)

	if cfg["log-level"] != "debug" {
		t.Errorf("log-level = %v, want debug", cfg["log-level"])
	}

	if cfg["log-pretty"] != false {
		t.Errorf("log-pretty = %v, want false", cfg["log-pretty"])
	}

	if got := fmt.Sprint(cfg["depth"]); got != "3" {
		t.Errorf("depth = %s, want 3", got)
	}

	for _, key := range []string{"pprof-mode", "tags", "help", "force"} {
		if _, ok := cfg[key]; ok {
			t.Errorf("config has %q", key)
		}
	}
}

func TestInit_MissingVariable(t *testing.T) {
	err := (&Init{}).Run(context.Background())
	if !errors.Is(err, ErrMissingValue) {
		t.Errorf("Run() error = %v, want %v", err, ErrMissingValue)
	}
}

func TestYAMLValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		keep bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"string", "x", true},
		{"empty slice", []string{}, false},
		{"slice", []string{"a"}, true},
		{"false", false, true},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, keep := yamlValue(tt.in); keep != tt.keep {
				t.Errorf("yamlValue(%v) keep = %t, want %t", tt.in, keep, tt.keep)
			}
		})
	}
}
