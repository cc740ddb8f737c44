package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

const checkSource = "x = [1, 2][4]\ny = 3 / 0\nprintln(z)\n"

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		filter   string
		source   string
		contains []string
		absent   []string
		wantErr  error
	}{
		{
			name:     "text",
			format:   "text",
			source:   checkSource,
			contains: []string{"error[A2800]", "error[A2801]", "error[A2803]", "<stdin>: 3 diagnostic(s), 3 error(s)"},
			wantErr:  ErrDiagnostics,
		},
		{
			name:     "filter by code",
			format:   "text",
			filter:   `code == "A2801"`,
			source:   checkSource,
			contains: []string{"error[A2801]"},
			absent:   []string{"A2800", "A2803"},
			wantErr:  ErrDiagnostics,
		},
		{
			name:     "filter by line",
			format:   "text",
			filter:   `line >= 3 && stage == "A"`,
			source:   checkSource,
			contains: []string{"A2803"},
			absent:   []string{"A2800", "A2801"},
			wantErr:  ErrDiagnostics,
		},
		{
			name:   "filter drops everything",
			format: "text",
			filter: `severity == "warning"`,
			source: checkSource,
			absent: []string{"error["},
		},
		{
			name:     "warnings only",
			format:   "text",
			source:   "def f() -> int {\n    return 1\n    println(2)\n}\n",
			contains: []string{"warning[A2811]", "<stdin>: 1 diagnostic(s), 0 error(s)"},
		},
		{
			name:   "clean",
			format: "text",
			source: "x = 1\nprintln(x)\n",
			absent: []string{"error["},
		},
		{
			name:    "bad filter",
			format:  "text",
			filter:  "code ==",
			source:  checkSource,
			wantErr: ErrFilter,
		},
		{
			name:    "non-boolean filter",
			format:  "text",
			filter:  "line + 1",
			source:  checkSource,
			wantErr: ErrFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := runStreams(tt.source)

			c := &Check{Format: tt.format, Filter: tt.filter, Indent: 2, Sources: []string{"-"}}

			err := c.Run(ctx)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			for _, s := range tt.contains {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output lacks %q:\n%s", s, out)
				}
			}

			for _, s := range tt.absent {
				if strings.Contains(out.String(), s) {
					t.Errorf("output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

type report struct {
	File        string `json:"file" yaml:"file"`
	Diagnostics []struct {
		Code     string `json:"code"     yaml:"code"`
		Severity string `json:"severity" yaml:"severity"`
	} `json:"diagnostics" yaml:"diagnostics"`
}

func TestCheck_JSON(t *testing.T) {
	ctx, out, _ := runStreams(checkSource)

	err := (&Check{Format: "json", Sources: []string{"-"}}).Run(ctx)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("Run() error = %v, want %v", err, ErrDiagnostics)
	}

	var rep report
	if err := json.Unmarshal([]byte(out.String()), &rep); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if rep.File != stdinName || len(rep.Diagnostics) != 3 {
		t.Errorf("report = %+v", rep)
	}

	if rep.Diagnostics[0].Severity != "error" {
		t.Errorf("severity = %q, want error", rep.Diagnostics[0].Severity)
	}
}

func TestCheck_YAMLDocuments(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tj", "println(a)\n")
	b := writeFile(t, dir, "b.tj", "b = 1\n")

	ctx, out, _ := runStreams("")

	err := (&Check{Format: "yaml", Indent: 2, Sources: []string{a, b}}).Run(ctx)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("Run() error = %v, want %v", err, ErrDiagnostics)
	}

	docs := strings.Split(out.String(), "---\n")
	if len(docs) != 2 {
		t.Fatalf("documents = %d, want 2:\n%s", len(docs), out)
	}

	var first report
	if err := yaml.Unmarshal([]byte(docs[0]), &first); err != nil {
		t.Fatal(err)
	}

	if first.File != a || len(first.Diagnostics) != 1 || first.Diagnostics[0].Code != "A2803" {
		t.Errorf("first report = %+v", first)
	}
}
