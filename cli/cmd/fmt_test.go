package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tjlang/lang"
)

const fmtSource = "def add(a:int,b:int)->int{return a+b}\nprintln(add(1,2))\n"

func TestFmt(t *testing.T) {
	tests := []struct {
		name  string
		run   func(context.Context) error
		check func(t *testing.T, out string)
	}{
		{
			name: "native",
			run:  (&Native{Indent: 4, Source: "-"}).Run,
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "def add(a: int, b: int) -> int {") {
					t.Errorf("output is not canonical:\n%s", out)
				}

				if !strings.Contains(out, "    return a + b") {
					t.Errorf("body is not indented:\n%s", out)
				}
			},
		},
		{
			name: "ast",
			run:  (&AST{Source: "-"}).Run,
			check: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, "File ") || !strings.Contains(out, ". FuncDecl") {
					t.Errorf("outline = \n%s", out)
				}
			},
		},
		{
			name: "json",
			run:  (&JSON{Indent: 2, Source: "-"}).Run,
			check: func(t *testing.T, out string) {
				var v map[string]any
				if err := json.Unmarshal([]byte(out), &v); err != nil {
					t.Errorf("output is not JSON: %v", err)
				}
			},
		},
		{
			name: "yaml",
			run:  (&YAML{Indent: 2, Source: "-"}).Run,
			check: func(t *testing.T, out string) {
				var v map[string]any
				if err := yaml.Unmarshal([]byte(out), &v); err != nil || len(v) == 0 {
					t.Errorf("output is not YAML: %v\n%s", err, out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := runStreams(fmtSource)

			if err := tt.run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			tt.check(t, out.String())
		})
	}
}

func TestFmt_Idempotent(t *testing.T) {
	ctx, first, _ := runStreams(fmtSource)
	if err := (&Native{Indent: 4, Source: "-"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	ctx, second, _ := runStreams(first.String())
	if err := (&Native{Indent: 4, Source: "-"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if first.String() != second.String() {
		t.Errorf("formatting is not stable:\n%s\n---\n%s", first, second)
	}
}

func TestFmt_SyntaxError(t *testing.T) {
	ctx, out, errs := runStreams("def (")

	err := (&Native{Source: "-"}).Run(ctx)
	if !errors.Is(err, lang.ErrSyntax) {
		t.Fatalf("Run() error = %v, want %v", err, lang.ErrSyntax)
	}

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out)
	}

	if !strings.Contains(errs.String(), "error[") {
		t.Errorf("stderr lacks diagnostics: %q", errs)
	}
}
