package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readSources(t *testing.T, srcs []source) (names []string, text string) {
	t.Helper()

	var b strings.Builder

	for _, s := range srcs {
		names = append(names, s.name)

		data, err := io.ReadAll(s)
		if err != nil {
			t.Fatalf("read %s: %v", s.name, err)
		}

		b.Write(data)
	}

	return names, b.String()
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tj", "a")
	b := writeFile(t, dir, "b.tj", "b")

	link := filepath.Join(dir, "link.tj")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(wd, a)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		count int
		text  string
	}{
		{"single", []string{a}, 1, "a"},
		{"ordered", []string{b, a}, 2, "ba"},
		{"duplicate path", []string{a, a, b}, 2, "ab"},
		{"relative and absolute", []string{a, rel}, 1, "a"},
		{"symlink", []string{link, a}, 1, "a"},
		{"stdin last", []string{"-", a}, 2, "ain"},
		{"stdin collapsed", []string{"-", a, "-"}, 2, "ain"},
		{"empty", nil, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs, err := openSources(strings.NewReader("in"), tt.paths)
			if err != nil {
				t.Fatalf("openSources() error = %v", err)
			}
			defer closeSources(srcs)

			names, text := readSources(t, srcs)
			if len(srcs) != tt.count {
				t.Errorf("sources = %v, want %d", names, tt.count)
			}

			if text != tt.text {
				t.Errorf("text = %q, want %q", text, tt.text)
			}
		})
	}
}

func TestOpenSources_StdinName(t *testing.T) {
	src, err := openSource(strings.NewReader("x"), "-")
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.name != stdinName {
		t.Errorf("name = %q, want %q", src.name, stdinName)
	}
}

func TestOpenSources_Missing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tj", "a")

	_, err := openSources(nil, []string{a, filepath.Join(dir, "missing.tj")})
	if !errors.Is(err, ErrOpenSource) {
		t.Fatalf("error = %v, want %v", err, ErrOpenSource)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap %v", err, os.ErrNotExist)
	}
}

func TestStreamsFrom(t *testing.T) {
	s := streamsFrom(context.Background())
	if s.In != os.Stdin || s.Out != os.Stdout || s.Err != os.Stderr {
		t.Error("unset streams do not default to the standard streams")
	}

	var out strings.Builder

	s = streamsFrom(WithStreams(context.Background(), Streams{Out: &out, Color: true}))
	if s.Out != &out || s.Err != os.Stderr || !s.Color {
		t.Errorf("streamsFrom() = %+v", s)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
		is   error
	}{
		{"sentinel", ErrOpenSource, "open source", ErrOpenSource},
		{"wrapped", ErrWriteConfig.Wrap(cause), "write configuration file: boom", cause},
		{"derived", ErrFilter.Wrap(cause), "invalid filter expression: boom", ErrFilter},
		{"nested", ErrWriteConfig.Wrap(ErrFileExists), "write configuration file: file exists (use --force to overwrite)", ErrFileExists},
		{"cause only", NewError("").Wrap(cause), "boom", cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}

			if !errors.Is(tt.err, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.is)
			}
		})
	}

	if errors.Is(ErrFilter.With(), ErrFormat) {
		t.Error("derived error matches an unrelated sentinel")
	}
}
