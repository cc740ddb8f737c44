package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandler_Text(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	l.With(slog.String("file", "a.tj")).
		Warn("slow", slog.Group("stats", slog.Int("ms", 12), slog.Bool("cached", false)))

	got := buf.String()
	for _, want := range []string{"level=WARN", "msg=slow", "file=a.tj", "stats.ms=12", "stats.cached=false"} {
		if !strings.Contains(got, want) {
			t.Errorf("record %q does not contain %q", got, want)
		}
	}

	if strings.Contains(got, "time=") {
		t.Errorf("record %q has a time field", got)
	}
}

func TestPrettyHandler_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.Error("failed", slog.Any("cause", nil))

	want := "{\n  level: ERROR,\n  msg: failed,\n  cause: null\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("record = %q, want %q", got, want)
	}
}

func TestPrettyHandler_Group(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyHandler(&buf, FormatText, makeConfig(&buf, WithTimeLayout("")).handlerOptions())
	slog.New(h.WithGroup("run")).Info("start", slog.Int("pid", 7))

	if got := buf.String(); !strings.Contains(got, "run.pid=7") {
		t.Errorf("record %q lacks the group prefix", got)
	}
}
