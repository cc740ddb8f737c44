package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"warn+2", Level(6)},
		{"loud", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	for _, name := range slices.Collect(Levels()) {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := slices.Collect(Formats()); len(got) != 2 {
		t.Errorf("Formats() = %v", got)
	}
}

func TestOptions(t *testing.T) {
	c := makeConfig(nil,
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithTimeLayout("kitchen"))

	want := config{
		output:     c.output,
		timeLayout: time.Kitchen,
		level:      LevelWarn,
		format:     FormatJSON,
		caller:     true,
		pretty:     false,
	}

	if c != want {
		t.Errorf("config = %+v, want %+v", c, want)
	}

	if c.output == nil {
		t.Error("nil writer was not replaced")
	}
}

func TestResolveTimeLayout(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"RFC3339", time.RFC3339},
		{"rfc-3339-nano", time.RFC3339Nano},
		{"ms", time.StampMilli},
		{"none", ""},
		{"  ", ""},
		{"15:04", "15:04"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := resolveTimeLayout(tt.in); got != tt.want {
				t.Errorf("resolveTimeLayout(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
