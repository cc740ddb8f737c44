package cli

import (
	"os"
	"testing"

	"github.com/ardnew/tjlang/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"run", "--log-level", "debug", "--log-format", "json", "main.tj"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=warn", "--log-time-layout=Kitchen"},
			want: logConfig{Level: "warn", TimeLayout: "Kitchen"},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true, Pretty: false},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=true", "--no-log-caller=false"},
			want: logConfig{Caller: true, Pretty: true},
		},
		{
			name: "value looks like a flag",
			args: []string{"--log-level", "--verbose"},
			want: logConfig{},
		},
		{
			name: "terminator",
			args: []string{"--", "--log-level=error"},
			want: logConfig{},
		},
		{
			name: "unrelated flags",
			args: []string{"--logfile=x", "--level=error"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestLogConfig_ScanConfiguresDefault(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	var c logConfig

	c.scan([]string{"--log-level=trace", "--log-format=json"})

	if got := log.Default().Level(); got != log.LevelTrace {
		t.Errorf("level = %v, want %v", got, log.LevelTrace)
	}

	if got := log.Default().Format(); got != log.FormatJSON {
		t.Errorf("format = %v, want %v", got, log.FormatJSON)
	}
}

func TestJoin(t *testing.T) {
	if got := join(log.Levels()); got != "trace,debug,info,warn,error" {
		t.Errorf("join(Levels()) = %q", got)
	}
}
