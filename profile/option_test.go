package profile

import "testing"

func TestNew(t *testing.T) {
	got := New(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	want := Config{Mode: "cpu", Path: "/tmp/prof", Quiet: true}
	if got != want {
		t.Errorf("New() = %+v, want %+v", got, want)
	}
}

func TestConfig_StartDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero", Config{}},
		{"unknown mode", New(WithMode("nonsense"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.cfg.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", s)
			}

			s.Stop()
		})
	}
}
