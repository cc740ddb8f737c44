package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestHistory_Add(t *testing.T) {
	h := NewHistory("")

	for _, e := range []Entry{
		{"x = 1", modeEval},
		{"list", modeCtrl},
		{"x = 1", modeEval},
		{"x = 1", modeEval},
		{"   ", modeEval},
		{"list", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error = %v", e.Line, err)
		}
	}

	want := []Entry{
		{"list", modeCtrl},
		{"x = 1", modeEval},
		{"list", modeEval},
	}

	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("a", modeEval)

	if e, err := h.Entry(0); err != nil || e.Line != "a" {
		t.Errorf("Entry(0) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), historyFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file error = %v", err)
	}

	_ = h.Add("a = 1", modeEval)
	_ = h.Add("help", modeCtrl)
	_ = h.Add("a = 1", modeEval)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "C:help\nE:a = 1\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	r := NewHistory(path)
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	if e, _ := r.Entry(0); e != (Entry{"help", modeCtrl}) {
		t.Errorf("Entry(0) = %v", e)
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), historyFile))

	for i := range maxHistory + 5 {
		_ = h.Add("n = "+strconv.Itoa(i), modeEval)
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	if e, _ := h.Entry(0); e.Line != "n = 5" {
		t.Errorf("oldest entry = %q, want %q", e.Line, "n = 5")
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		line string
		want Entry
	}{
		{"E:x", Entry{"x", modeEval}},
		{"C:quit", Entry{"quit", modeCtrl}},
		{"legacy", Entry{"legacy", modeEval}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := decodeEntry(tt.line); got != tt.want {
				t.Errorf("decodeEntry(%q) = %v, want %v", tt.line, got, tt.want)
			}

			if got := tt.want.encode(); tt.line != "legacy" && got != tt.line {
				t.Errorf("encode() = %q, want %q", got, tt.line)
			}
		})
	}
}
