package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	historyFile = "history.utf8"

	// maxHistory bounds the entries kept on disk; the oldest are dropped.
	maxHistory = 1000
)

// Entry is one line of input and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

var modeTag = map[inputMode]string{modeEval: "E:", modeCtrl: "C:"}

func (e Entry) encode() string { return modeTag[e.Mode] + e.Line }

func decodeEntry(line string) Entry {
	for mode, tag := range modeTag {
		if rest, ok := strings.CutPrefix(line, tag); ok {
			return Entry{Line: rest, Mode: mode}
		}
	}

	return Entry{Line: line, Mode: modeEval}
}

// History is the persistent input history. Each line is stored once, at
// its most recent position.
type History struct {
	path    string
	mu      sync.RWMutex
	entries []Entry
}

// NewHistory returns a history backed by the file at path. An empty path
// keeps the history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those stored on disk. A missing file is
// an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	f, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer f.Close()

	var entries []Entry

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			entries = append(entries, decodeEntry(line))
		}
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()

	return sc.Err()
}

// Add records line in mode. An earlier identical entry is moved to the
// end.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, "\n") {
		return nil
	}

	e := Entry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	i := slices.Index(h.entries, e)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, e)

	if i >= 0 || len(h.entries) > maxHistory {
		h.entries = h.entries[max(0, len(h.entries)-maxHistory):]

		return h.rewrite()
	}

	return h.append(e)
}

// Entry returns the i'th entry, oldest first.
func (h *History) Entry(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of every entry, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

func (h *History) append(e Entry) error {
	if h.path == "" {
		return nil
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(e.encode() + "\n")

	return err
}

// rewrite stores every entry. The caller holds h.mu.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e.encode() + "\n")
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
