package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// colorMode selects when diagnostics are styled.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// enabled reports whether output to f should be styled. In auto mode that
// is when f is a terminal and NO_COLOR is unset.
func (m colorMode) enabled(f *os.File) bool {
	switch m {
	case colorAlways:
		return true
	case colorNever:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
