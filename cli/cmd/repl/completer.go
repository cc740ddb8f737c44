package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tjlang/lang/check"
	"github.com/ardnew/tjlang/lang/stdlib"
	"github.com/ardnew/tjlang/lang/token"
)

// ctrlCommands are the control-mode commands.
var ctrlCommands = []string{"help", "list", "reset", "edit", "clear", "quit"}

// isIdentRune reports whether r can appear in an identifier.
func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier around cursor and its byte range in
// input. The word is empty when the cursor is not touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))
	start, end = cursor, cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// receiver returns the identifier before the member-access dot that
// precedes wordStart, as "IO" in "IO.pri". It is empty when the word is
// not a member name.
func receiver(input string, wordStart int) string {
	if wordStart == 0 || input[wordStart-1] != '.' {
		return ""
	}

	word, _, _ := wordBounds(input, wordStart-1)

	return word
}

// candidates returns the names that may complete a word whose receiver is
// recv, or a top-level name when recv is empty.
func (s *Session) candidates(recv string) []string {
	if recv != "" {
		switch {
		case stdlib.IsModule(recv):
			return stdlib.Functions(recv)
		case s.table.Enums[recv] != nil:
			var names []string
			for _, v := range s.table.Enums[recv].Variants {
				names = append(names, v.Name)
			}

			return names
		}

		return s.MethodNames(recv)
	}

	names := slices.Concat(
		token.Keywords(),
		check.Builtins,
		stdlib.Modules(),
		s.table.Names(),
		s.Globals(),
	)

	slices.Sort(names)

	return slices.Compact(names)
}

// complete returns the fuzzy matches for the word at cursor, best first,
// and the word's byte range. A bare dot lists every member unfiltered.
func complete(s *Session, mode inputMode, input string, cursor int) (matches fuzzy.Matches, start, end int) {
	word, start, end := wordBounds(input, cursor)

	var names []string

	if mode == modeCtrl {
		names = ctrlCommands
	} else {
		recv := receiver(input, start)
		names = s.candidates(recv)

		if word == "" && recv != "" {
			for i, n := range names {
				matches = append(matches, fuzzy.Match{Str: n, Index: i})
			}

			return matches, start, end
		}
	}

	if word == "" {
		return nil, start, end
	}

	return fuzzy.Find(word, names), start, end
}

// renderCandidates draws the completion bar within width columns. The
// matched runes of each candidate are emphasized and the selected
// candidate is highlighted.
func renderCandidates(matches fuzzy.Matches, selected, width int) string {
	const sep = "  "

	more := hintStyle.Render("…")

	var (
		b    strings.Builder
		used int
	)

	for i, m := range matches {
		item := renderCandidate(m, i == selected)

		w := lipgloss.Width(item)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w+len(sep)+lipgloss.Width(more) > width {
			b.WriteString(sep + more)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

func renderCandidate(m fuzzy.Match, selected bool) string {
	base, hit := suggestionStyle, matchStyle
	if selected {
		base, hit = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range m.Str {
		if slices.Contains(m.MatchedIndexes, i) {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
