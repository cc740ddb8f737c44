package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tjlang/lang/decl"
	"github.com/ardnew/tjlang/lang/value"
	"github.com/ardnew/tjlang/log"
)

const (
	evalPrompt = "tj> "
	ctrlPrompt = " :: "

	defaultWidth = 80
)

const helpText = `Commands (Esc toggles command mode):

  help    show this text
  list    list declarations and bindings
  reset   discard every declaration and binding
  edit    edit the session source in $EDITOR and reload it
  clear   clear the screen
  quit    leave the session

Keys:
  Tab / Shift-Tab        cycle completions, Enter or Space accepts
  Up / Down              history, switching modes as needed
  Shift-Up / Shift-Down  history of the current mode only
  Ctrl-C                 clear the line, or quit on an empty line
  Ctrl-D                 quit on an empty line`

type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// Config configures [Run].
type Config struct {
	// CacheDir holds the history file. Empty keeps history in memory.
	CacheDir string
	Logger   log.Logger
	Color    bool
	// Preload, when set, is evaluated before the first prompt.
	Preload io.Reader

	Input  io.Reader
	Output io.Writer
}

// Run starts an interactive session and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	s := NewSession(WithSessionLogger(cfg.Logger), WithSessionColor(cfg.Color))

	var intro []string

	if cfg.Preload != nil {
		data, err := io.ReadAll(cfg.Preload)
		if err != nil {
			return err
		}

		if r := s.Eval(ctx, string(data)); r.Failed() {
			intro = append(intro, r.Problem)
		} else if r.Output != "" {
			intro = append(intro, strings.TrimRight(r.Output, "\n"))
		}
	}

	var path string
	if cfg.CacheDir != "" {
		path = filepath.Join(cfg.CacheDir, historyFile)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "history not loaded", slog.String("path", path), slog.Any("error", err))
	}

	cfg.Logger.DebugContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entries", h.Len()))

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	m := newModel(ctx, s, h, cfg.Logger)
	m.intro = intro

	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// editDoneMsg reports the end of an edit.
type editDoneMsg struct {
	cmd *editCommand
	err error
}

type model struct {
	ctx     context.Context
	session *Session
	history *History
	logger  log.Logger
	intro   []string

	input textinput.Model
	mode  inputMode
	width int

	// saved input of the inactive mode
	saved [2]struct {
		text   string
		cursor int
	}

	histIdx int

	matches   fuzzy.Matches
	wordStart int
	wordEnd   int
	selected  int
	cycling   bool
	preCycle  string
	preCursor int
	quitting  bool
}

func newModel(ctx context.Context, s *Session, h *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.CharLimit = 4096
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:      ctx,
		session:  s,
		history:  h,
		logger:   logger,
		input:    ti,
		width:    defaultWidth,
		histIdx:  h.Len(),
		selected: -1,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	for _, line := range m.intro {
		cmds = append(cmds, tea.Println(line))
	}

	return tea.Sequence(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-1, 1)

		return m, nil

	case editDoneMsg:
		switch {
		case errors.Is(msg.err, ErrEditDeclined):
			return m, tea.Println(hintStyle.Render("edit discarded"))
		case msg.err != nil:
			return m, tea.Println(errorStyle.Render("edit failed: " + msg.err.Error()))
		case msg.cmd.result == nil:
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.session = msg.cmd.result

		return m, tea.Sequence(
			printReply(msg.cmd.reply),
			tea.Println(resultStyle.Render("session reloaded")))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint is the line under the prompt: a history position, a signature,
// completions, or usage help.
func (m model) hint() string {
	text := m.input.Value()

	if m.histIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("history %s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.histIdx+1)), m.history.Len()))
	}

	if strings.TrimSpace(text) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render(strings.Join(ctrlCommands, ", ") + " (Esc returns)")
		}

		return hintStyle.Render("enter a statement or expression, Esc for commands")
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		if c, ok := openCall(text, m.input.Position()); ok {
			if sig, ok := m.session.lookup(c.callee); ok {
				return sig.render(c.arg)
			}
		}
	}

	return renderCandidates(m.matches, m.selected, m.width)
}

func (m model) key(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl key", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			return m.quit()
		}

		m.input.SetValue("")
		m.cycling = false
		m.histIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			return m.quit()
		}

		return m, nil

	case tea.KeyEnter:
		if m.cycling {
			m.cycling = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1, false), nil

	case tea.KeyDown:
		return m.browse(1, false), nil

	case tea.KeyShiftUp:
		return m.browse(-1, true), nil

	case tea.KeyShiftDown:
		return m.browse(1, true), nil

	case tea.KeyEsc:
		if m.cycling {
			m.cycling = false
			m.input.SetValue(m.preCycle)
			m.input.SetCursor(m.preCursor)
			m.refresh(false)

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil
	}

	typed := msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
	if m.cycling && msg.Type == tea.KeySpace {
		m.cycling = false
	}

	var cmd tea.Cmd

	m.histIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typed)

	return m, cmd
}

func (m model) quit() (model, tea.Cmd) {
	m.quitting = true

	return m, tea.Sequence(flushTasks(m.session), tea.Quit)
}

// flushTasks prints the output of spawned tasks that are still running.
func flushTasks(s *Session) tea.Cmd {
	if out := strings.TrimRight(s.Wait(), "\n"); out != "" {
		return tea.Println(out)
	}

	return nil
}

// cycle moves the completion selection by step and writes it into the
// input. A single candidate is accepted at once.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.cycling = false
		m.matches = nil
		m.selected = -1

		return m
	}

	if !m.cycling {
		m.cycling = true
		m.preCycle = m.input.Value()
		m.preCursor = m.input.Position()
		m.selected = 0
		if step < 0 {
			m.selected = n - 1
		}
	} else {
		m.selected = (m.selected + step + n) % n
	}

	m.replaceWord(m.matches[m.selected].Str)

	return m
}

func (m *model) replaceWord(word string) {
	text := m.input.Value()
	m.input.SetValue(text[:m.wordStart] + word + text[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(word))
	m.wordEnd = m.wordStart + len(word)
}

// refresh recomputes completions. With accept set, a word that already
// equals its only candidate is accepted so the bar disappears.
func (m *model) refresh(accept bool) {
	if m.cycling {
		return
	}

	m.matches, m.wordStart, m.wordEnd = complete(m.session, m.mode, m.input.Value(), m.input.Position())
	m.selected = -1

	if accept && len(m.matches) == 1 && m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// browse walks the history by dir. With sameMode set, entries of the other
// mode are skipped; otherwise the mode follows the entry.
func (m model) browse(dir int, sameMode bool) model {
	for i := m.histIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		e, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && e.Mode != m.mode {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchMode(e.Mode)
		}

		m.histIdx = i
		m.input.SetValue(e.Line)
		m.input.CursorEnd()
		m.refresh(false)

		return m
	}

	if dir > 0 {
		m.histIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)
	}

	return m
}

func (m model) switchMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.saved[m.mode].text, m.saved[m.mode].cursor = m.input.Value(), m.input.Position()
	m.mode = mode

	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	} else {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.cycling = false
	m.refresh(false)

	return m
}

func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.saved = [2]struct {
		text   string
		cursor int
	}{}
	m.matches = nil

	if err := m.history.Add(line, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "history not saved", slog.Any("error", err))
	}

	m.histIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.command(line)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + line)

	return m, tea.Sequence(echo, printReply(m.session.Eval(m.ctx, line)))
}

func printReply(r Reply) tea.Cmd {
	var cmds []tea.Cmd

	if out := strings.TrimRight(r.Output, "\n"); out != "" {
		cmds = append(cmds, tea.Println(out))
	}

	switch {
	case r.Failed():
		cmds = append(cmds, tea.Println(errorStyle.Render(r.Problem)))
	case r.Value != "":
		cmds = append(cmds, tea.Println(resultStyle.Render(r.Value)))
	}

	return tea.Sequence(cmds...)
}

func (m model) command(line string) (model, tea.Cmd) {
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + line)

	name, _, _ := strings.Cut(line, " ")

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, flushTasks(m.session), tea.Quit)

	case "h", "help", "?":
		return m, tea.Sequence(echo, tea.Println(helpText))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(listing(m.session)))

	case "r", "reset":
		m.session.Reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session cleared")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		c := &editCommand{ctx: m.ctx, session: m.session}

		return m, tea.Sequence(echo, tea.Exec(c, func(err error) tea.Msg {
			return editDoneMsg{cmd: c, err: err}
		}))
	}

	return m, tea.Sequence(echo,
		tea.Println(errorStyle.Render("unknown command "+strconv.Quote(name)+" (try help)")))
}

// listing describes every declaration and top-level binding.
func listing(s *Session) string {
	var b strings.Builder

	t := s.Table()

	for _, name := range t.Names() {
		kind := t.Kind(name)

		detail := kind.String()
		if d, ok := t.Func(name); ok && kind == decl.Func {
			detail = decl.Signature(d)
		}

		fmt.Fprintf(&b, "  %-12s %s\n", name, hintStyle.Render(detail))
	}

	globals := s.Globals()
	slices.Sort(globals)

	for _, name := range globals {
		v, _ := s.Lookup(name)
		fmt.Fprintf(&b, "  %-12s %s\n", name, hintStyle.Render(v.Type()+" = "+preview(v)))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (empty)")
	}

	return strings.TrimRight(b.String(), "\n")
}

func preview(v value.Value) string {
	const limit = 48

	s := value.Repr(v)
	if len([]rune(s)) > limit {
		return string([]rune(s)[:limit-1]) + "…"
	}

	return s
}
