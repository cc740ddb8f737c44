package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers.
type palette struct {
	key, str, num, time, dur, null lipgloss.Style
	yes, no                        lipgloss.Style
	levels                         map[Level]lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	color := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  color("8"),
		str:  color("6"),
		num:  color("3"),
		time: color("4"),
		dur:  color("5"),
		null: color("8"),
		yes:  color("2"),
		no:   color("1"),
		levels: map[Level]lipgloss.Style{
			LevelTrace: color("4"),
			LevelDebug: color("4"),
			LevelInfo:  color("2").Bold(true),
			LevelWarn:  color("3").Bold(true),
			LevelError: color("1").Bold(true),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	for _, at := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if Level(l) >= at {
			return p.levels[at]
		}
	}

	return p.levels[LevelTrace]
}

// prettyHandler writes records for a human reader. Text records are one
// line of unquoted key=value pairs; JSON records are indented key: value
// lines between braces. Colors follow the capabilities of the output.
type prettyHandler struct {
	opts   *slog.HandlerOptions
	json   bool
	style  palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:  opts,
		json:  format == FormatJSON,
		style: newPalette(lipgloss.NewRenderer(w)),
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clone(h.attrs)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// field is a rendered key and value.
type field struct{ key, val string }

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []field

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			fields = append(fields, field{a.Key, h.style.time.Render(a.Value.String())})
		}
	}

	fields = append(fields, field{
		slog.LevelKey,
		h.style.level(r.Level).Render(strings.ToUpper(Level(r.Level).String())),
	})

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fields = append(fields, field{
				slog.SourceKey,
				h.style.str.Render(src.File + ":" + strconv.Itoa(src.Line)),
			})
		}
	}

	fields = append(fields, field{slog.MessageKey, h.style.str.Render(r.Message)})

	for _, a := range h.attrs {
		fields = h.append(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = h.append(fields, h.prefix, a)

		return true
	})

	var b strings.Builder

	if h.json {
		b.WriteString("{\n")

		for i, f := range fields {
			b.WriteString("  " + h.style.key.Render(f.key) + ": " + f.val)

			if i < len(fields)-1 {
				b.WriteByte(',')
			}

			b.WriteByte('\n')
		}

		b.WriteString("}\n")
	} else {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(h.style.key.Render(f.key) + "=" + f.val)
		}

		b.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, b.String())

	return err
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

// append flattens a into fields, expanding groups into dotted keys.
func (h *prettyHandler) append(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = h.append(fields, sub, g)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, h.value(a.Value)})
}

func (h *prettyHandler) value(v slog.Value) string {
	s := h.style

	switch v.Kind() {
	case slog.KindString:
		return s.str.Render(v.String())
	case slog.KindInt64:
		return s.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return s.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return s.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return s.yes.Render("true")
		}

		return s.no.Render("false")
	case slog.KindDuration:
		return s.dur.Render(v.Duration().String())
	case slog.KindTime:
		return s.time.Render(v.Time().Format(time.RFC3339))
	}

	switch x := v.Any().(type) {
	case nil:
		return s.null.Render("null")
	case error:
		return s.no.Render(x.Error())
	default:
		return s.str.Render(fmt.Sprint(x))
	}
}
