package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
)

const (
	colorSlate  = "#667085"
	colorYellow = "#F59E0B"
	colorRed    = "#D93025"

	symbolWarning = "!"
	symbolCross   = "✗"
)

// Attribute keys the pretty handler lifts out of the attribute list.
const (
	AttrGeneration = "generation"
	AttrNode       = "node_id"
)

// PrettyHandler is a slog.Handler that produces human-readable, colored output.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   newOutput(w),
		level: levelVar,
	}
}

// newOutput honors NO_COLOR and otherwise detects the terminal profile.
func newOutput(w io.Writer) *termenv.Output {
	profile := termenv.EnvColorProfile()
	if os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}
	return termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true))
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one line: an optional "[gen N]" prefix from the generation
// attribute, the level marker and message, then the remaining attributes.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var line renderLine
	for _, attr := range h.attrs {
		line.add(h.group, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		line.add(h.group, attr)
		return true
	})

	marker, color := levelStyle(r.Level)
	var b strings.Builder
	if line.generation != "" {
		b.WriteString("[gen " + line.generation + "] ")
	}
	b.WriteString(marker + r.Message)
	if line.node != "" {
		b.WriteString(" @" + line.node)
	}
	for _, part := range line.attrs {
		b.WriteString(" " + part)
	}

	styled := h.out.String(b.String()).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return symbolCross + " ", termenv.RGBColor(colorRed)
	case level >= slog.LevelWarn:
		return symbolWarning + " ", termenv.RGBColor(colorYellow)
	default:
		return "", termenv.RGBColor(colorSlate)
	}
}

// renderLine sorts record attributes into the parts of one output line.
// Only ungrouped generation and node_id attributes are lifted; the last wins.
type renderLine struct {
	generation string
	node       string
	attrs      []string
}

func (l *renderLine) add(group string, attr slog.Attr) {
	if group == "" {
		switch attr.Key {
		case AttrGeneration:
			l.generation = attr.Value.String()
			return
		case AttrNode:
			l.node = attr.Value.String()
			return
		}
	}
	l.attrs = append(l.attrs, formatAttr(group, attr))
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	v := attr.Value.Resolve()
	if v.Kind() == slog.KindDuration {
		return key + "=" + v.Duration().Round(time.Millisecond).String()
	}
	return key + "=" + v.String()
}
