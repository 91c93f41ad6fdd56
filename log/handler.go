package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, r slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, level slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *discardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

const termTimeFormat = "01-02|15:04:05.000"

func levelColor(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "\x1b[35m" // magenta
	case slog.LevelDebug:
		return "\x1b[36m" // cyan
	case slog.LevelInfo:
		return "\x1b[32m" // green
	case slog.LevelWarn:
		return "\x1b[33m" // yellow
	case slog.LevelError:
		return "\x1b[31m" // red
	case LevelCrit:
		return "\x1b[35;1m"
	default:
		return ""
	}
}

// TerminalHandler prints records with aligned level tags, a compact
// timestamp and key=value attributes, optionally colorized.
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      slog.Level
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandlerWithLevel returns a handler that only emits records
// at lvl or above.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl slog.Level, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var sb strings.Builder
	lvl := LevelAlignedString(r.Level)
	if h.useColor {
		if c := levelColor(r.Level); c != "" {
			lvl = c + lvl + "\x1b[0m"
		}
	}
	sb.WriteString(lvl)
	sb.WriteByte('[')
	sb.WriteString(r.Time.Format(termTimeFormat))
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	writeAttr := func(a slog.Attr) {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(fmt.Sprintf("%v", a.Value.Any()))
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})
	sb.WriteByte('\n')

	_, err := io.WriteString(h.wr, sb.String())
	return err
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := NewTerminalHandlerWithLevel(h.wr, h.lvl, h.useColor)
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return nh
}

func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	return h
}
