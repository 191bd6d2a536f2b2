// Package logging builds the slog.Handler this framework's adaptors and
// dispatcher log through (SPEC_FULL.md §2 "Logging"). Grounded on the
// teacher's pkg/monitor/logger.go CustomHandler: the same
// "[TIME] [LEVEL] message key=value..." line shape, reimplemented
// around log/slog.Handler instead of owning slog.SetDefault itself —
// the library never calls SetDefault on its own, the caller does.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Handler renders records as "[2006-01-02 15:04:05] [LEVEL] message
// key="value" ...", one line per record, to w.
type Handler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// New builds a Handler writing to w at the given minimum level.
func New(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{w: w, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "[%s] [%s] %s", r.Time.Format("2006-01-02 15:04:05"), r.Level, r.Message)

	for _, a := range h.attrs {
		appendAttr(buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(buf, a)
		return true
	})
	buf.WriteByte('\n')

	_, err := h.w.Write(buf.Bytes())
	return err
}

func appendAttr(buf *bytes.Buffer, a slog.Attr) {
	buf.WriteByte(' ')
	buf.WriteString(a.Key)
	buf.WriteByte('=')

	val := a.Value.Resolve()
	switch val.Kind() {
	case slog.KindString:
		fmt.Fprintf(buf, "%q", val.String())
	case slog.KindTime:
		buf.WriteString(val.Time().Format(time.RFC3339))
	default:
		fmt.Fprintf(buf, "%v", val.Any())
	}
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{w: h.w, level: h.level, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	// Groups are not represented in the flat key=value line shape; every
	// attr is logged at the top level regardless of group nesting.
	return h
}

// ParseLevel maps the config-file strings ("debug"/"info"/"warn"/"error")
// to a slog.Level, defaulting to Info for anything unrecognized.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
