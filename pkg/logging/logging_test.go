package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormatsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf, slog.LevelInfo))
	logger.Info("starting up", "component", "dispatcher")

	out := buf.String()
	if !strings.Contains(out, "[INFO]") || !strings.Contains(out, "starting up") {
		t.Fatalf("expected level and message in output, got %q", out)
	}
	if !strings.Contains(out, `component="dispatcher"`) {
		t.Fatalf("expected quoted string attr, got %q", out)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := New(&buf, slog.LevelWarn)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("expected Info to be disabled when the minimum level is Warn")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("expected Error to be enabled when the minimum level is Warn")
	}
}

func TestWithAttrsAppendsToEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf, slog.LevelInfo)).With("chat_id", "42")
	logger.Info("handled update")

	if !strings.Contains(buf.String(), `chat_id="42"`) {
		t.Fatalf("expected persistent attr in output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
