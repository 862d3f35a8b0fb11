package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ContextWithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatalf("expected logger from context")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("expected nil logger for bare context")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, "info", "").Info("hello", "key", "value")
		if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"key":"value"`) {
			t.Fatalf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, "info", "text").Info("hello", "key", "value")
		if !strings.Contains(buf.String(), "key=value") {
			t.Fatalf("expected text output, got %q", buf.String())
		}
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := New(&buf, "warn", "text")
		logger.Info("dropped")
		if buf.Len() != 0 {
			t.Fatalf("expected info record to be filtered, got %q", buf.String())
		}
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
