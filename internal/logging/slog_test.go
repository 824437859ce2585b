package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return m
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		log   func(l *SlogLogger)
		level string
	}{
		{"debug", func(l *SlogLogger) { l.Debug(ctx, "m") }, "DEBUG"},
		{"info", func(l *SlogLogger) { l.Info(ctx, "m") }, "INFO"},
		{"warn", func(l *SlogLogger) { l.Warn(ctx, "m") }, "WARN"},
		{"error", func(l *SlogLogger) { l.Error(ctx, "m") }, "ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, buf := newBufLogger()
			tc.log(l)
			m := decodeLine(t, buf)
			if m["level"] != tc.level {
				t.Fatalf("expected level %s, got %v", tc.level, m["level"])
			}
		})
	}
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	l, buf := newBufLogger()
	child := l.With("component", "server")
	child.Info(context.Background(), "hello")

	m := decodeLine(t, buf)
	if m["component"] != "server" {
		t.Fatalf("expected component=server, got %v", m["component"])
	}
}
