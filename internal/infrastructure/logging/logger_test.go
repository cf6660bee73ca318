package logging

import (
	"log/slog"
	"testing"

	"github.com/sundiald/sundial/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewHandlesAllFormats(t *testing.T) {
	for _, format := range []string{"json", "text", "JSON", "unknown"} {
		logger := New(config.LoggingConfig{
			Level:  "info",
			Format: format,
			Output: "stderr",
		}, "test")
		if logger == nil || logger.Logger == nil {
			t.Errorf("New(format=%q) returned nil logger", format)
		}
	}
}

func TestWithReturnsDerivedLogger(t *testing.T) {
	base := Default()
	derived := base.With("component", "schedule")

	if derived == nil || derived.Logger == nil {
		t.Fatal("With returned nil logger")
	}
	if derived == base {
		t.Error("With must return a new Logger")
	}
}

func TestDefaultIsUsableBeforeConfig(t *testing.T) {
	logger := Default()
	if logger == nil || logger.Logger == nil {
		t.Fatal("Default returned nil logger")
	}
	if !logger.Enabled(nil, slog.LevelInfo) {
		t.Error("default logger should log at info")
	}
	if logger.Enabled(nil, slog.LevelDebug) {
		t.Error("default logger should filter debug")
	}
}
