package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "creative-suite.log")

	logger := NewLogger(Config{Level: "debug", LogFile: logFile})
	logger.Debug().Str("app", "gimp").Msg("resolved")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(data), `"app":"gimp"`) {
		t.Errorf("Expected structured field in log, got %s", data)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "out.log")

	logger := NewLogger(Config{Level: "warn", LogFile: logFile})
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	data, _ := os.ReadFile(logFile)
	if strings.Contains(string(data), "hidden") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("Warn message should be written")
	}
}

func TestNewLogger_NoWriters(t *testing.T) {
	logger := NewLogger(Config{})
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got %v", logger.GetLevel())
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("Expected message in buffer, got %s", buf.String())
	}
}
