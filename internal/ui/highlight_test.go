package ui

import (
	"strings"
	"testing"
)

func TestGetFileType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"creative-suite-gimp.desktop", "Desktop Entry"},
		{"X-Creative-Suite.directory", "Menu Directory"},
		{"creative-suite.menu", "Menu"},
		{"creative-suite-gimp.svg", "SVG"},
		{"bundle-state.json", "JSON"},
		{"apps.yaml", "YAML"},
		{"unknown.xyz", "Text"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := GetFileType(tt.filename)
			if result != tt.expected {
				t.Errorf("GetFileType(%s) = %s, want %s", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestGetLexerForFile(t *testing.T) {
	tests := []struct {
		filename string
		lexer    string
	}{
		{"creative-suite-gimp.desktop", "INI"},
		{"X-Creative-Suite.directory", "INI"},
		{"creative-suite.menu", "XML"},
		{"state.json", "JSON"},
	}

	for _, tt := range tests {
		lexer := getLexerForFile(tt.filename)
		if lexer == nil {
			t.Fatalf("No lexer for %s", tt.filename)
		}
		if lexer.Config().Name != tt.lexer {
			t.Errorf("getLexerForFile(%s) = %s, want %s", tt.filename, lexer.Config().Name, tt.lexer)
		}
	}

	if getLexerForFile("noextension") != nil {
		t.Error("Expected no lexer for unknown file")
	}
}

func TestHighlighter_KeepsText(t *testing.T) {
	h := NewHighlighter()

	lines := []string{"[Desktop Entry]", "Name=GIMP", "Exec=gimp %U"}
	out := h.HighlightLines(lines, "creative-suite-gimp.desktop")

	if len(out) != len(lines) {
		t.Fatalf("Expected %d lines, got %d", len(lines), len(out))
	}
	for i, line := range out {
		if !strings.Contains(StripANSI(line), lines[i]) {
			t.Errorf("Highlighted line lost its text: %q", line)
		}
	}

	if got := h.HighlightLine("plain", "noextension"); got != "plain" {
		t.Errorf("Unknown files should pass through, got %q", got)
	}
}
