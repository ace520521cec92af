package ui

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter provides syntax highlighting for the files the installer writes
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a new syntax highlighter
func NewHighlighter() *Highlighter {
	return &Highlighter{
		style: styles.Get("catppuccin-mocha"),
	}
}

// HighlightLine highlights a single line based on the file name
func (h *Highlighter) HighlightLine(line, filename string) string {
	lexer := getLexerForFile(filename)
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var result strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		style := h.style.Get(token.Type)
		text := token.Value

		if style.Colour.IsSet() {
			styled := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Colour.String()))
			if style.Bold == chroma.Yes {
				styled = styled.Bold(true)
			}
			if style.Italic == chroma.Yes {
				styled = styled.Italic(true)
			}
			result.WriteString(styled.Render(text))
		} else {
			result.WriteString(text)
		}
	}

	return result.String()
}

// HighlightLines highlights multiple lines
func (h *Highlighter) HighlightLines(lines []string, filename string) []string {
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = h.HighlightLine(line, filename)
	}
	return result
}

// getLexerForFile returns the appropriate lexer for a filename.
// Desktop entries are ini files as far as highlighting goes.
func getLexerForFile(filename string) chroma.Lexer {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".desktop", ".directory", ".ini":
		return lexers.Get("ini")
	case ".menu", ".xml", ".svg":
		return lexers.Get("xml")
	case ".json":
		return lexers.Get("json")
	case ".yaml", ".yml":
		return lexers.Get("yaml")
	case ".sh":
		return lexers.Get("bash")
	}

	if lexer := lexers.Match(filename); lexer != nil {
		return lexer
	}
	return nil
}

// GetFileType returns a human-readable file type for display
func GetFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".desktop":
		return "Desktop Entry"
	case ".directory":
		return "Menu Directory"
	case ".menu":
		return "Menu"
	case ".svg":
		return "SVG"
	case ".png":
		return "PNG"
	case ".json":
		return "JSON"
	case ".yaml", ".yml":
		return "YAML"
	default:
		return "Text"
	}
}
