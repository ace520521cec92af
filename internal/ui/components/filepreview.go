package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"creativesuite/internal/desktop"
	"creativesuite/internal/ui"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EntryPreview shows the files reconciling one application would write,
// with syntax highlighting and a diff summary against what is on disk
type EntryPreview struct {
	viewport    viewport.Model
	highlighter *ui.Highlighter

	Title      string
	TotalLines int

	// Dimensions
	Width  int
	Height int

	// Styles
	lineNumStyle lipgloss.Style
	headerStyle  lipgloss.Style
	infoStyle    lipgloss.Style
	borderStyle  lipgloss.Style
}

// NewEntryPreview creates a new EntryPreview with viewport
func NewEntryPreview() *EntryPreview {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &EntryPreview{
		viewport:    vp,
		highlighter: ui.NewHighlighter(),
		Width:       80,
		Height:      20,
		lineNumStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Width(4).
			Align(lipgloss.Right),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")),
		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")),
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#89b4fa")).
			Padding(0, 1),
	}
}

// SetSize updates the viewport dimensions
func (p *EntryPreview) SetSize(width, height int) {
	p.Width = width
	p.Height = height

	// Account for header (2 lines) and border (2 lines)
	p.viewport.Height = max(height-4, 5)
	p.viewport.Width = max(width-4, 20)
}

// SetReport loads the planned files of one application
func (p *EntryPreview) SetReport(title string, report desktop.AppReport) {
	var b strings.Builder
	lines := 0

	for i, f := range report.Files {
		if i > 0 {
			b.WriteString("\n")
			lines++
		}
		b.WriteString(p.fileHeader(f) + "\n")
		lines++

		if f.Diff == nil {
			b.WriteString(p.infoStyle.Render(fmt.Sprintf("      %s, %s", ui.GetFileType(f.Path), formatBytes(int64(len(f.Content))))))
			b.WriteString("\n")
			lines++
			continue
		}

		content := strings.TrimSuffix(string(f.Content), "\n")
		for n, line := range strings.Split(content, "\n") {
			num := p.lineNumStyle.Render(fmt.Sprintf("%d", n+1))
			b.WriteString(num + " │ " + p.highlighter.HighlightLine(p.truncate(line), f.Path) + "\n")
			lines++
		}
	}

	p.setContent(title, strings.TrimSuffix(b.String(), "\n"), lines)
}

// SetMessage shows plain text instead of a report
func (p *EntryPreview) SetMessage(title string, message ...string) {
	p.setContent(title, strings.Join(message, "\n"), len(message))
}

func (p *EntryPreview) setContent(title, content string, lines int) {
	p.Title = title
	p.TotalLines = lines
	p.viewport.SetContent(content)
	p.viewport.GotoTop()
}

func (p *EntryPreview) fileHeader(f desktop.FileChange) string {
	action := ui.MutedStyle.Render(f.Action.String())
	switch f.Action {
	case desktop.ActionCreate:
		action = ui.SuccessStyle.Render(f.Action.String())
	case desktop.ActionUpdate:
		action = ui.SkippedStyle.Render(f.Action.String())
	}

	summary := ""
	if f.Diff != nil && f.Action == desktop.ActionUpdate {
		summary = " " + p.infoStyle.Render("("+f.Diff.Summary()+")")
	}
	return fmt.Sprintf("%s %s%s", action, p.headerStyle.Render(filepath.Base(f.Path)), summary)
}

func (p *EntryPreview) truncate(line string) string {
	maxWidth := max(p.viewport.Width-10, 40)
	if len(line) > maxWidth {
		return line[:maxWidth-3] + "..."
	}
	return line
}

// Update handles messages for viewport scrolling
func (p *EntryPreview) Update(msg tea.Msg) (*EntryPreview, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the preview
func (p *EntryPreview) View() string {
	var b strings.Builder

	b.WriteString(p.headerStyle.Render(p.Title) + "\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color("#313244")).
		Render(strings.Repeat("─", max(p.Width-4, 1))) + "\n")

	b.WriteString(p.viewport.View())

	if p.TotalLines > p.viewport.Height {
		scrollInfo := fmt.Sprintf("─── %.0f%% ───", p.viewport.ScrollPercent()*100)
		b.WriteString("\n" + p.infoStyle.Render(scrollInfo))
	}

	return p.borderStyle.
		Width(p.Width).
		Height(p.Height).
		Render(b.String())
}

// ScrollUp scrolls up one line
func (p *EntryPreview) ScrollUp() {
	p.viewport.LineUp(1)
}

// ScrollDown scrolls down one line
func (p *EntryPreview) ScrollDown() {
	p.viewport.LineDown(1)
}

// AtTop reports whether the preview is scrolled to the top
func (p *EntryPreview) AtTop() bool {
	return p.viewport.AtTop()
}

// formatBytes formats bytes to human readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
