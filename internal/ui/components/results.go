package components

import (
	"fmt"
	"strings"

	"creativesuite/internal/models"
	"creativesuite/internal/ui"
)

// ResultList renders per-application outcomes. Failed rows can be
// expanded to show the captured command output.
type ResultList struct {
	Results  []models.InstallResult
	Names    map[string]string // entry id -> display name
	Pending  []string          // ids not yet finished, in batch order
	Active   string            // id currently installing
	Cursor   int
	Expanded map[string]bool
	Width    int
	Height   int
}

// NewResultList creates a result list for a batch
func NewResultList(names map[string]string, batch []string) *ResultList {
	return &ResultList{
		Names:    names,
		Pending:  append([]string(nil), batch...),
		Expanded: make(map[string]bool),
		Width:    80,
		Height:   20,
	}
}

// Start marks an application as installing
func (l *ResultList) Start(id string) {
	l.Active = id
}

// Add records a finished result
func (l *ResultList) Add(result models.InstallResult) {
	l.Results = append(l.Results, result)
	if l.Active == result.EntryID {
		l.Active = ""
	}
	for i, id := range l.Pending {
		if id == result.EntryID {
			l.Pending = append(l.Pending[:i], l.Pending[i+1:]...)
			break
		}
	}
}

// MoveUp moves cursor up
func (l *ResultList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *ResultList) MoveDown() {
	if l.Cursor < len(l.Results)-1 {
		l.Cursor++
	}
}

// ToggleDetails expands or collapses the output of the row under the cursor
func (l *ResultList) ToggleDetails() bool {
	if l.Cursor >= len(l.Results) {
		return false
	}
	r := l.Results[l.Cursor]
	if r.Output == "" && r.Err == nil {
		return false
	}
	l.Expanded[r.EntryID] = !l.Expanded[r.EntryID]
	return true
}

// Done reports whether every application in the batch has a result
func (l *ResultList) Done() bool {
	return len(l.Pending) == 0 && l.Active == ""
}

func (l *ResultList) name(id string) string {
	if n, ok := l.Names[id]; ok {
		return n
	}
	return id
}

// View renders the outcomes followed by the applications still waiting
func (l *ResultList) View(interactive bool) string {
	var lines []string

	for i, r := range l.Results {
		method := ""
		if r.Manager != "" {
			method = ui.MethodStyle.Render("[" + r.Manager + "]")
		}
		row := fmt.Sprintf("%s  %-14s %s %s", ui.RenderStatus(r.Status), l.name(r.EntryID), method, ui.MutedStyle.Render(r.Message))
		if interactive && i == l.Cursor {
			row = ui.SelectedItemStyle.Render(ui.StripANSI(row))
		} else {
			row = ui.ItemStyle.Render(row)
		}
		lines = append(lines, row)

		if l.Expanded[r.EntryID] {
			lines = append(lines, l.details(r)...)
		}
	}

	for _, id := range l.Pending {
		marker := ui.MutedStyle.Render("  ·")
		if id == l.Active {
			marker = ui.ProgressStyle.Render("  ▶")
		}
		lines = append(lines, ui.ItemStyle.Render(fmt.Sprintf("%s  %s", marker, l.name(id))))
	}

	return strings.Join(lines, "\n")
}

func (l *ResultList) details(r models.InstallResult) []string {
	var out []string
	if r.Err != nil {
		out = append(out, ui.FailedStyle.Render("      "+r.Err.Error()))
	}
	width := max(l.Width-10, 20)
	for _, line := range strings.Split(strings.TrimRight(r.Output, "\n"), "\n") {
		if line == "" {
			continue
		}
		if len(line) > width {
			line = line[:width-3] + "..."
		}
		out = append(out, ui.MutedStyle.Render("      │ "+line))
	}
	return out
}
