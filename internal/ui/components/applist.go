package components

import (
	"fmt"
	"strings"

	"creativesuite/internal/catalog"
	"creativesuite/internal/models"
	"creativesuite/internal/resolver"
	"creativesuite/internal/ui"
)

// AppRow is one selectable application with the method it would install by
type AppRow struct {
	Entry     models.ApplicationEntry
	Plan      resolver.Plan
	Available bool // false when no manager on this host can install it
	InBundle  bool // already recorded in the bundle state
	Installed bool // its packages are already present on the host
}

// RowsFromResolutions builds rows grouped by category, in category order
func RowsFromResolutions(resolutions []resolver.Resolution, bundle []string) []AppRow {
	inBundle := make(map[string]bool, len(bundle))
	for _, id := range bundle {
		inBundle[id] = true
	}

	entries := make([]models.ApplicationEntry, 0, len(resolutions))
	byID := make(map[string]resolver.Resolution, len(resolutions))
	for _, r := range resolutions {
		entries = append(entries, r.Entry)
		byID[r.Entry.ID] = r
	}

	groups := catalog.GroupByCategory(entries)
	var rows []AppRow
	for _, category := range catalog.CategoryOrder() {
		for _, e := range groups[category] {
			r := byID[e.ID]
			rows = append(rows, AppRow{
				Entry:     e,
				Plan:      r.Plan,
				Available: r.Resolvable(),
				InBundle:  inBundle[e.ID],
			})
		}
	}
	return rows
}

// AppList is the category-grouped checkbox list of the selection screen
type AppList struct {
	Rows      []AppRow
	Selection models.SelectionSet
	Cursor    int
	Width     int
	Height    int
	Focused   bool
	Title     string
}

// NewAppList creates a new app list. Unavailable rows are dropped from
// the initial selection.
func NewAppList(rows []AppRow, selection models.SelectionSet) *AppList {
	if selection == nil {
		selection = models.NewSelection()
	}
	l := &AppList{
		Rows:      rows,
		Selection: selection,
		Width:     60,
		Height:    20,
		Focused:   true,
		Title:     "Applications",
	}
	for _, row := range rows {
		if !row.Available {
			delete(l.Selection, row.Entry.ID)
		}
	}
	return l
}

// MoveUp moves cursor up
func (l *AppList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *AppList) MoveDown() {
	if l.Cursor < len(l.Rows)-1 {
		l.Cursor++
	}
}

// PageUp moves cursor up by a page
func (l *AppList) PageUp() {
	l.Cursor -= l.pageSize()
	if l.Cursor < 0 {
		l.Cursor = 0
	}
}

// PageDown moves cursor down by a page
func (l *AppList) PageDown() {
	l.Cursor += l.pageSize()
	if l.Cursor >= len(l.Rows) {
		l.Cursor = max(0, len(l.Rows)-1)
	}
}

// GoToFirst moves cursor to the first item
func (l *AppList) GoToFirst() {
	l.Cursor = 0
}

// GoToLast moves cursor to the last item
func (l *AppList) GoToLast() {
	if len(l.Rows) > 0 {
		l.Cursor = len(l.Rows) - 1
	}
}

func (l *AppList) pageSize() int {
	size := l.Height - 3
	if size < 1 {
		size = 10
	}
	return size
}

// Toggle toggles selection of the current row. Unavailable rows can't be picked.
func (l *AppList) Toggle() bool {
	row := l.Current()
	if row == nil || !row.Available {
		return false
	}
	l.Selection.Toggle(row.Entry.ID)
	return true
}

// SelectAll selects every available app
func (l *AppList) SelectAll() {
	for _, row := range l.Rows {
		if row.Available {
			l.Selection[row.Entry.ID] = true
		}
	}
}

// DeselectAll clears the selection
func (l *AppList) DeselectAll() {
	for id := range l.Selection {
		delete(l.Selection, id)
	}
}

// SetSelection replaces the selection, keeping only available rows
func (l *AppList) SetSelection(selection models.SelectionSet) {
	l.DeselectAll()
	for _, row := range l.Rows {
		if row.Available && selection.Has(row.Entry.ID) {
			l.Selection[row.Entry.ID] = true
		}
	}
}

// Current returns the row under the cursor
func (l *AppList) Current() *AppRow {
	if len(l.Rows) > 0 && l.Cursor < len(l.Rows) {
		return &l.Rows[l.Cursor]
	}
	return nil
}

// MarkInstalled flags the rows whose packages are already present
func (l *AppList) MarkInstalled(installed map[string]bool) {
	for i := range l.Rows {
		l.Rows[i].Installed = installed[l.Rows[i].Entry.ID]
	}
}

// SelectedRows returns the selected rows in display order
func (l *AppList) SelectedRows() []AppRow {
	var selected []AppRow
	for _, row := range l.Rows {
		if l.Selection.Has(row.Entry.ID) {
			selected = append(selected, row)
		}
	}
	return selected
}

// View renders the app list
func (l *AppList) View() string {
	var b strings.Builder

	selectedCount := len(l.SelectedRows())
	title := fmt.Sprintf("%s (%d/%d)", l.Title, selectedCount, len(l.Rows))
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(l.Width-2, 1))))
	b.WriteString("\n")

	if len(l.Rows) == 0 {
		b.WriteString(ui.ItemStyle.Render("No applications in the catalog"))
		return l.wrapInPanel(b.String())
	}

	lines, cursorLine := l.lines()

	visibleHeight := l.Height - 3
	if visibleHeight < 1 {
		visibleHeight = len(lines)
	}
	startIdx := 0
	if cursorLine >= visibleHeight {
		startIdx = cursorLine - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(lines))

	if startIdx > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more"))
		b.WriteString("\n")
	}

	b.WriteString(strings.Join(lines[startIdx:endIdx], "\n"))

	if endIdx < len(lines) {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render("  ↓ more"))
	}

	return l.wrapInPanel(b.String())
}

// lines renders category headers and rows, returning the line index of the cursor
func (l *AppList) lines() ([]string, int) {
	names := catalog.CategoryNames()
	var lines []string
	cursorLine := 0
	current := ""

	for i, row := range l.Rows {
		category := row.Entry.Category
		if _, ok := names[category]; !ok {
			category = "Other"
		}
		if category != current {
			current = category
			lines = append(lines, ui.CategoryStyle.Render(names[category]))
		}
		if i == l.Cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, l.renderItem(row, i == l.Cursor))
	}
	return lines, cursorLine
}

// renderItem renders a single row
func (l *AppList) renderItem(row AppRow, isCursor bool) string {
	checkbox := ui.RenderCheckbox(l.Selection.Has(row.Entry.ID))
	if !row.Available {
		checkbox = ui.CheckboxDisabled
	}

	name := row.Entry.Name
	maxNameLen := l.Width - 40
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	adobe := ""
	if row.Entry.AdobeEquivalent != "" {
		adobe = ui.AdobeStyle.Render("~ " + row.Entry.AdobeEquivalent)
	}

	method := ui.MethodStyle.Render(methodLabel(row))
	if !row.Available {
		method = ui.MutedStyle.Render("unavailable")
	}

	parts := []string{checkbox, name, adobe, method}
	if row.Installed {
		parts = append(parts, ui.MutedStyle.Render("installed"))
	}
	if row.InBundle {
		parts = append(parts, ui.SuccessStyle.Render("●"))
	}

	content := strings.Join(parts, " ")

	if isCursor && l.Focused {
		return ui.SelectedItemStyle.Width(max(l.Width-4, 1)).Render(ui.StripANSI(content))
	}
	if !row.Available {
		return ui.ItemStyle.Render(ui.MutedStyle.Render(ui.StripANSI(content)))
	}
	return ui.ItemStyle.Render(content)
}

func methodLabel(row AppRow) string {
	if row.Plan.Method == models.MethodNone {
		return ""
	}
	return fmt.Sprintf("[%s]", row.Plan.Manager)
}

// wrapInPanel wraps content in a panel border
func (l *AppList) wrapInPanel(content string) string {
	style := ui.PanelStyle
	if l.Focused {
		style = ui.ActivePanelStyle
	}
	return style.Width(l.Width).Height(l.Height).Render(content)
}
