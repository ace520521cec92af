package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"creativesuite/internal/desktop"
	"creativesuite/internal/host"
	"creativesuite/internal/installer"
	"creativesuite/internal/models"
	"creativesuite/internal/resolver"
	"creativesuite/internal/ui"
	"creativesuite/internal/ui/components"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
)

// Screen represents the wizard screens
type Screen int

const (
	ScreenWelcome Screen = iota
	ScreenSelect
	ScreenConfirmRemove // Remove bundle confirmation
	ScreenInstalling
	ScreenSummary
)

// Model is the main application model
type Model struct {
	ctx context.Context
	env *environment

	// UI Components
	appList  *components.AppList
	preview  *components.EntryPreview
	results  *components.ResultList
	spinner  spinner.Model
	progress progress.Model
	help     help.Model
	keys     ui.KeyMap

	// State
	screen      Screen
	status      string
	width       int
	height      int
	showPreview bool
	bundleSize  int // apps in the menu, cached while the runner owns the state

	// Host checks, refreshed when entering the welcome screen
	blockers []string
	running  []string

	// Install batch
	changes    desktop.SelectionChanges
	batch      []resolver.Resolution
	progressCh chan tea.Msg
	done       int
	report     *desktop.Report
	removed    *desktop.RemovalReport
	reportErr  error

	installed map[string]bool // ids whose packages are on the host

	// Remove bundle dialog
	confirmCursor int
}

// Messages
type hostCheckedMsg struct {
	blockers []string
	running  []string
}

type authDoneMsg struct {
	err error
}

type installProgressMsg struct {
	progress installer.Progress
}

type installDoneMsg struct {
	update bundleUpdate
	err    error
}

type installedMsg struct {
	installed map[string]bool
}

type removeDoneMsg struct {
	report *desktop.RemovalReport
	err    error
}

// New creates the wizard for a loaded environment
func New(ctx context.Context, env *environment) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.ProgressStyle

	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	m := &Model{
		ctx:      ctx,
		env:      env,
		preview:  components.NewEntryPreview(),
		spinner:  s,
		progress: prog,
		help:     help.New(),
		keys:     ui.DefaultKeyMap(),
		screen:   ScreenWelcome,
		width:    80,
		height:   24,
	}
	m.rebuildList(m.initialSelection())
	return m
}

// initialSelection preselects what the bundle already holds, or the
// recommended apps when nothing was installed yet
func (m *Model) initialSelection() models.SelectionSet {
	state := m.env.reconciler.State()
	if len(state.Apps) > 0 {
		return models.NewSelection(state.IDs()...)
	}
	return m.env.catalog.DefaultSelection()
}

// rebuildList resolves every catalog entry again and recreates the list
func (m *Model) rebuildList(selection models.SelectionSet) {
	resolutions, _ := m.env.resolve(nil)
	rows := components.RowsFromResolutions(resolutions, m.env.reconciler.State().IDs())

	cursor := 0
	if m.appList != nil {
		cursor = m.appList.Cursor
	}
	m.bundleSize = len(m.env.reconciler.State().Apps)
	m.appList = components.NewAppList(rows, selection)
	m.appList.MarkInstalled(m.installed)
	if cursor < len(rows) {
		m.appList.Cursor = cursor
	}
	m.updatePanelSizes()
	m.updatePreview()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkHost, m.checkInstalled())
}

// checkInstalled queries the managers for every installable row in the
// background
func (m *Model) checkInstalled() tea.Cmd {
	var batch []resolver.Resolution
	for _, row := range m.appList.Rows {
		if row.Available {
			batch = append(batch, resolver.Resolution{Entry: row.Entry, Plan: row.Plan})
		}
	}
	runner := m.env.runner()
	ctx := m.ctx
	return func() tea.Msg {
		return installedMsg{installed: runner.Installed(ctx, batch)}
	}
}

func (m *Model) checkHost() tea.Msg {
	blockers, err := host.BlockingProcesses(m.ctx)
	if err != nil {
		m.env.log.Debug().Err(err).Msg("process scan failed")
	}
	return hostCheckedMsg{
		blockers: blockers,
		running:  m.env.reconciler.RunningBundleApps(m.ctx),
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updatePanelSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if m.screen == ScreenSelect && m.showPreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hostCheckedMsg:
		m.blockers = msg.blockers
		m.running = msg.running

	case installedMsg:
		// Merged, a batch may have finished while the queries ran
		if m.installed == nil {
			m.installed = make(map[string]bool)
		}
		for id := range msg.installed {
			m.installed[id] = true
		}
		m.appList.MarkInstalled(m.installed)

	case authDoneMsg:
		if msg.err != nil {
			m.env.log.Warn().Err(msg.err).Msg("authentication failed")
			m.screen = ScreenSelect
			m.status = fmt.Sprintf("Error: authentication with %s failed", m.env.privilege.Wrapper)
			return m, nil
		}
		return m, m.startRunner()

	case installProgressMsg:
		p := msg.progress
		if p.Done {
			m.results.Add(p.Result)
			m.done++
		} else {
			m.results.Start(p.Entry.ID)
			m.status = fmt.Sprintf("Installing %s (%d/%d)...", p.Entry.Name, p.Index+1, p.Total)
		}
		return m, m.waitForProgress()

	case installDoneMsg:
		m.progressCh = nil
		m.report = msg.update.report
		m.removed = msg.update.removed
		m.reportErr = msg.err
		m.screen = ScreenSummary
		s, f, k := models.CountByStatus(msg.update.results)
		m.status = fmt.Sprintf("%d installed, %d failed, %d skipped", s, f, k)
		if n := m.removedFromMenu(); n > 0 {
			m.status += fmt.Sprintf(", %d removed from the menu", n)
		}
		if f == 0 && msg.err == nil && errorsIn(m.report) == 0 {
			m.status = "✓ " + m.status
		}
		m.logReportErrors()
		if m.installed == nil {
			m.installed = make(map[string]bool)
		}
		for _, res := range msg.update.results {
			if res.Status == models.StatusSuccess {
				m.installed[res.EntryID] = true
			}
		}
		m.rebuildList(m.appList.Selection)
		return m, nil

	case removeDoneMsg:
		m.screen = ScreenSelect
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("✓ Removed %d files from the menu, applications stay installed", len(msg.report.Removed))
		}
		m.rebuildList(m.appList.Selection)
		return m, nil
	}

	return m, nil
}

// removedFromMenu counts the deselected apps the bundle no longer holds
func (m *Model) removedFromMenu() int {
	st := m.env.reconciler.State()
	n := 0
	for _, id := range m.changes.ToRemove {
		if _, ok := st.Apps[id]; !ok {
			n++
		}
	}
	return n
}

// logReportErrors records the batch's menu errors once, when it finishes
func (m *Model) logReportErrors() {
	if m.reportErr != nil {
		m.env.log.Error().Err(m.reportErr).Msg("menu update failed")
	}
	if m.report == nil {
		return
	}
	for _, err := range m.report.Errors() {
		m.env.log.Debug().Err(err).Msg("integration error")
	}
}

func errorsIn(report *desktop.Report) int {
	if report == nil {
		return 0
	}
	return len(report.Errors())
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// No cancellation while packages are being installed
	if m.screen == ScreenInstalling {
		return m, nil
	}

	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.screen {
	case ScreenWelcome:
		return m.handleWelcomeKeys(msg)
	case ScreenConfirmRemove:
		return m.handleConfirmKeys(msg)
	case ScreenSummary:
		return m.handleSummaryKeys(msg)
	default:
		return m.handleSelectKeys(msg)
	}
}

func (m *Model) handleWelcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter):
		if m.env.cfg.FirstRun {
			if err := m.env.cfg.Save(); err != nil {
				m.env.log.Warn().Err(err).Msg("save config")
			}
			m.env.cfg.FirstRun = false
		}
		m.screen = ScreenSelect
		m.status = "Choose the applications to install"
	}
	return m, nil
}

func (m *Model) handleSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.showPreview {
			m.showPreview = false
			m.updatePanelSizes()
			return m, nil
		}
		m.screen = ScreenWelcome
		return m, m.checkHost

	case key.Matches(msg, m.keys.Up):
		m.appList.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.appList.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		m.appList.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.appList.PageDown()
	case key.Matches(msg, m.keys.Home):
		m.appList.GoToFirst()
	case key.Matches(msg, m.keys.End):
		m.appList.GoToLast()

	case key.Matches(msg, m.keys.Space):
		if !m.appList.Toggle() {
			if row := m.appList.Current(); row != nil {
				m.status = fmt.Sprintf("%s can't be installed on this system", row.Entry.Name)
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.SelectAll):
		m.appList.SelectAll()
		return m, nil
	case key.Matches(msg, m.keys.DeselectAll):
		m.appList.DeselectAll()
		return m, nil
	case key.Matches(msg, m.keys.Defaults):
		m.appList.SetSelection(m.env.catalog.DefaultSelection())
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
		m.updatePanelSizes()

	case key.Matches(msg, m.keys.RemoveBundle):
		if m.env.reconciler.State().Empty() {
			m.status = "The Creative Suite menu is not installed"
			return m, nil
		}
		m.screen = ScreenConfirmRemove
		m.confirmCursor = 1
		return m, m.checkHost

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Install):
		return m.handleInstall()

	default:
		return m, nil
	}

	m.updatePreview()
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m, m.removeBundle
	case key.Matches(msg, m.keys.Cancel):
		m.screen = ScreenSelect
		m.status = "Remove bundle cancelled"
	case msg.String() == "left" || msg.String() == "h":
		m.confirmCursor = 0
	case msg.String() == "right" || msg.String() == "l" || key.Matches(msg, m.keys.Tab):
		m.confirmCursor = 1
	case key.Matches(msg, m.keys.Enter):
		if m.confirmCursor == 0 {
			return m, m.removeBundle
		}
		m.screen = ScreenSelect
		m.status = "Remove bundle cancelled"
	}
	return m, nil
}

func (m *Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.results.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.results.MoveDown()
	case key.Matches(msg, m.keys.Details):
		m.results.ToggleDetails()
	case key.Matches(msg, m.keys.Escape):
		m.screen = ScreenSelect
	}
	return m, nil
}

// handleInstall compares the selection with the bundle and starts the
// batch: deselected apps leave the menu and only new ones are installed.
// sudo credentials are validated on the terminal first when a plan needs root.
func (m *Model) handleInstall() (tea.Model, tea.Cmd) {
	selection := m.appList.Selection
	if len(selection) == 0 {
		m.status = "No applications selected"
		if m.bundleSize > 0 {
			m.status += ", press X to remove the menu"
		}
		return m, nil
	}

	m.changes = m.env.reconciler.Changes(selection)
	m.batch = m.env.resolveSelection(models.NewSelection(m.changes.ToAdd...))
	ids := make([]string, 0, len(m.batch))
	for _, res := range m.batch {
		ids = append(ids, res.Entry.ID)
	}
	m.results = components.NewResultList(m.env.names(), ids)
	m.results.Width = m.width
	m.done = 0
	m.report = nil
	m.removed = nil
	m.reportErr = nil
	m.screen = ScreenInstalling
	m.status = "Preparing..."

	if m.env.needsPrivilege(m.batch) {
		if auth := m.env.privilege.AuthCommand(); auth != nil {
			m.status = "Waiting for authentication..."
			return m, tea.ExecProcess(auth, func(err error) tea.Msg {
				return authDoneMsg{err: err}
			})
		}
	}
	return m, m.startRunner()
}

// startRunner installs the batch in the background. Progress arrives
// through a channel one message at a time.
func (m *Model) startRunner() tea.Cmd {
	ch := make(chan tea.Msg, 1)
	m.progressCh = ch
	batch := m.batch
	changes := m.changes
	env := m.env
	ctx := m.ctx

	go func() {
		defer close(ch)
		update, err := env.applySelection(ctx, changes, batch, func(p installer.Progress) {
			ch <- installProgressMsg{progress: p}
		})
		ch <- installDoneMsg{update: update, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return <-ch
	}
}

func (m *Model) removeBundle() tea.Msg {
	report, err := m.env.reconciler.RemoveBundle(m.ctx)
	if report == nil {
		report = &desktop.RemovalReport{}
	}
	return removeDoneMsg{report: report, err: err}
}

func (m *Model) updatePanelSizes() {
	if m.appList == nil {
		return
	}
	contentHeight := max(m.height-6, 8)
	listWidth := max(m.width-4, 40)
	if m.showPreview {
		listWidth = max(m.width/2-2, 40)
		m.preview.SetSize(max(m.width-listWidth-6, 30), contentHeight)
	}
	m.appList.Width = listWidth
	m.appList.Height = contentHeight
	if m.results != nil {
		m.results.Width = m.width
	}
}

// updatePreview plans the desktop files for the row under the cursor
func (m *Model) updatePreview() {
	if !m.showPreview {
		return
	}
	row := m.appList.Current()
	if row == nil {
		m.preview.SetMessage("Preview", "", "  Nothing selected")
		return
	}
	if !row.Available {
		m.preview.SetMessage(row.Entry.Name, "",
			"  No install method is available on this system.",
			"  It needs one of: "+strings.Join(packageManagers(row.Entry), ", "))
		return
	}
	report := m.env.reconciler.PlanEntry(row.Entry, row.Plan.Method, row.Plan.Manager)
	title := fmt.Sprintf("%s via %s", row.Entry.Name, row.Plan.Manager)
	m.preview.SetReport(title, report)
}

func packageManagers(entry models.ApplicationEntry) []string {
	var out []string
	for _, name := range append(models.NativeManagers(), models.ManagerFlatpak, models.ManagerSnap) {
		if entry.HasPackages(name) {
			out = append(out, name)
		}
	}
	return out
}

func (m *Model) View() string {
	var body string
	switch m.screen {
	case ScreenWelcome:
		return m.renderWelcome()
	case ScreenConfirmRemove:
		return m.renderConfirm()
	case ScreenInstalling, ScreenSummary:
		body = m.renderProgress()
	default:
		body = m.renderSelect()
	}

	return ui.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
		m.renderHelpBar(),
	))
}

func (m *Model) renderHeader() string {
	title := ui.TitleStyle.Render("🎨 " + m.env.catalog.Suite.Name)
	ver := ui.VersionStyle.Render("v" + version)
	managers := ui.MutedStyle.Render("  " + strings.Join(m.env.managers.Names(), " · "))
	return ui.HeaderStyle.Render(title + "  " + ver + managers)
}

func (m *Model) renderWelcome() string {
	var b strings.Builder
	suite := m.env.catalog.Suite

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.Primary).
		Render("🎨 Welcome to " + suite.Name)

	b.WriteString(title)
	b.WriteString("\n\n")
	if suite.Comment != "" {
		b.WriteString(suite.Comment + "\n\n")
	}
	b.WriteString(fmt.Sprintf("%d open-source alternatives to Adobe applications are available.\n", m.env.catalog.Len()))
	b.WriteString("They are installed with your package manager, Flatpak or Snap and\n")
	b.WriteString("grouped under one menu category.\n\n")

	b.WriteString("Detected on this system:\n")
	b.WriteString(renderManagerLine("Package manager", m.env.managers.Native))
	b.WriteString(renderManagerLine("Flatpak (Flathub)", m.env.managers.Flatpak))
	b.WriteString(renderManagerLine("Snap", m.env.managers.Snap))
	if m.env.managers.Empty() {
		b.WriteString("\n" + ui.RenderNotification("error", "No supported package manager found, nothing can be installed") + "\n")
	}

	state := m.env.reconciler.State()
	b.WriteString("\n")
	if len(state.Apps) > 0 {
		b.WriteString(fmt.Sprintf("The menu currently holds %d applications.\n", len(state.Apps)))
		if integrity := m.env.reconciler.Integrity(); !integrity.Healthy() {
			b.WriteString(ui.RenderNotification("warning",
				fmt.Sprintf("%d menu files are missing, reinstalling repairs them", len(integrity.Missing))) + "\n")
		}
	} else {
		b.WriteString("The Creative Suite menu is not installed yet.\n")
	}

	if len(m.blockers) > 0 {
		b.WriteString("\n" + ui.RenderNotification("warning",
			strings.Join(m.blockers, ", ")+" is running, installs may fail until it finishes") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpBarStyle.Render("Press ENTER to continue • q to quit"))

	box := ui.DialogStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderManagerLine(label string, mgr *host.Manager) string {
	if mgr == nil {
		return fmt.Sprintf("  %s %-18s %s\n", ui.CheckboxDisabled, label, ui.MutedStyle.Render("not available"))
	}
	return fmt.Sprintf("  %s %-18s %s %s\n", ui.CheckboxChecked, label, mgr.Name, ui.MutedStyle.Render(mgr.VersionString()))
}

func (m *Model) renderSelect() string {
	if !m.showPreview {
		return m.appList.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.appList.View(), " ", m.preview.View())
}

func (m *Model) renderProgress() string {
	var b strings.Builder

	total := len(m.batch)
	percent := 0.0
	if total > 0 {
		percent = float64(m.done) / float64(total)
	}

	if m.screen == ScreenInstalling {
		b.WriteString(m.spinner.View() + " " + ui.TitleStyle.Render("Installing") + "\n")
	} else {
		b.WriteString(ui.TitleStyle.Render("Summary") + "\n")
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  %d/%d", m.done, total)))
	b.WriteString("\n\n")

	if m.results != nil {
		b.WriteString(m.results.View(m.screen == ScreenSummary))
		b.WriteString("\n")
	}

	if m.screen == ScreenSummary {
		b.WriteString(m.renderReport())
	}

	return ui.PanelStyle.Width(max(m.width-4, 40)).Render(b.String())
}

// renderReport summarises desktop integration after the batch
func (m *Model) renderReport() string {
	var b strings.Builder
	b.WriteString("\n" + ui.CategoryStyle.Render("Menu integration") + "\n")

	if m.reportErr != nil {
		b.WriteString(ui.FailedStyle.Render("  "+m.reportErr.Error()) + "\n")
	}

	names := m.env.names()
	st := m.env.reconciler.State()
	for _, id := range m.changes.ToRemove {
		if _, ok := st.Apps[id]; ok {
			b.WriteString(ui.FailedStyle.Render(fmt.Sprintf("  %-14s not removed", names[id])) + "\n")
			continue
		}
		b.WriteString(ui.SkippedStyle.Render(fmt.Sprintf("  %-14s removed", names[id])) + "\n")
	}
	if m.removed != nil && len(m.removed.Removed) > 0 {
		b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("  %d files deleted, the applications stay installed", len(m.removed.Removed))) + "\n")
	}
	if m.report == nil || len(m.report.Apps) == 0 {
		if len(m.changes.ToRemove) == 0 {
			b.WriteString(ui.MutedStyle.Render("  Nothing added to the menu") + "\n")
		}
		return b.String()
	}

	for _, app := range m.report.Apps {
		line := fmt.Sprintf("  %-14s %s", names[app.EntryID], app.Action())
		if app.Err != nil {
			b.WriteString(ui.FailedStyle.Render(line+"  "+app.Err.Error()) + "\n")
			continue
		}
		b.WriteString(ui.ItemStyle.Render(line) + "\n")
	}
	return b.String()
}

func (m *Model) renderConfirm() string {
	var b strings.Builder

	b.WriteString(ui.FailedStyle.Render("Remove the Creative Suite menu?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("This deletes the menu entries, icons and category of %d applications.\n", m.bundleSize))
	b.WriteString("The applications themselves stay installed.\n")

	if len(m.running) > 0 {
		b.WriteString("\n" + ui.RenderNotification("warning",
			"Running: "+strings.Join(m.running, ", ")) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.RenderButton("Remove", m.confirmCursor == 0))
	b.WriteString("  ")
	b.WriteString(ui.RenderButton("Cancel", m.confirmCursor == 1))
	b.WriteString("\n\n")
	b.WriteString(ui.HelpBarStyle.Render("y remove • n/esc cancel • ←/→ choose"))

	box := ui.DialogStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderStatusBar() string {
	var stats []string
	if m.appList != nil {
		stats = append(stats, fmt.Sprintf("Selected: %d/%d", len(m.appList.SelectedRows()), len(m.appList.Rows)))
	}
	if m.bundleSize > 0 {
		stats = append(stats, fmt.Sprintf("In menu: %d", m.bundleSize))
		if m.screen == ScreenSelect {
			changes := m.env.reconciler.Changes(m.appList.Selection)
			stats = append(stats, fmt.Sprintf("Changes: +%d -%d", len(changes.ToAdd), len(changes.ToRemove)))
		}
	}

	styledStatus := m.status
	switch {
	case strings.HasPrefix(m.status, "✓"):
		styledStatus = ui.RenderNotification("success", strings.TrimPrefix(m.status, "✓ "))
	case strings.HasPrefix(m.status, "Error"):
		styledStatus = ui.RenderNotification("error", m.status)
	case strings.Contains(m.status, "failed") || strings.Contains(m.status, "cancelled"):
		styledStatus = ui.RenderNotification("warning", m.status)
	}

	return ui.HelpBarStyle.Render(styledStatus + "  •  " + strings.Join(stats, "  •  "))
}

func (m *Model) renderHelpBar() string {
	var items []string
	switch m.screen {
	case ScreenInstalling:
		return ui.HelpBarStyle.Render("⏳ Installing, please wait...")
	case ScreenSummary:
		items = []string{
			ui.RenderHelpItem("↑/↓", "move"),
			ui.RenderHelpItem("enter", "show output"),
			ui.RenderHelpItem("esc", "back"),
			ui.RenderHelpItem("q", "quit"),
		}
	default:
		if m.help.ShowAll {
			return m.help.View(m.keys)
		}
		items = []string{
			ui.RenderHelpItem("space", "toggle"),
			ui.RenderHelpItem("a/n", "all/none"),
			ui.RenderHelpItem("v", "preview"),
			ui.RenderHelpItem("enter", "install"),
			ui.RenderHelpItem("X", "remove bundle"),
			ui.RenderHelpItem("?", "help"),
			ui.RenderHelpItem("q", "quit"),
		}
	}
	return ui.HelpBarStyle.Render(strings.Join(items, "  "))
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errBatchFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
