package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creativesuite/internal/catalog"
	"creativesuite/internal/config"
	"creativesuite/internal/desktop"
	"creativesuite/internal/host"
	"creativesuite/internal/host/hosttest"
	"creativesuite/internal/logging"
	"creativesuite/internal/models"
	"creativesuite/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, fake *hosttest.Executor) *environment {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))

	cfg := config.Default()
	cfg.SkipInstalled = false
	cfg.HideSystemEntries = false
	paths := config.XDG()
	require.NoError(t, cfg.EnsureDirectories(paths))

	cat, err := catalog.Builtin()
	require.NoError(t, err)

	log := logging.NewTestLogger(io.Discard)
	managers := host.NewProber(fake, log).Probe(context.Background())

	rec, err := desktop.NewReconciler(paths, cat, fake, desktop.Options{}, log)
	require.NoError(t, err)

	return &environment{
		cfg:        cfg,
		paths:      paths,
		log:        log,
		catalog:    cat,
		exec:       fake,
		managers:   managers,
		reconciler: rec,
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds its messages back into the model until the
// chain ends, like the bubbletea runtime would
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 100; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func TestWizard_InstallFlow(t *testing.T) {
	fake := hosttest.New("apt-get", "dpkg")
	fake.On("apt-get install -y inkscape", 100, "E: Unable to locate package inkscape\n")
	env := newTestEnv(t, fake)

	m := New(context.Background(), env)
	assert.Equal(t, ScreenWelcome, m.screen)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ScreenSelect, m.screen)
	assert.FileExists(t, config.ConfigPath(), "first run should save the config")

	// Pick GIMP and Inkscape, the first two rows
	m.Update(keyRunes("n"))
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(keyRunes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.ElementsMatch(t, []string{"gimp", "inkscape"}, m.appList.Selection.IDs())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ScreenInstalling, m.screen)
	require.NotNil(t, cmd)
	drain(t, m, cmd)

	require.Equal(t, ScreenSummary, m.screen)
	require.Len(t, m.results.Results, 2)
	assert.Equal(t, models.StatusSuccess, m.results.Results[0].Status)
	assert.Equal(t, models.StatusFailed, m.results.Results[1].Status)
	assert.Contains(t, m.status, "1 installed, 1 failed")

	assert.Contains(t, fake.Calls(), "apt-get install -y gimp")
	assert.Contains(t, fake.Calls(), "apt-get install -y inkscape")

	state := env.reconciler.State()
	assert.Contains(t, state.Apps, "gimp")
	assert.NotContains(t, state.Apps, "inkscape", "failed installs never enter the bundle")
	assert.Equal(t, 1, m.bundleSize)

	// Failed row expands to its output
	m.Update(keyRunes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.results.Expanded["inkscape"])
}

func TestWizard_IgnoresKeysWhileInstalling(t *testing.T) {
	env := newTestEnv(t, hosttest.New("apt-get", "dpkg"))
	m := New(context.Background(), env)
	m.screen = ScreenInstalling

	_, cmd := m.Update(keyRunes("q"))
	assert.Nil(t, cmd)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.Equal(t, ScreenInstalling, m.screen)
}

func TestWizard_UnavailableRowsCannotBeSelected(t *testing.T) {
	env := newTestEnv(t, hosttest.New())
	m := New(context.Background(), env)
	m.screen = ScreenSelect

	assert.Empty(t, m.appList.Selection, "nothing is installable without managers")

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Empty(t, m.appList.Selection)
	assert.Contains(t, m.status, "can't be installed")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenSelect, m.screen)
	assert.Equal(t, "No applications selected", m.status)
}

func TestWizard_SkippedWithoutSubprocess(t *testing.T) {
	// natron only ships on Flathub
	fake := hosttest.New("apt-get", "dpkg")
	env := newTestEnv(t, fake)
	m := New(context.Background(), env)
	m.screen = ScreenSelect
	m.appList.Selection = models.NewSelection()
	m.appList.Selection["natron"] = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)

	require.Len(t, m.results.Results, 1)
	assert.Equal(t, models.StatusSkipped, m.results.Results[0].Status)
	for _, call := range fake.Calls() {
		assert.NotContains(t, call, "install")
	}
}

func TestWizard_RemoveBundle(t *testing.T) {
	env := newTestEnv(t, hosttest.New("apt-get", "dpkg"))
	m := New(context.Background(), env)
	m.screen = ScreenSelect

	m.Update(keyRunes("X"))
	assert.Equal(t, ScreenSelect, m.screen, "nothing to remove yet")

	m.appList.Selection = models.NewSelection("gimp")
	_, cmd := m.Update(keyRunes("i"))
	drain(t, m, cmd)
	require.Contains(t, env.reconciler.State().Apps, "gimp")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ScreenSelect, m.screen)

	m.Update(keyRunes("X"))
	require.Equal(t, ScreenConfirmRemove, m.screen)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenSelect, m.screen)

	m.Update(keyRunes("X"))
	_, cmd = m.Update(keyRunes("y"))
	drain(t, m, cmd)

	assert.Equal(t, ScreenSelect, m.screen)
	assert.True(t, env.reconciler.State().Empty())
	assert.Equal(t, 0, m.bundleSize)
	assert.NoFileExists(t, filepath.Join(env.paths.Applications(), desktop.EntryFileName("gimp")))
}

func TestWizard_PreviewFollowsCursor(t *testing.T) {
	env := newTestEnv(t, hosttest.New("apt-get", "dpkg"))
	m := New(context.Background(), env)
	m.screen = ScreenSelect

	m.Update(keyRunes("v"))
	require.True(t, m.showPreview)
	assert.Equal(t, "GIMP via apt", m.preview.Title)

	m.Update(keyRunes("j"))
	assert.Equal(t, "Inkscape via apt", m.preview.Title)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showPreview)
	assert.Equal(t, ScreenSelect, m.screen)
}

func TestWizard_ViewsRender(t *testing.T) {
	env := newTestEnv(t, hosttest.New("apt-get", "dpkg"))
	m := New(context.Background(), env)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	for _, screen := range []Screen{ScreenWelcome, ScreenSelect, ScreenConfirmRemove} {
		m.screen = screen
		assert.NotEmpty(t, m.View())
	}
}

func TestWizard_DeselectRemovesFromBundle(t *testing.T) {
	fake := hosttest.New("apt-get", "dpkg")
	env := newTestEnv(t, fake)
	m := New(context.Background(), env)
	m.screen = ScreenSelect

	m.appList.SetSelection(models.NewSelection("gimp", "inkscape"))
	_, cmd := m.Update(keyRunes("i"))
	drain(t, m, cmd)
	require.Equal(t, []string{"gimp", "inkscape"}, env.reconciler.State().IDs())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ScreenSelect, m.screen)
	require.ElementsMatch(t, []string{"gimp", "inkscape"}, m.appList.Selection.IDs(), "the bundle stays selected")

	m.appList.SetSelection(models.NewSelection("gimp"))
	assert.Contains(t, ui.StripANSI(m.renderStatusBar()), "Changes: +0 -1")

	before := len(fake.Calls())
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)

	require.Equal(t, ScreenSummary, m.screen)
	assert.Equal(t, []string{"gimp"}, env.reconciler.State().IDs())
	assert.Equal(t, 1, m.bundleSize)
	assert.Contains(t, m.status, "1 removed from the menu")
	for _, call := range fake.Calls()[before:] {
		assert.NotContains(t, call, "apt-get", "bundled apps are not installed again")
	}
	assert.NoFileExists(t, filepath.Join(env.paths.Applications(), desktop.EntryFileName("inkscape")))
	assert.FileExists(t, filepath.Join(env.paths.Applications(), desktop.EntryFileName("gimp")))
	assert.Regexp(t, `Inkscape\s+removed`, ui.StripANSI(m.renderReport()))
}

func TestWizard_KeptAppsAreRepaired(t *testing.T) {
	fake := hosttest.New("apt-get", "dpkg")
	env := newTestEnv(t, fake)
	m := New(context.Background(), env)
	m.screen = ScreenSelect

	m.appList.SetSelection(models.NewSelection("gimp", "inkscape"))
	_, cmd := m.Update(keyRunes("i"))
	drain(t, m, cmd)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	entry := filepath.Join(env.paths.Applications(), desktop.EntryFileName("gimp"))
	require.NoError(t, os.Remove(entry))

	m.appList.SetSelection(models.NewSelection("gimp", "inkscape", "krita"))
	before := len(fake.Calls())
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)

	assert.FileExists(t, entry, "missing entry of a kept app is rewritten")
	assert.Equal(t, []string{"gimp", "inkscape", "krita"}, env.reconciler.State().IDs())
	var installs []string
	for _, call := range fake.Calls()[before:] {
		if strings.HasPrefix(call, "apt-get install") {
			installs = append(installs, call)
		}
	}
	assert.Equal(t, []string{"apt-get install -y krita"}, installs)
	require.Len(t, m.results.Results, 1)
}

func TestWizard_ReportErrorsLoggedOnce(t *testing.T) {
	env := newTestEnv(t, hosttest.New("apt-get", "dpkg"))
	var buf bytes.Buffer
	env.log = logging.NewTestLogger(&buf)
	m := New(context.Background(), env)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m.Update(installDoneMsg{update: bundleUpdate{
		report: &desktop.Report{Apps: []desktop.AppReport{{EntryID: "gimp", Err: errors.New("disk full")}}},
	}})
	require.Equal(t, ScreenSummary, m.screen)

	for i := 0; i < 3; i++ {
		assert.Contains(t, ui.StripANSI(m.View()), "disk full")
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "disk full"))
}

func TestWizard_MarksInstalledApps(t *testing.T) {
	fake := hosttest.New("apt-get", "dpkg")
	fake.Default = host.CommandResult{ExitCode: 1}
	fake.On("dpkg -s gimp", 0, "Status: install ok installed")
	env := newTestEnv(t, fake)
	m := New(context.Background(), env)

	m.Update(m.checkInstalled()())

	installed := make(map[string]bool)
	for _, row := range m.appList.Rows {
		installed[row.Entry.ID] = row.Installed
	}
	assert.True(t, installed["gimp"])
	assert.False(t, installed["inkscape"])
	assert.Contains(t, fake.Calls(), "dpkg -s inkscape")

	// The marker survives a list rebuild
	m.rebuildList(m.appList.Selection)
	assert.True(t, m.appList.Rows[0].Installed)
}
