// Package desktop integrates installed applications into the desktop menu
// under the bundle's own category and removes that integration again.
package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"creativesuite/internal/catalog"
	"creativesuite/internal/config"
	"creativesuite/internal/host"
	"creativesuite/internal/models"

	"github.com/rs/zerolog"
)

// ErrWriteFailed marks an integration file that could not be written.
// Installs are never rolled back because of it.
var ErrWriteFailed = errors.New("desktop integration write failed")

// Action is what reconciling does to one file
type Action int

const (
	ActionUnchanged Action = iota
	ActionCreate
	ActionUpdate
)

// String returns a string representation of the action
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "Created"
	case ActionUpdate:
		return "Updated"
	default:
		return "Unchanged"
	}
}

// FileKind names the role of an integration file
type FileKind string

const (
	KindEntry     FileKind = "entry"
	KindIcon      FileKind = "icon"
	KindOverride  FileKind = "override"
	KindDirectory FileKind = "directory"
	KindMenu      FileKind = "menu"
	KindSuiteIcon FileKind = "suite-icon"
)

// FileChange is one file the reconciler wants on disk
type FileChange struct {
	Path    string
	Kind    FileKind
	Action  Action
	Content []byte
	Diff    *DiffResult // nil for binary content
	Err     error
}

// AppReport collects the files of one application
type AppReport struct {
	EntryID string
	Method  models.Method
	Files   []FileChange
	Err     error
}

// Action summarises the report by its desktop entry
func (r AppReport) Action() Action {
	for _, f := range r.Files {
		if f.Kind == KindEntry {
			return f.Action
		}
	}
	return ActionUnchanged
}

// Report is the result of Plan or Apply
type Report struct {
	Shared []FileChange
	Apps   []AppReport
}

// Errors returns every write error in the report
func (r *Report) Errors() []error {
	var errs []error
	for _, f := range r.Shared {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	for _, a := range r.Apps {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// Changed reports whether any file was (or would be) written
func (r *Report) Changed() bool {
	for _, f := range r.Shared {
		if f.Action != ActionUnchanged {
			return true
		}
	}
	for _, a := range r.Apps {
		for _, f := range a.Files {
			if f.Action != ActionUnchanged {
				return true
			}
		}
	}
	return false
}

// Options tune the reconciler
type Options struct {
	SystemAppDirs     []string // Checked for desktop files to hide
	HideSystemEntries bool
}

// Reconciler owns every file the bundle puts on disk
type Reconciler struct {
	paths   config.Paths
	catalog *catalog.Catalog
	state   *StateManager
	exec    host.Executor // for cache refresh tools, may be nil
	opts    Options
	log     zerolog.Logger
}

// NewReconciler creates a reconciler rooted at paths. The bundle state is
// loaded from paths.StatePath().
func NewReconciler(paths config.Paths, cat *catalog.Catalog, exec host.Executor, opts Options, log zerolog.Logger) (*Reconciler, error) {
	state := NewStateManager(paths.StatePath())
	if err := state.Load(); err != nil {
		return nil, err
	}
	return &Reconciler{
		paths:   paths,
		catalog: cat,
		state:   state,
		exec:    exec,
		opts:    opts,
		log:     log,
	}, nil
}

// State returns the current bundle state
func (r *Reconciler) State() *BundleState {
	return r.state.State()
}

// Plan computes what Apply would do for results without writing anything
func (r *Reconciler) Plan(results []models.InstallResult) *Report {
	return r.plan(results)
}

// Apply writes desktop integration for every successful result and records
// it in the bundle state. Failed and skipped results are ignored, so the
// state never claims an application whose install failed.
func (r *Reconciler) Apply(ctx context.Context, results []models.InstallResult) (*Report, error) {
	report := r.plan(results)
	if len(report.Apps) == 0 && len(report.Shared) == 0 {
		return report, nil
	}

	for i := range report.Shared {
		r.write(&report.Shared[i])
	}
	st := r.state.State()
	for _, f := range report.Shared {
		if f.Err != nil {
			continue
		}
		switch f.Kind {
		case KindDirectory:
			st.DirectoryFile = f.Path
		case KindMenu:
			st.MenuFile = f.Path
		case KindSuiteIcon:
			st.SuiteIcon = f.Path
		}
	}

	for i := range report.Apps {
		app := &report.Apps[i]
		var errs []error
		appState := AppState{Method: app.Method}
		for j := range app.Files {
			f := &app.Files[j]
			r.write(f)
			if f.Err != nil {
				errs = append(errs, f.Err)
				continue
			}
			switch f.Kind {
			case KindEntry:
				appState.DesktopFile = f.Path
			case KindIcon:
				appState.IconFile = f.Path
			case KindOverride:
				appState.Overrides = append(appState.Overrides, f.Path)
			}
		}
		if len(errs) > 0 {
			app.Err = errors.Join(errs...)
		}
		if appState.DesktopFile == "" {
			// Without its entry the app is not part of the bundle
			r.discardUnrecorded(app.EntryID, appState)
			continue
		}
		for _, res := range results {
			if res.EntryID == app.EntryID {
				appState.Manager = res.Manager
			}
		}
		if prev, ok := r.state.GetApp(app.EntryID); ok {
			r.removeStaleOverrides(prev.Overrides, appState.Overrides)
		}
		r.state.SetApp(app.EntryID, appState)
	}

	if err := r.state.Save(); err != nil {
		return report, fmt.Errorf("%w: %s: %v", ErrWriteFailed, r.state.Path(), err)
	}

	if report.Changed() {
		r.refreshCaches(ctx)
	}
	return report, nil
}

// discardUnrecorded deletes files written for an app whose entry failed,
// unless the state already records them from an earlier run
func (r *Reconciler) discardUnrecorded(id string, written AppState) {
	prev, _ := r.state.GetApp(id)
	recorded := prev.Files()
	for _, path := range written.Files() {
		if path == "" || contains(recorded, path) {
			continue
		}
		if _, err := r.removeFile(path, contains(written.Overrides, path)); err != nil {
			r.log.Warn().Err(err).Str("file", path).Msg("unrecorded file not removed")
		}
	}
}

func (r *Reconciler) plan(results []models.InstallResult) *Report {
	report := &Report{}

	var successes []models.InstallResult
	for _, res := range results {
		if res.Status == models.StatusSuccess {
			successes = append(successes, res)
		}
	}
	if len(successes) == 0 {
		return report
	}

	suite := r.catalog.Suite
	suiteIconPath := ""
	if data, ext, err := r.catalog.SuiteIcon(); err == nil {
		suiteIconPath = filepath.Join(r.paths.Icons(), "creative-suite"+ext)
		report.Shared = append(report.Shared, r.change(suiteIconPath, KindSuiteIcon, data, false))
	} else {
		r.log.Debug().Err(err).Msg("no suite icon")
	}
	report.Shared = append(report.Shared,
		r.change(filepath.Join(r.paths.DesktopDirectories(), DirectoryFileName(suite.Category)), KindDirectory, RenderDirectory(suite, suiteIconPath), true),
		r.change(filepath.Join(r.paths.MergedMenus(), menuFileName), KindMenu, RenderMenu(suite), true),
	)

	for _, res := range successes {
		entry, err := r.catalog.Get(res.EntryID)
		if err != nil {
			report.Apps = append(report.Apps, AppReport{EntryID: res.EntryID, Method: res.Method, Err: err})
			continue
		}
		report.Apps = append(report.Apps, r.planApp(entry, res.Method, res.Manager))
	}
	return report
}

// PlanEntry computes the files for a single entry and method. It is used
// for previews before anything is installed.
func (r *Reconciler) PlanEntry(entry models.ApplicationEntry, method models.Method, manager string) AppReport {
	return r.planApp(entry, method, manager)
}

func (r *Reconciler) planApp(entry models.ApplicationEntry, method models.Method, manager string) AppReport {
	app := AppReport{EntryID: entry.ID, Method: method}

	iconPath := ""
	if data, ext, err := r.catalog.Icon(entry); err == nil {
		iconPath = filepath.Join(r.paths.Icons(), IconFileName(entry.ID, ext))
		app.Files = append(app.Files, r.change(iconPath, KindIcon, data, false))
	} else {
		r.log.Warn().Str("app", entry.ID).Err(err).Msg("icon unavailable")
	}

	entryPath := filepath.Join(r.paths.Applications(), EntryFileName(entry.ID))
	content := RenderEntry(entry, r.catalog.Suite, method, manager, iconPath)
	app.Files = append(app.Files, r.change(entryPath, KindEntry, content, true))

	for _, path := range r.overrideTargets(entry) {
		app.Files = append(app.Files, r.change(path, KindOverride, RenderOverride(filepath.Base(path)), true))
	}
	return app
}

// overrideTargets returns user paths where a hiding override should go:
// the system has the desktop file and the user has no copy of their own.
func (r *Reconciler) overrideTargets(entry models.ApplicationEntry) []string {
	if !r.opts.HideSystemEntries {
		return nil
	}

	var targets []string
	for _, id := range entry.DesktopIDs {
		if !strings.HasSuffix(id, ".desktop") || strings.ContainsRune(id, filepath.Separator) {
			continue
		}
		if !r.existsInSystem(id) {
			continue
		}
		userPath := filepath.Join(r.paths.Applications(), id)
		if existing, err := os.ReadFile(userPath); err == nil && !IsOverride(existing) {
			r.log.Debug().Str("file", userPath).Msg("user copy exists, not hiding")
			continue
		}
		targets = append(targets, userPath)
	}
	return targets
}

func (r *Reconciler) existsInSystem(desktopID string) bool {
	for _, dir := range r.opts.SystemAppDirs {
		if _, err := os.Stat(filepath.Join(dir, desktopID)); err == nil {
			return true
		}
	}
	return false
}

func (r *Reconciler) change(path string, kind FileKind, content []byte, text bool) FileChange {
	fc := FileChange{Path: path, Kind: kind, Content: content}

	existing, err := os.ReadFile(path)
	exists := err == nil
	switch {
	case !exists:
		fc.Action = ActionCreate
	case bytes.Equal(existing, content):
		fc.Action = ActionUnchanged
	default:
		fc.Action = ActionUpdate
	}
	if text {
		fc.Diff = ComputeDiff(string(existing), string(content), exists)
	}
	return fc
}

func (r *Reconciler) write(f *FileChange) {
	if f.Action == ActionUnchanged {
		return
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		f.Err = fmt.Errorf("%w: %s: %v", ErrWriteFailed, f.Path, err)
		return
	}
	if err := writeFileAtomic(f.Path, f.Content); err != nil {
		f.Err = fmt.Errorf("%w: %s: %v", ErrWriteFailed, f.Path, err)
		r.log.Error().Err(err).Str("file", f.Path).Msg("write failed")
		return
	}
	r.log.Debug().Str("file", f.Path).Str("action", f.Action.String()).Msg("written")
}

// SelectionChanges compares a new selection against the bundle
type SelectionChanges struct {
	ToAdd    []string
	ToRemove []string
	NoChange []string
}

// Changes returns what a new selection would add to and remove from the bundle
func (r *Reconciler) Changes(selection models.SelectionSet) SelectionChanges {
	var out SelectionChanges
	st := r.state.State()

	for _, id := range selection.IDs() {
		if _, ok := st.Apps[id]; ok {
			out.NoChange = append(out.NoChange, id)
		} else {
			out.ToAdd = append(out.ToAdd, id)
		}
	}
	for _, id := range st.IDs() {
		if !selection.Has(id) {
			out.ToRemove = append(out.ToRemove, id)
		}
	}
	return out
}

// IntegrityReport lists drift between the bundle state and the disk
type IntegrityReport struct {
	Missing  []string // Recorded in state but gone from disk
	Orphaned []string // Bundle-named files on disk not recorded in state
}

// Healthy reports whether state and disk agree
func (i IntegrityReport) Healthy() bool {
	return len(i.Missing) == 0 && len(i.Orphaned) == 0
}

// Integrity checks the bundle state against the disk
func (r *Reconciler) Integrity() IntegrityReport {
	var report IntegrityReport
	st := r.state.State()
	recorded := make(map[string]bool)

	var all []string
	for _, id := range st.IDs() {
		all = append(all, st.Apps[id].Files()...)
	}
	for _, p := range []string{st.DirectoryFile, st.MenuFile, st.SuiteIcon} {
		if p != "" {
			all = append(all, p)
		}
	}
	for _, p := range all {
		recorded[p] = true
		if _, err := os.Stat(p); err != nil {
			report.Missing = append(report.Missing, p)
		}
	}

	for _, dir := range []string{r.paths.Applications(), r.paths.Icons()} {
		matches, _ := filepath.Glob(filepath.Join(dir, filePrefix+"*"))
		for _, m := range matches {
			if !recorded[m] {
				report.Orphaned = append(report.Orphaned, m)
			}
		}
	}

	sort.Strings(report.Missing)
	sort.Strings(report.Orphaned)
	return report
}
