package desktop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// refreshTimeout bounds each cache refresh tool
const refreshTimeout = 10 * time.Second

// RemovalReport lists what a removal did
type RemovalReport struct {
	Removed     []string // Files deleted
	NotInBundle []string // Requested ids the bundle did not contain
}

// RemoveApps takes applications out of the bundle: their entry, icon and
// overrides go, the directory file stays. Applications stay installed.
func (r *Reconciler) RemoveApps(ctx context.Context, ids []string) (*RemovalReport, error) {
	report := &RemovalReport{}
	var errs []error

	for _, id := range ids {
		app, ok := r.state.GetApp(id)
		if !ok {
			report.NotInBundle = append(report.NotInBundle, id)
			continue
		}

		var appErrs []error
		for _, path := range app.Files() {
			removed, err := r.removeFile(path, contains(app.Overrides, path))
			if err != nil {
				appErrs = append(appErrs, err)
				continue
			}
			if removed {
				report.Removed = append(report.Removed, path)
			}
		}
		if len(appErrs) > 0 {
			errs = append(errs, appErrs...)
			continue
		}
		r.state.RemoveApp(id)
		r.log.Info().Str("app", id).Msg("removed from bundle")
	}

	if err := r.state.Save(); err != nil {
		errs = append(errs, err)
	}
	if len(report.Removed) > 0 {
		r.refreshCaches(ctx)
	}
	return report, errors.Join(errs...)
}

// RemoveBundle deletes every file the bundle state records and then the
// state file itself. It never invokes a package manager.
func (r *Reconciler) RemoveBundle(ctx context.Context) (*RemovalReport, error) {
	report := &RemovalReport{}
	st := r.state.State()
	var errs []error

	for _, id := range st.IDs() {
		app := st.Apps[id]
		for _, path := range app.Files() {
			removed, err := r.removeFile(path, contains(app.Overrides, path))
			if err != nil {
				errs = append(errs, err)
			} else if removed {
				report.Removed = append(report.Removed, path)
			}
		}
	}
	for _, path := range []string{st.DirectoryFile, st.MenuFile, st.SuiteIcon} {
		if path == "" {
			continue
		}
		removed, err := r.removeFile(path, false)
		if err != nil {
			errs = append(errs, err)
		} else if removed {
			report.Removed = append(report.Removed, path)
		}
	}

	if len(errs) > 0 {
		// Keep the state so a retry still knows what to delete
		return report, errors.Join(errs...)
	}

	if err := r.state.Delete(); err != nil {
		return report, err
	}
	r.log.Info().Int("files", len(report.Removed)).Msg("bundle removed")

	if len(report.Removed) > 0 {
		r.refreshCaches(ctx)
	}
	return report, nil
}

// removeFile deletes path if it lies inside the directories this tool
// writes to. Overrides are only deleted while they still carry our marker.
func (r *Reconciler) removeFile(path string, override bool) (bool, error) {
	if !r.owns(path) {
		r.log.Warn().Str("file", path).Msg("refusing to delete file outside bundle directories")
		return false, nil
	}
	if override {
		data, err := os.ReadFile(path)
		if err != nil || !IsOverride(data) {
			return false, nil
		}
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	return true, nil
}

func (r *Reconciler) removeStaleOverrides(previous, current []string) {
	for _, path := range previous {
		if contains(current, path) {
			continue
		}
		if _, err := r.removeFile(path, true); err != nil {
			r.log.Warn().Err(err).Str("file", path).Msg("stale override not removed")
		}
	}
}

func (r *Reconciler) owns(path string) bool {
	clean := filepath.Clean(path)
	for _, dir := range []string{r.paths.Applications(), r.paths.Icons(), r.paths.DesktopDirectories(), r.paths.MergedMenus()} {
		if filepath.Dir(clean) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// refreshCaches runs the desktop database and icon cache tools, best effort
func (r *Reconciler) refreshCaches(ctx context.Context) {
	if r.exec == nil {
		return
	}
	tools := [][]string{
		{"update-desktop-database", r.paths.Applications()},
		{"gtk-update-icon-cache", "-f", "-t", r.paths.Icons()},
	}
	for _, tool := range tools {
		if _, err := r.exec.LookPath(tool[0]); err != nil {
			continue
		}
		tctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		res, err := r.exec.Run(tctx, tool[0], tool[1:]...)
		cancel()
		if err != nil || res.ExitCode != 0 {
			r.log.Debug().Err(err).Int("exit", res.ExitCode).Str("tool", tool[0]).Msg("cache refresh failed")
		}
	}
}

// RunningBundleApps returns bundled application ids with a running process
// whose name matches the entry's executable. Used to warn before removal.
func (r *Reconciler) RunningBundleApps(ctx context.Context) []string {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil
	}
	running := make(map[string]bool)
	for _, p := range procs {
		if name, err := p.NameWithContext(ctx); err == nil {
			running[strings.ToLower(name)] = true
		}
	}

	var out []string
	for _, id := range r.state.State().IDs() {
		entry, err := r.catalog.Get(id)
		if err != nil {
			continue
		}
		fields := strings.Fields(entry.Exec)
		if len(fields) > 0 && running[strings.ToLower(filepath.Base(fields[0]))] {
			out = append(out, id)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
