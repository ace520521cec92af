package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"creativesuite/internal/catalog"
	"creativesuite/internal/config"
	"creativesuite/internal/desktop"
	"creativesuite/internal/host"
	"creativesuite/internal/installer"
	"creativesuite/internal/logging"
	"creativesuite/internal/models"
	"creativesuite/internal/resolver"

	"github.com/rs/zerolog"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	debug      bool
	logFile    string
	dryRun     bool
}

// environment is everything probed and loaded once at startup
type environment struct {
	cfg        *config.Config
	paths      config.Paths
	log        zerolog.Logger
	catalog    *catalog.Catalog
	exec       host.Executor
	managers   host.Managers
	privilege  host.Privilege
	reconciler *desktop.Reconciler
	dryRun     bool
}

// newEnvironment loads config and catalog, opens the log and probes the
// host. console enables human-readable log output on stderr.
func newEnvironment(ctx context.Context, opts globalOptions, console bool) (*environment, error) {
	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	paths := config.XDG()

	level := cfg.LogLevel
	if opts.debug {
		level = "debug"
	}
	logFile := opts.logFile
	if logFile == "" {
		logFile = paths.LogPath()
	}
	log := logging.NewLogger(logging.Config{
		Level:   level,
		LogFile: logFile,
		Console: console,
	})

	if !opts.dryRun {
		if err := cfg.EnsureDirectories(paths); err != nil {
			return nil, fmt.Errorf("create directories: %w", err)
		}
	}

	cat, err := catalog.Load(cfg.AppsConfig)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	exec := host.SystemExecutor{}
	managers := host.NewProber(exec, log).Probe(ctx)
	if managers.Empty() {
		log.Warn().Msg("no supported package manager found")
	}

	rec, err := desktop.NewReconciler(paths, cat, exec, desktop.Options{
		SystemAppDirs:     cfg.SystemAppDirs,
		HideSystemEntries: cfg.HideSystemEntries,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("load bundle state: %w", err)
	}

	log.Debug().
		Strs("managers", managers.Names()).
		Str("distro", managers.Distro).
		Int("apps", cat.Len()).
		Msg("environment ready")

	return &environment{
		cfg:        cfg,
		paths:      paths,
		log:        log,
		catalog:    cat,
		exec:       exec,
		managers:   managers,
		privilege:  host.NewPrivilege(cfg.PrivilegeCommand),
		reconciler: rec,
		dryRun:     opts.dryRun,
	}, nil
}

// resolve maps ids (or every catalog entry when empty) to install plans
func (e *environment) resolve(ids []string) ([]resolver.Resolution, error) {
	entries := e.catalog.Entries()
	if len(ids) > 0 {
		var err error
		entries, err = e.catalog.Select(ids)
		if err != nil {
			return nil, err
		}
	}
	return resolver.ResolveAll(entries, e.managers), nil
}

// resolveSelection resolves a selection in catalog order
func (e *environment) resolveSelection(selection models.SelectionSet) []resolver.Resolution {
	return resolver.ResolveAll(selection.Ordered(e.catalog.Entries()), e.managers)
}

func (e *environment) runner() *installer.Runner {
	return installer.NewRunner(e.exec, e.managers, e.privilege, installer.Options{
		SkipInstalled: e.cfg.SkipInstalled,
	}, e.log)
}

// install runs a batch and integrates the successes into the menu
func (e *environment) install(ctx context.Context, batch []resolver.Resolution, progress installer.ProgressFunc) ([]models.InstallResult, *desktop.Report, error) {
	results := e.runner().Run(ctx, batch, progress)
	report, err := e.reconciler.Apply(ctx, results)
	return results, report, err
}

// bundleUpdate is the outcome of bringing the bundle in line with a selection
type bundleUpdate struct {
	results []models.InstallResult
	report  *desktop.Report
	removed *desktop.RemovalReport
}

// applySelection takes deselected apps out of the menu, installs batch and
// integrates it. Apps the selection keeps get their desktop files refreshed
// from the recorded method without running a package manager.
func (e *environment) applySelection(ctx context.Context, changes desktop.SelectionChanges, batch []resolver.Resolution, progress installer.ProgressFunc) (bundleUpdate, error) {
	var out bundleUpdate
	var errs []error

	if len(changes.ToRemove) > 0 {
		removed, err := e.reconciler.RemoveApps(ctx, changes.ToRemove)
		out.removed = removed
		if err != nil {
			errs = append(errs, fmt.Errorf("remove from menu: %w", err))
		}
	}

	out.results = e.runner().Run(ctx, batch, progress)
	integrate := append(slices.Clone(out.results), e.bundled(changes.NoChange)...)
	report, err := e.reconciler.Apply(ctx, integrate)
	out.report = report
	if err != nil {
		errs = append(errs, err)
	}
	return out, errors.Join(errs...)
}

// bundled turns recorded apps back into successful results
func (e *environment) bundled(ids []string) []models.InstallResult {
	st := e.reconciler.State()
	var out []models.InstallResult
	for _, id := range ids {
		app, ok := st.Apps[id]
		if !ok {
			continue
		}
		out = append(out, models.InstallResult{
			EntryID: id,
			Method:  app.Method,
			Manager: app.Manager,
			Status:  models.StatusSuccess,
			Message: "Already in the menu",
		})
	}
	return out
}

// needsPrivilege reports whether any plan in batch runs through the wrapper
func (e *environment) needsPrivilege(batch []resolver.Resolution) bool {
	if !e.privilege.Needed() {
		return false
	}
	for _, res := range batch {
		if res.Resolvable() && res.Plan.Manager != models.ManagerFlatpak {
			return true
		}
	}
	return false
}

// names maps entry ids to display names
func (e *environment) names() map[string]string {
	out := make(map[string]string, e.catalog.Len())
	for _, entry := range e.catalog.Entries() {
		out[entry.ID] = entry.Name
	}
	return out
}
