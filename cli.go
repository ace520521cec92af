package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"creativesuite/internal/catalog"
	"creativesuite/internal/desktop"
	"creativesuite/internal/host"
	"creativesuite/internal/installer"
	"creativesuite/internal/models"
	"creativesuite/internal/resolver"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errBatchFailed makes the process exit 1 after printing results
var errBatchFailed = errors.New("one or more applications failed to install")

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "creative-suite",
		Short: "Install open-source alternatives to Adobe apps and group them in a menu",
		Long: `creative-suite installs a curated set of open-source creative applications
through the system package manager, Flatpak or Snap, then groups them under
a "Creative Suite" category in the desktop menu.

Run without arguments to start the interactive installer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), *opts)
		},
	}

	addGlobalFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(
		newListCommand(opts),
		newStatusCommand(opts),
		newInstallCommand(opts),
		newPlanCommand(opts),
		newRemoveCommand(opts),
		newRemoveBundleCommand(opts),
		newCatalogCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func addGlobalFlags(fs *pflag.FlagSet, opts *globalOptions) {
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/creative-suite/config.json)")
	fs.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	fs.StringVar(&opts.logFile, "log-file", "", "log file (default ~/.local/share/creative-suite/logs/creative-suite.log)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print what would be done without doing it")
}

func runWizard(ctx context.Context, opts globalOptions) error {
	env, err := newEnvironment(ctx, opts, false)
	if err != nil {
		return err
	}
	p := tea.NewProgram(New(ctx, env), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "creative-suite %s (built %s)\n", version, buildTime)
		},
	}
}

func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog applications and how each would be installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context(), *opts, true)
			if err != nil {
				return err
			}
			resolutions, _ := env.resolve(nil)
			printList(cmd.OutOrStdout(), resolutions, env.reconciler.State())
			return nil
		},
	}
}

func printList(w io.Writer, resolutions []resolver.Resolution, state *desktop.BundleState) {
	entries := make([]models.ApplicationEntry, 0, len(resolutions))
	byID := make(map[string]resolver.Resolution)
	for _, r := range resolutions {
		entries = append(entries, r.Entry)
		byID[r.Entry.ID] = r
	}

	groups := catalog.GroupByCategory(entries)
	names := catalog.CategoryNames()
	for _, category := range catalog.CategoryOrder() {
		if len(groups[category]) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", names[category])
		for _, e := range groups[category] {
			r := byID[e.ID]
			method := "unavailable"
			if r.Resolvable() {
				method = fmt.Sprintf("%s (%s)", r.Plan.Method, r.Plan.Manager)
			}
			marker := " "
			if _, ok := state.Apps[e.ID]; ok {
				marker = "●"
			}
			fmt.Fprintf(w, "  %s %-12s %-14s %-22s %s\n", marker, e.ID, e.Name, e.AdobeEquivalent, method)
		}
	}
}

func newStatusCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show detected package managers and the bundle state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx, *opts, true)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "Package managers:")
			printManager(w, "native", env.managers.Native)
			printManager(w, "flatpak", env.managers.Flatpak)
			printManager(w, "snap", env.managers.Snap)
			if env.managers.Distro != "" {
				fmt.Fprintf(w, "  distribution family: %s\n", env.managers.Distro)
			}
			if env.privilege.Needed() {
				fmt.Fprintf(w, "  privilege wrapper:   %s\n", env.privilege.Wrapper)
			}

			if blockers, err := host.BlockingProcesses(ctx); err == nil && len(blockers) > 0 {
				fmt.Fprintf(w, "  busy: %s is running\n", strings.Join(blockers, ", "))
			}

			state := env.reconciler.State()
			fmt.Fprintf(w, "\nBundle (%s):\n", env.paths.StatePath())
			if state.Empty() {
				fmt.Fprintln(w, "  not installed")
				return nil
			}
			for _, id := range state.IDs() {
				app := state.Apps[id]
				fmt.Fprintf(w, "  %-12s %-8s %s\n", id, app.Manager, app.DesktopFile)
			}
			if running := env.reconciler.RunningBundleApps(ctx); len(running) > 0 {
				fmt.Fprintf(w, "  running: %s\n", strings.Join(running, ", "))
			}

			integrity := env.reconciler.Integrity()
			if integrity.Healthy() {
				fmt.Fprintln(w, "  integrity: ok")
				return nil
			}
			for _, p := range integrity.Missing {
				fmt.Fprintf(w, "  missing:  %s\n", p)
			}
			for _, p := range integrity.Orphaned {
				fmt.Fprintf(w, "  orphaned: %s\n", p)
			}
			return nil
		},
	}
}

func printManager(w io.Writer, label string, m *host.Manager) {
	if m == nil {
		fmt.Fprintf(w, "  %-8s -\n", label)
		return
	}
	fmt.Fprintf(w, "  %-8s %s %s\n", label, m.Name, m.VersionString())
}

// selectionFromArgs returns the ids to work on: args, or the default selection
func selectionFromArgs(env *environment, args []string) ([]resolver.Resolution, error) {
	if len(args) == 0 {
		return env.resolveSelection(env.catalog.DefaultSelection()), nil
	}
	return env.resolve(args)
}

func newInstallCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "install [app...]",
		Short: "Install applications and add them to the Creative Suite menu",
		Long: `Install the named applications, or the recommended set when none are given.
Each application is installed with the first available method in the order
native package manager, Flatpak, Snap.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx, *opts, true)
			if err != nil {
				return err
			}
			batch, err := selectionFromArgs(env, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if env.dryRun {
				for _, c := range env.runner().Commands(batch) {
					fmt.Fprintln(w, c.String())
				}
				for _, res := range batch {
					if !res.Resolvable() {
						fmt.Fprintf(w, "# %s: %v\n", res.Entry.ID, res.Err)
					}
				}
				return nil
			}

			if blockers, err := host.BlockingProcesses(ctx); err == nil && len(blockers) > 0 {
				env.log.Warn().Strs("processes", blockers).Msg("package manager busy, installs may fail")
			}

			if env.needsPrivilege(batch) {
				if auth := env.privilege.AuthCommand(); auth != nil {
					auth.Stdin, auth.Stdout, auth.Stderr = os.Stdin, os.Stdout, os.Stderr
					if err := auth.Run(); err != nil {
						return fmt.Errorf("authenticate with %s: %w", env.privilege.Wrapper, err)
					}
				}
			}

			results, report, err := env.install(ctx, batch, func(p installer.Progress) {
				if !p.Done {
					fmt.Fprintf(w, "[%d/%d] %s\n", p.Index+1, p.Total, p.Entry.Name)
					return
				}
				fmt.Fprintf(w, "      %s %s\n", p.Result.Status.StatusIcon(), p.Result.Message)
			})
			printResults(w, results)
			if report != nil {
				printReport(w, report, false)
			}
			if err != nil {
				return err
			}

			if _, failed, _ := models.CountByStatus(results); failed > 0 {
				return errBatchFailed
			}
			return nil
		},
	}
}

func printResults(w io.Writer, results []models.InstallResult) {
	s, f, k := models.CountByStatus(results)
	fmt.Fprintf(w, "\n%d installed, %d failed, %d skipped\n", s, f, k)
	for _, r := range results {
		if r.Status != models.StatusFailed || r.Output == "" {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n%s\n", r.EntryID, strings.TrimRight(r.Output, "\n"))
	}
}

func printReport(w io.Writer, report *desktop.Report, diff bool) {
	printChange := func(f desktop.FileChange) {
		line := fmt.Sprintf("  %-9s %s", f.Action, f.Path)
		if f.Err != nil {
			line += "  (" + f.Err.Error() + ")"
		} else if f.Diff != nil && f.Action == desktop.ActionUpdate {
			line += "  (" + f.Diff.Summary() + ")"
		}
		fmt.Fprintln(w, line)
		if diff && f.Diff != nil && f.Diff.HasChanges() {
			fmt.Fprint(w, desktop.FormatUnifiedDiff(f.Path, f.Diff))
		}
	}

	if len(report.Shared) == 0 && len(report.Apps) == 0 {
		return
	}
	fmt.Fprintln(w, "\nDesktop integration:")
	for _, f := range report.Shared {
		printChange(f)
	}
	for _, app := range report.Apps {
		for _, f := range app.Files {
			printChange(f)
		}
	}
}

func newPlanCommand(opts *globalOptions) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "plan [app...]",
		Short: "Show the commands and menu files an install would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context(), *opts, true)
			if err != nil {
				return err
			}
			batch, err := selectionFromArgs(env, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "Commands:")
			for _, c := range env.runner().Commands(batch) {
				fmt.Fprintf(w, "  %s\n", c.String())
			}

			// Plan the menu as if every resolvable install succeeded
			var assumed []models.InstallResult
			for _, res := range batch {
				if !res.Resolvable() {
					fmt.Fprintf(w, "  # %s skipped: %v\n", res.Entry.ID, res.Err)
					continue
				}
				assumed = append(assumed, models.InstallResult{
					EntryID: res.Entry.ID,
					Method:  res.Plan.Method,
					Manager: res.Plan.Manager,
					Status:  models.StatusSuccess,
				})
			}
			printReport(w, env.reconciler.Plan(assumed), showDiff)

			selection := models.NewSelection()
			for _, res := range batch {
				selection[res.Entry.ID] = true
			}
			changes := env.reconciler.Changes(selection)
			if len(changes.ToAdd) > 0 {
				fmt.Fprintf(w, "\nNew to the bundle: %s\n", strings.Join(changes.ToAdd, ", "))
			}
			if len(changes.NoChange) > 0 {
				fmt.Fprintf(w, "Already in the bundle: %s\n", strings.Join(changes.NoChange, ", "))
			}
			if len(changes.ToRemove) > 0 {
				fmt.Fprintf(w, "In the bundle but not selected: %s\n", strings.Join(changes.ToRemove, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "show a diff for files that would change")
	return cmd
}

func newRemoveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove app...",
		Short: "Remove applications from the Creative Suite menu (they stay installed)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx, *opts, true)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if env.dryRun {
				state := env.reconciler.State()
				for _, id := range args {
					app, ok := state.Apps[id]
					if !ok {
						fmt.Fprintf(w, "# %s is not in the bundle\n", id)
						continue
					}
					for _, f := range app.Files() {
						fmt.Fprintf(w, "rm %s\n", f)
					}
				}
				return nil
			}

			report, err := env.reconciler.RemoveApps(ctx, args)
			printRemoval(w, report)
			return err
		},
	}
}

func newRemoveBundleCommand(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove-bundle",
		Short: "Remove every menu file this tool created (applications stay installed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := newEnvironment(ctx, *opts, true)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			state := env.reconciler.State()
			if state.Empty() {
				fmt.Fprintln(w, "Nothing to remove.")
				return nil
			}

			if env.dryRun || !yes {
				var files []string
				for _, id := range state.IDs() {
					files = append(files, state.Apps[id].Files()...)
				}
				for _, p := range []string{state.DirectoryFile, state.MenuFile, state.SuiteIcon} {
					if p != "" {
						files = append(files, p)
					}
				}
				sort.Strings(files)
				for _, f := range files {
					fmt.Fprintf(w, "rm %s\n", f)
				}
				fmt.Fprintf(w, "rm %s\n", env.paths.StatePath())
				if !env.dryRun {
					fmt.Fprintln(w, "\nRe-run with --yes to remove these files.")
				}
				return nil
			}

			if running := env.reconciler.RunningBundleApps(ctx); len(running) > 0 {
				env.log.Warn().Strs("apps", running).Msg("bundle applications are running, their menu entries will disappear")
			}

			report, err := env.reconciler.RemoveBundle(ctx)
			printRemoval(w, report)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "remove without listing first")
	return cmd
}

func printRemoval(w io.Writer, report *desktop.RemovalReport) {
	if report == nil {
		return
	}
	for _, f := range report.Removed {
		fmt.Fprintf(w, "removed %s\n", f)
	}
	for _, id := range report.NotInBundle {
		fmt.Fprintf(w, "%s is not in the bundle\n", id)
	}
}

func newCatalogCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage user-defined catalog entries",
	}
	cmd.AddCommand(newCatalogAddCommand(opts))
	return cmd
}

func newCatalogAddCommand(opts *globalOptions) *cobra.Command {
	var (
		def      models.AppDefinition
		packages []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an application to the user catalog",
		Example: `  creative-suite catalog add --id mypaint --name MyPaint --category Graphics \
    --adobe "Fresco" --package apt=mypaint --package flatpak=org.mypaint.MyPaint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context(), *opts, true)
			if err != nil {
				return err
			}
			if _, err := env.catalog.Get(def.ID); err == nil {
				return fmt.Errorf("application %q already exists in the catalog", def.ID)
			}

			def.Packages = make(map[string]models.PackageList)
			for _, p := range packages {
				manager, id, ok := strings.Cut(p, "=")
				if !ok || manager == "" || id == "" {
					return fmt.Errorf("package %q: expected manager=identifier", p)
				}
				def.Packages[manager] = append(def.Packages[manager], id)
			}

			store := catalog.NewStore(env.cfg.AppsConfig)
			if env.dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "would add %s to %s\n", def.ID, store.Path())
				return nil
			}
			if err := store.Add(def); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", def.ID, store.Path())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&def.ID, "id", "", "unique application id")
	f.StringVar(&def.Name, "name", "", "display name")
	f.StringVar(&def.Description, "description", "", "one line description")
	f.StringVar(&def.AdobeEquivalent, "adobe", "", "Adobe product it replaces")
	f.StringVar(&def.Category, "category", "Graphics", "menu category (Graphics, AudioVideo, Office)")
	f.StringVar(&def.Icon, "icon", "", "icon file")
	f.StringVar(&def.Exec, "exec", "", "launch command for native installs")
	f.StringArrayVar(&packages, "package", nil, "manager=identifier, repeatable")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}
