// Package installer runs the selected installations one after another.
package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creativesuite/internal/host"
	"creativesuite/internal/models"
	"creativesuite/internal/resolver"

	"github.com/rs/zerolog"
)

// ErrInstallFailed marks an application whose install command did not succeed
var ErrInstallFailed = errors.New("install failed")

// ErrCredentialsExpired marks a wrapped command that was not run because the
// cached sudo credentials could not be refreshed without a password
var ErrCredentialsExpired = errors.New("privilege credentials expired")

// messageTailLines bounds how much output goes into a result message
const messageTailLines = 6

// queryTimeout bounds each already-installed check
const queryTimeout = 30 * time.Second

// Progress is reported before (Done=false) and after (Done=true) each application
type Progress struct {
	Index  int // 0-based position in the batch
	Total  int
	Entry  models.ApplicationEntry
	Plan   resolver.Plan
	Done   bool
	Result models.InstallResult // Set when Done
}

// ProgressFunc receives progress updates on the runner's goroutine
type ProgressFunc func(Progress)

// Options tune a batch
type Options struct {
	SkipInstalled bool // Query the manager and skip packages already present
}

// Runner installs applications sequentially
type Runner struct {
	exec    host.Executor
	builder Builder
	opts    Options
	log     zerolog.Logger
}

// NewRunner creates a runner for the probed host
func NewRunner(exec host.Executor, managers host.Managers, priv host.Privilege, opts Options, log zerolog.Logger) *Runner {
	return &Runner{
		exec: exec,
		builder: Builder{
			Privilege:             priv,
			FlatpakNoninteractive: managers.FlatpakNoninteractive(),
		},
		opts: opts,
		log:  log,
	}
}

// Builder exposes the command builder for previews
func (r *Runner) Builder() Builder {
	return r.builder
}

// Commands lists what Run would execute for a batch, without running anything
func (r *Runner) Commands(batch []resolver.Resolution) []Command {
	var cmds []Command
	refreshed := make(map[string]bool)
	for _, res := range batch {
		if !res.Resolvable() {
			continue
		}
		if cmd, ok := r.builder.Refresh(res.Plan.Manager); ok && !refreshed[res.Plan.Manager] {
			refreshed[res.Plan.Manager] = true
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, r.builder.Install(res.Plan))
	}
	return cmds
}

// Run installs every resolution in order and returns one result per entry.
// Failures never stop the batch. Install subprocesses have no timeout; only
// ctx cancellation stops them.
func (r *Runner) Run(ctx context.Context, batch []resolver.Resolution, progress ProgressFunc) []models.InstallResult {
	if progress == nil {
		progress = func(Progress) {}
	}

	results := make([]models.InstallResult, 0, len(batch))
	refreshed := make(map[string]bool)

	for i, res := range batch {
		p := Progress{Index: i, Total: len(batch), Entry: res.Entry, Plan: res.Plan}
		progress(p)

		result := r.installOne(ctx, res, refreshed)
		results = append(results, result)

		p.Done = true
		p.Result = result
		progress(p)
	}

	s, f, k := models.CountByStatus(results)
	r.log.Info().Int("success", s).Int("failed", f).Int("skipped", k).Msg("batch finished")
	return results
}

func (r *Runner) installOne(ctx context.Context, res resolver.Resolution, refreshed map[string]bool) models.InstallResult {
	log := r.log.With().Str("app", res.Entry.ID).Logger()

	if !res.Resolvable() {
		log.Warn().Err(res.Err).Msg("skipped")
		return models.InstallResult{
			EntryID: res.Entry.ID,
			Method:  models.MethodNone,
			Status:  models.StatusSkipped,
			Message: "No installation method available on this system",
			Err:     res.Err,
		}
	}

	plan := res.Plan
	result := models.InstallResult{
		EntryID: res.Entry.ID,
		Method:  plan.Method,
		Manager: plan.Manager,
	}

	if r.opts.SkipInstalled && r.installed(ctx, plan) {
		log.Info().Str("manager", plan.Manager).Msg("already installed")
		result.Status = models.StatusSuccess
		result.Message = fmt.Sprintf("Already installed (%s)", plan.Manager)
		return result
	}

	cmd := r.builder.Install(plan)
	if err := r.keepAlive(ctx, cmd); err != nil {
		result.Status = models.StatusFailed
		result.Err = err
		result.Message = "sudo asked for the password again, run the installer again to re-authenticate"
		log.Error().Err(err).Msg("install not started")
		return result
	}

	if cmd, ok := r.builder.Refresh(plan.Manager); ok && !refreshed[plan.Manager] {
		refreshed[plan.Manager] = true
		out, err := r.exec.Run(ctx, cmd.Name, cmd.Args...)
		if err != nil || out.ExitCode != 0 {
			log.Warn().Err(err).Int("exit", out.ExitCode).Str("cmd", cmd.String()).Msg("package list refresh failed, continuing")
		}
	}

	log.Info().Str("cmd", cmd.String()).Msg("installing")

	out, err := r.exec.Run(ctx, cmd.Name, cmd.Args...)
	result.Output = out.Output

	switch {
	case err != nil:
		result.Status = models.StatusFailed
		result.Err = fmt.Errorf("%w: %s: %v", ErrInstallFailed, cmd.Name, err)
		result.Message = fmt.Sprintf("Could not start %s: %v", cmd.Name, err)
		log.Error().Err(err).Msg("install could not start")
	case out.ExitCode != 0:
		result.Status = models.StatusFailed
		result.Err = fmt.Errorf("%w: %s exited with status %d", ErrInstallFailed, plan.Manager, out.ExitCode)
		result.Message = fmt.Sprintf("%s exited with status %d", plan.Manager, out.ExitCode)
		if tail := lastLines(out.Output, messageTailLines); tail != "" {
			result.Message += ": " + tail
		}
		log.Error().Int("exit", out.ExitCode).Msg("install failed")
	default:
		result.Status = models.StatusSuccess
		result.Message = fmt.Sprintf("Installed via %s", plan.Manager)
		log.Info().Msg("installed")
	}

	return result
}

// keepAlive refreshes cached sudo credentials before a wrapped command
func (r *Runner) keepAlive(ctx context.Context, cmd Command) error {
	name, args, ok := r.builder.Privilege.KeepAlive()
	if !ok || cmd.Name != name {
		return nil
	}
	out, err := r.exec.Run(ctx, name, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialsExpired, err)
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%w: %s", ErrCredentialsExpired, lastLines(out.Output, 1))
	}
	return nil
}

// Installed checks which resolvable entries of batch are already present on
// the host. It only runs the manager queries, never an install.
func (r *Runner) Installed(ctx context.Context, batch []resolver.Resolution) map[string]bool {
	out := make(map[string]bool)
	for _, res := range batch {
		if !res.Resolvable() {
			continue
		}
		if r.installed(ctx, res.Plan) {
			out[res.Entry.ID] = true
		}
	}
	r.log.Debug().Int("checked", len(batch)).Int("installed", len(out)).Msg("installed check")
	return out
}

// installed reports whether every package of plan is already present
func (r *Runner) installed(ctx context.Context, plan resolver.Plan) bool {
	queries := r.builder.Query(plan)
	if len(queries) == 0 {
		return false
	}
	for _, q := range queries {
		qctx, cancel := context.WithTimeout(ctx, queryTimeout)
		out, err := r.exec.Run(qctx, q.Name, q.Args...)
		cancel()
		if err != nil || out.ExitCode != 0 {
			return false
		}
	}
	return true
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
