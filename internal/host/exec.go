// Package host inspects the machine the installer runs on: which package
// managers exist, whether privilege escalation is needed and what might
// be holding the package database.
package host

import (
	"context"
	"errors"
	"os/exec"
)

// CommandResult is the outcome of a finished subprocess
type CommandResult struct {
	ExitCode int
	Output   string // Combined stdout and stderr
}

// Executor runs external commands. The error is reserved for commands
// that could not be started; a non-zero exit is reported in the result.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
	LookPath(name string) (string, error)
}

// SystemExecutor runs real processes
type SystemExecutor struct{}

// Run executes name with args and captures its combined output
func (SystemExecutor) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return CommandResult{ExitCode: exitErr.ExitCode(), Output: string(out)}, nil
	}
	if err != nil {
		return CommandResult{ExitCode: -1, Output: string(out)}, err
	}
	return CommandResult{ExitCode: 0, Output: string(out)}, nil
}

// LookPath searches PATH for an executable
func (SystemExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
