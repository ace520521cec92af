// Package hosttest provides a scripted host.Executor for tests.
package hosttest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"creativesuite/internal/host"
)

type response struct {
	result host.CommandResult
	err    error
}

// Executor records every call and answers from a script keyed by the
// command line with the executable's directory stripped.
type Executor struct {
	mu        sync.Mutex
	paths     map[string]string
	responses map[string]response
	calls     []string

	// Default answers unscripted commands
	Default host.CommandResult
}

// New creates a fake where the given executables exist on PATH
func New(executables ...string) *Executor {
	e := &Executor{
		paths:     make(map[string]string),
		responses: make(map[string]response),
	}
	for _, name := range executables {
		e.paths[name] = "/usr/bin/" + name
	}
	return e
}

// On scripts the result of a command line such as "dpkg -s gimp"
func (e *Executor) On(cmdline string, exitCode int, output string) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[cmdline] = response{result: host.CommandResult{ExitCode: exitCode, Output: output}}
	return e
}

// FailStart makes a command line fail to start
func (e *Executor) FailStart(cmdline string, err error) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[cmdline] = response{result: host.CommandResult{ExitCode: -1}, err: err}
	return e
}

// Run implements host.Executor
func (e *Executor) Run(ctx context.Context, name string, args ...string) (host.CommandResult, error) {
	line := strings.Join(append([]string{filepath.Base(name)}, args...), " ")

	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, line)

	if err := ctx.Err(); err != nil {
		return host.CommandResult{ExitCode: -1}, err
	}
	if r, ok := e.responses[line]; ok {
		return r.result, r.err
	}
	return e.Default, nil
}

// LookPath implements host.Executor
func (e *Executor) LookPath(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Calls returns the command lines run so far
func (e *Executor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}
