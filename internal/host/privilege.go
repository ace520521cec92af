package host

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// Privilege wraps commands that need root
type Privilege struct {
	Wrapper string // "" when already root
}

// NewPrivilege returns the wrapper to use for the current process
func NewPrivilege(command string) Privilege {
	return privilegeFor(command, unix.Geteuid())
}

func privilegeFor(command string, euid int) Privilege {
	if euid == 0 {
		return Privilege{}
	}
	if command == "" {
		command = "sudo"
	}
	return Privilege{Wrapper: command}
}

// Needed reports whether commands must be wrapped
func (p Privilege) Needed() bool {
	return p.Wrapper != ""
}

// Wrap prefixes a command with the privilege wrapper. sudo runs with -n
// because credentials are validated up front by AuthCommand.
func (p Privilege) Wrap(name string, args ...string) (string, []string) {
	if !p.Needed() {
		return name, args
	}
	wrapped := make([]string, 0, len(args)+2)
	if p.Wrapper == "sudo" {
		wrapped = append(wrapped, "-n")
	}
	wrapped = append(wrapped, name)
	wrapped = append(wrapped, args...)
	return p.Wrapper, wrapped
}

// AuthCommand returns the interactive credential check to run on the
// terminal before a batch, or nil when none is needed. pkexec prompts
// through its own agent per command.
func (p Privilege) AuthCommand() *exec.Cmd {
	if p.Wrapper != "sudo" {
		return nil
	}
	return exec.Command("sudo", "-v")
}

// KeepAlive returns the non-interactive credential refresh to run before
// each wrapped command, so a long batch does not outlast sudo's timestamp.
func (p Privilege) KeepAlive() (string, []string, bool) {
	if p.Wrapper != "sudo" {
		return "", nil, false
	}
	return "sudo", []string{"-n", "-v"}, true
}
