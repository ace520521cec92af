package installer

import (
	"strings"

	"creativesuite/internal/host"
	"creativesuite/internal/models"
	"creativesuite/internal/resolver"
)

// Command is one subprocess invocation
type Command struct {
	Name string
	Args []string
}

// String renders the command for logs and dry runs
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Builder turns plans into manager command lines
type Builder struct {
	Privilege             host.Privilege
	FlatpakNoninteractive bool
}

// Install returns the command that installs every package of a plan
func (b Builder) Install(plan resolver.Plan) Command {
	pkgs := plan.Packages

	switch plan.Manager {
	case models.ManagerApt:
		return b.wrap("apt-get", append([]string{"install", "-y"}, pkgs...)...)
	case models.ManagerDnf, models.ManagerYum:
		return b.wrap(plan.Manager, append([]string{"install", "-y"}, pkgs...)...)
	case models.ManagerPacman:
		return b.wrap("pacman", append([]string{"-S", "--noconfirm", "--needed"}, pkgs...)...)
	case models.ManagerZypper:
		return b.wrap("zypper", append([]string{"--non-interactive", "install"}, pkgs...)...)
	case models.ManagerFlatpak:
		args := []string{"install", "-y"}
		if b.FlatpakNoninteractive {
			args = append(args, "--noninteractive")
		}
		args = append(args, "flathub")
		return Command{Name: "flatpak", Args: append(args, pkgs...)}
	case models.ManagerSnap:
		args := append([]string{"install"}, pkgs...)
		if plan.Classic {
			args = append(args, "--classic")
		}
		return b.wrap("snap", args...)
	}
	return Command{Name: plan.Manager, Args: append([]string{"install"}, pkgs...)}
}

// Query returns one already-installed check per package. Every check must
// exit 0 for the plan to count as installed. Queries never need root.
func (b Builder) Query(plan resolver.Plan) []Command {
	var name string
	var prefix []string

	switch plan.Manager {
	case models.ManagerApt:
		name, prefix = "dpkg", []string{"-s"}
	case models.ManagerDnf, models.ManagerYum:
		name, prefix = "rpm", []string{"-q"}
	case models.ManagerPacman:
		name, prefix = "pacman", []string{"-Q"}
	case models.ManagerZypper:
		name, prefix = "zypper", []string{"se", "-i", "-x"}
	case models.ManagerFlatpak:
		name, prefix = "flatpak", []string{"info"}
	case models.ManagerSnap:
		name, prefix = "snap", []string{"list"}
	default:
		return nil
	}

	cmds := make([]Command, 0, len(plan.Packages))
	for _, pkg := range plan.Packages {
		args := append(append([]string(nil), prefix...), pkg)
		cmds = append(cmds, Command{Name: name, Args: args})
	}
	return cmds
}

// Refresh returns the package list refresh to run once per batch, if the
// manager needs one.
func (b Builder) Refresh(manager string) (Command, bool) {
	if manager != models.ManagerApt {
		return Command{}, false
	}
	return b.wrap("apt-get", "update", "-qq"), true
}

func (b Builder) wrap(name string, args ...string) Command {
	n, a := b.Privilege.Wrap(name, args...)
	return Command{Name: n, Args: a}
}
