package host

import (
	"context"
	"regexp"
	"strings"
	"time"

	"creativesuite/internal/models"

	"github.com/hashicorp/go-version"
	"github.com/rs/zerolog"
	pshost "github.com/shirou/gopsutil/v3/host"
)

// probeTimeout bounds every detection subprocess
const probeTimeout = 10 * time.Second

// flatpakNoninteractiveSince is the first flatpak accepting --noninteractive
var flatpakNoninteractiveSince = version.Must(version.NewVersion("1.2.0"))

var versionPattern = regexp.MustCompile(`\d+(\.\d+)+`)

// Manager is one detected package manager
type Manager struct {
	Name    string
	Path    string
	Version *version.Version // nil when --version could not be parsed
}

// VersionString returns the detected version or "unknown"
func (m *Manager) VersionString() string {
	if m == nil || m.Version == nil {
		return "unknown"
	}
	return m.Version.String()
}

// Managers is the immutable result of probing the host once at startup
type Managers struct {
	Native  *Manager // nil when no supported distribution manager exists
	Flatpak *Manager // nil unless flatpak exists with the flathub remote
	Snap    *Manager // nil unless snapd answers
	Distro  string   // Platform family reported by the OS, may be empty
}

// Has reports whether the named manager is available
func (m Managers) Has(name string) bool {
	switch name {
	case models.ManagerFlatpak:
		return m.Flatpak != nil
	case models.ManagerSnap:
		return m.Snap != nil
	default:
		return m.Native != nil && m.Native.Name == name
	}
}

// ForMethod returns the manager implementing an installation method
func (m Managers) ForMethod(method models.Method) (*Manager, bool) {
	var mgr *Manager
	switch method {
	case models.MethodNative:
		mgr = m.Native
	case models.MethodFlatpak:
		mgr = m.Flatpak
	case models.MethodSnap:
		mgr = m.Snap
	}
	return mgr, mgr != nil
}

// Names lists available managers, native first
func (m Managers) Names() []string {
	var names []string
	for _, mgr := range []*Manager{m.Native, m.Flatpak, m.Snap} {
		if mgr != nil {
			names = append(names, mgr.Name)
		}
	}
	return names
}

// Empty reports whether nothing usable was found
func (m Managers) Empty() bool {
	return m.Native == nil && m.Flatpak == nil && m.Snap == nil
}

// FlatpakNoninteractive reports whether flatpak accepts --noninteractive.
// Unknown versions are assumed recent.
func (m Managers) FlatpakNoninteractive() bool {
	if m.Flatpak == nil || m.Flatpak.Version == nil {
		return true
	}
	return !m.Flatpak.Version.LessThan(flatpakNoninteractiveSince)
}

// familyManagers maps a platform family to its native manager
var familyManagers = map[string]string{
	"debian":   models.ManagerApt,
	"ubuntu":   models.ManagerApt,
	"fedora":   models.ManagerDnf,
	"rhel":     models.ManagerDnf,
	"arch":     models.ManagerPacman,
	"suse":     models.ManagerZypper,
	"opensuse": models.ManagerZypper,
}

// Prober detects package managers
type Prober struct {
	exec   Executor
	log    zerolog.Logger
	family func(ctx context.Context) string
}

// NewProber creates a prober using exec for all subprocesses
func NewProber(exec Executor, log zerolog.Logger) *Prober {
	return &Prober{
		exec:   exec,
		log:    log,
		family: platformFamily,
	}
}

// Probe inspects the host. It never fails; missing tools just leave
// the corresponding manager nil.
func (p *Prober) Probe(ctx context.Context) Managers {
	m := Managers{Distro: p.family(ctx)}

	m.Native = p.detectNative(ctx, m.Distro)
	m.Flatpak = p.detectFlatpak(ctx)
	m.Snap = p.detectSnap(ctx)

	p.log.Info().
		Str("distro", m.Distro).
		Strs("managers", m.Names()).
		Msg("host probed")
	return m
}

func (p *Prober) detectNative(ctx context.Context, family string) *Manager {
	var found []*Manager
	for _, name := range models.NativeManagers() {
		path, ok := p.lookup(binaryFor(name))
		if !ok {
			continue
		}
		// apt needs dpkg for already-installed queries
		if name == models.ManagerApt {
			if _, ok := p.lookup("dpkg"); !ok {
				continue
			}
		}
		found = append(found, &Manager{Name: name, Path: path})
	}
	if len(found) == 0 {
		return nil
	}

	chosen := found[0]
	if len(found) > 1 {
		if preferred, ok := familyManagers[family]; ok {
			for _, mgr := range found {
				if mgr.Name == preferred {
					chosen = mgr
					break
				}
			}
		}
		p.log.Debug().Str("family", family).Str("chosen", chosen.Name).Int("candidates", len(found)).Msg("several native managers present")
	}

	chosen.Version = p.version(ctx, chosen.Path)
	return chosen
}

func (p *Prober) detectFlatpak(ctx context.Context) *Manager {
	path, ok := p.lookup(models.ManagerFlatpak)
	if !ok {
		return nil
	}

	res, err := p.run(ctx, path, "remotes")
	if err != nil || res.ExitCode != 0 {
		p.log.Debug().Err(err).Msg("flatpak remotes failed")
		return nil
	}
	if !hasRemote(res.Output, "flathub") {
		p.log.Info().Msg("flatpak present but flathub remote missing")
		return nil
	}

	return &Manager{Name: models.ManagerFlatpak, Path: path, Version: p.version(ctx, path)}
}

func (p *Prober) detectSnap(ctx context.Context) *Manager {
	path, ok := p.lookup(models.ManagerSnap)
	if !ok {
		return nil
	}

	res, err := p.run(ctx, path, "version")
	if err != nil || res.ExitCode != 0 {
		p.log.Info().Msg("snap present but snapd not answering")
		return nil
	}

	return &Manager{Name: models.ManagerSnap, Path: path, Version: parseVersion(res.Output)}
}

// binaryFor maps a manager name to the executable the installer runs.
func binaryFor(manager string) string {
	if manager == models.ManagerApt {
		return "apt-get"
	}
	return manager
}

func (p *Prober) lookup(name string) (string, bool) {
	path, err := p.exec.LookPath(name)
	return path, err == nil && path != ""
}

func (p *Prober) run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return p.exec.Run(ctx, name, args...)
}

func (p *Prober) version(ctx context.Context, path string) *version.Version {
	res, err := p.run(ctx, path, "--version")
	if err != nil || res.ExitCode != 0 {
		return nil
	}
	return parseVersion(res.Output)
}

// parseVersion extracts the first dotted version number from output
func parseVersion(output string) *version.Version {
	match := versionPattern.FindString(output)
	if match == "" {
		return nil
	}
	v, err := version.NewVersion(match)
	if err != nil {
		return nil
	}
	return v
}

func hasRemote(output, name string) bool {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == name {
			return true
		}
	}
	return false
}

func platformFamily(ctx context.Context) string {
	info, err := pshost.InfoWithContext(ctx)
	if err != nil || info == nil {
		return ""
	}
	if info.PlatformFamily != "" {
		return strings.ToLower(info.PlatformFamily)
	}
	return strings.ToLower(info.Platform)
}
