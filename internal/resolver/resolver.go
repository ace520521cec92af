// Package resolver picks how each application gets installed.
package resolver

import (
	"errors"
	"fmt"

	"creativesuite/internal/host"
	"creativesuite/internal/models"
)

// ErrNoInstallMethodAvailable means neither the host nor the entry offer
// a common installation method. The application is skipped.
var ErrNoInstallMethodAvailable = errors.New("no installation method available")

// Plan is the resolved way to install one application
type Plan struct {
	EntryID  string
	Method   models.Method
	Manager  string   // apt, flatpak, snap, ...
	Packages []string // Identifiers passed to the manager
	Classic  bool     // snap --classic
}

// Resolve returns the first method in preference order for which the host
// has the manager and the entry declares package ids. It is pure.
func Resolve(entry models.ApplicationEntry, managers host.Managers) (Plan, error) {
	for _, method := range models.PreferenceOrder() {
		mgr, ok := managers.ForMethod(method)
		if !ok {
			continue
		}
		pkgs := entry.Packages(mgr.Name)
		if len(pkgs) == 0 {
			continue
		}
		return Plan{
			EntryID:  entry.ID,
			Method:   method,
			Manager:  mgr.Name,
			Packages: append([]string(nil), pkgs...),
			Classic:  method == models.MethodSnap && entry.SnapClassic,
		}, nil
	}
	return Plan{EntryID: entry.ID}, fmt.Errorf("%s: %w", entry.ID, ErrNoInstallMethodAvailable)
}

// Resolution pairs an entry with its plan or resolution error
type Resolution struct {
	Entry models.ApplicationEntry
	Plan  Plan
	Err   error
}

// Resolvable reports whether a plan was found
func (r Resolution) Resolvable() bool {
	return r.Err == nil
}

// ResolveAll resolves every entry, keeping order
func ResolveAll(entries []models.ApplicationEntry, managers host.Managers) []Resolution {
	out := make([]Resolution, 0, len(entries))
	for _, e := range entries {
		plan, err := Resolve(e, managers)
		out = append(out, Resolution{Entry: e, Plan: plan, Err: err})
	}
	return out
}
