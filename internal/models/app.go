package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ApplicationEntry is one installable application from the catalog.
// Entries are immutable once the catalog has been loaded.
type ApplicationEntry struct {
	ID              string              // Unique identifier
	Name            string              // Display name
	GenericName     string              // e.g. "Image Editor"
	Description     string              // One line description
	AdobeEquivalent string              // Adobe product this replaces
	Category        string              // freedesktop main category (Graphics, AudioVideo, ...)
	IconPath        string              // Icon asset path (embedded or absolute)
	Exec            string              // Native launch command, may carry field codes
	Keywords        []string            // Extra search keywords for the menu entry
	DesktopIDs      []string            // System desktop files this entry supersedes
	PackageIDs      map[string][]string // manager name -> package identifiers
	SnapClassic     bool                // Snap needs --classic confinement
	DefaultSelected bool                // Pre-checked on first run
}

// AppDefinition is the YAML structure for a catalog entry
type AppDefinition struct {
	ID              string                 `yaml:"id"`
	Name            string                 `yaml:"name"`
	GenericName     string                 `yaml:"generic_name,omitempty"`
	Description     string                 `yaml:"description"`
	AdobeEquivalent string                 `yaml:"adobe_equivalent"`
	Category        string                 `yaml:"category"`
	Icon            string                 `yaml:"icon"`
	Exec            string                 `yaml:"exec,omitempty"`
	Keywords        []string               `yaml:"keywords,omitempty"`
	DesktopIDs      []string               `yaml:"desktop_ids,omitempty"`
	Packages        map[string]PackageList `yaml:"packages"`
	SnapClassic     bool                   `yaml:"snap_classic,omitempty"`
	DefaultSelected bool                   `yaml:"default_selected,omitempty"`
}

// PackageList holds the identifiers for one manager. In YAML it may be
// written as a single string or as a list.
type PackageList []string

// UnmarshalYAML accepts both `apt: gimp` and `apt: [gimp, gimp-data-extras]`.
func (p *PackageList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*p = cleanPackages([]string{s})
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*p = cleanPackages(list)
	default:
		return fmt.Errorf("line %d: package ids must be a string or a list", value.Line)
	}
	return nil
}

// MarshalYAML writes single-element lists back as a plain string
func (p PackageList) MarshalYAML() (interface{}, error) {
	if len(p) == 1 {
		return p[0], nil
	}
	return []string(p), nil
}

func cleanPackages(in []string) PackageList {
	out := make(PackageList, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NewEntry creates an ApplicationEntry from a definition
func NewEntry(def AppDefinition) ApplicationEntry {
	pkgs := make(map[string][]string, len(def.Packages))
	for manager, list := range def.Packages {
		if len(list) == 0 {
			continue
		}
		pkgs[strings.ToLower(manager)] = append([]string(nil), list...)
	}

	exec := strings.TrimSpace(def.Exec)
	if exec == "" {
		exec = def.ID
	}

	return ApplicationEntry{
		ID:              def.ID,
		Name:            def.Name,
		GenericName:     def.GenericName,
		Description:     def.Description,
		AdobeEquivalent: def.AdobeEquivalent,
		Category:        def.Category,
		IconPath:        def.Icon,
		Exec:            exec,
		Keywords:        append([]string(nil), def.Keywords...),
		DesktopIDs:      append([]string(nil), def.DesktopIDs...),
		PackageIDs:      pkgs,
		SnapClassic:     def.SnapClassic,
		DefaultSelected: def.DefaultSelected,
	}
}

// Packages returns the identifiers declared for a manager
func (e ApplicationEntry) Packages(manager string) []string {
	return e.PackageIDs[manager]
}

// HasPackages reports whether the entry declares anything for a manager
func (e ApplicationEntry) HasPackages(manager string) bool {
	return len(e.PackageIDs[manager]) > 0
}

// FieldCodes returns the desktop field codes (%U, %F, ...) of the native
// Exec line so other launchers can reuse them.
func (e ApplicationEntry) FieldCodes() []string {
	var codes []string
	for _, part := range strings.Fields(e.Exec) {
		if len(part) == 2 && part[0] == '%' {
			codes = append(codes, part)
		}
	}
	return codes
}

// Label returns "Name (Adobe X alternative)" for list rendering
func (e ApplicationEntry) Label() string {
	if e.AdobeEquivalent == "" {
		return e.Name
	}
	return fmt.Sprintf("%s (%s alternative)", e.Name, e.AdobeEquivalent)
}
