package models

import "fmt"

// Method is an installation mechanism
type Method int

const (
	MethodNone Method = iota
	MethodNative
	MethodFlatpak
	MethodSnap
)

// Manager names as they appear in the catalog and on the host
const (
	ManagerApt     = "apt"
	ManagerDnf     = "dnf"
	ManagerYum     = "yum"
	ManagerPacman  = "pacman"
	ManagerZypper  = "zypper"
	ManagerFlatpak = "flatpak"
	ManagerSnap    = "snap"
)

// NativeManagers lists the supported distribution package managers in
// detection order.
func NativeManagers() []string {
	return []string{ManagerApt, ManagerDnf, ManagerYum, ManagerPacman, ManagerZypper}
}

// IsNativeManager reports whether name is a distribution package manager
func IsNativeManager(name string) bool {
	for _, m := range NativeManagers() {
		if m == name {
			return true
		}
	}
	return false
}

// PreferenceOrder returns the methods from most to least preferred
func PreferenceOrder() []Method {
	return []Method{MethodNative, MethodFlatpak, MethodSnap}
}

// String returns the lowercase method name
func (m Method) String() string {
	switch m {
	case MethodNative:
		return "native"
	case MethodFlatpak:
		return "flatpak"
	case MethodSnap:
		return "snap"
	default:
		return "none"
	}
}

// Title returns the method name for display
func (m Method) Title() string {
	switch m {
	case MethodNative:
		return "Native"
	case MethodFlatpak:
		return "Flatpak"
	case MethodSnap:
		return "Snap"
	default:
		return "—"
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMethod converts a method name back to a Method
func ParseMethod(s string) (Method, error) {
	switch s {
	case "native":
		return MethodNative, nil
	case "flatpak":
		return MethodFlatpak, nil
	case "snap":
		return MethodSnap, nil
	case "none", "":
		return MethodNone, nil
	}
	return MethodNone, fmt.Errorf("unknown installation method %q", s)
}
