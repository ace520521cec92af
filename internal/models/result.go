package models

import "sort"

// Status is the outcome of installing one application
type Status int

const (
	StatusSuccess Status = iota
	StatusFailed
	StatusSkipped
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// StatusIcon returns an icon representing the status
func (s Status) StatusIcon() string {
	switch s {
	case StatusSuccess:
		return "✓"
	case StatusFailed:
		return "✗"
	case StatusSkipped:
		return "○"
	default:
		return "?"
	}
}

// InstallResult is the per-application outcome of a batch
type InstallResult struct {
	EntryID string
	Method  Method // MethodNone when skipped
	Manager string // apt, flatpak, ...
	Status  Status
	Message string
	Output  string // Captured subprocess output
	Err     error
}

// Succeeded reports whether the application ended up installed
func (r InstallResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// CountByStatus tallies results
func CountByStatus(results []InstallResult) (success, failed, skipped int) {
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			success++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return success, failed, skipped
}

// SelectionSet holds the ids the user picked in one session
type SelectionSet map[string]bool

// NewSelection creates a selection from ids
func NewSelection(ids ...string) SelectionSet {
	s := make(SelectionSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Toggle flips an id in or out of the selection
func (s SelectionSet) Toggle(id string) {
	if s[id] {
		delete(s, id)
		return
	}
	s[id] = true
}

// Has reports whether id is selected
func (s SelectionSet) Has(id string) bool {
	return s[id]
}

// IDs returns the selected ids sorted
func (s SelectionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ordered returns the selected entries in catalog order
func (s SelectionSet) Ordered(entries []ApplicationEntry) []ApplicationEntry {
	var out []ApplicationEntry
	for _, e := range entries {
		if s[e.ID] {
			out = append(out, e)
		}
	}
	return out
}
