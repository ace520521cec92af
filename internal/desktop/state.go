package desktop

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"creativesuite/internal/models"
)

// stateVersion is bumped when the JSON layout changes incompatibly
const stateVersion = 1

// BundleState records every file this tool wrote so it can be removed
// again without touching anything else.
type BundleState struct {
	Version       int                 `json:"version"`
	DirectoryFile string              `json:"directory_file,omitempty"`
	MenuFile      string              `json:"menu_file,omitempty"`
	SuiteIcon     string              `json:"suite_icon,omitempty"`
	Apps          map[string]AppState `json:"apps"`
}

// AppState tracks the integration of a single application
type AppState struct {
	DesktopFile string        `json:"desktop_file"`
	IconFile    string        `json:"icon_file,omitempty"`
	Method      models.Method `json:"method"`
	Manager     string        `json:"manager"`
	Overrides   []string      `json:"overrides,omitempty"`
	AddedAt     time.Time     `json:"added_at"`
}

// Files returns every path recorded for the application
func (a AppState) Files() []string {
	files := []string{a.DesktopFile}
	if a.IconFile != "" {
		files = append(files, a.IconFile)
	}
	return append(files, a.Overrides...)
}

// IDs returns the bundled application ids sorted
func (s *BundleState) IDs() []string {
	ids := make([]string, 0, len(s.Apps))
	for id := range s.Apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the bundle holds nothing at all
func (s *BundleState) Empty() bool {
	return len(s.Apps) == 0 && s.DirectoryFile == "" && s.MenuFile == "" && s.SuiteIcon == ""
}

// StateManager handles loading and saving bundle state
type StateManager struct {
	statePath string
	state     *BundleState
}

// NewStateManager creates a StateManager for the file at statePath
func NewStateManager(statePath string) *StateManager {
	return &StateManager{
		statePath: statePath,
		state:     newState(),
	}
}

func newState() *BundleState {
	return &BundleState{Version: stateVersion, Apps: make(map[string]AppState)}
}

// Path returns the state file location
func (s *StateManager) Path() string {
	return s.statePath
}

// Load loads the bundle state from disk. A missing file is an empty bundle.
func (s *StateManager) Load() error {
	s.state = newState()

	data, err := os.ReadFile(s.statePath)
	if os.IsNotExist(err) {
		// No state file yet - that's OK
		return nil
	}
	if err != nil {
		return err
	}

	var loaded BundleState
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.statePath, err)
	}
	if loaded.Version > stateVersion {
		return fmt.Errorf("%s: state version %d is newer than supported %d", s.statePath, loaded.Version, stateVersion)
	}
	if loaded.Apps == nil {
		loaded.Apps = make(map[string]AppState)
	}
	loaded.Version = stateVersion
	s.state = &loaded
	return nil
}

// Save writes the state to disk. The file is left untouched when its
// content would not change.
func (s *StateManager) Save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(s.statePath); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.statePath), 0755); err != nil {
		return err
	}
	return writeFileAtomic(s.statePath, data)
}

// Delete removes the state file and resets the in-memory state
func (s *StateManager) Delete() error {
	s.state = newState()
	if err := os.Remove(s.statePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// State returns the current state
func (s *StateManager) State() *BundleState {
	return s.state
}

// GetApp returns the state of one application
func (s *StateManager) GetApp(id string) (AppState, bool) {
	app, ok := s.state.Apps[id]
	return app, ok
}

// SetApp records an application, keeping its original AddedAt
func (s *StateManager) SetApp(id string, app AppState) {
	if prev, ok := s.state.Apps[id]; ok && !prev.AddedAt.IsZero() {
		app.AddedAt = prev.AddedAt
	}
	if app.AddedAt.IsZero() {
		app.AddedAt = time.Now().UTC().Truncate(time.Second)
	}
	s.state.Apps[id] = app
}

// RemoveApp forgets an application
func (s *StateManager) RemoveApp(id string) {
	delete(s.state.Apps, id)
}

// writeFileAtomic writes data next to path and renames it into place
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
