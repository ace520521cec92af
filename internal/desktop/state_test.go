package desktop

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"creativesuite/internal/models"
)

func TestStateManager_LoadMissing(t *testing.T) {
	sm := NewStateManager(filepath.Join(t.TempDir(), "state.json"))
	if err := sm.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !sm.State().Empty() {
		t.Error("Missing state should be empty")
	}
}

func TestStateManager_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	sm := NewStateManager(path)

	sm.SetApp("gimp", AppState{DesktopFile: "/a/creative-suite-gimp.desktop", Method: models.MethodSnap, Manager: "snap"})
	sm.State().DirectoryFile = "/d/X-Creative-Suite.directory"
	if err := sm.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := NewStateManager(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	app, ok := loaded.GetApp("gimp")
	if !ok {
		t.Fatal("Expected gimp in state")
	}
	if app.Method != models.MethodSnap || app.Manager != "snap" {
		t.Errorf("Unexpected app state %+v", app)
	}
	if app.AddedAt.IsZero() {
		t.Error("AddedAt should be set")
	}
	if loaded.State().DirectoryFile != "/d/X-Creative-Suite.directory" {
		t.Error("DirectoryFile not persisted")
	}
}

func TestStateManager_KeepsAddedAt(t *testing.T) {
	sm := NewStateManager(filepath.Join(t.TempDir(), "state.json"))
	added := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sm.SetApp("gimp", AppState{DesktopFile: "x", AddedAt: added})
	sm.SetApp("gimp", AppState{DesktopFile: "y"})

	app, _ := sm.GetApp("gimp")
	if !app.AddedAt.Equal(added) {
		t.Errorf("Expected AddedAt %v, got %v", added, app.AddedAt)
	}
	if app.DesktopFile != "y" {
		t.Error("Other fields should be replaced")
	}
}

func TestStateManager_RejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "apps": {}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewStateManager(path).Load(); err == nil {
		t.Error("Expected error for newer state version")
	}
}

func TestStateManager_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	sm := NewStateManager(path)
	sm.SetApp("gimp", AppState{DesktopFile: "x"})
	if err := sm.Save(); err != nil {
		t.Fatal(err)
	}

	if err := sm.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("State file should be gone")
	}
	if err := sm.Delete(); err != nil {
		t.Errorf("Deleting twice should be fine: %v", err)
	}
}

func TestAppStateFiles(t *testing.T) {
	a := AppState{DesktopFile: "e", IconFile: "i", Overrides: []string{"o1", "o2"}}
	files := a.Files()
	if len(files) != 4 || files[0] != "e" || files[3] != "o2" {
		t.Errorf("Unexpected files %v", files)
	}
}
