package catalog

import (
	"path/filepath"
	"testing"

	"creativesuite/internal/models"
)

func TestStoreAddAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.yaml")
	store := NewStore(path)

	def := models.AppDefinition{
		ID:       "lmms",
		Name:     "LMMS",
		Category: "AudioVideo",
		Packages: map[string]models.PackageList{"apt": {"lmms"}},
	}

	if err := store.Add(def); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	defs, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("Expected 1 definition, got %d", len(defs))
	}
	if defs[0].ID != "lmms" {
		t.Errorf("Expected id lmms, got %s", defs[0].ID)
	}
	if got := defs[0].Packages["apt"]; len(got) != 1 || got[0] != "lmms" {
		t.Errorf("Expected apt [lmms], got %v", got)
	}

	if err := store.Add(def); err == nil {
		t.Error("Expected duplicate id error")
	}
}

func TestStoreAddValidation(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "apps.yaml"))

	if err := store.Add(models.AppDefinition{ID: "x", Name: "X", Category: "Graphics"}); err == nil {
		t.Error("Expected error when no packages are declared")
	}
}

func TestStoreEmptyPath(t *testing.T) {
	store := NewStore("  ")

	defs, err := store.Load()
	if err != nil || len(defs) != 0 {
		t.Errorf("Expected empty overlay, got %v, %v", defs, err)
	}
	if err := store.Add(models.AppDefinition{ID: "x"}); err == nil {
		t.Error("Expected error without a path")
	}
}
