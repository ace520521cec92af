package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"creativesuite/internal/models"

	"gopkg.in/yaml.v3"
)

// Store persists user-defined catalog entries in a YAML file.
type Store struct {
	path string
}

// NewStore creates a store backed by path. An empty path disables the overlay.
func NewStore(path string) *Store {
	return &Store{path: strings.TrimSpace(path)}
}

// Path returns the overlay location
func (s *Store) Path() string {
	return s.path
}

// Load returns all overlay definitions.
func (s *Store) Load() ([]models.AppDefinition, error) {
	if s.path == "" {
		return []models.AppDefinition{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.AppDefinition{}, nil
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Apps == nil {
		return []models.AppDefinition{}, nil
	}

	// Relative icons in the overlay resolve next to the overlay file
	dir := filepath.Dir(s.path)
	for i := range f.Apps {
		icon := strings.TrimSpace(f.Apps[i].Icon)
		if icon != "" && !filepath.IsAbs(icon) {
			f.Apps[i].Icon = filepath.Join(dir, icon)
		}
	}
	return f.Apps, nil
}

// Add appends a definition to the overlay.
func (s *Store) Add(def models.AppDefinition) error {
	if s.path == "" {
		return fmt.Errorf("no overlay path configured")
	}
	def, err := sanitizeDefinition(def)
	if err != nil {
		return err
	}

	existing, err := s.Load()
	if err != nil {
		return err
	}

	for _, d := range existing {
		if strings.EqualFold(d.ID, def.ID) {
			return fmt.Errorf("custom app with id %q already exists", def.ID)
		}
	}

	existing = append(existing, def)
	return s.save(existing)
}

func (s *Store) save(defs []models.AppDefinition) error {
	data, err := yaml.Marshal(File{Apps: defs})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
