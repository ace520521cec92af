package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"creativesuite/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed assets
var assets embed.FS

var (
	// ErrUnknownApp is returned when an id is not in the catalog
	ErrUnknownApp = errors.New("unknown application")
	// ErrInvalidCatalog wraps every validation and parse failure
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// DefaultMenuCategory is the custom desktop-menu category of the bundle
const DefaultMenuCategory = "X-Creative-Suite"

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Suite describes the bundle itself
type Suite struct {
	Name     string `yaml:"name"`
	Comment  string `yaml:"comment"`
	Category string `yaml:"category"`
	Icon     string `yaml:"icon"`
}

// File is the YAML structure of a catalog document
type File struct {
	Suite Suite                  `yaml:"suite,omitempty"`
	Apps  []models.AppDefinition `yaml:"apps"`
}

// Catalog is the immutable set of applications offered by the installer
type Catalog struct {
	Suite   Suite
	entries []models.ApplicationEntry
	index   map[string]int
	assets  fs.FS
}

// Builtin returns the catalog compiled into the binary
func Builtin() (*Catalog, error) {
	data, err := fs.ReadFile(assets, "assets/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	root, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, err
	}
	return Parse(data, root)
}

// Load returns the built-in catalog extended with the user overlay at
// overlayPath. A missing overlay is not an error.
func Load(overlayPath string) (*Catalog, error) {
	c, err := Builtin()
	if err != nil {
		return nil, err
	}

	defs, err := NewStore(overlayPath).Load()
	if err != nil {
		return nil, fmt.Errorf("%w: overlay %s: %v", ErrInvalidCatalog, overlayPath, err)
	}
	for _, def := range defs {
		if err := c.add(def); err != nil {
			return nil, fmt.Errorf("overlay %s: %w", overlayPath, err)
		}
	}
	return c, nil
}

// Parse builds a catalog from YAML. Relative icon paths resolve against icons.
func Parse(data []byte, icons fs.FS) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	suite := f.Suite
	if strings.TrimSpace(suite.Name) == "" {
		suite.Name = "Creative Suite"
	}
	if strings.TrimSpace(suite.Category) == "" {
		suite.Category = DefaultMenuCategory
	}

	c := &Catalog{
		Suite:  suite,
		index:  make(map[string]int),
		assets: icons,
	}
	for _, def := range f.Apps {
		if err := c.add(def); err != nil {
			return nil, err
		}
	}
	if len(c.entries) == 0 {
		return nil, fmt.Errorf("%w: no applications defined", ErrInvalidCatalog)
	}
	return c, nil
}

func (c *Catalog) add(def models.AppDefinition) error {
	def, err := sanitizeDefinition(def)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if _, exists := c.index[def.ID]; exists {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, def.ID)
	}
	c.index[def.ID] = len(c.entries)
	c.entries = append(c.entries, models.NewEntry(def))
	return nil
}

func sanitizeDefinition(def models.AppDefinition) (models.AppDefinition, error) {
	def.ID = strings.TrimSpace(def.ID)
	def.Name = strings.TrimSpace(def.Name)
	def.Category = strings.TrimSpace(def.Category)
	def.Icon = strings.TrimSpace(def.Icon)

	if def.ID == "" {
		return def, fmt.Errorf("id is required")
	}
	if !idPattern.MatchString(def.ID) {
		return def, fmt.Errorf("id %q must be lowercase letters, digits, '.', '_' or '-'", def.ID)
	}
	if def.Name == "" {
		return def, fmt.Errorf("%s: name is required", def.ID)
	}
	if def.Category == "" {
		return def, fmt.Errorf("%s: category is required", def.ID)
	}

	declared := 0
	for _, list := range def.Packages {
		declared += len(list)
	}
	if declared == 0 {
		return def, fmt.Errorf("%s: at least one package id is required", def.ID)
	}

	return def, nil
}

// Entries returns all entries in catalog order
func (c *Catalog) Entries() []models.ApplicationEntry {
	out := make([]models.ApplicationEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get looks up one entry by id
func (c *Catalog) Get(id string) (models.ApplicationEntry, error) {
	i, ok := c.index[id]
	if !ok {
		return models.ApplicationEntry{}, fmt.Errorf("%w: %q", ErrUnknownApp, id)
	}
	return c.entries[i], nil
}

// Select resolves ids to entries in catalog order. Unknown ids fail the
// whole call so a typo on the command line never installs a partial set.
func (c *Catalog) Select(ids []string) ([]models.ApplicationEntry, error) {
	sel := models.NewSelection()
	for _, id := range ids {
		if _, err := c.Get(id); err != nil {
			return nil, err
		}
		sel[id] = true
	}
	return sel.Ordered(c.entries), nil
}

// DefaultSelection returns the entries marked default_selected
func (c *Catalog) DefaultSelection() models.SelectionSet {
	sel := models.NewSelection()
	for _, e := range c.entries {
		if e.DefaultSelected {
			sel[e.ID] = true
		}
	}
	return sel
}

// Icon returns the icon bytes and file extension for an entry
func (c *Catalog) Icon(entry models.ApplicationEntry) ([]byte, string, error) {
	return c.readIcon(entry.IconPath)
}

// SuiteIcon returns the bundle icon
func (c *Catalog) SuiteIcon() ([]byte, string, error) {
	return c.readIcon(c.Suite.Icon)
}

func (c *Catalog) readIcon(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("no icon")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if filepath.IsAbs(path) {
		data, err := os.ReadFile(path)
		return data, ext, err
	}
	if c.assets == nil {
		return nil, "", fmt.Errorf("icon %s: no asset root", path)
	}
	data, err := fs.ReadFile(c.assets, filepath.ToSlash(path))
	return data, ext, err
}

// GroupByCategory groups entries by their category
func GroupByCategory(entries []models.ApplicationEntry) map[string][]models.ApplicationEntry {
	groups := make(map[string][]models.ApplicationEntry)

	for _, e := range entries {
		category := e.Category
		if _, known := CategoryNames()[category]; !known {
			category = "Other"
		}
		groups[category] = append(groups[category], e)
	}

	return groups
}

// CategoryOrder returns the preferred order of categories
func CategoryOrder() []string {
	return []string{
		"Graphics",
		"AudioVideo",
		"Office",
		"Other",
	}
}

// CategoryNames returns display names for categories
func CategoryNames() map[string]string {
	return map[string]string{
		"Graphics":   "Graphics & Photography",
		"AudioVideo": "Audio & Video",
		"Office":     "Publishing",
		"Other":      "Other",
	}
}
