package models

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

// ============ ApplicationEntry Tests ============

func TestPackageList_ScalarAndSequence(t *testing.T) {
	input := `
id: gimp
name: GIMP
category: Graphics
packages:
  apt: gimp
  pacman: [gimp, gimp-help-en]
  flatpak: " org.gimp.GIMP "
  snap: []
`
	var def AppDefinition
	if err := yaml.Unmarshal([]byte(input), &def); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got := def.Packages["apt"]; len(got) != 1 || got[0] != "gimp" {
		t.Errorf("Expected apt [gimp], got %v", got)
	}
	if got := def.Packages["pacman"]; len(got) != 2 || got[1] != "gimp-help-en" {
		t.Errorf("Expected two pacman packages, got %v", got)
	}
	if got := def.Packages["flatpak"]; len(got) != 1 || got[0] != "org.gimp.GIMP" {
		t.Errorf("Expected trimmed flatpak id, got %v", got)
	}
	if got := def.Packages["snap"]; len(got) != 0 {
		t.Errorf("Expected empty snap list, got %v", got)
	}
}

func TestPackageList_RejectsMapping(t *testing.T) {
	input := "packages:\n  apt:\n    name: gimp\n"
	var def AppDefinition
	if err := yaml.Unmarshal([]byte(input), &def); err == nil {
		t.Error("Expected error for mapping package value")
	}
}

func TestPackageList_MarshalSingle(t *testing.T) {
	out, err := yaml.Marshal(map[string]PackageList{"apt": {"gimp"}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "apt: gimp\n" {
		t.Errorf("Expected scalar form, got %q", out)
	}
}

func TestNewEntry(t *testing.T) {
	def := AppDefinition{
		ID:       "inkscape",
		Name:     "Inkscape",
		Category: "Graphics",
		Packages: map[string]PackageList{
			"APT":     {"inkscape"},
			"flatpak": {"org.inkscape.Inkscape"},
			"snap":    {},
		},
	}

	entry := NewEntry(def)

	if entry.Exec != "inkscape" {
		t.Errorf("Expected exec to default to id, got %q", entry.Exec)
	}
	if !entry.HasPackages("apt") {
		t.Error("Expected manager names to be lowercased")
	}
	if entry.HasPackages("snap") {
		t.Error("Expected empty package lists to be dropped")
	}

	// The entry must not alias the definition's slices
	def.Packages["flatpak"][0] = "changed"
	if entry.Packages("flatpak")[0] != "org.inkscape.Inkscape" {
		t.Error("Entry shares package storage with its definition")
	}
}

func TestFieldCodes(t *testing.T) {
	tests := []struct {
		exec string
		want []string
	}{
		{"gimp %U", []string{"%U"}},
		{"krita %F --nosplash", []string{"%F"}},
		{"audacity", nil},
		{"obs --startreplaybuffer %u %i", []string{"%u", "%i"}},
	}

	for _, tt := range tests {
		t.Run(tt.exec, func(t *testing.T) {
			got := ApplicationEntry{Exec: tt.exec}.FieldCodes()
			if len(got) != len(tt.want) {
				t.Fatalf("FieldCodes(%q) = %v, want %v", tt.exec, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FieldCodes(%q)[%d] = %q, want %q", tt.exec, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLabel(t *testing.T) {
	e := ApplicationEntry{Name: "GIMP", AdobeEquivalent: "Photoshop"}
	if got := e.Label(); got != "GIMP (Photoshop alternative)" {
		t.Errorf("Unexpected label %q", got)
	}
	e.AdobeEquivalent = ""
	if got := e.Label(); got != "GIMP" {
		t.Errorf("Unexpected label %q", got)
	}
}

// ============ Method Tests ============

func TestMethodString(t *testing.T) {
	tests := []struct {
		method Method
		want   string
	}{
		{MethodNative, "native"},
		{MethodFlatpak, "flatpak"},
		{MethodSnap, "snap"},
		{MethodNone, "none"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("Method(%d).String() = %s, want %s", tt.method, got, tt.want)
		}
		parsed, err := ParseMethod(tt.want)
		if err != nil || parsed != tt.method {
			t.Errorf("ParseMethod(%s) = %v, %v", tt.want, parsed, err)
		}
	}

	if _, err := ParseMethod("brew"); err == nil {
		t.Error("Expected error for unknown method")
	}
}

func TestPreferenceOrder(t *testing.T) {
	order := PreferenceOrder()
	if len(order) != 3 || order[0] != MethodNative || order[1] != MethodFlatpak || order[2] != MethodSnap {
		t.Errorf("Unexpected preference order %v", order)
	}
}

func TestMethodJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		M Method `json:"m"`
	}{MethodFlatpak})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"m":"flatpak"}` {
		t.Errorf("Unexpected JSON %s", data)
	}
}

func TestIsNativeManager(t *testing.T) {
	for _, m := range NativeManagers() {
		if !IsNativeManager(m) {
			t.Errorf("Expected %s to be native", m)
		}
	}
	if IsNativeManager(ManagerFlatpak) || IsNativeManager(ManagerSnap) {
		t.Error("flatpak and snap are not native managers")
	}
}

// ============ Result Tests ============

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
		icon   string
	}{
		{StatusSuccess, "Success", "✓"},
		{StatusFailed, "Failed", "✗"},
		{StatusSkipped, "Skipped", "○"},
		{Status(99), "Unknown", "?"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %s, want %s", tt.status, got, tt.want)
		}
		if got := tt.status.StatusIcon(); got != tt.icon {
			t.Errorf("Status(%d).StatusIcon() = %s, want %s", tt.status, got, tt.icon)
		}
	}
}

func TestCountByStatus(t *testing.T) {
	results := []InstallResult{
		{EntryID: "gimp", Status: StatusSuccess},
		{EntryID: "inkscape", Status: StatusFailed},
		{EntryID: "krita", Status: StatusSkipped},
		{EntryID: "blender", Status: StatusSuccess},
	}
	s, f, k := CountByStatus(results)
	if s != 2 || f != 1 || k != 1 {
		t.Errorf("CountByStatus = %d/%d/%d, want 2/1/1", s, f, k)
	}
}

func TestSelectionSet(t *testing.T) {
	sel := NewSelection("gimp", "krita")
	sel.Toggle("krita")
	sel.Toggle("inkscape")

	if sel.Has("krita") {
		t.Error("krita should have been toggled off")
	}
	ids := sel.IDs()
	if len(ids) != 2 || ids[0] != "gimp" || ids[1] != "inkscape" {
		t.Errorf("Unexpected ids %v", ids)
	}

	entries := []ApplicationEntry{{ID: "inkscape"}, {ID: "krita"}, {ID: "gimp"}}
	ordered := sel.Ordered(entries)
	if len(ordered) != 2 || ordered[0].ID != "inkscape" || ordered[1].ID != "gimp" {
		t.Errorf("Ordered should follow catalog order, got %v", ordered)
	}
}
