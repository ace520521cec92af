package components

import (
	"errors"
	"strings"
	"testing"

	"creativesuite/internal/models"
	"creativesuite/internal/resolver"
	"creativesuite/internal/ui"
)

func testResolutions() []resolver.Resolution {
	return []resolver.Resolution{
		{
			Entry: models.ApplicationEntry{ID: "kdenlive", Name: "Kdenlive", Category: "AudioVideo", AdobeEquivalent: "Premiere Pro"},
			Plan:  resolver.Plan{EntryID: "kdenlive", Method: models.MethodNative, Manager: "apt"},
		},
		{
			Entry: models.ApplicationEntry{ID: "gimp", Name: "GIMP", Category: "Graphics", AdobeEquivalent: "Photoshop"},
			Plan:  resolver.Plan{EntryID: "gimp", Method: models.MethodNative, Manager: "apt"},
		},
		{
			Entry: models.ApplicationEntry{ID: "natron", Name: "Natron", Category: "AudioVideo", AdobeEquivalent: "After Effects"},
			Err:   errors.New("no install method available"),
		},
		{
			Entry: models.ApplicationEntry{ID: "inkscape", Name: "Inkscape", Category: "Graphics", AdobeEquivalent: "Illustrator"},
			Plan:  resolver.Plan{EntryID: "inkscape", Method: models.MethodFlatpak, Manager: "flatpak"},
		},
	}
}

func TestRowsFromResolutions_GroupsByCategory(t *testing.T) {
	rows := RowsFromResolutions(testResolutions(), []string{"gimp"})

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.Entry.ID)
	}
	want := []string{"gimp", "inkscape", "kdenlive", "natron"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("Expected order %v, got %v", want, ids)
	}
	if !rows[0].InBundle {
		t.Error("gimp should be marked as in bundle")
	}
	if rows[3].Available {
		t.Error("natron should be unavailable")
	}
}

func TestNewAppList_DropsUnavailableFromSelection(t *testing.T) {
	rows := RowsFromResolutions(testResolutions(), nil)
	list := NewAppList(rows, models.NewSelection("gimp", "natron"))

	if !list.Selection.Has("gimp") {
		t.Error("gimp should stay selected")
	}
	if list.Selection.Has("natron") {
		t.Error("natron can't be installed and should be dropped")
	}
}

func TestAppList_Navigation(t *testing.T) {
	list := NewAppList(RowsFromResolutions(testResolutions(), nil), nil)

	list.MoveUp()
	if list.Cursor != 0 {
		t.Errorf("Cursor should stay at 0, got %d", list.Cursor)
	}

	list.MoveDown()
	list.MoveDown()
	if list.Cursor != 2 {
		t.Errorf("Expected cursor at 2, got %d", list.Cursor)
	}

	list.GoToLast()
	list.MoveDown()
	if list.Cursor != 3 {
		t.Errorf("Cursor should stop at the last row, got %d", list.Cursor)
	}

	list.GoToFirst()
	if list.Cursor != 0 {
		t.Errorf("Expected cursor at 0, got %d", list.Cursor)
	}

	list.Height = 4
	list.PageDown()
	if list.Cursor != 1 {
		t.Errorf("Expected cursor at 1 after a page, got %d", list.Cursor)
	}
	list.PageUp()
	if list.Cursor != 0 {
		t.Errorf("Expected cursor at 0 after paging up, got %d", list.Cursor)
	}
}

func TestAppList_Toggle(t *testing.T) {
	list := NewAppList(RowsFromResolutions(testResolutions(), nil), nil)

	if !list.Toggle() {
		t.Fatal("Toggling an available row should succeed")
	}
	if !list.Selection.Has("gimp") {
		t.Error("gimp should be selected")
	}
	list.Toggle()
	if list.Selection.Has("gimp") {
		t.Error("gimp should be deselected")
	}

	list.GoToLast()
	if list.Toggle() {
		t.Error("Unavailable row should not toggle")
	}
	if list.Selection.Has("natron") {
		t.Error("natron must not be selected")
	}
}

func TestAppList_SelectAllAndNone(t *testing.T) {
	list := NewAppList(RowsFromResolutions(testResolutions(), nil), nil)

	list.SelectAll()
	if len(list.SelectedRows()) != 3 {
		t.Errorf("Expected 3 selectable rows, got %d", len(list.SelectedRows()))
	}
	if list.Selection.Has("natron") {
		t.Error("Select all must skip unavailable rows")
	}

	list.DeselectAll()
	if len(list.SelectedRows()) != 0 {
		t.Errorf("Expected empty selection, got %d", len(list.SelectedRows()))
	}

	list.SetSelection(models.NewSelection("inkscape", "natron"))
	if len(list.SelectedRows()) != 1 || list.SelectedRows()[0].Entry.ID != "inkscape" {
		t.Errorf("Unexpected selection %v", list.Selection.IDs())
	}
}

func TestAppList_View(t *testing.T) {
	list := NewAppList(RowsFromResolutions(testResolutions(), nil), models.NewSelection("gimp"))
	list.Width = 90
	list.Height = 20

	view := ui.StripANSI(list.View())

	for _, want := range []string{"Applications (1/4)", "Graphics & Photography", "Audio & Video", "Photoshop", "[flatpak]", "unavailable"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestAppList_ViewEmpty(t *testing.T) {
	list := NewAppList(nil, nil)
	if !strings.Contains(ui.StripANSI(list.View()), "No applications") {
		t.Error("Empty list should say so")
	}
}

func TestAppList_MarkInstalled(t *testing.T) {
	list := NewAppList(RowsFromResolutions(testResolutions(), []string{"gimp"}), nil)
	list.Width = 90
	list.MarkInstalled(map[string]bool{"inkscape": true})

	for _, row := range list.Rows {
		if row.Installed != (row.Entry.ID == "inkscape") {
			t.Errorf("%s: Installed = %v", row.Entry.ID, row.Installed)
		}
	}

	for _, line := range strings.Split(ui.StripANSI(list.View()), "\n") {
		switch {
		case strings.Contains(line, "Inkscape") && !strings.Contains(line, "installed"):
			t.Errorf("Inkscape row should say installed: %q", line)
		case strings.Contains(line, "GIMP") && strings.Contains(line, "installed"):
			t.Errorf("GIMP is bundled but not installed: %q", line)
		}
	}

	list.MarkInstalled(nil)
	for _, row := range list.Rows {
		if row.Installed {
			t.Errorf("%s should be cleared", row.Entry.ID)
		}
	}
}
