package components

import (
	"strings"
	"testing"

	"creativesuite/internal/desktop"
	"creativesuite/internal/models"
	"creativesuite/internal/ui"
)

func testReport() desktop.AppReport {
	entry := "[Desktop Entry]\nType=Application\nName=GIMP\nExec=gimp %U\n"
	return desktop.AppReport{
		EntryID: "gimp",
		Method:  models.MethodNative,
		Files: []desktop.FileChange{
			{
				Path:    "/home/u/.local/share/icons/creative-suite-gimp.svg",
				Kind:    desktop.KindIcon,
				Action:  desktop.ActionCreate,
				Content: make([]byte, 2048),
			},
			{
				Path:    "/home/u/.local/share/applications/creative-suite-gimp.desktop",
				Kind:    desktop.KindEntry,
				Action:  desktop.ActionUpdate,
				Content: []byte(entry),
				Diff:    desktop.ComputeDiff("[Desktop Entry]\nName=GIMP\n", entry, true),
			},
		},
	}
}

func TestNewEntryPreview(t *testing.T) {
	p := NewEntryPreview()
	if p.Width != 80 || p.Height != 20 {
		t.Errorf("Unexpected default size %dx%d", p.Width, p.Height)
	}
}

func TestEntryPreview_SetReport(t *testing.T) {
	p := NewEntryPreview()
	p.SetSize(100, 30)
	p.SetReport("GIMP", testReport())

	// icon header + info, blank, entry header + 4 content lines
	if p.TotalLines != 8 {
		t.Errorf("Expected 8 lines, got %d", p.TotalLines)
	}

	view := ui.StripANSI(p.View())
	for _, want := range []string{"GIMP", "Created", "creative-suite-gimp.svg", "2.0 KB", "Updated", "(+2)", "Exec=gimp %U"} {
		if !strings.Contains(view, want) {
			t.Errorf("Preview should contain %q", want)
		}
	}
}

func TestEntryPreview_SetMessage(t *testing.T) {
	p := NewEntryPreview()
	p.SetMessage("Natron", "", "No install method is available on this system.")

	if p.TotalLines != 2 {
		t.Errorf("Expected 2 lines, got %d", p.TotalLines)
	}
	if !strings.Contains(ui.StripANSI(p.View()), "No install method") {
		t.Error("Preview should show the message")
	}
}

func TestEntryPreview_Scroll(t *testing.T) {
	p := NewEntryPreview()
	p.SetSize(80, 10)

	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "line"
	}
	p.SetMessage("long", lines...)

	if !p.AtTop() {
		t.Fatal("Preview should start at the top")
	}
	p.ScrollDown()
	if p.AtTop() {
		t.Error("Preview should have scrolled")
	}
	p.ScrollUp()
	if !p.AtTop() {
		t.Error("Preview should be back at the top")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1536 * 1024, "1.5 MB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
