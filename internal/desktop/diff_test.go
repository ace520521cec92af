package desktop

import (
	"strings"
	"testing"
)

func TestComputeDiff_Identical(t *testing.T) {
	d := ComputeDiff("a\nb\n", "a\nb\n", true)
	if !d.Identical || d.HasChanges() {
		t.Error("Expected identical")
	}
	if d.Summary() != "No changes" {
		t.Errorf("Unexpected summary %q", d.Summary())
	}
}

func TestComputeDiff_NewFile(t *testing.T) {
	d := ComputeDiff("", "a\nb\n", false)
	if d.Identical {
		t.Error("A missing file is never identical")
	}
	if d.LinesAdded != 2 || d.LinesRemoved != 0 {
		t.Errorf("Expected +2, got +%d -%d", d.LinesAdded, d.LinesRemoved)
	}
	if !strings.HasPrefix(FormatUnifiedDiff("/x", d), "--- /dev/null\n+++ /x\n") {
		t.Error("New files diff against /dev/null")
	}
}

func TestComputeDiff_Changed(t *testing.T) {
	d := ComputeDiff("Name=A\nExec=a\n", "Name=A\nExec=flatpak run a\n", true)
	if d.LinesAdded != 1 || d.LinesRemoved != 1 {
		t.Errorf("Expected +1 -1, got +%d -%d", d.LinesAdded, d.LinesRemoved)
	}
	if d.Summary() != "+1 -1" {
		t.Errorf("Unexpected summary %q", d.Summary())
	}

	out := FormatUnifiedDiff("/x", d)
	if !strings.Contains(out, "-Exec=a\n") || !strings.Contains(out, "+Exec=flatpak run a\n") || !strings.Contains(out, " Name=A\n") {
		t.Errorf("Unexpected unified diff:\n%s", out)
	}
}
