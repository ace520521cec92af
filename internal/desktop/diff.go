package desktop

import (
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffType represents the type of diff operation
type DiffType int

const (
	DiffEqual DiffType = iota
	DiffInsert
	DiffDelete
)

// DiffLine represents a single line in the diff
type DiffLine struct {
	Type    DiffType
	Content string
}

// DiffResult is the line diff between the file on disk and the file we
// would write.
type DiffResult struct {
	OldExists    bool
	Identical    bool
	Lines        []DiffLine
	LinesAdded   int
	LinesRemoved int
}

// ComputeDiff diffs two texts line by line with go-diff
func ComputeDiff(oldText, newText string, oldExists bool) *DiffResult {
	result := &DiffResult{OldExists: oldExists}

	if oldExists && oldText == newText {
		result.Identical = true
		return result
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")

		var t DiffType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			t = DiffInsert
			result.LinesAdded += len(lines)
		case diffmatchpatch.DiffDelete:
			t = DiffDelete
			result.LinesRemoved += len(lines)
		default:
			t = DiffEqual
		}
		for _, line := range lines {
			result.Lines = append(result.Lines, DiffLine{Type: t, Content: line})
		}
	}

	result.Identical = oldExists && result.LinesAdded == 0 && result.LinesRemoved == 0
	return result
}

// FormatUnifiedDiff formats the diff result with +/- prefixes
func FormatUnifiedDiff(path string, result *DiffResult) string {
	var sb strings.Builder

	if result.OldExists {
		sb.WriteString("--- " + path + "\n")
	} else {
		sb.WriteString("--- /dev/null\n")
	}
	sb.WriteString("+++ " + path + "\n")

	for _, line := range result.Lines {
		switch line.Type {
		case DiffEqual:
			sb.WriteString(" " + line.Content + "\n")
		case DiffInsert:
			sb.WriteString("+" + line.Content + "\n")
		case DiffDelete:
			sb.WriteString("-" + line.Content + "\n")
		}
	}

	return sb.String()
}

// HasChanges returns true if there are any changes
func (d *DiffResult) HasChanges() bool {
	return !d.Identical
}

// Summary returns a brief summary of changes
func (d *DiffResult) Summary() string {
	if d.Identical {
		return "No changes"
	}

	var parts []string
	if d.LinesAdded > 0 {
		parts = append(parts, "+"+strconv.Itoa(d.LinesAdded))
	}
	if d.LinesRemoved > 0 {
		parts = append(parts, "-"+strconv.Itoa(d.LinesRemoved))
	}
	return strings.Join(parts, " ")
}
