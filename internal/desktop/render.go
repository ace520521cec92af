package desktop

import (
	"fmt"
	"strings"

	"creativesuite/internal/catalog"
	"creativesuite/internal/models"
)

// File name conventions shared by every bundle artifact
const (
	filePrefix     = "creative-suite-"
	overrideMarker = "X-Creative-Suite-Override"
	menuFileName   = "creative-suite.menu"
)

// EntryFileName returns the desktop file name for an application
func EntryFileName(id string) string {
	return filePrefix + id + ".desktop"
}

// IconFileName returns the icon file name for an application
func IconFileName(id, ext string) string {
	return filePrefix + id + ext
}

// DirectoryFileName returns the .directory name for a menu category
func DirectoryFileName(category string) string {
	return category + ".directory"
}

// ExecLine returns the launch command for an entry installed with method
func ExecLine(entry models.ApplicationEntry, method models.Method, manager string) string {
	var parts []string
	switch method {
	case models.MethodFlatpak, models.MethodSnap:
		pkgs := entry.Packages(manager)
		if len(pkgs) == 0 {
			return entry.Exec
		}
		parts = append(parts, manager, "run", pkgs[0])
		parts = append(parts, entry.FieldCodes()...)
	default:
		return entry.Exec
	}
	return strings.Join(parts, " ")
}

// RenderEntry produces the bundle desktop entry. Output depends only on
// its inputs so repeated runs produce identical bytes.
func RenderEntry(entry models.ApplicationEntry, suite catalog.Suite, method models.Method, manager, iconPath string) []byte {
	var b strings.Builder

	comment := entry.Description
	if entry.AdobeEquivalent != "" {
		if comment != "" {
			comment += " "
		}
		comment += fmt.Sprintf("(%s alternative)", entry.AdobeEquivalent)
	}

	b.WriteString("[Desktop Entry]\n")
	writeKey(&b, "Version", "1.0")
	writeKey(&b, "Type", "Application")
	writeKey(&b, "Name", entry.Name)
	writeKey(&b, "GenericName", entry.GenericName)
	writeKey(&b, "Comment", comment)
	writeKey(&b, "Exec", ExecLine(entry, method, manager))
	writeKey(&b, "Icon", iconPath)
	writeKey(&b, "Terminal", "false")
	writeList(&b, "Categories", []string{entry.Category, suite.Category})
	writeList(&b, "Keywords", entry.Keywords)
	writeKey(&b, "StartupNotify", "true")
	writeKey(&b, "X-Creative-Suite-App", entry.ID)
	writeKey(&b, "X-Creative-Suite-Method", method.String())

	return []byte(b.String())
}

// RenderDirectory produces the .directory file naming the menu category
func RenderDirectory(suite catalog.Suite, iconPath string) []byte {
	var b strings.Builder

	b.WriteString("[Desktop Entry]\n")
	writeKey(&b, "Version", "1.0")
	writeKey(&b, "Type", "Directory")
	writeKey(&b, "Name", suite.Name)
	writeKey(&b, "Comment", suite.Comment)
	writeKey(&b, "Icon", iconPath)

	return []byte(b.String())
}

// RenderMenu produces the merged menu fragment that makes the category
// visible as a submenu of Applications.
func RenderMenu(suite catalog.Suite) []byte {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE Menu PUBLIC "-//freedesktop//DTD Menu 1.0//EN"` + "\n")
	b.WriteString(` "http://www.freedesktop.org/standards/menu-spec/1.0/menu.dtd">` + "\n")
	b.WriteString("<Menu>\n")
	b.WriteString("  <Name>Applications</Name>\n")
	b.WriteString("  <Menu>\n")
	fmt.Fprintf(&b, "    <Name>%s</Name>\n", xmlEscape(suite.Name))
	fmt.Fprintf(&b, "    <Directory>%s</Directory>\n", xmlEscape(DirectoryFileName(suite.Category)))
	b.WriteString("    <Include>\n")
	fmt.Fprintf(&b, "      <Category>%s</Category>\n", xmlEscape(suite.Category))
	b.WriteString("    </Include>\n")
	b.WriteString("  </Menu>\n")
	b.WriteString("</Menu>\n")

	return []byte(b.String())
}

// RenderOverride produces a user entry that hides a system desktop file
// of the same name.
func RenderOverride(desktopID string) []byte {
	var b strings.Builder

	b.WriteString("[Desktop Entry]\n")
	writeKey(&b, "Type", "Application")
	writeKey(&b, "Name", strings.TrimSuffix(desktopID, ".desktop"))
	writeKey(&b, "NoDisplay", "true")
	writeKey(&b, "Hidden", "true")
	writeKey(&b, overrideMarker, "true")

	return []byte(b.String())
}

// IsOverride reports whether content was written by RenderOverride
func IsOverride(content []byte) bool {
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == overrideMarker+"=true" {
			return true
		}
	}
	return false
}

func writeKey(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	writeRaw(b, key, escapeValue(value))
}

func writeList(b *strings.Builder, key string, items []string) {
	if list := joinList(items); list != "" {
		writeRaw(b, key, list)
	}
}

func writeRaw(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteByte('\n')
}

// escapeValue applies the desktop entry string escapes
func escapeValue(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return r.Replace(s)
}

// joinList renders a ;-terminated list, escaping separators inside items
func joinList(items []string) string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, strings.ReplaceAll(escapeValue(item), ";", `\;`))
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, ";") + ";"
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
