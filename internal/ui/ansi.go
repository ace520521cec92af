package ui

import "strings"

// StripANSI removes ANSI escape codes from a string
func StripANSI(str string) string {
	var result strings.Builder
	inEscape := false

	for i := 0; i < len(str); i++ {
		if str[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if str[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteByte(str[i])
	}

	return result.String()
}
