// Package util holds small string helpers shared by the CLI output
// paths.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TruncateString caps a string at maxLen runes and marks the cut with
// "...". It counts runes, not columns, so wide characters make the
// result render wider than maxLen; use TruncateANSI when the budget is
// terminal columns.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateANSI caps a string at maxWidth terminal columns and marks the
// cut with "...". Escape sequences stay intact and wide characters
// count as two columns, so styled or CJK text lines up in menus and
// listings.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate counts the tail against maxWidth.
	return ansi.Truncate(s, maxWidth, "...")
}
