package utils

import "strings"

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// OneLine collapses all runs of whitespace, newlines included, into single
// spaces so s fits in a table cell.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
