// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatPercent formats a 0..1 rate as a percentage string.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Truncate shortens a string to at most max runes, appending an ellipsis
// when anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}

// Pluralize returns the word with a trailing "s" when count is not one.
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
