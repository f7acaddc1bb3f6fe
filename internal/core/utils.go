package core

import (
	"fmt"
	"strings"
)

// IsInQuotedString performs a simple check if the pattern is within quotes in the command string.
// This is a basic implementation - a full parser would be more accurate but this covers most shell cases.
func IsInQuotedString(command, pattern string) bool {
	index := strings.Index(command, pattern)
	if index == -1 {
		return false
	}

	// Count quotes before the pattern
	beforePattern := command[:index]
	singleQuotes := strings.Count(beforePattern, "'")
	doubleQuotes := strings.Count(beforePattern, "\"")

	// An odd number of quotes before the pattern means we're likely inside quotes.
	// Assumes balanced quotes; does not handle escaped quotes.
	return singleQuotes%2 == 1 || doubleQuotes%2 == 1
}

// TruncateList joins up to max items with ", " and appends a "(+N more)"
// marker when the list overflows. Used by guard hooks to keep block reasons
// readable.
func TruncateList(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:max], ", "), len(items)-max)
}
