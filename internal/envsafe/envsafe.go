// Package envsafe inspects .env files without exposing their values: names,
// existence, counts and syntax only.
package envsafe

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry is one KEY=value assignment from an env file.
type Entry struct {
	Key   string
	Value string
	Line  int
}

// IsSet reports whether the entry has a non-empty value.
func (e Entry) IsSet() bool {
	return e.Value != ""
}

// Matches KEY=value with an optional export prefix
var linePattern = regexp.MustCompile(`^(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// Parse extracts the variable assignments from env file content. Comments,
// blank lines and unparseable lines are skipped; surrounding quotes are
// stripped from values.
func Parse(data []byte) []Entry {
	var entries []Entry

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		match := linePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		entries = append(entries, Entry{
			Key:   match[1],
			Value: unquote(match[2]),
			Line:  i + 1,
		})
	}

	return entries
}

// Lookup returns the entry for key, if present.
func Lookup(entries []Entry, key string) (Entry, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Validate checks env file content for syntax problems. Errors are lines that
// cannot be used; warnings are lines that parse but look suspicious.
func Validate(data []byte) (errors, warnings []string) {
	for i, raw := range strings.Split(string(data), "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		match := linePattern.FindStringSubmatch(line)
		if match == nil {
			errors = append(errors, fmt.Sprintf("Line %d: Invalid syntax", lineNum))
			continue
		}

		key, value := match[1], match[2]

		if strings.HasPrefix(value, " ") || strings.HasSuffix(value, " ") {
			warnings = append(warnings, fmt.Sprintf("Line %d: %s has leading/trailing spaces in value", lineNum, key))
		}

		if strings.Contains(value, " ") && !isQuoted(value) {
			warnings = append(warnings, fmt.Sprintf("Line %d: %s has unquoted value with spaces", lineNum, key))
		}

		if hasMismatchedQuotes(value) {
			errors = append(errors, fmt.Sprintf("Line %d: %s has mismatched quotes", lineNum, key))
		}
	}

	return errors, warnings
}

func isQuoted(value string) bool {
	return (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2) ||
		(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`) && len(value) >= 2)
}

func hasMismatchedQuotes(value string) bool {
	return (strings.HasPrefix(value, `"`) && !strings.HasSuffix(value, `"`)) ||
		(strings.HasPrefix(value, `'`) && !strings.HasSuffix(value, `'`))
}

func unquote(value string) string {
	if isQuoted(value) {
		return value[1 : len(value)-1]
	}
	return value
}
