package envsafe

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`# database settings
DB_HOST=localhost
export DB_PORT=5432

DB_PASSWORD="s3cret value"
EMPTY_VAR=
QUOTED='single'
not a valid line
123BAD=nope
`)

	entries := Parse(data)

	want := []Entry{
		{Key: "DB_HOST", Value: "localhost", Line: 2},
		{Key: "DB_PORT", Value: "5432", Line: 3},
		{Key: "DB_PASSWORD", Value: "s3cret value", Line: 5},
		{Key: "EMPTY_VAR", Value: "", Line: 6},
		{Key: "QUOTED", Value: "single", Line: 7},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Parse mismatch:\ngot  %v\nwant %v", entries, want)
	}
}

func TestParseEmpty(t *testing.T) {
	if entries := Parse([]byte("# only comments\n\n")); len(entries) != 0 {
		t.Errorf("Expected no entries, got %v", entries)
	}
}

func TestLookup(t *testing.T) {
	entries := Parse([]byte("API_KEY=abc\nEMPTY=\n"))

	entry, found := Lookup(entries, "API_KEY")
	if !found || !entry.IsSet() {
		t.Errorf("Expected API_KEY to exist and be set, got found=%v entry=%v", found, entry)
	}

	entry, found = Lookup(entries, "EMPTY")
	if !found || entry.IsSet() {
		t.Errorf("Expected EMPTY to exist with empty value, got found=%v entry=%v", found, entry)
	}

	if _, found := Lookup(entries, "MISSING"); found {
		t.Error("Expected MISSING not to be found")
	}
}

func TestValidateClean(t *testing.T) {
	errors, warnings := Validate([]byte("A=1\nB=\"two words\"\n# comment\n"))
	if len(errors) != 0 || len(warnings) != 0 {
		t.Errorf("Expected clean file, got errors=%v warnings=%v", errors, warnings)
	}
}

func TestValidateIssues(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		errors   int
		warnings int
		contains string
	}{
		{"invalid syntax", "this is not an assignment\n", 1, 0, "Invalid syntax"},
		{"mismatched quotes", `KEY="unterminated` + "\n", 1, 0, "mismatched quotes"},
		{"unquoted spaces", "KEY=two words\n", 0, 1, "unquoted value with spaces"},
		{"digit-leading name", "1KEY=x\n", 1, 0, "Invalid syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors, warnings := Validate([]byte(tt.content))
			if len(errors) != tt.errors {
				t.Errorf("Expected %d errors, got %v", tt.errors, errors)
			}
			if len(warnings) != tt.warnings {
				t.Errorf("Expected %d warnings, got %v", tt.warnings, warnings)
			}
			all := append(append([]string{}, errors...), warnings...)
			found := false
			for _, msg := range all {
				if strings.Contains(msg, tt.contains) {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected an issue mentioning %q, got %v", tt.contains, all)
			}
		})
	}
}
