package hooks

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/brads3290/cchooks"

	"github.com/gatehouse-sh/gatehouse/internal/core"
)

func TestFileGuardHook(t *testing.T) {
	ctx := core.TestHookContext(nil)
	hook := NewFileGuardHook(ctx)

	if hook.Key() != "file-guard" {
		t.Errorf("Expected key 'file-guard', got '%s'", hook.Key())
	}

	if !hook.IsEnabled() {
		t.Error("Expected hook to be enabled by default")
	}

	if err := hook.Run(); err != nil {
		t.Errorf("Hook run failed: %v", err)
	}
}

func TestCheckProtectedFile(t *testing.T) {
	ctx := core.TestHookContext(nil)
	hook := NewFileGuardHook(ctx).(*FileGuardHook)

	testCases := []struct {
		filePath string
		blocked  bool
	}{
		{"CLAUDE.md", true},
		{"claude.md", true},
		{"/home/user/project/CLAUDE.md", true},
		{"docs/CLAUDE.md", true},
		{"AGENTS.md", false},
		{"README.md", false},
		{"CLAUDE.md.bak", false},
		{"src/claude.go", false},
	}

	for _, tc := range testCases {
		t.Run(tc.filePath, func(t *testing.T) {
			result := hook.checkProtectedFile(tc.filePath)
			blocked := result.Decision == DecisionBlock
			if blocked != tc.blocked {
				t.Errorf("Path '%s': expected blocked=%v, got %v (%s)", tc.filePath, tc.blocked, blocked, result.Reason)
			}
		})
	}
}

func TestCheckProtectedFileReason(t *testing.T) {
	ctx := core.TestHookContext(nil)
	hook := NewFileGuardHook(ctx).(*FileGuardHook)

	result := hook.checkProtectedFile("CLAUDE.md")
	if result.Decision != DecisionBlock {
		t.Fatalf("Expected block, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "AGENTS.md") {
		t.Errorf("Expected symlink guidance in reason, got: %s", result.Reason)
	}
	if !strings.Contains(result.Reason, "ln -s") {
		t.Errorf("Expected symlink command in reason, got: %s", result.Reason)
	}
}

func TestCheckProtectedFileCustomRules(t *testing.T) {
	ctx := core.TestHookContext(nil)
	ctx.Rules.Files.ProtectedFiles = append(ctx.Rules.Files.ProtectedFiles, "SECRETS.md")
	hook := NewFileGuardHook(ctx).(*FileGuardHook)

	if hook.checkProtectedFile("notes/SECRETS.md").Decision != DecisionBlock {
		t.Error("Expected configured protected file to be blocked")
	}
}

func TestSpeedBumpMarker(t *testing.T) {
	ctx := core.TestHookContext(nil)
	hook := NewFileGuardHook(ctx).(*FileGuardHook)

	markerA := hook.speedBumpMarker("/project/src/big.go")
	markerB := hook.speedBumpMarker("/project/src/other.go")

	if markerA == markerB {
		t.Error("Markers for different files must differ")
	}
	if markerA != hook.speedBumpMarker("/project/src/big.go") {
		t.Error("Marker for the same file must be stable")
	}
	if !strings.HasPrefix(markerA, ".claude/hooks/file-length-approved-") {
		t.Errorf("Unexpected marker location: %s", markerA)
	}
	if !strings.HasSuffix(markerA, ".flag") {
		t.Errorf("Unexpected marker suffix: %s", markerA)
	}
}

func TestFileLengthSpeedBump(t *testing.T) {
	ctx := core.TestHookContext(nil)
	ctx.Rules.Files.MaxFileLines = 3
	hook := NewFileGuardHook(ctx).(*FileGuardHook)
	fs := ctx.FileSystem.(*core.MockFileSystem)

	input, err := json.Marshal(map[string]string{
		"file_path": "/project/big.go",
		"content":   "a\nb\nc\nd\ne\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	event := &cchooks.PreToolUseEvent{ToolName: "Write", ToolInput: input}
	marker := hook.speedBumpMarker("/project/big.go")

	// First attempt blocks and drops the approval marker
	result := hook.checkFileLength(event, "/project/big.go")
	if result.Decision != DecisionBlock {
		t.Fatalf("Expected first oversized write to block, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "5 lines") {
		t.Errorf("Expected line count in reason, got: %s", result.Reason)
	}
	if !fs.HasFile(marker) {
		t.Error("Expected approval marker after block")
	}

	// Retry consumes the marker and goes through
	result = hook.checkFileLength(event, "/project/big.go")
	if result.Decision != DecisionAllow {
		t.Fatalf("Expected retry to be allowed, got %v", result.Decision)
	}
	if fs.HasFile(marker) {
		t.Error("Marker should be consumed by the retry")
	}

	// A later oversized attempt blocks again
	result = hook.checkFileLength(event, "/project/big.go")
	if result.Decision != DecisionBlock {
		t.Errorf("Expected a fresh oversized write to block again, got %v", result.Decision)
	}
	if !fs.HasFile(marker) {
		t.Error("Expected a fresh approval marker")
	}
}

func TestFileLengthUnderLimit(t *testing.T) {
	ctx := core.TestHookContext(nil)
	ctx.Rules.Files.MaxFileLines = 10
	hook := NewFileGuardHook(ctx).(*FileGuardHook)

	input, err := json.Marshal(map[string]string{
		"file_path": "/project/small.go",
		"content":   "package main\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	event := &cchooks.PreToolUseEvent{ToolName: "Write", ToolInput: input}

	if result := hook.checkFileLength(event, "/project/small.go"); result.Decision != DecisionAllow {
		t.Errorf("Expected small write to be allowed, got %v", result.Decision)
	}
}

func TestFileLengthExemptExtension(t *testing.T) {
	ctx := core.TestHookContext(nil)
	ctx.Rules.Files.MaxFileLines = 1
	hook := NewFileGuardHook(ctx).(*FileGuardHook)

	input, err := json.Marshal(map[string]string{
		"file_path": "/project/notes.md",
		"content":   "a\nb\nc\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	event := &cchooks.PreToolUseEvent{ToolName: "Write", ToolInput: input}

	if result := hook.checkFileLength(event, "/project/notes.md"); result.Decision != DecisionAllow {
		t.Errorf("Expected non-source file to be exempt, got %v", result.Decision)
	}
}

func TestCountLines(t *testing.T) {
	testCases := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"one line", 1},
		{"one line\n", 1},
		{"a\nb\nc", 3},
		{"a\nb\nc\n", 3},
	}

	for _, tc := range testCases {
		if got := countLines(tc.content); got != tc.want {
			t.Errorf("countLines(%q) = %d, want %d", tc.content, got, tc.want)
		}
	}
}

func TestSourceCodeExtensions(t *testing.T) {
	covered := []string{".go", ".py", ".ts", ".tsx", ".rs", ".java", ".rb"}
	for _, ext := range covered {
		if !sourceCodeExtensions[ext] {
			t.Errorf("Expected %s to be length-limited", ext)
		}
	}

	exempt := []string{".md", ".json", ".yml", ".txt", ".csv", ".sql"}
	for _, ext := range exempt {
		if sourceCodeExtensions[ext] {
			t.Errorf("Expected %s to be exempt from the length limit", ext)
		}
	}
}
