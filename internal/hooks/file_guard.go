package hooks

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/brads3290/cchooks"

	"github.com/gatehouse-sh/gatehouse/internal/constants"
	"github.com/gatehouse-sh/gatehouse/internal/core"
)

// Source code extensions subject to the file length limit
var sourceCodeExtensions = map[string]bool{
	".py": true, ".tsx": true, ".ts": true, ".jsx": true, ".js": true,
	".rs": true, ".c": true, ".cpp": true, ".cc": true, ".cxx": true,
	".h": true, ".hpp": true, ".go": true, ".java": true, ".kt": true,
	".swift": true, ".rb": true, ".php": true, ".cs": true, ".scala": true,
	".m": true, ".mm": true, ".r": true, ".jl": true,
}

// FileGuardHook blocks writes to protected files (CLAUDE.md) and applies a
// speed bump to oversized source files: the first attempt blocks with a
// warning, a retry after user approval proceeds.
type FileGuardHook struct {
	*core.BaseHook
}

// NewFileGuardHook creates a new file guard hook instance
func NewFileGuardHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("file-guard", "File Guard Hook",
		"Protects CLAUDE.md and enforces the source file length limit", ctx)
	return &FileGuardHook{BaseHook: base}
}

// Run executes the file guard hook.
func (h *FileGuardHook) Run() error {
	if !h.IsEnabled() {
		fmt.Println("File guard plugin disabled - skipping")
		return nil
	}

	runner := h.Context().RunnerFactory(h.preToolUseHandler, nil, h.CreateRawHandler())
	runner.Run()
	return nil
}

// filePathInput is the minimal shape shared by all file-writing tool inputs.
type filePathInput struct {
	FilePath string `json:"file_path"`
}

func (h *FileGuardHook) preToolUseHandler(_ context.Context, event *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface {
	switch event.ToolName {
	case constants.ToolWrite, constants.ToolEdit, constants.ToolMultiEdit:
	default:
		return cchooks.Approve()
	}

	var input filePathInput
	if err := json.Unmarshal(event.ToolInput, &input); err != nil || input.FilePath == "" {
		return cchooks.Approve()
	}

	if result := h.checkProtectedFile(input.FilePath); result.Decision == DecisionBlock {
		h.LogBlock("file_guard_protected_block", event.ToolName, map[string]interface{}{
			"file_path": input.FilePath,
		})
		return cchooks.Block(result.Reason)
	}

	if result := h.checkFileLength(event, input.FilePath); result.Decision == DecisionBlock {
		h.LogBlock("file_guard_length_block", event.ToolName, map[string]interface{}{
			"file_path": input.FilePath,
		})
		return cchooks.Block(result.Reason)
	}

	return cchooks.Approve()
}

// checkProtectedFile blocks writes to protected basenames (CLAUDE.md by
// default), pointing at the AGENTS.md symlink convention instead.
func (h *FileGuardHook) checkProtectedFile(filePath string) CheckResult {
	basename := strings.ToLower(filepath.Base(filepath.Clean(filePath)))

	for _, protected := range h.Context().Rules.Files.ProtectedFiles {
		if basename != strings.ToLower(protected) {
			continue
		}
		return block(fmt.Sprintf(`Blocked: Direct writing to %s files is not allowed.

Instead of creating/editing %s, please:

1. Write your content to AGENTS.md
2. Then create a symlink: ln -s AGENTS.md %s

This approach ensures proper version control and management of project-specific instructions for AI coding agents.

AGENTS.md should contain general instructions for AI coding agents, not assistant-specific references.`,
			protected, protected, protected))
	}

	return allow()
}

// checkFileLength applies the oversized-file speed bump to Write and Edit.
func (h *FileGuardHook) checkFileLength(event *cchooks.PreToolUseEvent, filePath string) CheckResult {
	if event.ToolName != constants.ToolWrite && event.ToolName != constants.ToolEdit {
		return allow()
	}

	if !sourceCodeExtensions[strings.ToLower(filepath.Ext(filePath))] {
		return allow()
	}

	maxLines := h.Context().Rules.Files.MaxFileLines
	resultingLines := h.resultingLineCount(event, filePath)
	if resultingLines <= maxLines {
		return allow()
	}

	// Speed bump: a marker from a previous block means the user approved
	// the retry
	marker := h.speedBumpMarker(filePath)
	if _, err := h.Context().FileSystem.Stat(marker); err == nil {
		_ = h.Context().FileSystem.Remove(marker)
		return allow()
	}

	_ = h.Context().FileSystem.MkdirAll(filepath.Dir(marker), 0o750)
	_ = h.Context().FileSystem.WriteFile(marker, []byte(filePath+"\n"), 0o600)

	return block(fmt.Sprintf(`**File length limit exceeded (%d lines > %d lines).**

The resulting file `+"`%s`"+` would be %d lines long.

To maintain code quality and modularity, files should be kept under %d lines.

**Please pause and ask the user:**
"This operation would create a file with %d lines. Would you like me to:
1. Refactor the code into smaller, more modular files?
2. Proceed with the large file anyway?"

**Only retry this operation if the user approves proceeding with the large file.**
Otherwise, work on refactoring the code into smaller modules.`,
		resultingLines, maxLines, filePath, resultingLines, maxLines, resultingLines))
}

// speedBumpMarker keys the approval marker by file path so approving one
// oversized file does not wave through a different one.
func (h *FileGuardHook) speedBumpMarker(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	sum := sha256.Sum256([]byte(abs))
	name := fmt.Sprintf("file-length-approved-%x.flag", sum[:8])
	return filepath.Join(constants.ClaudeDir, constants.HooksSubDir, name)
}

// resultingLineCount calculates how many lines the file would have after the
// operation. Unreadable current content counts as zero, failing open.
func (h *FileGuardHook) resultingLineCount(event *cchooks.PreToolUseEvent, filePath string) int {
	switch event.ToolName {
	case constants.ToolWrite:
		write, err := event.AsWrite()
		if err != nil {
			return 0
		}
		return countLines(write.Content)

	case constants.ToolEdit:
		edit, err := event.AsEdit()
		if err != nil {
			return 0
		}

		current, err := h.Context().FileSystem.ReadFile(filePath)
		if err != nil {
			// File doesn't exist yet or can't be read
			return 0
		}

		content := strings.Replace(string(current), edit.OldString, edit.NewString, 1)
		return countLines(content)
	}

	return 0
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	lines := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lines++
	}
	return lines
}
