package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/brads3290/cchooks"

	"github.com/gatehouse-sh/gatehouse/internal/constants"
	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

// Commands that read or display file contents (blocked for env files)
var contentReadingCommands = map[string]bool{
	"cat": true, "less": true, "more": true, "head": true, "tail": true,
	"grep": true, "egrep": true, "fgrep": true, "rg": true, "ag": true,
	"ack": true, "vim": true, "vi": true, "nvim": true, "nano": true,
	"emacs": true, "code": true, "subl": true, "bat": true, "sed": true,
	"awk": true, "perl": true, "python": true, "ruby": true, "node": true,
	"source": true, "xargs": true, "tee": true, "sort": true, "uniq": true,
	"cut": true, "paste": true, "diff": true, "wc": true,
}

// Commands that only touch metadata (allowed)
var envSafeCommands = map[string]bool{
	"ls": true, "mv": true, "cp": true, "rm": true, "touch": true,
	"chmod": true, "chown": true, "stat": true, "file": true,
	"mkdir": true, "git": true, "echo": true, "printf": true,
}

// Matches .env and .env.<name>, excluding template suffixes, delimited by
// path separators, whitespace, quotes, colons (HEAD:.env), or string
// boundaries
var envFilePattern = regexp.MustCompile(
	`(?i)(?:^|[/\s"':])\.env(?:\.(?:[a-zA-Z0-9_-]+))?(?:[/\s"':]|$)`)

// Broad glob patterns that target env files
var envGlobPatterns = map[string]bool{
	".env*":  true,
	"*.env":  true,
	".env.*": true,
}

const envBlockReason = "Blocked: Command would expose .env file contents. " +
	"Use the env-safe CLI to safely inspect environment variables: " +
	"gatehouse env-safe list, gatehouse env-safe check KEY, gatehouse env-safe validate"

const envAccessBlockReason = "Blocked: Reading .env files is not allowed to prevent exposure of secrets. " +
	"Use the env-safe CLI to safely inspect environment variables: " +
	"gatehouse env-safe list, gatehouse env-safe check KEY, gatehouse env-safe validate"

const envGrepBlockReason = "Blocked: Searching .env files via Grep is not allowed to prevent exposure of secrets. " +
	"Use the env-safe CLI to safely inspect environment variables: " +
	"gatehouse env-safe list, gatehouse env-safe check KEY, gatehouse env-safe validate"

// EnvGuardHook prevents tool calls from exposing secrets held in .env files,
// across Bash, Read, and Grep.
type EnvGuardHook struct {
	*core.BaseHook
}

// NewEnvGuardHook creates a new env guard hook instance
func NewEnvGuardHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("env-guard", "Env Guard Hook",
		"Blocks access to .env file contents to protect secrets", ctx)
	return &EnvGuardHook{BaseHook: base}
}

// Run executes the env guard hook.
func (h *EnvGuardHook) Run() error {
	if !h.IsEnabled() {
		fmt.Println("Env guard plugin disabled - skipping")
		return nil
	}

	runner := h.Context().RunnerFactory(h.preToolUseHandler, nil, h.CreateRawHandler())
	runner.Run()
	return nil
}

func (h *EnvGuardHook) preToolUseHandler(_ context.Context, event *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface {
	var result CheckResult

	switch event.ToolName {
	case constants.ToolBash:
		bash, err := event.AsBash()
		if err != nil {
			return cchooks.Approve()
		}
		result = h.checkEnvBash(bash.Command)

	case constants.ToolRead:
		read, err := event.AsRead()
		if err != nil {
			return cchooks.Approve()
		}
		result = h.checkEnvRead(read.FilePath)

	case constants.ToolGrep:
		var input struct {
			Path string `json:"path"`
			Glob string `json:"glob"`
		}
		if err := json.Unmarshal(event.ToolInput, &input); err != nil {
			return cchooks.Approve()
		}
		result = h.checkEnvGrep(input.Path, input.Glob)

	default:
		return cchooks.Approve()
	}

	if result.Decision == DecisionBlock {
		h.LogBlock("env_guard_block", event.ToolName, map[string]interface{}{
			"reason": result.Reason,
		})
		return cchooks.Block(result.Reason)
	}

	return cchooks.Approve()
}

// checkEnvBash blocks bash commands that would read .env contents, while
// letting metadata-only operations through.
func (h *EnvGuardHook) checkEnvBash(command string) CheckResult {
	if command == "" || !envFilePattern.MatchString(command) {
		return allow()
	}

	// A template mention like .env.example should not trip the guard on its
	// own
	if !h.mentionsSensitiveEnvFile(command) {
		return allow()
	}

	// Git gets special handling: metadata operations and commit messages
	// mentioning .env are fine, content display is not
	if strings.HasPrefix(strings.TrimSpace(command), "git ") {
		return h.checkEnvGit(command)
	}

	first := strings.ToLower(shell.FirstToken(command))

	if envSafeCommands[first] || h.isExtraSafeCommand(first) {
		return allow()
	}

	// Dot sourcing (. .env) exposes everything into the shell
	if first == "." {
		return block("Blocked: Sourcing .env file would expose sensitive environment variables. " +
			"Use the env-safe CLI to safely inspect environment variables: gatehouse env-safe list")
	}

	if contentReadingCommands[first] {
		return block(envBlockReason)
	}

	// A later pipeline segment can still expose contents
	// (e.g. "cat notes.txt | grep .env.local")
	for _, segment := range shell.PipelineSegments(command) {
		segmentCmd := strings.ToLower(shell.FirstToken(segment))
		if contentReadingCommands[segmentCmd] && envFilePattern.MatchString(segment) && h.mentionsSensitiveEnvFile(segment) {
			return block(envBlockReason)
		}
	}

	return allow()
}

func (h *EnvGuardHook) checkEnvGit(command string) CheckResult {
	if strings.Contains(command, "-m ") || strings.Contains(command, "--message") {
		return allow()
	}
	for _, safe := range []string{"git add", "git rm", "git mv", "git status", "git diff"} {
		if strings.Contains(command, safe) {
			return allow()
		}
	}
	for _, exposing := range []string{"git show", "git cat-file"} {
		if strings.Contains(command, exposing) {
			return block(envBlockReason)
		}
	}
	return allow()
}

// mentionsSensitiveEnvFile reports whether any .env token in the command is
// a real env file rather than a template.
func (h *EnvGuardHook) mentionsSensitiveEnvFile(command string) bool {
	for _, match := range envFilePattern.FindAllString(command, -1) {
		token := strings.Trim(match, `/ "':`)
		if h.isSensitiveEnvFile(token) {
			return true
		}
	}
	return false
}

// checkEnvRead blocks Read calls on sensitive .env files.
func (h *EnvGuardHook) checkEnvRead(filePath string) CheckResult {
	if filePath == "" {
		return allow()
	}

	basename := strings.ToLower(filepath.Base(filePath))
	if !h.isSensitiveEnvFile(basename) {
		return allow()
	}

	if basename == ".env" {
		return block(envAccessBlockReason)
	}
	return block(fmt.Sprintf("Blocked: Reading %s files is not allowed to prevent exposure of secrets. "+
		"Use the env-safe CLI to safely inspect environment variables: "+
		"gatehouse env-safe list -f %s, gatehouse env-safe check KEY -f %s", basename, basename, basename))
}

// checkEnvGrep blocks Grep calls whose path or glob targets .env files.
func (h *EnvGuardHook) checkEnvGrep(path, glob string) CheckResult {
	if path != "" {
		if h.isSensitiveEnvFile(strings.ToLower(filepath.Base(path))) {
			return block(envGrepBlockReason)
		}
	}

	if glob != "" && h.globTargetsEnv(glob) {
		return block(envGrepBlockReason)
	}

	return allow()
}

// isSensitiveEnvFile reports whether basename is an env file that may hold
// secrets. Template suffixes (.example, .template, .sample, .dist) are safe.
func (h *EnvGuardHook) isSensitiveEnvFile(basename string) bool {
	basename = strings.ToLower(basename)

	if !strings.HasPrefix(basename, ".env") {
		return false
	}
	if basename == ".env" {
		return true
	}
	if strings.HasPrefix(basename, ".env.") {
		return !h.Context().Rules.IsTemplateEnvFile(basename)
	}
	return false
}

func (h *EnvGuardHook) isExtraSafeCommand(cmd string) bool {
	for _, extra := range h.Context().Rules.Env.ExtraSafeCommands {
		if cmd == extra {
			return true
		}
	}
	return false
}

// globTargetsEnv reports whether a glob pattern would match sensitive env
// files, stripping recursive **/ prefixes before evaluating the basename.
func (h *EnvGuardHook) globTargetsEnv(glob string) bool {
	pattern := strings.ToLower(strings.TrimSpace(glob))

	if envGlobPatterns[pattern] {
		return true
	}

	stripped := pattern
	for strings.HasPrefix(stripped, "**/") {
		stripped = stripped[3:]
	}
	if stripped != pattern {
		if envGlobPatterns[stripped] {
			return true
		}
		if h.isSensitiveEnvFile(filepath.Base(stripped)) {
			return true
		}
	}

	basename := filepath.Base(pattern)
	if h.isSensitiveEnvFile(basename) {
		return true
	}

	return strings.HasPrefix(basename, ".env") && strings.ContainsAny(basename, "*?[")
}
