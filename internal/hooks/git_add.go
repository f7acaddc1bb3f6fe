package hooks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/gitutil"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

var (
	// Flags containing 'a'/'A', --all, bare '.', and parent-directory paths
	gitAddDangerousPattern = regexp.MustCompile(
		`(?i)^git\s+add\s+(?:.*\s+)?(-[a-zA-Z]*[Aa][a-zA-Z]*(\s|$)|--all(\s|$)|\.(\s|$)|\.\./[.\w/]*(\s|$))`)

	// git add <dir>/ with a single non-flag argument
	gitAddDirectoryPattern = regexp.MustCompile(`^git\s+add\s+[^-\s]\S*/$`)

	gitCommitPattern = regexp.MustCompile(`^git\s+commit\s+`)
	shortFlagA       = regexp.MustCompile(`-[a-zA-Z]*a[a-zA-Z]*`)
	shortFlagM       = regexp.MustCompile(`-[a-zA-Z]*m[a-zA-Z]*`)
)

const gitAddWildcardReason = `BLOCKED: Wildcard patterns are not allowed in git add!

DO NOT use wildcards like 'git add *.py' or 'git add *'

Instead, use:
- 'git add <specific-files>' to stage specific files
- 'git ls-files -m "*.py" | xargs git add' if you really need pattern matching

This restriction prevents accidentally staging unwanted files.`

const gitAddDangerousReason = `BLOCKED: Dangerous git add pattern detected!

DO NOT use:
- 'git add -A', 'git add -a', 'git add --all' (adds ALL files)
- 'git add .' (adds entire current directory)
- 'git add ../' or similar parent directory patterns
- 'git add *' (wildcard patterns)

Instead, use:
- 'git add <specific-files>' to stage specific files
- 'git add <specific-directory>/' to stage a specific directory (with confirmation)
- 'git add -u' to stage all modified/deleted files (but not untracked)

This restriction prevents accidentally staging unwanted files.`

// checkGitAdd guards against bulk staging. Wildcards, -A/--all and '.' are
// hard blocks; staging a directory or already-tracked files needs approval.
//
// All subcommands of a compound command are scanned so a block cannot hide
// behind an earlier ask.
func checkGitAdd(exec core.CommandExecutor, command string) CheckResult {
	var firstAsk *CheckResult

	for _, subcmd := range shell.ExtractSubcommands(command) {
		result := checkSingleGitAdd(exec, subcmd)
		if result.Decision == DecisionBlock {
			return result
		}
		if result.Decision == DecisionAsk && firstAsk == nil {
			r := result
			firstAsk = &r
		}
	}

	if firstAsk != nil {
		return *firstAsk
	}
	return allow()
}

func checkSingleGitAdd(exec core.CommandExecutor, command string) CheckResult {
	normalized := shell.Normalize(command)

	// --dry-run is used internally to detect what would be staged
	if strings.Contains(normalized, "--dry-run") || hasToken(normalized, "-n") {
		return allow()
	}

	if strings.HasPrefix(normalized, "git add") && strings.Contains(normalized, "*") {
		return block(gitAddWildcardReason)
	}

	if gitAddDangerousPattern.MatchString(normalized) {
		return block(gitAddDangerousReason)
	}

	if gitAddDirectoryPattern.MatchString(normalized) {
		if result, handled := checkDirectoryStaging(exec, normalized); handled {
			return result
		}
	}

	// git commit -a without -m would open an editor
	if gitCommitPattern.MatchString(normalized) {
		if shortFlagA.MatchString(normalized) && !shortFlagM.MatchString(normalized) {
			return block("Avoid 'git commit -a' without a message flag. Use 'gcam \"message\"' instead, which is an alias for 'git commit -a -m'.")
		}
	}

	// Staging already-modified files (not new/untracked) requires approval
	if strings.HasPrefix(normalized, "git add") {
		if modified := modifiedFilesBeingStaged(exec, normalized); len(modified) > 0 {
			return ask(fmt.Sprintf("Staging modified files: %s", core.TruncateList(modified, 5)))
		}
	}

	return allow()
}

// checkDirectoryStaging dry-runs `git add <dir>/` and classifies the files it
// would stage. Only-new files pass silently; modified files need approval.
func checkDirectoryStaging(exec core.CommandExecutor, normalized string) (CheckResult, bool) {
	var dirPath string
	parts := strings.Fields(normalized)
	for i, part := range parts {
		if i > 0 && parts[i-1] == "add" && strings.HasSuffix(part, "/") {
			dirPath = strings.TrimRight(part, "/")
			break
		}
	}
	if dirPath == "" {
		return allow(), false
	}

	files, err := gitutil.DryRunAdd(exec, dirPath)
	if err != nil {
		return ask(fmt.Sprintf("Staging directory %s/ (couldn't verify file status)", dirPath)), true
	}
	if len(files) == 0 {
		return allow(), true
	}

	var modified []string
	for _, f := range files {
		if untracked, ok := gitutil.IsUntracked(exec, f); ok && !untracked {
			modified = append(modified, f)
		}
	}

	if len(modified) == 0 {
		return allow(), true
	}

	return ask(fmt.Sprintf("Staging directory %s/ with modified files: %s",
		dirPath, core.TruncateList(modified, 5))), true
}

// modifiedFilesBeingStaged returns the file arguments of a git add command
// that already have tracked changes (anything but untracked status).
func modifiedFilesBeingStaged(exec core.CommandExecutor, normalized string) []string {
	parts := strings.Fields(normalized)
	if len(parts) < 3 || parts[0] != "git" || parts[1] != "add" {
		return nil
	}

	var files []string
	for _, part := range parts[2:] {
		if !strings.HasPrefix(part, "-") {
			files = append(files, part)
		}
	}

	var modified []string
	for _, f := range files {
		if untracked, ok := gitutil.IsUntracked(exec, f); ok && !untracked {
			modified = append(modified, f)
		}
	}
	return modified
}

func hasToken(command, token string) bool {
	for _, field := range strings.Fields(command) {
		if field == token {
			return true
		}
	}
	return false
}
