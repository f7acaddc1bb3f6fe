// Package gitutil wraps the git queries the guard hooks rely on.
//
// Everything shells out to the git binary rather than reading repository
// internals so that global excludes, worktree layouts, and other user
// configuration are honored exactly as git sees them. All helpers degrade
// to safe answers when git is unavailable.
package gitutil

import (
	"path/filepath"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/core"
)

// IsInRepo reports whether the current directory is inside a git repository.
func IsInRepo(exec core.CommandExecutor) bool {
	_, err := exec.ExecuteCommand("git", "rev-parse", "--git-dir")
	return err == nil
}

// IsIgnored reports whether path is ignored by git (gitignore, exclude,
// global). For directories the directory path itself is checked, not its
// contents. A failed check counts as not ignored.
func IsIgnored(exec core.CommandExecutor, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	dir := filepath.Dir(abs)

	_, err = exec.ExecuteCommandInDir(dir, "git", "check-ignore", "-q", path)
	return err == nil
}

// CurrentBranch returns the current branch name, optionally resolved in a
// specific directory. Returns "" when it cannot be determined.
func CurrentBranch(exec core.CommandExecutor, dir string) string {
	var output []byte
	var err error
	if dir != "" {
		output, err = exec.ExecuteCommandInDir(dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	} else {
		output, err = exec.ExecuteCommand("git", "rev-parse", "--abbrev-ref", "HEAD")
	}
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// StatusPorcelain returns the porcelain status output, optionally scoped to
// a single path. Returns "" on error or a clean tree.
func StatusPorcelain(exec core.CommandExecutor, paths ...string) string {
	args := append([]string{"status", "--porcelain"}, paths...)
	output, err := exec.ExecuteCommand("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// HasUncommittedChanges reports whether the working tree has any changes,
// returning an error indication separately so callers can fail closed.
func HasUncommittedChanges(exec core.CommandExecutor) (bool, error) {
	output, err := exec.ExecuteCommand("git", "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// UncommittedChanges returns the porcelain status lines for the working tree.
func UncommittedChanges(exec core.CommandExecutor) []string {
	status := StatusPorcelain(exec)
	if status == "" {
		return nil
	}
	var changes []string
	for _, line := range strings.Split(status, "\n") {
		if strings.TrimSpace(line) != "" {
			changes = append(changes, line)
		}
	}
	return changes
}

// IsUntracked reports whether the path shows as untracked in git status.
// Tracked-but-clean paths return false with ok=false since status is empty.
func IsUntracked(exec core.CommandExecutor, path string) (untracked, hasStatus bool) {
	status := StatusPorcelain(exec, path)
	if status == "" {
		return false, false
	}
	code := status
	if len(code) > 2 {
		code = code[:2]
	}
	return strings.Contains(code, "?"), true
}

// DryRunAdd returns the files `git add <dir>/` would stage, using --dry-run.
func DryRunAdd(exec core.CommandExecutor, dir string) ([]string, error) {
	output, err := exec.ExecuteCommand("git", "add", "--dry-run", dir+"/")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if strings.HasPrefix(line, "add ") {
			name := strings.TrimSpace(line[4:])
			name = strings.Trim(name, "'")
			if name != "" {
				files = append(files, name)
			}
		}
	}
	return files, nil
}

// RepoRoot returns the repository top-level directory, or "".
func RepoRoot(exec core.CommandExecutor) string {
	output, err := exec.ExecuteCommand("git", "rev-parse", "--show-toplevel")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// InWorktree reports whether the current directory is inside a linked
// worktree rather than the main working tree.
func InWorktree(exec core.CommandExecutor) bool {
	gitDir := gitDirOf(exec)
	if gitDir == "" {
		return false
	}
	if strings.Contains(gitDir, "worktrees") {
		return true
	}

	common, err := exec.ExecuteCommand("git", "rev-parse", "--git-common-dir")
	if err != nil {
		return false
	}
	commonDir := strings.TrimSpace(string(common))
	return commonDir != "" && commonDir != gitDir
}

func gitDirOf(exec core.CommandExecutor) string {
	output, err := exec.ExecuteCommand("git", "rev-parse", "--git-dir")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// WorktreePath returns the toplevel of the current worktree when inside one.
func WorktreePath(exec core.CommandExecutor) string {
	if !InWorktree(exec) {
		return ""
	}
	return RepoRoot(exec)
}

// MainRepoPath resolves the main repository directory (not the worktree)
// from the common git dir.
func MainRepoPath(exec core.CommandExecutor) string {
	output, err := exec.ExecuteCommand("git", "rev-parse", "--git-common-dir")
	if err != nil {
		return ""
	}
	commonDir := strings.TrimSpace(string(output))
	if commonDir == "" {
		return ""
	}
	if filepath.Base(commonDir) == ".git" {
		return filepath.Dir(commonDir)
	}
	return ""
}

// IsBranchMerged reports whether branch appears in `git branch --merged`
// output for any of the named base branches.
func IsBranchMerged(exec core.CommandExecutor, branch string, baseBranches []string) bool {
	for _, base := range baseBranches {
		output, err := exec.ExecuteCommand("git", "branch", "--merged", base)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
			name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
			if name == branch {
				return true
			}
		}
	}
	return false
}
