package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/gitutil"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

// Branch name patterns that should not trigger the worktree suggestion
var worktreeSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hotfix|fix)/`),
	regexp.MustCompile(`(?i)^(docs|doc)/`),
	regexp.MustCompile(`(?i)^(chore)/`),
	regexp.MustCompile(`(?i)^(bump|release|version)`),
}

// worktreeSuggestion returns guidance for creating the new branch in a
// worktree instead, or "" when no suggestion applies. It never blocks.
func worktreeSuggestion(exec core.CommandExecutor, rules *config.Rules, command string) string {
	if !strings.HasPrefix(strings.TrimSpace(command), "git ") {
		return ""
	}

	branchName := shell.ExtractNewBranchName(command)
	if branchName == "" {
		return ""
	}

	if gitutil.InWorktree(exec) {
		return ""
	}

	if !isFeatureBranch(rules, branchName) {
		return ""
	}

	repoRoot := gitutil.RepoRoot(exec)
	location := worktreeLocation(repoRoot)
	if location == "" {
		return ""
	}

	fullPath := filepath.Join(location, branchName)

	return fmt.Sprintf(`WORKTREE SUGGESTION

You're creating a feature branch: %s

Consider using a git worktree for this feature work:
  Location: %s

To create the worktree instead:
  git worktree add "%s" -b %s

Then announce to user:
  "Creating worktree for feature work. Working in: %s"

Proceeding with regular branch creation is also fine for smaller changes.`,
		branchName, fullPath, fullPath, branchName, fullPath)
}

// isFeatureBranch treats everything that doesn't match a skip pattern as
// feature work; explicit feature prefixes come from the rules file.
func isFeatureBranch(rules *config.Rules, branchName string) bool {
	for _, pattern := range worktreeSkipPatterns {
		if pattern.MatchString(branchName) {
			return false
		}
	}

	lower := strings.ToLower(branchName)
	for _, prefix := range rules.Git.WorktreePatterns {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return true
		}
	}

	// Most non-skip branches are features; the suggestion is ignorable
	return true
}

// worktreeLocation decides where worktrees for this repo live:
// work repos (under ~/code/work/) get ~/code/work/.worktrees/<repo>/,
// everything else ~/code/.worktrees/<repo>/.
func worktreeLocation(repoRoot string) string {
	if repoRoot == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	repoName := filepath.Base(repoRoot)
	workPrefix := filepath.Join(home, "code", "work")

	if strings.HasPrefix(repoRoot, workPrefix) {
		return filepath.Join(workPrefix, ".worktrees", repoName)
	}
	return filepath.Join(home, "code", ".worktrees", repoName)
}
