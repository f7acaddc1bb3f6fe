package hooks

import (
	"fmt"

	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/gitutil"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

type mergeKind int

const (
	mergeNone mergeKind = iota
	mergePRMerge
	mergePullMain
)

// detectMergeCommand reports whether the command indicates a completed merge:
// gh pr merge, or git pull while on a protected (main) branch.
func detectMergeCommand(exec core.CommandExecutor, rules *config.Rules, command string) mergeKind {
	parts := shell.Split(command)
	if parts == nil {
		return mergeNone
	}

	has := func(token string) bool {
		for _, p := range parts {
			if p == token {
				return true
			}
		}
		return false
	}

	if has("gh") && has("pr") && has("merge") {
		return mergePRMerge
	}

	if has("git") && has("pull") {
		if rules.IsProtectedBranch(gitutil.CurrentBranch(exec, "")) {
			return mergePullMain
		}
	}

	return mergeNone
}

// worktreeCleanupInstructions returns cleanup guidance when a merge completed
// inside a worktree whose branch is now done, or "" when nothing to do.
func worktreeCleanupInstructions(exec core.CommandExecutor, rules *config.Rules, command string) string {
	kind := detectMergeCommand(exec, rules, command)
	if kind == mergeNone {
		return ""
	}

	if !gitutil.InWorktree(exec) {
		return ""
	}

	worktreePath := gitutil.WorktreePath(exec)
	branch := gitutil.CurrentBranch(exec, "")
	mainRepo := gitutil.MainRepoPath(exec)

	if worktreePath == "" || branch == "" {
		return ""
	}

	switch kind {
	case mergePRMerge:
		return fmt.Sprintf(`WORKTREE CLEANUP TRIGGERED

PR merged for branch: %s
Worktree location: %s

To clean up:
1. cd %s
2. git worktree remove "%s"
3. git branch -d %s

Announce to user:
  "PR merged. Cleaning up worktree at %s"
`, branch, worktreePath, mainRepo, worktreePath, branch, worktreePath)

	case mergePullMain:
		if !gitutil.IsBranchMerged(exec, branch, rules.Git.ProtectedBranches) {
			return ""
		}
		return fmt.Sprintf(`WORKTREE CLEANUP - BRANCH MERGED

Branch %s is now merged to main.
Worktree location: %s

To clean up:
1. cd %s
2. git worktree remove "%s"
3. git branch -d %s

Announce to user:
  "Branch merged. Cleaning up worktree at %s"
`, branch, worktreePath, mainRepo, worktreePath, branch, worktreePath)
	}

	return ""
}
