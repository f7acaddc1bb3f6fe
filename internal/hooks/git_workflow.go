package hooks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/gitutil"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

// Stash subcommands that retrieve or inspect stashes (allowed)
var stashRetrieveSubcommands = map[string]bool{
	"pop":    true,
	"apply":  true,
	"list":   true,
	"drop":   true,
	"clear":  true,
	"show":   true,
	"branch": true,
}

// Stash subcommands that store changes (blocked, they bypass the workflow)
var stashStoreSubcommands = map[string]bool{
	"push": true,
	"save": true,
	"":     true, // bare 'git stash'
}

const stashBlockedReason = `GIT STASH BLOCKED

git stash bypasses the branch workflow by hiding uncommitted changes.

Required workflow:
1. Create a feature branch: git checkout -b PROJ-123-wip
2. Commit your work-in-progress there`

// checkBranchWorkflow enforces the branch-based workflow: no direct commits
// on protected branches, issue-keyed branch names, no stash stores.
//
// cd commands inside compound commands update the directory used to resolve
// the current branch, so worktree setups are handled correctly. All
// subcommands are scanned with block > ask > allow priority.
func checkBranchWorkflow(exec core.CommandExecutor, rules *config.Rules, command string) CheckResult {
	issuePattern, err := regexp.Compile(rules.Git.IssueKeyPattern)
	if err != nil {
		issuePattern = nil
	}

	var blockReasons, askReasons []string
	currentDir := ""

	for _, subcmd := range shell.ExtractSubcommands(command) {
		if target := shell.ExtractCDTarget(subcmd); target != "" {
			currentDir = target
			continue
		}

		result := checkWorkflowSubcommand(exec, rules, issuePattern, subcmd, currentDir)
		switch result.Decision {
		case DecisionBlock:
			blockReasons = append(blockReasons, result.Reason)
		case DecisionAsk:
			askReasons = append(askReasons, result.Reason)
		}
	}

	if len(blockReasons) > 0 {
		return block(blockReasons[0])
	}
	if len(askReasons) > 0 {
		return ask(askReasons[0])
	}
	return allow()
}

func checkWorkflowSubcommand(exec core.CommandExecutor, rules *config.Rules, issuePattern *regexp.Regexp, subcmd, dir string) CheckResult {
	normalizedCmd, gitDir := shell.NormalizeGitCommand(strings.TrimSpace(subcmd))
	normalized := strings.ToLower(normalizedCmd)

	// -C/--work-tree beats an earlier cd for resolving the branch
	effectiveDir := gitDir
	if effectiveDir == "" {
		effectiveDir = dir
	}

	if strings.HasPrefix(normalized, "git commit") {
		return checkCommitWorkflow(exec, rules, issuePattern, effectiveDir)
	}

	if strings.HasPrefix(normalized, "git stash") {
		return checkStashWorkflow(subcmd)
	}

	if newBranch := shell.ExtractNewBranchName(subcmd); newBranch != "" {
		if issuePattern != nil && !issuePattern.MatchString(newBranch) {
			return ask(fmt.Sprintf(`BRANCH MISSING ISSUE PREFIX

Proposed branch: %s

Branch names should start with an issue key (e.g., ORG-123-%s).

What's the issue for this work? Or continue with this name?`, newBranch, newBranch))
		}
	}

	return allow()
}

func checkCommitWorkflow(exec core.CommandExecutor, rules *config.Rules, issuePattern *regexp.Regexp, dir string) CheckResult {
	branch := gitutil.CurrentBranch(exec, dir)
	if branch == "" {
		// Can't determine branch, allow and let git handle it
		return allow()
	}

	if rules.IsProtectedBranch(branch) {
		return block(fmt.Sprintf(`COMMIT ON PROTECTED BRANCH BLOCKED

Cannot commit directly to '%s'.

Required workflow:
1. Create a feature branch with an issue prefix: git checkout -b PROJ-123-description
2. Make your changes and commit there
3. Create a PR to merge back`, branch))
	}

	if issuePattern != nil && !issuePattern.MatchString(branch) {
		return ask(fmt.Sprintf(`BRANCH MISSING ISSUE PREFIX

Current branch: %s

Branch names should start with an issue key (e.g., ORG-123-feature-description).

This helps track work back to tickets. Continue with this branch name?`, branch))
	}

	// Branch is properly named, commits still need user approval
	return ask("Git commit requires your approval.")
}

func checkStashWorkflow(subcmd string) CheckResult {
	parts := shell.Split(subcmd)
	if parts == nil {
		return allow()
	}

	stashSubcmd := ""
	if len(parts) > 2 {
		stashSubcmd = parts[2]
	}

	if stashRetrieveSubcommands[stashSubcmd] {
		return allow()
	}

	if stashStoreSubcommands[stashSubcmd] || strings.HasPrefix(stashSubcmd, "-") {
		return block(stashBlockedReason)
	}

	return allow()
}
