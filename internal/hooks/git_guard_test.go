package hooks

import (
	"errors"
	"strings"
	"testing"

	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/core"
)

func TestGitGuardHook(t *testing.T) {
	ctx := core.TestHookContext(nil)
	hook := NewGitGuardHook(ctx)

	if hook.Key() != "git-guard" {
		t.Errorf("Expected key 'git-guard', got '%s'", hook.Key())
	}

	if !hook.IsEnabled() {
		t.Error("Expected hook to be enabled by default")
	}

	if err := hook.Run(); err != nil {
		t.Errorf("Hook run failed: %v", err)
	}
}

func TestCheckGitAddDangerousPatterns(t *testing.T) {
	exec := core.NewMockCommandExecutor()

	testCases := []struct {
		command string
		reason  string
	}{
		{"git add -A", "Dangerous git add pattern"},
		{"git add -a", "Dangerous git add pattern"},
		{"git add --all", "Dangerous git add pattern"},
		{"git add .", "Dangerous git add pattern"},
		{"git add ../", "Dangerous git add pattern"},
		{"git add *.py", "Wildcard patterns"},
		{"git add *", "Wildcard patterns"},
	}

	for _, tc := range testCases {
		t.Run(tc.command, func(t *testing.T) {
			result := checkGitAdd(exec, tc.command)
			if result.Decision != DecisionBlock {
				t.Fatalf("Expected block, got %v", result.Decision)
			}
			if !strings.Contains(result.Reason, tc.reason) {
				t.Errorf("Expected reason to contain '%s', got '%s'", tc.reason, result.Reason)
			}
		})
	}
}

func TestCheckGitAddDryRunAllowed(t *testing.T) {
	exec := core.NewMockCommandExecutor()

	result := checkGitAdd(exec, "git add --dry-run .")
	if result.Decision != DecisionAllow {
		t.Errorf("Expected allow for dry-run, got %v: %s", result.Decision, result.Reason)
	}
}

func TestCheckGitAddUntrackedFile(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git status --porcelain new.go", []byte("?? new.go"), nil)

	result := checkGitAdd(exec, "git add new.go")
	if result.Decision != DecisionAllow {
		t.Errorf("Expected allow for untracked file, got %v: %s", result.Decision, result.Reason)
	}
}

func TestCheckGitAddModifiedFile(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git status --porcelain tracked.go", []byte(" M tracked.go"), nil)

	result := checkGitAdd(exec, "git add tracked.go")
	if result.Decision != DecisionAsk {
		t.Fatalf("Expected ask for modified file, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "tracked.go") {
		t.Errorf("Expected file in reason, got: %s", result.Reason)
	}
}

func TestCheckGitAddDirectoryOnlyNewFiles(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git add --dry-run src/", []byte("add 'src/a.go'\nadd 'src/b.go'"), nil)
	exec.SetResponse("git status --porcelain src/a.go", []byte("?? src/a.go"), nil)
	exec.SetResponse("git status --porcelain src/b.go", []byte("?? src/b.go"), nil)

	result := checkGitAdd(exec, "git add src/")
	if result.Decision != DecisionAllow {
		t.Errorf("Expected allow when directory only stages new files, got %v: %s", result.Decision, result.Reason)
	}
}

func TestCheckGitAddDirectoryWithModifiedFiles(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git add --dry-run src/", []byte("add 'src/a.go'\nadd 'src/b.go'"), nil)
	exec.SetResponse("git status --porcelain src/a.go", []byte("?? src/a.go"), nil)
	exec.SetResponse("git status --porcelain src/b.go", []byte(" M src/b.go"), nil)

	result := checkGitAdd(exec, "git add src/")
	if result.Decision != DecisionAsk {
		t.Fatalf("Expected ask for directory with modified files, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "src/b.go") {
		t.Errorf("Expected modified file in reason, got: %s", result.Reason)
	}
}

func TestCheckGitAddDirectoryDryRunFails(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git add --dry-run src/", nil, errors.New("fatal: pathspec"))

	result := checkGitAdd(exec, "git add src/")
	if result.Decision != DecisionAsk {
		t.Fatalf("Expected ask when dry-run fails, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "couldn't verify") {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}
}

func TestCheckGitAddCommitWithoutMessage(t *testing.T) {
	exec := core.NewMockCommandExecutor()

	result := checkGitAdd(exec, "git commit -a")
	if result.Decision != DecisionBlock {
		t.Fatalf("Expected block for commit -a without message, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "gcam") {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}

	result = checkGitAdd(exec, "git commit -am 'fix bug'")
	if result.Decision == DecisionBlock {
		t.Errorf("commit -am with message should not block: %s", result.Reason)
	}
}

func TestCheckGitAddBlockBeatsAskInCompound(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git status --porcelain tracked.go", []byte(" M tracked.go"), nil)

	// The ask from staging a modified file must not hide the -A block
	result := checkGitAdd(exec, "git add tracked.go && git add -A")
	if result.Decision != DecisionBlock {
		t.Errorf("Expected block to win over ask, got %v: %s", result.Decision, result.Reason)
	}
}

func TestCheckGitCheckoutDangerous(t *testing.T) {
	exec := core.NewMockCommandExecutor()

	testCases := []string{
		"git checkout -f main",
		"git checkout --force main",
		"git checkout .",
		"git checkout main -- file.go",
	}

	for _, command := range testCases {
		t.Run(command, func(t *testing.T) {
			result := checkGitCheckout(exec, command)
			if result.Decision != DecisionBlock {
				t.Fatalf("Expected block, got %v", result.Decision)
			}
			if !strings.Contains(result.Reason, "DANGEROUS COMMAND DETECTED") {
				t.Errorf("Unexpected reason: %s", result.Reason)
			}
		})
	}
}

func TestCheckGitCheckoutBranchCreationSafe(t *testing.T) {
	exec := core.NewMockCommandExecutor()

	result := checkGitCheckout(exec, "git checkout -b feature/new-thing")
	if result.Decision != DecisionAllow {
		t.Errorf("Expected allow for branch creation, got %v: %s", result.Decision, result.Reason)
	}
}

func TestCheckGitCheckoutCleanTree(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git status --porcelain", []byte(""), nil)

	result := checkGitCheckout(exec, "git checkout develop")
	if result.Decision != DecisionAllow {
		t.Errorf("Expected allow on clean tree, got %v: %s", result.Decision, result.Reason)
	}
}

func TestCheckGitCheckoutDirtyTree(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git status --porcelain", []byte(" M main.go\n M util.go"), nil)

	result := checkGitCheckout(exec, "git checkout develop")
	if result.Decision != DecisionBlock {
		t.Fatalf("Expected block on dirty tree, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "2 uncommitted change(s)") {
		t.Errorf("Expected change count in warning, got: %s", result.Reason)
	}
	if !strings.Contains(result.Reason, "git stash") {
		t.Errorf("Expected stash option in warning, got: %s", result.Reason)
	}
}

func TestCheckGitCheckoutStatusFails(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git status --porcelain", nil, errors.New("not a git repository"))

	result := checkGitCheckout(exec, "git checkout develop")
	if result.Decision != DecisionBlock {
		t.Fatalf("Expected block when status cannot be verified, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "Could not verify repository status") {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}
}

func TestCheckBranchWorkflowProtectedBranch(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("main"), nil)
	rules := config.DefaultRules()

	result := checkBranchWorkflow(exec, rules, "git commit -m 'quick fix'")
	if result.Decision != DecisionBlock {
		t.Fatalf("Expected block on protected branch, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "PROTECTED BRANCH") {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}
}

func TestCheckBranchWorkflowMissingIssuePrefix(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("my-feature"), nil)
	rules := config.DefaultRules()

	result := checkBranchWorkflow(exec, rules, "git commit -m 'wip'")
	if result.Decision != DecisionAsk {
		t.Fatalf("Expected ask for branch without issue prefix, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "BRANCH MISSING ISSUE PREFIX") {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}
}

func TestCheckBranchWorkflowProperBranch(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("PROJ-123-add-widget"), nil)
	rules := config.DefaultRules()

	result := checkBranchWorkflow(exec, rules, "git commit -m 'add widget'")
	if result.Decision != DecisionAsk {
		t.Fatalf("Expected ask for commit approval, got %v", result.Decision)
	}
	if result.Reason != "Git commit requires your approval." {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}
}

func TestCheckBranchWorkflowStash(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	rules := config.DefaultRules()

	for _, command := range []string{"git stash", "git stash push", "git stash save wip"} {
		result := checkBranchWorkflow(exec, rules, command)
		if result.Decision != DecisionBlock {
			t.Errorf("Command '%s': expected block, got %v", command, result.Decision)
		}
	}

	for _, command := range []string{"git stash pop", "git stash list", "git stash apply"} {
		result := checkBranchWorkflow(exec, rules, command)
		if result.Decision != DecisionAllow {
			t.Errorf("Command '%s': expected allow, got %v: %s", command, result.Decision, result.Reason)
		}
	}
}

func TestCheckBranchWorkflowNewBranchNaming(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	rules := config.DefaultRules()

	result := checkBranchWorkflow(exec, rules, "git checkout -b my-cool-feature")
	if result.Decision != DecisionAsk {
		t.Fatalf("Expected ask for unprefixed branch name, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "my-cool-feature") {
		t.Errorf("Expected branch name in reason, got: %s", result.Reason)
	}

	result = checkBranchWorkflow(exec, rules, "git checkout -b PROJ-42-cool-feature")
	if result.Decision != DecisionAllow {
		t.Errorf("Expected allow for issue-keyed branch, got %v: %s", result.Decision, result.Reason)
	}
}

func TestCheckBranchWorkflowBlockBeatsAsk(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("main"), nil)
	rules := config.DefaultRules()

	// The stash block must win even though the commit would only ask
	result := checkBranchWorkflow(exec, rules, "git stash && git commit -m 'x'")
	if result.Decision != DecisionBlock {
		t.Fatalf("Expected block, got %v", result.Decision)
	}
	if !strings.Contains(result.Reason, "GIT STASH BLOCKED") && !strings.Contains(result.Reason, "PROTECTED BRANCH") {
		t.Errorf("Unexpected reason: %s", result.Reason)
	}
}

func TestCheckBranchWorkflowGitCFlag(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("PROJ-9-x"), nil)
	rules := config.DefaultRules()

	checkBranchWorkflow(exec, rules, "git -C /tmp/worktree commit -m 'x'")

	// Branch resolution must happen in the -C directory
	found := false
	for _, cmd := range exec.GetExecutedCommands() {
		if cmd.Dir == "/tmp/worktree" {
			found = true
		}
	}
	if !found {
		t.Error("Expected branch lookup in the -C directory")
	}
}

func TestWorktreeSuggestion(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte(".git"), nil)
	exec.SetResponse("git rev-parse --git-common-dir", []byte(".git"), nil)
	exec.SetResponse("git rev-parse --show-toplevel", []byte("/tmp/projects/myrepo"), nil)
	rules := config.DefaultRules()

	suggestion := worktreeSuggestion(exec, rules, "git checkout -b feature/new-ui")
	if suggestion == "" {
		t.Fatal("Expected a worktree suggestion")
	}
	if !strings.Contains(suggestion, "WORKTREE SUGGESTION") {
		t.Errorf("Unexpected suggestion: %s", suggestion)
	}
	if !strings.Contains(suggestion, "feature/new-ui") {
		t.Errorf("Expected branch name in suggestion: %s", suggestion)
	}
	if !strings.Contains(suggestion, ".worktrees") {
		t.Errorf("Expected worktree location in suggestion: %s", suggestion)
	}
}

func TestWorktreeSuggestionSkippedBranches(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte(".git"), nil)
	exec.SetResponse("git rev-parse --git-common-dir", []byte(".git"), nil)
	rules := config.DefaultRules()

	for _, command := range []string{
		"git checkout -b hotfix/urgent",
		"git checkout -b docs/readme",
		"git checkout -b chore/deps",
		"git checkout -b release-1.2.0",
	} {
		if suggestion := worktreeSuggestion(exec, rules, command); suggestion != "" {
			t.Errorf("Command '%s': expected no suggestion, got: %s", command, suggestion)
		}
	}
}

func TestWorktreeSuggestionAlreadyInWorktree(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte("/repo/.git/worktrees/feat"), nil)
	rules := config.DefaultRules()

	if suggestion := worktreeSuggestion(exec, rules, "git checkout -b feature/x"); suggestion != "" {
		t.Errorf("Expected no suggestion inside a worktree, got: %s", suggestion)
	}
}

func TestWorktreeSuggestionNotBranchCreation(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	rules := config.DefaultRules()

	if suggestion := worktreeSuggestion(exec, rules, "git status"); suggestion != "" {
		t.Errorf("Expected no suggestion, got: %s", suggestion)
	}
}

func TestWorktreeCleanupAfterPRMerge(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte("/repo/.git/worktrees/feat"), nil)
	exec.SetResponse("git rev-parse --git-common-dir", []byte("/repo/.git"), nil)
	exec.SetResponse("git rev-parse --show-toplevel", []byte("/repo-feat"), nil)
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("PROJ-7-feat"), nil)
	rules := config.DefaultRules()

	instructions := worktreeCleanupInstructions(exec, rules, "gh pr merge 42 --squash")
	if instructions == "" {
		t.Fatal("Expected cleanup instructions")
	}
	if !strings.Contains(instructions, "WORKTREE CLEANUP TRIGGERED") {
		t.Errorf("Unexpected instructions: %s", instructions)
	}
	if !strings.Contains(instructions, "PROJ-7-feat") || !strings.Contains(instructions, "/repo-feat") {
		t.Errorf("Expected branch and worktree path, got: %s", instructions)
	}
	if !strings.Contains(instructions, "git worktree remove") {
		t.Errorf("Expected removal command, got: %s", instructions)
	}
}

func TestWorktreeCleanupPullOnMain(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte("/repo/.git/worktrees/feat"), nil)
	exec.SetResponse("git rev-parse --git-common-dir", []byte("/repo/.git"), nil)
	exec.SetResponse("git rev-parse --show-toplevel", []byte("/repo-feat"), nil)
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("main"), nil)
	exec.SetResponse("git branch --merged main", []byte("* main\n  PROJ-7-feat"), nil)
	rules := config.DefaultRules()

	instructions := worktreeCleanupInstructions(exec, rules, "git pull")
	if instructions == "" {
		t.Fatal("Expected cleanup instructions after pull on merged branch")
	}
	if !strings.Contains(instructions, "WORKTREE CLEANUP - BRANCH MERGED") {
		t.Errorf("Unexpected instructions: %s", instructions)
	}
}

func TestWorktreeCleanupPullOnUnmergedBranch(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte("/repo/.git/worktrees/feat"), nil)
	exec.SetResponse("git rev-parse --git-common-dir", []byte("/repo/.git"), nil)
	exec.SetResponse("git rev-parse --show-toplevel", []byte("/repo-feat"), nil)
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("main"), nil)
	exec.SetResponse("git branch --merged", []byte("  other-branch"), nil)
	rules := config.DefaultRules()

	if instructions := worktreeCleanupInstructions(exec, rules, "git pull"); instructions != "" {
		t.Errorf("Expected no instructions for unmerged branch, got: %s", instructions)
	}
}

func TestWorktreeCleanupNotInWorktree(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte(".git"), nil)
	exec.SetResponse("git rev-parse --git-common-dir", []byte(".git"), nil)
	rules := config.DefaultRules()

	if instructions := worktreeCleanupInstructions(exec, rules, "gh pr merge 42"); instructions != "" {
		t.Errorf("Expected no instructions outside a worktree, got: %s", instructions)
	}
}

func TestWorktreeCleanupNotAMerge(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	rules := config.DefaultRules()

	if instructions := worktreeCleanupInstructions(exec, rules, "git status"); instructions != "" {
		t.Errorf("Expected no instructions, got: %s", instructions)
	}
}
