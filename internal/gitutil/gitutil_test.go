package gitutil

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gatehouse-sh/gatehouse/internal/core"
)

func TestIsInRepo(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	if !IsInRepo(exec) {
		t.Error("expected in repo when rev-parse succeeds")
	}

	exec.SetResponse("git rev-parse --git-dir", nil, errors.New("not a git repository"))
	if IsInRepo(exec) {
		t.Error("expected not in repo when rev-parse fails")
	}
}

func TestIsIgnored(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	if !IsIgnored(exec, "node_modules") {
		t.Error("expected ignored when check-ignore succeeds")
	}

	exec.SetResponse("git check-ignore", nil, errors.New("exit 1"))
	if IsIgnored(exec, "main.go") {
		t.Error("expected not ignored when check-ignore fails")
	}
}

func TestCurrentBranch(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("main\n"), nil)

	if got := CurrentBranch(exec, ""); got != "main" {
		t.Errorf("CurrentBranch = %q, want main", got)
	}

	exec.SetResponse("git rev-parse --abbrev-ref HEAD", nil, errors.New("fatal"))
	if got := CurrentBranch(exec, ""); got != "" {
		t.Errorf("CurrentBranch on error = %q, want empty", got)
	}
}

func TestCurrentBranchInDir(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --abbrev-ref HEAD", []byte("PROJ-42-feature\n"), nil)

	if got := CurrentBranch(exec, "/some/worktree"); got != "PROJ-42-feature" {
		t.Errorf("CurrentBranch = %q, want PROJ-42-feature", got)
	}

	cmds := exec.GetExecutedCommands()
	if len(cmds) != 1 || cmds[0].Dir != "/some/worktree" {
		t.Errorf("expected command executed in /some/worktree, got %+v", cmds)
	}
}

func TestHasUncommittedChanges(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git status --porcelain", []byte(" M main.go\n?? new.go\n"), nil)

	dirty, err := HasUncommittedChanges(exec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dirty {
		t.Error("expected uncommitted changes")
	}

	exec.SetResponse("git status --porcelain", []byte("\n"), nil)
	dirty, err = HasUncommittedChanges(exec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dirty {
		t.Error("expected clean tree")
	}
}

func TestIsUntracked(t *testing.T) {
	exec := core.NewMockCommandExecutor()

	exec.SetResponse("git status --porcelain new.go", []byte("?? new.go\n"), nil)
	untracked, ok := IsUntracked(exec, "new.go")
	if !ok || !untracked {
		t.Errorf("IsUntracked(new.go) = (%v, %v), want (true, true)", untracked, ok)
	}

	exec.SetResponse("git status --porcelain mod.go", []byte(" M mod.go\n"), nil)
	untracked, ok = IsUntracked(exec, "mod.go")
	if !ok || untracked {
		t.Errorf("IsUntracked(mod.go) = (%v, %v), want (false, true)", untracked, ok)
	}

	exec.SetResponse("git status --porcelain clean.go", []byte(""), nil)
	_, ok = IsUntracked(exec, "clean.go")
	if ok {
		t.Error("expected no status for clean file")
	}
}

func TestDryRunAdd(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git add --dry-run src/", []byte("add 'src/a.go'\nadd 'src/b.go'\n"), nil)

	files, err := DryRunAdd(exec, "src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"src/a.go", "src/b.go"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("DryRunAdd = %v, want %v", files, want)
	}
}

func TestInWorktree(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte("/repo/.git/worktrees/feature\n"), nil)
	if !InWorktree(exec) {
		t.Error("expected worktree when git-dir contains worktrees")
	}

	exec = core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-dir", []byte(".git\n"), nil)
	exec.SetResponse("git rev-parse --git-common-dir", []byte(".git\n"), nil)
	if InWorktree(exec) {
		t.Error("expected main working tree when common dir matches git dir")
	}
}

func TestMainRepoPath(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git rev-parse --git-common-dir", []byte("/home/dev/repo/.git\n"), nil)

	if got := MainRepoPath(exec); got != "/home/dev/repo" {
		t.Errorf("MainRepoPath = %q, want /home/dev/repo", got)
	}
}

func TestIsBranchMerged(t *testing.T) {
	exec := core.NewMockCommandExecutor()
	exec.SetResponse("git branch --merged main", []byte("  PROJ-1-done\n* main\n"), nil)
	exec.SetResponse("git branch --merged master", nil, errors.New("no master"))

	if !IsBranchMerged(exec, "PROJ-1-done", []string{"main", "master"}) {
		t.Error("expected PROJ-1-done to be merged")
	}
	if IsBranchMerged(exec, "PROJ-2-open", []string{"main", "master"}) {
		t.Error("expected PROJ-2-open to not be merged")
	}
}
