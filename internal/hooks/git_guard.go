package hooks

import (
	"context"
	"fmt"

	"github.com/brads3290/cchooks"

	"github.com/gatehouse-sh/gatehouse/internal/constants"
	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

// GitGuardHook enforces safe git usage: staged-file hygiene, checkout
// safety, the branch workflow, worktree suggestions, and post-merge
// worktree cleanup.
type GitGuardHook struct {
	*core.BaseHook
	aliases *shell.AliasExpander
}

// NewGitGuardHook creates a new git guard hook instance
func NewGitGuardHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("git-guard", "Git Guard Hook",
		"Enforces safe git staging, checkout, and branch workflow", ctx)
	return &GitGuardHook{
		BaseHook: base,
		aliases:  shell.NewAliasExpander(base.Context().CommandExecutor),
	}
}

// Run executes the git guard hook.
func (h *GitGuardHook) Run() error {
	if !h.IsEnabled() {
		fmt.Println("Git guard plugin disabled - skipping")
		return nil
	}

	runner := h.Context().RunnerFactory(h.preToolUseHandler, h.postToolUseHandler, h.CreateRawHandler())
	runner.Run()
	return nil
}

func (h *GitGuardHook) preToolUseHandler(_ context.Context, event *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface {
	if event.ToolName != constants.ToolBash {
		return cchooks.Approve()
	}

	bash, err := event.AsBash()
	if err != nil {
		h.LogError("git_guard_error", event.ToolName, err)
		return cchooks.Approve()
	}

	// Expand aliases first so gco/gcam style shortcuts are seen for what
	// they run
	command := h.aliases.ExpandCommand(bash.Command)
	exec := h.Context().CommandExecutor
	rules := h.Context().Rules

	// Checks in priority order: staging hygiene, checkout safety, branch
	// workflow. The first block wins; asks are kept until blocks are ruled
	// out.
	var firstAsk *CheckResult
	keepAsk := func(r CheckResult) {
		if r.Decision == DecisionAsk && firstAsk == nil {
			firstAsk = &r
		}
	}

	for _, result := range []CheckResult{
		checkGitAdd(exec, command),
		checkGitCheckout(exec, command),
		checkBranchWorkflow(exec, rules, command),
	} {
		if result.Decision == DecisionBlock {
			h.LogBlock("git_guard_block", constants.ToolBash, map[string]interface{}{
				"command": bash.Command,
				"reason":  result.Reason,
			})
			return cchooks.Block(result.Reason)
		}
		keepAsk(result)
	}

	if firstAsk != nil {
		h.LogApproval("git_guard_ask", constants.ToolBash, map[string]interface{}{
			"command": bash.Command,
			"reason":  firstAsk.Reason,
		})
		return core.AskWithMessages(firstAsk.Reason)
	}

	if suggestion := worktreeSuggestion(exec, rules, command); suggestion != "" {
		h.LogApproval("git_guard_worktree_suggestion", constants.ToolBash, map[string]interface{}{
			"command": bash.Command,
		})
		return core.ApproveWithMessages(suggestion)
	}

	h.LogApproval("git_guard_approved", constants.ToolBash, map[string]interface{}{
		"command": bash.Command,
	})
	return cchooks.Approve()
}

// postToolUseHandler watches for merge completions and feeds worktree
// cleanup instructions back after the command has run.
func (h *GitGuardHook) postToolUseHandler(_ context.Context, event *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface {
	if event.ToolName != constants.ToolBash {
		return cchooks.Allow()
	}

	bash, err := event.InputAsBash()
	if err != nil {
		return cchooks.Allow()
	}

	instructions := worktreeCleanupInstructions(h.Context().CommandExecutor, h.Context().Rules, bash.Command)
	if instructions == "" {
		return cchooks.Allow()
	}

	h.LogApproval("git_guard_worktree_cleanup", constants.ToolBash, map[string]interface{}{
		"command": bash.Command,
	})
	// PostBlock is the feedback channel after a tool has already run; the
	// command is not undone, the instructions are surfaced to the agent.
	return core.PostBlockWithMessages(instructions)
}
