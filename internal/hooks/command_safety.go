package hooks

import (
	"context"
	"fmt"

	"github.com/brads3290/cchooks"

	"github.com/gatehouse-sh/gatehouse/internal/constants"
	"github.com/gatehouse-sh/gatehouse/internal/core"
)

// CommandSafetyHook guards Bash against destructive commands: rm of tracked
// files, and destructive kubectl/terraform verbs.
type CommandSafetyHook struct {
	*core.BaseHook
}

// NewCommandSafetyHook creates a new command safety hook instance
func NewCommandSafetyHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("command-safety", "Command Safety Hook",
		"Blocks destructive rm, kubectl, and terraform commands", ctx)
	return &CommandSafetyHook{BaseHook: base}
}

// Run executes the command safety hook.
func (h *CommandSafetyHook) Run() error {
	if !h.IsEnabled() {
		fmt.Println("Command safety plugin disabled - skipping")
		return nil
	}

	runner := h.Context().RunnerFactory(h.preToolUseHandler, nil, h.CreateRawHandler())
	runner.Run()
	return nil
}

func (h *CommandSafetyHook) preToolUseHandler(_ context.Context, event *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface {
	if event.ToolName != constants.ToolBash {
		return cchooks.Approve()
	}

	bash, err := event.AsBash()
	if err != nil {
		h.LogError("command_safety_error", event.ToolName, err)
		return cchooks.Approve()
	}

	// Checks run in order of how often they fire; the first non-allow wins
	checks := []struct {
		name  string
		check func(string) CheckResult
	}{
		{"rm", func(c string) CheckResult { return checkRmCommand(h.Context().CommandExecutor, c) }},
		{"kubectl", checkKubectlCommand},
		{"terraform", checkTerraformCommand},
	}

	for _, c := range checks {
		result := c.check(bash.Command)
		switch result.Decision {
		case DecisionBlock:
			h.LogBlock("command_safety_block", constants.ToolBash, map[string]interface{}{
				"command":    bash.Command,
				"check_type": c.name,
				"reason":     result.Reason,
			})
			return cchooks.Block(result.Reason)
		case DecisionAsk:
			h.LogApproval("command_safety_ask", constants.ToolBash, map[string]interface{}{
				"command":    bash.Command,
				"check_type": c.name,
				"reason":     result.Reason,
			})
			return core.AskWithMessages(result.Reason)
		}
	}

	h.LogApproval("command_safety_approved", constants.ToolBash, map[string]interface{}{
		"command": bash.Command,
	})
	return cchooks.Approve()
}
