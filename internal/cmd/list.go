package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/core"
)

// NewListCmd creates the consolidated list command
func NewListCmd() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List available hooks, installed hooks, or events",
		Description: `List available guard hooks, installed hooks from settings, or available Claude Code events.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "installed",
				Aliases: []string{"i"},
				Value:   false,
				Usage:   "Show installed hooks from settings",
			},
			&cli.BoolFlag{
				Name:    "events",
				Aliases: []string{"e"},
				Value:   false,
				Usage:   "Show available Claude Code hook events",
			},
			&cli.BoolFlag{
				Name:    "global",
				Aliases: []string{"g"},
				Value:   false,
				Usage:   "Show global settings (~/.claude/settings.json) when using --installed",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("installed") {
				return listInstalledHooks(cmd.Bool("global"))
			}
			if cmd.Bool("events") {
				return listEvents()
			}
			return listAvailableHooks()
		},
	}
}

func listAvailableHooks() error {
	hooks := core.ListHooks()
	keys := make([]string, 0, len(hooks))
	for k := range hooks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("Available guard hooks:")
	fmt.Println()
	for _, key := range keys {
		fmt.Printf("  %s - %s\n", key, hooks[key].Description())
	}
	fmt.Println()
	fmt.Println("Use 'gatehouse run <key>' to run a hook.")
	fmt.Println("Use 'gatehouse install <key>' to install a hook into Claude Code settings.")
	return nil
}

func listInstalledHooks(global bool) error {
	settingsPath, err := config.GetSettingsPath(global)
	if err != nil {
		return fmt.Errorf("error getting settings path: %v", err)
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("error loading settings: %v", err)
	}

	scope := "project"
	if global {
		scope = "global"
	}

	fmt.Printf("Installed hooks (%s settings):\n", scope)
	fmt.Printf("Settings file: %s\n\n", settingsPath)

	if config.IsHooksConfigEmpty(settings.Hooks) {
		fmt.Println("No hooks are currently installed.")
	} else {
		printHookMatchers("PreToolUse", settings.Hooks.PreToolUse)
		printHookMatchers("PostToolUse", settings.Hooks.PostToolUse)
		printHookMatchers("UserPromptSubmit", settings.Hooks.UserPromptSubmit)
		printHookMatchers("Notification", settings.Hooks.Notification)
		printHookMatchers("Stop", settings.Hooks.Stop)
		printHookMatchers("SubagentStop", settings.Hooks.SubagentStop)
		printHookMatchers("PreCompact", settings.Hooks.PreCompact)
		printHookMatchers("SessionStart", settings.Hooks.SessionStart)
		printHookMatchers("SessionEnd", settings.Hooks.SessionEnd)
	}

	globalFlag := ""
	if global {
		globalFlag = " --global"
	}
	fmt.Printf("Use 'gatehouse uninstall <key>%s' to remove a hook.\n", globalFlag)
	fmt.Printf("Use 'gatehouse uninstall all%s' to remove every gatehouse hook.\n", globalFlag)
	return nil
}

func listEvents() error {
	fmt.Println("Available Claude Code Hook Events:")
	fmt.Println()

	events := core.AllClaudeCodeEvents()
	supported := 0
	for _, event := range events {
		status := " ⚠ (raw handler only)"
		if event.SupportedByCCHooks {
			status = " ✓ (typed handler)"
			supported++
		}
		fmt.Printf("  %s%s\n", event.Name, status)
		fmt.Printf("      %s\n", event.Description)
		fmt.Println()
	}

	fmt.Printf("Total: %d events available (%d with typed handlers)\n\n", len(events), supported)
	fmt.Println("Use 'gatehouse install <hook-key> --event <event-name>' to install a hook for a specific event.")
	fmt.Println("Use 'gatehouse list --installed' to see currently configured hooks.")
	return nil
}

func printHookMatchers(eventName string, matchers []config.HookMatcher) {
	if len(matchers) == 0 {
		return
	}

	fmt.Printf("%s:\n", eventName)
	for _, matcher := range matchers {
		matcherStr := matcher.Matcher
		if matcherStr == "" {
			matcherStr = "*"
		}
		fmt.Printf("  Matcher: %s\n", matcherStr)
		for _, hook := range matcher.Hooks {
			fmt.Printf("    - %s", hook.Command)
			if hook.Timeout != nil {
				fmt.Printf(" (timeout: %ds)", *hook.Timeout)
			}
			fmt.Println()
		}
	}
	fmt.Println()
}
