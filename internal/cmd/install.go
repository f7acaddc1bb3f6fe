package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/core"
)

// eventBinding is a single event/matcher pair a hook installs into
type eventBinding struct {
	Event   string
	Matcher string
}

// defaultEventBindings maps each hook key to the events it needs. Installing
// a hook without --event wires all of these at once.
var defaultEventBindings = map[string][]eventBinding{
	"command-safety": {
		{Event: string(core.PreToolUseEvent), Matcher: "Bash"},
	},
	"git-guard": {
		{Event: string(core.PreToolUseEvent), Matcher: "Bash"},
		{Event: string(core.PostToolUseEvent), Matcher: "Bash"},
	},
	"file-guard": {
		{Event: string(core.PreToolUseEvent), Matcher: "Write|Edit|MultiEdit"},
	},
	"env-guard": {
		{Event: string(core.PreToolUseEvent), Matcher: "Bash|Read|Grep"},
	},
	"notify": {
		{Event: string(core.StopEvent), Matcher: ""},
		{Event: string(core.NotificationEvent), Matcher: ""},
	},
}

// NewInstallCmd creates the install command
func NewInstallCmd() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install a guard hook into Claude Code settings",
		ArgsUsage: "[hook-key]",
		Description: `Install a guard hook into your Claude Code settings.json file.
Without --event, the hook is wired to all events it needs (e.g. git-guard
registers for both PreToolUse and PostToolUse on Bash).`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "global",
				Aliases: []string{"g"},
				Value:   false,
				Usage:   "Install to global settings (~/.claude/settings.json)",
			},
			&cli.StringFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Usage:   "Install for a single event instead of the hook's defaults",
			},
			&cli.StringFlag{
				Name:    "matcher",
				Aliases: []string{"m"},
				Value:   "*",
				Usage:   "Tool matcher pattern when --event is given (* for all tools)",
			},
			&cli.IntFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Value:   0,
				Usage:   "Command timeout in seconds (0 for no timeout)",
			},
			&cli.BoolFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Value:   false,
				Usage:   "Enable detailed logging to .claude/hooks/<hook-key>.log",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "jsonl",
				Usage: "Log output format: jsonl or pretty (default jsonl)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("exactly one argument required: [hook-key]")
			}
			key := args[0]

			if _, err := core.CreateHook(key); err != nil {
				return fmt.Errorf("hook '%s' not found.\nAvailable hooks: %s", key, strings.Join(core.GetHookKeys(), ", "))
			}

			global := cmd.Bool("global")
			event := cmd.String("event")
			matcher := cmd.String("matcher")
			timeoutFlag := cmd.Int("timeout")
			logEnabled := cmd.Bool("log")
			logFormat := cmd.String("log-format")
			if logFormat == "" {
				logFormat = config.LoggingFormatJSONL
			}
			if logEnabled && !config.IsValidLoggingFormat(logFormat) {
				return fmt.Errorf("invalid --log-format '%s'. Valid: jsonl, pretty", logFormat)
			}

			bindings := defaultEventBindings[key]
			if event != "" {
				if !core.IsValidEventType(event) {
					return fmt.Errorf("invalid event '%s'.\nValid events: %s\nUse 'gatehouse list --events' to see all available events with descriptions",
						event, strings.Join(core.ValidEventTypes(), ", "))
				}
				bindings = []eventBinding{{Event: event, Matcher: matcher}}
			}
			if len(bindings) == 0 {
				bindings = []eventBinding{{Event: string(core.PreToolUseEvent), Matcher: matcher}}
			}

			execPath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to get executable path: %v", err)
			}

			hookCommand := fmt.Sprintf("%s run %s", execPath, key)
			if logEnabled {
				hookCommand += " --log"
				if logFormat != config.LoggingFormatJSONL {
					hookCommand += fmt.Sprintf(" --log-format %s", logFormat)
				}
			}

			settingsPath, err := config.GetSettingsPath(global)
			if err != nil {
				return fmt.Errorf("failed to locate settings path: %w", err)
			}

			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return fmt.Errorf("failed to load settings from %s: %w", settingsPath, err)
			}

			var timeout *int
			if timeoutFlag > 0 {
				t := int(timeoutFlag)
				timeout = &t
			}

			changed := false
			for _, binding := range bindings {
				result := config.AddHookToSettings(settings, binding.Event, binding.Matcher, hookCommand, timeout)
				if result.WasDuplicate {
					if strings.Contains(result.DuplicateInfo, "Replaced existing") {
						fmt.Printf("🔄 %s (%s)\n", result.DuplicateInfo, binding.Event)
						changed = true
					} else {
						fmt.Printf("⚠️  Already installed for %s: %s\n", binding.Event, result.DuplicateInfo)
					}
					continue
				}
				changed = true
				matcherStr := binding.Matcher
				if matcherStr == "" {
					matcherStr = "*"
				}
				fmt.Printf("   Event: %s  Matcher: %s\n", binding.Event, matcherStr)
			}

			if !changed {
				fmt.Println("No changes made. The hook is already configured for these events.")
				return nil
			}

			if err := config.SaveSettings(settingsPath, settings); err != nil {
				return fmt.Errorf("failed to save settings to %s: %w", settingsPath, err)
			}

			scope := "project"
			if global {
				scope = "global"
			}

			fmt.Printf("✅ Successfully installed %s hook in %s settings\n", key, scope)
			fmt.Printf("   Command: %s\n", hookCommand)
			fmt.Printf("   Settings: %s\n", settingsPath)
			fmt.Println()
			fmt.Println("The hook will be active in new Claude Code sessions.")
			fmt.Println("Use 'claude /hooks' to verify the configuration.")
			return nil
		},
	}
}

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd() *cli.Command {
	return &cli.Command{
		Name:        "uninstall",
		Usage:       "Remove a guard hook from Claude Code settings",
		ArgsUsage:   "[hook-key|all]",
		Description: `Remove a guard hook from your Claude Code settings.json file. Use 'all' to remove every gatehouse hook.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "global",
				Aliases: []string{"g"},
				Value:   false,
				Usage:   "Remove from global settings (~/.claude/settings.json)",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Value:   false,
				Usage:   "Skip interactive confirmation for 'uninstall all'",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("exactly one argument required: [hook-key|all]")
			}
			key := args[0]
			global := cmd.Bool("global")

			if key == "all" {
				return uninstallAllGatehouseHooks(global, cmd.Bool("yes"))
			}

			settingsPath, err := config.GetSettingsPath(global)
			if err != nil {
				return fmt.Errorf("failed to locate settings path: %w", err)
			}

			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return fmt.Errorf("failed to load settings from %s: %w", settingsPath, err)
			}

			removed := config.RemoveHookKeyFromSettings(settings, key)
			if removed == 0 {
				return fmt.Errorf("hook '%s' was not found in settings", key)
			}

			if err := config.SaveSettings(settingsPath, settings); err != nil {
				return fmt.Errorf("error saving settings: %v", err)
			}

			scope := "project"
			if global {
				scope = "global"
			}

			fmt.Printf("✅ Successfully removed %s hook from %s settings (%d entries)\n", key, scope, removed)
			fmt.Printf("   Settings: %s\n", settingsPath)
			return nil
		},
	}
}

// uninstallAllGatehouseHooks removes all gatehouse hooks from settings
func uninstallAllGatehouseHooks(global bool, skipConfirmation bool) error {
	settingsPath, err := config.GetSettingsPath(global)
	if err != nil {
		return fmt.Errorf("failed to locate settings path: %w", err)
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("error loading settings: %v", err)
	}

	scope := "project"
	if global {
		scope = "global"
	}

	total := config.CountGatehouseInSettings(settings)
	if total == 0 {
		fmt.Printf("No gatehouse hooks found in %s settings.\n", scope)
		return nil
	}

	fmt.Printf("Found %d gatehouse hooks in %s settings:\n\n", total, scope)
	installed := config.ListGatehouseInSettings(settings)
	events := make([]string, 0, len(installed))
	for event := range installed {
		events = append(events, event)
	}
	sort.Strings(events)
	for _, event := range events {
		fmt.Printf("%s:\n", event)
		for _, command := range installed[event] {
			fmt.Printf("  - %s\n", command)
		}
	}

	fmt.Printf("\nThis will remove ALL gatehouse hooks from %s settings.\n", scope)
	fmt.Printf("Other hooks (not from gatehouse) will be preserved.\n")

	if !skipConfirmation {
		fmt.Printf("Continue? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" && response != "yes" {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	removed := config.RemoveAllGatehouseFromSettings(settings)
	if removed == 0 {
		fmt.Printf("No gatehouse hooks were found to remove.\n")
		return nil
	}

	if err := config.SaveSettings(settingsPath, settings); err != nil {
		return fmt.Errorf("error saving settings: %v", err)
	}

	fmt.Printf("✅ Successfully removed %d gatehouse hooks from %s settings\n", removed, scope)
	fmt.Printf("   Settings: %s\n", settingsPath)

	globalFlag := ""
	if global {
		globalFlag = " --global"
	}
	fmt.Printf("\nUse 'gatehouse list --installed%s' to verify the changes.\n", globalFlag)
	return nil
}
