package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/constants"
)

type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout *int   `json:"timeout,omitempty"`
}

type HookMatcher struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

type HooksConfig struct {
	PreToolUse       []HookMatcher `json:"PreToolUse,omitempty"`
	PostToolUse      []HookMatcher `json:"PostToolUse,omitempty"`
	UserPromptSubmit []HookMatcher `json:"UserPromptSubmit,omitempty"`
	Notification     []HookMatcher `json:"Notification,omitempty"`
	Stop             []HookMatcher `json:"Stop,omitempty"`
	SubagentStop     []HookMatcher `json:"SubagentStop,omitempty"`
	PreCompact       []HookMatcher `json:"PreCompact,omitempty"`
	SessionStart     []HookMatcher `json:"SessionStart,omitempty"`
	SessionEnd       []HookMatcher `json:"SessionEnd,omitempty"`
}

// PluginConfig stores per-plugin settings.
// A nil Enabled means default (enabled). If Enabled=false, the plugin is disabled.
type PluginConfig struct {
	Enabled *bool `json:"enabled,omitempty"`
}

type Settings struct {
	Hooks   HooksConfig             `json:"hooks,omitempty"`
	Plugins map[string]PluginConfig `json:"plugins,omitempty"`
	Other   map[string]interface{}  `json:"-"`
}

func GetSettingsPath(global bool) (string, error) {
	if global {
		// Global settings: ~/.claude/settings.json
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %v", err)
		}
		return filepath.Join(homeDir, constants.ClaudeDir, constants.SettingsFileName), nil
	}
	// Project settings: ./.claude/settings.json
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %v", err)
	}
	return filepath.Join(cwd, constants.ClaudeDir, constants.SettingsFileName), nil
}

func LoadSettings(settingsPath string) (*Settings, error) {
	settings := &Settings{
		Other: make(map[string]interface{}),
	}

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return settings, nil
	}

	data, err := os.ReadFile(settingsPath) // #nosec G304 - controlled settings paths
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %v", err)
	}

	// First unmarshal into a generic map to preserve unknown fields
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %v", err)
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %v", err)
	}

	// Store unknown fields (remove known keys first)
	delete(raw, "hooks")
	delete(raw, "plugins")
	settings.Other = raw

	if settings.Plugins == nil {
		settings.Plugins = make(map[string]PluginConfig)
	}

	return settings, nil
}

func SaveSettings(settingsPath string, settings *Settings) error {
	dir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	// Merge known and unknown fields
	output := make(map[string]interface{})
	for k, v := range settings.Other {
		output[k] = v
	}
	if !IsHooksConfigEmpty(settings.Hooks) {
		output["hooks"] = settings.Hooks
	}
	if len(settings.Plugins) > 0 {
		output["plugins"] = settings.Plugins
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %v", err)
	}

	if err := os.WriteFile(settingsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %v", err)
	}

	return nil
}

func IsHooksConfigEmpty(hooks HooksConfig) bool {
	return len(hooks.PreToolUse) == 0 &&
		len(hooks.PostToolUse) == 0 &&
		len(hooks.UserPromptSubmit) == 0 &&
		len(hooks.Notification) == 0 &&
		len(hooks.Stop) == 0 &&
		len(hooks.SubagentStop) == 0 &&
		len(hooks.PreCompact) == 0 &&
		len(hooks.SessionStart) == 0 &&
		len(hooks.SessionEnd) == 0
}

// IsPluginEnabled returns true if the plugin is enabled (default) or explicitly enabled.
// Returns false if explicitly disabled in settings.
func (s *Settings) IsPluginEnabled(key string) bool {
	if s == nil || s.Plugins == nil {
		return true
	}
	cfg, ok := s.Plugins[key]
	if !ok || cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// eventMatcherSlot returns a pointer to the matcher list for the named event
func eventMatcherSlot(hooks *HooksConfig, event string) *[]HookMatcher {
	switch event {
	case "PreToolUse":
		return &hooks.PreToolUse
	case "PostToolUse":
		return &hooks.PostToolUse
	case "UserPromptSubmit":
		return &hooks.UserPromptSubmit
	case "Notification":
		return &hooks.Notification
	case "Stop":
		return &hooks.Stop
	case "SubagentStop":
		return &hooks.SubagentStop
	case "PreCompact":
		return &hooks.PreCompact
	case "SessionStart":
		return &hooks.SessionStart
	case "SessionEnd":
		return &hooks.SessionEnd
	}
	return nil
}

// AddHookToSettings merges a hook command into the named event's matchers
func AddHookToSettings(settings *Settings, event, matcher, command string, timeout *int) MergeResult {
	hookCmd := HookCommand{
		Type:    "command",
		Command: command,
		Timeout: timeout,
	}

	hookMatcher := HookMatcher{
		Matcher: matcher,
		Hooks:   []HookCommand{hookCmd},
	}

	slot := eventMatcherSlot(&settings.Hooks, event)
	if slot == nil {
		return MergeResult{}
	}
	result := mergeHookMatcher(*slot, hookMatcher)
	*slot = result.Matchers
	return result
}

// MergeResult represents the result of merging hook matchers
type MergeResult struct {
	Matchers      []HookMatcher
	WasDuplicate  bool
	DuplicateInfo string
}

// extractHookKey extracts the hook key from a gatehouse command
// Example: "/usr/local/bin/gatehouse run git-guard --log" -> "git-guard"
func extractHookKey(command string) string {
	re := regexp.MustCompile(constants.BinaryName + `\s+run\s+([\w-]+)`)
	matches := re.FindStringSubmatch(command)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// IsGatehouseCommand checks if a settings hook command belongs to gatehouse
func IsGatehouseCommand(command string) bool {
	return strings.Contains(command, constants.CommandPattern)
}

func mergeHookMatcher(existing []HookMatcher, incoming HookMatcher) MergeResult {
	for i, matcher := range existing {
		if matcher.Matcher != incoming.Matcher {
			continue
		}
		// Check for gatehouse command conflicts within this matcher
		for j, existingHook := range existing[i].Hooks {
			for _, newHook := range incoming.Hooks {
				if existingHook.Command == newHook.Command {
					return MergeResult{
						Matchers:      existing,
						WasDuplicate:  true,
						DuplicateInfo: fmt.Sprintf("Hook command '%s' already exists for matcher '%s'", newHook.Command, matcher.Matcher),
					}
				}

				// Same hook key installed with a different command line: replace in place
				if IsGatehouseCommand(existingHook.Command) && IsGatehouseCommand(newHook.Command) {
					existingKey := extractHookKey(existingHook.Command)
					newKey := extractHookKey(newHook.Command)
					if existingKey != "" && existingKey == newKey {
						existing[i].Hooks[j] = newHook
						return MergeResult{
							Matchers:      existing,
							WasDuplicate:  true,
							DuplicateInfo: fmt.Sprintf("Replaced existing %s hook with updated command for matcher '%s'", newKey, matcher.Matcher),
						}
					}
				}
			}
		}
		// No conflicts found, append to existing matcher
		existing[i].Hooks = append(existing[i].Hooks, incoming.Hooks...)
		return MergeResult{Matchers: existing, WasDuplicate: false}
	}
	// No existing matcher found, add new one
	return MergeResult{Matchers: append(existing, incoming), WasDuplicate: false}
}

// RemoveHookFromSettings removes a specific command from every event's matchers
func RemoveHookFromSettings(settings *Settings, command string) bool {
	removed := false
	for _, event := range allEventNames() {
		slot := eventMatcherSlot(&settings.Hooks, event)
		*slot = removeHookFromMatchers(*slot, command, &removed)
	}
	return removed
}

func allEventNames() []string {
	return []string{
		"PreToolUse", "PostToolUse", "UserPromptSubmit", "Notification",
		"Stop", "SubagentStop", "PreCompact", "SessionStart", "SessionEnd",
	}
}

func removeHookFromMatchers(matchers []HookMatcher, command string, removed *bool) []HookMatcher {
	var result []HookMatcher

	for _, matcher := range matchers {
		var filteredHooks []HookCommand
		for _, hook := range matcher.Hooks {
			if hook.Command != command {
				filteredHooks = append(filteredHooks, hook)
			} else {
				*removed = true
			}
		}

		// Only keep matcher if it still has hooks
		if len(filteredHooks) > 0 {
			matcher.Hooks = filteredHooks
			result = append(result, matcher)
		}
	}

	return result
}

// RemoveHookKeyFromSettings removes every gatehouse command for the given
// hook key across all events, regardless of flags on the command line.
// Returns the number of commands removed.
func RemoveHookKeyFromSettings(settings *Settings, key string) int {
	removed := 0
	for _, event := range allEventNames() {
		slot := eventMatcherSlot(&settings.Hooks, event)
		var result []HookMatcher
		for _, matcher := range *slot {
			var filteredHooks []HookCommand
			for _, hook := range matcher.Hooks {
				if IsGatehouseCommand(hook.Command) && extractHookKey(hook.Command) == key {
					removed++
					continue
				}
				filteredHooks = append(filteredHooks, hook)
			}
			if len(filteredHooks) > 0 {
				matcher.Hooks = filteredHooks
				result = append(result, matcher)
			}
		}
		*slot = result
	}
	return removed
}

// CountGatehouseInSettings counts all gatehouse commands in the settings
func CountGatehouseInSettings(settings *Settings) int {
	count := 0
	for _, event := range allEventNames() {
		slot := eventMatcherSlot(&settings.Hooks, event)
		for _, matcher := range *slot {
			for _, hook := range matcher.Hooks {
				if IsGatehouseCommand(hook.Command) {
					count++
				}
			}
		}
	}
	return count
}

// ListGatehouseInSettings returns event -> installed gatehouse commands
func ListGatehouseInSettings(settings *Settings) map[string][]string {
	result := make(map[string][]string)
	for _, event := range allEventNames() {
		slot := eventMatcherSlot(&settings.Hooks, event)
		for _, matcher := range *slot {
			for _, hook := range matcher.Hooks {
				if IsGatehouseCommand(hook.Command) {
					result[event] = append(result[event], hook.Command)
				}
			}
		}
	}
	return result
}

// RemoveAllGatehouseFromSettings removes all gatehouse hooks from settings and returns count removed
func RemoveAllGatehouseFromSettings(settings *Settings) int {
	removed := 0
	for _, event := range allEventNames() {
		slot := eventMatcherSlot(&settings.Hooks, event)
		var result []HookMatcher
		for _, matcher := range *slot {
			var filteredHooks []HookCommand
			for _, hook := range matcher.Hooks {
				if !IsGatehouseCommand(hook.Command) {
					filteredHooks = append(filteredHooks, hook)
				} else {
					removed++
				}
			}
			if len(filteredHooks) > 0 {
				matcher.Hooks = filteredHooks
				result = append(result, matcher)
			}
		}
		*slot = result
	}
	return removed
}

// IsPluginEnabled checks (project first, then global) settings to see if a plugin is enabled.
// Defaults to enabled if settings cannot be loaded or plugin key absent.
func IsPluginEnabled(pluginKey string) bool {
	if projectPath, err := GetSettingsPath(false); err == nil {
		if s, err := LoadSettings(projectPath); err == nil {
			if !s.IsPluginEnabled(pluginKey) {
				return false
			}
		}
	}
	if globalPath, err := GetSettingsPath(true); err == nil {
		if s, err := LoadSettings(globalPath); err == nil {
			if !s.IsPluginEnabled(pluginKey) {
				return false
			}
		}
	}
	return true
}
