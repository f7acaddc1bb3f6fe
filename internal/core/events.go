package core

// EventType represents a Claude Code hook event
type EventType string

// All supported Claude Code hook events
const (
	PreToolUseEvent       EventType = "PreToolUse"
	PostToolUseEvent      EventType = "PostToolUse"
	UserPromptSubmitEvent EventType = "UserPromptSubmit"
	NotificationEvent     EventType = "Notification"
	StopEvent             EventType = "Stop"
	SubagentStopEvent     EventType = "SubagentStop"
	PreCompactEvent       EventType = "PreCompact"
	SessionStartEvent     EventType = "SessionStart"
	SessionEndEvent       EventType = "SessionEnd"
)

// ClaudeCodeEvent represents a Claude Code hook event type with metadata
type ClaudeCodeEvent struct {
	Type        EventType
	Name        string
	Description string
	// SupportedByCCHooks is true when the cchooks runner parses the event
	// into a typed handler; other events must be handled via raw stdin.
	SupportedByCCHooks bool
}

// AllClaudeCodeEvents returns all available Claude Code hook events
func AllClaudeCodeEvents() []ClaudeCodeEvent {
	return []ClaudeCodeEvent{
		{
			Type:               PreToolUseEvent,
			Name:               string(PreToolUseEvent),
			Description:        "Runs after Claude creates tool parameters and before processing the tool call",
			SupportedByCCHooks: true,
		},
		{
			Type:               PostToolUseEvent,
			Name:               string(PostToolUseEvent),
			Description:        "Runs immediately after a tool completes successfully",
			SupportedByCCHooks: true,
		},
		{
			Type:               NotificationEvent,
			Name:               string(NotificationEvent),
			Description:        "Runs when Claude needs permission to use a tool or when input has been idle for 60 seconds",
			SupportedByCCHooks: false,
		},
		{
			Type:               StopEvent,
			Name:               string(StopEvent),
			Description:        "Runs when the main Claude Code agent has finished responding",
			SupportedByCCHooks: false,
		},
		{
			Type:               UserPromptSubmitEvent,
			Name:               string(UserPromptSubmitEvent),
			Description:        "Runs when the user submits a prompt, before Claude processes it",
			SupportedByCCHooks: false,
		},
		{
			Type:               SubagentStopEvent,
			Name:               string(SubagentStopEvent),
			Description:        "Runs when a Claude Code subagent (Task tool call) has finished responding",
			SupportedByCCHooks: false,
		},
		{
			Type:               PreCompactEvent,
			Name:               string(PreCompactEvent),
			Description:        "Runs before Claude Code is about to run a compact operation",
			SupportedByCCHooks: false,
		},
		{
			Type:               SessionStartEvent,
			Name:               string(SessionStartEvent),
			Description:        "Runs when Claude Code starts a new session or resumes an existing session",
			SupportedByCCHooks: false,
		},
		{
			Type:               SessionEndEvent,
			Name:               string(SessionEndEvent),
			Description:        "Runs when a Claude Code session ends",
			SupportedByCCHooks: false,
		},
	}
}

// ValidEventTypes returns a slice of all valid event type names
func ValidEventTypes() []string {
	events := AllClaudeCodeEvents()
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	return names
}

// IsValidEventType reports whether name matches a known Claude Code event
func IsValidEventType(name string) bool {
	for _, ev := range AllClaudeCodeEvents() {
		if ev.Name == name {
			return true
		}
	}
	return false
}
