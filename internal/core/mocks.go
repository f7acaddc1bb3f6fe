package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/brads3290/cchooks"

	"github.com/gatehouse-sh/gatehouse/internal/config"
)

// MockFileSystem implements FileSystem interface for testing
type MockFileSystem struct {
	Files    map[string][]byte
	Dirs     map[string]bool
	WriteErr error
	ReadErr  error
	StatErr  error
	mu       sync.RWMutex
}

// NewMockFileSystem creates a new mock filesystem for testing
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files: make(map[string][]byte),
		Dirs:  make(map[string]bool),
	}
}

// WriteFile writes data to a mock file in memory
func (m *MockFileSystem) WriteFile(filename string, data []byte, _ os.FileMode) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Dirs[filepath.Dir(filename)] = true
	m.Files[filename] = append([]byte(nil), data...)
	return nil
}

// ReadFile returns the contents of a mock file
func (m *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.Files[filename]
	if !exists {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

// OpenFile opens a file (mock implementation for testing)
func (m *MockFileSystem) OpenFile(_ string, _ int, _ os.FileMode) (*os.File, error) {
	// Hooks only append log lines through OpenFile; a throwaway temp file
	// keeps tests off the real log locations.
	return os.CreateTemp("", "mock_*")
}

// Stat returns file information for the specified path (mock implementation)
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.Files[name]; exists {
		return &mockFileInfo{name: name, size: int64(len(m.Files[name]))}, nil
	}

	return nil, os.ErrNotExist
}

// Remove deletes a mock file
func (m *MockFileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Files[name]; !exists {
		return os.ErrNotExist
	}
	delete(m.Files, name)
	return nil
}

// MkdirAll records a mock directory
func (m *MockFileSystem) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Dirs[path] = true
	return nil
}

// HasFile reports whether the mock filesystem holds the named file
func (m *MockFileSystem) HasFile(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.Files[name]
	return exists
}

type mockFileInfo struct {
	name string
	size int64
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return 0o644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// MockCommandExecutor implements CommandExecutor interface for testing
type MockCommandExecutor struct {
	Commands  []MockCommand
	Responses map[string]MockCommandResponse
	mu        sync.RWMutex
}

// MockCommand represents a mock command execution
type MockCommand struct {
	Dir  string
	Name string
	Args []string
}

// MockCommandResponse represents the response from a mock command
type MockCommandResponse struct {
	Output []byte
	Error  error
}

// NewMockCommandExecutor creates a new mock command executor for testing
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		Commands:  []MockCommand{},
		Responses: make(map[string]MockCommandResponse),
	}
}

// ExecuteCommand executes a mock command and returns the pre-configured response
func (m *MockCommandExecutor) ExecuteCommand(name string, args ...string) ([]byte, error) {
	return m.ExecuteCommandInDir("", name, args...)
}

// ExecuteCommandInDir executes a mock command in a directory and returns the pre-configured response
func (m *MockCommandExecutor) ExecuteCommandInDir(dir, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{
		Dir:  dir,
		Name: name,
		Args: append([]string{}, args...),
	})

	// Longest-prefix lookup so tests can key responses as tightly or
	// loosely as they need ("git", "git check-ignore", "git check-ignore -q x")
	key := name
	for _, arg := range args {
		key = fmt.Sprintf("%s %s", key, arg)
	}
	for key != "" {
		if response, exists := m.Responses[key]; exists {
			return response.Output, response.Error
		}
		idx := lastSpace(key)
		if idx < 0 {
			break
		}
		key = key[:idx]
	}

	// Default success response
	return []byte("mock command output"), nil
}

func lastSpace(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}

// SetResponse configures a response for a specific command prefix
func (m *MockCommandExecutor) SetResponse(command string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Responses[command] = MockCommandResponse{
		Output: output,
		Error:  err,
	}
}

// GetExecutedCommands returns all executed commands (used in tests)
func (m *MockCommandExecutor) GetExecutedCommands() []MockCommand {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]MockCommand, len(m.Commands))
	copy(result, m.Commands)
	return result
}

// WasCommandExecuted checks if a command was executed
func (m *MockCommandExecutor) WasCommandExecuted(name string, args ...string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, cmd := range m.Commands {
		if cmd.Name == name && m.argsMatch(cmd.Args, args) {
			return true
		}
	}
	return false
}

// argsMatch checks if the command arguments match the expected arguments
func (m *MockCommandExecutor) argsMatch(cmdArgs, expectedArgs []string) bool {
	if len(expectedArgs) == 0 {
		return true
	}
	if len(cmdArgs) < len(expectedArgs) {
		return false
	}
	for i, arg := range expectedArgs {
		if cmdArgs[i] != arg {
			return false
		}
	}
	return true
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	Notifications []MockNotification
	Beeps         []MockBeep
	NotifyErr     error
	BeepErr       error
	mu            sync.Mutex
}

// MockNotification records a Notify call
type MockNotification struct {
	Title   string
	Message string
}

// MockBeep records a Beep call
type MockBeep struct {
	Freq     float64
	Duration int
}

// Notify records the notification and returns the configured error
func (m *MockNotifier) Notify(title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, MockNotification{Title: title, Message: message})
	return m.NotifyErr
}

// Beep records the beep and returns the configured error
func (m *MockNotifier) Beep(freq float64, duration int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Beeps = append(m.Beeps, MockBeep{Freq: freq, Duration: duration})
	return m.BeepErr
}

// MockRunner implements a test runner for cchooks that mimics cchooks.Runner structure
type MockRunner struct {
	PreToolUse  func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface
	PostToolUse func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface
	RawHook     func(context.Context, string) *cchooks.RawResponse
	RunCalled   bool
}

// Run marks the runner as called (mock implementation for testing)
func (m *MockRunner) Run() {
	m.RunCalled = true
	// Don't actually read from stdin in tests
}

// MockRunnerFactory creates MockRunner instances
func MockRunnerFactory(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
	postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
	rawHook func(context.Context, string) *cchooks.RawResponse,
) Runner {
	// A mock runner never reads stdin, which prevents "failed to decode
	// stdin" errors in tests.
	return &MockRunner{
		PreToolUse:  preHook,
		PostToolUse: postHook,
		RawHook:     rawHook,
		RunCalled:   false,
	}
}

// TestHookContext creates a context suitable for testing
func TestHookContext(settingsChecker func(string) bool) *HookContext {
	if settingsChecker == nil {
		settingsChecker = func(string) bool { return true }
	}

	return &HookContext{
		FileSystem:      NewMockFileSystem(),
		CommandExecutor: NewMockCommandExecutor(),
		RunnerFactory:   MockRunnerFactory,
		SettingsChecker: settingsChecker,
		Notifier:        &MockNotifier{},
		Rules:           config.DefaultRules(),
	}
}
