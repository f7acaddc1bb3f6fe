package core

import (
	"context"
	"testing"

	"github.com/brads3290/cchooks"
)

func TestBaseHook(t *testing.T) {
	ctx := TestHookContext(nil)

	hook := NewBaseHook("test", "Test Hook", "Test description", ctx)

	if hook.Key() != "test" {
		t.Errorf("Expected key 'test', got '%s'", hook.Key())
	}

	if hook.Name() != "Test Hook" {
		t.Errorf("Expected name 'Test Hook', got '%s'", hook.Name())
	}

	if hook.Description() != "Test description" {
		t.Errorf("Expected description 'Test description', got '%s'", hook.Description())
	}

	if !hook.IsEnabled() {
		t.Error("Expected hook to be enabled by default")
	}

	if hook.Context() != ctx {
		t.Error("Expected context to match provided context")
	}
}

func TestBaseHookDisabled(t *testing.T) {
	ctx := TestHookContext(func(string) bool { return false })

	hook := NewBaseHook("test", "Test Hook", "Test description", ctx)

	if hook.IsEnabled() {
		t.Error("Expected hook to be disabled")
	}
}

func TestBaseHookNilContext(t *testing.T) {
	hook := NewBaseHook("test", "Test Hook", "Test description", nil)

	// Should get default context
	if hook.Context() == nil {
		t.Error("Expected default context when nil provided")
	}
}

func TestStandardRunDisabledSkipsRunner(t *testing.T) {
	ctx := TestHookContext(func(string) bool { return false })

	var created *MockRunner
	ctx.RunnerFactory = func(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
		postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
		rawHook func(context.Context, string) *cchooks.RawResponse,
	) Runner {
		created = &MockRunner{PreToolUse: preHook, PostToolUse: postHook, RawHook: rawHook}
		return created
	}

	hook := NewBaseHook("test", "Test Hook", "Test description", ctx)
	if err := hook.StandardRun(nil, nil); err != nil {
		t.Fatalf("StandardRun failed: %v", err)
	}
	if created != nil {
		t.Error("Runner should not be created for a disabled hook")
	}
}

func TestStandardRunEnabledRunsRunner(t *testing.T) {
	ctx := TestHookContext(nil)

	var created *MockRunner
	ctx.RunnerFactory = func(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
		postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
		rawHook func(context.Context, string) *cchooks.RawResponse,
	) Runner {
		created = &MockRunner{PreToolUse: preHook, PostToolUse: postHook, RawHook: rawHook}
		return created
	}

	hook := NewBaseHook("test", "Test Hook", "Test description", ctx)
	if err := hook.StandardRun(nil, nil); err != nil {
		t.Fatalf("StandardRun failed: %v", err)
	}
	if created == nil || !created.RunCalled {
		t.Error("Runner should be created and run for an enabled hook")
	}
}
