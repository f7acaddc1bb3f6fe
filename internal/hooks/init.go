package hooks

import "github.com/gatehouse-sh/gatehouse/internal/core"

// init registers all built-in hooks using batch registration
func init() {
	builtinHooks := map[string]core.HookFactory{
		"command-safety": NewCommandSafetyHook,
		"git-guard":      NewGitGuardHook,
		"file-guard":     NewFileGuardHook,
		"env-guard":      NewEnvGuardHook,
		"notify":         NewNotifyHook,
	}
	core.RegisterBuiltinHooks(builtinHooks)
}
