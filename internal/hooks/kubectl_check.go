package hooks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

// Read-only kubectl subcommands that are always safe
var kubectlReadOnly = map[string]bool{
	"get":           true,
	"describe":      true,
	"logs":          true,
	"top":           true,
	"version":       true,
	"cluster-info":  true,
	"config":        true,
	"explain":       true,
	"api-resources": true,
	"api-versions":  true,
	"diff":          true,
}

// Destructive kubectl subcommands that are denied outright
var kubectlDestructive = map[string]bool{
	"delete":   true,
	"apply":    true,
	"create":   true,
	"replace":  true,
	"patch":    true,
	"edit":     true,
	"scale":    true,
	"rollout":  true,
	"annotate": true,
	"label":    true,
	"expose":   true,
	"run":      true,
	"exec":     true,
	"cp":       true,
}

// Subcommands that establish cluster connections and need user approval
var kubectlAskPermission = map[string]bool{
	"port-forward": true,
	"proxy":        true,
}

// Global kubectl flags that consume the following argument
var kubectlValueFlags = map[string]bool{
	"--context":    true,
	"--namespace":  true,
	"-n":           true,
	"--kubeconfig": true,
}

// checkKubectlCommand classifies kubectl invocations: read-only verbs pass,
// destructive verbs are blocked (unless --dry-run), connection verbs ask,
// and unknown verbs are blocked as potentially dangerous.
func checkKubectlCommand(command string) CheckResult {
	if !strings.HasPrefix(strings.TrimSpace(command), "kubectl") {
		return allow()
	}

	parts := shell.Split(command)
	if parts == nil || len(parts) < 2 {
		// Unparseable or bare kubectl, nothing to classify
		return allow()
	}

	subcommand := kubectlSubcommand(parts)
	if subcommand == "" {
		return allow()
	}

	if kubectlReadOnly[subcommand] {
		return allow()
	}

	if kubectlDestructive[subcommand] {
		for _, part := range parts {
			if strings.HasPrefix(part, "--dry-run") {
				return allow()
			}
		}

		reason := fmt.Sprintf(`DESTRUCTIVE kubectl COMMAND DETECTED

Command: %s
Context: %s
Action: %s

This command can modify or delete Kubernetes resources.

This could impact running applications and services.
Always verify the correct context and resources.`,
			command, kubectlContext(parts), strings.ToUpper(subcommand))
		return block(reason)
	}

	if kubectlAskPermission[subcommand] {
		reason := fmt.Sprintf(`kubectl %s requested

Command: %s
Context: %s

This will establish a connection to the cluster.`,
			strings.ToUpper(subcommand), command, kubectlContext(parts))
		return ask(reason)
	}

	return block(fmt.Sprintf("Unknown kubectl command '%s' blocked for safety. Known safe commands: %s",
		subcommand, strings.Join(sortedKeys(kubectlReadOnly), ", ")))
}

// kubectlSubcommand finds the first non-flag token after kubectl, skipping
// flag values for flags that take a separate argument.
func kubectlSubcommand(parts []string) string {
	skipNext := false
	for _, part := range parts[1:] {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(part, "-") {
			if !strings.Contains(part, "=") && kubectlValueFlags[part] {
				skipNext = true
			}
			continue
		}
		return part
	}
	return ""
}

func kubectlContext(parts []string) string {
	for i, part := range parts {
		if part == "--context" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return "default"
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
