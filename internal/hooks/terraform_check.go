package hooks

import (
	"fmt"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

// Read-only terraform subcommands that are always safe
var terraformReadOnly = map[string]bool{
	"plan":      true,
	"show":      true,
	"validate":  true,
	"version":   true,
	"providers": true,
	"output":    true,
	"state":     true,
	"graph":     true,
	"console":   true,
	"fmt":       true,
	"get":       true,
	"init":      true,
	"workspace": true,
}

// Destructive terraform subcommands that are denied
var terraformDestructive = map[string]bool{
	"apply":   true,
	"destroy": true,
	"import":  true,
	"taint":   true,
	"untaint": true,
	"refresh": true,
}

// Global terraform flags that consume the following argument
var terraformValueFlags = map[string]bool{
	"-chdir":    true,
	"-var":      true,
	"-var-file": true,
}

// checkTerraformCommand classifies terraform (and tf) invocations the same
// way checkKubectlCommand does for kubectl.
func checkTerraformCommand(command string) CheckResult {
	stripped := strings.TrimSpace(command)
	if !strings.HasPrefix(stripped, "terraform") && !strings.HasPrefix(stripped, "tf ") {
		return allow()
	}

	parts := shell.Split(command)
	if parts == nil || len(parts) < 2 {
		return allow()
	}

	subcommand := terraformSubcommand(parts)
	if subcommand == "" {
		return allow()
	}

	if terraformReadOnly[subcommand] {
		return allow()
	}

	if terraformDestructive[subcommand] {
		reason := fmt.Sprintf(`DESTRUCTIVE terraform COMMAND DETECTED

Command: %s
Workspace: default
Action: %s

This command can modify or destroy infrastructure resources.

This could impact running services and infrastructure.
Always verify the correct workspace and resources with 'terraform plan' first.`,
			command, strings.ToUpper(subcommand))
		return block(reason)
	}

	return block(fmt.Sprintf("Unknown terraform command '%s' blocked for safety. Known safe commands: %s",
		subcommand, strings.Join(sortedKeys(terraformReadOnly), ", ")))
}

func terraformSubcommand(parts []string) string {
	skipNext := false
	for _, part := range parts[1:] {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(part, "-") {
			if !strings.Contains(part, "=") && terraformValueFlags[part] {
				skipNext = true
			}
			continue
		}
		return part
	}
	return ""
}
