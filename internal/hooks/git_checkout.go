package hooks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/gitutil"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

type checkoutPattern struct {
	pattern *regexp.Regexp
	message string
}

// Patterns that destroy uncommitted work without warning
var dangerousCheckoutPatterns = []checkoutPattern{
	{
		regexp.MustCompile(`\bgit\s+checkout\s+(-f|--force)\b`),
		"'git checkout -f' FORCES checkout and DISCARDS all uncommitted changes!",
	},
	{
		regexp.MustCompile(`\bgit\s+checkout\s+\.`),
		"'git checkout .' will DISCARD ALL changes in current directory!",
	},
	{
		regexp.MustCompile(`\bgit\s+checkout\s+.*\s+--\s+\.`),
		"This will DISCARD ALL changes in current directory!",
	},
	{
		regexp.MustCompile(`\bgit\s+checkout\s+.*\s+--\s+`),
		"This will overwrite your local file with version from another branch/commit!",
	},
}

// checkGitCheckout blocks checkout forms that silently destroy uncommitted
// work, and turns any checkout on a dirty tree into a warning block so the
// user can stash or commit first.
func checkGitCheckout(exec core.CommandExecutor, command string) CheckResult {
	for _, subcmd := range shell.ExtractSubcommands(command) {
		if result := checkSingleGitCheckout(exec, subcmd); result.Decision == DecisionBlock {
			return result
		}
	}
	return allow()
}

func checkSingleGitCheckout(exec core.CommandExecutor, command string) CheckResult {
	if !strings.HasPrefix(strings.TrimSpace(command), "git checkout") {
		return allow()
	}

	// Branch creation and help output are safe
	if strings.Contains(command, "-b") || strings.Contains(command, "--help") || strings.Contains(command, "-h") {
		return allow()
	}

	for _, p := range dangerousCheckoutPatterns {
		if p.pattern.MatchString(command) {
			return block(fmt.Sprintf(`DANGEROUS COMMAND DETECTED!

%s

This command will destroy uncommitted work without warning.

Safer alternatives:
- Use 'git stash' to save changes temporarily
- Use 'git diff' to see what would be lost
- Use 'git restore' for clearer syntax`, p.message))
		}
	}

	dirty, err := gitutil.HasUncommittedChanges(exec)
	if err != nil {
		// Fail closed when repository state cannot be verified
		return block(fmt.Sprintf("Could not verify repository status: %v\nPlease manually check 'git status' before proceeding.", err))
	}

	if dirty {
		return block(buildCheckoutWarning(exec, command))
	}

	return allow()
}

func buildCheckoutWarning(exec core.CommandExecutor, command string) string {
	changes := gitutil.UncommittedChanges(exec)

	var b strings.Builder
	fmt.Fprintf(&b, "WARNING: You have %d uncommitted change(s) that may be lost!\n\n", len(changes))

	if len(changes) > 0 {
		b.WriteString("Modified files:\n")
		for i, change := range changes {
			if i >= 10 {
				fmt.Fprintf(&b, "  ... and %d more\n", len(changes)-10)
				break
			}
			fmt.Fprintf(&b, "  %s\n", change)
		}
	}

	b.WriteString("\nOptions:\n")
	b.WriteString("1. Stash changes: git stash\n")
	b.WriteString("2. Commit changes: git commit -am 'your message'\n")
	b.WriteString("3. Discard changes: git restore <files>\n")
	b.WriteString("4. Use 'git switch' instead for safer branch switching\n")

	if strings.Contains(command, "checkout .") || strings.Contains(command, "checkout -- .") {
		b.WriteString("\nDANGER: 'git checkout .' will DISCARD ALL local changes!")
	}

	return b.String()
}
