package hooks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gatehouse-sh/gatehouse/internal/core"
	"github.com/gatehouse-sh/gatehouse/internal/gitutil"
	"github.com/gatehouse-sh/gatehouse/internal/shell"
)

// Catches rm, /bin/rm, /usr/bin/rm, and rm after ;, & or |
var rmCommandPattern = regexp.MustCompile(`(^|[;&|]\s*)(/\S*/)?rm\b`)

const rmOutsideRepoReason = `rm command blocked outside of git repository.

Inside a git repo, rm is allowed for git-ignored files only.
Outside git repos, use mv to move files to TRASH/ instead.`

// checkRmCommand blocks rm unless every target is git-ignored.
//
// Tracked and unknown files must go through the TRASH/ convention so
// deletions stay reviewable; ignored artifacts (node_modules/, .DS_Store)
// can be removed freely.
func checkRmCommand(exec core.CommandExecutor, command string) CheckResult {
	normalized := shell.Normalize(command)

	if !isRmCommand(normalized) {
		return allow()
	}

	if !gitutil.IsInRepo(exec) {
		return block(rmOutsideRepoReason)
	}

	targets := extractRmTargets(normalized)
	if len(targets) == 0 {
		// No targets found, let rm handle the error
		return allow()
	}

	var nonIgnored []string
	for _, target := range targets {
		if !gitutil.IsIgnored(exec, strings.TrimRight(target, "/")) {
			nonIgnored = append(nonIgnored, target)
		}
	}

	if len(nonIgnored) > 0 {
		reason := fmt.Sprintf(`rm blocked for tracked/non-ignored files: %s

Instead of using 'rm':
- MOVE files using `+"`mv`"+` to the TRASH directory in the CURRENT folder (create it if needed)
- Add an entry in 'TRASH-FILES.md' in the current directory:

`+"```"+`
test_script.py - moved to TRASH/ - temporary test script
`+"```"+`

Note: rm is allowed for git-ignored files (e.g., .DS_Store, node_modules/).`,
			core.TruncateList(nonIgnored, 5))
		return block(reason)
	}

	return allow()
}

func isRmCommand(normalized string) bool {
	return strings.HasPrefix(normalized, "rm ") ||
		normalized == "rm" ||
		rmCommandPattern.MatchString(normalized)
}

// extractRmTargets returns the target paths of an rm command, skipping flags.
func extractRmTargets(command string) []string {
	parts := shell.Split(command)
	if parts == nil {
		return nil
	}

	var targets []string
	for i, part := range parts {
		if i == 0 && (part == "rm" || strings.HasSuffix(part, "/rm")) {
			continue
		}
		if strings.HasPrefix(part, "-") {
			continue
		}
		targets = append(targets, part)
	}
	return targets
}
