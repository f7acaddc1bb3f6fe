// Package shell provides bash command parsing helpers shared by the guard hooks.
package shell

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"
)

var subcommandSplit = regexp.MustCompile(`\s*(?:&&|\|\||;)\s*`)

// Split tokenizes a command the way a POSIX shell would.
// Returns nil on unparseable input (unterminated quotes etc.).
func Split(command string) []string {
	tokens, err := shellquote.Split(command)
	if err != nil {
		return nil
	}
	return tokens
}

// Normalize collapses runs of whitespace into single spaces.
func Normalize(command string) string {
	return strings.Join(strings.Fields(command), " ")
}

// ExtractSubcommands splits a compound command on &&, || and ; into its
// individual subcommands, with surrounding whitespace trimmed.
func ExtractSubcommands(command string) []string {
	if command == "" {
		return nil
	}
	var subcommands []string
	for _, part := range subcommandSplit.Split(command, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			subcommands = append(subcommands, trimmed)
		}
	}
	return subcommands
}

// PipelineSegments splits a command on pipes. The split is intentionally
// naive (no quote awareness) to match how the guards scan for sensitive
// file access in any segment.
func PipelineSegments(command string) []string {
	var segments []string
	for _, part := range strings.Split(command, "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

// FirstToken returns the first word of a command, skipping a leading sudo.
func FirstToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	if fields[0] == "sudo" && len(fields) > 1 {
		return fields[1]
	}
	return fields[0]
}

// ExtractCDTarget returns the target directory of a cd command with ~
// expanded, or "" if the command is not a cd.
func ExtractCDTarget(command string) string {
	parts := Split(command)
	if len(parts) >= 2 && parts[0] == "cd" {
		return ExpandUser(parts[1])
	}
	return ""
}

// ExpandUser expands a leading ~ to the user's home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// NormalizeGitCommand strips git's directory-changing flags (-C, --work-tree,
// --git-dir) from a command and returns the normalized command along with the
// effective working directory those flags pointed at.
//
// Within each flag type the last occurrence wins; -C takes precedence over
// --work-tree, which takes precedence over --git-dir.
func NormalizeGitCommand(command string) (string, string) {
	parts := Split(command)
	if len(parts) < 2 || parts[0] != "git" {
		return command, ""
	}

	var cPath, workTreePath, gitDirPath string
	newParts := []string{parts[0]}

	for i := 1; i < len(parts); i++ {
		part := parts[i]
		switch {
		case part == "-C" && i+1 < len(parts):
			cPath = ExpandUser(parts[i+1])
			i++
		case strings.HasPrefix(part, "-C") && len(part) > 2:
			cPath = ExpandUser(part[2:])
		case strings.HasPrefix(part, "--work-tree="):
			workTreePath = ExpandUser(strings.SplitN(part, "=", 2)[1])
		case part == "--work-tree" && i+1 < len(parts):
			workTreePath = ExpandUser(parts[i+1])
			i++
		case strings.HasPrefix(part, "--git-dir="):
			gitDirPath = ExpandUser(strings.SplitN(part, "=", 2)[1])
		case part == "--git-dir" && i+1 < len(parts):
			gitDirPath = ExpandUser(parts[i+1])
			i++
		default:
			newParts = append(newParts, part)
		}
	}

	effectiveDir := cPath
	if effectiveDir == "" {
		effectiveDir = workTreePath
	}
	if effectiveDir == "" {
		effectiveDir = gitDirPath
	}

	return shellquote.Join(newParts...), effectiveDir
}

// ExtractNewBranchName extracts the branch name from branch creation commands
// (git checkout -b <branch>, git switch -c/--create <branch>).
// Returns "" if the command does not create a branch.
func ExtractNewBranchName(command string) string {
	parts := Split(command)
	if len(parts) < 4 || parts[0] != "git" {
		return ""
	}

	flagArg := func(flag string) string {
		for i, part := range parts {
			if part == flag && i+1 < len(parts) {
				return parts[i+1]
			}
		}
		return ""
	}

	switch parts[1] {
	case "checkout":
		return flagArg("-b")
	case "switch":
		if branch := flagArg("-c"); branch != "" {
			return branch
		}
		return flagArg("--create")
	}
	return ""
}
