package shell

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// Executor runs external commands. Satisfied by core.CommandExecutor.
type Executor interface {
	ExecuteCommand(name string, args ...string) ([]byte, error)
}

// Commands that are never aliases, so lookup can be skipped
var knownCommands = map[string]bool{
	"git":  true,
	"rm":   true,
	"cat":  true,
	"less": true,
	"nano": true,
	"vim":  true,
}

var (
	ansiOSC = regexp.MustCompile("\x1b\\][^\x07]*\x07")
	ansiCSI = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
)

// AliasExpander expands shell aliases in commands so the guards see what the
// shell would actually run (e.g. gco -f -> git checkout -f).
//
// The alias table is loaded once per process by running $SHELL -i -c 'alias'
// and parsing the output. Load failures leave the table empty so expansion
// degrades to a no-op.
type AliasExpander struct {
	executor Executor
	once     sync.Once
	aliases  map[string]string
}

// NewAliasExpander creates an expander that shells out through executor.
func NewAliasExpander(executor Executor) *AliasExpander {
	return &AliasExpander{executor: executor}
}

func (a *AliasExpander) loadAliases() map[string]string {
	a.once.Do(func() {
		a.aliases = make(map[string]string)

		shellPath := os.Getenv("SHELL")
		if shellPath == "" {
			shellPath = "/bin/bash"
		}

		output, err := a.executor.ExecuteCommand(shellPath, "-i", "-c", "alias")
		if err != nil && len(output) == 0 {
			return
		}

		text := ansiOSC.ReplaceAllString(string(output), "")
		text = ansiCSI.ReplaceAllString(text, "")

		// Handles both bash ("alias gcam='git commit -am'") and zsh
		// ("gcam='git commit -a -m'") formats
		for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimPrefix(line, "alias ")
			name, value, found := strings.Cut(line, "=")
			if !found {
				continue
			}
			name = strings.TrimSpace(name)
			value = strings.TrimSpace(value)
			if len(value) >= 2 {
				if (value[0] == '\'' && value[len(value)-1] == '\'') ||
					(value[0] == '"' && value[len(value)-1] == '"') {
					value = value[1 : len(value)-1]
				}
			}
			if name != "" {
				a.aliases[name] = value
			}
		}
	})
	return a.aliases
}

// expandSingle expands the first token of a single (non-compound) command.
func (a *AliasExpander) expandSingle(command string) string {
	fields := strings.SplitN(command, " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		return command
	}

	first := fields[0]
	if knownCommands[first] || strings.Contains(first, "/") {
		return command
	}

	expansion, ok := a.loadAliases()[first]
	if !ok {
		return command
	}

	if len(fields) > 1 {
		return strings.TrimSpace(expansion + " " + fields[1])
	}
	return expansion
}

var operatorSegment = regexp.MustCompile(`\s*(?:&&|\|\||;)\s*`)

// ExpandCommand expands aliases in each subcommand of a possibly compound
// command, preserving the operators between them.
func (a *AliasExpander) ExpandCommand(command string) string {
	if command == "" {
		return command
	}

	var b strings.Builder
	last := 0
	for _, loc := range operatorSegment.FindAllStringIndex(command, -1) {
		segment := command[last:loc[0]]
		if strings.TrimSpace(segment) != "" {
			b.WriteString(a.expandSingle(strings.TrimSpace(segment)))
		} else {
			b.WriteString(segment)
		}
		b.WriteString(command[loc[0]:loc[1]])
		last = loc[1]
	}
	segment := command[last:]
	if strings.TrimSpace(segment) != "" {
		b.WriteString(a.expandSingle(strings.TrimSpace(segment)))
	} else {
		b.WriteString(segment)
	}
	return b.String()
}
