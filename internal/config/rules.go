package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gatehouse-sh/gatehouse/internal/constants"
)

// Rules holds the tunable guard-rule settings shared by the hooks.
// Loaded from gatehouse.yml (project first, then global); missing fields
// fall back to defaults so a partial file is fine.
type Rules struct {
	Git           GitRules          `yaml:"git,omitempty"`
	Env           EnvRules          `yaml:"env,omitempty"`
	Files         FileRules         `yaml:"files,omitempty"`
	Notifications NotificationRules `yaml:"notifications,omitempty"`
}

// GitRules controls the git workflow guard
type GitRules struct {
	// Branches where direct commits are blocked
	ProtectedBranches []string `yaml:"protectedBranches,omitempty"`
	// Regex for branch names that look like tracked issue work (e.g. "PROJ-123-fix")
	IssueKeyPattern string `yaml:"issueKeyPattern,omitempty"`
	// Branch name prefixes that suggest feature work suited to a worktree
	WorktreePatterns []string `yaml:"worktreePatterns,omitempty"`
}

// EnvRules controls the env file guard
type EnvRules struct {
	// Suffixes that mark an env file as a shareable template (no secrets)
	TemplateSuffixes []string `yaml:"templateSuffixes,omitempty"`
	// Additional commands allowed to touch env files beyond the built-in safe set
	ExtraSafeCommands []string `yaml:"extraSafeCommands,omitempty"`
}

// FileRules controls the file guard
type FileRules struct {
	// Line count above which writing a source file requires a confirmation pass
	MaxFileLines int `yaml:"maxFileLines,omitempty"`
	// Additional protected basenames beyond CLAUDE.md
	ProtectedFiles []string `yaml:"protectedFiles,omitempty"`
}

// NotificationRules controls the notify hook
type NotificationRules struct {
	Sound   *bool `yaml:"sound,omitempty"`
	Desktop *bool `yaml:"desktop,omitempty"`
}

// DefaultRules returns the built-in rule set
func DefaultRules() *Rules {
	return &Rules{
		Git: GitRules{
			ProtectedBranches: []string{"main", "master"},
			IssueKeyPattern:   `^[A-Z]+-\d+`,
			WorktreePatterns:  []string{"feature/", "feat/", "add-", "implement-", "create-", "build-", "refactor/"},
		},
		Env: EnvRules{
			TemplateSuffixes: []string{".example", ".template", ".sample", ".dist"},
		},
		Files: FileRules{
			MaxFileLines:   10000,
			ProtectedFiles: []string{"CLAUDE.md"},
		},
		Notifications: NotificationRules{},
	}
}

// SoundEnabled reports whether the sound notification is on (default true)
func (n NotificationRules) SoundEnabled() bool {
	return n.Sound == nil || *n.Sound
}

// DesktopEnabled reports whether desktop notifications are on (default true)
func (n NotificationRules) DesktopEnabled() bool {
	return n.Desktop == nil || *n.Desktop
}

// RulesCandidatePaths returns the rules file locations in precedence order:
// project .claude/hooks/gatehouse.yml, then the global one under $HOME.
func RulesCandidatePaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, constants.ClaudeDir, constants.HooksSubDir, constants.RulesFileName))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, constants.ClaudeDir, constants.HooksSubDir, constants.RulesFileName))
	}
	return paths
}

// LoadRules parses a rules file, layering it over the defaults
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path) // #nosec G304 - controlled rules paths
	if err != nil {
		return nil, err
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %v", path, err)
	}
	rules.fillDefaults()
	return rules, nil
}

// fillDefaults restores defaults for fields an explicit file left empty
func (r *Rules) fillDefaults() {
	def := DefaultRules()
	if len(r.Git.ProtectedBranches) == 0 {
		r.Git.ProtectedBranches = def.Git.ProtectedBranches
	}
	if r.Git.IssueKeyPattern == "" {
		r.Git.IssueKeyPattern = def.Git.IssueKeyPattern
	}
	if len(r.Git.WorktreePatterns) == 0 {
		r.Git.WorktreePatterns = def.Git.WorktreePatterns
	}
	if len(r.Env.TemplateSuffixes) == 0 {
		r.Env.TemplateSuffixes = def.Env.TemplateSuffixes
	}
	if r.Files.MaxFileLines <= 0 {
		r.Files.MaxFileLines = def.Files.MaxFileLines
	}
	if len(r.Files.ProtectedFiles) == 0 {
		r.Files.ProtectedFiles = def.Files.ProtectedFiles
	}
}

// LoadRulesOrDefault loads the first rules file found, or defaults.
// Parse errors fall through to the next candidate so a broken project
// file never disables the guards.
func LoadRulesOrDefault() *Rules {
	for _, path := range RulesCandidatePaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if rules, err := LoadRules(path); err == nil {
			return rules
		}
	}
	return DefaultRules()
}

// IsProtectedBranch reports whether direct commits on branch are blocked
func (r *Rules) IsProtectedBranch(branch string) bool {
	for _, b := range r.Git.ProtectedBranches {
		if b == branch {
			return true
		}
	}
	return false
}

// IsTemplateEnvFile reports whether the filename carries a template suffix
func (r *Rules) IsTemplateEnvFile(name string) bool {
	for _, suffix := range r.Env.TemplateSuffixes {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}
