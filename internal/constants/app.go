package constants

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName    = "Gatehouse"
	BinaryName = "gatehouse"

	// Module and repository
	ModulePath    = "github.com/gatehouse-sh/gatehouse"
	RepositoryURL = "https://github.com/gatehouse-sh/gatehouse"

	// Configuration files
	ConfigFileName   = "gatehouse-config.json"
	RulesFileName    = "gatehouse.yml"
	SettingsFileName = "settings.json"

	// Directory paths
	ClaudeDir   = ".claude"
	HooksSubDir = "hooks"

	// Command pattern for settings entries
	CommandPattern = BinaryName + " run"

	// Tool names as they appear in hook events
	ToolBash      = "Bash"
	ToolWrite     = "Write"
	ToolEdit      = "Edit"
	ToolMultiEdit = "MultiEdit"
	ToolRead      = "Read"
	ToolGrep      = "Grep"
)

// GetConfigPath returns the full config file path
func GetConfigPath(baseDir string) string {
	return baseDir + "/" + ClaudeDir + "/" + HooksSubDir + "/" + ConfigFileName
}
