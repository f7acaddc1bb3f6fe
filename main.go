package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/gatehouse-sh/gatehouse/internal/cmd"
	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/constants"
	"github.com/gatehouse-sh/gatehouse/internal/core"

	// Register the built-in guard hooks
	_ "github.com/gatehouse-sh/gatehouse/internal/hooks"
)

// Version information, set at build time via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	core.SetGlobalSettingsChecker(config.IsPluginEnabled)

	app := &cli.Command{
		Name:  constants.BinaryName,
		Usage: "Guard hooks for Claude Code tool use",
		Description: `Gatehouse installs guard hooks into Claude Code that screen tool calls
before they run: dangerous command detection, git workflow enforcement,
protected file and .env secret guards, and completion notifications.`,
		Commands: []*cli.Command{
			cmd.NewRunCmd(),
			cmd.NewListCmd(),
			cmd.NewInstallCmd(),
			cmd.NewUninstallCmd(),
			cmd.NewEnvSafeCmd(),
			cmd.NewVersionCmd(cmd.VersionInfo{
				Version: version,
				Commit:  commit,
				Date:    date,
				GoVer:   runtime.Version(),
			}),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
