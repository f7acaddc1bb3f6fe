// Package cmd wires the gatehouse CLI commands together.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gatehouse-sh/gatehouse/internal/config"
	"github.com/gatehouse-sh/gatehouse/internal/core"
)

// NewRunCmd creates the run command
func NewRunCmd() *cli.Command {
	return &cli.Command{
		Name:        "run",
		Usage:       "Run a specific guard hook",
		ArgsUsage:   "[hook-key]",
		Description: `Run a specific guard hook. Reads one hook event from stdin and writes the decision to stdout.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Value:   false,
				Usage:   "Enable detailed logging to .claude/hooks/<hook-key>.log",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "jsonl",
				Usage: "Log output format: jsonl or pretty (default jsonl)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("exactly one argument required: [hook-key]")
			}
			key := args[0]

			// Validate hook exists early
			hook, err := core.CreateHook(key)
			if err != nil {
				return fmt.Errorf("hook '%s' not found.\nAvailable hooks: %s", key, strings.Join(core.GetHookKeys(), ", "))
			}

			// Enablement check before side effects
			if !config.IsPluginEnabled(key) {
				fmt.Printf("Hook '%s' is disabled via settings. Nothing to do.\n", key)
				return nil
			}

			// Logging flags
			logEnabled := cmd.Bool("log")
			logFormat := cmd.String("log-format")
			if logFormat == "" {
				logFormat = config.LoggingFormatJSONL
			}
			if logEnabled && !config.IsValidLoggingFormat(logFormat) {
				return fmt.Errorf("invalid --log-format '%s'. Valid: jsonl, pretty", logFormat)
			}
			if logEnabled {
				setupHookLogging(key, logFormat)
				// Recreate the hook so it picks up the logging context
				hook, err = core.CreateHook(key)
				if err != nil {
					return err
				}
			}

			if err := hook.Run(); err != nil {
				return fmt.Errorf("hook '%s' failed: %v", key, err)
			}
			return nil
		},
	}
}

// setupHookLogging configures logging with rotation for hook execution
func setupHookLogging(hookKey, logFormat string) {
	logConfig := config.GetLogRotationConfigFromFile(false)
	if logConfig.MaxAge == 0 && logConfig.MaxSize == 0 {
		logConfig = config.GetLogRotationConfigFromFile(true)
	}

	logPath := config.GetLogPath(hookKey)
	rotatingLogger := config.SetupLogRotation(logPath, logConfig)

	core.SetGlobalLoggingConfig(true, filepath.Dir(logPath), logFormat)

	if rotatingLogger != nil {
		if err := config.CleanupOldLogs(filepath.Dir(logPath), logConfig.MaxAge); err != nil {
			// stderr only; stdout is reserved for the decision JSON
			fmt.Fprintf(os.Stderr, "Warning: Failed to cleanup old logs: %v\n", err)
		}
	}
}
