package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/gatehouse-sh/gatehouse/internal/envsafe"
)

// NewEnvSafeCmd creates the env-safe command: safe inspection of .env files
// without exposing secret values. This is the tool the env guard's block
// messages point at.
func NewEnvSafeCmd() *cli.Command {
	fileFlag := func() *cli.StringFlag {
		return &cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Value:   ".env",
			Usage:   "Path to env file",
		}
	}

	return &cli.Command{
		Name:  "env-safe",
		Usage: "Inspect .env files without exposing values",
		Description: `Inspect .env files safely: list variable names, check whether a key
exists, count variables, or validate syntax. Values are never printed.`,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List variable names",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.BoolFlag{
						Name:  "status",
						Usage: "Show whether each value is set or empty",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					entries, err := readEnvFile(cmd.String("file"))
					if err != nil {
						return err
					}
					if len(entries) == 0 {
						fmt.Println("No variables found")
						return nil
					}
					for _, e := range entries {
						if cmd.Bool("status") {
							fmt.Printf("%s (%s)\n", e.Key, setStatus(e))
						} else {
							fmt.Println(e.Key)
						}
					}
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "Check whether a variable exists",
				ArgsUsage: "KEY",
				Flags:     []cli.Flag{fileFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					args := cmd.Args().Slice()
					if len(args) != 1 {
						return fmt.Errorf("exactly one argument required: KEY")
					}
					entries, err := readEnvFile(cmd.String("file"))
					if err != nil {
						return err
					}
					entry, found := envsafe.Lookup(entries, args[0])
					if !found {
						return fmt.Errorf("%s: not found", args[0])
					}
					fmt.Printf("%s: exists (%s)\n", entry.Key, setStatus(entry))
					return nil
				},
			},
			{
				Name:  "count",
				Usage: "Count variables",
				Flags: []cli.Flag{fileFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					entries, err := readEnvFile(cmd.String("file"))
					if err != nil {
						return err
					}
					set := 0
					for _, e := range entries {
						if e.IsSet() {
							set++
						}
					}
					fmt.Printf("Total: %d variables\n", len(entries))
					fmt.Printf("  Set: %d\n", set)
					fmt.Printf("  Empty: %d\n", len(entries)-set)
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Validate syntax",
				Flags: []cli.Flag{fileFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := cmd.String("file")
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("%s not found", path)
					}
					errs, warnings := envsafe.Validate(data)
					if len(errs) > 0 {
						fmt.Println("Errors:")
						for _, e := range errs {
							fmt.Printf("  %s\n", e)
						}
					}
					if len(warnings) > 0 {
						fmt.Println("Warnings:")
						for _, w := range warnings {
							fmt.Printf("  %s\n", w)
						}
					}
					if len(errs) == 0 && len(warnings) == 0 {
						fmt.Printf("Valid: %s has no syntax issues\n", path)
					}
					if len(errs) > 0 {
						return fmt.Errorf("%d syntax error(s) in %s", len(errs), path)
					}
					return nil
				},
			},
		},
	}
}

func readEnvFile(path string) ([]envsafe.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s not found", path)
	}
	return envsafe.Parse(data), nil
}

func setStatus(e envsafe.Entry) string {
	if e.IsSet() {
		return "set"
	}
	return "empty"
}
