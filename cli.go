package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

// NewCLI creates the root CLI command
func NewCLI() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to config file",
		Value:   "config.yaml",
	}
	verboseFlag := &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "enable verbose logging",
	}
	userFlag := &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "view another AniList user's collection (read-only)",
	}

	return &cli.Command{
		Name:        "tsundoku-sync",
		Usage:       "Track owned manga volumes for your AniList Tsundoku list",
		Version:     "1.0.0",
		Description: "Keeps a volume/cost record for every series on the AniList \"Tsundoku\" custom list.",
		Flags: []cli.Flag{
			configFlag,
			verboseFlag,
			userFlag,
		},
		Commands: []*cli.Command{
			newLoginCommand(),
			newLogoutCommand(),
			newStatusCommand(),
			newSyncCommand(),
			newListCommand(),
			newEditCommand(),
			newVolumesCommand(),
			newAddCommand(),
			newRemoveCommand(),
			newCurrencyCommand(),
			newInitListCommand(),
			newWatchCommand(),
		},
		// Default action when no command specified
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return fmt.Errorf("unknown command: %s", cmd.Args().First())
			}
			return runSync(ctx, cmd)
		},
	}
}

// RunCLI executes the CLI application
func RunCLI() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := NewCLI()

	if err := cmd.Run(ctx, os.Args); err != nil {
		msg, showHelp := errorMessage(cmd.Name, err)
		fmt.Fprint(os.Stderr, msg)
		if showHelp {
			//nolint:gosec // G104: best effort help display
			cli.ShowAppHelp(cmd) //nolint:errcheck // best effort help display
		}
		return fmt.Errorf("command failed")
	}

	return nil
}

// errorMessage renders a failed command for the terminal. Missing or rejected
// AniList credentials point to login instead of the usage text.
func errorMessage(program string, err error) (string, bool) {
	if errors.Is(err, domain.ErrAuth) {
		return fmt.Sprintf("\nAniList did not accept your credentials: %v\n"+
			"Run '%s login' to sign in again.\n\n", err, program), false
	}
	return fmt.Sprintf("\nError: %v\n\n", err), true
}

// seriesIDArg parses the first positional argument as an AniList media id.
func seriesIDArg(cmd *cli.Command) (int, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("%s: missing series id", cmd.Name)
	}
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: invalid series id %q", cmd.Name, arg)
	}
	return id, nil
}
