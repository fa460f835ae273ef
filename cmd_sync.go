package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

func newSyncCommand() *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Reconcile the store with the AniList Tsundoku list and print a summary",
		Action: runSync,
	}
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		snap, err := app.engine.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}

		printSummary(os.Stdout, snap)
		logging.Success(ctx, "Sync completed")
		return nil
	})
}
