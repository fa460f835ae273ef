package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

func newInitListCommand() *cli.Command {
	return &cli.Command{
		Name:   "init-list",
		Usage:  "Create the Tsundoku custom list on AniList if it does not exist",
		Action: runInitList,
	}
}

func runInitList(ctx context.Context, cmd *cli.Command) error {
	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		if app.engine.ReadOnly() {
			return fmt.Errorf("init-list: %w", domain.ErrReadOnly)
		}
		if err := app.catalog.CreateTrackedList(ctx, app.owner.UserID); err != nil {
			return fmt.Errorf("init-list: %w", err)
		}
		logging.Success(ctx, "%q custom list is ready", domain.TrackedListName)

		snap, err := app.engine.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("init-list: %w", err)
		}
		printSummary(os.Stdout, snap)
		return nil
	})
}
