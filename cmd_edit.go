package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

func newEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change the stored record of a series",
		ArgsUsage: "<series-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "current", Usage: "owned volumes"},
			&cli.IntFlag{Name: "max", Usage: "total volumes of the series"},
			&cli.StringFlag{Name: "cost", Usage: "money spent, e.g. 59.97"},
			&cli.StringFlag{Name: "notes", Usage: "private notes kept in the store"},
			&cli.BoolFlag{Name: "clear-notes", Usage: "remove the stored notes"},
			&cli.StringFlag{Name: "anilist-notes", Usage: "overwrite the notes of the AniList list entry"},
		},
		Action: runEdit,
	}
}

// editFlags are the edit options the user actually set.
type editFlags struct {
	current    *int
	max        *int
	cost       *string
	notes      *string
	clearNotes bool
}

func editFlagsFrom(cmd *cli.Command) editFlags {
	var f editFlags
	if cmd.IsSet("current") {
		v := cmd.Int("current")
		f.current = &v
	}
	if cmd.IsSet("max") {
		v := cmd.Int("max")
		f.max = &v
	}
	if cmd.IsSet("cost") {
		v := cmd.String("cost")
		f.cost = &v
	}
	if cmd.IsSet("notes") {
		v := cmd.String("notes")
		f.notes = &v
	}
	f.clearNotes = cmd.Bool("clear-notes")
	return f
}

// recordChanges converts flags into a change set. Range checks against the
// live record happen in the engine.
func (f editFlags) recordChanges() (domain.RecordChanges, error) {
	var changes domain.RecordChanges
	if f.notes != nil && f.clearNotes {
		return changes, errors.New("--notes and --clear-notes are mutually exclusive")
	}

	changes.CurrentVolumes = f.current
	changes.MaxVolumes = f.max
	if f.cost != nil {
		cost, err := domain.ParseCost(*f.cost)
		if err != nil {
			return changes, err
		}
		changes.Cost = &cost
	}
	switch {
	case f.clearNotes:
		changes.SetNotes = true
	case f.notes != nil:
		changes.SetNotes = true
		changes.Notes = f.notes
	}
	return changes, nil
}

func runEdit(ctx context.Context, cmd *cli.Command) error {
	seriesID, err := seriesIDArg(cmd)
	if err != nil {
		return err
	}
	changes, err := editFlagsFrom(cmd).recordChanges()
	if err != nil {
		return err
	}
	setCatalogNotes := cmd.IsSet("anilist-notes")
	if changes.Empty() && !setCatalogNotes {
		return errors.New("edit: nothing to change")
	}

	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		if !changes.Empty() {
			it, err := app.engine.UpdateItem(ctx, seriesID, changes)
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			printItem(os.Stdout, it, app.engine.Preferences())
		}
		if setCatalogNotes {
			if err := app.engine.UpdateCatalogNotes(ctx, seriesID, cmd.String("anilist-notes")); err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			logging.Success(ctx, "AniList notes updated for %d", seriesID)
		}
		return nil
	})
}
