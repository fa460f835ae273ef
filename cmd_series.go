package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

func newAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an AniList series to the Tsundoku list by id or title",
		ArgsUsage: "<series-id|title>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "novel", Usage: "search light novels instead of manga"},
			&cli.IntFlag{Name: "current", Usage: "owned volumes"},
			&cli.IntFlag{Name: "max", Usage: "total volumes of the series"},
			&cli.StringFlag{Name: "cost", Usage: "money spent, e.g. 59.97"},
		},
		Action: runAdd,
	}
}

func newRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a series from the Tsundoku list and delete its record",
		ArgsUsage: "<series-id>",
		Action:    runRemove,
	}
}

// seriesQueryArg reads an AniList id, or else a title from all positional
// arguments. A title search looks in manga unless novel is set.
func seriesQueryArg(cmd *cli.Command, novel bool) (domain.SeriesQuery, error) {
	arg := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if arg == "" {
		return domain.SeriesQuery{}, fmt.Errorf("%s: missing series id or title", cmd.Name)
	}

	var q domain.SeriesQuery
	if id, err := strconv.Atoi(arg); err == nil {
		if id <= 0 {
			return q, fmt.Errorf("%s: invalid series id %q", cmd.Name, arg)
		}
		q.ID = id
	} else {
		q.Search = arg
		q.Format = domain.FormatManga
	}
	if novel {
		q.Format = domain.FormatNovel
	}
	return q, nil
}

// addChanges is the initial record set by the add flags.
func addChanges(cmd *cli.Command) (domain.RecordChanges, error) {
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
	return f.recordChanges()
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	q, err := seriesQueryArg(cmd, cmd.Bool("novel"))
	if err != nil {
		return err
	}
	initial, err := addChanges(cmd)
	if err != nil {
		return err
	}

	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		it, err := app.engine.AddSeries(ctx, q, initial)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		logging.Success(ctx, "%s is on %q", it.Title(), domain.TrackedListName)
		printItem(os.Stdout, it, app.engine.Preferences())
		return nil
	})
}

func runRemove(ctx context.Context, cmd *cli.Command) error {
	seriesID, err := seriesIDArg(cmd)
	if err != nil {
		return err
	}

	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		if err := app.engine.RemoveSeries(ctx, seriesID); err != nil {
			return fmt.Errorf("remove: %w", err)
		}
		return nil
	})
}
