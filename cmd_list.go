package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	syncer "github.com/bigspawn/tsundoku-sync/internal/sync"
)

const (
	sortTitle   = "title"
	sortVolumes = "volumes"
	sortCost    = "cost"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "only show series whose title contains this text",
			},
			&cli.BoolFlag{
				Name:  "fuzzy",
				Usage: "rank --search results by fuzzy match instead of substring",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "manga, novel, ongoing, finished, coming-soon, cancelled, hiatus, complete, incomplete",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "title, volumes or cost",
				Value: sortTitle,
			},
		},
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	filter, err := domain.ParseFilter(cmd.String("filter"))
	if err != nil {
		return err
	}
	order := cmd.String("sort")
	if !slices.Contains([]string{sortTitle, sortVolumes, sortCost}, order) {
		return fmt.Errorf("unknown sort %q (use: title, volumes, cost)", order)
	}

	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		snap, err := app.engine.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}

		items := view(snap.Items, filter, cmd.String("search"), cmd.Bool("fuzzy"), order)
		if err := printCollection(os.Stdout, items, snap.Preferences); err != nil {
			return err
		}
		printSummary(os.Stdout, snap)
		return nil
	})
}

// view narrows and orders items for display. Fuzzy search keeps its ranking.
func view(items syncer.Collection, filter domain.Filter, query string, fuzzy bool, order string) syncer.Collection {
	items = items.Filter(filter)
	if query != "" {
		if fuzzy {
			return items.FuzzySearch(query)
		}
		items = items.Search(query)
	}

	switch order {
	case sortVolumes:
		items = slices.Clone(items)
		slices.SortStableFunc(items, func(a, b domain.CollectionItem) int {
			return b.Record.CurrentVolumes - a.Record.CurrentVolumes
		})
	case sortCost:
		items = slices.Clone(items)
		slices.SortStableFunc(items, func(a, b domain.CollectionItem) int {
			return b.Record.Cost.Cmp(a.Record.Cost)
		})
	}
	return items
}
