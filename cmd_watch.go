package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
	syncer "github.com/bigspawn/tsundoku-sync/internal/sync"
)

func newWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Refresh the collection on a schedule (Docker-friendly)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "schedule",
				Aliases: []string{"s"},
				Usage:   "cron spec or @every interval (1m-168h); defaults to watch.schedule from the config",
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Sync immediately then start watching",
			},
		},
		Action: runWatch,
	}
}

// parseSchedule accepts standard cron specs and descriptors. Fixed
// @every intervals must lie within the watch bounds.
func parseSchedule(spec string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if every, ok := sched.(cron.ConstantDelaySchedule); ok {
		if every.Delay < minWatchInterval {
			return nil, fmt.Errorf("interval must be at least %v (got %v)", minWatchInterval, every.Delay)
		}
		if every.Delay > maxWatchInterval {
			return nil, fmt.Errorf("interval must be at most 168h/7days (got %v)", every.Delay)
		}
	}
	return sched, nil
}

// cronLogger routes scheduler messages to the context logger.
type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	logging.Debug(l.ctx, "cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.Error(l.ctx, "cron: %s %v: %v", msg, keysAndValues, err)
}

// refresher is the part of the engine a scheduled run needs.
type refresher interface {
	Refresh(ctx context.Context) (syncer.Snapshot, error)
}

// scheduledRefresh flushes and reconciles. Failures are logged and the last
// published snapshot stays in place; only an auth failure is returned,
// since no later run can succeed without a new login.
func scheduledRefresh(ctx context.Context, r refresher) error {
	logging.Stage(ctx, "Running scheduled sync...")
	snap, err := r.Refresh(ctx)
	if errors.Is(err, domain.ErrAuth) {
		return err
	}
	if err != nil {
		logging.Error(ctx, "Scheduled sync failed, keeping the last collection: %v", err)
		return nil
	}
	logging.Success(ctx, "Sync completed: %d series, %d volumes",
		snap.Aggregates.TotalSeries, snap.Aggregates.TotalVolumes)
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		spec := cmd.String("schedule")
		if spec == "" {
			spec = app.config.Watch.Schedule
		}
		sched, err := parseSchedule(spec)
		if err != nil {
			return err
		}

		if cmd.Bool("once") {
			logging.Info(ctx, "Running initial sync (--once flag set)...")
			if _, err := app.engine.Reconcile(ctx); err != nil {
				return fmt.Errorf("initial sync failed: %w", err)
			}
			logging.Info(ctx, "Initial sync completed, starting watch mode")
		}

		go func() {
			for snap := range app.engine.Subscribe(ctx) {
				if !snap.Loaded() {
					logging.Debug(ctx, "Collection cleared after flush")
					continue
				}
				logging.Debug(ctx, "Collection generation %d: %d series", snap.Generation, snap.Aggregates.TotalSeries)
			}
		}()

		authFailed := make(chan error, 1)
		logger := cronLogger{ctx: ctx}
		c := cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		)
		c.Schedule(sched, cron.FuncJob(func() {
			if err := scheduledRefresh(ctx, app.engine); err != nil {
				select {
				case authFailed <- err:
				default:
				}
			}
		}))
		c.Start()
		logging.Info(ctx, "Starting watch mode: %s", spec)

		var err error
		select {
		case <-ctx.Done():
		case err = <-authFailed:
			err = fmt.Errorf("watch stopped: %w", err)
		}
		<-c.Stop().Done()
		logging.Info(ctx, "Watch mode stopped")
		return err
	})
}
