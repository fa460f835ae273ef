package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

// maxVolumeInput bounds a single typed count to three digits.
const maxVolumeInput = 999

func newVolumesCommand() *cli.Command {
	return &cli.Command{
		Name:      "volumes",
		Usage:     "Adjust owned volumes locally and save them in one batch",
		ArgsUsage: "<series-id> <+n|-n|=n>...",
		Action:    runVolumes,
	}
}

// volumeOp is one adjustment: a delta, or an absolute count when set is true.
type volumeOp struct {
	set bool
	n   int
}

func parseVolumeOp(s string) (volumeOp, error) {
	if len(s) < 2 {
		return volumeOp{}, fmt.Errorf("invalid volume change %q (use +n, -n or =n)", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > maxVolumeInput {
		return volumeOp{}, fmt.Errorf("invalid volume change %q: count must be 0-%d", s, maxVolumeInput)
	}
	switch s[0] {
	case '+':
		return volumeOp{n: n}, nil
	case '-':
		return volumeOp{n: -n}, nil
	case '=':
		return volumeOp{set: true, n: n}, nil
	}
	return volumeOp{}, fmt.Errorf("invalid volume change %q (use +n, -n or =n)", s)
}

func parseVolumeOps(args []string) ([]volumeOp, error) {
	if len(args) == 0 {
		return nil, errors.New("volumes: missing volume changes")
	}
	ops := make([]volumeOp, 0, len(args))
	for _, a := range args {
		op, err := parseVolumeOp(a)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// volumeEditor is the part of the engine the volumes command drives.
type volumeEditor interface {
	AdjustVolumes(seriesID, delta int) (domain.CollectionItem, error)
	SetVolumes(seriesID, n int) (domain.CollectionItem, error)
}

// applyVolumeOps applies ops in order and stops at the first rejected one.
// Accepted changes stay pending for the flush.
func applyVolumeOps(ed volumeEditor, seriesID int, ops []volumeOp) (domain.CollectionItem, error) {
	var (
		it  domain.CollectionItem
		err error
	)
	for _, op := range ops {
		if op.set {
			it, err = ed.SetVolumes(seriesID, op.n)
		} else {
			it, err = ed.AdjustVolumes(seriesID, op.n)
		}
		if err != nil {
			return it, err
		}
	}
	return it, nil
}

func runVolumes(ctx context.Context, cmd *cli.Command) error {
	seriesID, err := seriesIDArg(cmd)
	if err != nil {
		return err
	}
	ops, err := parseVolumeOps(cmd.Args().Tail())
	if err != nil {
		return err
	}

	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		if _, err := app.engine.Reconcile(ctx); err != nil {
			return fmt.Errorf("volumes: %w", err)
		}
		it, err := applyVolumeOps(app.engine, seriesID, ops)
		if err != nil {
			return fmt.Errorf("volumes: %w", err)
		}
		printItem(os.Stdout, it, app.engine.Preferences())
		return nil
	})
}
