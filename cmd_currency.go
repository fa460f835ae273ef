package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

func newCurrencyCommand() *cli.Command {
	return &cli.Command{
		Name:      "currency",
		Usage:     "Show or set the currency used for costs (ISO 4217 code)",
		ArgsUsage: "[code]",
		Action:    runCurrency,
	}
}

func runCurrency(ctx context.Context, cmd *cli.Command) error {
	code := cmd.Args().First()
	if cmd.Args().Len() > 1 {
		return errors.New("currency: expected a single currency code")
	}

	return withApp(ctx, cmd, func(ctx context.Context, app *App) error {
		if code == "" {
			prefs, err := app.engine.Provision(ctx)
			if err != nil {
				return fmt.Errorf("currency: %w", err)
			}
			colorPrint("Currency: %s (%s)\n", prefs.CurrencyCode, prefs.CurrencySymbol())
			return nil
		}

		prefs, err := app.engine.SetCurrency(ctx, code)
		if err != nil {
			return fmt.Errorf("currency: %w", err)
		}
		logging.Success(ctx, "Currency set to %s (%s)", prefs.CurrencyCode, prefs.CurrencySymbol())
		return nil
	})
}
