package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

// colorPrint prints colored text to stdout, ignoring write errors
func colorPrint(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stdout, format, args...)
}

func newLoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Authenticate with AniList",
		Action: runLogin,
	}
}

func runLogin(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfigFromFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	ctx, logFile := withLogger(ctx, cmd.Bool("verbose"), config)
	if logFile != nil {
		defer logFile.Close()
	}

	colorPrint("\n%s=== AniList Authentication ===%s\n", logging.ColorBold+logging.ColorCyan, logging.ColorReset)

	oauth, err := newAnilistOAuth(config)
	if err != nil {
		return fmt.Errorf("error creating anilist oauth: %w", err)
	}

	if !oauth.NeedInit() {
		colorPrint("%s✓ AniList: Already authenticated%s\n\n", logging.ColorGreen, logging.ColorReset)
		printNextSteps()
		return nil
	}

	if err := oauth.InitToken(ctx, config.OAuth.Port); err != nil {
		return fmt.Errorf("anilist authentication failed: %w", err)
	}

	colorPrint("%s✓ AniList: Authentication successful%s\n\n", logging.ColorGreen, logging.ColorReset)
	printNextSteps()
	return nil
}

func printNextSteps() {
	colorPrint("%sNext steps:%s\n", logging.ColorBold+logging.ColorYellow, logging.ColorReset)
	colorPrint("  Run %sstatus%s to check authentication status\n", logging.ColorCyan, logging.ColorReset)
	colorPrint("  Run %stsundoku-sync sync%s to reconcile your Tsundoku list\n\n", logging.ColorCyan, logging.ColorReset)
}
