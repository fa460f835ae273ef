package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	cfg "github.com/bigspawn/tsundoku-sync/internal/config"
)

func newStatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check authentication and store settings",
		Action: runStatus,
	}
}

func runStatus(_ context.Context, cmd *cli.Command) error {
	config, err := loadConfigFromFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	w := os.Stdout
	_, _ = fmt.Fprintln(w, "Authentication Status:")
	_, _ = fmt.Fprintln(w, "======================")

	oauth, err := newAnilistOAuth(config)
	if err != nil {
		_, _ = fmt.Fprintf(w, "AniList:      Error - %v\n", err)
	} else {
		printServiceStatus(w, "AniList", oauth, time.Now())
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Token file:   %s\n", config.TokenFilePath)
	_, _ = fmt.Fprintf(w, "Store:        %s\n", storeDescription(config))
	_, _ = fmt.Fprintf(w, "Cache dir:    %s\n", config.CacheDir)

	return nil
}

func printServiceStatus(w io.Writer, serviceName string, oauth *OAuth, now time.Time) {
	label := fmt.Sprintf("%-13s", serviceName+":")
	if oauth.NeedInit() {
		_, _ = fmt.Fprintf(w, "%s Not authenticated\n", label)
		return
	}

	if oauth.IsTokenValid() {
		expiry := oauth.TokenExpiry()
		if expiry.IsZero() {
			_, _ = fmt.Fprintf(w, "%s Authenticated (no expiry)\n", label)
		} else {
			remaining := expiry.Sub(now).Round(time.Minute)
			_, _ = fmt.Fprintf(w, "%s Authenticated (expires in %v)\n", label, remaining)
		}
		return
	}
	_, _ = fmt.Fprintf(w, "%s Token expired, run login again\n", label)
}

func storeDescription(config Config) string {
	if config.Store.Driver == cfg.DriverSQLite {
		return "sqlite " + config.Store.SQLitePath
	}
	return "postgrest " + config.Store.URL
}
