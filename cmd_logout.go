package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func newLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove the stored AniList token",
		Action: runLogout,
	}
}

func runLogout(_ context.Context, cmd *cli.Command) error {
	config, err := loadConfigFromFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	oauth, err := newAnilistOAuth(config)
	if err != nil {
		return fmt.Errorf("error creating anilist oauth: %w", err)
	}

	if oauth.NeedInit() {
		colorPrint("AniList: Not logged in\n")
		return nil
	}

	if err := oauth.DeleteToken(); err != nil {
		return fmt.Errorf("error removing anilist token: %w", err)
	}

	colorPrint("AniList: Logged out successfully\n")
	return nil
}
