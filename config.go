package main

import (
	"fmt"
	"os"

	cfg "github.com/bigspawn/tsundoku-sync/internal/config"
)

type Config = cfg.Config

// loadConfigFromFile loads filename and prints setup help when the file is
// missing or unreadable.
func loadConfigFromFile(filename string) (Config, error) {
	config, err := cfg.Load(filename)
	if err != nil {
		if cfg.IsFileError(err) {
			_, _ = fmt.Fprint(os.Stderr, cfg.Help(filename))
		}
		return Config{}, err
	}
	return config, nil
}
