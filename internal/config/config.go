// Package config provides configuration loading and default values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/store"
)

const appDir = "tsundoku-sync"

// Store drivers.
const (
	DriverPostgrest = "postgrest"
	DriverSQLite    = "sqlite"
)

const (
	defaultPort            = "18080"
	defaultAuthURL         = "https://anilist.co/api/v2/oauth/authorize"
	defaultTokenURL        = "https://anilist.co/api/v2/oauth/token"
	defaultSchema          = "public"
	defaultTimeoutSeconds  = 30
	defaultRetries         = 3
	defaultWatchSchedule   = "@every 30m"
	defaultSQLiteFile      = "tsundoku.db"
	defaultTokenFile       = "token.json"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeInDays = 28
)

type OAuthConfig struct {
	Port        string `yaml:"port"`
	RedirectURI string `yaml:"redirect_uri"`
}

type AnilistConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AuthURL      string `yaml:"auth_url"`
	TokenURL     string `yaml:"token_url"`
	// TitleLanguage overrides the viewer's AniList preference (ROMAJI, ENGLISH, NATIVE).
	TitleLanguage     string `yaml:"title_language"`
	CreateMissingList *bool  `yaml:"create_missing_list"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Schema     string `yaml:"schema"`
	OwnerTable string `yaml:"owner_table"`
	MediaTable string `yaml:"media_table"`
	SQLitePath string `yaml:"sqlite_path"`
}

type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	Retries        int `yaml:"retries"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type WatchConfig struct {
	Schedule string `yaml:"schedule"`
}

type Config struct {
	OAuth         OAuthConfig   `yaml:"oauth"`
	Anilist       AnilistConfig `yaml:"anilist"`
	Store         StoreConfig   `yaml:"store"`
	HTTP          HTTPConfig    `yaml:"http"`
	Log           LogConfig     `yaml:"log"`
	Watch         WatchConfig   `yaml:"watch"`
	TokenFilePath string        `yaml:"token_file_path"`
	CacheDir      string        `yaml:"cache_dir"`
}

// FileError is returned when the config file is missing or unreadable.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("config file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// IsFileError reports whether err came from reading or parsing the config file.
func IsFileError(err error) bool {
	var fe *FileError
	return errors.As(err, &fe)
}

// Help explains how to create a config file at path.
func Help(path string) string {
	return fmt.Sprintf(`Configuration file not found or invalid: %s

To fix this:
  1. Copy the example config:  cp config.example.yaml %s
  2. Edit it:                  nano %s
  3. Set anilist.client_id and the store settings (or SUPABASE_URL / SUPABASE_API_KEY)
`, path, path, path)
}

// Load reads configuration from a YAML file, applies a .env file from the
// working directory and environment overrides, fills defaults, and validates.
func Load(filename string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, &FileError{Path: filename, Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &FileError{Path: filename, Err: err}
	}

	cfg.applyEnv()
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.OAuth.Port = port
	}
	if clientSecret := os.Getenv("CLIENT_SECRET_ANILIST"); clientSecret != "" {
		c.Anilist.ClientSecret = clientSecret
	}
	if url := os.Getenv("SUPABASE_URL"); url != "" {
		c.Store.URL = url
	}
	if key := os.Getenv("SUPABASE_API_KEY"); key != "" {
		c.Store.APIKey = key
	}
	if driver := os.Getenv("TSUNDOKU_STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
}

func (c *Config) applyDefaults() error {
	if c.OAuth.Port == "" {
		c.OAuth.Port = defaultPort
	}
	if c.OAuth.RedirectURI == "" {
		c.OAuth.RedirectURI = "http://localhost:" + c.OAuth.Port + "/callback"
	}
	if c.Anilist.AuthURL == "" {
		c.Anilist.AuthURL = defaultAuthURL
	}
	if c.Anilist.TokenURL == "" {
		c.Anilist.TokenURL = defaultTokenURL
	}
	if c.Anilist.CreateMissingList == nil {
		v := true
		c.Anilist.CreateMissingList = &v
	}

	if c.TokenFilePath == "" {
		p, err := DefaultTokenPath()
		if err != nil {
			return err
		}
		c.TokenFilePath = p
	}
	if c.CacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("resolve cache dir: %w", err)
		}
		c.CacheDir = filepath.Join(dir, appDir)
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = DriverPostgrest
	}
	if c.Store.Schema == "" {
		c.Store.Schema = defaultSchema
	}
	if c.Store.OwnerTable == "" {
		c.Store.OwnerTable = store.DefaultOwnerTable
	}
	if c.Store.MediaTable == "" {
		c.Store.MediaTable = store.DefaultMediaTable
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = filepath.Join(filepath.Dir(c.TokenFilePath), defaultSQLiteFile)
	}

	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.HTTP.Retries < 0 {
		c.HTTP.Retries = 0
	} else if c.HTTP.Retries == 0 {
		c.HTTP.Retries = defaultRetries
	}

	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = defaultLogMaxBackups
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = defaultLogMaxAgeInDays
	}

	if c.Watch.Schedule == "" {
		c.Watch.Schedule = defaultWatchSchedule
	}
	return nil
}

// Validate reports every missing or invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Anilist.ClientID == "" {
		errs = append(errs, errors.New("anilist.client_id is required"))
	}
	if lang := c.Anilist.TitleLanguage; lang != "" && !validTitleLanguage(lang) {
		errs = append(errs, fmt.Errorf("anilist.title_language %q must be ROMAJI, ENGLISH or NATIVE", lang))
	}

	switch c.Store.Driver {
	case DriverPostgrest:
		if c.Store.URL == "" {
			errs = append(errs, errors.New("store.url (or SUPABASE_URL) is required for the postgrest driver"))
		}
		if c.Store.APIKey == "" {
			errs = append(errs, errors.New("store.api_key (or SUPABASE_API_KEY) is required for the postgrest driver"))
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q must be %s or %s", c.Store.Driver, DriverPostgrest, DriverSQLite))
	}

	return errors.Join(errs...)
}

func validTitleLanguage(s string) bool {
	switch domain.TitleLanguage(strings.ToUpper(strings.TrimSpace(s))) {
	case domain.TitleRomaji, domain.TitleEnglish, domain.TitleNative:
		return true
	}
	return false
}

// HTTPTimeout is the per-request timeout for catalog calls.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// TitleLanguage returns the configured override, or "" to use the viewer's preference.
func (c Config) TitleLanguage() domain.TitleLanguage {
	if c.Anilist.TitleLanguage == "" {
		return ""
	}
	return domain.ParseTitleLanguage(c.Anilist.TitleLanguage)
}

// DefaultTokenPath is where OAuth tokens are kept when token_file_path is unset.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", appDir, defaultTokenFile), nil
}
