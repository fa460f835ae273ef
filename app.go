package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/bigspawn/tsundoku-sync/internal/catalog"
	cfg "github.com/bigspawn/tsundoku-sync/internal/config"
	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/httpx"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
	"github.com/bigspawn/tsundoku-sync/internal/store"
	"github.com/bigspawn/tsundoku-sync/internal/store/postgrest"
	"github.com/bigspawn/tsundoku-sync/internal/store/sqlite"
	syncer "github.com/bigspawn/tsundoku-sync/internal/sync"
)

// App wires one session: the AniList client, the user-data store and the
// reconciliation engine for a single owner.
type App struct {
	config  Config
	catalog *catalog.Client
	cache   *catalog.Cache
	store   store.Store
	engine  *syncer.Engine
	owner   domain.OwnerRef
	logFile io.Closer
}

// withLogger puts the console logger (and the optional rotating file) into ctx.
func withLogger(ctx context.Context, verbose bool, config Config) (context.Context, io.Closer) {
	logger := logging.New(verbose)
	var closer io.Closer
	if config.Log.File != "" {
		f := logging.OpenFile(logging.FileOptions{
			Path:       config.Log.File,
			MaxSizeMB:  config.Log.MaxSizeMB,
			MaxBackups: config.Log.MaxBackups,
			MaxAgeDays: config.Log.MaxAgeDays,
		})
		logger.Tee(f)
		closer = f
	}
	return logging.WithContext(ctx, logger), closer
}

// loadApp loads the config named by the root flags and builds the session.
func loadApp(ctx context.Context, cmd *cli.Command) (context.Context, *App, error) {
	config, err := loadConfigFromFile(cmd.String("config"))
	if err != nil {
		return ctx, nil, fmt.Errorf("error loading config: %w", err)
	}

	ctx, logFile := withLogger(ctx, cmd.Bool("verbose"), config)
	app, err := NewApp(ctx, config, cmd.String("user"))
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return ctx, nil, err
	}
	app.logFile = logFile
	return ctx, app, nil
}

// NewApp builds a session. A non-empty user opens that user's collection
// read-only; otherwise the logged-in viewer owns the session.
func NewApp(ctx context.Context, config Config, user string) (*App, error) {
	logging.Stage(ctx, "Initializing...")

	httpClient, err := newCatalogHTTPClient(ctx, config, user != "")
	if err != nil {
		return nil, err
	}

	cache, err := catalog.OpenCache(config.CacheDir)
	if err != nil {
		logging.Warn(ctx, "Catalog cache disabled: %v", err)
		cache = nil
	}
	client := catalog.New(httpClient, cache)

	owner, lang, err := resolveOwner(ctx, client, user)
	if err != nil {
		closeQuietly(cache)
		return nil, err
	}
	if configured := config.TitleLanguage(); configured != "" {
		lang = configured
	}

	st, err := openStore(config.Store)
	if err != nil {
		closeQuietly(cache)
		return nil, fmt.Errorf("open store: %w", err)
	}

	engine, err := syncer.New(client, st, syncer.Options{
		Owner:             owner,
		ReadOnly:          user != "",
		CreateMissingList: *config.Anilist.CreateMissingList,
		TitleLanguage:     lang,
	})
	if err != nil {
		closeQuietly(cache)
		_ = st.Close()
		return nil, err
	}

	logging.Debug(ctx, "Session ready for %s (store: %s)", owner, config.Store.Driver)

	return &App{
		config:  config,
		catalog: client,
		cache:   cache,
		store:   st,
		engine:  engine,
		owner:   owner,
	}, nil
}

func closeQuietly(c *catalog.Cache) {
	if c != nil {
		_ = c.Close()
	}
}

// newCatalogHTTPClient returns the retrying, logging client used for AniList.
// Anonymous sessions are allowed only for read-only views.
func newCatalogHTTPClient(ctx context.Context, config Config, readOnly bool) (*http.Client, error) {
	base := &http.Client{
		Timeout:   config.HTTPTimeout(),
		Transport: httpx.NewRetryTransport(httpx.NewLoggingTransport(nil), config.HTTP.Retries, nil),
	}

	oauth, err := newAnilistOAuth(config)
	if err != nil {
		return nil, fmt.Errorf("error creating anilist oauth: %w", err)
	}
	if oauth.NeedInit() {
		if readOnly {
			logging.Debug(ctx, "No AniList token, reading anonymously")
			return base, nil
		}
		return nil, errNotLoggedIn
	}

	client := oauth.HTTPClient(ctx, base)
	client.Timeout = config.HTTPTimeout()
	return client, nil
}

func resolveOwner(ctx context.Context, client *catalog.Client, user string) (domain.OwnerRef, domain.TitleLanguage, error) {
	if user != "" {
		owner := domain.OwnerRef{Username: user}
		if err := owner.Validate(); err != nil {
			return domain.OwnerRef{}, "", err
		}
		return owner, "", nil
	}

	viewer, err := client.Viewer(ctx)
	if err != nil {
		return domain.OwnerRef{}, "", fmt.Errorf("resolve viewer: %w", err)
	}
	logging.Debug(ctx, "Logged in as %s (%d)", viewer.Name, viewer.ID)
	return domain.OwnerRef{UserID: viewer.ID}, viewer.TitleLanguage, nil
}

func openStore(config cfg.StoreConfig) (store.Store, error) {
	switch config.Driver {
	case cfg.DriverSQLite:
		return sqlite.Open(config.SQLitePath)
	case cfg.DriverPostgrest:
		return postgrest.New(postgrest.Options{
			URL:        config.URL,
			APIKey:     config.APIKey,
			Schema:     config.Schema,
			OwnerTable: config.OwnerTable,
			MediaTable: config.MediaTable,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", config.Driver)
	}
}

// Close flushes pending volume changes, retrying transient failures, and
// releases the store and cache. It runs even after ctx is cancelled.
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FlushTimeout)
	defer cancel()

	var errs []error
	if !a.engine.ReadOnly() {
		err := retryWithBackoff(ctx, func() error { return a.engine.Shutdown(ctx) }, "flush volume changes")
		if err != nil {
			errs = append(errs, fmt.Errorf("flush: %w", err))
			logging.Error(ctx, "Unsaved volume changes for series %v: %v", a.engine.Pending(), err)
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
	return errors.Join(errs...)
}

// withApp runs fn with a session and always closes it.
func withApp(ctx context.Context, cmd *cli.Command, fn func(ctx context.Context, app *App) error) (err error) {
	ctx, app, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close(ctx))
	}()
	return fn(ctx, app)
}
