package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"

	cfg "github.com/bigspawn/tsundoku-sync/internal/config"
	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

// errNotLoggedIn is returned when a command needs a token and none is stored.
var errNotLoggedIn = fmt.Errorf("%w: not logged in to AniList", domain.ErrAuth)

// TokenFile is the on-disk token store, keyed by site.
type TokenFile struct {
	Tokens map[string]*oauth2.Token `json:"tokens"`
}

func NewTokenFile() *TokenFile {
	return &TokenFile{Tokens: make(map[string]*oauth2.Token)}
}

type OAuth struct {
	token         *oauth2.Token
	tokenMu       sync.RWMutex
	siteName      string
	tokenFilePath string
	state         string

	Config *oauth2.Config
}

func NewOAuth(config cfg.AnilistConfig, redirectURI, tokenFilePath string) (*OAuth, error) {
	if !filepath.IsAbs(tokenFilePath) {
		return nil, fmt.Errorf("path must be absolute: %s", tokenFilePath)
	}

	if err := createDirIfNotExists(tokenFilePath); err != nil {
		return nil, err
	}

	oauth := &OAuth{
		Config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  redirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
			},
		},
		siteName:      tokenSiteAnilist,
		tokenFilePath: tokenFilePath,
		state:         rand.Text(),
	}

	if err := oauth.loadTokenFromFile(); err != nil {
		return nil, err
	}

	return oauth, nil
}

func newAnilistOAuth(config Config) (*OAuth, error) {
	return NewOAuth(config.Anilist, config.OAuth.RedirectURI, config.TokenFilePath)
}

func (oauth *OAuth) GetAuthURL() string {
	return oauth.Config.AuthCodeURL(oauth.state)
}

func (oauth *OAuth) ExchangeToken(ctx context.Context, code string) error {
	token, err := oauth.Config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("error exchanging code for token: %w", err)
	}

	oauth.tokenMu.Lock()
	defer oauth.tokenMu.Unlock()
	oauth.token = token

	return oauth.saveTokenToFile()
}

// TokenSource returns a source that carries ctx through to refreshes.
func (oauth *OAuth) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &contextAwareTokenSource{oauth: oauth, ctx: ctx}
}

type contextAwareTokenSource struct {
	oauth *OAuth
	ctx   context.Context
}

func (s *contextAwareTokenSource) Token() (*oauth2.Token, error) {
	return s.oauth.TokenWithContext(s.ctx)
}

// TokenWithContext returns a valid token, refreshing and persisting it when
// the stored one has expired.
func (oauth *OAuth) TokenWithContext(ctx context.Context) (*oauth2.Token, error) {
	oauth.tokenMu.Lock()
	defer oauth.tokenMu.Unlock()

	if oauth.token == nil {
		return nil, errNotLoggedIn
	}
	if oauth.token.Valid() {
		return oauth.token, nil
	}

	logging.Debug(ctx, "Refreshing token for %s", oauth.siteName)

	t, err := oauth.Config.TokenSource(ctx, oauth.token).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && (retrieveErr.Response == nil || retrieveErr.Response.StatusCode < http.StatusInternalServerError) {
			return nil, fmt.Errorf("%w: token refresh rejected: %w", domain.ErrAuth, err)
		}
		return nil, fmt.Errorf("error refreshing token: %w", err)
	}
	oauth.token = t

	if err := oauth.saveTokenToFile(); err != nil {
		return nil, fmt.Errorf("error saving token: %w", err)
	}

	logging.Debug(ctx, "Token refreshed for %s", oauth.siteName)
	return t, nil
}

// HTTPClient returns a client that authorizes every request over base.
func (oauth *OAuth) HTTPClient(ctx context.Context, base *http.Client) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth.TokenSource(ctx))
}

func (oauth *OAuth) NeedInit() bool {
	oauth.tokenMu.RLock()
	defer oauth.tokenMu.RUnlock()
	return oauth.token == nil
}

// IsTokenValid reports whether a token is stored and not expired.
func (oauth *OAuth) IsTokenValid() bool {
	oauth.tokenMu.RLock()
	defer oauth.tokenMu.RUnlock()
	return oauth.token.Valid()
}

// TokenExpiry is the zero time when no token is stored or it never expires.
func (oauth *OAuth) TokenExpiry() time.Time {
	oauth.tokenMu.RLock()
	defer oauth.tokenMu.RUnlock()
	if oauth.token == nil {
		return time.Time{}
	}
	return oauth.token.Expiry
}

// DeleteToken forgets the token in memory and in the token file.
func (oauth *OAuth) DeleteToken() error {
	oauth.tokenMu.Lock()
	defer oauth.tokenMu.Unlock()

	tokenFile, err := readTokenFile(oauth.tokenFilePath)
	if err != nil {
		return err
	}
	delete(tokenFile.Tokens, oauth.siteName)
	if err := writeTokenFile(oauth.tokenFilePath, tokenFile); err != nil {
		return err
	}
	oauth.token = nil
	return nil
}

func (oauth *OAuth) loadTokenFromFile() error {
	tokenFile, err := readTokenFile(oauth.tokenFilePath)
	if err != nil {
		return err
	}

	if token, exists := tokenFile.Tokens[oauth.siteName]; exists {
		oauth.tokenMu.Lock()
		oauth.token = token
		oauth.tokenMu.Unlock()
	}
	return nil
}

// saveTokenToFile must be called with tokenMu held.
func (oauth *OAuth) saveTokenToFile() error {
	tokenFile, err := readTokenFile(oauth.tokenFilePath)
	if err != nil {
		return err
	}

	tokenFile.Tokens[oauth.siteName] = oauth.token

	return writeTokenFile(oauth.tokenFilePath, tokenFile)
}

func readTokenFile(tokenFilePath string) (*TokenFile, error) {
	// #nosec G304 - Token file path is user's config directory for OAuth tokens
	data, err := os.ReadFile(tokenFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewTokenFile(), nil
		}
		return nil, fmt.Errorf("error opening token file: %w", err)
	}

	tokenFile := NewTokenFile()
	if err := json.Unmarshal(data, tokenFile); err != nil {
		return nil, fmt.Errorf("error decoding token file: %w", err)
	}
	if tokenFile.Tokens == nil {
		tokenFile.Tokens = make(map[string]*oauth2.Token)
	}

	return tokenFile, nil
}

func writeTokenFile(tokenFilePath string, tokenFile *TokenFile) error {
	data, err := json.Marshal(tokenFile)
	if err != nil {
		return fmt.Errorf("error encoding token file: %w", err)
	}
	if err := os.WriteFile(tokenFilePath, data, TokenFilePerms); err != nil {
		return fmt.Errorf("error writing token file: %w", err)
	}
	return nil
}

// callbackHandler validates the state parameter, exchanges the code and
// signals done once a token is stored.
func (oauth *OAuth) callbackHandler(ctx context.Context, done chan<- struct{}) http.HandlerFunc {
	var once sync.Once
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()

		state := r.URL.Query().Get("state")
		if state == "" {
			http.Error(w, "State parameter missing", http.StatusBadRequest)
			logging.Warn(ctx, "State parameter missing in callback")
			return
		}
		if state != oauth.state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			logging.Warn(ctx, "State mismatch in callback")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Code parameter missing", http.StatusBadRequest)
			logging.Warn(ctx, "Code parameter missing in callback")
			return
		}

		if err := oauth.ExchangeToken(ctx, code); err != nil {
			http.Error(w, "Error exchanging code for token", http.StatusInternalServerError)
			logging.Error(ctx, "Error exchanging code for token: %v", err)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		//nolint:lll //ok
		_, _ = w.Write([]byte(`<html><body>Authorization successful. You can close this window.<br><script>window.close();</script></body></html>`))

		once.Do(func() { close(done) })
	}
}

// InitToken runs the local callback server until the browser flow stores a
// token or ctx is cancelled.
func (oauth *OAuth) InitToken(ctx context.Context, port string) error {
	done := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, oauth.callbackHandler(ctx, done))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Debug(ctx, "Callback server started at http://localhost:%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	defer shutdownServer(ctx, server)

	logging.Info(ctx, "Navigate to the following URL for authorization: %s", oauth.GetAuthURL())

	select {
	case <-done:
		return nil
	case err, ok := <-serveErr:
		if !ok {
			return errors.New("callback server stopped")
		}
		return fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func shutdownServer(ctx context.Context, server *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ServerShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn(ctx, "Error shutting down server: %v", err)
	}
}

func createDirIfNotExists(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, ConfigDirPerms); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	return nil
}
