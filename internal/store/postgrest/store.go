// Package postgrest implements the user-data store on a Supabase PostgREST endpoint.
package postgrest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	pg "github.com/supabase-community/postgrest-go"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/httpx"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
	"github.com/bigspawn/tsundoku-sync/internal/store"
)

const mediaConflictColumns = "viewerId,mediaId"

type Options struct {
	URL        string
	APIKey     string
	Schema     string
	OwnerTable string
	MediaTable string
	// Transport is the base round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Store talks to the viewer and media tables through PostgREST.
type Store struct {
	opts Options
	base http.RoundTripper
}

var _ store.Store = (*Store)(nil)

func New(opts Options) (*Store, error) {
	if opts.URL == "" {
		return nil, errors.New("postgrest: url is required")
	}
	if opts.APIKey == "" {
		return nil, errors.New("postgrest: api key is required")
	}
	if opts.OwnerTable == "" {
		opts.OwnerTable = store.DefaultOwnerTable
	}
	if opts.MediaTable == "" {
		opts.MediaTable = store.DefaultMediaTable
	}
	return &Store{opts: opts, base: httpx.NewLoggingTransport(opts.Transport)}, nil
}

type mediaRow struct {
	OwnerID        int             `json:"viewerId"`
	SeriesID       string          `json:"mediaId"`
	CurrentVolumes int             `json:"curVolumes"`
	MaxVolumes     int             `json:"maxVolumes"`
	Cost           decimal.Decimal `json:"cost"`
	Notes          *string         `json:"notes"`
}

type volumeRow struct {
	OwnerID        int    `json:"viewerId"`
	SeriesID       string `json:"mediaId"`
	CurrentVolumes int    `json:"curVolumes"`
}

type ownerRow struct {
	ID       int    `json:"id"`
	Currency string `json:"currency"`
}

func (r mediaRow) record() (domain.UserMediaRecord, error) {
	id, err := strconv.Atoi(strings.TrimSpace(r.SeriesID))
	if err != nil {
		return domain.UserMediaRecord{}, fmt.Errorf("media id %q: %w", r.SeriesID, err)
	}
	return domain.UserMediaRecord{
		OwnerID:        r.OwnerID,
		SeriesID:       id,
		CurrentVolumes: r.CurrentVolumes,
		MaxVolumes:     r.MaxVolumes,
		Cost:           r.Cost,
		Notes:          r.Notes,
	}, nil
}

func rowFromRecord(rec domain.UserMediaRecord) mediaRow {
	return mediaRow{
		OwnerID:        rec.OwnerID,
		SeriesID:       strconv.Itoa(rec.SeriesID),
		CurrentVolumes: rec.CurrentVolumes,
		MaxVolumes:     rec.MaxVolumes,
		Cost:           rec.Cost,
		Notes:          rec.Notes,
	}
}

// call is one PostgREST request bound to a context. The client library builds
// requests without a context, so the context and the response status travel
// through the transport instead.
type call struct {
	client *pg.Client
	rt     *callTransport
}

type callTransport struct {
	ctx  context.Context
	base http.RoundTripper

	mu     sync.Mutex
	status int
}

func (t *callTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req.WithContext(t.ctx))
	if err == nil {
		t.mu.Lock()
		t.status = resp.StatusCode
		t.mu.Unlock()
	}
	return resp, err
}

func (t *callTransport) lastStatus() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (s *Store) newCall(ctx context.Context) *call {
	client := pg.NewClient(s.opts.URL, s.opts.Schema, nil)
	client.SetApiKey(s.opts.APIKey)
	client.SetAuthToken(s.opts.APIKey)
	rt := &callTransport{ctx: ctx, base: s.base}
	if client.Transport != nil {
		client.Transport.Parent = rt
	}
	return &call{client: client, rt: rt}
}

// classify maps a PostgREST failure onto the store error kinds.
func (c *call) classify(op string, err error) error {
	if ctxErr := c.rt.ctx.Err(); ctxErr != nil {
		return store.Unavailable(op, errors.Join(ctxErr, err))
	}
	switch status := c.rt.lastStatus(); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return store.Unauthorized(op, err)
	case strings.Contains(err.Error(), "JWT"):
		return store.Unauthorized(op, err)
	default:
		return store.Unavailable(op, err)
	}
}

func (s *Store) GetRecords(ctx context.Context, ownerID int) ([]domain.UserMediaRecord, error) {
	c := s.newCall(ctx)
	var rows []mediaRow
	_, err := c.client.From(s.opts.MediaTable).
		Select("viewerId,mediaId,curVolumes,maxVolumes,cost,notes", "", false).
		Eq("viewerId", strconv.Itoa(ownerID)).
		ExecuteTo(&rows)
	if err != nil {
		return nil, c.classify("get records", err)
	}

	records := make([]domain.UserMediaRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			logging.Warn(ctx, "Skipping malformed store row for owner %d: %v", ownerID, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) InsertRecords(ctx context.Context, records []domain.UserMediaRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]mediaRow, len(records))
	for i, rec := range records {
		rows[i] = rowFromRecord(rec)
	}

	c := s.newCall(ctx)
	if _, _, err := c.client.From(s.opts.MediaTable).Insert(rows, false, "", "minimal", "").Execute(); err != nil {
		return c.classify("insert records", err)
	}
	return nil
}

func (s *Store) UpsertRecords(ctx context.Context, updates []domain.VolumeUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	rows := make([]volumeRow, len(updates))
	for i, u := range updates {
		rows[i] = volumeRow{OwnerID: u.OwnerID, SeriesID: strconv.Itoa(u.SeriesID), CurrentVolumes: u.CurrentVolumes}
	}

	c := s.newCall(ctx)
	if _, _, err := c.client.From(s.opts.MediaTable).Upsert(rows, mediaConflictColumns, "minimal", "").Execute(); err != nil {
		return c.classify("upsert records", err)
	}
	return nil
}

func (s *Store) DeleteRecords(ctx context.Context, ownerID int, seriesIDs []int) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	ids := make([]string, len(seriesIDs))
	for i, id := range seriesIDs {
		ids[i] = strconv.Itoa(id)
	}

	c := s.newCall(ctx)
	_, _, err := c.client.From(s.opts.MediaTable).
		Delete("minimal", "").
		Eq("viewerId", strconv.Itoa(ownerID)).
		In("mediaId", ids).
		Execute()
	if err != nil {
		return c.classify("delete records", err)
	}
	return nil
}

func (s *Store) UpdateRecord(ctx context.Context, ownerID, seriesID int, changes domain.RecordChanges) error {
	if changes.Empty() {
		return nil
	}
	body := make(map[string]any, 4)
	if changes.CurrentVolumes != nil {
		body["curVolumes"] = *changes.CurrentVolumes
	}
	if changes.MaxVolumes != nil {
		body["maxVolumes"] = *changes.MaxVolumes
	}
	if changes.Cost != nil {
		body["cost"] = *changes.Cost
	}
	if changes.SetNotes {
		body["notes"] = changes.NormalizedNotes()
	}

	c := s.newCall(ctx)
	_, _, err := c.client.From(s.opts.MediaTable).
		Update(body, "minimal", "").
		Eq("viewerId", strconv.Itoa(ownerID)).
		Eq("mediaId", strconv.Itoa(seriesID)).
		Execute()
	if err != nil {
		return c.classify("update record", err)
	}
	return nil
}

func (s *Store) GetPreferences(ctx context.Context, ownerID int) (*domain.OwnerPreferences, error) {
	c := s.newCall(ctx)
	var rows []ownerRow
	_, err := c.client.From(s.opts.OwnerTable).
		Select("id,currency", "", false).
		Eq("id", strconv.Itoa(ownerID)).
		ExecuteTo(&rows)
	if err != nil {
		return nil, c.classify("get preferences", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	prefs := domain.OwnerPreferences{OwnerID: rows[0].ID, CurrencyCode: rows[0].Currency}
	if prefs.CurrencyCode == "" {
		prefs.CurrencyCode = domain.DefaultCurrencyCode
	}
	return &prefs, nil
}

func (s *Store) CreateOwner(ctx context.Context, ownerID int) error {
	c := s.newCall(ctx)
	row := ownerRow{ID: ownerID, Currency: domain.DefaultCurrencyCode}
	if _, _, err := c.client.From(s.opts.OwnerTable).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return c.classify("create owner", err)
	}
	return nil
}

func (s *Store) SetCurrencyCode(ctx context.Context, ownerID int, code string) error {
	c := s.newCall(ctx)
	_, _, err := c.client.From(s.opts.OwnerTable).
		Update(map[string]string{"currency": code}, "minimal", "").
		Eq("id", strconv.Itoa(ownerID)).
		Execute()
	if err != nil {
		return c.classify("set currency", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
