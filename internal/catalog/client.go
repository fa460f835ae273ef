// Package catalog reads and edits the owner's tracked custom list on AniList.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rl404/verniy"
	"golang.org/x/oauth2"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

// Requester sends one GraphQL request body and returns the raw response.
// *verniy.Client satisfies it.
type Requester interface {
	MakeRequest(ctx context.Context, body []byte) ([]byte, int, error)
}

// Client is the AniList catalog adapter.
type Client struct {
	req      Requester
	cache    *Cache
	listName string
}

// New builds a client on top of verniy using httpClient for transport
// (token injection, retries and logging are configured by the caller).
func New(httpClient *http.Client, cache *Cache) *Client {
	v := verniy.New()
	if httpClient != nil {
		v.Http = *httpClient
	}
	return NewWithRequester(v, cache)
}

// NewWithRequester builds a client on an arbitrary requester. cache may be nil.
func NewWithRequester(req Requester, cache *Cache) *Client {
	return &Client{req: req, cache: cache, listName: domain.TrackedListName}
}

type gqlError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do sends query with variables and decodes the data member into out.
func (c *Client) do(ctx context.Context, op, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return fmt.Errorf("%s: failed to marshal request body: %w", op, err)
	}

	respBody, code, err := c.req.MakeRequest(ctx, body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		if isAuthFailure(err) {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrAuth, err)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
	}

	var resp gqlResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if code != http.StatusOK {
			return classifyStatus(op, code, strings.TrimSpace(string(respBody)))
		}
		return fmt.Errorf("%s: %w: failed to unmarshal response: %w", op, domain.ErrTransport, err)
	}

	if code != http.StatusOK || len(resp.Errors) > 0 {
		status, msg := code, http.StatusText(code)
		if len(resp.Errors) > 0 {
			msg = resp.Errors[0].Message
			if resp.Errors[0].Status != 0 {
				status = resp.Errors[0].Status
			}
		}
		return classifyStatus(op, status, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%s: %w: failed to unmarshal data: %w", op, domain.ErrTransport, err)
	}
	return nil
}

// isAuthFailure reports whether a request failed before leaving the machine
// because the token source could not produce a credential.
func isAuthFailure(err error) bool {
	if errors.Is(err, domain.ErrAuth) {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return false
	}
	// A token endpoint outage is not a credential problem.
	return retrieveErr.Response == nil || retrieveErr.Response.StatusCode < http.StatusInternalServerError
}

func classifyStatus(op string, status int, msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden ||
		strings.Contains(lower, "invalid token") || strings.Contains(lower, "unauthorized"):
		return fmt.Errorf("%s: %w: %s", op, domain.ErrAuth, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, msg)
	default:
		return fmt.Errorf("%s: %w: AniList API returned status code %d: %s", op, domain.ErrTransport, status, msg)
	}
}

type mediaDTO struct {
	ID              int          `json:"id"`
	Title           domain.Title `json:"title"`
	CountryOfOrigin string       `json:"countryOfOrigin"`
	Format          string       `json:"format"`
	Status          string       `json:"status"`
	Chapters        *int         `json:"chapters"`
	Volumes         *int         `json:"volumes"`
	CoverImage      struct {
		Large string `json:"large"`
	} `json:"coverImage"`
}

type entryDTO struct {
	MediaID     int             `json:"mediaId"`
	Notes       *string         `json:"notes"`
	CustomLists map[string]bool `json:"customLists"`
	Media       mediaDTO        `json:"media"`
}

type listOptionsDTO struct {
	MangaList struct {
		CustomLists []string `json:"customLists"`
	} `json:"mangaList"`
}

type userDTO struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	MediaListOptions *listOptionsDTO `json:"mediaListOptions"`
	Options          *struct {
		TitleLanguage string `json:"titleLanguage"`
	} `json:"options"`
}

func (u userDTO) customLists() []string {
	if u.MediaListOptions == nil {
		return nil
	}
	return u.MediaListOptions.MangaList.CustomLists
}

func (m mediaDTO) entry() domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:              m.ID,
		Title:           m.Title,
		CountryOfOrigin: m.CountryOfOrigin,
		Format:          m.Format,
		Status:          m.Status,
		Chapters:        m.Chapters,
		Volumes:         m.Volumes,
		CoverImage:      m.CoverImage.Large,
	}
}

func (e entryDTO) entry() domain.CatalogEntry {
	out := e.Media.entry()
	if out.ID == 0 {
		out.ID = e.MediaID
	}
	out.Notes = e.Notes
	out.Membership = domain.Membership(e.CustomLists)
	return out
}

type collectionDTO struct {
	MediaListCollection struct {
		User  userDTO `json:"user"`
		Lists []struct {
			Name         string     `json:"name"`
			IsCustomList bool       `json:"isCustomList"`
			Entries      []entryDTO `json:"entries"`
		} `json:"lists"`
	} `json:"MediaListCollection"`
}

// FetchTrackedSeries reads the owner's tracked custom list. It returns
// domain.ErrListMissing when the owner never created the list. On a
// transport failure a cached copy is served with Stale set.
func (c *Client) FetchTrackedSeries(ctx context.Context, owner domain.OwnerRef, sort []domain.SortKey) (domain.TrackedList, error) {
	if err := owner.Validate(); err != nil {
		return domain.TrackedList{}, err
	}

	list, err := c.fetchTrackedSeries(ctx, owner, sort)
	if err == nil {
		c.cache.Put(ctx, owner, list)
		return list, nil
	}

	if errors.Is(err, domain.ErrTransport) {
		if cached, ok := c.cache.Get(owner); ok {
			logging.Warn(ctx, "AniList unreachable, using cached list for %s: %v", owner, err)
			cached.Stale = true
			return cached, nil
		}
	}
	return domain.TrackedList{}, err
}

func (c *Client) fetchTrackedSeries(ctx context.Context, owner domain.OwnerRef, sort []domain.SortKey) (domain.TrackedList, error) {
	vars := map[string]any{}
	if owner.UserID > 0 {
		vars["userId"] = owner.UserID
	} else {
		vars["userName"] = owner.Username
	}
	if len(sort) > 0 {
		keys := make([]string, len(sort))
		for i, k := range sort {
			keys[i] = string(k)
		}
		vars["sort"] = keys
	}

	var data collectionDTO
	if err := c.do(ctx, "fetch tracked series", trackedListQuery, vars, &data); err != nil {
		return domain.TrackedList{}, err
	}

	coll := data.MediaListCollection
	out := domain.TrackedList{OwnerID: coll.User.ID, OwnerName: coll.User.Name, Entries: []domain.CatalogEntry{}}

	found := slices.Contains(coll.User.customLists(), c.listName)
	for _, l := range coll.Lists {
		if !l.IsCustomList || l.Name != c.listName {
			continue
		}
		found = true
		for _, e := range l.Entries {
			out.Entries = append(out.Entries, e.entry())
		}
	}
	if !found {
		return domain.TrackedList{}, fmt.Errorf("fetch tracked series for %s: %w", owner, domain.ErrListMissing)
	}

	logging.Debug(ctx, "AniList: %d entries on %q for %s", len(out.Entries), c.listName, owner)
	return out, nil
}

// Viewer returns the authenticated user.
func (c *Client) Viewer(ctx context.Context) (domain.Viewer, error) {
	var data struct {
		Viewer userDTO `json:"Viewer"`
	}
	if err := c.do(ctx, "viewer", viewerQuery, nil, &data); err != nil {
		return domain.Viewer{}, err
	}

	v := domain.Viewer{ID: data.Viewer.ID, Name: data.Viewer.Name, TitleLanguage: domain.TitleRomaji}
	if data.Viewer.Options != nil {
		v.TitleLanguage = domain.ParseTitleLanguage(data.Viewer.Options.TitleLanguage)
	}
	return v, nil
}

// CreateTrackedList adds the tracked list to the owner's custom manga lists.
// It is a no-op when the list already exists.
func (c *Client) CreateTrackedList(ctx context.Context, ownerID int) error {
	var data struct {
		User userDTO `json:"User"`
	}
	if err := c.do(ctx, "read custom lists", userCustomListsQuery, map[string]any{"userId": ownerID}, &data); err != nil {
		return err
	}

	lists := data.User.customLists()
	if slices.Contains(lists, c.listName) {
		logging.Debug(ctx, "AniList: custom list %q already exists", c.listName)
		return nil
	}

	lists = append(slices.Clone(lists), c.listName)
	if err := c.do(ctx, "create custom list", updateCustomListsMutation, map[string]any{"customLists": lists}, nil); err != nil {
		return err
	}
	logging.Info(ctx, "Created AniList custom list %q", c.listName)
	return nil
}

// EntryMembership returns the custom lists a series is on for the owner.
// A series that is not on any of the owner's lists has empty membership.
func (c *Client) EntryMembership(ctx context.Context, ownerID, seriesID int) (domain.Membership, error) {
	var data struct {
		MediaList *struct {
			CustomLists map[string]bool `json:"customLists"`
		} `json:"MediaList"`
	}
	err := c.do(ctx, "read membership", entryMembershipQuery, map[string]any{"userId": ownerID, "mediaId": seriesID}, &data)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Membership{}, nil
	}
	if err != nil {
		return nil, err
	}
	if data.MediaList == nil {
		return domain.Membership{}, nil
	}
	return domain.Membership(data.MediaList.CustomLists), nil
}

// AddEntryToList submits current plus the tracked list. Membership on other
// lists is preserved because the full set is sent.
func (c *Client) AddEntryToList(ctx context.Context, seriesID int, current domain.Membership) error {
	return c.saveMembership(ctx, "add to list", seriesID, current.With(c.listName))
}

// RemoveEntryFromList submits current without the tracked list.
func (c *Client) RemoveEntryFromList(ctx context.Context, seriesID int, current domain.Membership) error {
	return c.saveMembership(ctx, "remove from list", seriesID, current.Without(c.listName))
}

func (c *Client) saveMembership(ctx context.Context, op string, seriesID int, m domain.Membership) error {
	vars := map[string]any{"mediaId": seriesID, "customLists": m.Names()}
	return c.do(ctx, op, saveEntryListsMutation, vars, nil)
}

// SetEntryNotes overwrites the catalog notes of the owner's entry.
func (c *Client) SetEntryNotes(ctx context.Context, seriesID int, text string) error {
	vars := map[string]any{"mediaId": seriesID, "notes": text}
	return c.do(ctx, "set notes", saveEntryNotesMutation, vars, nil)
}

// FindSeries returns catalog metadata for the series matching q. A title
// search returns AniList's best match.
func (c *Client) FindSeries(ctx context.Context, q domain.SeriesQuery) (domain.CatalogEntry, error) {
	if err := q.Validate(); err != nil {
		return domain.CatalogEntry{}, err
	}

	vars := map[string]any{}
	if q.ID > 0 {
		vars["id"] = q.ID
	} else {
		vars["search"] = strings.TrimSpace(q.Search)
	}
	if q.Format != "" {
		vars["format"] = q.Format
	}

	var data struct {
		Media *mediaDTO `json:"Media"`
	}
	if err := c.do(ctx, "find series", seriesQuery, vars, &data); err != nil {
		return domain.CatalogEntry{}, err
	}
	if data.Media == nil {
		return domain.CatalogEntry{}, fmt.Errorf("find series %s: %w", q, domain.ErrNotFound)
	}
	return data.Media.entry(), nil
}
