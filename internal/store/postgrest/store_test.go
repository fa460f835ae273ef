package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

const testAPIKey = "anon-key"

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := New(Options{URL: server.URL, APIKey: testAPIKey})
	require.NoError(t, err)
	return s
}

func intPtr(v int) *int { return &v }

func TestNew_RequiresSettings(t *testing.T) {
	t.Parallel()

	_, err := New(Options{APIKey: testAPIKey})
	assert.Error(t, err)
	_, err = New(Options{URL: "http://localhost"})
	assert.Error(t, err)
}

func TestStore_GetRecords(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/media", r.URL.Path)
		assert.Equal(t, "eq.42", r.URL.Query().Get("viewerId"))
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `[
			{"viewerId":42,"mediaId":"30002","curVolumes":3,"maxVolumes":41,"cost":"27.50","notes":null},
			{"viewerId":42,"mediaId":"86635","curVolumes":1,"maxVolumes":1,"cost":9,"notes":"signed"},
			{"viewerId":42,"mediaId":"garbage","curVolumes":0,"maxVolumes":1,"cost":0,"notes":null}
		]`)
	})

	records, err := s.GetRecords(t.Context(), 42)
	require.NoError(t, err)
	require.Len(t, records, 2, "malformed rows are skipped")

	assert.Equal(t, 30002, records[0].SeriesID)
	assert.Equal(t, 3, records[0].CurrentVolumes)
	assert.True(t, decimal.RequireFromString("27.5").Equal(records[0].Cost))
	assert.Nil(t, records[0].Notes)
	assert.Equal(t, "signed", *records[1].Notes)
}

func TestStore_InsertRecords(t *testing.T) {
	t.Parallel()

	var got []map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Prefer"), "return=minimal")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := s.InsertRecords(t.Context(), []domain.UserMediaRecord{
		{OwnerID: 42, SeriesID: 7, MaxVolumes: 12, Cost: decimal.Zero},
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0]["mediaId"])
	assert.EqualValues(t, 42, got[0]["viewerId"])
	assert.EqualValues(t, 12, got[0]["maxVolumes"])
	assert.EqualValues(t, 0, got[0]["curVolumes"])
}

func TestStore_EmptyBatchesSkipNetwork(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	assert.NoError(t, s.InsertRecords(t.Context(), nil))
	assert.NoError(t, s.UpsertRecords(t.Context(), nil))
	assert.NoError(t, s.DeleteRecords(t.Context(), 42, nil))
	assert.NoError(t, s.UpdateRecord(t.Context(), 42, 7, domain.RecordChanges{}))
}

func TestStore_UpsertRecords(t *testing.T) {
	t.Parallel()

	var got []map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "viewerId,mediaId", r.URL.Query().Get("on_conflict"))
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := s.UpsertRecords(t.Context(), []domain.VolumeUpdate{
		{OwnerID: 42, SeriesID: 7, CurrentVolumes: 4},
		{OwnerID: 42, SeriesID: 9, CurrentVolumes: 1},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"viewerId": float64(42), "mediaId": "7", "curVolumes": float64(4)}, got[0])
}

func TestStore_DeleteRecords(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.42", r.URL.Query().Get("viewerId"))
		assert.Equal(t, "in.(7,9)", r.URL.Query().Get("mediaId"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, s.DeleteRecords(t.Context(), 42, []int{7, 9}))
}

func TestStore_UpdateRecordSendsOnlyPresentFields(t *testing.T) {
	t.Parallel()

	var got map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.7", r.URL.Query().Get("mediaId"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	blank := "   "
	err := s.UpdateRecord(t.Context(), 42, 7, domain.RecordChanges{
		MaxVolumes: intPtr(20),
		SetNotes:   true,
		Notes:      &blank,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"maxVolumes": float64(20), "notes": nil}, got)
}

func TestStore_Preferences(t *testing.T) {
	t.Parallel()

	var created map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/viewer", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("id") == "eq.1" {
				_, _ = io.WriteString(w, `[{"id":1,"currency":"EUR"}]`)
				return
			}
			_, _ = io.WriteString(w, `[]`)
		case http.MethodPost:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	prefs, err := s.GetPreferences(t.Context(), 1)
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, "EUR", prefs.CurrencyCode)

	prefs, err = s.GetPreferences(t.Context(), 2)
	require.NoError(t, err)
	assert.Nil(t, prefs, "unknown owner is not provisioned")

	require.NoError(t, s.CreateOwner(t.Context(), 2))
	assert.Equal(t, map[string]any{"id": float64(2), "currency": "USD"}, created)
}

func TestStore_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantAuth bool
	}{
		{"jwt expired", http.StatusUnauthorized, `{"code":"PGRST301","message":"JWT expired"}`, true},
		{"forbidden", http.StatusForbidden, `{"code":"42501","message":"permission denied"}`, true},
		{"server error", http.StatusInternalServerError, `{"code":"XX000","message":"boom"}`, false},
		{"non json body", http.StatusBadGateway, `bad gateway`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := s.GetRecords(t.Context(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
			assert.Equal(t, tt.wantAuth, errors.Is(err, domain.ErrAuth))
		})
	}
}

func TestStore_ContextCancelled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("request must not be sent with a cancelled context")
	})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := s.DeleteRecords(ctx, 1, []int{1})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
