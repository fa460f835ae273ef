package syncer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

func loadThree(t *testing.T) (*Engine, *MockCatalog, *MockStore) {
	t.Helper()
	e, cat, st := newTestEngine(t, Options{})
	loadEngine(t, e, cat, st,
		trackedList(entry(1, "A", ""), entry(2, "B", ""), entry(3, "C", "")),
		[]domain.UserMediaRecord{record(1, 1, 10), record(2, 5, 10), record(3, 0, 2)})
	return e, cat, st
}

func TestEngine_AdjustVolumes(t *testing.T) {
	t.Parallel()
	e, _, _ := loadThree(t)

	before := e.Snapshot()
	it, err := e.AdjustVolumes(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, it.Record.CurrentVolumes)

	after := e.Snapshot()
	assert.Equal(t, 1, before.Items[0].Record.CurrentVolumes, "published snapshots are not mutated")
	assert.Equal(t, 3, after.Items[0].Record.CurrentVolumes)
	assert.Equal(t, before.Aggregates.TotalVolumes+2, after.Aggregates.TotalVolumes)
	assert.Greater(t, after.Generation, before.Generation)

	_, err = e.SetVolumes(3, 2)
	require.NoError(t, err)
	_, err = e.AdjustVolumes(1, -1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, e.Pending())
}

func TestEngine_AdjustVolumes_Rejected(t *testing.T) {
	t.Parallel()
	e, _, _ := loadThree(t)

	tests := []struct {
		name     string
		seriesID int
		delta    int
		wantIs   error
	}{
		{"below zero", 3, -1, domain.ErrValidation},
		{"above max", 3, 3, domain.ErrValidation},
		{"unknown series", 42, 1, domain.ErrNotFound},
	}
	for _, tt := range tests {
		_, err := e.AdjustVolumes(tt.seriesID, tt.delta)
		assert.ErrorIs(t, err, tt.wantIs, tt.name)
	}
	assert.Empty(t, e.Pending())
}

func TestEngine_AdjustVolumes_NotLoaded(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEngine(t, Options{})

	_, err := e.AdjustVolumes(1, 1)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestEngine_Flush(t *testing.T) {
	t.Parallel()
	e, _, st := loadThree(t)
	ctx := testContext(t)

	_, err := e.AdjustVolumes(2, 1)
	require.NoError(t, err)
	_, err = e.AdjustVolumes(1, 1)
	require.NoError(t, err)
	_, err = e.AdjustVolumes(2, 1)
	require.NoError(t, err)

	st.EXPECT().UpsertRecords(gomock.Any(), []domain.VolumeUpdate{
		{OwnerID: testOwner, SeriesID: 1, CurrentVolumes: 2},
		{OwnerID: testOwner, SeriesID: 2, CurrentVolumes: 7},
	}).Return(nil).Times(1)

	require.NoError(t, e.Flush(ctx))
	assert.Empty(t, e.Pending())
	assert.False(t, e.Snapshot().Loaded(), "collection is cleared after a flush")

	require.NoError(t, e.Flush(ctx), "empty pending set makes no store call")
}

func TestEngine_Flush_FailureRetainsPending(t *testing.T) {
	t.Parallel()
	e, _, st := loadThree(t)
	ctx := testContext(t)

	_, err := e.AdjustVolumes(1, 4)
	require.NoError(t, err)
	_, err = e.SetVolumes(2, 9)
	require.NoError(t, err)

	batch := []domain.VolumeUpdate{
		{OwnerID: testOwner, SeriesID: 1, CurrentVolumes: 5},
		{OwnerID: testOwner, SeriesID: 2, CurrentVolumes: 9},
	}
	gomock.InOrder(
		st.EXPECT().UpsertRecords(gomock.Any(), batch).Return(domain.ErrStoreUnavailable),
		st.EXPECT().UpsertRecords(gomock.Any(), batch).Return(nil),
	)

	err = e.Flush(ctx)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, []int{1, 2}, e.Pending())
	assert.True(t, e.Snapshot().Loaded())

	require.NoError(t, e.Flush(ctx))
	assert.Empty(t, e.Pending())
}

func TestEngine_PendingSurvivesReconcile(t *testing.T) {
	t.Parallel()
	e, cat, st := loadThree(t)

	_, err := e.AdjustVolumes(1, 4)
	require.NoError(t, err)

	snap := loadEngine(t, e, cat, st,
		trackedList(entry(1, "A", ""), entry(2, "B", ""), entry(3, "C", "")),
		[]domain.UserMediaRecord{record(1, 1, 10), record(2, 5, 10), record(3, 0, 2)})

	assert.Equal(t, 5, snap.Items[0].Record.CurrentVolumes, "unflushed local count wins")
	assert.Equal(t, []int{1}, e.Pending())
}

func TestEngine_Refresh(t *testing.T) {
	t.Parallel()
	e, cat, st := loadThree(t)

	_, err := e.AdjustVolumes(3, 1)
	require.NoError(t, err)

	gomock.InOrder(
		st.EXPECT().UpsertRecords(gomock.Any(), []domain.VolumeUpdate{{OwnerID: testOwner, SeriesID: 3, CurrentVolumes: 1}}).Return(nil),
		cat.EXPECT().FetchTrackedSeries(gomock.Any(), owner, romajiSort).Return(trackedList(entry(3, "C", "")), nil),
		st.EXPECT().GetRecords(gomock.Any(), testOwner).Return([]domain.UserMediaRecord{record(3, 1, 2)}, nil),
	)

	snap, err := e.Refresh(testContext(t))
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Record.CurrentVolumes)
	assert.Empty(t, e.Pending())
}

func TestEngine_Shutdown(t *testing.T) {
	t.Parallel()
	e, _, st := loadThree(t)

	_, err := e.AdjustVolumes(2, -5)
	require.NoError(t, err)
	st.EXPECT().UpsertRecords(gomock.Any(), []domain.VolumeUpdate{{OwnerID: testOwner, SeriesID: 2, CurrentVolumes: 0}}).Return(nil)

	require.NoError(t, e.Shutdown(testContext(t)))
	assert.Empty(t, e.Pending())
}

func TestEngine_Flush_NotifiesSubscribers(t *testing.T) {
	t.Parallel()
	e, _, st := loadThree(t)
	ctx := testContext(t)

	updates := e.Subscribe(ctx)
	<-updates

	_, err := e.AdjustVolumes(3, 1)
	require.NoError(t, err)
	<-updates

	st.EXPECT().UpsertRecords(gomock.Any(), []domain.VolumeUpdate{
		{OwnerID: testOwner, SeriesID: 3, CurrentVolumes: 1},
	}).Return(nil)
	require.NoError(t, e.Flush(ctx))

	select {
	case got := <-updates:
		assert.False(t, got.Loaded(), "subscribers see the cleared collection")
		assert.Empty(t, got.Items)
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot delivered after flush")
	}
}

func TestEngine_Flush_WarnsAboutDroppedSeries(t *testing.T) {
	t.Parallel()
	e, cat, _ := loadThree(t)

	var out bytes.Buffer
	logger := logging.New(false)
	logger.SetOutput(&out)
	ctx := logging.WithContext(t.Context(), logger)

	_, err := e.AdjustVolumes(1, 1)
	require.NoError(t, err)

	cat.EXPECT().FetchTrackedSeries(gomock.Any(), owner, romajiSort).Return(domain.TrackedList{}, domain.ErrListMissing)
	snap, err := e.Reconcile(ctx)
	require.NoError(t, err)
	require.True(t, snap.ListMissing)

	// No upsert is expected: series 1 has nowhere to be flushed from.
	require.NoError(t, e.Flush(ctx))
	assert.Empty(t, e.Pending())
	assert.Contains(t, out.String(), "Discarding unsaved volume changes for series [1]")
}
