package syncer

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

// AdjustVolumes changes the current volume count of a series by delta in
// memory only. The series is flushed to the store by Flush.
func (e *Engine) AdjustVolumes(seriesID, delta int) (domain.CollectionItem, error) {
	return e.setVolumes(seriesID, func(cur int) int { return cur + delta })
}

// SetVolumes sets the current volume count of a series in memory only.
func (e *Engine) SetVolumes(seriesID, n int) (domain.CollectionItem, error) {
	return e.setVolumes(seriesID, func(int) int { return n })
}

func (e *Engine) setVolumes(seriesID int, next func(cur int) int) (domain.CollectionItem, error) {
	if err := e.writable(); err != nil {
		return domain.CollectionItem{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	it, err := e.itemLocked(seriesID)
	if err != nil {
		return domain.CollectionItem{}, err
	}

	n := next(it.Record.CurrentVolumes)
	changes := domain.RecordChanges{CurrentVolumes: &n}
	if err := changes.Validate(it.Record); err != nil {
		return domain.CollectionItem{}, err
	}
	it.Record = changes.Apply(it.Record)

	s := e.snap
	s.Items = s.Items.Replace(it)
	e.pending[seriesID] = struct{}{}
	e.commitLocked(s)

	return it, nil
}

func (e *Engine) itemLocked(seriesID int) (domain.CollectionItem, error) {
	if !e.snap.Loaded() {
		return domain.CollectionItem{}, ErrNotLoaded
	}
	it, ok := e.snap.Items.Get(seriesID)
	if !ok {
		return domain.CollectionItem{}, fmt.Errorf("series %d is not in the collection: %w", seriesID, domain.ErrNotFound)
	}
	return it, nil
}

// Pending returns the series ids waiting for a flush, ascending.
func (e *Engine) Pending() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Sorted(maps.Keys(e.pending))
}

// Flush writes every pending volume count in one upsert batch, then clears
// the pending set and the collection so the next access reconciles again.
// Subscribers receive the cleared, unloaded snapshot.
// On failure nothing is cleared and the same batch is retried next time.
func (e *Engine) Flush(ctx context.Context) error {
	e.flushMu.Lock()
	defer e.flushMu.Unlock()

	e.mu.Lock()
	if len(e.pending) == 0 {
		e.mu.Unlock()
		return nil
	}
	updates := make([]domain.VolumeUpdate, 0, len(e.pending))
	var dropped []int
	for _, id := range slices.Sorted(maps.Keys(e.pending)) {
		it, ok := e.snap.Items.Get(id)
		if !ok {
			delete(e.pending, id)
			dropped = append(dropped, id)
			continue
		}
		updates = append(updates, domain.VolumeUpdate{
			OwnerID:        e.snap.OwnerID,
			SeriesID:       id,
			CurrentVolumes: it.Record.CurrentVolumes,
		})
	}
	e.mu.Unlock()

	if len(dropped) > 0 {
		logging.Warn(ctx, "Discarding unsaved volume changes for series %v: no longer in the collection", dropped)
	}
	if len(updates) == 0 {
		return nil
	}

	if err := e.store.UpsertRecords(ctx, updates); err != nil {
		return fmt.Errorf("flush %d volume updates: %w", len(updates), err)
	}

	e.mu.Lock()
	for _, u := range updates {
		// Changed again while the batch was in flight.
		if it, ok := e.snap.Items.Get(u.SeriesID); ok && it.Record.CurrentVolumes != u.CurrentVolumes {
			continue
		}
		delete(e.pending, u.SeriesID)
	}
	if len(e.pending) == 0 {
		e.snap = Snapshot{}
		e.notifyLocked(e.snap)
	}
	e.mu.Unlock()

	logging.Info(ctx, "Flushed %d volume updates", len(updates))
	return nil
}
