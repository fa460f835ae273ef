package syncer

import (
	"context"
	"fmt"
	"strings"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

func (e *Engine) writable() error {
	if e.opts.ReadOnly {
		return fmt.Errorf("collection of %s: %w", e.opts.Owner, domain.ErrReadOnly)
	}
	return nil
}

// loaded returns the current snapshot, reconciling first when there is none.
func (e *Engine) loaded(ctx context.Context) (Snapshot, error) {
	if s := e.Snapshot(); s.Loaded() {
		return s, nil
	}
	return e.Reconcile(ctx)
}

// UpdateItem validates changes against the live record and writes them to
// the store immediately. Only the fields set in changes are touched.
func (e *Engine) UpdateItem(ctx context.Context, seriesID int, changes domain.RecordChanges) (domain.CollectionItem, error) {
	if err := e.writable(); err != nil {
		return domain.CollectionItem{}, err
	}
	snap, err := e.loaded(ctx)
	if err != nil {
		return domain.CollectionItem{}, err
	}

	it, ok := snap.Items.Get(seriesID)
	if !ok {
		return domain.CollectionItem{}, fmt.Errorf("series %d is not in the collection: %w", seriesID, domain.ErrNotFound)
	}
	if err := changes.Validate(it.Record); err != nil {
		return domain.CollectionItem{}, err
	}

	if err := e.store.UpdateRecord(ctx, e.opts.Owner.UserID, seriesID, changes); err != nil {
		return domain.CollectionItem{}, fmt.Errorf("update series %d: %w", seriesID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if changes.CurrentVolumes != nil {
		delete(e.pending, seriesID)
	}
	cur, ok := e.snap.Items.Get(seriesID)
	if !ok {
		it.Record = changes.Apply(it.Record)
		return it, nil
	}
	cur.Record = changes.Apply(cur.Record)
	s := e.snap
	s.Items = s.Items.Replace(cur)
	e.commitLocked(s)

	return cur, nil
}

// UpdateCatalogNotes overwrites the notes of the owner's catalog entry.
func (e *Engine) UpdateCatalogNotes(ctx context.Context, seriesID int, text string) error {
	if err := e.writable(); err != nil {
		return err
	}
	if err := e.catalog.SetEntryNotes(ctx, seriesID, text); err != nil {
		return fmt.Errorf("set catalog notes for %d: %w", seriesID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if it, ok := e.snap.Items.Get(seriesID); ok {
		it.Entry.Notes = nil
		if strings.TrimSpace(text) != "" {
			it.Entry.Notes = &text
		}
		s := e.snap
		s.Items = s.Items.Replace(it)
		e.commitLocked(s)
	}
	return nil
}

// AddSeries looks a series up, puts it on the tracked list keeping its other
// list memberships, and creates its store record with initial applied on top
// of the defaults. initial is validated before anything is written.
func (e *Engine) AddSeries(ctx context.Context, q domain.SeriesQuery, initial domain.RecordChanges) (domain.CollectionItem, error) {
	if err := e.writable(); err != nil {
		return domain.CollectionItem{}, err
	}
	if err := q.Validate(); err != nil {
		return domain.CollectionItem{}, err
	}
	snap, err := e.loaded(ctx)
	if err != nil {
		return domain.CollectionItem{}, err
	}
	if snap.ListMissing {
		return domain.CollectionItem{}, fmt.Errorf("add series %s: %w", q, domain.ErrListMissing)
	}
	if it, ok := snap.Items.Get(q.ID); ok {
		logging.Info(ctx, "%s is already tracked", it.Title())
		return it, nil
	}

	entry, err := e.catalog.FindSeries(ctx, q)
	if err != nil {
		return domain.CollectionItem{}, fmt.Errorf("find series %s: %w", q, err)
	}
	if it, ok := snap.Items.Get(entry.ID); ok {
		logging.Info(ctx, "%s is already tracked", it.Title())
		return it, nil
	}
	if !entry.Tracked() {
		return domain.CollectionItem{}, domain.NewValidationError("format", "%s is not a tracked format", entry.Format)
	}

	ownerID := e.opts.Owner.UserID
	rec := domain.NewRecord(ownerID, entry)
	if !initial.Empty() {
		if err := initial.Validate(rec); err != nil {
			return domain.CollectionItem{}, err
		}
		rec = initial.Apply(rec)
	}

	membership, err := e.catalog.EntryMembership(ctx, ownerID, entry.ID)
	if err != nil {
		return domain.CollectionItem{}, fmt.Errorf("read membership of %d: %w", entry.ID, err)
	}
	if err := e.catalog.AddEntryToList(ctx, entry.ID, membership); err != nil {
		return domain.CollectionItem{}, fmt.Errorf("add %d to %q: %w", entry.ID, domain.TrackedListName, err)
	}
	entry.Membership = membership.With(domain.TrackedListName)

	if err := e.store.InsertRecords(ctx, []domain.UserMediaRecord{rec}); err != nil {
		return domain.CollectionItem{}, fmt.Errorf("insert record for %d: %w", entry.ID, err)
	}

	item := domain.NewCollectionItem(entry, rec, e.opts.TitleLanguage)

	e.mu.Lock()
	if e.snap.Loaded() {
		s := e.snap
		s.Items = s.Items.Insert(item)
		e.commitLocked(s)
	}
	e.mu.Unlock()

	logging.Success(ctx, "Added %s to %q", item.Title(), domain.TrackedListName)
	return item, nil
}

// RemoveSeries takes a series off the tracked list, keeping its other list
// memberships, and deletes its store record.
func (e *Engine) RemoveSeries(ctx context.Context, seriesID int) error {
	if err := e.writable(); err != nil {
		return err
	}
	snap, err := e.loaded(ctx)
	if err != nil {
		return err
	}
	it, ok := snap.Items.Get(seriesID)
	if !ok {
		return fmt.Errorf("series %d is not in the collection: %w", seriesID, domain.ErrNotFound)
	}

	ownerID := e.opts.Owner.UserID
	membership, err := e.catalog.EntryMembership(ctx, ownerID, seriesID)
	if err != nil {
		return fmt.Errorf("read membership of %d: %w", seriesID, err)
	}
	if err := e.catalog.RemoveEntryFromList(ctx, seriesID, membership); err != nil {
		return fmt.Errorf("remove %d from %q: %w", seriesID, domain.TrackedListName, err)
	}
	if err := e.store.DeleteRecords(ctx, ownerID, []int{seriesID}); err != nil {
		return fmt.Errorf("delete record for %d: %w", seriesID, err)
	}

	e.mu.Lock()
	delete(e.pending, seriesID)
	if e.snap.Loaded() {
		s := e.snap
		s.Items = s.Items.Remove(seriesID)
		e.commitLocked(s)
	}
	e.mu.Unlock()

	logging.Success(ctx, "Removed %s from %q", it.Title(), domain.TrackedListName)
	return nil
}

// SetCurrency validates and stores the owner's currency code.
func (e *Engine) SetCurrency(ctx context.Context, code string) (domain.OwnerPreferences, error) {
	if err := e.writable(); err != nil {
		return domain.OwnerPreferences{}, err
	}
	code, err := domain.ParseCurrencyCode(code)
	if err != nil {
		return domain.OwnerPreferences{}, err
	}
	if _, err := e.Provision(ctx); err != nil {
		return domain.OwnerPreferences{}, err
	}

	if err := e.store.SetCurrencyCode(ctx, e.opts.Owner.UserID, code); err != nil {
		return domain.OwnerPreferences{}, fmt.Errorf("set currency: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.prefs.CurrencyCode = code
	if e.snap.Loaded() {
		e.commitLocked(e.snap)
	}
	return e.prefs, nil
}
