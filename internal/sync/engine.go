package syncer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

var (
	// ErrSuperseded is the cancellation cause of a reconciliation replaced
	// by a newer one.
	ErrSuperseded = errors.New("reconciliation superseded")
	// ErrNotLoaded is returned by local edits before the first reconciliation.
	ErrNotLoaded = errors.New("collection not loaded")

	errShutdown = errors.New("engine shut down")
)

// Options configure a session.
type Options struct {
	Owner domain.OwnerRef
	// ReadOnly sessions view another user's collection: no provisioning,
	// no store writes and no edits.
	ReadOnly bool
	// CreateMissingList creates the tracked custom list when the owner has none.
	CreateMissingList bool
	TitleLanguage     domain.TitleLanguage
}

// Snapshot is one published state of the collection. Items and Aggregates
// always come from the same cycle.
type Snapshot struct {
	OwnerID     int
	OwnerName   string
	Items       Collection
	Aggregates  Aggregates
	Preferences domain.OwnerPreferences
	// Stale is set when the catalog list came from the local cache.
	Stale bool
	// ListMissing is set when the owner has no tracked custom list.
	ListMissing bool
	Generation  uint64
	RefreshedAt time.Time
}

// Loaded reports whether the snapshot was published by a reconciliation.
func (s Snapshot) Loaded() bool { return s.Generation > 0 }

// Engine owns the collection of one owner for one session. The published
// snapshot and the pending volume set are only written through its methods.
type Engine struct {
	catalog Catalog
	store   Store
	opts    Options
	now     func() time.Time

	provisionMu sync.Mutex
	provisioned bool

	runMu  sync.Mutex
	cancel context.CancelCauseFunc
	done   chan struct{}

	flushMu sync.Mutex

	mu         sync.RWMutex
	snap       Snapshot
	prefs      domain.OwnerPreferences
	generation uint64
	pending    map[int]struct{}
	subs       map[int]chan Snapshot
	nextSub    int
}

// New creates an engine. Writable sessions need the owner's user id.
func New(catalog Catalog, store Store, opts Options) (*Engine, error) {
	if err := opts.Owner.Validate(); err != nil {
		return nil, err
	}
	if !opts.ReadOnly && opts.Owner.UserID <= 0 {
		return nil, domain.NewValidationError("owner", "a writable session needs a user id")
	}
	if opts.TitleLanguage == "" {
		opts.TitleLanguage = domain.TitleRomaji
	}

	return &Engine{
		catalog: catalog,
		store:   store,
		opts:    opts,
		now:     time.Now,
		prefs:   domain.DefaultPreferences(opts.Owner.UserID),
		pending: make(map[int]struct{}),
		subs:    make(map[int]chan Snapshot),
	}, nil
}

func (e *Engine) ReadOnly() bool { return e.opts.ReadOnly }

// Snapshot returns the latest published state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

func (e *Engine) Preferences() domain.OwnerPreferences {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.prefs
}

// Subscribe delivers every published snapshot until ctx is done. Slow
// readers only see the latest one. An unloaded snapshot means the collection
// was cleared by a flush.
func (e *Engine) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	if e.snap.Loaded() {
		ch <- e.snap
	}
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.mu.Lock()
		delete(e.subs, id)
		close(ch)
		e.mu.Unlock()
	}()
	return ch
}

// notifyLocked replaces any undelivered snapshot. e.mu must be held.
func (e *Engine) notifyLocked(s Snapshot) {
	for _, ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// commitLocked publishes s with fresh aggregates. e.mu must be held.
func (e *Engine) commitLocked(s Snapshot) Snapshot {
	e.generation++
	s.Generation = e.generation
	s.Aggregates = Aggregate(s.Items)
	s.Preferences = e.prefs
	e.snap = s
	e.notifyLocked(s)
	return s
}

// Provision makes sure the owner has a preferences row, creating it on first
// use. It runs once per session.
func (e *Engine) Provision(ctx context.Context) (domain.OwnerPreferences, error) {
	return e.provision(ctx, e.opts.Owner.UserID)
}

func (e *Engine) provision(ctx context.Context, ownerID int) (domain.OwnerPreferences, error) {
	e.provisionMu.Lock()
	defer e.provisionMu.Unlock()

	if e.provisioned {
		return e.Preferences(), nil
	}
	if ownerID <= 0 {
		return domain.OwnerPreferences{}, domain.NewValidationError("owner", "owner id is not known yet")
	}

	stored, err := e.store.GetPreferences(ctx, ownerID)
	if err != nil {
		return domain.OwnerPreferences{}, fmt.Errorf("read preferences: %w", err)
	}

	prefs := domain.DefaultPreferences(ownerID)
	switch {
	case stored != nil:
		prefs = *stored
		if prefs.CurrencyCode == "" {
			prefs.CurrencyCode = domain.DefaultCurrencyCode
		}
	case e.opts.ReadOnly:
		logging.Debug(ctx, "Owner %d has no preferences, using defaults", ownerID)
	default:
		if err := e.store.CreateOwner(ctx, ownerID); err != nil {
			return domain.OwnerPreferences{}, fmt.Errorf("create owner %d: %w", ownerID, err)
		}
		logging.Info(ctx, "Provisioned owner %d with currency %s", ownerID, prefs.CurrencyCode)
	}

	e.mu.Lock()
	e.prefs = prefs
	e.mu.Unlock()
	e.provisioned = true

	return prefs, nil
}

// Reconcile fetches the tracked list, brings the store in line with it and
// publishes the merged collection. A newer call cancels the one in flight
// and waits for it to stop; a cancelled run never publishes. On failure the
// previous snapshot stays published.
func (e *Engine) Reconcile(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	done := make(chan struct{})
	defer close(done)

	e.runMu.Lock()
	prevCancel, prevDone := e.cancel, e.done
	e.cancel, e.done = cancel, done
	e.runMu.Unlock()

	defer func() {
		e.runMu.Lock()
		if e.done == done {
			e.cancel, e.done = nil, nil
		}
		e.runMu.Unlock()
	}()

	// The previous run may still be inside apply; never overlap with it.
	if prevCancel != nil {
		prevCancel(ErrSuperseded)
		<-prevDone
	}

	return e.reconcile(ctx)
}

// Refresh flushes pending volume changes, then reconciles.
func (e *Engine) Refresh(ctx context.Context) (Snapshot, error) {
	if err := e.Flush(ctx); err != nil {
		return Snapshot{}, err
	}
	return e.Reconcile(ctx)
}

// Shutdown stops a running reconciliation and flushes pending volume changes.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.runMu.Lock()
	cancel, done := e.cancel, e.done
	e.runMu.Unlock()

	if cancel != nil {
		cancel(errShutdown)
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return e.Flush(ctx)
}

func checkpoint(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return fmt.Errorf("reconcile: %w", context.Cause(ctx))
}

func (e *Engine) ownerID(listOwnerID int) int {
	if e.opts.Owner.UserID > 0 {
		return e.opts.Owner.UserID
	}
	return listOwnerID
}

func (e *Engine) reconcile(ctx context.Context) (Snapshot, error) {
	logging.Stage(ctx, "Reconciling %q list of %s", domain.TrackedListName, e.opts.Owner)

	if !e.opts.ReadOnly {
		if _, err := e.Provision(ctx); err != nil {
			return Snapshot{}, err
		}
	}
	if err := checkpoint(ctx); err != nil {
		return Snapshot{}, err
	}

	list, err := e.catalog.FetchTrackedSeries(ctx, e.opts.Owner, domain.SortFor(e.opts.TitleLanguage))
	if err := checkpoint(ctx); err != nil {
		return Snapshot{}, err
	}
	if errors.Is(err, domain.ErrListMissing) {
		return e.reconcileMissingList(ctx)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch tracked series: %w", err)
	}

	ownerID := e.ownerID(list.OwnerID)
	if e.opts.ReadOnly {
		if _, err := e.provision(ctx, ownerID); err != nil {
			return Snapshot{}, err
		}
	}

	records, err := e.store.GetRecords(ctx, ownerID)
	if err := checkpoint(ctx); err != nil {
		return Snapshot{}, err
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read records: %w", err)
	}

	plan := Diff(ownerID, list.Entries, records)
	switch {
	case plan.Empty():
		logging.Debug(ctx, "Store already matches %d catalog entries", len(list.Entries))
	case e.opts.ReadOnly:
		logging.Debug(ctx, "Read-only session, skipping %d inserts and %d deletes", len(plan.ToInsert), len(plan.ToDelete))
	case list.Stale:
		logging.Warn(ctx, "Catalog list is cached, skipping %d inserts and %d deletes until AniList is reachable",
			len(plan.ToInsert), len(plan.ToDelete))
	default:
		if err := e.apply(ctx, ownerID, plan); err != nil {
			return Snapshot{}, err
		}
		if err := checkpoint(ctx); err != nil {
			return Snapshot{}, err
		}

		records, err = e.store.GetRecords(ctx, ownerID)
		if err := checkpoint(ctx); err != nil {
			return Snapshot{}, err
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("re-read records: %w", err)
		}
	}

	items, dropped := merge(list.Entries, records, e.opts.TitleLanguage)
	for _, d := range dropped {
		logging.Debug(ctx, "No record for %d (%s) yet, retrying next cycle", d.ID, d.Title.Display(e.opts.TitleLanguage))
	}

	return e.publish(ctx, Snapshot{
		OwnerID:   ownerID,
		OwnerName: list.OwnerName,
		Items:     Collection(items),
		Stale:     list.Stale,
	})
}

// reconcileMissingList publishes an empty collection. Store records are left
// alone: a missing list says nothing about which series were removed.
func (e *Engine) reconcileMissingList(ctx context.Context) (Snapshot, error) {
	ownerID := e.opts.Owner.UserID

	if e.opts.ReadOnly || !e.opts.CreateMissingList {
		logging.Warn(ctx, "%s has no %q custom list on AniList", e.opts.Owner, domain.TrackedListName)
		return e.publish(ctx, Snapshot{OwnerID: ownerID, ListMissing: true})
	}

	if err := e.catalog.CreateTrackedList(ctx, ownerID); err != nil {
		return Snapshot{}, fmt.Errorf("create tracked list: %w", err)
	}
	return e.publish(ctx, Snapshot{OwnerID: ownerID})
}

// apply attempts both the insert and the delete batch.
func (e *Engine) apply(ctx context.Context, ownerID int, plan Plan) error {
	perr := domain.PartialApplyError{Inserted: len(plan.ToInsert), Deleted: len(plan.ToDelete)}

	if len(plan.ToInsert) > 0 {
		perr.InsertErr = e.store.InsertRecords(ctx, plan.ToInsert)
	}
	if len(plan.ToDelete) > 0 {
		perr.DeleteErr = e.store.DeleteRecords(ctx, ownerID, plan.ToDelete)
	}
	if perr.InsertErr != nil || perr.DeleteErr != nil {
		return &perr
	}

	logging.Info(ctx, "Store: inserted %d and deleted %d records", len(plan.ToInsert), len(plan.ToDelete))
	return nil
}

// publish sorts and aggregates s and makes it the current snapshot. Volume
// counts still pending a flush override the stored values.
func (e *Engine) publish(ctx context.Context, s Snapshot) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := checkpoint(ctx); err != nil {
		return Snapshot{}, err
	}

	items := slices.Clone(s.Items)
	if len(e.pending) > 0 {
		for i, it := range items {
			if _, ok := e.pending[it.SeriesID()]; !ok {
				continue
			}
			if live, ok := e.snap.Items.Get(it.SeriesID()); ok {
				items[i].Record.CurrentVolumes = live.Record.CurrentVolumes
			}
		}
	}
	s.Items = NewCollection(items)
	s.RefreshedAt = e.now()

	s = e.commitLocked(s)
	for _, status := range s.Aggregates.Unrecognized {
		logging.Warn(ctx, "Unrecognized release status %q counted separately", status)
	}
	logging.Debug(ctx, "Published %d items (generation %d)", len(s.Items), s.Generation)

	return s, nil
}
