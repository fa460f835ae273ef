//go:generate mockgen -destination mock_ports_test.go -package syncer -source=ports.go

// Package syncer reconciles the tracked catalog list with the user-data store
// and owns the in-memory collection built from both.
package syncer

import (
	"context"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

// Catalog is the part of the catalog adapter the engine depends on.
type Catalog interface {
	FetchTrackedSeries(ctx context.Context, owner domain.OwnerRef, sort []domain.SortKey) (domain.TrackedList, error)
	CreateTrackedList(ctx context.Context, ownerID int) error
	EntryMembership(ctx context.Context, ownerID, seriesID int) (domain.Membership, error)
	AddEntryToList(ctx context.Context, seriesID int, current domain.Membership) error
	RemoveEntryFromList(ctx context.Context, seriesID int, current domain.Membership) error
	SetEntryNotes(ctx context.Context, seriesID int, text string) error
	FindSeries(ctx context.Context, q domain.SeriesQuery) (domain.CatalogEntry, error)
}

// Store is the part of the user-data store the engine depends on.
type Store interface {
	GetRecords(ctx context.Context, ownerID int) ([]domain.UserMediaRecord, error)
	InsertRecords(ctx context.Context, records []domain.UserMediaRecord) error
	UpsertRecords(ctx context.Context, updates []domain.VolumeUpdate) error
	DeleteRecords(ctx context.Context, ownerID int, seriesIDs []int) error
	UpdateRecord(ctx context.Context, ownerID, seriesID int, changes domain.RecordChanges) error
	GetPreferences(ctx context.Context, ownerID int) (*domain.OwnerPreferences, error)
	CreateOwner(ctx context.Context, ownerID int) error
	SetCurrencyCode(ctx context.Context, ownerID int, code string) error
}
