// Package store defines the user-data store contract. Backends live in the
// postgrest and sqlite subpackages.
package store

import (
	"context"
	"fmt"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

// Default table names.
const (
	DefaultOwnerTable = "viewer"
	DefaultMediaTable = "media"
)

// Store persists per-owner volume records and preferences. Every failure wraps
// domain.ErrStoreUnavailable (or domain.ErrAuth for rejected credentials).
// Implementations do not retry.
type Store interface {
	GetRecords(ctx context.Context, ownerID int) ([]domain.UserMediaRecord, error)
	// InsertRecords is a no-op for an empty slice.
	InsertRecords(ctx context.Context, records []domain.UserMediaRecord) error
	// UpsertRecords matches rows on (owner, series); missing rows are created.
	UpsertRecords(ctx context.Context, updates []domain.VolumeUpdate) error
	// DeleteRecords is a no-op for an empty id slice.
	DeleteRecords(ctx context.Context, ownerID int, seriesIDs []int) error
	UpdateRecord(ctx context.Context, ownerID, seriesID int, changes domain.RecordChanges) error
	// GetPreferences returns nil when the owner has not been provisioned.
	GetPreferences(ctx context.Context, ownerID int) (*domain.OwnerPreferences, error)
	CreateOwner(ctx context.Context, ownerID int) error
	SetCurrencyCode(ctx context.Context, ownerID int, code string) error
	Close() error
}

// Unavailable wraps err as a store failure for op.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// Unauthorized wraps err as a rejected credential failure for op.
func Unauthorized(op string, err error) error {
	return fmt.Errorf("%s: %w: %w: %w", op, domain.ErrStoreUnavailable, domain.ErrAuth, err)
}
