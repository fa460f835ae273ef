package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by the catalog, the store, and the engine.
// Adapters wrap them with %w so callers can use errors.Is.
var (
	ErrTransport        = errors.New("transport failure")
	ErrAuth             = errors.New("authentication failure")
	ErrNotFound         = errors.New("not found")
	ErrPartialApply     = errors.New("partial apply")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrReadOnly         = errors.New("read-only session")
)

// ErrListMissing means the owner has not created the tracked custom list yet.
var ErrListMissing = fmt.Errorf("custom list %q: %w", TrackedListName, ErrNotFound)

// ValidationError describes a rejected edit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PartialApplyError is returned when inserting or deleting reconciliation
// records failed. Both operations are always attempted.
type PartialApplyError struct {
	InsertErr error
	DeleteErr error
	Inserted  int
	Deleted   int
}

func (e *PartialApplyError) Error() string {
	switch {
	case e.InsertErr != nil && e.DeleteErr != nil:
		return fmt.Sprintf("partial apply: insert %d records: %v; delete %d records: %v",
			e.Inserted, e.InsertErr, e.Deleted, e.DeleteErr)
	case e.InsertErr != nil:
		return fmt.Sprintf("partial apply: insert %d records: %v", e.Inserted, e.InsertErr)
	default:
		return fmt.Sprintf("partial apply: delete %d records: %v", e.Deleted, e.DeleteErr)
	}
}

func (e *PartialApplyError) Unwrap() []error {
	errs := []error{ErrPartialApply}
	if e.InsertErr != nil {
		errs = append(errs, e.InsertErr)
	}
	if e.DeleteErr != nil {
		errs = append(errs, e.DeleteErr)
	}
	return errs
}
