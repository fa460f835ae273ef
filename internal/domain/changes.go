package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RecordChanges is a partial update of a UserMediaRecord. A nil pointer
// leaves the field untouched. Notes are written only when SetNotes is true;
// a nil or blank Notes then clears them.
type RecordChanges struct {
	CurrentVolumes *int
	MaxVolumes     *int
	Cost           *decimal.Decimal
	SetNotes       bool
	Notes          *string
}

// Empty reports whether the changes touch no field.
func (c RecordChanges) Empty() bool {
	return c.CurrentVolumes == nil && c.MaxVolumes == nil && c.Cost == nil && !c.SetNotes
}

// NormalizedNotes returns the notes value to store: nil when clearing.
func (c RecordChanges) NormalizedNotes() *string {
	if c.Notes == nil || strings.TrimSpace(*c.Notes) == "" {
		return nil
	}
	s := *c.Notes
	return &s
}

// Apply returns rec with the changes applied.
func (c RecordChanges) Apply(rec UserMediaRecord) UserMediaRecord {
	if c.CurrentVolumes != nil {
		rec.CurrentVolumes = *c.CurrentVolumes
	}
	if c.MaxVolumes != nil {
		rec.MaxVolumes = *c.MaxVolumes
	}
	if c.Cost != nil {
		rec.Cost = *c.Cost
	}
	if c.SetNotes {
		rec.Notes = c.NormalizedNotes()
	}
	return rec
}

// Validate checks the changes against the current record. A volume edit
// must leave current <= max. The one exception is lowering only the current
// count of a record that is already over its max.
func (c RecordChanges) Validate(current UserMediaRecord) error {
	if c.Empty() {
		return NewValidationError("changes", "no fields to update")
	}
	if c.CurrentVolumes != nil && *c.CurrentVolumes < 0 {
		return NewValidationError("current_volumes", "must not be negative")
	}
	if c.MaxVolumes != nil && *c.MaxVolumes < 0 {
		return NewValidationError("max_volumes", "must not be negative")
	}
	if c.Cost != nil {
		if err := ValidateCost(*c.Cost); err != nil {
			return err
		}
	}
	if c.CurrentVolumes == nil && c.MaxVolumes == nil {
		return nil
	}
	next := c.Apply(current)
	if next.CurrentVolumes <= next.MaxVolumes {
		return nil
	}
	if c.MaxVolumes == nil && next.CurrentVolumes < current.CurrentVolumes {
		return nil
	}
	return NewValidationError("current_volumes", "%d exceeds max volumes %d", next.CurrentVolumes, next.MaxVolumes)
}

// ValidateCost rejects negative costs and more than two decimal places.
func ValidateCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return NewValidationError("cost", "must not be negative")
	}
	if !cost.Equal(cost.Truncate(2)) {
		return NewValidationError("cost", "at most two decimal places allowed")
	}
	return nil
}

// ParseCost parses a user supplied cost such as "12" or "12.50".
func ParseCost(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewValidationError("cost", "%q is not a number", s)
	}
	if err := ValidateCost(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
