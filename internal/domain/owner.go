package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// DefaultCurrencyCode is used until the owner picks a currency.
const DefaultCurrencyCode = "USD"

// OwnerRef identifies whose catalog list is read. Exactly one of UserID or
// Username is set.
type OwnerRef struct {
	UserID   int
	Username string
}

func (o OwnerRef) Validate() error {
	hasID := o.UserID > 0
	hasName := strings.TrimSpace(o.Username) != ""
	switch {
	case hasID && hasName:
		return NewValidationError("owner", "both user id and username are set")
	case !hasID && !hasName:
		return NewValidationError("owner", "user id or username is required")
	}
	return nil
}

func (o OwnerRef) String() string {
	if o.UserID > 0 {
		return fmt.Sprintf("user %d", o.UserID)
	}
	return fmt.Sprintf("user %q", o.Username)
}

// SortKey orders the catalog request.
type SortKey string

const (
	SortTitleRomaji  SortKey = "MEDIA_TITLE_ROMAJI"
	SortTitleEnglish SortKey = "MEDIA_TITLE_ENGLISH"
	SortTitleNative  SortKey = "MEDIA_TITLE_NATIVE"
)

// SortFor returns the catalog sort matching a title language, primary key first.
func SortFor(lang TitleLanguage) []SortKey {
	switch lang {
	case TitleEnglish:
		return []SortKey{SortTitleEnglish, SortTitleRomaji}
	case TitleNative:
		return []SortKey{SortTitleNative, SortTitleRomaji}
	default:
		return []SortKey{SortTitleRomaji}
	}
}

// TrackedList is the result of reading the owner's tracked catalog list.
type TrackedList struct {
	OwnerID   int
	OwnerName string
	Entries   []CatalogEntry
	// Stale is set when the entries were served from the local cache
	// because the catalog could not be reached.
	Stale bool
}

// Viewer is the authenticated catalog user.
type Viewer struct {
	ID            int
	Name          string
	TitleLanguage TitleLanguage
}

// OwnerPreferences is the per-owner settings row in the store.
type OwnerPreferences struct {
	OwnerID      int
	CurrencyCode string
}

// DefaultPreferences returns the preferences of a freshly provisioned owner.
func DefaultPreferences(ownerID int) OwnerPreferences {
	return OwnerPreferences{OwnerID: ownerID, CurrencyCode: DefaultCurrencyCode}
}

// CurrencySymbol derives the display symbol from the currency code, falling
// back to the code itself.
func (p OwnerPreferences) CurrencySymbol() string {
	unit, err := currency.ParseISO(p.CurrencyCode)
	if err != nil {
		return p.CurrencyCode
	}
	return fmt.Sprint(currency.NarrowSymbol(unit))
}

// ParseCurrencyCode validates an ISO 4217 code and returns it upper-cased.
func ParseCurrencyCode(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", NewValidationError("currency", "%q is not an ISO 4217 code", code)
	}
	return unit.String(), nil
}
