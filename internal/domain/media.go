// Package domain holds the data model shared by the catalog adapter, the
// user-data store and the reconciliation engine.
package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TrackedListName is the custom catalog list that defines the collection.
const TrackedListName = "Tsundoku"

// Catalog media formats that are tracked as physical volumes.
const (
	FormatManga   = "MANGA"
	FormatOneShot = "ONE_SHOT"
	FormatNovel   = "NOVEL"
)

// Catalog publication statuses.
const (
	StatusFinished       = "FINISHED"
	StatusReleasing      = "RELEASING"
	StatusNotYetReleased = "NOT_YET_RELEASED"
	StatusCancelled      = "CANCELLED"
	StatusHiatus         = "HIATUS"
)

// TitleLanguage selects which title variant is displayed and sorted on.
type TitleLanguage string

const (
	TitleRomaji  TitleLanguage = "ROMAJI"
	TitleEnglish TitleLanguage = "ENGLISH"
	TitleNative  TitleLanguage = "NATIVE"
)

// ParseTitleLanguage maps catalog and config spellings to a TitleLanguage.
// Unknown values fall back to romaji.
func ParseTitleLanguage(s string) TitleLanguage {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ENGLISH", "ENGLISH_STYLISED":
		return TitleEnglish
	case "NATIVE", "NATIVE_STYLISED":
		return TitleNative
	default:
		return TitleRomaji
	}
}

type Title struct {
	Romaji        string `json:"romaji"`
	English       string `json:"english"`
	Native        string `json:"native"`
	UserPreferred string `json:"userPreferred"`
}

// Display returns the title in the requested language, falling back to the
// user preferred title and then romaji when the variant is missing.
func (t Title) Display(lang TitleLanguage) string {
	var s string
	switch lang {
	case TitleEnglish:
		s = t.English
	case TitleNative:
		s = t.Native
	default:
		s = t.Romaji
	}
	if s == "" {
		s = t.UserPreferred
	}
	if s == "" {
		s = t.Romaji
	}
	return s
}

// CatalogEntry is one series on the owner's tracked catalog list.
type CatalogEntry struct {
	ID              int
	Title           Title
	CountryOfOrigin string
	Format          string
	Status          string
	Chapters        *int
	Volumes         *int
	CoverImage      string
	Notes           *string
	Membership      Membership
}

// Tracked reports whether the entry format is one the collection stores records for.
func (e CatalogEntry) Tracked() bool {
	switch e.Format {
	case FormatManga, FormatOneShot, FormatNovel:
		return true
	default:
		return false
	}
}

// DefaultMaxVolumes is the max volume count for a newly inserted record.
func (e CatalogEntry) DefaultMaxVolumes() int {
	if e.Volumes != nil && *e.Volumes > 0 {
		return *e.Volumes
	}
	return 1
}

// SeriesQuery selects one catalog series by id or by title search. Format
// narrows the lookup to FormatManga or FormatNovel; empty matches any.
type SeriesQuery struct {
	ID     int
	Search string
	Format string
}

func (q SeriesQuery) Validate() error {
	search := strings.TrimSpace(q.Search)
	switch {
	case q.ID > 0 && search != "":
		return NewValidationError("series", "give either an id or a title, not both")
	case q.ID <= 0 && search == "":
		return NewValidationError("series", "an id or a title is required")
	}
	switch q.Format {
	case "", FormatManga, FormatNovel:
		return nil
	default:
		return NewValidationError("format", "cannot look up %q series", q.Format)
	}
}

func (q SeriesQuery) String() string {
	if q.ID > 0 {
		return strconv.Itoa(q.ID)
	}
	return strconv.Quote(strings.TrimSpace(q.Search))
}

// UserMediaRecord is the owner's per-series data held in the store.
// CurrentVolumes <= MaxVolumes is enforced on edits only; stored rows may violate it.
type UserMediaRecord struct {
	OwnerID        int
	SeriesID       int
	CurrentVolumes int
	MaxVolumes     int
	Cost           decimal.Decimal
	Notes          *string
}

// NewRecord builds the default store record for a catalog entry.
func NewRecord(ownerID int, e CatalogEntry) UserMediaRecord {
	return UserMediaRecord{
		OwnerID:        ownerID,
		SeriesID:       e.ID,
		CurrentVolumes: 0,
		MaxVolumes:     e.DefaultMaxVolumes(),
		Cost:           decimal.Zero,
	}
}

// VolumeUpdate is one row of a batched volume flush.
type VolumeUpdate struct {
	OwnerID        int
	SeriesID       int
	CurrentVolumes int
}

// CollectionItem joins a catalog entry with its store record.
type CollectionItem struct {
	Entry  CatalogEntry
	Record UserMediaRecord
	title  string
}

// NewCollectionItem joins entry and record, caching the display title for lang.
func NewCollectionItem(e CatalogEntry, r UserMediaRecord, lang TitleLanguage) CollectionItem {
	return CollectionItem{Entry: e, Record: r, title: e.Title.Display(lang)}
}

func (i CollectionItem) SeriesID() int { return i.Entry.ID }

// Title returns the display title chosen when the item was built.
func (i CollectionItem) Title() string {
	if i.title == "" {
		return i.Entry.Title.Display(TitleRomaji)
	}
	return i.title
}

// SortKey is the case-insensitive key of the canonical collection order.
func (i CollectionItem) SortKey() string { return strings.ToLower(i.Title()) }

// OverMax reports a stored record whose current volumes exceed its max.
func (i CollectionItem) OverMax() bool {
	return i.Record.CurrentVolumes > i.Record.MaxVolumes
}

// Complete reports an item whose owned volumes reached the known max.
func (i CollectionItem) Complete() bool {
	return i.Record.MaxVolumes > 0 && i.Record.CurrentVolumes >= i.Record.MaxVolumes
}

func (i CollectionItem) DisplayFormat() DisplayFormat {
	return FormatFor(i.Entry.Format, i.Entry.CountryOfOrigin)
}

func (i CollectionItem) StatusBucket() StatusBucket {
	return BucketFor(i.Entry.Status)
}
