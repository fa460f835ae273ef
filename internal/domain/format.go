package domain

import "strings"

// DisplayFormat is the reader facing format label derived from the catalog
// format and the country of origin.
type DisplayFormat string

const (
	DisplayManga   DisplayFormat = "Manga"
	DisplayManhwa  DisplayFormat = "Manhwa"
	DisplayManhua  DisplayFormat = "Manhua"
	DisplayManfra  DisplayFormat = "Manfra"
	DisplayComic   DisplayFormat = "Comic"
	DisplayNovel   DisplayFormat = "Novel"
	DisplayUnknown DisplayFormat = "Unknown"
)

// FormatFor derives the display format. Novels are labelled by format alone;
// everything else by country of origin.
func FormatFor(format, country string) DisplayFormat {
	if format == FormatNovel {
		return DisplayNovel
	}
	switch strings.ToUpper(country) {
	case "JP":
		return DisplayManga
	case "KR":
		return DisplayManhwa
	case "CN", "TW":
		return DisplayManhua
	case "FR":
		return DisplayManfra
	case "US", "GB", "EN":
		return DisplayComic
	default:
		return DisplayUnknown
	}
}

// StatusBucket groups catalog publication statuses for aggregates and filters.
type StatusBucket string

const (
	BucketFinished     StatusBucket = "Finished"
	BucketOngoing      StatusBucket = "Ongoing"
	BucketComingSoon   StatusBucket = "Coming Soon"
	BucketCancelled    StatusBucket = "Cancelled"
	BucketHiatus       StatusBucket = "Hiatus"
	BucketUnrecognized StatusBucket = "Unrecognized"
)

// Buckets lists the recognized buckets in display order.
var Buckets = []StatusBucket{BucketFinished, BucketOngoing, BucketCancelled, BucketHiatus, BucketComingSoon}

// BucketFor maps a raw catalog status. Unknown or empty values map to
// BucketUnrecognized and are never counted as another bucket.
func BucketFor(status string) StatusBucket {
	switch status {
	case StatusFinished:
		return BucketFinished
	case StatusReleasing:
		return BucketOngoing
	case StatusNotYetReleased:
		return BucketComingSoon
	case StatusCancelled:
		return BucketCancelled
	case StatusHiatus:
		return BucketHiatus
	default:
		return BucketUnrecognized
	}
}

// Filter narrows a collection view.
type Filter string

const (
	FilterNone       Filter = "none"
	FilterManga      Filter = "manga"
	FilterNovel      Filter = "novel"
	FilterOngoing    Filter = "ongoing"
	FilterFinished   Filter = "finished"
	FilterComingSoon Filter = "coming-soon"
	FilterCancelled  Filter = "cancelled"
	FilterHiatus     Filter = "hiatus"
	FilterComplete   Filter = "complete"
	FilterIncomplete Filter = "incomplete"
)

var filters = []Filter{
	FilterNone, FilterManga, FilterNovel, FilterOngoing, FilterFinished,
	FilterComingSoon, FilterCancelled, FilterHiatus, FilterComplete, FilterIncomplete,
}

// ParseFilter accepts the filter names case-insensitively; an empty string is FilterNone.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterNone, nil
	}
	s = strings.ReplaceAll(s, " ", "-")
	for _, f := range filters {
		if string(f) == s {
			return f, nil
		}
	}
	return FilterNone, NewValidationError("filter", "unknown filter %q", s)
}

// Match reports whether item passes the filter.
func (f Filter) Match(item CollectionItem) bool {
	switch f {
	case FilterNone, "":
		return true
	case FilterManga:
		return item.Entry.Format != FormatNovel
	case FilterNovel:
		return item.Entry.Format == FormatNovel
	case FilterOngoing:
		return item.StatusBucket() == BucketOngoing
	case FilterFinished:
		return item.StatusBucket() == BucketFinished
	case FilterComingSoon:
		return item.StatusBucket() == BucketComingSoon
	case FilterCancelled:
		return item.StatusBucket() == BucketCancelled
	case FilterHiatus:
		return item.StatusBucket() == BucketHiatus
	case FilterComplete:
		return item.Complete()
	case FilterIncomplete:
		return !item.Complete()
	default:
		return false
	}
}
