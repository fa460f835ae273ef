package syncer

import (
	"slices"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

// Plan is the set of store writes that brings the records in line with the
// catalog list. The two sides never share a series id.
type Plan struct {
	ToInsert []domain.UserMediaRecord
	ToDelete []int
}

func (p Plan) Empty() bool {
	return len(p.ToInsert) == 0 && len(p.ToDelete) == 0
}

// Diff compares the catalog list with the owner's records by series id.
// Entries without a record are inserted with default values when their
// format is tracked. Records whose series is absent from the whole list are
// deleted.
func Diff(ownerID int, entries []domain.CatalogEntry, records []domain.UserMediaRecord) Plan {
	recordIDs := make(map[int]struct{}, len(records))
	for _, r := range records {
		recordIDs[r.SeriesID] = struct{}{}
	}

	var plan Plan
	catalogIDs := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := catalogIDs[e.ID]; dup {
			continue
		}
		catalogIDs[e.ID] = struct{}{}

		if _, ok := recordIDs[e.ID]; ok || !e.Tracked() {
			continue
		}
		plan.ToInsert = append(plan.ToInsert, domain.NewRecord(ownerID, e))
	}

	for id := range recordIDs {
		if _, ok := catalogIDs[id]; !ok {
			plan.ToDelete = append(plan.ToDelete, id)
		}
	}
	slices.Sort(plan.ToDelete)

	return plan
}

// merge inner-joins entries with records. Entries without a record are
// returned separately; they are retried on the next cycle.
func merge(entries []domain.CatalogEntry, records []domain.UserMediaRecord, lang domain.TitleLanguage) (items []domain.CollectionItem, dropped []domain.CatalogEntry) {
	byID := make(map[int]domain.UserMediaRecord, len(records))
	for _, r := range records {
		byID[r.SeriesID] = r
	}

	items = make([]domain.CollectionItem, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}

		r, ok := byID[e.ID]
		if !ok {
			dropped = append(dropped, e)
			continue
		}
		items = append(items, domain.NewCollectionItem(e, r, lang))
	}
	return items, dropped
}
