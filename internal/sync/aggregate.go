package syncer

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

// Aggregates are the summary figures of one collection.
type Aggregates struct {
	TotalSeries   int
	TotalVolumes  int
	TotalChapters int
	TotalCost     decimal.Decimal
	StatusCounts  map[domain.StatusBucket]int
	// OverMax counts records whose current volumes exceed their max.
	OverMax int
	// Unrecognized lists the distinct raw statuses counted as unrecognized.
	Unrecognized []string
}

// Count returns the number of series in bucket.
func (a Aggregates) Count(bucket domain.StatusBucket) int {
	return a.StatusCounts[bucket]
}

// Aggregate sums items. Chapters are counted only where the catalog knows them.
func Aggregate(items []domain.CollectionItem) Aggregates {
	agg := Aggregates{
		TotalCost:    decimal.Zero,
		StatusCounts: make(map[domain.StatusBucket]int, len(domain.Buckets)),
	}
	for _, b := range domain.Buckets {
		agg.StatusCounts[b] = 0
	}
	agg.StatusCounts[domain.BucketUnrecognized] = 0

	for _, it := range items {
		agg.TotalSeries++
		agg.TotalVolumes += it.Record.CurrentVolumes
		if it.Entry.Chapters != nil {
			agg.TotalChapters += *it.Entry.Chapters
		}
		agg.TotalCost = agg.TotalCost.Add(it.Record.Cost)
		if it.OverMax() {
			agg.OverMax++
		}

		bucket := it.StatusBucket()
		agg.StatusCounts[bucket]++
		if bucket == domain.BucketUnrecognized && !slices.Contains(agg.Unrecognized, it.Entry.Status) {
			agg.Unrecognized = append(agg.Unrecognized, it.Entry.Status)
		}
	}
	slices.Sort(agg.Unrecognized)

	return agg
}
