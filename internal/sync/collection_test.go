package syncer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

func item(id int, title, status string, cur, maxVolumes int) domain.CollectionItem {
	return domain.NewCollectionItem(entry(id, title, status), record(id, cur, maxVolumes), domain.TitleRomaji)
}

func titles(c Collection) []string {
	out := make([]string, len(c))
	for i, it := range c {
		out[i] = it.Title()
	}
	return out
}

func TestCollection_SortedInsertRemove(t *testing.T) {
	t.Parallel()

	c := NewCollection([]domain.CollectionItem{
		item(1, "vagabond", "", 0, 1),
		item(2, "Berserk", "", 0, 1),
		item(3, "akira", "", 0, 1),
	})
	assert.Equal(t, []string{"akira", "Berserk", "vagabond"}, titles(c))
	assert.True(t, c.Sorted())

	inserted := c.Insert(item(4, "Monster", "", 0, 1))
	assert.Equal(t, []string{"akira", "Berserk", "Monster", "vagabond"}, titles(inserted))
	assert.True(t, inserted.Sorted())
	assert.Len(t, c, 3, "insert must not modify the receiver")

	front := inserted.Insert(item(5, "20th Century Boys", "", 0, 1))
	assert.Equal(t, "20th Century Boys", front[0].Title())
	back := front.Insert(item(6, "Yotsuba&!", "", 0, 1))
	assert.Equal(t, "Yotsuba&!", back[len(back)-1].Title())
	assert.True(t, back.Sorted())

	replaced := back.Insert(item(2, "Berserk Deluxe", "", 0, 1))
	assert.Len(t, replaced, len(back))
	assert.True(t, replaced.Sorted())

	removed := replaced.Remove(3)
	assert.Equal(t, -1, removed.Index(3))
	assert.Len(t, removed, len(replaced)-1)
	assert.True(t, removed.Sorted())
	assert.Equal(t, removed, removed.Remove(12345))
}

func TestCollection_Search(t *testing.T) {
	t.Parallel()

	kaguya := domain.NewCollectionItem(domain.CatalogEntry{
		ID:     1,
		Title:  domain.Title{Romaji: "Kaguya-sama wa Kokurasetai", English: "Kaguya-sama: Love is War", Native: "かぐや様は告らせたい"},
		Format: domain.FormatManga,
	}, record(1, 0, 1), domain.TitleEnglish)
	c := NewCollection([]domain.CollectionItem{kaguya, item(2, "Blame!", "", 0, 1), item(3, "Kingdom", "", 0, 1)})

	tests := []struct {
		q    string
		want []int
	}{
		{"", []int{2, 1, 3}},
		{"LOVE", []int{1}},
		{"kokurasetai", []int{1}},
		{"告らせ", []int{1}},
		{"k", []int{1, 3}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		got := c.Search(tt.q)
		var ids []int
		for _, it := range got {
			ids = append(ids, it.SeriesID())
		}
		assert.Equal(t, tt.want, ids, "query %q", tt.q)
	}
}

func TestCollection_FuzzySearch(t *testing.T) {
	t.Parallel()

	c := NewCollection([]domain.CollectionItem{
		item(1, "One Piece", "", 0, 1),
		item(2, "One Punch-Man", "", 0, 1),
		item(3, "Oyasumi Punpun", "", 0, 1),
	})

	got := c.FuzzySearch("punpun")
	require.NotEmpty(t, got)
	assert.Equal(t, 3, got[0].SeriesID())

	assert.Empty(t, c.FuzzySearch("zzz"))
	assert.Len(t, c.FuzzySearch(" "), 3)
}

func TestCollection_Filter(t *testing.T) {
	t.Parallel()

	novel := domain.NewCollectionItem(domain.CatalogEntry{ID: 4, Title: domain.Title{Romaji: "Novel"}, Format: domain.FormatNovel, Status: domain.StatusHiatus},
		record(4, 1, 1), domain.TitleRomaji)
	c := NewCollection([]domain.CollectionItem{
		item(1, "Done", domain.StatusFinished, 5, 5),
		item(2, "Going", domain.StatusReleasing, 1, 3),
		item(3, "Soon", domain.StatusNotYetReleased, 0, 1),
		novel,
	})

	count := func(f domain.Filter) int { return len(c.Filter(f)) }
	assert.Equal(t, 4, count(domain.FilterNone))
	assert.Equal(t, 3, count(domain.FilterManga))
	assert.Equal(t, 1, count(domain.FilterNovel))
	assert.Equal(t, 1, count(domain.FilterOngoing))
	assert.Equal(t, 1, count(domain.FilterComingSoon))
	assert.Equal(t, 1, count(domain.FilterHiatus))
	assert.Equal(t, 2, count(domain.FilterComplete))
	assert.Equal(t, 2, count(domain.FilterIncomplete))
	assert.True(t, c.Filter(domain.FilterComplete).Sorted())
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	a := item(1, "A", domain.StatusFinished, 3, 10)
	a.Entry.Chapters = intPtr(120)
	a.Record.Cost = decimal.RequireFromString("10.10")
	b := item(2, "B", domain.StatusReleasing, 12, 10)
	b.Record.Cost = decimal.RequireFromString("0.20")
	c := item(3, "C", "DISCONTINUED", 1, 1)
	c.Entry.Chapters = intPtr(5)
	d := item(4, "D", "", 0, 1)

	agg := Aggregate([]domain.CollectionItem{a, b, c, d})

	assert.Equal(t, 4, agg.TotalSeries)
	assert.Equal(t, 16, agg.TotalVolumes)
	assert.Equal(t, 125, agg.TotalChapters)
	assert.Equal(t, "10.3", agg.TotalCost.String())
	assert.Equal(t, 1, agg.OverMax)
	assert.Equal(t, 1, agg.Count(domain.BucketFinished))
	assert.Equal(t, 1, agg.Count(domain.BucketOngoing))
	assert.Equal(t, 2, agg.Count(domain.BucketUnrecognized))
	assert.Equal(t, 0, agg.Count(domain.BucketHiatus))
	assert.Equal(t, []string{"", "DISCONTINUED"}, agg.Unrecognized)

	sum := 0
	for _, n := range agg.StatusCounts {
		sum += n
	}
	assert.Equal(t, agg.TotalSeries, sum)
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	agg := Aggregate(nil)
	assert.Zero(t, agg.TotalSeries)
	assert.True(t, agg.TotalCost.IsZero())
	assert.Len(t, agg.StatusCounts, len(domain.Buckets)+1)
}
