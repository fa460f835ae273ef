package syncer

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

// Collection is a list of items sorted by display title, case-insensitive.
// Methods never modify the receiver; they return new slices.
type Collection []domain.CollectionItem

func compareItems(a, b domain.CollectionItem) int {
	return strings.Compare(a.SortKey(), b.SortKey())
}

// NewCollection returns a sorted copy of items.
func NewCollection(items []domain.CollectionItem) Collection {
	c := Collection(slices.Clone(items))
	slices.SortStableFunc(c, compareItems)
	return c
}

// Sorted reports whether c is in canonical order.
func (c Collection) Sorted() bool {
	return slices.IsSortedFunc(c, compareItems)
}

// Index returns the position of seriesID or -1.
func (c Collection) Index(seriesID int) int {
	return slices.IndexFunc(c, func(it domain.CollectionItem) bool {
		return it.SeriesID() == seriesID
	})
}

// Get returns the item for seriesID.
func (c Collection) Get(seriesID int) (domain.CollectionItem, bool) {
	i := c.Index(seriesID)
	if i < 0 {
		return domain.CollectionItem{}, false
	}
	return c[i], true
}

// Insert places item at its binary-searched position. An item with the same
// series id is replaced.
func (c Collection) Insert(item domain.CollectionItem) Collection {
	out := c.Remove(item.SeriesID())
	pos, _ := slices.BinarySearchFunc(out, item, compareItems)
	return slices.Insert(out, pos, item)
}

// Remove drops the item for seriesID.
func (c Collection) Remove(seriesID int) Collection {
	out := slices.Clone(c)
	if i := out.Index(seriesID); i >= 0 {
		out = slices.Delete(out, i, i+1)
	}
	return out
}

// Replace swaps the item with the same series id in place.
func (c Collection) Replace(item domain.CollectionItem) Collection {
	out := slices.Clone(c)
	if i := out.Index(item.SeriesID()); i >= 0 {
		out[i] = item
	}
	return out
}

// Search keeps items whose title in any language contains q, ignoring case.
func (c Collection) Search(q string) Collection {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return slices.Clone(c)
	}

	out := Collection{}
	for _, it := range c {
		if titleContains(it, q) {
			out = append(out, it)
		}
	}
	return out
}

func titleContains(it domain.CollectionItem, q string) bool {
	t := it.Entry.Title
	for _, s := range []string{it.Title(), t.Romaji, t.English, t.Native, t.UserPreferred} {
		if s != "" && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// titleSource implements fuzzy.Source over lowercase display titles.
type titleSource []string

func (s titleSource) String(i int) string { return s[i] }

func (s titleSource) Len() int { return len(s) }

// FuzzySearch returns items whose display title fuzzy-matches q, best match
// first. The result is ranked, not title-sorted.
func (c Collection) FuzzySearch(q string) Collection {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return slices.Clone(c)
	}

	titles := make(titleSource, len(c))
	for i, it := range c {
		titles[i] = it.SortKey()
	}

	matches := fuzzy.FindFrom(q, titles)
	out := make(Collection, 0, len(matches))
	for _, m := range matches {
		out = append(out, c[m.Index])
	}
	return out
}

// Filter keeps items matching f. FilterNone keeps everything.
func (c Collection) Filter(f domain.Filter) Collection {
	if f == domain.FilterNone || f == "" {
		return slices.Clone(c)
	}

	out := Collection{}
	for _, it := range c {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
