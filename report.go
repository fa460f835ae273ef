package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	syncer "github.com/bigspawn/tsundoku-sync/internal/sync"
)

// printSummary writes the aggregate block for snap.
func printSummary(w io.Writer, snap syncer.Snapshot) {
	agg := snap.Aggregates
	symbol := snap.Preferences.CurrencySymbol()

	_, _ = fmt.Fprintf(w, "\n%s's %s list", snap.OwnerName, domain.TrackedListName)
	if snap.Stale {
		_, _ = fmt.Fprint(w, " (cached, AniList unreachable)")
	}
	_, _ = fmt.Fprintln(w)

	if snap.ListMissing {
		_, _ = fmt.Fprintf(w, "No %q custom list on AniList. Run init-list to create it.\n", domain.TrackedListName)
		return
	}

	_, _ = fmt.Fprintf(w, "  Series:   %d\n", agg.TotalSeries)
	_, _ = fmt.Fprintf(w, "  Volumes:  %d\n", agg.TotalVolumes)
	_, _ = fmt.Fprintf(w, "  Chapters: %d\n", agg.TotalChapters)
	_, _ = fmt.Fprintf(w, "  Cost:     %s%s\n", symbol, agg.TotalCost.StringFixed(2))

	counts := make([]string, 0, len(domain.Buckets)+1)
	for _, b := range domain.Buckets {
		counts = append(counts, fmt.Sprintf("%s %d", b, agg.Count(b)))
	}
	if n := agg.Count(domain.BucketUnrecognized); n > 0 {
		counts = append(counts, fmt.Sprintf("%s %d (%s)", domain.BucketUnrecognized, n, strings.Join(agg.Unrecognized, ", ")))
	}
	_, _ = fmt.Fprintf(w, "  Status:   %s\n", strings.Join(counts, ", "))

	if agg.OverMax > 0 {
		_, _ = fmt.Fprintf(w, "  Warning:  %d series own more volumes than their max\n", agg.OverMax)
	}
}

// printCollection writes one row per item in the given order.
func printCollection(w io.Writer, items syncer.Collection, prefs domain.OwnerPreferences) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No series.")
		return err
	}

	symbol := prefs.CurrencySymbol()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tFORMAT\tSTATUS\tVOLUMES\tCOST\tNOTES")
	for _, it := range items {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s%s\t%s\n",
			it.SeriesID(),
			it.Title(),
			it.DisplayFormat(),
			it.StatusBucket(),
			volumes(it),
			symbol, it.Record.Cost.StringFixed(2),
			notes(it.Record.Notes),
		)
	}
	return tw.Flush()
}

func volumes(it domain.CollectionItem) string {
	v := fmt.Sprintf("%d/%d", it.Record.CurrentVolumes, it.Record.MaxVolumes)
	switch {
	case it.OverMax():
		return v + " !"
	case it.Complete():
		return v + " ✓"
	}
	return v
}

func notes(n *string) string {
	if n == nil {
		return ""
	}
	s := strings.ReplaceAll(*n, "\n", " ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return s
}

// printItem writes a short single-line confirmation for an edited item.
func printItem(w io.Writer, it domain.CollectionItem, prefs domain.OwnerPreferences) {
	_, _ = fmt.Fprintf(w, "%d  %s  %s  %s%s\n",
		it.SeriesID(), it.Title(), volumes(it), prefs.CurrencySymbol(), it.Record.Cost.StringFixed(2))
}
