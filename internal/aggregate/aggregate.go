package aggregate

import (
	"path/filepath"
	"sort"

	"radarnet/internal/model"
	"radarnet/internal/risk"
)

// Entry is one scored network document.
type Entry struct {
	Source string
	Report risk.Report
}

// AggregateReports deduplicates entries by source and sorts them.
func AggregateReports(entries []Entry) []Entry {
	unique := make(map[string]Entry)

	for _, e := range entries {
		key := dedupeKey(e)
		if _, exists := unique[key]; !exists {
			unique[key] = e
		}
	}

	result := make([]Entry, 0, len(unique))
	for _, e := range unique {
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		ei, ej := result[i], result[j]

		// Severity DESC (Critical > High ...)
		ri := ei.Report.Severity().Rank()
		rj := ej.Report.Severity().Rank()
		if ri != rj {
			return ri > rj
		}

		// Ratio DESC
		if ei.Report.Ratio() != ej.Report.Ratio() {
			return ei.Report.Ratio() > ej.Report.Ratio()
		}

		// Network name ASC
		if ei.Report.NetworkName() != ej.Report.NetworkName() {
			return ei.Report.NetworkName() < ej.Report.NetworkName()
		}

		// Source ASC
		return ei.Source < ej.Source
	})

	return result
}

func dedupeKey(e Entry) string {
	return filepath.Clean(e.Source)
}

// CountBySeverity tallies entries per severity tier.
func CountBySeverity(entries []Entry) map[model.Severity]int {
	counts := make(map[model.Severity]int, len(model.Severities))
	for _, e := range entries {
		counts[e.Report.Severity()]++
	}
	return counts
}

// Highest returns the entry with the most severe report, the first one on
// ties. ok is false when there are no entries.
func Highest(entries []Entry) (top Entry, ok bool) {
	for _, e := range entries {
		if !ok || e.Report.Severity().Rank() > top.Report.Severity().Rank() {
			top, ok = e, true
		}
	}
	return top, ok
}
