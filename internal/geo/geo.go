// Package geo renders the GEO report: per-scenario extraction results and the
// prioritized list of cited sources.
package geo

import (
	"sort"

	"github.com/jonathan/report-viewer/internal/types"
)

const (
	// SourceLimit caps the rows of the source table.
	SourceLimit = 50
	// NoteLimit caps source notes, in characters.
	NoteLimit = 120
	// DomainLimit caps the domains shown per scenario.
	DomainLimit = 6
	// StatusSuccess is the only status rendered as a success.
	StatusSuccess = "success"
)

var priorityRank = map[string]int{"A": 0, "B": 1, "C": 2}

// unknownPriority sorts after every known priority.
const unknownPriority = 9

// PriorityRank orders priorities A < B < C < anything else.
func PriorityRank(priority string) int {
	if rank, ok := priorityRank[priority]; ok {
		return rank
	}
	return unknownPriority
}

// SortSources orders sources by priority, then by count descending. The sort is
// stable and the input is not modified.
func SortSources(sources []types.GeoSource) []types.GeoSource {
	sorted := make([]types.GeoSource, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := PriorityRank(sorted[i].Priority), PriorityRank(sorted[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

// TopSources returns the first n sources in priority order.
func TopSources(sources []types.GeoSource, n int) []types.GeoSource {
	sorted := SortSources(sources)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Succeeded collapses a status string to success or failure.
func Succeeded(status string) bool {
	return status == StatusSuccess
}

// CollectDomains returns the distinct extracted domains of steps in first-seen order.
func CollectDomains(steps []types.GeoStep) []string {
	seen := map[string]bool{}
	var domains []string
	for _, step := range steps {
		for _, domain := range step.ExtractedDomains {
			if !seen[domain] {
				seen[domain] = true
				domains = append(domains, domain)
			}
		}
	}
	return domains
}
