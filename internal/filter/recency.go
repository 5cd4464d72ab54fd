package filter

import (
	"sort"
	"time"

	"github.com/jonathan/report-viewer/internal/types"
)

const (
	// DefaultWindow is the trailing window of runs shown on the dashboard.
	DefaultWindow = 3 * 24 * time.Hour
	// DefaultLimit caps the number of runs shown on the dashboard.
	DefaultLimit = 3
)

// Recency restricts the working set to recent runs.
type Recency struct {
	Window time.Duration
	Limit  int
}

// DefaultRecency returns the dashboard's standard recency policy.
func DefaultRecency() Recency {
	return Recency{Window: DefaultWindow, Limit: DefaultLimit}
}

// Apply sorts entries newest first and keeps those created within the window,
// at most Limit of them. When nothing falls inside the window the Limit most
// recent entries are kept instead, so a non-empty input never yields an empty
// result. The input slice is not modified.
func (r Recency) Apply(entries []types.RunIndexEntry, now time.Time) []types.RunIndexEntry {
	if len(entries) == 0 {
		return nil
	}
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}

	sorted := make([]types.RunIndexEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	cutoff := now.Add(-r.Window)
	recent := make([]types.RunIndexEntry, 0, r.Limit)
	for _, entry := range sorted {
		if len(recent) == r.Limit {
			break
		}
		if !entry.CreatedAt.Before(cutoff) {
			recent = append(recent, entry)
		}
	}
	if len(recent) > 0 {
		return recent
	}

	return sorted[:min(r.Limit, len(sorted))]
}
