// Package types provides type definitions for the report documents read by the viewer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// RunIndex is the top-level manifest listing completed evaluation runs.
type RunIndex struct {
	Entries []RunIndexEntry `json:"entries"`
}

// RunIndexEntry describes one completed run and where its detail documents live.
type RunIndexEntry struct {
	ID           string    `json:"id"`
	ScheduleID   string    `json:"scheduleId,omitempty"`
	ScheduleName string    `json:"scheduleName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Source       string    `json:"source,omitempty"`
	RunCount     int       `json:"runCount"`
	ModelIDs     []string  `json:"modelIds,omitempty"`
	ScenarioIDs  []string  `json:"scenarioIds,omitempty"`
	JSONPath     string    `json:"jsonPath,omitempty"`
	CSVPath      string    `json:"csvPath,omitempty"`
}

// Title returns the schedule name, falling back to the entry id.
func (e RunIndexEntry) Title() string {
	if e.ScheduleName != "" {
		return e.ScheduleName
	}
	return e.ID
}

// HasModel reports whether the entry ran the given model.
func (e RunIndexEntry) HasModel(id string) bool {
	return contains(e.ModelIDs, id)
}

// HasScenario reports whether the entry covered the given scenario.
func (e RunIndexEntry) HasScenario(id string) bool {
	return contains(e.ScenarioIDs, id)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
