// Package filter implements the dashboard's entry selection: the three-way
// schedule/model/scenario predicate and the recency window applied before it.
package filter

import (
	"github.com/jonathan/report-viewer/internal/types"
)

// All is the wildcard selection value.
const All = "all"

// State holds the three independent filter selections.
type State struct {
	Schedule string `json:"schedule"`
	Model    string `json:"model"`
	Scenario string `json:"scenario"`
}

// NewState returns a state selecting everything.
func NewState() State {
	return State{Schedule: All, Model: All, Scenario: All}
}

// Normalize replaces empty selections with the wildcard.
func (s State) Normalize() State {
	if s.Schedule == "" {
		s.Schedule = All
	}
	if s.Model == "" {
		s.Model = All
	}
	if s.Scenario == "" {
		s.Scenario = All
	}
	return s
}

// IsAll reports whether no selection narrows the list.
func (s State) IsAll() bool {
	s = s.Normalize()
	return s.Schedule == All && s.Model == All && s.Scenario == All
}

// Matches reports whether entry passes all three selections.
func (s State) Matches(entry types.RunIndexEntry) bool {
	s = s.Normalize()
	matchesSchedule := s.Schedule == All || entry.ScheduleID == s.Schedule
	matchesModel := s.Model == All || entry.HasModel(s.Model)
	matchesScenario := s.Scenario == All || entry.HasScenario(s.Scenario)
	return matchesSchedule && matchesModel && matchesScenario
}

// Apply returns the entries matching s, in their original order.
func Apply(s State, entries []types.RunIndexEntry) []types.RunIndexEntry {
	if s.IsAll() {
		return entries
	}
	filtered := make([]types.RunIndexEntry, 0, len(entries))
	for _, entry := range entries {
		if s.Matches(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
