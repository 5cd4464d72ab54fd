package filter

import "github.com/jonathan/report-viewer/internal/types"

// Option is one selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// Options are the values offered by the three filter controls, in first-seen order.
type Options struct {
	Schedules []Option
	Models    []Option
	Scenarios []Option
}

// BuildOptions collects the distinct schedules, models and scenarios of entries.
// A schedule is labelled by the first name seen for it, falling back to its id.
func BuildOptions(entries []types.RunIndexEntry) Options {
	var opts Options
	seenSchedules := map[string]bool{}
	seenModels := map[string]bool{}
	seenScenarios := map[string]bool{}

	for _, entry := range entries {
		if entry.ScheduleID != "" && !seenSchedules[entry.ScheduleID] {
			seenSchedules[entry.ScheduleID] = true
			label := entry.ScheduleName
			if label == "" {
				label = entry.ScheduleID
			}
			opts.Schedules = append(opts.Schedules, Option{Value: entry.ScheduleID, Label: label})
		}
		for _, id := range entry.ModelIDs {
			if !seenModels[id] {
				seenModels[id] = true
				opts.Models = append(opts.Models, Option{Value: id, Label: id})
			}
		}
		for _, id := range entry.ScenarioIDs {
			if !seenScenarios[id] {
				seenScenarios[id] = true
				opts.Scenarios = append(opts.Scenarios, Option{Value: id, Label: id})
			}
		}
	}
	return opts
}

// Reconcile keeps each selection only while it is still offered; otherwise it
// falls back to All.
func (s State) Reconcile(opts Options) State {
	s = s.Normalize()
	if !offered(opts.Schedules, s.Schedule) {
		s.Schedule = All
	}
	if !offered(opts.Models, s.Model) {
		s.Model = All
	}
	if !offered(opts.Scenarios, s.Scenario) {
		s.Scenario = All
	}
	return s
}

func offered(options []Option, value string) bool {
	if value == All {
		return true
	}
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}
