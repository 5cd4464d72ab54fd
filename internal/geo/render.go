package geo

import (
	"fmt"
	"strconv"

	"github.com/jonathan/report-viewer/internal/types"
	"github.com/jonathan/report-viewer/internal/view"
)

// Placeholders shown when the report cannot be loaded or is empty.
const (
	MetaFailed       = "Failed to load the GEO report. Please try again later."
	ScenariosFailed  = "Unable to load scenario results."
	SourcesFailed    = "Unable to load the source list."
	NoScenarios      = "No GEO results yet."
	NoSources        = "No sources recorded."
	unknownCreatedAt = "unknown"
)

// Sections are the three regions of the GEO page.
type Sections struct {
	Meta      *view.Node
	Scenarios *view.Node
	Sources   *view.Node
}

// Nodes returns the regions in page order.
func (s Sections) Nodes() []*view.Node {
	return []*view.Node{s.Meta, s.Scenarios, s.Sources}
}

// Render builds the GEO page regions for report.
func Render(report *types.GeoReport) Sections {
	return Sections{
		Meta:      Meta(report),
		Scenarios: ScenarioTable(report.Scenarios),
		Sources:   SourceTable(report.Sources),
	}
}

// Failed builds the GEO page regions for a report that could not be loaded.
func Failed() Sections {
	return Sections{
		Meta:      view.El("p", view.Class("meta"), view.Attr("id", "geo-meta"), view.T(MetaFailed)),
		Scenarios: view.Div(view.Attr("id", "geo-scenarios"), view.N(view.Empty(ScenariosFailed))),
		Sources:   view.Div(view.Attr("id", "geo-sources"), view.N(view.Empty(SourcesFailed))),
	}
}

// Meta renders the run line of the report.
func Meta(report *types.GeoReport) *view.Node {
	createdAt := unknownCreatedAt
	if !report.CreatedAt.IsZero() {
		createdAt = view.FormatTime(report.CreatedAt)
	}
	runID := report.RunID
	if runID == "" {
		runID = "-"
	}
	return view.El("p", view.Class("meta"), view.Attr("id", "geo-meta"),
		view.T(fmt.Sprintf("Latest run: %s · Run ID: %s", createdAt, runID)))
}

// ScenarioTable renders one row per scenario/adapter execution.
func ScenarioTable(scenarios []types.GeoScenario) *view.Node {
	if len(scenarios) == 0 {
		return view.Div(view.Attr("id", "geo-scenarios"), view.N(view.Empty(NoScenarios)))
	}

	return view.Div(view.Attr("id", "geo-scenarios"), view.N(view.El("table", view.Class("geo-table"),
		view.N(headerRow("Scenario", "Model", "Status", "Extracted domains", "Steps")),
		view.N(view.El("tbody", view.Map(scenarios, scenarioRow))),
	)))
}

func scenarioRow(s types.GeoScenario) *view.Node {
	return view.El("tr",
		view.N(view.El("td",
			view.N(view.Div(view.N(view.El("strong", view.T(s.ScenarioLabel()))))),
			view.N(view.Div(view.Class("muted"), view.T(s.ScenarioID))),
		)),
		view.N(view.El("td",
			view.N(view.Div(view.T(s.AdapterLabel()))),
			view.N(view.Div(view.Class("muted"), view.T(s.AdapterID))),
		)),
		view.N(view.El("td", view.N(StatusBadge(s.Status)))),
		view.N(view.El("td", view.N(domainList(CollectDomains(s.Steps))))),
		view.N(view.El("td", view.N(stepStack(s.Steps)))),
	)
}

// StatusBadge renders a binary success/failure badge.
func StatusBadge(status string) *view.Node {
	if Succeeded(status) {
		return view.Span(view.Class("badge", "badge-success"), view.T("Success"))
	}
	return view.Span(view.Class("badge", "badge-failed"), view.T("Failed"))
}

func domainList(domains []string) *view.Node {
	if len(domains) == 0 {
		return view.Muted("—")
	}
	if len(domains) > DomainLimit {
		domains = domains[:DomainLimit]
	}
	return view.Div(view.Class("domain-list"), view.Map(domains, func(d string) *view.Node {
		return view.Span(view.Class("domain-pill"), view.T(d))
	}))
}

func stepStack(steps []types.GeoStep) *view.Node {
	if len(steps) == 0 {
		return view.Muted("—")
	}
	return view.Div(view.Class("step-stack"), view.Map(steps, func(step types.GeoStep) *view.Node {
		badge := "badge-failed"
		if Succeeded(step.Status) {
			badge = "badge-success"
		}
		return view.Div(
			view.N(view.Span(view.Class("badge", badge), view.T(step.StepID))),
			view.If(step.Preview != "", view.N(view.Div(view.Class("preview"), view.T(step.Preview)))),
		)
	}))
}

// SourceTable renders the top sources in priority order.
func SourceTable(sources []types.GeoSource) *view.Node {
	if len(sources) == 0 {
		return view.Div(view.Attr("id", "geo-sources"), view.N(view.Empty(NoSources)))
	}

	return view.Div(view.Attr("id", "geo-sources"), view.N(view.El("table", view.Class("geo-table"),
		view.N(headerRow("Priority", "Domain", "Link", "Count", "Notes")),
		view.N(view.El("tbody", view.Map(TopSources(sources, SourceLimit), sourceRow))),
	)))
}

func sourceRow(s types.GeoSource) *view.Node {
	priority := s.Priority
	if priority == "" {
		priority = "-"
	}
	note := view.Truncate(s.Notes, NoteLimit)
	if note == "" {
		note = "-"
	}
	return view.El("tr",
		view.N(view.El("td", view.T(priority))),
		view.N(view.El("td", view.T(s.Domain))),
		view.N(view.El("td", view.N(view.ExternalLink(s.URL, s.URL)))),
		view.N(view.El("td", view.T(strconv.Itoa(int(s.Count))))),
		view.N(view.El("td", view.Class("muted"), view.T(note))),
	)
}

func headerRow(labels ...string) *view.Node {
	return view.El("thead", view.N(view.El("tr", view.Map(labels, func(l string) *view.Node {
		return view.El("th", view.T(l))
	}))))
}
