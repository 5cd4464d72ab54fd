package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/report-viewer/internal/filter"
	"github.com/jonathan/report-viewer/internal/summary"
	"github.com/jonathan/report-viewer/internal/types"
	"github.com/jonathan/report-viewer/internal/view"
)

// Page titles.
const (
	DashboardTitle = "Evaluation runs"
	GeoTitle       = "GEO report"
)

// Inline failure messages.
const (
	DetailFailed = "Failed to load run details."
	SitesFailed  = "Failed to load site impact."
)

// RenderDashboard builds the dashboard body: filters, the run list and the site
// impact section.
func RenderDashboard(data DashboardData, links view.Links) []*view.Node {
	snap := data.Snapshot

	var body []*view.Node
	if links.Interactive {
		body = append(body, filterForm(snap, links))
	}
	body = append(body,
		view.El("p", view.Class("meta"), view.Attr("id", "run-meta"), view.T(listMeta(snap))),
		runList(data, links),
		view.El("section", view.Attr("id", "site-impact"),
			view.N(view.El("h2", view.T("Site impact"))),
			view.N(siteImpact(data)),
		),
	)
	return body
}

func listMeta(snap Snapshot) string {
	parts := []string{fmt.Sprintf("Showing %d of %d runs", len(snap.Visible), snap.Total)}
	if !snap.RefreshedAt.IsZero() {
		parts = append(parts, "Loaded "+view.RelativeTime(snap.RefreshedAt, snap.Now))
	}
	return strings.Join(parts, " · ")
}

func runList(data DashboardData, links view.Links) *view.Node {
	container := view.Div(view.Attr("id", "log-container"))
	if status := data.Snapshot.Status(); status != "" {
		container.AppendChild(view.Empty(status))
		return container
	}
	for _, card := range data.Cards {
		container.AppendChild(runCard(card, data, links))
	}
	return container
}

func runCard(card Card, data DashboardData, links view.Links) *view.Node {
	entry := card.Entry
	title := view.Text(entry.Title())
	if card.Key != "" {
		title = view.El("a", view.Href(links.Run(card.Key)), view.T(entry.Title()))
	}

	return view.El("article", view.Class("log-card"),
		view.N(view.El("h2", view.N(title))),
		view.N(view.El("p", view.Class("meta"), view.T(entryMeta(entry, data.Snapshot.Now)))),
		view.If(entry.ScheduleID != "", view.N(view.Span(view.Class("badge"), view.T(entry.ScheduleID)))),
		view.N(entryFacts(entry, data.DocHref)),
		view.N(compactSummary(card, data.Prompts)),
	)
}

func entryMeta(entry types.RunIndexEntry, now time.Time) string {
	created := view.FormatTime(entry.CreatedAt)
	if !entry.CreatedAt.IsZero() {
		created += " (" + view.RelativeTime(entry.CreatedAt, now) + ")"
	}
	source := entry.Source
	if source == "" {
		source = "—"
	}
	return strings.Join([]string{
		"Created: " + created,
		"Source: " + source,
		"Runs: " + strconv.Itoa(entry.RunCount),
	}, " · ")
}

func entryFacts(entry types.RunIndexEntry, docHref func(string) string) *view.Node {
	return view.El("ul", view.Class("facts"),
		view.N(view.Li(view.T("Models: "+joinOrDash(entry.ModelIDs)))),
		view.N(view.Li(view.T("Scenarios: "+joinOrDash(entry.ScenarioIDs)))),
		view.N(documentLink("JSON", entry.JSONPath, docHref)),
		view.N(documentLink("CSV", entry.CSVPath, docHref)),
	)
}

func documentLink(label, path string, docHref func(string) string) *view.Node {
	if path == "" {
		return view.Li(view.T(label + ": —"))
	}
	href := path
	if docHref != nil {
		href = docHref(path)
	}
	return view.Li(view.T(label+": "), view.N(view.ExternalLink(href, path)))
}

func compactSummary(card Card, prompts map[string]string) *view.Node {
	if card.Err != nil {
		return view.Empty(DetailFailed)
	}
	agg := card.Aggregate
	return view.Div(view.Class("compact-summary"),
		view.N(summary.KeywordPanel(agg, summary.Compact)),
		view.N(summary.Render(summary.Build(agg.Insights, agg.SummaryText, summary.Compact, prompts))),
	)
}

func siteImpact(data DashboardData) *view.Node {
	if data.SitesErr != nil {
		return view.Empty(SitesFailed)
	}
	return summary.SiteImpactSection(data.Sites, data.Prompts)
}

func filterForm(snap Snapshot, links view.Links) *view.Node {
	return view.Div(view.Class("filters"),
		view.N(view.El("form", view.Attr("method", "post"), view.Attr("action", links.Home+"filter"),
			view.N(selectField("schedule", "Schedule", snap.Options.Schedules, snap.Filter.Schedule)),
			view.N(selectField("model", "Model", snap.Options.Models, snap.Filter.Model)),
			view.N(selectField("scenario", "Scenario", snap.Options.Scenarios, snap.Filter.Scenario)),
			view.N(view.El("button", view.Attr("type", "submit"), view.T("Apply"))),
		)),
		view.N(view.El("form", view.Attr("method", "post"), view.Attr("action", links.Home+"refresh"),
			view.N(view.El("button", view.Attr("type", "submit"), view.Attr("id", "refresh-btn"), view.T("Refresh"))),
		)),
	)
}

func selectField(name, label string, options []filter.Option, selected string) *view.Node {
	sel := view.El("select", view.Attr("name", name), view.Attr("id", name+"-filter"),
		view.N(option(filter.All, "All", selected == filter.All)))
	for _, o := range options {
		sel.AppendChild(option(o.Value, o.Label, o.Value == selected))
	}
	return view.El("label", view.T(label+" "), view.N(sel))
}

func option(value, label string, selected bool) *view.Node {
	return view.El("option", view.Attr("value", value), view.If(selected, view.Attr("selected", "")), view.T(label))
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "—"
	}
	return strings.Join(items, ", ")
}

// RenderRun builds the body of a run detail page.
func RenderRun(data RunData, links view.Links) []*view.Node {
	entry := data.Entry
	body := []*view.Node{
		view.El("p", view.Class("meta"), view.T(entryMeta(entry, data.Now))),
	}
	if links.Interactive {
		body = append(body, modeSwitch(data, links))
	}
	body = append(body, entryFacts(entry, data.DocHref))

	if data.Err != nil {
		return append(body, view.Empty(DetailFailed))
	}
	agg := data.Aggregate
	return append(body,
		view.El("section", view.Attr("id", "keywords"),
			view.N(view.El("h2", view.T("Keyword coverage"))),
			view.N(summary.KeywordPanel(agg, data.Mode)),
		),
		view.El("section", view.Attr("id", "summary"),
			view.N(view.El("h2", view.T("Resume impact"))),
			view.N(summary.Render(summary.Build(agg.Insights, agg.SummaryText, data.Mode, data.Prompts))),
		),
	)
}

// RunTitle is the page title of a run detail page.
func RunTitle(entry types.RunIndexEntry) string {
	return "Run " + entry.Title()
}

func modeSwitch(data RunData, links view.Links) *view.Node {
	link := func(mode summary.Mode, label string) *view.Node {
		if data.Mode == mode {
			return view.Span(view.Class("badge"), view.T(label))
		}
		return view.El("a", view.Href(links.Run(data.Key)+"?mode="+string(mode)), view.T(label))
	}
	return view.El("p", view.Class("mode-switch"),
		view.N(link(summary.Full, "Full")),
		view.T(" · "),
		view.N(link(summary.Compact, "Compact")),
	)
}
