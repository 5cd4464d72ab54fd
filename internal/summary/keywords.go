package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/report-viewer/internal/keywords"
	"github.com/jonathan/report-viewer/internal/view"
)

// KeywordPanel renders the keyword totals of a run. In compact mode the
// per-step table is left out.
func KeywordPanel(agg keywords.Aggregate, mode Mode) *view.Node {
	return view.Div(view.Class("panel", "keywords"),
		view.N(view.Div(view.Class("stats"),
			view.N(stat("Expected", strconv.Itoa(agg.Expected))),
			view.N(stat("Hits", strconv.Itoa(agg.Hits))),
			view.N(stat("Missed", strconv.Itoa(agg.Missed))),
			view.N(stat("Hit rate", keywords.FormatHitRate(agg))),
		)),
		view.If(agg.Target != "", view.N(targetLine(agg))),
		view.If(mode != Compact && len(agg.Items) > 0, view.N(stepTable(agg.Items))),
	)
}

func stat(label, value string) *view.Node {
	return view.Div(view.Class("stat"),
		view.N(view.El("strong", view.Class("stat-value"), view.T(value))),
		view.N(view.Muted(label)),
	)
}

func targetLine(agg keywords.Aggregate) *view.Node {
	answer, class := "no", "badge badge-failed"
	if agg.MentionsTarget {
		answer, class = "yes", "badge badge-success"
	}
	return view.El("p", view.Class("target"),
		view.T(fmt.Sprintf("Mentions %q: ", agg.Target)),
		view.N(view.Span(view.Attr("class", class), view.T(answer))),
	)
}

func stepTable(items []keywords.Item) *view.Node {
	header := view.El("tr", view.Map([]string{"Model", "Scenario", "Step", "Expected", "Hits", "Missed keywords"},
		func(s string) *view.Node { return view.El("th", view.T(s)) }))

	return view.El("table", view.Class("step-table"),
		view.N(view.El("thead", view.N(header))),
		view.N(view.El("tbody", view.Map(items, func(item keywords.Item) *view.Node {
			missed := "—"
			if item.Summary != nil && len(item.Summary.Missed) > 0 {
				missed = strings.Join(item.Summary.Missed, ", ")
			}
			return view.El("tr",
				view.N(view.El("td", view.T(item.Adapter))),
				view.N(view.El("td", view.T(item.Scenario))),
				view.N(view.El("td", view.T(item.StepID))),
				view.N(view.El("td", view.T(strconv.Itoa(item.Expected())))),
				view.N(view.El("td", view.T(strconv.Itoa(item.Hits())))),
				view.N(view.El("td", view.Class("muted"), view.T(missed))),
			)
		}))),
	)
}
