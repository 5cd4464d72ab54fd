package summary

import (
	"fmt"
	"strings"

	"github.com/jonathan/report-viewer/internal/view"
)

// Render turns a View into a node.
func Render(v View) *view.Node {
	switch v.Kind {
	case KindText:
		return view.Div(view.Class("summary", "summary-text"), view.N(view.El("p", view.Class("preview"), view.T(v.Text))))
	case KindNone:
		return view.Div(view.Class("summary"), view.N(view.Empty(NoSummary)))
	}

	return view.Div(view.Class("summary", "summary-"+string(v.Mode)),
		view.If(len(v.Overall) > 0, view.Parts(
			view.N(view.El("h3", view.T("Overall insights"))),
			view.N(view.El("ul", view.Map(v.Overall, func(s string) *view.Node {
				return view.Li(view.Class("insight"), view.T(s))
			}))),
		)),
		view.If(len(v.Sites) > 0, view.Parts(
			view.N(view.El("h3", view.T("Site insights"))),
			view.N(view.Div(view.Class("site-grid"), view.Map(v.Sites, siteCard))),
		)),
		view.If(len(v.Actions) > 0, view.Parts(
			view.N(view.El("h3", view.T("Action items"))),
			view.N(view.El("ul", view.Map(v.Actions, func(s string) *view.Node {
				return view.Li(view.Class("action"), view.T(s))
			}))),
		)),
		view.If(len(v.Questions) > 0, view.Parts(
			view.N(view.El("h3", view.T("Question coverage"))),
			view.N(view.El("ul", view.Map(v.Questions, questionLine))),
		)),
	)
}

func siteCard(card SiteCard) *view.Node {
	return view.Div(view.Class("site-card"),
		view.N(view.El("h4", view.T(card.Site))),
		view.N(view.El("p", view.Class("meta"), view.T(fmt.Sprintf("Mentions: %d", card.Mentions)))),
		view.N(labelledList("Audience fit", card.AudienceFit)),
		view.N(labelledList("Positioning", card.Positioning)),
		view.N(labelledList("Feature highlights", card.Features)),
		view.If(card.Citation != "", view.N(view.El("p", view.Class("citation"),
			view.T("Source: "), view.N(view.ExternalLink(card.Citation, card.Citation))))),
	)
}

func labelledList(label string, items []string) *view.Node {
	if len(items) == 0 {
		return nil
	}
	return view.El("p", view.N(view.El("strong", view.T(label+": "))), view.T(strings.Join(items, ", ")))
}

func questionLine(q QuestionLine) *view.Node {
	status, class := "not covered", "badge badge-failed"
	if q.Covered {
		status, class = "covered", "badge badge-success"
	}
	return view.Li(view.Class("question"),
		view.N(view.Span(view.Attr("class", class), view.T(status))),
		view.T(" "+q.Prompt),
		view.If(len(q.Sites) > 0, view.N(view.Muted(" · "+strings.Join(q.Sites, ", ")))),
		view.If(q.Note != "", view.N(view.Muted(" · "+q.Note))),
	)
}
