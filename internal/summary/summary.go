// Package summary renders resume impact summaries, keyword roll-ups and the
// site impact dictionary into view trees.
package summary

import (
	"github.com/jonathan/report-viewer/internal/types"
)

// NoSummary is shown when a run has neither structured insights nor raw text.
const NoSummary = "No summary available for this run."

// Mode selects how much of a summary is shown.
type Mode string

const (
	// Full shows every list, with sites and question coverage capped.
	Full Mode = "full"
	// Compact shows the first two items of each list.
	Compact Mode = "compact"
)

// ParseMode maps a query value onto a Mode, defaulting to Full.
func ParseMode(s string) Mode {
	if Mode(s) == Compact {
		return Compact
	}
	return Full
}

// Limits are per-list display budgets. Zero means no cap.
type Limits struct {
	Overall   int
	Sites     int
	Actions   int
	Questions int
}

// LimitsFor returns the display budget of a mode.
func LimitsFor(mode Mode) Limits {
	if mode == Compact {
		return Limits{Overall: 2, Sites: 2, Actions: 2, Questions: 2}
	}
	return Limits{Sites: 4, Questions: 5}
}

// Kind tells which rendering branch a View took.
type Kind int

const (
	// KindStructured renders the insight lists.
	KindStructured Kind = iota
	// KindText renders the raw summary text verbatim.
	KindText
	// KindNone renders the NoSummary placeholder.
	KindNone
)

// SiteCard is the display form of one site insight.
type SiteCard struct {
	Site        string
	Mentions    int
	AudienceFit []string
	Positioning []string
	Features    []string
	// Citation is the first citation only.
	Citation string
}

// QuestionLine is the display form of one question coverage record.
type QuestionLine struct {
	ID      string
	Prompt  string
	Covered bool
	Sites   []string
	Note    string
}

// View is the bounded projection of a summary that gets rendered.
type View struct {
	Kind      Kind
	Mode      Mode
	Overall   []string
	Sites     []SiteCard
	Actions   []string
	Questions []QuestionLine
	Text      string
}

// Build projects insights (or the raw text fallback) into a View for mode.
// prompts resolves question ids to their prompt text and may be nil.
func Build(insights *types.ImpactInsights, text string, mode Mode, prompts map[string]string) View {
	v := View{Mode: mode}
	switch {
	case !insights.IsEmpty():
		v.Kind = KindStructured
	case text != "":
		v.Kind = KindText
		v.Text = text
		return v
	default:
		v.Kind = KindNone
		return v
	}

	limits := LimitsFor(mode)
	v.Overall = head(insights.OverallInsights, limits.Overall)
	v.Actions = head(insights.ActionItems, limits.Actions)

	for _, site := range head(insights.SiteInsights, limits.Sites) {
		card := SiteCard{
			Site:        site.Site,
			Mentions:    site.Mentions,
			AudienceFit: site.AudienceFit,
			Positioning: site.Positioning,
			Features:    site.FeatureHighlights,
		}
		if len(site.Citations) > 0 {
			card.Citation = site.Citations[0]
		}
		v.Sites = append(v.Sites, card)
	}

	for _, q := range head(insights.QuestionCoverage, limits.Questions) {
		line := QuestionLine{ID: q.QuestionID, Covered: q.Covered, Sites: q.Sites, Note: q.Note}
		line.Prompt = prompts[q.QuestionID]
		if line.Prompt == "" {
			line.Prompt = q.QuestionID
		}
		v.Questions = append(v.Questions, line)
	}
	return v
}

func head[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
