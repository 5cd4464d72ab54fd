// Package keywords aggregates keyword-hit summaries across the steps of a run.
package keywords

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/report-viewer/internal/types"
)

// UnknownRate is displayed when a hit rate cannot be computed.
const UnknownRate = "—"

// Item is one step of a run with its keyword summary.
type Item struct {
	Adapter  string
	Scenario string
	StepID   string
	Status   string
	// Summary is nil when the step carried no keyword summary.
	Summary *types.KeywordSummary
}

// Expected returns the number of expected keywords of the step.
func (i Item) Expected() int {
	if i.Summary == nil {
		return 0
	}
	return len(i.Summary.Expected)
}

// Hits returns the number of hit keywords of the step.
func (i Item) Hits() int {
	if i.Summary == nil {
		return 0
	}
	return len(i.Summary.Hits)
}

// Missed returns the number of missed keywords of the step.
func (i Item) Missed() int {
	if i.Summary == nil {
		return 0
	}
	return len(i.Summary.Missed)
}

// Aggregate is the run-level keyword roll-up.
type Aggregate struct {
	Items    []Item
	Expected int
	Hits     int
	Missed   int

	// Target is the substring searched for; MentionsTarget reports whether any
	// hit, or failing that any response text, contains it.
	Target         string
	MentionsTarget bool

	// Insights and SummaryText come from the last step carrying a resume
	// impact summary of the corresponding form.
	Insights    *types.ImpactInsights
	SummaryText string
}

// HitRate returns hits/expected. ok is false when nothing was expected.
func (a Aggregate) HitRate() (rate float64, ok bool) {
	if a.Expected <= 0 {
		return 0, false
	}
	return float64(a.Hits) / float64(a.Expected), true
}

// FormatHitRate renders the hit rate as a percentage, or UnknownRate.
func FormatHitRate(a Aggregate) string {
	rate, ok := a.HitRate()
	if !ok {
		return UnknownRate
	}
	return fmt.Sprintf("%.0f%%", rate*100)
}

// Compute flattens detail into step items and sums their keyword counts verbatim.
// Producer invariants (hits within expected) are not checked.
func Compute(detail *types.RunDetail, target string) Aggregate {
	agg := Aggregate{Target: target}
	if detail == nil {
		return agg
	}

	for _, run := range detail.Runs {
		for _, step := range run.Result.Steps {
			item := Item{
				Adapter:  run.AdapterLabel(),
				Scenario: run.ScenarioLabel(),
				StepID:   step.StepID,
				Status:   step.Status,
				Summary:  step.Metadata.KeywordSummary,
			}
			agg.Items = append(agg.Items, item)
			agg.Expected += item.Expected()
			agg.Hits += item.Hits()
			agg.Missed += item.Missed()

			if impact := step.Metadata.ResumeImpactSummary; impact != nil {
				if !impact.Structured.IsEmpty() {
					agg.Insights = impact.Structured
				}
				if impact.Text != "" {
					agg.SummaryText = impact.Text
				}
			}
		}
	}

	agg.MentionsTarget = mentions(detail, agg.Items, target)
	return agg
}

func mentions(detail *types.RunDetail, items []Item, target string) bool {
	if target == "" {
		return false
	}
	for _, item := range items {
		if item.Summary == nil {
			continue
		}
		for _, hit := range item.Summary.Hits {
			if strings.Contains(hit, target) {
				return true
			}
		}
	}
	// Keyword extraction can miss the target inside a longer phrase, so fall back
	// to the raw responses.
	for _, run := range detail.Runs {
		for _, step := range run.Result.Steps {
			if responseMentions(step.ResponseText, target) {
				return true
			}
		}
	}
	return false
}

// responseMentions checks the raw response, then its rendered text when the
// response is HTML, since markup can split the target.
func responseMentions(response, target string) bool {
	if strings.Contains(response, target) {
		return true
	}
	if !strings.Contains(response, "<") {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(response))
	if err != nil {
		return false
	}
	return strings.Contains(doc.Text(), target)
}
