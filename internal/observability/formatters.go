// Package observability provides formatted terminal output for the inspect command.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jonathan/report-viewer/internal/geo"
	"github.com/jonathan/report-viewer/internal/keywords"
	"github.com/jonathan/report-viewer/internal/summary"
	"github.com/jonathan/report-viewer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted terminal output
type Printer struct {
	out   io.Writer
	box   lipgloss.Style
	title lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
	muted lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out: out,
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#60a5fa")).
			Padding(0, 1).
			Width(boxWidth),
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60a5fa")),
		good:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#34d399")),
		bad:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f87171")),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")),
	}
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	body := lipgloss.JoinVertical(lipgloss.Left, p.title.Render(title), "", strings.TrimRight(content, "\n"))
	fmt.Fprintln(p.out, p.box.Render(body))
}

// PrintIndex outputs the runs of an index, newest first as given
func (p *Printer) PrintIndex(entries []types.RunIndexEntry, now time.Time) {
	if len(entries) == 0 {
		p.printBox("RUNS", p.muted.Render("No runs yet."))
		return
	}

	var sb strings.Builder
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("• %s  %s\n", entry.Title(), p.muted.Render(humanize.RelTime(entry.CreatedAt, now, "ago", "from now"))))
		sb.WriteString(fmt.Sprintf("  id: %s  runs: %d\n", entry.ID, entry.RunCount))
		if len(entry.ModelIDs) > 0 {
			sb.WriteString(fmt.Sprintf("  models: %s\n", strings.Join(entry.ModelIDs, ", ")))
		}
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("RUNS (%d)", len(entries)), sb.String())
}

// PrintAggregate outputs the keyword totals of a run
func (p *Printer) PrintAggregate(title string, agg keywords.Aggregate) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Expected: %d   Hits: %d   Missed: %d\n", agg.Expected, agg.Hits, agg.Missed))
	sb.WriteString(fmt.Sprintf("Hit rate: %s\n", keywords.FormatHitRate(agg)))
	if agg.Target != "" {
		answer := p.bad.Render("no")
		if agg.MentionsTarget {
			answer = p.good.Render("yes")
		}
		sb.WriteString(fmt.Sprintf("Mentions %q: %s\n", agg.Target, answer))
	}

	if len(agg.Items) > 0 {
		sb.WriteString("\nSteps:\n")
		count := min(len(agg.Items), maxItemsToShow)
		for i := 0; i < count; i++ {
			item := agg.Items[i]
			sb.WriteString(fmt.Sprintf("  • %s / %s / %s  %d/%d\n", item.Adapter, item.Scenario, item.StepID, item.Hits(), item.Expected()))
		}
		if len(agg.Items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(agg.Items)-maxItemsToShow))
		}
	}

	p.printBox("KEYWORDS · "+title, sb.String())
}

// PrintSummary outputs a resume impact summary view
func (p *Printer) PrintSummary(v summary.View) {
	switch v.Kind {
	case summary.KindNone:
		p.printBox("RESUME IMPACT", p.muted.Render(summary.NoSummary))
		return
	case summary.KindText:
		p.printBox("RESUME IMPACT", v.Text)
		return
	}

	var sb strings.Builder
	writeList(&sb, "Overall insights", v.Overall)
	if len(v.Sites) > 0 {
		sb.WriteString("Sites:\n")
		for _, site := range v.Sites {
			sb.WriteString(fmt.Sprintf("  • %s (%d mentions)\n", site.Site, site.Mentions))
			if site.Citation != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", p.muted.Render(site.Citation)))
			}
		}
		sb.WriteString("\n")
	}
	writeList(&sb, "Action items", v.Actions)
	if len(v.Questions) > 0 {
		sb.WriteString("Question coverage:\n")
		for _, q := range v.Questions {
			mark := p.bad.Render("✗")
			if q.Covered {
				mark = p.good.Render("✓")
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", mark, q.Prompt))
		}
	}

	p.printBox("RESUME IMPACT", sb.String())
}

// PrintGeo outputs the scenario outcomes and top sources of a GEO report
func (p *Printer) PrintGeo(report *types.GeoReport) {
	if report == nil {
		p.printBox("GEO REPORT", p.bad.Render(geo.MetaFailed))
		return
	}

	var sb strings.Builder
	runID := report.RunID
	if runID == "" {
		runID = "-"
	}
	sb.WriteString(fmt.Sprintf("Run ID: %s\n\n", runID))

	succeeded := 0
	for _, s := range report.Scenarios {
		if geo.Succeeded(s.Status) {
			succeeded++
		}
	}
	sb.WriteString(fmt.Sprintf("Scenarios: %d/%d succeeded\n", succeeded, len(report.Scenarios)))

	top := geo.TopSources(report.Sources, maxItemsToShow)
	if len(top) > 0 {
		sb.WriteString("\nTop sources:\n")
		for _, src := range top {
			sb.WriteString(fmt.Sprintf("  [%s] %s (%d)\n", src.Priority, src.Domain, int(src.Count)))
		}
		if len(report.Sources) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Sources)-maxItemsToShow))
		}
	}

	p.printBox("GEO REPORT", sb.String())
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	sb.WriteString("\n")
}
