package geo

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/report-viewer/internal/types"
	"github.com/jonathan/report-viewer/internal/view"
)

func parse(t *testing.T, nodes ...*view.Node) *goquery.Document {
	t.Helper()
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(view.RenderString(n))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return doc
}

func TestSortSources_PriorityThenCount(t *testing.T) {
	sources := []types.GeoSource{
		{Priority: "B", URL: "b1", Count: 1},
		{Priority: "A", URL: "a5", Count: 5},
		{Priority: "C", URL: "c1", Count: 1},
		{Priority: "A", URL: "a9", Count: 9},
	}

	sorted := SortSources(sources)
	var got []string
	for _, s := range sorted {
		got = append(got, fmt.Sprintf("%s(%d)", s.Priority, s.Count))
	}
	if diff := cmp.Diff([]string{"A(9)", "A(5)", "B(1)", "C(1)"}, got); diff != "" {
		t.Errorf("SortSources mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "b1", sources[0].URL, "input must not be reordered")
}

func TestSortSources_UnknownPrioritiesLast(t *testing.T) {
	sources := []types.GeoSource{
		{Priority: "", URL: "none", Count: 100},
		{Priority: "Z", URL: "z", Count: 50},
		{Priority: "C", URL: "c", Count: 1},
	}

	sorted := SortSources(sources)
	assert.Equal(t, "c", sorted[0].URL)
	assert.Equal(t, "none", sorted[1].URL)
	assert.Equal(t, "z", sorted[2].URL)
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityRank("A"), PriorityRank("B"))
	assert.Less(t, PriorityRank("B"), PriorityRank("C"))
	assert.Less(t, PriorityRank("C"), PriorityRank("D"))
	assert.Equal(t, PriorityRank("x"), PriorityRank(""))
}

func TestTopSources(t *testing.T) {
	sources := make([]types.GeoSource, 80)
	for i := range sources {
		sources[i] = types.GeoSource{Priority: "B", URL: fmt.Sprintf("u%d", i), Count: types.FlexInt(i)}
	}

	top := TopSources(sources, SourceLimit)
	require.Len(t, top, SourceLimit)
	assert.Equal(t, types.FlexInt(79), top[0].Count)
}

func TestCollectDomains(t *testing.T) {
	steps := []types.GeoStep{
		{ExtractedDomains: []string{"a.com", "b.com"}},
		{ExtractedDomains: []string{"b.com", "c.com"}},
		{},
	}
	assert.Equal(t, []string{"a.com", "b.com", "c.com"}, CollectDomains(steps))
	assert.Empty(t, CollectDomains(nil))
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status string
		class  string
		label  string
	}{
		{"success", "badge-success", "Success"},
		{"failed", "badge-failed", "Failed"},
		{"timeout", "badge-failed", "Failed"},
		{"", "badge-failed", "Failed"},
		{"SUCCESS", "badge-failed", "Failed"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			doc := parse(t, StatusBadge(tt.status))
			badge := doc.Find("span.badge")
			assert.True(t, badge.HasClass(tt.class))
			assert.Equal(t, tt.label, badge.Text())
		})
	}
}

func TestRender_FullReport(t *testing.T) {
	longNote := strings.Repeat("n", 200)
	report := &types.GeoReport{
		CreatedAt: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
		RunID:     "geo-7",
		Scenarios: []types.GeoScenario{{
			ScenarioID:   "sc1",
			ScenarioName: "Pricing questions",
			AdapterID:    "m1",
			Status:       "success",
			Steps: []types.GeoStep{
				{StepID: "ask", Status: "success", Preview: "<i>preview</i>", ExtractedDomains: []string{"a", "b", "c", "d"}},
				{StepID: "follow", Status: "error", ExtractedDomains: []string{"e", "f", "g", "a"}},
			},
		}},
		Sources: []types.GeoSource{
			{Priority: "B", Domain: "b.example", URL: "https://b.example", Count: 2, Notes: longNote},
			{Priority: "A", Domain: "a.example", URL: "https://a.example", Count: 1},
		},
	}

	doc := parse(t, Render(report).Nodes()...)

	assert.Contains(t, doc.Find("#geo-meta").Text(), "Run ID: geo-7")

	row := doc.Find("#geo-scenarios tbody tr")
	require.Equal(t, 1, row.Length())
	assert.Equal(t, "Pricing questions", row.Find("td strong").Text())
	assert.Equal(t, 6, row.Find(".domain-pill").Length())
	assert.Equal(t, "<i>preview</i>", row.Find(".preview").Text())
	assert.Equal(t, 1, row.Find(".step-stack .badge-failed").Length())

	sourceRows := doc.Find("#geo-sources tbody tr")
	require.Equal(t, 2, sourceRows.Length())
	assert.Equal(t, "A", sourceRows.First().Find("td").First().Text())
	assert.Equal(t, "-", sourceRows.First().Find("td").Last().Text())
	assert.Len(t, sourceRows.Last().Find("td").Last().Text(), NoteLimit)
}

func TestRender_EmptyAndMissingFields(t *testing.T) {
	doc := parse(t, Render(&types.GeoReport{}).Nodes()...)
	assert.Equal(t, "Latest run: unknown · Run ID: -", doc.Find("#geo-meta").Text())
	assert.Equal(t, NoScenarios, doc.Find("#geo-scenarios .empty").Text())
	assert.Equal(t, NoSources, doc.Find("#geo-sources .empty").Text())
}

func TestFailed(t *testing.T) {
	doc := parse(t, Failed().Nodes()...)
	assert.Equal(t, MetaFailed, doc.Find("#geo-meta").Text())
	assert.Equal(t, ScenariosFailed, doc.Find("#geo-scenarios .empty").Text())
	assert.Equal(t, SourcesFailed, doc.Find("#geo-sources .empty").Text())
}

func TestSourceTable_ScriptURLIsNotLinked(t *testing.T) {
	doc := parse(t, SourceTable([]types.GeoSource{
		{URL: "javascript:alert(document.cookie)", Priority: "A", Count: 1},
		{URL: "https://example.com/a", Priority: "B", Count: 1},
	}))
	assert.Equal(t, 1, doc.Find("#geo-sources a").Length())
	assert.Equal(t, "https://example.com/a", doc.Find("#geo-sources a").AttrOr("href", ""))
	assert.Contains(t, doc.Find("#geo-sources").Text(), "javascript:alert(document.cookie)")
}
