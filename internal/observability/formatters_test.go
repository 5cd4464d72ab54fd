package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/report-viewer/internal/keywords"
	"github.com/jonathan/report-viewer/internal/summary"
	"github.com/jonathan/report-viewer/internal/types"
)

func TestPrintIndex(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	p.PrintIndex([]types.RunIndexEntry{
		{ID: "run-1", ScheduleName: "Nightly", CreatedAt: now.Add(-2 * time.Hour), RunCount: 4, ModelIDs: []string{"m1"}},
	}, now)
	output := buf.String()

	assert.Contains(t, output, "RUNS (1)")
	assert.Contains(t, output, "Nightly")
	assert.Contains(t, output, "2 hours ago")
	assert.Contains(t, output, "runs: 4")
}

func TestPrintIndex_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintIndex(nil, time.Now())

	assert.Contains(t, buf.String(), "No runs yet.")
}

func TestPrintAggregate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	detail := &types.RunDetail{Runs: []types.Run{{
		AdapterID:  "m1",
		ScenarioID: "sc1",
		Result: types.RunResult{Steps: []types.Step{{
			StepID: "ask",
			Metadata: types.StepMetadata{KeywordSummary: &types.KeywordSummary{
				Expected: []string{"acme", "widgets"},
				Hits:     []string{"acme"},
				Missed:   []string{"widgets"},
			}},
		}}},
	}}}
	p.PrintAggregate("run-1", keywords.Compute(detail, "acme"))
	output := buf.String()

	assert.Contains(t, output, "KEYWORDS · run-1")
	assert.Contains(t, output, "Hit rate: 50%")
	assert.Contains(t, output, "yes")
	assert.Contains(t, output, "m1 / sc1 / ask")
	assert.Contains(t, output, "1/2")
}

func TestPrintAggregate_UnknownRate(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAggregate("empty", keywords.Compute(nil, ""))

	assert.Contains(t, buf.String(), "Hit rate: "+keywords.UnknownRate)
	assert.NotContains(t, buf.String(), "0%")
}

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name     string
		view     summary.View
		expected []string
	}{
		{
			name:     "none",
			view:     summary.Build(nil, "", summary.Full, nil),
			expected: []string{summary.NoSummary},
		},
		{
			name:     "text",
			view:     summary.Build(nil, "Plain notes", summary.Full, nil),
			expected: []string{"Plain notes"},
		},
		{
			name: "structured",
			view: summary.Build(&types.ImpactInsights{
				OverallInsights:  []string{"Strong fit"},
				SiteInsights:     []types.SiteInsight{{Site: "example.com", Mentions: 3, Citations: []string{"cite-1", "cite-2"}}},
				QuestionCoverage: []types.QuestionCoverage{{QuestionID: "q1", Covered: true}},
			}, "", summary.Full, map[string]string{"q1": "Which vendor?"}),
			expected: []string{"Strong fit", "example.com (3 mentions)", "cite-1", "Which vendor?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintSummary(tt.view)
			output := buf.String()
			assert.Contains(t, output, "RESUME IMPACT")
			for _, want := range tt.expected {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestPrintGeo(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGeo(&types.GeoReport{
		RunID: "geo-7",
		Scenarios: []types.GeoScenario{
			{ScenarioID: "a", Status: "success"},
			{ScenarioID: "b", Status: "error"},
		},
		Sources: []types.GeoSource{
			{Priority: "B", Domain: "b.example", Count: 1},
			{Priority: "A", Domain: "a.example", Count: 9},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Run ID: geo-7")
	assert.Contains(t, output, "Scenarios: 1/2 succeeded")
	assert.Contains(t, output, "[A] a.example (9)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("a.example")), bytes.Index(buf.Bytes(), []byte("b.example")))
}
