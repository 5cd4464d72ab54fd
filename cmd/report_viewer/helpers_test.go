package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/report-viewer/internal/config"
	"github.com/jonathan/report-viewer/internal/dashboard"
)

// writeReports lays out a report directory with two recent runs, one of which
// has no detail document.
func writeReports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	created := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	older := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)

	files := map[string]string{
		"runs/index.json": `{"entries":[
  {"id":"run-1","scheduleId":"s1","scheduleName":"Nightly","createdAt":"` + created + `","runCount":1,"jsonPath":"runs/run-1.json"},
  {"id":"run-2","scheduleId":"s2","scheduleName":"Weekly","createdAt":"` + older + `","runCount":1,"jsonPath":"runs/run-2.json"}
]}`,
		"runs/run-1.json": `{"runs":[{"adapterId":"m1","scenarioId":"sc1","result":{"steps":[
  {"stepId":"ask","status":"success","responseText":"Acme","metadata":{
    "keywordSummary":{"expected":["acme"],"hits":["acme"],"missed":[],"allHit":true},
    "resumeImpactSummary":{"text":"Mentioned once in the answer."}}}]}}]}`,
		"runs/resume-questions.json": `[{"id":"q1","prompt":"Which vendor?"}]`,
		"geo/geo-report.json":        `{"runId":"geo-1","scenarios":[{"scenarioId":"a","adapterId":"m1","status":"success","steps":[]}],"sources":[]}`,
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func newTestApp(t *testing.T, dir string) *dashboard.App {
	t.Helper()
	cfg := config.Defaults()
	cfg.BaseURL = dir
	cfg.TargetSubstring = "acme"
	require.NoError(t, cfg.Validate())

	app, err := newApp(&cfg, zap.NewNop())
	require.NoError(t, err)
	return app
}
