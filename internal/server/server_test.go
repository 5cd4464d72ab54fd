package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/report-viewer/internal/dashboard"
	"github.com/jonathan/report-viewer/internal/fetch"
	"github.com/jonathan/report-viewer/internal/geo"
	"github.com/jonathan/report-viewer/internal/reports"
)

const testIndex = `{"entries":[
  {"id":"run-1","scheduleId":"s1","scheduleName":"Nightly","createdAt":"2026-10-17T11:00:00Z","runCount":1,
   "modelIds":["m1"],"scenarioIds":["sc1"],"jsonPath":"runs/run-1.json"},
  {"id":"run-2","scheduleId":"s2","scheduleName":"Weekly","createdAt":"2026-10-17T10:00:00Z","runCount":1,
   "modelIds":["m2"],"scenarioIds":["sc2"],"jsonPath":"runs/run-2.json"}
]}`

const testDetail = `{"runs":[{"adapterId":"m1","scenarioId":"sc1","result":{"steps":[
  {"stepId":"ask","status":"success","responseText":"Acme is great","metadata":{
    "keywordSummary":{"expected":["acme","widgets"],"hits":["acme"],"missed":["widgets"],"allHit":false}}}
]}}]}`

// testServer wires a Server to an httptest document host
type testServer struct {
	*Server
	docs *httptest.Server
}

func newTestServer(t *testing.T, docs map[string]string) *testServer {
	t.Helper()
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(host.Close)

	fetcher, err := fetch.New(host.URL, nil, nil)
	require.NoError(t, err)
	app := dashboard.New(reports.NewSource(fetcher, reports.Paths{}, nil), dashboard.Options{
		Target: "acme",
		Now:    func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) },
	})
	return &testServer{Server: New(app, Config{Port: 0, Logger: zaptest.NewLogger(t)}), docs: host}
}

func defaultDocs() map[string]string {
	return map[string]string{
		"/runs/index.json": testIndex,
		"/runs/run-1.json": testDetail,
	}
}

func (s *testServer) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func document(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", resp["status"])
	}
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	w := s.do(t, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc := document(t, w)
	assert.Equal(t, dashboard.DashboardTitle, doc.Find("title").Text())
	assert.Equal(t, 2, doc.Find(".log-card").Length())
	// run-2 has no detail document on the host
	assert.Equal(t, dashboard.DetailFailed, doc.Find(".log-card").Eq(1).Find(".empty").Text())
	assert.Equal(t, dashboard.SitesFailed, doc.Find("#site-impact .empty").Text())
}

func TestDashboardEndpoint_Filter(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	doc := document(t, s.do(t, http.MethodGet, "/?schedule=s2&model=all&scenario=all"))
	require.Equal(t, 1, doc.Find(".log-card").Length())
	assert.Equal(t, "Weekly", doc.Find(".log-card h2").Text())
	assert.Equal(t, "s2", doc.Find("#schedule-filter option[selected]").AttrOr("value", ""))

	doc = document(t, s.do(t, http.MethodGet, "/?schedule=s1&model=m2"))
	assert.Equal(t, dashboard.StatusNoMatching, doc.Find("#log-container .empty").Text())

	// A filter in the query does not become another visitor's default.
	assert.True(t, s.app.Snapshot().Filter.IsAll())
	doc = document(t, s.do(t, http.MethodGet, "/"))
	assert.Equal(t, 2, doc.Find(".log-card").Length())
}

func TestFilterEndpoint(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	form := url.Values{"schedule": {"s2"}, "model": {"all"}, "scenario": {"all"}}
	req := httptest.NewRequest(http.MethodPost, "/filter", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "s2", s.app.Snapshot().Filter.Schedule)

	doc := document(t, s.do(t, http.MethodGet, "/"))
	require.Equal(t, 1, doc.Find(".log-card").Length())
	assert.Equal(t, "Weekly", doc.Find(".log-card h2").Text())
	assert.Equal(t, "/filter", doc.Find("form[method=post]").First().AttrOr("action", ""))
}

func TestDashboardEndpoint_IndexFailure(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/?refresh=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dashboard.StatusFailed, document(t, w).Find("#log-container .empty").Text())
}

func TestRefreshEndpoint(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	w := s.do(t, http.MethodPost, "/refresh")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 2, s.app.Snapshot().Total)
}

func TestRunEndpoint(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	w := s.do(t, http.MethodGet, "/runs/run-1")
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, "Run Nightly", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find("table.step-table tbody tr").Length())

	w = s.do(t, http.MethodGet, "/runs/run-1?mode=compact")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, document(t, w).Find("table.step-table").Length())
}

func TestRunEndpoint_Errors(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/runs/nope").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/runs/run-1?mode=wide").Code)

	w := s.do(t, http.MethodGet, "/runs/run-2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dashboard.DetailFailed, document(t, w).Find(".empty").Text())
}

func TestRunEndpoint_IndexUnavailable(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/runs/run-1")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, dashboard.StatusFailed, document(t, w).Find(".empty").Text())
}

func TestGeoEndpoint_Failure(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/geo")
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, geo.MetaFailed, doc.Find("#geo-meta").Text())
	assert.Equal(t, geo.ScenariosFailed, doc.Find("#geo-scenarios .empty").Text())
	assert.Equal(t, geo.SourcesFailed, doc.Find("#geo-sources .empty").Text())
}

func TestEntriesEndpoint(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	w := s.do(t, http.MethodGet, "/api/entries?model=m1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp EntriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "run-1", resp.Entries[0].ID)
	assert.Equal(t, "all", resp.Filter.Schedule)

	// The API does not change the dashboard filter.
	assert.True(t, s.app.Snapshot().Filter.IsAll())
}

func TestEntriesEndpoint_IndexFailure(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/entries")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestRunAggregateEndpoint(t *testing.T) {
	s := newTestServer(t, defaultDocs())

	w := s.do(t, http.MethodGet, "/api/runs/run-1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AggregateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Expected)
	assert.Equal(t, 1, resp.Hits)
	require.NotNil(t, resp.HitRate)
	assert.InDelta(t, 0.5, *resp.HitRate, 1e-9)
	assert.Equal(t, "50%", resp.HitRateLabel)
	assert.True(t, resp.MentionsTarget)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/runs/nope").Code)
	assert.Equal(t, http.StatusBadGateway, s.do(t, http.MethodGet, "/api/runs/run-2").Code)
}

func TestRunAggregateEndpoint_MalformedDetail(t *testing.T) {
	docs := defaultDocs()
	docs["/runs/run-1.json"] = `{"runs": "nope"}`
	s := newTestServer(t, docs)

	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodGet, "/api/runs/run-1").Code)
}

func TestLocalReportDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "runs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "runs", "index.json"), []byte(testIndex), 0o644))

	fetcher, err := fetch.New(dir, nil, nil)
	require.NoError(t, err)
	app := dashboard.New(reports.NewSource(fetcher, reports.Paths{}, nil), dashboard.Options{})
	s := New(app, Config{})

	req := httptest.NewRequest(http.MethodGet, "/reports/runs/index.json", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "run-1")
}

// TestCORSMiddleware tests CORS headers are set
func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, nil)

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header Access-Control-Allow-Origin: *")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected CORS header Access-Control-Allow-Methods")
	}
}

// TestCORSMiddleware_OPTIONS tests OPTIONS preflight request
func TestCORSMiddleware_OPTIONS(t *testing.T) {
	s := newTestServer(t, nil)

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("should not reach here")) //nolint:errcheck
	}))

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for OPTIONS, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Error("OPTIONS response should have empty body")
	}
}

// TestLoggingMiddleware tests that logging middleware passes through and tags requests
func TestLoggingMiddleware(t *testing.T) {
	s := newTestServer(t, nil)

	called := false
	handler := s.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if !called {
		t.Error("logging middleware should call next handler")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", w.Code)
	}
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
