package server

import (
	"net/http"
	"net/url"

	"github.com/jonathan/report-viewer/internal/dashboard"
	"github.com/jonathan/report-viewer/internal/filter"
	"github.com/jonathan/report-viewer/internal/keywords"
	"github.com/jonathan/report-viewer/internal/summary"
	"github.com/jonathan/report-viewer/internal/types"
	"github.com/jonathan/report-viewer/internal/view"
)

// EntriesResponse represents the response for /api/entries
type EntriesResponse struct {
	Filter  filter.State          `json:"filter"`
	Total   int                   `json:"total"`
	Entries []types.RunIndexEntry `json:"entries"`
}

// AggregateResponse represents the response for /api/runs/{key}
type AggregateResponse struct {
	Key            string   `json:"key"`
	Expected       int      `json:"expected"`
	Hits           int      `json:"hits"`
	Missed         int      `json:"missed"`
	HitRate        *float64 `json:"hit_rate"`
	HitRateLabel   string   `json:"hit_rate_label"`
	Target         string   `json:"target,omitempty"`
	MentionsTarget bool     `json:"mentions_target"`
}

func filterFromQuery(r *http.Request) (filter.State, bool) {
	return filterFromValues(r.URL.Query())
}

func filterFromValues(values url.Values) (filter.State, bool) {
	if !values.Has("schedule") && !values.Has("model") && !values.Has("scenario") {
		return filter.State{}, false
	}
	return filter.State{
		Schedule: values.Get("schedule"),
		Model:    values.Get("model"),
		Scenario: values.Get("scenario"),
	}.Normalize(), true
}

func parseMode(r *http.Request) (summary.Mode, error) {
	raw := r.URL.Query().Get("mode")
	switch summary.Mode(raw) {
	case "", summary.Full:
		return summary.Full, nil
	case summary.Compact:
		return summary.Compact, nil
	default:
		return "", &ErrValidation{Field: "mode", Message: "must be compact or full"}
	}
}

// handleDashboard renders the run list. refresh=1 forces a reload of the index.
// A filter in the query applies to this response only.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.URL.Query().Get("refresh") == "1" {
		_ = s.app.Refresh(ctx, true) // failure is rendered as the run list status
	} else {
		_ = s.app.EnsureLoaded(ctx)
	}

	snap := s.app.Snapshot()
	if state, ok := filterFromQuery(r); ok {
		snap = snap.WithFilter(state)
	}

	data := s.app.LoadDashboard(ctx, snap, s.links)
	s.pageResponse(w, http.StatusOK, dashboard.DashboardTitle, dashboard.RenderDashboard(data, s.links)...)
}

// handleFilter stores the submitted filter as the dashboard default, then
// returns to the dashboard
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.pageResponse(w, http.StatusBadRequest, "Invalid request", view.Empty("The filter form could not be read."))
		return
	}
	_ = s.app.EnsureLoaded(r.Context())
	state, _ := filterFromValues(r.PostForm)
	s.app.SetFilter(state.Normalize())
	http.Redirect(w, r, s.links.Home, http.StatusSeeOther)
}

// handleRefresh reloads the run index bypassing caches, then returns to the dashboard
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	_ = s.app.Refresh(r.Context(), true)
	http.Redirect(w, r, s.links.Home, http.StatusSeeOther)
}

// handleRun renders the detail page of one run
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.PathValue("key")

	mode, err := parseMode(r)
	if err != nil {
		s.pageResponse(w, HTTPStatus(err), "Invalid request", view.Empty(err.Error()))
		return
	}

	if err := s.app.EnsureLoaded(ctx); err != nil {
		s.pageResponse(w, HTTPStatus(err), "Runs unavailable", view.Empty(dashboard.StatusFailed))
		return
	}
	data, err := s.app.LoadRun(ctx, key, mode, s.links)
	if err != nil {
		s.pageResponse(w, HTTPStatus(err), "Run not found", view.Empty("No run with this id in the current index."))
		return
	}
	s.pageResponse(w, http.StatusOK, dashboard.RunTitle(data.Entry), dashboard.RenderRun(data, s.links)...)
}

// handleGeo renders the GEO report, always read fresh
func (s *Server) handleGeo(w http.ResponseWriter, r *http.Request) {
	sections := s.app.LoadGeo(r.Context())
	s.pageResponse(w, http.StatusOK, dashboard.GeoTitle, sections.Nodes()...)
}

// handleEntries returns the recent entries matching the query filter, without
// changing the dashboard's filter
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.URL.Query().Get("refresh") == "1" {
		_ = s.app.Refresh(ctx, true)
	} else {
		_ = s.app.EnsureLoaded(ctx)
	}

	snap := s.app.Snapshot()
	if snap.Err != nil {
		s.errorResponse(w, HTTPStatus(snap.Err), snap.Err.Error())
		return
	}

	state, ok := filterFromQuery(r)
	if !ok {
		state = snap.Filter
	}
	entries := filter.Apply(state, snap.Recent)
	if entries == nil {
		entries = []types.RunIndexEntry{}
	}
	s.jsonResponse(w, http.StatusOK, EntriesResponse{Filter: state, Total: snap.Total, Entries: entries})
}

// handleRunAggregate returns the keyword totals of one run
func (s *Server) handleRunAggregate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.PathValue("key")

	if err := s.app.EnsureLoaded(ctx); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	entry, ok := s.app.Lookup(key)
	if !ok {
		err := &dashboard.UnknownRunError{Key: key}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	detail, err := s.app.Detail(ctx, entry)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	agg := keywords.Compute(detail, s.app.Target())
	resp := AggregateResponse{
		Key:            key,
		Expected:       agg.Expected,
		Hits:           agg.Hits,
		Missed:         agg.Missed,
		HitRateLabel:   keywords.FormatHitRate(agg),
		Target:         agg.Target,
		MentionsTarget: agg.MentionsTarget,
	}
	if rate, ok := agg.HitRate(); ok {
		resp.HitRate = &rate
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
