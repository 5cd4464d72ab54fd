package dashboard

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/report-viewer/internal/cache"
	"github.com/jonathan/report-viewer/internal/geo"
	"github.com/jonathan/report-viewer/internal/keywords"
	"github.com/jonathan/report-viewer/internal/summary"
	"github.com/jonathan/report-viewer/internal/types"
	"github.com/jonathan/report-viewer/internal/view"
)

// detailConcurrency bounds parallel detail loads for one page.
const detailConcurrency = 4

// Card is one run on the dashboard with its compact summary inputs.
type Card struct {
	Entry     types.RunIndexEntry
	Key       string
	Aggregate keywords.Aggregate
	Err       error
}

// DashboardData is everything the dashboard page renders.
type DashboardData struct {
	Snapshot Snapshot
	Cards    []Card
	Sites    *types.SiteDictionary
	SitesErr error
	Prompts  map[string]string
	// DocHref maps a report document path to a link.
	DocHref func(path string) string
}

// RunData is everything a run detail page renders.
type RunData struct {
	Entry     types.RunIndexEntry
	Key       string
	Mode      summary.Mode
	Aggregate keywords.Aggregate
	Err       error
	Prompts   map[string]string
	Now       time.Time
	DocHref   func(path string) string
}

// LoadDashboard gathers the dashboard inputs for snap. Detail documents of the
// visible runs and the site dictionary load concurrently; each failure stays
// in its own region.
func (a *App) LoadDashboard(ctx context.Context, snap Snapshot, links view.Links) DashboardData {
	data := DashboardData{
		Snapshot: snap,
		Cards:    make([]Card, len(snap.Visible)),
		DocHref:  a.docHref(links),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)

	g.Go(func() error {
		data.Prompts, _ = a.Prompts(gctx)
		return nil
	})
	g.Go(func() error {
		data.Sites, data.SitesErr = a.source.SiteDictionary(gctx, false)
		if data.SitesErr != nil {
			a.logger.Error("failed to load site dictionary", zap.Error(data.SitesErr))
		}
		return nil
	})
	for i, entry := range snap.Visible {
		g.Go(func() error {
			card := Card{Entry: entry, Key: cache.EntryKey(entry)}
			detail, err := a.Detail(gctx, entry)
			if err != nil {
				card.Err = err
			} else {
				card.Aggregate = keywords.Compute(detail, a.target)
			}
			data.Cards[i] = card
			return nil
		})
	}
	_ = g.Wait()

	return data
}

// LoadRun gathers the inputs of one run detail page. An unknown key is an
// UnknownRunError; a failed detail load is reported in RunData.Err.
func (a *App) LoadRun(ctx context.Context, key string, mode summary.Mode, links view.Links) (RunData, error) {
	entry, ok := a.Lookup(key)
	if !ok {
		return RunData{}, &UnknownRunError{Key: key}
	}

	data := RunData{Entry: entry, Key: key, Mode: mode, Now: a.now(), DocHref: a.docHref(links)}
	detail, err := a.Detail(ctx, entry)
	if err != nil {
		data.Err = err
		return data, nil
	}
	data.Aggregate = keywords.Compute(detail, a.target)
	data.Prompts, _ = a.Prompts(ctx)
	return data, nil
}

// LoadGeo fetches the GEO report fresh and renders its regions. A failed load
// yields the failure placeholders.
func (a *App) LoadGeo(ctx context.Context) geo.Sections {
	report, err := a.source.GeoReport(ctx)
	if err != nil {
		a.logger.Error("failed to load GEO report", zap.Error(err))
		return geo.Failed()
	}
	return geo.Render(report)
}

// docHref links documents at their remote location, or under links.Documents
// when the reports are read from a local directory.
func (a *App) docHref(links view.Links) func(string) string {
	local := a.source.LocalDir() != ""
	return func(path string) string {
		if path == "" {
			return ""
		}
		if local {
			return links.Documents + strings.TrimPrefix(path, "/")
		}
		loc, err := a.source.Location(path)
		if err != nil {
			return path
		}
		return loc
	}
}
