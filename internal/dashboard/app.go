// Package dashboard holds the viewer's application state and assembles its pages.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/report-viewer/internal/cache"
	"github.com/jonathan/report-viewer/internal/filter"
	"github.com/jonathan/report-viewer/internal/logging"
	"github.com/jonathan/report-viewer/internal/reports"
	"github.com/jonathan/report-viewer/internal/types"
)

const questionsKey = "resume-questions"

// Options configure an App.
type Options struct {
	Recency filter.Recency
	// Target is the substring flagged by the keyword aggregate.
	Target string
	// Now overrides the clock, for tests.
	Now    func() time.Time
	Logger *zap.Logger
}

// App is the application state: the loaded run index, the active filter and the
// status of the last index load. Detail documents and the resume question list
// are cached for the life of the process.
type App struct {
	source    *reports.Source
	details   *cache.Map[*types.RunDetail]
	questions *cache.Map[[]types.ResumeQuestion]
	recency   filter.Recency
	target    string
	now       func() time.Time
	logger    *zap.Logger

	mu          sync.RWMutex
	entries     []types.RunIndexEntry
	loaded      bool
	filter      filter.State
	err         error
	refreshedAt time.Time
}

// New creates an App reading from source.
func New(source *reports.Source, opts Options) *App {
	opts.Logger = logging.OrNop(opts.Logger)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Recency.Limit <= 0 {
		opts.Recency = filter.DefaultRecency()
	}
	return &App{
		source:    source,
		details:   cache.New[*types.RunDetail](),
		questions: cache.New[[]types.ResumeQuestion](),
		recency:   opts.Recency,
		target:    opts.Target,
		now:       opts.Now,
		logger:    opts.Logger,
		filter:    filter.NewState(),
	}
}

// Source returns the report source.
func (a *App) Source() *reports.Source {
	return a.source
}

// Target returns the configured target substring.
func (a *App) Target() string {
	return a.target
}

// Refresh reloads the run index. force bypasses intermediary caches. On failure
// the previous entries are kept and the error is recorded for display; cached
// detail documents are never dropped by a refresh.
func (a *App) Refresh(ctx context.Context, force bool) error {
	index, err := a.source.Index(ctx, force)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.err = err
		a.logger.Error("failed to load run index", zap.Error(err), zap.Bool("force", force))
		return err
	}

	a.entries = index.Entries
	a.loaded = true
	a.err = nil
	a.refreshedAt = a.now()
	a.filter = a.filter.Reconcile(filter.BuildOptions(a.recency.Apply(a.entries, a.refreshedAt)))
	a.logger.Info("run index loaded", zap.Int("entries", len(index.Entries)), zap.Bool("force", force))
	return nil
}

// EnsureLoaded loads the index once, if no load has succeeded yet.
func (a *App) EnsureLoaded(ctx context.Context) error {
	a.mu.RLock()
	loaded := a.loaded
	a.mu.RUnlock()
	if loaded {
		return nil
	}
	return a.Refresh(ctx, false)
}

// SetFilter replaces the active filter. Values no longer offered by the
// current entries fall back to filter.All. The applied state is returned.
func (a *App) SetFilter(state filter.State) filter.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filter = state.Reconcile(filter.BuildOptions(a.recency.Apply(a.entries, a.now())))
	return a.filter
}

// Snapshot captures the state needed to render the dashboard.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := a.now()
	recent := a.recency.Apply(a.entries, now)
	return Snapshot{
		Loaded:      a.loaded,
		Err:         a.err,
		Filter:      a.filter,
		Options:     filter.BuildOptions(recent),
		Total:       len(a.entries),
		Recent:      recent,
		Visible:     filter.Apply(a.filter, recent),
		RefreshedAt: a.refreshedAt,
		Now:         now,
	}
}

// WithFilter returns a copy of s showing state instead of the active filter.
// Values not offered by the recent entries fall back to filter.All.
func (s Snapshot) WithFilter(state filter.State) Snapshot {
	s.Filter = state.Reconcile(s.Options)
	s.Visible = filter.Apply(s.Filter, s.Recent)
	return s
}

// Lookup finds a loaded entry by its cache key.
func (a *App) Lookup(key string) (types.RunIndexEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, entry := range a.entries {
		if cache.EntryKey(entry) == key {
			return entry, true
		}
	}
	return types.RunIndexEntry{}, false
}

// Detail returns the detail document of entry, loading it on first use.
func (a *App) Detail(ctx context.Context, entry types.RunIndexEntry) (*types.RunDetail, error) {
	key := cache.EntryKey(entry)
	if key == "" {
		return a.source.Detail(ctx, entry)
	}

	detail, cached, err := a.details.GetOrLoad(ctx, key, func(ctx context.Context) (*types.RunDetail, error) {
		return a.source.Detail(ctx, entry)
	})
	if err != nil {
		a.logger.Error("failed to load run detail", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	a.logger.Debug("run detail", zap.String("key", key), zap.Bool("cached", cached))
	return detail, nil
}

// InvalidateDetails drops every cached detail document and the question list.
func (a *App) InvalidateDetails() {
	a.details.Reset()
	a.questions.Reset()
	a.logger.Info("report caches reset")
}

// CachedDetails returns the number of cached detail documents.
func (a *App) CachedDetails() int {
	return a.details.Len()
}

// Prompts returns the resume question prompts by id. The list is loaded once.
func (a *App) Prompts(ctx context.Context) (map[string]string, error) {
	questions, _, err := a.questions.GetOrLoad(ctx, questionsKey, a.source.ResumeQuestions)
	if err != nil {
		a.logger.Warn("failed to load resume questions", zap.Error(err))
		return nil, fmt.Errorf("failed to load resume questions: %w", err)
	}
	return types.QuestionPrompts(questions), nil
}

// Snapshot is an immutable view of the App used by the page renderers.
type Snapshot struct {
	Loaded  bool
	Err     error
	Filter  filter.State
	Options filter.Options
	// Total counts every loaded entry; Recent is the working set after the
	// recency policy and Visible what remains after filtering.
	Total       int
	Recent      []types.RunIndexEntry
	Visible     []types.RunIndexEntry
	RefreshedAt time.Time
	Now         time.Time
}

// Status messages of the run list.
const (
	StatusFailed     = "Failed to load, please try again later."
	StatusLoading    = "Loading..."
	StatusNoRuns     = "No runs yet."
	StatusNoMatching = "No runs match the current filters."
)

// Status returns the message shown instead of the run cards, or "" when there
// are cards to show.
func (s Snapshot) Status() string {
	switch {
	case s.Err != nil:
		return StatusFailed
	case !s.Loaded:
		return StatusLoading
	case len(s.Recent) == 0:
		return StatusNoRuns
	case len(s.Visible) == 0:
		return StatusNoMatching
	default:
		return ""
	}
}
