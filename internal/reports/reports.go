// Package reports loads the viewer's report documents as validated schema types.
package reports

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/report-viewer/internal/fetch"
	"github.com/jonathan/report-viewer/internal/logging"
	"github.com/jonathan/report-viewer/internal/schemas"
	"github.com/jonathan/report-viewer/internal/types"
)

// Default document locations, relative to the fetcher's base.
const (
	DefaultIndexPath           = "runs/index.json"
	DefaultSiteDictionaryPath  = "runs/site-dictionary.json"
	DefaultResumeQuestionsPath = "runs/resume-questions.json"
	DefaultGeoReportPath       = "geo/geo-report.json"
)

// Paths locates the report documents.
type Paths struct {
	Index           string
	SiteDictionary  string
	ResumeQuestions string
	GeoReport       string
}

// DefaultPaths returns the standard report layout.
func DefaultPaths() Paths {
	return Paths{
		Index:           DefaultIndexPath,
		SiteDictionary:  DefaultSiteDictionaryPath,
		ResumeQuestions: DefaultResumeQuestionsPath,
		GeoReport:       DefaultGeoReportPath,
	}
}

func (p Paths) withDefaults() Paths {
	d := DefaultPaths()
	if p.Index == "" {
		p.Index = d.Index
	}
	if p.SiteDictionary == "" {
		p.SiteDictionary = d.SiteDictionary
	}
	if p.ResumeQuestions == "" {
		p.ResumeQuestions = d.ResumeQuestions
	}
	if p.GeoReport == "" {
		p.GeoReport = d.GeoReport
	}
	return p
}

// Source reads report documents through a fetcher and validates them at the boundary.
type Source struct {
	fetcher *fetch.Fetcher
	paths   Paths
	logger  *zap.Logger
}

// NewSource creates a Source. Empty paths fall back to DefaultPaths.
func NewSource(fetcher *fetch.Fetcher, paths Paths, logger *zap.Logger) *Source {
	logger = logging.OrNop(logger)
	return &Source{
		fetcher: fetcher,
		paths:   paths.withDefaults(),
		logger:  logger,
	}
}

// Paths returns the document locations in use.
func (s *Source) Paths() Paths {
	return s.paths
}

// LocalDir returns the local report directory, or "" for a remote base.
func (s *Source) LocalDir() string {
	return s.fetcher.Dir()
}

// Location returns the absolute URL a document path is read from.
func (s *Source) Location(path string) (string, error) {
	return s.fetcher.Resolve(path, false)
}

// Index loads the run index. force bypasses intermediary caches.
func (s *Source) Index(ctx context.Context, force bool) (*types.RunIndex, error) {
	var index types.RunIndex
	if err := s.load(ctx, s.paths.Index, schemas.RunIndex, force, &index); err != nil {
		return nil, err
	}
	return &index, nil
}

// Detail loads the detail document of a run index entry.
func (s *Source) Detail(ctx context.Context, entry types.RunIndexEntry) (*types.RunDetail, error) {
	if entry.JSONPath == "" {
		return nil, &fetch.MissingFieldError{
			Document: fmt.Sprintf("run index entry %q", entry.ID),
			Field:    "jsonPath",
		}
	}

	var detail types.RunDetail
	if err := s.load(ctx, entry.JSONPath, schemas.RunDetail, false, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SiteDictionary loads the site dictionary.
func (s *Source) SiteDictionary(ctx context.Context, force bool) (*types.SiteDictionary, error) {
	var dict types.SiteDictionary
	if err := s.load(ctx, s.paths.SiteDictionary, schemas.SiteDictionary, force, &dict); err != nil {
		return nil, err
	}
	return &dict, nil
}

// ResumeQuestions loads the resume question list.
func (s *Source) ResumeQuestions(ctx context.Context) ([]types.ResumeQuestion, error) {
	var questions []types.ResumeQuestion
	if err := s.load(ctx, s.paths.ResumeQuestions, schemas.ResumeQuestions, false, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GeoReport loads the GEO report. It is always fetched fresh.
func (s *Source) GeoReport(ctx context.Context) (*types.GeoReport, error) {
	var report types.GeoReport
	if err := s.load(ctx, s.paths.GeoReport, schemas.GeoReport, true, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Source) load(ctx context.Context, path, schema string, force bool, v any) error {
	result, err := s.fetcher.Get(ctx, path, force)
	if err != nil {
		return err
	}

	if err := schemas.Validate(schema, result.Body); err != nil {
		return classify(result.URL, err)
	}

	if err := fetch.Decode(result.URL, result.Body, v); err != nil {
		return err
	}

	s.logger.Debug("loaded report document",
		zap.String("schema", schema),
		zap.String("url", result.URL))
	return nil
}

// classify maps a schema failure onto the fetch error taxonomy: absent required
// properties become MissingFieldError, everything else is a ParseError.
func classify(source string, err error) error {
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		if missing, ok := validationErr.Missing(); ok {
			return &fetch.MissingFieldError{
				Document: fmt.Sprintf("%s (%s)", source, missing.Field),
				Field:    missing.Property,
			}
		}
		return &fetch.ParseError{URL: source, Message: "document does not match schema", Cause: err}
	}
	return &fetch.ParseError{URL: source, Message: "malformed JSON", Cause: err}
}
