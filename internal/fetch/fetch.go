// Package fetch retrieves report documents from a static location.
// The location is either an http(s) base URL or a local report directory.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/report-viewer/internal/logging"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "ReportViewer/1.0"

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 32 << 20

// CacheBustParam is the query parameter appended on forced refreshes.
const CacheBustParam = "t"

// Result holds the raw content of a fetched document.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Options configures the fetch behavior.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxBodyBytes int64
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Fetcher resolves report paths against a base location and reads them.
type Fetcher struct {
	base     *url.URL
	dir      string
	client   *http.Client
	options  *Options
	logger   *zap.Logger
	now      func() time.Time
	lastBust atomic.Int64
}

// New creates a Fetcher for base. A base without an http or https scheme is treated
// as a local directory and served through a file transport.
func New(base string, opts *Options, logger *zap.Logger) (*Fetcher, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	logger = logging.OrNop(logger)

	baseURL, dir, transport, err := resolveBase(base)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		base:    baseURL,
		dir:     dir,
		client:  &http.Client{Timeout: opts.Timeout, Transport: transport},
		options: opts,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func resolveBase(base string) (*url.URL, string, http.RoundTripper, error) {
	if base == "" {
		return nil, "", nil, &Error{URL: base, Message: "base location is empty"}
	}

	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Host == "" {
			return nil, "", nil, &Error{URL: base, Message: "invalid URL", Cause: err}
		}
		if !strings.HasSuffix(parsed.Path, "/") {
			parsed.Path += "/"
		}
		return parsed, "", http.DefaultTransport, nil
	}

	dir := strings.TrimPrefix(base, "file://")
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", nil, &Error{URL: base, Message: "invalid report directory", Cause: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", nil, &Error{URL: base, Message: "report directory not found", Cause: err}
	}
	if !info.IsDir() {
		return nil, "", nil, &Error{URL: base, Message: "report location is not a directory"}
	}

	transport := &http.Transport{}
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir(abs)))
	return &url.URL{Scheme: "file", Path: "/"}, abs, transport, nil
}

// Base returns the location documents are resolved against.
func (f *Fetcher) Base() string {
	return f.base.String()
}

// Dir returns the local report directory, or "" when reading over http(s).
func (f *Fetcher) Dir() string {
	return f.dir
}

// Resolve turns a report path into an absolute URL. When force is set a
// cache-busting parameter is appended so intermediaries cannot serve a stale copy.
func (f *Fetcher) Resolve(path string, force bool) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", &Error{URL: path, Message: "invalid path", Cause: err}
	}

	target := ref
	if !ref.IsAbs() {
		target = f.base.ResolveReference(ref)
	}

	if force {
		q := target.Query()
		q.Set(CacheBustParam, strconv.FormatInt(f.bustToken(), 10))
		target.RawQuery = q.Encode()
	}
	return target.String(), nil
}

// bustToken returns the current time in milliseconds, bumped so that no two calls
// return the same value.
func (f *Fetcher) bustToken() int64 {
	for {
		last := f.lastBust.Load()
		next := f.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if f.lastBust.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Get reads the document at path. Transport failures and non-2xx statuses
// are returned as *Error; the Result is returned alongside a status error.
func (f *Fetcher) Get(ctx context.Context, path string, force bool) (*Result, error) {
	target, err := f.Resolve(path, force)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{URL: target, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.options.UserAgent)
	req.Header.Set("Accept", "application/json")
	for key, value := range f.options.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: target, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.options.MaxBodyBytes+1))
	if err != nil {
		return nil, &Error{URL: target, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > f.options.MaxBodyBytes {
		return nil, &Error{
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("body exceeds %d bytes", f.options.MaxBodyBytes),
			Cause:      ErrTooLarge,
		}
	}

	f.logger.Debug("fetched document",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	result := &Result{
		URL:         target,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// JSON reads the document at path and decodes it into v.
func (f *Fetcher) JSON(ctx context.Context, path string, force bool, v any) error {
	result, err := f.Get(ctx, path, force)
	if err != nil {
		return err
	}
	return Decode(result.URL, result.Body, v)
}

// Decode unmarshals a fetched body, reporting malformed content as *ParseError.
func Decode(source string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{URL: source, Message: "malformed JSON", Cause: err}
	}
	return nil
}
