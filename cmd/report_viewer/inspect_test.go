package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/report-viewer/internal/dashboard"
	"github.com/jonathan/report-viewer/internal/summary"
)

func TestInspect_NewestRun(t *testing.T) {
	app := newTestApp(t, writeReports(t))
	var buf bytes.Buffer

	require.NoError(t, inspect(context.Background(), app, &buf, "", summary.Full, true))
	output := buf.String()

	assert.Contains(t, output, "RUNS (2)")
	assert.Contains(t, output, "KEYWORDS · Nightly")
	assert.Contains(t, output, "Hit rate: 100%")
	assert.Contains(t, output, "Mentioned once in the answer.")
	assert.Contains(t, output, "Run ID: geo-1")
}

func TestInspect_UnknownRun(t *testing.T) {
	app := newTestApp(t, writeReports(t))

	err := inspect(context.Background(), app, &bytes.Buffer{}, "nope", summary.Full, false)
	var unknown *dashboard.UnknownRunError
	assert.True(t, errors.As(err, &unknown))
}

func TestInspect_MissingDetail(t *testing.T) {
	app := newTestApp(t, writeReports(t))

	err := inspect(context.Background(), app, &bytes.Buffer{}, "run-2", summary.Full, false)
	assert.Error(t, err)
}
