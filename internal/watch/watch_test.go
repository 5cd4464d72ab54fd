package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) record(_ context.Context, paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *recorder) all() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.batches...)
}

func TestWatcher_DebouncesJSONChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	runs := filepath.Join(dir, "runs")
	require.NoError(t, os.MkdirAll(runs, 0o755))

	rec := &recorder{}
	w, err := New(dir, rec.record, nil)
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)
	require.NoError(t, w.Start(context.Background()))

	index := filepath.Join(runs, "index.json")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(index, []byte(`{"entries":[]}`), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(runs, "notes.txt"), []byte("ignored"), 0o644))

	require.Eventually(t, func() bool { return len(rec.all()) > 0 }, 5*time.Second, 20*time.Millisecond)
	w.Stop()

	batches := rec.all()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{index}, batches[0])

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.Equal(t, 1, stats.Batches)
	assert.Equal(t, index, stats.LastEventPath)
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	rec := &recorder{}
	w, err := New(dir, rec.record, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	geo := filepath.Join(dir, "geo")
	require.NoError(t, os.MkdirAll(geo, 0o755))
	report := filepath.Join(geo, "geo-report.json")

	// The new directory is added asynchronously; keep writing until seen.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(report, []byte(`{}`), 0o644)
		for _, batch := range rec.all() {
			for _, p := range batch {
				if p == report {
					return true
				}
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "missing"), nil, nil)
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := New(t.TempDir(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()
	w.Stop()
	assert.Equal(t, 0, w.Stats().Batches)
}
