package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/report-viewer/internal/dashboard"
	"github.com/jonathan/report-viewer/internal/server"
	"github.com/jonathan/report-viewer/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboards over HTTP",
	Long:  `Start an HTTP server that renders the run dashboard, run detail pages and the GEO report on demand.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&flagConfig.Port, "port", "p", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().BoolVarP(&flagConfig.Watch, "watch", "w", false, "Reset caches when a local report directory changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed first load is shown on the dashboard; the server still starts.
	_ = app.EnsureLoaded(ctx)

	if cfg.Watch {
		w, err := startWatcher(ctx, app, logger)
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Stop()
		}
	}

	srv := server.New(app, server.Config{Port: cfg.Port, Logger: logger.Named("server")})
	return srv.Start(ctx)
}

// startWatcher resets the report caches whenever a local document changes.
// Remote report bases cannot be watched and yield a nil watcher.
func startWatcher(ctx context.Context, app *dashboard.App, logger *zap.Logger) (*watch.Watcher, error) {
	dir := app.Source().LocalDir()
	if dir == "" {
		logger.Warn("--watch ignored: reports are not in a local directory")
		return nil, nil
	}

	w, err := watch.New(dir, func(ctx context.Context, _ []string) {
		app.InvalidateDetails()
		_ = app.Refresh(ctx, true)
	}, logger.Named("watch"))
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
