package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/report-viewer/internal/dashboard"
	"github.com/jonathan/report-viewer/internal/summary"
	"github.com/jonathan/report-viewer/internal/view"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboards as static HTML files",
	Long:  "Renders the run dashboard, one detail page per recent run and the GEO report into a directory of static HTML files.",
	RunE:  runExport,
}

var (
	exportOutDir string
	exportMode   string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Output directory (required)")
	exportCmd.Flags().StringVarP(&exportMode, "mode", "m", string(summary.Full), "Detail page mode: full or compact")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	_, logger, app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	written, err := exportSite(cmd.Context(), app, exportOutDir, summary.ParseMode(exportMode), logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pages to %s\n", len(written), exportOutDir)
	return nil
}

// exportSite renders every page into outDir and returns the written file names.
// Region failures become placeholders in the pages; only write errors fail.
func exportSite(ctx context.Context, app *dashboard.App, outDir string, mode summary.Mode, logger *zap.Logger) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	links := view.StaticLinks()
	_ = app.Refresh(ctx, true)

	var written []string
	write := func(name, title string, body []*view.Node) error {
		path := filepath.Join(outDir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if err := view.WritePage(f, links, title, body...); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, name)
		logger.Debug("page written", zap.String("path", path))
		return nil
	}

	data := app.LoadDashboard(ctx, app.Snapshot(), links)
	if err := write(links.Home, dashboard.DashboardTitle, dashboard.RenderDashboard(data, links)); err != nil {
		return written, err
	}

	for _, card := range data.Cards {
		if card.Key == "" {
			continue
		}
		run, err := app.LoadRun(ctx, card.Key, mode, links)
		if err != nil {
			logger.Warn("skipping run page", zap.String("key", card.Key), zap.Error(err))
			continue
		}
		if err := write(links.Run(card.Key), dashboard.RunTitle(run.Entry), dashboard.RenderRun(run, links)); err != nil {
			return written, err
		}
	}

	if err := write(links.Geo, dashboard.GeoTitle, app.LoadGeo(ctx).Nodes()); err != nil {
		return written, err
	}
	return written, nil
}
