package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/report-viewer/internal/cache"
	"github.com/jonathan/report-viewer/internal/dashboard"
	"github.com/jonathan/report-viewer/internal/keywords"
	"github.com/jonathan/report-viewer/internal/observability"
	"github.com/jonathan/report-viewer/internal/summary"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [run-id]",
	Short: "Print a run's keyword coverage and resume impact summary",
	Long:  "Prints the recent runs, then the keyword totals and resume impact summary of one run (the newest by default). With --geo the GEO report is printed as well.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

var (
	inspectMode string
	inspectGeo  bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectMode, "mode", "m", string(summary.Full), "Summary mode: full or compact")
	inspectCmd.Flags().BoolVar(&inspectGeo, "geo", false, "Also print the GEO report")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, logger, app, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	key := ""
	if len(args) == 1 {
		key = args[0]
	}
	return inspect(cmd.Context(), app, cmd.OutOrStdout(), key, summary.ParseMode(inspectMode), inspectGeo)
}

// inspect prints the recent runs and the aggregate and summary of run key, or
// of the newest run when key is empty.
func inspect(ctx context.Context, app *dashboard.App, out io.Writer, key string, mode summary.Mode, showGeo bool) error {
	if err := app.Refresh(ctx, false); err != nil {
		return fmt.Errorf("failed to load run index: %w", err)
	}

	p := observability.NewPrinter(out)
	snap := app.Snapshot()
	p.PrintIndex(snap.Recent, time.Now())

	if key == "" {
		if len(snap.Recent) == 0 {
			return nil
		}
		key = cache.EntryKey(snap.Recent[0])
	}
	entry, ok := app.Lookup(key)
	if !ok {
		return &dashboard.UnknownRunError{Key: key}
	}
	detail, err := app.Detail(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", key, err)
	}

	agg := keywords.Compute(detail, app.Target())
	prompts, _ := app.Prompts(ctx)
	p.PrintAggregate(entry.Title(), agg)
	p.PrintSummary(summary.Build(agg.Insights, agg.SummaryText, mode, prompts))

	if showGeo {
		report, err := app.Source().GeoReport(ctx)
		if err != nil {
			fmt.Fprintf(out, "GEO report unavailable: %v\n", err)
			return nil
		}
		p.PrintGeo(report)
	}
	return nil
}
