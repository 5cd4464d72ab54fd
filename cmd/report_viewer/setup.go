package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/report-viewer/internal/config"
	"github.com/jonathan/report-viewer/internal/dashboard"
	"github.com/jonathan/report-viewer/internal/fetch"
	"github.com/jonathan/report-viewer/internal/filter"
	"github.com/jonathan/report-viewer/internal/logging"
	"github.com/jonathan/report-viewer/internal/reports"
)

var (
	configPath string
	flagConfig config.Config
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	flags.StringVarP(&flagConfig.BaseURL, "base", "b", "", "Report location: http(s) base URL or local directory (default \".\")")
	flags.StringVar(&flagConfig.TargetSubstring, "target", "", "Substring flagged in keyword hits and responses")
	flags.StringVar(&flagConfig.IndexPath, "index-path", "", "Run index path relative to the base")
	flags.StringVar(&flagConfig.GeoReportPath, "geo-path", "", "GEO report path relative to the base")
	flags.StringVar(&flagConfig.Timeout, "timeout", "", "Document read timeout (default 15s)")
	flags.StringVar(&flagConfig.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	flags.BoolVarP(&flagConfig.Verbose, "verbose", "v", false, "Development logging")
}

// loadConfig layers flags over environment over the config file over defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(flagConfig, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newApp wires the fetcher, report source and application state for cfg.
func newApp(cfg *config.Config, logger *zap.Logger) (*dashboard.App, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	opts := fetch.DefaultOptions()
	if timeout > 0 {
		opts.Timeout = timeout
	}
	fetcher, err := fetch.New(cfg.BaseURL, opts, logger.Named("fetch"))
	if err != nil {
		return nil, fmt.Errorf("failed to open reports: %w", err)
	}

	source := reports.NewSource(fetcher, reports.Paths{
		Index:           cfg.IndexPath,
		SiteDictionary:  cfg.SiteDictionaryPath,
		ResumeQuestions: cfg.ResumeQuestionsPath,
		GeoReport:       cfg.GeoReportPath,
	}, logger.Named("reports"))

	recency := filter.DefaultRecency()
	if window > 0 {
		recency.Window = window
	}
	if cfg.RecencyLimit > 0 {
		recency.Limit = cfg.RecencyLimit
	}

	return dashboard.New(source, dashboard.Options{
		Recency: recency,
		Target:  cfg.TargetSubstring,
		Logger:  logger.Named("dashboard"),
	}), nil
}

// setup resolves configuration and builds the logger and App for a command.
func setup(_ *cobra.Command) (*config.Config, *zap.Logger, *dashboard.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app, err := newApp(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return cfg, logger, app, nil
}
