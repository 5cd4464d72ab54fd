package main

import (
	"os"
	"testing"

	"github.com/jonathan/report-viewer/internal/config"
)

// TestMain clears the REPORT_VIEWER_* variables so a developer's shell or .env
// cannot point the command tests at a real report location.
func TestMain(m *testing.M) {
	for _, name := range []string{
		config.EnvBaseURL,
		config.EnvPort,
		config.EnvTargetSubstring,
		config.EnvLogLevel,
		config.EnvTimeout,
	} {
		_ = os.Unsetenv(name)
	}

	os.Exit(m.Run())
}
