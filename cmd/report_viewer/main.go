// Package main provides the entry point for the report viewer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "report_viewer",
	Short:        "Evaluation run report viewer",
	Long:         "Report viewer reads pre-generated JSON run reports and renders dashboards for keyword coverage, resume impact and GEO results.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
