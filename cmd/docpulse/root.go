package main

import (
	"docpulse/internal/version"

	"github.com/spf13/cobra"
)

var (
	// rootFlag is the workspace containing the .docpulse directory
	rootFlag string

	// logLevelFlag overrides the configured log level
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "docpulse",
	Short: "docpulse - documentation change tracker",
	Long: `docpulse watches the commit and pull-request activity of documentation
repositories, filters out noise, groups related edits per document, and maintains
a capped rolling list of summarized updates ready to embed in a site.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("docpulse version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Workspace directory containing .docpulse")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Override log level: debug, info, warn, error")
}
