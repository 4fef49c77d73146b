package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Prints the merged configuration (defaults overlaid with .docpulse/config.json) as JSON. Token values are redacted.",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, feeds, _, _, err := loadSetup()
	if err != nil {
		return err
	}

	shown := *cfg
	if shown.GitHub.Token != "" {
		shown.GitHub.Token = "<redacted>"
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(shown); err != nil {
		return err
	}

	fmt.Printf("\nFeeds defined: %d\n", len(feeds.Feeds))
	for _, f := range feeds.Feeds {
		fmt.Printf("  %s (%s) %s/%s\n", f.Name, f.Kind, f.Owner, f.Repo)
	}
	return nil
}
