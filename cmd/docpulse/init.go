package main

import (
	"fmt"
	"os"
	"path/filepath"

	"docpulse/internal/config"
	"docpulse/internal/errors"
	"docpulse/internal/store"

	"github.com/spf13/cobra"
)

var (
	initForce bool
)

// rulesScaffold documents the rules.yaml schema; everything is optional
const rulesScaffold = `# Optional rule overrides. User rules run before the builtin tables.
#
# noise:
#   botAuthors:
#     - internal-sync-bot
#   trivialMessages:
#     - '^auto-publish'
#
# categories:
#   - contains: billing
#     category: Billing
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docpulse configuration",
	Long:  "Creates a .docpulse/ directory with default configuration, feed definitions and a rules scaffold",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .docpulse directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := filepath.Join(rootFlag, config.DirName)

	if _, statErr := os.Stat(dir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success
			fmt.Println("docpulse already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(dir, "config.json"))
			fmt.Println("\nRun 'docpulse init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			return errors.New(errors.InternalError, "failed to remove existing .docpulse directory", removeErr)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New(errors.InternalError, "failed to create .docpulse directory", err)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(rootFlag); err != nil {
		return errors.New(errors.InternalError, "failed to write config file", err)
	}

	if err := config.DefaultFeeds().Save(rootFlag); err != nil {
		return errors.New(errors.InternalError, "failed to write feeds file", err)
	}

	rulesPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte(rulesScaffold), 0644); err != nil {
		return errors.New(errors.InternalError, "failed to write rules file", err)
	}

	// Create the database up front so the first refresh starts with a
	// ready schema.
	logger := newLogger(cfg)
	db, err := store.Open(rootFlag, logger)
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return errors.New(errors.InternalError, "failed to close database", err)
	}

	fmt.Println("docpulse initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", filepath.Join(dir, "config.json"))
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to point at your repositories\n", filepath.Join(dir, "feeds.toml"))
	fmt.Printf("  2. Export %s for a higher API rate limit\n", config.TokenEnvVar)
	fmt.Println("  3. Run 'docpulse refresh' to fetch the first batch")

	return nil
}
