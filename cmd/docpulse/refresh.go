package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docpulse/internal/store"
)

var (
	refreshFeed  string
	refreshForce bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch recent changes and update the stored feeds",
	Long: `Runs the full pipeline for each feed: fetch commits and merged pull
requests, drop noise, group related edits, summarize, and merge the result
into the stored update list.

A feed that was fetched recently is skipped unless --force is given.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().StringVar(&refreshFeed, "feed", "", "Refresh only this feed")
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "Ignore the freshness gate")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, feeds, rules, logger, err := loadSetup()
	if err != nil {
		return err
	}

	selected, err := selectFeeds(feeds, refreshFeed)
	if err != nil {
		return err
	}

	db, err := store.Open(rootFlag, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := buildRunner(cfg, rules, db, logger)

	for i := range selected {
		feed := &selected[i]
		result, err := runner.Run(cmd.Context(), feed, refreshForce)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Printf("%s: fresh, skipped\n", feed.Name)
			continue
		}
		fmt.Printf("%s: %d events, %d sessions, %d updates stored\n",
			feed.Name, result.EventsFetched, result.Sessions, result.UpdatesStored)
	}
	return nil
}
