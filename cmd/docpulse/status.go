package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"docpulse/internal/store"
	"docpulse/internal/updates"
)

var (
	statusRuns int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show feed freshness and recent run history",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusRuns, "runs", 5, "Number of recent runs to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, feeds, _, logger, err := loadSetup()
	if err != nil {
		return err
	}

	db, err := store.Open(rootFlag, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now().UTC()
	freshness := time.Duration(cfg.Window.FreshnessHours) * time.Hour

	fmt.Println("Feeds:")
	for i := range feeds.Feeds {
		feed := &feeds.Feeds[i]

		lastFetch, err := db.LastFetch(feed.Name)
		if err != nil {
			return err
		}
		list, err := db.LoadUpdates(feed.Name)
		if err != nil {
			return err
		}

		state := "stale"
		if !updates.ShouldRun(lastFetch, now, freshness) {
			state = "fresh"
		}
		fetched := "never"
		if !lastFetch.IsZero() {
			fetched = lastFetch.Format(time.RFC3339)
		}
		fmt.Printf("  %-16s %s  last fetch: %s  stored: %d/%d\n",
			feed.Name, state, fetched, len(list), feed.EffectiveCap(cfg.Caps))
	}

	runs, err := db.RecentRuns("", statusRuns)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Println("\nRecent runs:")
	for _, r := range runs {
		line := fmt.Sprintf("  %s  %-16s %-8s %d events, %d stored",
			r.StartedAt.Format(time.RFC3339), r.Feed, r.Status, r.EventsFetched, r.UpdatesStored)
		if r.Error != "" {
			line += "  " + r.Error
		}
		fmt.Println(line)
	}
	return nil
}
