package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docpulse/internal/store"
)

var (
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh all feeds on an interval until interrupted",
	Long: `Runs the refresh cycle for every feed, then sleeps for the interval and
repeats. The per-feed freshness gate still applies, so a short interval is
safe: feeds refreshed recently are skipped.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Hour, "Time between refresh cycles")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, feeds, rules, logger, err := loadSetup()
	if err != nil {
		return err
	}

	db, err := store.Open(rootFlag, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := buildRunner(cfg, rules, db, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %d feeds every %s (Ctrl+C to stop)\n", len(feeds.Feeds), watchInterval)

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		for i := range feeds.Feeds {
			feed := &feeds.Feeds[i]
			result, err := runner.Run(ctx, feed, false)
			if err != nil {
				// A failed cycle is logged and retried next tick; only
				// cancellation stops the loop.
				logger.Error("Refresh failed", map[string]interface{}{
					"feed":  feed.Name,
					"error": err.Error(),
				})
				continue
			}
			if !result.Skipped {
				logger.Info("Feed refreshed", map[string]interface{}{
					"feed":   feed.Name,
					"stored": result.UpdatesStored,
				})
			}
		}

		select {
		case <-ctx.Done():
			fmt.Println("\nStopping.")
			return nil
		case <-ticker.C:
		}
	}
}
