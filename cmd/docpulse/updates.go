package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docpulse/internal/store"
)

var (
	updatesFeed   string
	updatesFormat string
	updatesLimit  int
)

var updatesCmd = &cobra.Command{
	Use:   "updates",
	Short: "List the stored updates",
	RunE:  runUpdates,
}

func init() {
	updatesCmd.Flags().StringVar(&updatesFeed, "feed", "", "Show only this feed")
	updatesCmd.Flags().StringVar(&updatesFormat, "format", "human", "Output format: human or json")
	updatesCmd.Flags().IntVar(&updatesLimit, "limit", 0, "Show at most this many updates per feed (0 = all)")
	rootCmd.AddCommand(updatesCmd)
}

func runUpdates(cmd *cobra.Command, args []string) error {
	_, feeds, _, logger, err := loadSetup()
	if err != nil {
		return err
	}

	selected, err := selectFeeds(feeds, updatesFeed)
	if err != nil {
		return err
	}

	db, err := store.Open(rootFlag, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	for i := range selected {
		feed := &selected[i]
		list, err := db.LoadUpdates(feed.Name)
		if err != nil {
			return err
		}
		if updatesLimit > 0 && len(list) > updatesLimit {
			list = list[:updatesLimit]
		}

		if updatesFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]interface{}{
				"feed":    feed.Name,
				"updates": list,
			}); err != nil {
				return err
			}
			continue
		}

		fmt.Printf("%s (%d updates)\n", feed.Name, len(list))
		for _, u := range list {
			fmt.Printf("  %s  [%s]  %s\n", u.Date.UTC().Format("2006-01-02"), u.Category, u.Title)
			if u.Summary != "" {
				fmt.Printf("      %s\n", u.Summary)
			}
			fmt.Printf("      %s\n", u.URL)
		}
		fmt.Println()
	}
	return nil
}
