package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docpulse/internal/render"
	"docpulse/internal/store"
)

var (
	renderFeed  string
	renderOut   string
	renderGzip  bool
	renderTitle string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the stored updates as a markdown fragment",
	Long: `Renders each feed's update list as an embeddable markdown fragment and
prints its content digest. With --out the fragment is written to
<dir>/<feed>.md instead of stdout; --gzip adds a compressed sibling for
static hosting.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderFeed, "feed", "", "Render only this feed")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Write fragments to this directory instead of stdout")
	renderCmd.Flags().BoolVar(&renderGzip, "gzip", false, "Also write a gzip artifact (requires --out)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "Recent Updates", "Fragment heading")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	_, feeds, _, logger, err := loadSetup()
	if err != nil {
		return err
	}

	selected, err := selectFeeds(feeds, renderFeed)
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

		fragment := render.Render(renderTitle, list)

		if renderOut != "" {
			if err := render.WriteArtifact(renderOut, feed.Name, fragment, renderGzip); err != nil {
				return err
			}
			fmt.Printf("%s: wrote %d bytes, digest %s\n", feed.Name, len(fragment.Markdown), fragment.Digest)
			continue
		}

		os.Stdout.Write(fragment.Markdown)
		fmt.Fprintf(os.Stderr, "%s digest: %s\n", feed.Name, fragment.Digest)
	}
	return nil
}
