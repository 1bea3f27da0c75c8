package cmd

import (
	"github.com/spf13/cobra"

	"github.com/midivault/midivault/pkg/logging"
)

var refreshFull bool

// refreshCmd represents the refresh command.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Crawl the archive and rewrite the cache file",
	Long: `Fetch the archive index, populate every system, and write the result
to the cache file. Once the cache is warm the other commands run without
touching the archive at all.

By default systems already covered by the cache keep their data and only
systems the cache lacks are fetched. --full discards the cache and
re-crawls the entire archive, picking up songs added since the last
crawl.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().BoolVar(&refreshFull, "full", false,
		"Discard cached data and re-crawl every system")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	mv, err := newClient()
	if err != nil {
		return err
	}
	defer mv.Close()

	if refreshFull {
		err = mv.Refresh(ctx)
	} else {
		err = mv.Update(ctx)
	}
	if err != nil {
		return err
	}

	// Save serializes the full catalog, fetching every system page the
	// cache does not already cover.
	if err := mv.Save(ctx); err != nil {
		return err
	}

	cat := mv.Catalog()
	songs, err := cat.TotalSongs(ctx)
	if err != nil {
		return err
	}
	if !quiet {
		logging.Info().Msgf("Cached %d songs across %d systems to %s",
			songs, cat.Len(), cachePath())
	}
	return nil
}
