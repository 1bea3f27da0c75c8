package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/midivault/midivault/internal/cmdutil"
	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/logging"
)

// searchCmd represents the search command.
var searchCmd = &cobra.Command{
	Use:   "search [field=regex ...]",
	Short: "Search the whole archive by regular expression",
	Long: `Search every song in the archive.

Each argument is a field=regex pair; a song matches when every pattern
matches its field. Patterns match anywhere in the field, so anchor with
^ and $ for exact matches. Recognized fields: system, game, url, title,
size, author, checksum.

Searching walks the entire archive, so the first run fetches every
system page the cache does not cover yet. The cache file is updated
afterwards, making later searches free.`,
	Example: `  # songs with 'battle' or 'Battle' in the title
  midivault search "title=[Bb]attle"

  # exact system and game, title prefix
  midivault search "system=^SNES$" "game=^Chrono Trigger$" "title=^[Mm]agus"

  # everything sequenced by one author, as JSON
  midivault search "author=Kern" -o json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	patterns, err := cmdutil.ParseQuery(args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	mv, err := newClient()
	if err != nil {
		return err
	}
	defer mv.Close()

	if err := ensureIndex(ctx, mv); err != nil {
		return err
	}

	matches, err := mv.Catalog().SearchRegexp(ctx, patterns)
	if err != nil {
		return err
	}

	if err := saveCache(ctx, mv); err != nil {
		return err
	}

	if !quiet {
		logging.Info().Msgf("Found %d songs", len(matches))
	}

	return render(matchTableData(matches), matches)
}

// matchTableData shapes search matches for table output.
func matchTableData(matches []catalog.Match) cmdutil.Data {
	data := cmdutil.Data{
		Headers: []string{"System", "Game", "Title", "Size", "Author"},
		Aligns: []cmdutil.Align{
			cmdutil.AlignLeft, cmdutil.AlignLeft, cmdutil.AlignLeft,
			cmdutil.AlignRight, cmdutil.AlignLeft,
		},
	}
	for _, m := range matches {
		data.Rows = append(data.Rows, []string{
			m.System,
			m.Game,
			m.Song.Title,
			strconv.Itoa(m.Song.Size),
			m.Song.Author,
		})
	}
	return data
}
