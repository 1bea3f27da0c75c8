package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/midivault/midivault/internal/cmdutil"
)

// gameRow is one line of games output.
type gameRow struct {
	Game  string `json:"game"`
	Songs int    `json:"songs"`
}

// gamesCmd represents the games command.
var gamesCmd = &cobra.Command{
	Use:   "games <system>",
	Short: "List the games in one system",
	Long: `List every game in one system together with its song count.

The system's listing page is fetched on first use and then served from
the cache file, which is updated after the fetch. System names are the
display names from the index, e.g. "Nintendo 64"; quote names that
contain spaces.`,
	Example: `  midivault games "Nintendo 64"
  midivault games "Sony PlayStation 4" -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runGames,
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}

func runGames(cmd *cobra.Command, args []string) error {
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

	system, err := mv.Catalog().System(ctx, args[0])
	if err != nil {
		return err
	}

	games, err := system.Games(ctx)
	if err != nil {
		return err
	}

	rows := make([]gameRow, 0, len(games))
	for _, game := range games {
		songs, err := system.Songs(ctx, game)
		if err != nil {
			return err
		}
		rows = append(rows, gameRow{Game: game, Songs: len(songs)})
	}

	if err := saveCache(ctx, mv); err != nil {
		return err
	}

	tableData := cmdutil.Data{
		Headers: []string{"Game", "Songs"},
		Aligns:  []cmdutil.Align{cmdutil.AlignLeft, cmdutil.AlignRight},
	}
	for _, row := range rows {
		tableData.Rows = append(tableData.Rows, []string{row.Game, strconv.Itoa(row.Songs)})
	}

	return render(tableData, rows)
}
