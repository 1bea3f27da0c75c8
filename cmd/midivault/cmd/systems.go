package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/midivault/midivault/internal/cmdutil"
)

var systemsCounts bool

// systemRow is one line of systems output.
type systemRow struct {
	Name    string `json:"name"`
	Section string `json:"section"`
	Songs   int    `json:"songs,omitempty"`
}

// systemsCmd represents the systems command.
var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List the archive's systems",
	Long: `List every system (console) the archive indexes.

The plain listing comes from the index page or the cache and performs no
page fetches. With --counts each system's listing page is fetched (or
served from the cache) so song totals can be shown, and the cache file
is updated with whatever had to be fetched.`,
	Example: `  midivault systems                  # names and sections only
  midivault systems --counts         # include per-system song totals
  midivault systems -o json          # machine-readable output`,
	Args: cobra.NoArgs,
	RunE: runSystems,
}

func init() {
	systemsCmd.Flags().BoolVar(&systemsCounts, "counts", false,
		"Fetch every system's page and include song counts")
	rootCmd.AddCommand(systemsCmd)
}

func runSystems(cmd *cobra.Command, _ []string) error {
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
	cat := mv.Catalog()

	if systemsCounts {
		// Populate everything up front with bounded concurrency instead
		// of one fetch at a time in the loop below.
		if err := cat.ForceAll(ctx); err != nil {
			return err
		}
	}

	rows := make([]systemRow, 0, cat.Len())
	for _, name := range cat.Names() {
		system, ok := cat.Peek(name)
		if !ok {
			continue
		}
		row := systemRow{Name: name, Section: system.Section()}
		if systemsCounts {
			if row.Songs, err = system.TotalSongs(ctx); err != nil {
				return err
			}
		}
		rows = append(rows, row)
	}

	if systemsCounts {
		if err := saveCache(ctx, mv); err != nil {
			return err
		}
	}

	tableData := cmdutil.Data{Headers: []string{"Name", "Section"}}
	if systemsCounts {
		tableData.Headers = append(tableData.Headers, "Songs")
		tableData.Aligns = []cmdutil.Align{cmdutil.AlignLeft, cmdutil.AlignLeft, cmdutil.AlignRight}
	}
	for _, row := range rows {
		line := []string{row.Name, row.Section}
		if systemsCounts {
			line = append(line, strconv.Itoa(row.Songs))
		}
		tableData.Rows = append(tableData.Rows, line)
	}

	return render(tableData, rows)
}
