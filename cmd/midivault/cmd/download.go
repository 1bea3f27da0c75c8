package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/midivault/midivault/internal/cmdutil"
	"github.com/midivault/midivault/pkg/catalog"
	"github.com/midivault/midivault/pkg/constants"
	"github.com/midivault/midivault/pkg/download"
	"github.com/midivault/midivault/pkg/logging"
)

var (
	downloadDest         string
	downloadConcurrency  int
	downloadVerify       bool
	downloadSkipExisting bool
	downloadYes          bool
)

// downloadCmd represents the download command.
var downloadCmd = &cobra.Command{
	Use:   "download [field=regex ...]",
	Short: "Download songs matching a search query",
	Long: `Search the archive and download every matching MIDI file.

Arguments take the same field=regex form as the search command. With no
arguments every song in the archive is downloaded, which is rarely what
you want, so a confirmation prompt guards that path (--yes skips it).

Files are written into --dest using names derived from the song titles.
Each file is checked against the size and MD5 checksum the archive
lists for it; pass --verify=false to keep unverified bytes. Failed
songs never abort the rest of the batch; the command reports each one
and exits non-zero if any song could not be downloaded.`,
	Example: `  # one game's songs into ./chrono
  midivault download "system=^SNES$" "game=^Chrono Trigger$" -d chrono

  # resume an interrupted batch without re-fetching finished files
  midivault download "system=^NES$" -d nes --skip-existing`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadDest, "dest", "d", ".",
		"Directory to download MIDI files into")
	downloadCmd.Flags().IntVarP(&downloadConcurrency, "concurrency", "n", constants.DefaultDownloadWorkers,
		"Number of concurrent downloads")
	downloadCmd.Flags().BoolVar(&downloadVerify, "verify", true,
		"Verify downloaded bytes against the archive's size and MD5 checksum")
	downloadCmd.Flags().BoolVar(&downloadSkipExisting, "skip-existing", false,
		"Leave files that already exist in the destination untouched")
	downloadCmd.Flags().BoolVarP(&downloadYes, "yes", "y", false,
		"Skip confirmation prompts")
}

func runDownload(cmd *cobra.Command, args []string) error {
	patterns, err := cmdutil.ParseQuery(args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	if len(patterns) == 0 {
		confirmed, err := confirmDownloadAll()
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

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

	// The search above walked the whole archive; persist that work even
	// if the downloads themselves are interrupted.
	if err := saveCache(ctx, mv); err != nil {
		return err
	}

	if len(matches) == 0 {
		if !quiet {
			logging.Info().Msg("No songs matched the query")
		}
		return nil
	}

	songs := make([]catalog.Song, len(matches))
	for i, m := range matches {
		songs[i] = m.Song
	}

	if !quiet {
		logging.Info().Msgf("Downloading %d songs to %s", len(songs), downloadDest)
	}

	results, err := download.Batch(ctx, songs, downloadDest,
		download.WithConcurrency(downloadConcurrency),
		download.WithVerify(downloadVerify),
		download.WithSkipExisting(downloadSkipExisting),
	)
	if err != nil {
		return err
	}

	rows, failed, skipped := downloadRows(results)
	if err := render(downloadTableData(rows), rows); err != nil {
		return err
	}

	if !quiet {
		logging.Info().Msgf("Downloaded %d songs (%d skipped, %d failed)",
			len(results)-failed-skipped, skipped, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(results))
	}
	return nil
}

// confirmDownloadAll warns that an empty query covers the entire archive
// and asks the user to confirm. Returns true to proceed.
func confirmDownloadAll() (bool, error) {
	if downloadYes {
		return true, nil
	}

	fmt.Fprintf(os.Stderr, "WARNING: no search query given, this downloads every MIDI file in the archive.\n")
	fmt.Printf("Continue? (y/N): ")
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		response = "n"
	}
	response = strings.ToLower(strings.TrimSpace(response))

	if response != "y" && response != "yes" {
		fmt.Println("Download cancelled")
		return false, nil
	}
	return true, nil
}

// downloadRow is one batch result shaped for output.
type downloadRow struct {
	Title  string `json:"title"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// downloadRows flattens batch results into output rows and tallies the
// skipped and failed counts.
func downloadRows(results []download.Result) (rows []downloadRow, failed, skipped int) {
	rows = make([]downloadRow, 0, len(results))
	for _, res := range results {
		row := downloadRow{
			Title:  res.Song.Title,
			Size:   res.Size,
			Status: "ok",
			Path:   res.Path,
		}
		switch {
		case res.Err != nil:
			row.Status = "failed"
			row.Error = res.Err.Error()
			failed++
		case res.Skipped:
			row.Status = "skipped"
			skipped++
		}
		rows = append(rows, row)
	}
	return rows, failed, skipped
}

// downloadTableData shapes batch results for table output.
func downloadTableData(rows []downloadRow) cmdutil.Data {
	data := cmdutil.Data{
		Headers: []string{"Title", "Size", "Status", "Path"},
		Aligns: []cmdutil.Align{
			cmdutil.AlignLeft, cmdutil.AlignRight, cmdutil.AlignLeft, cmdutil.AlignLeft,
		},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, []string{
			row.Title,
			strconv.FormatInt(row.Size, 10),
			row.Status,
			row.Path,
		})
	}
	return data
}
