package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/midivault/midivault/internal/server"
	"github.com/midivault/midivault/pkg/logging"
)

var (
	serveHost        string
	servePort        int
	servePrefix      string
	serveRateLimit   int
	serveCORS        bool
	serveCORSOrigins []string
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Long: `Serve the catalog over HTTP.

The server exposes the archive index, per-system listings and regex
search under a JSON API, populating systems lazily as requests touch
them. On shutdown the populated part of the catalog is written back to
the cache file, so a warmed server leaves a warm cache behind.`,
	Example: `  midivault serve
  midivault serve --port 9090 --cors
  midivault serve -c archive.json --rate-limit 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := server.DefaultConfig()
	serveCmd.Flags().StringVar(&serveHost, "host", defaults.Host,
		"Host interface to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", defaults.Port,
		"Port to listen on")
	serveCmd.Flags().StringVar(&servePrefix, "prefix", defaults.PathPrefix,
		"Path prefix for API routes")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", defaults.RateLimit,
		"Requests per minute per client IP (0 to disable)")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", defaults.CORSEnabled,
		"Enable CORS headers")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origins", nil,
		"Allowed CORS origins (default all)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	cfg := server.DefaultConfig()
	cfg.Host = serveHost
	cfg.Port = servePort
	cfg.PathPrefix = servePrefix
	cfg.RateLimit = serveRateLimit
	cfg.CORSEnabled = serveCORS
	cfg.CORSOrigins = serveCORSOrigins
	cfg.SnapshotPath = cachePath()

	srv := server.New(mv, cfg, logging.Default())

	fmt.Printf("Serving the catalog on http://%s%s\n", cfg.Addr(), cfg.PathPrefix)
	fmt.Println("Press Ctrl+C to stop")

	return srv.ListenAndServe(ctx)
}
