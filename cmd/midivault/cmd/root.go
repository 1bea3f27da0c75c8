// Package cmd implements the midivault command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/midivault/midivault"
	"github.com/midivault/midivault/internal/cmdutil"
	"github.com/midivault/midivault/pkg/logging"
)

var (
	configFile   string
	cacheFile    string
	outputFormat string
	verbose      bool
	quiet        bool
	noColor      bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "midivault",
	Short: "VGMusic MIDI archive client",
	Long: `Midivault is a caching client for the VGMusic MIDI archive.

It crawls the archive's system pages lazily, keeps what it has seen in a
snapshot cache file, and can search the whole archive by regular
expression and batch-download songs with integrity verification.

The cache file is loaded before every command and written back after
commands that fetched new data, so repeated runs only touch the archive
for pages the cache does not cover yet.`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	// Set version information
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Pass context to root command
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.midivault.yaml)")
	rootCmd.PersistentFlags().StringVarP(&cacheFile, "cache", "c", "cache.json", "snapshot cache file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "",
		"Output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Bind flags to viper
	if err := viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache")); err != nil {
		panic(fmt.Sprintf("Failed to bind cache flag: %v", err))
	}
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".midivault" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".midivault")
	}

	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up environment variable handling
	viper.AutomaticEnv() // Read in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Configure logging based on verbose flag and environment
	configureLogging()
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	// Setup output format based on terminal detection
	if outputFormat == "" {
		outputFormat = string(cmdutil.DetectFormat(""))
	}

	return nil
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	// Determine log level
	level := zerolog.InfoLevel
	if verbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if quiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	// Configure the logger
	config := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		NoColor:   noColor,
		AddCaller: level <= zerolog.DebugLevel,
	}

	// Use auto format detection if not specified
	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	logging.Configure(config)
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// Try to load .env files in order of precedence
	// .env.local overrides .env
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil && verbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
		}
	}
}

// cachePath returns the snapshot cache file in effect, from the flag,
// config file or environment.
func cachePath() string {
	return viper.GetString("cache")
}

// newClient builds the midivault client a command works with, seeded from
// the snapshot cache file when it exists.
func newClient() (midivault.Client, error) {
	var opts []midivault.Option
	if path := cachePath(); path != "" {
		opts = append(opts, midivault.WithCache(path))
	}
	return midivault.New(opts...)
}

// ensureIndex makes sure the catalog knows the archive's systems. A
// catalog seeded from a cache file already does; on a cold start this
// fetches the index page once.
func ensureIndex(ctx context.Context, mv midivault.Client) error {
	if mv.Catalog().Len() > 0 {
		return nil
	}
	return mv.Update(ctx)
}

// saveCache writes the populated part of the catalog back to the cache
// file, so systems a command populated are free on the next run. With no
// cache file configured this is a no-op.
func saveCache(ctx context.Context, mv midivault.Client) error {
	path := cachePath()
	if path == "" {
		return nil
	}
	snapshot, err := mv.Catalog().PopulatedSnapshot(ctx)
	if err != nil {
		return err
	}
	if len(snapshot) == 0 {
		return nil
	}
	if err := midivault.WriteSnapshotFile(path, snapshot); err != nil {
		return err
	}
	logging.Debug().
		Str("cache", path).
		Int("systems", len(snapshot)).
		Msg("snapshot cache written")
	return nil
}

// render writes data to stdout in the selected output format: table data
// for humans, the structured value for json and yaml.
func render(tableData cmdutil.Data, structured any) error {
	format, err := cmdutil.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	formatter := cmdutil.NewFormatter(format)
	switch format {
	case cmdutil.FormatJSON, cmdutil.FormatYAML:
		return formatter.Format(os.Stdout, structured)
	default:
		return formatter.Format(os.Stdout, tableData)
	}
}
