// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mazflix/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagPlayer string
	flagAPIKey string
	flagJSON   bool
	flagDebug  bool
)

// cfg holds the loaded configuration (merged: defaults < config file < env < flags).
var cfg *config.Config

// logger writes to the debug log file, or nowhere.
var (
	logger  = slog.New(slog.DiscardHandler)
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "mazflix [query]",
	Short: "Browse and watch movies from the terminal",
	Long: `MazFlix browses TMDB movie metadata and plays public-domain films
through mpv with keyboard and mouse playback controls.`,
	Args:               cobra.ArbitraryArgs,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLog,
	RunE:               browseRun,
	SilenceUsage:       true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "TMDB API key (default: $"+config.APIKeyEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print results as JSON instead of opening the TUI")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Write debug logs to the state directory")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(streamingCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(faqCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mazflix %s\n", Version)
	},
}

// loadConfig loads and merges configuration, then sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagAPIKey != "" {
		cfg.TMDBAPIKey = flagAPIKey
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		if err := openLog(); err != nil {
			return err
		}
	}
	return nil
}

// openLog points logger at the debug log. The TUI owns the terminal, so
// nothing is logged to stderr.
func openLog() error {
	path, err := config.LogPath()
	if err != nil {
		return fmt.Errorf("resolving log path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting", "version", Version, "player", cfg.Player)
	return nil
}

func closeLog(cmd *cobra.Command, args []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...any) {
	if cfg != nil && cfg.Debug {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

// interactive reports whether to start the TUI rather than print.
func interactive() bool {
	return !flagJSON && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}
