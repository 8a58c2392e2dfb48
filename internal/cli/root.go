// Package cli implements the command-line interface for nxncube.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/nxncube/internal/config"
	"github.com/SeamusWaldron/nxncube/internal/logging"
	"github.com/SeamusWaldron/nxncube/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "nxncube",
	Short: "N×N×N cube move engine",
	Long: `nxncube - A move engine for N×N×N twisty puzzles.

Apply move sequences, play in the terminal with keyboard controls, record
timed solves to SQLite, replay them, and share a puzzle between players
through a websocket replication hub.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.nxncube/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.nxncube/nxncube.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if p, err := config.DefaultPath("config.yaml"); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the command logger. Interactive commands pass quiet so
// log lines do not tear the TUI; they still reach the log dir if set.
func newLogger(cfg *config.Config, service string, quiet bool) *logging.Logger {
	lc := cfg.LoggingConfig(service)
	lc.Quiet = quiet
	return logging.New(lc)
}

func openDB(cfg *config.Config) (*storage.DB, error) {
	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// sizeOrDefault returns the --size flag value, or the configured size.
func sizeOrDefault(cfg *config.Config, flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Cube.Size
}
