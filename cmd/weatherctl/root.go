package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"weather-dashboard-go/internal/config"
	"weather-dashboard-go/internal/logger"
	"weather-dashboard-go/internal/store"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "weatherctl",
	Short: "Manage the forecast data behind the weather dashboard",
	Long: `weatherctl ingests raw provider reports into a local SQLite store, serves
the latest rows as the JSON feed the dashboard reads, and publishes daily
forecasts to an MQTT broker.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config file and applies the --db flag on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	return cfg, nil
}

// openDB opens the database connection
func openDB(cfg *config.Config) (*store.DB, error) {
	path := cfg.Store.Path

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return store.New(path)
}

func newLogger(cmd *cobra.Command) *logger.Logger {
	return logger.NewWithOutput(cmd.ErrOrStderr())
}
