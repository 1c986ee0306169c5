package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"weather-dashboard-go/internal/publisher"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish unpublished forecasts to MQTT",
	Long: `Reads forecasts not yet published from the database and publishes each one as
retained JSON on <prefix>/daily/<date>. Rows that fail stay pending.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateMQTT(); err != nil {
		return err
	}

	log := newLogger(cmd)
	pub, err := publisher.New(cfg.MQTT, log.Entry)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	n, err := publisher.PublishPending(db, pub)
	fmt.Fprintf(out, "Published %d forecast(s)\n", n)
	return err
}
