package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weather-dashboard-go/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load raw provider reports into the database",
	Long: `Reads every .json and .xlsx file in the raw directory, converts the rows to
Celsius daily forecasts, stores them (one row per date) and moves each file
to the processed directory. Files that fail are left where they are.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	p := &ingest.Processor{
		RawDir:       cfg.Ingest.RawDir,
		ProcessedDir: cfg.Ingest.ProcessedDir,
		Store:        db,
		Log:          newLogger(cmd).Component("ingest"),
	}
	res, err := p.Run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d file(s): %d row(s) read, %d new\n", res.Files, res.Rows, res.Added)
	for _, name := range res.Skipped {
		fmt.Fprintf(out, "  left in place: %s\n", name)
	}
	return nil
}
