package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored forecasts",
	Long:  `Displays the most recent stored forecasts, newest date first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 30, "Number of rows to show")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	total, err := db.Count()
	if err != nil {
		return err
	}
	rows, err := db.Latest(listLimit)
	if err != nil {
		return fmt.Errorf("listing forecasts: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No forecasts stored")
		return nil
	}

	fmt.Fprintln(out, "------------------------------------------------------------------")
	fmt.Fprintf(out, "%-12s  %8s  %8s  %-20s  %s\n", "Date", "Max °C", "Min °C", "Condition", "Stored")
	fmt.Fprintln(out, "------------------------------------------------------------------")
	for _, f := range rows {
		fmt.Fprintf(out, "%-12s  %8.1f  %8.1f  %-20s  %s\n",
			f.Date, f.MaxTemp, f.MinTemp, f.WeatherCondition, storedAge(f.CreatedAt))
	}
	fmt.Fprintln(out, "------------------------------------------------------------------")
	fmt.Fprintf(out, "Showing %d of %s stored rows\n", len(rows), humanize.Comma(int64(total)))
	return nil
}

func storedAge(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return humanize.Time(t)
}
