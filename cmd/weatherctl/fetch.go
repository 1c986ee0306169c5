package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"weather-dashboard-go/internal/dataset"
	"weather-dashboard-go/internal/highlights"
	"weather-dashboard-go/internal/lifecycle"
	"weather-dashboard-go/internal/projection"
	"weather-dashboard-go/internal/source"
)

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a feed once and print its projections",
	Long: `Runs one dashboard activation against a feed URL (default DASHBOARD_API_URL)
and prints the projected series and highlights as JSON. Exits non-zero when
the activation ends in an error state.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "feed URL (default DASHBOARD_API_URL)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if fetchURL != "" {
		cfg.Dashboard.APIURL = fetchURL
	}
	if err := cfg.ValidateDashboard(); err != nil {
		return err
	}

	log := newLogger(cmd)
	fields := dataset.FieldMap{
		Date:     cfg.Fields.Date,
		High:     cfg.Fields.High,
		Low:      cfg.Fields.Low,
		Category: cfg.Fields.Category,
	}
	client := source.NewClient(cfg.Dashboard.APIURL, cfg.Dashboard.FetchTimeout, log.Entry)
	ctrl := lifecycle.NewController(client, fields, log.Entry)

	select {
	case <-ctrl.Activate(cmd.Context()):
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	switch st := ctrl.State().(type) {
	case lifecycle.Failed:
		return fmt.Errorf("%s (%s failure)", st.Message, st.Kind)
	case lifecycle.Ready:
		series := projection.Project(st.Dataset())
		out := struct {
			projection.Series
			Highlights []highlights.Card `json:"highlights"`
		}{series, highlights.Generate(series)}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("activation did not settle")
	}
}
