package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"weather-dashboard-go/internal/feed"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest forecasts as the dashboard feed",
	Long:  `Serves GET /forecast with the most recent rows, newest date first, in the JSON shape the dashboard fetches.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (default FEED_PORT or 8081)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort != "" {
		cfg.Feed.Port = servePort
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	log := newLogger(cmd)
	h := feed.NewHandler(db, cfg.GetFeedLimit(), log)

	addr := fmt.Sprintf(":%s", cfg.Feed.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      log.Middleware(h.Routes()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{"addr": addr, "limit": cfg.GetFeedLimit()}).Info("feed listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving feed: %w", err)
	}
	return nil
}
