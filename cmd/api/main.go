package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weather-dashboard-go/internal/config"
	"weather-dashboard-go/internal/dashboard"
	"weather-dashboard-go/internal/dataset"
	"weather-dashboard-go/internal/lifecycle"
	"weather-dashboard-go/internal/logger"
	"weather-dashboard-go/internal/source"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "weather-dashboard").Info("starting service")

	cfg, err := config.Load(envOr("CONFIG_PATH", config.DefaultConfigPath()))
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if err := cfg.ValidateDashboard(); err != nil {
		log.WithError(err).Fatal("invalid dashboard config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fields := dataset.FieldMap{
		Date:     cfg.Fields.Date,
		High:     cfg.Fields.High,
		Low:      cfg.Fields.Low,
		Category: cfg.Fields.Category,
	}
	client := source.NewClient(cfg.Dashboard.APIURL, cfg.Dashboard.FetchTimeout, log.Entry)
	ctrl := lifecycle.NewController(client, fields, log.Entry)

	log.WithField("api_url", cfg.Dashboard.APIURL).Info("fetching dashboard data")
	ctrl.Activate(ctx)

	handler := dashboard.NewServer(ctrl, log).Routes()

	addr := fmt.Sprintf(":%s", cfg.Dashboard.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      log.Middleware(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown did not complete cleanly")
		}
	}()

	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
