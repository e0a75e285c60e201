// statusd exposes the pipeline's run audit trail and health over HTTP for
// the operations dashboard.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/db"
	"github.com/crucial707/asset-recon/internal/handlers"
	"github.com/crucial707/asset-recon/internal/middleware"
	"github.com/crucial707/asset-recon/internal/repo"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
	if err != nil {
		slog.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	runsHandler := handlers.NewRunsHandler(repo.NewRunRepo(database))
	limiter := middleware.APIRateLimiter()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)

	r.Get("/health", handlers.Health(database))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(middleware.BearerToken(cfg.APIToken))
		r.Get("/api/runs", runsHandler.List)
	})

	slog.Info("statusd listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
