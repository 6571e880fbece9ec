package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tphummel/lab_stock/internal/handlers"
	"github.com/tphummel/lab_stock/internal/inventory"
	"github.com/tphummel/lab_stock/internal/metrics"
	"github.com/tphummel/lab_stock/internal/middleware"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// config is read from the environment.
type config struct {
	Token    string     `envconfig:"API_TOKEN" required:"true"`
	Port     string     `envconfig:"PORT" default:"8080"`
	LogLevel slog.Level `envconfig:"LOG_LEVEL" default:"info"`
}

// loadConfig reads service configuration from environment variables and
// applies defaults. It returns an error when API_TOKEN is absent or a value
// does not parse.
func loadConfig() (config, error) {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Token == "" {
		return config{}, errors.New("load config: API_TOKEN must not be empty")
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	store := inventory.New()

	reg := prometheus.NewRegistry()
	metrics.Register(reg, store)

	h := &handlers.Handler{Store: store, Logger: logger, Version: version, Commit: commit}

	mux := http.NewServeMux()
	h.Register(mux, cfg.Token)

	// Prometheus metrics, no auth
	mux.Handle("GET /metrics", metrics.Handler(reg))

	skip := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	}
	handler := middleware.RequestLogger(logger, skip, mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "version", version, "commit", commit)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped", "resources", store.Len())
}
