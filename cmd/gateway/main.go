package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"leadgate/internal/captcha"
	"leadgate/internal/config"
	"leadgate/internal/intake"
	"leadgate/internal/ratelimit"
	"leadgate/internal/server"
	"leadgate/internal/storage"
	"leadgate/internal/storage/airtable"
	"leadgate/internal/storage/memory"
	"leadgate/internal/storage/sqlite"
	"leadgate/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize OpenTelemetry
	shutdownTracer, err := telemetry.InitTracer("lead-gateway", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	var captchaOpts []captcha.ClientOption
	if cfg.Turnstile.BaseURL != "" {
		captchaOpts = append(captchaOpts, captcha.WithBaseURL(cfg.Turnstile.BaseURL))
	}
	verifier := captcha.NewClient(cfg.Turnstile.SecretKey, captchaOpts...)

	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)

	handler := intake.NewHandler(limiter, verifier, store)

	srv := server.New(cfg.Server.Port, logger)

	// The submission handler owns method gating, so it is registered for
	// every method rather than POST only.
	srv.Router.HandleFunc("/api/submit-lead", handler.HandleSubmitLead)
	srv.Router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	logger.Info("lead gateway started",
		slog.Int("port", cfg.Server.Port),
		slog.String("storage", cfg.Storage.Type),
		slog.Duration("ratelimit_window", cfg.RateLimit.Window),
		slog.Int("ratelimit_max", cfg.RateLimit.MaxRequests),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server failed: %v", err)
	case <-sigChan:
		logger.Info("shutdown signal received, stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

func newStore(cfg *config.Config) (storage.LeadStore, error) {
	switch cfg.Storage.Type {
	case "airtable":
		return airtable.New(cfg.Storage.Airtable.APIKey, cfg.Storage.Airtable.BaseID, cfg.Storage.Airtable.Table), nil
	case "sqlite":
		return sqlite.New(cfg.Storage.SQLite.Path)
	default:
		return memory.New(), nil
	}
}
