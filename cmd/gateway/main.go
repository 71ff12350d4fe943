package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireproof/assess-gateway/internal/attempt"
	"github.com/hireproof/assess-gateway/internal/config"
	"github.com/hireproof/assess-gateway/internal/handler"
	"github.com/hireproof/assess-gateway/internal/logger"
	"github.com/hireproof/assess-gateway/internal/router"
	"github.com/hireproof/assess-gateway/internal/upstream"
	"github.com/hireproof/assess-gateway/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("Starting Attempt Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Upstream API Client ───────────────────────────────────────────
	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)

	// ─── Session Manager + Reaper ──────────────────────────────────────
	manager := attempt.NewManager(client, cfg.SessionTTL, log)

	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	go manager.StartReaper(reaperCtx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Attempt: handler.NewAttemptHandler(manager),
		WS:      handler.NewWSHandler(manager, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Sessions are in-memory; attempts left in flight stay the upstream
	// API's responsibility past their duration.
	reaperCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
